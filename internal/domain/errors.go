package domain

import "errors"

var (
	// ErrEmptyBank is returned when a bank would contain no questions.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrDuplicatePrompt is returned when two questions share a prompt.
	ErrDuplicatePrompt = errors.New("duplicate question prompt")
	// ErrInvalidQuestion indicates a question that cannot be put on the wire.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrBankNotFound indicates the bank could not be loaded from any source.
	ErrBankNotFound = errors.New("question bank not found")

	// ErrMalformedFrame is returned when a frame header or payload breaks the framing rules.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrUnexpectedEOF is returned when the stream ends inside a frame.
	ErrUnexpectedEOF = errors.New("unexpected EOF inside frame")
	// ErrUnknownType is returned for a discriminant outside the known set.
	ErrUnknownType = errors.New("unknown message type")

	// ErrConnectionLost means the peer went away or the socket failed mid-session.
	ErrConnectionLost = errors.New("connection lost")
	// ErrConfigMissing means server_info.dat was absent or unreadable.
	ErrConfigMissing = errors.New("client configuration missing")
	// ErrConnectFailed means the client could not reach the server.
	ErrConnectFailed = errors.New("connect failed")
	// ErrSendFailed means an answer could not be written to the server.
	ErrSendFailed = errors.New("send failed")
)
