// Package protocol implements the newline-framed wire format shared by the
// quiz server and client.
//
// A server frame is a header line "TYPE:<DISCRIMINANT>" followed by the fixed
// number of payload lines for that discriminant. Client messages are single
// lines. There is no length prefix, so no payload line may contain a newline
// or itself look like a header.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"netquiz/internal/domain"
)

const headerPrefix = "TYPE:"

// maxLineLength bounds a single line read from the peer.
const maxLineLength = 64 * 1024

// Encoder writes frames to an underlying writer, flushing after each one.
type Encoder struct {
	w *bufio.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode validates and writes one typed message.
func (e *Encoder) Encode(m Message) error {
	b, err := Marshal(m)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(b); err != nil {
		return err
	}
	return e.w.Flush()
}

// EncodeLine writes a single client line.
func (e *Encoder) EncodeLine(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("%w: line break in client line", domain.ErrMalformedFrame)
	}
	if _, err := e.w.WriteString(line + "\n"); err != nil {
		return err
	}
	return e.w.Flush()
}

// Marshal returns the wire bytes for m.
func Marshal(m Message) ([]byte, error) {
	n, ok := m.Type.Lines()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownType, m.Type)
	}
	if len(m.Lines) != n {
		return nil, fmt.Errorf("%w: %s expects %d payload lines, got %d", domain.ErrMalformedFrame, m.Type, n, len(m.Lines))
	}

	var sb strings.Builder
	sb.WriteString(headerPrefix)
	sb.WriteString(string(m.Type))
	sb.WriteByte('\n')
	for _, line := range m.Lines {
		if err := checkPayload(line); err != nil {
			return nil, err
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

func checkPayload(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("%w: line break in payload", domain.ErrMalformedFrame)
	}
	if strings.HasPrefix(line, headerPrefix) {
		return fmt.Errorf("%w: payload line looks like a header", domain.ErrMalformedFrame)
	}
	return nil
}

// Decoder reads frames or client lines from a line-buffered stream.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads one typed message. A stream closed cleanly before a header
// yields io.EOF.
func (d *Decoder) Decode() (Message, error) {
	header, err := d.readLine()
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Message{}, fmt.Errorf("%w: partial header", domain.ErrUnexpectedEOF)
		}
		return Message{}, err
	}

	if !strings.HasPrefix(header, headerPrefix) {
		return Message{}, fmt.Errorf("%w: header %q", domain.ErrMalformedFrame, header)
	}
	typ := MessageType(strings.TrimPrefix(header, headerPrefix))
	n, ok := typ.Lines()
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", domain.ErrUnknownType, typ)
	}

	m := Message{Type: typ, Lines: make([]string, 0, n)}
	for i := 0; i < n; i++ {
		line, err := d.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Message{}, fmt.Errorf("%w: %s payload line %d", domain.ErrUnexpectedEOF, typ, i+1)
			}
			return Message{}, err
		}
		if strings.HasPrefix(line, headerPrefix) {
			return Message{}, fmt.Errorf("%w: payload line %q looks like a header", domain.ErrMalformedFrame, line)
		}
		m.Lines = append(m.Lines, line)
	}
	return m, nil
}

// ReadLine reads one client line without its terminator. A final line
// lacking a terminator is returned as-is; the next call reports io.EOF.
func (d *Decoder) ReadLine() (string, error) {
	line, err := d.readLine()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return line, nil
	}
	return line, err
}

// readLine returns io.EOF for a clean end of stream and io.ErrUnexpectedEOF,
// together with the partial text, when the stream ends mid-line.
func (d *Decoder) readLine() (string, error) {
	var buf []byte
	for {
		chunk, err := d.r.ReadSlice('\n')
		if len(buf)+len(chunk) > maxLineLength {
			return "", fmt.Errorf("%w: line exceeds %d bytes", domain.ErrMalformedFrame, maxLineLength)
		}
		buf = append(buf, chunk...)

		switch {
		case err == nil:
			return string(buf[:len(buf)-1]), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(buf) > 0:
			return string(buf), io.ErrUnexpectedEOF
		default:
			return "", err
		}
	}
}
