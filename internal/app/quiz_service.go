package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"netquiz/internal/domain"
	"netquiz/internal/protocol"
)

// DefaultMaxHints is the per-session hint budget when none is configured.
const DefaultMaxHints = 5

// BankRepository resolves the question bank sessions play. Implementations
// must return the same bank for the lifetime of the server.
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankLoader fetches bank content from a backing store (file, DB, cache).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// SessionRepository keeps track of live sessions (in-memory, Redis, etc).
// Touch is called on every graded answer so stores with expiring entries
// can keep an active session alive.
type SessionRepository interface {
	Register(ctx context.Context, info SessionInfo)
	Touch(ctx context.Context, sessionID string)
	Deregister(ctx context.Context, sessionID string)
	Count() int
}

// Conn is the participant side of a session: typed messages out, lines in.
type Conn interface {
	Send(m protocol.Message) error
	ReadLine() (string, error)
}

// Recorder observes session activity, typically for metrics.
type Recorder interface {
	SessionStarted()
	SessionCompleted(score, total int)
	SessionAborted()
	HintRequested(granted bool)
	AnswerGraded(correct bool)
}

// SessionInfo is the registry view of a live session.
type SessionInfo struct {
	ID         string    `json:"id"`
	RemoteAddr string    `json:"remoteAddr"`
	StartedAt  time.Time `json:"startedAt"`
}

// Result summarizes a finished or aborted session.
type Result struct {
	SessionID string
	Score     int
	Total     int
	HintsLeft int
	Graded    int
	Completed bool
}

// QuizService drives participants through the question bank.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	bankID   string
	maxHints int
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*QuizService)

// WithBankID selects the bank sessions play.
func WithBankID(id string) Option {
	return func(s *QuizService) { s.bankID = id }
}

// WithMaxHints sets the per-session hint budget. Negative values mean zero.
func WithMaxHints(n int) Option {
	return func(s *QuizService) {
		if n < 0 {
			n = 0
		}
		s.maxHints = n
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *QuizService) { s.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *QuizService) { s.logger = l }
}

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

func NewQuizService(store SessionRepository, banks BankRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions: store,
		banks:    banks,
		bankID:   domain.DefaultBankID,
		maxHints: DefaultMaxHints,
		recorder: nopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActiveSessions reports how many sessions are in flight.
func (s *QuizService) ActiveSessions() int {
	return s.sessions.Count()
}

// Play runs one participant from greeting to score. The caller owns conn and
// closes it once Play returns. A non-nil error means the session ended
// without a SCORE message.
func (s *QuizService) Play(ctx context.Context, conn Conn, remoteAddr string) (Result, error) {
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return Result{}, fmt.Errorf("load bank %q: %w", s.bankID, err)
	}

	session := newSession(bank, s.maxHints)
	logger := s.logger.With("session", session.ID, "remote", remoteAddr)

	s.sessions.Register(ctx, SessionInfo{ID: session.ID, RemoteAddr: remoteAddr, StartedAt: s.now()})
	defer s.sessions.Deregister(context.WithoutCancel(ctx), session.ID)

	s.recorder.SessionStarted()
	logger.InfoContext(ctx, "session: started", "questions", bank.Len(), "hints", s.maxHints)

	err = s.run(ctx, session, conn)
	res := session.result()
	if err != nil {
		s.recorder.SessionAborted()
		logger.ErrorContext(ctx, "session: terminated", "error", err, "question", session.index, "score", session.score)
		return res, err
	}

	s.recorder.SessionCompleted(res.Score, res.Total)
	logger.InfoContext(ctx, "session: completed", "score", res.Score, "total", res.Total)
	return res, nil
}

type state int

const (
	stateGreeting state = iota
	stateQuestioning
	stateAwaitingAnswer
	stateHintRequest
	stateGrading
	stateReporting
	stateTerminal
)

func (st state) String() string {
	switch st {
	case stateGreeting:
		return "GREETING"
	case stateQuestioning:
		return "QUESTIONING"
	case stateAwaitingAnswer:
		return "AWAITING_ANSWER"
	case stateHintRequest:
		return "HINT_REQUEST"
	case stateGrading:
		return "GRADING"
	case stateReporting:
		return "REPORTING"
	default:
		return "TERMINAL"
	}
}

// run is the per-session state machine. Every exit other than REPORTING ->
// TERMINAL returns an error and skips SCORE.
func (s *QuizService) run(ctx context.Context, session *Session, conn Conn) error {
	var answer string

	for st := stateGreeting; st != stateTerminal; {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", st, err)
		}

		switch st {
		case stateGreeting:
			if err := send(conn, protocol.NewWelcome(s.greeting(session))); err != nil {
				return err
			}
			st = stateQuestioning

		case stateQuestioning:
			q := session.current()
			if err := send(conn, protocol.NewQuestion(q.Prompt, q.Points)); err != nil {
				return err
			}
			st = stateAwaitingAnswer

		case stateAwaitingAnswer:
			line, err := receive(conn)
			if err != nil {
				return err
			}
			if isHintRequest(line) {
				st = stateHintRequest
				continue
			}
			answer = line
			st = stateGrading

		case stateHintRequest:
			msg, granted := session.takeHint()
			s.recorder.HintRequested(granted)
			if err := send(conn, msg); err != nil {
				return err
			}
			// Whatever follows a hint reply is the answer, even another "hint".
			line, err := receive(conn)
			if err != nil {
				return err
			}
			answer = line
			st = stateGrading

		case stateGrading:
			q := session.current()
			correct := session.grade(answer)
			s.recorder.AnswerGraded(correct)
			s.sessions.Touch(ctx, session.ID)

			msg := protocol.NewIncorrect(q.Answer)
			if correct {
				msg = protocol.NewCorrect()
			}
			if err := send(conn, msg); err != nil {
				return err
			}
			if session.advance() {
				st = stateQuestioning
			} else {
				st = stateReporting
			}

		case stateReporting:
			if err := send(conn, protocol.NewScore(session.score, session.bank.TotalPoints())); err != nil {
				return err
			}
			session.completed = true
			st = stateTerminal
		}
	}
	return nil
}

func (s *QuizService) greeting(session *Session) string {
	return fmt.Sprintf("Welcome to the Quiz! You have %d questions and %d hints available. Good luck!",
		session.bank.Len(), session.hintsLeft)
}

func send(conn Conn, m protocol.Message) error {
	if err := conn.Send(m); err != nil {
		return fmt.Errorf("%w: send %s: %w", domain.ErrConnectionLost, m.Type, err)
	}
	return nil
}

func receive(conn Conn) (string, error) {
	line, err := conn.ReadLine()
	if err != nil {
		return "", fmt.Errorf("%w: read answer: %w", domain.ErrConnectionLost, err)
	}
	return line, nil
}

type nopRecorder struct{}

func (nopRecorder) SessionStarted()           {}
func (nopRecorder) SessionCompleted(_, _ int) {}
func (nopRecorder) SessionAborted()           {}
func (nopRecorder) HintRequested(bool)        {}
func (nopRecorder) AnswerGraded(bool)         {}
