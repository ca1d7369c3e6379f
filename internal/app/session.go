package app

import (
	"strings"

	"github.com/google/uuid"

	"netquiz/internal/domain"
	"netquiz/internal/protocol"
)

const hintCommand = "hint"

// Session is one participant's progress through a bank. It is owned by the
// goroutine running Play and never shared.
type Session struct {
	ID string

	bank      domain.Bank
	score     int
	hintsLeft int
	index     int
	graded    int
	completed bool
}

func newSession(bank domain.Bank, maxHints int) *Session {
	return &Session{
		ID:        uuid.NewString(),
		bank:      bank,
		hintsLeft: maxHints,
	}
}

func (s *Session) Score() int     { return s.score }
func (s *Session) HintsLeft() int { return s.hintsLeft }
func (s *Session) Index() int     { return s.index }

func (s *Session) current() domain.Question {
	return s.bank.At(s.index)
}

// takeHint spends one hint on the current question if any remain.
func (s *Session) takeHint() (protocol.Message, bool) {
	if s.hintsLeft <= 0 {
		return protocol.NewNoHints(), false
	}
	s.hintsLeft--
	return protocol.NewHint(s.current().Hint, s.hintsLeft), true
}

// grade scores answer against the current question.
func (s *Session) grade(answer string) bool {
	q := s.current()
	s.graded++
	if !matches(answer, q.Answer) {
		return false
	}
	s.score += q.Points
	return true
}

// advance moves to the next question and reports whether one exists.
func (s *Session) advance() bool {
	s.index++
	return s.index < s.bank.Len()
}

func (s *Session) result() Result {
	return Result{
		SessionID: s.ID,
		Score:     s.score,
		Total:     s.bank.TotalPoints(),
		HintsLeft: s.hintsLeft,
		Graded:    s.graded,
		Completed: s.completed,
	}
}

func isHintRequest(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), hintCommand)
}

func matches(answer, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(canonical))
}
