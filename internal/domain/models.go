package domain

import (
	"fmt"
	"strings"
)

// Question is a single quiz item. Values are copied out of a Bank, so a
// Question held by a session never aliases bank storage.
type Question struct {
	Prompt string `json:"prompt" yaml:"prompt"`
	Answer string `json:"answer" yaml:"answer"`
	Hint   string `json:"hint" yaml:"hint"`
	Points int    `json:"points" yaml:"points"`
}

// Bank is an ordered, read-only sequence of questions. Position is
// presentation order.
type Bank struct {
	id        string
	questions []Question
	total     int
}

// NewBank validates questions and freezes them into a Bank.
func NewBank(id string, questions []Question) (Bank, error) {
	if len(questions) == 0 {
		return Bank{}, ErrEmptyBank
	}

	seen := make(map[string]struct{}, len(questions))
	frozen := make([]Question, len(questions))
	total := 0
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return Bank{}, fmt.Errorf("question %d: %w", i+1, err)
		}
		if _, dup := seen[q.Prompt]; dup {
			return Bank{}, fmt.Errorf("question %d %q: %w", i+1, q.Prompt, ErrDuplicatePrompt)
		}
		seen[q.Prompt] = struct{}{}
		frozen[i] = q
		total += q.Points
	}

	return Bank{id: id, questions: frozen, total: total}, nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("%w: empty answer", ErrInvalidQuestion)
	}
	if q.Points < 0 {
		return fmt.Errorf("%w: negative points %d", ErrInvalidQuestion, q.Points)
	}
	for _, field := range []string{q.Prompt, q.Answer, q.Hint} {
		if strings.ContainsAny(field, "\r\n") {
			return fmt.Errorf("%w: line break in %q", ErrInvalidQuestion, field)
		}
	}
	// the prompt opens a QUESTION payload and must not read as a frame header
	if strings.HasPrefix(q.Prompt, "TYPE:") {
		return fmt.Errorf("%w: prompt %q looks like a frame header", ErrInvalidQuestion, q.Prompt)
	}
	return nil
}

// ID names the bank in its backing store.
func (b Bank) ID() string { return b.id }

// Len returns the number of questions.
func (b Bank) Len() int { return len(b.questions) }

// At returns the question at position i.
func (b Bank) At(i int) Question { return b.questions[i] }

// TotalPoints is the sum of all point values, the score denominator.
func (b Bank) TotalPoints() int { return b.total }

// Questions returns a copy of the questions in order.
func (b Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// IsZero reports whether b was never built by NewBank.
func (b Bank) IsZero() bool { return len(b.questions) == 0 }
