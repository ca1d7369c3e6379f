package domain

import (
	"errors"
	"testing"
)

func TestDefaultBank(t *testing.T) {
	b := DefaultBank()

	if b.Len() != 10 {
		t.Fatalf("expected 10 questions, got %d", b.Len())
	}
	if b.TotalPoints() != 100 {
		t.Fatalf("expected 100 total points, got %d", b.TotalPoints())
	}

	want := []string{"6", "Hindi", "2", "Amazon", "Ottawa", "Hydrogen", "Apple", "Nitrogen", "Chinese", "Asia"}
	for i, answer := range want {
		if got := b.At(i).Answer; got != answer {
			t.Fatalf("question %d: expected answer %q, got %q", i+1, answer, got)
		}
	}
}

func TestNewBankValidation(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		want      error
	}{
		{name: "empty", questions: nil, want: ErrEmptyBank},
		{
			name: "duplicate prompt",
			questions: []Question{
				{Prompt: "Q?", Answer: "a", Points: 1},
				{Prompt: "Q?", Answer: "b", Points: 1},
			},
			want: ErrDuplicatePrompt,
		},
		{name: "negative points", questions: []Question{{Prompt: "Q?", Answer: "a", Points: -1}}, want: ErrInvalidQuestion},
		{name: "missing answer", questions: []Question{{Prompt: "Q?", Answer: " ", Points: 1}}, want: ErrInvalidQuestion},
		{name: "line break in hint", questions: []Question{{Prompt: "Q?", Answer: "a", Hint: "x\ny"}}, want: ErrInvalidQuestion},
		{name: "prompt shaped like a header", questions: []Question{{Prompt: "TYPE:SCORE", Answer: "a", Points: 1}}, want: ErrInvalidQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBank("b", tt.questions)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewBankAllowsHeaderTextInsidePrompt(t *testing.T) {
	_, err := NewBank("b", []Question{{Prompt: "What does TYPE:SCORE announce?", Answer: "the end", Points: 1}})
	if err != nil {
		t.Fatalf("expected prompt to be accepted, got %v", err)
	}
}

func TestDefaultBankKeepsTypographicApostrophe(t *testing.T) {
	const want = "8. Which gas makes up the largest proportion of Earth\u2019s atmosphere?"
	if got := DefaultBank().At(7).Prompt; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBankQuestionsIsACopy(t *testing.T) {
	b := DefaultBank()

	qs := b.Questions()
	qs[0].Answer = "tampered"

	if b.At(0).Answer != "6" {
		t.Fatalf("bank mutated through Questions()")
	}
}
