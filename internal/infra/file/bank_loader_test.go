package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"netquiz/internal/domain"
)

const sampleBank = `id: capitals
questions:
  - prompt: What is the capital of Canada?
    answer: Ottawa
    hint: Not Toronto or Vancouver.
    points: 15
  - prompt: What is the capital of Japan?
    answer: Tokyo
    points: 5
`

func TestBankLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	if err := os.WriteFile(path, []byte(sampleBank), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	bank, err := NewBankLoader(path).LoadBank(context.Background(), "capitals")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bank.Len() != 2 || bank.TotalPoints() != 20 {
		t.Fatalf("unexpected bank: len=%d total=%d", bank.Len(), bank.TotalPoints())
	}
	if q := bank.At(0); q.Answer != "Ottawa" || q.Hint != "Not Toronto or Vancouver." {
		t.Fatalf("unexpected first question %+v", q)
	}

	if _, err := NewBankLoader(path).LoadBank(context.Background(), "other"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected id mismatch to be not found, got %v", err)
	}
}

func TestBankLoaderErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewBankLoader(filepath.Join(dir, "missing.yaml")).LoadBank(context.Background(), "x"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	dup := filepath.Join(dir, "dup.yaml")
	content := "questions:\n  - {prompt: Q, answer: a}\n  - {prompt: Q, answer: b}\n"
	if err := os.WriteFile(dup, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewBankLoader(dup).LoadBank(context.Background(), "x"); !errors.Is(err, domain.ErrDuplicatePrompt) {
		t.Fatalf("expected duplicate prompt, got %v", err)
	}
}
