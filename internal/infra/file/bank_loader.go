package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"netquiz/internal/domain"
)

// bankDocument is the on-disk YAML layout:
//
//	id: general
//	questions:
//	  - prompt: What is the capital of Canada?
//	    answer: Ottawa
//	    hint: Not Toronto or Vancouver.
//	    points: 15
type bankDocument struct {
	ID        string            `yaml:"id"`
	Questions []domain.Question `yaml:"questions"`
}

// BankLoader reads a single bank from a YAML file.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

// LoadBank returns the bank in the file. An id in the file, when present,
// must match bankID.
func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, l.path)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read bank file: %w", err)
	}

	var doc bankDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Bank{}, fmt.Errorf("parse bank file %s: %w", l.path, err)
	}
	if doc.ID != "" && doc.ID != bankID {
		return domain.Bank{}, fmt.Errorf("%w: %s holds bank %q, not %q", domain.ErrBankNotFound, l.path, doc.ID, bankID)
	}
	return domain.NewBank(bankID, doc.Questions)
}
