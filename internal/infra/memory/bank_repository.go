package memory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"netquiz/internal/app"
	"netquiz/internal/domain"
)

// BankRepository pins each bank in memory after its first load so every
// session on this server sees the same questions in the same order.
type BankRepository struct {
	loader app.BankLoader
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[string]domain.Bank
}

func NewBankRepository(loader app.BankLoader) *BankRepository {
	return &BankRepository{
		loader: loader,
		cache:  make(map[string]domain.Bank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := r.cached(bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		if bank, ok := r.cached(bankID); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.cache[bankID] = bank
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// Warm loads bankID ahead of the first session so a broken source fails
// server start rather than the first participant.
func (r *BankRepository) Warm(ctx context.Context, bankID string) (domain.Bank, error) {
	bank, err := r.GetBank(ctx, bankID)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("warm bank %q: %w", bankID, err)
	}
	return bank, nil
}

func (r *BankRepository) cached(bankID string) (domain.Bank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bank, ok := r.cache[bankID]
	return bank, ok
}

// StaticBankLoader is a loader backed by an in-memory map (compiled-in banks, tests).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks map[string]domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, bankID)
}
