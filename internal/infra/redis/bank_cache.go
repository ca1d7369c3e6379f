package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"netquiz/internal/app"
	"netquiz/internal/domain"
)

// BankCache keeps bank content in Redis so several quiz servers can share one
// warm copy, and falls back to a loader on cache miss.
// Questions are stored in presentation order as JSON list items:
//
//	RPUSH quiz:bank:{bankID}:questions {question...}
type BankCache struct {
	client redis.UniversalClient
	loader app.BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewBankCache(client redis.UniversalClient, loader app.BankLoader, ttl time.Duration) *BankCache {
	return &BankCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *BankCache) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := c.fromCache(ctx, bankID); ok {
		return bank, nil
	}

	result, err, _ := c.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := c.fromCache(ctx, bankID); ok {
			return bank, nil
		}

		bank, err := c.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		if err := c.store(ctx, bank); err != nil {
			slog.WarnContext(ctx, "redis: cache bank failed", "bank", bankID, "error", err)
		}
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (c *BankCache) fromCache(ctx context.Context, bankID string) (domain.Bank, bool) {
	items, err := c.client.LRange(ctx, c.key(bankID), 0, -1).Result()
	if err != nil || len(items) == 0 {
		return domain.Bank{}, false
	}

	questions := make([]domain.Question, 0, len(items))
	for _, item := range items {
		var q domain.Question
		if err := json.Unmarshal([]byte(item), &q); err != nil {
			slog.WarnContext(ctx, "redis: corrupt cached question", "bank", bankID, "error", err)
			return domain.Bank{}, false
		}
		questions = append(questions, q)
	}

	bank, err := domain.NewBank(bankID, questions)
	if err != nil {
		slog.WarnContext(ctx, "redis: invalid cached bank", "bank", bankID, "error", err)
		return domain.Bank{}, false
	}
	return bank, true
}

func (c *BankCache) store(ctx context.Context, bank domain.Bank) error {
	items := make([]interface{}, 0, bank.Len())
	for _, q := range bank.Questions() {
		b, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question: %w", err)
		}
		items = append(items, string(b))
	}

	key := c.key(bank.ID())
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, items...)
	if ttl := c.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *BankCache) key(bankID string) string {
	return "quiz:bank:" + bankID + ":questions"
}

func (c *BankCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
