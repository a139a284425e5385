// Package usage aggregates per-key request and token counters.
package usage

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"ditto-go/internal/shared"
)

// Ledger records what each virtual key consumed.
type Ledger interface {
	Record(ctx context.Context, keyID string, promptTokens, completionTokens uint64) error
	All(ctx context.Context) ([]shared.UsageStats, error)
}

type MemoryLedger struct {
	mu    sync.Mutex
	stats map[string]*shared.UsageStats
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{stats: make(map[string]*shared.UsageStats)}
}

func (l *MemoryLedger) Record(ctx context.Context, keyID string, promptTokens, completionTokens uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.stats[keyID]
	if s == nil {
		s = &shared.UsageStats{KeyID: keyID}
		l.stats[keyID] = s
	}
	s.Requests++
	s.PromptTokens += promptTokens
	s.CompletionTokens += completionTokens
	return nil
}

func (l *MemoryLedger) All(ctx context.Context) ([]shared.UsageStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stats := make([]shared.UsageStats, 0, len(l.stats))
	for _, s := range l.stats {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].KeyID < stats[j].KeyID })
	return stats, nil
}

const (
	redisHashPrefix = "usage:"
	redisKeySet     = "usage:keys"
)

// RedisLedger keeps counters in redis hashes so several gateway
// instances can share one ledger.
type RedisLedger struct {
	rdb *redis.Client
}

func NewRedisLedger(rdb *redis.Client) *RedisLedger {
	return &RedisLedger{rdb: rdb}
}

func (l *RedisLedger) Record(ctx context.Context, keyID string, promptTokens, completionTokens uint64) error {
	pipe := l.rdb.TxPipeline()
	pipe.SAdd(ctx, redisKeySet, keyID)
	hash := redisHashPrefix + keyID
	pipe.HIncrBy(ctx, hash, "requests", 1)
	pipe.HIncrBy(ctx, hash, "prompt_tokens", int64(promptTokens))
	pipe.HIncrBy(ctx, hash, "completion_tokens", int64(completionTokens))
	_, err := pipe.Exec(ctx)
	return err
}

func (l *RedisLedger) All(ctx context.Context) ([]shared.UsageStats, error) {
	ids, err := l.rdb.SMembers(ctx, redisKeySet).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	stats := make([]shared.UsageStats, 0, len(ids))
	for _, id := range ids {
		fields, err := l.rdb.HGetAll(ctx, redisHashPrefix+id).Result()
		if err != nil {
			return nil, err
		}
		stats = append(stats, shared.UsageStats{
			KeyID:            id,
			Requests:         parseCounter(fields["requests"]),
			PromptTokens:     parseCounter(fields["prompt_tokens"]),
			CompletionTokens: parseCounter(fields["completion_tokens"]),
		})
	}
	return stats, nil
}

func parseCounter(raw string) uint64 {
	v, _ := strconv.ParseUint(raw, 10, 64)
	return v
}
