// Package limits enforces per-key rate limits over fixed minute windows.
package limits

import (
	"sync"
	"time"

	"ditto-go/internal/shared"
)

type window struct {
	minute   int64
	requests uint32
	tokens   uint32
}

type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{windows: make(map[string]*window)}
}

// Allow charges one request plus the estimated tokens against the key's
// current minute window. A request that would exceed either limit
// consumes nothing.
func (rl *RateLimiter) Allow(keyID string, limits shared.Limits, tokens uint32, now time.Time) error {
	if limits.RPM == 0 && limits.TPM == 0 {
		return nil
	}
	minute := now.Unix() / 60

	rl.mu.Lock()
	defer rl.mu.Unlock()
	w := rl.windows[keyID]
	if w == nil {
		w = &window{minute: minute}
		rl.windows[keyID] = w
	}
	if w.minute != minute {
		w.minute = minute
		w.requests = 0
		w.tokens = 0
	}
	if limits.RPM > 0 && w.requests+1 > limits.RPM {
		return &shared.LimitError{Kind: "rpm", Limit: limits.RPM}
	}
	if limits.TPM > 0 && w.tokens+tokens > limits.TPM {
		return &shared.LimitError{Kind: "tpm", Limit: limits.TPM}
	}
	w.requests++
	w.tokens += tokens
	return nil
}
