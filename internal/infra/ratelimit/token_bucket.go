package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// TokenBucket 單機版，每個key一個bucket
// 補充 token 在 Allow 時依經過時間計算
type TokenBucket struct {
	cfg     LimiterConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	lastGC  time.Time
}

func NewTokenBucket(cfg LimiterConfig) *TokenBucket {
	return &TokenBucket{
		cfg:     cfg.withDefaults(),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (t *TokenBucket) Allow(_ context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.gc(now)

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(t.cfg.Capacity), lastRefill: now}
		t.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = math.Min(float64(t.cfg.Capacity), b.tokens+elapsed*t.cfg.RatePS)
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// 閒置的 bucket 已補滿，刪掉等同重建
func (t *TokenBucket) gc(now time.Time) {
	if now.Sub(t.lastGC) < t.cfg.IdleTTL {
		return
	}
	t.lastGC = now
	for key, b := range t.buckets {
		if now.Sub(b.lastRefill) >= t.cfg.IdleTTL {
			delete(t.buckets, key)
		}
	}
}
