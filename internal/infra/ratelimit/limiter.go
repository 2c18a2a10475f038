package ratelimit

import (
	"context"
	"time"
)

// Limiter 以key區分的限流器
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type LimiterConfig struct {
	Capacity int
	RatePS   float64 // tokens/秒
	// 超過此時間沒有請求的 bucket 會被清掉
	IdleTTL time.Duration
}

func (c LimiterConfig) withDefaults() LimiterConfig {
	d := GetDefaultLimiterConfig()
	if c.Capacity <= 0 {
		c.Capacity = d.Capacity
	}
	if c.RatePS <= 0 {
		c.RatePS = d.RatePS
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = d.IdleTTL
	}
	return c
}

func GetDefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Capacity: 20,
		RatePS:   10,
		IdleTTL:  time.Minute,
	}
}
