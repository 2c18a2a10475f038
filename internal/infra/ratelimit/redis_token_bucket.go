package ratelimit

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "ratelimit:"

// 回傳 1 表示允許
// 時間取 redis server 的 TIME，各 instance 時鐘不一致也不影響
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local t = redis.call('TIME')
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1])
local lastRefill = tonumber(bucket[2])

if tokens == nil then
	tokens = capacity
	lastRefill = now
end

local elapsed = math.max(0, now - lastRefill) / 1000
lastRefill = math.max(now, lastRefill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'last_refill', tostring(lastRefill))
redis.call('PEXPIRE', key, ttl)
return allowed
`)

// RedisTokenBucket 多個instance共用的限流器
// redis 錯誤時放行
type RedisTokenBucket struct {
	cfg    LimiterConfig
	client redis.Scripter
	logger zerolog.Logger
}

func NewRedisTokenBucket(client redis.Scripter, cfg LimiterConfig, logger zerolog.Logger) *RedisTokenBucket {
	return &RedisTokenBucket{
		cfg:    cfg.withDefaults(),
		client: client,
		logger: logger,
	}
}

func (r *RedisTokenBucket) Allow(ctx context.Context, key string) bool {
	result, err := tokenBucketScript.Run(
		ctx,
		r.client,
		[]string{redisKeyPrefix + key},
		r.cfg.Capacity,
		r.cfg.RatePS,
		r.cfg.IdleTTL.Milliseconds(),
	).Int64()
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("redis rate limit failed, allowing request")
		return true
	}
	return result == 1
}

var (
	_ Limiter = (*TokenBucket)(nil)
	_ Limiter = (*RedisTokenBucket)(nil)
)
