package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Fixed window counter. Returns {allowed, ttl_ms}.
var fixedWindowScript = goredis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
	ttl = tonumber(ARGV[2])
end
if current > tonumber(ARGV[1]) then
	return {0, ttl}
end
return {1, ttl}
`)

// RedisLimiter shares limits across API instances. A rule admits Burst
// requests per window of Burst/Rate seconds.
type RedisLimiter struct {
	client goredis.Scripter
	prefix string
}

func NewRedisLimiter(client goredis.Scripter, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration, error) {
	if l == nil || l.client == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0, nil
	}
	window := windowFor(rule)
	res, err := fixedWindowScript.Run(ctx, l.client,
		[]string{fmt.Sprintf("%s:%s", l.prefix, key)},
		rule.Burst, window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}
	if res[0] == 1 {
		return true, 0, nil
	}
	return false, time.Duration(res[1]) * time.Millisecond, nil
}

func windowFor(rule RateLimitRule) time.Duration {
	secs := float64(rule.Burst) / rule.Rate
	ms := int64(math.Round(secs * 1000))
	if ms < 1000 {
		ms = 1000
	}
	return time.Duration(ms) * time.Millisecond
}
