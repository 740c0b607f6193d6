package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// FixedWindowLimiter counts requests per key in fixed time slots.
type FixedWindowLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewFixedWindowLimiter allows limit requests per key in each window.
func NewFixedWindowLimiter(client *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) (*FixedWindowLimiter, error) {
	if client == nil {
		return nil, errors.New("limiter: redis client is required")
	}
	if limit <= 0 || window < time.Millisecond {
		return nil, errors.New("limiter: positive limit and window required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "stations:ratelimit"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixedWindowLimiter{client: client, prefix: prefix, limit: limit, window: window, logger: logger, now: time.Now}, nil
}

// Allow reports whether key is within quota. Redis errors are logged and
// deny the request.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}

	windowMs := l.window.Milliseconds()
	slot := l.now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	count, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		l.logger.Warn("rate limit check failed", zap.String("key", redisKey), zap.Error(err))
		return false
	}
	return count <= int64(l.limit)
}
