package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/response"
)

// Limiter decides whether one more hit for key fits in the current window.
// retryAfter is only meaningful when allowed is false.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration)
}

// MemoryLimiter is a fixed-window counter for single-instance and mock runs.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	now     func() time.Time
}

type fixedWindow struct {
	count int
	ends  time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*fixedWindow), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.ends) {
		l.windows[key] = &fixedWindow{count: 1, ends: now.Add(window)}
		return true, 0
	}
	if w.count >= limit {
		return false, w.ends.Sub(now)
	}
	w.count++
	return true, 0
}

// INCR then set the expiry on the first hit, atomically. Returns the count and
// the remaining window in milliseconds.
const fixedWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`

// RedisLimiter shares counters between API replicas. Redis errors fail open.
type RedisLimiter struct {
	client redis.UniversalClient
	script *redis.Script
	logger *zap.Logger
}

func NewRedisLimiter(client redis.UniversalClient, logger *zap.Logger) *RedisLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{client: client, script: redis.NewScript(fixedWindowScript), logger: logger}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	res, err := l.script.Run(ctx, l.client, []string{"talent-factory:ratelimit:" + key}, window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
		return true, 0
	}
	if res[0] > int64(limit) {
		return false, time.Duration(res[1]) * time.Millisecond
	}
	return true, 0
}

// RateLimit throttles per key. Requests with an empty key, a nil limiter or a
// non-positive limit pass through.
func RateLimit(limiter Limiter, keyFn func(*gin.Context) string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if limiter == nil || key == "" || limit <= 0 || window <= 0 {
			c.Next()
			return
		}
		allowed, retryAfter := limiter.Allow(c.Request.Context(), key, limit, window)
		if !allowed {
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			response.Error(c, appErrors.Clone(appErrors.ErrTooManyRequests, fmt.Sprintf("limit of %d per %s reached", limit, window)))
			c.Abort()
			return
		}
		c.Next()
	}
}

// PerActor keys the limit on the authenticated user and the route template.
func PerActor(c *gin.Context) string {
	claims := CurrentUser(c)
	if claims == nil {
		return ""
	}
	return claims.UserID + ":" + c.FullPath()
}
