package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"library-api/internal/config"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	unknownClientIP     = "unknown"
	redisKeyPrefix      = "library:ratelimit:"
	limiterIdleInterval = 10 * time.Minute
)

// limiter decides whether the client identified by key may proceed.
type limiter interface {
	allow(ctx context.Context, key string) (bool, error)
}

// memoryLimiter keeps one token bucket per client in process memory.
type memoryLimiter struct {
	limiters sync.Map
	rps      float64
	burst    int
}

func newMemoryLimiter(cfg config.RateLimitConfig) *memoryLimiter {
	return &memoryLimiter{rps: cfg.RPS, burst: cfg.Burst}
}

func (m *memoryLimiter) allow(_ context.Context, key string) (bool, error) {
	l, _ := m.limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(m.rps), m.burst))
	return l.(*rate.Limiter).Allow(), nil
}

// sweep drops buckets that have refilled completely.
func (m *memoryLimiter) sweep(now time.Time) {
	m.limiters.Range(func(key, value interface{}) bool {
		l := value.(*rate.Limiter)
		if l.TokensAt(now) >= float64(m.burst) {
			m.limiters.Delete(key)
		}
		return true
	})
}

func (m *memoryLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(limiterIdleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

// redisLimiter is a fixed window counter shared by every API instance.
type redisLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func newRedisLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *redisLimiter {
	limit := int64(math.Ceil(cfg.RPS))
	if int64(cfg.Burst) > limit {
		limit = int64(cfg.Burst)
	}
	return &redisLimiter{client: client, limit: limit, window: time.Second}
}

func (rl *redisLimiter) allow(ctx context.Context, key string) (bool, error) {
	key = redisKeyPrefix + key

	pipe := rl.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("rate limit pipeline failed: %w", err)
	}

	count, err := incrCmd.Result()
	if err != nil {
		return true, fmt.Errorf("rate limit increment failed: %w", err)
	}

	// -1 means no expiry set, -2 means the key vanished between commands.
	if ttl, err := ttlCmd.Result(); err == nil && (ttl == -1 || ttl == -2) {
		if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
			return count <= rl.limit, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}

	return count <= rl.limit, nil
}

type RateLimiterMiddleware struct {
	limiter limiter
	cfg     config.RateLimitConfig
	logger  *slog.Logger
}

// NewRateLimiterMiddleware limits requests per client IP. With a redis
// client the budget is shared across instances; otherwise each process
// keeps its own buckets until ctx is cancelled.
func NewRateLimiterMiddleware(ctx context.Context, cfg config.RateLimitConfig, redisClient redis.Cmdable, logger *slog.Logger) *RateLimiterMiddleware {
	logger = logger.With("component", "RateLimiter")
	rl := &RateLimiterMiddleware{cfg: cfg, logger: logger}

	switch {
	case !cfg.Enabled:
		logger.Info("Rate limiting is disabled via configuration.")
	case redisClient != nil:
		rl.limiter = newRedisLimiter(redisClient, cfg)
		logger.Info("Rate limiter configured", "backend", "redis", "rps", cfg.RPS, "burst", cfg.Burst)
	default:
		mem := newMemoryLimiter(cfg)
		go mem.cleanup(ctx)
		rl.limiter = mem
		logger.Info("Rate limiter configured", "backend", "memory", "rps", cfg.RPS, "burst", cfg.Burst)
	}

	return rl
}

func (rl *RateLimiterMiddleware) IsEnabled() bool {
	return rl.cfg.Enabled && rl.limiter != nil
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" && net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
		return parsed.String()
	}
	return unknownClientIP
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.IsEnabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)
		if ip == unknownClientIP {
			rl.logger.WarnContext(r.Context(), "Could not determine client IP", "remoteAddr", r.RemoteAddr)
		}

		allowed, err := rl.limiter.allow(r.Context(), ip)
		if err != nil {
			rl.logger.ErrorContext(r.Context(), "Rate limit check failed", "ip", ip, slog.Any("error", err))
		}
		if !allowed {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip)
			w.Header().Set("Retry-After", "1")
			writeErrors(w, http.StatusTooManyRequests, "Rate limit exceeded.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
