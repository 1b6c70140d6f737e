package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"library-api/internal/config"

	"github.com/redis/go-redis/v9"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := config.RateLimitConfig{
		Enabled: true,
		RPS:     1,
		Burst:   1,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	middleware := NewRateLimiterMiddleware(ctx, cfg, nil, logger)

	t.Run("allows requests under the rate limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.1.1:12345"
		rec := httptest.NewRecorder()

		middleware.Middleware(okHandler()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})

	t.Run("blocks requests exceeding the rate limit", func(t *testing.T) {
		handler := middleware.Middleware(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:12345"

		rec1 := httptest.NewRecorder()
		handler.ServeHTTP(rec1, req)
		if rec1.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec1.Code)
		}

		rec2 := httptest.NewRecorder()
		handler.ServeHTTP(rec2, req)
		if rec2.Code != http.StatusTooManyRequests {
			t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, rec2.Code)
		}
		if rec2.Header().Get("Retry-After") == "" {
			t.Errorf("expected Retry-After header")
		}

		var response struct {
			Errors []string `json:"errors"`
		}
		if err := json.NewDecoder(rec2.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(response.Errors) != 1 || response.Errors[0] != "Rate limit exceeded." {
			t.Errorf("unexpected error body: %v", response)
		}
	})

	t.Run("extractIP handles various headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1")
		if ip := middleware.extractIP(req); ip != "192.168.1.1" {
			t.Errorf("expected IP %s, got %s", "192.168.1.1", ip)
		}

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		if ip := middleware.extractIP(req); ip != "10.0.0.1" {
			t.Errorf("expected IP %s, got %s", "10.0.0.1", ip)
		}

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "not-an-ip")
		req.RemoteAddr = "127.0.0.1:12345"
		if ip := middleware.extractIP(req); ip != "127.0.0.1" {
			t.Errorf("expected IP %s, got %s", "127.0.0.1", ip)
		}
	})
}

func TestRateLimiterMiddleware_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	middleware := NewRateLimiterMiddleware(context.Background(), config.RateLimitConfig{Enabled: false}, nil, logger)

	if middleware.IsEnabled() {
		t.Fatal("expected limiter to be disabled")
	}

	next := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		middleware.Middleware(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected status %d, got %d", i, http.StatusOK, rec.Code)
		}
	}
}

func TestRateLimiterMiddleware_RedisUnavailableFailsOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	middleware := NewRateLimiterMiddleware(context.Background(), config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, client, logger)
	if _, ok := middleware.limiter.(*redisLimiter); !ok {
		t.Fatalf("expected redis limiter, got %T", middleware.limiter)
	}

	handler := middleware.Middleware(okHandler())
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected status %d, got %d", i, http.StatusOK, rec.Code)
		}
	}
}

func TestNewRedisLimiter_UsesLargerOfRateAndBurst(t *testing.T) {
	if got := newRedisLimiter(nil, config.RateLimitConfig{RPS: 2.5, Burst: 1}).limit; got != 3 {
		t.Errorf("expected limit 3, got %d", got)
	}
	if got := newRedisLimiter(nil, config.RateLimitConfig{RPS: 1, Burst: 10}).limit; got != 10 {
		t.Errorf("expected limit 10, got %d", got)
	}
}

func TestMemoryLimiter_SweepDropsRefilledBuckets(t *testing.T) {
	m := newMemoryLimiter(config.RateLimitConfig{RPS: 1, Burst: 1})

	if ok, _ := m.allow(context.Background(), "127.0.0.1"); !ok {
		t.Fatal("expected first request to pass")
	}

	m.sweep(time.Now())
	if _, exists := m.limiters.Load("127.0.0.1"); !exists {
		t.Fatal("drained bucket should be kept")
	}

	m.sweep(time.Now().Add(2 * time.Second))
	if _, exists := m.limiters.Load("127.0.0.1"); exists {
		t.Error("refilled bucket should be dropped")
	}
}
