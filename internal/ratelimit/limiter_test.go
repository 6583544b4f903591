package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*SlidingWindow, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSlidingWindow(client, "ratelimit:test", limit, window, discardLogger()), mr
}

func TestSlidingWindowAllowsUpToLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("allow failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if res.Remaining != 3-(i+1) {
			t.Errorf("remaining after request %d = %d, want %d", i+1, res.Remaining, 3-(i+1))
		}
	}

	res, err := limiter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("allow failed: %v", err)
	}
	if res.Allowed {
		t.Error("fourth request should be rejected")
	}
	if res.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", res.Remaining)
	}
}

func TestSlidingWindowKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if res, _ := limiter.Allow(ctx, "1.1.1.1"); !res.Allowed {
		t.Fatal("first client should be allowed")
	}
	if res, _ := limiter.Allow(ctx, "1.1.1.1"); res.Allowed {
		t.Fatal("first client second request should be rejected")
	}
	if res, _ := limiter.Allow(ctx, "2.2.2.2"); !res.Allowed {
		t.Fatal("other client must not share the window")
	}
}

func TestSlidingWindowSlides(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	base := time.Now()
	limiter.now = func() time.Time { return base }

	if res, _ := limiter.Allow(ctx, "1.2.3.4"); !res.Allowed {
		t.Fatal("first request should be allowed")
	}
	if res, _ := limiter.Allow(ctx, "1.2.3.4"); res.Allowed {
		t.Fatal("second request inside the window should be rejected")
	}

	// After the window passes, the old entries age out.
	limiter.now = func() time.Time { return base.Add(time.Minute + time.Second) }
	res, err := limiter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("allow failed: %v", err)
	}
	if !res.Allowed {
		t.Error("request after the window expired should be allowed")
	}
}

func TestNoopAlwaysAllows(t *testing.T) {
	var limiter Noop
	for i := 0; i < 100; i++ {
		res, err := limiter.Allow(context.Background(), "anyone")
		if err != nil || !res.Allowed {
			t.Fatalf("noop limiter must always allow, got %+v err %v", res, err)
		}
	}
}

func TestMiddlewareRejectsWithHeaders(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	e := echo.New()
	handler := Middleware(limiter, discardLogger())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	call := func() (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
		req.Header.Set("X-Forwarded-For", "9.9.9.9")
		rec := httptest.NewRecorder()
		return rec, handler(e.NewContext(req, rec))
	}

	rec, err := call()
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Errorf("X-RateLimit-Limit = %q", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec, err = call()
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be 429, got %v", err)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing on rejection")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", rec.Header().Get("X-RateLimit-Remaining"))
	}

	apiErr, ok := he.Message.(*shared.APIError)
	if !ok {
		t.Fatalf("429 body should be *shared.APIError, got %T", he.Message)
	}
	if apiErr.Code != "rate_limited" {
		t.Errorf("error code = %q, want rate_limited", apiErr.Code)
	}
	details, ok := apiErr.Details.(map[string]int)
	if !ok {
		t.Fatalf("429 details should carry the retry hint, got %T", apiErr.Details)
	}
	if details["retryAfterSeconds"] < 1 {
		t.Errorf("retryAfterSeconds = %d, want at least 1", details["retryAfterSeconds"])
	}
}

func TestMiddlewareFailsOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	e := echo.New()
	called := false
	handler := Middleware(limiter, discardLogger())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !called {
		t.Error("limiter backend failure must not block requests")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "forwarded first hop wins",
			headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2", "X-Real-IP": "10.0.0.9"},
			want:    "10.0.0.1",
		},
		{
			name:    "single forwarded entry",
			headers: map[string]string{"X-Forwarded-For": "10.0.0.3"},
			want:    "10.0.0.3",
		},
		{
			name:    "real ip fallback",
			headers: map[string]string{"X-Real-IP": "10.0.0.9"},
			want:    "10.0.0.9",
		},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			if got := ClientIP(c); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
