package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/labstack/echo/v4"
)

// Default limits, per client IP per minute.
const (
	ChatLimit   = 20
	AdminLimit  = 5
	WindowSize  = time.Minute
	ChatPrefix  = "ratelimit:chat"
	AdminPrefix = "ratelimit:admin"
)

// Middleware returns an echo middleware enforcing the limiter per client IP.
// Limiter errors fail open: availability beats strictness for this surface.
func Middleware(limiter Limiter, logger *slog.Logger) echo.MiddlewareFunc {
	log := logger.With("component", "ratelimit")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res, err := limiter.Allow(c.Request().Context(), ClientIP(c))
			if err != nil {
				log.Warn("rate limiter unavailable, allowing request", "error", err)
				return next(c)
			}

			if res.Limit > 0 {
				h := c.Response().Header()
				h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
				h.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset.UnixMilli(), 10))
			}

			if !res.Allowed {
				retryAfter := int(math.Ceil(time.Until(res.Reset).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return shared.NewAPIError("rate_limited", "rate limit exceeded").
					WithDetails(map[string]int{"retryAfterSeconds": retryAfter}).
					ToHTTP(http.StatusTooManyRequests)
			}

			return next(c)
		}
	}
}

// ClientIP resolves the caller's address behind proxies: first hop of
// X-Forwarded-For, then X-Real-IP, then the socket address.
func ClientIP(c echo.Context) string {
	if forwarded := c.Request().Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	if realIP := c.Request().Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}
