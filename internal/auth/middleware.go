// Package auth gates the admin and cron surfaces with shared-secret bearer
// tokens. There are no user accounts; the dashboard and the scheduler are the
// only callers.
package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	adminSecret string
	cronSecret  string
}

// NewMiddleware wires the two secrets. The cron secret falls back to the
// admin secret when unset.
func NewMiddleware(adminSecret, cronSecret string) *Middleware {
	if cronSecret == "" {
		cronSecret = adminSecret
	}
	return &Middleware{
		adminSecret: adminSecret,
		cronSecret:  cronSecret,
	}
}

// RequireAdmin guards the /v1/admin group. An empty configured secret locks
// the surface entirely rather than leaving it open.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := authorize(c, m.adminSecret); err != nil {
			return err
		}
		return next(c)
	}
}

// RequireCron guards the cron cleanup endpoint.
func (m *Middleware) RequireCron(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := authorize(c, m.cronSecret); err != nil {
			return err
		}
		return next(c)
	}
}

func authorize(c echo.Context, secret string) error {
	if secret == "" {
		return shared.Unauthorized("auth_disabled", "no access token configured")
	}

	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return shared.Unauthorized("missing_token", "authorization header required")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return shared.Unauthorized("invalid_token", "bearer token required")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		return shared.Unauthorized("invalid_token", "invalid access token")
	}

	return nil
}
