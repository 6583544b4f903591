package billing

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/labstack/echo/v4"
)

// Handler serves the admin billing report. Mounted behind the admin auth
// middleware.
type Handler struct {
	reporter      *Reporter
	defaultBudget float64
	logger        *slog.Logger
}

func NewHandler(reporter *Reporter, defaultBudget float64, logger *slog.Logger) *Handler {
	return &Handler{
		reporter:      reporter,
		defaultBudget: defaultBudget,
		logger:        logger.With("handler", "billing"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/billing", h.Billing)
}

// Billing returns the cost report. An explicit budget query parameter
// overrides the configured monthly budget; view=efficiency selects the
// cost-efficiency report instead.
func (h *Handler) Billing(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("view") == "efficiency" {
		days := 0
		if raw := c.QueryParam("days"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 || v > 90 {
				return shared.BadRequest("invalid_days", "days must be between 1 and 90")
			}
			days = v
		}

		report, err := h.reporter.Efficiency(ctx, days)
		if err != nil {
			h.logger.Error("failed to build efficiency report", "error", err)
			return shared.InternalError("billing_failed", "failed to build efficiency report")
		}
		return c.JSON(http.StatusOK, report)
	}

	budget := h.defaultBudget
	if raw := c.QueryParam("budget"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return shared.BadRequest("invalid_budget", "budget must be a non-negative number")
		}
		budget = v
	}

	metrics, err := h.reporter.Metrics(ctx, budget)
	if err != nil {
		h.logger.Error("failed to build billing metrics", "error", err)
		return shared.InternalError("billing_failed", "failed to build billing metrics")
	}
	return c.JSON(http.StatusOK, metrics)
}
