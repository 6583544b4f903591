package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/labstack/echo/v4"
)

const (
	defaultDailyDays   = 7
	maxDailyDays       = 90
	defaultQueryLimit  = 50
	defaultEventsLimit = 1000
)

// Handler serves the admin analytics views. All routes are mounted behind
// the admin auth middleware.
type Handler struct {
	store      Store
	aggregator *Aggregator
	logger     *slog.Logger
}

func NewHandler(store Store, aggregator *Aggregator, logger *slog.Logger) *Handler {
	return &Handler{
		store:      store,
		aggregator: aggregator,
		logger:     logger.With("handler", "analytics"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/analytics", h.Analytics)
	g.GET("/queries", h.Queries)
}

type overviewResponse struct {
	RealTime *RealTimeStats    `json:"realTime"`
	Daily    []DailyMetrics    `json:"daily"`
	Users    *UserMetrics      `json:"users"`
	Sessions []*SessionMetrics `json:"sessions"`
}

// Analytics returns one of the aggregated views selected by the type query
// parameter: realtime, daily, events, sessions, users, or all.
func (h *Handler) Analytics(c echo.Context) error {
	ctx := c.Request().Context()
	view := c.QueryParam("type")
	if view == "" {
		view = "all"
	}

	switch view {
	case "realtime":
		return c.JSON(http.StatusOK, h.aggregator.RealTimeStats(ctx))

	case "daily":
		days := intQueryParam(c, "days", defaultDailyDays)
		if days < 1 || days > maxDailyDays {
			return shared.BadRequest("invalid_days", "days must be between 1 and 90")
		}
		return c.JSON(http.StatusOK, h.aggregator.DailyMetrics(ctx, days))

	case "events":
		events, err := h.store.Query(ctx, 0, h.aggregator.now().UnixMilli())
		if err != nil {
			h.logger.Error("failed to query events", "error", err)
			return shared.InternalError("analytics_failed", "failed to query events")
		}
		limit := intQueryParam(c, "limit", defaultEventsLimit)
		if limit > 0 && len(events) > limit {
			events = events[len(events)-limit:]
		}
		return c.JSON(http.StatusOK, events)

	case "sessions":
		return c.JSON(http.StatusOK, h.aggregator.SessionMetrics(ctx))

	case "users":
		return c.JSON(http.StatusOK, h.aggregator.UserMetrics(ctx))

	case "all":
		return c.JSON(http.StatusOK, overviewResponse{
			RealTime: h.aggregator.RealTimeStats(ctx),
			Daily:    h.aggregator.DailyMetrics(ctx, defaultDailyDays),
			Users:    h.aggregator.UserMetrics(ctx),
			Sessions: h.aggregator.SessionMetrics(ctx),
		})

	default:
		return shared.BadRequest("invalid_type", "type must be one of realtime, daily, events, sessions, users, all")
	}
}

type queriesResponse struct {
	Queries []QueryRecord `json:"queries"`
	Count   int           `json:"count"`
}

// Queries returns the most recent user queries, newest first.
func (h *Handler) Queries(c echo.Context) error {
	limit := intQueryParam(c, "limit", defaultQueryLimit)
	if limit < 1 || limit > RecentQueryLimit {
		return shared.BadRequest("invalid_limit", "limit must be between 1 and 100")
	}

	queries, err := h.store.RecentQueries(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to fetch recent queries", "error", err)
		return shared.InternalError("queries_failed", "failed to fetch recent queries")
	}

	if queries == nil {
		queries = []QueryRecord{}
	}
	return c.JSON(http.StatusOK, queriesResponse{Queries: queries, Count: len(queries)})
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
