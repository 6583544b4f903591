package analytics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/labstack/echo/v4"
)

// CronHandler exposes the retention sweep to an external scheduler. Mounted
// behind the cron auth middleware.
type CronHandler struct {
	sweeper *Sweeper
	logger  *slog.Logger
}

func NewCronHandler(sweeper *Sweeper, logger *slog.Logger) *CronHandler {
	return &CronHandler{
		sweeper: sweeper,
		logger:  logger.With("handler", "cron"),
	}
}

type cleanupResponse struct {
	Status        string `json:"status"`
	RemovedEvents int64  `json:"removedEvents"`
	Duration      string `json:"duration"`
}

// Cleanup runs the retention sweep on demand and reports what it removed.
func (h *CronHandler) Cleanup(c echo.Context) error {
	started := time.Now()

	removed, err := h.sweeper.Sweep(c.Request().Context())
	if err != nil {
		h.logger.Error("on-demand cleanup failed", "error", err)
		return shared.InternalError("cleanup_failed", "retention sweep failed")
	}

	return c.JSON(http.StatusOK, cleanupResponse{
		Status:        "ok",
		RemovedEvents: removed,
		Duration:      time.Since(started).String(),
	})
}
