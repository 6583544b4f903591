package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestCronHandlerCleanup(t *testing.T) {
	store := NewMemoryStore()
	sweeper := NewSweeper(store, discardLogger(), time.Hour)
	h := NewCronHandler(sweeper, discardLogger())

	seedEvent(t, store, requestEvent(time.Now().Add(-RetentionPeriod-time.Hour).UnixMilli(), "session_old", "stale"))
	seedEvent(t, store, requestEvent(time.Now().UnixMilli(), "session_new", "fresh"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cron/cleanup", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Cleanup(c); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp cleanupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Status != "ok" || resp.RemovedEvents != 1 {
		t.Errorf("response = %+v, want 1 removed event", resp)
	}
	if resp.Duration == "" {
		t.Error("duration missing from response")
	}
}

func TestCronHandlerCleanupFailure(t *testing.T) {
	sweeper := NewSweeper(failingStore{}, discardLogger(), time.Hour)
	h := NewCronHandler(sweeper, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cron/cleanup", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Cleanup(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err)
	}
}
