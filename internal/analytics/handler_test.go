package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestAnalyticsHandler(store Store) *Handler {
	logger := discardLogger()
	return NewHandler(store, NewAggregator(store, logger), logger)
}

func analyticsRequest(t *testing.T, h *Handler, target string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.Analytics(c)
}

func TestAnalyticsHandler_RegisterRoutes(t *testing.T) {
	h := newTestAnalyticsHandler(NewMemoryStore())
	e := echo.New()
	g := e.Group("/v1/admin")

	h.RegisterRoutes(g)

	routePaths := make(map[string]bool)
	for _, r := range e.Routes() {
		routePaths[r.Path] = true
	}
	for _, path := range []string{"/v1/admin/analytics", "/v1/admin/queries"} {
		if !routePaths[path] {
			t.Errorf("expected route %s to be registered", path)
		}
	}
}

func TestAnalyticsHandler_InvalidType(t *testing.T) {
	h := newTestAnalyticsHandler(NewMemoryStore())

	_, err := analyticsRequest(t, h, "/v1/admin/analytics?type=bogus")
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", he.Code)
	}
}

func TestAnalyticsHandler_Realtime(t *testing.T) {
	h := newTestAnalyticsHandler(NewMemoryStore())

	rec, err := analyticsRequest(t, h, "/v1/admin/analytics?type=realtime")
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stats RealTimeStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if stats.ErrorRate != "0.00" {
		t.Errorf("errorRate = %q, want 0.00", stats.ErrorRate)
	}
}

func TestAnalyticsHandler_Daily(t *testing.T) {
	h := newTestAnalyticsHandler(NewMemoryStore())

	rec, err := analyticsRequest(t, h, "/v1/admin/analytics?type=daily&days=2")
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	var daily []DailyMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &daily); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(daily) != 2 {
		t.Errorf("got %d days, want 2", len(daily))
	}

	_, err = analyticsRequest(t, h, "/v1/admin/analytics?type=daily&days=500")
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Errorf("days out of range should be rejected, got %v", err)
	}
}

func TestAnalyticsHandler_Overview(t *testing.T) {
	store := NewMemoryStore()
	h := newTestAnalyticsHandler(store)

	seedEvent(t, store, requestEvent(time.Now().UnixMilli(), "session_a", "hello"))

	rec, err := analyticsRequest(t, h, "/v1/admin/analytics")
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var overview overviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &overview); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if overview.RealTime == nil || overview.Users == nil {
		t.Fatal("overview missing sub-views")
	}
	if len(overview.Daily) != defaultDailyDays {
		t.Errorf("got %d daily entries, want %d", len(overview.Daily), defaultDailyDays)
	}
	if overview.RealTime.TotalMessages != 1 {
		t.Errorf("totalMessages = %d, want 1", overview.RealTime.TotalMessages)
	}
}

func TestAnalyticsHandler_Queries(t *testing.T) {
	store := NewMemoryStore()
	h := newTestAnalyticsHandler(store)

	for _, q := range []string{"first", "second"} {
		if err := store.LogQuery(context.Background(), QueryRecord{Text: q}); err != nil {
			t.Fatalf("log query failed: %v", err)
		}
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/queries?limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Queries(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	var resp queriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Count != 2 || len(resp.Queries) != 2 {
		t.Fatalf("count = %d, queries = %d", resp.Count, len(resp.Queries))
	}
	if resp.Queries[0].Text != "second" {
		t.Errorf("newest query = %q, want second", resp.Queries[0].Text)
	}
}

func TestAnalyticsHandler_QueriesLimitRejected(t *testing.T) {
	h := newTestAnalyticsHandler(NewMemoryStore())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/queries?limit=500", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Queries(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Errorf("limit out of range should be rejected, got %v", err)
	}
}
