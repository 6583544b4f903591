package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

type WindowCounts struct {
	Messages int `json:"messages"`
	Sessions int `json:"sessions"`
}

type RealTimeStats struct {
	ActiveSessions    int            `json:"activeSessions"`
	TotalSessions     int            `json:"totalSessions"`
	TotalMessages     int            `json:"totalMessages"`
	AvgResponseTime   int64          `json:"avgResponseTime"`
	ErrorCount        int            `json:"errorCount"`
	ErrorRate         string         `json:"errorRate"`
	TotalTokens       int64          `json:"totalTokens"`
	CategoryBreakdown map[string]int `json:"categoryBreakdown"`
	Last24Hours       WindowCounts   `json:"last24Hours"`
	LastHour          WindowCounts   `json:"lastHour"`
}

type DailyMetrics struct {
	Date              string         `json:"date"`
	TotalSessions     int            `json:"totalSessions"`
	TotalMessages     int            `json:"totalMessages"`
	TotalTokensInput  int64          `json:"totalTokensInput"`
	TotalTokensOutput int64          `json:"totalTokensOutput"`
	AvgResponseTime   float64        `json:"avgResponseTime"`
	ErrorCount        int            `json:"errorCount"`
	CategoryCounts    map[string]int `json:"categoryCounts"`
}

// Aggregator computes the read-side views over the event store. Every view is
// a fold over a time-bounded slice of events; there is no materialized state
// beyond the session side-table. Store failures degrade to zero-valued
// structures so dashboards show "no data" instead of errors.
type Aggregator struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewAggregator(store Store, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		logger: logger.With("component", "aggregator"),
		now:    time.Now,
	}
}

func emptyRealTimeStats() *RealTimeStats {
	return &RealTimeStats{
		ErrorRate:         "0.00",
		CategoryBreakdown: map[string]int{},
	}
}

func (a *Aggregator) RealTimeStats(ctx context.Context) *RealTimeStats {
	now := a.now().UnixMilli()
	hourAgo := now - time.Hour.Milliseconds()
	dayAgo := now - 24*time.Hour.Milliseconds()

	events, err := a.store.Query(ctx, dayAgo, now)
	if err != nil {
		a.logger.Warn("real-time stats unavailable", "error", err)
		return emptyRealTimeStats()
	}

	stats := emptyRealTimeStats()

	hourlySessions := make(map[string]struct{})
	dailySessions := make(map[string]struct{})
	hourlyMessages := 0
	var responseTimeSum, responseTimeCount int64

	for _, ev := range events {
		dailySessions[ev.SessionID] = struct{}{}
		if ev.Timestamp >= hourAgo {
			hourlySessions[ev.SessionID] = struct{}{}
		}

		switch p := ev.Payload.(type) {
		case Request:
			stats.TotalMessages++
			if ev.Timestamp >= hourAgo {
				hourlyMessages++
			}
			if p.Category != "" {
				stats.CategoryBreakdown[p.Category]++
			}
		case Response:
			stats.TotalTokens += p.Tokens.Total()
			if p.ResponseTimeMs > 0 {
				responseTimeSum += p.ResponseTimeMs
				responseTimeCount++
			}
		case Failure:
			stats.ErrorCount++
		}
	}

	stats.ActiveSessions = len(hourlySessions)
	if responseTimeCount > 0 {
		stats.AvgResponseTime = int64(math.Round(float64(responseTimeSum) / float64(responseTimeCount)))
	}
	if stats.TotalMessages > 0 {
		stats.ErrorRate = fmt.Sprintf("%.2f", float64(stats.ErrorCount)/float64(stats.TotalMessages)*100)
	}

	sessions, err := a.store.Sessions(ctx)
	if err != nil {
		a.logger.Warn("session listing unavailable", "error", err)
	} else {
		stats.TotalSessions = len(sessions)
	}

	stats.Last24Hours = WindowCounts{Messages: stats.TotalMessages, Sessions: len(dailySessions)}
	stats.LastHour = WindowCounts{Messages: hourlyMessages, Sessions: stats.ActiveSessions}
	return stats
}

// DailyMetrics buckets the last `days` UTC calendar days, newest first. Days
// without events still appear zero-filled; callers depend on a contiguous
// fixed-length series.
func (a *Aggregator) DailyMetrics(ctx context.Context, days int) []DailyMetrics {
	if days <= 0 {
		days = 7
	}

	now := a.now().UTC()
	dayMs := 24 * time.Hour.Milliseconds()

	buckets := make(map[string]*DailyMetrics, days)
	order := make([]string, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		buckets[date] = &DailyMetrics{Date: date, CategoryCounts: map[string]int{}}
		order = append(order, date)
	}

	start := now.UnixMilli() - int64(days)*dayMs
	events, err := a.store.Query(ctx, start, now.UnixMilli())
	if err != nil {
		a.logger.Warn("daily metrics unavailable", "error", err)
		events = nil
	}

	daySessions := make(map[string]map[string]struct{}, days)
	dayResponseSum := make(map[string]int64, days)
	dayResponseCount := make(map[string]int64, days)

	for _, ev := range events {
		date := ev.Time().Format("2006-01-02")
		day, ok := buckets[date]
		if !ok {
			continue
		}

		switch p := ev.Payload.(type) {
		case Request:
			day.TotalMessages++
			if p.Category != "" {
				day.CategoryCounts[p.Category]++
			}
			if daySessions[date] == nil {
				daySessions[date] = make(map[string]struct{})
			}
			daySessions[date][ev.SessionID] = struct{}{}
		case Response:
			day.TotalTokensInput += p.Tokens.Input
			day.TotalTokensOutput += p.Tokens.Output
			if p.ResponseTimeMs > 0 {
				dayResponseSum[date] += p.ResponseTimeMs
				dayResponseCount[date]++
			}
		case Failure:
			day.ErrorCount++
		}
	}

	out := make([]DailyMetrics, 0, days)
	for _, date := range order {
		day := buckets[date]
		day.TotalSessions = len(daySessions[date])
		if dayResponseCount[date] > 0 {
			day.AvgResponseTime = roundTo(float64(dayResponseSum[date])/float64(dayResponseCount[date]), 2)
		}
		out = append(out, *day)
	}
	return out
}

// SessionMetrics lists all non-expired session records.
func (a *Aggregator) SessionMetrics(ctx context.Context) []*SessionMetrics {
	sessions, err := a.store.Sessions(ctx)
	if err != nil {
		a.logger.Warn("session metrics unavailable", "error", err)
		return []*SessionMetrics{}
	}
	return sessions
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
