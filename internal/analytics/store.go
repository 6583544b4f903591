package analytics

import (
	"context"
	"time"
)

const (
	// RetentionPeriod bounds both the event log and session records.
	RetentionPeriod = 30 * 24 * time.Hour

	// RecentQueryLimit caps the recent-queries list.
	RecentQueryLimit = 100
)

// SessionMetrics is the per-session rolling aggregate, maintained
// incrementally next to the event log and expiring after 30 days of
// inactivity. It is display-only: counters tolerate last-writer-wins races
// under concurrent requests in the same session.
type SessionMetrics struct {
	SessionID    string   `json:"sessionId"`
	StartTime    int64    `json:"startTime"`
	LastActivity int64    `json:"lastActivity"`
	MessageCount int64    `json:"messageCount"`
	Categories   []string `json:"categories"`
	TotalTokens  int64    `json:"totalTokens"`
}

// QueryRecord is one entry of the capped recent-queries list shown on the
// admin dashboard.
type QueryRecord struct {
	Text           string `json:"text"`
	Timestamp      string `json:"timestamp"`
	SessionID      string `json:"sessionId,omitempty"`
	ResponseTimeMs int64  `json:"responseTime,omitempty"`
}

// Store is the event log plus its session side-table. Two implementations
// exist: Redis-backed for deployments and an in-memory one for tests and
// KV-less environments; callers cannot tell them apart.
//
// Append must be atomic under concurrent writers: two simultaneous events
// with the same timestamp are both retained. There is no per-event update or
// delete; Cleanup is the only deletion path.
type Store interface {
	Append(ctx context.Context, ev *Event) error

	// Query returns events with Timestamp in [start, end], ascending.
	// Unparseable entries are skipped, not fatal.
	Query(ctx context.Context, start, end int64) ([]*Event, error)

	// TouchSession upserts the session record for a chat request: creates it
	// if absent, increments the message count, records the query category and
	// refreshes LastActivity plus the inactivity TTL.
	TouchSession(ctx context.Context, sessionID, category string, at int64) error

	// AddSessionTokens accumulates token usage onto an existing session
	// record. Missing records are a no-op; the response path must not fail.
	AddSessionTokens(ctx context.Context, sessionID string, tokens int64) error

	// Sessions lists all non-expired session records.
	Sessions(ctx context.Context) ([]*SessionMetrics, error)

	LogQuery(ctx context.Context, rec QueryRecord) error
	RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error)

	// Cleanup removes events older than the cutoff (epoch ms) and session
	// records idle since before it. Returns the number of events removed.
	Cleanup(ctx context.Context, cutoff int64) (int64, error)
}
