package analytics

import (
	"context"
	"log/slog"
	"time"
)

// ClientContext carries the optional browser-supplied context blocks a chat
// client may attach to its events.
type ClientContext struct {
	Device      *DeviceInfo
	Location    *LocationInfo
	Performance *PerformanceInfo
}

// Tracker is the write-side facade over the event store. Every method is
// log-and-swallow: analytics must never fail or delay the chat path, so
// storage errors are logged and dropped.
type Tracker struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewTracker(store Store, logger *slog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger.With("component", "tracker"),
		now:    time.Now,
	}
}

func (t *Tracker) TrackSessionStart(ctx context.Context, sessionID, userID string, cc *ClientContext) {
	ev := t.newEvent(sessionID, userID, SessionStart{}, cc)
	if err := t.store.Append(ctx, ev); err != nil {
		t.logger.Warn("failed to track session start", "error", err, "session_id", sessionID)
	}
}

func (t *Tracker) TrackRequest(ctx context.Context, sessionID, query, userID string, cc *ClientContext) {
	now := t.now()
	category := Categorize(query)

	ev := t.newEvent(sessionID, userID, Request{Query: query, Category: category}, cc)
	if err := t.store.Append(ctx, ev); err != nil {
		t.logger.Warn("failed to track chat request", "error", err, "session_id", sessionID)
		return
	}

	if err := t.store.TouchSession(ctx, sessionID, category, ev.Timestamp); err != nil {
		t.logger.Warn("failed to update session metrics", "error", err, "session_id", sessionID)
	}

	if err := t.store.LogQuery(ctx, QueryRecord{
		Text:      query,
		Timestamp: now.UTC().Format(time.RFC3339),
		SessionID: sessionID,
	}); err != nil {
		t.logger.Warn("failed to log recent query", "error", err, "session_id", sessionID)
	}
}

func (t *Tracker) TrackResponse(ctx context.Context, sessionID string, responseTimeMs int64, tokens TokenUsage, model string, relevantChunks int, userID string) {
	ev := t.newEvent(sessionID, userID, Response{
		ResponseTimeMs: responseTimeMs,
		Tokens:         tokens,
		Model:          model,
		RelevantChunks: relevantChunks,
		StatusCode:     200,
	}, nil)
	if err := t.store.Append(ctx, ev); err != nil {
		t.logger.Warn("failed to track chat response", "error", err, "session_id", sessionID)
		return
	}

	if err := t.store.AddSessionTokens(ctx, sessionID, tokens.Total()); err != nil {
		t.logger.Warn("failed to add session tokens", "error", err, "session_id", sessionID)
	}
}

func (t *Tracker) TrackError(ctx context.Context, sessionID, details string, statusCode int) {
	ev := t.newEvent(sessionID, "", Failure{Details: details, StatusCode: statusCode}, nil)
	if err := t.store.Append(ctx, ev); err != nil {
		t.logger.Warn("failed to track error event", "error", err, "session_id", sessionID)
	}
}

func (t *Tracker) newEvent(sessionID, userID string, payload Payload, cc *ClientContext) *Event {
	ev := &Event{
		Timestamp: t.now().UnixMilli(),
		SessionID: sessionID,
		UserID:    userID,
		Payload:   payload,
	}
	if cc != nil {
		ev.Device = cc.Device
		ev.Location = cc.Location
		ev.Performance = cc.Performance
	}
	return ev
}
