package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
)

// MemoryStore is the in-process fallback used when no Redis backend is
// configured, and the workhorse of the test suite. Same contract as
// RedisStore, including the 30-day session TTL, which is enforced lazily on
// read.
type MemoryStore struct {
	mu       sync.RWMutex
	events   []*Event
	sessions map[string]*SessionMetrics
	queries  []QueryRecord

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*SessionMetrics),
		now:      time.Now,
	}
}

func (s *MemoryStore) Append(_ context.Context, ev *Event) error {
	copied := *ev
	if copied.ID == "" {
		copied.ID = shared.NewID("evt_")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Insert keeping timestamp order; same-timestamp events append after
	// existing ones so insertion order breaks ties.
	i := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Timestamp > copied.Timestamp
	})
	s.events = append(s.events, nil)
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = &copied
	return nil
}

func (s *MemoryStore) Query(_ context.Context, start, end int64) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, ev := range s.events {
		if ev.Timestamp >= start && ev.Timestamp <= end {
			copied := *ev
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *MemoryStore) TouchSession(_ context.Context, sessionID, category string, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics, ok := s.sessions[sessionID]
	if !ok || s.expired(metrics) {
		metrics = &SessionMetrics{SessionID: sessionID, StartTime: at}
		s.sessions[sessionID] = metrics
	}

	metrics.LastActivity = at
	metrics.MessageCount++
	if category != "" && !containsString(metrics.Categories, category) {
		metrics.Categories = append(metrics.Categories, category)
	}
	return nil
}

func (s *MemoryStore) AddSessionTokens(_ context.Context, sessionID string, tokens int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics, ok := s.sessions[sessionID]
	if !ok || s.expired(metrics) {
		return nil
	}
	metrics.TotalTokens += tokens
	return nil
}

func (s *MemoryStore) Sessions(_ context.Context) ([]*SessionMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*SessionMetrics
	for _, metrics := range s.sessions {
		if s.expired(metrics) {
			continue
		}
		copied := *metrics
		out = append(out, &copied)
	}
	return out, nil
}

func (s *MemoryStore) LogQuery(_ context.Context, rec QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append([]QueryRecord{rec}, s.queries...)
	if len(s.queries) > RecentQueryLimit {
		s.queries = s.queries[:RecentQueryLimit]
	}
	return nil
}

func (s *MemoryStore) RecentQueries(_ context.Context, limit int) ([]QueryRecord, error) {
	if limit <= 0 || limit > RecentQueryLimit {
		limit = RecentQueryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.queries) {
		limit = len(s.queries)
	}
	out := make([]QueryRecord, limit)
	copy(out, s.queries[:limit])
	return out, nil
}

func (s *MemoryStore) Cleanup(_ context.Context, cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var removed int64
	for _, ev := range s.events {
		if ev.Timestamp < cutoff {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept

	for id, metrics := range s.sessions {
		if metrics.LastActivity < cutoff {
			delete(s.sessions, id)
		}
	}
	return removed, nil
}

func (s *MemoryStore) expired(metrics *SessionMetrics) bool {
	return s.now().UnixMilli()-metrics.LastActivity > RetentionPeriod.Milliseconds()
}
