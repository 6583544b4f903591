package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/redis/go-redis/v9"
)

const (
	eventsKey        = "analytics:events"
	sessionKeyPrefix = "analytics:sessions:"
	recentQueriesKey = "analytics:queries:recent"
)

// RedisStore keeps the event log in a sorted set scored by timestamp, session
// records as TTL'd JSON values and recent queries in a capped list.
type RedisStore struct {
	redis  *redis.Client
	logger *slog.Logger
}

func NewRedisStore(redisClient *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		redis:  redisClient,
		logger: logger.With("component", "analytics_store"),
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisStore) Append(ctx context.Context, ev *Event) error {
	// Sorted sets collapse equal members, so every stored event needs a
	// distinct ID or two identical events in the same millisecond would
	// merge into one.
	if ev.ID == "" {
		copied := *ev
		copied.ID = shared.NewID("evt_")
		ev = &copied
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.redis.ZAdd(ctx, eventsKey, redis.Z{
		Score:  float64(ev.Timestamp),
		Member: string(data),
	}).Err()
}

func (s *RedisStore) Query(ctx context.Context, start, end int64) ([]*Event, error) {
	members, err := s.redis.ZRangeByScore(ctx, eventsKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(start, 10),
		Max: strconv.FormatInt(end, 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	events := make([]*Event, 0, len(members))
	for _, member := range members {
		var ev Event
		if err := json.Unmarshal([]byte(member), &ev); err != nil {
			s.logger.Warn("skipping unparseable event", "error", err)
			continue
		}
		events = append(events, &ev)
	}
	return events, nil
}

func (s *RedisStore) TouchSession(ctx context.Context, sessionID, category string, at int64) error {
	key := sessionKey(sessionID)

	metrics := &SessionMetrics{
		SessionID: sessionID,
		StartTime: at,
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil && err != redis.Nil {
		return err
	}
	if err == nil {
		if uerr := json.Unmarshal(data, metrics); uerr != nil {
			s.logger.Warn("resetting corrupt session record", "session_id", sessionID, "error", uerr)
			metrics = &SessionMetrics{SessionID: sessionID, StartTime: at}
		}
	}

	metrics.LastActivity = at
	metrics.MessageCount++
	if category != "" && !containsString(metrics.Categories, category) {
		metrics.Categories = append(metrics.Categories, category)
	}

	return s.writeSession(ctx, key, metrics)
}

func (s *RedisStore) AddSessionTokens(ctx context.Context, sessionID string, tokens int64) error {
	key := sessionKey(sessionID)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	var metrics SessionMetrics
	if err := json.Unmarshal(data, &metrics); err != nil {
		s.logger.Warn("skipping token update on corrupt session record", "session_id", sessionID, "error", err)
		return nil
	}

	metrics.TotalTokens += tokens
	return s.writeSession(ctx, key, &metrics)
}

func (s *RedisStore) writeSession(ctx context.Context, key string, metrics *SessionMetrics) error {
	data, err := json.Marshal(metrics)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, RetentionPeriod).Err()
}

func (s *RedisStore) Sessions(ctx context.Context) ([]*SessionMetrics, error) {
	keys, err := s.redis.Keys(ctx, sessionKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	var sessions []*SessionMetrics
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var metrics SessionMetrics
		if err := json.Unmarshal(data, &metrics); err != nil {
			s.logger.Warn("skipping unparseable session record", "key", key, "error", err)
			continue
		}
		sessions = append(sessions, &metrics)
	}
	return sessions, nil
}

func (s *RedisStore) LogQuery(ctx context.Context, rec QueryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.redis.Pipeline()
	pipe.LPush(ctx, recentQueriesKey, data)
	pipe.LTrim(ctx, recentQueriesKey, 0, RecentQueryLimit-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error) {
	if limit <= 0 || limit > RecentQueryLimit {
		limit = RecentQueryLimit
	}

	items, err := s.redis.LRange(ctx, recentQueriesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	records := make([]QueryRecord, 0, len(items))
	for _, item := range items {
		var rec QueryRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			s.logger.Warn("skipping unparseable query record", "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *RedisStore) Cleanup(ctx context.Context, cutoff int64) (int64, error) {
	removed, err := s.redis.ZRemRangeByScore(ctx, eventsKey,
		"0", "("+strconv.FormatInt(cutoff, 10)).Result()
	if err != nil {
		return 0, err
	}

	keys, err := s.redis.Keys(ctx, sessionKeyPrefix+"*").Result()
	if err != nil {
		return removed, err
	}
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var metrics SessionMetrics
		if err := json.Unmarshal(data, &metrics); err != nil {
			s.redis.Del(ctx, key)
			continue
		}
		if metrics.LastActivity < cutoff {
			s.redis.Del(ctx, key)
		}
	}

	return removed, nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
