package analytics

import (
	"context"
	"time"
)

type UniqueUserCounts struct {
	Today      int `json:"today"`
	Last7Days  int `json:"last7Days"`
	Last30Days int `json:"last30Days"`
	AllTime    int `json:"allTime"`
}

type NewVsReturning struct {
	NewUsers       int     `json:"newUsers"`
	ReturningUsers int     `json:"returningUsers"`
	ReturnRate     float64 `json:"returnRate"`
}

type Engagement struct {
	AvgSessionsPerUser float64 `json:"avgSessionsPerUser"`
	AvgMessagesPerUser float64 `json:"avgMessagesPerUser"`
	ActiveUsers24h     int     `json:"activeUsers24h"`
}

type Retention struct {
	DayOne   int `json:"dayOne"`
	DayThree int `json:"dayThree"`
	DaySeven int `json:"daysSeven"`
}

type UserMetrics struct {
	UniqueUsers    UniqueUserCounts `json:"uniqueUsers"`
	NewVsReturning NewVsReturning   `json:"newVsReturning"`
	Engagement     Engagement       `json:"engagement"`
	Retention      Retention        `json:"retention"`
	ConversionRate float64          `json:"conversionRate"`
}

// UserMetrics derives unique-user, retention and engagement figures from
// events carrying a userId. Note the returning-user rule: a user counts as
// returning when the gap between their first and last event in the 30-day
// window exceeds 24 hours. That conflates one long session with a true
// multi-day return visit, but is kept for dashboard compatibility.
func (a *Aggregator) UserMetrics(ctx context.Context) *UserMetrics {
	now := a.now().UnixMilli()
	dayMs := 24 * time.Hour.Milliseconds()

	events, err := a.store.Query(ctx, 0, now)
	if err != nil {
		a.logger.Warn("user metrics unavailable", "error", err)
		return &UserMetrics{}
	}

	today := now - dayMs
	last7 := now - 7*dayMs
	last30 := now - 30*dayMs

	firstSeen := make(map[string]int64)
	lastSeen := make(map[string]int64)
	usersToday := make(map[string]struct{})
	users7 := make(map[string]struct{})
	users30 := make(map[string]struct{})

	userSessions := make(map[string]map[string]struct{})
	userMessages := make(map[string]int)
	converted := make(map[string]struct{})

	for _, ev := range events {
		if ev.UserID == "" {
			continue
		}
		uid := ev.UserID

		if first, ok := firstSeen[uid]; !ok || ev.Timestamp < first {
			firstSeen[uid] = ev.Timestamp
		}
		if last, ok := lastSeen[uid]; !ok || ev.Timestamp > last {
			lastSeen[uid] = ev.Timestamp
		}

		if ev.Timestamp >= today {
			usersToday[uid] = struct{}{}
		}
		if ev.Timestamp >= last7 {
			users7[uid] = struct{}{}
		}
		if ev.Timestamp >= last30 {
			users30[uid] = struct{}{}

			if userSessions[uid] == nil {
				userSessions[uid] = make(map[string]struct{})
			}
			userSessions[uid][ev.SessionID] = struct{}{}

			if _, isRequest := ev.Payload.(Request); isRequest {
				userMessages[uid]++
				converted[uid] = struct{}{}
			}
		}
	}

	m := &UserMetrics{
		UniqueUsers: UniqueUserCounts{
			Today:      len(usersToday),
			Last7Days:  len(users7),
			Last30Days: len(users30),
			AllTime:    len(firstSeen),
		},
	}

	for uid, first := range firstSeen {
		last := lastSeen[uid]
		if last < last30 {
			continue
		}
		if last-first > dayMs {
			m.NewVsReturning.ReturningUsers++
		} else {
			m.NewVsReturning.NewUsers++
		}
	}
	if total := m.NewVsReturning.NewUsers + m.NewVsReturning.ReturningUsers; total > 0 {
		m.NewVsReturning.ReturnRate = roundTo(float64(m.NewVsReturning.ReturningUsers)/float64(total)*100, 1)
	}

	if active := len(users30); active > 0 {
		var sessionSum, messageSum int
		for _, sessions := range userSessions {
			sessionSum += len(sessions)
		}
		for _, count := range userMessages {
			messageSum += count
		}
		m.Engagement.AvgSessionsPerUser = roundTo(float64(sessionSum)/float64(active), 2)
		m.Engagement.AvgMessagesPerUser = roundTo(float64(messageSum)/float64(active), 2)
		m.ConversionRate = roundTo(float64(len(converted))/float64(active)*100, 1)
	}
	m.Engagement.ActiveUsers24h = len(usersToday)

	for uid, first := range firstSeen {
		gapDays := float64(lastSeen[uid]-first) / float64(dayMs)
		ageDays := float64(now-first) / float64(dayMs)

		if ageDays >= 1 && gapDays >= 1 && gapDays <= 1 {
			m.Retention.DayOne++
		}
		if ageDays >= 3 && gapDays >= 1 && gapDays <= 3 {
			m.Retention.DayThree++
		}
		if ageDays >= 7 && gapDays >= 1 && gapDays <= 7 {
			m.Retention.DaySeven++
		}
	}

	return m
}
