package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/devenspear/Crafted25-AIChatbot/internal/analytics"
)

const dailySeriesDays = 30

// DailyCost is one entry of the 30-day spend series.
type DailyCost struct {
	Date   string  `json:"date"`
	Cost   float64 `json:"cost"`
	Tokens int64   `json:"tokens"`
}

// Metrics is the admin billing report.
type Metrics struct {
	Today                CostBreakdown       `json:"today"`
	Yesterday            CostBreakdown       `json:"yesterday"`
	Last7Days            CostBreakdown       `json:"last7Days"`
	Last30Days           CostBreakdown       `json:"last30Days"`
	DailyCosts           []DailyCost         `json:"dailyCosts"`
	AverageDailyCost     float64             `json:"averageDailyCost"`
	ProjectedMonthlyCost float64             `json:"projectedMonthlyCost"`
	BudgetStatus         *BudgetStatusReport `json:"budgetStatus,omitempty"`
}

// EfficiencyReport extends Efficiency with the totals it was derived from.
type EfficiencyReport struct {
	Efficiency
	TotalMessages int     `json:"totalMessages"`
	TotalCost     float64 `json:"totalCost"`
	TotalTokens   int64   `json:"totalTokens"`
}

// Reporter prices the token usage recorded in the analytics event log. It
// holds no state of its own; every report is a fresh fold over the store.
type Reporter struct {
	store  analytics.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewReporter(store analytics.Store, logger *slog.Logger) *Reporter {
	return &Reporter{
		store:  store,
		logger: logger.With("component", "billing"),
		now:    time.Now,
	}
}

// Metrics builds the billing report. A budget of zero omits the budget
// status block.
func (r *Reporter) Metrics(ctx context.Context, budget float64) (*Metrics, error) {
	now := r.now()
	nowMs := now.UnixMilli()
	dayMs := 24 * time.Hour.Milliseconds()

	events, err := r.store.Query(ctx, nowMs-dailySeriesDays*dayMs, nowMs)
	if err != nil {
		return nil, err
	}

	inWindow := func(start, end int64) []*analytics.Event {
		var out []*analytics.Event
		for _, ev := range events {
			if ev.Timestamp >= start && ev.Timestamp <= end {
				out = append(out, ev)
			}
		}
		return out
	}

	daily := r.dailyCosts(events, now)
	var costs []float64
	for _, day := range daily {
		costs = append(costs, day.Cost)
	}

	var averageDaily float64
	if len(daily) > 0 {
		var total float64
		for _, c := range costs {
			total += c
		}
		averageDaily = total / float64(len(daily))
	}

	m := &Metrics{
		Today:                periodCost(inWindow(nowMs-dayMs, nowMs)),
		Yesterday:            periodCost(inWindow(nowMs-2*dayMs, nowMs-dayMs)),
		Last7Days:            periodCost(inWindow(nowMs-7*dayMs, nowMs)),
		Last30Days:           periodCost(events),
		DailyCosts:           daily,
		AverageDailyCost:     roundTo(averageDaily, 4),
		ProjectedMonthlyCost: roundTo(ProjectedMonthlyCost(costs, len(daily)), 2),
	}

	if budget > 0 {
		status := BudgetStatus(m.Last30Days.TotalCost, budget, now.Day())
		m.BudgetStatus = &status
	}

	return m, nil
}

// Efficiency reports cost-per-message figures over the trailing window.
func (r *Reporter) Efficiency(ctx context.Context, days int) (*EfficiencyReport, error) {
	if days <= 0 {
		days = dailySeriesDays
	}

	now := r.now().UnixMilli()
	events, err := r.store.Query(ctx, now-int64(days)*24*time.Hour.Milliseconds(), now)
	if err != nil {
		return nil, err
	}

	messages := 0
	for _, ev := range events {
		if ev.Kind() == analytics.KindChatRequest {
			messages++
		}
	}
	breakdown := periodCost(events)

	return &EfficiencyReport{
		Efficiency:    CostEfficiency(messages, breakdown.TotalCost),
		TotalMessages: messages,
		TotalCost:     breakdown.TotalCost,
		TotalTokens:   breakdown.TotalTokens,
	}, nil
}

// periodCost sums response-event token usage and prices it. The last model
// seen in the window prices the whole period, matching the dashboard's
// single-model assumption.
func periodCost(events []*analytics.Event) CostBreakdown {
	var inputTokens, outputTokens int64
	model := DefaultModel

	for _, ev := range events {
		resp, ok := ev.Payload.(analytics.Response)
		if !ok {
			continue
		}
		inputTokens += resp.Tokens.Input
		outputTokens += resp.Tokens.Output
		if resp.Model != "" {
			model = resp.Model
		}
	}

	return Cost(inputTokens, outputTokens, model)
}

func (r *Reporter) dailyCosts(events []*analytics.Event, now time.Time) []DailyCost {
	type dayUsage struct {
		input, output int64
		model         string
	}

	buckets := make(map[string]*dayUsage, dailySeriesDays)
	order := make([]string, 0, dailySeriesDays)
	for i := 0; i < dailySeriesDays; i++ {
		date := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		buckets[date] = &dayUsage{model: DefaultModel}
		order = append(order, date)
	}

	for _, ev := range events {
		resp, ok := ev.Payload.(analytics.Response)
		if !ok {
			continue
		}
		day, ok := buckets[ev.Time().Format("2006-01-02")]
		if !ok {
			continue
		}
		day.input += resp.Tokens.Input
		day.output += resp.Tokens.Output
		if resp.Model != "" {
			day.model = resp.Model
		}
	}

	out := make([]DailyCost, 0, dailySeriesDays)
	for _, date := range order {
		usage := buckets[date]
		breakdown := Cost(usage.input, usage.output, usage.model)
		out = append(out, DailyCost{
			Date:   date,
			Cost:   breakdown.TotalCost,
			Tokens: breakdown.TotalTokens,
		})
	}
	return out
}
