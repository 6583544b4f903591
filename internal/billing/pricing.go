package billing

import "math"

// DefaultModel is assumed whenever a response event carries no model name or
// names one missing from the pricing table.
const DefaultModel = "claude-3-5-haiku-20241022"

// ModelPricing is USD per one million tokens.
type ModelPricing struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

var pricingTable = map[string]ModelPricing{
	"claude-3-5-haiku-20241022":  {Input: 0.80, Output: 4.00},
	"claude-3-5-sonnet-20241022": {Input: 3.00, Output: 15.00},
}

// PricingFor returns the rate card for a model, falling back to the default
// model for unknown names.
func PricingFor(model string) ModelPricing {
	if p, ok := pricingTable[model]; ok {
		return p
	}
	return pricingTable[DefaultModel]
}

// CostBreakdown itemizes the spend for a token count under one model's rates.
// Dollar amounts are rounded to six decimal places, which keeps sub-cent
// haiku-sized requests visible.
type CostBreakdown struct {
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
	TotalTokens  int64   `json:"totalTokens"`
	InputCost    float64 `json:"inputCost"`
	OutputCost   float64 `json:"outputCost"`
	TotalCost    float64 `json:"totalCost"`
	Model        string  `json:"model"`
}

const tokensPerPriceUnit = 1_000_000

// Cost prices a token count against the model's rate card.
func Cost(inputTokens, outputTokens int64, model string) CostBreakdown {
	if model == "" {
		model = DefaultModel
	}
	pricing := PricingFor(model)

	inputCost := float64(inputTokens) / tokensPerPriceUnit * pricing.Input
	outputCost := float64(outputTokens) / tokensPerPriceUnit * pricing.Output

	return CostBreakdown{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  inputTokens + outputTokens,
		InputCost:    roundTo(inputCost, 6),
		OutputCost:   roundTo(outputCost, 6),
		TotalCost:    roundTo(inputCost+outputCost, 6),
		Model:        model,
	}
}

// ProjectedMonthlyCost extrapolates a 30-day month from the average daily
// spend observed so far.
func ProjectedMonthlyCost(dailyCosts []float64, daysElapsed int) float64 {
	if len(dailyCosts) == 0 || daysElapsed == 0 {
		return 0
	}

	var total float64
	for _, c := range dailyCosts {
		total += c
	}
	return total / float64(daysElapsed) * daysInMonth
}

const daysInMonth = 30

// BudgetStatusReport compares month-to-date spend against a monthly budget.
type BudgetStatusReport struct {
	MonthlyBudget        float64 `json:"monthlyBudget"`
	PercentUsed          float64 `json:"percentUsed"`
	DaysRemaining        int     `json:"daysRemaining"`
	ProjectedMonthlyCost float64 `json:"projectedMonthlyCost"`
	ProjectedOverage     float64 `json:"projectedOverage"`
	IsOverBudget         bool    `json:"isOverBudget"`
}

// BudgetStatus requires budget > 0; daysElapsed is the day of month.
func BudgetStatus(currentMonthCost, budget float64, daysElapsed int) BudgetStatusReport {
	var averageDaily float64
	if daysElapsed > 0 {
		averageDaily = currentMonthCost / float64(daysElapsed)
	}
	projected := averageDaily * daysInMonth

	return BudgetStatusReport{
		MonthlyBudget:        budget,
		PercentUsed:          roundTo(currentMonthCost/budget*100, 2),
		DaysRemaining:        daysInMonth - daysElapsed,
		ProjectedMonthlyCost: roundTo(projected, 2),
		ProjectedOverage:     roundTo(math.Max(0, projected-budget), 2),
		IsOverBudget:         currentMonthCost > budget,
	}
}

// Efficiency relates message volume to spend.
type Efficiency struct {
	CostPerMessage    float64 `json:"costPerMessage"`
	MessagesPerDollar float64 `json:"messagesPerDollar"`
}

func CostEfficiency(totalMessages int, totalCost float64) Efficiency {
	var perMessage, perDollar float64
	if totalMessages > 0 {
		perMessage = totalCost / float64(totalMessages)
	}
	if totalCost > 0 {
		perDollar = float64(totalMessages) / totalCost
	}
	return Efficiency{
		CostPerMessage:    roundTo(perMessage, 4),
		MessagesPerDollar: roundTo(perDollar, 2),
	}
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
