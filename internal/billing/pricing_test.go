package billing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCost(t *testing.T) {
	tests := []struct {
		name       string
		input      int64
		output     int64
		model      string
		wantInput  float64
		wantOutput float64
		wantTotal  float64
		wantModel  string
	}{
		{
			name:      "one million input tokens costs the input rate",
			input:     1_000_000,
			model:     "claude-3-5-haiku-20241022",
			wantInput: 0.80, wantTotal: 0.80,
			wantModel: "claude-3-5-haiku-20241022",
		},
		{
			name:   "mixed usage on sonnet",
			input:  1_000_000,
			output: 1_000_000,
			model:  "claude-3-5-sonnet-20241022",
			wantInput: 3.00, wantOutput: 15.00, wantTotal: 18.00,
			wantModel: "claude-3-5-sonnet-20241022",
		},
		{
			name:   "small request rounds to six decimals",
			input:  1200,
			output: 340,
			model:  "claude-3-5-haiku-20241022",
			wantInput: 0.00096, wantOutput: 0.00136, wantTotal: 0.00232,
			wantModel: "claude-3-5-haiku-20241022",
		},
		{
			name:      "unknown model falls back to default pricing",
			input:     1_000_000,
			model:     "claude-9-experimental",
			wantInput: 0.80, wantTotal: 0.80,
			wantModel: "claude-9-experimental",
		},
		{
			name:      "empty model uses the default",
			input:     1_000_000,
			wantInput: 0.80, wantTotal: 0.80,
			wantModel: DefaultModel,
		},
		{
			name:      "zero usage is free",
			wantModel: DefaultModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cost(tt.input, tt.output, tt.model)
			if !almostEqual(got.InputCost, tt.wantInput) {
				t.Errorf("inputCost = %v, want %v", got.InputCost, tt.wantInput)
			}
			if !almostEqual(got.OutputCost, tt.wantOutput) {
				t.Errorf("outputCost = %v, want %v", got.OutputCost, tt.wantOutput)
			}
			if !almostEqual(got.TotalCost, tt.wantTotal) {
				t.Errorf("totalCost = %v, want %v", got.TotalCost, tt.wantTotal)
			}
			if got.TotalTokens != tt.input+tt.output {
				t.Errorf("totalTokens = %d", got.TotalTokens)
			}
			if got.Model != tt.wantModel {
				t.Errorf("model = %q, want %q", got.Model, tt.wantModel)
			}
		})
	}
}

func TestProjectedMonthlyCost(t *testing.T) {
	if got := ProjectedMonthlyCost(nil, 10); got != 0 {
		t.Errorf("empty series = %v, want 0", got)
	}
	if got := ProjectedMonthlyCost([]float64{1.0}, 0); got != 0 {
		t.Errorf("zero days elapsed = %v, want 0", got)
	}

	// $2/day average over 5 days projects to $60/month.
	got := ProjectedMonthlyCost([]float64{1, 2, 3, 2, 2}, 5)
	if !almostEqual(got, 60) {
		t.Errorf("projection = %v, want 60", got)
	}
}

func TestBudgetStatus(t *testing.T) {
	status := BudgetStatus(50, 100, 15)

	if !almostEqual(status.PercentUsed, 50) {
		t.Errorf("percentUsed = %v, want 50", status.PercentUsed)
	}
	if status.DaysRemaining != 15 {
		t.Errorf("daysRemaining = %d, want 15", status.DaysRemaining)
	}
	if !almostEqual(status.ProjectedMonthlyCost, 100) {
		t.Errorf("projected = %v, want 100", status.ProjectedMonthlyCost)
	}
	if !almostEqual(status.ProjectedOverage, 0) {
		t.Errorf("overage = %v, want 0", status.ProjectedOverage)
	}
	if status.IsOverBudget {
		t.Error("spend at half the budget must not flag over-budget")
	}
}

func TestBudgetStatusAtExactBudget(t *testing.T) {
	// Spend equal to the budget is 100% used but not over.
	status := BudgetStatus(100, 100, 30)

	if !almostEqual(status.PercentUsed, 100) {
		t.Errorf("percentUsed = %v, want 100", status.PercentUsed)
	}
	if status.IsOverBudget {
		t.Error("isOverBudget must be strict")
	}
	if status.DaysRemaining != 0 {
		t.Errorf("daysRemaining = %d, want 0", status.DaysRemaining)
	}
}

func TestBudgetStatusOverage(t *testing.T) {
	// $20 in 10 days projects to $60 against a $30 budget.
	status := BudgetStatus(20, 30, 10)

	if !almostEqual(status.ProjectedMonthlyCost, 60) {
		t.Errorf("projected = %v, want 60", status.ProjectedMonthlyCost)
	}
	if !almostEqual(status.ProjectedOverage, 30) {
		t.Errorf("overage = %v, want 30", status.ProjectedOverage)
	}
	if status.IsOverBudget {
		t.Error("under-budget spend flagged as over")
	}

	over := BudgetStatus(31, 30, 10)
	if !over.IsOverBudget {
		t.Error("spend above budget must flag over-budget")
	}
}

func TestCostEfficiency(t *testing.T) {
	eff := CostEfficiency(100, 0.25)
	if !almostEqual(eff.CostPerMessage, 0.0025) {
		t.Errorf("costPerMessage = %v, want 0.0025", eff.CostPerMessage)
	}
	if !almostEqual(eff.MessagesPerDollar, 400) {
		t.Errorf("messagesPerDollar = %v, want 400", eff.MessagesPerDollar)
	}

	zero := CostEfficiency(0, 0)
	if zero.CostPerMessage != 0 || zero.MessagesPerDollar != 0 {
		t.Errorf("zero activity should yield zero rates: %+v", zero)
	}
}

func TestPricingForUnknownModel(t *testing.T) {
	p := PricingFor("nonexistent")
	if p != pricingTable[DefaultModel] {
		t.Errorf("unknown model pricing = %+v", p)
	}
}
