package domain

import (
	"encoding/json"
	"math"
)

// Months measures a duration in months. Unbounded durations (runway with
// zero burn) are represented as +Inf and marshal as JSON null.
type Months float64

// MonthsUnbounded is the sentinel for a runway that never runs out.
var MonthsUnbounded = Months(math.Inf(1))

// IsUnbounded reports whether the duration is the +Inf sentinel.
func (m Months) IsUnbounded() bool {
	return math.IsInf(float64(m), 1)
}

// MarshalJSON encodes the +Inf sentinel as null.
func (m Months) MarshalJSON() ([]byte, error) {
	if m.IsUnbounded() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

// RawPosition holds the caller-supplied fields of a financial snapshot.
// Derived totals are computed by position.Aggregate and never accepted
// as input.
type RawPosition struct {
	CashSavings     float64 `json:"cashSavings"`
	Investments     float64 `json:"investments"`
	Crypto          float64 `json:"crypto"`
	OtherAssets     float64 `json:"otherAssets"`
	MonthlyIncome   float64 `json:"monthlyIncome"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
}

// CapitalPosition represents one point-in-time financial state with all
// derived totals populated.
type CapitalPosition struct {
	CashSavings     float64 `json:"cashSavings"`
	Investments     float64 `json:"investments"`
	Crypto          float64 `json:"crypto"`
	OtherAssets     float64 `json:"otherAssets"`
	MonthlyIncome   float64 `json:"monthlyIncome"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`

	DebtItems []DebtItem `json:"debtItems"`

	// Derived by the aggregator.
	LiquidAssets         float64 `json:"liquidAssets"`
	TotalAssets          float64 `json:"totalAssets"`
	TotalDebt            float64 `json:"totalDebt"`
	NetWorth             float64 `json:"netWorth"`
	TotalMinimumPayments float64 `json:"totalMinimumPayments"`
	MonthlyInterestCost  float64 `json:"monthlyInterestCost"`
	DailyInterestCost    float64 `json:"dailyInterestCost"`
	RunwayMonths         Months  `json:"runwayMonths"`
}

// StressScenario is one shocked view of a position.
type StressScenario struct {
	Label       string  `json:"label"`
	NetWorth    float64 `json:"netWorth"`
	Runway      Months  `json:"runway"`
	Description string  `json:"description"`
}

// AllocationTarget describes where the next dollar should go.
type AllocationTarget struct {
	Category  string  `json:"category"` // emergency | toxic_debt | growth
	Label     string  `json:"label"`
	Current   float64 `json:"current"`
	Target    float64 `json:"target"`
	Pct       float64 `json:"pct"` // progress toward target, 0-100
	Rationale string  `json:"rationale"`
}

// DecisionRule is one pass/fail gate over a position.
type DecisionRule struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Passed    bool   `json:"passed"`
	Value     string `json:"value"`
	Threshold string `json:"threshold"`
}

// CorporateMetrics are balance-sheet style ratios over a position.
// A nil field means the denominator is zero and the ratio is undefined.
type CorporateMetrics struct {
	DebtToIncomeRatio   *float64 `json:"debtToIncomeRatio"`
	DebtServiceCoverage *float64 `json:"debtServiceCoverage"`
	OperatingMargin     *float64 `json:"operatingMargin"`
	CurrentRatio        *float64 `json:"currentRatio"`
	LeverageRatio       *float64 `json:"leverageRatio"`
}
