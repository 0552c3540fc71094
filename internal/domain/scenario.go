package domain

// ScenarioType selects the income ramp curve for a projection.
type ScenarioType string

// Scenario type constants.
const (
	// ScenarioCorporate models a salaried path: no income until the role
	// starts, full after-tax salary from month RampUpMonths onward.
	ScenarioCorporate ScenarioType = "corporate"
	// ScenarioIndie models a revenue path: income ramps linearly from zero
	// to full over RampUpMonths.
	ScenarioIndie ScenarioType = "indie"
)

// ScenarioParams is a hypothesis about future income.
type ScenarioParams struct {
	Name               string       `json:"name"`
	Type               ScenarioType `json:"type"`
	MonthlyGrossIncome float64      `json:"monthlyGrossIncome"`
	EffectiveTaxRate   float64      `json:"effectiveTaxRate"` // 0-1
	RampUpMonths       int          `json:"rampUpMonths"`     // >= 1
	ExtraDebtPayment   float64      `json:"extraDebtPayment"`

	// Strategy for extra payments; defaults to avalanche when empty.
	Strategy PayoffStrategy `json:"strategy,omitempty"`

	// MonthlyExpenseOverride replaces the position's expenses for this
	// scenario when set.
	MonthlyExpenseOverride *float64 `json:"monthlyExpenseOverride,omitempty"`

	// Probability weights the scenario in expected-value analysis.
	// Scenarios without one are treated as equally likely.
	Probability *float64 `json:"probability,omitempty"`
}

// StrategyOrDefault returns the configured payoff strategy, defaulting
// to avalanche.
func (p ScenarioParams) StrategyOrDefault() PayoffStrategy {
	if p.Strategy == "" {
		return StrategyAvalanche
	}
	return p.Strategy
}

// MonthSnapshot is one simulated month of a scenario projection.
// Month is 1-indexed.
type MonthSnapshot struct {
	Month          int     `json:"month"`
	Income         float64 `json:"income"`
	Expenses       float64 `json:"expenses"`
	DebtPayment    float64 `json:"debtPayment"`
	Cashflow       float64 `json:"cashflow"` // income - expenses - debtPayment
	LiquidNetWorth float64 `json:"liquidNetWorth"`
	Runway         Months  `json:"runway"`
	TotalBalance   float64 `json:"totalBalance"` // remaining debt
}

// ScenarioProjection is the result of projecting one scenario over a
// fixed horizon.
type ScenarioProjection struct {
	Params ScenarioParams  `json:"params"`
	Months []MonthSnapshot `json:"months"`

	// DebtFreeMonth is the first 1-indexed month with zero total balance;
	// 0 means the position started debt-free, nil means the horizon was
	// exhausted first.
	DebtFreeMonth *int `json:"debtFreeMonth"`

	// BreakEvenMonth is the first 1-indexed month with non-negative
	// liquid net worth, or nil if never reached.
	BreakEvenMonth *int `json:"breakEvenMonth"`

	TotalInterestPaid float64 `json:"totalInterestPaid"`
	EndingNetWorth    float64 `json:"endingNetWorth"`
}

// NetWorthAt returns the liquid net worth at the given 1-indexed month,
// or 0 when the projection is shorter than that.
func (p ScenarioProjection) NetWorthAt(month int) float64 {
	if month < 1 || month > len(p.Months) {
		return 0
	}
	return p.Months[month-1].LiquidNetWorth
}

// DefaultHorizonMonths is the projection horizon used when callers do
// not specify one.
const DefaultHorizonMonths = 24
