// Package engine runs a complete capital analysis in one call:
// aggregate the position, score it, raise alerts, simulate payoff under
// every strategy, project each scenario and weight the outcomes. The
// engine is stateless between calls and performs no I/O; callers own
// persistence and presentation.
package engine

import (
	"capital-lab/internal/alerts"
	"capital-lab/internal/domain"
	"capital-lab/internal/health"
	"capital-lab/internal/payoff"
	"capital-lab/internal/position"
	"capital-lab/internal/scenario"
)

// deathSpiralHorizon bounds the minimum-only illustration trace.
const deathSpiralHorizon = 60

// Options tune one analysis run. The zero value is usable.
type Options struct {
	// HorizonMonths for projections and payoff simulations;
	// defaults to domain.DefaultHorizonMonths.
	HorizonMonths int

	// ExtraPayment applied in the strategy comparison; defaults to 0.
	ExtraPayment float64

	// PreviousNetWorth feeds momentum scoring and alerts when set.
	PreviousNetWorth *float64
}

// SensitivitySet holds both single-variable sweeps for one scenario.
type SensitivitySet struct {
	ScenarioName string                     `json:"scenarioName"`
	Income       scenario.SensitivityResult `json:"income"`
	Expenses     scenario.SensitivityResult `json:"expenses"`
}

// Analysis is the full output of one engine run.
type Analysis struct {
	Position domain.CapitalPosition      `json:"position"`
	Health   domain.FinancialHealthScore `json:"health"`
	Alerts   []domain.CapitalAlert       `json:"alerts"`

	// Payoffs compares every strategy at the configured extra payment,
	// keyed by strategy, plus the derived views.
	Payoffs     map[domain.PayoffStrategy]*payoff.Result `json:"payoffs"`
	Cascade     []domain.CascadeStep                     `json:"cascade"`
	DeathSpiral []payoff.MonthRecord                     `json:"deathSpiral"`

	Projections   []domain.ScenarioProjection  `json:"projections"`
	ExpectedValue scenario.ExpectedValueResult `json:"expectedValue"`
	Comparison    scenario.Comparison          `json:"comparison"`
	Sensitivities []SensitivitySet             `json:"sensitivities"`

	StressTests       []domain.StressScenario   `json:"stressTests"`
	AllocationTargets []domain.AllocationTarget `json:"allocationTargets"`
	DecisionRules     []domain.DecisionRule     `json:"decisionRules"`
	CorporateMetrics  domain.CorporateMetrics   `json:"corporateMetrics"`
	ZeroDateMonths    *float64                  `json:"zeroDateMonths"`
	DailyCostOfCarry  float64                   `json:"dailyCostOfCarry"`
}

// Analyze runs the whole engine over one snapshot.
func Analyze(raw domain.RawPosition, debts []domain.DebtItem, scenarios []domain.ScenarioParams, opts Options) *Analysis {
	horizon := opts.HorizonMonths
	if horizon <= 0 {
		horizon = domain.DefaultHorizonMonths
	}

	pos := position.Aggregate(raw, debts)

	a := &Analysis{
		Position: pos,
		Health:   health.Score(pos, opts.PreviousNetWorth),
		Alerts:   alerts.Generate(pos, opts.PreviousNetWorth),

		Payoffs: make(map[domain.PayoffStrategy]*payoff.Result, len(domain.AllStrategies)),

		StressTests:       position.StressTests(pos),
		AllocationTargets: position.AllocationTargets(pos),
		DecisionRules:     position.DecisionRules(pos),
		CorporateMetrics:  position.CorporateMetrics(pos),
		ZeroDateMonths:    position.ZeroDateMonths(pos),
		DailyCostOfCarry:  payoff.DailyCostOfCarry(pos.DebtItems),
	}

	for _, strat := range domain.AllStrategies {
		a.Payoffs[strat] = payoff.Simulate(pos.DebtItems, strat, opts.ExtraPayment, horizon)
	}
	a.Cascade = payoff.Cascade(pos.DebtItems, domain.StrategyAvalanche, opts.ExtraPayment, horizon)
	a.DeathSpiral = payoff.DeathSpiral(pos.DebtItems, deathSpiralHorizon)

	a.Projections = scenario.ProjectAll(scenarios, pos, horizon)
	a.ExpectedValue = scenario.ExpectedValue(a.Projections)
	a.Comparison = scenario.Compare(a.Projections)

	a.Sensitivities = make([]SensitivitySet, len(scenarios))
	for i, params := range scenarios {
		a.Sensitivities[i] = SensitivitySet{
			ScenarioName: params.Name,
			Income:       scenario.Sensitivity(params, pos, scenario.VariableIncome, nil, horizon),
			Expenses:     scenario.Sensitivity(params, pos, scenario.VariableExpenses, nil, horizon),
		}
	}

	return a
}
