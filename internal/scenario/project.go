// Package scenario projects a capital position forward under competing
// income hypotheses: month-by-month net-worth trajectories, sensitivity
// sweeps and probability-weighted expected value across scenarios.
package scenario

import (
	"math"
	"sync"

	"capital-lab/internal/domain"
	"capital-lab/internal/money"
	"capital-lab/internal/payoff"
)

// Project runs one scenario over the horizon. Debt payments follow the
// minimum-payment stream plus the scenario's extra payment, but extra
// is funded only from non-negative cashflow: a month whose income does
// not cover expenses and minimums pays minimums only.
func Project(params domain.ScenarioParams, position domain.CapitalPosition, horizonMonths int) domain.ScenarioProjection {
	proj := domain.ScenarioProjection{
		Params: params,
		Months: []domain.MonthSnapshot{},
	}

	sim := payoff.NewSimulation(position.DebtItems, params.StrategyOrDefault())
	expenses := position.MonthlyExpenses
	if params.MonthlyExpenseOverride != nil {
		expenses = *params.MonthlyExpenseOverride
	}

	liquid := position.LiquidAssets - position.TotalDebt

	for m := 1; m <= horizonMonths; m++ {
		income := netIncome(params, m)

		// Fund extra only from headroom left after expenses and minimums.
		headroom := income - expenses - sim.MinimumsDue()
		extra := 0.0
		if headroom > 0 {
			extra = math.Min(params.ExtraDebtPayment, headroom)
		}

		rec := sim.Step(extra)
		cashflow := income - expenses - rec.TotalPayment
		liquid += cashflow

		runway := domain.MonthsUnbounded
		if expenses > 0 {
			runway = domain.Months(math.Max(0, liquid/expenses))
		}

		proj.Months = append(proj.Months, domain.MonthSnapshot{
			Month:          m,
			Income:         income,
			Expenses:       expenses,
			DebtPayment:    rec.TotalPayment,
			Cashflow:       cashflow,
			LiquidNetWorth: liquid,
			Runway:         runway,
			TotalBalance:   rec.TotalBalance,
		})

		if proj.BreakEvenMonth == nil && liquid >= 0 {
			month := m
			proj.BreakEvenMonth = &month
		}
	}

	proj.DebtFreeMonth = sim.DebtFreeMonth()
	proj.TotalInterestPaid = sim.TotalInterestPaid()
	proj.EndingNetWorth = liquid
	return proj
}

// netIncome returns the after-tax income for a 1-indexed month. The two
// scenario types ramp differently: indie revenue grows linearly over
// the ramp, a corporate role pays nothing until it starts and the full
// salary from month RampUpMonths onward.
func netIncome(params domain.ScenarioParams, month int) float64 {
	ramp := params.RampUpMonths
	if ramp < 1 {
		ramp = 1
	}

	var factor float64
	switch params.Type {
	case domain.ScenarioCorporate:
		if month >= ramp {
			factor = 1
		}
	default: // indie
		factor = math.Min(float64(month), float64(ramp)) / float64(ramp)
	}

	tax := money.Clamp(params.EffectiveTaxRate, 0, 1)
	return params.MonthlyGrossIncome * factor * (1 - tax)
}

// ProjectAll projects every scenario over the same horizon. Scenarios
// are independent, so they fan out over goroutines with indexed result
// slots; output is identical to sequential execution.
func ProjectAll(scenarios []domain.ScenarioParams, position domain.CapitalPosition, horizonMonths int) []domain.ScenarioProjection {
	out := make([]domain.ScenarioProjection, len(scenarios))
	var wg sync.WaitGroup
	for i, params := range scenarios {
		wg.Add(1)
		go func(i int, params domain.ScenarioParams) {
			defer wg.Done()
			out[i] = Project(params, position, horizonMonths)
		}(i, params)
	}
	wg.Wait()
	return out
}
