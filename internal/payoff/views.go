package payoff

import (
	"capital-lab/internal/domain"
	"capital-lab/internal/money"
)

// MonthlyInterestCost sums one month of simple interest across active
// debts with positive balance.
func MonthlyInterestCost(debts []domain.DebtItem) float64 {
	sum := 0.0
	for _, d := range debts {
		if !d.IsActive || d.Balance <= 0 {
			continue
		}
		sum += d.Balance * money.MonthlyRate(d.APR)
	}
	return sum
}

// DailyCostOfCarry sums one day of simple interest across active debts
// with positive balance.
func DailyCostOfCarry(debts []domain.DebtItem) float64 {
	sum := 0.0
	for _, d := range debts {
		if !d.IsActive || d.Balance <= 0 {
			continue
		}
		sum += d.Balance * money.DailyRate(d.APR)
	}
	return sum
}

// DeathSpiral replays the debt set under minimums only and reports the
// interest/principal split per month: how much of each payment is
// consumed by interest rather than reducing principal. A derived view,
// not a separate algorithm.
func DeathSpiral(debts []domain.DebtItem, horizonMonths int) []MonthRecord {
	res := Simulate(debts, domain.StrategyMinimumOnly, 0, horizonMonths)
	return res.Months
}

// Cascade replays a payoff simulation and emits one step per payoff
// event in month order, recording the freed minimum and the debt that
// inherits it: the head of the priority order among the survivors, or
// empty when none remain.
func Cascade(debts []domain.DebtItem, strategy domain.PayoffStrategy, extraPayment float64, horizonMonths int) []domain.CascadeStep {
	sim := NewSimulation(debts, strategy)
	steps := []domain.CascadeStep{}
	seen := 0

	for m := 0; m < horizonMonths && !sim.Done(); m++ {
		sim.Step(extraPayment)

		events := sim.Payoffs()
		for ; seen < len(events); seen++ {
			ev := events[seen]
			steps = append(steps, domain.CascadeStep{
				DebtName:        ev.DebtName,
				PaidOffMonth:    ev.Month,
				FreedMinimum:    ev.FreedMinimum,
				AcceleratesNext: sim.nextTarget(),
			})
		}
	}
	return steps
}

// nextTarget names the open debt at the head of the current priority
// order, or empty when every balance is zero.
func (s *Simulation) nextTarget() string {
	for _, idx := range s.priorityOrder() {
		if s.debts[idx].balance.IsPositive() {
			return s.debts[idx].item.Name
		}
	}
	return ""
}
