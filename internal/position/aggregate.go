// Package position derives totals from raw snapshot fields and a debt
// list. Every function is pure: derived fields are always recomputed
// here and never accepted from the caller.
package position

import (
	"math"

	"capital-lab/internal/domain"
	"capital-lab/internal/money"
)

// Aggregate builds a fully derived CapitalPosition from raw fields and
// a debt list. Inactive debts are dropped; malformed numbers are clamped
// to zero rather than rejected. Zero-expense runway is the unbounded
// sentinel, never a division error.
func Aggregate(raw domain.RawPosition, debts []domain.DebtItem) domain.CapitalPosition {
	active := sanitizeDebts(debts)

	totalDebt := 0.0
	totalMin := 0.0
	monthlyInterest := 0.0
	dailyInterest := 0.0
	for _, d := range active {
		totalDebt += d.Balance
		totalMin += d.MinimumPayment
		monthlyInterest += d.Balance * money.MonthlyRate(d.APR)
		dailyInterest += d.Balance * money.DailyRate(d.APR)
	}

	liquid := raw.CashSavings + raw.Investments + raw.Crypto
	totalAssets := liquid + raw.OtherAssets

	runway := domain.MonthsUnbounded
	if raw.MonthlyExpenses > 0 {
		runway = domain.Months(math.Max(0, raw.CashSavings/raw.MonthlyExpenses))
	}

	return domain.CapitalPosition{
		CashSavings:     raw.CashSavings,
		Investments:     raw.Investments,
		Crypto:          raw.Crypto,
		OtherAssets:     raw.OtherAssets,
		MonthlyIncome:   raw.MonthlyIncome,
		MonthlyExpenses: raw.MonthlyExpenses,

		DebtItems: active,

		LiquidAssets:         liquid,
		TotalAssets:          totalAssets,
		TotalDebt:            totalDebt,
		NetWorth:             totalAssets - totalDebt,
		TotalMinimumPayments: totalMin,
		MonthlyInterestCost:  monthlyInterest,
		DailyInterestCost:    dailyInterest,
		RunwayMonths:         runway,
	}
}

// WeightedAPR returns the balance-weighted average APR across active
// debts with positive balance. ok is false when no such debt exists and
// the average is undefined.
func WeightedAPR(p domain.CapitalPosition) (apr float64, ok bool) {
	totalBalance := 0.0
	weighted := 0.0
	for _, d := range p.DebtItems {
		if d.Balance <= 0 {
			continue
		}
		totalBalance += d.Balance
		weighted += d.APR * d.Balance
	}
	if totalBalance <= 0 {
		return 0, false
	}
	return weighted / totalBalance, true
}

// SavingsRate returns (income - expenses) / income, or 0 when income is
// not positive.
func SavingsRate(p domain.CapitalPosition) float64 {
	if p.MonthlyIncome <= 0 {
		return 0
	}
	return (p.MonthlyIncome - p.MonthlyExpenses) / p.MonthlyIncome
}

// sanitizeDebts drops inactive debts and clamps malformed numbers:
// negative or NaN balances, rates and minimums become 0.
func sanitizeDebts(debts []domain.DebtItem) []domain.DebtItem {
	out := make([]domain.DebtItem, 0, len(debts))
	for _, d := range debts {
		if !d.IsActive {
			continue
		}
		d.Balance = sanitize(d.Balance)
		d.APR = sanitize(d.APR)
		d.MinimumPayment = sanitize(d.MinimumPayment)
		d.PostIntroAPR = sanitize(d.PostIntroAPR)
		if d.IntroAPRMonths < 0 {
			d.IntroAPRMonths = 0
		}
		out = append(out, d)
	}
	return out
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
