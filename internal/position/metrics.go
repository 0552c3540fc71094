package position

import (
	"fmt"
	"math"

	"capital-lab/internal/domain"
	"capital-lab/internal/money"
)

// toxicAPRThreshold marks a liability as predatory.
const toxicAPRThreshold = 0.20

// CorporateMetrics computes balance-sheet style ratios over a position.
// Ratios with a zero denominator are nil.
func CorporateMetrics(p domain.CapitalPosition) domain.CorporateMetrics {
	annualIncome := p.MonthlyIncome * money.MonthsPerYear
	monthlyDebtService := p.TotalMinimumPayments + p.MonthlyInterestCost
	freeCashFlow := p.MonthlyIncome - p.MonthlyExpenses - p.TotalMinimumPayments

	var m domain.CorporateMetrics
	if annualIncome > 0 {
		v := p.TotalDebt / annualIncome
		m.DebtToIncomeRatio = &v
	}
	if monthlyDebtService > 0 {
		v := p.MonthlyIncome / monthlyDebtService
		m.DebtServiceCoverage = &v
	}
	if p.MonthlyIncome > 0 {
		v := freeCashFlow / p.MonthlyIncome * 100
		m.OperatingMargin = &v
	}
	if p.MonthlyExpenses > 0 {
		v := p.LiquidAssets / p.MonthlyExpenses
		m.CurrentRatio = &v
	}
	if p.TotalAssets > 0 {
		v := p.TotalDebt / p.TotalAssets
		m.LeverageRatio = &v
	}
	return m
}

// StressTests shocks the position along crypto value and expenses and
// reports net worth and runway under each shock.
func StressTests(p domain.CapitalPosition) []domain.StressScenario {
	burn := p.MonthlyExpenses + p.TotalMinimumPayments
	shockedBurn := p.MonthlyExpenses*1.2 + p.TotalMinimumPayments
	cryptoHit := p.Crypto * 0.5

	runway := func(liquid, burn float64) domain.Months {
		if burn <= 0 {
			return domain.MonthsUnbounded
		}
		return domain.Months(liquid / burn)
	}

	return []domain.StressScenario{
		{
			Label:       "Base",
			NetWorth:    p.NetWorth,
			Runway:      runway(p.LiquidAssets, burn),
			Description: "Current position, no changes",
		},
		{
			Label:       "Crypto -50%",
			NetWorth:    p.NetWorth - cryptoHit,
			Runway:      runway(p.LiquidAssets-cryptoHit, burn),
			Description: "Crypto holdings lose 50% value",
		},
		{
			Label:       "Exp +20%",
			NetWorth:    p.NetWorth,
			Runway:      runway(p.LiquidAssets, shockedBurn),
			Description: "Monthly expenses increase 20%",
		},
		{
			Label:       "Crypto -50% + Exp +20%",
			NetWorth:    p.NetWorth - cryptoHit,
			Runway:      runway(p.LiquidAssets-cryptoHit, shockedBurn),
			Description: "Combined worst case",
		},
	}
}

// ZeroDateMonths returns the number of months until liquid assets reach
// zero at the current burn rate (expenses plus minimum payments), 0 when
// already exhausted, or nil when there is no burn.
func ZeroDateMonths(p domain.CapitalPosition) *float64 {
	burn := p.MonthlyExpenses + p.TotalMinimumPayments
	if burn <= 0 {
		return nil
	}
	months := math.Max(0, p.LiquidAssets/burn)
	return &months
}

// AllocationTargets derives where the next dollar should go: emergency
// fund first, then toxic debt, then growth capital.
func AllocationTargets(p domain.CapitalPosition) []domain.AllocationTarget {
	targets := make([]domain.AllocationTarget, 0, 3)

	sixMonthExpenses := p.MonthlyExpenses * 6
	pct := 0.0
	if sixMonthExpenses > 0 {
		pct = money.Clamp(p.CashSavings/sixMonthExpenses*100, 0, 100)
	}
	targets = append(targets, domain.AllocationTarget{
		Category:  "emergency",
		Label:     "Emergency Fund (6mo)",
		Current:   p.CashSavings,
		Target:    sixMonthExpenses,
		Pct:       pct,
		Rationale: "Cash reserves covering 6 months of expenses provide strategic flexibility and prevent forced liquidation of assets at bad prices.",
	})

	toxicBalance := 0.0
	worstAPR := 0.0
	for _, d := range p.DebtItems {
		if d.Balance > 0 && d.APR > toxicAPRThreshold {
			toxicBalance += d.Balance
			if d.APR > worstAPR {
				worstAPR = d.APR
			}
		}
	}
	if toxicBalance > 0 {
		targets = append(targets, domain.AllocationTarget{
			Category:  "toxic_debt",
			Label:     "Toxic Debt Elimination (>20% APR)",
			Current:   toxicBalance,
			Target:    0,
			Pct:       0,
			Rationale: fmt.Sprintf("Paying off high-APR debt is a guaranteed %.1f%% return. No investment beats this risk-adjusted.", worstAPR*100),
		})
	}

	growth := p.Investments + p.Crypto
	growthTarget := p.TotalAssets * 0.5
	growthPct := 0.0
	if growthTarget > 0 {
		growthPct = money.Clamp(growth/growthTarget*100, 0, 100)
	}
	targets = append(targets, domain.AllocationTarget{
		Category:  "growth",
		Label:     "Growth Capital",
		Current:   growth,
		Target:    growthTarget,
		Pct:       growthPct,
		Rationale: "After debt elimination, redirect freed cash flow to diversified investments. Target 50% of assets in growth positions.",
	})

	return targets
}

// DecisionRules evaluates the four standing gates over a position.
func DecisionRules(p domain.CapitalPosition) []domain.DecisionRule {
	toxicBalance := 0.0
	for _, d := range p.DebtItems {
		if d.Balance > 0 && d.APR > toxicAPRThreshold {
			toxicBalance += d.Balance
		}
	}

	runwayValue := "unbounded"
	if !p.RunwayMonths.IsUnbounded() {
		runwayValue = fmt.Sprintf("%.1fmo", float64(p.RunwayMonths))
	}

	return []domain.DecisionRule{
		{
			Key:       "income_positive",
			Label:     "Income > Expenses",
			Passed:    p.MonthlyIncome > p.MonthlyExpenses,
			Value:     fmt.Sprintf("$%.0f", p.MonthlyIncome),
			Threshold: fmt.Sprintf("> $%.0f", p.MonthlyExpenses),
		},
		{
			Key:       "runway_6mo",
			Label:     "Runway > 6mo",
			Passed:    p.RunwayMonths.IsUnbounded() || float64(p.RunwayMonths) > 6,
			Value:     runwayValue,
			Threshold: "> 6mo",
		},
		{
			Key:       "toxic_zero",
			Label:     "No Toxic Debt",
			Passed:    toxicBalance == 0,
			Value:     fmt.Sprintf("$%.0f", toxicBalance),
			Threshold: "$0",
		},
		{
			Key:       "interest_bleed",
			Label:     "Daily Interest < $3",
			Passed:    p.DailyInterestCost < 3,
			Value:     fmt.Sprintf("$%.2f/day", p.DailyInterestCost),
			Threshold: "< $3/day",
		},
	}
}
