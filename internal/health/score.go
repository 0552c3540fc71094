// Package health maps an aggregated position to five component
// sub-scores and a composite grade. Every curve is linear and
// saturating; the knees, weights and grade cut points live in
// domain.ScoreConfig so no threshold is a scattered literal.
package health

import (
	"math"

	"capital-lab/internal/domain"
	"capital-lab/internal/money"
	"capital-lab/internal/position"
)

// Score grades a position with the default configuration.
// previousNetWorth feeds the momentum component; nil scores neutral.
func Score(p domain.CapitalPosition, previousNetWorth *float64) domain.FinancialHealthScore {
	return ScoreWith(domain.DefaultScoreConfig, p, previousNetWorth)
}

// ScoreWith grades a position with an explicit configuration.
func ScoreWith(cfg domain.ScoreConfig, p domain.CapitalPosition, previousNetWorth *float64) domain.FinancialHealthScore {
	c := domain.ScoreComponents{
		Liquidity:    liquidityScore(cfg, p),
		Leverage:     leverageScore(p),
		Cashflow:     cashflowScore(cfg, p),
		Momentum:     momentumScore(p, previousNetWorth),
		DebtToxicity: toxicityScore(cfg, p),
	}

	overall := int(math.Round(
		c.Liquidity*cfg.Weights.Liquidity +
			c.Leverage*cfg.Weights.Leverage +
			c.Cashflow*cfg.Weights.Cashflow +
			c.Momentum*cfg.Weights.Momentum +
			c.DebtToxicity*cfg.Weights.DebtToxicity,
	))

	return domain.FinancialHealthScore{
		Overall:    overall,
		Grade:      cfg.Grade(overall),
		Components: c,
	}
}

// liquidityScore saturates at 100 once runway reaches the target, 0 at
// zero runway, linear in between. Unbounded runway scores 100.
func liquidityScore(cfg domain.ScoreConfig, p domain.CapitalPosition) float64 {
	if p.RunwayMonths.IsUnbounded() {
		return 100
	}
	return money.Clamp(float64(p.RunwayMonths)/cfg.RunwayTargetMonths*100, 0, 100)
}

// leverageScore is 100 at a zero debt-to-asset ratio, 0 at ratio >= 1.
func leverageScore(p domain.CapitalPosition) float64 {
	if p.TotalAssets <= 0 {
		if p.TotalDebt > 0 {
			return 0
		}
		return 100
	}
	return money.Clamp((1-p.TotalDebt/p.TotalAssets)*100, 0, 100)
}

// cashflowScore saturates at 100 once the savings rate reaches the
// target, 0 at or below a zero rate.
func cashflowScore(cfg domain.ScoreConfig, p domain.CapitalPosition) float64 {
	if p.MonthlyIncome <= 0 {
		return 0
	}
	return money.Clamp(position.SavingsRate(p)/cfg.SavingsRateTarget*100, 0, 100)
}

// momentumScore centers on 50 and moves two points per percent of net
// worth change versus the prior period. Absent prior it stays neutral.
func momentumScore(p domain.CapitalPosition, previousNetWorth *float64) float64 {
	if previousNetWorth == nil {
		return 50
	}
	prev := *previousNetWorth
	delta := p.NetWorth - prev
	if prev == 0 {
		switch {
		case delta > 0:
			return 100
		case delta < 0:
			return 0
		default:
			return 50
		}
	}
	pctChange := delta / math.Abs(prev) * 100
	return money.Clamp(50+pctChange*2, 0, 100)
}

// toxicityScore is 100 at or below the floor APR, 0 at or above the
// ceiling, linear in between. No active debt scores 100.
func toxicityScore(cfg domain.ScoreConfig, p domain.CapitalPosition) float64 {
	apr, ok := position.WeightedAPR(p)
	if !ok {
		return 100
	}
	span := cfg.ToxicityCeilAPR - cfg.ToxicityFloorAPR
	return money.Clamp((cfg.ToxicityCeilAPR-apr)/span*100, 0, 100)
}
