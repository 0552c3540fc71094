// Package alerts produces severity-tagged observations from an
// aggregated position. Rules are independent (predicate, builder) pairs
// evaluated in a fixed priority order; adding a rule never requires
// touching existing ones. Output is ordered most severe first with
// stable tie-break by rule order.
package alerts

import (
	"fmt"
	"sort"

	"capital-lab/internal/domain"
	"capital-lab/internal/position"
)

const (
	// toxicAPRThreshold marks a liability as predatory.
	toxicAPRThreshold = 0.20

	// criticalRunwayMonths is the runway below which survival is at risk.
	criticalRunwayMonths = 3

	// strongRunwayMonths is the runway that buys strategic flexibility.
	strongRunwayMonths = 12

	// interestBleedMonthly is the monthly interest cost worth flagging.
	interestBleedMonthly = 500

	// strongSavingsRate is the savings rate worth celebrating.
	strongSavingsRate = 0.30
)

// Input carries everything the rule set may inspect.
type Input struct {
	Position         domain.CapitalPosition
	PreviousNetWorth *float64
}

// rule pairs a predicate with an alert builder. The builder runs only
// when the predicate holds; it may emit several alerts (one per
// offending debt, for example).
type rule struct {
	when  func(in Input) bool
	build func(in Input) []domain.CapitalAlert
}

// Generate evaluates the rule set against a position. previousNetWorth
// feeds the momentum rule; nil disables it.
func Generate(p domain.CapitalPosition, previousNetWorth *float64) []domain.CapitalAlert {
	in := Input{Position: p, PreviousNetWorth: previousNetWorth}

	var out []domain.CapitalAlert
	for _, r := range rules {
		if r.when(in) {
			out = append(out, r.build(in)...)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return domain.SeverityRank(out[i].Severity) < domain.SeverityRank(out[j].Severity)
	})
	return out
}

// one wraps a single-alert builder.
func one(build func(in Input) domain.CapitalAlert) func(in Input) []domain.CapitalAlert {
	return func(in Input) []domain.CapitalAlert {
		return []domain.CapitalAlert{build(in)}
	}
}

// rules are evaluated top to bottom. Keep each entry self-contained.
var rules = []rule{
	// Critical: burning cash with no income at all.
	{
		when: func(in Input) bool {
			return in.Position.MonthlyIncome == 0 && in.Position.MonthlyExpenses > 0
		},
		build: one(func(in Input) domain.CapitalAlert {
			p := in.Position
			return domain.CapitalAlert{
				Severity: domain.SeverityCritical,
				Title:    "Zero Revenue",
				Detail:   fmt.Sprintf("Burning $%.0f/mo with no income stream. Runway is finite.", p.MonthlyExpenses),
				Metric:   fmt.Sprintf("%.1fmo runway", float64(p.RunwayMonths)),
				Action:   "Establish income source — corporate or indie — immediately.",
			}
		}),
	},
	// Critical: runway under three months.
	{
		when: func(in Input) bool {
			r := in.Position.RunwayMonths
			return !r.IsUnbounded() && float64(r) < criticalRunwayMonths
		},
		build: one(func(in Input) domain.CapitalAlert {
			p := in.Position
			return domain.CapitalAlert{
				Severity: domain.SeverityCritical,
				Title:    "Runway Critical",
				Detail:   fmt.Sprintf("Cash reserves cover only %.1f months at current burn rate.", float64(p.RunwayMonths)),
				Metric:   fmt.Sprintf("$%.0f cash", p.CashSavings),
				Action:   "Cut non-essential expenses or accelerate revenue generation.",
			}
		}),
	},
	// Critical: spending exceeds income.
	{
		when: func(in Input) bool {
			return in.Position.MonthlyIncome > 0 && position.SavingsRate(in.Position) < 0
		},
		build: one(func(in Input) domain.CapitalAlert {
			p := in.Position
			overspend := p.MonthlyExpenses - p.MonthlyIncome
			return domain.CapitalAlert{
				Severity: domain.SeverityCritical,
				Title:    "Negative Savings Rate",
				Detail:   fmt.Sprintf("Spending $%.0f/mo more than earning.", overspend),
				Metric:   fmt.Sprintf("-$%.0f/mo", overspend),
				Action:   "Reduce expenses or increase income to achieve positive cash flow.",
			}
		}),
	},
	// Critical: income cannot service minimum payments.
	{
		when: func(in Input) bool {
			p := in.Position
			return p.TotalMinimumPayments > 0 && p.MonthlyIncome < p.TotalMinimumPayments
		},
		build: one(func(in Input) domain.CapitalAlert {
			p := in.Position
			coverage := p.MonthlyIncome / p.TotalMinimumPayments
			return domain.CapitalAlert{
				Severity: domain.SeverityCritical,
				Title:    "Cannot Service Minimum Payments",
				Detail:   fmt.Sprintf("Income covers only %.0f%% of the $%.0f/mo minimum debt service.", coverage*100, p.TotalMinimumPayments),
				Metric:   fmt.Sprintf("%.2fx coverage", coverage),
				Action:   "Negotiate payment plans before missed payments compound the problem.",
			}
		}),
	},
	// Warning: one alert per debt above the toxic APR threshold,
	// in debt-list order.
	{
		when: func(in Input) bool {
			for _, d := range in.Position.DebtItems {
				if d.Balance > 0 && d.APR > toxicAPRThreshold {
					return true
				}
			}
			return false
		},
		build: func(in Input) []domain.CapitalAlert {
			var out []domain.CapitalAlert
			for _, d := range in.Position.DebtItems {
				if d.Balance <= 0 || d.APR <= toxicAPRThreshold {
					continue
				}
				dailyCost := d.Balance * d.APR / 365
				out = append(out, domain.CapitalAlert{
					Severity: domain.SeverityWarning,
					Title:    fmt.Sprintf("Toxic Liability: %s (%.1f%% APR)", d.Name, d.APR*100),
					Detail:   fmt.Sprintf("$%.0f at a predatory rate costing $%.2f/day in interest.", d.Balance, dailyCost),
					Metric:   fmt.Sprintf("$%.2f/day", dailyCost),
					Action:   fmt.Sprintf("Target %s with the avalanche strategy.", d.Name),
				})
			}
			return out
		},
	},
	// Warning: monthly interest bleed above the threshold.
	{
		when: func(in Input) bool {
			return in.Position.MonthlyInterestCost > interestBleedMonthly
		},
		build: one(func(in Input) domain.CapitalAlert {
			p := in.Position
			return domain.CapitalAlert{
				Severity: domain.SeverityWarning,
				Title:    fmt.Sprintf("Monthly Interest Exceeds $%d", interestBleedMonthly),
				Detail:   fmt.Sprintf("Paying $%.0f/mo in pure interest — capital that buys nothing.", p.MonthlyInterestCost),
				Metric:   fmt.Sprintf("$%.0f/mo", p.MonthlyInterestCost),
				Action:   "Every extra dollar toward high-APR debt reduces this bleed.",
			}
		}),
	},
	// Warning: liabilities exceed assets.
	{
		when: func(in Input) bool {
			p := in.Position
			return p.TotalAssets > 0 && p.TotalDebt/p.TotalAssets > 1
		},
		build: one(func(in Input) domain.CapitalAlert {
			p := in.Position
			return domain.CapitalAlert{
				Severity: domain.SeverityWarning,
				Title:    "Negative Equity",
				Detail:   fmt.Sprintf("Liabilities ($%.0f) exceed assets ($%.0f).", p.TotalDebt, p.TotalAssets),
				Metric:   fmt.Sprintf("%.0f%% debt-to-asset", p.TotalDebt/p.TotalAssets*100),
			}
		}),
	},
	// Positive: net worth grew versus the prior period.
	{
		when: func(in Input) bool {
			return in.PreviousNetWorth != nil && in.Position.NetWorth > *in.PreviousNetWorth
		},
		build: one(func(in Input) domain.CapitalAlert {
			delta := in.Position.NetWorth - *in.PreviousNetWorth
			return domain.CapitalAlert{
				Severity: domain.SeverityPositive,
				Title:    "Positive Momentum",
				Detail:   fmt.Sprintf("Net worth improved by $%.0f since the last snapshot.", delta),
				Metric:   fmt.Sprintf("+$%.0f", delta),
			}
		}),
	},
	// Positive: a year or more of runway.
	{
		when: func(in Input) bool {
			r := in.Position.RunwayMonths
			return r.IsUnbounded() || float64(r) >= strongRunwayMonths
		},
		build: one(func(in Input) domain.CapitalAlert {
			p := in.Position
			metric := "unbounded"
			detail := "Runway is unbounded at current burn."
			if !p.RunwayMonths.IsUnbounded() {
				metric = fmt.Sprintf("%.0fmo", float64(p.RunwayMonths))
				detail = fmt.Sprintf("%.0f months of runway provides strategic flexibility.", float64(p.RunwayMonths))
			}
			return domain.CapitalAlert{
				Severity: domain.SeverityPositive,
				Title:    "Strong Runway",
				Detail:   detail,
				Metric:   metric,
			}
		}),
	},
	// Positive: savings rate at or above the strong threshold.
	{
		when: func(in Input) bool {
			return in.Position.MonthlyIncome > 0 && position.SavingsRate(in.Position) >= strongSavingsRate
		},
		build: one(func(in Input) domain.CapitalAlert {
			rate := position.SavingsRate(in.Position) * 100
			return domain.CapitalAlert{
				Severity: domain.SeverityPositive,
				Title:    "Strong Savings Rate",
				Detail:   fmt.Sprintf("%.0f%% of income flows to wealth building.", rate),
				Metric:   fmt.Sprintf("%.0f%%", rate),
			}
		}),
	},
}
