package reporting

import (
	"fmt"
	"strings"
	"time"

	"capital-lab/internal/domain"
	"capital-lab/internal/scenario"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder
	a := r.Analysis

	// Header
	sb.WriteString("# Capital Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Debts: %d | Scenarios: %d\n\n", r.DebtCount, r.ScenarioCount))

	// Position Summary
	sb.WriteString("## Position Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Liquid Assets | %s |\n", money(a.Position.LiquidAssets)))
	sb.WriteString(fmt.Sprintf("| Total Assets | %s |\n", money(a.Position.TotalAssets)))
	sb.WriteString(fmt.Sprintf("| Total Debt | %s |\n", money(a.Position.TotalDebt)))
	sb.WriteString(fmt.Sprintf("| Net Worth | %s |\n", money(a.Position.NetWorth)))
	sb.WriteString(fmt.Sprintf("| Monthly Income | %s |\n", money(a.Position.MonthlyIncome)))
	sb.WriteString(fmt.Sprintf("| Monthly Expenses | %s |\n", money(a.Position.MonthlyExpenses)))
	sb.WriteString(fmt.Sprintf("| Minimum Payments | %s/mo |\n", money(a.Position.TotalMinimumPayments)))
	sb.WriteString(fmt.Sprintf("| Interest Cost | %s/mo (%s/day) |\n",
		money(a.Position.MonthlyInterestCost), money(a.Position.DailyInterestCost)))
	sb.WriteString(fmt.Sprintf("| Runway | %s months |\n", months(a.Position.RunwayMonths)))
	sb.WriteString("\n")

	// Health Score
	sb.WriteString("## Health Score\n\n")
	sb.WriteString(fmt.Sprintf("**%d / 100 (%s)**\n\n", a.Health.Overall, a.Health.Grade))
	sb.WriteString("| Component | Score |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Liquidity | %.1f |\n", a.Health.Components.Liquidity))
	sb.WriteString(fmt.Sprintf("| Leverage | %.1f |\n", a.Health.Components.Leverage))
	sb.WriteString(fmt.Sprintf("| Cashflow | %.1f |\n", a.Health.Components.Cashflow))
	sb.WriteString(fmt.Sprintf("| Momentum | %.1f |\n", a.Health.Components.Momentum))
	sb.WriteString(fmt.Sprintf("| Debt Toxicity | %.1f |\n", a.Health.Components.DebtToxicity))
	sb.WriteString("\n")

	// Alerts
	sb.WriteString("## Alerts\n\n")
	if len(a.Alerts) > 0 {
		for _, al := range a.Alerts {
			sb.WriteString(fmt.Sprintf("- **[%s]** %s: %s", strings.ToUpper(string(al.Severity)), al.Title, al.Detail))
			if al.Action != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", al.Action))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No alerts.\n")
	}
	sb.WriteString("\n")

	// Strategy Comparison
	sb.WriteString("## Payoff Strategies\n\n")
	if len(a.Payoffs) > 0 {
		sb.WriteString("| Strategy | Debt-Free Month | Total Interest |\n")
		sb.WriteString("|----------|-----------------|----------------|\n")
		for _, strat := range domain.AllStrategies {
			res, ok := a.Payoffs[strat]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				strat, optMonth(res.DebtFreeMonth), money(res.TotalInterestPaid)))
		}
	} else {
		sb.WriteString("No payoff simulations available.\n")
	}
	sb.WriteString("\n")

	// Cascade
	sb.WriteString("## Payoff Cascade (avalanche)\n\n")
	if len(a.Cascade) > 0 {
		sb.WriteString("| Debt | Paid Off Month | Freed Minimum | Accelerates |\n")
		sb.WriteString("|------|----------------|---------------|-------------|\n")
		for _, step := range a.Cascade {
			next := step.AcceleratesNext
			if next == "" {
				next = "-"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n",
				step.DebtName, step.PaidOffMonth, money(step.FreedMinimum), next))
		}
	} else {
		sb.WriteString("No debts to cascade.\n")
	}
	sb.WriteString("\n")

	// Projections
	sb.WriteString("## Scenario Projections\n\n")
	if len(a.Projections) > 0 {
		sb.WriteString("| Scenario | Debt-Free | Break-Even | Total Interest | Ending Net Worth |\n")
		sb.WriteString("|----------|-----------|------------|----------------|------------------|\n")
		for i := range a.Projections {
			p := &a.Projections[i]
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				p.Params.Name, optMonth(p.DebtFreeMonth), optMonth(p.BreakEvenMonth),
				money(p.TotalInterestPaid), money(p.EndingNetWorth)))
		}
		sb.WriteString("\n")

		if a.Comparison.BestNetWorth != nil {
			sb.WriteString(fmt.Sprintf("Best net worth: **%s** (%s at horizon)\n\n",
				a.Comparison.BestNetWorth.Params.Name, money(a.Comparison.BestNetWorth.EndingNetWorth)))
		}
		if a.Comparison.BestDebtFree != nil {
			sb.WriteString(fmt.Sprintf("Earliest debt-free: **%s** (month %s)\n\n",
				a.Comparison.BestDebtFree.Params.Name, optMonth(a.Comparison.BestDebtFree.DebtFreeMonth)))
		}
	} else {
		sb.WriteString("No scenarios defined.\n\n")
	}

	// Expected Value
	if len(a.ExpectedValue.Scenarios) > 0 {
		sb.WriteString("## Expected Value\n\n")
		sb.WriteString("| Scenario | Probability | Net Worth @12 | Net Worth @Horizon |\n")
		sb.WriteString("|----------|-------------|---------------|--------------------|\n")
		for _, ev := range a.ExpectedValue.Scenarios {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %s | %s |\n",
				ev.Name, ev.Probability, money(ev.NetWorthAt12), money(ev.EndingNetWorth)))
		}
		sb.WriteString(fmt.Sprintf("\nEV @12mo: %s | EV @horizon: %s\n\n",
			money(a.ExpectedValue.EV12), money(a.ExpectedValue.EV24)))
	}

	// Sensitivity
	for _, set := range a.Sensitivities {
		sb.WriteString(fmt.Sprintf("## Sensitivity: %s\n\n", set.ScenarioName))
		renderSensitivityTable(&sb, "Income", set.Income.Rows)
		renderSensitivityTable(&sb, "Expenses", set.Expenses.Rows)
	}

	// Stress Tests
	sb.WriteString("## Stress Tests\n\n")
	sb.WriteString("| Scenario | Net Worth | Runway |\n")
	sb.WriteString("|----------|-----------|--------|\n")
	for _, st := range a.StressTests {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", st.Label, money(st.NetWorth), months(st.Runway)))
	}
	sb.WriteString("\n")

	// Allocation Targets
	sb.WriteString("## Allocation Targets\n\n")
	if len(a.AllocationTargets) > 0 {
		sb.WriteString("| Target | Current | Goal | Progress |\n")
		sb.WriteString("|--------|---------|------|----------|\n")
		for _, t := range a.AllocationTargets {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.0f%% |\n",
				t.Label, money(t.Current), money(t.Target), t.Pct))
		}
	} else {
		sb.WriteString("No allocation targets.\n")
	}
	sb.WriteString("\n")

	// Decision Rules
	sb.WriteString("## Decision Rules\n\n")
	sb.WriteString("| Rule | Value | Threshold | Status |\n")
	sb.WriteString("|------|-------|-----------|--------|\n")
	for _, rule := range a.DecisionRules {
		status := "FAIL"
		if rule.Passed {
			status = "PASS"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", rule.Label, rule.Value, rule.Threshold, status))
	}
	sb.WriteString("\n")

	// Corporate Metrics
	sb.WriteString("## Corporate Metrics\n\n")
	sb.WriteString("| Ratio | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Debt / Income | %s |\n", optRatio(a.CorporateMetrics.DebtToIncomeRatio)))
	sb.WriteString(fmt.Sprintf("| Debt Service Coverage | %s |\n", optRatio(a.CorporateMetrics.DebtServiceCoverage)))
	sb.WriteString(fmt.Sprintf("| Operating Margin | %s |\n", optRatio(a.CorporateMetrics.OperatingMargin)))
	sb.WriteString(fmt.Sprintf("| Current Ratio | %s |\n", optRatio(a.CorporateMetrics.CurrentRatio)))
	sb.WriteString(fmt.Sprintf("| Leverage | %s |\n", optRatio(a.CorporateMetrics.LeverageRatio)))
	sb.WriteString("\n")

	if a.ZeroDateMonths != nil {
		sb.WriteString(fmt.Sprintf("At the current burn rate, liquid assets reach zero in %.1f months.\n\n", *a.ZeroDateMonths))
	}

	return sb.String()
}

// renderSensitivityTable writes one perturbation sweep.
func renderSensitivityTable(sb *strings.Builder, title string, rows []scenario.SensitivityRow) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	sb.WriteString("| Delta | Net Worth @12 | Debt-Free Month |\n")
	sb.WriteString("|-------|---------------|------------------|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			row.Label, money(row.NetWorthAt12), optMonth(row.DebtFreeMonth)))
	}
	sb.WriteString("\n")
}

// optRatio formats a nullable ratio.
func optRatio(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
