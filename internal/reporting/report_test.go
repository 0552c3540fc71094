package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-lab/internal/domain"
	"capital-lab/internal/engine"
)

func testReport(t *testing.T) *Report {
	t.Helper()

	raw := domain.RawPosition{
		CashSavings:     30000,
		Investments:     12000,
		MonthlyIncome:   8000,
		MonthlyExpenses: 5000,
	}
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Visa", Balance: 7000, APR: 0.23, MinimumPayment: 210, IsActive: true},
	}
	scenarios := []domain.ScenarioParams{
		{Name: "Stay Corporate", Type: domain.ScenarioCorporate, MonthlyGrossIncome: 10000, EffectiveTaxRate: 0.3, RampUpMonths: 1},
	}

	analysis := engine.Analyze(raw, debts, scenarios, engine.Options{ExtraPayment: 300})

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewBuilder().WithClock(func() time.Time { return fixed }).Build(analysis)
}

func TestBuild_Metadata(t *testing.T) {
	r := testReport(t)

	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), r.GeneratedAt)
	assert.Equal(t, 1, r.ScenarioCount)
	assert.Equal(t, 1, r.DebtCount)
}

func TestRenderMarkdown_Sections(t *testing.T) {
	r := testReport(t)

	md := RenderMarkdown(r)

	for _, section := range []string{
		"# Capital Analysis Report",
		"## Position Summary",
		"## Health Score",
		"## Alerts",
		"## Payoff Strategies",
		"## Payoff Cascade (avalanche)",
		"## Scenario Projections",
		"## Expected Value",
		"## Sensitivity: Stay Corporate",
		"## Stress Tests",
		"## Allocation Targets",
		"## Decision Rules",
		"## Corporate Metrics",
	} {
		assert.Contains(t, md, section)
	}

	// Fixed clock makes the header deterministic.
	assert.Contains(t, md, "Generated: 2026-03-01T12:00:00Z")
	// Every strategy appears in the comparison table.
	for _, strat := range domain.AllStrategies {
		assert.Contains(t, md, string(strat))
	}
}

func TestRenderMarkdown_UnboundedRunway(t *testing.T) {
	analysis := engine.Analyze(domain.RawPosition{CashSavings: 5000}, nil, nil, engine.Options{})
	r := NewBuilder().Build(analysis)

	md := RenderMarkdown(r)
	assert.Contains(t, md, "unbounded")
}

func TestRenderScheduleCSV(t *testing.T) {
	r := testReport(t)
	res := r.Analysis.Payoffs[domain.StrategyAvalanche]
	require.NotNil(t, res)

	csv := RenderScheduleCSV(res)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	// Header plus one row per simulated month.
	require.Len(t, lines, len(res.Months)+1)
	assert.Equal(t, "month,total_balance,interest_paid,principal_paid,total_payment", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
}

func TestRenderProjectionCSV(t *testing.T) {
	r := testReport(t)
	require.NotEmpty(t, r.Analysis.Projections)
	p := &r.Analysis.Projections[0]

	csv := RenderProjectionCSV(p)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	require.Len(t, lines, len(p.Months)+1)
	assert.Equal(t, "month,income,expenses,debt_payment,cashflow,liquid_net_worth,total_balance", lines[0])
}
