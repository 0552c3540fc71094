package health

import (
	"math"
	"testing"

	"capital-lab/internal/domain"
	"capital-lab/internal/position"
)

func score(raw domain.RawPosition, debts []domain.DebtItem, prev *float64) domain.FinancialHealthScore {
	return Score(position.Aggregate(raw, debts), prev)
}

func TestScore_StrongPosition(t *testing.T) {
	// Runway 84000/7000 = 12 → liquidity 100. No debt → leverage and
	// toxicity 100. Savings rate (10000-7000)/10000 = 0.30 → cashflow
	// 100. No prior net worth → momentum 50.
	// Overall = 20 + 20 + 25 + 5 + 25 = 95 → A.
	raw := domain.RawPosition{
		CashSavings:     84000,
		MonthlyIncome:   10000,
		MonthlyExpenses: 7000,
	}

	s := score(raw, nil, nil)

	if s.Components.Liquidity != 100 {
		t.Errorf("expected liquidity 100, got %f", s.Components.Liquidity)
	}
	if s.Components.Cashflow != 100 {
		t.Errorf("expected cashflow 100, got %f", s.Components.Cashflow)
	}
	if s.Components.Momentum != 50 {
		t.Errorf("expected neutral momentum 50, got %f", s.Components.Momentum)
	}
	if s.Overall != 95 {
		t.Errorf("expected overall 95, got %d", s.Overall)
	}
	if s.Grade != "A" {
		t.Errorf("expected grade A, got %s", s.Grade)
	}
}

func TestScore_ZeroIncomeZeroCashflow(t *testing.T) {
	raw := domain.RawPosition{CashSavings: 10000, MonthlyExpenses: 2000}

	s := score(raw, nil, nil)

	if s.Components.Cashflow != 0 {
		t.Errorf("expected cashflow 0 with no income, got %f", s.Components.Cashflow)
	}
}

func TestScore_UnboundedRunwayLiquidity(t *testing.T) {
	raw := domain.RawPosition{CashSavings: 1000}

	s := score(raw, nil, nil)

	if s.Components.Liquidity != 100 {
		t.Errorf("expected liquidity 100 with no burn, got %f", s.Components.Liquidity)
	}
}

func TestScore_LeverageCurve(t *testing.T) {
	raw := domain.RawPosition{CashSavings: 10000, MonthlyIncome: 5000, MonthlyExpenses: 4000}
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Loan", Balance: 5000, APR: 0.05, MinimumPayment: 100, IsActive: true},
	}

	// Debt/assets = 5000/10000 = 0.5 → leverage 50.
	s := score(raw, debts, nil)
	if math.Abs(s.Components.Leverage-50) > 0.001 {
		t.Errorf("expected leverage 50, got %f", s.Components.Leverage)
	}
}

func TestScore_ToxicityCurve(t *testing.T) {
	raw := domain.RawPosition{CashSavings: 50000, MonthlyIncome: 8000, MonthlyExpenses: 5000}

	cases := []struct {
		apr  float64
		want float64
	}{
		{0.05, 100},  // at the floor
		{0.30, 0},    // at the ceiling
		{0.175, 50},  // midpoint
		{0.02, 100},  // below the floor still saturates
		{0.40, 0},    // above the ceiling still floors
	}

	for _, tc := range cases {
		debts := []domain.DebtItem{
			{ID: "d1", Name: "Debt", Balance: 1000, APR: tc.apr, MinimumPayment: 50, IsActive: true},
		}
		s := score(raw, debts, nil)
		if math.Abs(s.Components.DebtToxicity-tc.want) > 0.001 {
			t.Errorf("APR %.3f: expected toxicity %f, got %f", tc.apr, tc.want, s.Components.DebtToxicity)
		}
	}
}

func TestScore_NoDebtToxicity(t *testing.T) {
	s := score(domain.RawPosition{CashSavings: 1000, MonthlyIncome: 100}, nil, nil)
	if s.Components.DebtToxicity != 100 {
		t.Errorf("expected toxicity 100 with no debt, got %f", s.Components.DebtToxicity)
	}
}

func TestScore_Momentum(t *testing.T) {
	raw := domain.RawPosition{CashSavings: 105000, MonthlyIncome: 5000, MonthlyExpenses: 4000}

	// Net worth 105000 vs prior 100000: +5% → 50 + 5*2 = 60.
	prev := 100000.0
	s := score(raw, nil, &prev)
	if math.Abs(s.Components.Momentum-60) > 0.001 {
		t.Errorf("expected momentum 60, got %f", s.Components.Momentum)
	}

	// Decline clamps toward zero: -5% → 40.
	prevHigh := 110526.3157894737 // 105000 is about -5% below
	s = score(raw, nil, &prevHigh)
	if s.Components.Momentum >= 50 {
		t.Errorf("expected momentum below 50 on decline, got %f", s.Components.Momentum)
	}
}

func TestScore_MomentumFromZeroPrior(t *testing.T) {
	prev := 0.0

	up := score(domain.RawPosition{CashSavings: 1000}, nil, &prev)
	if up.Components.Momentum != 100 {
		t.Errorf("expected momentum 100 growing from zero, got %f", up.Components.Momentum)
	}

	flat := score(domain.RawPosition{}, nil, &prev)
	if flat.Components.Momentum != 50 {
		t.Errorf("expected momentum 50 flat at zero, got %f", flat.Components.Momentum)
	}
}

func TestGradeCutPoints(t *testing.T) {
	cfg := domain.DefaultScoreConfig

	cases := []struct {
		overall int
		want    string
	}{
		{95, "A"}, {85, "A"},
		{84, "B"}, {70, "B"},
		{69, "C"}, {50, "C"},
		{49, "D"}, {30, "D"},
		{29, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		if got := cfg.Grade(tc.overall); got != tc.want {
			t.Errorf("overall %d: expected %s, got %s", tc.overall, tc.want, got)
		}
	}
}
