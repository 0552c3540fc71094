package scenario

import (
	"math"
	"reflect"
	"testing"

	"capital-lab/internal/domain"
	"capital-lab/internal/position"
)

func testPosition(debts []domain.DebtItem) domain.CapitalPosition {
	return position.Aggregate(domain.RawPosition{
		CashSavings:     20000,
		MonthlyExpenses: 4000,
	}, debts)
}

func corporateParams() domain.ScenarioParams {
	return domain.ScenarioParams{
		Name:               "Corporate Role",
		Type:               domain.ScenarioCorporate,
		MonthlyGrossIncome: 10000,
		EffectiveTaxRate:   0.30,
		RampUpMonths:       3,
	}
}

func TestProject_CorporateIncomeStep(t *testing.T) {
	// Corporate pays nothing until the role starts in month 3, then the
	// full after-tax salary: 10000 * 0.7 = 7000.
	proj := Project(corporateParams(), testPosition(nil), 6)

	if proj.Months[0].Income != 0 || proj.Months[1].Income != 0 {
		t.Errorf("expected zero income before ramp, got %f, %f",
			proj.Months[0].Income, proj.Months[1].Income)
	}
	for m := 2; m < 6; m++ {
		if math.Abs(proj.Months[m].Income-7000) > 0.001 {
			t.Errorf("month %d: expected income 7000, got %f", m+1, proj.Months[m].Income)
		}
	}
}

func TestProject_IndieIncomeRamp(t *testing.T) {
	params := domain.ScenarioParams{
		Name:               "Indie",
		Type:               domain.ScenarioIndie,
		MonthlyGrossIncome: 8000,
		RampUpMonths:       4,
	}

	proj := Project(params, testPosition(nil), 6)

	// Linear ramp: 2000, 4000, 6000, 8000, then flat.
	want := []float64{2000, 4000, 6000, 8000, 8000, 8000}
	for i, w := range want {
		if math.Abs(proj.Months[i].Income-w) > 0.001 {
			t.Errorf("month %d: expected income %f, got %f", i+1, w, proj.Months[i].Income)
		}
	}
}

func TestProject_BreakEvenImmediate(t *testing.T) {
	// Liquid assets already exceed debt, so break-even is month 1.
	proj := Project(corporateParams(), testPosition(nil), 12)

	if proj.BreakEvenMonth == nil || *proj.BreakEvenMonth != 1 {
		t.Errorf("expected break-even month 1, got %v", proj.BreakEvenMonth)
	}
}

func TestProject_BreakEvenAfterClimb(t *testing.T) {
	// 20000 liquid against 30000 debt starts 10000 under water.
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Loan", Balance: 30000, APR: 0, MinimumPayment: 500, IsActive: true},
	}

	proj := Project(corporateParams(), testPosition(debts), 24)

	if proj.BreakEvenMonth == nil {
		t.Fatal("expected break-even within horizon")
	}
	if *proj.BreakEvenMonth <= 1 {
		t.Errorf("expected break-even after month 1, got %d", *proj.BreakEvenMonth)
	}
	// Liquid net worth is negative before the break-even month.
	if proj.Months[*proj.BreakEvenMonth-2].LiquidNetWorth >= 0 {
		t.Errorf("expected negative net worth before break-even")
	}
}

func TestProject_ExtraFundedOnlyFromHeadroom(t *testing.T) {
	// Months with no income pay minimums only even when the scenario
	// asks for an extra payment.
	params := corporateParams()
	params.ExtraDebtPayment = 1000
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Card", Balance: 20000, APR: 0.12, MinimumPayment: 400, IsActive: true},
	}

	proj := Project(params, testPosition(debts), 12)

	// Months 1-2: income 0, headroom negative → minimum only.
	if math.Abs(proj.Months[0].DebtPayment-400) > 0.001 {
		t.Errorf("month 1: expected minimum-only payment 400, got %f", proj.Months[0].DebtPayment)
	}
	// Month 3: income 7000 covers expenses, minimums and the full extra.
	if math.Abs(proj.Months[2].DebtPayment-1400) > 0.001 {
		t.Errorf("month 3: expected payment 1400, got %f", proj.Months[2].DebtPayment)
	}
}

func TestProject_ExpenseOverride(t *testing.T) {
	params := corporateParams()
	override := 2500.0
	params.MonthlyExpenseOverride = &override

	proj := Project(params, testPosition(nil), 3)

	for _, m := range proj.Months {
		if m.Expenses != 2500 {
			t.Errorf("month %d: expected override expenses 2500, got %f", m.Month, m.Expenses)
		}
	}
}

func TestProject_DebtFreeRecorded(t *testing.T) {
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Small", Balance: 900, APR: 0, MinimumPayment: 300, IsActive: true},
	}

	proj := Project(corporateParams(), testPosition(debts), 12)

	if proj.DebtFreeMonth == nil || *proj.DebtFreeMonth != 3 {
		t.Errorf("expected debt-free month 3, got %v", proj.DebtFreeMonth)
	}
	if proj.Months[2].TotalBalance != 0 {
		t.Errorf("expected zero balance by month 3, got %f", proj.Months[2].TotalBalance)
	}
}

func TestProject_ZeroExpensesUnboundedRunway(t *testing.T) {
	pos := position.Aggregate(domain.RawPosition{CashSavings: 10000}, nil)

	proj := Project(corporateParams(), pos, 3)

	for _, m := range proj.Months {
		if !m.Runway.IsUnbounded() {
			t.Errorf("month %d: expected unbounded runway, got %f", m.Month, float64(m.Runway))
		}
	}
}

func TestProjectAll_MatchesSequential(t *testing.T) {
	pos := testPosition([]domain.DebtItem{
		{ID: "d1", Name: "Card", Balance: 8000, APR: 0.20, MinimumPayment: 250, IsActive: true},
	})
	scenarios := []domain.ScenarioParams{
		corporateParams(),
		{Name: "Indie", Type: domain.ScenarioIndie, MonthlyGrossIncome: 6000, RampUpMonths: 6, ExtraDebtPayment: 500},
		{Name: "Sabbatical", Type: domain.ScenarioIndie, MonthlyGrossIncome: 0, RampUpMonths: 1},
	}

	parallel := ProjectAll(scenarios, pos, 24)
	if len(parallel) != len(scenarios) {
		t.Fatalf("expected %d projections, got %d", len(scenarios), len(parallel))
	}

	for i, params := range scenarios {
		sequential := Project(params, pos, 24)
		if !reflect.DeepEqual(parallel[i], sequential) {
			t.Errorf("projection %d (%s) differs from sequential run", i, params.Name)
		}
	}
}
