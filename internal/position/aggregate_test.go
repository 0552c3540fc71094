package position

import (
	"math"
	"testing"

	"capital-lab/internal/domain"
)

func testRaw() domain.RawPosition {
	return domain.RawPosition{
		CashSavings:     20000,
		Investments:     15000,
		Crypto:          5000,
		OtherAssets:     10000,
		MonthlyIncome:   8000,
		MonthlyExpenses: 5000,
	}
}

func testDebts() []domain.DebtItem {
	return []domain.DebtItem{
		{ID: "d1", Name: "Card", Balance: 10000, APR: 0.24, MinimumPayment: 300, IsActive: true},
		{ID: "d2", Name: "Loan", Balance: 6000, APR: 0.10, MinimumPayment: 150, IsActive: true},
	}
}

func TestAggregate_DerivedTotals(t *testing.T) {
	p := Aggregate(testRaw(), testDebts())

	if p.LiquidAssets != 40000 {
		t.Errorf("expected liquid assets 40000, got %f", p.LiquidAssets)
	}
	if p.TotalAssets != 50000 {
		t.Errorf("expected total assets 50000, got %f", p.TotalAssets)
	}
	if p.TotalDebt != 16000 {
		t.Errorf("expected total debt 16000, got %f", p.TotalDebt)
	}
	if p.NetWorth != 34000 {
		t.Errorf("expected net worth 34000, got %f", p.NetWorth)
	}
	if p.TotalMinimumPayments != 450 {
		t.Errorf("expected minimums 450, got %f", p.TotalMinimumPayments)
	}
	// 10000*0.02 + 6000*0.10/12 = 200 + 50 = 250
	if math.Abs(p.MonthlyInterestCost-250) > 0.001 {
		t.Errorf("expected monthly interest 250, got %f", p.MonthlyInterestCost)
	}
	// Runway uses cash only: 20000 / 5000 = 4
	if float64(p.RunwayMonths) != 4 {
		t.Errorf("expected runway 4, got %f", float64(p.RunwayMonths))
	}
}

func TestAggregate_InactiveDebtsDropped(t *testing.T) {
	debts := testDebts()
	debts[1].IsActive = false

	p := Aggregate(testRaw(), debts)

	if len(p.DebtItems) != 1 {
		t.Fatalf("expected 1 active debt, got %d", len(p.DebtItems))
	}
	if p.TotalDebt != 10000 {
		t.Errorf("expected total debt 10000, got %f", p.TotalDebt)
	}
}

func TestAggregate_ZeroExpensesUnboundedRunway(t *testing.T) {
	raw := testRaw()
	raw.MonthlyExpenses = 0

	p := Aggregate(raw, nil)

	if !p.RunwayMonths.IsUnbounded() {
		t.Errorf("expected unbounded runway, got %f", float64(p.RunwayMonths))
	}
}

func TestAggregate_MalformedDebtNumbersClamped(t *testing.T) {
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Bad", Balance: math.NaN(), APR: -0.5, MinimumPayment: -100, IsActive: true},
	}

	p := Aggregate(testRaw(), debts)

	d := p.DebtItems[0]
	if d.Balance != 0 || d.APR != 0 || d.MinimumPayment != 0 {
		t.Errorf("expected clamped debt fields, got %+v", d)
	}
}

func TestWeightedAPR(t *testing.T) {
	p := Aggregate(testRaw(), testDebts())

	// (10000*0.24 + 6000*0.10) / 16000 = 3000/16000 = 0.1875
	apr, ok := WeightedAPR(p)
	if !ok {
		t.Fatal("expected defined weighted APR")
	}
	if math.Abs(apr-0.1875) > 1e-9 {
		t.Errorf("expected 0.1875, got %f", apr)
	}
}

func TestWeightedAPR_NoDebt(t *testing.T) {
	p := Aggregate(testRaw(), nil)

	if _, ok := WeightedAPR(p); ok {
		t.Error("expected undefined weighted APR with no debt")
	}
}

func TestSavingsRate(t *testing.T) {
	p := Aggregate(testRaw(), nil)

	// (8000 - 5000) / 8000 = 0.375
	if got := SavingsRate(p); math.Abs(got-0.375) > 1e-9 {
		t.Errorf("expected 0.375, got %f", got)
	}

	raw := testRaw()
	raw.MonthlyIncome = 0
	if got := SavingsRate(Aggregate(raw, nil)); got != 0 {
		t.Errorf("expected 0 with no income, got %f", got)
	}
}
