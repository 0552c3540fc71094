package alerts

import (
	"strings"
	"testing"

	"capital-lab/internal/domain"
	"capital-lab/internal/position"
)

func generate(raw domain.RawPosition, debts []domain.DebtItem, prev *float64) []domain.CapitalAlert {
	return Generate(position.Aggregate(raw, debts), prev)
}

func TestGenerate_SeverityOrdering(t *testing.T) {
	// Crisis position: no income, short runway, toxic debt. Alerts must
	// come out most severe first.
	raw := domain.RawPosition{
		CashSavings:     4000,
		MonthlyExpenses: 2000, // 2 months runway
	}
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Payday Loan", Balance: 3000, APR: 0.35, MinimumPayment: 200, IsActive: true},
	}

	alerts := generate(raw, debts, nil)
	if len(alerts) == 0 {
		t.Fatal("expected alerts for a crisis position")
	}

	for i := 1; i < len(alerts); i++ {
		if domain.SeverityRank(alerts[i].Severity) < domain.SeverityRank(alerts[i-1].Severity) {
			t.Errorf("alert %d (%s) ranked before %s", i, alerts[i].Severity, alerts[i-1].Severity)
		}
	}
	if alerts[0].Severity != domain.SeverityCritical {
		t.Errorf("expected a critical alert first, got %s", alerts[0].Severity)
	}
}

func TestGenerate_ZeroRevenue(t *testing.T) {
	raw := domain.RawPosition{CashSavings: 50000, MonthlyExpenses: 3000}

	alerts := generate(raw, nil, nil)

	if !hasTitle(alerts, "Zero Revenue") {
		t.Error("expected Zero Revenue alert")
	}
}

func TestGenerate_OneAlertPerToxicDebt(t *testing.T) {
	raw := domain.RawPosition{
		CashSavings:     100000,
		MonthlyIncome:   10000,
		MonthlyExpenses: 4000,
	}
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Card A", Balance: 5000, APR: 0.28, MinimumPayment: 150, IsActive: true},
		{ID: "d2", Name: "Mortgage", Balance: 200000, APR: 0.04, MinimumPayment: 1200, IsActive: true},
		{ID: "d3", Name: "Card B", Balance: 2000, APR: 0.22, MinimumPayment: 60, IsActive: true},
	}

	alerts := generate(raw, debts, nil)

	var toxic []domain.CapitalAlert
	for _, a := range alerts {
		if strings.HasPrefix(a.Title, "Toxic Liability") {
			toxic = append(toxic, a)
		}
	}
	if len(toxic) != 2 {
		t.Fatalf("expected 2 toxic alerts, got %d", len(toxic))
	}
	// Debt-list order within the same severity.
	if !strings.Contains(toxic[0].Title, "Card A") || !strings.Contains(toxic[1].Title, "Card B") {
		t.Errorf("unexpected toxic alert order: %q, %q", toxic[0].Title, toxic[1].Title)
	}
}

func TestGenerate_CannotServiceMinimums(t *testing.T) {
	raw := domain.RawPosition{
		CashSavings:     10000,
		MonthlyIncome:   500,
		MonthlyExpenses: 400,
	}
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Loan", Balance: 30000, APR: 0.08, MinimumPayment: 800, IsActive: true},
	}

	alerts := generate(raw, debts, nil)

	if !hasTitle(alerts, "Cannot Service Minimum Payments") {
		t.Error("expected minimum payment coverage alert")
	}
}

func TestGenerate_HealthyPositionOnlyPositive(t *testing.T) {
	raw := domain.RawPosition{
		CashSavings:     120000,
		Investments:     50000,
		MonthlyIncome:   10000,
		MonthlyExpenses: 6000, // 20 months runway, 40% savings rate
	}

	alerts := generate(raw, nil, nil)
	if len(alerts) == 0 {
		t.Fatal("expected positive alerts")
	}
	for _, a := range alerts {
		if a.Severity != domain.SeverityPositive {
			t.Errorf("unexpected %s alert on healthy position: %s", a.Severity, a.Title)
		}
	}
	if !hasTitle(alerts, "Strong Runway") || !hasTitle(alerts, "Strong Savings Rate") {
		t.Error("expected runway and savings rate alerts")
	}
}

func TestGenerate_PositiveMomentum(t *testing.T) {
	raw := domain.RawPosition{
		CashSavings:     50000,
		MonthlyIncome:   8000,
		MonthlyExpenses: 5000,
	}
	prev := 40000.0

	alerts := generate(raw, nil, &prev)
	if !hasTitle(alerts, "Positive Momentum") {
		t.Error("expected momentum alert when net worth grew")
	}

	// Without a prior snapshot the rule stays silent.
	alerts = generate(raw, nil, nil)
	if hasTitle(alerts, "Positive Momentum") {
		t.Error("momentum alert should require a prior snapshot")
	}
}

func TestGenerate_NegativeEquity(t *testing.T) {
	raw := domain.RawPosition{
		CashSavings:     5000,
		MonthlyIncome:   6000,
		MonthlyExpenses: 4000,
	}
	debts := []domain.DebtItem{
		{ID: "d1", Name: "Loan", Balance: 20000, APR: 0.06, MinimumPayment: 300, IsActive: true},
	}

	alerts := generate(raw, debts, nil)
	if !hasTitle(alerts, "Negative Equity") {
		t.Error("expected negative equity alert when debt exceeds assets")
	}
}

func hasTitle(alerts []domain.CapitalAlert, title string) bool {
	for _, a := range alerts {
		if a.Title == title {
			return true
		}
	}
	return false
}
