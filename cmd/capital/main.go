// Package main provides the capital analysis CLI. It loads a plan file
// describing a financial position, debts and scenarios, runs the full
// analysis and writes a Markdown report plus CSV schedules.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"capital-lab/internal/domain"
	"capital-lab/internal/engine"
	"capital-lab/internal/observability"
	"capital-lab/internal/reporting"
)

func main() {
	// Parse flags
	planPath := flag.String("plan", "plan.yaml", "Path to the YAML plan file")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	horizon := flag.Int("horizon", 0, "Simulation horizon in months (0 uses the plan or default)")
	extra := flag.Float64("extra", -1, "Extra monthly debt payment (overrides the plan when >= 0)")
	fixedClock := flag.Bool("fixed-clock", false, "Stamp the report with a fixed time for reproducible output")
	flag.Parse()

	plan, err := loadPlan(*planPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
		os.Exit(1)
	}

	opts := engine.Options{
		HorizonMonths:    plan.HorizonMonths,
		ExtraPayment:     plan.ExtraPayment,
		PreviousNetWorth: plan.PreviousNetWorth,
	}
	if *horizon > 0 {
		opts.HorizonMonths = *horizon
	}
	if *extra >= 0 {
		opts.ExtraPayment = *extra
	}

	start := time.Now()
	analysis := engine.Analyze(plan.position(), plan.debts(), plan.scenarios(), opts)
	observability.RecordAnalysis(time.Since(start).Seconds())

	builder := reporting.NewBuilder()
	if *fixedClock {
		stamp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		builder = builder.WithClock(func() time.Time { return stamp })
	}
	report := builder.Build(analysis)

	if err := writeOutputs(*outputDir, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing outputs: %v\n", err)
		os.Exit(1)
	}
	observability.RecordReport()

	fmt.Println("Capital analysis generated successfully:")
	fmt.Printf("  - %s/REPORT.md\n", *outputDir)
	fmt.Printf("  - %s/PAYOFF_<strategy>.csv\n", *outputDir)
	fmt.Printf("  - %s/PROJECTION_<scenario>.csv\n", *outputDir)
	fmt.Printf("Health: %d/100 (%s)\n", analysis.Health.Overall, analysis.Health.Grade)
}

// Plan is the YAML plan file schema.
type Plan struct {
	Position struct {
		CashSavings     float64 `yaml:"cash_savings"`
		Investments     float64 `yaml:"investments"`
		Crypto          float64 `yaml:"crypto"`
		OtherAssets     float64 `yaml:"other_assets"`
		MonthlyIncome   float64 `yaml:"monthly_income"`
		MonthlyExpenses float64 `yaml:"monthly_expenses"`
	} `yaml:"position"`

	Debts []struct {
		ID             string  `yaml:"id"`
		Name           string  `yaml:"name"`
		Balance        float64 `yaml:"balance"`
		APR            float64 `yaml:"apr"`
		MinimumPayment float64 `yaml:"minimum_payment"`
		Inactive       bool    `yaml:"inactive"`
		IntroAPRMonths int     `yaml:"intro_apr_months"`
		PostIntroAPR   float64 `yaml:"post_intro_apr"`
	} `yaml:"debts"`

	Scenarios []struct {
		Name            string   `yaml:"name"`
		Type            string   `yaml:"type"`
		MonthlyIncome   float64  `yaml:"monthly_gross_income"`
		TaxRate         float64  `yaml:"effective_tax_rate"`
		RampUpMonths    int      `yaml:"ramp_up_months"`
		ExtraPayment    float64  `yaml:"extra_debt_payment"`
		Strategy        string   `yaml:"strategy"`
		ExpenseOverride *float64 `yaml:"monthly_expense_override"`
		Probability     *float64 `yaml:"probability"`
	} `yaml:"scenarios"`

	HorizonMonths    int      `yaml:"horizon_months"`
	ExtraPayment     float64  `yaml:"extra_payment"`
	PreviousNetWorth *float64 `yaml:"previous_net_worth"`
}

// loadPlan reads and parses the YAML plan file.
func loadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &plan, nil
}

// position converts the plan's position block to the domain type.
func (p *Plan) position() domain.RawPosition {
	return domain.RawPosition{
		CashSavings:     p.Position.CashSavings,
		Investments:     p.Position.Investments,
		Crypto:          p.Position.Crypto,
		OtherAssets:     p.Position.OtherAssets,
		MonthlyIncome:   p.Position.MonthlyIncome,
		MonthlyExpenses: p.Position.MonthlyExpenses,
	}
}

// debts converts the plan's debt list to domain items.
func (p *Plan) debts() []domain.DebtItem {
	items := make([]domain.DebtItem, len(p.Debts))
	for i, d := range p.Debts {
		id := d.ID
		if id == "" {
			id = fmt.Sprintf("debt-%d", i+1)
		}
		items[i] = domain.DebtItem{
			ID:             id,
			Name:           d.Name,
			Balance:        d.Balance,
			APR:            d.APR,
			MinimumPayment: d.MinimumPayment,
			IsActive:       !d.Inactive,
			IntroAPRMonths: d.IntroAPRMonths,
			PostIntroAPR:   d.PostIntroAPR,
		}
	}
	return items
}

// scenarios converts the plan's scenario list to domain params.
func (p *Plan) scenarios() []domain.ScenarioParams {
	params := make([]domain.ScenarioParams, len(p.Scenarios))
	for i, s := range p.Scenarios {
		params[i] = domain.ScenarioParams{
			Name:                   s.Name,
			Type:                   domain.ScenarioType(s.Type),
			MonthlyGrossIncome:     s.MonthlyIncome,
			EffectiveTaxRate:       s.TaxRate,
			RampUpMonths:           s.RampUpMonths,
			ExtraDebtPayment:       s.ExtraPayment,
			Strategy:               domain.PayoffStrategy(s.Strategy),
			MonthlyExpenseOverride: s.ExpenseOverride,
			Probability:            s.Probability,
		}
	}
	return params
}

// writeOutputs writes the report and CSV schedules to the output directory.
func writeOutputs(dir string, report *reporting.Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	md := reporting.RenderMarkdown(report)
	if err := os.WriteFile(filepath.Join(dir, "REPORT.md"), []byte(md), 0644); err != nil {
		return err
	}

	for strategy, res := range report.Analysis.Payoffs {
		name := fmt.Sprintf("PAYOFF_%s.csv", strategy)
		csv := reporting.RenderScheduleCSV(res)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(csv), 0644); err != nil {
			return err
		}
	}

	for i := range report.Analysis.Projections {
		p := &report.Analysis.Projections[i]
		name := fmt.Sprintf("PROJECTION_%s.csv", sanitizeName(p.Params.Name))
		csv := reporting.RenderProjectionCSV(p)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(csv), 0644); err != nil {
			return err
		}
	}

	return nil
}

// sanitizeName makes a scenario name safe for a filename.
func sanitizeName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "scenario"
	}
	return string(out)
}
