package reporting

import (
	"fmt"
	"time"

	"capital-lab/internal/domain"
	"capital-lab/internal/engine"
)

// Report is the renderable snapshot of one analysis run.
type Report struct {
	// Metadata
	GeneratedAt   time.Time
	ScenarioCount int
	DebtCount     int

	Analysis *engine.Analysis
}

// Builder assembles reports from engine output.
type Builder struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewBuilder creates a report builder with a UTC wall clock.
func NewBuilder() *Builder {
	return &Builder{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build wraps an analysis with report metadata.
func (b *Builder) Build(a *engine.Analysis) *Report {
	return &Report{
		GeneratedAt:   b.now(),
		ScenarioCount: len(a.Projections),
		DebtCount:     len(a.Position.DebtItems),
		Analysis:      a,
	}
}

// money formats a dollar amount for tables.
func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// months formats a runway value, rendering the unbounded sentinel.
func months(m domain.Months) string {
	if m.IsUnbounded() {
		return "unbounded"
	}
	return fmt.Sprintf("%.1f", float64(m))
}

// optMonth formats a 1-indexed month pointer.
func optMonth(m *int) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *m)
}
