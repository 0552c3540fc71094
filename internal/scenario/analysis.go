package scenario

import (
	"fmt"
	"math"
	"sync"

	"capital-lab/internal/domain"
)

// Variable selects which input a sensitivity sweep perturbs.
type Variable string

// Sweep variables.
const (
	VariableIncome   Variable = "income"
	VariableExpenses Variable = "expenses"
)

// DefaultDeltas is the standard sweep: plus and minus 20% in 10% steps.
var DefaultDeltas = []float64{-0.20, -0.10, 0, 0.10, 0.20}

// evaluationMonth is the month sensitivity and EV read net worth at.
const evaluationMonth = 12

// SensitivityRow is one perturbed projection summary.
type SensitivityRow struct {
	Delta         float64 `json:"delta"`
	Label         string  `json:"label"`
	NetWorthAt12  float64 `json:"netWorthAt12"`
	DebtFreeMonth *int    `json:"debtFreeMonth"`
}

// SensitivityResult is a full single-variable sweep.
type SensitivityResult struct {
	Variable  Variable         `json:"variable"`
	BaseValue float64          `json:"baseValue"`
	Rows      []SensitivityRow `json:"rows"`
}

// Sensitivity reruns the projector once per delta with a single
// variable perturbed, all else held constant. Deltas nil means
// DefaultDeltas. The zero delta runs the identical code path with an
// unmodified copy of params, so it reproduces the unperturbed
// projection exactly.
func Sensitivity(params domain.ScenarioParams, position domain.CapitalPosition, variable Variable, deltas []float64, horizonMonths int) SensitivityResult {
	if deltas == nil {
		deltas = DefaultDeltas
	}

	baseValue := params.MonthlyGrossIncome
	if variable == VariableExpenses {
		baseValue = position.MonthlyExpenses
		if params.MonthlyExpenseOverride != nil {
			baseValue = *params.MonthlyExpenseOverride
		}
	}

	rows := make([]SensitivityRow, len(deltas))
	var wg sync.WaitGroup
	for i, delta := range deltas {
		wg.Add(1)
		go func(i int, delta float64) {
			defer wg.Done()
			adjusted := params
			value := baseValue * (1 + delta)
			if variable == VariableExpenses {
				adjusted.MonthlyExpenseOverride = &value
			} else {
				adjusted.MonthlyGrossIncome = value
			}
			proj := Project(adjusted, position, horizonMonths)
			rows[i] = SensitivityRow{
				Delta:         delta,
				Label:         deltaLabel(delta),
				NetWorthAt12:  proj.NetWorthAt(evaluationMonth),
				DebtFreeMonth: proj.DebtFreeMonth,
			}
		}(i, delta)
	}
	wg.Wait()

	return SensitivityResult{
		Variable:  variable,
		BaseValue: baseValue,
		Rows:      rows,
	}
}

func deltaLabel(delta float64) string {
	if delta == 0 {
		return "Base"
	}
	return fmt.Sprintf("%+.0f%%", delta*100)
}

// ScenarioEV is one scenario's contribution to the expected value.
type ScenarioEV struct {
	Name           string  `json:"name"`
	Probability    float64 `json:"probability"`
	NetWorthAt12   float64 `json:"netWorthAt12"`
	EndingNetWorth float64 `json:"endingNetWorth"`
	EV12           float64 `json:"ev12"`
	EV24           float64 `json:"ev24"`
}

// ExpectedValueResult aggregates probability-weighted outcomes across
// mutually exclusive scenarios. EV12 and EV24 are the weighted sums and
// always lie between the scenarios' min and max outcomes.
type ExpectedValueResult struct {
	Scenarios []ScenarioEV `json:"scenarios"`
	EV12      float64      `json:"ev12"`
	EV24      float64      `json:"ev24"`
}

// ExpectedValue weights each projection by its scenario probability.
// Scenarios without one share the equal weight 1/N; all weights are
// renormalized to sum to 1.
func ExpectedValue(projections []domain.ScenarioProjection) ExpectedValueResult {
	n := len(projections)
	if n == 0 {
		return ExpectedValueResult{Scenarios: []ScenarioEV{}}
	}

	weights := make([]float64, n)
	total := 0.0
	for i, p := range projections {
		w := 1.0 / float64(n)
		if prob := p.Params.Probability; prob != nil && *prob >= 0 && !math.IsNaN(*prob) {
			w = *prob
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		for i := range weights {
			weights[i] = 1.0 / float64(n)
		}
		total = 1
	}

	res := ExpectedValueResult{Scenarios: make([]ScenarioEV, n)}
	for i, p := range projections {
		prob := weights[i] / total
		nw12 := p.NetWorthAt(evaluationMonth)
		res.Scenarios[i] = ScenarioEV{
			Name:           p.Params.Name,
			Probability:    prob,
			NetWorthAt12:   nw12,
			EndingNetWorth: p.EndingNetWorth,
			EV12:           nw12 * prob,
			EV24:           p.EndingNetWorth * prob,
		}
		res.EV12 += nw12 * prob
		res.EV24 += p.EndingNetWorth * prob
	}
	return res
}

// Comparison points at the standout projections of a set.
type Comparison struct {
	// BestNetWorth has the highest ending net worth; ties break by
	// earliest debt-free month, then input order.
	BestNetWorth *domain.ScenarioProjection `json:"bestNetWorth"`

	// BestDebtFree reaches zero debt earliest; nil when no scenario
	// does within its horizon.
	BestDebtFree *domain.ScenarioProjection `json:"bestDebtFree"`
}

// Compare picks the best projections out of a set.
func Compare(projections []domain.ScenarioProjection) Comparison {
	var cmp Comparison
	for i := range projections {
		p := &projections[i]
		if cmp.BestNetWorth == nil || betterNetWorth(p, cmp.BestNetWorth) {
			cmp.BestNetWorth = p
		}
		if p.DebtFreeMonth != nil &&
			(cmp.BestDebtFree == nil || *p.DebtFreeMonth < *cmp.BestDebtFree.DebtFreeMonth) {
			cmp.BestDebtFree = p
		}
	}
	return cmp
}

// betterNetWorth reports whether a strictly beats b: higher ending net
// worth, or on a tie an earlier debt-free month. Equal candidates keep
// the incumbent, preserving input order.
func betterNetWorth(a, b *domain.ScenarioProjection) bool {
	if a.EndingNetWorth != b.EndingNetWorth {
		return a.EndingNetWorth > b.EndingNetWorth
	}
	return debtFreeRank(a) < debtFreeRank(b)
}

// debtFreeRank maps a nil debt-free month past any horizon.
func debtFreeRank(p *domain.ScenarioProjection) int {
	if p.DebtFreeMonth == nil {
		return int(^uint(0) >> 1) // max int
	}
	return *p.DebtFreeMonth
}
