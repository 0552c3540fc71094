// Package payoff simulates month-by-month debt amortization under
// competing repayment strategies. Balances are decimal, rounded to
// cents each step, so a 60-month trace carries no floating drift; a
// paid-off balance is exactly zero, never epsilon-negative.
package payoff

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"capital-lab/internal/domain"
	"capital-lab/internal/money"
)

// MonthRecord is one simulated month of a payoff run.
type MonthRecord struct {
	Month         int                `json:"month"` // 1-indexed
	TotalBalance  float64            `json:"totalBalance"`
	InterestPaid  float64            `json:"interestPaid"`
	PrincipalPaid float64            `json:"principalPaid"`
	TotalPayment  float64            `json:"totalPayment"`
	Balances      map[string]float64 `json:"balances"` // debt name -> remaining
}

// PayoffEvent records a debt reaching zero.
type PayoffEvent struct {
	DebtID       string  `json:"debtId"`
	DebtName     string  `json:"debtName"`
	Month        int     `json:"month"`
	FreedMinimum float64 `json:"freedMinimum"`
}

// Result summarizes a full payoff simulation.
type Result struct {
	Strategy domain.PayoffStrategy `json:"strategy"`
	Months   []MonthRecord         `json:"months"`
	Payoffs  []PayoffEvent         `json:"payoffs"`

	// DebtFreeMonth is the first month with zero total balance; 0 means
	// the input had no active debt, nil means the horizon ran out first.
	DebtFreeMonth *int `json:"debtFreeMonth"`

	TotalInterestPaid float64 `json:"totalInterestPaid"`
}

// sanitizeRate clamps NaN, infinite and negative annual rates to 0.
func sanitizeRate(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// sanitizeAmount clamps NaN, infinite and negative currency amounts to 0.
func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// debtState tracks one debt across the simulation.
type debtState struct {
	item         domain.DebtItem
	balance      decimal.Decimal
	paidOffMonth int // 0 = still open
}

// Simulation steps a debt set through time one month per call. The
// scenario projector drives it directly so the extra payment can vary
// month to month; Simulate wraps it for the fixed-extra case.
type Simulation struct {
	strategy domain.PayoffStrategy
	debts    []*debtState
	month    int

	// attackPool is the recurring monthly amount freed by debts paid off
	// in prior months. Redirected only for non-minimum-only strategies.
	attackPool decimal.Decimal

	payoffs       []PayoffEvent
	totalInterest decimal.Decimal
	debtFreeMonth *int
}

// NewSimulation prepares a stepper over the active, positive-balance
// debts. Malformed numbers are clamped to zero rather than rejected.
func NewSimulation(debts []domain.DebtItem, strategy domain.PayoffStrategy) *Simulation {
	s := &Simulation{
		strategy:   strategy,
		attackPool: decimal.Zero,
	}
	for _, d := range debts {
		if !d.IsActive || !(d.Balance > 0) || math.IsInf(d.Balance, 1) { // drops NaN too
			continue
		}
		d.APR = sanitizeRate(d.APR)
		d.PostIntroAPR = sanitizeRate(d.PostIntroAPR)
		d.MinimumPayment = sanitizeAmount(d.MinimumPayment)
		s.debts = append(s.debts, &debtState{
			item:    d,
			balance: money.FromFloat(d.Balance),
		})
	}
	if len(s.debts) == 0 {
		zero := 0
		s.debtFreeMonth = &zero
	}
	return s
}

// Done reports whether every balance has reached zero.
func (s *Simulation) Done() bool {
	for _, d := range s.debts {
		if d.balance.IsPositive() {
			return false
		}
	}
	return true
}

// MinimumsDue returns the minimum payments that will be charged next
// month, each capped at its remaining balance.
func (s *Simulation) MinimumsDue() float64 {
	due := decimal.Zero
	for _, d := range s.debts {
		if !d.balance.IsPositive() {
			continue
		}
		due = due.Add(decimal.Min(money.FromFloat(d.item.MinimumPayment), d.balance))
	}
	f, _ := due.Float64()
	return f
}

// Step advances the simulation one month, applying extra on top of
// minimum payments per the strategy's priority order. Extra is ignored
// under minimum_only.
func (s *Simulation) Step(extra float64) MonthRecord {
	s.month++
	monthInterest := decimal.Zero
	monthPayment := decimal.Zero

	// 1. Accrue interest on open balances.
	for _, d := range s.debts {
		if !d.balance.IsPositive() {
			continue
		}
		interest := money.MonthlyInterest(d.balance, d.item.EffectiveAPR(s.month))
		d.balance = d.balance.Add(interest)
		monthInterest = monthInterest.Add(interest)
	}

	// 2. Pay minimums, capped at the remaining balance.
	for _, d := range s.debts {
		if !d.balance.IsPositive() {
			continue
		}
		payment := decimal.Min(money.FromFloat(d.item.MinimumPayment), d.balance)
		d.balance = d.balance.Sub(payment)
		monthPayment = monthPayment.Add(payment)
	}

	// 3. Attack: extra plus freed minimums, cascading down the priority
	// order within the same month so no payment is wasted.
	if s.strategy != domain.StrategyMinimumOnly {
		attack := s.attackPool.Add(money.FromFloat(sanitizeAmount(extra)))
		for _, idx := range s.priorityOrder() {
			if !attack.IsPositive() {
				break
			}
			d := s.debts[idx]
			if !d.balance.IsPositive() {
				continue
			}
			payment := decimal.Min(attack, d.balance)
			d.balance = d.balance.Sub(payment)
			attack = attack.Sub(payment)
			monthPayment = monthPayment.Add(payment)
		}
	}

	// 4. Record payoffs; freed minimums join the pool from next month.
	for _, d := range s.debts {
		if d.paidOffMonth != 0 || d.balance.IsPositive() {
			continue
		}
		d.balance = decimal.Zero
		d.paidOffMonth = s.month
		s.payoffs = append(s.payoffs, PayoffEvent{
			DebtID:       d.item.ID,
			DebtName:     d.item.Name,
			Month:        s.month,
			FreedMinimum: d.item.MinimumPayment,
		})
		if s.strategy != domain.StrategyMinimumOnly {
			s.attackPool = s.attackPool.Add(money.FromFloat(d.item.MinimumPayment))
		}
	}

	s.totalInterest = s.totalInterest.Add(monthInterest)

	totalBalance := decimal.Zero
	balances := make(map[string]float64, len(s.debts))
	for _, d := range s.debts {
		totalBalance = totalBalance.Add(d.balance)
		balances[d.item.Name], _ = d.balance.Float64()
	}
	if s.debtFreeMonth == nil && totalBalance.IsZero() {
		m := s.month
		s.debtFreeMonth = &m
	}

	interestF, _ := monthInterest.Float64()
	paymentF, _ := monthPayment.Float64()
	totalF, _ := totalBalance.Float64()
	return MonthRecord{
		Month:         s.month,
		TotalBalance:  totalF,
		InterestPaid:  interestF,
		PrincipalPaid: paymentF - interestF,
		TotalPayment:  paymentF,
		Balances:      balances,
	}
}

// priorityOrder ranks open debts for this month's attack. Avalanche:
// effective APR descending, then balance descending, then input order.
// Snowball: balance ascending, then APR descending, then input order.
func (s *Simulation) priorityOrder() []int {
	order := make([]int, len(s.debts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := s.debts[order[a]], s.debts[order[b]]
		switch s.strategy {
		case domain.StrategySnowball:
			if !da.balance.Equal(db.balance) {
				return da.balance.LessThan(db.balance)
			}
			return da.item.EffectiveAPR(s.month) > db.item.EffectiveAPR(s.month)
		default: // avalanche
			ra, rb := da.item.EffectiveAPR(s.month), db.item.EffectiveAPR(s.month)
			if ra != rb {
				return ra > rb
			}
			return da.balance.GreaterThan(db.balance)
		}
	})
	return order
}

// DebtFreeMonth returns the month the last balance reached zero, or nil.
func (s *Simulation) DebtFreeMonth() *int {
	return s.debtFreeMonth
}

// TotalInterestPaid returns the interest accrued so far.
func (s *Simulation) TotalInterestPaid() float64 {
	f, _ := s.totalInterest.Float64()
	return f
}

// Payoffs returns the payoff events recorded so far, in month order.
func (s *Simulation) Payoffs() []PayoffEvent {
	return s.payoffs
}

// Simulate runs a debt set for up to horizonMonths with a fixed monthly
// extra payment. It stops early once every balance is zero. A zero or
// negative horizon yields an empty trace with a nil DebtFreeMonth
// unless the input is already debt-free.
func Simulate(debts []domain.DebtItem, strategy domain.PayoffStrategy, extraPayment float64, horizonMonths int) *Result {
	sim := NewSimulation(debts, strategy)
	res := &Result{
		Strategy: strategy,
		Months:   []MonthRecord{},
	}

	for m := 0; m < horizonMonths; m++ {
		if sim.Done() {
			break
		}
		res.Months = append(res.Months, sim.Step(extraPayment))
	}

	res.Payoffs = sim.Payoffs()
	res.DebtFreeMonth = sim.DebtFreeMonth()
	res.TotalInterestPaid = sim.TotalInterestPaid()
	return res
}
