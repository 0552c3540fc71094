package domain

// PayoffStrategy selects how extra payments are prioritized across debts.
type PayoffStrategy string

// Payoff strategy constants.
const (
	StrategyAvalanche   PayoffStrategy = "avalanche"    // highest effective APR first
	StrategySnowball    PayoffStrategy = "snowball"     // smallest balance first
	StrategyMinimumOnly PayoffStrategy = "minimum_only" // minimums only, no extra
)

// AllStrategies lists every payoff strategy in comparison order.
var AllStrategies = []PayoffStrategy{StrategyAvalanche, StrategySnowball, StrategyMinimumOnly}

// DebtItem represents one liability.
// A debt with Balance == 0 or IsActive == false is excluded from all
// simulations. Simulations never mutate the input item.
type DebtItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	APR            float64 `json:"apr"` // annual rate, 0.24 = 24%
	MinimumPayment float64 `json:"minimumPayment"`
	IsActive       bool    `json:"isActive"`

	// Promotional rate support: months 1..IntroAPRMonths accrue at APR
	// (typically 0 for a promo), later months at PostIntroAPR.
	IntroAPRMonths int     `json:"introAprMonths,omitempty"`
	PostIntroAPR   float64 `json:"postIntroApr,omitempty"`
}

// EffectiveAPR returns the annual rate in force during the given
// 1-indexed simulation month.
func (d DebtItem) EffectiveAPR(month int) float64 {
	if d.IntroAPRMonths > 0 && month > d.IntroAPRMonths {
		return d.PostIntroAPR
	}
	return d.APR
}

// CascadeStep records one payoff event in a freed-capital cascade.
// AcceleratesNext is the name of the debt that inherits the freed minimum,
// or empty when no debt remains.
type CascadeStep struct {
	DebtName        string  `json:"debtName"`
	PaidOffMonth    int     `json:"paidOffMonth"`
	FreedMinimum    float64 `json:"freedMinimum"`
	AcceleratesNext string  `json:"acceleratesNext,omitempty"`
}
