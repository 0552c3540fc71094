// Package money provides monetary and rate primitives shared by the
// engine: APR conversion and cent-precision decimal arithmetic. The
// payoff simulator keeps its balances in decimals rounded to cents so a
// 60-month trace accumulates no floating drift.
package money

import "github.com/shopspring/decimal"

// Calendar constants.
const (
	MonthsPerYear = 12
	DaysPerYear   = 365
)

var (
	monthsPerYear = decimal.NewFromInt(MonthsPerYear)
)

// MonthlyRate converts an annual rate to a simple monthly rate.
func MonthlyRate(apr float64) float64 {
	return apr / MonthsPerYear
}

// DailyRate converts an annual rate to a simple daily rate.
func DailyRate(apr float64) float64 {
	return apr / DaysPerYear
}

// Cents rounds a decimal amount to cent precision.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts a float currency amount to a cent-rounded decimal.
func FromFloat(v float64) decimal.Decimal {
	return Cents(decimal.NewFromFloat(v))
}

// MonthlyInterest returns one month of simple interest on a balance at
// the given annual rate, rounded to cents.
func MonthlyInterest(balance decimal.Decimal, apr float64) decimal.Decimal {
	return Cents(balance.Mul(decimal.NewFromFloat(apr)).Div(monthsPerYear))
}

// Clamp constrains v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
