package calculation

import (
	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// IncomePolicy maps an age to a non-negative annual earned income.
// Implementations must be pure: the same age always yields the same amount.
type IncomePolicy interface {
	EarnedIncome(age int) decimal.Decimal
}

// IncomePolicyFunc adapts an ordinary function to IncomePolicy.
type IncomePolicyFunc func(age int) decimal.Decimal

// EarnedIncome implements IncomePolicy.
func (f IncomePolicyFunc) EarnedIncome(age int) decimal.Decimal { return f(age) }

// NoEarnedIncome pays nothing at any age.
var NoEarnedIncome = IncomePolicyFunc(func(int) decimal.Decimal { return decimal.Zero })

// FlatIncomePolicy pays Annual for FromAge <= age < ToAge and nothing otherwise.
type FlatIncomePolicy struct {
	Annual  decimal.Decimal
	FromAge int
	ToAge   int
}

// EarnedIncome implements IncomePolicy.
func (p FlatIncomePolicy) EarnedIncome(age int) decimal.Decimal {
	if age >= p.FromAge && age < p.ToAge {
		return p.Annual
	}
	return decimal.Zero
}

// BandedIncomePolicy pays the amount of the first band containing age.
type BandedIncomePolicy struct {
	Bands []domain.IncomeBand
}

// EarnedIncome implements IncomePolicy.
func (p BandedIncomePolicy) EarnedIncome(age int) decimal.Decimal {
	for _, b := range p.Bands {
		if age >= b.FromAge && age < b.ToAge {
			return b.Annual
		}
	}
	return decimal.Zero
}

// NewIncomePolicy builds the policy described by configured bands.
func NewIncomePolicy(bands []domain.IncomeBand) IncomePolicy {
	switch len(bands) {
	case 0:
		return NoEarnedIncome
	case 1:
		return FlatIncomePolicy{Annual: bands[0].Annual, FromAge: bands[0].FromAge, ToAge: bands[0].ToAge}
	default:
		return BandedIncomePolicy{Bands: append([]domain.IncomeBand(nil), bands...)}
	}
}
