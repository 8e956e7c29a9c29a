package calculation

import (
	"github.com/rpgo/ruin-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// minNetPerGross keeps the gross-up division finite when both buckets are taxed near 100%.
var minNetPerGross = decimal.NewFromFloat(1e-6)

var one = decimal.NewFromInt(1)

// Balances is the liquid state of a household: an untaxed cash reserve and two
// investment buckets with different effective withdrawal tax rates.
type Balances struct {
	Cash        decimal.Decimal `json:"cash"`
	TaxDeferred decimal.Decimal `json:"tax_deferred"`
	Taxable     decimal.Decimal `json:"taxable"`
}

// Investable is the total wealth exposed to market returns (cash excluded).
func (b Balances) Investable() decimal.Decimal {
	return b.TaxDeferred.Add(b.Taxable)
}

// TaxRates are the flat effective rates applied to gross bucket withdrawals.
type TaxRates struct {
	TaxDeferred decimal.Decimal
	Taxable     decimal.Decimal
}

// Withdrawal describes one year's draw.
type Withdrawal struct {
	Balances        Balances        `json:"balances"` // after the draw
	NetNeed         decimal.Decimal `json:"net_need"` // expense minus income, before cash
	FromCash        decimal.Decimal `json:"from_cash"`
	Gross           decimal.Decimal `json:"gross"`
	FromTaxDeferred decimal.Decimal `json:"from_tax_deferred"`
	FromTaxable     decimal.Decimal `json:"from_taxable"`
	Ruined          bool            `json:"ruined"`
}

// Waterfall satisfies a year's net spending need from cash first, then from both
// investment buckets in proportion to their share of investable wealth.
type Waterfall struct {
	Rates TaxRates
}

// NetPerGross is the wealth-weighted after-tax retention of a withdrawal.
// taxDeferredShare is the tax-deferred bucket's share of investable wealth.
func (w Waterfall) NetPerGross(taxDeferredShare decimal.Decimal) decimal.Decimal {
	taxableShare := one.Sub(taxDeferredShare)
	return money.NetOfTax(taxDeferredShare, w.Rates.TaxDeferred).
		Add(money.NetOfTax(taxableShare, w.Rates.Taxable))
}

// Withdraw applies the waterfall. Surplus income is not saved. When need remains after
// cash and both buckets are empty the year is flagged as ruined; running short because
// the gross draw was capped at investable wealth is not ruin until a later year finds
// the buckets empty.
func (w Waterfall) Withdraw(b Balances, expense, income decimal.Decimal) Withdrawal {
	out := Withdrawal{Balances: b}

	need := decimal.Max(expense.Sub(income), decimal.Zero)
	out.NetNeed = need
	if !need.IsPositive() {
		return out
	}

	if b.Cash.IsPositive() {
		out.FromCash = decimal.Min(b.Cash, need)
		out.Balances.Cash = b.Cash.Sub(out.FromCash)
		need = need.Sub(out.FromCash)
	}
	if !need.IsPositive() {
		return out
	}

	total := b.Investable()
	if !total.IsPositive() {
		out.Balances.TaxDeferred = decimal.Zero
		out.Balances.Taxable = decimal.Zero
		out.Ruined = true
		return out
	}

	efficiency := decimal.Max(w.NetPerGross(b.TaxDeferred.Div(total)), minNetPerGross)
	gross := decimal.Min(money.Round(need.Div(efficiency)), total)
	fromTaxDeferred, fromTaxable := AllocateGross(gross, b.TaxDeferred, b.Taxable)

	out.Gross = gross
	out.FromTaxDeferred = fromTaxDeferred
	out.FromTaxable = fromTaxable
	out.Balances.TaxDeferred = b.TaxDeferred.Sub(fromTaxDeferred)
	out.Balances.Taxable = b.Taxable.Sub(fromTaxable)
	return out
}

// AllocateGross splits a gross withdrawal across the buckets in proportion to their
// balances, then shifts any overflow to the other bucket. Whatever neither bucket can
// cover is left undrawn.
func AllocateGross(gross, taxDeferred, taxable decimal.Decimal) (fromTaxDeferred, fromTaxable decimal.Decimal) {
	total := taxDeferred.Add(taxable)
	if !total.IsPositive() || !gross.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	share := taxDeferred.Div(total)
	fromTaxDeferred = money.Round(gross.Mul(share))
	fromTaxable = gross.Sub(fromTaxDeferred)
	return rebalanceDraws(fromTaxDeferred, fromTaxable, taxDeferred, taxable)
}

// rebalanceDraws clamps each draw to its bucket and moves the excess across, in both
// directions, since either bucket can be the constrained one.
func rebalanceDraws(fromTaxDeferred, fromTaxable, taxDeferred, taxable decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if fromTaxDeferred.GreaterThan(taxDeferred) {
		excess := fromTaxDeferred.Sub(taxDeferred)
		fromTaxDeferred = taxDeferred
		fromTaxable = decimal.Min(fromTaxable.Add(excess), taxable)
	}
	if fromTaxable.GreaterThan(taxable) {
		excess := fromTaxable.Sub(taxable)
		fromTaxable = taxable
		fromTaxDeferred = decimal.Min(fromTaxDeferred.Add(excess), taxDeferred)
	}
	return fromTaxDeferred, fromTaxable
}
