package output

import (
	"strings"

	"github.com/rpgo/ruin-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return money.Format(amount) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatProbability renders a 0..1 fraction as a percentage.
func FormatProbability(p decimal.Decimal) string { return FormatPercentage(p.Mul(hundred)) }

// LevelLabel names a percentile column, e.g. P5 or P97.5.
func LevelLabel(level decimal.Decimal) string { return "P" + level.String() }

func levelLabels(levels []decimal.Decimal) []string {
	labels := make([]string, len(levels))
	for i, l := range levels {
		labels[i] = LevelLabel(l)
	}
	return labels
}

func joinLabels(levels []decimal.Decimal) string { return strings.Join(levelLabels(levels), "/") }
