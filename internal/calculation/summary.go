package calculation

import (
	"slices"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCheckpointAges are reported when the configuration names none.
var DefaultCheckpointAges = []int{60, 65, 70, 75, 80, 85, 90, 95}

// DefaultPercentileLevels are reported when the configuration names none.
var DefaultPercentileLevels = []decimal.Decimal{
	decimal.NewFromInt(5),
	decimal.NewFromInt(50),
	decimal.NewFromInt(95),
}

var hundred = decimal.NewFromInt(100)

// RuinProbabilities returns, for each checkpoint in ascending order, the fraction of
// paths whose ruin age is at or before it. Unruined paths never count.
func RuinProbabilities(result *domain.SimulationResult, checkpoints []int) []domain.RuinProbability {
	ages := slices.Clone(checkpoints)
	slices.Sort(ages)
	ages = slices.Compact(ages)

	total := decimal.NewFromInt(int64(len(result.RuinAges)))
	out := make([]domain.RuinProbability, 0, len(ages))
	for _, age := range ages {
		count := 0
		for _, ra := range result.RuinAges {
			if ra.IsSet() && int(ra) <= age {
				count++
			}
		}
		prob := decimal.Zero
		if total.IsPositive() {
			prob = decimal.NewFromInt(int64(count)).Div(total)
		}
		out = append(out, domain.RuinProbability{Age: age, Probability: prob})
	}
	return out
}

// BalancePercentiles computes the requested percentiles of every year's wealth column.
func BalancePercentiles(result *domain.SimulationResult, levels []decimal.Decimal) []domain.PercentileRow {
	rows := make([]domain.PercentileRow, 0, len(result.Wealth))
	for y, column := range result.Wealth {
		sorted := slices.Clone(column)
		slices.SortFunc(sorted, func(a, b decimal.Decimal) int { return a.Cmp(b) })

		values := make([]decimal.Decimal, len(levels))
		for i, lvl := range levels {
			values[i] = Percentile(sorted, lvl)
		}
		rows = append(rows, domain.PercentileRow{Age: result.Ages[y], Values: values})
	}
	return rows
}

// Percentile linearly interpolates between closest ranks of an ascending slice,
// level in [0, 100]. An empty slice yields zero.
func Percentile(sorted []decimal.Decimal, level decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n == 1 {
		return sorted[0]
	}
	rank := level.Div(hundred).Mul(decimal.NewFromInt(int64(n - 1)))
	lower := rank.Floor()
	lo := int(lower.IntPart())
	if lo >= n-1 {
		return sorted[n-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	frac := rank.Sub(lower)
	return sorted[lo].Add(sorted[lo+1].Sub(sorted[lo]).Mul(frac))
}

// Summarize derives all summary statistics from a result. Empty report settings fall
// back to DefaultCheckpointAges and DefaultPercentileLevels.
func Summarize(result *domain.SimulationResult, report domain.ReportSettings) *domain.SummaryStatistics {
	checkpoints := report.CheckpointAges
	if len(checkpoints) == 0 {
		checkpoints = DefaultCheckpointAges
	}
	levels := report.PercentileLevels
	if len(levels) == 0 {
		levels = DefaultPercentileLevels
	}

	survivors := 0
	for _, ra := range result.RuinAges {
		if !ra.IsSet() {
			survivors++
		}
	}
	successRate := decimal.Zero
	if result.NumPaths > 0 {
		successRate = decimal.NewFromInt(int64(survivors)).Div(decimal.NewFromInt(int64(result.NumPaths)))
	}

	median := decimal.Zero
	if len(result.Wealth) > 0 {
		ending := slices.Clone(result.Wealth[len(result.Wealth)-1])
		slices.SortFunc(ending, func(a, b decimal.Decimal) int { return a.Cmp(b) })
		median = Percentile(ending, decimal.NewFromInt(50))
	}

	return &domain.SummaryStatistics{
		NumPaths:           result.NumPaths,
		Seed:               result.Seed,
		SuccessRate:        successRate,
		MedianEndingWealth: median,
		RuinByAge:          RuinProbabilities(result, checkpoints),
		Levels:             slices.Clone(levels),
		Percentiles:        BalancePercentiles(result, levels),
	}
}
