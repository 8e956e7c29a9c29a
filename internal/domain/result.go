package domain

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// RuinAge is the age of the first simulated year in which a path could not meet
// its spending need. NotRuined marks paths that survived the horizon.
type RuinAge int

// NotRuined is the unset ruin age.
const NotRuined RuinAge = -1

// IsSet reports whether the path was ruined.
func (r RuinAge) IsSet() bool { return r >= 0 }

// MarshalJSON encodes an unset ruin age as null.
func (r RuinAge) MarshalJSON() ([]byte, error) {
	if !r.IsSet() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(r))), nil
}

// UnmarshalJSON decodes null as NotRuined.
func (r *RuinAge) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = NotRuined
		return nil
	}
	var age int
	if err := json.Unmarshal(b, &age); err != nil {
		return err
	}
	*r = RuinAge(age)
	return nil
}

// SimulationResult is the year × path grid of total investable wealth (cash excluded)
// plus one ruin age per path. Row 0 is the starting wealth; row y is wealth at the end
// of simulated year y and is labelled Ages[y].
type SimulationResult struct {
	Ages     []int               `json:"ages"`
	Wealth   [][]decimal.Decimal `json:"wealth"`
	RuinAges []RuinAge           `json:"ruin_ages"`
	NumPaths int                 `json:"num_paths"`
	Seed     int64               `json:"seed"`
}

// PathWealth copies one path's column out of the grid.
func (r *SimulationResult) PathWealth(path int) []decimal.Decimal {
	col := make([]decimal.Decimal, len(r.Wealth))
	for y := range r.Wealth {
		col[y] = r.Wealth[y][path]
	}
	return col
}

// RuinProbability is the fraction of paths ruined at or before Age.
type RuinProbability struct {
	Age         int             `json:"age"`
	Probability decimal.Decimal `json:"probability"`
}

// PercentileRow holds one year's wealth percentiles, aligned with SummaryStatistics.Levels.
type PercentileRow struct {
	Age    int               `json:"age"`
	Values []decimal.Decimal `json:"values"`
}

// SummaryStatistics is derived from a SimulationResult and never mutated.
type SummaryStatistics struct {
	NumPaths           int               `json:"num_paths"`
	Seed               int64             `json:"seed"`
	SuccessRate        decimal.Decimal   `json:"success_rate"`
	MedianEndingWealth decimal.Decimal   `json:"median_ending_wealth"`
	RuinByAge          []RuinProbability `json:"ruin_by_age"`
	Levels             []decimal.Decimal `json:"levels"`
	Percentiles        []PercentileRow   `json:"percentiles"`
}
