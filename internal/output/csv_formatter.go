package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rpgo/ruin-simulator/internal/domain"
)

// CSVPercentileFormatter exports one row per age with a column per percentile level.
type CSVPercentileFormatter struct{}

func (c CSVPercentileFormatter) Name() string { return "csv" }

func (c CSVPercentileFormatter) Format(s *domain.SummaryStatistics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := append([]string{"Age"}, levelLabels(s.Levels)...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range s.Percentiles {
		rec := make([]string, 0, len(row.Values)+1)
		rec = append(rec, strconv.Itoa(row.Age))
		for _, v := range row.Values {
			rec = append(rec, v.StringFixed(2))
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("failed to write data row: %w", err)
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVRuinFormatter exports the ruin probability curve.
type CSVRuinFormatter struct{}

func (c CSVRuinFormatter) Name() string { return "ruin-csv" }

func (c CSVRuinFormatter) Format(s *domain.SummaryStatistics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Age", "RuinProbability"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range s.RuinByAge {
		if err := w.Write([]string{strconv.Itoa(r.Age), r.Probability.StringFixed(4)}); err != nil {
			return nil, fmt.Errorf("failed to write data row: %w", err)
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
