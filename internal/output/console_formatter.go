package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/ruin-simulator/internal/domain"
)

// ConsoleFormatter renders the run summary as two terminal tables.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(s *domain.SummaryStatistics) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT RUIN SIMULATION")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Paths: %d  Seed: %d\n", s.NumPaths, s.Seed)
	fmt.Fprintf(&buf, "Success rate: %s\n", FormatProbability(s.SuccessRate))
	fmt.Fprintf(&buf, "Median ending wealth: %s\n", FormatCurrency(s.MedianEndingWealth))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "Probability of ruin by age")
	ruin := tablewriter.NewWriter(&buf)
	ruin.Header("Age", "P(ruin)")
	for _, r := range s.RuinByAge {
		ruin.Append(strconv.Itoa(r.Age), FormatProbability(r.Probability))
	}
	if err := ruin.Render(); err != nil {
		return nil, fmt.Errorf("render ruin table: %w", err)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "Investable wealth percentiles (%s)\n", joinLabels(s.Levels))
	header := []any{"Age"}
	for _, l := range levelLabels(s.Levels) {
		header = append(header, l)
	}
	pct := tablewriter.NewWriter(&buf)
	pct.Header(header...)
	for _, row := range s.Percentiles {
		cells := []any{strconv.Itoa(row.Age)}
		for _, v := range row.Values {
			cells = append(cells, FormatCurrency(v))
		}
		pct.Append(cells...)
	}
	if err := pct.Render(); err != nil {
		return nil, fmt.Errorf("render percentile table: %w", err)
	}
	return buf.Bytes(), nil
}
