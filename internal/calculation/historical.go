package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ReturnObservation is one year of an aggregate historical return series.
type ReturnObservation struct {
	Year   int             `json:"year"`
	Return decimal.Decimal `json:"return"`
}

// ReturnSeries is a historical annual return series sorted by year.
type ReturnSeries struct {
	Source       string              `json:"source"`
	Observations []ReturnObservation `json:"observations"`
	MinYear      int                 `json:"min_year"`
	MaxYear      int                 `json:"max_year"`
}

// Returns lists the observed returns in year order.
func (rs *ReturnSeries) Returns() []decimal.Decimal {
	out := make([]decimal.Decimal, len(rs.Observations))
	for i, o := range rs.Observations {
		out[i] = o.Return
	}
	return out
}

// Mean is the arithmetic average of the series.
func (rs *ReturnSeries) Mean() decimal.Decimal {
	if len(rs.Observations) == 0 {
		return decimal.Zero
	}
	var sum decimal.Decimal
	for _, o := range rs.Observations {
		sum = sum.Add(o.Return)
	}
	return sum.Div(decimal.NewFromInt(int64(len(rs.Observations))))
}

// LoadReturnSeries reads a "year,return" CSV file. Returns are fractions (0.07 = 7%).
func LoadReturnSeries(filePath string) (*ReturnSeries, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	series, err := ParseReturnSeries(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	series.Source = filePath
	return series, nil
}

// ParseReturnSeries parses CSV content with a header row followed by year,return rows.
// Rows with an unparseable year or return are skipped.
func ParseReturnSeries(r io.Reader) (*ReturnSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, errors.New("invalid CSV format: expected at least 2 columns")
	}

	var observations []ReturnObservation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		value, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}
		observations = append(observations, ReturnObservation{Year: year, Return: value})
	}

	if len(observations) == 0 {
		return nil, errors.New("no valid data points found")
	}

	sort.Slice(observations, func(i, j int) bool { return observations[i].Year < observations[j].Year })
	return &ReturnSeries{
		Observations: observations,
		MinYear:      observations[0].Year,
		MaxYear:      observations[len(observations)-1].Year,
	}, nil
}
