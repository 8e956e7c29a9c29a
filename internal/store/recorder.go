package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrRunNotFound is returned when a run ID has no stored record.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is the persisted form of one Monte Carlo run.
type RunRecord struct {
	ID                 string
	CreatedAt          time.Time
	Label              string
	ReturnModel        string
	StartAge           int
	EndAge             int
	NumPaths           int
	Seed               int64
	SuccessRate        decimal.Decimal
	MedianEndingWealth decimal.Decimal
	RuinByAge          []domain.RuinProbability
	Levels             []decimal.Decimal
	Percentiles        []domain.PercentileRow
}

// NewRunRecord captures a finished run under a fresh ID.
func NewRunRecord(label string, cfg *domain.Configuration, s *domain.SummaryStatistics) *RunRecord {
	return &RunRecord{
		ID:                 uuid.NewString(),
		CreatedAt:          time.Now().UTC(),
		Label:              label,
		ReturnModel:        cfg.Returns.Model,
		StartAge:           cfg.Simulation.StartAge,
		EndAge:             cfg.Simulation.EndAge,
		NumPaths:           s.NumPaths,
		Seed:               s.Seed,
		SuccessRate:        s.SuccessRate,
		MedianEndingWealth: s.MedianEndingWealth,
		RuinByAge:          s.RuinByAge,
		Levels:             s.Levels,
		Percentiles:        s.Percentiles,
	}
}

// Summary rebuilds the summary statistics a record was created from.
func (r *RunRecord) Summary() *domain.SummaryStatistics {
	return &domain.SummaryStatistics{
		NumPaths:           r.NumPaths,
		Seed:               r.Seed,
		SuccessRate:        r.SuccessRate,
		MedianEndingWealth: r.MedianEndingWealth,
		RuinByAge:          r.RuinByAge,
		Levels:             r.Levels,
		Percentiles:        r.Percentiles,
	}
}

// Recorder persists run history for later comparison.
type Recorder interface {
	RecordRun(run *RunRecord) error
	// ListRuns returns the newest runs first, without per-age detail.
	ListRuns(limit int) ([]RunRecord, error)
	LoadRun(id string) (*RunRecord, error)
	Close() error
}
