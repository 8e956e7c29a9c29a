package output

import (
	"encoding/json"

	"github.com/rpgo/ruin-simulator/internal/domain"
)

// JSONFormatter serializes the summary as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(s *domain.SummaryStatistics) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
