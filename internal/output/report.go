package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the summary in the named format (or "all") into dir and
// returns the files it created.
func GenerateReport(summary *domain.SummaryStatistics, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range builtInFormatters {
			name, err := WriteFormatted(f, summary, dir, Extension(f))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	name, err := WriteFormatted(f, summary, dir, Extension(f))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// SaveConfiguration writes a configuration as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
