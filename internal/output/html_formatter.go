package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rpgo/ruin-simulator/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":   FormatCurrency,
	"prob":   FormatProbability,
	"labels": levelLabels,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(s *domain.SummaryStatistics) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
