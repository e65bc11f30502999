// Package report prints a loaded snapshot to a terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"text/template"

	"github.com/JonMunkholm/sigem/internal/core"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

const textTemplate = `Municipalidades Integradas al SIGEM
República de Honduras
Fuente: {{.Source}} ({{.LoadedAt.Format "2006-01-02 15:04:05 MST"}})

Total de municipios:	{{.Summary.Total}}
Solventes:	{{.Summary.Compliant}}
Insolventes:	{{.Summary.NonCompliant}}
Departamentos:	{{.Summary.Regions}}
{{- if .Skipped}}
Filas omitidas:	{{.Skipped}}
{{- end}}

Departamento	Solventes	Insolventes	Total	Estatus
{{- range .Rows}}
{{.Region}}	{{.CompliantCount}}	{{.NonCompliantCount}}	{{.Total}}	{{.Status.Label}}
{{- end}}
`

var reportTmpl = template.Must(template.New("report").Parse(textTemplate))

// view is what both encodings render.
type view struct {
	*core.Snapshot
	Rows []core.RegionAggregate
}

// Reporter writes snapshot summaries in a fixed format.
type Reporter struct {
	writer io.Writer
	format Format
}

// NewReporter creates a reporter. A nil writer means stdout.
func NewReporter(writer io.Writer, format Format) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if format == "" {
		format = FormatText
	}
	return &Reporter{writer: writer, format: format}
}

// Handle writes the report for snap.
func (r *Reporter) Handle(snap *core.Snapshot) error {
	v := view{Snapshot: snap, Rows: Rows(snap)}

	if r.format == FormatJSON {
		enc := json.NewEncoder(r.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonReport{
			ID:       snap.ID.String(),
			Source:   snap.Source,
			LoadedAt: snap.LoadedAt,
			Keyword:  snap.Keyword,
			Summary:  snap.Summary,
			Skipped:  snap.Skipped,
			Regions:  v.Rows,
		})
	}

	tw := tabwriter.NewWriter(r.writer, 0, 4, 2, ' ', 0)
	if err := reportTmpl.Execute(tw, v); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return tw.Flush()
}

// Rows returns one row per department: every department of the fixed table
// plus any other region found in the data, in Spanish collation order.
func Rows(snap *core.Snapshot) []core.RegionAggregate {
	return core.CompleteAggregates(snap.Aggregates)
}
