package adapters

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"sideload-watch/internal/ports"
	"sideload-watch/internal/types"
)

// OutputWriterAdapter renders command results to a writer in one of the
// supported formats. Text output is meant for terminals; json and yaml
// carry the same field names as the persisted records.
type OutputWriterAdapter struct {
	Out    io.Writer
	Format types.OutputFormat
}

func NewOutputWriterAdapter(out io.Writer, format string) (OutputWriterAdapter, error) {
	normalized := types.OutputFormat(strings.ToLower(strings.TrimSpace(format)))
	switch normalized {
	case "":
		normalized = types.OutputFormatText
	case types.OutputFormatText, types.OutputFormatJSON, types.OutputFormatYAML:
	default:
		return OutputWriterAdapter{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format %q", format))
	}
	return OutputWriterAdapter{Out: out, Format: normalized}, nil
}

func (a OutputWriterAdapter) WriteRecords(records []types.PackageRecord) error {
	if records == nil {
		records = []types.PackageRecord{}
	}
	if a.Format != types.OutputFormatText {
		return a.encode(records)
	}
	if len(records) == 0 {
		return a.text("no sideloaded packages\n")
	}
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "PACKAGE\tNAME\tVERDICT")
	for _, record := range records {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", record.PackageID, record.DisplayName, record.Verdict)
	}
	if err := writer.Flush(); err != nil {
		return writeError(err)
	}
	return nil
}

func (a OutputWriterAdapter) WriteVerdict(report types.VerdictReport) error {
	if a.Format != types.OutputFormatText {
		return a.encode(report)
	}
	return a.text(fmt.Sprintf("%s: %s\n", report.PackageID, report.Verdict))
}

func (a OutputWriterAdapter) WritePending(report types.PendingReport) error {
	if report.Packages == nil {
		report.Packages = []string{}
	}
	if a.Format != types.OutputFormatText {
		return a.encode(report)
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "backend: %s\n", report.Backend)
	fmt.Fprintf(&builder, "pending: %d\n", report.Count)
	for _, id := range report.Packages {
		fmt.Fprintf(&builder, "- %s\n", id)
	}
	return a.text(builder.String())
}

func (a OutputWriterAdapter) encode(value any) error {
	var (
		data []byte
		err  error
	)
	switch a.Format {
	case types.OutputFormatJSON:
		data, err = json.MarshalIndent(value, "", "  ")
		data = append(data, '\n')
	case types.OutputFormatYAML:
		data, err = yaml.Marshal(value)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format %q", a.Format))
	}
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to marshal %s output", a.Format)).
			WithCause(err)
	}
	if _, err := a.Out.Write(data); err != nil {
		return writeError(err)
	}
	return nil
}

func (a OutputWriterAdapter) text(content string) error {
	if _, err := io.WriteString(a.Out, content); err != nil {
		return writeError(err)
	}
	return nil
}

func writeError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to write output").
		WithCause(err)
}

var _ ports.OutputPort = OutputWriterAdapter{}
