package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/AleksandrPea/spiderkit/internal/pipeline"
)

// PlainWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type PlainWriter struct {
	baseWriter

	// showRejections controls whether unsupported and malformed inputs
	// are listed individually rather than only counted.
	showRejections bool
}

// PlainWriterOption configures a PlainWriter.
type PlainWriterOption func(*PlainWriter)

// WithShowRejections lists rejected inputs individually with their reasons.
func WithShowRejections(show bool) PlainWriterOption {
	return func(w *PlainWriter) {
		w.showRejections = show
	}
}

// NewPlainWriter creates a PlainWriter that outputs to the given writer.
func NewPlainWriter(output io.Writer, opts ...PlainWriterOption) *PlainWriter {
	w := &PlainWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *PlainWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeResults(&sb, report)
	w.writeDiscoveries(&sb, report)
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *PlainWriter) writeHeader(sb *strings.Builder, report *Report) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SPIDERKIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Date:  %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Mode:  %s\n", report.Mode))
	if report.Base != "" {
		sb.WriteString(fmt.Sprintf("Base:  %s\n", report.Base))
	}
	sb.WriteString("\n")
}

// writeResults writes one line per processed URL.
func (w *PlainWriter) writeResults(sb *strings.Builder, report *Report) {
	if len(report.Results) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, res := range report.Results {
		switch res.Outcome {
		case pipeline.OutcomeCanonical:
			sb.WriteString(fmt.Sprintf("  [+] %s\n", res.Canonical))
		default:
			if w.showRejections {
				sb.WriteString(fmt.Sprintf("  [!] %s: %v\n", res.Input, res.Err))
			} else {
				sb.WriteString(fmt.Sprintf("  [!] %s (%s)\n", res.Input, res.Outcome))
			}
		}
	}
	sb.WriteString("\n")
}

// writeDiscoveries writes URLs found by the scanners.
func (w *PlainWriter) writeDiscoveries(sb *strings.Builder, report *Report) {
	if len(report.Discoveries) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DISCOVERED URLS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, d := range report.Discoveries {
		sb.WriteString(fmt.Sprintf("  [+] %s\n", d.URL))
	}
	sb.WriteString("\n")
}

// writeSummary writes outcome counts and frontier statistics.
func (w *PlainWriter) writeSummary(sb *strings.Builder, report *Report) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if report.TotalInputs() > 0 {
		sb.WriteString(fmt.Sprintf("  CANONICAL:   %d\n", report.CountByOutcome(pipeline.OutcomeCanonical)))
		sb.WriteString(fmt.Sprintf("  UNSUPPORTED: %d\n", report.CountByOutcome(pipeline.OutcomeUnsupported)))
		sb.WriteString(fmt.Sprintf("  MALFORMED:   %d\n", report.CountByOutcome(pipeline.OutcomeMalformed)))
		sb.WriteString(fmt.Sprintf("  TOTAL:       %d inputs\n", report.TotalInputs()))
	}
	if len(report.Discoveries) > 0 {
		sb.WriteString(fmt.Sprintf("  DISCOVERED:  %d URLs\n", len(report.Discoveries)))
	}
	if report.NewCount > 0 || report.DuplicateCount > 0 {
		sb.WriteString(fmt.Sprintf("  NEW:         %d\n", report.NewCount))
		sb.WriteString(fmt.Sprintf("  DUPLICATE:   %d\n", report.DuplicateCount))
	}
	sb.WriteString("\n")
}
