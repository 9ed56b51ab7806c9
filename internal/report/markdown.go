package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/AleksandrPea/spiderkit/internal/pipeline"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeResults(md, report)
	w.writeDiscoveries(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("Spiderkit Report")
	md.PlainText("")

	rows := [][]string{
		{"Date", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Mode", "`" + report.Mode + "`"},
	}
	if report.Base != "" {
		rows = append(rows, []string{"Base", "`" + report.Base + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the outcome summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *Report) {
	md.H2("Summary")
	md.PlainText("")

	canonical := report.CountByOutcome(pipeline.OutcomeCanonical)
	unsupported := report.CountByOutcome(pipeline.OutcomeUnsupported)
	malformed := report.CountByOutcome(pipeline.OutcomeMalformed)

	rows := [][]string{
		{"Canonical", strconv.Itoa(canonical)},
		{"Unsupported", strconv.Itoa(unsupported)},
		{"Malformed", strconv.Itoa(malformed)},
		{"**Total**", "**" + strconv.Itoa(report.TotalInputs()) + "**"},
	}
	if len(report.Discoveries) > 0 {
		rows = append(rows, []string{"Discovered", strconv.Itoa(len(report.Discoveries))})
	}
	if report.NewCount > 0 || report.DuplicateCount > 0 {
		rows = append(rows,
			[]string{"New", strconv.Itoa(report.NewCount)},
			[]string{"Duplicate", strconv.Itoa(report.DuplicateCount)},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.TotalInputs() > 0 {
		w.writePieChart(md, canonical, unsupported, malformed)
	}

	if report.HasRejections() {
		md.Warningf(
			"%d input(s) were rejected as unsupported or malformed.",
			unsupported+malformed,
		)
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, canonical, unsupported, malformed int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if canonical > 0 {
		chart.LabelAndIntValue("Canonical", uint64(canonical))
	}
	if unsupported > 0 {
		chart.LabelAndIntValue("Unsupported", uint64(unsupported))
	}
	if malformed > 0 {
		chart.LabelAndIntValue("Malformed", uint64(malformed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeResults writes the per-URL results table.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *Report) {
	if len(report.Results) == 0 {
		return
	}

	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, len(report.Results))
	for i, res := range report.Results {
		out := res.Canonical
		if out == "" {
			out = "-"
		}
		reason := res.Reason
		if reason == "" {
			reason = "-"
		}
		rows[i] = []string{
			"`" + res.Input + "`",
			string(res.Outcome),
			"`" + out + "`",
			truncateString(reason, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Input", "Outcome", "Canonical", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDiscoveries writes the discovered URL table.
func (w *MarkdownWriter) writeDiscoveries(md *markdown.Markdown, report *Report) {
	if len(report.Discoveries) == 0 {
		return
	}

	md.H2("Discovered URLs")
	md.PlainText("")

	rows := make([][]string, len(report.Discoveries))
	for i, d := range report.Discoveries {
		source := d.Source
		if source == "" {
			source = "-"
		}
		rows[i] = []string{
			"`" + d.URL + "`",
			truncateString(source, 50),
			strconv.Itoa(d.Depth),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Source", "Depth"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by spiderkit*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
