// Package report writes the outcome of a test run as a Markdown document, for sharing or for
// attaching to a CI job.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/shiva-pdv/api-contract-tests/framework"
	"github.com/shiva-pdv/api-contract-tests/harness"
)

// Run is everything the report describes.
type Run struct {
	BaseURL  string
	Started  time.Time
	Duration time.Duration
	Results  framework.Results
	Checks   harness.RunReport
}

// OK is true if no test failed and every check passed.
func (r Run) OK() bool {
	return r.Results.OK() && r.Checks.OK()
}

// WriteMarkdown writes the report to out.
func WriteMarkdown(out io.Writer, run Run) error {
	md := markdown.NewMarkdown(out)

	md.H1("API Contract Test Report")
	md.PlainText("")
	writeOverview(md, run)
	writeFailedTests(md, run.Results)
	writeChecks(md, run.Checks)

	return md.Build()
}

func writeOverview(md *markdown.Markdown, run Run) {
	passed, failed, skipped := run.Results.Counts()
	status := "✅ Passed"
	if !run.OK() {
		status = "❌ Failed"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"API", "`" + run.BaseURL + "`"},
			{"Started", run.Started.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration.Round(time.Millisecond).String()},
			{"Tests", fmt.Sprintf("%d passed, %d failed, %d skipped", passed, failed, skipped)},
			{"Checks", fmt.Sprintf("%d passed, %d failed", run.Checks.PassedCount, run.Checks.FailedCount)},
			{"Status", status},
		},
	})
	md.PlainText("")

	if len(run.Checks.Results) > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Checks"),
			piechart.WithShowData(true),
		)
		chart.LabelAndIntValue("Passed", uint64(run.Checks.PassedCount))
		if run.Checks.FailedCount > 0 {
			chart.LabelAndIntValue("Failed", uint64(run.Checks.FailedCount))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	if run.OK() {
		md.Tip("All tests and checks passed.")
	} else {
		md.Cautionf("%d test(s) and %d check(s) failed.", failed, run.Checks.FailedCount)
	}
	md.PlainText("")
}

func writeFailedTests(md *markdown.Markdown, results framework.Results) {
	if len(results.Failures) == 0 {
		return
	}
	md.H2("Failed Tests")
	md.PlainText("")
	items := make([]string, 0, len(results.Failures))
	for _, f := range results.Failures {
		var messages []string
		for _, err := range f.Errors {
			messages = append(messages, oneLine(err.Error()))
		}
		item := "`" + f.TestID.String() + "`"
		if len(messages) > 0 {
			item += ": " + strings.Join(messages, "; ")
		}
		items = append(items, item)
	}
	md.BulletList(items...)
	md.PlainText("")
}

func writeChecks(md *markdown.Markdown, checks harness.RunReport) {
	md.H2("Checks")
	md.PlainText("")
	if len(checks.Results) == 0 {
		md.PlainText("No checks were made.")
		md.PlainText("")
		return
	}
	rows := make([][]string, 0, len(checks.Results))
	for i, c := range checks.Results {
		result := "✅"
		if !c.Passed {
			result = "❌"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			result,
			cell(c.Description),
			cell(harness.FormatValue(c.Expected)),
			cell(harness.FormatValue(c.Actual)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Result", "Check", "Expected", "Actual"},
		Rows:   rows,
	})
	md.PlainText("")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cell makes text safe to put in a table cell.
func cell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}
