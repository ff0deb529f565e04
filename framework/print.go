package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	passColor = color.New(color.FgGreen, color.Bold)
	skipColor = color.New(color.FgYellow)
)

// PrintResults writes the list of failed tests and the overall counts.
func PrintResults(out io.Writer, results Results) {
	passed, failed, skipped := results.Counts()
	if len(results.Failures) > 0 {
		failColor.Fprintln(out, "FAILED TESTS:")
		for _, f := range results.Failures {
			fmt.Fprintf(out, "  * %s\n", f.TestID)
			for _, err := range f.Errors {
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintf(out, "      %s\n", line)
				}
			}
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Tests: %s, %s, %s\n",
		passColor.Sprintf("%d passed", passed),
		failColor.Sprintf("%d failed", failed),
		skipColor.Sprintf("%d skipped", skipped),
	)
}
