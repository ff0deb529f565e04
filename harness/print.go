package harness

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	checkPassColor = color.New(color.FgGreen)
	checkFailColor = color.New(color.FgRed)
)

// PrintSummary writes every recorded check followed by the pass/fail counts. If verbose is
// false, passed checks are left out.
func PrintSummary(out io.Writer, report RunReport, verbose bool) {
	for _, c := range report.Results {
		switch {
		case !c.Passed:
			checkFailColor.Fprintf(out, "  [FAIL] %s\n", c.Description)
			fmt.Fprintf(out, "         expected: %s\n", FormatValue(c.Expected))
			fmt.Fprintf(out, "         actual:   %s\n", FormatValue(c.Actual))
		case verbose:
			checkPassColor.Fprintf(out, "  [PASS] %s\n", c.Description)
		}
	}
	fmt.Fprintf(out, "Checks: %d total, %s, %s\n",
		len(report.Results),
		checkPassColor.Sprintf("%d passed", report.PassedCount),
		checkFailColor.Sprintf("%d failed", report.FailedCount),
	)
}
