package harness

import (
	"fmt"
)

// CheckResult is the outcome of one Expect call.
type CheckResult struct {
	Description string
	Passed      bool
	Expected    interface{}
	Actual      interface{}
}

func (c CheckResult) String() string {
	if c.Passed {
		return fmt.Sprintf("PASS %s", c.Description)
	}
	return fmt.Sprintf("FAIL %s: expected %s, got %s", c.Description, FormatValue(c.Expected), FormatValue(c.Actual))
}

// RunReport is the ordered list of checks performed during one run.
//
// PassedCount + FailedCount is always equal to len(Results).
type RunReport struct {
	Results     []CheckResult
	PassedCount int
	FailedCount int
}

func (r *RunReport) add(c CheckResult) {
	r.Results = append(r.Results, c)
	if c.Passed {
		r.PassedCount++
	} else {
		r.FailedCount++
	}
}

func (r RunReport) OK() bool {
	return r.FailedCount == 0
}

// Failures returns only the failed checks, in the order they were recorded.
func (r RunReport) Failures() []CheckResult {
	var ret []CheckResult
	for _, c := range r.Results {
		if !c.Passed {
			ret = append(ret, c)
		}
	}
	return ret
}

func (r RunReport) clone() RunReport {
	r.Results = append([]CheckResult(nil), r.Results...)
	return r
}
