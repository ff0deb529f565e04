package apitests

import (
	"github.com/shiva-pdv/api-contract-tests/framework"
	"github.com/shiva-pdv/api-contract-tests/harness"
)

// RunTestSuite runs every test group, and then the given scenarios, against the API that h
// points to. The harness should already be authenticated; the "auth" group logs in again.
func RunTestSuite(
	h *harness.TestHarness,
	scenarios []Scenario,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, h)

		t.Run("auth", DoAuthTests)
		t.Run("reports", DoReportTests)
		t.Run("products", DoProductTests)
		if len(scenarios) > 0 {
			t.Run("scenarios", func(t *T) { DoScenarioTests(t, scenarios) })
		}
	})
}
