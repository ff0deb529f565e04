package apitests

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/shiva-pdv/api-contract-tests/apidef"
	"github.com/shiva-pdv/api-contract-tests/framework"
	"github.com/shiva-pdv/api-contract-tests/harness"
	"github.com/shiva-pdv/api-contract-tests/mockapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockCredentials() harness.Credentials {
	return harness.Credentials{Email: mockapi.DefaultEmail, Secret: mockapi.DefaultPassword}
}

func runSuite(
	t *testing.T,
	handler http.Handler,
	credentials harness.Credentials,
	scenarios []Scenario,
	filter framework.Filter,
) (framework.Results, harness.RunReport) {
	var results framework.Results
	var report harness.RunReport
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		h := harness.New(server.URL, credentials)
		_, _ = h.Login()
		results = RunTestSuite(h, scenarios, filter, nil)
		report = h.Summary()
	})
	return results, report
}

func describeFailures(results framework.Results, report harness.RunReport) string {
	var buf bytes.Buffer
	framework.PrintResults(&buf, results)
	harness.PrintSummary(&buf, report, false)
	return buf.String()
}

func findCheck(report harness.RunReport, description string) (harness.CheckResult, bool) {
	for _, c := range report.Results {
		if c.Description == description {
			return c, true
		}
	}
	return harness.CheckResult{}, false
}

func TestSuitePassesAgainstMockAPI(t *testing.T) {
	backend := mockapi.New()
	results, report := runSuite(t, backend.Handler(), mockCredentials(), nil, nil)

	require.True(t, results.OK(), describeFailures(results, report))
	assert.True(t, report.OK(), describeFailures(results, report))
	assert.Greater(t, report.PassedCount, 20)
	assert.Equal(t, 0, report.FailedCount)
	passed, failed, skipped := results.Counts()
	assert.Greater(t, passed, 0)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 0, skipped)
}

func TestSuiteDeactivatesCreatedProducts(t *testing.T) {
	backend := mockapi.New()
	runSuite(t, backend.Handler(), mockCredentials(), nil, nil)

	products := backend.Products()
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.False(t, p.Ativo, "product %q is still active", p.Nome)
	}
}

func TestSuiteReportsWrongMonthlyRecordCount(t *testing.T) {
	records := make([]apidef.MonthlyRecord, 11)
	handler := httphelpers.HandlerForPath(apidef.PathMonthlyReport,
		httphelpers.HandlerWithJSONResponse(records, nil),
		mockapi.New().Handler())

	results, report := runSuite(t, handler, mockCredentials(), nil, nil)

	assert.False(t, results.OK())
	assert.False(t, report.OK())
	check, ok := findCheck(report, "monthly report has one record per month")
	require.True(t, ok)
	assert.False(t, check.Passed)
	assert.Equal(t, apidef.DefaultMonths, check.Expected)
	assert.Equal(t, 11, check.Actual)

	var failedIDs []string
	for _, f := range results.Failures {
		failedIDs = append(failedIDs, f.TestID.String())
	}
	assert.Contains(t, failedIDs, "reports/monthly")
}

func TestSuiteSkipsGroupsWhenLoginFails(t *testing.T) {
	credentials := harness.Credentials{Email: mockapi.DefaultEmail, Secret: "wrong"}
	results, report := runSuite(t, mockapi.New().Handler(), credentials, nil, nil)

	assert.False(t, results.OK())
	assert.Equal(t, 0, report.PassedCount+report.FailedCount-len(report.Results))

	var failedIDs, skippedIDs []string
	for _, r := range results.Tests {
		if r.Skipped {
			skippedIDs = append(skippedIDs, r.TestID.String())
		}
	}
	for _, f := range results.Failures {
		failedIDs = append(failedIDs, f.TestID.String())
	}
	assert.Contains(t, failedIDs, "auth/login")
	assert.Contains(t, skippedIDs, "reports")
	assert.Contains(t, skippedIDs, "products")
	assert.Contains(t, skippedIDs, "auth/current user")
}

func TestSuiteHonorsFilter(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^reports"))

	results, report := runSuite(t, mockapi.New().Handler(), mockCredentials(), nil, filters.AsFilter)

	require.True(t, results.OK(), describeFailures(results, report))
	require.NotEmpty(t, results.Tests)
	for _, r := range results.Tests {
		assert.True(t, strings.HasPrefix(r.TestID.String(), "reports"), r.TestID.String())
	}
}
