package apitests

import (
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/shiva-pdv/api-contract-tests/framework"
	"github.com/shiva-pdv/api-contract-tests/harness"

	"github.com/stretchr/testify/require"
)

// T represents a test or subtest in the API test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging that are
// convenient for our use case. Those features are provided by our lower-level framework
// package.
//
// It also gives access to the TestHarness that every test shares. While a test is running, the
// harness logs its requests to that test's debug output.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it
// were a *testing.T. Checks that belong in the run report are made with Expect instead; a
// failed Expect also fails the test.
type T struct {
	context *framework.Context
	harness *harness.TestHarness
}

func newTestScope(context *framework.Context, h *harness.TestHarness) *T {
	return &T{context: context, harness: h}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		prev := t.harness.SetLogger(c.DebugLogger())
		c.Defer(func() { t.harness.SetLogger(prev) }) // first registered, so restored after other cleanups
		action(newTestScope(c, t.harness))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Defer schedules a function to run at the end of the test, even if it failed.
func (t *T) Defer(f func()) {
	t.context.Defer(f)
}

func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

func (t *T) Harness() *harness.TestHarness {
	return t.harness
}

// Expect records a check in the run report. If the check fails, the test fails too, but it
// continues running.
func (t *T) Expect(description string, expected, actual interface{}) harness.CheckResult {
	result := t.harness.Expect(description, expected, actual)
	if !result.Passed {
		t.Errorf("%s", result)
	}
	return result
}

// RequireAuthenticated skips the test if the harness has no token, which means that logging in
// already failed.
func (t *T) RequireAuthenticated() {
	if !t.harness.Session().Authenticated() {
		t.Skip("not authenticated")
	}
}

// Request sends a request with the shared harness, and fails and exits the test if it could not
// be sent or the response could not be read.
func (t *T) Request(method, path string, payload interface{}, useAuth bool) *harness.Response {
	resp, err := t.harness.Request(method, path, payload, useAuth)
	require.NoError(t, err)
	return resp
}

// RequireStatus fails and exits the test if the response does not have the given status.
func (t *T) RequireStatus(resp *harness.Response, status int) {
	if resp.Status != status {
		t.Errorf("%s %s: expected HTTP %d, got %s", resp.Method, resp.URL, status, resp.ErrorDetail())
		t.FailNow()
	}
}

// RequireField reads a field of a response, failing and exiting the test if it is missing.
func (t *T) RequireField(resp *harness.Response, path ...string) ldvalue.Value {
	v, err := resp.Field(path...)
	require.NoError(t, err, fmt.Sprintf("%s %s", resp.Method, resp.URL))
	return v
}
