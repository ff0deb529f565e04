// Package harness contains the reusable client side of the API contract tests.
//
// A TestHarness owns one HTTP client, one session against a fixed base URL, and the run report.
// The expected usage is:
//
// 1. Construct it once per test run with New, passing the base URL and credentials.
//
// 2. Call Login (or Authenticate) to obtain a bearer token. Until this succeeds, any request
// made with useAuth=true fails immediately with ErrUnauthenticated and nothing is sent.
//
// 3. Issue requests with Request, and record expected-vs-actual comparisons with Expect. A
// comparison that does not hold is recorded as a failed check; Expect itself never fails.
//
// 4. Read the accumulated RunReport with Summary to decide the outcome of the run.
//
// The harness is not safe for concurrent use; calls are expected to be strictly sequential.
package harness
