// Package framework contains the generic part of the test runner: named tests and subtests,
// result collection, filtering, and console output.
//
// The general model is that of Go's *testing.T, but outside of the Go test runner. A Context
// is created for each test; it accumulates failures, can be skipped, can defer cleanup
// actions, and captures debug output that is only shown when it is useful.
//
// The domain-specific code that knows which API is being tested, and how, is in the apitests
// package; the HTTP client side is in the harness package.
package framework
