// Package apitests contains the contract tests for the point-of-sale API and their supporting
// test API.
//
// The HTTP side (authentication, requests, value comparison and the run report) is in the
// lower-level harness package; named tests, filtering and result collection are in the
// framework package.
package apitests
