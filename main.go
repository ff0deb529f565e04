package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shiva-pdv/api-contract-tests/apitests"
	"github.com/shiva-pdv/api-contract-tests/framework"
	"github.com/shiva-pdv/api-contract-tests/harness"
	"github.com/shiva-pdv/api-contract-tests/logging"
	"github.com/shiva-pdv/api-contract-tests/mockapi"
	"github.com/shiva-pdv/api-contract-tests/report"
)

func main() {
	var params commandParams
	if !params.Read(os.Args, os.Getenv, os.Stderr) {
		os.Exit(1)
	}
	os.Exit(run(params, os.Args, os.Stdout, os.Stderr))
}

// run executes the test run and returns the process exit code: 1 if logging in failed, or if
// any test or check failed.
func run(params commandParams, args []string, out, errOut io.Writer) int {
	mainDebugLogger := logging.NullLogger()
	if params.debugAll {
		mainDebugLogger = logging.NewStdLogger(out, "")
	}

	settings := params.settings
	if params.selfTest {
		server, err := mockapi.Start("localhost:0", mockapi.New(mockapi.WithLogger(mainDebugLogger)), mainDebugLogger)
		if err != nil {
			fmt.Fprintf(errOut, "Mock API error: %s\n", err)
			return 1
		}
		defer server.Close()
		settings.BaseURL = server.URL
		settings.Email = mockapi.DefaultEmail
		settings.Password = mockapi.DefaultPassword
	}

	var scenarios []apitests.Scenario
	if settings.Scenarios != "" {
		loaded, err := apitests.LoadScenarios(settings.Scenarios)
		if err != nil {
			fmt.Fprintf(errOut, "Scenario error: %s\n", err)
			return 1
		}
		scenarios = loaded
	}

	fmt.Fprintf(out, "Command: %s\n", reproduceCommand(args))
	fmt.Fprintf(out, "Testing API at %s\n", settings.BaseURL)

	h := harness.New(settings.BaseURL, settings.Credentials(),
		append(settings.HarnessOptions(), harness.WithLogger(mainDebugLogger))...)
	if _, err := h.Login(); err != nil {
		fmt.Fprintf(errOut, "Authentication failed: %s\n", err)
		return 1
	}

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)
	fmt.Fprintln(out, "Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	started := time.Now()
	results := apitests.RunTestSuite(h, scenarios, params.filters.AsFilter, testLogger)
	summary := h.Summary()

	fmt.Fprintln(out)
	framework.PrintResults(out, results)
	harness.PrintSummary(out, summary, params.verbose)

	outcome := report.Run{
		BaseURL:  settings.BaseURL,
		Started:  started,
		Duration: time.Since(started),
		Results:  results,
		Checks:   summary,
	}
	if params.markdownPath != "" {
		if err := writeMarkdownReport(params.markdownPath, outcome); err != nil {
			fmt.Fprintf(errOut, "Could not write report: %s\n", err)
			return 1
		}
		fmt.Fprintf(out, "Report written to %s\n", params.markdownPath)
	}

	if !outcome.OK() {
		return 1
	}
	return 0
}

func writeMarkdownReport(path string, run report.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteMarkdown(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
