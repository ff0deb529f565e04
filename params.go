package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/shiva-pdv/api-contract-tests/config"
	"github.com/shiva-pdv/api-contract-tests/framework"
)

type commandParams struct {
	configPath   string
	markdownPath string
	filters      framework.RegexFilters
	selfTest     bool
	verbose      bool
	debug        bool
	debugAll     bool
	settings     config.Settings
}

// Read parses the command line and resolves the settings: defaults, then the config file,
// then flags, then the password environment variable if the password is still unset.
func (c *commandParams) Read(args []string, getenv func(string) string, errOut io.Writer) bool {
	var flagValues config.Settings
	defaults := config.Defaults()

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file (default "+config.DefaultConfigFile+" if present)")
	fs.StringVar(&flagValues.BaseURL, "url", defaults.BaseURL, "base URL of the API")
	fs.StringVar(&flagValues.Email, "email", defaults.Email, "login email")
	fs.StringVar(&flagValues.Password, "password", "", "login password (or set "+config.PasswordEnvVar+")")
	fs.StringVar(&flagValues.LoginPath, "login-path", defaults.LoginPath, "path of the login endpoint")
	fs.Float64Var(&flagValues.Tolerance, "tolerance", defaults.Tolerance, "epsilon for comparing floating point values")
	fs.StringVar(&flagValues.Scenarios, "scenarios", "", "YAML scenario file or directory to run after the built-in tests")
	fs.StringVar(&c.markdownPath, "markdown", "", "also write a Markdown report to this file")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.selfTest, "self-test", false, "run against a built-in mock of the API instead of -url")
	fs.BoolVar(&c.verbose, "verbose", false, "list passed checks as well as failed ones")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(errOut, err)
		}
		return false
	}

	settings := defaults
	if path := config.FindConfigFile(c.configPath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			fmt.Fprintf(errOut, "Invalid configuration file: %s\n", err)
			return false
		}
		settings = settings.Merge(file)
	} else if c.configPath != "" {
		fmt.Fprintf(errOut, "%s: %s\n", c.configPath, config.ErrConfigNotFound)
		return false
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			settings.BaseURL = flagValues.BaseURL
		case "email":
			settings.Email = flagValues.Email
		case "password":
			settings.Password = flagValues.Password
		case "login-path":
			settings.LoginPath = flagValues.LoginPath
		case "tolerance":
			settings.Tolerance = flagValues.Tolerance
		case "scenarios":
			settings.Scenarios = flagValues.Scenarios
		}
	})
	c.settings = settings.WithEnv(getenv)

	if !c.selfTest {
		if err := c.settings.Validate(); err != nil {
			fmt.Fprintln(errOut, err)
			fs.Usage()
			return false
		}
	}
	return true
}

// reproduceCommand returns a shell command line equivalent to args, with the password value
// masked.
func reproduceCommand(args []string) string {
	var b commandBuilder
	maskNext := false
	for _, a := range args {
		switch {
		case maskNext:
			a = "***"
			maskNext = false
		case a == "-password" || a == "--password":
			maskNext = true
		case strings.HasPrefix(a, "-password=") || strings.HasPrefix(a, "--password="):
			a = a[:strings.Index(a, "=")+1] + "***"
		}
		b.add(a)
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
