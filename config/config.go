// Package config resolves the settings of a test run from defaults, an optional YAML file,
// command line flags and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shiva-pdv/api-contract-tests/harness"
)

const (
	// DefaultConfigFile is looked for in the current directory and then the home directory
	// when no file is given.
	DefaultConfigFile = ".api-contract-tests.yaml"

	// PasswordEnvVar supplies the password when neither the file nor the flags do, so that it
	// does not have to appear on the command line.
	PasswordEnvVar = "API_TEST_PASSWORD"

	DefaultBaseURL = "http://localhost:3001"
	DefaultEmail   = "teste@shiva.com"
)

var (
	ErrConfigNotFound = errors.New("configuration file not found")

	ErrNoBaseURL      = errors.New("no base URL specified")
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")
	ErrNoEmail        = errors.New("no email specified")
	ErrNoPassword     = errors.New("no password specified: use -password, the config file or " + PasswordEnvVar)
	ErrInvalidTol     = errors.New("invalid tolerance: must not be negative")
)

// File is the content of a configuration file. Zero values mean "not set".
type File struct {
	BaseURL   string   `yaml:"base_url"`
	Email     string   `yaml:"email"`
	Password  string   `yaml:"password"`
	LoginPath string   `yaml:"login_path"`
	Tolerance *float64 `yaml:"tolerance"`
	Scenarios string   `yaml:"scenarios"`
}

// Settings are the resolved settings of a run.
type Settings struct {
	BaseURL   string
	Email     string
	Password  string
	LoginPath string
	Tolerance float64
	Scenarios string
}

func Defaults() Settings {
	return Settings{
		BaseURL:   DefaultBaseURL,
		Email:     DefaultEmail,
		LoginPath: harness.DefaultLoginPath,
		Tolerance: harness.DefaultTolerance,
	}
}

// LoadConfigFile reads a configuration file. If the file does not exist, it returns
// ErrConfigNotFound; whether that matters depends on whether the user named the file.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile returns configPath if it is given and exists, otherwise DefaultConfigFile
// from the current directory or the home directory, or "" if there is none.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Merge returns s with every value that is set in f replacing the current one.
func (s Settings) Merge(f *File) Settings {
	if f == nil {
		return s
	}
	for _, v := range []struct {
		from string
		to   *string
	}{
		{f.BaseURL, &s.BaseURL},
		{f.Email, &s.Email},
		{f.Password, &s.Password},
		{f.LoginPath, &s.LoginPath},
		{f.Scenarios, &s.Scenarios},
	} {
		if v.from != "" {
			*v.to = v.from
		}
	}
	if f.Tolerance != nil {
		s.Tolerance = *f.Tolerance
	}
	return s
}

// WithEnv fills in the password from the environment if it is still unset.
func (s Settings) WithEnv(getenv func(string) string) Settings {
	if s.Password == "" {
		s.Password = getenv(PasswordEnvVar)
	}
	return s
}

func (s Settings) Validate() error {
	if s.BaseURL == "" {
		return ErrNoBaseURL
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}
	if s.Email == "" {
		return ErrNoEmail
	}
	if s.Password == "" {
		return ErrNoPassword
	}
	if s.Tolerance < 0 {
		return ErrInvalidTol
	}
	return nil
}

func (s Settings) Credentials() harness.Credentials {
	return harness.Credentials{Email: s.Email, Secret: s.Password}
}

// HarnessOptions returns the harness options that correspond to the settings.
func (s Settings) HarnessOptions() []harness.Option {
	return []harness.Option{
		harness.WithTolerance(s.Tolerance),
		harness.WithLoginPath(s.LoginPath),
	}
}
