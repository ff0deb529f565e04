package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shiva-pdv/api-contract-tests/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	assert.Equal(t, "http://localhost:3001", s.BaseURL)
	assert.Equal(t, "teste@shiva.com", s.Email)
	assert.Equal(t, "", s.Password)
	assert.Equal(t, harness.DefaultLoginPath, s.LoginPath)
	assert.Equal(t, harness.DefaultTolerance, s.Tolerance)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
base_url: https://api.example.com
email: qa@example.com
password: s3cret
tolerance: 0.005
scenarios: ./scenarios
`)
	f, err := LoadConfigFile(path)
	require.NoError(t, err)

	s := Defaults().Merge(f)
	assert.Equal(t, "https://api.example.com", s.BaseURL)
	assert.Equal(t, "qa@example.com", s.Email)
	assert.Equal(t, "s3cret", s.Password)
	assert.Equal(t, harness.DefaultLoginPath, s.LoginPath)
	assert.Equal(t, 0.005, s.Tolerance)
	assert.Equal(t, "./scenarios", s.Scenarios)
}

func TestMergeKeepsUnsetValues(t *testing.T) {
	s := Defaults().Merge(&File{Email: "other@example.com"})
	assert.Equal(t, DefaultBaseURL, s.BaseURL)
	assert.Equal(t, "other@example.com", s.Email)
	assert.Equal(t, harness.DefaultTolerance, s.Tolerance)

	zero := 0.0
	s = s.Merge(&File{Tolerance: &zero})
	assert.Equal(t, 0.0, s.Tolerance)

	assert.Equal(t, s, s.Merge(nil))
}

func TestLoadConfigFileErrors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	_, err = LoadConfigFile(writeConfig(t, "base_url: [\n"))
	assert.Error(t, err)
}

func TestFindConfigFile(t *testing.T) {
	path := writeConfig(t, "email: a@b.c\n")
	assert.Equal(t, path, FindConfigFile(path))
	assert.Equal(t, "", FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestWithEnvOnlyFillsMissingPassword(t *testing.T) {
	env := map[string]string{PasswordEnvVar: "from-env"}
	getenv := func(k string) string { return env[k] }

	assert.Equal(t, "from-env", Defaults().WithEnv(getenv).Password)

	s := Defaults()
	s.Password = "from-flag"
	assert.Equal(t, "from-flag", s.WithEnv(getenv).Password)
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	valid.Password = "x"
	require.NoError(t, valid.Validate())

	for name, p := range map[string]struct {
		change func(*Settings)
		err    error
	}{
		"no base URL":       {func(s *Settings) { s.BaseURL = "" }, ErrNoBaseURL},
		"relative base URL": {func(s *Settings) { s.BaseURL = "localhost:3001" }, ErrInvalidBaseURL},
		"other scheme":      {func(s *Settings) { s.BaseURL = "ftp://host" }, ErrInvalidBaseURL},
		"no email":          {func(s *Settings) { s.Email = "" }, ErrNoEmail},
		"no password":       {func(s *Settings) { s.Password = "" }, ErrNoPassword},
		"negative epsilon":  {func(s *Settings) { s.Tolerance = -1 }, ErrInvalidTol},
	} {
		t.Run(name, func(t *testing.T) {
			s := valid
			p.change(&s)
			assert.Equal(t, p.err, s.Validate())
		})
	}
}

func TestCredentialsAndOptions(t *testing.T) {
	s := Defaults()
	s.Password = "pw"
	s.Tolerance = 0.01
	assert.Equal(t, harness.Credentials{Email: DefaultEmail, Secret: "pw"}, s.Credentials())

	h := harness.New(s.BaseURL, s.Credentials(), s.HarnessOptions()...)
	assert.Equal(t, 0.01, h.Tolerance())
}
