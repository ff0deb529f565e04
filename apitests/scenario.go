package apitests

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"

	"github.com/shiva-pdv/api-contract-tests/harness"

	"github.com/stretchr/testify/require"
)

// Scenario is a sequence of requests with expectations, loaded from a YAML file. It lets new
// checks be added without writing Go code.
//
//	name: monthly report
//	steps:
//	  - name: default month count
//	    request:
//	      method: GET
//	      path: /api/relatorios/mensal
//	    expect:
//	      status: 200
//	      length: 12
//	      types:
//	        0.faturamento: number
//
// A step can capture fields of its response into variables, which later steps use as
// ${name} in the path, form values and JSON body.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

type Step struct {
	Name    string            `yaml:"name"`
	Request StepRequest       `yaml:"request"`
	Expect  StepExpectations  `yaml:"expect"`
	Capture map[string]string `yaml:"capture"`
}

// StepRequest is the request of a step. Auth defaults to true. At most one of Form and JSON
// may be set.
type StepRequest struct {
	Method string            `yaml:"method"`
	Path   string            `yaml:"path"`
	Auth   *bool             `yaml:"auth"`
	Form   map[string]string `yaml:"form"`
	JSON   string            `yaml:"json"`
}

// StepExpectations are checked against the response of a step. Field paths are dot-separated
// object keys or array indexes. A zero Status is not checked.
type StepExpectations struct {
	Status int                    `yaml:"status"`
	Length *int                   `yaml:"length"`
	Fields map[string]interface{} `yaml:"fields"`
	Types  map[string]string      `yaml:"types"`
}

var validTypeNames = map[string]bool{
	"null": true, "bool": true, "number": true, "string": true, "array": true, "object": true,
}

// LoadScenario parses a single YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// LoadScenarios loads a scenario file, or all .yaml and .yml files in a directory in name
// order.
func LoadScenarios(path string) ([]Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}
	if !info.IsDir() {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		return []Scenario{s}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", path, err)
	}
	var names []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !entry.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", path)
	}
	sort.Strings(names)

	scenarios := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (s Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i, step := range s.Steps {
		if step.Request.Method == "" || step.Request.Path == "" {
			return fmt.Errorf("step %d: request method and path are required", i+1)
		}
		if step.Request.Form != nil && step.Request.JSON != "" {
			return fmt.Errorf("step %d: request cannot have both form and json", i+1)
		}
		for path, typeName := range step.Expect.Types {
			if !validTypeNames[typeName] {
				return fmt.Errorf("step %d: unknown type %q for %s", i+1, typeName, path)
			}
		}
	}
	return nil
}

func (s Step) label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d", index+1)
}

// DoScenarioTests runs each scenario as a test. Expectations are recorded in the run report;
// a step whose request cannot be sent ends its scenario.
func DoScenarioTests(t *T, scenarios []Scenario) {
	for _, s := range scenarios {
		t.Run(s.Name, func(t *T) {
			if s.Description != "" {
				t.Debug("%s", s.Description)
			}
			vars := make(map[string]string)
			for i, step := range s.Steps {
				runStep(t, s.Name+": "+step.label(i), step, vars)
			}
		})
	}
}

func runStep(t *T, label string, step Step, vars map[string]string) {
	expand := func(s string) string {
		return os.Expand(s, func(name string) string {
			if v, ok := vars[name]; ok {
				return v
			}
			return "${" + name + "}"
		})
	}

	var payload interface{}
	switch {
	case step.Request.Form != nil:
		form := url.Values{}
		for k, v := range step.Request.Form {
			form.Set(k, expand(v))
		}
		payload = form
	case step.Request.JSON != "":
		payload = []byte(expand(step.Request.JSON))
	}
	useAuth := step.Request.Auth == nil || *step.Request.Auth

	resp := t.Request(strings.ToUpper(step.Request.Method), expand(step.Request.Path), payload, useAuth)
	if step.Expect.Status != 0 {
		t.Expect(label+": status", step.Expect.Status, resp.Status)
	}
	if !resp.OK() {
		if len(step.Expect.Fields) > 0 || len(step.Expect.Types) > 0 || step.Expect.Length != nil ||
			len(step.Capture) > 0 {
			t.Debug("%s: not checking the body of %s", label, resp.ErrorDetail())
		}
		return
	}

	if step.Expect.Length != nil {
		n, err := resp.Len()
		t.Expect(label+": length", *step.Expect.Length, lengthOrError(n, err))
	}
	for _, path := range sortedKeys(step.Expect.Fields) {
		expected := step.Expect.Fields[path]
		if s, ok := expected.(string); ok {
			expected = expand(s)
		}
		t.Expect(label+": "+path, expected, fieldOrError(resp, path))
	}
	for _, path := range sortedKeys(step.Expect.Types) {
		v, err := resp.Field(splitPath(path)...)
		var actual interface{} = v.Type().String()
		if err != nil {
			actual = err
		}
		t.Expect(label+": type of "+path, step.Expect.Types[path], actual)
	}
	for name, path := range step.Capture {
		v, err := resp.Field(splitPath(path)...)
		require.NoError(t, err, "%s: capturing %s", label, name)
		if v.Type() == ldvalue.StringType {
			vars[name] = v.StringValue()
		} else {
			vars[name] = v.JSONString()
		}
	}
}

func splitPath(path string) []string {
	if path == "" || path == "." {
		return nil
	}
	return strings.Split(path, ".")
}

// fieldOrError returns the field's value, or the lookup error so that it shows up in the
// report as the actual value.
func fieldOrError(resp *harness.Response, path string) interface{} {
	v, err := resp.Field(splitPath(path)...)
	if err != nil {
		return err
	}
	return v
}

func lengthOrError(n int, err error) interface{} {
	if err != nil {
		return err
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
