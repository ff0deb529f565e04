package apitests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shiva-pdv/api-contract-tests/framework"
	"github.com/shiva-pdv/api-contract-tests/mockapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productScenario = `
name: product round trip
description: create a product, read it back and deactivate it
steps:
  - name: create
    request:
      method: POST
      path: /api/produtos
      form:
        nome: Cenário
        precoVenda: "12.50"
        unidadeMedida: G
    expect:
      status: 201
      fields:
        nome: Cenário
        precoVenda: 12.5
        quantidadeRefCalculo: 100
      types:
        id: string
    capture:
      productId: id
  - name: read
    request:
      method: get
      path: /api/produtos/${productId}
    expect:
      status: 200
      fields:
        id: ${productId}
        ativo: true
  - name: deactivate
    request:
      method: DELETE
      path: /api/produtos/${productId}
    expect:
      status: 200
      fields:
        produto.ativo: false
`

const reportScenario = `
name: monthly report
steps:
  - request:
      method: GET
      path: /api/relatorios/mensal?meses=3
    expect:
      status: 200
      length: 3
      types:
        0.faturamento: number
        2.mes: string
  - name: without token
    request:
      method: GET
      path: /api/relatorios/mensal
      auth: false
    expect:
      status: 401
`

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeFile(t, t.TempDir(), "products.yaml", productScenario)
	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "product round trip", s.Name)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "POST", s.Steps[0].Request.Method)
	assert.Equal(t, "12.50", s.Steps[0].Request.Form["precoVenda"])
	assert.Equal(t, 201, s.Steps[0].Expect.Status)
	assert.Equal(t, "id", s.Steps[0].Capture["productId"])
	assert.Nil(t, s.Steps[0].Request.Auth)
}

func TestLoadScenarioRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"no-name.yaml":    "steps:\n  - request: {method: GET, path: /}\n",
		"no-steps.yaml":   "name: empty\n",
		"no-path.yaml":    "name: x\nsteps:\n  - request: {method: GET}\n",
		"bad-type.yaml":   "name: x\nsteps:\n  - request: {method: GET, path: /}\n    expect:\n      types: {a: integer}\n",
		"two-bodies.yaml": "name: x\nsteps:\n  - request: {method: POST, path: /, json: '{}', form: {a: b}}\n",
		"not-yaml.yaml":   "name: [\n",
	} {
		_, err := LoadScenario(writeFile(t, dir, name, content))
		assert.Error(t, err, name)
	}

	_, err := LoadScenario(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadScenariosFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-products.yml", productScenario)
	writeFile(t, dir, "a-reports.yaml", reportScenario)
	writeFile(t, dir, "notes.txt", "not a scenario")

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "monthly report", scenarios[0].Name)
	assert.Equal(t, "product round trip", scenarios[1].Name)

	_, err = LoadScenarios(t.TempDir())
	assert.Error(t, err)
}

func TestScenariosPassAgainstMockAPI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "products.yaml", productScenario)
	writeFile(t, dir, "reports.yaml", reportScenario)
	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)

	var filters = onlyScenarios(t)
	backend := mockapi.New()
	results, report := runSuite(t, backend.Handler(), mockCredentials(), scenarios, filters)

	require.True(t, results.OK(), describeFailures(results, report))
	assert.True(t, report.OK(), describeFailures(results, report))
	_, ok := findCheck(report, "product round trip: read: id")
	assert.True(t, ok)
	_, ok = findCheck(report, "monthly report: step 1: type of 2.mes")
	assert.True(t, ok)

	products := backend.Products()
	require.Len(t, products, 1)
	assert.False(t, products[0].Ativo)
}

func TestScenarioFailuresAreReported(t *testing.T) {
	s, err := LoadScenario(writeFile(t, t.TempDir(), "wrong.yaml", `
name: wrong expectations
steps:
  - request: {method: GET, path: "/api/relatorios/mensal?meses=2"}
    expect:
      status: 200
      length: 5
      fields:
        0.naoExiste: 1
`))
	require.NoError(t, err)

	results, report := runSuite(t, mockapi.New().Handler(), mockCredentials(), []Scenario{s}, onlyScenarios(t))

	assert.False(t, results.OK())
	assert.Equal(t, 1, report.PassedCount)
	assert.Equal(t, 2, report.FailedCount)
	check, ok := findCheck(report, "wrong expectations: step 1: length")
	require.True(t, ok)
	assert.Equal(t, 2, check.Actual)
	check, ok = findCheck(report, "wrong expectations: step 1: 0.naoExiste")
	require.True(t, ok)
	assert.Error(t, check.Actual.(error))
}

func onlyScenarios(t *testing.T) func(framework.TestID) bool {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^scenarios"))
	return filters.AsFilter
}
