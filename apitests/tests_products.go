package apitests

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shiva-pdv/api-contract-tests/apidef"
	"github.com/shiva-pdv/api-contract-tests/harness"

	"github.com/stretchr/testify/require"
)

const (
	testPrice = "99.90"
	testCost  = "50.00"
)

func DoProductTests(t *T) {
	t.RequireAuthenticated()

	t.Run("create", func(t *T) {
		resp := createProduct(t, apidef.ProductParams{
			Nome:       "Teste Produto",
			Descricao:  "Produto de teste",
			PrecoVenda: testPrice,
			CustoMedio: testCost,
			Ativo:      "true",
		})
		t.Expect("created product keeps its name", "Teste Produto", t.RequireField(resp, apidef.FieldNome))
		t.Expect("created product keeps its price", testPrice, t.RequireField(resp, apidef.FieldPrecoVenda))
		t.Expect("created product keeps its cost", testCost, t.RequireField(resp, apidef.FieldCustoMedio))
		t.Expect("created product is active", true, t.RequireField(resp, apidef.FieldAtivo))
	})

	t.Run("unit of measure", func(t *T) {
		created := createProduct(t, apidef.ProductParams{
			Nome:          "Teste KG",
			Descricao:     "Teste com KG",
			PrecoVenda:    testPrice,
			CustoMedio:    testCost,
			UnidadeMedida: apidef.UnitKilogram,
		})
		id, err := created.String(apidef.FieldID)
		require.NoError(t, err)

		fetched := t.Request(http.MethodGet, apidef.ProductPath(id), nil, true)
		t.RequireStatus(fetched, 200)
		t.Expect("stored unit is KG", apidef.UnitKilogram, t.RequireField(fetched, apidef.FieldUnidadeMedida))

		updated := t.Request(http.MethodPut, apidef.ProductPath(id),
			apidef.ProductParams{UnidadeMedida: apidef.UnitMilliliter}, true)
		t.RequireStatus(updated, 200)
		t.Expect("updated unit is ML", apidef.UnitMilliliter, t.RequireField(updated, apidef.FieldUnidadeMedida))
	})

	t.Run("reference quantity", func(t *T) {
		for _, unit := range []string{apidef.UnitGram, apidef.UnitMilliliter, apidef.UnitKilogram} {
			expected := strconv.Itoa(apidef.ReferenceQuantities[unit])
			t.Run(unit, func(t *T) {
				resp := createProduct(t, apidef.ProductParams{
					Nome:                 "Teste " + unit,
					Descricao:            "Teste com " + unit,
					PrecoVenda:           testPrice,
					CustoMedio:           testCost,
					UnidadeMedida:        unit,
					QuantidadeRefCalculo: expected,
					Ativo:                "true",
				})
				t.Expect(fmt.Sprintf("quantidadeRefCalculo=%s for %s", expected, unit),
					expected, t.RequireField(resp, apidef.FieldQuantidadeRefCalculo))
			})
		}
	})

	t.Run("missing name is rejected", func(t *T) {
		resp := t.Request(http.MethodPost, apidef.PathProducts, apidef.ProductParams{PrecoVenda: testPrice}, true)
		if resp.Status == 201 {
			deactivateLater(t, resp)
		}
		t.Expect("product without a name gets HTTP 400", 400, resp.Status)
	})
}

// createProduct creates a product, failing and exiting the test if that is not possible. The
// product is deactivated when the test ends.
func createProduct(t *T, params apidef.ProductParams) *harness.Response {
	resp := t.Request(http.MethodPost, apidef.PathProducts, params, true)
	t.RequireStatus(resp, 201)
	deactivateLater(t, resp)
	return resp
}

func deactivateLater(t *T, created *harness.Response) {
	id, err := created.String(apidef.FieldID)
	require.NoError(t, err)
	t.Defer(func() {
		resp, err := t.Harness().Request(http.MethodDelete, apidef.ProductPath(id), nil, true)
		switch {
		case err != nil:
			t.Debug("Could not deactivate product %s: %s", id, err)
		case !resp.OK():
			t.Debug("Could not deactivate product %s: %s", id, resp.ErrorDetail())
		}
	})
}
