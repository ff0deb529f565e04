package apidef

import "net/url"

// Response field names of a product.
const (
	FieldID                   = "id"
	FieldNome                 = "nome"
	FieldPrecoVenda           = "precoVenda"
	FieldCustoMedio           = "custoMedio"
	FieldUnidadeMedida        = "unidadeMedida"
	FieldQuantidadeRefCalculo = "quantidadeRefCalculo"
	FieldAtivo                = "ativo"
)

// Units of measurement accepted by the product endpoints.
const (
	UnitGram       = "G"
	UnitMilliliter = "ML"
	UnitKilogram   = "KG"
	UnitLiter      = "L"
	UnitPiece      = "UN"
)

// ReferenceQuantities is the quantity that prices and costs refer to for each unit: gram and
// milliliter prices are per 100, everything else is per 1.
var ReferenceQuantities = map[string]int{
	UnitGram:       100,
	UnitMilliliter: 100,
	UnitKilogram:   1,
	UnitLiter:      1,
	UnitPiece:      1,
}

// ProductParams are the form fields of a product create or update request. The product
// endpoints only accept form data, so every field is text; empty fields are not sent.
type ProductParams struct {
	Nome                 string
	Descricao            string
	Categoria            string
	PrecoVenda           string
	CustoMedio           string
	Markup               string
	Tipo                 string
	Ativo                string
	ControlaEstoque      string
	UnidadeMedida        string
	QuantidadeRefCalculo string
}

// FormValues implements harness.FormPayload.
func (p ProductParams) FormValues() url.Values {
	v := url.Values{}
	for _, f := range []struct{ name, value string }{
		{"nome", p.Nome},
		{"descricao", p.Descricao},
		{"categoria", p.Categoria},
		{"precoVenda", p.PrecoVenda},
		{"custoMedio", p.CustoMedio},
		{"markup", p.Markup},
		{"tipo", p.Tipo},
		{"ativo", p.Ativo},
		{"controlaEstoque", p.ControlaEstoque},
		{"unidadeMedida", p.UnidadeMedida},
		{"quantidadeRefCalculo", p.QuantidadeRefCalculo},
	} {
		if f.value != "" {
			v.Set(f.name, f.value)
		}
	}
	return v
}
