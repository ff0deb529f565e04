package mockapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shiva-pdv/api-contract-tests/apidef"
)

const defaultUnit = apidef.UnitPiece

// Product is a product as the backend returns it.
type Product struct {
	ID                   string    `json:"id"`
	Nome                 string    `json:"nome"`
	Descricao            string    `json:"descricao"`
	Categoria            string    `json:"categoria"`
	Tipo                 string    `json:"tipo"`
	PrecoVenda           float64   `json:"precoVenda"`
	CustoMedio           float64   `json:"custoMedio"`
	Markup               float64   `json:"markup"`
	Ativo                bool      `json:"ativo"`
	ControlaEstoque      bool      `json:"controlaEstoque"`
	UnidadeMedida        string    `json:"unidadeMedida"`
	QuantidadeRefCalculo float64   `json:"quantidadeRefCalculo"`
	Estoque              Stock     `json:"estoque"`
	CriadoEm             time.Time `json:"criadoEm"`
}

type Stock struct {
	Quantidade float64 `json:"quantidade"`
}

type deleteResponse struct {
	Message string  `json:"message"`
	Produto Product `json:"produto"`
}

// productForm is the form of a create request. Every other field is optional.
type productForm struct {
	Nome       string `form:"nome" binding:"required"`
	PrecoVenda string `form:"precoVenda" binding:"required"`
}

type fieldError struct {
	field string
}

func (e fieldError) Error() string {
	return fmt.Sprintf("Valor inválido para %s", e.field)
}

func (b *Backend) listProducts(c *gin.Context) {
	ativo, filterActive := c.GetQuery("ativo")
	b.lock.Lock()
	ret := make([]Product, 0, len(b.products))
	for _, p := range b.products {
		if filterActive && p.Ativo != (ativo == "true") {
			continue
		}
		ret = append(ret, *p)
	}
	b.lock.Unlock()
	sort.Slice(ret, func(i, j int) bool { return ret[i].Nome < ret[j].Nome })
	c.JSON(http.StatusOK, ret)
}

func (b *Backend) getProduct(c *gin.Context) {
	b.lock.Lock()
	p, ok := b.products[c.Param("id")]
	var copied Product
	if ok {
		copied = *p
	}
	b.lock.Unlock()
	if !ok {
		errorResponse(c, http.StatusNotFound, "Produto não encontrado")
		return
	}
	c.JSON(http.StatusOK, copied)
}

func (b *Backend) createProduct(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		errorResponse(c, http.StatusBadRequest, "Nome e preço de venda são obrigatórios")
		return
	}
	p := Product{
		ID:            uuid.NewString(),
		Ativo:         true,
		UnidadeMedida: defaultUnit,
		CriadoEm:      b.now().UTC(),
	}
	if err := applyProductForm(c, &p); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	b.lock.Lock()
	b.products[p.ID] = &p
	b.lock.Unlock()
	c.JSON(http.StatusCreated, p)
}

func (b *Backend) updateProduct(c *gin.Context) {
	id := c.Param("id")
	b.lock.Lock()
	existing, ok := b.products[id]
	var updated Product
	if ok {
		updated = *existing
	}
	b.lock.Unlock()
	if !ok {
		errorResponse(c, http.StatusNotFound, "Produto não encontrado")
		return
	}
	if err := applyProductForm(c, &updated); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	b.lock.Lock()
	b.products[id] = &updated
	b.lock.Unlock()
	c.JSON(http.StatusOK, updated)
}

// deleteProduct only deactivates the product, as the real backend does.
func (b *Backend) deleteProduct(c *gin.Context) {
	b.lock.Lock()
	p, ok := b.products[c.Param("id")]
	var copied Product
	if ok {
		p.Ativo = false
		copied = *p
	}
	b.lock.Unlock()
	if !ok {
		errorResponse(c, http.StatusNotFound, "Produto não encontrado")
		return
	}
	c.JSON(http.StatusOK, deleteResponse{Message: "Produto desativado com sucesso", Produto: copied})
}

// applyProductForm copies the form fields that are present onto p. When the unit changes and
// no reference quantity is given, the reference quantity becomes the unit's default.
func applyProductForm(c *gin.Context, p *Product) error {
	for _, f := range []struct {
		name   string
		target *string
	}{
		{apidef.FieldNome, &p.Nome},
		{"descricao", &p.Descricao},
		{"categoria", &p.Categoria},
		{"tipo", &p.Tipo},
	} {
		if v, ok := c.GetPostForm(f.name); ok {
			*f.target = v
		}
	}
	if strings.TrimSpace(p.Nome) == "" {
		return fieldError{apidef.FieldNome}
	}

	for _, f := range []struct {
		name   string
		target *float64
	}{
		{apidef.FieldPrecoVenda, &p.PrecoVenda},
		{apidef.FieldCustoMedio, &p.CustoMedio},
		{"markup", &p.Markup},
	} {
		if v, ok := c.GetPostForm(f.name); ok {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fieldError{f.name}
			}
			*f.target = n
		}
	}

	if v, ok := c.GetPostForm(apidef.FieldAtivo); ok {
		p.Ativo = v == "true"
	}
	if v, ok := c.GetPostForm("controlaEstoque"); ok {
		p.ControlaEstoque = v == "true"
	}

	unit, unitGiven := c.GetPostForm(apidef.FieldUnidadeMedida)
	if unitGiven {
		unit = strings.ToUpper(unit)
		if _, ok := apidef.ReferenceQuantities[unit]; !ok {
			return fieldError{apidef.FieldUnidadeMedida}
		}
	}
	if v, ok := c.GetPostForm(apidef.FieldQuantidadeRefCalculo); ok {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n <= 0 {
			return fieldError{apidef.FieldQuantidadeRefCalculo}
		}
		p.QuantidadeRefCalculo = n
	} else if (unitGiven && unit != p.UnidadeMedida) || p.QuantidadeRefCalculo == 0 {
		if !unitGiven {
			unit = p.UnidadeMedida
		}
		p.QuantidadeRefCalculo = float64(apidef.ReferenceQuantities[unit])
	}
	if unitGiven {
		p.UnidadeMedida = unit
	}
	return nil
}
