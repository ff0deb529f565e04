package mockapi

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shiva-pdv/api-contract-tests/apidef"
)

const monthLabelFormat = "01/2006"

type totals struct {
	revenue, cost, expenses float64
}

func (t totals) grossProfit() float64 { return t.revenue - t.cost }

func (t totals) netProfit() float64 { return t.revenue - t.cost - t.expenses }

func margin(profit, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return profit / revenue * 100
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// totalsBetween sums sales and expenses with from <= time < to. A zero bound is open.
func (b *Backend) totalsBetween(from, to time.Time) totals {
	inRange := func(t time.Time) bool {
		return (from.IsZero() || !t.Before(from)) && (to.IsZero() || t.Before(to))
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	var ret totals
	for _, s := range b.sales {
		if inRange(s.ClosedAt) {
			ret.revenue += s.Subtotal
			ret.cost += s.Cost
		}
	}
	for _, e := range b.expenses {
		if inRange(e.PaidAt) {
			ret.expenses += e.Value
		}
	}
	return ret
}

// monthlyReport returns one record per month, oldest first, ending with the current month.
func (b *Backend) monthlyReport(c *gin.Context) {
	months := apidef.DefaultMonths
	if s, ok := c.GetQuery("meses"); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			errorResponse(c, http.StatusBadRequest, "Parâmetro meses inválido")
			return
		}
		months = n
	}

	now := b.now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	records := make([]apidef.MonthlyRecord, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		t := b.totalsBetween(start, start.AddDate(0, 1, 0))
		records = append(records, apidef.MonthlyRecord{
			Mes:           start.Format(monthLabelFormat),
			Faturamento:   round2(t.revenue),
			Despesas:      round2(t.expenses),
			LucroGrosso:   round2(t.grossProfit()),
			LucroLiquido:  round2(t.netProfit()),
			MargemGrossa:  round2(margin(t.grossProfit(), t.revenue)),
			MargemLiquida: round2(margin(t.netProfit(), t.revenue)),
		})
	}
	c.JSON(http.StatusOK, records)
}

// summaryReport totals the optional date range; both dates are inclusive.
func (b *Backend) summaryReport(c *gin.Context) {
	var from, to time.Time
	if s := c.Query("dataInicio"); s != "" {
		d, err := time.Parse(apidef.DateFormat, s)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "Data inicial inválida")
			return
		}
		from = d
	}
	if s := c.Query("dataFim"); s != "" {
		d, err := time.Parse(apidef.DateFormat, s)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "Data final inválida")
			return
		}
		to = d.AddDate(0, 0, 1)
	}

	t := b.totalsBetween(from, to)
	c.JSON(http.StatusOK, apidef.SummaryReport{
		FaturamentoTotal: round2(t.revenue),
		CustoTotal:       round2(t.cost),
		DespesasTotal:    round2(t.expenses),
		LucroGrosso:      round2(t.grossProfit()),
		MargemGrossa:     round2(margin(t.grossProfit(), t.revenue)),
		LucroLiquido:     round2(t.netProfit()),
		MargemLiquida:    round2(margin(t.netProfit(), t.revenue)),
	})
}
