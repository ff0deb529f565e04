package apitests

import (
	"fmt"
	"net/http"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/shiva-pdv/api-contract-tests/apidef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reportRoundingDelta allows for the report values being rounded to cents separately.
const reportRoundingDelta = 0.011

func DoReportTests(t *T) {
	t.RequireAuthenticated()

	t.Run("monthly", func(t *T) {
		resp := t.Request(http.MethodGet, apidef.MonthlyReportPath(ldvalue.OptionalInt{}), nil, true)
		t.RequireStatus(resp, 200)
		records, err := resp.Items()
		require.NoError(t, err)
		t.Expect("monthly report has one record per month", apidef.DefaultMonths, len(records))

		numeric, withRevenue, withExpenses := 0, 0, 0
		for i, record := range records {
			if checkMonthlyRecord(t, i, record) {
				numeric++
			}
			if record.GetByKey(apidef.FieldFaturamento).Float64Value() > 0 {
				withRevenue++
			}
			if record.GetByKey(apidef.FieldDespesas).Float64Value() > 0 {
				withExpenses++
			}
		}
		t.Expect("every monthly record has numeric values", len(records), numeric)
		t.Debug("%d months with revenue, %d months with expenses", withRevenue, withExpenses)
	})

	t.Run("monthly with month count", func(t *T) {
		resp := t.Request(http.MethodGet, apidef.MonthlyReportPath(ldvalue.NewOptionalInt(6)), nil, true)
		t.RequireStatus(resp, 200)
		n, err := resp.Len()
		require.NoError(t, err)
		t.Expect("monthly report honors the month count", 6, n)
	})

	t.Run("summary for 30 days", func(t *T) {
		to := time.Now()
		from := to.AddDate(0, 0, -30)
		resp := t.Request(http.MethodGet, apidef.SummaryReportPath(from, to), nil, true)
		t.RequireStatus(resp, 200)

		values := make(map[string]float64)
		for _, field := range apidef.SummaryNumericFields {
			n, err := resp.Number(field)
			t.Expect(fmt.Sprintf("summary %s is a number", field), true, err == nil)
			values[field] = n
		}
		assert.InDelta(t, values[apidef.FieldFaturamentoTotal]-values[apidef.FieldCustoTotal],
			values[apidef.FieldLucroGrosso], reportRoundingDelta, "gross profit")
		assert.InDelta(t,
			values[apidef.FieldFaturamentoTotal]-values[apidef.FieldCustoTotal]-values[apidef.FieldDespesasTotal],
			values[apidef.FieldLucroLiquido], reportRoundingDelta, "net profit")
	})
}

// checkMonthlyRecord reports whether a monthly record has a month label and numeric values,
// logging what is wrong with it if not.
func checkMonthlyRecord(t *T, index int, record ldvalue.Value) bool {
	ok := true
	if record.GetByKey(apidef.FieldMes).Type() != ldvalue.StringType {
		t.Debug("Record %d has no month label: %s", index, record.JSONString())
		ok = false
	}
	for _, field := range apidef.MonthlyNumericFields {
		if record.GetByKey(field).Type() != ldvalue.NumberType {
			t.Debug("Record %d field %q is not a number: %s", index, field, record.JSONString())
			ok = false
		}
	}
	return ok
}
