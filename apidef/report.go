package apidef

// Field names of one record of the monthly report.
const (
	FieldMes           = "mes"
	FieldFaturamento   = "faturamento"
	FieldDespesas      = "despesas"
	FieldLucroGrosso   = "lucroGrosso"
	FieldLucroLiquido  = "lucroLiquido"
	FieldMargemGrossa  = "margemGrossa"
	FieldMargemLiquida = "margemLiquida"
)

// MonthlyNumericFields are the fields of a monthly record that must be numbers.
var MonthlyNumericFields = []string{
	FieldFaturamento,
	FieldDespesas,
	FieldLucroGrosso,
	FieldLucroLiquido,
	FieldMargemGrossa,
	FieldMargemLiquida,
}

// MonthlyRecord is one element of the monthly report.
type MonthlyRecord struct {
	Mes           string  `json:"mes"`
	Faturamento   float64 `json:"faturamento"`
	Despesas      float64 `json:"despesas"`
	LucroGrosso   float64 `json:"lucroGrosso"`
	LucroLiquido  float64 `json:"lucroLiquido"`
	MargemGrossa  float64 `json:"margemGrossa"`
	MargemLiquida float64 `json:"margemLiquida"`
}

// Field names of the summary report.
const (
	FieldFaturamentoTotal = "faturamentoTotal"
	FieldCustoTotal       = "custoTotal"
	FieldDespesasTotal    = "despesasTotal"
)

// SummaryNumericFields are the fields of the summary report that must be numbers.
var SummaryNumericFields = []string{
	FieldFaturamentoTotal,
	FieldCustoTotal,
	FieldDespesasTotal,
	FieldLucroGrosso,
	FieldMargemGrossa,
	FieldLucroLiquido,
	FieldMargemLiquida,
}

// SummaryReport is the body of the summary report for a date range.
type SummaryReport struct {
	FaturamentoTotal float64 `json:"faturamentoTotal"`
	CustoTotal       float64 `json:"custoTotal"`
	DespesasTotal    float64 `json:"despesasTotal"`
	LucroGrosso      float64 `json:"lucroGrosso"`
	MargemGrossa     float64 `json:"margemGrossa"`
	LucroLiquido     float64 `json:"lucroLiquido"`
	MargemLiquida    float64 `json:"margemLiquida"`
}

// MeResponse is the body of the current-user endpoint.
type MeResponse struct {
	UserID string `json:"userId"`
}
