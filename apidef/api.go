// Package apidef describes the parts of the point-of-sale backend's HTTP API that the
// contract tests use: paths, request payloads, and the names of response fields.
package apidef

import (
	"net/url"
	"strconv"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	PathLogin         = "/api/auth/login"
	PathMe            = "/api/auth/me"
	PathProducts      = "/api/produtos"
	PathMonthlyReport = "/api/relatorios/mensal"
	PathSummaryReport = "/api/relatorios/resumo"
)

// DateFormat is the format of date query parameters.
const DateFormat = "2006-01-02"

// DefaultMonths is the number of records the monthly report returns when no count is given.
const DefaultMonths = 12

// LoginParams is the body of the login request.
type LoginParams struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token   string  `json:"token"`
	Usuario Usuario `json:"usuario"`
}

type Usuario struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Nome  string `json:"nome"`
}

// ErrorResponse is the body the backend sends with 4xx and 5xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProductPath returns the path of a single product.
func ProductPath(id string) string {
	return PathProducts + "/" + url.PathEscape(id)
}

// MonthlyReportPath returns the monthly report path, asking for the given number of months
// if it is defined.
func MonthlyReportPath(months ldvalue.OptionalInt) string {
	if !months.IsDefined() {
		return PathMonthlyReport
	}
	q := url.Values{}
	q.Set("meses", strconv.Itoa(months.IntValue()))
	return PathMonthlyReport + "?" + q.Encode()
}

// SummaryReportPath returns the summary report path for a date range.
func SummaryReportPath(from, to time.Time) string {
	q := url.Values{}
	q.Set("dataInicio", from.Format(DateFormat))
	q.Set("dataFim", to.Format(DateFormat))
	return PathSummaryReport + "?" + q.Encode()
}
