// Package mockapi is an in-memory stand-in for the point-of-sale backend. It implements the
// endpoints that the contract tests exercise, with the same request and response shapes, so
// that the suite can check itself without a real server and database.
package mockapi

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shiva-pdv/api-contract-tests/apidef"
	"github.com/shiva-pdv/api-contract-tests/logging"
)

const (
	DefaultEmail    = "teste@shiva.com"
	DefaultPassword = "senha123"
	DefaultName     = "Usuário Teste"

	tokenLifetime = 7 * 24 * time.Hour
)

// User is an account that can log in.
type User struct {
	ID       string
	Email    string
	Name     string
	Password string
}

// Sale is a closed order: its revenue and the cost of the products sold.
type Sale struct {
	ClosedAt time.Time
	Subtotal float64
	Cost     float64
}

// Expense is a paid expense.
type Expense struct {
	PaidAt time.Time
	Value  float64
}

// Backend holds the state of the mock API. All methods are safe for concurrent use, since the
// HTTP server may call handlers from several goroutines.
type Backend struct {
	users    []User
	products map[string]*Product
	sales    []Sale
	expenses []Expense
	secret   []byte
	now      func() time.Time
	logger   logging.Logger
	lock     sync.Mutex
}

type Option func(*Backend)

// WithUser adds an account. If no account is added, the backend has a single default one
// (DefaultEmail/DefaultPassword).
func WithUser(u User) Option {
	return func(b *Backend) {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		b.users = append(b.users, u)
	}
}

func WithSales(sales ...Sale) Option {
	return func(b *Backend) { b.sales = append(b.sales, sales...) }
}

func WithExpenses(expenses ...Expense) Option {
	return func(b *Backend) { b.expenses = append(b.expenses, expenses...) }
}

// WithSecret sets the key used to sign tokens.
func WithSecret(secret string) Option {
	return func(b *Backend) { b.secret = []byte(secret) }
}

// WithClock replaces time.Now, for reports and token expiry.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

func WithLogger(logger logging.Logger) Option {
	return func(b *Backend) { b.logger = logger }
}

// New creates a backend. Unless WithSales or WithExpenses is used, it is seeded with a few
// sales and expenses in the current and previous month, so that reports are not all zero.
func New(options ...Option) *Backend {
	b := &Backend{
		products: make(map[string]*Product),
		secret:   []byte("mockapi-secret"),
		now:      time.Now,
		logger:   logging.NullLogger(),
	}
	for _, o := range options {
		o(b)
	}
	if b.logger == nil {
		b.logger = logging.NullLogger()
	}
	if len(b.users) == 0 {
		WithUser(User{Email: DefaultEmail, Name: DefaultName, Password: DefaultPassword})(b)
	}
	if b.sales == nil && b.expenses == nil {
		b.seed()
	}
	return b
}

func (b *Backend) seed() {
	now := b.now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	b.sales = []Sale{
		{ClosedAt: lastMonth.AddDate(0, 0, 3), Subtotal: 350.5, Cost: 120.25},
		{ClosedAt: lastMonth.AddDate(0, 0, 17), Subtotal: 89.9, Cost: 30},
		{ClosedAt: thisMonth, Subtotal: 120, Cost: 45.5},
	}
	b.expenses = []Expense{
		{PaidAt: lastMonth.AddDate(0, 0, 9), Value: 200},
	}
}

// Handler returns the HTTP handler for all endpoints.
func (b *Backend) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), b.logRequests)

	auth := router.Group("/api/auth")
	auth.POST("/login", b.login)
	auth.GET("/me", b.requireToken, b.me)

	products := router.Group(apidef.PathProducts, b.requireToken)
	products.GET("", b.listProducts)
	products.POST("", b.createProduct)
	products.GET("/:id", b.getProduct)
	products.PUT("/:id", b.updateProduct)
	products.DELETE("/:id", b.deleteProduct)

	reports := router.Group("/api/relatorios", b.requireToken)
	reports.GET("/mensal", b.monthlyReport)
	reports.GET("/resumo", b.summaryReport)

	return router
}

func (b *Backend) logRequests(c *gin.Context) {
	started := time.Now()
	c.Next()
	b.logger.Printf("mockapi: %s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(),
		c.Writer.Status(), time.Since(started))
}

// Products returns a snapshot of all products, including inactive ones, ordered by name.
func (b *Backend) Products() []Product {
	b.lock.Lock()
	defer b.lock.Unlock()
	ret := make([]Product, 0, len(b.products))
	for _, p := range b.products {
		ret = append(ret, *p)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Nome < ret[j].Nome })
	return ret
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, apidef.ErrorResponse{Error: message})
}
