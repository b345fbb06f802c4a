// Package apitest is an in-memory fake of the storefront REST API.
//
// It follows the remote contract closely enough to drive the client end to
// end: JWT bearer auth, bcrypt passwords, per-user carts keyed by product,
// and orders that empty the cart. Every request is recorded so tests can
// assert exactly which calls a flow made.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// Product is a catalog row as the API serializes it.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// RequestRecord is one request observed by the fake.
type RequestRecord struct {
	Method    string
	Path      string
	RequestID string
	Status    int
}

type failure struct {
	status int
	detail string
}

type account struct {
	id           int64
	name         string
	email        string
	passwordHash []byte
}

type cartRow struct {
	id        int64
	productID int64
	quantity  int
}

type orderRow struct {
	id              int64
	userID          int64
	total           float64
	shippingAddress string
	status          string
	createdAt       string
	items           []orderItemRow
}

type orderItemRow struct {
	productID int64
	quantity  int
	price     float64
}

// Server is a running fake API.
type Server struct {
	mu sync.Mutex

	engine *gin.Engine
	srv    *httptest.Server
	secret []byte
	now    func() string

	accounts map[string]*account
	products map[int64]Product
	carts    map[int64][]cartRow
	orders   []*orderRow

	nextUserID  int64
	nextCartID  int64
	nextOrderID int64

	requests []RequestRecord
	failures map[string][]failure
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the JWT signing secret.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithProducts seeds the catalog.
func WithProducts(products ...Product) Option {
	return func(s *Server) {
		for _, p := range products {
			s.products[p.ID] = p
		}
	}
}

// WithTimestamp fixes the created_at value stamped on new orders.
func WithTimestamp(ts string) Option {
	return func(s *Server) { s.now = func() string { return ts } }
}

// New starts a fake API on a loopback port. Call Close when done.
func New(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:   []byte("storefront-test-secret"),
		now:      func() string { return "2025-01-01T00:00:00" },
		accounts: make(map[string]*account),
		products: make(map[int64]Product),
		carts:    make(map[int64][]cartRow),
		failures: make(map[string][]failure),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(s.record(), s.inject())
	s.routes()
	s.srv = httptest.NewServer(s.engine)
	return s
}

// URL is the base URL to configure the client with.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// Handler exposes the router for in-process use with httptest.NewRecorder.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []RequestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RequestRecord, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests matched method and path.
// An empty method matches any method.
func (s *Server) Count(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if (method == "" || r.Method == method) && r.Path == path {
			n++
		}
	}
	return n
}

// Total returns the number of requests seen.
func (s *Server) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// ResetRequests forgets recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// FailNext makes the next request to method and path answer status with
// {"detail": detail} instead of running the handler. Calls queue up.
func (s *Server) FailNext(method, path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, detail: detail})
}

// AddProduct adds or replaces a catalog row.
func (s *Server) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// Products returns the catalog ordered by id.
func (s *Server) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productsLocked("")
}

func (s *Server) productsLocked(category string) []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.mu.Lock()
		s.requests = append(s.requests, RequestRecord{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			RequestID: c.GetHeader("X-Request-ID"),
			Status:    c.Writer.Status(),
		})
		s.mu.Unlock()
	}
}

func (s *Server) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.Request.URL.Path
		s.mu.Lock()
		queue := s.failures[key]
		var f *failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if f != nil {
			c.AbortWithStatusJSON(f.status, gin.H{"detail": f.detail})
			return
		}
		c.Next()
	}
}
