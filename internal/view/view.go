// Package view renders storefront pages as plain text.
//
// Each page fetches its own data in Load and keeps a loading, loaded or
// failed status. Failures are logged and rendered as an empty page; there
// is no shared cache and no de-duplication between pages.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roach88/storefront/internal/form"
	"github.com/roach88/storefront/internal/model"
	"github.com/roach88/storefront/internal/money"
)

// Catalog reads products.
type Catalog interface {
	ListProducts(ctx context.Context, category string) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
}

// Session is the session store as seen by views.
type Session interface {
	User() *model.User
	Login(ctx context.Context, email, password string) model.Result
	Register(ctx context.Context, name, email, password string) model.Result
}

// Cart is the cart store as seen by views.
type Cart interface {
	Items() []model.CartItem
	Total() decimal.Decimal
	ItemCount() int
	AddUnits(ctx context.Context, product model.Product, n int) model.Result
	UpdateQuantity(ctx context.Context, productID int64, quantity int) model.Result
	RemoveFromCart(ctx context.Context, productID int64) model.Result
	ClearCart(ctx context.Context) model.Result
}

// Checkout places orders.
type Checkout interface {
	Submit(ctx context.Context, ship form.Shipping) (model.OrderConfirmation, model.Result)
}

// Flash yields the one-time home page message.
type Flash interface {
	TakeFlash(ctx context.Context, now time.Time) (string, bool, error)
}

// Clock supplies wall time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Deps is the application state handed to every page.
type Deps struct {
	Catalog  Catalog
	Session  Session
	Cart     Cart
	Checkout Checkout
	Flash    Flash
	Clock    Clock
	Money    *money.Formatter
	Logger   *zap.Logger
}

// Page is one routed screen.
type Page interface {
	// Title names the page for logs and JSON output.
	Title() string
	// Load runs the page's fetch, if any.
	Load(ctx context.Context)
	// Render writes the page body.
	Render(w io.Writer) error
}

// Status is a page's fetch phase.
type Status int

const (
	Loading Status = iota
	Loaded
	Failed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resource is a value fetched by a page.
type Resource[T any] struct {
	Status Status
	Value  T
	Err    error
}

// fetch runs fn and records the outcome. A failure is logged and leaves
// Value at its zero value.
func fetch[T any](ctx context.Context, log *zap.Logger, what string, r *Resource[T], fn func(context.Context) (T, error)) {
	r.Status = Loading
	v, err := fn(ctx)
	if err != nil {
		var zero T
		r.Status, r.Value, r.Err = Failed, zero, err
		log.Warn("page fetch failed", zap.String("resource", what), zap.Error(err))
		return
	}
	r.Status, r.Value, r.Err = Loaded, v, nil
}

// Views builds pages over shared Deps.
type Views struct {
	deps Deps
}

// New creates a page factory. Missing Clock, Money and Logger get defaults.
func New(deps Deps) *Views {
	if deps.Clock == nil {
		deps.Clock = systemClock{}
	}
	if deps.Money == nil {
		deps.Money = money.Default()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Views{deps: deps}
}

// Show loads page and writes the navigation header followed by its body.
func (v *Views) Show(ctx context.Context, w io.Writer, page Page) error {
	page.Load(ctx)
	if err := v.Navigation(w); err != nil {
		return err
	}
	return page.Render(w)
}

// errWriter keeps the first write error so renderers can write freely and
// check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) line(s string) {
	e.printf("%s\n", s)
}

func (e *errWriter) blank() {
	e.printf("\n")
}

const ruleWidth = 64

func rule() string {
	return strings.Repeat("-", ruleWidth)
}
