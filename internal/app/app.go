// Package app wires configuration, storage, the API client, the stores and
// the views into one explicit application state.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/roach88/storefront/internal/api"
	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/checkout"
	"github.com/roach88/storefront/internal/config"
	"github.com/roach88/storefront/internal/model"
	"github.com/roach88/storefront/internal/money"
	"github.com/roach88/storefront/internal/router"
	"github.com/roach88/storefront/internal/session"
	"github.com/roach88/storefront/internal/store"
	"github.com/roach88/storefront/internal/view"
)

// Clock supplies wall time to checkout and the views.
type Clock interface {
	Now() time.Time
}

// Options configures New. Config is required.
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	Clock      Clock
	IDs        api.IDGenerator
	HTTPClient *http.Client
	// Registry receives the API metrics. Nil creates a private registry.
	Registry *prometheus.Registry
}

// App is the running storefront client.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    *store.Store
	API      *api.Client
	Session  *session.Store
	Cart     *cart.Store
	Checkout *checkout.Service
	Views    *view.Views
	Router   *router.Router[view.Page]
	Registry *prometheus.Registry
	Money    *money.Formatter
}

// New builds the application and restores any stored session. When a
// session is found the cart is fetched, as it is after every login.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	cfg := opts.Config

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	formatter, err := money.New(cfg.Currency.Symbol, cfg.Currency.Locale)
	if err != nil {
		return nil, fmt.Errorf("app: currency: %w", err)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	client, err := api.NewClient(api.Options{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		HTTPClient: opts.HTTPClient,
		Tokens:     st,
		IDs:        opts.IDs,
		Logger:     log.Named("api"),
		Registerer: reg,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("app: %w", err)
	}

	sess := session.New(client, st, log.Named("session"))
	c := cart.New(client, sess, log.Named("cart"))
	sess.Subscribe(func(u *model.User) {
		c.HandleSession(ctx, u)
	})

	co := checkout.New(checkout.Options{
		API:      client,
		Cart:     c,
		Session:  sess,
		Flash:    st,
		Money:    formatter,
		Clock:    opts.Clock,
		FlashTTL: cfg.Flash.TTL,
		Logger:   log.Named("checkout"),
	})

	deps := view.Deps{
		Catalog:  client,
		Session:  sess,
		Cart:     c,
		Checkout: co,
		Flash:    st,
		Clock:    opts.Clock,
		Money:    formatter,
		Logger:   log.Named("view"),
	}
	views := view.New(deps)

	a := &App{
		Config:   cfg,
		Log:      log,
		Store:    st,
		API:      client,
		Session:  sess,
		Cart:     c,
		Checkout: co,
		Views:    views,
		Router:   Routes(views),
		Registry: reg,
		Money:    formatter,
	}

	if err := sess.Restore(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("app: %w", err)
	}
	return a, nil
}

// Close releases the durable store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Routes binds every storefront path to its page.
func Routes(v *view.Views) *router.Router[view.Page] {
	r := router.New[view.Page]()
	static := func(p view.Page) router.Handler[view.Page] {
		return func(router.Params) (view.Page, error) { return p, nil }
	}

	r.Handle("/", func(router.Params) (view.Page, error) { return v.Home(), nil })
	r.Handle("/collections", func(router.Params) (view.Page, error) { return v.Collections(""), nil })
	r.Handle("/collections/:category", func(p router.Params) (view.Page, error) {
		return v.Collections(p["category"]), nil
	})
	r.Handle("/product/:id", func(p router.Params) (view.Page, error) {
		id, err := strconv.ParseInt(p["id"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("product id %q: %w", p["id"], err)
		}
		return v.Product(id), nil
	})
	r.Handle("/login", func(router.Params) (view.Page, error) { return v.Login(), nil })
	r.Handle("/register", func(router.Params) (view.Page, error) { return v.Register(), nil })
	r.Handle("/cart", func(router.Params) (view.Page, error) { return v.Cart(), nil })
	r.Handle("/checkout", func(router.Params) (view.Page, error) { return v.Checkout(), nil })
	r.Handle("/our-story", static(v.OurStory()))
	r.Handle("/student-program", func(router.Params) (view.Page, error) { return v.StudentProgram(), nil })
	return r
}

// Page resolves path to a fresh page.
func (a *App) Page(path string) (view.Page, error) {
	return a.Router.Resolve(path)
}

// Navigate resolves path, loads the page and renders it to w.
func (a *App) Navigate(ctx context.Context, path string, w io.Writer) (view.Page, error) {
	page, err := a.Page(path)
	if err != nil {
		return nil, err
	}
	a.Log.Debug("navigate", zap.String("path", path), zap.String("page", page.Title()))
	if err := a.Views.Show(ctx, w, page); err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	return page, nil
}

// Logout ends the session. The cart empties without touching the network.
func (a *App) Logout(ctx context.Context) {
	a.Session.Logout(ctx)
}
