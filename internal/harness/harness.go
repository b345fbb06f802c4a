package harness

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roach88/storefront/internal/apitest"
	"github.com/roach88/storefront/internal/app"
	"github.com/roach88/storefront/internal/config"
	"github.com/roach88/storefront/internal/form"
	"github.com/roach88/storefront/internal/model"
	"github.com/roach88/storefront/internal/testutil"
)

// CatalogWildflower seeds the fixed Wildflower Collection.
const CatalogWildflower = "wildflower"

// fakeCatalogSeed keeps generated products identical across runs.
const fakeCatalogSeed = 42

// Epoch is the manual clock's starting time.
var Epoch = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

// Harness is the scenario execution environment.
type Harness struct {
	server *apitest.Server
	app    *app.App
	clock  *testutil.ManualClock
	ids    *testutil.SequentialIDs
	log    *zap.Logger
}

// Run executes a scenario with logging discarded.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, zap.NewNop())
}

// RunWithLogger executes a scenario and returns the result.
//
// Each scenario runs against its own fake API and in-memory store.
//
// Execution flow:
// 1. Seed the fake API and start the application
// 2. Run setup login, then forget setup requests
// 3. Execute flow steps with expect validation
// 4. Evaluate assertions against the final state
func RunWithLogger(scenario *Scenario, log *zap.Logger) (*Result, error) {
	ctx := context.Background()

	h, err := start(ctx, scenario.Setup, log)
	if err != nil {
		return nil, err
	}
	defer h.close()

	result := NewResult()
	for i, step := range scenario.Flow {
		if err := h.execute(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("flow step %d (%s): %w", i, step.Action, err)
		}
	}

	result.Cart = CartSnapshot{
		Lines:     len(h.app.Cart.Items()),
		ItemCount: h.app.Cart.ItemCount(),
		Total:     h.app.Cart.Total().String(),
	}
	if u := h.app.Session.User(); u != nil {
		result.User = u.Name
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, h.assertionContext()) {
		result.AddError(msg)
	}
	return result, nil
}

func start(ctx context.Context, setup Setup, log *zap.Logger) (*Harness, error) {
	opts := []apitest.Option{apitest.WithTimestamp(Epoch.Format("2006-01-02T15:04:05"))}
	if setup.Catalog == CatalogWildflower {
		opts = append(opts, apitest.WithProducts(apitest.WildflowerCollection()...))
	}
	srv := apitest.New(opts...)

	var maxID int64
	for _, p := range srv.Products() {
		maxID = max(maxID, p.ID)
	}
	for _, p := range apitest.FakeCatalog(fakeCatalogSeed, maxID+1, setup.FakeProducts) {
		srv.AddProduct(p)
	}
	for _, p := range setup.Products {
		srv.AddProduct(apitest.Product{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Category:    p.Category,
			ImageURL:    p.ImageURL,
			Description: p.Description,
		})
	}
	for _, u := range setup.Users {
		srv.AddUser(u.Name, u.Email, u.Password)
	}

	cfg := &config.Config{
		API:      config.APIConfig{BaseURL: srv.URL()},
		Store:    config.StoreConfig{Path: ":memory:"},
		Flash:    config.FlashConfig{TTL: 5 * time.Second},
		Currency: config.CurrencyConfig{Symbol: "₹", Locale: "en-IN"},
	}
	clock := testutil.NewManualClock(Epoch)
	ids := testutil.NewSequentialIDs("req")

	a, err := app.New(ctx, app.Options{Config: cfg, Logger: log, Clock: clock, IDs: ids})
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("failed to start application: %w", err)
	}
	h := &Harness{server: srv, app: a, clock: clock, ids: ids, log: log}

	if setup.Login != nil {
		if res := a.Session.Login(ctx, setup.Login.Email, setup.Login.Password); !res.OK {
			h.close()
			return nil, fmt.Errorf("setup login: %s", res)
		}
	}
	srv.ResetRequests()
	ids.Reset()
	return h, nil
}

func (h *Harness) close() {
	h.app.Close()
	h.server.Close()
}

func (h *Harness) assertionContext() *AssertionContext {
	return &AssertionContext{
		Requests: h.server.Count,
		LoggedIn: h.app.Session.LoggedIn(),
	}
}

// execute runs one step, records its trace and checks its expect clause.
func (h *Harness) execute(ctx context.Context, index int, step FlowStep, result *Result) error {
	before := h.server.Total()

	res, err := h.perform(ctx, step, result)
	if err != nil {
		return err
	}

	trace := StepTrace{
		Step:     index,
		Action:   step.Action,
		Args:     step.Args,
		OK:       res.OK,
		Reason:   res.Reason,
		Requests: []RequestTrace{},
	}
	if all := h.server.Requests(); len(all) > before {
		for _, r := range all[before:] {
			trace.Requests = append(trace.Requests, RequestTrace{
				Method:    r.Method,
				Path:      r.Path,
				Status:    r.Status,
				RequestID: r.RequestID,
			})
		}
	}
	result.Trace = append(result.Trace, trace)

	if step.Expect != nil {
		if step.Expect.OK != nil && *step.Expect.OK != res.OK {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected ok=%t, got ok=%t (%s)", index, step.Action, *step.Expect.OK, res.OK, res))
		}
		if step.Expect.Reason != "" && step.Expect.Reason != res.Reason {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected reason %q, got %q", index, step.Action, step.Expect.Reason, res.Reason))
		}
	}

	h.log.Debug("flow step completed",
		zap.Int("step", index),
		zap.String("action", step.Action),
		zap.Bool("ok", res.OK),
		zap.Int("requests", len(trace.Requests)),
	)
	return nil
}

func (h *Harness) perform(ctx context.Context, step FlowStep, result *Result) (model.Result, error) {
	a := h.app
	args := step.Args

	switch step.Action {
	case ActionLogin:
		return a.Session.Login(ctx, stringArg(args, "email"), stringArg(args, "password")), nil

	case ActionRegister:
		return a.Session.Register(ctx, stringArg(args, "name"), stringArg(args, "email"), stringArg(args, "password")), nil

	case ActionLogout:
		a.Logout(ctx)
		return model.Success("Logged out"), nil

	case ActionRefreshProfile:
		return a.Session.Refresh(ctx), nil

	case ActionAdd:
		product, err := h.product(args)
		if err != nil {
			return model.Result{}, err
		}
		qty := 1
		if _, ok := args["quantity"]; ok {
			n, err := intArg(args, "quantity")
			if err != nil {
				return model.Result{}, err
			}
			qty = int(n)
		}
		if qty == 1 {
			return a.Cart.AddToCart(ctx, product), nil
		}
		return a.Cart.AddUnits(ctx, product, qty), nil

	case ActionUpdate:
		id, err := intArg(args, "product_id")
		if err != nil {
			return model.Result{}, err
		}
		qty, err := intArg(args, "quantity")
		if err != nil {
			return model.Result{}, err
		}
		return a.Cart.UpdateQuantity(ctx, id, int(qty)), nil

	case ActionRemove:
		id, err := intArg(args, "product_id")
		if err != nil {
			return model.Result{}, err
		}
		return a.Cart.RemoveFromCart(ctx, id), nil

	case ActionClear:
		return a.Cart.ClearCart(ctx), nil

	case ActionRefreshCart:
		return a.Cart.Refresh(ctx), nil

	case ActionCheckout:
		_, res := a.Checkout.Submit(ctx, form.Shipping{
			Address: stringArg(args, "address"),
			City:    stringArg(args, "city"),
			ZipCode: stringArg(args, "zip_code"),
			Country: stringArg(args, "country"),
		})
		return res, nil

	case ActionNavigate:
		path := stringArg(args, "path")
		var buf bytes.Buffer
		page, err := a.Navigate(ctx, path, &buf)
		if err != nil {
			return model.Failure("Page not found", err), nil
		}
		result.Pages[path] = buf.String()
		return model.Success(page.Title()), nil

	case ActionAdvance:
		d, err := time.ParseDuration(stringArg(args, "duration"))
		if err != nil {
			return model.Result{}, err
		}
		h.clock.Advance(d)
		return model.Success(""), nil

	case ActionFailNext:
		status, err := intArg(args, "status")
		if err != nil {
			return model.Result{}, err
		}
		h.server.FailNext(stringArg(args, "method"), stringArg(args, "path"), int(status), stringArg(args, "detail"))
		return model.Success(""), nil

	case ActionResetRequests:
		h.server.ResetRequests()
		return model.Success(""), nil

	default:
		return model.Result{}, fmt.Errorf("unknown action %q", step.Action)
	}
}

// product builds the catalog product the user would have on screen. No
// request is made; the harness reads the fake's catalog directly.
func (h *Harness) product(args map[string]any) (model.Product, error) {
	id, err := intArg(args, "product_id")
	if err != nil {
		return model.Product{}, err
	}
	for _, p := range h.server.Products() {
		if p.ID == id {
			return model.Product{
				ID:          p.ID,
				Name:        p.Name,
				Price:       decimal.NewFromFloat(p.Price),
				ImageURL:    p.ImageURL,
				Category:    p.Category,
				Description: p.Description,
			}, nil
		}
	}
	return model.Product{}, fmt.Errorf("product %d is not in the catalog", id)
}

func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func intArg(args map[string]any, key string) (int64, error) {
	switch v := args[key].(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("arg %q: %v is not an integer", key, v)
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("arg %q: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("arg %q: unsupported type %T", key, v)
	}
}
