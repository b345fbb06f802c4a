// Package checkout turns the current cart into an order.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roach88/storefront/internal/api"
	"github.com/roach88/storefront/internal/form"
	"github.com/roach88/storefront/internal/model"
	"github.com/roach88/storefront/internal/money"
)

// User-facing reasons.
const (
	ReasonLoginRequired = "Please login to checkout"
	ReasonEmptyCart     = "Your cart is empty"
	ReasonInvalidForm   = "Please fill in all shipping details"
	ReasonOrderFailed   = "Failed to place order. Please try again."
	ReasonTransport     = "An error occurred. Please try again."
)

// DefaultFlashTTL is how long the order confirmation stays on the home page.
const DefaultFlashTTL = 5 * time.Second

// OrderAPI is the subset of the client checkout needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) (model.OrderConfirmation, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id int64) (model.Order, error)
}

// Cart is the subset of the cart store checkout needs.
type Cart interface {
	Items() []model.CartItem
	ClearCart(ctx context.Context) model.Result
}

// Session reports whether a user is logged in.
type Session interface {
	LoggedIn() bool
}

// Flasher stores the one-time home page message.
type Flasher interface {
	PushFlash(ctx context.Context, message string, now, expiresAt time.Time) error
}

// Clock supplies wall time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a Service. API, Cart, Session and Flash are required.
type Options struct {
	API      OrderAPI
	Cart     Cart
	Session  Session
	Flash    Flasher
	Money    *money.Formatter
	Clock    Clock
	FlashTTL time.Duration
	Logger   *zap.Logger
}

// Service places orders and reads order history.
type Service struct {
	api     OrderAPI
	cart    Cart
	session Session
	flash   Flasher
	money   *money.Formatter
	clock   Clock
	ttl     time.Duration
	log     *zap.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		api:     opts.API,
		cart:    opts.Cart,
		session: opts.Session,
		flash:   opts.Flash,
		money:   opts.Money,
		clock:   opts.Clock,
		ttl:     opts.FlashTTL,
		log:     opts.Logger,
	}
	if s.money == nil {
		s.money = money.Default()
	}
	if s.clock == nil {
		s.clock = systemClock{}
	}
	if s.ttl <= 0 {
		s.ttl = DefaultFlashTTL
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Submit places an order for every current cart line, shipped to the
// address in ship. On success the cart is cleared and a confirmation flash
// is stored for the home page.
func (s *Service) Submit(ctx context.Context, ship form.Shipping) (model.OrderConfirmation, model.Result) {
	if !s.session.LoggedIn() {
		return model.OrderConfirmation{}, model.Failure(ReasonLoginRequired, model.ErrNoSession)
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return model.OrderConfirmation{}, model.Failure(ReasonEmptyCart, nil)
	}
	if err := form.Validate(ship); err != nil {
		return model.OrderConfirmation{}, model.Failure(ReasonInvalidForm, err)
	}

	req := model.NewOrderRequest(items, ship.ShippingAddress())
	conf, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		s.log.Warn("place order failed", zap.Int("lines", len(items)), zap.Error(err))
		if api.IsTransport(err) {
			return model.OrderConfirmation{}, model.Failure(ReasonTransport, err)
		}
		reason := ReasonOrderFailed
		if detail := api.Detail(err); detail != "" {
			reason = detail
		}
		return model.OrderConfirmation{}, model.Failure(reason, err)
	}

	s.log.Info("order placed", zap.Int64("order_id", conf.OrderID))

	if res := s.cart.ClearCart(ctx); !res.OK {
		s.log.Warn("clear cart after order failed", zap.String("reason", res.String()))
	}

	msg := ConfirmationMessage(s.money, conf.OrderID, req.Total)
	now := s.clock.Now()
	if err := s.flash.PushFlash(ctx, msg, now, now.Add(s.ttl)); err != nil {
		s.log.Error("store order flash failed", zap.Error(err))
	}

	return conf, model.Success(msg)
}

// ConfirmationMessage is the home page banner shown after an order.
func ConfirmationMessage(f *money.Formatter, orderID int64, total decimal.Decimal) string {
	return fmt.Sprintf("Order #%d placed successfully! Total: %s", orderID, f.Fixed(total))
}

// Orders lists the user's orders.
func (s *Service) Orders(ctx context.Context) ([]model.Order, error) {
	if !s.session.LoggedIn() {
		return nil, model.ErrNoSession
	}
	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Order returns one order with its lines.
func (s *Service) Order(ctx context.Context, id int64) (model.Order, error) {
	if !s.session.LoggedIn() {
		return model.Order{}, model.ErrNoSession
	}
	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return order, nil
}
