// Package cart is a read-through cache of the server-side cart.
//
// Every mutation is followed by a GET /cart and the local item list is
// replaced by that response. Local state is never patched optimistically;
// on failure the previous items stay as they were.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roach88/storefront/internal/api"
	"github.com/roach88/storefront/internal/model"
)

// User-facing reasons.
const (
	ReasonLoginToAdd    = "Please login to add items to cart"
	ReasonLoginRequired = "Please login to manage your cart"
	ReasonAddFailed     = "Failed to add item to cart"
	ReasonRemoveFailed  = "Failed to remove item from cart"
	ReasonUpdateFailed  = "Failed to update cart"
	ReasonClearFailed   = "Failed to clear cart"
	ReasonLoadFailed    = "Failed to load cart"
	ReasonNegativeQty   = "Quantity cannot be negative"
	ReasonStaleDropped  = "Cart refresh superseded by a newer one"
)

// API is the subset of the client the cart needs.
type API interface {
	GetCart(ctx context.Context) ([]model.CartItem, error)
	AddToCart(ctx context.Context, productID int64, quantity int) error
	RemoveFromCart(ctx context.Context, productID int64) error
	UpdateCart(ctx context.Context, productID int64, quantity int) error
	ClearCart(ctx context.Context) error
}

// SessionSource reports whether a user is logged in.
type SessionSource interface {
	LoggedIn() bool
}

// Observer receives the item list after every applied change.
type Observer func(items []model.CartItem)

// Store holds the cart items shown to the user.
//
// Thread-safety: safe for concurrent use.
type Store struct {
	api     API
	session SessionSource
	log     *zap.Logger
	seq     Sequence

	mu         sync.Mutex
	items      []model.CartItem
	applied    int64
	epoch      int64
	mutating   int
	refreshing int
	observers  []Observer
}

// New creates an empty cart.
func New(cartAPI API, session SessionSource, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{api: cartAPI, session: session, log: log}
}

// Items returns a copy of the current items.
func (s *Store) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

// Total is Σ price × quantity over the current items.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Total(s.items)
}

// ItemCount is Σ quantity over the current items.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.ItemCount(s.items)
}

// State reports the current phase. Mutating wins over Refreshing when both
// are in flight.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.mutating > 0:
		return Mutating
	case s.refreshing > 0:
		return Refreshing
	default:
		return Idle
	}
}

// AppliedToken is the token of the last GET /cart response applied.
func (s *Store) AppliedToken() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// Subscribe registers an observer.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// AddToCart adds one unit of product. Without a session no request is made.
func (s *Store) AddToCart(ctx context.Context, product model.Product) model.Result {
	if !s.session.LoggedIn() {
		return model.Failure(ReasonLoginToAdd, model.ErrNoSession)
	}
	return s.mutate(ctx, "add", ReasonAddFailed, fmt.Sprintf("Added %s to cart", product.Name), func(ctx context.Context) error {
		return s.api.AddToCart(ctx, product.ID, 1)
	}, zap.Int64("product_id", product.ID))
}

// AddUnits calls AddToCart n times, stopping at the first failure.
func (s *Store) AddUnits(ctx context.Context, product model.Product, n int) model.Result {
	if n < 1 {
		n = 1
	}
	var res model.Result
	for i := 0; i < n; i++ {
		res = s.AddToCart(ctx, product)
		if !res.OK {
			return res
		}
	}
	if n > 1 {
		res.Reason = fmt.Sprintf("Added %d × %s to cart", n, product.Name)
	}
	return res
}

// RemoveFromCart deletes the line for productID.
func (s *Store) RemoveFromCart(ctx context.Context, productID int64) model.Result {
	if !s.session.LoggedIn() {
		return model.Failure(ReasonLoginRequired, model.ErrNoSession)
	}
	return s.mutate(ctx, "remove", ReasonRemoveFailed, "Removed item from cart", func(ctx context.Context) error {
		return s.api.RemoveFromCart(ctx, productID)
	}, zap.Int64("product_id", productID))
}

// UpdateQuantity sets the quantity for productID. Zero is sent as-is and
// the server decides what it means.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) model.Result {
	if !s.session.LoggedIn() {
		return model.Failure(ReasonLoginRequired, model.ErrNoSession)
	}
	if quantity < 0 {
		return model.Failure(ReasonNegativeQty, fmt.Errorf("quantity %d", quantity))
	}
	return s.mutate(ctx, "update", ReasonUpdateFailed, "Cart updated", func(ctx context.Context) error {
		return s.api.UpdateCart(ctx, productID, quantity)
	}, zap.Int64("product_id", productID), zap.Int("quantity", quantity))
}

// ClearCart empties the server-side cart.
func (s *Store) ClearCart(ctx context.Context) model.Result {
	if !s.session.LoggedIn() {
		return model.Failure(ReasonLoginRequired, model.ErrNoSession)
	}
	return s.mutate(ctx, "clear", ReasonClearFailed, "Cart cleared", s.api.ClearCart)
}

// Refresh fetches the cart and applies it unless a newer response has
// already been applied.
func (s *Store) Refresh(ctx context.Context) model.Result {
	if !s.session.LoggedIn() {
		return model.Failure(ReasonLoginRequired, model.ErrNoSession)
	}
	s.mu.Lock()
	s.refreshing++
	s.mu.Unlock()
	return s.fetch(ctx)
}

// fetch runs one GET /cart. The caller has already counted it in
// s.refreshing.
func (s *Store) fetch(ctx context.Context) model.Result {
	token := s.seq.Next()
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	items, err := s.api.GetCart(ctx)

	s.mu.Lock()
	s.refreshing--
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("cart refresh failed", zap.Int64("token", token), zap.Error(err))
		return model.Failure(reasonFor(err, ReasonLoadFailed), err)
	}
	if token <= s.applied || epoch != s.epoch {
		applied := s.applied
		s.mu.Unlock()
		s.log.Debug("discarding stale cart response",
			zap.Int64("token", token),
			zap.Int64("applied", applied))
		return model.Success(ReasonStaleDropped)
	}
	s.applied = token
	s.items = copyItems(items)
	observers := s.snapshotObserversLocked()
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	notify(observers, snapshot)
	return model.Success("Cart loaded")
}

// HandleSession follows session changes: a new user triggers a refresh,
// logout clears the items without any request and invalidates refreshes
// still in flight.
func (s *Store) HandleSession(ctx context.Context, user *model.User) model.Result {
	s.mu.Lock()
	s.epoch++
	if user != nil {
		s.mu.Unlock()
		return s.Refresh(ctx)
	}

	s.items = nil
	if cur := s.seq.Current(); cur > s.applied {
		s.applied = cur
	}
	observers := s.snapshotObserversLocked()
	s.mu.Unlock()

	notify(observers, []model.CartItem{})
	return model.Success("Cart cleared")
}

func (s *Store) mutate(ctx context.Context, op, failReason, okReason string, call func(context.Context) error, fields ...zap.Field) model.Result {
	s.mu.Lock()
	s.mutating++
	s.mu.Unlock()

	err := call(ctx)

	s.mu.Lock()
	s.mutating--
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("cart "+op+" failed", append(fields, zap.Error(err))...)
		return model.Failure(reasonFor(err, failReason), err)
	}
	// Counted before unlocking so State never reads Idle between the
	// mutation and its refresh.
	s.refreshing++
	s.mu.Unlock()

	if res := s.fetch(ctx); !res.OK {
		return res
	}
	return model.Success(okReason)
}

func (s *Store) snapshotObserversLocked() []Observer {
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

func notify(observers []Observer, items []model.CartItem) {
	for _, fn := range observers {
		fn(copyItems(items))
	}
}

func copyItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out
}

func reasonFor(err error, fallback string) string {
	if detail := api.Detail(err); detail != "" {
		return detail
	}
	return fallback
}
