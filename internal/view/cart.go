package view

import (
	"context"
	"io"
	"time"

	"github.com/roach88/storefront/internal/model"
)

// ClearConfirmWindow is how long a first Clear request stays armed.
const ClearConfirmWindow = 3 * time.Second

// ReasonConfirmClear asks for a second clear request.
const ReasonConfirmClear = "Click Again to Confirm"

// CartPage lists cart lines with quantity controls.
type CartPage struct {
	v       *Views
	armedAt time.Time
	notice  string
}

// Cart builds the cart page. It reads the cart store and fetches nothing.
func (v *Views) Cart() *CartPage {
	return &CartPage{v: v}
}

// Title implements Page.
func (p *CartPage) Title() string { return "cart" }

// Load implements Page. The cart store is already current.
func (p *CartPage) Load(context.Context) {}

// Increment adds one unit to a line.
func (p *CartPage) Increment(ctx context.Context, productID int64) model.Result {
	qty, _ := p.quantityOf(productID)
	return p.record(p.v.deps.Cart.UpdateQuantity(ctx, productID, qty+1))
}

// Decrement removes one unit from a line, never going below zero.
func (p *CartPage) Decrement(ctx context.Context, productID int64) model.Result {
	qty, _ := p.quantityOf(productID)
	return p.record(p.v.deps.Cart.UpdateQuantity(ctx, productID, max(0, qty-1)))
}

// Remove deletes a line.
func (p *CartPage) Remove(ctx context.Context, productID int64) model.Result {
	return p.record(p.v.deps.Cart.RemoveFromCart(ctx, productID))
}

// Clear empties the cart on the second request within ClearConfirmWindow.
// The first request only arms the confirmation.
func (p *CartPage) Clear(ctx context.Context) model.Result {
	now := p.v.deps.Clock.Now()
	if p.armedAt.IsZero() || now.Sub(p.armedAt) > ClearConfirmWindow {
		p.armedAt = now
		return p.record(model.Failure(ReasonConfirmClear, nil))
	}
	p.armedAt = time.Time{}
	return p.record(p.v.deps.Cart.ClearCart(ctx))
}

func (p *CartPage) record(res model.Result) model.Result {
	p.notice = res.Reason
	return res
}

func (p *CartPage) quantityOf(productID int64) (int, bool) {
	for _, it := range p.v.deps.Cart.Items() {
		if it.ProductID == productID {
			return it.Quantity, true
		}
	}
	return 0, false
}

// Render implements Page.
func (p *CartPage) Render(w io.Writer) error {
	out := &errWriter{w: w}
	if p.v.deps.Session.User() == nil {
		out.line("Please login to view your cart")
		out.line("[ Login: /login ]")
		return out.err
	}

	items := p.v.deps.Cart.Items()
	if len(items) == 0 {
		out.line("Your cart is empty")
		out.line("[ Continue Shopping: /collections ]")
		return out.err
	}

	m := p.v.deps.Money
	out.line("Shopping Cart")
	out.blank()
	for _, it := range items {
		out.printf("  %-5d %-28s %10s  [-] %3d [+]  %12s  [Remove]\n",
			it.ProductID, it.Name, m.Price(it.Price), it.Quantity, m.Fixed(it.LineTotal()))
	}
	out.blank()
	out.line("Total: " + m.Price(p.v.deps.Cart.Total()))

	clearBtn := "[ Clear Cart ]"
	if !p.armedAt.IsZero() {
		clearBtn = "[ " + ReasonConfirmClear + " ]"
	}
	out.line(clearBtn + "  [ Checkout: /checkout ]")
	if p.notice != "" && p.notice != ReasonConfirmClear {
		out.blank()
		out.line(p.notice)
	}
	return out.err
}
