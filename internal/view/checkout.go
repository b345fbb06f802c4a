package view

import (
	"context"
	"io"

	"github.com/roach88/storefront/internal/form"
	"github.com/roach88/storefront/internal/model"
)

// CheckoutPage shows the order summary and the shipping form.
type CheckoutPage struct {
	v            *Views
	Confirmation *model.OrderConfirmation
	errMsg       string
}

// Checkout builds the checkout page.
func (v *Views) Checkout() *CheckoutPage {
	return &CheckoutPage{v: v}
}

// Title implements Page.
func (p *CheckoutPage) Title() string { return "checkout" }

// Load implements Page.
func (p *CheckoutPage) Load(context.Context) {}

// Submit places the order. On failure the reason is shown on the page.
func (p *CheckoutPage) Submit(ctx context.Context, ship form.Shipping) model.Result {
	conf, res := p.v.deps.Checkout.Submit(ctx, ship)
	if !res.OK {
		p.errMsg = res.Reason
		return res
	}
	p.errMsg = ""
	p.Confirmation = &conf
	return res
}

// Render implements Page.
func (p *CheckoutPage) Render(w io.Writer) error {
	out := &errWriter{w: w}
	if p.v.deps.Session.User() == nil {
		out.line("Please login to checkout")
		return out.err
	}
	items := p.v.deps.Cart.Items()
	if len(items) == 0 {
		out.line("Your cart is empty")
		return out.err
	}

	m := p.v.deps.Money
	out.line("Checkout")
	out.blank()
	out.line("Order Summary")
	for _, it := range items {
		out.printf("  %-28s Qty: %-3d %12s\n", it.Name, it.Quantity, m.Fixed(it.LineTotal()))
	}
	out.printf("  %-37s %12s\n", "Total", m.Fixed(p.v.deps.Cart.Total()))
	out.blank()
	out.line("Shipping Information")
	out.line("  Address, City, ZIP Code, Country (all required)")
	out.line("[ Place Order ]")
	if p.errMsg != "" {
		out.blank()
		out.line(p.errMsg)
	}
	return out.err
}
