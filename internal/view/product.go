package view

import (
	"context"
	"io"
	"strings"

	"github.com/roach88/storefront/internal/model"
)

// ProductPage shows one product with a quantity selector.
type ProductPage struct {
	v        *Views
	ID       int64
	Product  Resource[model.Product]
	quantity int
	notice   string
}

// Product builds the detail page for id.
func (v *Views) Product(id int64) *ProductPage {
	return &ProductPage{v: v, ID: id, quantity: 1}
}

// Title implements Page.
func (p *ProductPage) Title() string { return "product" }

// Load implements Page.
func (p *ProductPage) Load(ctx context.Context) {
	fetch(ctx, p.v.deps.Logger, "product", &p.Product, func(ctx context.Context) (model.Product, error) {
		return p.v.deps.Catalog.GetProduct(ctx, p.ID)
	})
}

// Quantity is the selected quantity.
func (p *ProductPage) Quantity() int { return p.quantity }

// SetQuantity selects n units, never fewer than one.
func (p *ProductPage) SetQuantity(n int) {
	p.quantity = max(1, n)
}

// Increment adds one to the selection.
func (p *ProductPage) Increment() { p.SetQuantity(p.quantity + 1) }

// Decrement removes one from the selection, stopping at one.
func (p *ProductPage) Decrement() { p.SetQuantity(p.quantity - 1) }

// AddToCart adds the selected quantity, one unit per request.
func (p *ProductPage) AddToCart(ctx context.Context) model.Result {
	if p.Product.Status != Loaded {
		return model.Failure("Product not found", nil)
	}
	res := p.v.deps.Cart.AddUnits(ctx, p.Product.Value, p.quantity)
	p.notice = res.Reason
	return res
}

// Render implements Page.
func (p *ProductPage) Render(w io.Writer) error {
	out := &errWriter{w: w}
	switch p.Product.Status {
	case Loading:
		out.line("Loading product...")
		return out.err
	case Failed:
		out.line("Product not found")
		out.line("[ Return to collections: /collections ]")
		return out.err
	}

	prod := p.Product.Value
	out.printf("Collections / %s / %s\n", prod.Category, prod.Name)
	out.blank()
	out.line(strings.ToUpper(prod.Name))
	out.line(p.v.deps.Money.Price(prod.Price))
	if img := prod.ImageRef(); img != "" {
		out.line("Image: " + img)
	}
	out.blank()
	if prod.Description != "" {
		out.line(prod.Description)
		out.blank()
	}

	if p.v.deps.Session.User() != nil {
		out.printf("Quantity: [-] %d [+]\n", p.quantity)
		out.line("[ Add to Cart ]")
	} else {
		out.line("Please login to add items to cart")
		out.line("[ Login: /login ]")
	}
	if p.notice != "" {
		out.blank()
		out.line(p.notice)
	}
	return out.err
}
