package view

import (
	"context"
	"io"
	"strconv"

	"github.com/roach88/storefront/internal/model"
)

// CollectionsPage lists products, optionally restricted to a category.
type CollectionsPage struct {
	v        *Views
	Category string
	Products Resource[[]model.Product]
}

// Collections builds the product grid. An empty category lists everything.
func (v *Views) Collections(category string) *CollectionsPage {
	return &CollectionsPage{v: v, Category: category}
}

// Title implements Page.
func (p *CollectionsPage) Title() string { return "collections" }

// Load implements Page.
func (p *CollectionsPage) Load(ctx context.Context) {
	fetch(ctx, p.v.deps.Logger, "products", &p.Products, func(ctx context.Context) ([]model.Product, error) {
		return p.v.deps.Catalog.ListProducts(ctx, p.Category)
	})
}

// Render implements Page.
func (p *CollectionsPage) Render(w io.Writer) error {
	out := &errWriter{w: w}
	if p.Products.Status == Loading {
		out.line("Loading collection...")
		return out.err
	}

	out.line("WILDFLOWER COLLECTION")
	out.line("Style for everyone, every body, every story")
	if p.Category != "" {
		out.line("Category: " + p.Category)
	}
	out.blank()

	products := p.Products.Value
	if len(products) == 0 {
		out.line("Collection Coming Soon")
		out.line("We're carefully curating our Wildflower Collection. Check back soon for beautiful, inclusive pieces.")
		return out.err
	}

	noun := "pieces"
	if len(products) == 1 {
		noun = "piece"
	}
	out.printf("%d %s in our collection\n", len(products), noun)
	out.blank()
	for _, prod := range products {
		out.printf("  %-5s %-28s %10s  %s\n",
			"#"+strconv.FormatInt(prod.ID, 10),
			prod.Name,
			p.v.deps.Money.Price(prod.Price),
			prod.Category)
	}
	return out.err
}
