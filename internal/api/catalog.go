package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/roach88/storefront/internal/model"
)

// ListProducts returns the catalog, filtered by category when non-empty.
func (c *Client) ListProducts(ctx context.Context, category string) ([]model.Product, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": {category}}
	}
	var out struct {
		Products []model.Product `json:"products"`
	}
	if err := c.do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/products",
		Query:  query,
	}, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []model.Product{}
	}
	return out.Products, nil
}

// GetProduct returns one product. A missing product is a 404 APIError.
func (c *Client) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	var out model.Product
	err := c.do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/products/" + strconv.FormatInt(id, 10),
		Route:  "/products/{id}",
	}, &out)
	return out, err
}
