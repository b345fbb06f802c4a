package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/roach88/storefront/internal/model"
)

type cartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// GetCart returns the server-side cart for the current token.
func (c *Client) GetCart(ctx context.Context) ([]model.CartItem, error) {
	var out struct {
		Items []model.CartItem `json:"items"`
	}
	if err := c.do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/cart",
		Auth:   true,
	}, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []model.CartItem{}
	}
	return out.Items, nil
}

// AddToCart adds quantity units of a product.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	return c.do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/cart/add",
		Body:   cartLine{ProductID: productID, Quantity: quantity},
		Auth:   true,
	}, nil)
}

// RemoveFromCart deletes the line for a product.
func (c *Client) RemoveFromCart(ctx context.Context, productID int64) error {
	return c.do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/cart/remove/" + strconv.FormatInt(productID, 10),
		Route:  "/cart/remove/{id}",
		Auth:   true,
	}, nil)
}

// UpdateCart sets the quantity for a product. The server decides what a
// zero quantity means.
func (c *Client) UpdateCart(ctx context.Context, productID int64, quantity int) error {
	return c.do(ctx, Request{
		Method: http.MethodPut,
		Path:   "/cart/update",
		Body:   cartLine{ProductID: productID, Quantity: quantity},
		Auth:   true,
	}, nil)
}

// ClearCart empties the server-side cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/cart/clear",
		Auth:   true,
	}, nil)
}
