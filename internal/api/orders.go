package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/roach88/storefront/internal/model"
)

// Decimals go out as JSON numbers; the server models prices as floats.
type orderItemPayload struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type orderPayload struct {
	Items           []orderItemPayload `json:"items"`
	Total           float64            `json:"total"`
	ShippingAddress string             `json:"shipping_address"`
}

func newOrderPayload(req model.OrderRequest) orderPayload {
	items := make([]orderItemPayload, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orderItemPayload{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.InexactFloat64(),
		})
	}
	return orderPayload{
		Items:           items,
		Total:           req.Total.InexactFloat64(),
		ShippingAddress: req.ShippingAddress,
	}
}

// CreateOrder submits an order.
func (c *Client) CreateOrder(ctx context.Context, req model.OrderRequest) (model.OrderConfirmation, error) {
	var out model.OrderConfirmation
	err := c.do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   newOrderPayload(req),
		Auth:   true,
	}, &out)
	return out, err
}

// ListOrders returns the order history, newest first as ordered by the server.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var out struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/orders",
		Auth:   true,
	}, &out); err != nil {
		return nil, err
	}
	if out.Orders == nil {
		out.Orders = []model.Order{}
	}
	return out.Orders, nil
}

// GetOrder returns one order with its lines.
func (c *Client) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	var out model.Order
	err := c.do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/orders/" + strconv.FormatInt(id, 10),
		Route:  "/orders/{id}",
		Auth:   true,
	}, &out)
	return out, err
}
