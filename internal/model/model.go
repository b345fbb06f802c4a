package model

import (
	"github.com/shopspring/decimal"
)

// User is the authenticated customer profile returned by the auth endpoints.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product is a read-only catalog entry.
//
// The API is inconsistent about the image key: listing rows carry image_url
// while the product page reads image. Both are decoded; use ImageRef.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// ImageRef returns whichever image reference the server populated.
func (p Product) ImageRef() string {
	if p.Image != "" {
		return p.Image
	}
	return p.ImageURL
}

// CartItem is one server-owned cart line with a snapshot of product fields.
// Quantity is never negative; zero is allowed and kept as sent by the server.
type CartItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// ImageRef returns whichever image reference the server populated.
func (c CartItem) ImageRef() string {
	if c.Image != "" {
		return c.Image
	}
	return c.ImageURL
}

// LineTotal is price × quantity for this line.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// Total sums price × quantity over items.
func Total(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// ItemCount sums quantities over items.
func ItemCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// OrderItem is one line of an order submission.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name,omitempty"`
	Image     string          `json:"image,omitempty"`
}

// OrderRequest is built from the cart at submission time.
type OrderRequest struct {
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shipping_address"`
}

// NewOrderRequest snapshots the given cart lines into an order submission.
func NewOrderRequest(items []CartItem, shippingAddress string) OrderRequest {
	lines := make([]OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return OrderRequest{
		Items:           lines,
		Total:           Total(items),
		ShippingAddress: shippingAddress,
	}
}

// OrderConfirmation is the server's answer to a successful submission.
type OrderConfirmation struct {
	OrderID int64           `json:"order_id"`
	Status  string          `json:"status"`
	Total   decimal.Decimal `json:"total"`
	Message string          `json:"message"`
}

// Order is a placed order as listed in the order history.
type Order struct {
	ID              int64           `json:"id"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shipping_address"`
	Status          string          `json:"status"`
	CreatedAt       Timestamp       `json:"created_at"`
	Items           []OrderItem     `json:"items,omitempty"`
}
