package apitest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type userJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type cartLine struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type orderItemJSON struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name,omitempty"`
	Image     string  `json:"image,omitempty"`
}

type orderCreate struct {
	Items           []orderItemJSON `json:"items"`
	Total           float64         `json:"total"`
	ShippingAddress string          `json:"shipping_address" binding:"required"`
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Preetizen eCommerce API"})
	})

	r.POST("/auth/register", s.register)
	r.POST("/auth/login", s.login)
	r.GET("/products", s.listProducts)
	r.GET("/products/:id", s.getProduct)

	authed := r.Group("/", s.requireUser())
	authed.GET("/auth/me", s.me)
	authed.GET("/cart", s.getCart)
	authed.POST("/cart/add", s.addToCart)
	authed.PUT("/cart/update", s.updateCart)
	authed.DELETE("/cart/remove/:id", s.removeFromCart)
	authed.DELETE("/cart/clear", s.clearCart)
	authed.POST("/orders", s.createOrder)
	authed.GET("/orders", s.listOrders)
	authed.GET("/orders/:id", s.getOrder)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "value is not a valid integer"}}})
		return 0, false
	}
	return id, true
}

func (s *Server) authResponse(c *gin.Context, a *account) {
	token, err := s.issueToken(a.id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userJSON{ID: a.id, Name: a.name, Email: a.email},
	})
}

func (s *Server) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		if err == nil {
			err = fmt.Errorf("name: field required")
		}
		badRequest(c, err)
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}
	s.nextUserID++
	a := &account{id: s.nextUserID, name: req.Name, email: req.Email, passwordHash: hash}
	s.accounts[req.Email] = a
	s.mu.Unlock()

	s.authResponse(c, a)
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s.mu.Lock()
	a := s.accounts[req.Email]
	s.mu.Unlock()

	if a == nil || !verifyPassword(a.passwordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
		return
	}
	s.authResponse(c, a)
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	a := s.accountByID(currentUser(c))
	s.mu.Unlock()

	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userJSON{ID: a.id, Name: a.name, Email: a.email}})
}

func (s *Server) listProducts(c *gin.Context) {
	s.mu.Lock()
	products := s.productsLocked(c.Query("category"))
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	p, found := s.products[id]
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) getCart(c *gin.Context) {
	userID := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]gin.H, 0, len(s.carts[userID]))
	for _, row := range s.carts[userID] {
		p := s.products[row.productID]
		items = append(items, gin.H{
			"id":         row.id,
			"product_id": row.productID,
			"quantity":   row.quantity,
			"name":       p.Name,
			"price":      p.Price,
			"image_url":  p.ImageURL,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) addToCart(c *gin.Context) {
	var req cartLine
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.carts[userID]
	for i := range rows {
		if rows[i].productID == req.ProductID {
			rows[i].quantity += req.Quantity
			c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
			return
		}
	}
	s.nextCartID++
	s.carts[userID] = append(rows, cartRow{id: s.nextCartID, productID: req.ProductID, quantity: req.Quantity})
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

func (s *Server) updateCart(c *gin.Context) {
	var req cartLine
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Quantity <= 0 {
		s.deleteLineLocked(userID, req.ProductID)
	} else {
		rows := s.carts[userID]
		for i := range rows {
			if rows[i].productID == req.ProductID {
				rows[i].quantity = req.Quantity
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

func (s *Server) removeFromCart(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	s.deleteLineLocked(currentUser(c), productID)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (s *Server) deleteLineLocked(userID, productID int64) {
	rows := s.carts[userID]
	kept := rows[:0]
	for _, row := range rows {
		if row.productID != productID {
			kept = append(kept, row)
		}
	}
	s.carts[userID] = kept
}

func (s *Server) clearCart(c *gin.Context) {
	s.mu.Lock()
	delete(s.carts, currentUser(c))
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (s *Server) createOrder(c *gin.Context) {
	var req orderCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order must contain at least one item"})
		return
	}
	userID := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range req.Items {
		if _, ok := s.products[it.ProductID]; !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Product with id %d not found", it.ProductID)})
			return
		}
	}

	s.nextOrderID++
	order := &orderRow{
		id:              s.nextOrderID,
		userID:          userID,
		total:           req.Total,
		shippingAddress: req.ShippingAddress,
		status:          "pending",
		createdAt:       s.now(),
	}
	for _, it := range req.Items {
		order.items = append(order.items, orderItemRow{productID: it.ProductID, quantity: it.Quantity, price: it.Price})
	}
	s.orders = append(s.orders, order)
	delete(s.carts, userID)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order placed successfully",
		"order_id": order.id,
		"status":   order.status,
		"total":    req.Total,
	})
}

func orderJSON(o *orderRow) gin.H {
	return gin.H{
		"id":               o.id,
		"total":            o.total,
		"shipping_address": o.shippingAddress,
		"status":           o.status,
		"created_at":       o.createdAt,
	}
}

func (s *Server) listOrders(c *gin.Context) {
	userID := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]gin.H, 0)
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].userID == userID {
			out = append(out, orderJSON(s.orders[i]))
		}
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.id != id || o.userID != userID {
			continue
		}
		body := orderJSON(o)
		items := make([]orderItemJSON, 0, len(o.items))
		for _, it := range o.items {
			p := s.products[it.productID]
			items = append(items, orderItemJSON{
				ProductID: it.productID,
				Quantity:  it.quantity,
				Price:     it.price,
				Name:      p.Name,
				Image:     p.ImageURL,
			})
		}
		body["items"] = items
		c.JSON(http.StatusOK, body)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
}
