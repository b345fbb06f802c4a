package api

import (
	"context"
	"net/http"

	"github.com/roach88/storefront/internal/model"
)

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   loginRequest{Email: email, Password: password},
	}, &out)
	return out, err
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   registerRequest{Name: name, Email: email, Password: password},
	}, &out)
	return out, err
}

// Me returns the profile for the current token.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out struct {
		User model.User `json:"user"`
	}
	err := c.do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Auth:   true,
	}, &out)
	return out.User, err
}
