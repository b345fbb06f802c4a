// Package api is the HTTP client for the storefront REST API.
//
// Every call is a single attempt: there is no retry, backoff or caching.
// Authenticated calls read the bearer token from a TokenSource on each call
// so a logout in another process takes effect immediately.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds each request. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	Tokens     TokenSource
	IDs        IDGenerator
	Logger     *zap.Logger
	// Registerer receives the request metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// Client talks to the remote API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	headers    map[string]string
	tokens     TokenSource
	ids        IDGenerator
	log        *zap.Logger
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewClient creates a Client from opts.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = StaticToken("")
	}
	ids := opts.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    u,
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   "storefront/1.0",
		},
		tokens: tokens,
		ids:    ids,
		log:    log,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if opts.Registerer != nil {
		for _, col := range []prometheus.Collector{c.requests, c.latency} {
			if err := opts.Registerer.Register(col); err != nil {
				return nil, fmt.Errorf("register api metrics: %w", err)
			}
		}
	}

	return c, nil
}

// Requests exposes the request counter, labelled method, route and code.
// Transport failures are counted with code "error".
func (c *Client) Requests() *prometheus.CounterVec {
	return c.requests
}

// Request is one call to the API.
type Request struct {
	Method string
	// Path is the concrete request path, e.g. /cart/remove/7.
	Path string
	// Route is the templated path used as the metrics label, e.g.
	// /cart/remove/{id}. Defaults to Path.
	Route string
	Query url.Values
	Body  any
	// Auth attaches the bearer token when one is available.
	Auth bool
}

// Response is a completed 2xx exchange.
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
	RequestID  string
}

// Do executes req. Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	u := c.buildURL(req.Path, req.Query)

	var bodyReader io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	c.setHeaders(httpReq)

	requestID := c.ids.Generate()
	httpReq.Header.Set("X-Request-ID", requestID)

	if req.Auth {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	c.latency.WithLabelValues(req.Method, route).Observe(duration.Seconds())

	if err != nil {
		c.requests.WithLabelValues(req.Method, route, "error").Inc()
		c.log.Warn("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	c.requests.WithLabelValues(req.Method, route, strconv.Itoa(httpResp.StatusCode)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response body: %w", req.Method, req.Path, err)
	}

	c.log.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", duration),
		zap.String("request_id", requestID))

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := &APIError{
			Method: req.Method,
			Path:   req.Path,
			Status: httpResp.StatusCode,
			Detail: parseDetail(body),
		}
		c.log.Warn("api error",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("status", apiErr.Status),
			zap.String("detail", apiErr.Detail),
			zap.String("request_id", requestID))
		return nil, apiErr
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Duration:   duration,
		RequestID:  requestID,
	}, nil
}

// do executes req and decodes the JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) setHeaders(req *http.Request) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

// IsTransport reports whether err is a failure to reach the API at all,
// as opposed to a response carrying an error status.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	return !errors.As(err, &apiErr)
}
