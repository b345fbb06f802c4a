package router

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *Router[string] {
	r := New[string]()
	echo := func(name string) Handler[string] {
		return func(Params) (string, error) { return name, nil }
	}
	r.Handle("/", echo("home"))
	r.Handle("/collections", echo("collections"))
	r.Handle("/collections/:category", func(p Params) (string, error) {
		return "collections:" + p["category"], nil
	})
	r.Handle("/product/:id", func(p Params) (string, error) {
		if _, err := strconv.ParseInt(p["id"], 10, 64); err != nil {
			return "", err
		}
		return "product:" + p["id"], nil
	})
	r.Handle("/cart", echo("cart"))
	return r
}

func TestResolve(t *testing.T) {
	r := newTestRouter()
	cases := map[string]string{
		"/":                     "home",
		"":                      "home",
		"/collections":          "collections",
		"/collections/":         "collections",
		"/collections/dresses":  "collections:dresses",
		"/collections/new%20in": "collections:new in",
		"/product/3":            "product:3",
		"/product/3?ref=grid":   "product:3",
		"/cart#top":             "cart",
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			got, err := r.Resolve(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	r := newTestRouter()
	for _, path := range []string{"/nope", "/product", "/product/3/extra", "/Cart"} {
		_, err := r.Resolve(path)
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf), path)
		assert.Equal(t, path, nf.Path)
	}
}

func TestResolve_HandlerError(t *testing.T) {
	r := newTestRouter()
	_, err := r.Resolve("/product/abc")
	require.Error(t, err)
	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
}

func TestMatch(t *testing.T) {
	r := newTestRouter()
	pattern, params, ok := r.Match("/collections/tops")
	require.True(t, ok)
	assert.Equal(t, "/collections/:category", pattern)
	assert.Equal(t, Params{"category": "tops"}, params)

	_, _, ok = r.Match("/missing")
	assert.False(t, ok)
}

func TestHandle_BadPattern(t *testing.T) {
	r := New[string]()
	assert.Panics(t, func() { r.Handle("cart", nil) })
	assert.Panics(t, func() { r.Handle("/product/:", nil) })
}

func TestPatterns(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, []string{"/", "/collections", "/collections/:category", "/product/:id", "/cart"}, r.Patterns())
}
