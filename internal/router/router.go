// Package router binds URL paths to page constructors.
package router

import (
	"fmt"
	"net/url"
	"strings"
)

// Params holds the values captured by :name segments.
type Params map[string]string

// Handler builds whatever the route produces from its captured params.
type Handler[T any] func(Params) (T, error)

// NotFoundError is returned for paths no route matches.
type NotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route for %q", e.Path)
}

type route[T any] struct {
	pattern  string
	segments []string
	handler  Handler[T]
}

// Router matches paths against patterns such as /product/:id in
// registration order. Matching is exact per segment; a trailing slash is
// ignored and query strings are stripped.
type Router[T any] struct {
	routes []route[T]
}

// New creates an empty router.
func New[T any]() *Router[T] {
	return &Router[T]{}
}

// Handle registers a pattern. It panics on a malformed pattern, since
// routes are fixed at startup.
func (r *Router[T]) Handle(pattern string, h Handler[T]) {
	if !strings.HasPrefix(pattern, "/") {
		panic(fmt.Sprintf("router: pattern %q must start with /", pattern))
	}
	segs := split(pattern)
	for _, s := range segs {
		if s == ":" {
			panic(fmt.Sprintf("router: pattern %q has an unnamed parameter", pattern))
		}
	}
	r.routes = append(r.routes, route[T]{pattern: pattern, segments: segs, handler: h})
}

// Patterns lists registered patterns in order.
func (r *Router[T]) Patterns() []string {
	out := make([]string, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.pattern
	}
	return out
}

// Match finds the route for path and returns its pattern and params.
func (r *Router[T]) Match(path string) (string, Params, bool) {
	rt, params, ok := r.match(path)
	if !ok {
		return "", nil, false
	}
	return rt.pattern, params, true
}

// Resolve runs the handler for path. Unknown paths give *NotFoundError.
func (r *Router[T]) Resolve(path string) (T, error) {
	rt, params, ok := r.match(path)
	if !ok {
		var zero T
		return zero, &NotFoundError{Path: path}
	}
	return rt.handler(params)
}

func (r *Router[T]) match(path string) (route[T], Params, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}
	segs := split(path)

	for _, rt := range r.routes {
		if len(rt.segments) != len(segs) {
			continue
		}
		params := Params{}
		matched := true
		for i, want := range rt.segments {
			got := segs[i]
			if name, ok := strings.CutPrefix(want, ":"); ok {
				v, err := url.PathUnescape(got)
				if err != nil || v == "" {
					matched = false
					break
				}
				params[name] = v
				continue
			}
			if want != got {
				matched = false
				break
			}
		}
		if matched {
			return rt, params, true
		}
	}
	return route[T]{}, nil, false
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
