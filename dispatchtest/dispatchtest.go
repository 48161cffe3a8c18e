// Package dispatchtest provides typed test helpers for dispatch handlers.
// Handlers are invoked directly, without an HTTP server, which keeps tests
// at the dispatch level: construct a request, call, inspect the response.
package dispatchtest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/okross/dispatch"
)

// Option customizes a request under construction.
type Option func(*dispatch.Request)

// WithHeader adds a header field to the request.
func WithHeader(name, value string) Option {
	return func(r *dispatch.Request) {
		r.Parts().Header.Add(name, value)
	}
}

// WithPathValue stages a path parameter, standing in for a router capture.
func WithPathValue(name, value string) Option {
	return func(r *dispatch.Request) {
		r.Parts().SetPathValue(name, value)
	}
}

// WithRemoteAddr sets the peer address.
func WithRemoteAddr(addr string) Option {
	return func(r *dispatch.Request) {
		r.Parts().RemoteAddr = addr
	}
}

// NewRequest builds a request with the options applied.
func NewRequest(method, target string, body io.Reader, opts ...Option) *dispatch.Request {
	req := dispatch.NewRequest(method, target, body)
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// Call invokes a handler against the given state and returns its response.
func Call(t testing.TB, h dispatch.Handler, s *dispatch.State, method, target string, body io.Reader, opts ...Option) *dispatch.Response {
	t.Helper()
	return h.Call(context.Background(), NewRequest(method, target, body, opts...), s)
}

// Result holds a decoded handler response.
type Result[T any] struct {
	Status int
	Header http.Header
	Body   *T
	Raw    *dispatch.Response
}

// Get dispatches a GET request and decodes the JSON response body.
func Get[Resp any](t testing.TB, h dispatch.Handler, s *dispatch.State, target string, opts ...Option) *Result[Resp] {
	t.Helper()
	return do[Resp](t, h, s, http.MethodGet, target, nil, opts...)
}

// Post dispatches a POST request with a JSON body.
func Post[Req, Resp any](t testing.TB, h dispatch.Handler, s *dispatch.State, target string, body *Req, opts ...Option) *Result[Resp] {
	t.Helper()
	return do[Resp](t, h, s, http.MethodPost, target, body, opts...)
}

// Put dispatches a PUT request with a JSON body.
func Put[Req, Resp any](t testing.TB, h dispatch.Handler, s *dispatch.State, target string, body *Req, opts ...Option) *Result[Resp] {
	t.Helper()
	return do[Resp](t, h, s, http.MethodPut, target, body, opts...)
}

// Patch dispatches a PATCH request with a JSON body.
func Patch[Req, Resp any](t testing.TB, h dispatch.Handler, s *dispatch.State, target string, body *Req, opts ...Option) *Result[Resp] {
	t.Helper()
	return do[Resp](t, h, s, http.MethodPatch, target, body, opts...)
}

// Delete dispatches a DELETE request.
func Delete[Resp any](t testing.TB, h dispatch.Handler, s *dispatch.State, target string, opts ...Option) *Result[Resp] {
	t.Helper()
	return do[Resp](t, h, s, http.MethodDelete, target, nil, opts...)
}

func do[Resp any](t testing.TB, h dispatch.Handler, s *dispatch.State, method, target string, body any, opts ...Option) *Result[Resp] {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("dispatchtest: marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req := NewRequest(method, target, reqBody, opts...)
	if body != nil {
		req.Parts().Header.Set("Content-Type", "application/json")
	}

	resp := h.Call(context.Background(), req, s)

	result := &Result[Resp]{
		Status: resp.Status,
		Header: resp.Header,
		Raw:    resp,
	}

	if resp.Status != http.StatusNoContent && len(resp.Body) > 0 {
		var decoded Resp
		if err := json.Unmarshal(resp.Body, &decoded); err != nil {
			return result
		}
		result.Body = &decoded
	}

	return result
}
