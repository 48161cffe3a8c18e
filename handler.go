package dispatch

import "context"

// Handler is the dispatch unit: it receives a request plus the shared
// application state and always produces a response. Conversion of handler
// results and rejections into responses happens before a Handler returns,
// so callers never see an error path.
//
// Handlers are built from plain functions with the arity adapters (Func0
// through Func8). Stack wraps them in layers and Bind attaches their state.
type Handler interface {
	Call(ctx context.Context, r *Request, s *State) *Response
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, r *Request, s *State) *Response

// Call implements Handler.
func (f HandlerFunc) Call(ctx context.Context, r *Request, s *State) *Response {
	return f(ctx, r, s)
}

// Layer wraps a handler with additional behavior. Layers compose over the
// Handler interface, so they apply uniformly to any arity and to other
// layered handlers.
type Layer func(next Handler) Handler

// Stack applies layers to a handler. The first layer listed becomes the
// outermost wrapper, matching top-to-bottom reading order at the call site.
func Stack(h Handler, layers ...Layer) Handler {
	for i := len(layers) - 1; i >= 0; i-- {
		h = layers[i](h)
	}
	return h
}

// BoundHandler is a handler with its state pre-applied. It is the terminal
// form handed to a transport; see ServeHTTP in serve.go for the net/http
// boundary.
type BoundHandler struct {
	handler Handler
	state   *State
}

// Bind fixes the state a handler will be called with. The state should be
// fully populated before binding; it is treated as read-only afterward.
func Bind(h Handler, s *State) *BoundHandler {
	return &BoundHandler{handler: h, state: s}
}

// Call dispatches the request against the bound state.
func (b *BoundHandler) Call(ctx context.Context, r *Request) *Response {
	return b.handler.Call(ctx, r, b.state)
}
