package dispatch

import (
	"io"
	"net/http"
	"net/url"
)

// Parts holds everything about an incoming request except its body: the
// method, the request target, the protocol version, the header fields, the
// peer address, any path parameters supplied by the transport, and a typed
// extension bag for values produced during binding.
//
// A Parts value is shared by every binder that runs for a single dispatch,
// so a binder may stash values with [SetExtension] for binders that run
// after it. Binding within a single dispatch is sequential; Parts is not
// safe for concurrent use.
type Parts struct {
	Method     string
	Target     string
	Proto      string
	Header     http.Header
	RemoteAddr string

	params map[string]string
	ext    map[any]any
	query  url.Values
}

// PathValue returns the path parameter bound to name, or the empty string
// when the transport supplied no such parameter.
func (p *Parts) PathValue(name string) string {
	return p.params[name]
}

// SetPathValue records a path parameter. Transport adapters call this while
// translating their route captures; tests use it to stage parameters
// directly.
func (p *Parts) SetPathValue(name, value string) {
	if p.params == nil {
		p.params = make(map[string]string)
	}
	p.params[name] = value
}

// pathParams exposes the capture map to binders that must inspect every
// parameter, such as Path over a scalar target.
func (p *Parts) pathParams() map[string]string {
	return p.params
}

// Query returns the parsed query portion of the request target. The parse
// happens once and is cached; a malformed query yields an empty Values.
func (p *Parts) Query() url.Values {
	if p.query == nil {
		u, err := url.Parse(p.Target)
		if err != nil {
			p.query = url.Values{}
		} else {
			p.query = u.Query()
		}
	}
	return p.query
}

// Body is the single-consumption payload of a request. The first call to
// Consume hands out the underlying reader; every later call reports
// ErrBodyConsumed. Binders that read the payload belong in the final
// argument position so nothing downstream races them for it.
type Body struct {
	rc       io.ReadCloser
	consumed bool
}

// NewBody wraps r as a request body. A nil reader behaves as an empty body.
func NewBody(r io.Reader) *Body {
	if r == nil {
		return &Body{rc: http.NoBody}
	}
	if rc, ok := r.(io.ReadCloser); ok {
		return &Body{rc: rc}
	}
	return &Body{rc: io.NopCloser(r)}
}

// Consume claims the body reader. Only the first caller succeeds; the
// caller owns closing the returned reader.
func (b *Body) Consume() (io.ReadCloser, error) {
	if b.consumed {
		return nil, ErrBodyConsumed
	}
	b.consumed = true
	return b.rc, nil
}

// Consumed reports whether the body has already been claimed.
func (b *Body) Consumed() bool {
	return b.consumed
}

// ReadAll consumes the body and reads it to EOF, closing the reader. An
// empty body yields a nil slice and no error.
func (b *Body) ReadAll() ([]byte, error) {
	rc, err := b.Consume()
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// Request pairs request parts with a single-consumption body. Handlers
// rarely touch a Request directly; the arity adapters split it and feed the
// halves to binders.
type Request struct {
	parts *Parts
	body  *Body
}

// NewRequest builds a request for direct handler invocation, mirroring
// httptest.NewRequest: target carries the path and optional query string,
// and body may be nil.
func NewRequest(method, target string, body io.Reader) *Request {
	parts := &Parts{
		Method: method,
		Target: target,
		Proto:  "HTTP/1.1",
		Header: http.Header{},
	}
	return Join(parts, NewBody(body))
}

// Parts returns the non-body half of the request.
func (r *Request) Parts() *Parts {
	return r.parts
}

// Body returns the request payload.
func (r *Request) Body() *Body {
	return r.body
}

// Split separates the request into its parts and body. The halves alias the
// request, so mutations through them remain visible after a later Join.
func (r *Request) Split() (*Parts, *Body) {
	return r.parts, r.body
}

// Join reassembles a request from previously split halves.
func Join(parts *Parts, body *Body) *Request {
	return &Request{parts: parts, body: body}
}
