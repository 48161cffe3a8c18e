package dispatch

import (
	"context"
	"net"
	"net/http"
)

// Header binds header fields into T's fields tagged `header`, with
// `default` fallbacks. Lookup is case-insensitive per net/http header
// canonicalization.
type Header[T any] struct {
	Value T
}

// BindParts implements PartsBinder.
func (h *Header[T]) BindParts(ctx context.Context, p *Parts, s *State) error {
	lookup := func(name string) (string, bool) {
		vals := p.Header.Values(name)
		if len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}
	if err := bindTagged(&h.Value, "header", ErrBindHeader, lookup); err != nil {
		return rejectErr(http.StatusBadRequest, SourceHeader, err)
	}
	return validateBound(&h.Value, SourceHeader)
}

// BindRequest implements RequestBinder.
func (h *Header[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	return h.BindParts(ctx, r.Parts(), s)
}

// Cookie binds cookie values into T's fields tagged `cookie`, with
// `default` fallbacks. Malformed Cookie header lines are skipped.
type Cookie[T any] struct {
	Value T
}

// BindParts implements PartsBinder.
func (c *Cookie[T]) BindParts(ctx context.Context, p *Parts, s *State) error {
	jar := make(map[string]string)
	for _, line := range p.Header.Values("Cookie") {
		cookies, err := http.ParseCookie(line)
		if err != nil {
			continue
		}
		for _, ck := range cookies {
			if _, exists := jar[ck.Name]; !exists {
				jar[ck.Name] = ck.Value
			}
		}
	}
	lookup := func(name string) (string, bool) {
		val, ok := jar[name]
		return val, ok
	}
	if err := bindTagged(&c.Value, "cookie", ErrBindCookie, lookup); err != nil {
		return rejectErr(http.StatusBadRequest, SourceCookie, err)
	}
	return validateBound(&c.Value, SourceCookie)
}

// BindRequest implements RequestBinder.
func (c *Cookie[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	return c.BindParts(ctx, r.Parts(), s)
}

// ClientIP binds the peer host from RemoteAddr, dropping the port when one
// is present. It never rejects.
type ClientIP struct {
	Value string
}

// BindParts implements PartsBinder.
func (c *ClientIP) BindParts(ctx context.Context, p *Parts, s *State) error {
	c.Value = clientHost(p.RemoteAddr)
	return nil
}

// clientHost strips the port from a host:port remote address.
func clientHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// BindRequest implements RequestBinder.
func (c *ClientIP) BindRequest(ctx context.Context, r *Request, s *State) error {
	return c.BindParts(ctx, r.Parts(), s)
}
