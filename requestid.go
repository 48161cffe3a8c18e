package dispatch

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestID is the parts extension type carrying the request identifier.
// Handlers can bind it with Extension[RequestID].
type RequestID string

// RequestIDConfig configures the RequestID layer.
type RequestIDConfig struct {
	Header    string        // default: "X-Request-ID"
	Generator func() string // default: uuid.NewString
}

// RequestIDLayer assigns a unique identifier to each dispatch. The ID is
// read from the request header when present, generated otherwise, stored as
// a parts extension for downstream binders, and echoed on the response
// header.
func RequestIDLayer(cfg ...RequestIDConfig) Layer {
	c := RequestIDConfig{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}
	if len(cfg) > 0 {
		if cfg[0].Header != "" {
			c.Header = cfg[0].Header
		}
		if cfg[0].Generator != nil {
			c.Generator = cfg[0].Generator
		}
	}

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
			p := r.Parts()
			id := p.Header.Get(c.Header)
			if id == "" {
				id = c.Generator()
			}
			SetExtension(p, RequestID(id))

			resp := next.Call(ctx, r, s)
			if resp.Header == nil {
				resp.Header = http.Header{}
			}
			resp.Header.Set(c.Header, id)
			return resp
		})
	}
}

// GetRequestID extracts the request ID from the parts, or "" when the
// RequestID layer is not installed.
func GetRequestID(p *Parts) string {
	id, _ := ExtensionValue[RequestID](p)
	return string(id)
}
