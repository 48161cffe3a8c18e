package dispatch

import (
	"context"
	"net/http"
)

type extensionKey[T any] struct{}

// SetExtension stores a typed value on the request parts. Layers and
// binders use it to pass values to binders that run later in the same
// dispatch; there is one slot per Go type.
func SetExtension[T any](p *Parts, val T) {
	if p.ext == nil {
		p.ext = make(map[any]any)
	}
	p.ext[extensionKey[T]{}] = val
}

// ExtensionValue retrieves a typed value previously stored on the parts.
func ExtensionValue[T any](p *Parts) (T, bool) {
	val, ok := p.ext[extensionKey[T]{}].(T)
	return val, ok
}

// Extension binds the extension value of type T, rejecting the request when
// no such value was stored. A layer that forgot to run is a deployment
// fault, so the rejection is a 500.
type Extension[T any] struct {
	Value T
}

// BindParts implements PartsBinder.
func (e *Extension[T]) BindParts(ctx context.Context, p *Parts, s *State) error {
	val, ok := ExtensionValue[T](p)
	if !ok {
		return Rejectf(http.StatusInternalServerError, SourceExtension, "no extension value of type %T", e.Value)
	}
	e.Value = val
	return nil
}

// BindRequest implements RequestBinder.
func (e *Extension[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	return e.BindParts(ctx, r.Parts(), s)
}
