package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
)

// Path binds path parameters captured by the transport. When T is a struct
// with `path` tags, each tagged field binds its named capture:
//
//	type ItemKey struct {
//		Owner string    `path:"owner"`
//		ID    uuid.UUID `path:"id"`
//	}
//
// Any other T binds the single capture of the route, whatever its name, so
// one-parameter routes can use Path[uuid.UUID] or Path[string] directly.
type Path[T any] struct {
	Value T
}

// BindParts implements PartsBinder.
func (pv *Path[T]) BindParts(ctx context.Context, p *Parts, s *State) error {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Struct && hasTag(t, "path") {
		lookup := func(name string) (string, bool) {
			val, ok := p.pathParams()[name]
			return val, ok
		}
		if err := bindTagged(&pv.Value, "path", ErrBindPath, lookup); err != nil {
			return rejectErr(http.StatusBadRequest, SourcePath, err)
		}
		return validateBound(&pv.Value, SourcePath)
	}

	params := p.pathParams()
	switch {
	case len(params) == 0:
		return Reject(http.StatusInternalServerError, SourcePath, "no path parameters captured")
	case len(params) > 1:
		return Rejectf(http.StatusInternalServerError, SourcePath,
			"%d path parameters captured, bind a struct with path tags", len(params))
	}
	for _, val := range params {
		if err := setScalar(&pv.Value, val); err != nil {
			return rejectErr(http.StatusBadRequest, SourcePath, fmt.Errorf("%w: %w", ErrBindPath, err))
		}
	}
	return validateBound(&pv.Value, SourcePath)
}

// BindRequest implements RequestBinder.
func (pv *Path[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	return pv.BindParts(ctx, r.Parts(), s)
}
