package dispatch

import (
	"context"
	"net/http"
)

// Query binds the query string into T's fields tagged `query`. A `default`
// tag supplies the value for absent parameters. Constraint tags and the
// SelfValidator hook run after binding.
//
//	type ListParams struct {
//		Page  int    `query:"page" default:"1" minimum:"1"`
//		Limit int    `query:"limit" default:"20" minimum:"1" maximum:"100"`
//		Sort  string `query:"sort" enum:"asc,desc" default:"asc"`
//	}
type Query[T any] struct {
	Value T
}

// BindParts implements PartsBinder.
func (q *Query[T]) BindParts(ctx context.Context, p *Parts, s *State) error {
	values := p.Query()
	lookup := func(name string) (string, bool) {
		if !values.Has(name) {
			return "", false
		}
		return values.Get(name), true
	}
	if err := bindTagged(&q.Value, "query", ErrBindQuery, lookup); err != nil {
		return rejectErr(http.StatusBadRequest, SourceQuery, err)
	}
	return validateBound(&q.Value, SourceQuery)
}

// BindRequest implements RequestBinder.
func (q *Query[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	return q.BindParts(ctx, r.Parts(), s)
}
