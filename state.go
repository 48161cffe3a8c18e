package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
)

// State carries the application dependencies a handler set shares: stores,
// clients, clocks. Values are indexed by their static Go type, so providing
// a value under an interface type and fetching it under the concrete type
// (or the reverse) are distinct slots.
//
// Populate a State before binding handlers to it; it is read-only during
// dispatch and safe for concurrent use once bound. The zero value is ready
// to use.
type State struct {
	values map[reflect.Type]any
}

// NewState returns an empty state.
func NewState() *State {
	return &State{values: make(map[reflect.Type]any)}
}

// Provide stores val under its static type T. Providing the same type twice
// replaces the earlier value.
func Provide[T any](s *State, val T) {
	if s.values == nil {
		s.values = make(map[reflect.Type]any)
	}
	s.values[reflect.TypeFor[T]()] = val
}

// StateValue fetches the value provided under type T.
func StateValue[T any](s *State) (T, bool) {
	if s == nil {
		var zero T
		return zero, false
	}
	val, ok := s.values[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// FromState binds the state value of type T, rejecting the request when the
// bound state has no such value. A missing dependency is a wiring fault, so
// the rejection is a 500.
type FromState[T any] struct {
	Value T
}

// BindParts implements PartsBinder.
func (f *FromState[T]) BindParts(ctx context.Context, p *Parts, s *State) error {
	val, ok := StateValue[T](s)
	if !ok {
		return rejectErr(http.StatusInternalServerError, SourceState,
			fmt.Errorf("%w: %s", ErrStateMissing, reflect.TypeFor[T]()))
	}
	f.Value = val
	return nil
}

// BindRequest implements RequestBinder.
func (f *FromState[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	return f.BindParts(ctx, r.Parts(), s)
}
