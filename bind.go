package dispatch

import "context"

// RequestBinder is the full-request binding protocol. A type whose pointer
// implements it can appear as the final argument of an adapted function,
// where it receives the whole request and may consume the body.
//
// BindRequest populates the receiver from the request. Returning an error
// rejects the dispatch; return a *Rejection to control the status and
// problem detail, any other error renders as a 500.
type RequestBinder interface {
	BindRequest(ctx context.Context, r *Request, s *State) error
}

// PartsBinder is the body-free binding protocol. A type whose pointer
// implements it can appear in any argument position, because binding from
// parts alone leaves the body untouched for whoever comes after.
//
// PartsBinder embeds RequestBinder so that every parts binder is also valid
// in the final position. For the usual case where the two bindings agree,
// implement BindParts and delegate:
//
//	func (v *V) BindRequest(ctx context.Context, r *Request, s *State) error {
//		return v.BindParts(ctx, r.Parts(), s)
//	}
type PartsBinder interface {
	RequestBinder
	BindParts(ctx context.Context, p *Parts, s *State) error
}

// PartsBinderPtr constrains a handler argument in a non-final position: the
// pointer to the argument type must bind from parts alone. Using a
// body-consuming argument type anywhere but last fails to compile.
type PartsBinderPtr[T any] interface {
	*T
	PartsBinder
}

// RequestBinderPtr constrains the final handler argument: the pointer to
// the argument type must bind from the full request. Every PartsBinder
// satisfies this too, so body-free arguments may sit last.
type RequestBinderPtr[T any] interface {
	*T
	RequestBinder
}

// bindParts binds one non-final argument value from the shared parts.
func bindParts[T any, PT PartsBinderPtr[T]](ctx context.Context, p *Parts, s *State) (T, error) {
	var v T
	if err := PT(&v).BindParts(ctx, p, s); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// bindRequest binds the final argument value from the full request.
func bindRequest[T any, PT RequestBinderPtr[T]](ctx context.Context, r *Request, s *State) (T, error) {
	var v T
	if err := PT(&v).BindRequest(ctx, r, s); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
