package dispatch

import (
	"context"
	"fmt"
	"reflect"
)

// The Func adapters turn ordinary typed functions into Handlers. Each
// arity has its own adapter so argument binding stays fully typed: the
// compiler checks that every argument type binds from parts, except the
// last, which may bind from the full request and consume the body.
//
// Binding runs strictly left to right and stops at the first rejection;
// the wrapped function is only invoked once every argument bound. The
// result value (or error) is then converted with NewResponse, so the
// adapted handler is total.

// checkResult rejects function result types that have no response
// rendering at registration time rather than at first request.
func checkResult[R any]() {
	t := reflect.TypeFor[R]()
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		panic(fmt.Sprintf("dispatch: handler result type %s cannot be rendered", t))
	}
}

func checkFunc(fn any) {
	if fn == nil || reflect.ValueOf(fn).IsNil() {
		panic("dispatch: nil handler func")
	}
}

// finish converts a function's return pair into a response.
func finish[R any](out R, err error) *Response {
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(out)
}

// Func0 adapts a zero-argument function. The request is never inspected,
// so the body is left untouched.
func Func0[R any](fn func(context.Context) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		return finish(fn(ctx))
	})
}

// Func1 adapts a one-argument function. The sole argument is the final
// position, so it binds from the full request and may consume the body.
func Func1[A1 any, R any, P1 RequestBinderPtr[A1]](fn func(context.Context, A1) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		a1, err := bindRequest[A1, P1](ctx, r, s)
		if err != nil {
			return errorResponse(err)
		}
		return finish(fn(ctx, a1))
	})
}

// Func2 adapts a two-argument function.
func Func2[A1, A2 any, R any, P1 PartsBinderPtr[A1], P2 RequestBinderPtr[A2]](fn func(context.Context, A1, A2) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		parts, body := r.Split()
		a1, err := bindParts[A1, P1](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a2, err := bindRequest[A2, P2](ctx, Join(parts, body), s)
		if err != nil {
			return errorResponse(err)
		}
		return finish(fn(ctx, a1, a2))
	})
}

// Func3 adapts a three-argument function.
func Func3[A1, A2, A3 any, R any, P1 PartsBinderPtr[A1], P2 PartsBinderPtr[A2], P3 RequestBinderPtr[A3]](fn func(context.Context, A1, A2, A3) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		parts, body := r.Split()
		a1, err := bindParts[A1, P1](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a2, err := bindParts[A2, P2](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a3, err := bindRequest[A3, P3](ctx, Join(parts, body), s)
		if err != nil {
			return errorResponse(err)
		}
		return finish(fn(ctx, a1, a2, a3))
	})
}

// Func4 adapts a four-argument function.
func Func4[A1, A2, A3, A4 any, R any, P1 PartsBinderPtr[A1], P2 PartsBinderPtr[A2], P3 PartsBinderPtr[A3], P4 RequestBinderPtr[A4]](fn func(context.Context, A1, A2, A3, A4) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		parts, body := r.Split()
		a1, err := bindParts[A1, P1](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a2, err := bindParts[A2, P2](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a3, err := bindParts[A3, P3](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a4, err := bindRequest[A4, P4](ctx, Join(parts, body), s)
		if err != nil {
			return errorResponse(err)
		}
		return finish(fn(ctx, a1, a2, a3, a4))
	})
}

// Func5 adapts a five-argument function.
func Func5[A1, A2, A3, A4, A5 any, R any, P1 PartsBinderPtr[A1], P2 PartsBinderPtr[A2], P3 PartsBinderPtr[A3], P4 PartsBinderPtr[A4], P5 RequestBinderPtr[A5]](fn func(context.Context, A1, A2, A3, A4, A5) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		parts, body := r.Split()
		a1, err := bindParts[A1, P1](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a2, err := bindParts[A2, P2](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a3, err := bindParts[A3, P3](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a4, err := bindParts[A4, P4](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a5, err := bindRequest[A5, P5](ctx, Join(parts, body), s)
		if err != nil {
			return errorResponse(err)
		}
		return finish(fn(ctx, a1, a2, a3, a4, a5))
	})
}

// Func6 adapts a six-argument function.
func Func6[A1, A2, A3, A4, A5, A6 any, R any, P1 PartsBinderPtr[A1], P2 PartsBinderPtr[A2], P3 PartsBinderPtr[A3], P4 PartsBinderPtr[A4], P5 PartsBinderPtr[A5], P6 RequestBinderPtr[A6]](fn func(context.Context, A1, A2, A3, A4, A5, A6) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		parts, body := r.Split()
		a1, err := bindParts[A1, P1](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a2, err := bindParts[A2, P2](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a3, err := bindParts[A3, P3](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a4, err := bindParts[A4, P4](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a5, err := bindParts[A5, P5](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a6, err := bindRequest[A6, P6](ctx, Join(parts, body), s)
		if err != nil {
			return errorResponse(err)
		}
		return finish(fn(ctx, a1, a2, a3, a4, a5, a6))
	})
}

// Func7 adapts a seven-argument function.
func Func7[A1, A2, A3, A4, A5, A6, A7 any, R any, P1 PartsBinderPtr[A1], P2 PartsBinderPtr[A2], P3 PartsBinderPtr[A3], P4 PartsBinderPtr[A4], P5 PartsBinderPtr[A5], P6 PartsBinderPtr[A6], P7 RequestBinderPtr[A7]](fn func(context.Context, A1, A2, A3, A4, A5, A6, A7) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		parts, body := r.Split()
		a1, err := bindParts[A1, P1](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a2, err := bindParts[A2, P2](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a3, err := bindParts[A3, P3](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a4, err := bindParts[A4, P4](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a5, err := bindParts[A5, P5](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a6, err := bindParts[A6, P6](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a7, err := bindRequest[A7, P7](ctx, Join(parts, body), s)
		if err != nil {
			return errorResponse(err)
		}
		return finish(fn(ctx, a1, a2, a3, a4, a5, a6, a7))
	})
}

// Func8 adapts an eight-argument function, the highest arity supported.
// Handlers needing more inputs should group related values into a single
// binder type.
func Func8[A1, A2, A3, A4, A5, A6, A7, A8 any, R any, P1 PartsBinderPtr[A1], P2 PartsBinderPtr[A2], P3 PartsBinderPtr[A3], P4 PartsBinderPtr[A4], P5 PartsBinderPtr[A5], P6 PartsBinderPtr[A6], P7 PartsBinderPtr[A7], P8 RequestBinderPtr[A8]](fn func(context.Context, A1, A2, A3, A4, A5, A6, A7, A8) (R, error)) Handler {
	checkFunc(fn)
	checkResult[R]()
	return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
		parts, body := r.Split()
		a1, err := bindParts[A1, P1](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a2, err := bindParts[A2, P2](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a3, err := bindParts[A3, P3](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a4, err := bindParts[A4, P4](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a5, err := bindParts[A5, P5](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a6, err := bindParts[A6, P6](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a7, err := bindParts[A7, P7](ctx, parts, s)
		if err != nil {
			return errorResponse(err)
		}
		a8, err := bindRequest[A8, P8](ctx, Join(parts, body), s)
		if err != nil {
			return errorResponse(err)
		}
		return finish(fn(ctx, a1, a2, a3, a4, a5, a6, a7, a8))
	})
}
