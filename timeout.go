package dispatch

import (
	"context"
	"net/http"
	"time"
)

// Timeout returns a layer that bounds a dispatch with a context deadline.
// If the handler does not finish within the duration, a 503 problem
// response is returned and the handler's eventual result is discarded.
// Binders and handlers observe the deadline through ctx.
func Timeout(d time.Duration) Layer {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			done := make(chan *Response, 1)
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if v := recover(); v != nil {
						panicked <- v
					}
				}()
				done <- next.Call(ctx, r, s)
			}()

			select {
			case resp := <-done:
				return resp
			case v := <-panicked:
				// Re-raise on the dispatching goroutine so outer layers
				// see the panic.
				panic(v)
			case <-ctx.Done():
				return problemResponse(&ProblemDetail{
					Type:   "about:blank",
					Title:  http.StatusText(http.StatusServiceUnavailable),
					Status: http.StatusServiceUnavailable,
					Detail: "request timed out",
				})
			}
		})
	}
}
