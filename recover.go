package dispatch

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recover returns a layer that converts panics below it into 500 problem
// responses. Dispatch itself never masks a panic; install this layer
// outermost when crashing the serving goroutine is not acceptable.
func Recover() Layer {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request, s *State) (resp *Response) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						"panic", rec,
						"stack", string(debug.Stack()),
						"method", r.Parts().Method,
						"target", r.Parts().Target,
					)
					resp = problemResponse(&ProblemDetail{
						Type:   "about:blank",
						Title:  http.StatusText(http.StatusInternalServerError),
						Status: http.StatusInternalServerError,
					})
				}
			}()
			return next.Call(ctx, r, s)
		})
	}
}
