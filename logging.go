package dispatch

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns a layer that logs one line per dispatch using the
// provided slog.Logger. Because handlers return materialized responses,
// the status and size are read straight off the Response.
func Logging(logger *slog.Logger) Layer {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
			start := time.Now()
			resp := next.Call(ctx, r, s)

			p := r.Parts()
			attrs := []slog.Attr{
				slog.String("method", p.Method),
				slog.String("target", p.Target),
				slog.Int("status", resp.Status),
				slog.Duration("latency", time.Since(start)),
				slog.Int("size", len(resp.Body)),
				slog.String("remote", p.RemoteAddr),
			}

			if id := GetRequestID(p); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			logger.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)
			return resp
		})
	}
}
