package dispatch

import (
	"context"
	"fmt"
	"io"
)

// BodyLimit returns a layer that limits the maximum request body size.
// A binder that reads past maxBytes fails with ErrBodyTooLarge, which
// renders as a 413 Request Entity Too Large problem response.
func BodyLimit(maxBytes int64) Layer {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
			parts, body := r.Split()
			rc, err := body.Consume()
			if err != nil {
				// Already claimed upstream; let the binder report it.
				return next.Call(ctx, r, s)
			}
			capped := &maxBytesReader{rc: rc, limit: maxBytes, remaining: maxBytes + 1}
			return next.Call(ctx, Join(parts, NewBody(capped)), s)
		})
	}
}

// maxBytesReader fails with ErrBodyTooLarge once more than limit bytes
// have been read. remaining starts at limit+1 so an over-limit body is
// distinguishable from one of exactly limit bytes.
type maxBytesReader struct {
	rc        io.ReadCloser
	limit     int64
	remaining int64
	err       error
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if int64(len(p)) > m.remaining {
		p = p[:m.remaining]
	}
	n, err := m.rc.Read(p)
	m.remaining -= int64(n)
	if m.remaining <= 0 {
		m.err = fmt.Errorf("%w: body exceeds %d bytes", ErrBodyTooLarge, m.limit)
		return n, m.err
	}
	return n, err
}

func (m *maxBytesReader) Close() error {
	return m.rc.Close()
}
