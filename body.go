package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// readBody drains the request body for a body-consuming binder. A body that
// was already claimed means two body binders ended up in one dispatch,
// which is a composition fault, so it rejects with a 500; a body over a
// BodyLimit cap rejects with a 413; any other read failure rejects with a
// 400.
func readBody(r *Request) ([]byte, error) {
	data, err := r.Body().ReadAll()
	if err != nil {
		return nil, classifyBodyError(err)
	}
	return data, nil
}

func classifyBodyError(err error) *Rejection {
	switch {
	case errors.Is(err, ErrBodyConsumed):
		return rejectErr(http.StatusInternalServerError, SourceBody, err)
	case errors.Is(err, ErrBodyTooLarge):
		return rejectErr(http.StatusRequestEntityTooLarge, SourceBody, err)
	default:
		return rejectErr(http.StatusBadRequest, SourceBody, fmt.Errorf("%w: %w", ErrBindBody, err))
	}
}

// Text binds the raw request body as a string. An absent body binds the
// empty string.
type Text struct {
	Value string
}

// BindRequest implements RequestBinder.
func (t *Text) BindRequest(ctx context.Context, r *Request, s *State) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	t.Value = string(data)
	return nil
}

// Bytes binds the raw request body.
type Bytes struct {
	Value []byte
}

// BindRequest implements RequestBinder.
func (b *Bytes) BindRequest(ctx context.Context, r *Request, s *State) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	b.Value = data
	return nil
}
