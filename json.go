package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// JSON binds the request body as JSON into T and, when returned from a
// handler, renders T as an application/json response. An empty body binds
// the zero value; a Content-Type that is neither JSON nor absent rejects
// with 415. Constraint tags and the SelfValidator hook run after decoding.
type JSON[T any] struct {
	Value T
}

// BindRequest implements RequestBinder. JSON consumes the body, so it must
// be the final handler argument.
func (j *JSON[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	if err := checkMediaType(r.Parts().Header, isJSONMediaType); err != nil {
		return err
	}
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &j.Value); err != nil {
			return rejectErr(http.StatusBadRequest, SourceBody, fmt.Errorf("%w: %w", ErrBindBody, err))
		}
	}
	return validateBound(&j.Value, SourceBody)
}

// Response implements Responder.
func (j JSON[T]) Response() *Response {
	return jsonResponse(http.StatusOK, j.Value)
}

// checkMediaType rejects with 415 when a Content-Type is present and the
// accept predicate refuses its media type. An absent Content-Type passes.
func checkMediaType(h http.Header, accept func(string) bool) error {
	ct := h.Get("Content-Type")
	if ct == "" {
		return nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil || !accept(mt) {
		return Rejectf(http.StatusUnsupportedMediaType, SourceBody, "unsupported content type %q", ct)
	}
	return nil
}

func isJSONMediaType(mt string) bool {
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
