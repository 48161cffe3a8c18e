package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML binds the request body as YAML into T and, when returned from a
// handler, renders T as an application/yaml response. Decoding follows the
// same rules as JSON: empty body binds the zero value, a non-YAML
// Content-Type rejects with 415, and constraints run after decoding.
type YAML[T any] struct {
	Value T
}

// BindRequest implements RequestBinder. YAML consumes the body, so it must
// be the final handler argument.
func (y *YAML[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	if err := checkMediaType(r.Parts().Header, isYAMLMediaType); err != nil {
		return err
	}
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &y.Value); err != nil {
			return rejectErr(http.StatusBadRequest, SourceBody, fmt.Errorf("%w: %w", ErrBindBody, err))
		}
	}
	return validateBound(&y.Value, SourceBody)
}

// Response implements Responder.
func (y YAML[T]) Response() *Response {
	data, err := yaml.Marshal(y.Value)
	if err != nil {
		return errorResponse(fmt.Errorf("encode response: %w", err))
	}
	return &Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/yaml"}},
		Body:   data,
	}
}

func isYAMLMediaType(mt string) bool {
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return true
	}
	return strings.HasSuffix(mt, "+yaml")
}
