package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
)

// Response is the materialized result of a dispatch: a status code, header
// fields, and a byte payload. Handlers usually return plain values and let
// NewResponse build this; layers and transports deal in it directly.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Responder is implemented by values that know their own HTTP rendering.
// NewResponse consults it before falling back to JSON encoding.
type Responder interface {
	Response() *Response
}

// NewResponse converts a handler result into a response. The conversion is
// total: every value produces some response, with JSON encoding as the
// default for ordinary data values.
//
//   - nil becomes 204 No Content, typed nil pointers included
//   - *Response passes through unchanged
//   - Responder renders itself
//   - error renders as a problem details response
//   - string becomes text/plain
//   - []byte becomes application/octet-stream
//   - anything else is JSON encoded
func NewResponse(v any) *Response {
	if isNil(v) {
		return emptyResponse(http.StatusNoContent)
	}
	switch v := v.(type) {
	case *Response:
		return v
	case Responder:
		resp := v.Response()
		if resp == nil {
			return emptyResponse(http.StatusNoContent)
		}
		return resp
	case error:
		return errorResponse(v)
	case string:
		return textResponse(http.StatusOK, v)
	case []byte:
		return &Response{
			Status: http.StatusOK,
			Header: http.Header{"Content-Type": {"application/octet-stream"}},
			Body:   v,
		}
	default:
		return jsonResponse(http.StatusOK, v)
	}
}

// isNil reports whether v is nil, including a typed nil inside a non-nil
// interface, which a handler produces by returning a nil pointer result.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Write sends the response over an http.ResponseWriter.
func (r *Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vals := range r.Header {
		h[k] = vals
	}
	if len(r.Body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	w.WriteHeader(r.Status)
	_, err := w.Write(r.Body)
	return err
}

// Status wraps a handler result so it renders with the given status code
// instead of the conversion default.
func Status(code int, v any) Responder {
	return statusResponder{code: code, value: v}
}

type statusResponder struct {
	code  int
	value any
}

func (s statusResponder) Response() *Response {
	resp := NewResponse(s.value)
	resp.Status = s.code
	return resp
}

// NoContent returns an empty 204 response.
func NoContent() *Response {
	return emptyResponse(http.StatusNoContent)
}

// Redirect is returned from a handler to issue an HTTP redirect. A zero
// Status means 302 Found.
type Redirect struct {
	URL    string
	Status int
}

// Response implements Responder.
func (rd Redirect) Response() *Response {
	status := rd.Status
	if status == 0 {
		status = http.StatusFound
	}
	return &Response{
		Status: status,
		Header: http.Header{"Location": {rd.URL}},
	}
}

func emptyResponse(status int) *Response {
	return &Response{Status: status, Header: http.Header{}}
}

func textResponse(status int, s string) *Response {
	return &Response{
		Status: status,
		Header: http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:   []byte(s),
	}
}

// jsonResponse encodes v as JSON. An encoding failure is a handler bug, so
// it degrades to a 500 problem response rather than a partial body.
func jsonResponse(status int, v any) *Response {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResponse(fmt.Errorf("encode response: %w", err))
	}
	return &Response{
		Status: status,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   data,
	}
}

// errorResponse renders an error as an RFC 9457 problem details response.
// Rejections and ProblemDetails render themselves; other errors map through
// StatusCoder with a 500 fallback.
func errorResponse(err error) *Response {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Response()
	}

	var pd *ProblemDetail
	if errors.As(err, &pd) {
		return problemResponse(pd)
	}

	status := ErrorStatus(err)
	return problemResponse(&ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	})
}

func problemResponse(p *ProblemDetail) *Response {
	status := p.Status
	data, err := json.Marshal(p)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"status":500,"title":"Internal Server Error"}`)
	}
	return &Response{
		Status: status,
		Header: http.Header{"Content-Type": {"application/problem+json"}},
		Body:   data,
	}
}
