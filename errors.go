package dispatch

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for request binding.
var (
	ErrBindPath     = errors.New("bind path")
	ErrBindQuery    = errors.New("bind query")
	ErrBindHeader   = errors.New("bind header")
	ErrBindCookie   = errors.New("bind cookie")
	ErrBindBody     = errors.New("bind body")
	ErrBindForm     = errors.New("bind form")
	ErrBodyConsumed = errors.New("request body already consumed")
	ErrBodyTooLarge = errors.New("request body too large")
	ErrStateMissing = errors.New("state value missing")
)

// Binder source names used in rejections and problem responses.
const (
	SourcePath      = "path"
	SourceQuery     = "query"
	SourceHeader    = "header"
	SourceCookie    = "cookie"
	SourceBody      = "body"
	SourceForm      = "form"
	SourceState     = "state"
	SourceExtension = "extension"
)

// StatusCoder is implemented by errors or responses that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// Rejection is a binder's refusal of a request. It is an error, so it flows
// through the usual error return, and it knows how to render itself as a
// problem details response, so dispatch converts it without losing the
// status or the field-level detail.
type Rejection struct {
	Status     int
	Source     string
	Detail     string
	Violations []ValidationError
	Err        error
}

// Reject builds a rejection with the given HTTP status, binder source, and
// detail message.
func Reject(status int, source, detail string) *Rejection {
	return &Rejection{Status: status, Source: source, Detail: detail}
}

// Rejectf builds a rejection with a formatted detail message.
func Rejectf(status int, source, format string, args ...any) *Rejection {
	return &Rejection{Status: status, Source: source, Detail: fmt.Sprintf(format, args...)}
}

// rejectErr wraps an underlying bind error as a rejection, keeping the
// error chain intact for errors.Is checks against the bind sentinels.
func rejectErr(status int, source string, err error) *Rejection {
	return &Rejection{Status: status, Source: source, Detail: err.Error(), Err: err}
}

// Error returns the source-qualified detail message.
func (r *Rejection) Error() string {
	if r.Source != "" {
		return r.Source + ": " + r.Detail
	}
	return r.Detail
}

// Unwrap returns the underlying cause, if any.
func (r *Rejection) Unwrap() error { return r.Err }

// StatusCode returns the HTTP status code.
func (r *Rejection) StatusCode() int { return r.Status }

// Response renders the rejection as a problem details response.
func (r *Rejection) Response() *Response {
	return problemResponse(&ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(r.Status),
		Status: r.Status,
		Detail: r.Detail,
		Source: r.Source,
		Errors: r.Violations,
	})
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Source   string            `json:"source,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ValidationError describes a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
