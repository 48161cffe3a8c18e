package dispatch

import (
	"fmt"
	"net/http"
)

// SelfValidator is implemented by bound values that validate themselves.
// The built-in binders run it after a successful decode; return an Error
// or Errorf value to control the response status, otherwise the failure
// renders as a 500.
type SelfValidator interface {
	Validate() error
}

// validateBound runs constraint tags and the SelfValidator hook on a
// freshly bound value. Constraint violations reject with a 400 carrying
// field-level detail.
func validateBound(v any, source string) error {
	if errs := checkConstraints(v); len(errs) > 0 {
		return &Rejection{
			Status:     http.StatusBadRequest,
			Source:     source,
			Detail:     fmt.Sprintf("%d constraint violation(s)", len(errs)),
			Violations: errs,
		}
	}
	if sv, ok := v.(SelfValidator); ok {
		if err := sv.Validate(); err != nil {
			return err
		}
	}
	return nil
}
