package dispatch

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
)

// maxMultipartMemory is the maximum memory used for multipart form parsing (32 MB).
const maxMultipartMemory = 32 << 20

// Form binds a form-encoded body into T's fields tagged `form`, with
// `default` fallbacks. An application/x-www-form-urlencoded body binds
// scalar fields; a multipart/form-data body additionally binds FileUpload
// and []FileUpload fields from its file parts. Constraint tags and the
// SelfValidator hook run after binding.
type Form[T any] struct {
	Value T
}

// BindRequest implements RequestBinder. Form consumes the body, so it must
// be the final handler argument.
func (f *Form[T]) BindRequest(ctx context.Context, r *Request, s *State) error {
	mt, params, err := formMediaType(r.Parts().Header)
	if err != nil {
		return err
	}
	if mt == "multipart/form-data" {
		err = f.bindMultipart(r, params["boundary"])
	} else {
		err = f.bindURLEncoded(r)
	}
	if err != nil {
		return err
	}
	return validateBound(&f.Value, SourceForm)
}

func (f *Form[T]) bindURLEncoded(r *Request) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return rejectErr(http.StatusBadRequest, SourceForm, err)
	}
	lookup := func(name string) (string, bool) {
		if !values.Has(name) {
			return "", false
		}
		return values.Get(name), true
	}
	if err := bindTagged(&f.Value, "form", ErrBindForm, lookup); err != nil {
		return rejectErr(http.StatusBadRequest, SourceForm, err)
	}
	return nil
}

func (f *Form[T]) bindMultipart(r *Request, boundary string) error {
	if boundary == "" {
		return Reject(http.StatusBadRequest, SourceForm, "multipart form without boundary")
	}
	rc, err := r.Body().Consume()
	if err != nil {
		return classifyBodyError(err)
	}
	defer rc.Close() //nolint:errcheck

	form, err := multipart.NewReader(rc, boundary).ReadForm(maxMultipartMemory)
	if err != nil {
		if errors.Is(err, ErrBodyTooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return rejectErr(http.StatusRequestEntityTooLarge, SourceBody, err)
		}
		return rejectErr(http.StatusBadRequest, SourceForm, fmt.Errorf("%w: %w", ErrBindForm, err))
	}
	if err := bindMultipartFields(&f.Value, form); err != nil {
		return rejectErr(http.StatusBadRequest, SourceForm, err)
	}
	return nil
}

// bindMultipartFields binds form values and file parts to struct fields
// tagged `form`. FileUpload and []FileUpload fields take the file parts
// under their tag name; every other field parses the first form value,
// with `default` fallbacks.
func bindMultipartFields(target any, form *multipart.Form) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Tag.Get("form")
		if name == "" {
			continue
		}

		field := v.Field(i)

		if f.Type == reflect.TypeFor[FileUpload]() {
			headers := form.File[name]
			if len(headers) == 0 {
				continue // optional file, leave zero value
			}
			field.Set(reflect.ValueOf(uploadFromHeader(headers[0])))
			continue
		}

		if f.Type == reflect.TypeFor[[]FileUpload]() {
			headers := form.File[name]
			if len(headers) == 0 {
				continue
			}
			uploads := make([]FileUpload, 0, len(headers))
			for _, h := range headers {
				uploads = append(uploads, uploadFromHeader(h))
			}
			field.Set(reflect.ValueOf(uploads))
			continue
		}

		var val string
		if vals := form.Value[name]; len(vals) > 0 {
			val = vals[0]
		}
		if val == "" {
			val = f.Tag.Get("default")
		}
		if val == "" {
			continue
		}
		if err := setFieldValue(field, val); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBindForm, name, err)
		}
	}

	return nil
}

// formMediaType parses the Content-Type header for form binding. An absent
// header selects urlencoded binding; a media type that is neither form
// encoding rejects with 415.
func formMediaType(h http.Header) (string, map[string]string, error) {
	ct := h.Get("Content-Type")
	if ct == "" {
		return "", nil, nil
	}
	mt, params, err := mime.ParseMediaType(ct)
	if err != nil || (mt != "application/x-www-form-urlencoded" && mt != "multipart/form-data") {
		return "", nil, Rejectf(http.StatusUnsupportedMediaType, SourceBody, "unsupported content type %q", ct)
	}
	return mt, params, nil
}
