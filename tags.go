package dispatch

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// lookupFunc resolves a tagged field name against a binding source.
type lookupFunc func(name string) (string, bool)

// bindTagged populates the exported fields of target (a pointer to struct)
// whose tag names a value in the source. A missing or empty source value
// falls back to the field's "default" tag; fields with neither stay zero.
// Parse failures wrap sentinel so callers can classify the source.
func bindTagged(target any, tag string, sentinel error, lookup lookupFunc) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Tag.Get(tag)
		if name == "" {
			continue
		}

		val, ok := lookup(name)
		if !ok || val == "" {
			val = f.Tag.Get("default")
		}
		if val == "" {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("%w: %s: %w", sentinel, name, err)
		}
	}

	return nil
}

// hasTag reports whether the struct type has any exported field carrying
// the given binding tag.
func hasTag(t reflect.Type, tag string) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get(tag) != "" {
			return true
		}
	}
	return false
}

// setFieldValue sets a reflect.Value from a string, supporting common
// scalar types plus time.Duration and encoding.TextUnmarshaler targets
// such as uuid.UUID and time.Time.
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	if field.CanAddr() {
		if tu, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return tu.UnmarshalText([]byte(value))
		}
	}

	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %s", field.Type())
	}
	return nil
}

// setScalar parses value into target, a pointer to a supported scalar type.
func setScalar(target any, value string) error {
	return setFieldValue(reflect.ValueOf(target).Elem(), value)
}

// tagOptions splits a struct tag value on comma and returns
// the name and remaining options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

// jsonFieldName returns the wire name of a struct field: the json tag name
// when present, the Go field name otherwise.
func jsonFieldName(f reflect.StructField) string {
	name, _ := tagOptions(f.Tag.Get("json"))
	if name == "" {
		return f.Name
	}
	return name
}
