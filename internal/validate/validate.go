// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate wraps go-playground/validator with readable messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json names so messages match request bodies.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError is one failed rule on one field.
type FieldError struct {
	// Namespace is the dotted path to the field, e.g. "components[1].loss_pct".
	Namespace string
	// Field is the Go struct field name.
	Field   string
	Tag     string
	Param   string
	Value   any
	Message string
}

func (e FieldError) Error() string { return e.Message }

// Errors collects every field that failed validation.
type Errors []FieldError

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Struct validates s against its validate tags. It returns nil or Errors.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{
			Namespace: trimRoot(e.Namespace()),
			Field:     e.StructField(),
			Tag:       e.Tag(),
			Param:     e.Param(),
			Value:     e.Value(),
			Message:   formatFieldError(e),
		})
	}
	return out
}

// Var validates a single value against tag, e.g. Var(pct, "gte=0,lt=100").
func Var(field any, tag string) error {
	return validate.Var(field, tag)
}

func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func formatFieldError(e validator.FieldError) string {
	field := trimRoot(e.Namespace())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", field, e.Param(), e.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", field, e.Param(), e.Value())
	case "lt":
		return fmt.Sprintf("%s must be < %s, got %v", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
