// Package validation checks inbound payloads before they reach the workflows.
// Every validator trims its string inputs, returns the normalized values and a
// *Error listing each failed field.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("validation failed")

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool { return target == ErrInvalid }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field must be defined", fe.Field())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("The %s field must have at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid (%s)", fe.Field(), fe.Tag())
	}
}

func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Message: message(fe)})
	}
	return out
}

type Registration struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func Register(name, email, password string) (Registration, error) {
	r := Registration{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password}
	return r, check(r)
}

type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func Login(email, password string) (Credentials, error) {
	c := Credentials{Email: strings.TrimSpace(email), Password: password}
	return c, check(c)
}

type NewCustomer struct {
	Name  string `json:"name"  validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

func CreateCustomer(name, email string) (NewCustomer, error) {
	c := NewCustomer{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	return c, check(c)
}

// CustomerPatch holds the supplied fields of a partial update; nil means untouched.
type CustomerPatch struct {
	Name  *string `json:"name"  validate:"omitnil,min=2"`
	Email *string `json:"email" validate:"omitnil,email"`
}

func UpdateCustomer(name, email *string) (CustomerPatch, error) {
	p := CustomerPatch{Name: trimPtr(name), Email: trimPtr(email)}
	return p, check(p)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// ProductID accepts a decoded JSON value and requires a positive integer.
func ProductID(raw any) (uint, error) {
	fail := func(rule, msg string) error {
		return &Error{Fields: []FieldError{{Field: "productId", Rule: rule, Message: msg}}}
	}
	switch v := raw.(type) {
	case nil:
		return 0, fail("required", "The productId field must be defined")
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fail("integer", "The productId field must be an integer")
		}
		if v < 1 {
			return 0, fail("positive", "The productId field must be positive")
		}
		if v > math.MaxUint32 {
			return 0, fail("max", fmt.Sprintf("The productId field must not be greater than %d", uint32(math.MaxUint32)))
		}
		return uint(v), nil
	case int:
		if v < 1 {
			return 0, fail("positive", "The productId field must be positive")
		}
		return uint(v), nil
	default:
		return 0, fail("number", "The productId field must be a number")
	}
}
