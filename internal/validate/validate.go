// Package validate decodes request bodies and checks declarative field
// constraints before any handler logic runs. Constraint failures carry
// every violated field at once so a client can render all errors.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/taskstack/taskstack-be/internal/apperr"
)

// RegisterEntry is the validated registration body.
type RegisterEntry struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginEntry is the validated login body.
type LoginEntry struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// TaskEntry is the validated task creation body.
type TaskEntry struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Body decodes the request body into dst and checks its constraints. A
// malformed body is a structural validation error; constraint failures
// return a field-keyed multi-error.
func Body(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}
	return Struct(dst)
}

// Struct checks the declarative constraints on an already-decoded value.
func Struct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return apperr.Validation("Invalid request body", nil)
	}

	fields := make(map[string][]string, len(violations))
	var messages []string
	for _, violation := range violations {
		message := messageFor(violation)
		fields[violation.Field()] = append(fields[violation.Field()], message)
		messages = append(messages, message)
	}
	return apperr.Validation(strings.Join(messages, ", "), fields)
}

func messageFor(violation validator.FieldError) string {
	name := capitalize(violation.Field())
	switch violation.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " is invalid"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, violation.Param())
	default:
		return name + " is invalid"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
