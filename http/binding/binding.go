// Package binding decodes and validates admin API request bodies.
package binding

import (
	"fmt"
	"io"
	"net/http"

	validatorV10 "github.com/go-playground/validator/v10"

	"github.com/blackroad/roadplugin/json"
)

// BindError describes one decoding or validation failure.
type BindError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *BindError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s' %s", e.Type, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrors aggregates per-field failures.
type ValidationErrors []BindError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: field '%s' %s", ve[0].Type, ve[0].Field, ve[0].Message)
}

// JSON reads the request body into v and validates it.
func JSON(r *http.Request, v any) error {
	if r.Body == nil {
		return &BindError{Type: "bind_error", Message: "request body is empty"}
	}
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return &BindError{Type: "bind_error", Message: "failed to read request body: " + err.Error()}
	}
	if len(body) == 0 {
		return &BindError{Type: "bind_error", Message: "request body is empty"}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &BindError{Type: "json_error", Message: "failed to unmarshal JSON: " + err.Error()}
	}

	return Validate(v)
}

// Validate runs struct tag validation on an already-decoded value.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	if fieldErrors, ok := err.(validatorV10.ValidationErrors); ok {
		var bindErrors ValidationErrors
		for _, fe := range fieldErrors {
			bindErrors = append(bindErrors, BindError{
				Type:    "validation_error",
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return bindErrors
	}
	return &BindError{Type: "validation_error", Message: err.Error()}
}
