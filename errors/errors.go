// Package errors carries the framework error taxonomy: a structured
// error type with fluent context, a wire code table, and classification
// of the sentinel errors the lifecycle packages return.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Kind buckets a failure for reporting.
type Kind string

const (
	// KindNotFound covers unknown plugin or hook names.
	KindNotFound Kind = "not_found"
	// KindResolution covers sources that cannot produce a plugin type.
	KindResolution Kind = "resolution"
	// KindInstantiation covers factory and OnLoad failures.
	KindInstantiation Kind = "instantiation"
	// KindTransition covers OnEnable, OnDisable and OnUnload failures.
	KindTransition Kind = "transition"
	// KindInvalidState covers operations whose precondition state does
	// not hold.
	KindInvalidState Kind = "invalid_state"
	// KindValidation covers bad manifests and bad request payloads.
	KindValidation Kind = "validation"
	// KindInternal is the fallback for everything else.
	KindInternal Kind = "internal"
)

// AppError is a structured framework error.
type AppError struct {
	Kind       Kind           `json:"kind"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	InnerError error          `json:"-"`
	Stack      []string       `json:"-"`
	HTTPStatus int            `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.InnerError != nil {
		return e.InnerError.Error()
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error {
	return e.InnerError
}

// Is matches two AppErrors by kind.
func (e *AppError) Is(target error) bool {
	if targetApp, ok := target.(*AppError); ok {
		return e.Kind == targetApp.Kind
	}
	return false
}

// WithMessage replaces the message.
func (e *AppError) WithMessage(msg string) *AppError {
	e.Message = msg
	return e
}

// WithDetail adds one detail.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithInnerError sets the wrapped error.
func (e *AppError) WithInnerError(err error) *AppError {
	e.InnerError = err
	return e
}

// WithHTTPStatus overrides the status the code table assigned.
func (e *AppError) WithHTTPStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// WithStack captures the call stack.
func (e *AppError) WithStack() *AppError {
	e.Stack = captureStack(3)
	return e
}

// New builds an AppError of a kind, with code and status filled from
// the code table.
func New(kind Kind, message string) *AppError {
	code := ForKind(kind)
	return &AppError{
		Kind:       kind,
		Code:       code.Code,
		Message:    message,
		HTTPStatus: code.HTTPStatus,
	}
}

// FromError converts any error to an AppError, classifying sentinels
// from the lifecycle packages along the way.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	code := Classify(err)
	return &AppError{
		Kind:       code.Kind,
		Code:       code.Code,
		Message:    err.Error(),
		InnerError: err,
		HTTPStatus: code.HTTPStatus,
	}
}

// Wrap converts and re-messages an error in one step.
func Wrap(err error, message string) *AppError {
	return FromError(err).WithMessage(message)
}

func captureStack(skip int) []string {
	var stack []string
	for i := skip; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		funcName := fn.Name()
		if idx := strings.LastIndex(funcName, "/"); idx >= 0 {
			funcName = funcName[idx+1:]
		}

		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, funcName))
	}
	return stack
}
