// Package responder writes the admin API's response envelope. Every
// body has the shape {data, error, meta}; meta carries the request id
// and handling time, error carries the classified code table row.
package responder

import (
	"net/http"

	"github.com/blackroad/roadplugin/errors"
	"github.com/blackroad/roadplugin/http/middleware"
	"github.com/blackroad/roadplugin/json"
	"github.com/blackroad/roadplugin/logging"
)

// Response is the standard envelope.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
	Meta  Meta   `json:"meta"`
}

// Error is the error half of the envelope.
type Error struct {
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Meta carries request-scoped bookkeeping.
type Meta struct {
	RequestId string `json:"requestId,omitempty"`
	Took      int64  `json:"took,omitempty"`
}

func newMeta(r *http.Request) Meta {
	return Meta{
		RequestId: logging.GetRequestID(r.Context()),
		Took:      middleware.Took(r.Context()),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","kind":"internal","message":"encode failed"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(raw)
}

// Write sends a success envelope.
func Write(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, status, &Response{Data: data, Meta: newMeta(r)})
}

// OK responds with 200 and data.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	Write(w, r, http.StatusOK, data)
}

// Created responds with 201 and data.
func Created(w http.ResponseWriter, r *http.Request, data any) {
	Write(w, r, http.StatusCreated, data)
}

// NoContent responds with 204.
func NoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError sends an error envelope with an explicit status.
func WriteError(w http.ResponseWriter, r *http.Request, status int, apiErr Error) {
	writeJSON(w, status, &Response{Error: &apiErr, Meta: newMeta(r)})
}

// Fail classifies err through the framework code table and sends the
// matching error envelope.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.FromError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteError(w, r, status, Error{
		Code:    appErr.Code,
		Kind:    string(appErr.Kind),
		Message: appErr.Error(),
		Details: appErr.Details,
	})
}

// NotFound responds with the not_found code table row.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	code := errors.ForKind(errors.KindNotFound)
	if message == "" {
		message = code.Message
	}
	WriteError(w, r, code.HTTPStatus, Error{Code: code.Code, Kind: string(code.Kind), Message: message})
}

// BadRequest responds with the validation code table row and optional
// field details.
func BadRequest(w http.ResponseWriter, r *http.Request, message string, details any) {
	code := errors.ForKind(errors.KindValidation)
	if message == "" {
		message = code.Message
	}
	WriteError(w, r, http.StatusBadRequest, Error{
		Code:    code.Code,
		Kind:    string(code.Kind),
		Message: message,
		Details: details,
	})
}
