package errors

import (
	"errors"
	"net/http"

	"github.com/blackroad/roadplugin/runtime"
	"github.com/blackroad/roadplugin/source"
)

// Code pairs a kind with its wire identifier and HTTP mapping.
type Code struct {
	Kind       Kind   `json:"kind"`
	Code       string `json:"code"`
	HTTPStatus int    `json:"-"`
	Message    string `json:"message"`
}

var codes = map[Kind]Code{
	KindNotFound:      {KindNotFound, "PLUGIN_NOT_FOUND", http.StatusNotFound, "plugin not found"},
	KindResolution:    {KindResolution, "RESOLUTION_FAILED", http.StatusInternalServerError, "no source could resolve the plugin"},
	KindInstantiation: {KindInstantiation, "INSTANTIATION_FAILED", http.StatusInternalServerError, "the plugin failed to load"},
	KindTransition:    {KindTransition, "TRANSITION_FAILED", http.StatusInternalServerError, "the plugin rejected the state change"},
	KindInvalidState:  {KindInvalidState, "INVALID_STATE", http.StatusConflict, "operation not allowed in the current state"},
	KindValidation:    {KindValidation, "VALIDATION_FAILED", http.StatusUnprocessableEntity, "validation failed"},
	KindInternal:      {KindInternal, "INTERNAL_ERROR", http.StatusInternalServerError, "internal error"},
}

// ForKind returns the code table row for a kind, falling back to
// internal for kinds the table does not carry.
func ForKind(kind Kind) Code {
	if c, ok := codes[kind]; ok {
		return c
	}
	return codes[KindInternal]
}

// Classify maps an error onto the code table through the sentinel and
// typed errors of the lifecycle packages.
func Classify(err error) Code {
	var (
		appErr *AppError
		cbe    *runtime.CallbackError
	)

	switch {
	case errors.As(err, &appErr):
		return ForKind(appErr.Kind)
	case errors.Is(err, runtime.ErrPluginNotFound), errors.Is(err, source.ErrNotFound):
		return ForKind(KindNotFound)
	case errors.Is(err, runtime.ErrInvalidState):
		return ForKind(KindInvalidState)
	case errors.Is(err, source.ErrBadManifest):
		return ForKind(KindValidation)
	case errors.Is(err, source.ErrNoType):
		return ForKind(KindResolution)
	case errors.As(err, &cbe):
		if cbe.Op == "instantiate" || cbe.Op == "on_load" {
			return ForKind(KindInstantiation)
		}
		return ForKind(KindTransition)
	default:
		return ForKind(KindInternal)
	}
}
