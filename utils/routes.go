package utils

import (
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
)

// Routes flattens a chi router into "METHOD path" lines, for startup logs.
func Routes(r chi.Routes) []string {
	var out []string
	walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		out = append(out, method+" "+strings.ReplaceAll(route, "/*/", "/"))
		return nil
	}
	_ = chi.Walk(r, walkFunc)
	return out
}
