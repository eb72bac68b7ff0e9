package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var wordBreaks = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// TitleWords converts an identifier such as "kv_store" or "hello-world"
// into display form.
// Example: "kv_store" -> "Kv Store"
func TitleWords(s string) string {
	return cases.Title(language.English).String(wordBreaks.Replace(s))
}
