// Package codelang validates fence info language identifiers against
// the linguist alias database, with a small extras table for fence
// tags that are common in documentation but unknown to linguist.
package codelang

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// extras maps fence tags to canonical names for identifiers linguist
// does not track.
var extras = map[string]string{
	"mermaid":   "mermaid",
	"text":      "text",
	"plain":     "text",
	"plaintext": "text",
	"console":   "console",
	"output":    "text",
}

// Known reports whether the fence info string names a recognized
// language.
func Known(info string) bool {
	_, ok := Canonical(info)
	return ok
}

// Canonical resolves a fence info string to its canonical lowercase
// language tag. It returns false when the language is unknown.
func Canonical(info string) (string, bool) {
	token := Token(info)
	if token == "" {
		return "", false
	}
	if lang, ok := extras[token]; ok {
		return lang, true
	}
	if lang, ok := enry.GetLanguageByAlias(token); ok {
		return normalize(lang), true
	}
	return "", false
}

// Token extracts the language token from a fence info string: the
// first field, lowercased, with pandoc-style braces and dots trimmed.
// Attributes after the first field ("go linenums") are ignored.
func Token(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Trim(fields[0], "{}."))
}

// normalize converts linguist language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
