package xref

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// AnchorStyle selects the algorithm used to derive anchor ids from
// heading text.
type AnchorStyle string

const (
	// StyleGitHub derives anchors the way GitHub renders heading ids.
	StyleGitHub AnchorStyle = "github"

	// StylePlain derives transliterated ASCII slugs.
	StylePlain AnchorStyle = "plain"
)

// IsValid reports whether the style is a known anchor style.
func (s AnchorStyle) IsValid() bool {
	return s == StyleGitHub || s == StylePlain
}

// githubAnchor converts heading text to a GitHub-compatible anchor id:
// lowercase, punctuation dropped (hyphens and underscores survive),
// spaces become hyphens, hyphen runs collapse.
func githubAnchor(text string) string {
	var buf strings.Builder
	buf.Grow(len(text))

	prevHyphen := false
	for _, ch := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(ch) || unicode.IsNumber(ch):
			buf.WriteRune(ch)
			prevHyphen = false
		case ch == '-' || ch == '_':
			buf.WriteRune(ch)
			prevHyphen = ch == '-'
		case unicode.IsSpace(ch):
			if !prevHyphen && buf.Len() > 0 {
				buf.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	out := strings.Trim(buf.String(), "-")
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return out
}

// plainAnchor converts heading text to a transliterated ASCII slug.
func plainAnchor(text string) string {
	return slug.Make(text)
}
