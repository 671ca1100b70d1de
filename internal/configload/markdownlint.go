package configload

import "strings"

// markdownlintIDs maps markdownlint MD0xx rule ids to the mdcheck rule
// that checks the same thing. Rules without an mdcheck equivalent are
// absent and surface as migration warnings.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markdownlintIDs = map[string]string{
	"MD001": "heading-increment",
	"MD004": "bullet-style",
	"MD009": "no-trailing-spaces",
	"MD010": "no-hard-tabs",
	"MD012": "no-multiple-blank-lines",
	"MD013": "max-line-length",
	"MD024": "no-duplicate-heading",
	"MD025": "single-h1",
	"MD026": "no-trailing-punctuation",
	"MD029": "list-numbering",
	"MD033": "no-inline-html",
	"MD034": "no-bare-urls",
	"MD040": "fenced-code-language",
	"MD041": "starts-with-heading",
	"MD042": "no-empty-links",
	"MD047": "final-newline",
	"MD051": "no-broken-anchors",
	"MD052": "no-undefined-references",
	"MD053": "no-unused-definitions",
}

// markdownlintAliases maps markdownlint's human-readable rule aliases
// to mdcheck rule ids. Aliases that already match an mdcheck id are
// resolved through the registry instead and do not need an entry.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markdownlintAliases = map[string]string{
	"ul-style":                         "bullet-style",
	"no-multiple-blanks":               "no-multiple-blank-lines",
	"line-length":                      "max-line-length",
	"single-title":                     "single-h1",
	"ol-prefix":                        "list-numbering",
	"first-line-heading":               "starts-with-heading",
	"first-line-h1":                    "starts-with-heading",
	"single-trailing-newline":          "final-newline",
	"link-fragments":                   "no-broken-anchors",
	"reference-links-images":           "no-undefined-references",
	"link-image-reference-definitions": "no-unused-definitions",
}

// markdownlintTags maps markdownlint tag names to the mdcheck rules
// they cover. Tags whose rules have no equivalents are absent.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markdownlintTags = map[string][]string{
	"blank_lines": {"no-multiple-blank-lines", "final-newline"},
	"bullet":      {"bullet-style"},
	"code":        {"fenced-code-language"},
	"hard_tab":    {"no-hard-tabs"},
	"headings":    {"heading-increment", "single-h1", "no-duplicate-heading", "no-trailing-punctuation", "starts-with-heading"},
	"html":        {"no-inline-html"},
	"images":      {"no-undefined-references", "no-unused-definitions"},
	"language":    {"fenced-code-language"},
	"line_length": {"max-line-length"},
	"links":       {"no-bare-urls", "no-empty-links", "no-broken-anchors", "no-undefined-references", "no-unused-definitions"},
	"ol":          {"list-numbering"},
	"ul":          {"bullet-style"},
	"url":         {"no-bare-urls"},
	"whitespace":  {"no-trailing-spaces", "no-hard-tabs", "no-multiple-blank-lines", "no-multiple-spaces"},
}

// optionRenames maps markdownlint option names to mdcheck option names
// where they differ. Names not listed carry over unchanged; both tools
// spell options in snake_case.
//
//nolint:gochecknoglobals // Read-only lookup table.
var optionRenames = map[string]string{
	"line_length":       "max",
	"maximum":           "max",
	"allowed_elements":  "allowed",
	"allowed_languages": "allowed",
}

// MapRuleKey resolves a markdownlint rule key (MD0xx id or alias) to
// the equivalent mdcheck rule id. The second return is false when no
// equivalent exists.
func MapRuleKey(key string) (string, bool) {
	if id, ok := markdownlintIDs[strings.ToUpper(key)]; ok {
		return id, true
	}
	if id, ok := markdownlintAliases[strings.ToLower(key)]; ok {
		return id, true
	}
	return "", false
}

// IsTag reports whether key is a markdownlint tag with mdcheck
// equivalents.
func IsTag(key string) bool {
	_, ok := markdownlintTags[strings.ToLower(key)]
	return ok
}

// TagRules returns the mdcheck rule ids a markdownlint tag covers.
func TagRules(tag string) []string {
	return markdownlintTags[strings.ToLower(tag)]
}

// mapOptionName converts a markdownlint option name to the mdcheck
// spelling.
func mapOptionName(name string) string {
	if renamed, ok := optionRenames[name]; ok {
		return renamed
	}
	return name
}
