package rules

import (
	"github.com/ledgewell/mdcheck/pkg/check"
)

// RegisterAll registers every built-in rule with the given registry.
func RegisterAll(registry *check.Registry) {
	// Whitespace rules.
	registry.MustRegister(NewMultipleSpacesRule())
	registry.MustRegister(NewTrailingSpacesRule())
	registry.MustRegister(NewHardTabsRule())
	registry.MustRegister(NewMultipleBlankLinesRule())
	registry.MustRegister(NewFinalNewlineRule())

	// Heading rules.
	registry.MustRegister(NewHeadingIncrementRule())
	registry.MustRegister(NewSingleH1Rule())
	registry.MustRegister(NewNoDuplicateHeadingRule())
	registry.MustRegister(NewNoTrailingPunctuationRule())
	registry.MustRegister(NewStartsWithHeadingRule())

	// Line length rules.
	registry.MustRegister(NewMaxLineLengthRule())

	// Code block rules.
	registry.MustRegister(NewFencedCodeLanguageRule())

	// Link rules.
	registry.MustRegister(NewNoBareURLsRule())
	registry.MustRegister(NewNoEmptyLinksRule())
	registry.MustRegister(NewNoBrokenAnchorsRule())

	// Reference rules.
	registry.MustRegister(NewUndefinedReferencesRule())
	registry.MustRegister(NewUnusedDefinitionsRule())

	// List rules.
	registry.MustRegister(NewBulletStyleRule())
	registry.MustRegister(NewListNumberingRule())

	// HTML rules.
	registry.MustRegister(NewInlineHTMLRule())
}

//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(check.DefaultRegistry)
}
