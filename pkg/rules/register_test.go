package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgewell/mdcheck/pkg/check"
)

func TestRegisterAll(t *testing.T) {
	registry := check.NewRegistry()
	RegisterAll(registry)

	wantIDs := []string{
		"no-multiple-spaces",
		"no-trailing-spaces",
		"no-hard-tabs",
		"no-multiple-blank-lines",
		"final-newline",
		"heading-increment",
		"single-h1",
		"no-duplicate-heading",
		"no-trailing-punctuation",
		"starts-with-heading",
		"max-line-length",
		"fenced-code-language",
		"no-bare-urls",
		"no-empty-links",
		"no-broken-anchors",
		"no-undefined-references",
		"no-unused-definitions",
		"bullet-style",
		"list-numbering",
		"no-inline-html",
	}

	assert.Equal(t, len(wantIDs), registry.Len())
	for _, id := range wantIDs {
		_, ok := registry.Lookup(id)
		assert.True(t, ok, "rule %s should be registered", id)
	}
}

func TestRegisterAll_Descriptions(t *testing.T) {
	registry := check.NewRegistry()
	RegisterAll(registry)

	for _, rule := range registry.Rules() {
		assert.NotEmpty(t, rule.Description(), "rule %s needs a description", rule.ID())
		assert.NotEmpty(t, rule.Tags(), "rule %s needs tags", rule.ID())
	}
}

func TestDefaultRegistryHasCatalog(t *testing.T) {
	// The package init registers the catalog with the default registry.
	for _, id := range []string{"no-trailing-spaces", "single-h1", "fenced-code-language"} {
		rule, ok := check.DefaultRegistry.Lookup(id)
		require.True(t, ok, "rule %s should be in the default registry", id)
		assert.Equal(t, id, rule.ID())
	}
}
