package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesCommand_FormatFlag(t *testing.T) {
	cmd := newRulesCommand()
	flag := cmd.Flags().Lookup("format")
	assert.NotNil(t, flag)
	assert.Equal(t, "text", flag.DefValue)
}

func TestRulesCommand_ListsCatalog(t *testing.T) {
	root := NewRootCommand(BuildInfo{Version: "test"})
	root.SetArgs([]string{"rules", "--color", "never"})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute())

	listing := out.String()
	assert.Contains(t, listing, "ID")
	assert.Contains(t, listing, "SEVERITY")
	assert.Contains(t, listing, "no-trailing-spaces")
	assert.Contains(t, listing, "max-line-length")
	assert.Contains(t, listing, "single-h1")
}

func TestRulesCommand_ListsCatalogJSON(t *testing.T) {
	root := NewRootCommand(BuildInfo{Version: "test"})
	root.SetArgs([]string{"rules", "--format", "json"})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute())

	var listings []ruleListing
	require.NoError(t, json.Unmarshal(out.Bytes(), &listings))
	require.NotEmpty(t, listings)

	ids := make(map[string]ruleListing, len(listings))
	for _, listing := range listings {
		ids[listing.ID] = listing
	}

	trailing, ok := ids["no-trailing-spaces"]
	require.True(t, ok, "catalog should include no-trailing-spaces")
	assert.Equal(t, "warning", trailing.Severity)
	assert.True(t, trailing.Enabled)
	assert.Contains(t, trailing.Tags, "whitespace")
	assert.Equal(t, true, trailing.Options["allow_breaks"])
}

func TestRulesCommand_DetailShowsOptions(t *testing.T) {
	root := NewRootCommand(BuildInfo{Version: "test"})
	root.SetArgs([]string{"rules", "max-line-length", "--color", "never"})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute())

	detail := out.String()
	assert.True(t, strings.HasPrefix(detail, "max-line-length"), "detail should start with the rule id")
	assert.Contains(t, detail, "Severity:")
	assert.Contains(t, detail, "max: 100")
	assert.Contains(t, detail, "ignore_code: true")
}

func TestRulesCommand_UnknownRule(t *testing.T) {
	root := NewRootCommand(BuildInfo{Version: "test"})
	root.SetArgs([]string{"rules", "no-such-rule"})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-rule")
	assert.Equal(t, ExitConfig, ExitCodeForError(err))
}

func TestRulesCommand_InvalidFormat(t *testing.T) {
	root := NewRootCommand(BuildInfo{Version: "test"})
	root.SetArgs([]string{"rules", "--format", "xml"})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCodeForError(err))
}
