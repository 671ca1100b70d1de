package configload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// MigrationResult is the outcome of converting a markdownlint config.
type MigrationResult struct {
	// Config is the converted mdcheck configuration.
	Config *config.Config

	// Warnings lists keys and settings that could not be carried over.
	Warnings []string

	// SourcePath is the original markdownlint config file.
	SourcePath string
}

// ConvertMarkdownlintConfig converts a markdownlint config file
// (JSON, JSONC, or YAML) to mdcheck format. Unmapped keys produce
// warnings, never errors; JavaScript configs cannot be converted.
func ConvertMarkdownlintConfig(path string) (*MigrationResult, error) {
	if IsJavaScriptConfig(path) {
		return nil, fmt.Errorf("cannot convert JavaScript config %q; create an mdcheck config manually or run 'mdcheck init'", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]any
	if IsJSONConfig(path) {
		if err := parseJSONC(content, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	}

	// Only converted rule settings go into the result; runtime defaults
	// stay implicit so the output file pins nothing the loader would
	// supply anyway.
	result := &MigrationResult{
		SourcePath: path,
		Config:     &config.Config{Rules: make(map[string]config.RuleConfig)},
	}

	stripSpecialKeys(raw, result)
	for key, value := range raw {
		convertRuleKey(result, key, value)
	}

	return result, nil
}

// parseJSONC parses JSON that may carry JavaScript-style comments.
func parseJSONC(content []byte, target any) error {
	// Many .jsonc files are plain JSON; try the cheap path first.
	if err := json.Unmarshal(content, target); err == nil {
		return nil
	}

	stripped := stripJSONComments(content)
	if err := json.Unmarshal(stripped, target); err != nil {
		return fmt.Errorf("unmarshal stripped JSON: %w", err)
	}
	return nil
}

// stripJSONComments removes // and /* */ comments, leaving string
// contents untouched.
func stripJSONComments(content []byte) []byte {
	var out []byte
	inString := false
	inLineComment := false
	inBlockComment := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		if inLineComment {
			if c == '\n' {
				inLineComment = false
				out = append(out, c)
			}
			continue
		}

		if inBlockComment {
			if c == '*' && i+1 < len(content) && content[i+1] == '/' {
				inBlockComment = false
				i++
			}
			continue
		}

		if inString {
			out = append(out, c)
			if c == '\\' && i+1 < len(content) {
				i++
				out = append(out, content[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}

		if c == '/' && i+1 < len(content) {
			switch content[i+1] {
			case '/':
				inLineComment = true
				i++
				continue
			case '*':
				inBlockComment = true
				i++
				continue
			}
		}

		out = append(out, c)
	}

	return out
}

// stripSpecialKeys handles markdownlint's non-rule keys before the
// rule conversion pass.
func stripSpecialKeys(raw map[string]any, result *MigrationResult) {
	if defaultVal, ok := raw["default"].(bool); ok {
		if !defaultVal {
			result.Warnings = append(result.Warnings,
				"'default: false' disables all rules by default; mdcheck rules are enabled by default and must be disabled individually")
		}
		delete(raw, "default")
	}

	if extends, ok := raw["extends"].(string); ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("'extends: %q' is not supported; merge the extended config manually", extends))
		delete(raw, "extends")
	}

	delete(raw, "$schema")
}

// convertRuleKey converts one markdownlint config key. Keys resolve in
// order: an mdcheck rule id, an MD0xx id or markdownlint alias, a
// markdownlint tag, then a warning.
func convertRuleKey(result *MigrationResult, key string, value any) {
	if _, ok := check.DefaultRegistry.Lookup(key); ok {
		result.Config.Rules[key] = convertRuleValue(value)
		return
	}

	if id, ok := MapRuleKey(key); ok {
		result.Config.Rules[id] = convertRuleValue(value)
		return
	}

	if IsTag(key) {
		enabled := valueToBool(value)
		for _, id := range TagRules(key) {
			e := enabled
			result.Config.Rules[id] = config.RuleConfig{Enabled: &e}
		}
		return
	}

	result.Warnings = append(result.Warnings,
		fmt.Sprintf("no mdcheck equivalent for %q; skipping", key))
}

// convertRuleValue translates a markdownlint rule value. Booleans
// toggle the rule, objects become options, and an explicit null means
// disabled.
func convertRuleValue(value any) config.RuleConfig {
	rc := config.RuleConfig{}

	switch v := value.(type) {
	case bool:
		enabled := v
		rc.Enabled = &enabled
	case map[string]any:
		enabled := true
		rc.Enabled = &enabled
		rc.Options = make(map[string]any, len(v))
		for key, optVal := range v {
			rc.Options[mapOptionName(key)] = optVal
		}
	case nil:
		enabled := false
		rc.Enabled = &enabled
	default:
		enabled := true
		rc.Enabled = &enabled
	}

	return rc
}

func valueToBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		return true
	}
}

// MigrationHeader returns the comment block written at the top of a
// migrated config file.
func MigrationHeader(sourcePath string) string {
	return fmt.Sprintf(`# mdcheck configuration
# Migrated from: %s
# See: https://github.com/ledgewell/mdcheck

`, filepath.Base(sourcePath))
}
