package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgewell/mdcheck/internal/ui/term"
	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
)

type rulesFlags struct {
	format string
}

const formatJSON = "json"

// ruleListing represents a rule in JSON output.
type ruleListing struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Severity    string         `json:"severity"`
	Enabled     bool           `json:"enabled"`
	Tags        []string       `json:"tags,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules [id]",
		Short: "List available rules",
		Long: `List all available rules with their ids, default severity, tags,
and descriptions. Pass a rule id to show its full detail, including
the options it accepts and their defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.format != "text" && flags.format != formatJSON {
				return usagef("invalid format %q: must be text or json", flags.format)
			}
			if len(args) == 1 {
				return runRuleDetail(cmd, args[0], flags)
			}
			return runRulesList(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

func runRulesList(cmd *cobra.Command, flags *rulesFlags) error {
	rules := check.DefaultRegistry.Rules()

	if flags.format == formatJSON {
		return writeRulesJSON(cmd, rules)
	}

	out := cmd.OutOrStdout()
	styles := commandStyles(cmd)

	idWidth := len("ID")
	tagsWidth := len("TAGS")
	for _, rule := range rules {
		idWidth = max(idWidth, len(rule.ID()))
		tagsWidth = max(tagsWidth, len(strings.Join(rule.Tags(), ",")))
	}
	const severityWidth = len("SEVERITY")

	fmt.Fprintf(out, "%s  %s  %s  %s\n",
		styles.TableHeader.Render(rpad("ID", idWidth)),
		styles.TableHeader.Render(rpad("SEVERITY", severityWidth)),
		styles.TableHeader.Render(rpad("TAGS", tagsWidth)),
		styles.TableHeader.Render("DESCRIPTION"),
	)

	for _, rule := range rules {
		severity := string(rule.DefaultSeverity())
		if !rule.DefaultEnabled() {
			severity = "off"
		}
		fmt.Fprintf(out, "%s  %s  %s  %s\n",
			styles.RuleID.Render(rpad(rule.ID(), idWidth)),
			rpad(severity, severityWidth),
			styles.Dim.Render(rpad(strings.Join(rule.Tags(), ","), tagsWidth)),
			rule.Description(),
		)
	}

	return nil
}

func runRuleDetail(cmd *cobra.Command, id string, flags *rulesFlags) error {
	rule, ok := check.DefaultRegistry.Lookup(id)
	if !ok {
		return config.NewError("unknown rule %q (run 'mdcheck rules' for the catalog)", id)
	}

	if flags.format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(newRuleListing(rule)); err != nil {
			return fmt.Errorf("encoding rule: %w", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	styles := commandStyles(cmd)

	fmt.Fprintln(out, styles.Bold.Render(rule.ID()))
	fmt.Fprintf(out, "  %s\n\n", rule.Description())
	fmt.Fprintf(out, "  Severity: %s\n", styles.FormatSeverity(rule.DefaultSeverity()))
	fmt.Fprintf(out, "  Enabled:  %t\n", rule.DefaultEnabled())
	if tags := rule.Tags(); len(tags) > 0 {
		fmt.Fprintf(out, "  Tags:     %s\n", strings.Join(tags, ", "))
	}

	if opts := ruleOptionDefaults(rule); len(opts) > 0 {
		fmt.Fprintf(out, "\n  Options (defaults):\n")
		names := make([]string, 0, len(opts))
		for name := range opts {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(out, "    %s: %v\n", styles.Dim.Render(name), opts[name])
		}
	}

	return nil
}

// writeRulesJSON writes the catalog as a JSON array.
func writeRulesJSON(cmd *cobra.Command, rules []check.Rule) error {
	listings := make([]ruleListing, 0, len(rules))
	for _, rule := range rules {
		listings = append(listings, newRuleListing(rule))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(listings); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}

func newRuleListing(rule check.Rule) ruleListing {
	return ruleListing{
		ID:          rule.ID(),
		Description: rule.Description(),
		Severity:    string(rule.DefaultSeverity()),
		Enabled:     rule.DefaultEnabled(),
		Tags:        rule.Tags(),
		Options:     ruleOptionDefaults(rule),
	}
}

// ruleOptionDefaults returns the rule's documented option defaults,
// nil for rules without options.
func ruleOptionDefaults(rule check.Rule) map[string]any {
	if documenter, ok := rule.(check.OptionDocumenter); ok {
		return documenter.OptionDefaults()
	}
	return nil
}

// commandStyles builds terminal styles honoring the persistent --color
// flag and the command's output writer.
func commandStyles(cmd *cobra.Command) *term.Styles {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	return term.NewStyles(term.IsColorEnabled(colorMode, cmd.OutOrStdout()))
}
