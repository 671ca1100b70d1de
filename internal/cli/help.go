package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ledgewell/mdcheck/internal/ui/term"
)

// helpStyles holds the Lipgloss styles for command help output.
type helpStyles struct {
	// Command name and usage lines.
	Command lipgloss.Style

	// Section headers (Usage, Available Commands, Flags, ...).
	Heading lipgloss.Style

	// Subcommand names.
	Subcommand lipgloss.Style

	// Flag spellings (--flag, -f).
	Flag lipgloss.Style

	// Flag and command descriptions.
	Description lipgloss.Style

	// Examples block.
	Example lipgloss.Style

	// Aliases.
	Alias lipgloss.Style

	// Secondary text.
	Dim lipgloss.Style
}

func newHelpStyles(colorEnabled bool) *helpStyles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return &helpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Example:     plain,
			Alias:       plain,
			Dim:         plain,
		}
	}

	return &helpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: plain,
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Alias:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const usageTemplateText = `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleAlias (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ styleHeading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ styleSubcommand (rpad .CommandPath .CommandPathPadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplateText = `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + usageTemplateText

// HelpFormatter renders styled usage and help text for Cobra commands.
type HelpFormatter struct {
	styles *helpStyles
	usage  *template.Template
	help   *template.Template
}

// NewHelpFormatter creates a help formatter honoring the color mode
// for the given writer.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	h := &HelpFormatter{styles: newHelpStyles(term.IsColorEnabled(colorMode, writer))}

	funcs := template.FuncMap{
		"styleCommand":            h.styles.Command.Render,
		"styleHeading":            h.styles.Heading.Render,
		"styleSubcommand":         h.styles.Subcommand.Render,
		"styleDescription":        h.styles.Description.Render,
		"styleExample":            h.styles.Example.Render,
		"styleAlias":              h.styles.Alias.Render,
		"styleDim":                h.styles.Dim.Render,
		"styleFlagsUsage":         h.styleFlagsUsage,
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}

	h.usage = template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplateText))
	h.help = template.Must(template.New("help").Funcs(funcs).Parse(helpTemplateText))

	return h
}

// ApplyToCommand installs the styled templates on cmd; Cobra's template
// inheritance carries them to every subcommand.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.usage.Execute(command.OutOrStdout(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.help.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// styleFlagsUsage restyles pflag's FlagUsages block line by line.
func (h *HelpFormatter) styleFlagsUsage(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine colors one "  -f, --flag type   description" line,
// leaving lines it cannot split alone.
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}
	indent := line[:len(line)-len(trimmed)]

	flagPart, desc, ok := splitFlagUsage(trimmed)
	if !ok {
		return line
	}

	return indent + h.styleFlagTokens(flagPart) + "   " + h.styles.Description.Render(desc)
}

// splitFlagUsage separates the flag spelling from its description at
// the first gap of two or more spaces.
func splitFlagUsage(line string) (flagPart, desc string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' {
			continue
		}
		j := i
		for j < len(line) && line[j] == ' ' {
			j++
		}
		if j-i >= 2 && j < len(line) {
			return strings.TrimRight(line[:i], " "), line[j:], true
		}
		i = j - 1
	}
	return "", "", false
}

// styleFlagTokens colors the dash-prefixed tokens of a flag spelling
// and dims the type hints.
func (h *HelpFormatter) styleFlagTokens(flagPart string) string {
	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		name := strings.TrimSuffix(token, ",")

		var styled string
		if strings.HasPrefix(name, "-") {
			styled = h.styles.Flag.Render(name)
		} else {
			styled = h.styles.Dim.Render(name)
		}
		if name != token {
			styled += ","
		}
		tokens[i] = styled
	}
	return strings.Join(tokens, " ")
}

// rpad pads str with spaces on the right to the given width.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from every line.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
