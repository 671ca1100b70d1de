package rules

import (
	"fmt"
	"strings"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/document"
	"github.com/ledgewell/mdcheck/pkg/xref"
)

// NoBareURLsRule checks for URLs pasted into prose without link
// syntax.
type NoBareURLsRule struct {
	check.BaseRule
}

// NewNoBareURLsRule creates a new bare URLs rule.
func NewNoBareURLsRule() *NoBareURLsRule {
	return &NoBareURLsRule{
		BaseRule: check.NewBaseRule(
			"no-bare-urls",
			"URLs should use angle brackets or link syntax",
			[]string{"links"},
		),
	}
}

// Check flags autolinked URLs that are not wrapped in angle brackets.
func (r *NoBareURLsRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	var violations []check.Violation
	for _, auto := range rc.Nodes(document.KindAutoLink) {
		if auto.Span.IsEmpty() {
			continue
		}
		if rc.Doc.Content[auto.Span.Start] == '<' {
			continue
		}

		v := check.NewViolation(r.ID(), rc.Doc, auto.Span, "Bare URL used")
		v.Hint = fmt.Sprintf("Wrap the URL in angle brackets: <%s>", auto.Destination)
		violations = append(violations, v)
	}
	return violations, nil
}

// NoEmptyLinksRule checks for links without text or destination.
type NoEmptyLinksRule struct {
	check.BaseRule
}

// NewNoEmptyLinksRule creates a new empty links rule.
func NewNoEmptyLinksRule() *NoEmptyLinksRule {
	return &NoEmptyLinksRule{
		BaseRule: check.NewBaseRule(
			"no-empty-links",
			"Links should have text and a destination",
			[]string{"links"},
		),
	}
}

// Check flags links whose text is empty (an image counts as text) or
// whose destination is empty or a lone "#".
func (r *NoEmptyLinksRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	var violations []check.Violation
	for _, link := range rc.Nodes(document.KindLink) {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}

		text := strings.TrimSpace(rc.Doc.NodeText(link))
		hasImage := document.FindFirst(link, func(n *document.Node) bool {
			return n.Kind == document.KindImage
		}) != nil

		var message string
		switch {
		case text == "" && !hasImage:
			message = "Link has no text"
		case link.Destination == "" || link.Destination == "#":
			message = "Link has no destination"
		default:
			continue
		}

		v := check.NewViolation(r.ID(), rc.Doc, link.Span, message)
		v.Hint = "Provide link text and a destination"
		violations = append(violations, v)
	}
	return violations, nil
}

// NoBrokenAnchorsRule checks that fragment links target an existing
// anchor.
type NoBrokenAnchorsRule struct {
	check.BaseRule
}

// NewNoBrokenAnchorsRule creates a new broken anchors rule.
func NewNoBrokenAnchorsRule() *NoBrokenAnchorsRule {
	return &NoBrokenAnchorsRule{
		BaseRule: check.NewBaseRule(
			"no-broken-anchors",
			"Link fragments should point at an existing anchor",
			[]string{"links"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *NoBrokenAnchorsRule) OptionDefaults() map[string]any {
	return map[string]any{"style": string(xref.StyleGitHub)}
}

// Check flags links whose "#fragment" destination matches no heading
// or HTML anchor in the document.
func (r *NoBrokenAnchorsRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	styleOpt := rc.OptionString("style", string(xref.StyleGitHub))
	style := xref.AnchorStyle(styleOpt)
	if !style.IsValid() {
		return nil, fmt.Errorf("invalid anchor style %q (want github or plain)", styleOpt)
	}

	refs := rc.Refs()

	var violations []check.Violation
	for _, link := range rc.Nodes(document.KindLink) {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}

		dest := link.Destination
		if !strings.HasPrefix(dest, "#") {
			continue
		}
		if refs.ValidFragment(dest, style) {
			continue
		}

		v := check.NewViolation(r.ID(), rc.Doc, link.Span,
			fmt.Sprintf("Link fragment %q does not match any anchor", dest))
		v.Hint = "Fix the fragment or add the missing heading"
		violations = append(violations, v)
	}
	return violations, nil
}
