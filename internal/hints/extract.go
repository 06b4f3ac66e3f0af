// SPDX-License-Identifier: MPL-2.0

// Package hints separates hint records from the message stream a checker
// returns for one statement and resolves them into curriculum hints.
package hints

import (
	"fmt"
	"regexp"

	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/diag"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}\s]+)\}`)

// Result is the partition of one elaboration stream.
type Result struct {
	// Hints are the resolved hint records in emission order, duplicates kept.
	Hints []curriculum.Hint
	// Diagnostics are the plain checker messages, in emission order, plus
	// problems found while decoding hint records at the position of the
	// offending record.
	Diagnostics []diag.Diagnostic
}

// Extract partitions msgs. Hint records never appear in Result.Diagnostics.
func Extract(loc diag.Location, msgs []checker.Message) Result {
	var res Result
	for i, m := range msgs {
		switch m := m.(type) {
		case checker.Plain:
			res.Diagnostics = append(res.Diagnostics, diag.Diagnostic{
				Severity: m.Severity,
				Code:     diag.CodeChecker,
				Location: loc,
				Message:  m.Text,
			})
		case checker.HintRecord:
			h, problems := resolve(m)
			for _, p := range problems {
				res.Diagnostics = append(res.Diagnostics, diag.Diagnostic{
					Severity: p.severity,
					Code:     diag.CodeBadHint,
					Location: loc,
					Message:  fmt.Sprintf("hint #%d: %s", i+1, p.message),
				})
			}
			if h != nil {
				res.Hints = append(res.Hints, *h)
			}
		default:
			res.Diagnostics = append(res.Diagnostics, diag.Diagnostic{
				Severity: diag.SeverityError,
				Code:     diag.CodeChecker,
				Location: loc,
				Message:  fmt.Sprintf("unrecognized checker message %T", m),
			})
		}
	}
	return res
}

type problem struct {
	severity diag.Severity
	message  string
}

func resolve(rec checker.HintRecord) (*curriculum.Hint, []problem) {
	strict, okStrict := decodeFlag(rec.Strict)
	hidden, okHidden := decodeFlag(rec.Hidden)
	if !okStrict || !okHidden {
		return nil, []problem{{
			severity: diag.SeverityError,
			message:  fmt.Sprintf("flags must be 0 or 1 (strict=%d, hidden=%d); hint dropped", rec.Strict, rec.Hidden),
		}}
	}

	text, unknown := Render(rec.Text, rec.Context)
	var problems []problem
	for _, name := range unknown {
		problems = append(problems, problem{
			severity: diag.SeverityWarning,
			message:  fmt.Sprintf("placeholder {%s} is not bound in the hint context", name),
		})
	}
	return &curriculum.Hint{
		Goal:   rec.Goal,
		Text:   text,
		Strict: strict,
		Hidden: hidden,
	}, problems
}

func decodeFlag(v int) (bool, bool) {
	switch v {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}

// Render substitutes each {name} placeholder in text with the display name
// bound to name in ctx (or the name itself when no display name is given).
// Placeholders without a binding are left unchanged and returned in order of
// appearance.
func Render(text string, ctx []checker.Binding) (string, []string) {
	bound := make(map[string]string, len(ctx))
	for _, b := range ctx {
		display := b.Display
		if display == "" {
			display = b.Name
		}
		bound[b.Name] = display
	}

	var unknown []string
	out := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		if display, ok := bound[name]; ok {
			return display
		}
		unknown = append(unknown, name)
		return match
	})
	return out, unknown
}
