// SPDX-License-Identifier: MPL-2.0

// Package diag defines located build diagnostics.
//
// Every recoverable problem found while compiling a curriculum is reported as
// a Diagnostic attached to the game, world or level that caused it. Fatal
// problems are returned as errors instead and never appear here.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/questkit/questc/pkg/types"
)

const (
	// SeverityInfo is an informational note that needs no action.
	SeverityInfo Severity = iota
	// SeverityWarning marks degraded output the author should fix.
	SeverityWarning
	// SeverityError marks output that is known to be wrong.
	SeverityError
)

const (
	// CodeMissingDoc reports a vocabulary item used without documentation.
	CodeMissingDoc Code = "missing-doc"
	// CodeTemplateDoc reports an undocumented item filled from a template.
	CodeTemplateDoc Code = "template-doc"
	// CodeDuplicateDoc reports a second registration of the same item.
	CodeDuplicateDoc Code = "duplicate-doc"
	// CodeNameCollision reports a statement name that is already defined.
	CodeNameCollision Code = "name-collision"
	// CodeStatementFailed reports a statement that did not elaborate.
	CodeStatementFailed Code = "statement-failed"
	// CodePreviewMissing reports a statement whose preview could not be rendered.
	CodePreviewMissing Code = "preview-missing"
	// CodeBadHint reports a hint record that could not be decoded.
	CodeBadHint Code = "bad-hint"
	// CodeOverride reports a declaration overwriting an earlier one in the same level.
	CodeOverride Code = "override"
	// CodeNoCursor reports a unit that needs a world or level before one was selected.
	CodeNoCursor Code = "no-cursor"
	// CodeDuplicateStatement reports a second statement in one level.
	CodeDuplicateStatement Code = "duplicate-statement"
	// CodeUnknownWorld reports a path endpoint that was never declared as a world.
	CodeUnknownWorld Code = "unknown-world"
	// CodeInvalidUnit reports a unit with malformed fields.
	CodeInvalidUnit Code = "invalid-unit"
	// CodeChecker reports a message forwarded from the proof checker.
	CodeChecker Code = "checker"
)

// ErrInvalidSeverity is returned when a Severity value is not recognized.
var ErrInvalidSeverity = errors.New("invalid severity")

type (
	// Severity orders diagnostics from informational to error.
	Severity int

	// Code is a stable machine-readable diagnostic category.
	Code string

	// Location addresses the game element a diagnostic is attached to.
	// A zero World means the game itself; a zero Level means the world.
	Location struct {
		World types.WorldID    `json:"world,omitempty" yaml:"world,omitempty" toml:"world,omitempty"`
		Level types.LevelIndex `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	}

	// Diagnostic is one located build message.
	Diagnostic struct {
		Severity Severity `json:"severity" yaml:"severity" toml:"severity"`
		Code     Code     `json:"code" yaml:"code" toml:"code"`
		Location Location `json:"location" yaml:"location" toml:"location"`
		Message  string   `json:"message" yaml:"message" toml:"message"`
	}

	// List collects diagnostics in report order.
	List struct {
		items []Diagnostic
	}
)

// String returns the lower-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// IsValid returns whether the Severity is one of the defined levels.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %d", ErrInvalidSeverity, int(s))}
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info", "information":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSeverity, string(text))
	}
	return nil
}

// String renders the location as "world/level", "world" or "game".
func (l Location) String() string {
	switch {
	case l.World == "":
		return "game"
	case l.Level == 0:
		return string(l.World)
	default:
		return fmt.Sprintf("%s/%d", l.World, l.Level)
	}
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Location.String())
	b.WriteString(": ")
	b.WriteString(d.Severity.String())
	if d.Code != "" {
		b.WriteString(" [")
		b.WriteString(string(d.Code))
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Add appends diagnostics to the list.
func (l *List) Add(ds ...Diagnostic) {
	l.items = append(l.items, ds...)
}

// Report appends a formatted diagnostic.
func (l *List) Report(sev Severity, code Code, loc Location, format string, args ...any) {
	l.items = append(l.items, Diagnostic{
		Severity: sev,
		Code:     code,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Items returns the diagnostics in report order.
func (l *List) Items() []Diagnostic {
	return l.items
}

// Count returns how many diagnostics have the given severity.
func (l *List) Count(sev Severity) int {
	n := 0
	for _, d := range l.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error diagnostic was recorded.
func (l *List) HasErrors() bool {
	return l.Count(SeverityError) > 0
}

// Filter returns the diagnostics matching code, in report order.
func (l *List) Filter(code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.items {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Reset drops every recorded diagnostic.
func (l *List) Reset() {
	l.items = nil
}
