// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/questkit/questc/pkg/types"
)

const (
	// FormatJSON encodes compiled games as JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML encodes compiled games as YAML.
	FormatYAML OutputFormat = "yaml"
	// FormatTOML encodes compiled games as TOML.
	FormatTOML OutputFormat = "toml"

	// ThemeAuto picks a glamour style from the terminal background.
	ThemeAuto GlamourTheme = "auto"
)

var (
	// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidGlamourTheme is the sentinel error wrapped by InvalidGlamourThemeError.
	ErrInvalidGlamourTheme = errors.New("invalid glamour theme")
	// ErrInvalidTimeout is returned for a non-positive checker timeout.
	ErrInvalidTimeout = errors.New("checker timeout must be positive")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	glamourThemes = []GlamourTheme{ThemeAuto, "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night"}
)

type (
	// OutputFormat selects the export encoding.
	OutputFormat string

	// InvalidOutputFormatError is returned for an unknown OutputFormat.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// GlamourTheme names a glamour style.
	GlamourTheme string

	// InvalidGlamourThemeError is returned for an unknown GlamourTheme.
	InvalidGlamourThemeError struct {
		Value GlamourTheme
	}

	// InvalidConfigError aggregates field errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the complete questc configuration.
	Config struct {
		Checker CheckerConfig `json:"checker" mapstructure:"checker"`
		Sources SourcesConfig `json:"sources" mapstructure:"sources"`
		Output  OutputConfig  `json:"output" mapstructure:"output"`
		// Strict makes warnings fail the build.
		Strict bool     `json:"strict" mapstructure:"strict"`
		UI     UIConfig `json:"ui" mapstructure:"ui"`
	}

	// CheckerConfig selects and tunes the proof checker.
	CheckerConfig struct {
		Command string         `json:"command" mapstructure:"command"`
		Timeout time.Duration  `json:"timeout" mapstructure:"timeout"`
		Prelude []PreludeEntry `json:"prelude" mapstructure:"prelude"`
	}

	// PreludeEntry is one declaration known to the offline checker before
	// any statement is elaborated.
	PreludeEntry struct {
		Name string `json:"name" mapstructure:"name"`
		Type string `json:"type" mapstructure:"type"`
	}

	// SourcesConfig holds the doublestar patterns used to discover source
	// files, relative to the game directory.
	SourcesConfig struct {
		Include []string `json:"include" mapstructure:"include"`
		Exclude []string `json:"exclude" mapstructure:"exclude"`
	}

	// OutputConfig controls where compile writes the game.
	OutputConfig struct {
		Format OutputFormat `json:"format" mapstructure:"format"`
		// Path is the output file; empty means stdout.
		Path string `json:"path" mapstructure:"path"`
	}

	// UIConfig holds terminal presentation settings.
	UIConfig struct {
		Verbose      bool         `json:"verbose" mapstructure:"verbose"`
		GlamourTheme GlamourTheme `json:"glamour_theme" mapstructure:"glamour_theme"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Checker: CheckerConfig{
			Command: "",
			Timeout: time.Minute,
			Prelude: []PreludeEntry{},
		},
		Sources: SourcesConfig{
			Include: []string{"**/*.quest.cue"},
			Exclude: []string{},
		},
		Output: OutputConfig{Format: FormatJSON},
		UI:     UIConfig{GlamourTheme: ThemeAuto},
	}
}

// PreludeMap returns the prelude as the offline checker's initial
// environment.
func (c CheckerConfig) PreludeMap() map[types.Name]string {
	env := make(map[types.Name]string, len(c.Prelude))
	for _, e := range c.Prelude {
		env[types.Name(e.Name)] = e.Type
	}
	return env
}

// String returns the format name.
func (f OutputFormat) String() string { return string(f) }

// IsValid reports whether f is json, yaml or toml.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: json, yaml, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// IsValid reports whether t is a known glamour style.
func (t GlamourTheme) IsValid() (bool, []error) {
	for _, known := range glamourThemes {
		if t == known {
			return true, nil
		}
	}
	return false, []error{&InvalidGlamourThemeError{Value: t}}
}

// Error implements the error interface.
func (e *InvalidGlamourThemeError) Error() string {
	return fmt.Sprintf("invalid glamour theme %q", e.Value)
}

// Unwrap returns ErrInvalidGlamourTheme.
func (e *InvalidGlamourThemeError) Unwrap() error { return ErrInvalidGlamourTheme }

// IsValid checks every field the schema cannot, which matters for values
// that arrive through environment variables.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.Checker.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Checker.Timeout))
	}
	if ok, fieldErrs := c.Output.Format.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.UI.GlamourTheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
