// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/questkit/questc/internal/issue"
	"github.com/questkit/questc/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "questc"
	// ConfigFileName is the config file name inside ConfigDir.
	ConfigFileName = "config.cue"
	// LocalConfigFileName is looked up in the working directory when the
	// user config file does not exist.
	LocalConfigFileName = "questc.cue"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "QUESTC"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns <user config dir>/questc: $XDG_CONFIG_HOME (or ~/.config)
// on Linux, ~/Library/Application Support on macOS, %AppData% on Windows.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// ResolvePath returns the config file Load would read for opts, or "" when
// none exists and defaults apply.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	dir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if p := filepath.Join(dir, ConfigFileName); fileExists(p) {
		return p, nil
	}
	if p := filepath.Join(opts.WorkDir, LocalConfigFileName); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// Load layers defaults, the resolved config file and QUESTC_* variables.
// It returns the config and the file it read ("" for none).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" && !fileExists(opts.ConfigFilePath) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the --config path").
			WithSuggestion("Run 'questc config init' to write a default file").
			WithIssue(issue.ConfigLoadFailedID).
			Wrap(os.ErrNotExist).
			BuildError()
	}

	path, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE").
				WithSuggestion("Compare it with the output of 'questc config show'").
				WithIssue(issue.ConfigLoadFailedID).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check QUESTC_* environment variables as well as the file").
			WithIssue(issue.ConfigLoadFailedID).
			Wrap(errs[0]).
			BuildError()
	}
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("checker.command", d.Checker.Command)
	v.SetDefault("checker.timeout", d.Checker.Timeout)
	v.SetDefault("checker.prelude", d.Checker.Prelude)
	v.SetDefault("sources.include", d.Sources.Include)
	v.SetDefault("sources.exclude", d.Sources.Exclude)
	v.SetDefault("output.format", string(d.Output.Format))
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.glamour_theme", string(d.UI.GlamourTheme))
}

func configDirWithOverride(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates the file against #Config and merges it over
// the defaults. Config keys are all optional, so the document is decoded
// into a map rather than a Config.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	res, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the defaults to <dir>/config.cue unless the file
// exists. It returns the path and whether the file was written.
func CreateDefaultConfig(dir string) (string, bool, error) {
	dir, err := configDirWithOverride(dir)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if fileExists(path) {
		return path, false, nil
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("write config file: %w", err)
	}
	return path, true, nil
}

// GenerateCUE renders cfg as a config file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// questc configuration\n\n")

	sb.WriteString("checker: {\n")
	fmt.Fprintf(&sb, "\t// Empty uses the built-in offline checker.\n\tcommand: %q\n", cfg.Checker.Command)
	fmt.Fprintf(&sb, "\ttimeout: %q\n", cfg.Checker.Timeout.String())
	if len(cfg.Checker.Prelude) > 0 {
		sb.WriteString("\tprelude: [\n")
		for _, e := range cfg.Checker.Prelude {
			fmt.Fprintf(&sb, "\t\t{name: %q, type: %q},\n", e.Name, e.Type)
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nsources: {\n")
	fmt.Fprintf(&sb, "\tinclude: %s\n", cueList(cfg.Sources.Include))
	fmt.Fprintf(&sb, "\texclude: %s\n", cueList(cfg.Sources.Exclude))
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Output.Format)
	fmt.Fprintf(&sb, "\tpath:   %q\n", cfg.Output.Path)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nstrict: %v\n", cfg.Strict)

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:       %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tglamour_theme: %q\n", cfg.UI.GlamourTheme)
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
