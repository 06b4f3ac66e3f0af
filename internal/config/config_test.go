// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/questkit/questc/internal/issue"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("no file should have been read, got %q", path)
	}
	want := DefaultConfig()
	if cfg.Checker.Timeout != want.Checker.Timeout || cfg.Output.Format != FormatJSON || cfg.UI.GlamourTheme != ThemeAuto {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if !slices.Equal(cfg.Sources.Include, want.Sources.Include) {
		t.Errorf("Sources.Include = %v", cfg.Sources.Include)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ConfigFileName, `
checker: {
	command: "lake env checker --json"
	timeout: "90s"
	prelude: [{name: "Nat.add_comm", type: "(a b : ℕ) : a + b = b + a"}]
}
output: format: "yaml"
strict: true
`)

	cfg, path, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != filepath.Join(dir, ConfigFileName) {
		t.Errorf("path = %q", path)
	}
	if cfg.Checker.Command != "lake env checker --json" || cfg.Checker.Timeout != 90*time.Second {
		t.Errorf("Checker = %+v", cfg.Checker)
	}
	if env := cfg.Checker.PreludeMap(); env["Nat.add_comm"] != "(a b : ℕ) : a + b = b + a" {
		t.Errorf("PreludeMap() = %v", env)
	}
	if cfg.Output.Format != FormatYAML || !cfg.Strict {
		t.Errorf("Output/Strict = %+v / %v", cfg.Output, cfg.Strict)
	}
	if cfg.UI.GlamourTheme != ThemeAuto {
		t.Errorf("unset keys keep their defaults, got theme %q", cfg.UI.GlamourTheme)
	}
}

func TestLoad_LocalFile(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	path := writeConfig(t, work, LocalConfigFileName, `ui: verbose: true`)

	cfg, got, err := Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: work})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != path || !cfg.UI.Verbose {
		t.Errorf("Load() read %q, verbose=%v", got, cfg.UI.Verbose)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", `colour: "red"`},
		{"bad format", `output: format: "xml"`},
		{"bad duration", `checker: timeout: "soon"`},
		{"syntax", `checker: {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, t.TempDir(), "c.cue", tt.content)
			_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: path})
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
			}
			if ae.Issue != issue.ConfigLoadFailedID || ae.Resource != path {
				t.Errorf("ActionableError = %+v", ae)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()
		_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load() error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, _, err := Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
			t.Errorf("Load() error = %v, want context.Canceled", err)
		}
	})
}

//nolint:tparallel // t.Setenv forbids t.Parallel
func TestLoad_Environment(t *testing.T) {
	t.Setenv("QUESTC_CHECKER_TIMEOUT", "5s")
	t.Setenv("QUESTC_STRICT", "true")
	t.Setenv("QUESTC_OUTPUT_FORMAT", "toml")

	cfg, _, err := Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Checker.Timeout != 5*time.Second || !cfg.Strict || cfg.Output.Format != FormatTOML {
		t.Errorf("environment not applied: %+v", cfg)
	}

	t.Setenv("QUESTC_OUTPUT_FORMAT", "xml")
	_, _, err = Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()})
	if !errors.Is(err, ErrInvalidOutputFormat) && !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want an invalid config error", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "questc")
	path, created, err := CreateDefaultConfig(dir)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %q, %v, %v", path, created, err)
	}
	if _, created, _ := CreateDefaultConfig(dir); created {
		t.Error("an existing file must not be overwritten")
	}

	cfg, read, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if read != path || cfg.Checker.Timeout != time.Minute {
		t.Errorf("Load() of generated file = %+v from %q", cfg, read)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	in := DefaultConfig()
	in.Checker.Command = `checker --mode "json"`
	in.Checker.Prelude = []PreludeEntry{{Name: "Nat.succ_ne_zero", Type: "(n : ℕ) : n.succ ≠ 0"}}
	in.Sources.Exclude = []string{"drafts/**"}
	in.UI.GlamourTheme = "dracula"

	dir := t.TempDir()
	writeConfig(t, dir, ConfigFileName, GenerateCUE(in))
	out, _, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out.Checker.Command != in.Checker.Command || !slices.Equal(out.Checker.Prelude, in.Checker.Prelude) {
		t.Errorf("Checker = %+v, want %+v", out.Checker, in.Checker)
	}
	if !slices.Equal(out.Sources.Exclude, in.Sources.Exclude) || out.UI.GlamourTheme != "dracula" {
		t.Errorf("round trip lost values: %+v", out)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if ok, errs := cfg.IsValid(); !ok {
		t.Fatalf("defaults invalid: %v", errs)
	}

	cfg.Checker.Timeout = 0
	cfg.UI.GlamourTheme = "neon"
	ok, errs := cfg.IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", ok, errs)
	}
	var cerr *InvalidConfigError
	if !errors.As(errs[0], &cerr) || len(cerr.FieldErrors) != 2 {
		t.Errorf("errs[0] = %v", errs[0])
	}
	if !strings.Contains(errs[0].Error(), "neon") {
		t.Errorf("message should name the bad theme: %v", errs[0])
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/tmp/questc-test")
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil || dir != "/tmp/questc-test" {
		t.Errorf("ConfigDir() = %q, %v", dir, err)
	}
}
