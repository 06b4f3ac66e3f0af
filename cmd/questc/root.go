// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/questkit/questc/internal/checkerproc"
	"github.com/questkit/questc/internal/config"
	"github.com/questkit/questc/internal/issue"
	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// CheckerFactory creates the checker a build elaborates statements
	// with. dir is the game directory.
	CheckerFactory func(cfg *config.Config, dir string, logger *log.Logger) (checker.Checker, error)

	// App wires CLI services and shared dependencies. Every command
	// handler receives an App reference.
	App struct {
		Config     config.Provider
		NewChecker CheckerFactory
		stdout     io.Writer
		stderr     io.Writer

		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     config.Provider
		NewChecker CheckerFactory
		Stdout     io.Writer
		Stderr     io.Writer
	}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		NewChecker: deps.NewChecker,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.NewChecker == nil {
		app.NewChecker = defaultChecker
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// defaultChecker runs checker.command when one is configured and falls back
// to the offline checker seeded with checker.prelude.
func defaultChecker(cfg *config.Config, dir string, logger *log.Logger) (checker.Checker, error) {
	if cfg.Checker.Command == "" {
		logger.Debug("using offline checker", "prelude", len(cfg.Checker.Prelude))
		return checker.NewMemory(cfg.Checker.PreludeMap()), nil
	}
	logger.Debug("using process checker", "command", cfg.Checker.Command)
	return checkerproc.New(cfg.Checker.Command,
		checkerproc.WithDir(dir),
		checkerproc.WithTimeout(cfg.Checker.Timeout),
		checkerproc.WithLogger(logger),
	)
}

// NewRootCommand builds the questc command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "questc",
		Short: "A curriculum compiler for proof-assistant teaching games",
		Long: TitleStyle.Render("questc") + SubtitleStyle.Render(" - A curriculum compiler for proof-assistant teaching games") + `

questc reads a game written as CUE source units (worlds, levels,
documentation, tactic/lemma/definition declarations and exercise
statements), elaborates every statement against a proof checker and
computes which vocabulary each level unlocks.

` + SubtitleStyle.Render("Examples:") + `
  questc check ./my-game          List diagnostics
  questc compile ./my-game        Write the compiled game as JSON
  questc graph --dot ./my-game    Render the world graph for Graphviz
  questc inventory ./my-game      Show what every level unlocks
  questc watch ./my-game          Rebuild on every change`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/questc/config.cue)")

	rootCmd.AddCommand(
		newCompileCommand(app),
		newCheckCommand(app),
		newGraphCommand(app),
		newInventoryCommand(app),
		newDocCommand(app),
		newWatchCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(reportError),
	); err != nil {
		os.Exit(int(exitCodeOf(err)))
	}
}

// reportError prints errors cobra or fang produced. ExitErrors were
// already reported by the command that returned them.
func reportError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// newLogger returns the CLI logger. It only prints warnings unless
// --verbose or ui.verbose enables debug output.
func (a *App) newLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: "questc", Level: log.WarnLevel})
	if a.isVerbose(cfg) {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// isVerbose reports whether the flag or the config asks for verbose output.
func (a *App) isVerbose(cfg *config.Config) bool {
	return a.verbose || (cfg != nil && cfg.UI.Verbose)
}

// loadConfig loads configuration for the game directory dir.
func (a *App) loadConfig(ctx context.Context, dir string) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath, WorkDir: dir})
}

// fail prints err the way the user should see it and returns the ExitError
// carrying code. Verbose mode appends the error chain and the issue guide.
func (a *App) fail(cfg *config.Config, code types.ExitCode, err error) error {
	verbose := a.isVerbose(cfg)
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	if verbose {
		if iss, ok := issue.IssueOf(err); ok {
			theme := string(config.ThemeAuto)
			if cfg != nil {
				theme = string(cfg.UI.GlamourTheme)
			}
			if guide, rerr := iss.Render(theme, 80); rerr == nil {
				fmt.Fprint(a.stderr, guide)
			}
		}
	}
	return &ExitError{Code: code, Err: err}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
