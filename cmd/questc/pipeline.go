// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/questkit/questc/internal/availability"
	"github.com/questkit/questc/internal/builder"
	"github.com/questkit/questc/internal/checkerproc"
	"github.com/questkit/questc/internal/config"
	"github.com/questkit/questc/internal/dag"
	"github.com/questkit/questc/internal/issue"
	"github.com/questkit/questc/pkg/cueutil"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
	"github.com/questkit/questc/pkg/unit"
)

// buildRun is one pass of the pipeline over a game directory.
type buildRun struct {
	Dir    string
	Config *config.Config
	Logger *log.Logger
	Bundle *unit.Bundle
	Result *builder.Result
}

// gameDir returns the directory argument, defaulting to ".".
func gameDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

// build loads configuration and sources from dir, applies every unit and
// runs the availability compiler when no compile unit did. Fatal errors
// come back as ActionableErrors; run is non-nil whenever the configuration
// loaded, so callers can still format the failure with it.
func (a *App) build(ctx context.Context, dir string) (*buildRun, error) {
	cfg, err := a.loadConfig(ctx, dir)
	if err != nil {
		return nil, err
	}
	run := &buildRun{Dir: dir, Config: cfg, Logger: a.newLogger(cfg)}
	if err := a.rebuild(ctx, run); err != nil {
		return run, err
	}
	return run, nil
}

// rebuild reruns the source half of the pipeline with the configuration
// already in run.
func (a *App) rebuild(ctx context.Context, run *buildRun) error {
	run.Bundle, run.Result = nil, nil

	bundle, err := unit.Load(run.Dir, run.Config.Sources.Include, run.Config.Sources.Exclude)
	if err != nil {
		return classifyBuildError(err, run.Dir)
	}
	run.Bundle = bundle
	run.Logger.Debug("loaded sources", "game", bundle.Game, "files", len(bundle.Files), "units", len(bundle.Units))

	c, err := a.NewChecker(run.Config, run.Dir, run.Logger)
	if err != nil {
		return classifyBuildError(err, run.Config.Checker.Command)
	}
	b, err := builder.New(bundle.Game, c, builder.WithLogger(run.Logger))
	if err != nil {
		return classifyBuildError(err, run.Dir)
	}

	err = b.ApplyAll(ctx, bundle.Units)
	if err == nil && !b.Result().Compiled {
		err = b.Compile(ctx)
	}
	run.Result = b.Result()
	if err != nil {
		return classifyBuildError(err, run.Dir)
	}
	return nil
}

// outcome maps a finished build to its exit code. Strict mode fails on
// warnings as well as errors.
func outcome(res *builder.Result, strict bool) types.ExitCode {
	threshold := diag.SeverityError
	if strict {
		threshold = diag.SeverityWarning
	}
	for _, d := range res.Diagnostics {
		if d.Severity >= threshold {
			return types.ExitDiagnostics
		}
	}
	return types.ExitOK
}

// classifyBuildError attaches the matching issue guide and suggestions to a
// fatal pipeline error.
func classifyBuildError(err error, resource string) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().WithResource(resource).Wrap(err)
	var cycle *dag.CycleError
	switch {
	case errors.Is(err, unit.ErrNoSources), errors.Is(err, fs.ErrNotExist):
		ctx.WithOperation("discover sources").
			WithIssue(issue.SourcesNotFoundID).
			WithSuggestion("Pass the game directory as the first argument").
			WithSuggestion("Check sources.include and sources.exclude in your config")
	case errors.Is(err, cueutil.ErrInvalidDocument),
		errors.Is(err, unit.ErrUnknownUnit),
		errors.Is(err, unit.ErrGameMismatch),
		errors.Is(err, doublestar.ErrBadPattern):
		ctx.WithOperation("parse sources").
			WithIssue(issue.SourceParseErrorID).
			WithSuggestion("Fix the reported field; every unit needs a known kind").
			WithSuggestion("All files of one directory must use the same game name")
	case errors.As(err, &cycle):
		ctx.WithOperation("order worlds").
			WithIssue(issue.WorldCycleID).
			WithSuggestion("Remove one of the path units that close the cycle").
			WithSuggestion("Run 'questc graph --dot' to see the edges")
	case errors.Is(err, availability.ErrMalformedLevels), errors.Is(err, types.ErrInvalidLevelIndex):
		ctx.WithOperation("number levels").
			WithIssue(issue.MalformedLevelsID).
			WithSuggestion("Number the levels of every world 1, 2, 3 and so on without gaps")
	case errors.Is(err, checkerproc.ErrExit),
		errors.Is(err, checkerproc.ErrProtocol),
		errors.Is(err, checkerproc.ErrEmptyCommand),
		errors.Is(err, context.DeadlineExceeded):
		ctx.WithOperation("run the proof checker").
			WithIssue(issue.CheckerFailedID).
			WithSuggestion("Run checker.command by hand and send it one request line").
			WithSuggestion("Raise checker.timeout for slow checkers")
	case errors.Is(err, os.ErrPermission):
		ctx.WithOperation("read sources").
			WithSuggestion("Check the permissions of the game directory")
	default:
		ctx.WithOperation("build game")
	}
	return ctx.BuildError()
}
