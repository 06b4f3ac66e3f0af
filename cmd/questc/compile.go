// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/questkit/questc/internal/builder"
	"github.com/questkit/questc/internal/config"
	"github.com/questkit/questc/internal/export"
	"github.com/questkit/questc/internal/issue"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

func newCompileCommand(app *App) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "compile [dir]",
		Short: "Compile a game and write it as JSON, YAML or TOML",
		Long: `Compile the game in dir (default: the working directory) and write
the world graph, every level with its computed inventory, the
documentation registry and the diagnostics.

The output is written even when the build reports error diagnostics;
the exit status is then 1. Fatal errors exit with status 2.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), app, gameDir(args), format, output)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml or toml (default from output.format)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default from output.path, stdout when empty)")
	return cmd
}

func runCompile(ctx context.Context, app *App, dir, format, output string) error {
	run, err := app.build(ctx, dir)
	if err != nil {
		return app.fail(configOf(run), types.ExitFatal, err)
	}

	if format == "" {
		format = string(run.Config.Output.Format)
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return app.fail(run.Config, types.ExitFatal, err)
	}
	if output == "" {
		output = run.Config.Output.Path
	}

	if err := writeDocument(app.stdout, output, export.New(run.Result), f); err != nil {
		return app.fail(run.Config, types.ExitFatal, issue.WrapWithContext(err, "write compiled game", output))
	}
	if output != "" {
		fmt.Fprintln(app.stderr, SuccessStyle.Render("✓ ")+"wrote "+CmdStyle.Render(output))
	}
	return app.finish(run)
}

// writeDocument encodes doc to path, or to stdout when path is empty.
func writeDocument(stdout io.Writer, path string, doc *export.Document, f export.Format) (err error) {
	if path == "" {
		return export.Encode(stdout, doc, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return export.Encode(file, doc, f)
}

// finish turns the diagnostics of a completed build into the command's
// result. Under strict mode warnings fail the build too.
func (a *App) finish(run *buildRun) error {
	code := outcome(run.Result, run.Config.Strict)
	if code.IsSuccess() {
		return nil
	}
	return a.fail(run.Config, code, diagnosticsError(run.Result, run.Dir))
}

func diagnosticsError(res *builder.Result, dir string) error {
	var l diag.List
	l.Add(res.Diagnostics...)
	return issue.NewErrorContext().
		WithOperation("compile game").
		WithResource(dir).
		WithSuggestion("Run 'questc check' to list the diagnostics").
		WithIssue(issue.DiagnosticsFailedID).
		Wrap(fmt.Errorf("%d error(s), %d warning(s)", l.Count(diag.SeverityError), l.Count(diag.SeverityWarning))).
		BuildError()
}

// configOf returns the configuration of a possibly failed run.
func configOf(run *buildRun) *config.Config {
	if run == nil {
		return nil
	}
	return run.Config
}
