// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

func newCheckCommand(app *App) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Build a game and list its diagnostics",
		Long: `Build the game in dir and print every diagnostic with its world and
level. The exit status is 1 when there are errors, or warnings with
--strict (or strict: true in the config).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := app.build(cmd.Context(), gameDir(args))
			if err != nil {
				return app.fail(configOf(run), types.ExitFatal, err)
			}
			if cmd.Flags().Changed("strict") {
				run.Config.Strict = strict
			}
			return runCheck(app, run)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings as well as errors")
	return cmd
}

func runCheck(app *App, run *buildRun) error {
	renderDiagnostics(app.stdout, run.Result.Diagnostics, app.isVerbose(run.Config))
	fmt.Fprintln(app.stdout, summaryLine(run))
	return app.finish(run)
}

// renderDiagnostics prints one line per diagnostic. Informational entries
// are only shown in verbose mode.
func renderDiagnostics(w io.Writer, diags []diag.Diagnostic, verbose bool) {
	for _, d := range diags {
		if d.Severity == diag.SeverityInfo && !verbose {
			continue
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			severityLabel(d.Severity),
			VerboseStyle.Render(fmt.Sprintf("%-12s", locationLabel(d.Location))),
			CmdStyle.Render(fmt.Sprintf("%-19s", d.Code)),
			d.Message)
	}
}

func severityLabel(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return ErrorStyle.Render("✗ error  ")
	case diag.SeverityWarning:
		return WarningStyle.Render("! warning")
	default:
		return VerboseStyle.Render("· info   ")
	}
}

func locationLabel(l diag.Location) string {
	if l.World == "" {
		return "game"
	}
	if l.Level == 0 {
		return string(l.World)
	}
	return fmt.Sprintf("%s/%d", l.World, l.Level)
}

// summaryLine reports the counts of a finished build.
func summaryLine(run *buildRun) string {
	var l diag.List
	l.Add(run.Result.Diagnostics...)
	errs, warns := l.Count(diag.SeverityError), l.Count(diag.SeverityWarning)

	levels := 0
	for _, w := range run.Result.Game.OrderedWorlds() {
		levels += w.LevelCount()
	}
	counts := fmt.Sprintf("%d world(s), %d level(s), %d item(s)", len(run.Result.Game.Worlds), levels, run.Result.Registry.Len())

	if errs == 0 && warns == 0 {
		return SuccessStyle.Render("✓ ") + run.Bundle.Game + ": no problems " + SubtitleStyle.Render("("+counts+")")
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d error(s)", errs)))
	}
	if warns > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("%d warning(s)", warns)))
	}
	return run.Bundle.Game + ": " + strings.Join(parts, ", ") + " " + SubtitleStyle.Render("("+counts+")")
}
