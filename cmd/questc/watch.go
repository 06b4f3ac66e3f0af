// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/questkit/questc/internal/watch"
	"github.com/questkit/questc/pkg/types"
)

func newWatchCommand(app *App) *cobra.Command {
	var (
		clearScreen bool
		debounce    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rebuild a game whenever its sources change",
		Long: `Build the game in dir, print its diagnostics and rebuild after every
change to a source file until interrupted. Fatal errors are reported
and the watch continues. The configuration is read once at start.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), app, gameDir(args), clearScreen, debounce)
		},
	}
	cmd.Flags().BoolVar(&clearScreen, "clear", false, "clear the screen before each rebuild")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild")
	return cmd
}

func runWatch(ctx context.Context, app *App, dir string, clearScreen bool, debounce time.Duration) error {
	run, err := app.build(ctx, dir)
	if run == nil {
		return app.fail(nil, types.ExitFatal, err)
	}
	report := func(err error) {
		if err != nil {
			fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.isVerbose(run.Config)))
			return
		}
		renderDiagnostics(app.stdout, run.Result.Diagnostics, app.isVerbose(run.Config))
		fmt.Fprintln(app.stdout, summaryLine(run))
	}
	report(err)

	w, err := watch.New(watch.Config{
		Root:        dir,
		Include:     run.Config.Sources.Include,
		Exclude:     run.Config.Sources.Exclude,
		Debounce:    debounce,
		ClearScreen: clearScreen,
		Out:         app.stdout,
		Logger:      run.Logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintln(app.stdout, VerboseStyle.Render("changed: "+strings.Join(changed, ", ")))
			report(app.rebuild(ctx, run))
			return nil
		},
	})
	if err != nil {
		return app.fail(run.Config, types.ExitFatal, err)
	}
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("watching "+dir+" (Ctrl-C to stop)"))
	if err := w.Run(ctx); err != nil {
		return app.fail(run.Config, types.ExitFatal, err)
	}
	return nil
}
