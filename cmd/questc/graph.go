// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questkit/questc/internal/dag"
	"github.com/questkit/questc/internal/export"
	"github.com/questkit/questc/pkg/types"
)

func newGraphCommand(app *App) *cobra.Command {
	var dot bool
	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Show the world graph in play order",
		Long: `Print the worlds of a game in topological order with their direct
prerequisites, or the whole graph in Graphviz syntax with --dot.

A cyclic graph is still printed with --dot (in declaration order) so
the cycle can be inspected; the command then exits with status 2.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := app.build(cmd.Context(), gameDir(args))
			var cycle *dag.CycleError
			if err != nil && (!dot || run == nil || run.Result == nil || !errors.As(err, &cycle)) {
				return app.fail(configOf(run), types.ExitFatal, err)
			}

			doc := export.New(run.Result)
			if dot {
				if werr := export.WriteDOT(app.stdout, doc); werr != nil {
					return werr
				}
				if err != nil {
					return app.fail(run.Config, types.ExitFatal, err)
				}
				return nil
			}

			for i, w := range doc.Worlds {
				title := ""
				if w.Title != "" {
					title = " " + SubtitleStyle.Render(w.Title)
				}
				fmt.Fprintf(app.stdout, "%2d. %s%s %s\n", i+1, CmdStyle.Render(string(w.ID)), title,
					VerboseStyle.Render(fmt.Sprintf("(%d level(s))", len(w.Levels))))
				if len(w.Requires) > 0 {
					reqs := make([]string, len(w.Requires))
					for j, r := range w.Requires {
						reqs[j] = string(r)
					}
					fmt.Fprintf(app.stdout, "    %s %s\n", VerboseStyle.Render("requires"), strings.Join(reqs, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dot, "dot", false, "print the graph in Graphviz DOT syntax")
	return cmd
}
