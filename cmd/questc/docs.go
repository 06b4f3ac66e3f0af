// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/questkit/questc/internal/config"
	"github.com/questkit/questc/internal/issue"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/types"
)

func newDocCommand(app *App) *cobra.Command {
	var kind string
	var raw bool
	cmd := &cobra.Command{
		Use:   "doc <name> [dir]",
		Short: "Render the documentation of a tactic, lemma or definition",
		Long: `Render the registered documentation of an item as Markdown in the
terminal. The glamour style is taken from ui.glamour_theme.

Lemmas show the statement the checker printed for them. Items that were
used without documentation show their placeholder text.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var want types.ItemKind
			if kind != "" {
				k, err := types.ParseItemKind(kind)
				if err != nil {
					return err
				}
				want = k
			}

			run, err := app.build(cmd.Context(), gameDir(args[1:]))
			if err != nil {
				return app.fail(configOf(run), types.ExitFatal, err)
			}

			var matches []curriculum.InventoryItem
			for _, it := range run.Result.Registry.All() {
				if string(it.Name) == args[0] && (want == "" || it.Kind == want) {
					matches = append(matches, it)
				}
			}
			if len(matches) == 0 {
				return app.fail(run.Config, types.ExitFatal, issue.NewErrorContext().
					WithOperation("find documentation").
					WithResource(args[0]).
					WithSuggestion("Names are fully qualified, e.g. Nat.add_comm").
					WithSuggestion("Run 'questc compile' and look at the inventory section").
					Wrap(fmt.Errorf("no %s documented under that name", kindLabel(want))).
					BuildError())
			}

			md := itemMarkdown(matches)
			if raw {
				fmt.Fprint(app.stdout, md)
				return nil
			}
			out, err := renderMarkdown(run.Config.UI.GlamourTheme, md)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "item kind when a name is used by several: tactic, lemma or definition")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown source instead of rendering it")
	return cmd
}

func kindLabel(k types.ItemKind) string {
	if k == "" {
		return "item"
	}
	return k.String()
}

// itemMarkdown renders one section per matching item.
func itemMarkdown(items []curriculum.InventoryItem) string {
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		title := it.DisplayName
		if title == "" {
			title = string(it.Name)
		}
		fmt.Fprintf(&sb, "# %s\n\n", title)

		meta := []string{it.Kind.String(), "`" + string(it.Name) + "`"}
		if it.Category != "" {
			meta = append(meta, it.Category)
		}
		if it.Placeholder {
			meta = append(meta, "undocumented")
		}
		fmt.Fprintf(&sb, "*%s*\n\n", strings.Join(meta, " · "))

		if it.Statement != "" {
			fmt.Fprintf(&sb, "```\n%s\n```\n\n", it.Statement)
		}
		if it.Content != "" {
			sb.WriteString(strings.TrimSpace(it.Content))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderMarkdown renders md with glamour in the configured style.
func renderMarkdown(theme config.GlamourTheme, md string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	if theme == "" || theme == config.ThemeAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(string(theme)))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return r.Render(md)
}
