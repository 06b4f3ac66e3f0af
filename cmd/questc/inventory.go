// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questkit/questc/internal/export"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/types"
)

func newInventoryCommand(app *App) *cobra.Command {
	var kind, world string
	cmd := &cobra.Command{
		Use:   "inventory [dir]",
		Short: "Show the vocabulary every level unlocks",
		Long: `Print the computed inventory of every level: new items in bold,
locked items dimmed and disabled items struck through.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := types.AllItemKinds()
			if kind != "" {
				k, err := types.ParseItemKind(kind)
				if err != nil {
					return err
				}
				kinds = []types.ItemKind{k}
			}

			run, err := app.build(cmd.Context(), gameDir(args))
			if err != nil {
				return app.fail(configOf(run), types.ExitFatal, err)
			}
			found := false
			for _, w := range export.New(run.Result).Worlds {
				if world != "" && string(w.ID) != world {
					continue
				}
				found = true
				for _, l := range w.Levels {
					renderLevelInventory(app.stdout, l, kinds)
				}
			}
			if world != "" && !found {
				return app.fail(run.Config, types.ExitFatal, fmt.Errorf("world %q is not declared", world))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only show one kind: tactic, lemma or definition")
	cmd.Flags().StringVarP(&world, "world", "w", "", "only show one world")
	return cmd
}

func renderLevelInventory(w io.Writer, l *curriculum.Level, kinds []types.ItemKind) {
	header := fmt.Sprintf("%s level %d", l.World, l.Index)
	if l.Title != "" {
		header += ": " + l.Title
	}
	fmt.Fprintln(w, levelHeaderStyle.Render(header))
	for _, k := range kinds {
		inv := l.Inventory(k)
		if inv == nil || len(inv.Items) == 0 {
			continue
		}
		cells := make([]string, len(inv.Items))
		for i, it := range inv.Items {
			cells[i] = itemCell(it)
		}
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render(fmt.Sprintf("%-12s", k.String()+"s")), strings.Join(cells, "  "))
	}
}

func itemCell(it curriculum.ComputedInventoryItem) string {
	label := it.DisplayName
	if label == "" {
		label = string(it.Name)
	}
	switch {
	case it.Disabled:
		return disabledStyle.Render(label)
	case it.Locked:
		return lockedStyle.Render(label)
	case it.New:
		return newItemStyle.Render("+" + label)
	default:
		return label
	}
}
