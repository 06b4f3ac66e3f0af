// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/questkit/questc/internal/config"
	"github.com/questkit/questc/pkg/types"
)

// newConfigCommand creates the `questc config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage questc configuration",
		Long: `Manage questc configuration.

Configuration is read from the first of:
  - the --config flag
  - the user config file:
      Linux: ~/.config/questc/config.cue
      macOS: ~/Library/Application Support/questc/config.cue
      Windows: %APPDATA%\questc\config.cue
  - questc.cue in the game directory

QUESTC_* environment variables override file values
(e.g. QUESTC_CHECKER_COMMAND, QUESTC_STRICT).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show [dir]",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), gameDir(args))
			if err != nil {
				return app.fail(nil, types.ExitFatal, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path [dir]",
		Short: "Show which configuration file is used",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: app.configPath, WorkDir: gameDir(args)})
			if err != nil {
				return app.fail(nil, types.ExitFatal, err)
			}
			if path != "" {
				fmt.Fprintln(app.stdout, path)
				return nil
			}
			dir, err := config.ConfigDir()
			if err != nil {
				return app.fail(nil, types.ExitFatal, err)
			}
			fmt.Fprintln(app.stdout, filepath.Join(dir, config.ConfigFileName)+" "+SubtitleStyle.Render("(not created, defaults apply)"))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return app.fail(nil, types.ExitFatal, err)
			}
			if !created {
				fmt.Fprintln(app.stdout, WarningStyle.Render("! ")+"config already exists at "+CmdStyle.Render(path))
				return nil
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ ")+"created "+CmdStyle.Render(path))
			return nil
		},
	})

	return cfgCmd
}
