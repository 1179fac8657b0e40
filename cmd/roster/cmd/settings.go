package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/roster/pkg/config"
)

func (a *app) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "settings",
		Short:       "Show or change settings",
		Annotations: map[string]string{skipSession: "true"},
	}

	showCmd := &cobra.Command{
		Use:         "show",
		Short:       "Show the current settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.outputSettings(cmd.OutOrStdout(), config.LoadSettings(a.flags.SettingsPath))
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting and write the settings file.

Keys: SaveState, CycleNavigation, AllowDuplicateNames, ShowExpelled,
InputPath, OutputPath, ArchiveDir, LogLevel.

Example:
  roster settings set CycleNavigation True`,
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.LoadSettings(a.flags.SettingsPath)
			if err := settings.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveSettings(settings, a.flags.SettingsPath); err != nil {
				return err
			}
			if !a.flags.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", a.flags.SettingsPath)
			}
			return nil
		},
	}

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}
