package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

func (a *app) newSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Browse saved roster snapshots",
		Long: `Every save is archived when ArchiveDir is set. Snapshots can be listed
and restored; a restored snapshot is saved to the output file.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots, err := a.session.Snapshots()
			if err != nil {
				return err
			}
			return a.outputSnapshots(cmd.OutOrStdout(), snapshots)
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the roster with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
			}
			return a.session.LoadSnapshot(id)
		},
	}

	cmd.AddCommand(listCmd, restoreCmd)
	return cmd
}
