package cmd

import (
	"fmt"
	"strconv"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/roster/pkg/codec"
	"github.com/ssargent/roster/pkg/persist"
)

func (a *app) newExpelledCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expelled",
		Short: "Manage the expelled list",
		Long: `List, restore and purge expelled students. Flagged records loaded from
the roster file are moved to the expelled list first.

Students are addressed by the # column of "expelled list". Positions are
stable between runs as long as the roster file is not changed in between.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List expelled students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session.Compact(); err != nil {
				return err
			}
			return a.outputExpelled(cmd.OutOrStdout(), a.session.Store().Expelled())
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <position>... | --all",
		Short: "Move expelled students back to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.expelledIDs(cmd, args)
			if err != nil {
				return err
			}
			return a.session.Restore(ids...)
		},
	}
	restoreCmd.Flags().Bool("all", false, "restore every expelled student")

	purgeCmd := &cobra.Command{
		Use:   "purge <position>... | --all",
		Short: "Remove expelled students permanently",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.expelledIDs(cmd, args)
			if err != nil {
				return err
			}
			return a.session.Purge(ids...)
		},
	}
	purgeCmd.Flags().Bool("all", false, "purge every expelled student")

	cmd.AddCommand(listCmd, restoreCmd, purgeCmd)
	return cmd
}

func (a *app) newCompactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Move flagged students to the expelled list",
		Long: `Records loaded from a file keep their expelled flag but stay in the
roster. Compact moves them to the expelled list so they can be restored or
purged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			moved, err := a.session.Compact()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %d students to the expelled list\n", moved)
			return nil
		},
	}
}

func (a *app) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <source> <target>",
		Short: "Convert a roster file",
		Long: `Read a roster from source and save it to target. Like every save, the
target is written in all three formats.

Example:
  roster convert old/students.txt students.dat`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := codec.FormatFromPath(args[1]); !ok {
				return fmt.Errorf("%w: %q", codec.ErrUnknownFormat, args[1])
			}
			// check the source first so a failed conversion leaves the
			// session roster alone
			if src := persist.NewOrchestrator(a.container.GetLogger()).Load(args[0]); src.Sample {
				return fmt.Errorf("cannot read roster from %s", args[0])
			}

			res := a.session.SetInputPath(args[0])
			a.session.SetOutputPath(args[1])

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d students from %s\n", len(res.Records), res.Path)
			return nil
		},
	}
}

// expelledIDs compacts the roster and resolves the positions named by args
// or --all
func (a *app) expelledIDs(cmd *cobra.Command, args []string) ([]ksuid.KSUID, error) {
	if _, err := a.session.Compact(); err != nil {
		return nil, err
	}
	if all, _ := cmd.Flags().GetBool("all"); all {
		return a.allExpelledIDs(), nil
	}
	return a.resolveExpelled(args)
}

func (a *app) allExpelledIDs() []ksuid.KSUID {
	var ids []ksuid.KSUID
	for _, r := range a.session.Store().Expelled() {
		ids = append(ids, r.ID)
	}
	return ids
}

// resolveExpelled maps 1-based positions in the expelled list to record
// ids. Record ids are assigned on load, so a raw id is only accepted when it
// belongs to the current expelled list.
func (a *app) resolveExpelled(args []string) ([]ksuid.KSUID, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("give at least one position or --all")
	}

	expelled := a.session.Store().Expelled()
	ids := make([]ksuid.KSUID, 0, len(args))
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 || n > len(expelled) {
				return nil, fmt.Errorf("invalid position %d: the expelled list has %d students", n, len(expelled))
			}
			ids = append(ids, expelled[n-1].ID)
			continue
		}

		id, err := ksuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
