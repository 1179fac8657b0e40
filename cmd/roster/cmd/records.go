package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/roster/pkg/editor"
)

func (a *app) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Long: `List the active roster. Records flagged as expelled are hidden unless
ShowExpelled is set or --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return a.outputRecords(cmd.OutOrStdout(), a.rows(all))
		},
	}
	cmd.Flags().Bool("all", false, "include records hidden by the display filter")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [index]",
		Short: "Show one student",
		Long:  `Show the student at the given list index, or the first visible student.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := a.selectIndex(args[0]); err != nil {
					return err
				}
			}
			return a.outputCurrent(cmd)
		},
	}
}

func (a *app) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [flags]",
		Short: "Add a student",
		Long: `Add a student to the end of the roster.

Examples:
  roster add --name "Ann Lee" --group G1 --subject Math --grade 5
  roster add --name "Bob Ray" --group G1 --subject Art`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := bufferFromFlags(cmd, editor.Buffer{})
			if _, err := a.session.Add(b); err != nil {
				return fmt.Errorf("failed to add student: %w", err)
			}
			return a.outputCurrent(cmd)
		},
	}
	addRecordFlags(cmd)
	return cmd
}

func (a *app) newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <index> [flags]",
		Short: "Edit a student",
		Long: `Change fields of the student at the given list index. Only the flags
that are given change.

Example:
  roster edit 2 --grade 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.selectIndex(args[0]); err != nil {
				return err
			}

			ed := a.session.Editor()
			ed.SetBuffer(bufferFromFlags(cmd, ed.Buffer()))
			if err := ed.Commit(); err != nil {
				return fmt.Errorf("failed to edit student: %w", err)
			}

			r, _ := ed.Current()
			a.session.Report("Updated %s", r.FullName)
			return a.outputCurrent(cmd)
		},
	}
	addRecordFlags(cmd)
	return cmd
}

func (a *app) newExpelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expel <index>",
		Short: "Move a student to the expelled list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.selectIndex(args[0]); err != nil {
				return err
			}
			r, err := a.session.Expel()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expelled %s\n", r.FullName)
			return nil
		},
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a student permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.selectIndex(args[0]); err != nil {
				return err
			}
			r, err := a.session.Delete()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", r.FullName)
			return nil
		},
	}
}

// rows lists the active roster with 1-based indexes, skipping hidden
// records unless all is set
func (a *app) rows(all bool) []recordRow {
	ed := a.session.Editor()
	rows := []recordRow{}
	for i, r := range a.session.Store().Active() {
		if !all && !ed.Visible(i) {
			continue
		}
		rows = append(rows, recordRow{Index: i + 1, Record: r, Current: i == ed.Cursor()})
	}
	return rows
}

// selectIndex moves the cursor to a 1-based list index
func (a *app) selectIndex(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > a.session.Store().Len() {
		return fmt.Errorf("invalid index %q: expected 1 to %d", arg, a.session.Store().Len())
	}
	if err := a.session.Editor().Goto(n - 1); err != nil {
		return fmt.Errorf("cannot select %d: %w", n, err)
	}
	return nil
}

func (a *app) outputCurrent(cmd *cobra.Command) error {
	ed := a.session.Editor()
	r, ok := ed.Current()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No record selected")
		return nil
	}
	pos, total := ed.Position()
	return a.outputRecord(cmd.OutOrStdout(), recordRow{Index: ed.Cursor() + 1, Record: r, Current: true}, pos, total)
}

func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("group", "", "group")
	cmd.Flags().String("subject", "", "subject")
	cmd.Flags().String("grade", "", "grade from 1 to 5, empty for ungraded")
}

// bufferFromFlags overlays the record flags that were set onto b
func bufferFromFlags(cmd *cobra.Command, b editor.Buffer) editor.Buffer {
	for flag, field := range map[string]editor.Field{
		"name":    editor.FieldFullName,
		"group":   editor.FieldGroup,
		"subject": editor.FieldSubject,
		"grade":   editor.FieldGrade,
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			b = b.With(field, v)
		}
	}
	return b
}
