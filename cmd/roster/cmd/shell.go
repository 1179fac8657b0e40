package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/roster/pkg/editor"
	"github.com/ssargent/roster/pkg/session"
)

const shellHelp = `Commands:
  first | last | next | prev     move between visible records
  goto <index>                   move to a list index
  new [name;group;subject;grade] start a new record
  set <field> <value>            type into name, group, subject or grade
  clear                          blank the form
  discard                        drop uncommitted edits
  commit                         validate and store the form
  expel | delete                 act on the current record
  show | list | expelled         print the form, the roster or the expelled list
  compact                        move flagged records to the expelled list
  restore <n|all> | purge <n|all>
                                 act on expelled records
  option <cycle|duplicates|expelled> <on|off>
  save                           save now
  status                         print the last status line
  help                           print this text
  quit                           save and leave`

var errQuit = errors.New("quit")

func (a *app) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Edit the roster interactively",
		Long: `Read editing commands line by line from standard input. The form
behaves like a record card: moving away from a changed record stores it, and a
change that does not validate keeps you on the record until it is fixed or
discarded. Type "help" for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell{app: a, s: a.session, out: cmd.OutOrStdout()}
			return sh.run(cmd.InOrStdin())
		},
	}
}

// shell is a line-oriented front end over the edit controller
type shell struct {
	app *app
	s   *session.Session
	out io.Writer
}

func (sh *shell) run(in io.Reader) error {
	sh.printCurrent()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "roster> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}

		err := sh.exec(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}

// exec runs one shell command
func (sh *shell) exec(line string) error {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	ed := sh.s.Editor()

	verb = strings.ToLower(verb)

	switch verb {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return nil
	case "quit", "exit", "q":
		return errQuit

	case "first":
		return sh.navigate(ed.First)
	case "last":
		return sh.navigate(ed.Last)
	case "next", "n":
		return sh.navigate(ed.Next)
	case "prev", "p":
		return sh.navigate(ed.Prev)
	case "goto", "g":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("goto needs a list index")
		}
		return sh.navigate(func() error { return ed.Goto(n - 1) })
	case "new":
		return sh.navigate(func() error { return ed.New(parseSeed(rest)) })

	case "set":
		name, value, _ := strings.Cut(rest, " ")
		field, err := editor.ParseField(name)
		if err != nil {
			return err
		}
		ed.SetField(field, value)
		return nil
	case "clear":
		ed.Clear()
		return nil
	case "discard":
		ed.Discard()
		sh.printCurrent()
		return nil
	case "commit":
		return sh.navigate(ed.Commit)

	case "expel":
		if _, err := sh.s.Expel(); err != nil {
			return err
		}
		sh.printCurrent()
		return nil
	case "delete":
		if _, err := sh.s.Delete(); err != nil {
			return err
		}
		sh.printCurrent()
		return nil
	case "compact":
		return sh.navigate(func() error {
			_, err := sh.s.Compact()
			return err
		})
	case "restore", "purge":
		ids := sh.app.allExpelledIDs()
		if rest != "all" {
			parsed, err := sh.app.resolveExpelled(strings.Fields(rest))
			if err != nil {
				return err
			}
			ids = parsed
		}
		apply := sh.s.Restore
		if verb == "purge" {
			apply = sh.s.Purge
		}
		return sh.navigate(func() error { return apply(ids...) })

	case "show":
		sh.printCurrent()
		return nil
	case "list":
		return sh.app.outputRecords(sh.out, sh.app.rows(false))
	case "expelled":
		return sh.app.outputExpelled(sh.out, sh.s.Store().Expelled())

	case "option":
		return sh.setOption(rest)
	case "save":
		_, err := sh.s.Save()
		return err
	case "status":
		fmt.Fprintln(sh.out, sh.s.Status())
		return nil
	}

	return fmt.Errorf("unknown command %q, type help", verb)
}

func (sh *shell) navigate(move func() error) error {
	if err := move(); err != nil {
		return err
	}
	sh.printCurrent()
	return nil
}

func (sh *shell) setOption(arg string) error {
	name, value, _ := strings.Cut(arg, " ")
	var on bool
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "yes":
		on = true
	case "off", "false", "no":
	default:
		return fmt.Errorf("option value must be on or off")
	}

	opts := sh.s.Editor().Options()
	switch strings.ToLower(name) {
	case "cycle":
		opts.CycleNavigation = on
	case "duplicates":
		opts.AllowDuplicateNames = on
	case "expelled":
		opts.ShowExpelled = on
	default:
		return fmt.Errorf("unknown option %q", name)
	}

	if err := sh.s.SetOptions(opts); err != nil {
		return err
	}
	sh.printCurrent()
	return nil
}

// printCurrent prints the form as "[pos/total] name | group | subject | grade"
func (sh *shell) printCurrent() {
	ed := sh.s.Editor()
	if ed.Cursor() == editor.NoSelection {
		fmt.Fprintln(sh.out, "[0/0] no record")
		return
	}

	pos, total := ed.Position()
	b := ed.Buffer()
	line := fmt.Sprintf("[%d/%d] %s | %s | %s | %s", pos, total, b.FullName, b.Group, b.Subject, b.Grade)
	if ed.Dirty() {
		line += " *"
	}
	fmt.Fprintln(sh.out, line)
}

// parseSeed reads "name;group;subject;grade" into a buffer, all parts optional
func parseSeed(s string) editor.Buffer {
	if s == "" {
		return editor.Buffer{}
	}
	parts := strings.SplitN(s, ";", 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	return editor.Buffer{FullName: parts[0], Group: parts[1], Subject: parts[2], Grade: parts[3]}
}
