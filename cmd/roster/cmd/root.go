/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/roster/pkg/config"
	"github.com/ssargent/roster/pkg/di"
	"github.com/ssargent/roster/pkg/logging"
	"github.com/ssargent/roster/pkg/session"
)

// Environment variables read at startup
const (
	EnvLogLevel  = "ROSTER_LOG_LEVEL"
	EnvLogFormat = "ROSTER_LOG_FORMAT"
)

// annotation marking commands that work without a roster session
const skipSession = "roster/skip-session"

// globalFlags holds the persistent flags of the root command
type globalFlags struct {
	SettingsPath string
	Input        string
	Output       string
	Format       string
	Quiet        bool
}

// app is one CLI invocation: its flags and the session opened for it
type app struct {
	container *di.Container
	flags     globalFlags
	session   *session.Session
	root      *cobra.Command
}

// Execute runs the CLI and returns the process exit code
func Execute(container *di.Container) int {
	a := newApp(container)
	if err := a.run(os.Args[1:]); err != nil {
		return 1
	}
	return 0
}

func newApp(container *di.Container) *app {
	a := &app{container: container}

	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Roster - keep a list of students and their grades",
		Long: `Roster keeps a list of students with their group, subject and grade.

The roster is read from the input file (.dat, .txt or .bin) and written back
to the output file in all three formats when a command finishes.

Examples:
  roster list
  roster add --name "Ann Lee" --group G1 --subject Math --grade 5
  roster expel 2
  roster convert students.txt students.dat`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.openSession,
		PersistentPostRunE: a.closeSession,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.flags.SettingsPath, "settings", config.DefaultSettingsPath, "settings file (key=value lines, or YAML for .yaml/.yml)")
	rootCmd.PersistentFlags().StringVarP(&a.flags.Input, "input", "i", "", "roster file to load (overrides InputPath)")
	rootCmd.PersistentFlags().StringVarP(&a.flags.Output, "output", "o", "", "roster file to save (overrides OutputPath)")
	rootCmd.PersistentFlags().StringVar(&a.flags.Format, "format", "table", "output format (table or json)")
	rootCmd.PersistentFlags().BoolVarP(&a.flags.Quiet, "quiet", "q", false, "suppress status messages")

	// Add subcommands
	rootCmd.AddCommand(
		a.newListCmd(),
		a.newShowCmd(),
		a.newAddCmd(),
		a.newEditCmd(),
		a.newExpelCmd(),
		a.newDeleteCmd(),
		a.newExpelledCmd(),
		a.newCompactCmd(),
		a.newConvertCmd(),
		a.newShellCmd(),
		a.newSnapshotsCmd(),
		a.newSettingsCmd(),
	)

	a.root = rootCmd
	return a
}

// run executes args. When a command fails its pending edits are dropped and
// the session is still closed, so the roster is saved on every exit.
func (a *app) run(args []string) error {
	a.root.SetArgs(args)
	err := a.root.Execute()

	if a.session != nil {
		a.session.Editor().Discard()
		if closeErr := a.closeSession(a.root, nil); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		fmt.Fprintf(a.root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func (a *app) openSession(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipSession] == "true" {
		return nil
	}

	settings := config.LoadSettings(a.flags.SettingsPath)
	if a.flags.Input != "" {
		settings.InputPath = a.flags.Input
	}
	if a.flags.Output != "" {
		settings.OutputPath = a.flags.Output
	}

	// settings file level applies unless the environment names one
	if os.Getenv(EnvLogLevel) == "" && settings.LogLevel != "" {
		a.container.SetLogger(logging.Setup(settings.LogLevel, os.Getenv(EnvLogFormat)))
	}

	var status io.Writer
	if !a.flags.Quiet {
		status = cmd.ErrOrStderr()
	}

	s, err := a.container.OpenSession(session.Options{
		SettingsPath: a.flags.SettingsPath,
		Settings:     settings,
		Status:       status,
	})
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	s.Load()
	a.session = s
	return nil
}

func (a *app) closeSession(cmd *cobra.Command, args []string) error {
	if a.session == nil {
		return nil
	}
	s := a.session
	a.session = nil

	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

func (a *app) jsonOutput() bool {
	return a.flags.Format == "json"
}
