// Package session ties one editing session together: settings, the roster
// store, the edit controller, the persistence orchestrator and the optional
// snapshot archive. Every outcome is reported on a status line.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/roster/pkg/archive"
	"github.com/ssargent/roster/pkg/config"
	"github.com/ssargent/roster/pkg/editor"
	"github.com/ssargent/roster/pkg/persist"
	"github.com/ssargent/roster/pkg/roster"
	"github.com/ssargent/roster/pkg/student"
)

// ErrNoArchive is returned by snapshot operations when no archive is configured.
var ErrNoArchive = errors.New("snapshot archive is not configured")

// Options configures a new session
type Options struct {
	// SettingsPath is read when Settings is nil and written on save when
	// SaveState is set. Defaults to config.DefaultSettingsPath.
	SettingsPath string
	Settings     *config.Settings
	Logger       *slog.Logger
	Status       io.Writer        // receives every status line
	Now          func() time.Time // clock for status lines
}

// Session is a single-threaded editing session
type Session struct {
	settingsPath string
	settings     *config.Settings
	logger       *slog.Logger
	status       *statusLine

	store   *roster.Store
	editor  *editor.Controller
	persist *persist.Orchestrator
	archive *archive.Archive

	source persist.LoadResult
}

// Open creates a session with an empty roster. Call Load to read the input
// file. The archive is opened when ArchiveDir is set.
func Open(opts Options) (*Session, error) {
	if opts.SettingsPath == "" {
		opts.SettingsPath = config.DefaultSettingsPath
	}
	if opts.Settings == nil {
		opts.Settings = config.LoadSettings(opts.SettingsPath)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	settings := *opts.Settings
	s := &Session{
		settingsPath: opts.SettingsPath,
		settings:     &settings,
		logger:       opts.Logger,
		status:       newStatusLine(opts.Status, opts.Now),
		store:        roster.NewStore(nil),
		persist:      persist.NewOrchestrator(opts.Logger),
	}
	s.editor = editor.NewController(s.store, s.editorOptions(), opts.Logger)

	if settings.ArchiveDir != "" {
		a, err := archive.Open(settings.ArchiveDir)
		if err != nil {
			return nil, err
		}
		s.archive = a
	}

	return s, nil
}

// Settings returns a copy of the current settings
func (s *Session) Settings() config.Settings {
	return *s.settings
}

// SettingsPath returns the settings file of this session
func (s *Session) SettingsPath() string {
	return s.settingsPath
}

// Store returns the roster store
func (s *Session) Store() *roster.Store {
	return s.store
}

// Editor returns the edit controller
func (s *Session) Editor() *editor.Controller {
	return s.editor
}

// Source describes where the current roster was loaded from
func (s *Session) Source() persist.LoadResult {
	return s.source
}

// Status returns the last status line
func (s *Session) Status() string {
	return s.status.last
}

// Report adds a message to the status line
func (s *Session) Report(format string, args ...any) string {
	return s.status.report(format, args...)
}

// Load replaces the roster with the contents of the input path. It never
// fails: missing or unreadable input yields the sample roster.
func (s *Session) Load() persist.LoadResult {
	res := s.persist.Load(s.settings.InputPath)
	s.source = res
	s.store.Reset(res.Records)
	s.editor.Reset()

	switch {
	case res.Sample:
		s.Report("No readable input at %q, loaded %d sample records", s.settings.InputPath, len(res.Records))
	case len(res.Failures) > 0:
		s.Report("Loaded %d records from %s after %d failed attempts", len(res.Records), res.Path, len(res.Failures))
	default:
		s.Report("Loaded %d records from %s", len(res.Records), res.Path)
	}
	return res
}

// SetInputPath changes the input path and reloads
func (s *Session) SetInputPath(path string) persist.LoadResult {
	s.settings.InputPath = path
	return s.Load()
}

// SetOutputPath changes where Save writes
func (s *Session) SetOutputPath(path string) {
	s.settings.OutputPath = path
	s.Report("Output path set to %s", path)
}

// SetOptions changes the navigation and validation toggles. When hiding the
// selected record fails to commit its edits nothing changes.
func (s *Session) SetOptions(opts editor.Options) error {
	if err := s.editor.SetOptions(opts); err != nil {
		s.Report("Options not changed: %v", err)
		return err
	}
	s.settings.CycleNavigation = opts.CycleNavigation
	s.settings.AllowDuplicateNames = opts.AllowDuplicateNames
	s.settings.ShowExpelled = opts.ShowExpelled
	s.Report("Options changed: cycle=%t duplicates=%t show expelled=%t",
		opts.CycleNavigation, opts.AllowDuplicateNames, opts.ShowExpelled)
	return nil
}

// SetSaveState turns persisting of settings on save on or off
func (s *Session) SetSaveState(on bool) {
	s.settings.SaveState = on
}

// Records returns what Save would write: the active roster followed by the
// expelled roster, without blank placeholder records. A blank record that is
// flagged expelled is kept.
func (s *Session) Records() []student.Record {
	all := s.store.Snapshot()
	out := make([]student.Record, 0, len(all))
	for _, r := range all {
		if r.IsBlank() && !r.Expelled {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Save commits the edit buffer and writes the roster to the output path in
// all three formats. A failed commit refuses the save. On success the roster
// is archived and, when SaveState is set, the settings are written.
func (s *Session) Save() ([]string, error) {
	if err := s.editor.Commit(); err != nil {
		s.Report("Save refused: %v", err)
		return nil, err
	}

	records := s.Records()
	written, err := s.persist.Save(s.settings.OutputPath, records)
	if err != nil {
		s.Report("Save failed: %v", err)
		return written, err
	}

	if s.archive != nil {
		if id, err := s.archive.Put(records); err != nil {
			s.logger.Warn("snapshot failed", "error", err)
			s.Report("Saved %d records but the snapshot failed: %v", len(records), err)
		} else {
			s.logger.Debug("snapshot stored", "id", id)
		}
	}

	if s.settings.SaveState {
		if err := config.SaveSettings(s.settings, s.settingsPath); err != nil {
			s.logger.Warn("settings not saved", "path", s.settingsPath, "error", err)
			s.Report("Settings not saved: %v", err)
		}
	}

	s.Report("Saved %d records to %s", len(records), s.settings.OutputPath)
	return written, nil
}

// Close saves the roster and releases the archive. The save is always
// attempted; its error is returned together with any close error.
func (s *Session) Close() error {
	_, saveErr := s.Save()

	var closeErr error
	if s.archive != nil {
		closeErr = s.archive.Close()
		s.archive = nil
	}
	return errors.Join(saveErr, closeErr)
}

// Add creates a record from b and selects it. Nothing is added when b does
// not validate.
func (s *Session) Add(b editor.Buffer) (student.Record, error) {
	if _, err := b.Record(); err != nil {
		s.Report("Cannot add record: %v", err)
		return student.Record{}, err
	}
	if err := s.editor.New(b); err != nil {
		s.Report("Cannot add record: %v", err)
		return student.Record{}, err
	}
	if err := s.editor.Commit(); err != nil {
		_, _ = s.editor.Delete()
		s.Report("Cannot add record: %v", err)
		return student.Record{}, err
	}

	r, _ := s.editor.Current()
	s.Report("Added %s", r.FullName)
	return r, nil
}

// Expel moves the selected record to the expelled roster
func (s *Session) Expel() (student.Record, error) {
	r, err := s.editor.Expel()
	if err != nil {
		s.Report("Cannot expel: %v", err)
		return r, err
	}
	s.Report("Expelled %s", r.FullName)
	return r, nil
}

// Delete permanently removes the selected record
func (s *Session) Delete() (student.Record, error) {
	r, err := s.editor.Delete()
	if err != nil {
		s.Report("Cannot delete: %v", err)
		return r, err
	}
	s.Report("Deleted %s", r.FullName)
	return r, nil
}

// Restore moves expelled records back to the active roster. Pending edits
// are committed first; every id is attempted and failures are joined.
func (s *Session) Restore(ids ...ksuid.KSUID) error {
	return s.applyExpelled("Restored", ids, s.store.Restore)
}

// Purge permanently removes expelled records
func (s *Session) Purge(ids ...ksuid.KSUID) error {
	return s.applyExpelled("Purged", ids, s.store.Purge)
}

func (s *Session) applyExpelled(verb string, ids []ksuid.KSUID, op func(ksuid.KSUID) (student.Record, error)) error {
	if err := s.editor.Commit(); err != nil {
		s.Report("%s nothing: %v", verb, err)
		return err
	}

	var errs []error
	done := 0
	for _, id := range ids {
		if _, err := op(id); err != nil {
			errs = append(errs, err)
			continue
		}
		done++
	}
	s.editor.Refresh()

	err := errors.Join(errs...)
	if err != nil {
		s.Report("%s %d of %d records: %v", verb, done, len(ids), err)
		return err
	}
	s.Report("%s %d records", verb, done)
	return nil
}

// Compact moves flagged records out of the active roster into the expelled
// roster. The cursor stays on the same record when it is still active.
func (s *Session) Compact() (int, error) {
	if err := s.editor.Commit(); err != nil {
		s.Report("Compact refused: %v", err)
		return 0, err
	}

	current, selected := s.editor.Current()
	moved := s.store.Compact()
	s.reselect(current, selected)

	s.Report("Moved %d flagged records to the expelled list", moved)
	return moved, nil
}

// Snapshots lists archived rosters, newest first
func (s *Session) Snapshots() ([]archive.Snapshot, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.List()
}

// LoadSnapshot replaces the roster with an archived one. Pending edits are
// discarded.
func (s *Session) LoadSnapshot(id ksuid.KSUID) error {
	if s.archive == nil {
		return ErrNoArchive
	}
	records, err := s.archive.Get(id)
	if err != nil {
		s.Report("Cannot load snapshot: %v", err)
		return err
	}

	s.store.Reset(records)
	s.editor.Reset()
	s.source = persist.LoadResult{Records: records}
	s.Report("Loaded %d records from snapshot %s", len(records), id)
	return nil
}

func (s *Session) reselect(r student.Record, ok bool) {
	if ok {
		for i, active := range s.store.Active() {
			if active.ID == r.ID && s.editor.Visible(i) {
				if err := s.editor.Goto(i); err == nil {
					return
				}
			}
		}
	}
	s.editor.Refresh()
}

func (s *Session) editorOptions() editor.Options {
	return editor.Options{
		CycleNavigation:     s.settings.CycleNavigation,
		AllowDuplicateNames: s.settings.AllowDuplicateNames,
		ShowExpelled:        s.settings.ShowExpelled,
	}
}

// String summarises the session for logs
func (s *Session) String() string {
	return fmt.Sprintf("session(input=%s output=%s active=%d expelled=%d)",
		s.settings.InputPath, s.settings.OutputPath, s.store.Len(), s.store.ExpelledLen())
}
