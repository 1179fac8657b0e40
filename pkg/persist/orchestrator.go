// Package persist decides which codec reads or writes a roster file.
//
// Loading dispatches on the file extension and falls back to the sibling
// files of the other formats, then to a built-in sample. Saving writes the
// requested format and then both siblings so that all three stay in sync.
package persist

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ssargent/roster/pkg/codec"
	"github.com/ssargent/roster/pkg/student"
)

// ErrNoPath is returned when saving without an output path.
var ErrNoPath = errors.New("no output path")

// LoadResult describes where a roster came from
type LoadResult struct {
	Records  []student.Record
	Path     string       // file the records were read from, empty for the sample
	Format   codec.Format // format of Path
	Sample   bool         // true when nothing could be loaded
	Failures []error      // every attempt that failed, in order
}

// Orchestrator loads and saves record lists across the three formats
type Orchestrator struct {
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{logger: logger}
}

// Load reads the roster at path. When path is missing or cannot be
// decoded, the sibling .dat, .txt and .bin files are tried in that order.
// When everything fails the built-in sample is returned. Load never fails;
// failed attempts are listed in the result.
func (o *Orchestrator) Load(path string) LoadResult {
	var res LoadResult
	if path == "" {
		return o.sample(res)
	}

	tried := map[string]bool{}
	if f, ok := codec.FormatFromPath(path); ok {
		tried[path] = true
		records, err := o.loadFile(path, f)
		if err == nil {
			return o.loaded(res, path, f, records)
		}
		res.Failures = append(res.Failures, err)
	}

	base := basePath(path)
	for _, f := range codec.Formats {
		sibling := base + f.Extension()
		if tried[sibling] || !fileExists(sibling) {
			continue
		}
		tried[sibling] = true

		records, err := o.loadFile(sibling, f)
		if err == nil {
			return o.loaded(res, sibling, f, records)
		}
		res.Failures = append(res.Failures, err)
	}

	return o.sample(res)
}

// Save writes records to path in the format its extension names, then to
// the sibling files of the other two formats. An unknown extension writes
// nothing. The first failure stops the remaining writes; files already
// written are kept. It returns the paths written.
func (o *Orchestrator) Save(path string, records []student.Record) ([]string, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	primary, ok := codec.FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", codec.ErrUnknownFormat, path)
	}

	base := basePath(path)
	order := []codec.Format{primary}
	for _, f := range codec.Formats {
		if f != primary {
			order = append(order, f)
		}
	}

	written := make([]string, 0, len(order))
	for _, f := range order {
		target := base + f.Extension()
		if f == primary {
			target = path
		}
		if err := o.saveFile(target, f, records); err != nil {
			o.logger.Error("save failed", "path", target, "format", f, "error", err)
			return written, fmt.Errorf("failed to write %s: %w", target, err)
		}
		written = append(written, target)
	}

	o.logger.Info("roster saved", "paths", written, "records", len(records))
	return written, nil
}

// SavePaths returns the three files Save would write for path
func SavePaths(path string) []string {
	base := basePath(path)
	out := make([]string, 0, len(codec.Formats))
	for _, f := range codec.Formats {
		out = append(out, base+f.Extension())
	}
	return out
}

func (o *Orchestrator) loadFile(path string, f codec.Format) ([]student.Record, error) {
	var records []student.Record
	err := readFile(path, func(r io.Reader) error {
		var err error
		records, err = codec.ForFormat(f).Decode(r)
		return err
	})
	if err != nil {
		o.logger.Warn("load failed", "path", path, "format", f, "error", err)
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return records, nil
}

func (o *Orchestrator) saveFile(path string, f codec.Format, records []student.Record) error {
	return writeFile(path, func(w io.Writer) error {
		return codec.ForFormat(f).Encode(w, records)
	})
}

func (o *Orchestrator) loaded(res LoadResult, path string, f codec.Format, records []student.Record) LoadResult {
	res.Records = records
	res.Path = path
	res.Format = f
	o.logger.Info("roster loaded", "path", path, "format", f, "records", len(records))
	return res
}

func (o *Orchestrator) sample(res LoadResult) LoadResult {
	res.Records = student.Sample()
	res.Sample = true
	o.logger.Info("using sample roster", "failures", len(res.Failures))
	return res
}

func basePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
