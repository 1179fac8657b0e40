/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsPath is the settings file used when none is given
const DefaultSettingsPath = "settings.cfg"

// Settings keys as they appear in key=value settings files
const (
	KeySaveState           = "SaveState"
	KeyCycleNavigation     = "CycleNavigation"
	KeyAllowDuplicateNames = "AllowDuplicateNames"
	KeyShowExpelled        = "ShowExpelled"
	KeyInputPath           = "InputPath"
	KeyOutputPath          = "OutputPath"
	KeyArchiveDir          = "ArchiveDir"
	KeyLogLevel            = "LogLevel"
)

// Keys lists every settings key in file order
var Keys = []string{
	KeySaveState,
	KeyCycleNavigation,
	KeyAllowDuplicateNames,
	KeyShowExpelled,
	KeyInputPath,
	KeyOutputPath,
	KeyArchiveDir,
	KeyLogLevel,
}

// Settings represents the roster application settings
type Settings struct {
	SaveState           bool   `yaml:"save_state" json:"saveState"`
	CycleNavigation     bool   `yaml:"cycle_navigation" json:"cycleNavigation"`
	AllowDuplicateNames bool   `yaml:"allow_duplicate_names" json:"allowDuplicateNames"`
	ShowExpelled        bool   `yaml:"show_expelled" json:"showExpelled"`
	InputPath           string `yaml:"input_path" json:"inputPath"`
	OutputPath          string `yaml:"output_path" json:"outputPath"`
	ArchiveDir          string `yaml:"archive_dir,omitempty" json:"archiveDir,omitempty"`
	LogLevel            string `yaml:"log_level,omitempty" json:"logLevel,omitempty"`
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() *Settings {
	return &Settings{
		InputPath:  "students.dat",
		OutputPath: "students.dat",
	}
}

// FromMap applies the known keys of m onto s. Unknown keys and booleans
// that do not parse are ignored.
func (s *Settings) FromMap(m map[string]string) {
	for key, value := range m {
		value = strings.TrimSpace(value)
		switch key {
		case KeySaveState:
			setBool(&s.SaveState, value)
		case KeyCycleNavigation:
			setBool(&s.CycleNavigation, value)
		case KeyAllowDuplicateNames:
			setBool(&s.AllowDuplicateNames, value)
		case KeyShowExpelled:
			setBool(&s.ShowExpelled, value)
		case KeyInputPath:
			s.InputPath = value
		case KeyOutputPath:
			s.OutputPath = value
		case KeyArchiveDir:
			s.ArchiveDir = value
		case KeyLogLevel:
			s.LogLevel = value
		}
	}
}

// ToMap returns the settings as a flat key/value map
func (s *Settings) ToMap() map[string]string {
	return map[string]string{
		KeySaveState:           formatBool(s.SaveState),
		KeyCycleNavigation:     formatBool(s.CycleNavigation),
		KeyAllowDuplicateNames: formatBool(s.AllowDuplicateNames),
		KeyShowExpelled:        formatBool(s.ShowExpelled),
		KeyInputPath:           s.InputPath,
		KeyOutputPath:          s.OutputPath,
		KeyArchiveDir:          s.ArchiveDir,
		KeyLogLevel:            s.LogLevel,
	}
}

// Set updates a single key. Unlike FromMap it reports unknown keys and bad
// booleans.
func (s *Settings) Set(key, value string) error {
	known := false
	for _, k := range Keys {
		if strings.EqualFold(k, key) {
			key, known = k, true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown setting %q", key)
	}
	if _, ok := parseBool(value); !ok && isBoolKey(key) {
		return fmt.Errorf("invalid value %q for %s", value, key)
	}

	s.FromMap(map[string]string{key: value})
	return nil
}

// LoadSettings reads settings from path. YAML is used for .yaml and .yml
// files, key=value lines for everything else. A missing or unreadable file
// yields the defaults.
func LoadSettings(path string) *Settings {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings
	}

	if isYAML(path) {
		loaded := *settings
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return settings
		}
		return &loaded
	}

	settings.FromMap(parseLines(data))
	return settings
}

// SaveSettings writes settings to path with secure permissions, in the
// format LoadSettings expects for that path.
func SaveSettings(settings *Settings, path string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if isYAML(path) {
		var err error
		data, err = yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
	} else {
		data = formatLines(settings)
	}

	// Write with secure permissions (0600)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

func parseLines(data []byte) map[string]string {
	m := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		m[strings.TrimSpace(key)] = value
	}
	return m
}

func formatLines(settings *Settings) []byte {
	m := settings.ToMap()
	var buf bytes.Buffer
	for _, key := range Keys {
		if m[key] == "" && (key == KeyArchiveDir || key == KeyLogLevel) {
			continue
		}
		fmt.Fprintf(&buf, "%s=%s\n", key, m[key])
	}
	return buf.Bytes()
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isBoolKey(key string) bool {
	switch key {
	case KeySaveState, KeyCycleNavigation, KeyAllowDuplicateNames, KeyShowExpelled:
		return true
	}
	return false
}

func setBool(dst *bool, value string) {
	if b, ok := parseBool(value); ok {
		*dst = b
	}
}

func parseBool(value string) (bool, bool) {
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(value)))
	return b, err == nil
}

// formatBool matches the True/False spelling of existing settings files.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
