package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.False(t, settings.SaveState)
	assert.False(t, settings.CycleNavigation)
	assert.False(t, settings.AllowDuplicateNames)
	assert.False(t, settings.ShowExpelled)
	assert.Equal(t, "students.dat", settings.InputPath)
	assert.Equal(t, "students.dat", settings.OutputPath)
	assert.Empty(t, settings.ArchiveDir)
	assert.Empty(t, settings.LogLevel)
}

func TestSettings_FromMap(t *testing.T) {
	t.Run("known keys", func(t *testing.T) {
		s := DefaultSettings()
		s.FromMap(map[string]string{
			"SaveState":           "True",
			"CycleNavigation":     "true",
			"AllowDuplicateNames": " TRUE ",
			"ShowExpelled":        "False",
			"InputPath":           "in.txt",
			"OutputPath":          "out.bin",
		})

		assert.True(t, s.SaveState)
		assert.True(t, s.CycleNavigation)
		assert.True(t, s.AllowDuplicateNames)
		assert.False(t, s.ShowExpelled)
		assert.Equal(t, "in.txt", s.InputPath)
		assert.Equal(t, "out.bin", s.OutputPath)
	})

	t.Run("unparsable bool keeps value", func(t *testing.T) {
		s := DefaultSettings()
		s.CycleNavigation = true
		s.FromMap(map[string]string{"CycleNavigation": "maybe"})
		assert.True(t, s.CycleNavigation)
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		s := DefaultSettings()
		s.FromMap(map[string]string{"Theme": "dark"})
		assert.Equal(t, DefaultSettings(), s)
	})
}

func TestSettings_Set(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.Set("cyclenavigation", "true"))
	assert.True(t, s.CycleNavigation)

	require.NoError(t, s.Set("OutputPath", "out.txt"))
	assert.Equal(t, "out.txt", s.OutputPath)

	assert.Error(t, s.Set("ShowExpelled", "sometimes"))
	assert.Error(t, s.Set("Colour", "red"))
}

func TestLoadSettings(t *testing.T) {
	t.Run("key value file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.cfg")
		content := "SaveState=True\n" +
			"CycleNavigation=False\n" +
			"ShowExpelled=True\n" +
			"InputPath=C:\\data\\a=b.dat\n" +
			"garbage line\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		s := LoadSettings(path)
		assert.True(t, s.SaveState)
		assert.False(t, s.CycleNavigation)
		assert.True(t, s.ShowExpelled)
		assert.Equal(t, "C:\\data\\a=b.dat", s.InputPath, "split at the first '='")
		assert.Equal(t, "students.dat", s.OutputPath)
	})

	t.Run("missing file gives defaults", func(t *testing.T) {
		s := LoadSettings(filepath.Join(t.TempDir(), "nope.cfg"))
		assert.Equal(t, DefaultSettings(), s)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		data, err := yaml.Marshal(map[string]any{
			"cycle_navigation": true,
			"output_path":      "out.txt",
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0600))

		s := LoadSettings(path)
		assert.True(t, s.CycleNavigation)
		assert.Equal(t, "out.txt", s.OutputPath)
		assert.Equal(t, "students.dat", s.InputPath, "unset keys keep defaults")
	})

	t.Run("broken yaml gives defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yml")
		require.NoError(t, os.WriteFile(path, []byte("save_state: [unterminated"), 0600))

		assert.Equal(t, DefaultSettings(), LoadSettings(path))
	})
}

func TestSaveSettings(t *testing.T) {
	for _, name := range []string{"settings.cfg", "settings.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			expected := &Settings{
				SaveState:       true,
				CycleNavigation: true,
				ShowExpelled:    true,
				InputPath:       "in.dat",
				OutputPath:      "out.txt",
				ArchiveDir:      "snapshots",
				LogLevel:        "debug",
			}

			require.NoError(t, SaveSettings(expected, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			assert.Equal(t, expected, LoadSettings(path))
		})
	}
}

func TestSaveSettings_KeyValueLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.cfg")
	s := DefaultSettings()
	s.SaveState = true

	require.NoError(t, SaveSettings(s, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SaveState=True\n"+
		"CycleNavigation=False\n"+
		"AllowDuplicateNames=False\n"+
		"ShowExpelled=False\n"+
		"InputPath=students.dat\n"+
		"OutputPath=students.dat\n", string(data))
}
