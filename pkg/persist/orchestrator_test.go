package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/roster/pkg/codec"
	"github.com/ssargent/roster/pkg/logging"
	"github.com/ssargent/roster/pkg/student"
)

func testRoster() []student.Record {
	return []student.Record{
		{FullName: "Ann Lee", Group: "G1", Subject: "Math", Grade: 5},
		{FullName: "Bob Ray", Group: "G1", Subject: "Art"},
		{FullName: "Cid Moe", Group: "G2", Subject: "Law", Grade: 2, Expelled: true},
	}
}

func writeFormat(t *testing.T, path string, f codec.Format, records []student.Record) {
	t.Helper()
	data, err := codec.Marshal(f, records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(logging.Discard())
}

func TestOrchestrator_FanOutSave(t *testing.T) {
	dir := t.TempDir()
	o := newTestOrchestrator()
	records := testRoster()

	written, err := o.Save(filepath.Join(dir, "out.txt"), records)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "out.txt"),
		filepath.Join(dir, "out.dat"),
		filepath.Join(dir, "out.bin"),
	}, written, "requested format is written first")

	for _, f := range codec.Formats {
		path := filepath.Join(dir, "out"+f.Extension())
		data, err := os.ReadFile(path)
		require.NoError(t, err, path)

		decoded, err := codec.Unmarshal(f, data)
		require.NoError(t, err, path)
		assert.Equal(t, records, decoded, path)
	}
}

func TestOrchestrator_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	o := newTestOrchestrator()
	path := filepath.Join(dir, "roster.dat")

	_, err := o.Save(path, testRoster())
	require.NoError(t, err)
	_, err = o.Save(path, testRoster()[:1])
	require.NoError(t, err)

	res := o.Load(path)
	assert.Len(t, res.Records, 1)
}

func TestOrchestrator_SaveUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	o := newTestOrchestrator()

	written, err := o.Save(filepath.Join(dir, "out.csv"), testRoster())
	assert.ErrorIs(t, err, codec.ErrUnknownFormat)
	assert.Empty(t, written)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no files touched")
}

func TestOrchestrator_SaveNoPath(t *testing.T) {
	_, err := newTestOrchestrator().Save("", testRoster())
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestOrchestrator_SaveIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	written, err := newTestOrchestrator().Save(filepath.Join(blocker, "out.dat"), testRoster())
	assert.Error(t, err)
	assert.Empty(t, written)
}

func TestOrchestrator_LoadByExtension(t *testing.T) {
	for _, f := range codec.Formats {
		t.Run(f.String(), func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "in"+f.Extension())
			writeFormat(t, path, f, testRoster())

			res := newTestOrchestrator().Load(path)
			assert.False(t, res.Sample)
			assert.Equal(t, path, res.Path)
			assert.Equal(t, f, res.Format)
			assert.Equal(t, testRoster(), res.Records)
			assert.Empty(t, res.Failures)
		})
	}
}

func TestOrchestrator_LoadFallsBackOnCorruptPrimary(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "in.dat")
	require.NoError(t, os.WriteFile(primary, []byte{0x05, 'a'}, 0600))

	text := testRoster()[:2]
	bytesRoster := testRoster()[2:]
	writeFormat(t, filepath.Join(dir, "in.txt"), codec.FormatText, text)
	writeFormat(t, filepath.Join(dir, "in.bin"), codec.FormatBytes, bytesRoster)

	res := newTestOrchestrator().Load(primary)
	assert.False(t, res.Sample)
	assert.Equal(t, codec.FormatText, res.Format, "text comes before bytes")
	assert.Equal(t, text, res.Records)
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Failures[0], codec.ErrFormat)
}

func TestOrchestrator_LoadFallsBackOnMissingPrimary(t *testing.T) {
	dir := t.TempDir()
	writeFormat(t, filepath.Join(dir, "in.dat"), codec.FormatBinary, testRoster()[:1])
	writeFormat(t, filepath.Join(dir, "in.bin"), codec.FormatBytes, testRoster())

	res := newTestOrchestrator().Load(filepath.Join(dir, "in.txt"))
	assert.Equal(t, codec.FormatBinary, res.Format, "binary has priority")
	assert.Equal(t, filepath.Join(dir, "in.dat"), res.Path)
	assert.Len(t, res.Records, 1)
}

func TestOrchestrator_LoadUnknownExtensionUsesSiblings(t *testing.T) {
	dir := t.TempDir()
	writeFormat(t, filepath.Join(dir, "in.bin"), codec.FormatBytes, testRoster())

	res := newTestOrchestrator().Load(filepath.Join(dir, "in.csv"))
	assert.Equal(t, codec.FormatBytes, res.Format)
	assert.Equal(t, testRoster(), res.Records)
}

func TestOrchestrator_LoadFallsBackToSample(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		res := newTestOrchestrator().Load("")
		assert.True(t, res.Sample)
		assert.Equal(t, student.Sample(), res.Records)
		assert.Empty(t, res.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		res := newTestOrchestrator().Load(filepath.Join(t.TempDir(), "nothing.dat"))
		assert.True(t, res.Sample)
		assert.Len(t, res.Records, 3)
		assert.Len(t, res.Failures, 1)
	})

	t.Run("every format corrupt", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "in.dat"), []byte{0xff}, 0600))

		res := newTestOrchestrator().Load(filepath.Join(dir, "in.dat"))
		assert.True(t, res.Sample)
		assert.Len(t, res.Records, 3)
	})
}

func TestOrchestrator_EmptyFileLoadsEmptyRoster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	res := newTestOrchestrator().Load(path)
	assert.False(t, res.Sample)
	assert.Empty(t, res.Records)
}

func TestSavePaths(t *testing.T) {
	assert.Equal(t, []string{"a/out.dat", "a/out.txt", "a/out.bin"}, SavePaths("a/out.txt"))
}
