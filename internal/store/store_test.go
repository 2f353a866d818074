package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uidai-ingest/internal/table"
	"github.com/uidai-ingest/internal/taxonomy"
)

func sampleBatch() *table.Table {
	t := table.New("state", "district", "pincode", "date", "count")
	t.AppendRow([]string{"Kerala", "Kollam", "691001", "2021-03-05", "2"})
	t.AppendRow([]string{"Kerala", "Ernakulam", "682001", "2021-01-02", "5"})
	t.AppendRow([]string{"Kerala", "Ernakulam", "682001", "2021-01-02", "5"})
	return t
}

func TestMergeWriteDedupesAndSorts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrolment.csv")

	n, err := MergeWrite(path, sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, []string{"state", "district", "pincode", "date", "count"}, got.Columns)
	assert.Equal(t, [][]string{
		{"Kerala", "Ernakulam", "682001", "2021-01-02", "5"},
		{"Kerala", "Kollam", "691001", "2021-03-05", "2"},
	}, got.Rows)
}

// Merging the same batch twice must leave the file byte-identical.
func TestMergeWriteIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrolment.csv")

	_, err := MergeWrite(path, sampleBatch())
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	n, err := MergeWrite(path, sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMergeWriteAppendsNewRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrolment.csv")

	_, err := MergeWrite(path, sampleBatch())
	require.NoError(t, err)

	batch := table.New("state", "district", "pincode", "date", "count")
	batch.AppendRow([]string{"Kerala", "Alappuzha", "688001", "2021-02-01", "3"})
	n, err := MergeWrite(path, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Alappuzha", got.Rows[0][1])
}

// A prior file written with fewer columns still merges; the new columns are
// unioned in and old rows get empty cells.
func TestMergeWriteColumnUnionWithPriorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrolment.csv")

	old := table.New("state", "district", "pincode", "date")
	old.AppendRow([]string{"Kerala", "Kollam", "691001", "2021-03-05"})
	_, err := MergeWrite(path, old)
	require.NoError(t, err)

	wider := table.New("state", "district", "pincode", "date", "count")
	wider.AppendRow([]string{"Kerala", "Ernakulam", "682001", "2021-01-02", "5"})
	n, err := MergeWrite(path, wider)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"state", "district", "pincode", "date", "count"}, got.Columns)
	assert.Equal(t, "", got.Rows[1][4], "old row should have empty cell in the new column")
}

// Rows whose date was invalidated (or never valid) are dropped on merge.
func TestMergeWriteDropsMissingDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrolment.csv")

	batch := table.New("state", "district", "pincode", "date")
	batch.AppendRow([]string{"Kerala", "Kollam", "691001", "2021-03-05"})
	batch.AppendRow([]string{"Kerala", "Kollam", "691001", ""})
	n, err := MergeWrite(path, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// Prior files written under older cleaning rules are re-normalised before
// comparison, so a re-sent cleaned row still deduplicates against them.
func TestMergeWriteRenormalisesPriorFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enrolment.csv")
	raw := "state,district,pincode,date\nkerala,kollam,691 001,05.03.2021\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	batch := table.New("state", "district", "pincode", "date")
	batch.AppendRow([]string{"Kerala", "Kollam", "691001", "2021-03-05"})
	n, err := MergeWrite(path, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadMissingFile(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCountRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3,4\n"), 0o644))

	n, err := CountRows(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = CountRows(filepath.Join(dir, "absent.csv"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSafeFolderName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Tamil Nadu", "Tamil Nadu"},
		{"Jammu And Kashmir", "Jammu And Kashmir"},
		{"A/B\\C:D", "A_B_C_D"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFolderName(tt.input), "input %q", tt.input)
	}
}

func TestTablePath(t *testing.T) {
	state := taxonomy.Region{Type: taxonomy.TypeState, Name: "Kerala"}
	ut := taxonomy.Region{Type: taxonomy.TypeUT, Name: "Delhi"}

	assert.Equal(t, filepath.Join("out", "Kerala", "enrolment.csv"), TablePath("out", state, "enrolment"))
	assert.Equal(t, filepath.Join("out", "UT", "Delhi", "biometric.csv"), TablePath("out", ut, "biometric"))
	assert.Equal(t, filepath.Join("out", UnknownFolder, "dataset.csv"), TablePath("out", taxonomy.Unknown, "dataset"))
}

func TestEnsureLayout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, EnsureLayout(root))

	for _, dir := range []string{
		filepath.Join(root, "Kerala"),
		filepath.Join(root, "UT", "Delhi"),
		filepath.Join(root, UnknownFolder),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}
