package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uidai-ingest/internal/config"
	"github.com/uidai-ingest/internal/store"
)

func TestInferDataset(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"demo_2021.csv", "demographic"},
		{"Demographics_March.csv", "demographic"},
		{"bio_batch1.csv", "biometric"},
		{"enrolment-q3.csv", "enrolment"},
		{"ENROL.csv", "enrolment"},
		{"misc.csv", "dataset"},
	}
	for _, tt := range tests {
		if got := InferDataset(tt.file); got != tt.want {
			t.Errorf("InferDataset(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func testPipeline(t *testing.T, cleanup bool) (*Pipeline, config.Settings) {
	t.Helper()
	cfg := config.Settings{
		InputDir:     filepath.Join(t.TempDir(), "in"),
		OutputDir:    filepath.Join(t.TempDir(), "out"),
		FuzzyCutoff:  0.92,
		CleanupInput: cleanup,
	}
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	return New(cfg, zap.NewNop()), cfg
}

const demoCSV = `State,District,Pincode,Date,Count
Kerala,Ernakulam,682001,05.03.2021,5
Gujrat,Ahmedabad,380001,2021-01-02,3
Orissa,Cuttack,753001,31.12.2020,1
,South Delhi,110001,2021-06-07,2
Atlantis,Nowhere,000000,2021-01-01,1
Kerala,Kollam,691001,notadate,9
`

func TestProcessFile(t *testing.T) {
	p, cfg := testPipeline(t, false)
	path := filepath.Join(cfg.InputDir, "demo.csv")
	require.NoError(t, os.WriteFile(path, []byte(demoCSV), 0o644))

	fr := p.ProcessFile(path)
	require.NoError(t, fr.Err)
	assert.Equal(t, "demographic", fr.Dataset)

	c := fr.Counters
	assert.Equal(t, 6, c.TotalRead)
	assert.Equal(t, 5, c.ValidDate)
	assert.Equal(t, 3, c.WrittenStates)
	assert.Equal(t, 1, c.WrittenUTs)
	assert.Equal(t, 1, c.OmittedInvalidDate)
	assert.Equal(t, 1, c.OmittedUnmappedRegion)
	assert.Equal(t, 0, c.OmittedNotAllowed)
	assert.True(t, c.Consistent())

	assert.Equal(t, map[string]int{"Kerala": 1, "Gujarat": 1, "Odisha": 1}, c.ByState)
	assert.Equal(t, map[string]int{"Delhi": 1}, c.ByUT)

	for _, rel := range []string{
		filepath.Join("Kerala", "demographic.csv"),
		filepath.Join("Gujarat", "demographic.csv"),
		filepath.Join("Odisha", "demographic.csv"),
		filepath.Join("UT", "Delhi", "demographic.csv"),
	} {
		n, err := store.CountRows(filepath.Join(cfg.OutputDir, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, 1, n, rel)
	}

	// unmapped rows are dropped, never persisted
	_, err := os.Stat(filepath.Join(cfg.OutputDir, store.UnknownFolder, "demographic.csv"))
	assert.True(t, os.IsNotExist(err))

	// the state cell is rewritten to the canonical name
	tbl, err := store.Load(filepath.Join(cfg.OutputDir, "Gujarat", "demographic.csv"))
	require.NoError(t, err)
	idx := tbl.Index("state")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "Gujarat", tbl.Rows[0][idx])
}

func TestProcessFileMissingColumn(t *testing.T) {
	p, cfg := testPipeline(t, false)
	path := filepath.Join(cfg.InputDir, "demo.csv")
	require.NoError(t, os.WriteFile(path, []byte("State,District,Date\nKerala,Kollam,2021-01-01\n"), 0o644))

	fr := p.ProcessFile(path)
	require.Error(t, fr.Err)
	assert.Contains(t, fr.Err.Error(), "pincode")
	assert.Equal(t, 0, fr.Counters.TotalRead)
}

// Processing the same file twice must not duplicate rows in the tables.
func TestProcessFileIdempotent(t *testing.T) {
	p, cfg := testPipeline(t, false)
	path := filepath.Join(cfg.InputDir, "demo.csv")
	require.NoError(t, os.WriteFile(path, []byte(demoCSV), 0o644))

	require.NoError(t, p.ProcessFile(path).Err)
	require.NoError(t, p.ProcessFile(path).Err)

	n, err := store.CountRows(filepath.Join(cfg.OutputDir, "Kerala", "demographic.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun(t *testing.T) {
	p, cfg := testPipeline(t, false)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "demo.csv"), []byte(demoCSV), 0o644))

	result, err := p.Run()
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.True(t, result.Succeeded())
	assert.True(t, result.Totals.Consistent())
	assert.Equal(t, 6, result.Totals.TotalRead)

	report, err := os.ReadFile(filepath.Join(cfg.OutputDir, ReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(report), "demo.csv")
	assert.Contains(t, string(report), "TABLE ROW COUNTS")

	// cleanup disabled, input survives
	_, err = os.Stat(filepath.Join(cfg.InputDir, "demo.csv"))
	assert.NoError(t, err)
}

// A bad file aborts itself only; the run finishes, reports the failure and
// keeps the input directory intact even with cleanup enabled.
func TestRunPartialFailure(t *testing.T) {
	p, cfg := testPipeline(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "demo.csv"), []byte(demoCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "bio.csv"), []byte("State,District\nKerala,Kollam\n"), 0o644))

	result, err := p.Run()
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.False(t, result.Succeeded())
	assert.Equal(t, 6, result.Totals.TotalRead)

	entries, err := os.ReadDir(cfg.InputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "failed run must not clean the input directory")
}

func TestRunCleansInputOnSuccess(t *testing.T) {
	p, cfg := testPipeline(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "demo.csv"), []byte(demoCSV), 0o644))

	result, err := p.Run()
	require.NoError(t, err)
	assert.True(t, result.Succeeded())

	entries, err := os.ReadDir(cfg.InputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCountersMerge(t *testing.T) {
	a := NewCounters()
	a.TotalRead = 3
	a.WrittenStates = 2
	a.OmittedInvalidDate = 1
	a.ByState["Kerala"] = 2

	b := NewCounters()
	b.TotalRead = 2
	b.WrittenStates = 1
	b.WrittenUTs = 1
	b.ByState["Kerala"] = 1
	b.ByUT["Delhi"] = 1

	a.Merge(b)
	assert.Equal(t, 5, a.TotalRead)
	assert.Equal(t, 3, a.WrittenStates)
	assert.Equal(t, 1, a.WrittenUTs)
	assert.Equal(t, 3, a.ByState["Kerala"])
	assert.Equal(t, 1, a.ByUT["Delhi"])
	assert.True(t, a.Consistent())
}
