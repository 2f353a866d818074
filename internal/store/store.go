// Package store persists region tables as CSV files with merge-append
// semantics: new batches are folded into whatever the file already holds,
// deduplicated and reordered, then written back atomically. Re-merging the
// same batch reproduces the file byte for byte.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/uidai-ingest/internal/dates"
	"github.com/uidai-ingest/internal/table"
)

// Store merges tables into CSV files under a fixed output root.
type Store struct {
	Root string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Root: dir}
}

// sortColumns is the fixed output ordering. Cells compare as strings, so the
// order is lexicographic even for pincodes, which keeps it total in the
// presence of blanks and malformed values.
var sortColumns = []string{"district", "pincode", "date"}

// MergeWrite folds incoming into the CSV at path. The prior contents are
// re-normalised before the merge so that rows written by an older version of
// the cleaning rules still compare equal to their freshly cleaned duplicates.
// Rows without a parseable date are dropped. Returns the row count persisted.
func MergeWrite(path string, incoming *table.Table) (int, error) {
	merged, err := Load(path)
	if err != nil {
		return 0, err
	}
	if merged == nil {
		merged = table.New()
	}
	renormalize(merged)

	merged.AppendTable(incoming)
	merged.Dedupe()
	merged.SortBy(sortColumns...)

	dateIdx := merged.Index("date")
	if dateIdx >= 0 {
		merged.Filter(func(row []string) bool { return row[dateIdx] != "" })
	}

	if err := writeAtomic(path, merged); err != nil {
		return 0, err
	}
	return len(merged.Rows), nil
}

// renormalize re-applies the cleaning rules to a previously persisted table.
// Every step skips columns the table does not have.
func renormalize(t *table.Table) {
	t.CleanColumns()
	t.Apply("state", table.NormTitle)
	t.Apply("district", table.NormTitle)
	t.Apply("pincode", table.NormPincode)
	if dateCol := t.Column("date"); dateCol != nil {
		t.SetColumn("date", dates.ParseAll(dateCol))
	}
}

// Load reads a CSV table from disk. A missing or empty file yields nil with
// no error. Rows shorter or longer than the header are padded or truncated
// rather than rejected.
func Load(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	t := table.New(header...)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		t.AppendRow(record)
	}
	return t, nil
}

// CountRows returns the number of data rows in a CSV file, excluding the
// header. Missing files count as zero.
func CountRows(path string) (int, error) {
	t, err := Load(path)
	if err != nil {
		return 0, err
	}
	if t == nil {
		return 0, nil
	}
	return len(t.Rows), nil
}

// writeAtomic writes the table to a temp file in the target directory and
// renames it over path, so readers never observe a half-written file.
func writeAtomic(path string, t *table.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
