package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/uidai-ingest/internal/store"
)

// ReportFile is the report's file name inside the output directory.
const ReportFile = "process_report.txt"

// WriteReport renders the run's accounting as a plain-text report next to
// the tables it describes. The final section counts the rows actually on
// disk, so the report doubles as a consistency check after crashes or
// manual edits.
func WriteReport(path, outputDir string, result RunResult) error {
	var b strings.Builder

	b.WriteString("ENROLMENT INGESTION REPORT\n")
	b.WriteString("==========================\n")
	fmt.Fprintf(&b, "started:  %s\n", result.Started.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "finished: %s\n", result.Finished.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "files:    %d\n\n", len(result.Files))

	for _, fr := range result.Files {
		fmt.Fprintf(&b, "--- %s (dataset: %s) ---\n", fr.File, fr.Dataset)
		if fr.Err != nil {
			fmt.Fprintf(&b, "ABORTED: %v\n\n", fr.Err)
			continue
		}
		writeCounters(&b, fr.Counters)
		b.WriteString("\n")
	}

	b.WriteString("--- TOTALS ---\n")
	writeCounters(&b, result.Totals)
	b.WriteString("\n")

	writeBreakdown(&b, "rows per state", result.Totals.ByState)
	writeBreakdown(&b, "rows per union territory", result.Totals.ByUT)

	if err := writeTableCounts(&b, outputDir); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func writeCounters(b *strings.Builder, c Counters) {
	fmt.Fprintf(b, "rows read:               %d\n", c.TotalRead)
	fmt.Fprintf(b, "valid dates:             %d\n", c.ValidDate)
	fmt.Fprintf(b, "written to states:       %d\n", c.WrittenStates)
	fmt.Fprintf(b, "written to UTs:          %d\n", c.WrittenUTs)
	fmt.Fprintf(b, "omitted, invalid date:   %d\n", c.OmittedInvalidDate)
	fmt.Fprintf(b, "omitted, unmapped:       %d\n", c.OmittedUnmappedRegion)
	fmt.Fprintf(b, "omitted, not allowed:    %d\n", c.OmittedNotAllowed)
}

func writeBreakdown(b *strings.Builder, title string, byName map[string]int) {
	if len(byName) == 0 {
		return
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(b, "--- %s ---\n", title)
	for _, name := range names {
		fmt.Fprintf(b, "%-45s %d\n", name, byName[name])
	}
	b.WriteString("\n")
}

// writeTableCounts appends the header-excluded row count of every table file
// under the output root, sorted by path.
func writeTableCounts(b *strings.Builder, outputDir string) error {
	var paths []string
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", outputDir, err)
	}
	sort.Strings(paths)

	b.WriteString("--- TABLE ROW COUNTS ---\n")
	for _, path := range paths {
		n, err := store.CountRows(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			rel = path
		}
		fmt.Fprintf(b, "%-60s %d\n", rel, n)
	}
	return nil
}
