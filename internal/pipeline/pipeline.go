// Package pipeline drives a whole ingestion run: it discovers input CSV
// files, cleans and resolves each one row by row, merges the rows into the
// per-region tables and accounts for every row in counters. Files are
// processed one at a time, whole-file in memory; a bad file aborts only
// itself.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uidai-ingest/internal/config"
	"github.com/uidai-ingest/internal/dates"
	"github.com/uidai-ingest/internal/resolver"
	"github.com/uidai-ingest/internal/store"
	"github.com/uidai-ingest/internal/table"
	"github.com/uidai-ingest/internal/taxonomy"
)

// requiredColumns must all be present, after column cleaning, for a file to
// be processed.
var requiredColumns = []string{"state", "district", "pincode", "date"}

// Pipeline processes input files into the region table store.
type Pipeline struct {
	inputDir     string
	outputDir    string
	cleanupInput bool
	resolver     *resolver.Resolver
	log          *zap.Logger
}

// New builds a pipeline from settings.
func New(cfg config.Settings, log *zap.Logger) *Pipeline {
	return &Pipeline{
		inputDir:     cfg.InputDir,
		outputDir:    cfg.OutputDir,
		cleanupInput: cfg.CleanupInput,
		resolver:     resolver.New(cfg.FuzzyCutoff),
		log:          log,
	}
}

// InferDataset derives the dataset label from an input file name.
func InferDataset(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	switch {
	case strings.Contains(name, "demo"):
		return "demographic"
	case strings.Contains(name, "bio"):
		return "biometric"
	case strings.Contains(name, "enrol"):
		return "enrolment"
	default:
		return "dataset"
	}
}

// Run processes every CSV file in the input directory, writes the process
// report, and clears the input directory if everything succeeded. Individual
// file failures are recorded in the result, not returned; the error return
// covers run-level problems only.
func (p *Pipeline) Run() (RunResult, error) {
	result := RunResult{Started: time.Now(), Totals: NewCounters()}

	if err := store.EnsureLayout(p.outputDir); err != nil {
		return result, err
	}

	files, err := filepath.Glob(filepath.Join(p.inputDir, "*.csv"))
	if err != nil {
		return result, fmt.Errorf("scanning %s: %w", p.inputDir, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		p.log.Warn("no input files found", zap.String("dir", p.inputDir))
	}

	for _, file := range files {
		fr := p.ProcessFile(file)
		if fr.Err != nil {
			p.log.Error("file aborted",
				zap.String("file", fr.File),
				zap.Error(fr.Err))
		} else {
			p.log.Info("file processed",
				zap.String("file", fr.File),
				zap.String("dataset", fr.Dataset),
				zap.Int("rows", fr.Counters.TotalRead),
				zap.Int("written", fr.Counters.Writes()),
				zap.Int("omitted", fr.Counters.Omissions()))
			if !fr.Counters.Consistent() {
				p.log.Error("row accounting mismatch",
					zap.String("file", fr.File),
					zap.Int("read", fr.Counters.TotalRead),
					zap.Int("accounted", fr.Counters.Writes()+fr.Counters.Omissions()))
			}
			result.Totals.Merge(fr.Counters)
		}
		result.Files = append(result.Files, fr)
	}

	result.Finished = time.Now()

	if err := WriteReport(filepath.Join(p.outputDir, ReportFile), p.outputDir, result); err != nil {
		return result, err
	}

	if result.Succeeded() && p.cleanupInput {
		if err := p.cleanInputDir(files); err != nil {
			return result, err
		}
		p.log.Info("input directory cleaned", zap.Int("files", len(files)))
	}

	return result, nil
}

// ProcessFile ingests one CSV file. Schema problems abort the file and are
// reported in the result's Err; row-level problems only move counters.
func (p *Pipeline) ProcessFile(path string) FileResult {
	fr := FileResult{
		File:     filepath.Base(path),
		Dataset:  InferDataset(path),
		Counters: NewCounters(),
	}

	t, err := store.Load(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	if t == nil {
		return fr
	}

	t.CleanColumns()
	for _, c := range requiredColumns {
		if t.Index(c) < 0 {
			fr.Err = fmt.Errorf("%s: missing required column %q", fr.File, c)
			return fr
		}
	}

	p.cleanRows(t)

	stateIdx := t.Index("state")
	districtIdx := t.Index("district")
	dateIdx := t.Index("date")

	buckets := make(map[taxonomy.Region]*table.Table)
	for _, row := range t.Rows {
		fr.Counters.TotalRead++

		if row[dateIdx] == "" {
			fr.Counters.OmittedInvalidDate++
			continue
		}
		fr.Counters.ValidDate++

		region := p.resolver.Resolve(row[stateIdx], row[districtIdx])
		switch region.Type {
		case taxonomy.TypeState:
			if !taxonomy.IsState(region.Name) {
				fr.Counters.OmittedNotAllowed++
				continue
			}
			fr.Counters.WrittenStates++
			fr.Counters.ByState[region.Name]++
		case taxonomy.TypeUT:
			if !taxonomy.IsUT(region.Name) {
				fr.Counters.OmittedNotAllowed++
				continue
			}
			fr.Counters.WrittenUTs++
			fr.Counters.ByUT[region.Name]++
		default:
			fr.Counters.OmittedUnmappedRegion++
			continue
		}

		bucket, ok := buckets[region]
		if !ok {
			bucket = table.New(t.Columns...)
			buckets[region] = bucket
		}
		cells := make([]string, len(row))
		copy(cells, row)
		cells[stateIdx] = region.Name
		bucket.AppendRow(cells)
	}

	for _, region := range sortedRegions(buckets) {
		dest := store.TablePath(p.outputDir, region, fr.Dataset)
		if _, err := store.MergeWrite(dest, buckets[region]); err != nil {
			fr.Err = fmt.Errorf("%s: %w", fr.File, err)
			return fr
		}
	}

	return fr
}

// cleanRows applies the shared normal forms: title-cased region labels,
// digit-only pincode, canonical dates, and numeric coercion for every other
// column.
func (p *Pipeline) cleanRows(t *table.Table) {
	t.Apply("state", table.NormTitle)
	t.Apply("district", table.NormTitle)
	t.Apply("pincode", table.NormPincode)
	t.SetColumn("date", dates.ParseAll(t.Column("date")))

	for _, c := range t.Columns {
		if isCoreColumn(c) {
			continue
		}
		t.Apply(c, table.CoerceNumeric)
	}
}

func isCoreColumn(c string) bool {
	for _, rc := range requiredColumns {
		if c == rc {
			return true
		}
	}
	return false
}

// sortedRegions orders bucket keys so table writes and logs are
// deterministic across runs.
func sortedRegions(buckets map[taxonomy.Region]*table.Table) []taxonomy.Region {
	regions := make([]taxonomy.Region, 0, len(buckets))
	for region := range buckets {
		regions = append(regions, region)
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Type != regions[j].Type {
			return regions[i].Type < regions[j].Type
		}
		return regions[i].Name < regions[j].Name
	})
	return regions
}

// cleanInputDir removes the processed files. Only the files this run saw are
// removed, so anything dropped in mid-run survives for the next one.
func (p *Pipeline) cleanInputDir(files []string) error {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("removing %s: %w", file, err)
		}
	}
	return nil
}
