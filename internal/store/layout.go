package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uidai-ingest/internal/taxonomy"
)

// UnknownFolder collects rows whose region could not be resolved.
const UnknownFolder = "_UNKNOWN"

// utFolder groups the union-territory folders under one parent so the
// 28 state folders stay readable at the output root.
const utFolder = "UT"

// SafeFolderName keeps letters, digits, spaces, underscores and hyphens and
// replaces everything else with an underscore.
func SafeFolderName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// RegionDir returns the folder holding one region's tables: states live at
// the output root, union territories under UT/, everything else under
// _UNKNOWN.
func RegionDir(root string, region taxonomy.Region) string {
	switch region.Type {
	case taxonomy.TypeState:
		return filepath.Join(root, SafeFolderName(region.Name))
	case taxonomy.TypeUT:
		return filepath.Join(root, utFolder, SafeFolderName(region.Name))
	default:
		return filepath.Join(root, UnknownFolder)
	}
}

// TablePath returns the CSV file for one (region, dataset) pair.
func TablePath(root string, region taxonomy.Region, dataset string) string {
	return filepath.Join(RegionDir(root, region), dataset+".csv")
}

// EnsureLayout creates the full output folder tree up front: one folder per
// state, one per union territory, plus the unknown bucket. Pre-creating them
// makes the output browsable even before any file lands in a region.
func EnsureLayout(root string) error {
	for _, name := range taxonomy.States {
		dir := RegionDir(root, taxonomy.Region{Type: taxonomy.TypeState, Name: name})
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state folder %s: %w", dir, err)
		}
	}
	for _, name := range taxonomy.UnionTerritories {
		dir := RegionDir(root, taxonomy.Region{Type: taxonomy.TypeUT, Name: name})
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating UT folder %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, UnknownFolder), 0o755); err != nil {
		return fmt.Errorf("creating unknown folder: %w", err)
	}
	return nil
}
