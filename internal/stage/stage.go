// Package stage persists typed CSV files between pipeline steps, so each step
// can run on its own against the previous step's output.
package stage

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Stage file names under the data directory.
const (
	FilePersons      = "pums_persons.csv"
	FileShares       = "noncitizen_shares.csv"
	FileBLSIndustry  = "bls_industries.csv"
	FileMatched      = "matched_industries.csv"
	FileCatalog      = "series_catalog.csv"
	FileMappings     = "series_mappings.csv"
	FileObservations = "observations.csv"
	FileGrowth       = "growth.csv"
	FileAnalysis     = "analysis.csv"
)

// Save writes rows as a CSV stage file, creating parent directories.
func Save[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "stage: create dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "stage: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return eris.Wrapf(err, "stage: write %s", path)
	}
	zap.L().Info("wrote stage file", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

// Load reads a CSV stage file written by Save. A missing file yields an error
// naming the step that produces it.
func Load[T any](path, producedBy string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Errorf("stage: %s not found; run %q first", path, producedBy)
		}
		return nil, eris.Wrapf(err, "stage: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, eris.Wrapf(err, "stage: read %s", path)
	}
	return rows, nil
}
