package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// WriteJSON writes records as an indented JSON array, creating parent directories.
func WriteJSON(path string, records []domain.Assessment) error {
	if records == nil {
		records = []domain.Assessment{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), append(data, '\n'), 0o644); err != nil { //nolint:gosec // catalog is public data
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes records as CSV with a header row of domain.CatalogColumns.
func WriteCSV(path string, records []domain.Assessment) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close csv %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(domain.CatalogColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range records {
		if err := w.Write(records[i].Row()); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // output directory
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	return nil
}
