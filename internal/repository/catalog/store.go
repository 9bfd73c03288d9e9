// Package catalog reads and writes the assessment catalog files.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Store loads the catalog from a JSON file. Nothing is cached: every Load
// re-reads the file, so edits are visible to the next request.
type Store struct {
	path string
}

// New creates a catalog store backed by the JSON file at path.
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads every record from the catalog file.
// Records are not validated; a missing field decodes to its zero value.
func (s *Store) Load(_ context.Context) ([]domain.Assessment, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w: %w", s.path, domain.ErrCatalogIO, err)
	}

	var records []domain.Assessment
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w: %w", s.path, domain.ErrCatalogParse, err)
	}
	return records, nil
}

// HealthCheck verifies the catalog file is present and readable.
func (s *Store) HealthCheck(_ context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open catalog: %w: %w", domain.ErrCatalogIO, err)
	}
	_ = f.Close()
	return nil
}
