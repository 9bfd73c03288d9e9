package evaluation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Case is one labeled query.
type Case struct {
	Text        string   `yaml:"text"`
	MaxDuration int      `yaml:"max_duration"`
	TestTypes   []string `yaml:"test_types"`
	Relevant    []string `yaml:"relevant"`
}

// Query converts the case into a recommendation query.
func (c Case) Query() domain.Query {
	return domain.Query{Text: c.Text, MaxDuration: c.MaxDuration, TestTypes: c.TestTypes}
}

type datasetFile struct {
	Queries []Case `yaml:"queries"`
}

// FileDataset reads labeled cases from a YAML file on every Load.
type FileDataset struct {
	path string
}

// NewFileDataset creates a dataset backed by path.
func NewFileDataset(path string) *FileDataset {
	return &FileDataset{path: path}
}

// Load parses the dataset file.
func (d *FileDataset) Load(_ context.Context) ([]Case, error) {
	data, err := os.ReadFile(filepath.Clean(d.path))
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", d.path, err)
	}
	var f datasetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", d.path, err)
	}
	for i, c := range f.Queries {
		if c.Text == "" {
			return nil, fmt.Errorf("dataset %s: query %d has empty text", d.path, i)
		}
	}
	return f.Queries, nil
}
