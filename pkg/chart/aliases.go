package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog maps each canonical chart field to a priority-ordered list of
// accepted column spellings. The first alias present in a row wins.
type Catalog struct {
	Metric  []string `yaml:"metric" json:"metric"`
	Hotspot []string `yaml:"hotspot" json:"hotspot"`
	Score   []string `yaml:"score" json:"score"`
}

// DefaultCatalog covers the spellings produced by the ingestion service
// plus the raw header names seen in field uploads.
func DefaultCatalog() Catalog {
	return Catalog{
		Metric:  []string{"metric", "Metric Name", "Metric", "Risk Factor", "Category"},
		Hotspot: []string{"hotspot", "Hotspot ID", "Hotspot", "Location", "Site"},
		Score:   []string{"risk_score", "Risk Score", "Score", "Mean Score", "Value"},
	}
}

// LoadCatalog reads alias overrides from a YAML file. An empty path keeps
// the defaults.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Metric) == 0 || len(cat.Hotspot) == 0 || len(cat.Score) == 0 {
		return Catalog{}, fmt.Errorf("alias catalog must list metric, hotspot and score aliases")
	}
	return cat, nil
}

// resolve walks the alias list and returns the first value found.
func resolve(row map[string]interface{}, aliases []string) (interface{}, bool) {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			return v, true
		}
	}
	return nil, false
}
