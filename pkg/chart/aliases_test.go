package chart

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFirstAliasWins(t *testing.T) {
	row := map[string]interface{}{
		"Metric Name": "from-header",
		"metric":      "from-json",
	}

	// "metric" is listed before "Metric Name" in the defaults.
	v, ok := resolve(row, DefaultCatalog().Metric)
	if !ok || v != "from-json" {
		t.Fatalf("expected first alias to win, got %v", v)
	}
}

func TestResolveMissing(t *testing.T) {
	if _, ok := resolve(map[string]interface{}{"other": 1}, DefaultCatalog().Metric); ok {
		t.Fatal("expected no match for unrelated columns")
	}
}

func TestLoadCatalogEmptyPathUsesDefaults(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Metric) == 0 || len(cat.Hotspot) == 0 || len(cat.Score) == 0 {
		t.Fatalf("defaults incomplete: %+v", cat)
	}
}

func TestLoadCatalogFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "metric: [Indicator]\nhotspot: [Zone]\nscore: [Rating]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	if len(cat.Metric) != 1 || cat.Metric[0] != "Indicator" {
		t.Fatalf("unexpected metric aliases: %v", cat.Metric)
	}
}

func TestLoadCatalogRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	if err := os.WriteFile(path, []byte("metric: [Indicator]\n"), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected error for catalog missing hotspot and score aliases")
	}
}
