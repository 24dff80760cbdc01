package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Export.Format != "svg" {
		t.Errorf("expected default format 'svg', got %q", cfg.Export.Format)
	}
	if cfg.Charts.BarAttribute != "Type_1" {
		t.Errorf("expected default bar attribute 'Type_1', got %q", cfg.Charts.BarAttribute)
	}
	if len(cfg.Export.Charts) != 3 {
		t.Errorf("expected 3 default charts, got %v", cfg.Export.Charts)
	}
	if cfg.Loader.Strict {
		t.Error("expected lenient loader by default")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.DefaultPane != "bar" {
		t.Errorf("expected default config, got pane %q", cfg.UI.DefaultPane)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
data: ~/datasets/pokemon.csv
export:
  dir: /tmp/out
  format: png
  charts: [bar, radar]
ui:
  default_pane: radar
charts:
  bar_attribute: Color
  bar_sort: label
  stat_group: offense
loader:
  strict: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "datasets/pokemon.csv"); cfg.Data != want {
		t.Errorf("expected expanded data path %q, got %q", want, cfg.Data)
	}
	if cfg.Export.Format != "png" {
		t.Errorf("expected format png, got %q", cfg.Export.Format)
	}
	if !cfg.WantsChart("radar") || cfg.WantsChart("scatter") {
		t.Errorf("unexpected chart list %v", cfg.Export.Charts)
	}
	if cfg.Charts.BarSort != "label" || cfg.Charts.StatGroup != "offense" {
		t.Errorf("unexpected chart config %+v", cfg.Charts)
	}
	if !cfg.Loader.Strict {
		t.Error("expected strict loader")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("data: from-file.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEXVIZ_DATA", "from-env.csv")
	t.Setenv("DEXVIZ_EXPORT_CHARTS", "scatter")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Data != "from-env.csv" {
		t.Errorf("expected env to win, got %q", cfg.Data)
	}
	if len(cfg.Export.Charts) != 1 || cfg.Export.Charts[0] != "scatter" {
		t.Errorf("expected charts [scatter], got %v", cfg.Export.Charts)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Export.Dir = "/var/charts"
	cfg.Charts.StatGroup = "defense"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Export.Dir != "/var/charts" || loaded.Charts.StatGroup != "defense" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
