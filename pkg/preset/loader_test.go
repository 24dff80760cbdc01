package preset_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vanderheijden86/dexviz/pkg/preset"
)

func builtinOnly(t *testing.T) *preset.Loader {
	t.Helper()
	l := preset.NewLoader(preset.WithUserPath(""), preset.WithProjectDir(""))
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return l
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderBuiltinPresets(t *testing.T) {
	l := builtinOnly(t)
	want := []string{"colors", "default", "fire-team", "heavy-hitters", "starters", "walls"}
	if got := l.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for _, name := range want {
		if l.Source(name) != preset.SourceBuiltin {
			t.Errorf("source of %q = %q", name, l.Source(name))
		}
		if p := l.Get(name); p.Description == "" || p.Name != name {
			t.Errorf("preset %q = %+v", name, p)
		}
	}

	colors := l.Get("colors")
	if colors.BarAttribute != "Color" || colors.BarSort != "label" || !reflect.DeepEqual(colors.Charts, []string{"bar"}) {
		t.Errorf("colors = %+v", colors)
	}
	if cc := l.Get("walls").ChartConfig(); cc.StatGroup != "defense" || cc.BarAttribute != "" {
		t.Errorf("walls chart config = %+v", cc)
	}
}

func TestLoaderGetNonExistent(t *testing.T) {
	if p := builtinOnly(t).Get("nonexistent"); p != nil {
		t.Fatalf("expected nil, got %+v", p)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	l := builtinOnly(t)
	l.Get("starters").Names[0] = "Mew"
	l.Get("starters").Click = "Grass"
	if l.Get("starters").Click != "" || l.Get("starters").Names[0] != "Bulbasaur" {
		t.Fatal("Get should not expose loader state")
	}
}

func TestLoaderLayers(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "user", preset.FileName)
	project := filepath.Join(dir, "project")
	write(t, userPath, `
presets:
  mine:
    description: user preset
    types: [Bug]
  default:
    description: overridden default
    charts: [scatter]
  walls: null
`)
	write(t, filepath.Join(project, ".dexviz", preset.FileName), `
presets:
  mine:
    description: project wins
    types: [Ghost]
  local:
    names: [Gastly]
`)

	l := preset.NewLoader(preset.WithUserPath(userPath), preset.WithProjectDir(project))
	if err := l.Load(); err != nil {
		t.Fatal(err)
	}

	if p := l.Get("default"); p.Description != "overridden default" || l.Source("default") != preset.SourceUser {
		t.Errorf("default = %+v from %q", p, l.Source("default"))
	}
	if p := l.Get("mine"); !reflect.DeepEqual(p.Types, []string{"Ghost"}) || l.Source("mine") != preset.SourceProject {
		t.Errorf("mine = %+v from %q", p, l.Source("mine"))
	}
	if l.Get("local") == nil || l.Source("local") != preset.SourceProject {
		t.Error("expected project-local preset")
	}
	if l.Get("walls") != nil {
		t.Error("null should remove the builtin preset")
	}
	if l.Get("colors") == nil {
		t.Error("untouched builtins should remain")
	}
}

func TestLoaderMissingAndInvalidFiles(t *testing.T) {
	l := preset.NewLoader(
		preset.WithUserPath("/nonexistent/path/presets.yaml"),
		preset.WithProjectDir("/nonexistent/project"),
	)
	if err := l.Load(); err != nil {
		t.Fatalf("missing files should not error: %v", err)
	}
	if len(l.Warnings()) != 0 {
		t.Errorf("missing files should not warn: %v", l.Warnings())
	}

	bad := filepath.Join(t.TempDir(), preset.FileName)
	write(t, bad, "presets: [yaml: {")
	l = preset.NewLoader(preset.WithUserPath(bad), preset.WithProjectDir(""))
	if err := l.Load(); err != nil {
		t.Fatalf("invalid user file should not error: %v", err)
	}
	if len(l.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", l.Warnings())
	}
	if l.Get("default") == nil {
		t.Error("builtins should survive a broken user file")
	}
}

func TestLoaderListSummaries(t *testing.T) {
	l := builtinOnly(t)
	list := l.List()
	sums := l.ListSummaries()
	if len(list) != len(l.Names()) || len(sums) != len(list) {
		t.Fatalf("lengths differ: list=%d summaries=%d names=%d", len(list), len(sums), len(l.Names()))
	}
	for i, s := range sums {
		if s.Name != list[i].Name || s.Source != preset.SourceBuiltin || s.Description == "" {
			t.Errorf("summary %d = %+v", i, s)
		}
	}
}

func TestLoadDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	l, err := preset.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	if l.Get("default") == nil {
		t.Fatal("expected builtin default")
	}
}
