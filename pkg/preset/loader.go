package preset

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/dexviz/pkg/config"
)

//go:embed builtin.yaml
var builtinPresets []byte

// Sources, in merge order.
const (
	SourceBuiltin = "builtin"
	SourceUser    = "user"
	SourceProject = "project"
)

// FileName is the presets file name in both the user and project layers.
const FileName = "presets.yaml"

// Loader merges the preset layers.
type Loader struct {
	userPath    string
	userPathSet bool
	projectDir  string
	projectSet  bool

	presets  map[string]Preset
	sources  map[string]string
	warnings []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithUserPath overrides the user presets file. An empty path disables the
// user layer.
func WithUserPath(path string) LoaderOption {
	return func(l *Loader) {
		l.userPath = path
		l.userPathSet = true
	}
}

// WithProjectDir sets the directory holding .dexviz/. An empty dir disables
// the project layer.
func WithProjectDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.projectDir = dir
		l.projectSet = true
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if !l.userPathSet {
		if dir := config.ConfigDir(); dir != "" {
			l.userPath = filepath.Join(dir, FileName)
		}
	}
	if !l.projectSet {
		l.projectDir, _ = os.Getwd()
	}
	return l
}

// Load reads every layer. Missing or malformed user and project files are
// reported through Warnings; only a broken builtin file is an error.
func (l *Loader) Load() error {
	l.presets = make(map[string]Preset)
	l.sources = make(map[string]string)
	l.warnings = nil

	var builtin File
	if err := yaml.Unmarshal(builtinPresets, &builtin); err != nil {
		return fmt.Errorf("parsing builtin presets: %w", err)
	}
	l.merge(builtin, SourceBuiltin)

	if l.userPath != "" {
		l.loadFile(l.userPath, SourceUser)
	}
	if l.projectDir != "" {
		l.loadFile(filepath.Join(l.projectDir, ".dexviz", FileName), SourceProject)
	}
	return nil
}

func (l *Loader) loadFile(path, source string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.warnings = append(l.warnings, fmt.Sprintf("reading %s: %v", path, err))
		}
		return
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		l.warnings = append(l.warnings, fmt.Sprintf("parsing %s: %v", path, err))
		return
	}
	l.merge(f, source)
}

func (l *Loader) merge(f File, source string) {
	for name, p := range f.Presets {
		if p == nil {
			delete(l.presets, name)
			delete(l.sources, name)
			continue
		}
		cp := *p
		cp.Name = name
		l.presets[name] = cp
		l.sources[name] = source
	}
}

// Get returns the named preset, or nil.
func (l *Loader) Get(name string) *Preset {
	p, ok := l.presets[name]
	if !ok {
		return nil
	}
	p.Charts = slices.Clone(p.Charts)
	p.Types = slices.Clone(p.Types)
	p.Names = slices.Clone(p.Names)
	return &p
}

// Source reports which layer defined name.
func (l *Loader) Source(name string) string {
	return l.sources[name]
}

// Names returns every preset name, sorted.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.presets))
	for name := range l.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every preset in name order.
func (l *Loader) List() []Preset {
	names := l.Names()
	out := make([]Preset, len(names))
	for i, name := range names {
		out[i] = l.presets[name]
	}
	return out
}

func (l *Loader) ListSummaries() []Summary {
	names := l.Names()
	out := make([]Summary, len(names))
	for i, name := range names {
		out[i] = Summary{Name: name, Description: l.presets[name].Description, Source: l.sources[name]}
	}
	return out
}

func (l *Loader) Warnings() []string {
	return l.warnings
}

// LoadDefault loads builtin, user and working-directory presets.
func LoadDefault() (*Loader, error) {
	l := NewLoader()
	if err := l.Load(); err != nil {
		return nil, err
	}
	return l, nil
}
