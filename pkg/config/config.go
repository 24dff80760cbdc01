// Package config loads and saves dv configuration.
//
// Paths follow the XDG Base Directory layout:
//   - Config: ~/.config/dexviz/config.yaml
//   - State:  ~/.local/state/dexviz/ (debug log)
//
// Precedence is flags > environment (DEXVIZ_*) > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ExportConfig controls `dv export` and the panel's export key.
type ExportConfig struct {
	Dir    string   `yaml:"dir,omitempty" env:"DEXVIZ_EXPORT_DIR"`
	Format string   `yaml:"format,omitempty" env:"DEXVIZ_EXPORT_FORMAT"` // svg, png, json
	Charts []string `yaml:"charts,omitempty" env:"DEXVIZ_EXPORT_CHARTS" envSeparator:","`
}

// UIConfig holds control panel preferences.
type UIConfig struct {
	Theme       string `yaml:"theme,omitempty" env:"DEXVIZ_THEME"` // dark, light, auto
	DefaultPane string `yaml:"default_pane,omitempty"`             // bar, scatter, radar
}

// ChartConfig seeds the initial chart controls.
type ChartConfig struct {
	BarAttribute string `yaml:"bar_attribute,omitempty"`
	BarSort      string `yaml:"bar_sort,omitempty"` // count, label
	StatGroup    string `yaml:"stat_group,omitempty"`
}

// LoaderConfig controls dataset parsing.
type LoaderConfig struct {
	// Strict rejects the dataset on the first malformed numeric cell instead
	// of coercing it to NaN.
	Strict bool `yaml:"strict,omitempty" env:"DEXVIZ_STRICT"`
}

// Config is the top-level dv configuration.
type Config struct {
	Data   string       `yaml:"data,omitempty" env:"DEXVIZ_DATA"`
	Export ExportConfig `yaml:"export,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
	Charts ChartConfig  `yaml:"charts,omitempty"`
	Loader LoaderConfig `yaml:"loader,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Data: "data/pokemon.csv",
		Export: ExportConfig{
			Dir:    "charts",
			Format: "svg",
			Charts: []string{"bar", "scatter", "radar"},
		},
		UI: UIConfig{
			Theme:       "auto",
			DefaultPane: "bar",
		},
		Charts: ChartConfig{
			BarAttribute: "Type_1",
			BarSort:      "count",
			StatGroup:    "all",
		},
	}
}

// ConfigDir returns the XDG config directory for dv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dexviz")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dexviz")
}

// StateDir returns the XDG state directory for dv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "dexviz")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "dexviz")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the default config file and applies environment overrides.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		return cfg, ApplyEnv(&cfg)
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path, then applies environment overrides.
// A missing file is not an error.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.Data = expandHome(cfg.Data)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	return cfg, nil
}

// ApplyEnv overlays DEXVIZ_* variables onto cfg. Unset variables leave the
// existing values alone.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// WantsChart reports whether name is in the export chart list.
func (c Config) WantsChart(name string) bool {
	for _, ch := range c.Export.Charts {
		if strings.EqualFold(strings.TrimSpace(ch), name) {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
