// Package preset provides named chart setups for `dv export --preset`.
//
// Presets are merged from three layers, later layers replacing whole
// presets of the same name:
//   - builtin presets compiled into the binary
//   - user presets in ~/.config/dexviz/presets.yaml
//   - project presets in .dexviz/presets.yaml
//
// A preset set to null in a later layer removes it.
package preset

import "github.com/vanderheijden86/dexviz/pkg/config"

// Preset is a reusable set of export controls. Empty fields leave the
// corresponding control alone.
type Preset struct {
	Name        string   `yaml:"-" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Charts      []string `yaml:"charts,omitempty" json:"charts,omitempty"`
	Format      string   `yaml:"format,omitempty" json:"format,omitempty"`

	BarAttribute string `yaml:"bar_attribute,omitempty" json:"bar_attribute,omitempty"`
	BarSort      string `yaml:"bar_sort,omitempty" json:"bar_sort,omitempty"`
	StatGroup    string `yaml:"stat_group,omitempty" json:"stat_group,omitempty"`

	// Click is a bar key clicked before Types and Names are applied.
	Click string   `yaml:"click,omitempty" json:"click,omitempty"`
	Types []string `yaml:"types,omitempty" json:"types,omitempty"`
	Names []string `yaml:"names,omitempty" json:"names,omitempty"`
}

// ChartConfig returns the preset's bar and radar controls.
func (p Preset) ChartConfig() config.ChartConfig {
	return config.ChartConfig{
		BarAttribute: p.BarAttribute,
		BarSort:      p.BarSort,
		StatGroup:    p.StatGroup,
	}
}

// File is the on-disk layout of a presets file.
type File struct {
	Presets map[string]*Preset `yaml:"presets"`
}

// Summary is a listing row.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}
