package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/dexviz/pkg/chart"
)

// WizardConfig is the set of answers the export wizard collects. The last
// answers are saved and offered as defaults on the next run.
type WizardConfig struct {
	Charts []string `json:"charts"`
	Format string   `json:"format"`
	Dir    string   `json:"dir"`
}

// Options converts the answers into SaveOptions.
func (c WizardConfig) Options() (SaveOptions, error) {
	kinds, err := ParseCharts(c.Charts)
	if err != nil {
		return SaveOptions{}, err
	}
	if len(kinds) == 0 {
		return SaveOptions{}, fmt.Errorf("no charts selected")
	}
	format, err := ParseFormat(c.Format)
	if err != nil {
		return SaveOptions{}, err
	}
	return SaveOptions{Dir: c.Dir, Format: format, Charts: kinds}, nil
}

// Wizard handles the interactive export flow.
type Wizard struct {
	config    *WizardConfig
	statePath string
	out       io.Writer
}

// NewWizard creates a wizard seeded with defaults. statePath, when set, is
// where previous answers are loaded from and saved to.
func NewWizard(defaults WizardConfig, statePath string) *Wizard {
	cfg := defaults
	if saved, err := LoadWizardConfig(statePath); err == nil && saved != nil {
		cfg = *saved
	}
	return &Wizard{config: &cfg, statePath: statePath, out: os.Stdout}
}

// IsTerminal checks if stdin is connected to a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !IsTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run asks for charts, format and directory, saves the answers and
// returns the resulting options.
func (w *Wizard) Run() (SaveOptions, error) {
	fmt.Fprintln(w.out, "")
	fmt.Fprintln(w.out, "dv → Chart Export")
	fmt.Fprintln(w.out, "─────────────────")

	chartOpts := make([]huh.Option[string], len(chart.Kinds))
	for i, k := range chart.Kinds {
		chartOpts[i] = huh.NewOption(strings.ToUpper(string(k[:1]))+string(k[1:]), string(k))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Charts to export").
				Options(chartOpts...).
				Value(&w.config.Charts),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("SVG (vector, tooltips)", string(FormatSVG)),
					huh.NewOption("PNG (raster)", string(FormatPNG)),
					huh.NewOption("JSON (frames and transitions)", string(FormatJSON)),
				).
				Value(&w.config.Format),
			huh.NewInput().
				Title("Output directory").
				Value(&w.config.Dir).
				Placeholder("charts"),
		),
	)
	if err := form.Run(); err != nil {
		return SaveOptions{}, err
	}
	if w.config.Dir == "" {
		w.config.Dir = "charts"
	}

	opts, err := w.config.Options()
	if err != nil {
		return SaveOptions{}, err
	}
	if w.statePath != "" {
		if err := SaveWizardConfig(w.statePath, w.config); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save wizard answers: %v\n", err)
		}
	}
	return opts, nil
}

// GetConfig returns the current answers.
func (w *Wizard) GetConfig() *WizardConfig {
	return w.config
}

// LoadWizardConfig loads previously saved answers. A missing file is not an
// error and yields nil.
func LoadWizardConfig(path string) (*WizardConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("could not determine wizard state path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var config WizardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveWizardConfig saves answers for future runs.
func SaveWizardConfig(path string, config *WizardConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
