package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/dexviz/internal/datasource"
	"github.com/vanderheijden86/dexviz/pkg/chart"
	"github.com/vanderheijden86/dexviz/pkg/config"
	"github.com/vanderheijden86/dexviz/pkg/export"
	"github.com/vanderheijden86/dexviz/pkg/hooks"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/preset"
	"github.com/vanderheijden86/dexviz/pkg/session"
	"github.com/vanderheijden86/dexviz/pkg/watcher"
)

// exportJob is one `dv export` invocation: which charts to write and the
// control state to render them in.
type exportJob struct {
	save    export.SaveOptions
	charts  config.ChartConfig
	click   string
	types   []string
	names   []string
	noHooks bool
}

// build applies the job's controls to a fresh session, in the order a user
// would: bar settings, bar click, then explicit scatter and radar picks.
func (j exportJob) build(ds model.Dataset) (*session.Session, error) {
	s := session.New(ds)
	if err := s.ApplyConfig(j.charts); err != nil {
		return nil, err
	}
	if j.click != "" {
		if err := s.ClickBar(j.click); err != nil {
			return nil, err
		}
	}
	if len(j.types) > 0 {
		if err := s.ReplaceScatterTypes(j.types...); err != nil {
			return nil, err
		}
	}
	for _, name := range j.names {
		if _, err := s.ToggleRadarEntity(name); err != nil {
			return nil, err
		}
	}
	if len(j.names) > 0 && s.Radar.Type == "" {
		r, _ := ds.ByName(j.names[0])
		if err := s.SelectRadarType(r.Category); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// run renders every chart once and writes the requested ones.
func (j exportJob) run(ctx context.Context, ds model.Dataset) ([]string, error) {
	s, err := j.build(ds)
	if err != nil {
		return nil, err
	}
	return export.SaveCharts(ctx, s.Render(), j.save)
}

func runExport(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dv export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", cfg.Export.Dir, "Output directory")
	format := fs.String("format", cfg.Export.Format, "Output format: svg, png or json")
	charts := fs.String("charts", "", "Comma separated charts: bar, scatter, radar or all (default from config)")
	prefix := fs.String("prefix", "", "File name prefix")
	attr := fs.String("attr", cfg.Charts.BarAttribute, "Bar chart attribute")
	sortMode := fs.String("sort", cfg.Charts.BarSort, "Bar order: count or label")
	group := fs.String("group", cfg.Charts.StatGroup, "Radar stats: all, offense or defense")
	click := fs.String("click", "", "Click a bar; its label selects that type in scatter and radar")
	types := fs.String("types", "", "Comma separated scatter types (at most 5)")
	names := fs.String("names", "", "Comma separated Pokémon for the radar (at most 5)")
	watch := fs.Bool("watch", false, "Re-export whenever the dataset changes")
	wizard := fs.Bool("wizard", false, "Choose charts, format and directory interactively")
	noHooks := fs.Bool("no-hooks", false, "Skip hooks from .dexviz/hooks.yaml")
	presetName := fs.String("preset", "", "Start from a named preset (list them with: dv presets)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: dv export [options]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected argument %q\n", fs.Arg(0))
		return errUsage
	}
	if *presetName != "" {
		p, err := lookupPreset(*presetName, stderr)
		if err != nil {
			return err
		}
		applyPreset(fs, p, map[string]*string{
			"charts": charts,
			"format": format,
			"attr":   attr,
			"sort":   sortMode,
			"group":  group,
			"click":  click,
			"types":  types,
			"names":  names,
		})
	}

	chartNames := cfg.Export.Charts
	if *charts != "" {
		chartNames = splitList(*charts)
	}

	var save export.SaveOptions
	if *wizard {
		statePath := filepath.Join(config.StateDir(), "export-wizard.json")
		w := export.NewWizard(export.WizardConfig{Charts: chartNames, Format: *format, Dir: *out}, statePath)
		opts, err := w.Run()
		if err != nil {
			return err
		}
		save = opts
	} else {
		kinds, err := export.ParseCharts(chartNames)
		if err != nil {
			return err
		}
		f, err := export.ParseFormat(*format)
		if err != nil {
			return err
		}
		save = export.SaveOptions{Dir: *out, Format: f, Charts: kinds}
	}
	save.Prefix = *prefix

	job := exportJob{
		save:    save,
		charts:  config.ChartConfig{BarAttribute: *attr, BarSort: *sortMode, StatGroup: *group},
		click:   *click,
		types:   splitList(*types),
		names:   splitList(*names),
		noHooks: *noHooks,
	}

	ds, src, err := loadDataset(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	if err := exportOnce(ctx, job, ds, stdout, stderr); err != nil {
		return err
	}
	if !*watch {
		return nil
	}

	fmt.Fprintf(stdout, "Watching %s for changes (Ctrl+C to stop)\n", src.Path)
	opts := parseOptions(cfg, stderr)
	return watcher.Run(ctx, src.Path,
		func() error {
			ds, err := datasource.LoadFromSource(ctx, src, opts)
			if err != nil {
				return err
			}
			return exportOnce(ctx, job, ds, stdout, stderr)
		},
		func(err error) {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		},
	)
}

func lookupPreset(name string, stderr io.Writer) (*preset.Preset, error) {
	l, err := preset.LoadDefault()
	if err != nil {
		return nil, err
	}
	for _, w := range l.Warnings() {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}
	p := l.Get(name)
	if p == nil {
		return nil, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(l.Names(), ", "))
	}
	return p, nil
}

// applyPreset fills every flag the user did not set explicitly from p.
func applyPreset(fs *flag.FlagSet, p *preset.Preset, flags map[string]*string) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	values := map[string]string{
		"charts": strings.Join(p.Charts, ","),
		"format": p.Format,
		"attr":   p.BarAttribute,
		"sort":   p.BarSort,
		"group":  p.StatGroup,
		"click":  p.Click,
		"types":  strings.Join(p.Types, ","),
		"names":  strings.Join(p.Names, ","),
	}
	for name, dst := range flags {
		if v := values[name]; v != "" && !set[name] {
			*dst = v
		}
	}
}

func runPresets(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dv presets", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return errUsage
	}
	l, err := preset.LoadDefault()
	if err != nil {
		return err
	}
	for _, w := range l.Warnings() {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}
	width := 0
	for _, name := range l.Names() {
		width = max(width, runewidth.StringWidth(name))
	}
	for _, s := range l.ListSummaries() {
		fmt.Fprintf(stdout, "%s  %-7s  %s\n", runewidth.FillRight(s.Name, width), s.Source, s.Description)
	}
	return nil
}

// exportOnce writes the job's charts, wrapped in any configured hooks.
func exportOnce(ctx context.Context, job exportJob, ds model.Dataset, stdout, stderr io.Writer) error {
	kinds := job.save.Charts
	if len(kinds) == 0 {
		kinds = chart.Kinds
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	hookExec, err := hooks.RunHooks("", hooks.ExportContext{
		Dir:         job.save.Dir,
		Format:      string(job.save.Format),
		Charts:      names,
		RecordCount: ds.Len(),
		Timestamp:   time.Now(),
	}, job.noHooks)
	if err != nil {
		return err
	}
	if hookExec != nil {
		if err := hookExec.RunPreExport(ctx); err != nil {
			fmt.Fprintln(stderr, hookExec.Summary())
			return err
		}
	}

	paths, err := job.run(ctx, ds)
	if err != nil {
		return err
	}
	for i, p := range paths {
		if job.save.Format == export.FormatJSON || i >= len(kinds) {
			fmt.Fprintf(stdout, "Wrote %s\n", p)
			continue
		}
		fmt.Fprintf(stdout, "Wrote %s chart to %s\n", kinds[i], p)
	}

	if hookExec != nil {
		hookExec.SetFiles(paths)
		err := hookExec.RunPostExport(ctx)
		fmt.Fprintln(stderr, hookExec.Summary())
		return err
	}
	return nil
}
