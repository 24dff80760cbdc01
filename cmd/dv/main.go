package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"

	"github.com/vanderheijden86/dexviz/internal/datasource"
	"github.com/vanderheijden86/dexviz/pkg/config"
	"github.com/vanderheijden86/dexviz/pkg/loader"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/version"
)

const usage = `Usage: dv [options] [command] [command options]

Interactive Pokémon charts: a bar chart of counts, a height/weight scatter
plot and a stat radar, linked through shared selections.

Commands:
  (none)   Open the control panel
  export   Render charts to SVG, PNG or JSON
  import   Convert a CSV dataset to SQLite
  presets  List named export presets

Options:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataPath := fs.String("data", "", "Dataset file (.csv, .db) or directory to search")
	configPath := fs.String("config", "", "Config file (default ~/.config/dexviz/config.yaml)")
	strict := fs.Bool("strict", false, "Reject the dataset on the first malformed number")
	cpuProfile := fs.String("cpu-profile", "", "Write CPU profile to file")
	help := fs.Bool("help", false, "Show help")
	versionFlag := fs.Bool("version", false, "Show version")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *help {
		fs.SetOutput(stdout)
		fs.Usage()
		return 0
	}
	if *versionFlag {
		fmt.Fprintf(stdout, "dv %s\n", version.Version)
		return 0
	}

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	// Flags override env override file.
	if *dataPath != "" {
		cfg.Data = *dataPath
	}
	if *strict {
		cfg.Loader.Strict = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rest := fs.Args()
	command := ""
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	switch command {
	case "":
		err = runTUI(ctx, cfg, stdout, stderr)
	case "export":
		err = runExport(ctx, cfg, rest, stdout, stderr)
	case "import":
		err = runImport(ctx, cfg, rest, stdout, stderr)
	case "presets":
		err = runPresets(rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", command)
		fs.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, context.Canceled):
		return 0
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// errUsage marks a bad command line; the flag set has already printed why.
var errUsage = errors.New("usage")

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// parseOptions routes loader warnings to stderr.
func parseOptions(cfg config.Config, stderr io.Writer) loader.ParseOptions {
	return loader.ParseOptions{
		Strict: cfg.Loader.Strict,
		WarningHandler: func(msg string) {
			fmt.Fprintf(stderr, "Warning: %s\n", msg)
		},
	}
}

// loadDataset loads cfg.Data. A directory is searched for the freshest
// valid dataset.
func loadDataset(ctx context.Context, cfg config.Config, stderr io.Writer) (model.Dataset, datasource.DataSource, error) {
	path := cfg.Data
	if path == "" {
		path = config.DefaultConfig().Data
	}
	opts := parseOptions(cfg, stderr)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return datasource.LoadBest(ctx, path, opts)
	}
	src, err := datasource.Detect(path)
	if err != nil {
		return model.Dataset{}, datasource.DataSource{}, err
	}
	ds, err := datasource.LoadFromSource(ctx, src, opts)
	return ds, src, err
}

// splitList parses a comma separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
