package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vanderheijden86/dexviz/internal/datasource"
	"github.com/vanderheijden86/dexviz/pkg/config"
)

// runImport copies a CSV dataset into a SQLite table and verifies the copy
// reads back identically.
func runImport(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dv import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "SQLite file to write (default: the CSV path with a .db extension)")
	force := fs.Bool("force", false, "Overwrite an existing output file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: dv import [options] [CSV]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return errUsage
	}

	in := cfg.Data
	if fs.NArg() > 0 {
		in = fs.Arg(0)
	}
	src, err := datasource.Detect(in)
	if err != nil {
		return err
	}
	if src.Type != datasource.SourceTypeCSV {
		return fmt.Errorf("%s is not a CSV file", src.Path)
	}

	dst := *out
	if dst == "" {
		dst = strings.TrimSuffix(src.Path, ".csv") + ".db"
	}
	if _, err := os.Stat(dst); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", dst)
	}

	opts := parseOptions(cfg, stderr)
	ds, err := datasource.LoadFromSource(ctx, src, opts)
	if err != nil {
		return err
	}
	if err := datasource.WriteSQLite(ctx, dst, ds); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	written, err := datasource.Detect(dst)
	if err != nil {
		return err
	}
	opts.WarningHandler = func(string) {}
	back, err := datasource.LoadFromSource(ctx, written, opts)
	if err != nil {
		return fmt.Errorf("verify %s: %w", dst, err)
	}
	if diff := datasource.CompareDatasets(src.Path, ds, dst, back); diff.HasInconsistencies() {
		fmt.Fprintln(stderr, diff.Summary())
		return errors.New("imported data does not match the CSV")
	}

	fmt.Fprintf(stdout, "Imported %d records into %s (table %s)\n", ds.Len(), dst, datasource.TableName)
	return nil
}
