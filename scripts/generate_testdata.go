//go:build ignore

// generate_testdata.go writes synthetic datasets for benchmarking the
// loader and charts.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	data/bench/small.csv   (100 records)
//	data/bench/medium.csv  (1000 records)
//	data/bench/large.csv   (10000 records, 5% missing cells)
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/dexviz/pkg/testutil"
)

type datasetSpec struct {
	name    string
	size    int
	missing float64
}

var datasets = []datasetSpec{
	{"small", 100, 0},
	{"medium", 1000, 0.01},
	{"large", 10000, 0.05},
}

func main() {
	outputDir := filepath.Join("data", "bench")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d records)...\n", ds.name, ds.size)
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:        int64(ds.size),
			NamePrefix:  "Bench",
			MissingRate: ds.missing,
		})

		var buf bytes.Buffer
		if err := testutil.WriteCSV(&buf, gen.Records(ds.size)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.name, err)
			os.Exit(1)
		}
		path := filepath.Join(outputDir, ds.name+".csv")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes)\n", path, buf.Len())
	}
}
