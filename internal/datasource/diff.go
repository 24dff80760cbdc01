package datasource

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vanderheijden86/dexviz/pkg/model"
)

// SourceDiff represents differences between two loaded datasets
type SourceDiff struct {
	SourceA string
	SourceB string
	// MissingInA contains names present in B but not in A
	MissingInA []string
	// MissingInB contains names present in A but not in B
	MissingInB []string
	// ValueMismatch lists records whose fields differ
	ValueMismatch []ValueDifference
	CountA        int
	CountB        int
}

// ValueDifference is one differing field of one record.
type ValueDifference struct {
	Name   string `json:"name"`
	Column string `json:"column"`
	ValueA string `json:"value_a"`
	ValueB string `json:"value_b"`
}

// HasInconsistencies returns true if there are any differences between sources
func (d SourceDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.ValueMismatch) > 0
}

// Summary returns a human-readable summary of the differences
func (d SourceDiff) Summary() string {
	if !d.HasInconsistencies() {
		return fmt.Sprintf("Sources match (%d records each)", d.CountA)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)
	if d.CountA != d.CountB {
		fmt.Fprintf(&b, "  - Count mismatch: %d vs %d\n", d.CountA, d.CountB)
	}
	listNames(&b, d.MissingInA, fmt.Sprintf("records in %s but not %s", d.SourceB, d.SourceA))
	listNames(&b, d.MissingInB, fmt.Sprintf("records in %s but not %s", d.SourceA, d.SourceB))
	if len(d.ValueMismatch) > 0 {
		fmt.Fprintf(&b, "  - %d differing values\n", len(d.ValueMismatch))
		if len(d.ValueMismatch) <= 5 {
			for _, m := range d.ValueMismatch {
				fmt.Fprintf(&b, "    - %s.%s: %q vs %q\n", m.Name, m.Column, m.ValueA, m.ValueB)
			}
		}
	}
	return b.String()
}

func listNames(b *strings.Builder, names []string, what string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "  - %d %s\n", len(names), what)
	if len(names) <= 5 {
		for _, n := range names {
			fmt.Fprintf(b, "    - %s\n", n)
		}
	}
}

// CompareDatasets diffs two datasets by name. Numeric fields compare by
// value with NaN equal to NaN; other fields compare as text.
func CompareDatasets(nameA string, a model.Dataset, nameB string, b model.Dataset) SourceDiff {
	d := SourceDiff{SourceA: nameA, SourceB: nameB, CountA: a.Len(), CountB: b.Len()}

	for _, ra := range a.Records() {
		rb, ok := b.ByName(ra.Name)
		if !ok {
			d.MissingInB = append(d.MissingInB, ra.Name)
			continue
		}
		d.ValueMismatch = append(d.ValueMismatch, compareRecords(ra, rb)...)
	}
	for _, rb := range b.Records() {
		if _, ok := a.ByName(rb.Name); !ok {
			d.MissingInA = append(d.MissingInA, rb.Name)
		}
	}
	return d
}

func compareRecords(a, b model.Record) []ValueDifference {
	var out []ValueDifference
	if a.Category != b.Category {
		out = append(out, ValueDifference{Name: a.Name, Column: model.ColType1, ValueA: a.Category, ValueB: b.Category})
	}

	numeric := make(map[string]bool)
	for _, c := range model.NumericColumns {
		numeric[c] = true
	}
	cols := make(map[string]bool)
	for k := range a.Attrs {
		cols[k] = true
	}
	for k := range b.Attrs {
		cols[k] = true
	}
	keys := make([]string, 0, len(cols))
	for k := range cols {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if numeric[k] {
			va, vb := a.Value(k), b.Value(k)
			if va == vb || (math.IsNaN(va) && math.IsNaN(vb)) {
				continue
			}
		} else if a.Attrs[k] == b.Attrs[k] {
			continue
		}
		out = append(out, ValueDifference{Name: a.Name, Column: k, ValueA: a.Attrs[k], ValueB: b.Attrs[k]})
	}
	return out
}
