package testutil

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vanderheijden86/dexviz/pkg/chart"
	"github.com/vanderheijden86/dexviz/pkg/model"
)

// MarkKeys returns the keys of f's marks in draw order.
func MarkKeys(f chart.Frame) []string {
	keys := make([]string, len(f.Marks))
	for i, m := range f.Marks {
		keys[i] = m.Key
	}
	return keys
}

// AssertMarkKeys fails unless f draws exactly want, in order.
func AssertMarkKeys(t *testing.T, f chart.Frame, want ...string) {
	t.Helper()
	if got := MarkKeys(f); !reflect.DeepEqual(got, want) {
		t.Errorf("%s marks = %v, want %v", f.Kind, got, want)
	}
}

// AssertUniqueKeys fails if any two marks of f share a key.
func AssertUniqueKeys(t *testing.T, f chart.Frame) {
	t.Helper()
	seen := make(map[string]bool, len(f.Marks))
	for _, m := range f.Marks {
		if seen[m.Key] {
			t.Errorf("%s: duplicate mark key %q", f.Kind, m.Key)
		}
		seen[m.Key] = true
	}
}

// AssertFloatEqual compares with tolerance, treating two NaNs as equal.
func AssertFloatEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.IsNaN(want) {
		if !math.IsNaN(got) {
			t.Errorf("%s = %v, want NaN", name, got)
		}
		return
	}
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// CountByCategory tallies records per Type_1.
func CountByCategory(records []model.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Category]++
	}
	return counts
}

// WriteDataset writes records as pokemon.csv under a fresh temp dir and
// returns the file path.
func WriteDataset(t *testing.T, records []model.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	if err := os.WriteFile(path, []byte(ToCSV(records)), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}
