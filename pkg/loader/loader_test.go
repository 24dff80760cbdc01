package loader_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/dexviz/pkg/loader"
	"github.com/vanderheijden86/dexviz/pkg/model"
)

const sampleCSV = `Number,Name,Type_1,Type_2,HP,Attack,Defense,Sp_Atk,Sp_Def,Speed,Color,Height_m,Weight_kg
1,Bulbasaur,Grass,Poison,45,49,49,65,65,45,Green,0.71,6.9
4,Charmander,Fire,,39,52,43,60,50,65,Red,0.61,8.5
7,Squirtle,Water,,44,48,65,50,64,43,Blue,0.51,9
`

func collect() (*[]string, func(string)) {
	var msgs []string
	return &msgs, func(m string) { msgs = append(msgs, m) }
}

func TestParseRecordsBasic(t *testing.T) {
	warnings, warn := collect()
	ds, err := loader.ParseRecords(strings.NewReader(sampleCSV), loader.ParseOptions{WarningHandler: warn})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", ds.Len())
	}
	if len(*warnings) != 0 {
		t.Errorf("expected no warnings, got %v", *warnings)
	}

	r := ds.At(1)
	if r.Name != "Charmander" || r.Category != "Fire" {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Stat(model.StatSpeed) != 65 {
		t.Errorf("expected Speed 65, got %v", r.Stat(model.StatSpeed))
	}
	if r.Value(model.ColHeight) != 0.61 {
		t.Errorf("expected height 0.61, got %v", r.Value(model.ColHeight))
	}
	if r.Attr(model.ColType2) != "" {
		t.Errorf("expected empty Type_2, got %q", r.Attr(model.ColType2))
	}
	if r.Attr(model.ColColor) != "Red" {
		t.Errorf("expected Color Red, got %q", r.Attr(model.ColColor))
	}
}

func TestParseRecordsStripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBF" + sampleCSV
	ds, err := loader.ParseRecords(strings.NewReader(input), loader.ParseOptions{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ds.ByName("Bulbasaur"); !ok {
		t.Error("expected Name column to be found after BOM strip")
	}
}

func TestParseRecordsMalformedNumberIsNaN(t *testing.T) {
	input := "Name,Type_1,HP,Height_m\nMissingno,Bird,abc,\n"
	warnings, warn := collect()
	ds, err := loader.ParseRecords(strings.NewReader(input), loader.ParseOptions{WarningHandler: warn})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := ds.At(0)
	if !math.IsNaN(r.Stat(model.StatHP)) {
		t.Errorf("expected NaN HP, got %v", r.Stat(model.StatHP))
	}
	if !math.IsNaN(r.Value(model.ColHeight)) {
		t.Errorf("expected NaN height, got %v", r.Value(model.ColHeight))
	}
	if len(*warnings) != 2 {
		t.Errorf("expected 2 coercion warnings, got %v", *warnings)
	}
}

func TestParseRecordsStrict(t *testing.T) {
	input := "Name,Type_1,HP\nMissingno,Bird,abc\n"
	_, err := loader.ParseRecords(strings.NewReader(input), loader.ParseOptions{Strict: true})
	var cellErr *loader.MalformedCellError
	if !errors.As(err, &cellErr) {
		t.Fatalf("expected MalformedCellError, got %v", err)
	}
	if cellErr.Line != 2 || cellErr.Column != "HP" {
		t.Errorf("unexpected error detail %+v", cellErr)
	}
}

func TestParseRecordsNonFiniteIsMalformed(t *testing.T) {
	input := "Name,Type_1,HP,Attack,Speed\nMissingno,Bird,inf,Infinity,NaN\nPidgey,Normal,40,45,56\n"
	warnings, warn := collect()
	ds, err := loader.ParseRecords(strings.NewReader(input), loader.ParseOptions{WarningHandler: warn})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := ds.At(0)
	for _, s := range []model.Stat{model.StatHP, model.StatAttack, model.StatSpeed} {
		if !math.IsNaN(r.Stat(s)) {
			t.Errorf("%s = %v, want NaN", s, r.Stat(s))
		}
	}
	if len(*warnings) != 3 {
		t.Errorf("expected 3 coercion warnings, got %v", *warnings)
	}
	if got := ds.MaxOf([]model.Stat{model.StatHP}); got != 40 {
		t.Errorf("MaxOf(HP) = %v, want 40", got)
	}

	_, err = loader.ParseRecords(strings.NewReader(input), loader.ParseOptions{Strict: true})
	var cellErr *loader.MalformedCellError
	if !errors.As(err, &cellErr) || cellErr.Column != "HP" || cellErr.Value != "inf" {
		t.Fatalf("strict: expected MalformedCellError for HP=inf, got %v", err)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"45", 45, true},
		{" 0.61 ", 0.61, true},
		{"-3e2", -300, true},
		{"", 0, false},
		{"abc", 0, false},
		{"inf", 0, false},
		{"-Infinity", 0, false},
		{"NaN", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		got, ok := loader.ParseNumber(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseNumber(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok && !math.IsNaN(got) {
			t.Errorf("ParseNumber(%q) = %v, want NaN", tt.in, got)
		}
		if ok && got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRecordsSkipsEmptyAndDuplicateNames(t *testing.T) {
	input := "Name,Type_1,HP\n,Fire,1\nA,Fire,2\nA,Water,3\nB,Water,4\n"
	warnings, warn := collect()
	ds, err := loader.ParseRecords(strings.NewReader(input), loader.ParseOptions{WarningHandler: warn})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", ds.Len())
	}
	if len(*warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", *warnings)
	}
	a, _ := ds.ByName("A")
	if a.Category != "Fire" {
		t.Errorf("expected first A to win, got %q", a.Category)
	}
}

func TestParseRecordsShortRowsPadded(t *testing.T) {
	input := "Name,Type_1,HP,Speed\nA,Fire\n"
	ds, err := loader.ParseRecords(strings.NewReader(input), loader.ParseOptions{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(ds.At(0).Stat(model.StatSpeed)) {
		t.Error("expected missing trailing cell to coerce to NaN")
	}
}

func TestParseRecordsNoNameColumn(t *testing.T) {
	_, err := loader.ParseRecords(strings.NewReader("Id,Type_1\n1,Fire\n"), loader.ParseOptions{})
	if !errors.Is(err, loader.ErrNoNameColumn) {
		t.Errorf("expected ErrNoNameColumn, got %v", err)
	}
}

func TestParseRecordsEmptyInput(t *testing.T) {
	if _, err := loader.ParseRecords(strings.NewReader(""), loader.ParseOptions{}); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := loader.LoadFile(path, loader.ParseOptions{})
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("expected 3 records, got %d", ds.Len())
	}

	if _, err := loader.LoadFile(filepath.Join(t.TempDir(), "missing.csv"), loader.ParseOptions{}); err == nil {
		t.Error("expected error for missing file")
	}
}
