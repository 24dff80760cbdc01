package chart

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/dexviz/pkg/model"
)

func rec(name, cat string, attrs map[string]string, nums map[string]float64) model.Record {
	return model.Record{Name: name, Category: cat, Attrs: attrs, Numbers: nums}
}

func TestAggregateScenario(t *testing.T) {
	records := []model.Record{
		rec("A", "", map[string]string{"cat": "Fire"}, map[string]float64{"HP": 10}),
		rec("B", "", map[string]string{"cat": "Fire"}, map[string]float64{"HP": 20}),
		rec("C", "", map[string]string{"cat": "Water"}, map[string]float64{"HP": 5}),
	}
	got := Aggregate(records, "cat", SortByCount)
	want := []BarDatum{{Label: "Fire", Count: 2}, {Label: "Water", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate = %v, want %v", got, want)
	}
}

func TestAggregateExcludesEmpty(t *testing.T) {
	records := []model.Record{
		rec("A", "Fire", map[string]string{model.ColType2: ""}, nil),
		rec("B", "Fire", map[string]string{model.ColType2: "Flying"}, nil),
		rec("C", "Water", nil, nil),
	}
	got := Aggregate(records, model.ColType2, SortByCount)
	want := []BarDatum{{Label: "Flying", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate = %v, want %v", got, want)
	}
}

func TestAggregateTiesKeepFirstSeen(t *testing.T) {
	records := []model.Record{
		rec("A", "Water", nil, nil),
		rec("B", "Fire", nil, nil),
		rec("C", "Grass", nil, nil),
		rec("D", "Grass", nil, nil),
	}
	got := Aggregate(records, model.ColType1, SortByCount)
	want := []BarDatum{{"Grass", 2}, {"Water", 1}, {"Fire", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate = %v, want %v", got, want)
	}
}

func TestAggregateByLabel(t *testing.T) {
	records := []model.Record{
		rec("A", "x", map[string]string{model.ColGen: "Generation 10"}, nil),
		rec("B", "x", map[string]string{model.ColGen: "Generation 9"}, nil),
		rec("C", "x", map[string]string{model.ColGen: "Generation 2"}, nil),
		rec("D", "x", map[string]string{model.ColGen: "Generation 2"}, nil),
	}
	got := Aggregate(records, model.ColGen, SortByLabel)
	var labels []string
	for _, d := range got {
		labels = append(labels, d.Label)
	}
	want := []string{"Generation 2", "Generation 9", "Generation 10"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestParseSortMode(t *testing.T) {
	if m, err := ParseSortMode("Label"); err != nil || m != SortByLabel {
		t.Errorf("ParseSortMode(Label) = %v, %v", m, err)
	}
	if m, err := ParseSortMode(""); err != nil || m != SortByCount {
		t.Errorf("ParseSortMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseSortMode("random"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if SortByCount.Toggle() != SortByLabel || SortByLabel.Toggle() != SortByCount {
		t.Error("Toggle should alternate")
	}
}

func TestBuildBar(t *testing.T) {
	records := []model.Record{
		rec("A", "Fire", nil, nil),
		rec("B", "Fire", nil, nil),
		rec("C", "Water", nil, nil),
	}
	f := BuildBar(records, BarOptions{Attribute: model.ColType1, Highlight: "Water"})

	if f.Kind != KindBar || f.Width != 800 || f.Height != 400 {
		t.Fatalf("unexpected frame header: %+v", f)
	}
	if f.Title != "Distribution of Pokémon by Type_1" {
		t.Errorf("Title = %q", f.Title)
	}
	if got := f.Keys(); !reflect.DeepEqual(got, []string{"Fire", "Water"}) {
		t.Fatalf("Keys = %v", got)
	}

	fire, _ := f.Mark("Fire")
	water, _ := f.Mark("Water")
	if fire.Visual.Fill != BarFill || water.Visual.Fill != BarHighlight {
		t.Errorf("fills = %s, %s", fire.Visual.Fill, water.Visual.Fill)
	}
	if fire.Visual.H <= water.Visual.H {
		t.Errorf("Fire bar (%v) should be taller than Water (%v)", fire.Visual.H, water.Visual.H)
	}
	if fire.Visual.Y+fire.Visual.H != 340 {
		t.Errorf("bar bottom = %v, want baseline 340", fire.Visual.Y+fire.Visual.H)
	}
	if fire.Tooltip != "Fire\nCount: 2" {
		t.Errorf("Tooltip = %q", fire.Tooltip)
	}
	if f.XAxis == nil || f.XAxis.Rotate != -40 || len(f.XAxis.Ticks) != 2 {
		t.Errorf("x axis = %+v", f.XAxis)
	}
	for _, tk := range f.YAxis.Ticks {
		if tk.Label == "0.5" || tk.Label == "1.5" {
			t.Errorf("y axis has fractional tick %q", tk.Label)
		}
	}
}

func TestBuildBarEmpty(t *testing.T) {
	f := BuildBar(nil, BarOptions{})
	if len(f.Marks) != 0 {
		t.Errorf("expected no marks, got %d", len(f.Marks))
	}
	if f.Title != "Distribution of Pokémon by Type_1" {
		t.Errorf("default attribute not applied: %q", f.Title)
	}
}
