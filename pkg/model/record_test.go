package model

import (
	"math"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{Name: "Bulbasaur", Category: "Grass", Attrs: map[string]string{ColType2: "Poison"}, Numbers: map[string]float64{"HP": 45}},
		{Name: "Charmander", Category: "Fire", Attrs: map[string]string{ColType2: ""}, Numbers: map[string]float64{"HP": 39}},
		{Name: "Squirtle", Category: "Water", Numbers: map[string]float64{"HP": 44}},
		{Name: "Charmander", Category: "Fire"},
	}
}

func TestNewDatasetSkipsDuplicates(t *testing.T) {
	ds := NewDataset(sampleRecords())
	if ds.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", ds.Len())
	}
	r, ok := ds.ByName("Charmander")
	if !ok {
		t.Fatal("expected Charmander to be indexed")
	}
	if r.Stat(StatHP) != 39 {
		t.Errorf("expected first Charmander to win, got HP %v", r.Stat(StatHP))
	}
}

func TestCategoriesSortedAndDistinct(t *testing.T) {
	ds := NewDataset(sampleRecords())
	got := ds.Categories()
	want := []string{"Fire", "Grass", "Water"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestDistinctExcludesEmpty(t *testing.T) {
	ds := NewDataset(sampleRecords())
	got := ds.Distinct(ColType2)
	if len(got) != 1 || got[0] != "Poison" {
		t.Errorf("expected [Poison], got %v", got)
	}
}

func TestValueMissingIsNaN(t *testing.T) {
	r := Record{Name: "x"}
	if !math.IsNaN(r.Value(ColHeight)) {
		t.Error("expected NaN for missing numeric field")
	}
}

func TestStatGroups(t *testing.T) {
	if n := len(GroupAll.Stats()); n != 6 {
		t.Errorf("expected 6 stats for all, got %d", n)
	}
	off := GroupOffense.Stats()
	if off[0] != StatAttack || off[1] != StatSpAttack || off[2] != StatSpeed {
		t.Errorf("unexpected offense order %v", off)
	}
	def := GroupDefense.Stats()
	if def[0] != StatDefense || def[1] != StatSpDefense || def[2] != StatHP {
		t.Errorf("unexpected defense order %v", def)
	}
	if GroupDefense.Next() != GroupAll {
		t.Errorf("expected defense to cycle to all")
	}
	if _, err := ParseStatGroup("bogus"); err == nil {
		t.Error("expected error for unknown group")
	}
	if g, _ := ParseStatGroup("OFFENSE"); g != GroupOffense {
		t.Errorf("expected offense, got %v", g)
	}
}

func TestMaxOfIgnoresNaN(t *testing.T) {
	ds := NewDataset([]Record{
		{Name: "a", Numbers: map[string]float64{"HP": math.NaN(), "Speed": 12}},
		{Name: "b", Numbers: map[string]float64{"HP": 30}},
	})
	if got := ds.MaxOf([]Stat{StatHP, StatSpeed}); got != 30 {
		t.Errorf("expected 30, got %v", got)
	}

	ds = NewDataset([]Record{
		{Name: "a", Numbers: map[string]float64{"HP": math.Inf(1)}},
		{Name: "b", Numbers: map[string]float64{"HP": 30}},
	})
	if got := ds.MaxOf([]Stat{StatHP}); got != 30 {
		t.Errorf("infinite HP should be ignored: got %v", got)
	}
}
