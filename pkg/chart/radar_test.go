package chart

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/dexviz/pkg/loader"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/selection"
)

func statsOf(hp, atk, def, spa, spd, spe float64) map[string]float64 {
	return map[string]float64{
		"HP": hp, "Attack": atk, "Defense": def,
		"Sp_Atk": spa, "Sp_Def": spd, "Speed": spe,
	}
}

func TestAxisOrder(t *testing.T) {
	records := []model.Record{
		rec("A", "Fire", nil, statsOf(10, 80, 40, 60, 50, 100)),
		rec("B", "Fire", nil, statsOf(20, 60, 40, 80, 50, 90)),
	}
	got := AxisOrder(records, model.GroupAll)
	want := []model.Stat{model.StatSpeed, model.StatAttack, model.StatSpAttack, model.StatSpDefense, model.StatDefense, model.StatHP}
	// Attack and Sp_Atk tie at 70; canonical order puts Attack first.
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AxisOrder = %v, want %v", got, want)
	}

	got = AxisOrder(records, model.GroupDefense)
	want = []model.Stat{model.StatSpDefense, model.StatDefense, model.StatHP}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("defense AxisOrder = %v, want %v", got, want)
	}
}

func TestAxisOrderEmptyIsCanonical(t *testing.T) {
	if got := AxisOrder(nil, model.GroupOffense); !reflect.DeepEqual(got, model.GroupOffense.Stats()) {
		t.Errorf("AxisOrder(nil) = %v", got)
	}
}

func TestAxisOrderUndefinedLast(t *testing.T) {
	records := []model.Record{
		rec("A", "Fire", nil, statsOf(10, 20, 30, math.NaN(), 5, 1)),
	}
	got := AxisOrder(records, model.GroupAll)
	if got[len(got)-1] != model.StatSpAttack {
		t.Errorf("undefined stat should sort last: %v", got)
	}
}

func TestAxisOrderPermutationInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, selection.Capacity).Draw(t, "n")
		val := rapid.Float64Range(0, 255)
		records := make([]model.Record, n)
		for i := range records {
			records[i] = rec(
				string(rune('A'+i)), "Fire", nil,
				statsOf(val.Draw(t, "hp"), val.Draw(t, "atk"), val.Draw(t, "def"),
					val.Draw(t, "spa"), val.Draw(t, "spd"), val.Draw(t, "spe")),
			)
		}
		perm := rapid.Permutation(records).Draw(t, "perm")
		group := rapid.SampledFrom(model.StatGroups).Draw(t, "group")

		a := AxisOrder(records, group)
		b := AxisOrder(perm, group)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("order depends on sequence: %v vs %v", a, b)
		}
	})
}

func TestBuildRadar(t *testing.T) {
	ds := model.NewDataset([]model.Record{
		rec("Pikachu", "Electric", nil, statsOf(35, 55, 40, 50, 50, 90)),
		rec("Raichu", "Electric", nil, statsOf(60, 90, 55, 90, 80, 110)),
		rec("Chansey", "Normal", nil, statsOf(250, 5, 5, 35, 105, 50)),
	})
	entities := selection.NewEntitySet("Pokémon")
	r, _ := ds.ByName("Raichu")
	if _, err := entities.Toggle(r); err != nil {
		t.Fatal(err)
	}

	f := BuildRadar(ds, entities, RadarOptions{Group: model.GroupAll})
	if f.Width != RadarSize || f.Center != (Point{X: 250, Y: 250}) {
		t.Fatalf("frame geometry = %dx%d center %+v", f.Width, f.Height, f.Center)
	}
	if len(f.Spokes) != 6 || f.Spokes[0].Label != "Speed" {
		t.Fatalf("spokes = %+v", f.Spokes)
	}
	if !approx(f.Spokes[0].End.X, 250) || !approx(f.Spokes[0].End.Y, 70) {
		t.Errorf("first spoke end = %+v, want (250, 70)", f.Spokes[0].End)
	}
	if !strings.HasPrefix(f.Caption, "Stats: Speed, ") {
		t.Errorf("Caption = %q", f.Caption)
	}

	m, ok := f.Mark("Raichu")
	if !ok || m.Shape != ShapePolygon || len(m.Visual.Points) != 6 {
		t.Fatalf("mark = %+v", m)
	}
	if m.Visual.Fill != selection.Palette[0] || m.Visual.Opacity != RadarOpacity {
		t.Errorf("polygon style = %+v", m.Visual)
	}
	// Radial domain spans the whole dataset (Chansey's HP 250), so Raichu's
	// speed of 110 lands at 110/250 of the radius.
	wantY := 250 - 180*110.0/250
	if !approx(m.Visual.Points[0].Y, wantY) {
		t.Errorf("speed vertex y = %v, want %v", m.Visual.Points[0].Y, wantY)
	}
	if len(f.Legend) != 1 || f.Legend[0].Label != "Raichu (Electric)" {
		t.Errorf("Legend = %+v", f.Legend)
	}
	if !strings.Contains(m.Tooltip, "Speed: 110") {
		t.Errorf("Tooltip = %q", m.Tooltip)
	}
}

func TestBuildRadarEmpty(t *testing.T) {
	f := BuildRadar(model.NewDataset(nil), nil, RadarOptions{Group: model.GroupOffense})
	if len(f.Marks) != 0 {
		t.Errorf("expected no polygons")
	}
	if len(f.Spokes) != 3 || f.Spokes[0].Label != "Attack" {
		t.Errorf("spokes = %+v", f.Spokes)
	}
}

func TestBuildRadarIgnoresInfiniteCells(t *testing.T) {
	input := "Name,Type_1,HP,Attack,Defense,Sp_Atk,Sp_Def,Speed\n" +
		"A,Fire,inf,50,50,50,50,Infinity\n" +
		"B,Fire,100,80,60,40,20,90\n"
	ds, err := loader.ParseRecords(strings.NewReader(input), loader.ParseOptions{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatal(err)
	}
	entities := selection.NewEntitySet("Pokémon")
	b, _ := ds.ByName("B")
	if _, err := entities.Toggle(b); err != nil {
		t.Fatal(err)
	}

	f := BuildRadar(ds, entities, RadarOptions{Group: model.GroupAll})
	m, ok := f.Mark("B")
	if !ok || !m.Defined {
		t.Fatalf("mark = %+v", m)
	}
	spread := false
	for _, p := range m.Visual.Points {
		if !approx(p.X, f.Center.X) || !approx(p.Y, f.Center.Y) {
			spread = true
		}
	}
	if !spread {
		t.Fatalf("polygon collapsed to the center: %+v", m.Visual.Points)
	}
	// B's HP of 100 is the dataset maximum, so its vertex touches the rim.
	hp := spokeIndex(f.Spokes, "HP")
	if hp < 0 {
		t.Fatalf("no HP spoke in %+v", f.Spokes)
	}
	if d := math.Hypot(m.Visual.Points[hp].X-f.Center.X, m.Visual.Points[hp].Y-f.Center.Y); !approx(d, 180) {
		t.Errorf("HP vertex radius = %v, want 180", d)
	}
}

func spokeIndex(spokes []Spoke, label string) int {
	for i, s := range spokes {
		if s.Label == label {
			return i
		}
	}
	return -1
}
