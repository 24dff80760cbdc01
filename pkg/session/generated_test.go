package session

import (
	"testing"

	"github.com/vanderheijden86/dexviz/pkg/chart"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/testutil"
)

func TestScatterMarksMatchSelectedTypes(t *testing.T) {
	recs := testutil.NewDefault().Skewed(300, "Fire", 0.4)
	s := New(model.NewDataset(recs))
	if err := s.ReplaceScatterTypes("Fire", "Water"); err != nil {
		t.Fatal(err)
	}

	f := s.Render().Scatter
	counts := testutil.CountByCategory(recs)
	if want := counts["Fire"] + counts["Water"]; len(f.Marks) != want {
		t.Fatalf("scatter has %d marks, want %d", len(f.Marks), want)
	}
	testutil.AssertUniqueKeys(t, f)
}

func BenchmarkRender(b *testing.B) {
	s := New(testutil.QuickDataset(2000))
	if err := s.ClickBar("Fire"); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Render()
	}
}

func BenchmarkRenderToggleTypes(b *testing.B) {
	s := New(testutil.QuickDataset(2000))
	types := []string{"Fire", "Water", "Grass", "Bug", "Rock"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.ToggleScatterType(types[i%len(types)]); err != nil {
			b.Fatal(err)
		}
		s.RenderChart(chart.KindScatter)
	}
}
