package chart

import (
	"math"
	"reflect"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinearNice(t *testing.T) {
	tests := []struct {
		name   string
		d0, d1 float64
		want0  float64
		want1  float64
	}{
		{"counts", 0, 47, 0, 50},
		{"small", 0, 3, 0, 3},
		{"fractional", 0.12, 0.87, 0.1, 0.9},
		{"reversed", 47, 0, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Linear{D0: tt.d0, D1: tt.d1}.Nice(10)
			if !approx(s.D0, tt.want0) || !approx(s.D1, tt.want1) {
				t.Errorf("Nice(%v, %v) = [%v, %v], want [%v, %v]", tt.d0, tt.d1, s.D0, s.D1, tt.want0, tt.want1)
			}
		})
	}
}

func TestLinearTicks(t *testing.T) {
	got := Linear{D0: 0, D1: 50}.Ticks(10)
	want := []float64{0, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ticks = %v, want %v", got, want)
	}
	if got := (Linear{D0: 2, D1: 2}).Ticks(10); !reflect.DeepEqual(got, []float64{2}) {
		t.Errorf("degenerate Ticks = %v", got)
	}
	if got := (Linear{D0: 0, D1: 1}).Ticks(0); got != nil {
		t.Errorf("zero count Ticks = %v, want nil", got)
	}
}

func TestLinearMap(t *testing.T) {
	s := Linear{D0: 0, D1: 10, R0: 340, R1: 40}
	if got := s.Map(5); !approx(got, 190) {
		t.Errorf("Map(5) = %v, want 190", got)
	}
	flat := Linear{D0: 3, D1: 3, R0: 0, R1: 100}
	if got := flat.Map(3); got != 50 {
		t.Errorf("degenerate Map = %v, want midpoint 50", got)
	}
}

func TestBand(t *testing.T) {
	b := NewBand([]string{"a", "b", "c"}, 0, 100, 0.2)
	if !approx(b.Bandwidth(), 25) {
		t.Errorf("Bandwidth = %v, want 25", b.Bandwidth())
	}
	for label, want := range map[string]float64{"a": 6.25, "b": 37.5, "c": 68.75} {
		got, ok := b.Map(label)
		if !ok || !approx(got, want) {
			t.Errorf("Map(%q) = %v, %v; want %v", label, got, ok, want)
		}
	}
	if _, ok := b.Map("missing"); ok {
		t.Error("Map of unknown label should report false")
	}
}

func TestExtent(t *testing.T) {
	lo, hi, ok := Extent([]float64{math.NaN(), 3, 1, math.Inf(1), 2})
	if !ok || lo != 1 || hi != 3 {
		t.Errorf("Extent = %v, %v, %v; want 1, 3, true", lo, hi, ok)
	}
	if _, _, ok := Extent([]float64{math.NaN()}); ok {
		t.Error("Extent of all-NaN should not be ok")
	}
	if _, _, ok := Extent(nil); ok {
		t.Error("Extent of nil should not be ok")
	}
}

func TestFormatTick(t *testing.T) {
	for v, want := range map[float64]string{10: "10", 2.5: "2.5", 0.1: "0.1", -40: "-40"} {
		if got := FormatTick(v); got != want {
			t.Errorf("FormatTick(%v) = %q, want %q", v, got, want)
		}
	}
}
