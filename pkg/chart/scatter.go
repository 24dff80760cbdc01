package chart

import (
	"fmt"
	"math"

	"github.com/vanderheijden86/dexviz/pkg/metrics"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/selection"
)

// Scatter layout constants.
const (
	ScatterWidth  = 500
	ScatterHeight = 320
	PointRadius   = 5
	PointOpacity  = 0.7
)

// BuildScatter plots height against weight for records whose category is in
// types, colored by the category's selection color. Axis domains come from
// the visible records only. Records with a non-numeric coordinate keep a
// mark, flagged Defined=false, so their identity survives across frames.
func BuildScatter(ds model.Dataset, types *selection.Set, vp Viewport) Frame {
	defer metrics.Timer(metrics.ScatterFrame)()

	if types == nil {
		types = selection.NewSet("types")
	}
	margin := Margin{Top: 20, Right: 40, Bottom: 60, Left: 60}
	visible := ds.Filter(func(r model.Record) bool { return types.Has(r.Category) })

	xs := make([]float64, len(visible))
	ys := make([]float64, len(visible))
	for i, r := range visible {
		xs[i] = r.Value(model.ColHeight)
		ys[i] = r.Value(model.ColWeight)
	}
	x := Linear{R0: margin.Left, R1: ScatterWidth - margin.Right}
	y := Linear{R0: ScatterHeight - margin.Bottom, R1: margin.Top}
	if lo, hi, ok := Extent(xs); ok {
		x.D0, x.D1 = lo, hi
		x = x.Nice(10)
	}
	if lo, hi, ok := Extent(ys); ok {
		y.D0, y.D1 = lo, hi
		y = y.Nice(10)
	}

	if vp.K == 0 {
		vp = Identity
	}
	f := Frame{
		Kind:     KindScatter,
		Title:    "Height vs Weight",
		Width:    ScatterWidth,
		Height:   ScatterHeight,
		Margin:   margin,
		Timing:   ScatterTiming,
		Viewport: vp,
	}

	colors := types.Colors()
	for _, r := range visible {
		h, w := r.Value(model.ColHeight), r.Value(model.ColWeight)
		defined := finite(h) && finite(w)
		v := Visual{R: PointRadius, Fill: colors[r.Category], Opacity: PointOpacity}
		if defined {
			v.X, v.Y = x.Map(h), y.Map(w)
		}
		f.Marks = append(f.Marks, Mark{
			Key:     r.Name,
			Shape:   ShapeCircle,
			Defined: defined,
			Visual:  v,
			Tooltip: fmt.Sprintf("%s\nHeight: %s m\nWeight: %s kg", r.Name, formatValue(h), formatValue(w)),
			Data:    Values{h, w},
		})
	}

	for _, k := range types.Keys() {
		f.Legend = append(f.Legend, LegendEntry{Key: k, Label: k, Color: colors[k]})
	}

	f.XAxis = &Axis{Label: "Height (m)", Domain: [2]float64{x.D0, x.D1}, Pos: ScatterHeight - margin.Bottom, From: margin.Left, To: ScatterWidth - margin.Right, Ticks: axisTicks(x, 10)}
	f.YAxis = &Axis{Label: "Weight (kg)", Domain: [2]float64{y.D0, y.D1}, Pos: margin.Left, From: ScatterHeight - margin.Bottom, To: margin.Top, Ticks: axisTicks(y, 10)}
	return f
}

func axisTicks(s Linear, count int) []Tick {
	if s.D0 == s.D1 {
		return nil
	}
	var out []Tick
	for _, t := range s.Ticks(count) {
		out = append(out, Tick{Pos: s.Map(t), Label: FormatTick(t)})
	}
	return out
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "?"
	}
	return FormatTick(v)
}
