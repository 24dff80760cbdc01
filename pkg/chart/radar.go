package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/dexviz/pkg/metrics"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/selection"
)

// Radar layout constants.
const (
	RadarSize    = 500
	RadarRadius  = 180
	RadarOpacity = 0.3
	RadarStroke  = 2
)

// AxisOrder returns group's stats sorted by descending mean over records.
// The mean of each stat is taken over its sorted finite values, so the
// order depends only on the set of records, not their sequence. Stats with
// no finite value sort last; ties keep canonical order.
func AxisOrder(records []model.Record, group model.StatGroup) []model.Stat {
	stats := group.Stats()
	means := make(map[model.Stat]float64, len(stats))
	for _, s := range stats {
		vals := make([]float64, 0, len(records))
		for _, r := range records {
			if v := r.Stat(s); finite(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			means[s] = math.NaN()
			continue
		}
		sort.Float64s(vals)
		means[s] = stat.Mean(vals, nil)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		mi, mj := means[stats[i]], means[stats[j]]
		switch {
		case math.IsNaN(mi):
			return false
		case math.IsNaN(mj):
			return true
		}
		return mi > mj
	})
	return stats
}

// RadarOptions configures the radar chart.
type RadarOptions struct {
	Group model.StatGroup
	// Max is the outer radius value. Zero means the maximum of the group's
	// stats across all records passed to BuildRadar's dataset.
	Max float64
}

// BuildRadar draws one polygon per selected entity over the group's stats.
// The radial scale spans [0, max over the whole dataset] so polygons keep
// their size as the selection changes; axis order follows AxisOrder over
// the selected entities.
func BuildRadar(ds model.Dataset, entities *selection.EntitySet, opts RadarOptions) Frame {
	defer metrics.Timer(metrics.RadarFrame)()

	if entities == nil {
		entities = selection.NewEntitySet("Pokémon")
	}
	selected := entities.Records()
	axes := AxisOrder(selected, opts.Group)

	maxV := opts.Max
	if maxV <= 0 {
		maxV = ds.MaxOf(opts.Group.Stats())
	}
	r := Linear{D0: 0, D1: maxV, R0: 0, R1: RadarRadius}
	center := Point{X: RadarSize / 2, Y: RadarSize / 2}

	f := Frame{
		Kind:     KindRadar,
		Title:    opts.Group.String() + " stats",
		Width:    RadarSize,
		Height:   RadarSize,
		Center:   center,
		Timing:   RadarTiming,
		Viewport: Identity,
	}

	names := make([]string, len(axes))
	for i, s := range axes {
		names[i] = string(s)
		f.Spokes = append(f.Spokes, Spoke{Label: string(s), End: polar(center, RadarRadius, i, len(axes))})
	}
	f.Caption = "Stats: " + strings.Join(names, ", ")

	colors := entities.Colors()
	for _, rec := range selected {
		pts := make([]Point, len(axes))
		vals := make([]float64, len(axes))
		defined := true
		lines := []string{fmt.Sprintf("%s (%s)", rec.Name, rec.Category)}
		for i, s := range axes {
			v := rec.Stat(s)
			vals[i] = v
			if !finite(v) {
				defined = false
				v = 0
			}
			pts[i] = polar(center, r.Map(v), i, len(axes))
			lines = append(lines, fmt.Sprintf("%s: %s", s, formatValue(rec.Stat(s))))
		}
		color := colors[rec.Name]
		f.Marks = append(f.Marks, Mark{
			Key:     rec.Name,
			Shape:   ShapePolygon,
			Defined: defined,
			Tooltip: strings.Join(lines, "\n"),
			Data:    vals,
			Visual: Visual{
				Points:  pts,
				Fill:    color,
				Stroke:  color,
				Opacity: RadarOpacity,
			},
		})
		f.Legend = append(f.Legend, LegendEntry{Key: rec.Name, Label: fmt.Sprintf("%s (%s)", rec.Name, rec.Category), Color: color})
	}
	return f
}

// polar places the i-th of n spokes at distance d, starting at twelve
// o'clock and turning clockwise.
func polar(c Point, d float64, i, n int) Point {
	if n == 0 {
		return c
	}
	angle := float64(i)*2*math.Pi/float64(n) - math.Pi/2
	return Point{X: c.X + d*math.Cos(angle), Y: c.Y + d*math.Sin(angle)}
}
