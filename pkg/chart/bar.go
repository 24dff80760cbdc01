package chart

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vanderheijden86/dexviz/pkg/metrics"
	"github.com/vanderheijden86/dexviz/pkg/model"
)

// SortMode orders bar chart categories.
type SortMode int

const (
	SortByCount SortMode = iota // descending count
	SortByLabel                 // ascending label
)

func (s SortMode) String() string {
	if s == SortByLabel {
		return "label"
	}
	return "count"
}

// Toggle switches between the two modes.
func (s SortMode) Toggle() SortMode {
	if s == SortByLabel {
		return SortByCount
	}
	return SortByLabel
}

// ParseSortMode accepts "count" or "label".
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "count":
		return SortByCount, nil
	case "label", "name", "alpha":
		return SortByLabel, nil
	}
	return SortByCount, fmt.Errorf("unknown sort mode %q (want count or label)", s)
}

// BarDatum is one aggregated category.
type BarDatum struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Aggregate counts records per value of attribute. Empty values are
// excluded. SortByCount orders by descending count and keeps first-seen
// order for ties; SortByLabel orders labels ascending with numeric-aware
// collation, so "Generation 10" follows "Generation 9".
func Aggregate(records []model.Record, attribute string, mode SortMode) []BarDatum {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		v := r.Attr(attribute)
		if v == "" {
			continue
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}

	data := make([]BarDatum, len(order))
	for i, label := range order {
		data[i] = BarDatum{Label: label, Count: counts[label]}
	}

	switch mode {
	case SortByLabel:
		col := collate.New(language.English, collate.Numeric)
		sort.SliceStable(data, func(i, j int) bool {
			return col.CompareString(data[i].Label, data[j].Label) < 0
		})
	default:
		sort.SliceStable(data, func(i, j int) bool {
			return data[i].Count > data[j].Count
		})
	}
	return data
}

// Bar colors.
const (
	BarFill      = "steelblue"
	BarHighlight = "orange"
)

// BarOptions configures the bar chart.
type BarOptions struct {
	Attribute string
	Sort      SortMode
	Highlight string // label of the clicked bar
}

// BuildBar lays out the aggregated counts of ds.
func BuildBar(records []model.Record, opts BarOptions) Frame {
	defer metrics.Timer(metrics.BarFrame)()

	attr := opts.Attribute
	if attr == "" {
		attr = model.ColType1
	}
	const width, height = 800, 400
	margin := Margin{Top: 40, Right: 20, Bottom: 60, Left: 60}

	data := Aggregate(records, attr, opts.Sort)
	labels := make([]string, len(data))
	maxCount := 0
	for i, d := range data {
		labels[i] = d.Label
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}

	x := NewBand(labels, margin.Left, width-margin.Right, 0.2)
	y := Linear{D0: 0, D1: float64(maxCount), R0: height - margin.Bottom, R1: margin.Top}.Nice(10)
	y0 := y.Map(0)

	f := Frame{
		Kind:     KindBar,
		Title:    "Distribution of Pokémon by " + attr,
		Width:    width,
		Height:   height,
		Margin:   margin,
		Timing:   BarTiming,
		Viewport: Identity,
		baseline: y0,
	}

	xa := Axis{Label: attr, Pos: height - margin.Bottom, From: margin.Left, To: width - margin.Right, Rotate: -40}
	bw := x.Bandwidth()
	for _, d := range data {
		px, _ := x.Map(d.Label)
		xa.Ticks = append(xa.Ticks, Tick{Pos: px + bw/2, Label: d.Label})

		fill := BarFill
		if d.Label == opts.Highlight {
			fill = BarHighlight
		}
		top := y.Map(float64(d.Count))
		f.Marks = append(f.Marks, Mark{
			Key:     d.Label,
			Shape:   ShapeRect,
			Defined: true,
			Tooltip: fmt.Sprintf("%s\nCount: %d", d.Label, d.Count),
			Data:    Values{float64(d.Count)},
			Visual: Visual{
				X: px, Y: top, W: bw, H: y0 - top,
				Fill: fill, Opacity: 1,
			},
		})
	}
	f.XAxis = &xa

	ya := Axis{Label: "Count", Domain: [2]float64{y.D0, y.D1}, Pos: margin.Left, From: height - margin.Bottom, To: margin.Top}
	if maxCount > 0 {
		for _, t := range y.Ticks(10) {
			if t != float64(int(t)) {
				continue
			}
			ya.Ticks = append(ya.Ticks, Tick{Pos: y.Map(t), Label: FormatTick(t)})
		}
	}
	f.YAxis = &ya
	return f
}
