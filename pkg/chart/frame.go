// Package chart turns a dataset and a selection into chart frames: scales,
// axes and keyed marks, plus the enter/update/exit diff against the previous
// frame of the same chart.
//
// Frame builders are pure. The only state is a Stage, which remembers the
// last committed marks per chart so the next frame can be reconciled.
package chart

import (
	"math"
	"strconv"
	"time"
)

// Kind names a chart type.
type Kind string

const (
	KindBar     Kind = "bar"
	KindScatter Kind = "scatter"
	KindRadar   Kind = "radar"
)

// Kinds lists every chart in display order.
var Kinds = []Kind{KindBar, KindScatter, KindRadar}

// Shape is the primitive a mark is drawn with.
type Shape string

const (
	ShapeRect    Shape = "rect"
	ShapeCircle  Shape = "circle"
	ShapePolygon Shape = "polygon"
)

// Point is an SVG-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Visual is the animatable state of a mark.
type Visual struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w,omitempty"`
	H       float64 `json:"h,omitempty"`
	R       float64 `json:"r,omitempty"`
	Points  []Point `json:"points,omitempty"`
	Fill    string  `json:"fill"`
	Stroke  string  `json:"stroke,omitempty"`
	Opacity float64 `json:"opacity"`
}

// Mark is one keyed visual element.
type Mark struct {
	Key     string `json:"key"`
	Shape   Shape  `json:"shape"`
	Visual  Visual `json:"visual"`
	Defined bool   `json:"defined"`
	Tooltip string `json:"tooltip"`
	// Data is the bound datum in domain units: [count] for bars,
	// [height, weight] for points, one value per spoke for polygons.
	Data Values `json:"data,omitempty"`
}

// Values is a datum vector. NaN marshals as null.
type Values []float64

func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	b := []byte{'['}
	for i, x := range v {
		if i > 0 {
			b = append(b, ',')
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			b = append(b, "null"...)
			continue
		}
		b = strconv.AppendFloat(b, x, 'g', -1, 64)
	}
	return append(b, ']'), nil
}

// Margin is the plot inset inside the SVG viewport.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Tick is a labelled axis position.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Axis is a straight axis. For the x axis Pos is the y coordinate of the
// axis line; for the y axis it is the x coordinate.
type Axis struct {
	Label  string     `json:"label"`
	Domain [2]float64 `json:"domain"`
	Pos    float64    `json:"pos"`
	From   float64    `json:"from"`
	To     float64    `json:"to"`
	Ticks  []Tick     `json:"ticks"`
	Rotate float64    `json:"rotate,omitempty"`
}

// Spoke is one radar axis from the center to its outer end.
type Spoke struct {
	Label string `json:"label"`
	End   Point  `json:"end"`
}

// LegendEntry pairs a color with a label.
type LegendEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Timing holds per-group transition durations for a chart.
type Timing struct {
	Enter  time.Duration `json:"enter"`
	Update time.Duration `json:"update"`
	Exit   time.Duration `json:"exit"`
}

// Transition timings per chart.
var (
	BarTiming     = Timing{Enter: 750 * time.Millisecond, Update: 750 * time.Millisecond, Exit: 500 * time.Millisecond}
	ScatterTiming = Timing{Enter: 500 * time.Millisecond, Update: 500 * time.Millisecond, Exit: 500 * time.Millisecond}
	RadarTiming   = Timing{Enter: 800 * time.Millisecond, Update: 800 * time.Millisecond, Exit: 400 * time.Millisecond}
)

// Frame is everything needed to draw one chart at one moment.
type Frame struct {
	Kind     Kind          `json:"kind"`
	Title    string        `json:"title"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Margin   Margin        `json:"margin"`
	XAxis    *Axis         `json:"x_axis,omitempty"`
	YAxis    *Axis         `json:"y_axis,omitempty"`
	Center   Point         `json:"center,omitempty"`
	Spokes   []Spoke       `json:"spokes,omitempty"`
	Marks    []Mark        `json:"marks"`
	Legend   []LegendEntry `json:"legend,omitempty"`
	Viewport Viewport      `json:"viewport"`
	Caption  string        `json:"caption,omitempty"`
	Timing   Timing        `json:"timing"`
	Diff     Diff          `json:"diff"`

	// baseline is the bar chart's zero line, used for neutral states.
	baseline float64
}

// Mark returns the mark with key, if present.
func (f Frame) Mark(key string) (Mark, bool) {
	for _, m := range f.Marks {
		if m.Key == key {
			return m, true
		}
	}
	return Mark{}, false
}

// Keys returns mark keys in draw order.
func (f Frame) Keys() []string {
	out := make([]string, len(f.Marks))
	for i, m := range f.Marks {
		out[i] = m.Key
	}
	return out
}

// Neutral is the invisible state marks enter from and exit to: bars collapse
// to the baseline, points and polygons fade out in place.
func (f Frame) Neutral(m Mark) Visual {
	v := m.Visual
	v.Points = append([]Point(nil), m.Visual.Points...)
	switch f.Kind {
	case KindBar:
		v.Y = f.baseline
		v.H = 0
	default:
		v.Opacity = 0
	}
	return v
}
