// Package export renders chart frames to files: SVG through svgo, PNG
// through gg and go-chart, and JSON frame dumps.
package export

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"

	"github.com/ajstarks/svgo"

	"github.com/vanderheijden86/dexviz/pkg/chart"
	"github.com/vanderheijden86/dexviz/pkg/metrics"
)

const (
	fontStyle   = "font-family:sans-serif"
	colorAxis   = "#333333"
	colorSubtle = "#666666"
	colorText   = "#111111"
)

// RenderSVG writes f as a standalone SVG document. Each mark is wrapped in a
// group carrying its key, a <title> tooltip and the transition it is part
// of, so a browser shows tooltips and a script can replay the transition.
func RenderSVG(w io.Writer, f chart.Frame) error {
	defer metrics.Timer(metrics.SVGExport)()

	cw := &errWriter{w: w}
	canvas := svg.New(cw)
	canvas.Start(f.Width, f.Height, attr("data-chart", string(f.Kind)))
	canvas.Title(f.Title)
	canvas.Rect(0, 0, f.Width, f.Height, "fill:#ffffff")

	switch f.Kind {
	case chart.KindRadar:
		drawRadarSVG(canvas, f)
	default:
		drawAxesSVG(canvas, f)
	}

	if f.Kind == chart.KindBar {
		canvas.Text(f.Width/2, int(f.Margin.Top/2)+6, f.Title,
			"text-anchor:middle;font-size:16px;font-weight:bold;"+fontStyle)
	}

	phase := phases(f.Diff)
	if f.Kind == chart.KindScatter {
		canvas.Def()
		canvas.ClipPath(`id="plot-area"`)
		canvas.Rect(px(f.Margin.Left), px(f.Margin.Top),
			px(float64(f.Width)-f.Margin.Left-f.Margin.Right),
			px(float64(f.Height)-f.Margin.Top-f.Margin.Bottom))
		canvas.ClipEnd()
		canvas.DefEnd()
		canvas.Group(`clip-path="url(#plot-area)"`)
	}
	for _, m := range f.Marks {
		drawMarkSVG(canvas, f, m, phase[m.Key])
	}
	if f.Kind == chart.KindScatter {
		canvas.Gend()
	}

	for _, t := range f.Diff.Exit {
		canvas.Group(`class="exit"`, attr("data-key", t.Key), attr("data-duration-ms", ms(t.Duration.Milliseconds())))
		canvas.Gend()
	}

	drawLegendSVG(canvas, f)
	if f.Caption != "" {
		canvas.Text(f.Width/2, f.Height-12, f.Caption, "text-anchor:middle;font-size:12px;fill:"+colorSubtle+";"+fontStyle)
	}
	canvas.End()
	return cw.err
}

type phaseInfo struct {
	name     string
	duration int64
}

func phases(d chart.Diff) map[string]phaseInfo {
	out := make(map[string]phaseInfo, len(d.Enter)+len(d.Update))
	for _, t := range d.Enter {
		out[t.Key] = phaseInfo{"enter", t.Duration.Milliseconds()}
	}
	for _, t := range d.Update {
		out[t.Key] = phaseInfo{"update", t.Duration.Milliseconds()}
	}
	return out
}

func drawMarkSVG(canvas *svg.SVG, f chart.Frame, m chart.Mark, ph phaseInfo) {
	if !m.Defined && m.Shape == chart.ShapeCircle {
		return
	}
	attrs := []string{`class="mark"`, attr("data-key", m.Key)}
	if ph.name != "" {
		attrs = append(attrs, attr("data-phase", ph.name), attr("data-duration-ms", ms(ph.duration)))
	}
	canvas.Group(attrs...)
	canvas.Title(m.Tooltip)

	v := m.Visual
	switch m.Shape {
	case chart.ShapeRect:
		canvas.Rect(px(v.X), px(v.Y), px(v.W), px(v.H), fmt.Sprintf("fill:%s;opacity:%s", v.Fill, num(v.Opacity)))
	case chart.ShapeCircle:
		p := f.Viewport.Apply(chart.Point{X: v.X, Y: v.Y})
		canvas.Circle(px(p.X), px(p.Y), px(v.R), fmt.Sprintf("fill:%s;opacity:%s", v.Fill, num(v.Opacity)))
	case chart.ShapePolygon:
		xs, ys := splitPoints(v.Points)
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:%s;stroke:%s;stroke-width:%d",
			v.Fill, num(v.Opacity), v.Stroke, chart.RadarStroke))
	}
	canvas.Gend()
}

func drawAxesSVG(canvas *svg.SVG, f chart.Frame) {
	line := "stroke:" + colorAxis + ";stroke-width:1"
	label := "font-size:12px;fill:" + colorText + ";" + fontStyle
	tick := "font-size:10px;fill:" + colorAxis + ";" + fontStyle

	if a := f.XAxis; a != nil {
		y := px(a.Pos)
		canvas.Group(`class="axis x"`)
		canvas.Line(px(a.From), y, px(a.To), y, line)
		for _, t := range a.Ticks {
			x := t.Pos
			if f.Kind == chart.KindScatter {
				x = f.Viewport.Apply(chart.Point{X: t.Pos}).X
				if x < a.From-0.5 || x > a.To+0.5 {
					continue
				}
			}
			canvas.Line(px(x), y, px(x), y+6, line)
			if a.Rotate != 0 {
				canvas.Text(px(x), y+16, t.Label, "text-anchor:end;"+tick,
					fmt.Sprintf(`transform="rotate(%s %d %d)"`, num(a.Rotate), px(x), y+16))
			} else {
				canvas.Text(px(x), y+18, t.Label, "text-anchor:middle;"+tick)
			}
		}
		canvas.Text(px((a.From+a.To)/2), f.Height-8, a.Label, "text-anchor:middle;"+label)
		canvas.Gend()
	}
	if a := f.YAxis; a != nil {
		x := px(a.Pos)
		canvas.Group(`class="axis y"`)
		canvas.Line(x, px(a.From), x, px(a.To), line)
		for _, t := range a.Ticks {
			y := t.Pos
			if f.Kind == chart.KindScatter {
				y = f.Viewport.Apply(chart.Point{Y: t.Pos}).Y
				if y > a.From+0.5 || y < a.To-0.5 {
					continue
				}
			}
			canvas.Line(x-6, px(y), x, px(y), line)
			canvas.Text(x-9, px(y)+4, t.Label, "text-anchor:end;"+tick)
		}
		mid := px((a.From + a.To) / 2)
		canvas.Text(16, mid, a.Label, "text-anchor:middle;"+label,
			fmt.Sprintf(`transform="rotate(-90 16 %d)"`, mid))
		canvas.Gend()
	}
}

func drawRadarSVG(canvas *svg.SVG, f chart.Frame) {
	c := f.Center
	grid := "fill:none;stroke:#cccccc;stroke-width:1"
	canvas.Group(`class="grid"`)
	for level := 1; level <= 5; level++ {
		canvas.Circle(px(c.X), px(c.Y), px(chart.RadarRadius*float64(level)/5), grid)
	}
	for _, s := range f.Spokes {
		canvas.Line(px(c.X), px(c.Y), px(s.End.X), px(s.End.Y), "stroke:#999999;stroke-width:1")
		lx := c.X + (s.End.X-c.X)*1.1
		ly := c.Y + (s.End.Y-c.Y)*1.1
		canvas.Text(px(lx), px(ly)+4, s.Label, "text-anchor:middle;font-size:12px;fill:"+colorText+";"+fontStyle)
	}
	canvas.Gend()
}

func drawLegendSVG(canvas *svg.SVG, f chart.Frame) {
	if len(f.Legend) == 0 {
		return
	}
	x := f.Width - 130
	y := 16
	if f.Kind == chart.KindScatter {
		x = int(f.Margin.Left) + 10
	}
	canvas.Group(`class="legend"`)
	for i, e := range f.Legend {
		row := y + i*18
		canvas.Rect(x, row, 12, 12, "fill:"+e.Color)
		canvas.Text(x+18, row+10, e.Label, "font-size:12px;fill:"+colorText+";"+fontStyle)
	}
	canvas.Gend()
}

func splitPoints(pts []chart.Point) (xs, ys []int) {
	xs = make([]int, len(pts))
	ys = make([]int, len(pts))
	for i, p := range pts {
		xs[i] = px(p.X)
		ys[i] = px(p.Y)
	}
	return xs, ys
}

func px(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ms(v int64) string {
	return strconv.FormatInt(v, 10)
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

// errWriter keeps the first write error; svgo itself ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err == nil {
		_, e.err = e.w.Write(p)
	}
	return len(p), nil
}
