package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"git.sr.ht/~sbinet/gg"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/dexviz/pkg/chart"
	"github.com/vanderheijden86/dexviz/pkg/debug"
	"github.com/vanderheijden86/dexviz/pkg/metrics"
)

// RenderPNG rasterizes f. Scatter frames with plotted points go through
// go-chart; everything else, and any scatter go-chart rejects, is drawn
// with gg.
func RenderPNG(w io.Writer, f chart.Frame) error {
	defer metrics.Timer(metrics.PNGExport)()

	if f.Kind == chart.KindScatter && hasDefined(f.Marks) {
		err := renderScatterChart(w, f)
		if err == nil {
			return nil
		}
		debug.Log("go-chart scatter render failed, falling back to gg: %v", err)
	}
	return renderFrameGG(w, f)
}

func hasDefined(marks []chart.Mark) bool {
	for _, m := range marks {
		if m.Defined {
			return true
		}
	}
	return false
}

// renderScatterChart builds one point series per selected type.
func renderScatterChart(w io.Writer, f chart.Frame) error {
	byColor := make(map[string]int, len(f.Legend))
	series := make([]gochart.ContinuousSeries, len(f.Legend))
	for i, e := range f.Legend {
		byColor[e.Color] = i
		c := withAlpha(parseColor(e.Color), chart.PointOpacity)
		series[i] = gochart.ContinuousSeries{
			Name: e.Label,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    chart.PointRadius,
				DotColor:    drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A},
			},
		}
	}
	for _, m := range f.Marks {
		if !m.Defined || len(m.Data) < 2 {
			continue
		}
		i, ok := byColor[m.Visual.Fill]
		if !ok {
			continue
		}
		series[i].XValues = append(series[i].XValues, m.Data[0])
		series[i].YValues = append(series[i].YValues, m.Data[1])
	}

	var all []gochart.Series
	for _, s := range series {
		if len(s.XValues) > 0 {
			all = append(all, s)
		}
	}
	if len(all) == 0 {
		return fmt.Errorf("no plottable points")
	}

	ch := gochart.Chart{
		Title:      f.Title,
		Width:      f.Width,
		Height:     f.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: int(f.Margin.Top), Left: 16, Right: int(f.Margin.Right), Bottom: 16}},
		XAxis:      gochart.XAxis{Name: f.XAxis.Label, Range: visibleRange(f, true)},
		YAxis:      gochart.YAxis{Name: f.YAxis.Label, Range: visibleRange(f, false)},
		Series:     all,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch.Render(gochart.PNG, w)
}

// visibleRange maps the axis domain through the viewport so a zoomed export
// shows the zoomed region.
func visibleRange(f chart.Frame, horizontal bool) *gochart.ContinuousRange {
	a := f.YAxis
	if horizontal {
		a = f.XAxis
	}
	lo, hi := a.Domain[0], a.Domain[1]
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	vp := f.Viewport
	if vp.K == 0 || vp.IsIdentity() {
		return &gochart.ContinuousRange{Min: lo, Max: hi}
	}
	inv := chart.Linear{D0: a.From, D1: a.To, R0: lo, R1: hi}
	var p0, p1 float64
	if horizontal {
		p0 = (a.From - vp.X) / vp.K
		p1 = (a.To - vp.X) / vp.K
	} else {
		p0 = (a.From - vp.Y) / vp.K
		p1 = (a.To - vp.Y) / vp.K
	}
	v0, v1 := inv.Map(p0), inv.Map(p1)
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	return &gochart.ContinuousRange{Min: v0, Max: v1}
}

func renderFrameGG(w io.Writer, f chart.Frame) error {
	dc := gg.NewContext(f.Width, f.Height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if f.Kind == chart.KindRadar {
		drawRadarGrid(dc, f)
	} else {
		drawAxesGG(dc, f)
	}

	for _, m := range f.Marks {
		if !m.Defined && m.Shape == chart.ShapeCircle {
			continue
		}
		v := m.Visual
		c := parseColor(v.Fill)
		switch m.Shape {
		case chart.ShapeRect:
			dc.SetColor(withAlpha(c, v.Opacity))
			dc.DrawRectangle(v.X, v.Y, v.W, v.H)
			dc.Fill()
		case chart.ShapeCircle:
			p := f.Viewport.Apply(chart.Point{X: v.X, Y: v.Y})
			if p.X < f.Margin.Left || p.X > float64(f.Width)-f.Margin.Right ||
				p.Y < f.Margin.Top || p.Y > float64(f.Height)-f.Margin.Bottom {
				continue
			}
			dc.SetColor(withAlpha(c, v.Opacity))
			dc.DrawCircle(p.X, p.Y, v.R)
			dc.Fill()
		case chart.ShapePolygon:
			if len(v.Points) == 0 {
				continue
			}
			dc.NewSubPath()
			for i, p := range v.Points {
				if i == 0 {
					dc.MoveTo(p.X, p.Y)
				} else {
					dc.LineTo(p.X, p.Y)
				}
			}
			dc.ClosePath()
			dc.SetColor(withAlpha(c, v.Opacity))
			dc.FillPreserve()
			dc.SetColor(parseColor(v.Stroke))
			dc.SetLineWidth(chart.RadarStroke)
			dc.Stroke()
		}
	}

	drawLegendGG(dc, f)
	dc.SetColor(parseColor(colorText))
	dc.DrawStringAnchored(f.Title, float64(f.Width)/2, 14, 0.5, 0.5)
	if f.Caption != "" {
		dc.SetColor(parseColor(colorSubtle))
		dc.DrawStringAnchored(f.Caption, float64(f.Width)/2, float64(f.Height)-12, 0.5, 0.5)
	}
	return dc.EncodePNG(w)
}

func drawAxesGG(dc *gg.Context, f chart.Frame) {
	dc.SetColor(parseColor(colorAxis))
	dc.SetLineWidth(1)
	if a := f.XAxis; a != nil {
		dc.DrawLine(a.From, a.Pos, a.To, a.Pos)
		dc.Stroke()
		for _, t := range a.Ticks {
			x := t.Pos
			if f.Kind == chart.KindScatter {
				x = f.Viewport.Apply(chart.Point{X: t.Pos}).X
				if x < a.From || x > a.To {
					continue
				}
			}
			dc.DrawLine(x, a.Pos, x, a.Pos+6)
			dc.Stroke()
			if a.Rotate != 0 {
				dc.Push()
				dc.RotateAbout(gg.Radians(a.Rotate), x, a.Pos+14)
				dc.DrawStringAnchored(t.Label, x, a.Pos+14, 1, 0.5)
				dc.Pop()
			} else {
				dc.DrawStringAnchored(t.Label, x, a.Pos+16, 0.5, 0.5)
			}
		}
		dc.DrawStringAnchored(a.Label, (a.From+a.To)/2, float64(f.Height)-8, 0.5, 0.5)
	}
	if a := f.YAxis; a != nil {
		dc.DrawLine(a.Pos, a.From, a.Pos, a.To)
		dc.Stroke()
		for _, t := range a.Ticks {
			y := t.Pos
			if f.Kind == chart.KindScatter {
				y = f.Viewport.Apply(chart.Point{Y: t.Pos}).Y
				if y > a.From || y < a.To {
					continue
				}
			}
			dc.DrawLine(a.Pos-6, y, a.Pos, y)
			dc.Stroke()
			dc.DrawStringAnchored(t.Label, a.Pos-9, y, 1, 0.5)
		}
		mid := (a.From + a.To) / 2
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), 14, mid)
		dc.DrawStringAnchored(a.Label, 14, mid, 0.5, 0.5)
		dc.Pop()
	}
}

func drawRadarGrid(dc *gg.Context, f chart.Frame) {
	c := f.Center
	dc.SetColor(color.RGBA{0xcc, 0xcc, 0xcc, 0xff})
	dc.SetLineWidth(1)
	for level := 1; level <= 5; level++ {
		dc.DrawCircle(c.X, c.Y, chart.RadarRadius*float64(level)/5)
		dc.Stroke()
	}
	for _, s := range f.Spokes {
		dc.SetColor(color.RGBA{0x99, 0x99, 0x99, 0xff})
		dc.DrawLine(c.X, c.Y, s.End.X, s.End.Y)
		dc.Stroke()
		dc.SetColor(parseColor(colorText))
		dc.DrawStringAnchored(s.Label, c.X+(s.End.X-c.X)*1.1, c.Y+(s.End.Y-c.Y)*1.1, 0.5, 0.5)
	}
}

func drawLegendGG(dc *gg.Context, f chart.Frame) {
	x := float64(f.Width) - 130
	if f.Kind == chart.KindScatter {
		x = f.Margin.Left + 10
	}
	for i, e := range f.Legend {
		y := 16 + float64(i)*18
		dc.SetColor(parseColor(e.Color))
		dc.DrawRectangle(x, y, 12, 12)
		dc.Fill()
		dc.SetColor(parseColor(colorText))
		dc.DrawStringAnchored(e.Label, x+18, y+6, 0, 0.5)
	}
}

var namedColors = map[string]string{
	"steelblue": "#4682b4",
	"orange":    "#ffa500",
	"white":     "#ffffff",
	"black":     "#000000",
}

// parseColor accepts #rgb, #rrggbb and the few CSS names the charts use.
// Anything else is black.
func parseColor(s string) color.NRGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{A: 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func withAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(math.Round(opacity * 255))
	return c
}
