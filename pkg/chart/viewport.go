package chart

import "math"

// Zoom limits for the scatter plot.
const (
	MinZoom = 0.5
	MaxZoom = 10
)

// Viewport is a pan/zoom transform: screen = k*p + (X, Y).
type Viewport struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the untransformed viewport.
var Identity = Viewport{K: 1}

// Apply maps a plot-space point to screen space.
func (v Viewport) Apply(p Point) Point {
	return Point{X: p.X*v.K + v.X, Y: p.Y*v.K + v.Y}
}

// IsIdentity reports whether v leaves points unchanged.
func (v Viewport) IsIdentity() bool {
	return v.K == 1 && v.X == 0 && v.Y == 0
}

// ZoomAt scales by factor around the screen point (cx, cy), clamped to
// [MinZoom, MaxZoom] and constrained to a w×h extent.
func (v Viewport) ZoomAt(factor, cx, cy, w, h float64) Viewport {
	if v.K == 0 {
		v = Identity
	}
	k := math.Max(MinZoom, math.Min(MaxZoom, v.K*factor))
	// keep (cx, cy) fixed on screen
	px := (cx - v.X) / v.K
	py := (cy - v.Y) / v.K
	out := Viewport{K: k, X: cx - px*k, Y: cy - py*k}
	return out.constrain(w, h)
}

// PanBy translates by (dx, dy) screen pixels, constrained to a w×h extent.
func (v Viewport) PanBy(dx, dy, w, h float64) Viewport {
	if v.K == 0 {
		v = Identity
	}
	v.X += dx
	v.Y += dy
	return v.constrain(w, h)
}

// constrain keeps the visible region inside [0,w]×[0,h]; when zoomed out the
// content is centered instead.
func (v Viewport) constrain(w, h float64) Viewport {
	dx0 := (0-v.X)/v.K - 0
	dx1 := (w-v.X)/v.K - w
	dy0 := (0-v.Y)/v.K - 0
	dy1 := (h-v.Y)/v.K - h

	var tx, ty float64
	if dx1 > dx0 {
		tx = (dx0 + dx1) / 2
	} else {
		tx = math.Min(0, dx0)
		if tx == 0 {
			tx = math.Max(0, dx1)
		}
	}
	if dy1 > dy0 {
		ty = (dy0 + dy1) / 2
	} else {
		ty = math.Min(0, dy0)
		if ty == 0 {
			ty = math.Max(0, dy1)
		}
	}
	v.X += v.K * tx
	v.Y += v.K * ty
	return v
}
