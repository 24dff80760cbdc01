package chart

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Linear maps a continuous domain onto a pixel range.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// Map projects v. A degenerate domain maps everything to the range midpoint.
func (s Linear) Map(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Nice widens the domain to round tick boundaries.
func (s Linear) Nice(count int) Linear {
	start, stop := s.D0, s.D1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	prev := 0.0
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			i = 10
		}
		prev = step
	}
	if reversed {
		start, stop = stop, start
	}
	s.D0, s.D1 = start, stop
	return s
}

// Ticks returns round values spanning the domain.
func (s Linear) Ticks(count int) []float64 {
	return ticks(s.D0, s.D1, count)
}

func ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}
	var out []float64
	if inc > 0 {
		for i := math.Ceil(start / inc); i <= math.Floor(stop/inc); i++ {
			out = append(out, i*inc)
		}
	} else {
		inc = -inc
		for i := math.Ceil(start * inc); i <= math.Floor(stop*inc); i++ {
			out = append(out, i/inc)
		}
	}
	if reversed {
		for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns a positive step, or a negative inverse step for
// fractional increments so callers can avoid float error.
func tickIncrement(start, stop float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	step := (stop - start) / float64(count)
	if step <= 0 {
		return 0
	}
	power := math.Floor(math.Log10(step))
	errv := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errv >= e10:
		factor = 10
	case errv >= e5:
		factor = 5
	case errv >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// Band maps categorical labels onto equal-width bands.
type Band struct {
	Domain  []string
	R0, R1  float64
	Padding float64
	index   map[string]int
}

// NewBand builds a band scale with equal inner and outer padding.
func NewBand(domain []string, r0, r1, padding float64) Band {
	b := Band{Domain: domain, R0: r0, R1: r1, Padding: padding, index: make(map[string]int, len(domain))}
	for i, d := range domain {
		b.index[d] = i
	}
	return b
}

func (b Band) step() float64 {
	n := float64(len(b.Domain))
	return (b.R1 - b.R0) / math.Max(1, n-b.Padding+b.Padding*2)
}

// Bandwidth is the width of each band.
func (b Band) Bandwidth() float64 {
	return b.step() * (1 - b.Padding)
}

// Map returns the left edge of label's band.
func (b Band) Map(label string) (float64, bool) {
	i, ok := b.index[label]
	if !ok {
		return 0, false
	}
	step := b.step()
	n := float64(len(b.Domain))
	start := b.R0 + (b.R1-b.R0-step*(n-b.Padding))*0.5
	return start + step*float64(i), true
}

// Extent returns the min and max finite values, ok=false when none exist.
func Extent(values []float64) (lo, hi float64, ok bool) {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return 0, 0, false
	}
	return floats.Min(kept), floats.Max(kept), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatTick renders a tick value without float noise.
func FormatTick(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
