package zoom

import (
	"math"

	"github.com/gogpu/timechart/viewport"
)

// jitter is the relative endpoint movement below which a domain change is
// not reported.
const jitter = 1e-6

// ApplyNewDomain sets the domain of axis to [lo, hi] after bounding it by
// the axis clamp and reports whether either endpoint moved noticeably.
//
// A request whose orientation differs from the current domain, or with a
// non-finite endpoint, is dropped and reports false. The extent is clamped symmetrically around the request
// midpoint, then the interval is shifted by the smallest offset that puts
// it inside [Clamp.MinDomain, Clamp.MaxDomain]. The result always keeps the
// orientation of the request.
func ApplyNewDomain(axis *viewport.AxisDomain, lo, hi float64) bool {
	in := hi - lo
	prevLo, prevHi := axis.Min, axis.Max
	if !finite(lo) || !finite(hi) || !finite(in) || !((prevHi-prevLo)*in > 0) {
		return false
	}
	c := axis.Clamp

	sign := 1.0
	if in < 0 {
		sign = -1
	}
	extent := math.Min(math.Min(c.MaxDomainExtent, c.MaxDomain-c.MinDomain),
		math.Max(c.MinDomainExtent, math.Abs(in)))
	de := (extent*sign - in) / 2
	lo -= de
	hi += de

	low, high := math.Min(lo, hi), math.Max(lo, hi)
	off := math.Min(math.Max(c.MinDomain-low, 0), c.MaxDomain-high)
	lo += off
	hi += off
	if !finite(lo) || !finite(hi) {
		return false
	}

	axis.Set(lo, hi)
	eps := extent * jitter
	return math.Abs(lo-prevLo) > eps || math.Abs(hi-prevHi) > eps
}

// LinearRegression fits y = k*x + b by ordinary least squares. A single
// point, or points sharing one x, yield k = 0 and b = mean(y).
func LinearRegression(xs, ys []float64) (k, b float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}
	var sx, sy, sxy, sxx float64
	for i, x := range xs {
		y := ys[i]
		sx += x
		sy += y
		sxy += x * y
		sxx += x * x
	}
	det := n*sxx - sx*sx
	if det != 0 {
		k = (n*sxy - sx*sy) / det
	}
	b = (sy - k*sx) / n
	return k, b
}

func mean(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

// variance is the population variance of v.
func variance(v []float64) float64 {
	m := mean(v)
	s := 0.0
	for _, x := range v {
		s += (x - m) * (x - m)
	}
	return s / float64(len(v))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
