package viewport

import "math"

// Clamp bounds the domains an axis may take.
type Clamp struct {
	MinDomain       float64
	MaxDomain       float64
	MinDomainExtent float64
	MaxDomainExtent float64
}

// DefaultClamp returns a clamp that allows any domain.
func DefaultClamp() Clamp {
	return Clamp{
		MinDomain:       math.Inf(-1),
		MaxDomain:       math.Inf(1),
		MinDomainExtent: 0,
		MaxDomainExtent: math.Inf(1),
	}
}

// AxisDomain is a linear map from a data domain [Min, Max] to a pixel range
// [RangeMin, RangeMax], together with the bounds interactive changes must
// respect. Max < Min and RangeMax < RangeMin are allowed and flip the axis.
type AxisDomain struct {
	Min, Max           float64
	RangeMin, RangeMax float64
	Clamp              Clamp
}

// NewAxisDomain returns the unit domain mapped to the unit range.
func NewAxisDomain() *AxisDomain {
	return &AxisDomain{Max: 1, RangeMax: 1, Clamp: DefaultClamp()}
}

// Set replaces the domain.
func (a *AxisDomain) Set(lo, hi float64) { a.Min, a.Max = lo, hi }

// SetRange replaces the pixel range.
func (a *AxisDomain) SetRange(lo, hi float64) { a.RangeMin, a.RangeMax = lo, hi }

// Extent returns Max - Min.
func (a *AxisDomain) Extent() float64 { return a.Max - a.Min }

// Apply maps a domain value to pixels.
func (a *AxisDomain) Apply(v float64) float64 {
	d := a.Max - a.Min
	if d == 0 {
		return (a.RangeMin + a.RangeMax) / 2
	}
	return a.RangeMin + (v-a.Min)/d*(a.RangeMax-a.RangeMin)
}

// Invert maps pixels to a domain value.
func (a *AxisDomain) Invert(px float64) float64 {
	r := a.RangeMax - a.RangeMin
	if r == 0 {
		return (a.Min + a.Max) / 2
	}
	return a.Min + (px-a.RangeMin)/r*(a.Max-a.Min)
}

// K returns the domain units covered by one pixel.
func (a *AxisDomain) K() float64 {
	return (a.Max - a.Min) / (a.RangeMax - a.RangeMin)
}

// Enabled reports whether the domain lies strictly inside the clamp, which
// means an interaction could still move it in both directions. Flipped
// domains are compared by their low and high ends.
func (a *AxisDomain) Enabled() bool {
	lo, hi := math.Min(a.Min, a.Max), math.Max(a.Min, a.Max)
	return a.Clamp.MinDomain < lo && hi < a.Clamp.MaxDomain
}

// Nice widens the domain to round values, about count ticks apart.
func (a *AxisDomain) Nice(count int) {
	start, stop := a.Min, a.Max
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	if !(stop > start) || math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return
	}

	prestep := math.NaN()
	for range 10 {
		step := tickIncrement(start, stop, count)
		if step == prestep {
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
			return
		}
		prestep = step
	}

	if reversed {
		start, stop = stop, start
	}
	a.Min, a.Max = start, stop
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns the tick step for about count ticks over
// [start, stop]. A negative result -n means a step of 1/n.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	f := 1.0
	switch {
	case e >= e10:
		f = 10
	case e >= e5:
		f = 5
	case e >= e2:
		f = 2
	}
	if power >= 0 {
		return f * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / f
}
