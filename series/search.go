package series

import "math"

// SearchX returns the smallest index i in [start, end] such that
// points[i].X >= x, or end if no such index exists.
//
// The probe position is interpolated from the x values at both ends of the
// current window, which converges in few steps on evenly spaced samples.
func SearchX(points []Point, start, end int, x float64) int {
	if start >= end {
		return start
	}
	if x <= points[start].X {
		return start
	}
	if x > points[end-1].X {
		return end
	}

	end--
	for start+1 < end {
		lo, hi := points[start].X, points[end].X
		ratio := 0.0
		if hi > lo {
			ratio = (x - lo) / (hi - lo)
		}
		probe := int(math.Ceil(float64(start) + ratio*float64(end-start)))
		switch {
		case probe >= end:
			probe = end - 1
		case probe <= start:
			probe = start + 1
		}

		if points[probe].X < x {
			start = probe
		} else {
			end = probe
		}
	}
	return end
}
