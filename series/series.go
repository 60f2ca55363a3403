// Package series defines the data points and draw options of one chart line.
package series

import (
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/timechart/delta"
)

// Point is one sample. Points of a series must be ordered by
// non-decreasing X; this is not validated.
type Point struct {
	X, Y float64
}

// LineType selects how samples are turned into geometry.
type LineType int32

const (
	// LineTypeLine draws a solid polyline of constant width.
	LineTypeLine LineType = iota
	// LineTypeStep draws horizontal-then-vertical steps.
	LineTypeStep
	// LineTypeNativeLine draws a one pixel line strip.
	LineTypeNativeLine
	// LineTypeNativePoint draws one point per sample.
	LineTypeNativePoint
	// LineTypeNone draws nothing.
	LineTypeNone
)

// String returns the lower-case name of the line type.
func (t LineType) String() string {
	switch t {
	case LineTypeLine:
		return "line"
	case LineTypeStep:
		return "step"
	case LineTypeNativeLine:
		return "native-line"
	case LineTypeNativePoint:
		return "native-point"
	case LineTypeNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseLineType is the inverse of LineType.String.
func ParseLineType(s string) (LineType, bool) {
	for t := LineTypeLine; t <= LineTypeNone; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return LineTypeLine, false
}

// Series is one line of a chart.
type Series struct {
	Name string

	// Data holds the samples. The chart owns synchronization: callers
	// mutate it between frames and never call Data.Reset themselves.
	Data *delta.Buffer[Point]

	LineType LineType

	// StepLocation positions the riser of a step line between two samples,
	// 0 at the left sample and 1 at the right one.
	StepLocation float64

	// LineWidth in CSS pixels. Zero means the chart default.
	LineWidth float64

	Color   gputypes.Color
	Visible bool
}

// New returns a visible solid series holding points.
func New(name string, points ...Point) *Series {
	return &Series{
		Name:     name,
		Data:     delta.New(points...),
		LineType: LineTypeLine,
		Color:    gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		Visible:  true,
	}
}

// Extent is a closed numeric interval. An empty extent has Min > Max.
type Extent struct {
	Min, Max float64
}

// EmptyExtent returns the identity element of Union.
func EmptyExtent() Extent {
	return Extent{Min: math.Inf(1), Max: math.Inf(-1)}
}

// IsEmpty reports whether e contains no value.
func (e Extent) IsEmpty() bool { return e.Min > e.Max }

// Union returns the smallest extent containing both e and o.
func (e Extent) Union(o Extent) Extent {
	return Extent{Min: math.Min(e.Min, o.Min), Max: math.Max(e.Max, o.Max)}
}

// MinMaxY returns the y extent of points[start:end].
func MinMaxY(points []Point, start, end int) Extent {
	e := EmptyExtent()
	for _, p := range points[start:end] {
		if p.Y > e.Max {
			e.Max = p.Y
		}
		if p.Y < e.Min {
			e.Min = p.Y
		}
	}
	return e
}
