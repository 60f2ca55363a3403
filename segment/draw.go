package segment

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/timechart/series"
	"github.com/gogpu/timechart/surface"
)

// Span is the part of one segment a draw covers, in vertices.
type Span struct {
	Segment  int
	First    int
	Count    int
	Topology gputypes.PrimitiveTopology
}

// Style holds the per-series draw options.
type Style struct {
	LineType     series.LineType
	StepLocation float64
	LineWidth    float64 // CSS pixels
	PointSize    float64 // device pixels, native points only
	Color        gputypes.Color
}

// Frame maps data coordinates to clip space for one frame:
//
//	css  = Scale * (v - Origin)
//	clip = Projection * css
//
// css is measured from the centre of the render area with y up.
type Frame struct {
	Min, Max   float64 // visible x domain
	Scale      [2]float64
	Origin     [2]float64
	Projection f32.Vec2
}

// DrawRange returns the spans needed to draw the samples whose intervals
// intersect [xMin, xMax].
func (b *Buffer) DrawRange(xMin, xMax float64, lt series.LineType) []Span {
	pts := b.data.Items()
	if len(b.segs) == 0 || len(pts) < overlap || lt == series.LineTypeNone {
		return nil
	}
	if pts[0].X > xMax || pts[len(pts)-1].X < xMin {
		return nil
	}

	firstDP := series.SearchX(pts, 1, len(pts), xMin) - 1
	lastDP := series.SearchX(pts, firstDP, len(pts)-1, xMax)
	startInterval := firstDP + b.validStart
	endInterval := lastDP + b.validStart

	ic := b.cfg.IntervalCapacity()
	startSeg := startInterval / ic
	endSeg := (endInterval + ic - 1) / ic

	var spans []Span
	for i := startSeg; i < endSeg && i < len(b.segs); i++ {
		offset := i * ic
		if s, ok := span(startInterval-offset, endInterval-offset, ic, lt); ok {
			s.Segment = i
			spans = append(spans, s)
		}
	}
	return spans
}

// span converts the local interval range [start, end) of one segment into
// vertices for lt.
func span(start, end, ic int, lt series.LineType) (Span, bool) {
	first := max(0, start)
	last := min(ic, end)
	count := last - first
	if count <= 0 {
		return Span{}, false
	}

	switch lt {
	case series.LineTypeLine:
		n := count * 4
		if last != end {
			// Bridge to the first interval of the next segment.
			n += 2
		}
		return Span{First: first * 4, Count: n, Topology: gputypes.PrimitiveTopologyTriangleStrip}, true
	case series.LineTypeStep:
		fp, n := first*4, count*4+2
		if first == start {
			fp -= 2
			n += 2
		}
		if fp < 0 {
			n += fp
			fp = 0
		}
		return Span{First: fp, Count: n, Topology: gputypes.PrimitiveTopologyTriangleStrip}, true
	case series.LineTypeNativeLine:
		return Span{First: first, Count: count + 1, Topology: gputypes.PrimitiveTopologyLineStrip}, true
	case series.LineTypeNativePoint:
		return Span{First: first, Count: count + 1, Topology: gputypes.PrimitiveTopologyPointList}, true
	default:
		return Span{}, false
	}
}

// Uniforms returns the shader parameters for drawing segment i.
func (b *Buffer) Uniforms(i int, f *Frame, st *Style) surface.Uniforms {
	seg := b.segs[i]
	return surface.Uniforms{
		ModelScale:      f32.Vec2{float32(f.Scale[0]), float32(f.Scale[1])},
		ModelTranslate:  f32.Vec2{float32(seg.x0 - f.Origin[0]), float32(-f.Origin[1])},
		ProjectionScale: f.Projection,
		XStep:           float32(seg.xStep),
		LineWidth:       float32(st.LineWidth / 2),
		Color:           f32.Vec4{float32(st.Color.R), float32(st.Color.G), float32(st.Color.B), float32(st.Color.A)},
		LineType:        st.LineType,
		StepLocation:    float32(st.StepLocation),
		PointSize:       float32(st.PointSize),
		TextureWidth:    uint32(b.cfg.TextureWidth),
	}
}

// Draw issues the draw calls for the visible part of the series.
func (b *Buffer) Draw(f *Frame, st *Style) error {
	for _, s := range b.DrawRange(f.Min, f.Max, st.LineType) {
		err := b.surf.Draw(surface.DrawCall{
			Texture:  b.segs[s.Segment].tex,
			Topology: s.Topology,
			First:    s.First,
			Count:    s.Count,
			Uniforms: b.Uniforms(s.Segment, f, st),
		})
		if err != nil {
			return fmt.Errorf("segment: draw segment %d: %w", s.Segment, err)
		}
	}
	return nil
}

// ExpandVertex computes the clip-space position of vertex vid the way the
// line shader does. fetch returns the texel at a linear texture index.
//
// Solid and step lines use four vertices per interval: bit 0 of vid picks
// the side of the line, bit 1 the interval end, and vid>>2 the interval.
// Native lines and points use one vertex per sample.
func ExpandVertex(u *surface.Uniforms, fetch func(int) f32.Vec2, vid int) f32.Vec2 {
	point := func(i int) f32.Vec2 {
		t := fetch(i)
		return f32.Vec2{t[0] + u.XStep*float32(i), t[1]}
	}
	project := func(base, off f32.Vec2) f32.Vec2 {
		css := f32.Vec2{
			u.ModelScale[0]*(base[0]+u.ModelTranslate[0]) + off[0],
			u.ModelScale[1]*(base[1]+u.ModelTranslate[1]) + off[1],
		}
		return f32.Vec2{u.ProjectionScale[0] * css[0], u.ProjectionScale[1] * css[1]}
	}

	switch u.LineType {
	case series.LineTypeNativeLine, series.LineTypeNativePoint:
		return project(point(vid), f32.Vec2{})
	}

	side := vid & 1
	di := (vid >> 1) & 1
	index := vid >> 2
	dp := [2]f32.Vec2{point(index), point(index + 1)}

	var base, off f32.Vec2
	switch u.LineType {
	case series.LineTypeStep:
		loc := u.StepLocation
		base = f32.Vec2{dp[0][0]*(1-loc) + dp[1][0]*loc, dp[di][1]}
		up := sign(dp[0][1] - dp[1][1])
		off = f32.Vec2{u.LineWidth * up, u.LineWidth}
	default:
		base = dp[di]
		dx := u.ModelScale[0] * (dp[1][0] - dp[0][0])
		dy := u.ModelScale[1] * (dp[1][1] - dp[0][1])
		if l := float32(math.Hypot(float64(dx), float64(dy))); l > 0 {
			off = f32.Vec2{-dy / l * u.LineWidth, dx / l * u.LineWidth}
		}
	}
	if side == 1 {
		off = f32.Vec2{-off[0], -off[1]}
	}
	return project(base, off)
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
