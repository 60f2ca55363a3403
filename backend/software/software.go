// Package software implements surface.Surface on the CPU.
//
// The surface keeps texture contents like surface.Recorder and rasterizes
// every draw call into an RGBA image with golang.org/x/image/vector, using
// the same vertex expansion as the line shader. It serves headless
// rendering, snapshots and tests.
package software

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"github.com/gogpu/timechart/segment"
	"github.com/gogpu/timechart/surface"
)

// nativeLineWidth is the width in pixels of native line strips.
const nativeLineWidth = 1

// Surface rasterizes draw calls into an image.
// It is not safe for concurrent use.
type Surface struct {
	*surface.Recorder

	img  *image.RGBA
	rast *vector.Rasterizer
	pts  []f32.Vec2
}

// New returns a surface drawing into a width x height image.
func New(width, height int) *Surface {
	s := &Surface{Recorder: surface.NewRecorder()}
	s.Resize(width, height)
	return s
}

// Resize replaces the image with a transparent one of the new size.
func (s *Surface) Resize(width, height int) {
	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	s.rast = vector.NewRasterizer(s.img.Bounds().Dx(), s.img.Bounds().Dy())
}

// Image returns the target image.
func (s *Surface) Image() *image.RGBA { return s.img }

// Clear fills the whole image with c.
func (s *Surface) Clear(c gputypes.Color) {
	s.Recorder.Clear(c)
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(toNRGBA(c.R, c.G, c.B, c.A)), image.Point{}, draw.Src)
}

// Draw records the call and rasterizes it into the current viewport.
func (s *Surface) Draw(call surface.DrawCall) error {
	if err := s.Recorder.Draw(call); err != nil {
		return err
	}
	tex, _ := s.Texture(call.Texture)
	if call.Count <= 0 {
		return nil
	}

	clip := s.clipRect()
	if clip.Empty() {
		return nil
	}
	vp := s.viewport()

	// The rasterizer covers only clip, so points are relative to clip.Min.
	ox, oy := vp.X-float32(clip.Min.X), vp.Y-float32(clip.Min.Y)
	s.pts = s.pts[:0]
	for vid := call.First; vid < call.First+call.Count; vid++ {
		v := segment.ExpandVertex(&call.Uniforms, tex.Fetch, vid)
		s.pts = append(s.pts, f32.Vec2{
			ox + (v[0]+1)/2*vp.Width,
			oy + (1-v[1])/2*vp.Height,
		})
	}

	s.rast.Reset(clip.Dx(), clip.Dy())
	switch call.Topology {
	case gputypes.PrimitiveTopologyTriangleStrip:
		for i := 2; i < len(s.pts); i++ {
			s.triangle(s.pts[i-2], s.pts[i-1], s.pts[i])
		}
	case gputypes.PrimitiveTopologyLineStrip:
		for i := 1; i < len(s.pts); i++ {
			s.segment(s.pts[i-1], s.pts[i], nativeLineWidth)
		}
	case gputypes.PrimitiveTopologyPointList:
		r := max(call.Uniforms.PointSize, 1) / 2
		for _, p := range s.pts {
			s.quad(f32.Vec2{p[0] - r, p[1] - r}, f32.Vec2{p[0] + r, p[1] - r},
				f32.Vec2{p[0] + r, p[1] + r}, f32.Vec2{p[0] - r, p[1] + r})
		}
	default:
		return nil
	}

	c := call.Uniforms.Color
	src := image.NewUniform(toNRGBA(float64(c[0]), float64(c[1]), float64(c[2]), float64(c[3])))
	s.rast.DrawOp = draw.Over
	s.rast.Draw(s.img, clip, src, image.Point{})
	return nil
}

func (s *Surface) viewport() surface.Viewport {
	vp := s.Recorder.Viewport()
	if vp.Width <= 0 || vp.Height <= 0 {
		b := s.img.Bounds()
		return surface.Viewport{Width: float32(b.Dx()), Height: float32(b.Dy())}
	}
	return vp
}

func (s *Surface) clipRect() image.Rectangle {
	vp := s.viewport()
	r := image.Rect(
		int(math.Floor(float64(vp.X))), int(math.Floor(float64(vp.Y))),
		int(math.Ceil(float64(vp.X+vp.Width))), int(math.Ceil(float64(vp.Y+vp.Height))),
	)
	return r.Intersect(s.img.Bounds())
}

// triangle adds a triangle with a fixed winding, so overlapping triangles
// of a strip add up instead of cancelling.
func (s *Surface) triangle(a, b, c f32.Vec2) {
	if (b[0]-a[0])*(c[1]-a[1])-(b[1]-a[1])*(c[0]-a[0]) < 0 {
		b, c = c, b
	}
	s.rast.MoveTo(a[0], a[1])
	s.rast.LineTo(b[0], b[1])
	s.rast.LineTo(c[0], c[1])
	s.rast.ClosePath()
}

func (s *Surface) quad(a, b, c, d f32.Vec2) {
	s.triangle(a, b, c)
	s.triangle(a, c, d)
}

// segment adds a rectangle of width w around the line from a to b.
func (s *Surface) segment(a, b f32.Vec2, w float32) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	s.quad(f32.Vec2{a[0] + nx, a[1] + ny}, f32.Vec2{b[0] + nx, b[1] + ny},
		f32.Vec2{b[0] - nx, b[1] - ny}, f32.Vec2{a[0] - nx, a[1] - ny})
}

func toNRGBA(r, g, b, a float64) color.NRGBA {
	u8 := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{R: u8(r), G: u8(g), B: u8(b), A: u8(a)}
}

func init() {
	surface.Register("software", 10, func(opts surface.Options) (surface.Surface, error) {
		return New(opts.Width, opts.Height), nil
	}, nil)
}

var _ surface.Surface = (*Surface)(nil)
