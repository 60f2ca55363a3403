package timechart

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/timechart/internal/logging"
	"github.com/gogpu/timechart/segment"
	"github.com/gogpu/timechart/series"
	"github.com/gogpu/timechart/surface"
	"github.com/gogpu/timechart/viewport"
	"github.com/gogpu/timechart/zoom"
)

// ErrNilSurface is returned by New when no surface is given.
var ErrNilSurface = errors.New("timechart: nil surface")

// ErrDisposed is returned by Render after Dispose.
var ErrDisposed = errors.New("timechart: chart disposed")

type layer struct {
	s   *series.Series
	buf *segment.Buffer
}

// Chart draws a set of series onto a surface.
//
// A frame recomputes the domains, synchronizes every segment buffer with
// its series and draws the visible segments. Frames run from the frame
// scheduler after RequestRedraw, or directly from Render.
//
// Chart is not safe for concurrent use. Series data must not be mutated
// while a frame runs.
type Chart struct {
	surf   surface.Surface
	opts   options
	model  *viewport.Model
	zoom   *zoom.Controller
	layers []*layer

	frames  int
	lastErr error
}

// New creates a chart drawing onto s.
func New(s surface.Surface, opts ...Option) (*Chart, error) {
	if s == nil {
		return nil, ErrNilSurface
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.segment.Validate(); err != nil {
		return nil, fmt.Errorf("timechart: %w", err)
	}

	c := &Chart{
		surf:  s,
		opts:  o,
		model: viewport.NewModel(o.model, o.scheduler),
	}
	c.model.OnUpdated(c.drawFrame)
	c.model.OnDisposing(c.release)
	c.AddSeries(o.series...)
	if o.zoomAxes != 0 {
		c.setupZoom()
	}

	logging.L().Info("timechart: chart created",
		"series", len(o.series),
		"texture", fmt.Sprintf("%dx%d", o.segment.TextureWidth, o.segment.TextureHeight))
	return c, nil
}

func (c *Chart) setupZoom() {
	zo := zoom.Options{TouchMinPoints: c.opts.touchMinN}
	if c.opts.zoomAxes&ZoomX != 0 {
		c.model.X().Clamp = c.opts.zoomX
		zo.X = &zoom.AxisOptions{Axis: c.model.X()}
	}
	if c.opts.zoomAxes&ZoomY != 0 {
		c.model.Y().Clamp = c.opts.zoomY
		zo.Y = &zoom.AxisOptions{Axis: c.model.Y()}
	}
	c.zoom = zoom.New(zo)

	// A gesture hands the domains over to the user.
	c.zoom.OnDomainChanged(func() {
		c.model.SetRangeModes(viewport.RangeNone, viewport.RangeNone)
		c.model.RequestRedraw()
	})
	c.model.OnUpdated(c.syncZoomBounds)
}

// syncZoomBounds widens unbounded clamps to cover the data and the current
// domain, so gestures cannot pan away from the data.
func (c *Chart) syncZoomBounds() {
	bound := func(a *viewport.AxisDomain, conf viewport.Clamp, data series.Extent) {
		if !math.IsInf(conf.MinDomain, -1) || !math.IsInf(conf.MaxDomain, 1) {
			return
		}
		lo, hi := math.Min(a.Min, a.Max), math.Max(a.Min, a.Max)
		if !data.IsEmpty() {
			lo, hi = math.Min(lo, data.Min), math.Max(hi, data.Max)
		}
		a.Clamp.MinDomain, a.Clamp.MaxDomain = lo, hi
	}
	if c.opts.zoomAxes&ZoomX != 0 {
		bound(c.model.X(), c.opts.zoomX, c.model.XDataRange())
	}
	if c.opts.zoomAxes&ZoomY != 0 {
		bound(c.model.Y(), c.opts.zoomY, c.model.YDataRange())
	}
}

// Model returns the view state.
func (c *Chart) Model() *viewport.Model { return c.model }

// Zoom returns the gesture controller, or nil when zoom is disabled.
func (c *Chart) Zoom() *zoom.Controller { return c.zoom }

// Surface returns the surface the chart draws on.
func (c *Chart) Surface() surface.Surface { return c.surf }

// AddSeries appends series and requests a redraw. Their segment buffers
// are created on the next frame.
func (c *Chart) AddSeries(s ...*series.Series) {
	for _, ss := range s {
		c.layers = append(c.layers, &layer{s: ss})
	}
	c.model.AddSeries(s...)
	c.model.RequestRedraw()
}

// Resize sets the surface size in CSS pixels and requests a redraw.
func (c *Chart) Resize(width, height float64) {
	c.model.Resize(width, height)
}

// RequestRedraw schedules a frame.
func (c *Chart) RequestRedraw() { c.model.RequestRedraw() }

// Render runs one frame immediately and returns the first error it hit.
func (c *Chart) Render() error {
	if c.model.Disposed() {
		return ErrDisposed
	}
	c.model.Update()
	return c.lastErr
}

// Err returns the error of the last frame, if any.
func (c *Chart) Err() error { return c.lastErr }

// Frames returns the number of frames drawn.
func (c *Chart) Frames() int { return c.frames }

// Stats sums the segment statistics of every series.
func (c *Chart) Stats() segment.Stats {
	var st segment.Stats
	for _, l := range c.layers {
		if l.buf == nil {
			continue
		}
		s := l.buf.Stats()
		st.Segments += s.Segments
		st.Allocated += s.Allocated
		st.Released += s.Released
		st.RowsUploaded += s.RowsUploaded
		st.Fits += s.Fits
	}
	return st
}

// Dispose stops redraws and releases every texture. It is idempotent.
func (c *Chart) Dispose() {
	if c.model.Disposed() {
		return
	}
	c.model.Dispose()
	logging.L().Info("timechart: chart disposed", "frames", c.frames)
}

func (c *Chart) release() {
	for _, l := range c.layers {
		if l.buf != nil {
			l.buf.Close()
			l.buf = nil
		}
	}
}

// drawFrame runs after the model recomputed its domains and before the
// series are marked synced.
func (c *Chart) drawFrame() {
	c.lastErr = nil
	fail := func(err error) {
		if c.lastErr == nil {
			c.lastErr = err
		}
		logging.L().Warn("timechart: frame error", "err", err)
	}

	for _, l := range c.layers {
		if l.buf == nil {
			b, err := segment.New(c.surf, l.s.Data, c.opts.segment, l.s.Name)
			if err != nil {
				fail(err)
				continue
			}
			l.buf = b
		}
		if err := l.buf.Sync(); err != nil {
			fail(fmt.Errorf("timechart: sync %q: %w", l.s.Name, err))
		}
	}

	size := c.model.Size()
	rp := c.opts.renderPadding
	rw := size.Width - rp.Left - rp.Right
	rh := size.Height - rp.Top - rp.Bottom
	if rw <= 0 || rh <= 0 {
		c.frames++
		return
	}
	c.surf.SetViewport(surface.Viewport{
		X: float32(rp.Left), Y: float32(rp.Top),
		Width: float32(rw), Height: float32(rh),
	})
	c.surf.Clear(c.opts.background)

	x := c.model.X()
	if x.Extent() == 0 || c.model.Y().Extent() == 0 {
		c.frames++
		return
	}
	base := c.frame(rw, rh)
	for _, l := range c.layers {
		if !l.s.Visible || l.buf == nil {
			continue
		}
		st := c.style(l.s)
		f := base
		lo := x.Invert(rp.Left - st.LineWidth/2)
		hi := x.Invert(size.Width - rp.Right + st.LineWidth/2)
		f.Min, f.Max = math.Min(lo, hi), math.Max(lo, hi)
		if err := l.buf.Draw(&f, &st); err != nil {
			fail(fmt.Errorf("timechart: draw %q: %w", l.s.Name, err))
		}
	}
	c.frames++
}

// frame maps data to clip space so that the axis pixel ranges land on the
// surface, with css measured from the centre of the render area, y up.
func (c *Chart) frame(rw, rh float64) segment.Frame {
	x, y := c.model.X(), c.model.Y()
	rp := c.opts.renderPadding
	sx := (x.RangeMax - x.RangeMin) / (x.Max - x.Min)
	sy := (y.RangeMin - y.RangeMax) / (y.Max - y.Min)
	return segment.Frame{
		Scale: [2]float64{sx, sy},
		Origin: [2]float64{
			x.Min - (x.RangeMin-rw/2-rp.Left)/sx,
			y.Min + (y.RangeMin-rh/2-rp.Top)/sy,
		},
		Projection: f32.Vec2{float32(2 / rw), float32(2 / rh)},
	}
}

func (c *Chart) style(s *series.Series) segment.Style {
	lw := c.opts.lineWidth
	if s.LineWidth > 0 {
		lw = s.LineWidth
	}
	return segment.Style{
		LineType:     s.LineType,
		StepLocation: s.StepLocation,
		LineWidth:    lw,
		PointSize:    lw * c.opts.pixelRatio,
		Color:        s.Color,
	}
}
