// Package viewport derives the visible data domain of a chart.
//
// Model owns one x and one y AxisDomain and the list of series. Once per
// frame Update recomputes the domains from the data according to the range
// policies, notifies renderers, then marks every series as synced.
package viewport

import (
	"github.com/gogpu/timechart/internal/event"
	"github.com/gogpu/timechart/internal/logging"
	"github.com/gogpu/timechart/series"
)

// RangeMode selects how an axis domain follows the data.
type RangeMode int

const (
	// RangeNone leaves the domain to the caller and to interactions.
	RangeNone RangeMode = iota
	// RangeAuto fits the domain to the data.
	RangeAuto
	// RangeFixed pins the domain to the configured extent.
	RangeFixed
	// RangeRealTime keeps the x domain width and pins its right edge to
	// the newest sample. It is only meaningful for x.
	RangeRealTime
)

// Padding is the space in pixels between the surface edge and the plot.
type Padding struct {
	Left, Right, Top, Bottom float64
}

// Config holds the range policies of a Model.
type Config struct {
	XRange RangeMode
	XFixed series.Extent
	YRange RangeMode
	YFixed series.Extent

	Padding Padding

	// NiceTicks is the tick count automatic y domains are rounded for.
	NiceTicks int
}

// DefaultConfig fits both axes to the data.
func DefaultConfig() Config {
	return Config{XRange: RangeAuto, YRange: RangeAuto, NiceTicks: 10}
}

// Size is a surface size in CSS pixels.
type Size struct {
	Width, Height float64
}

// Model is the shared view state of one chart.
// It is not safe for concurrent use.
type Model struct {
	cfg    Config
	x, y   *AxisDomain
	series []*series.Series

	xData  series.Extent
	yData  series.Extent
	yReset bool

	size Size

	sched           FrameScheduler
	redrawRequested bool
	disposed        bool

	updated   event.Dispatcher[struct{}]
	resized   event.Dispatcher[Size]
	disposing event.Dispatcher[struct{}]
}

// NewModel returns a model scheduling redraws on sched.
func NewModel(cfg Config, sched FrameScheduler) *Model {
	if cfg.NiceTicks <= 0 {
		cfg.NiceTicks = 10
	}
	m := &Model{
		cfg:   cfg,
		x:     NewAxisDomain(),
		y:     NewAxisDomain(),
		xData: series.EmptyExtent(),
		yData: series.EmptyExtent(),
		sched: sched,
	}
	if cfg.XRange == RangeFixed || cfg.XRange == RangeRealTime {
		if !cfg.XFixed.IsEmpty() {
			m.x.Set(cfg.XFixed.Min, cfg.XFixed.Max)
		}
	}
	if cfg.YRange == RangeFixed && !cfg.YFixed.IsEmpty() {
		m.y.Set(cfg.YFixed.Min, cfg.YFixed.Max)
	}
	return m
}

// X returns the x axis. Interactions mutate it directly.
func (m *Model) X() *AxisDomain { return m.x }

// Y returns the y axis.
func (m *Model) Y() *AxisDomain { return m.y }

// Config returns the range policies.
func (m *Model) Config() Config { return m.cfg }

// SetRangeModes replaces the x and y range policies. The fixed extents are
// kept.
func (m *Model) SetRangeModes(x, y RangeMode) {
	m.cfg.XRange, m.cfg.YRange = x, y
}

// Size returns the last size passed to Resize.
func (m *Model) Size() Size { return m.size }

// AddSeries appends series to the model.
func (m *Model) AddSeries(s ...*series.Series) {
	m.series = append(m.series, s...)
}

// Series returns the series in drawing order.
func (m *Model) Series() []*series.Series { return m.series }

// XDataRange returns the x extent of all samples as of the last update.
func (m *Model) XDataRange() series.Extent { return m.xData }

// YDataRange returns the running y extent.
func (m *Model) YDataRange() series.Extent { return m.yData }

// ResetYRange makes the next update rebuild the y extent from every
// sample instead of extending the running one.
func (m *Model) ResetYRange() {
	m.yData = series.EmptyExtent()
	m.yReset = true
}

// OnUpdated registers fn to run after each recompute, before the series
// are marked synced. Renderers hook in here.
func (m *Model) OnUpdated(fn func()) {
	m.updated.On(func(struct{}) { fn() })
}

// OnResized registers fn to run on Resize.
func (m *Model) OnResized(fn func(Size)) { m.resized.On(fn) }

// OnDisposing registers fn to run once when the model is disposed.
func (m *Model) OnDisposing(fn func()) {
	m.disposing.On(func(struct{}) { fn() })
}

// Resize sets the pixel ranges of both axes from the surface size and the
// padding, then requests a redraw.
func (m *Model) Resize(width, height float64) {
	p := m.cfg.Padding
	m.size = Size{Width: width, Height: height}
	m.x.SetRange(p.Left, width-p.Right)
	m.y.SetRange(height-p.Bottom, p.Top)
	m.resized.Dispatch(m.size)
	m.RequestRedraw()
}

// Update recomputes the domains, notifies OnUpdated listeners and marks
// every series synced.
func (m *Model) Update() {
	m.UpdateDomains()
	m.updated.Dispatch(struct{}{})
	for _, s := range m.series {
		s.Data.Reset()
	}
}

// UpdateDomains recomputes the domains from the pending changes of every
// series without notifying anyone.
func (m *Model) UpdateDomains() {
	var active []*series.Series
	for _, s := range m.series {
		if s.Data.Len() > 0 {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return
	}

	xd := series.EmptyExtent()
	for _, s := range active {
		first, _ := s.Data.First()
		last, _ := s.Data.Last()
		xd = xd.Union(series.Extent{Min: first.X, Max: last.X})
	}
	m.xData = xd
	switch m.cfg.XRange {
	case RangeRealTime:
		w := m.x.Extent()
		m.x.Set(xd.Max-w, xd.Max)
	case RangeAuto:
		m.x.Set(xd.Min, xd.Max)
	case RangeFixed:
		m.x.Set(m.cfg.XFixed.Min, m.cfg.XFixed.Max)
	}

	yd := m.yData
	for _, s := range active {
		pts := s.Data.Items()
		if m.yReset {
			yd = yd.Union(series.MinMaxY(pts, 0, len(pts)))
			continue
		}
		d := s.Data.Delta()
		yd = yd.Union(series.MinMaxY(pts, 0, d.PushedFront))
		yd = yd.Union(series.MinMaxY(pts, len(pts)-d.PushedBack, len(pts)))
	}
	m.yReset = false
	m.yData = yd
	switch m.cfg.YRange {
	case RangeAuto:
		switch {
		case yd.IsEmpty():
		case yd.Min == yd.Max:
			// A flat series still needs a non-empty domain to be drawn.
			m.y.Set(yd.Min-1, yd.Max+1)
		default:
			m.y.Set(yd.Min, yd.Max)
			m.y.Nice(m.cfg.NiceTicks)
		}
	case RangeFixed:
		m.y.Set(m.cfg.YFixed.Min, m.cfg.YFixed.Max)
	}
}

// RequestRedraw schedules one Update on the next frame. Calls made while a
// frame is already pending are coalesced into it.
func (m *Model) RequestRedraw() {
	if m.redrawRequested || m.sched == nil {
		return
	}
	m.redrawRequested = true
	m.sched.RequestFrame(func() {
		m.redrawRequested = false
		if !m.disposed {
			m.Update()
		}
	})
}

// Dispose stops pending and future redraws and notifies OnDisposing
// listeners. It is idempotent.
func (m *Model) Dispose() {
	if m.disposed {
		return
	}
	m.disposing.Dispatch(struct{}{})
	m.disposed = true
	logging.L().Debug("viewport: model disposed", "series", len(m.series))
}

// Disposed reports whether Dispose was called.
func (m *Model) Disposed() bool { return m.disposed }

// PxPoint maps a sample to surface pixels.
func (m *Model) PxPoint(p series.Point) (x, y float64) {
	return m.x.Apply(p.X), m.y.Apply(p.Y)
}
