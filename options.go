package timechart

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/timechart/segment"
	"github.com/gogpu/timechart/series"
	"github.com/gogpu/timechart/viewport"
)

// Option configures a Chart during creation.
//
// Example:
//
//	chart, err := timechart.New(surf,
//	    timechart.WithSeries(cpu, mem),
//	    timechart.WithYRange(0, 100),
//	    timechart.WithZoom(timechart.ZoomX, viewport.DefaultClamp()),
//	)
type Option func(*options)

// ZoomAxes selects the axes gestures act on.
type ZoomAxes int

const (
	ZoomX ZoomAxes = 1 << iota
	ZoomY
)

// options holds the configuration of a Chart.
type options struct {
	series        []*series.Series
	model         viewport.Config
	renderPadding viewport.Padding
	lineWidth     float64
	pixelRatio    float64
	segment       segment.Config
	background    gputypes.Color
	scheduler     viewport.FrameScheduler

	zoomAxes  ZoomAxes
	zoomX     viewport.Clamp
	zoomY     viewport.Clamp
	touchMinN int
}

// defaultOptions returns automatic ranges on both axes, 1px lines and a
// transparent background.
func defaultOptions() options {
	return options{
		model:      viewport.DefaultConfig(),
		lineWidth:  1,
		pixelRatio: 1,
		segment:    segment.DefaultConfig(),
		zoomX:      viewport.DefaultClamp(),
		zoomY:      viewport.DefaultClamp(),
	}
}

// WithSeries adds series to the chart, drawn in the given order.
func WithSeries(s ...*series.Series) Option {
	return func(o *options) {
		o.series = append(o.series, s...)
	}
}

// WithXRange pins the x domain to [lo, hi].
func WithXRange(lo, hi float64) Option {
	return func(o *options) {
		o.model.XRange = viewport.RangeFixed
		o.model.XFixed = series.Extent{Min: lo, Max: hi}
	}
}

// WithRealTime keeps an x window of the given width whose right edge
// follows the newest sample.
func WithRealTime(width float64) Option {
	return func(o *options) {
		o.model.XRange = viewport.RangeRealTime
		o.model.XFixed = series.Extent{Min: -width, Max: 0}
	}
}

// WithYRange pins the y domain to [lo, hi].
func WithYRange(lo, hi float64) Option {
	return func(o *options) {
		o.model.YRange = viewport.RangeFixed
		o.model.YFixed = series.Extent{Min: lo, Max: hi}
	}
}

// WithManualRanges disables automatic ranging on both axes. Domains then
// change only through gestures or direct AxisDomain writes.
func WithManualRanges() Option {
	return func(o *options) {
		o.model.XRange = viewport.RangeNone
		o.model.YRange = viewport.RangeNone
	}
}

// WithPadding sets the space reserved around the plot for axes.
func WithPadding(p viewport.Padding) Option {
	return func(o *options) {
		o.model.Padding = p
	}
}

// WithRenderPadding sets the space around the rendered area. Lines are
// clipped to the surface minus this padding.
func WithRenderPadding(p viewport.Padding) Option {
	return func(o *options) {
		o.renderPadding = p
	}
}

// WithLineWidth sets the default line width in CSS pixels. Series with a
// positive LineWidth override it.
func WithLineWidth(w float64) Option {
	return func(o *options) {
		if w > 0 {
			o.lineWidth = w
		}
	}
}

// WithPixelRatio sets the device pixels per CSS pixel, used for native
// point sizes.
func WithPixelRatio(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.pixelRatio = r
		}
	}
}

// WithSegmentConfig sets the texture size of every segment.
func WithSegmentConfig(c segment.Config) Option {
	return func(o *options) {
		o.segment = c
	}
}

// WithBackground sets the clear color.
func WithBackground(c gputypes.Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithScheduler sets the frame scheduler redraw requests go to. Without
// one, frames are rendered only by explicit Render calls.
func WithScheduler(s viewport.FrameScheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithZoom enables gestures on axes, bounded by clamp.
func WithZoom(axes ZoomAxes, clamp viewport.Clamp) Option {
	return func(o *options) {
		o.zoomAxes |= axes
		if axes&ZoomX != 0 {
			o.zoomX = clamp
		}
		if axes&ZoomY != 0 {
			o.zoomY = clamp
		}
	}
}

// WithTouchMinPoints sets the number of touches below which touch gestures
// are ignored.
func WithTouchMinPoints(n int) Option {
	return func(o *options) {
		o.touchMinN = n
	}
}
