package zoom

import (
	"github.com/gogpu/timechart/internal/event"
	"github.com/gogpu/timechart/internal/logging"
	"github.com/gogpu/timechart/viewport"
)

// Direction names a chart axis.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionX
	DirectionY
)

func (d Direction) String() string {
	switch d {
	case DirectionX:
		return "x"
	case DirectionY:
		return "y"
	default:
		return "none"
	}
}

// State is the gesture state of a Controller.
type State int

const (
	StateIdle State = iota
	// StateDragging is a mouse drag or a single-touch pan.
	StateDragging
	// StatePinching is a gesture with two or more touches.
	StatePinching
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StatePinching:
		return "pinching"
	default:
		return "idle"
	}
}

// AxisOptions enables gestures on one axis. The bounds live in Axis.Clamp.
type AxisOptions struct {
	Axis *viewport.AxisDomain
}

// Options configures a Controller. A nil axis is never changed.
type Options struct {
	X *AxisOptions
	Y *AxisOptions

	// TouchMinPoints is the number of touches below which touch gestures
	// are ignored. Zero means 1.
	TouchMinPoints int

	// PanMouseButtons is the button mask that starts a drag. Zero means
	// any of the primary, secondary and auxiliary buttons.
	PanMouseButtons uint32
}

type axisRef struct {
	dir  Direction
	axis *viewport.AxisDomain
}

type point struct{ x, y float64 }

func (p point) at(d Direction) float64 {
	if d == DirectionY {
		return p.y
	}
	return p.x
}

// Controller maps gestures to domain changes.
// It is not safe for concurrent use.
type Controller struct {
	opts Options
	axes []axisRef

	state State

	dragID   int
	dragPrev point

	major   Direction
	touches map[int]point

	changed event.Dispatcher[struct{}]
}

// New returns a controller for the axes in opts.
func New(opts Options) *Controller {
	if opts.TouchMinPoints <= 0 {
		opts.TouchMinPoints = 1
	}
	if opts.PanMouseButtons == 0 {
		opts.PanMouseButtons = ButtonPrimary | ButtonSecondary | ButtonAuxiliary
	}
	c := &Controller{opts: opts, touches: map[int]point{}}
	if opts.X != nil && opts.X.Axis != nil {
		c.axes = append(c.axes, axisRef{DirectionX, opts.X.Axis})
	}
	if opts.Y != nil && opts.Y.Axis != nil {
		c.axes = append(c.axes, axisRef{DirectionY, opts.Y.Axis})
	}
	return c
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// OnDomainChanged registers fn to run after a gesture event changed a
// domain. Listeners run in registration order.
func (c *Controller) OnDomainChanged(fn func()) {
	c.changed.On(func(struct{}) { fn() })
}

// Enabled reports whether the axis in direction d is configured and its
// domain lies strictly inside its clamp. Hosts use it to decide which touch
// directions the chart consumes and which fall through to page scrolling.
func (c *Controller) Enabled(d Direction) bool {
	a := c.axis(d)
	return a != nil && a.Enabled()
}

func (c *Controller) axis(d Direction) *viewport.AxisDomain {
	for _, r := range c.axes {
		if r.dir == d {
			return r.axis
		}
	}
	return nil
}

func (c *Controller) notify(changed bool) {
	if !changed {
		return
	}
	logging.L().Debug("zoom: domain changed", "state", c.state.String())
	c.changed.Dispatch(struct{}{})
}
