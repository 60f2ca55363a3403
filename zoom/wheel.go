package zoom

// WheelDeltaMode is the unit of WheelEvent deltas.
type WheelDeltaMode int

const (
	WheelPixel WheelDeltaMode = iota
	WheelLine
	WheelPage
)

// Pixels per wheel unit.
const (
	lineHeight = 30
	pageHeight = 400
)

const (
	translateCap = 0.4
	zoomCap      = 0.5
	zoomRate     = 0.002
	shiftBoost   = 5
)

// WheelEvent is a wheel or trackpad scroll. Ctrl or Meta selects zoom
// instead of translation; Alt drives the axes separately instead of folding
// both deltas into x. Shift makes the step five times larger.
type WheelEvent struct {
	DeltaX, DeltaY float64
	DeltaMode      WheelDeltaMode
	X, Y           float64
	Ctrl, Meta     bool
	Alt, Shift     bool
}

type wheelTransform struct {
	translate, zoom float64
}

// OnWheel translates or zooms the axes. A single event moves an axis by at
// most 0.4 of its extent and zooms it by at most a factor of 0.5, around
// the pointer position.
func (c *Controller) OnWheel(ev WheelEvent) {
	dx, dy := ev.DeltaX, ev.DeltaY
	switch ev.DeltaMode {
	case WheelLine:
		dx, dy = dx*lineHeight, dy*lineHeight
	case WheelPage:
		dx, dy = dx*pageHeight, dy*pageHeight
	}

	zoom := ev.Ctrl || ev.Meta
	var tx, ty wheelTransform
	switch {
	case zoom && ev.Alt:
		tx.zoom, ty.zoom = dx, dy
	case zoom:
		tx.zoom = dx + dy
	case ev.Alt:
		tx.translate, ty.translate = dx, dy
	default:
		tx.translate = dx + dy
	}

	origin := point{ev.X, ev.Y}
	changed := false
	for _, r := range c.axes {
		t := tx
		if r.dir == DirectionY {
			t = ty
		}
		a := r.axis
		extent := a.Extent()
		o := a.Invert(origin.at(r.dir))
		tr := t.translate * a.K()
		z := t.zoom * zoomRate
		if ev.Shift {
			tr *= shiftBoost
			z *= shiftBoost
		}
		capT := translateCap * extent
		if capT < 0 {
			capT = -capT
		}
		tr = clamp(tr, -capT, capT)
		z = clamp(z, -zoomCap, zoomCap)

		lo := a.Min + tr + (a.Min-o)*z
		hi := a.Max + tr + (a.Max-o)*z
		if ApplyNewDomain(a, lo, hi) {
			changed = true
		}
	}
	c.notify(changed)
}
