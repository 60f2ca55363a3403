package zoom

// PointerKind is the device that produced a pointer event.
type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
	PointerPen
)

// Mouse button masks for PointerEvent.Buttons.
const (
	ButtonPrimary   uint32 = 1 << 0
	ButtonSecondary uint32 = 1 << 1
	ButtonAuxiliary uint32 = 1 << 2
)

// PointerEvent is a pointer down, move or up.
type PointerEvent struct {
	ID      int
	Kind    PointerKind
	Buttons uint32
	X, Y    float64
}

// OnPointerDown starts a drag for mouse pointers holding a pan button.
// Touch and pen pointers are handled through the touch events.
func (c *Controller) OnPointerDown(ev PointerEvent) {
	if ev.Kind != PointerMouse || ev.Buttons&c.opts.PanMouseButtons == 0 {
		return
	}
	c.state = StateDragging
	c.dragID = ev.ID
	c.dragPrev = point{ev.X, ev.Y}
}

// OnPointerMove translates every axis by the pointer movement.
func (c *Controller) OnPointerMove(ev PointerEvent) {
	if c.state != StateDragging || ev.Kind != PointerMouse || ev.ID != c.dragID {
		return
	}
	p := point{ev.X, ev.Y}
	changed := false
	for _, r := range c.axes {
		off := p.at(r.dir) - c.dragPrev.at(r.dir)
		k := r.axis.K()
		if ApplyNewDomain(r.axis, r.axis.Min-k*off, r.axis.Max-k*off) {
			changed = true
		}
	}
	c.dragPrev = p
	c.notify(changed)
}

// OnPointerUp ends a drag.
func (c *Controller) OnPointerUp(ev PointerEvent) {
	if c.state != StateDragging || ev.ID != c.dragID {
		return
	}
	c.state = StateIdle
}
