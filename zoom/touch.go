package zoom

// Touch is one active touch point.
type Touch struct {
	ID   int
	X, Y float64
}

// TouchEvent carries every touch still on the surface after the change.
type TouchEvent struct {
	Touches []Touch
}

// regressionThreshold is the domain variance, relative to the squared
// extent, above which touches are fitted for zoom instead of only panned.
const regressionThreshold = 1e-4

// OnTouchStart picks the major axis when a multi-touch gesture begins and
// applies the touch movement.
func (c *Controller) OnTouchStart(ev TouchEvent) {
	if c.major == DirectionNone && len(ev.Touches) >= 2 {
		xs := make([]float64, len(ev.Touches))
		ys := make([]float64, len(ev.Touches))
		for i, t := range ev.Touches {
			xs[i], ys[i] = t.X, t.Y
		}
		c.major = DirectionY
		if variance(xs) > variance(ys) {
			c.major = DirectionX
		}
		if c.axis(c.major) == nil {
			c.major = DirectionNone
		}
	}
	c.touch(ev.Touches)
}

// OnTouchMove applies the touch movement.
func (c *Controller) OnTouchMove(ev TouchEvent) { c.touch(ev.Touches) }

// OnTouchEnd applies the remaining touches. The gesture ends when no touch
// is left.
func (c *Controller) OnTouchEnd(ev TouchEvent) {
	if len(ev.Touches) == 0 {
		c.major = DirectionNone
	}
	c.touch(ev.Touches)
}

// touch maps the previous domain position of every touch that was already
// down onto its current pixel position, then derives the new domain of each
// axis from that mapping.
func (c *Controller) touch(touches []Touch) {
	switch {
	case len(touches) == 0:
		c.state = StateIdle
	case len(touches) >= 2:
		c.state = StatePinching
	default:
		c.state = StateDragging
	}
	if len(touches) < c.opts.TouchMinPoints {
		clear(c.touches)
		return
	}

	cur := make(map[int]point, len(touches))
	for _, t := range touches {
		cur[t.ID] = point{t.X, t.Y}
	}

	changed := false
	for _, r := range c.axes {
		var px, dom []float64
		for _, t := range touches {
			prev, ok := c.touches[t.ID]
			if !ok {
				continue
			}
			px = append(px, cur[t.ID].at(r.dir))
			dom = append(dom, r.axis.Invert(prev.at(r.dir)))
		}
		if len(px) == 0 {
			continue
		}
		k, b := c.fit(r, px, dom)
		a := r.axis
		if ApplyNewDomain(a, b+k*a.RangeMin, b+k*a.RangeMax) {
			changed = true
		}
	}
	c.touches = cur
	c.notify(changed)
}

// fit returns domain = k*px + b. The major axis is fitted by least squares
// when the touches are spread enough; otherwise the current scale is kept
// and only the offset follows the touches.
func (c *Controller) fit(r axisRef, px, dom []float64) (k, b float64) {
	if r.dir == c.major && len(px) >= 2 {
		e := r.axis.Extent()
		if variance(dom) > regressionThreshold*e*e {
			return LinearRegression(px, dom)
		}
	}
	k = r.axis.K()
	for i := range px {
		b += dom[i] - k*px[i]
	}
	return k, b / float64(len(px))
}
