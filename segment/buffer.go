package segment

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/timechart/delta"
	"github.com/gogpu/timechart/internal/logging"
	"github.com/gogpu/timechart/series"
	"github.com/gogpu/timechart/surface"
)

// overlap is the number of samples shared by adjacent segments.
const overlap = 2

var (
	// ErrCapacity is returned for a Config whose texture holds fewer than
	// 2*overlap samples.
	ErrCapacity = errors.New("segment: texture capacity too small")

	// ErrNilArgument is returned by New for a nil surface or data buffer.
	ErrNilArgument = errors.New("segment: nil surface or data")
)

// Config sets the texture size of every segment.
type Config struct {
	TextureWidth  int
	TextureHeight int
}

// DefaultConfig returns 256 x 2048 texel segments.
func DefaultConfig() Config {
	return Config{TextureWidth: 256, TextureHeight: 2048}
}

// Capacity is the number of samples one segment holds.
func (c Config) Capacity() int { return c.TextureWidth * c.TextureHeight }

// IntervalCapacity is the number of intervals one segment draws.
func (c Config) IntervalCapacity() int { return c.Capacity() - overlap }

// Validate checks the texture size.
func (c Config) Validate() error {
	if c.TextureWidth <= 0 || c.TextureHeight <= 0 || c.Capacity() < 2*overlap {
		return fmt.Errorf("%w: %dx%d", ErrCapacity, c.TextureWidth, c.TextureHeight)
	}
	return nil
}

type segment struct {
	tex surface.TextureID

	// x0 + xStep*p predicts the x of the sample at position p.
	x0     float64
	xStep  float64
	seeded bool
}

// Stats counts the work a Buffer has done since it was created.
type Stats struct {
	Segments     int
	Allocated    int
	Released     int
	RowsUploaded int
	Fits         int
}

// Buffer mirrors one series into segments on a surface.
// It is not safe for concurrent use.
type Buffer struct {
	cfg   Config
	surf  surface.Surface
	data  *delta.Buffer[series.Point]
	label string

	segs []*segment

	// validStart is the position of the first sample in segs[0], in
	// (0, IntervalCapacity]. validEnd is the position after the last
	// sample in the last segment, in [overlap, Capacity).
	validStart int
	validEnd   int

	scratch []f32.Vec2
	stats   Stats
}

// New returns a Buffer mirroring data into textures created on s.
// label names the textures for debugging.
func New(s surface.Surface, data *delta.Buffer[series.Point], cfg Config, label string) (*Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil || data == nil {
		return nil, ErrNilArgument
	}
	return &Buffer{cfg: cfg, surf: s, data: data, label: label}, nil
}

// Config returns the segment texture size.
func (b *Buffer) Config() Config { return b.cfg }

// Len returns the number of live segments.
func (b *Buffer) Len() int { return len(b.segs) }

// Valid returns the position of the first sample in the first segment and
// the position after the last sample in the last segment.
func (b *Buffer) Valid() (start, end int) { return b.validStart, b.validEnd }

// Texture returns the texture of segment i.
func (b *Buffer) Texture(i int) surface.TextureID { return b.segs[i].tex }

// Fit returns the x prediction of segment i.
func (b *Buffer) Fit(i int) (x0, xStep float64) { return b.segs[i].x0, b.segs[i].xStep }

// Stats returns the work counters.
func (b *Buffer) Stats() Stats {
	s := b.stats
	s.Segments = len(b.segs)
	return s
}

// Sync applies the pending changes of the series to the textures.
// It reads but never resets the change counters.
//
// On error every segment is released, so the next Sync rebuilds the
// textures from the whole series.
func (b *Buffer) Sync() error {
	if err := b.sync(); err != nil {
		b.release()
		return err
	}
	return nil
}

func (b *Buffer) sync() error {
	d := b.data.Delta()
	n := b.data.Len()

	if n-d.PushedBack-d.PushedFront < overlap {
		b.release()
		d.PoppedFront, d.PoppedBack = 0, 0
	}

	if len(b.segs) == 0 {
		if n < overlap {
			return nil
		}
		if d.PushedBack > d.PushedFront {
			return b.pushBack(n)
		}
		return b.pushFront(n)
	}

	if err := b.popFront(d.PoppedFront); err != nil {
		return err
	}
	if err := b.popBack(d.PoppedBack); err != nil {
		return err
	}
	if err := b.pushFront(d.PushedFront); err != nil {
		return err
	}
	return b.pushBack(d.PushedBack)
}

func (b *Buffer) popFront(k int) error {
	if k == 0 {
		return nil
	}
	ic := b.cfg.IntervalCapacity()
	b.validStart += k
	for b.validStart > ic {
		if len(b.segs) == 0 {
			panic("segment: front trim ran past the last segment")
		}
		b.releaseSegment(b.segs[0])
		b.segs = b.segs[1:]
		b.validStart -= ic
	}
	return b.syncPoints(0, 0, 0, b.validStart)
}

func (b *Buffer) popBack(k int) error {
	if k == 0 {
		return nil
	}
	ic := b.cfg.IntervalCapacity()
	b.validEnd -= k
	for b.validEnd < overlap {
		if len(b.segs) == 0 {
			panic("segment: back trim ran past the first segment")
		}
		last := len(b.segs) - 1
		b.releaseSegment(b.segs[last])
		b.segs[last] = nil
		b.segs = b.segs[:last]
		b.validEnd += ic
	}
	return b.syncPoints(len(b.segs)-1, b.data.Len(), 0, b.validEnd)
}

func (b *Buffer) pushFront(k int) error {
	if k == 0 {
		return nil
	}
	capacity := b.cfg.Capacity()
	if len(b.segs) == 0 {
		if err := b.prependSegment(); err != nil {
			return err
		}
		b.validStart, b.validEnd = capacity-1, capacity-1
	}

	remaining := k
	for {
		cnt := min(b.validStart, remaining)
		from, to := b.validStart-cnt, b.validStart
		if from == 0 {
			// The segment is about to be full: fix its prediction before
			// writing, and rewrite older samples if it moved.
			last := len(b.segs) - 1
			hi := capacity
			if last == 0 {
				hi = b.validEnd
			}
			if b.fit(0, 0, hi, remaining-b.validStart, true, last > 0) && to < capacity {
				to = capacity
			}
		}
		if err := b.syncPoints(0, remaining-cnt, to-from, from); err != nil {
			return err
		}

		remaining -= b.validStart - overlap
		b.validStart -= cnt
		if b.validStart > 0 {
			return nil
		}
		if err := b.prependSegment(); err != nil {
			return err
		}
		b.validStart = capacity
	}
}

func (b *Buffer) pushBack(k int) error {
	if k == 0 {
		return nil
	}
	capacity, ic := b.cfg.Capacity(), b.cfg.IntervalCapacity()
	if len(b.segs) == 0 {
		if err := b.appendSegment(); err != nil {
			return err
		}
		b.validStart, b.validEnd = 1, 1
	}

	n := b.data.Len()
	remaining := k
	for {
		i := len(b.segs) - 1
		cnt := min(capacity-b.validEnd, remaining)
		from := b.validEnd
		if b.validEnd+cnt == capacity {
			lo := 0
			if i == 0 {
				lo = b.validStart
			}
			// Rewriting from 0 also refreshes the padding before the
			// first sample.
			if b.fit(i, lo, capacity, n-remaining-b.validEnd, i > 0, true) && from > 0 {
				from = 0
			}
		}
		start := n - remaining - (b.validEnd - from)
		if err := b.syncPoints(i, start, b.validEnd+cnt-from, from); err != nil {
			return err
		}

		// Adjacent segments overlap, so remaining grows back by the
		// overlap whenever a segment fills up.
		remaining -= ic - b.validEnd
		b.validEnd += cnt
		if b.validEnd < capacity {
			return nil
		}
		if err := b.appendSegment(); err != nil {
			return err
		}
		b.validEnd = 0
	}
}

// fit sets the x prediction of segment i from the samples at positions
// [lo, hi), position p holding data index p+base. A shared edge uses the
// mean of its two overlapping samples so both neighbours agree on it.
// fit reports whether the prediction changed.
func (b *Buffer) fit(i, lo, hi, base int, headShared, tailShared bool) bool {
	if hi-lo < 1 {
		return false
	}
	pts := b.data.Items()
	x := func(p int) float64 {
		return pts[min(max(p+base, 0), len(pts)-1)].X
	}
	capacity := b.cfg.Capacity()

	pa, xa := float64(lo), x(lo)
	if headShared && lo == 0 {
		pa, xa = 0.5, (x(0)+x(1))/2
	}
	pz, xz := float64(hi-1), x(hi-1)
	if tailShared && hi == capacity {
		pz, xz = float64(capacity)-1.5, (x(capacity-2)+x(capacity-1))/2
	}
	step := 0.0
	if pz > pa {
		step = (xz - xa) / (pz - pa)
	}
	if math.IsNaN(step) || math.IsInf(step, 0) {
		step = 0
	}
	x0 := xa - step*pa

	seg := b.segs[i]
	changed := !seg.seeded || seg.x0 != x0 || seg.xStep != step
	seg.x0, seg.xStep, seg.seeded = x0, step, true
	if changed {
		b.stats.Fits++
	}
	return changed
}

// seed gives a fresh segment a provisional prediction anchored at the
// first sample written to it.
func (b *Buffer) seed(i, start, n, pos int) {
	pts := b.data.Items()
	seg := b.segs[i]
	step := 0.0
	switch {
	case i > 0 && b.segs[i-1].seeded:
		step = b.segs[i-1].xStep
	case i+1 < len(b.segs) && b.segs[i+1].seeded:
		step = b.segs[i+1].xStep
	case n >= 2:
		step = (pts[start+n-1].X - pts[start].X) / float64(n-1)
	case len(pts) >= 2:
		step = (pts[len(pts)-1].X - pts[0].X) / float64(len(pts)-1)
	}
	if math.IsNaN(step) || math.IsInf(step, 0) {
		step = 0
	}
	x := pts[min(max(start, 0), len(pts)-1)].X
	seg.x0, seg.xStep, seg.seeded = x-step*float64(pos), step, true
}

// syncPoints uploads the rows of segment i covering positions
// [pos, pos+n), which hold data indices [start, start+n). Rows at the true
// ends of the data get one row of padding; positions outside the data
// repeat the nearest sample.
func (b *Buffer) syncPoints(i, start, n, pos int) error {
	pts := b.data.Items()
	if len(pts) == 0 {
		return nil
	}
	seg := b.segs[i]
	if !seg.seeded {
		b.seed(i, start, n, pos)
	}

	w, h := b.cfg.TextureWidth, b.cfg.TextureHeight
	rowStart := pos / w
	rowEnd := (pos + n + w - 1) / w
	if rowStart > 0 && start == 0 && pos == rowStart*w {
		rowStart--
	}
	if rowEnd < h && start+n == len(pts) && pos+n == rowEnd*w {
		rowEnd++
	}
	if rowEnd <= rowStart {
		return nil
	}

	size := (rowEnd - rowStart) * w
	if cap(b.scratch) < size {
		b.scratch = make([]f32.Vec2, size)
	}
	texels := b.scratch[:size]
	last := len(pts) - 1
	for j := range texels {
		p := rowStart*w + j
		pt := pts[min(max(start+p-pos, 0), last)]
		texels[j] = f32.Vec2{
			float32(pt.X - (seg.x0 + seg.xStep*float64(p))),
			float32(pt.Y),
		}
	}

	if err := b.surf.WriteTextureRows(seg.tex, rowStart, rowEnd-rowStart, texels); err != nil {
		return fmt.Errorf("segment: upload rows %d..%d: %w", rowStart, rowEnd, err)
	}
	b.stats.RowsUploaded += rowEnd - rowStart
	return nil
}

func (b *Buffer) newSegment() (*segment, error) {
	id, err := b.surf.CreateTexture(surface.TextureDesc{
		Label:  b.label,
		Width:  b.cfg.TextureWidth,
		Height: b.cfg.TextureHeight,
		Format: gputypes.TextureFormatRG32Float,
	})
	if err != nil {
		return nil, fmt.Errorf("segment: create texture: %w", err)
	}
	b.stats.Allocated++
	logging.L().Debug("segment: allocated", "series", b.label, "texture", id, "segments", len(b.segs)+1)
	return &segment{tex: id}, nil
}

func (b *Buffer) appendSegment() error {
	s, err := b.newSegment()
	if err != nil {
		return err
	}
	b.segs = append(b.segs, s)
	return nil
}

func (b *Buffer) prependSegment() error {
	s, err := b.newSegment()
	if err != nil {
		return err
	}
	b.segs = append([]*segment{s}, b.segs...)
	return nil
}

func (b *Buffer) releaseSegment(s *segment) {
	if err := b.surf.DestroyTexture(s.tex); err != nil {
		logging.L().Warn("segment: release texture", "series", b.label, "texture", s.tex, "err", err)
	}
	b.stats.Released++
	logging.L().Debug("segment: released", "series", b.label, "texture", s.tex)
}

func (b *Buffer) release() {
	for _, s := range b.segs {
		b.releaseSegment(s)
	}
	b.segs = nil
	b.validStart, b.validEnd = 0, 0
}

// Close releases every texture. The Buffer may be synced again afterwards;
// it then rebuilds from the whole series.
func (b *Buffer) Close() {
	b.release()
}
