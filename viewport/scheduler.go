package viewport

// FrameScheduler runs a callback before the next frame is presented.
// Hosts adapt their vsync or animation-frame hook to it.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// FrameQueue is a FrameScheduler driven by explicit Flush calls, for hosts
// that own their render loop and for tests.
type FrameQueue struct {
	pending []func()
}

// RequestFrame queues fn for the next Flush.
func (q *FrameQueue) RequestFrame(fn func()) {
	q.pending = append(q.pending, fn)
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int { return len(q.pending) }

// Flush runs the queued callbacks and returns how many ran. Callbacks
// queued while flushing run on the next Flush.
func (q *FrameQueue) Flush() int {
	p := q.pending
	q.pending = nil
	for _, fn := range p {
		fn()
	}
	return len(p)
}
