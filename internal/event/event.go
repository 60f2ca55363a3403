// Package event provides a registration-ordered observer list.
package event

// Dispatcher calls its listeners in registration order.
// It is not safe for concurrent use.
type Dispatcher[T any] struct {
	listeners []func(T)
}

// On registers fn. Listeners cannot be removed; they live as long as the
// dispatcher's owner.
func (d *Dispatcher[T]) On(fn func(T)) {
	if fn == nil {
		return
	}
	d.listeners = append(d.listeners, fn)
}

// Dispatch calls every listener with v.
func (d *Dispatcher[T]) Dispatch(v T) {
	for _, fn := range d.listeners {
		fn(v)
	}
}

// Len reports the number of registered listeners.
func (d *Dispatcher[T]) Len() int { return len(d.listeners) }
