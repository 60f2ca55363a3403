package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_Order(t *testing.T) {
	var d Dispatcher[int]
	var got []string
	d.On(func(v int) { got = append(got, "a") })
	d.On(nil)
	d.On(func(v int) { got = append(got, "b") })

	d.Dispatch(1)
	d.Dispatch(2)

	assert.Equal(t, []string{"a", "b", "a", "b"}, got)
	assert.Equal(t, 2, d.Len())
}
