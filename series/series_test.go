package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMaxY(t *testing.T) {
	pts := []Point{{0, 3}, {1, -2}, {2, 7}, {3, 1}}
	assert.Equal(t, Extent{Min: -2, Max: 7}, MinMaxY(pts, 0, 4))
	assert.Equal(t, Extent{Min: 1, Max: 7}, MinMaxY(pts, 2, 4))
	assert.True(t, MinMaxY(pts, 2, 2).IsEmpty())
}

func TestExtent_Union(t *testing.T) {
	e := EmptyExtent().Union(Extent{Min: 1, Max: 2})
	assert.Equal(t, Extent{Min: 1, Max: 2}, e)
	e = e.Union(EmptyExtent())
	assert.Equal(t, Extent{Min: 1, Max: 2}, e)
	assert.True(t, math.IsInf(EmptyExtent().Min, 1))
}

func TestLineType_RoundTrip(t *testing.T) {
	for lt := LineTypeLine; lt <= LineTypeNone; lt++ {
		got, ok := ParseLineType(lt.String())
		assert.True(t, ok)
		assert.Equal(t, lt, got)
	}
	_, ok := ParseLineType("dashed")
	assert.False(t, ok)
	assert.Equal(t, "unknown", LineType(42).String())
}

func TestNew(t *testing.T) {
	s := New("cpu", Point{0, 1}, Point{1, 2})
	assert.True(t, s.Visible)
	assert.Equal(t, 2, s.Data.Len())
	assert.Equal(t, 2, s.Data.Delta().PushedBack)
}
