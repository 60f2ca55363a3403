package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func xs(v ...float64) []Point {
	p := make([]Point, len(v))
	for i, x := range v {
		p[i] = Point{X: x}
	}
	return p
}

func TestSearchX(t *testing.T) {
	seq := xs(0, 1, 2, 3, 4, 5)
	dup := xs(0, 1, 2, 2, 4, 5)

	tests := []struct {
		name string
		data []Point
		x    float64
		want int
	}{
		{"exact match", seq, 2, 2},
		{"between below half", seq, 2.4, 3},
		{"between at half", seq, 2.5, 3},
		{"between above half", seq, 2.6, 3},
		{"below first", seq, -1, 0},
		{"above last", seq, 10, len(seq)},
		{"duplicates", dup, 3, 4},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchX(tt.data, 0, len(tt.data), tt.x))
		})
	}
}

func TestSearchX_DuplicateLowerBound(t *testing.T) {
	data := xs(0, 1, 2, 2, 4, 5)
	for end := 2; end <= len(data); end++ {
		assert.Equal(t, 2, SearchX(data, 0, end, 2), "end=%d", end)
	}
}

func TestSearchX_Uneven(t *testing.T) {
	data := xs(0)
	for range 100 {
		data = append(data, xs(100)...)
	}
	assert.Equal(t, 1, SearchX(data, 0, len(data), 99))
}

func TestSearchX_MatchesLinearScan(t *testing.T) {
	data := make([]Point, 0, 500)
	x := 0.0
	for i := range 500 {
		x += float64(i%7) * 0.5
		data = append(data, Point{X: x})
	}
	for q := -1.0; q < x+2; q += 0.37 {
		want := len(data)
		for i, p := range data {
			if p.X >= q {
				want = i
				break
			}
		}
		assert.Equal(t, want, SearchX(data, 0, len(data), q), "x=%v", q)
	}
}
