package zoom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/timechart/viewport"
)

func bounded(lo, hi float64) *viewport.AxisDomain {
	a := viewport.NewAxisDomain()
	a.Set(lo, hi)
	a.SetRange(0, 200)
	a.Clamp = viewport.Clamp{MinDomain: 0, MaxDomain: 100, MinDomainExtent: 50, MaxDomainExtent: 200}
	return a
}

func TestApplyNewDomain_ClampsExtent(t *testing.T) {
	a := bounded(0, 100)
	assert.True(t, ApplyNewDomain(a, 40, 45))
	assert.InDelta(t, 17.5, a.Min, 1e-12)
	assert.InDelta(t, 67.5, a.Max, 1e-12)
}

func TestApplyNewDomain_TranslatesInward(t *testing.T) {
	a := bounded(0, 100)
	assert.True(t, ApplyNewDomain(a, -10, 60))
	assert.Equal(t, 0.0, a.Min)
	assert.Equal(t, 70.0, a.Max)

	assert.True(t, ApplyNewDomain(a, 50, 120))
	assert.Equal(t, 30.0, a.Min)
	assert.Equal(t, 100.0, a.Max)
}

func TestApplyNewDomain_ExtentBoundedByDomain(t *testing.T) {
	a := bounded(10, 60)
	assert.True(t, ApplyNewDomain(a, -50, 150))
	assert.Equal(t, 0.0, a.Min)
	assert.Equal(t, 100.0, a.Max)

	assert.False(t, ApplyNewDomain(a, -50, 150))
}

func TestApplyNewDomain_RejectsReversal(t *testing.T) {
	a := bounded(0, 100)
	assert.False(t, ApplyNewDomain(a, 45, 40))
	assert.False(t, ApplyNewDomain(a, 40, 40))
	assert.Equal(t, 0.0, a.Min)
	assert.Equal(t, 100.0, a.Max)
}

func TestApplyNewDomain_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
	}{
		{"nan", math.NaN(), math.NaN()},
		{"nan low", math.NaN(), 50},
		{"inf high", 10, math.Inf(1)},
		{"both inf", math.Inf(-1), math.Inf(1)},
		{"overflow", -math.MaxFloat64, math.MaxFloat64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := bounded(0, 100)
			assert.False(t, ApplyNewDomain(a, tt.lo, tt.hi))
			assert.Equal(t, 0.0, a.Min)
			assert.Equal(t, 100.0, a.Max)

			u := viewport.NewAxisDomain()
			u.Set(0, 100)
			assert.False(t, ApplyNewDomain(u, tt.lo, tt.hi))
			assert.Equal(t, 0.0, u.Min)
			assert.Equal(t, 100.0, u.Max)
		})
	}
}

func TestApplyNewDomain_Jitter(t *testing.T) {
	a := bounded(20, 80)
	assert.False(t, ApplyNewDomain(a, 20+1e-9, 80+1e-9))
	assert.True(t, ApplyNewDomain(a, 21, 81))
}

func TestApplyNewDomain_FlippedAxis(t *testing.T) {
	a := bounded(100, 0)
	assert.True(t, ApplyNewDomain(a, 60, -10))
	assert.Equal(t, 70.0, a.Min)
	assert.Equal(t, 0.0, a.Max)

	assert.True(t, ApplyNewDomain(a, 45, 40))
	assert.InDelta(t, 67.5, a.Min, 1e-12)
	assert.InDelta(t, 17.5, a.Max, 1e-12)
}

func TestApplyNewDomain_Unbounded(t *testing.T) {
	a := viewport.NewAxisDomain()
	assert.True(t, ApplyNewDomain(a, -1e12, 1e12))
	assert.Equal(t, -1e12, a.Min)
	assert.Equal(t, 1e12, a.Max)
	assert.False(t, math.IsNaN(a.Min))
}

func TestLinearRegression(t *testing.T) {
	k, b := LinearRegression([]float64{1}, []float64{2})
	assert.Equal(t, 0.0, k)
	assert.Equal(t, 2.0, b)

	k, b = LinearRegression([]float64{1, 2}, []float64{2, 3})
	assert.InDelta(t, 1.0, k, 1e-12)
	assert.InDelta(t, 1.0, b, 1e-12)

	k, b = LinearRegression([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	assert.InDelta(t, 2.0, k, 1e-12)
	assert.InDelta(t, 1.0, b, 1e-12)

	k, b = LinearRegression([]float64{5, 5}, []float64{1, 3})
	assert.Equal(t, 0.0, k)
	assert.Equal(t, 2.0, b)
}

func TestVariance(t *testing.T) {
	assert.Equal(t, 0.0, variance([]float64{3, 3, 3}))
	assert.Equal(t, 4.0, variance([]float64{1, 5}))
}
