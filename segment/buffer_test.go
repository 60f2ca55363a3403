package segment

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/timechart/delta"
	"github.com/gogpu/timechart/series"
	"github.com/gogpu/timechart/surface"
)

// small gives 16-sample segments so tests cross many boundaries.
var small = Config{TextureWidth: 4, TextureHeight: 4}

const epoch = 1.7e12

func sample(i int) series.Point {
	return series.Point{X: epoch + 1000*float64(i) + float64(i%3), Y: math.Sin(float64(i) / 7)}
}

func samples(from, to int) []series.Point {
	pts := make([]series.Point, 0, to-from)
	for i := from; i < to; i++ {
		pts = append(pts, sample(i))
	}
	return pts
}

func newBuffer(t *testing.T, data *delta.Buffer[series.Point]) (*Buffer, *surface.Recorder) {
	t.Helper()
	rec := surface.NewRecorder()
	b, err := New(rec, data, small, "test")
	require.NoError(t, err)
	return b, rec
}

func frame(t *testing.T, b *Buffer, data *delta.Buffer[series.Point]) {
	t.Helper()
	require.NoError(t, b.Sync())
	data.Reset()
}

// checkMirror reconstructs every sample from the textures, including both
// copies of samples shared by adjacent segments.
func checkMirror(t *testing.T, b *Buffer, rec *surface.Recorder, data *delta.Buffer[series.Point]) {
	t.Helper()
	pts := data.Items()
	if len(pts) < 2 {
		assert.Zero(t, b.Len())
		return
	}
	require.Equal(t, b.Len(), rec.LiveTextures())

	ic, capacity := b.cfg.IntervalCapacity(), b.cfg.Capacity()
	vs, ve := b.Valid()
	for d, pt := range pts {
		g := d + vs
		found := 0
		for i := g/ic - 1; i <= g/ic; i++ {
			p := g - i*ic
			if i < 0 || i >= b.Len() || p < 0 || p >= capacity {
				continue
			}
			if (i == 0 && p < vs) || (i == b.Len()-1 && p >= ve) {
				continue
			}
			tex, ok := rec.Texture(b.Texture(i))
			require.True(t, ok)
			texel := tex.Fetch(p)
			x0, step := b.Fit(i)
			x := x0 + step*float64(p) + float64(texel[0])
			assert.InDelta(t, pt.X, x, 1e-3, "sample %d in segment %d at %d", d, i, p)
			assert.Equal(t, float32(pt.Y), texel[1], "sample %d in segment %d at %d", d, i, p)
			found++
		}
		assert.NotZero(t, found, "sample %d not mirrored", d)
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Equal(t, 256*2048, DefaultConfig().Capacity())
	assert.Equal(t, 256*2048-2, DefaultConfig().IntervalCapacity())
	assert.ErrorIs(t, Config{TextureWidth: 1, TextureHeight: 3}.Validate(), ErrCapacity)
	assert.ErrorIs(t, Config{}.Validate(), ErrCapacity)

	_, err := New(surface.NewRecorder(), delta.New[series.Point](), Config{}, "")
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestNew_NilArgument(t *testing.T) {
	_, err := New(nil, delta.New[series.Point](), small, "")
	assert.ErrorIs(t, err, ErrNilArgument)
	_, err = New(surface.NewRecorder(), nil, small, "")
	assert.ErrorIs(t, err, ErrNilArgument)
}

func TestSync_AppendOneAtATime(t *testing.T) {
	data := delta.New[series.Point]()
	b, rec := newBuffer(t, data)

	const n = 200
	ic := small.IntervalCapacity()
	for i := range n {
		data.Append(sample(i))
		frame(t, b, data)
		limit := (i+1+ic-1)/ic + 1
		assert.LessOrEqual(t, b.Len(), limit, "after %d samples", i+1)
	}
	checkMirror(t, b, rec, data)

	vs, ve := b.Valid()
	assert.Greater(t, vs, 0)
	assert.LessOrEqual(t, vs, ic)
	assert.GreaterOrEqual(t, ve, 2)
	assert.Less(t, ve, small.Capacity())
}

func TestSync_BulkLoadUploadsEachRowOnce(t *testing.T) {
	data := delta.New(samples(0, 30)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)

	assert.Equal(t, 3, b.Len())
	vs, ve := b.Valid()
	assert.Equal(t, 1, vs)
	assert.Equal(t, 3, ve)
	// Two full segments of four rows and one row of the third.
	assert.Equal(t, 9, b.Stats().RowsUploaded)
	assert.Equal(t, 9, rec.UploadedRows())
	checkMirror(t, b, rec, data)
}

func TestSync_AppendUploadsTouchedRows(t *testing.T) {
	data := delta.New(samples(0, 10)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)
	rec.ClearCommands()

	data.Append(sample(10))
	frame(t, b, data)
	assert.LessOrEqual(t, rec.UploadedRows(), 2)
	checkMirror(t, b, rec, data)
}

func TestSync_PopFrontReleasesSegments(t *testing.T) {
	data := delta.New(samples(0, 100)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)
	require.Equal(t, 8, b.Len())

	for range 60 {
		data.PopFront()
	}
	frame(t, b, data)

	assert.Equal(t, 4, b.Len())
	vs, _ := b.Valid()
	assert.Equal(t, 5, vs)
	assert.Equal(t, 4, b.Stats().Released)
	checkMirror(t, b, rec, data)
}

func TestSync_PopBack(t *testing.T) {
	data := delta.New(samples(0, 40)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)

	for range 20 {
		data.PopBack()
	}
	frame(t, b, data)
	assert.Equal(t, 2, b.Len())
	checkMirror(t, b, rec, data)

	data.Append(samples(20, 25)...)
	frame(t, b, data)
	checkMirror(t, b, rec, data)
}

func TestSync_Prepend(t *testing.T) {
	data := delta.New(samples(100, 105)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)

	data.Prepend(samples(60, 100)...)
	frame(t, b, data)
	checkMirror(t, b, rec, data)

	for i := 59; i >= 30; i-- {
		data.Prepend(sample(i))
		frame(t, b, data)
	}
	checkMirror(t, b, rec, data)

	vs, ve := b.Valid()
	assert.Greater(t, vs, 0)
	assert.LessOrEqual(t, vs, small.IntervalCapacity())
	assert.GreaterOrEqual(t, ve, 2)
}

func TestSync_InitialFrontPush(t *testing.T) {
	data := delta.New[series.Point]()
	b, rec := newBuffer(t, data)
	data.Prepend(samples(0, 40)...)
	frame(t, b, data)

	checkMirror(t, b, rec, data)
	_, ve := b.Valid()
	assert.Equal(t, small.Capacity()-1, ve)
}

func TestSync_RollingWindow(t *testing.T) {
	const window = 50
	data := delta.New(samples(0, window)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)

	ic := small.IntervalCapacity()
	for i := window; i < 500; i++ {
		data.Append(sample(i))
		data.PopFront()
		frame(t, b, data)
		assert.LessOrEqual(t, b.Len(), (window+ic-1)/ic+2)
	}
	checkMirror(t, b, rec, data)
	assert.Equal(t, b.Len(), rec.LiveTextures())
}

func TestSync_MixedEdits(t *testing.T) {
	data := delta.New(samples(200, 240)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)

	data.Prepend(samples(180, 200)...)
	data.Append(samples(240, 270)...)
	data.PopFront()
	data.PopFront()
	data.PopBack()
	_, err := data.Splice(data.Len()-3, 2, samples(268, 270)...)
	require.NoError(t, err)
	frame(t, b, data)
	checkMirror(t, b, rec, data)
}

func TestSync_FewerThanTwoReleases(t *testing.T) {
	data := delta.New(samples(0, 20)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)
	require.Equal(t, 2, b.Len())

	_, err := data.Truncate(1)
	require.NoError(t, err)
	frame(t, b, data)
	assert.Zero(t, b.Len())
	assert.Zero(t, rec.LiveTextures())

	data.Append(sample(1), sample(2))
	frame(t, b, data)
	assert.Equal(t, 1, b.Len())
	checkMirror(t, b, rec, data)
}

func TestSync_SingleSampleAllocatesNothing(t *testing.T) {
	data := delta.New(sample(0))
	b, rec := newBuffer(t, data)
	frame(t, b, data)
	assert.Zero(t, b.Len())
	assert.Zero(t, rec.LiveTextures())
}

func TestSync_SharedSamplesAgree(t *testing.T) {
	data := delta.New[series.Point]()
	for i := range 100 {
		// Irregular spacing makes neighbouring fits differ.
		data.Append(series.Point{X: epoch + float64(i*i), Y: float64(i)})
	}
	b, rec := newBuffer(t, data)
	frame(t, b, data)
	checkMirror(t, b, rec, data)

	for i := 1; i < b.Len(); i++ {
		prev, _ := rec.Texture(b.Texture(i - 1))
		cur, _ := rec.Texture(b.Texture(i))
		px0, pstep := b.Fit(i - 1)
		cx0, cstep := b.Fit(i)
		ic := small.IntervalCapacity()
		for k := range 2 {
			xp := px0 + pstep*float64(ic+k) + float64(prev.Fetch(ic+k)[0])
			xc := cx0 + cstep*float64(k) + float64(cur.Fetch(k)[0])
			assert.InDelta(t, xp, xc, 1e-3)
		}
	}
}

type flakySurface struct {
	*surface.Recorder
	fail bool
}

var errDevice = errors.New("device lost")

func (f *flakySurface) CreateTexture(d surface.TextureDesc) (surface.TextureID, error) {
	if f.fail {
		return 0, errDevice
	}
	return f.Recorder.CreateTexture(d)
}

func TestSync_ErrorReleasesAndRecovers(t *testing.T) {
	fs := &flakySurface{Recorder: surface.NewRecorder()}
	data := delta.New(samples(0, 10)...)
	b, err := New(fs, data, small, "flaky")
	require.NoError(t, err)
	frame(t, b, data)

	fs.fail = true
	data.Append(samples(10, 40)...)
	err = b.Sync()
	require.ErrorIs(t, err, errDevice)
	data.Reset()
	assert.Zero(t, b.Len())
	assert.Zero(t, fs.LiveTextures())

	fs.fail = false
	frame(t, b, data)
	checkMirror(t, b, fs.Recorder, data)
}

func TestClose(t *testing.T) {
	data := delta.New(samples(0, 50)...)
	b, rec := newBuffer(t, data)
	frame(t, b, data)
	require.NotZero(t, rec.LiveTextures())

	b.Close()
	assert.Zero(t, rec.LiveTextures())
	assert.Zero(t, b.Len())
	assert.Equal(t, b.Stats().Allocated, b.Stats().Released)
}

func BenchmarkAppendSync(b *testing.B) {
	data := delta.New[series.Point]()
	buf, err := New(surface.NewRecorder(), data, DefaultConfig(), "bench")
	if err != nil {
		b.Fatal(err)
	}
	rec := buf.surf.(*surface.Recorder)
	rec.SetRecording(false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data.Append(sample(i))
		if err := buf.Sync(); err != nil {
			b.Fatal(err)
		}
		data.Reset()
	}
}
