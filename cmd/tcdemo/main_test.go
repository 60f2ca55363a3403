package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want gputypes.Color
		ok   bool
	}{
		{"#ff0000", gputypes.Color{R: 1, A: 1}, true},
		{"#00ff0000", gputypes.Color{G: 1}, true},
		{"", gputypes.Color{A: 1}, true},
		{"ff0000", gputypes.Color{}, false},
		{"#ff00", gputypes.Color{}, false},
		{"#gg0000", gputypes.Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, errBadColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
width: 320
frames: 3
series:
  - name: points
    lineType: native-point
    wave: saw
    color: "#336699"
    amplitude: 2
`), 0o600))

	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
	assert.Equal(t, 3, cfg.Frames)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, "native-point", cfg.Series[0].LineType)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"linetype": "series: [{name: a, lineType: bezier}]",
		"wave":     "series: [{name: a, lineType: line, wave: noise}]",
		"size":     "width: -1",
		"syntax":   "width: [",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := loadConfig(path)
			assert.Error(t, err)
		})
	}
	_, err := loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWave(t *testing.T) {
	sq := wave(seriesConfig{Wave: "square", Amplitude: 2, Period: 4})
	assert.Equal(t, 2.0, sq(1))
	assert.Equal(t, -2.0, sq(3))

	saw := wave(seriesConfig{Wave: "saw", Amplitude: 1, Period: 4})
	assert.InDelta(t, -1, saw(0), 1e-12)
	assert.InDelta(t, 0, saw(2), 1e-12)

	sine := wave(seriesConfig{Amplitude: 1})
	assert.InDelta(t, 1, sine(25), 1e-12)
}

func TestRun(t *testing.T) {
	cfg := defaultConfig()
	cfg.Width, cfg.Height = 120, 60
	cfg.Frames, cfg.Batch, cfg.Window = 4, 30, 50
	cfg.Output = filepath.Join(t.TempDir(), "out.png")

	st, err := run(cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, st.frames)
	// Two windows of history survive trimming.
	assert.Equal(t, 2*100, st.points)
	assert.Positive(t, st.segments)

	f, err := os.Open(cfg.Output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestRunUnknownBackend(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backend = "vulkan-direct"
	_, err := run(cfg)
	assert.Error(t, err)
}
