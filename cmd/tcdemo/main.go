// Command tcdemo streams synthetic series through a timechart and saves
// the last frame as a PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/timechart"
	_ "github.com/gogpu/timechart/backend/software"
	"github.com/gogpu/timechart/series"
	"github.com/gogpu/timechart/surface"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		width      = flag.Int("width", 0, "image width")
		height     = flag.Int("height", 0, "image height")
		output     = flag.String("output", "", "output file")
		backend    = flag.String("backend", "", "surface backend")
		frames     = flag.Int("frames", 0, "frames to stream")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	timechart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "output":
			cfg.Output = *output
		case "backend":
			cfg.Backend = *backend
		case "frames":
			cfg.Frames = *frames
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	st, err := run(cfg)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("Chart saved to %s (%dx%d)\n", cfg.Output, cfg.Width, cfg.Height)
	p.Printf("%d frames, %d points, %d segments, %d rows uploaded\n",
		st.frames, st.points, st.segments, st.rows)
}

type runStats struct {
	frames   int
	points   int
	segments int
	rows     int
}

// imager is implemented by surfaces that rasterize on the CPU.
type imager interface {
	Image() *image.RGBA
}

func run(cfg config) (runStats, error) {
	surf, err := surface.New(cfg.Backend, surface.Options{Width: cfg.Width, Height: cfg.Height})
	if err != nil {
		return runStats{}, err
	}
	img, ok := surf.(imager)
	if !ok {
		return runStats{}, fmt.Errorf("backend %q cannot produce an image", cfg.Backend)
	}

	lines, gens, err := buildSeries(cfg.Series)
	if err != nil {
		return runStats{}, err
	}

	c, err := timechart.New(surf,
		timechart.WithSeries(lines...),
		timechart.WithRealTime(cfg.Window),
		timechart.WithLineWidth(cfg.LineWidth),
		timechart.WithBackground(gputypes.Color{R: 1, G: 1, B: 1, A: 1}),
	)
	if err != nil {
		return runStats{}, err
	}
	defer c.Dispose()
	c.Resize(float64(cfg.Width), float64(cfg.Height))

	var x float64
	for range cfg.Frames {
		for range cfg.Batch {
			for i, s := range lines {
				s.Data.Append(series.Point{X: x, Y: gens[i](x)})
			}
			x++
		}
		// Keep two windows of history so panning back has data.
		for _, s := range lines {
			for s.Data.Len() > 0 {
				first, _ := s.Data.First()
				if first.X >= x-2*cfg.Window {
					break
				}
				s.Data.PopFront()
			}
		}
		if err := c.Render(); err != nil {
			return runStats{}, err
		}
	}

	if err := savePNG(cfg.Output, img.Image()); err != nil {
		return runStats{}, err
	}

	st := c.Stats()
	out := runStats{frames: c.Frames(), segments: st.Segments, rows: st.RowsUploaded}
	for _, s := range lines {
		out.points += s.Data.Len()
	}
	return out, nil
}

func buildSeries(cfgs []seriesConfig) ([]*series.Series, []func(float64) float64, error) {
	lines := make([]*series.Series, 0, len(cfgs))
	gens := make([]func(float64) float64, 0, len(cfgs))
	for _, sc := range cfgs {
		lt, _ := series.ParseLineType(sc.LineType)
		col, err := parseColor(sc.Color)
		if err != nil {
			return nil, nil, err
		}
		s := series.New(sc.Name)
		s.LineType = lt
		s.Color = col
		lines = append(lines, s)
		gens = append(gens, wave(sc))
	}
	return lines, gens, nil
}

func wave(sc seriesConfig) func(float64) float64 {
	period := sc.Period
	if period <= 0 {
		period = 100
	}
	return func(x float64) float64 {
		t := (x + sc.Phase) / period
		switch sc.Wave {
		case "square":
			if math.Sin(2*math.Pi*t) >= 0 {
				return sc.Amplitude
			}
			return -sc.Amplitude
		case "saw":
			return sc.Amplitude * (2*(t-math.Floor(t)) - 1)
		default:
			return sc.Amplitude * math.Sin(2*math.Pi*t)
		}
	}
}

var errBadColor = errors.New("color must be #rrggbb or #rrggbbaa")

// parseColor accepts #rrggbb and #rrggbbaa. Empty means opaque black.
func parseColor(s string) (gputypes.Color, error) {
	if s == "" {
		return gputypes.Color{A: 1}, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return gputypes.Color{}, fmt.Errorf("%w: %q", errBadColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return gputypes.Color{}, fmt.Errorf("%w: %q", errBadColor, s)
	}
	ch := func(shift uint) float64 { return float64(v>>shift&0xff) / 255 }
	return gputypes.Color{R: ch(24), G: ch(16), B: ch(8), A: ch(0)}, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
