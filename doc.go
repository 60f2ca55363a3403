// Package timechart renders large, continuously growing time-series line
// charts on a GPU surface.
//
// # Overview
//
// A Chart owns one viewport.Model, one segment.Buffer per series and an
// optional zoom.Controller. Applications feed samples through the
// delta.Buffer of each series; every frame the chart recomputes the visible
// domains, uploads only the samples that changed since the previous frame
// and issues one draw call per visible segment.
//
// # Quick Start
//
//	import "github.com/gogpu/timechart"
//
//	s := series.New("cpu")
//	var frames viewport.FrameQueue
//	chart, err := timechart.New(surf,
//	    timechart.WithSeries(s),
//	    timechart.WithRealTime(60_000),
//	    timechart.WithScheduler(&frames),
//	)
//	chart.Resize(960, 640)
//
//	// From the data source:
//	s.Data.Append(series.Point{X: t, Y: v})
//	chart.RequestRedraw()
//
//	// From the host render loop:
//	frames.Flush()
//
// # Surfaces
//
// Rendering goes through the surface.Surface contract. The backend/wgpu
// package implements it on top of gogpu/wgpu, backend/software rasterizes
// on the CPU, and surface.Recorder records calls for tests.
//
// # Architecture
//
//   - delta: sequences that track unsynced changes at both ends
//   - segment: texture segments mirroring one series
//   - viewport: domains, range policies and redraw scheduling
//   - zoom: pointer, wheel and touch gestures
package timechart
