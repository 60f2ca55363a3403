// Package wgpu implements surface.Surface on a gogpu/wgpu HAL device.
//
// Every chart texture is a storage buffer of vec2<f32> samples. Row writes
// become queue buffer writes of the touched byte range. Draw calls are
// recorded into a render pass the host owns:
//
//	s, err := wgpu.New(provider)
//	...
//	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{...ClearValue: s.ClearColor()...})
//	s.BeginFrame(rp)
//	frames.Flush() // runs the chart frame
//	rp.End()
//	// submit and wait
//	s.EndFrame()
//
// The line shader is WGSL compiled to SPIR-V by naga when the surface is
// created.
//
// Build with the nogpu tag to exclude this package.
package wgpu
