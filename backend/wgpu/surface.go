//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/timechart/internal/logging"
	"github.com/gogpu/timechart/surface"
)

// Errors returned by the HAL surface.
var (
	// ErrNoHAL is returned when the provider does not expose a HAL device
	// and queue.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL device and queue")

	// ErrShaderCompile wraps naga compile failures of the line shader.
	ErrShaderCompile = errors.New("wgpu: shader compile failed")

	// ErrNoRenderPass is returned by Draw outside BeginFrame / EndFrame.
	ErrNoRenderPass = errors.New("wgpu: no render pass")
)

// texelSize is the size in bytes of one vec2<f32> sample.
const texelSize = 8

// halProvider is implemented by device providers backed by gogpu/wgpu.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

type texture struct {
	desc surface.TextureDesc
	buf  hal.Buffer
	size uint64
}

// drawResources are the per-draw objects kept alive until EndFrame.
type drawResources struct {
	uniform   hal.Buffer
	bindGroup hal.BindGroup
}

// Surface draws chart segments with a HAL render pipeline.
// It is not safe for concurrent use.
type Surface struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipelines  map[gputypes.PrimitiveTopology]hal.RenderPipeline

	textures map[surface.TextureID]*texture
	nextID   surface.TextureID

	rp       hal.RenderPassEncoder
	frame    []drawResources
	viewport surface.Viewport
	clear    gputypes.Color

	staging  []byte
	uniforms []byte
}

// New creates a surface on the device of provider. The provider must
// expose HalDevice() and HalQueue() returning hal.Device and hal.Queue.
func New(provider gpucontext.DeviceProvider) (*Surface, error) {
	device, queue, err := halFrom(provider)
	if err != nil {
		return nil, err
	}
	spirv, err := compileShader(lineShaderWGSL)
	if err != nil {
		return nil, err
	}
	return newSurface(device, queue, provider.SurfaceFormat(), spirv)
}

func newSurface(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, spirv []uint32) (*Surface, error) {
	s := &Surface{
		device:    device,
		queue:     queue,
		format:    format,
		pipelines: make(map[gputypes.PrimitiveTopology]hal.RenderPipeline),
		textures:  make(map[surface.TextureID]*texture),
	}
	if err := s.createLayouts(spirv); err != nil {
		s.Destroy()
		return nil, err
	}
	logging.L().Info("wgpu: surface ready", "format", s.format)
	return s, nil
}

func halFrom(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	if provider == nil {
		return nil, nil, ErrNoHAL
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return device, queue, nil
}

func (s *Surface) createLayouts(spirv []uint32) error {
	shader, err := s.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "timechart_line_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create shader module: %w", err)
	}
	s.shader = shader

	bindLayout, err := s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "timechart_line_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	s.bindLayout = bindLayout

	pipeLayout, err := s.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "timechart_line_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{s.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	s.pipeLayout = pipeLayout
	return nil
}

// pipeline returns the render pipeline for topology, creating it on first
// use.
func (s *Surface) pipeline(topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	if p, ok := s.pipelines[topology]; ok {
		return p, nil
	}
	blend := gputypes.BlendStatePremultiplied()
	p, err := s.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "timechart_line_pipeline",
		Layout: s.pipeLayout,
		Vertex: hal.VertexState{
			Module:     s.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     s.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    s.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline: %w", err)
	}
	s.pipelines[topology] = p
	logging.L().Debug("wgpu: pipeline created", "topology", topology)
	return p, nil
}

// CreateTexture allocates a zero-filled sample buffer.
func (s *Surface) CreateTexture(desc surface.TextureDesc) (surface.TextureID, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	size := uint64(desc.Texels()) * texelSize
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create sample buffer: %w", err)
	}
	s.nextID++
	s.textures[s.nextID] = &texture{desc: desc, buf: buf, size: size}
	return s.nextID, nil
}

// WriteTextureRows uploads rows of samples.
func (s *Surface) WriteTextureRows(id surface.TextureID, rowStart, rowCount int, texels []f32.Vec2) error {
	t, ok := s.textures[id]
	if !ok {
		return surface.ErrUnknownTexture
	}
	if err := surface.CheckRows(t.desc, rowStart, rowCount, texels); err != nil {
		return err
	}
	n := rowCount * t.desc.Width
	s.staging = packTexels(s.staging[:0], texels[:n])
	if err := s.queue.WriteBuffer(t.buf, uint64(rowStart*t.desc.Width)*texelSize, s.staging); err != nil {
		return fmt.Errorf("wgpu: write sample rows: %w", err)
	}
	return nil
}

// DestroyTexture releases a sample buffer.
func (s *Surface) DestroyTexture(id surface.TextureID) error {
	t, ok := s.textures[id]
	if !ok {
		return surface.ErrUnknownTexture
	}
	delete(s.textures, id)
	s.device.DestroyBuffer(t.buf)
	return nil
}

// BeginFrame sets the render pass subsequent draws are recorded into.
func (s *Surface) BeginFrame(rp hal.RenderPassEncoder) {
	s.rp = rp
	if rp != nil && s.viewport.Width > 0 && s.viewport.Height > 0 {
		s.applyViewport()
	}
}

// EndFrame detaches the render pass and releases the per-draw resources.
// Call it once the submitted work has completed.
func (s *Surface) EndFrame() {
	for _, r := range s.frame {
		s.device.DestroyBindGroup(r.bindGroup)
		s.device.DestroyBuffer(r.uniform)
	}
	s.frame = s.frame[:0]
	s.rp = nil
}

// Draw records one draw call into the current render pass.
func (s *Surface) Draw(call surface.DrawCall) error {
	if s.rp == nil {
		return ErrNoRenderPass
	}
	t, ok := s.textures[call.Texture]
	if !ok {
		return surface.ErrUnknownTexture
	}
	if call.Count <= 0 {
		return nil
	}
	p, err := s.pipeline(call.Topology)
	if err != nil {
		return err
	}

	ub, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "timechart_uniforms",
		Size:  surface.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	s.uniforms = call.Uniforms.AppendBytes(s.uniforms[:0])
	if err := s.queue.WriteBuffer(ub, 0, s.uniforms); err != nil {
		s.device.DestroyBuffer(ub)
		return fmt.Errorf("wgpu: write uniforms: %w", err)
	}

	bg, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "timechart_line_bind",
		Layout: s.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: surface.UniformSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: t.buf.NativeHandle(), Offset: 0, Size: t.size}},
		},
	})
	if err != nil {
		s.device.DestroyBuffer(ub)
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	s.frame = append(s.frame, drawResources{uniform: ub, bindGroup: bg})

	s.rp.SetPipeline(p)
	s.rp.SetBindGroup(0, bg, nil)
	s.rp.Draw(uint32(call.Count), 1, uint32(call.First), 0) //nolint:gosec // counts are bounded by texture capacity
	return nil
}

// SetViewport sets the viewport of the current and later render passes.
func (s *Surface) SetViewport(vp surface.Viewport) {
	s.viewport = vp
	if s.rp != nil {
		s.applyViewport()
	}
}

func (s *Surface) applyViewport() {
	vp := s.viewport
	s.rp.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, 0, 1)
}

// Clear records c as the clear color. The render pass is cleared through
// its load operation; hosts pass ClearColor as its clear value.
func (s *Surface) Clear(c gputypes.Color) { s.clear = c }

// ClearColor returns the last color passed to Clear.
func (s *Surface) ClearColor() gputypes.Color { return s.clear }

// LiveTextures returns the number of sample buffers not yet destroyed.
func (s *Surface) LiveTextures() int { return len(s.textures) }

// Destroy releases every GPU object the surface created. The device is
// owned by the provider and stays alive.
func (s *Surface) Destroy() {
	if s.device == nil {
		return
	}
	s.EndFrame()
	for id, t := range s.textures {
		s.device.DestroyBuffer(t.buf)
		delete(s.textures, id)
	}
	for k, p := range s.pipelines {
		s.device.DestroyRenderPipeline(p)
		delete(s.pipelines, k)
	}
	if s.pipeLayout != nil {
		s.device.DestroyPipelineLayout(s.pipeLayout)
		s.pipeLayout = nil
	}
	if s.bindLayout != nil {
		s.device.DestroyBindGroupLayout(s.bindLayout)
		s.bindLayout = nil
	}
	if s.shader != nil {
		s.device.DestroyShaderModule(s.shader)
		s.shader = nil
	}
}

// packTexels appends the little-endian bytes of texels to dst.
func packTexels(dst []byte, texels []f32.Vec2) []byte {
	for _, t := range texels {
		dst = appendFloat32(dst, t[0])
		dst = appendFloat32(dst, t[1])
	}
	return dst
}

func appendFloat32(dst []byte, v float32) []byte {
	b := math.Float32bits(v)
	return append(dst, byte(b), byte(b>>8), byte(b>>16), byte(b>>24))
}

func init() {
	surface.Register("wgpu", 100, func(opts surface.Options) (surface.Surface, error) {
		return New(opts.Provider)
	}, nil)
}

var _ surface.Surface = (*Surface)(nil)
