// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Errors returned by surfaces.
var (
	// ErrUnknownTexture is returned for a TextureID the surface never
	// created or has already destroyed.
	ErrUnknownTexture = errors.New("surface: unknown texture")

	// ErrRowRange is returned when a row write falls outside the texture
	// or the texel slice does not cover the rows.
	ErrRowRange = errors.New("surface: row range out of bounds")

	// ErrInvalidDesc is returned for textures with non-positive size.
	ErrInvalidDesc = errors.New("surface: invalid texture descriptor")
)

// TextureID identifies a texture owned by a Surface. Zero is never valid.
type TextureID uint32

// TextureDesc describes a sample texture.
type TextureDesc struct {
	Label  string
	Width  int
	Height int
	Format gputypes.TextureFormat
}

// Texels returns Width*Height.
func (d TextureDesc) Texels() int { return d.Width * d.Height }

// Validate checks that the texture has a positive size.
func (d TextureDesc) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return ErrInvalidDesc
	}
	return nil
}

// Viewport is the pixel rectangle draw calls are mapped to.
type Viewport struct {
	X, Y          float32
	Width, Height float32
}

// DrawCall draws Count vertices starting at vertex First, reading samples
// from Texture.
type DrawCall struct {
	Texture  TextureID
	Topology gputypes.PrimitiveTopology
	First    int
	Count    int
	Uniforms Uniforms
}

// Surface is the rendering collaborator of a chart.
// Implementations are not required to be safe for concurrent use.
type Surface interface {
	// CreateTexture allocates a zero-filled texture.
	CreateTexture(desc TextureDesc) (TextureID, error)

	// WriteTextureRows replaces rows [rowStart, rowStart+rowCount) with
	// texels, which holds rowCount*Width values in row-major order.
	// texels is only valid for the duration of the call.
	WriteTextureRows(id TextureID, rowStart, rowCount int, texels []f32.Vec2) error

	// DestroyTexture releases a texture. The id is invalid afterwards.
	DestroyTexture(id TextureID) error

	// Draw issues one draw call.
	Draw(call DrawCall) error

	// SetViewport sets the rectangle subsequent draws map to.
	SetViewport(vp Viewport)

	// Clear fills the current target with c.
	Clear(c gputypes.Color)
}

// CheckRows validates a row write against desc.
func CheckRows(desc TextureDesc, rowStart, rowCount int, texels []f32.Vec2) error {
	if rowStart < 0 || rowCount < 0 || rowStart+rowCount > desc.Height {
		return ErrRowRange
	}
	if len(texels) < rowCount*desc.Width {
		return ErrRowRange
	}
	return nil
}
