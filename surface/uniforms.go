// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/timechart/series"
)

// UniformSize is the size in bytes of the encoded Uniforms block.
const UniformSize = 64

// Uniforms are the per-draw shader parameters.
//
// A sample at segment position p stored as texel (r, y) is placed at
//
//	css = ModelScale * ((r + XStep*p, y) + ModelTranslate)
//	clip = ProjectionScale * (css + offset)
//
// where offset extrudes the line by LineWidth.
type Uniforms struct {
	ModelScale      f32.Vec2
	ModelTranslate  f32.Vec2
	ProjectionScale f32.Vec2
	XStep           float32
	LineWidth       float32 // half of the line width, CSS pixels
	Color           f32.Vec4
	LineType        series.LineType
	StepLocation    float32
	PointSize       float32
	TextureWidth    uint32
}

// AppendBytes appends the little-endian GPU layout of u to dst.
// The layout matches the Uniforms struct of the line shader.
func (u *Uniforms) AppendBytes(dst []byte) []byte {
	f := func(v float32) { dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v)) }
	f(u.ModelScale[0])
	f(u.ModelScale[1])
	f(u.ModelTranslate[0])
	f(u.ModelTranslate[1])
	f(u.ProjectionScale[0])
	f(u.ProjectionScale[1])
	f(u.XStep)
	f(u.LineWidth)
	for _, c := range u.Color {
		f(c)
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(u.LineType))
	f(u.StepLocation)
	f(u.PointSize)
	dst = binary.LittleEndian.AppendUint32(dst, u.TextureWidth)
	return dst
}

// Bytes returns the encoded uniform block.
func (u *Uniforms) Bytes() []byte {
	return u.AppendBytes(make([]byte, 0, UniformSize))
}
