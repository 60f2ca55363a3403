// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

func rows(w, n int, v float32) []f32.Vec2 {
	t := make([]f32.Vec2, w*n)
	for i := range t {
		t[i] = f32.Vec2{v, v}
	}
	return t
}

func TestRecorder_TextureLifecycle(t *testing.T) {
	r := NewRecorder()
	id, err := r.CreateTexture(TextureDesc{Label: "seg", Width: 4, Height: 3, Format: gputypes.TextureFormatRG32Float})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 1, r.LiveTextures())

	require.NoError(t, r.WriteTextureRows(id, 1, 2, rows(4, 2, 7)))
	tex, ok := r.Texture(id)
	require.True(t, ok)
	assert.Equal(t, f32.Vec2{0, 0}, tex.Fetch(3))
	assert.Equal(t, f32.Vec2{7, 7}, tex.Fetch(4))
	assert.Equal(t, f32.Vec2{7, 7}, tex.Fetch(11))
	assert.Equal(t, 2, r.UploadedRows())

	require.NoError(t, r.DestroyTexture(id))
	assert.Zero(t, r.LiveTextures())
	assert.ErrorIs(t, r.DestroyTexture(id), ErrUnknownTexture)

	types := make([]CommandType, 0, len(r.Commands()))
	for _, c := range r.Commands() {
		types = append(types, c.Type())
	}
	assert.Equal(t, []CommandType{CmdCreateTexture, CmdWriteRows, CmdDestroyTexture}, types)
}

func TestRecorder_Errors(t *testing.T) {
	r := NewRecorder()
	_, err := r.CreateTexture(TextureDesc{Width: 0, Height: 3})
	assert.ErrorIs(t, err, ErrInvalidDesc)

	id, err := r.CreateTexture(TextureDesc{Width: 2, Height: 2})
	require.NoError(t, err)
	assert.ErrorIs(t, r.WriteTextureRows(id, 1, 2, rows(2, 2, 1)), ErrRowRange)
	assert.ErrorIs(t, r.WriteTextureRows(id, 0, 2, rows(2, 1, 1)), ErrRowRange)
	assert.ErrorIs(t, r.WriteTextureRows(99, 0, 1, rows(2, 1, 1)), ErrUnknownTexture)
	assert.ErrorIs(t, r.Draw(DrawCall{Texture: 99}), ErrUnknownTexture)
}

func TestRecorder_SetRecording(t *testing.T) {
	r := NewRecorder()
	r.SetRecording(false)
	id, err := r.CreateTexture(TextureDesc{Width: 2, Height: 2})
	require.NoError(t, err)
	require.NoError(t, r.WriteTextureRows(id, 0, 1, rows(2, 1, 5)))
	assert.Empty(t, r.Commands())

	tex, _ := r.Texture(id)
	assert.Equal(t, f32.Vec2{5, 5}, tex.Fetch(1))
}

func TestRecorder_Playback(t *testing.T) {
	src := NewRecorder()
	id, err := src.CreateTexture(TextureDesc{Width: 2, Height: 2})
	require.NoError(t, err)
	require.NoError(t, src.WriteTextureRows(id, 0, 2, rows(2, 2, 3)))
	src.SetViewport(Viewport{Width: 10, Height: 5})
	src.Clear(gputypes.Color{A: 1})
	require.NoError(t, src.Draw(DrawCall{Texture: id, Topology: gputypes.PrimitiveTopologyLineStrip, Count: 3}))

	dst := NewRecorder()
	require.NoError(t, src.Playback(dst))

	assert.Equal(t, Viewport{Width: 10, Height: 5}, dst.Viewport())
	draws := dst.Draws()
	require.Len(t, draws, 1)
	tex, ok := dst.Texture(draws[0].Texture)
	require.True(t, ok)
	assert.Equal(t, f32.Vec2{3, 3}, tex.Fetch(3))

	src.ClearCommands()
	assert.Empty(t, src.Commands())
}

func TestCommandType_String(t *testing.T) {
	assert.Equal(t, "WriteRows", CmdWriteRows.String())
	assert.Equal(t, "Unknown", CommandType(200).String())
}

func TestUniforms_Bytes(t *testing.T) {
	u := Uniforms{
		ModelScale:   f32.Vec2{1, 2},
		Color:        f32.Vec4{0.25, 0.5, 0.75, 1},
		LineType:     1,
		TextureWidth: 256,
	}
	b := u.Bytes()
	require.Len(t, b, UniformSize)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, b[0:4])
	assert.Equal(t, []byte{0, 0, 0x80, 0x3e}, b[32:36])
	assert.Equal(t, []byte{1, 0, 0, 0}, b[48:52])
	assert.Equal(t, []byte{0, 1, 0, 0}, b[60:64])
}
