// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// CommandType identifies a recorded surface operation.
type CommandType uint8

const (
	CmdCreateTexture CommandType = iota
	CmdWriteRows
	CmdDestroyTexture
	CmdDraw
	CmdSetViewport
	CmdClear
)

var commandTypeNames = [...]string{
	CmdCreateTexture:  "CreateTexture",
	CmdWriteRows:      "WriteRows",
	CmdDestroyTexture: "DestroyTexture",
	CmdDraw:           "Draw",
	CmdSetViewport:    "SetViewport",
	CmdClear:          "Clear",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by every recorded operation.
type Command interface {
	Type() CommandType
}

// CreateTextureCommand records CreateTexture.
type CreateTextureCommand struct {
	Texture TextureID
	Desc    TextureDesc
}

// WriteRowsCommand records WriteTextureRows. Texels is a private copy.
type WriteRowsCommand struct {
	Texture  TextureID
	RowStart int
	RowCount int
	Texels   []f32.Vec2
}

// DestroyTextureCommand records DestroyTexture.
type DestroyTextureCommand struct {
	Texture TextureID
}

// DrawCommand records Draw.
type DrawCommand struct {
	Call DrawCall
}

// SetViewportCommand records SetViewport.
type SetViewportCommand struct {
	Viewport Viewport
}

// ClearCommand records Clear.
type ClearCommand struct {
	Color gputypes.Color
}

func (CreateTextureCommand) Type() CommandType  { return CmdCreateTexture }
func (WriteRowsCommand) Type() CommandType      { return CmdWriteRows }
func (DestroyTextureCommand) Type() CommandType { return CmdDestroyTexture }
func (DrawCommand) Type() CommandType           { return CmdDraw }
func (SetViewportCommand) Type() CommandType    { return CmdSetViewport }
func (ClearCommand) Type() CommandType          { return CmdClear }

// Texture is the CPU copy of a texture held by a Recorder.
type Texture struct {
	Desc   TextureDesc
	Texels []f32.Vec2
}

// Fetch returns the texel at linear index i, row-major. Indices outside
// the texture clamp to the nearest edge, as texel fetches on the GPU do.
func (t *Texture) Fetch(i int) f32.Vec2 {
	if len(t.Texels) == 0 {
		return f32.Vec2{}
	}
	return t.Texels[min(max(i, 0), len(t.Texels)-1)]
}

// Recorder is a Surface that keeps textures in memory and logs every
// operation. It backs tests and the software backend.
type Recorder struct {
	textures map[TextureID]*Texture
	nextID   TextureID
	commands []Command
	viewport Viewport

	// record controls whether commands are appended to the log.
	record bool
}

// NewRecorder returns an empty recorder that logs commands.
func NewRecorder() *Recorder {
	return &Recorder{
		textures: make(map[TextureID]*Texture),
		record:   true,
	}
}

// SetRecording enables or disables the command log. Texture contents are
// maintained either way.
func (r *Recorder) SetRecording(on bool) { r.record = on }

func (r *Recorder) log(c Command) {
	if r.record {
		r.commands = append(r.commands, c)
	}
}

// CreateTexture implements Surface.
func (r *Recorder) CreateTexture(desc TextureDesc) (TextureID, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	r.nextID++
	id := r.nextID
	r.textures[id] = &Texture{Desc: desc, Texels: make([]f32.Vec2, desc.Texels())}
	r.log(CreateTextureCommand{Texture: id, Desc: desc})
	return id, nil
}

// WriteTextureRows implements Surface.
func (r *Recorder) WriteTextureRows(id TextureID, rowStart, rowCount int, texels []f32.Vec2) error {
	t, ok := r.textures[id]
	if !ok {
		return fmt.Errorf("write rows to texture %d: %w", id, ErrUnknownTexture)
	}
	if err := CheckRows(t.Desc, rowStart, rowCount, texels); err != nil {
		return fmt.Errorf("write rows %d+%d to texture %d: %w", rowStart, rowCount, id, err)
	}
	w := t.Desc.Width
	n := copy(t.Texels[rowStart*w:(rowStart+rowCount)*w], texels)
	if r.record {
		r.log(WriteRowsCommand{Texture: id, RowStart: rowStart, RowCount: rowCount, Texels: slices.Clone(texels[:n])})
	}
	return nil
}

// DestroyTexture implements Surface.
func (r *Recorder) DestroyTexture(id TextureID) error {
	if _, ok := r.textures[id]; !ok {
		return fmt.Errorf("destroy texture %d: %w", id, ErrUnknownTexture)
	}
	delete(r.textures, id)
	r.log(DestroyTextureCommand{Texture: id})
	return nil
}

// Draw implements Surface.
func (r *Recorder) Draw(call DrawCall) error {
	if _, ok := r.textures[call.Texture]; !ok {
		return fmt.Errorf("draw from texture %d: %w", call.Texture, ErrUnknownTexture)
	}
	r.log(DrawCommand{Call: call})
	return nil
}

// SetViewport implements Surface.
func (r *Recorder) SetViewport(vp Viewport) {
	r.viewport = vp
	r.log(SetViewportCommand{Viewport: vp})
}

// Clear implements Surface.
func (r *Recorder) Clear(c gputypes.Color) {
	r.log(ClearCommand{Color: c})
}

// Texture returns the live texture with the given id.
func (r *Recorder) Texture(id TextureID) (*Texture, bool) {
	t, ok := r.textures[id]
	return t, ok
}

// LiveTextures returns the number of textures not yet destroyed.
func (r *Recorder) LiveTextures() int { return len(r.textures) }

// Viewport returns the last viewport set.
func (r *Recorder) Viewport() Viewport { return r.viewport }

// Commands returns the command log.
func (r *Recorder) Commands() []Command { return r.commands }

// Draws returns the draw calls in the command log.
func (r *Recorder) Draws() []DrawCall {
	var calls []DrawCall
	for _, c := range r.commands {
		if d, ok := c.(DrawCommand); ok {
			calls = append(calls, d.Call)
		}
	}
	return calls
}

// UploadedRows returns the total number of texture rows written since the
// log was last cleared.
func (r *Recorder) UploadedRows() int {
	n := 0
	for _, c := range r.commands {
		if w, ok := c.(WriteRowsCommand); ok {
			n += w.RowCount
		}
	}
	return n
}

// ClearCommands empties the command log.
func (r *Recorder) ClearCommands() { r.commands = r.commands[:0] }

// Playback replays the command log onto dst. Texture ids are remapped to
// the ones dst hands out.
func (r *Recorder) Playback(dst Surface) error {
	ids := make(map[TextureID]TextureID)
	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case CreateTextureCommand:
			id, err := dst.CreateTexture(c.Desc)
			if err != nil {
				return err
			}
			ids[c.Texture] = id
		case WriteRowsCommand:
			if err := dst.WriteTextureRows(ids[c.Texture], c.RowStart, c.RowCount, c.Texels); err != nil {
				return err
			}
		case DestroyTextureCommand:
			if err := dst.DestroyTexture(ids[c.Texture]); err != nil {
				return err
			}
			delete(ids, c.Texture)
		case DrawCommand:
			call := c.Call
			call.Texture = ids[call.Texture]
			if err := dst.Draw(call); err != nil {
				return err
			}
		case SetViewportCommand:
			dst.SetViewport(c.Viewport)
		case ClearCommand:
			dst.Clear(c.Color)
		}
	}
	return nil
}
