// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface defines the rendering surface a chart draws through.
//
// A Surface owns two kinds of objects: float textures holding sample data,
// and draw calls that expand those samples into geometry. Textures are
// written by whole rows so that a streaming series only re-uploads the rows
// it touched. The package also provides Recorder, an in-memory Surface that
// keeps texture contents and a typed command log for inspection and replay.
//
// # Registry
//
// Backends register a factory under a name and a priority:
//
//	func init() {
//	    surface.Register("software", 10, newSoftware, nil)
//	}
//
// New creates a surface by name; NewBest tries every available backend in
// priority order and returns the first that succeeds.
package surface
