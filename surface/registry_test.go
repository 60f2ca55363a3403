// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorderFactory(Options) (Surface, error) { return NewRecorder(), nil }

func TestRegistry_ListByPriority(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, recorderFactory, nil)
	r.Register("high", 100, recorderFactory, nil)
	r.Register("mid", 50, recorderFactory, nil)

	assert.Equal(t, []string{"high", "mid", "low"}, r.List())

	r.Unregister("mid")
	assert.Equal(t, []string{"high", "low"}, r.List())
}

func TestRegistry_New(t *testing.T) {
	r := NewRegistry()
	r.Register("off", 100, recorderFactory, func() bool { return false })
	r.Register("rec", 0, recorderFactory, nil)

	s, err := r.New("rec", Options{})
	require.NoError(t, err)
	assert.IsType(t, &Recorder{}, s)

	_, err = r.New("missing", Options{})
	var nf *BackendNotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = r.New("off", Options{})
	var un *BackendUnavailableError
	assert.ErrorAs(t, err, &un)
}

func TestRegistry_NewBestFallsBack(t *testing.T) {
	errGPU := errors.New("no device")
	r := NewRegistry()
	r.Register("gpu", 100, func(Options) (Surface, error) { return nil, errGPU }, nil)
	r.Register("rec", 0, recorderFactory, nil)

	s, err := r.NewBest(Options{})
	require.NoError(t, err)
	assert.IsType(t, &Recorder{}, s)

	r.Unregister("rec")
	_, err = r.NewBest(Options{})
	assert.ErrorIs(t, err, errGPU)

	_, err = NewRegistry().NewBest(Options{})
	assert.ErrorIs(t, err, ErrNoBackendAvailable)
}

func TestGlobalRegistry_HasRecorder(t *testing.T) {
	assert.Contains(t, List(), "recorder")
	s, err := New("recorder", Options{})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
