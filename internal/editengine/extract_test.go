package editengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidesound/editor/internal/timeline"
)

func TestExtractRegionMixesAllTracksWhenNoFilterGiven(t *testing.T) {
	e, reg := newTestEngine(t)
	e.Store.CreateTrackFromBuffer(rampBuffer(t, reg, 48000, 2.0), nil, "a", 0, "a.wav")
	e.Store.CreateTrackFromBuffer(rampBuffer(t, reg, 48000, 2.0), nil, "b", 0, "b.wav")

	result, ok := e.ExtractRegion(0.5, 1.5, nil)

	require.True(t, ok)
	assert.InDelta(t, 1.0, result.Buffer.Duration(), 1e-3)
	assert.NotNil(t, result.Overview)
}

func TestExtractRegionHonorsActiveTrackFilter(t *testing.T) {
	e, reg := newTestEngine(t)
	a := e.Store.CreateTrackFromBuffer(rampBuffer(t, reg, 48000, 2.0), nil, "a", 0, "a.wav")
	e.Store.CreateTrackFromBuffer(rampBuffer(t, reg, 48000, 2.0), nil, "b", 0, "b.wav")

	result, ok := e.ExtractRegion(0, 2.0, []timeline.TrackID{a.ID})

	require.True(t, ok)
	assert.InDelta(t, 2.0, result.Buffer.Duration(), 1e-3)
}

func TestExtractRegionNoOverlapReturnsFalse(t *testing.T) {
	e, reg := newTestEngine(t)
	e.Store.CreateTrackFromBuffer(rampBuffer(t, reg, 48000, 1.0), nil, "a", 0, "a.wav")

	_, ok := e.ExtractRegion(5, 6, nil)
	assert.False(t, ok)
}

func TestExtractRegionRejectsInvertedRange(t *testing.T) {
	e, _ := newTestEngine(t)
	_, ok := e.ExtractRegion(2, 1, nil)
	assert.False(t, ok)
}

func TestExtractRegionPartialOverlapClipsToIntersection(t *testing.T) {
	e, reg := newTestEngine(t)
	e.Store.CreateTrackFromBuffer(rampBuffer(t, reg, 48000, 1.0), nil, "a", 0, "a.wav")

	result, ok := e.ExtractRegion(0.5, 2.0, nil)

	require.True(t, ok)
	assert.InDelta(t, 1.5, result.Buffer.Duration(), 1e-3, "total duration spans the requested window even past the track's end")
}
