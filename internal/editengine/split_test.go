package editengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAtTimeProducesTwoContiguousClips(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 4.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")
	originalID := tr.AudioData.ID

	// First call normalizes the single-buffer track to one explicit clip;
	// the original id no longer matches so nothing splits yet.
	_, _, ok := e.SplitAtTime(tr.ID, originalID, 2.0)
	require.False(t, ok)
	require.True(t, tr.IsMultiClip())
	require.Len(t, tr.Clips, 1)

	left, right, ok := e.SplitAtTime(tr.ID, tr.Clips[0].ID, 2.0)
	require.True(t, ok)
	assert.InDelta(t, 0.0, left.ClipStart, 1e-9)
	assert.InDelta(t, 2.0, left.Duration, 1e-3)
	assert.InDelta(t, 2.0, right.ClipStart, 1e-9)
	assert.InDelta(t, 2.0, right.Duration, 1e-3)
	require.Len(t, tr.Clips, 2)
}

func TestSplitAtTimeRejectsEdgeOfClip(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 2.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")
	e.SplitAtTime(tr.ID, tr.AudioData.ID, 1.0) // normalize

	_, _, ok := e.SplitAtTime(tr.ID, tr.Clips[0].ID, 0.0)
	assert.False(t, ok)
	_, _, ok = e.SplitAtTime(tr.ID, tr.Clips[0].ID, 2.0)
	assert.False(t, ok)
}

func TestSplitAtTimeUnknownClipReturnsFalse(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 2.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")

	_, _, ok := e.SplitAtTime(tr.ID, "nonexistent", 1.0)
	assert.False(t, ok)
}

func TestSplitAtTimeUnknownTrackReturnsFalse(t *testing.T) {
	e, _ := newTestEngine(t)
	_, _, ok := e.SplitAtTime("missing", "clip", 1.0)
	assert.False(t, ok)
}
