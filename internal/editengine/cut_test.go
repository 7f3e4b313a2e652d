package editengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidesound/editor/internal/timeline"
)

func TestCutRegionRejectsInvertedRange(t *testing.T) {
	e, _ := newTestEngine(t)
	_, ok := e.CutRegion("missing", 2, 1, true)
	assert.False(t, ok)
}

func TestCutRegionNoOpForUnknownTrack(t *testing.T) {
	e, _ := newTestEngine(t)
	_, ok := e.CutRegion("missing", 0, 1, true)
	assert.False(t, ok)
}

func TestCutRegionWholeAudioWithKeepTrackClearsShell(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 2.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")

	result, ok := e.CutRegion(tr.ID, 0, 2.0, true)

	require.True(t, ok)
	require.NotNil(t, result)
	assert.Equal(t, 2.0*48000, float64(result.Buffer.Length()))
	assert.Nil(t, tr.AudioData)
	assert.NotNil(t, e.Store.FindTrack(tr.ID), "keepTrack=true leaves the track as a shell")
}

func TestCutRegionWholeAudioWithoutKeepTrackDeletesTrack(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 1.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")

	_, ok := e.CutRegion(tr.ID, 0, 1.0, false)

	require.True(t, ok)
	assert.Nil(t, e.Store.FindTrack(tr.ID))
}

func TestCutRegionMiddleSplitsIntoBeforeAndAfterClips(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 4.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")

	result, ok := e.CutRegion(tr.ID, 1.0, 2.0, true)

	require.True(t, ok)
	assert.InDelta(t, 1.0, result.Buffer.Duration(), 1e-3)
	require.Len(t, tr.Clips, 2)
	assert.InDelta(t, 0.0, tr.Clips[0].ClipStart, 1e-9)
	assert.InDelta(t, 1.0, tr.Clips[0].Duration, 1e-3)
	assert.InDelta(t, 2.0, tr.Clips[1].ClipStart, 1e-9)
	assert.InDelta(t, 2.0, tr.Clips[1].Duration, 1e-3)
}

func TestCutRegionOutsideTrackIsNoIntersection(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 1.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")

	_, ok := e.CutRegion(tr.ID, 5, 6, true)
	assert.False(t, ok)
}

func TestCutRegionOnMultiClipTrackMixesOverlap(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 2.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")
	e.Store.CreateTrackFromBuffer(rampBuffer(t, reg, 48000, 1.0), nil, "b", 0, "b.wav")
	// SplitAtTime normalizes the track to an explicit clip list on its
	// first call, minting a fresh id; split against that id to actually
	// produce two clips.
	e.SplitAtTime(tr.ID, tr.AudioData.ID, 1.0)
	require.True(t, tr.IsMultiClip())
	left, right, ok := e.SplitAtTime(tr.ID, tr.Clips[0].ID, 1.0)
	require.True(t, ok)
	require.NotNil(t, left)
	require.NotNil(t, right)

	result, ok := e.CutRegion(tr.ID, 0.5, 1.5, true)

	require.True(t, ok)
	assert.NotNil(t, result.Buffer)
	assert.InDelta(t, 1.0, result.Buffer.Duration(), 1e-3)
}

func TestCutRegionDropsTranscriptionWordsInsideRegionWithoutShifting(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 4.0)
	a := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")
	tr := &timeline.TrackTranscription{
		TrackID: a.ID,
		Words: []*timeline.Word{
			{ID: "w1", Text: "one", Start: 0.5, End: 1.0},
			{ID: "w2", Text: "two", Start: 3.0, End: 3.5},
		},
	}
	e.Transcriptions = &fakeTranscriptionTable{byTrack: map[timeline.TrackID]*timeline.TrackTranscription{a.ID: tr}}

	_, ok := e.CutRegion(a.ID, 0, 2, true)

	require.True(t, ok)
	require.Len(t, tr.Words, 1)
	assert.Equal(t, timeline.WordID("w2"), tr.Words[0].ID)
	assert.InDelta(t, 3.0, tr.Words[0].Start, 1e-9, "CutRegion alone leaves a gap; it never shifts surviving words on its own")
}

func TestCutRegionRecomputesTrackBoundsAfterSplit(t *testing.T) {
	e, reg := newTestEngine(t)
	buf := rampBuffer(t, reg, 48000, 4.0)
	tr := e.Store.CreateTrackFromBuffer(buf, nil, "a", 0, "a.wav")

	e.CutRegion(tr.ID, 1.0, 2.0, true)

	assert.Equal(t, timeline.TrackID(tr.ID), tr.ID)
	assert.InDelta(t, 0.0, tr.TrackStart, 1e-9)
	assert.InDelta(t, 4.0, tr.Duration, 1e-3)
}
