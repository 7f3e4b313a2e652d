package timeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/timeline"
)

func TestCloneTrackDeepCopiesMutableFieldsSharesBuffer(t *testing.T) {
	reg := audiobuffer.NewRegistry()
	buf := reg.CreateEmptySilent(1, 48000, 1)
	tr := &timeline.Track{
		ID:        "t1",
		AudioData: &timeline.Clip{ID: "c1", Buffer: buf, ClipStart: 0, Duration: 1},
		VolumeEnvelope: []*timeline.VolumeAutomationPoint{
			{ID: "e1", Time: 0, Value: 1},
		},
		TimeMarks: []*timeline.TimeMark{
			{ID: "m1", Time: 0.5, Label: "one"},
		},
	}

	clone := timeline.CloneTrack(tr)

	require.NotSame(t, tr, clone)
	require.NotSame(t, tr.AudioData, clone.AudioData)
	assert.Same(t, buf, clone.AudioData.Buffer, "buffers are shared by reference")

	// Mutating the clone's envelope/timemark must not affect the original.
	clone.VolumeEnvelope[0].Value = 0.1
	clone.TimeMarks[0].Label = "renamed"
	assert.Equal(t, 1.0, tr.VolumeEnvelope[0].Value)
	assert.Equal(t, "one", tr.TimeMarks[0].Label)
}

func TestCloneTrackHandlesMultiClipTrack(t *testing.T) {
	reg := audiobuffer.NewRegistry()
	buf := reg.CreateEmptySilent(1, 48000, 1)
	tr := &timeline.Track{
		ID:    "t1",
		Clips: []*timeline.Clip{{ID: "c1", Buffer: buf, ClipStart: 0, Duration: 1}},
	}

	clone := timeline.CloneTrack(tr)

	require.Len(t, clone.Clips, 1)
	require.NotSame(t, tr.Clips[0], clone.Clips[0])
	clone.Clips[0].ClipStart = 5
	assert.Equal(t, 0.0, tr.Clips[0].ClipStart)
}

func TestCloneTranscriptionDeepCopiesWordOffsets(t *testing.T) {
	tr := &timeline.TrackTranscription{
		TrackID: "t1",
		Words:   []*timeline.Word{{ID: "w1", Text: "hi", Start: 0, End: 0.5}},
		WordOffsets: map[timeline.WordID]float64{
			"w1": 10,
		},
	}

	clone := timeline.CloneTranscription(tr)
	clone.WordOffsets["w1"] = 999
	clone.Words[0].Text = "bye"

	assert.Equal(t, float64(10), tr.WordOffsets["w1"])
	assert.Equal(t, "hi", tr.Words[0].Text)
}
