package mixer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/mixer"
	"github.com/tidesound/editor/internal/timeline"
)

func constantBuffer(t *testing.T, reg *audiobuffer.Registry, value float32, frames int) *audiobuffer.Buffer {
	t.Helper()
	samples := make([]float32, frames)
	for i := range samples {
		samples[i] = value
	}
	buf, err := reg.CreateFromChannels([][]float32{samples}, 48000)
	require.NoError(t, err)
	return buf
}

func TestActiveTracksExcludesMutedTracks(t *testing.T) {
	a := &timeline.Track{ID: "a"}
	b := &timeline.Track{ID: "b", Mute: true}

	active := mixer.ActiveTracks([]*timeline.Track{a, b})

	require.Len(t, active, 1)
	assert.Equal(t, timeline.TrackID("a"), active[0].ID)
}

func TestActiveTracksSoloRestrictsToSoloedUnmuted(t *testing.T) {
	a := &timeline.Track{ID: "a"}
	b := &timeline.Track{ID: "b", Solo: true}
	c := &timeline.Track{ID: "c", Solo: true, Mute: true}

	active := mixer.ActiveTracks([]*timeline.Track{a, b, c})

	require.Len(t, active, 1)
	assert.Equal(t, timeline.TrackID("b"), active[0].ID)
}

func TestActiveTracksNoSoloReturnsAllUnmuted(t *testing.T) {
	a := &timeline.Track{ID: "a"}
	b := &timeline.Track{ID: "b"}

	active := mixer.ActiveTracks([]*timeline.Track{a, b})

	assert.Len(t, active, 2)
}

func TestRenderSumsOverlappingTracksAtUnityGain(t *testing.T) {
	defer goleak.VerifyNone(t)
	reg := audiobuffer.NewRegistry()
	m := mixer.New(reg, 0.95)

	trackA := &timeline.Track{ID: "a", Volume: 1.0, AudioData: constantBuffer(t, reg, 0.1, 48000)}
	trackB := &timeline.Track{ID: "b", Volume: 1.0, AudioData: constantBuffer(t, reg, 0.2, 48000)}

	out, err := m.Render(context.Background(), []*timeline.Track{trackA, trackB})

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.InDelta(t, 0.3, out.Channel(0)[0], 1e-4)
}

func TestRenderSkipsMutedTracks(t *testing.T) {
	defer goleak.VerifyNone(t)
	reg := audiobuffer.NewRegistry()
	m := mixer.New(reg, 0.95)

	trackA := &timeline.Track{ID: "a", Volume: 1.0, AudioData: constantBuffer(t, reg, 0.1, 48000)}
	trackB := &timeline.Track{ID: "b", Mute: true, Volume: 1.0, AudioData: constantBuffer(t, reg, 0.9, 48000)}

	out, err := m.Render(context.Background(), []*timeline.Track{trackA, trackB})

	require.NoError(t, err)
	assert.InDelta(t, 0.1, out.Channel(0)[0], 1e-4)
}

func TestRenderReturnsNilWhenNoClipsExist(t *testing.T) {
	defer goleak.VerifyNone(t)
	reg := audiobuffer.NewRegistry()
	m := mixer.New(reg, 0.95)

	out, err := m.Render(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestRenderNormalizesWhenPeakExceedsOne(t *testing.T) {
	defer goleak.VerifyNone(t)
	reg := audiobuffer.NewRegistry()
	m := mixer.New(reg, 0.95)

	trackA := &timeline.Track{ID: "a", Volume: 1.0, AudioData: constantBuffer(t, reg, 0.9, 48000)}
	trackB := &timeline.Track{ID: "b", Volume: 1.0, AudioData: constantBuffer(t, reg, 0.9, 48000)}

	out, err := m.Render(context.Background(), []*timeline.Track{trackA, trackB})

	require.NoError(t, err)
	var maxAbs float32
	for _, v := range out.Channel(0) {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	}
	assert.InDelta(t, 0.95, maxAbs, 1e-4)
}

func TestRenderAppliesTrackVolume(t *testing.T) {
	defer goleak.VerifyNone(t)
	reg := audiobuffer.NewRegistry()
	m := mixer.New(reg, 0.95)

	trackA := &timeline.Track{ID: "a", Volume: 0.5, AudioData: constantBuffer(t, reg, 0.4, 48000)}

	out, err := m.Render(context.Background(), []*timeline.Track{trackA})

	require.NoError(t, err)
	assert.InDelta(t, 0.2, out.Channel(0)[0], 1e-4)
}
