package waveform_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/waveform"
)

func TestExtractPeaksBucketsMinMax(t *testing.T) {
	reg := audiobuffer.NewRegistry()
	buf, err := reg.CreateFromChannels([][]float32{{0, 1, -1, 0.5, -0.5, 0.2}}, 48000)
	require.NoError(t, err)

	peaks := waveform.ExtractPeaks(buf, 2)

	require.Len(t, peaks, 4)
	// First bucket covers samples [0,1,-1]: min -1, max 1.
	assert.InDelta(t, -1, peaks[0], 1e-6)
	assert.InDelta(t, 1, peaks[1], 1e-6)
}

func TestExtractPeaksZeroBucketsReturnsEmptySlice(t *testing.T) {
	reg := audiobuffer.NewRegistry()
	buf, err := reg.CreateFromChannels([][]float32{{0, 1}}, 48000)
	require.NoError(t, err)

	assert.Empty(t, waveform.ExtractPeaks(buf, 0))
}

func TestBuildOverviewCachesByBufferID(t *testing.T) {
	reg := audiobuffer.NewRegistry()
	buf, err := reg.CreateFromChannels([][]float32{{0, 1, -1, 0.5}}, 48000)
	require.NoError(t, err)

	cache := waveform.NewCache(time.Minute)
	ov := cache.BuildOverview(buf, 4)

	cached, ok := cache.Overview(buf.ID())
	require.True(t, ok)
	assert.Same(t, ov, cached)
}

func TestSetOverviewStoresExternallyComputedPeaks(t *testing.T) {
	cache := waveform.NewCache(time.Minute)
	id := audiobuffer.ID("external-buffer")
	ov := &waveform.Overview{Buckets: 2, Peaks: []float32{-1, 1, -0.5, 0.5}}

	cache.SetOverview(id, ov)

	cached, ok := cache.Overview(id)
	require.True(t, ok)
	assert.Equal(t, ov, cached)
}

func TestReleaseOverviewDropsEntry(t *testing.T) {
	cache := waveform.NewCache(time.Minute)
	id := audiobuffer.ID("buf-1")
	cache.SetOverview(id, &waveform.Overview{Buckets: 1, Peaks: []float32{0, 0}})

	cache.ReleaseOverview(id)

	_, ok := cache.Overview(id)
	assert.False(t, ok)
}

func TestHiResCapsAtMaxBuckets(t *testing.T) {
	reg := audiobuffer.NewRegistry()
	buf, err := reg.CreateFromChannels([][]float32{make([]float32, 1000)}, 48000)
	require.NoError(t, err)

	cache := waveform.NewCache(time.Minute)
	peaks := cache.HiRes(buf, 500, 100)

	assert.Len(t, peaks, 200) // 2*maxBuckets
}

func TestShouldUseHiRes(t *testing.T) {
	assert.True(t, waveform.ShouldUseHiRes(3000, 1000, 2.0))
	assert.False(t, waveform.ShouldUseHiRes(1500, 1000, 2.0))
}
