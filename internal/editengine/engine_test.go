package editengine_test

import (
	"testing"
	"time"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/editengine"
	"github.com/tidesound/editor/internal/timeline"
	"github.com/tidesound/editor/internal/waveform"
)

func testConfig() editengine.Config {
	return editengine.Config{
		SnapThresholdSeconds: 0.1,
		EdgeEpsilonSeconds:   0.001,
		OverviewBuckets:      100,
	}
}

// newTestEngine wires a fresh store+registry+cache behind an Engine, the
// shape every editengine test builds on.
func newTestEngine(t *testing.T) (*editengine.Engine, *audiobuffer.Registry) {
	t.Helper()
	reg := audiobuffer.NewRegistry()
	waves := waveform.NewCache(time.Minute)
	store := timeline.NewStore(reg, waves)
	return editengine.NewEngine(store, reg, waves, testConfig()), reg
}

// rampBuffer creates a single-channel buffer of the given duration whose
// samples are distinguishable by position, so tests can assert on which
// slice of audio ended up where.
func rampBuffer(t *testing.T, reg *audiobuffer.Registry, sampleRate int, seconds float64) *audiobuffer.Buffer {
	t.Helper()
	frames := int(seconds * float64(sampleRate))
	samples := make([]float32, frames)
	for i := range samples {
		samples[i] = float32(i) / float32(frames)
	}
	buf, err := reg.CreateFromChannels([][]float32{samples}, sampleRate)
	if err != nil {
		t.Fatalf("rampBuffer: %v", err)
	}
	return buf
}
