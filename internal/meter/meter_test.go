package meter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidesound/editor/internal/meter"
)

func testConfig() meter.Config {
	return meter.Config{DecayFactor: 0.9, PeakHoldSeconds: 2.0}
}

func TestUpdateInstantAttack(t *testing.T) {
	cfg := testConfig()
	ch := &meter.Channel{Display: 0.1}

	cfg.Update(ch, 0.8, 0.5, 0.1)

	assert.Equal(t, 0.8, ch.Display)
	assert.Equal(t, 0.5, ch.RMS)
}

func TestUpdateExponentialDecayWhenQuieter(t *testing.T) {
	cfg := testConfig()
	ch := &meter.Channel{Display: 0.8}

	cfg.Update(ch, 0.1, 0.05, 0.1)

	assert.InDelta(t, 0.72, ch.Display, 1e-9)
}

func TestUpdateRaisesHoldValueAndResetsAge(t *testing.T) {
	cfg := testConfig()
	ch := &meter.Channel{HoldValue: 0.2, HoldAge: 1.5}

	cfg.Update(ch, 0.9, 0.5, 0.1)

	assert.Equal(t, 0.9, ch.HoldValue)
	assert.Equal(t, 0.0, ch.HoldAge)
}

func TestUpdateHoldDecaysOnlyAfterHoldSeconds(t *testing.T) {
	cfg := testConfig()
	ch := &meter.Channel{HoldValue: 0.9, HoldAge: 0}

	cfg.Update(ch, 0.1, 0.05, 1.0)
	assert.Equal(t, 0.9, ch.HoldValue, "still within the hold window")

	cfg.Update(ch, 0.1, 0.05, 1.5)
	assert.InDelta(t, 0.81, ch.HoldValue, 1e-9, "past the hold window, decays by one factor")
}

func TestUpdateSetsStickyClipAtFullScale(t *testing.T) {
	cfg := testConfig()
	ch := &meter.Channel{}

	cfg.Update(ch, 1.0, 1.0, 0.1)
	assert.True(t, ch.Clipped)

	cfg.Update(ch, 0.0, 0.0, 0.1)
	assert.True(t, ch.Clipped, "clip flag never clears from decay alone")
}

func TestClearClipResetsFlag(t *testing.T) {
	ch := &meter.Channel{Clipped: true}
	ch.ClearClip()
	assert.False(t, ch.Clipped)
}

func TestPauseDecaysBothChannelsTowardZero(t *testing.T) {
	cfg := testConfig()
	track := &meter.Track{
		Left:  meter.Channel{Display: 0.5, HoldValue: 0.5, HoldAge: 3.0},
		Right: meter.Channel{Display: 0.5, HoldValue: 0.5, HoldAge: 3.0},
	}

	cfg.Pause(track, 0.1)

	assert.InDelta(t, 0.45, track.Left.Display, 1e-9)
	assert.InDelta(t, 0.45, track.Right.Display, 1e-9)
	assert.InDelta(t, 0.45, track.Left.HoldValue, 1e-9, "hold age already exceeds the hold window")
}

func TestPauseClampsTinyValuesToZero(t *testing.T) {
	cfg := testConfig()
	track := &meter.Track{Left: meter.Channel{Display: 1e-7, HoldValue: 1e-7, HoldAge: 3.0}}

	cfg.Pause(track, 0.1)

	assert.Equal(t, 0.0, track.Left.Display)
	assert.Equal(t, 0.0, track.Left.HoldValue)
}
