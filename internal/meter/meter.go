// Package meter implements ballistic level smoothing and peak-hold:
// instant attack, exponential decay, a 2s peak hold, and a sticky clip
// indicator, fed by raw {peak, rms} samples at UI cadence.
package meter

// Channel is one stereo channel's smoothed display state.
type Channel struct {
	Display   float64
	RMS       float64
	HoldValue float64
	HoldAge   float64 // seconds since the hold value was last raised
	Clipped   bool
}

// Track is the full per-track (or master-bus) meter state.
type Track struct {
	Left  Channel
	Right Channel
}

// Config carries the tunables meter needs from conf.Settings.
type Config struct {
	DecayFactor     float64
	PeakHoldSeconds float64
}

// Update applies one frame's raw samples to a channel: instant attack,
// exponential decay otherwise, peak-hold raise/decay, and the sticky clip
// flag. dt is the elapsed time in seconds since the previous frame.
func (c Config) Update(ch *Channel, rawPeak, rawRMS, dt float64) {
	if rawPeak >= ch.Display {
		ch.Display = rawPeak
	} else {
		ch.Display *= c.DecayFactor
	}
	ch.RMS = rawRMS

	if rawPeak >= ch.HoldValue {
		ch.HoldValue = rawPeak
		ch.HoldAge = 0
	} else {
		ch.HoldAge += dt
		if ch.HoldAge > c.PeakHoldSeconds {
			ch.HoldValue *= c.DecayFactor
		}
	}

	if rawPeak >= 1.0 {
		ch.Clipped = true
	}
}

// ClearClip resets the sticky clip indicator; it is only ever cleared
// explicitly, never by decay.
func (c *Channel) ClearClip() { c.Clipped = false }

// Pause continues decaying both channels toward zero with no new input,
// matching the display behavior while playback is paused.
func (cfg Config) Pause(t *Track, dt float64) {
	cfg.decayToZero(&t.Left, dt)
	cfg.decayToZero(&t.Right, dt)
}

func (cfg Config) decayToZero(ch *Channel, dt float64) {
	if ch.Display > 0 {
		ch.Display *= cfg.DecayFactor
		if ch.Display < 1e-6 {
			ch.Display = 0
		}
	}
	ch.HoldAge += dt
	if ch.HoldAge > cfg.PeakHoldSeconds && ch.HoldValue > 0 {
		ch.HoldValue *= cfg.DecayFactor
		if ch.HoldValue < 1e-6 {
			ch.HoldValue = 0
		}
	}
}
