// Package playback implements the transport: play/pause/seek/scrub, loop
// modes, variable/negative speed, and hold-to-play, all driven against an
// external ports.RenderEngine.
package playback

import (
	"context"
	"log/slog"
	"math"

	"github.com/tidesound/editor/internal/logging"
	"github.com/tidesound/editor/internal/mixer"
	"github.com/tidesound/editor/internal/ports"
	"github.com/tidesound/editor/internal/timeline"
)

// LoopMode selects which region the transport loops over.
type LoopMode string

const (
	LoopFull   LoopMode = "full"
	LoopZoom   LoopMode = "zoom"
	LoopInOut  LoopMode = "inout"
	LoopActive LoopMode = "active"
	LoopClip   LoopMode = "clip"
)

// HoldMode tracks a mutually-exclusive hold-to-play direction.
type HoldMode string

const (
	HoldNone    HoldMode = "none"
	HoldForward HoldMode = "forward"
	HoldReverse HoldMode = "reverse"
)

// Region is a [Start, End] timeline range.
type Region struct {
	Start float64
	End   float64
}

// Controller holds the transport state machine.
type Controller struct {
	IsPlaying     bool
	CurrentTime   float64
	LoopEnabled   bool
	LoopMode      LoopMode
	Volume        float64
	IsScrubbing   bool
	PlaybackSpeed float64 // in [-5,-1] ∪ [1,5]
	HoldMode      HoldMode

	store  *timeline.Store
	engine ports.RenderEngine
	log    *slog.Logger
}

// New creates a playback controller bound to a timeline store and a
// render engine.
func New(store *timeline.Store, engine ports.RenderEngine) *Controller {
	return &Controller{
		Volume:        1.0,
		PlaybackSpeed: 1.0,
		HoldMode:      HoldNone,
		store:         store,
		engine:        engine,
		log:           logging.ForService("playback"),
	}
}

// ActiveRegion is the union of all active (mixer-filtered) tracks' ranges
//.
func (c *Controller) ActiveRegion() Region {
	active := mixer.ActiveTracks(c.store.Tracks)
	if len(active) == 0 {
		return Region{0, c.store.TimelineDuration()}
	}
	start := math.Inf(1)
	end := math.Inf(-1)
	for _, t := range active {
		if t.TrackStart < start {
			start = t.TrackStart
		}
		if t.TrackStart+t.Duration > end {
			end = t.TrackStart + t.Duration
		}
	}
	return Region{start, end}
}

// LoopRegion resolves the current loop region by mode.
func (c *Controller) LoopRegion() Region {
	switch c.LoopMode {
	case LoopZoom:
		return Region{c.store.Selection.Start, c.store.Selection.End}
	case LoopInOut:
		if c.store.InOut.InPoint != nil && c.store.InOut.OutPoint != nil {
			return Region{*c.store.InOut.InPoint, *c.store.InOut.OutPoint}
		}
		return Region{0, c.store.TimelineDuration()}
	case LoopActive:
		return c.ActiveRegion()
	case LoopClip:
		t := c.selectedOrFirstTrack()
		if t == nil {
			return Region{0, c.store.TimelineDuration()}
		}
		return Region{t.TrackStart, t.TrackStart + t.Duration}
	default:
		return Region{0, c.store.TimelineDuration()}
	}
}

func (c *Controller) selectedOrFirstTrack() *timeline.Track {
	if t := c.store.FindTrack(c.store.SelectedTrackID); t != nil {
		return t
	}
	if len(c.store.Tracks) > 0 {
		return c.store.Tracks[0]
	}
	return nil
}

func (c *Controller) activeTransportRegion() Region {
	if c.LoopEnabled {
		return c.LoopRegion()
	}
	return Region{0, c.store.TimelineDuration()}
}

func (c *Controller) trackConfigs() []ports.RenderEngineTrackConfig {
	var cfgs []ports.RenderEngineTrackConfig
	for _, t := range mixer.ActiveTracks(c.store.Tracks) {
		var env []ports.EnvelopePoint
		for _, p := range t.VolumeEnvelope {
			env = append(env, ports.EnvelopePoint{Time: p.Time, Value: p.Value})
		}
		cfgs = append(cfgs, ports.RenderEngineTrackConfig{
			TrackID: string(t.ID), SourcePath: t.SourcePath,
			TrackStart: t.TrackStart, Duration: t.Duration,
			Volume: t.Volume, Muted: t.Mute, VolumeEnvelope: env,
		})
	}
	return cfgs
}

// Play clamps CurrentTime into the active region, syncs engine config, and
// starts the rendering engine. Any RPC failure aborts the call and reverts
// IsPlaying.
func (c *Controller) Play(ctx context.Context) error {
	region := c.activeTransportRegion()
	if c.CurrentTime < region.Start || c.CurrentTime > region.End {
		if c.PlaybackSpeed < 0 {
			c.CurrentTime = region.End
		} else {
			c.CurrentTime = region.Start
		}
	}

	if err := c.engine.SetTracks(ctx, c.trackConfigs()); err != nil {
		return err
	}
	if err := c.engine.SetLoop(ctx, c.LoopEnabled, region.Start, region.End); err != nil {
		return err
	}
	if err := c.engine.SetSpeed(ctx, c.PlaybackSpeed); err != nil {
		return err
	}
	if err := c.engine.SetVolume(ctx, c.Volume); err != nil {
		return err
	}
	if err := c.engine.Seek(ctx, c.CurrentTime); err != nil {
		return err
	}
	if err := c.engine.Play(ctx); err != nil {
		c.IsPlaying = false
		return err
	}
	c.IsPlaying = true
	return nil
}

// Pause is idempotent.
func (c *Controller) Pause(ctx context.Context) error {
	if !c.IsPlaying {
		return nil
	}
	if err := c.engine.Pause(ctx); err != nil {
		return err
	}
	c.IsPlaying = false
	return nil
}

// Stop pauses, resets CurrentTime to the region start, and resets speed to
// +1.
func (c *Controller) Stop(ctx context.Context) error {
	if err := c.Pause(ctx); err != nil {
		return err
	}
	c.CurrentTime = c.activeTransportRegion().Start
	c.PlaybackSpeed = 1
	return c.engine.Stop(ctx)
}

// Seek clamps t into [0, timelineDuration], pauses, sets the time, and
// transparently re-plays at the new position if playback was active.
func (c *Controller) Seek(ctx context.Context, t float64) error {
	duration := c.store.TimelineDuration()
	if t < 0 {
		t = 0
	}
	if t > duration {
		t = duration
	}
	wasPlaying := c.IsPlaying
	if wasPlaying {
		if err := c.Pause(ctx); err != nil {
			return err
		}
	}
	c.CurrentTime = t
	if wasPlaying {
		return c.Play(ctx)
	}
	return nil
}

// Scrub updates CurrentTime without starting audio, while IsScrubbing is
// set by the caller.
func (c *Controller) Scrub(t float64) {
	if !c.IsScrubbing {
		return
	}
	c.CurrentTime = t
}

// speedLadder is the ordered sequence speed-up/speed-down step through
//: …, -1, +1, +2, +3, +4, +5.
var speedLadder = []float64{-5, -4, -3, -2, -1, 1, 2, 3, 4, 5}

func ladderIndex(speed float64) int {
	for i, v := range speedLadder {
		if v == speed {
			return i
		}
	}
	return -1
}

// SpeedUp advances through the speed ladder; from any negative speed it
// jumps straight to +1.
func (c *Controller) SpeedUp(ctx context.Context) error {
	if c.PlaybackSpeed < 0 {
		return c.SetSpeed(ctx, 1)
	}
	idx := ladderIndex(c.PlaybackSpeed)
	if idx < 0 || idx == len(speedLadder)-1 {
		return nil
	}
	return c.SetSpeed(ctx, speedLadder[idx+1])
}

// SpeedDown is the mirror of SpeedUp.
func (c *Controller) SpeedDown(ctx context.Context) error {
	idx := ladderIndex(c.PlaybackSpeed)
	if idx <= 0 {
		return nil
	}
	return c.SetSpeed(ctx, speedLadder[idx-1])
}

// ResetSpeed returns to +1.
func (c *Controller) ResetSpeed(ctx context.Context) error {
	return c.SetSpeed(ctx, 1)
}

// SetSpeed hot-swaps the engine's playback rate without a seek, so
// in-flight playback doesn't glitch.
func (c *Controller) SetSpeed(ctx context.Context, speed float64) error {
	c.PlaybackSpeed = speed
	if c.IsPlaying {
		return c.engine.SetSpeed(ctx, speed)
	}
	return nil
}

// StartHoldPlay / StopHoldPlay / StartHoldReverse / StopHoldReverse toggle
// mutually-exclusive hold states.
func (c *Controller) StartHoldPlay(ctx context.Context) error {
	c.HoldMode = HoldForward
	return c.Play(ctx)
}

func (c *Controller) StopHoldPlay(ctx context.Context) error {
	if c.HoldMode != HoldForward {
		return nil
	}
	c.HoldMode = HoldNone
	return c.Pause(ctx)
}

func (c *Controller) StartHoldReverse(ctx context.Context) error {
	c.HoldMode = HoldReverse
	if err := c.SetSpeed(ctx, -1); err != nil {
		return err
	}
	return c.Play(ctx)
}

func (c *Controller) StopHoldReverse(ctx context.Context) error {
	if c.HoldMode != HoldReverse {
		return nil
	}
	c.HoldMode = HoldNone
	return c.Pause(ctx)
}

// SyncPosition pulls the current playhead from the engine's clock,
// sampled at animation-frame cadence by the caller.
func (c *Controller) SyncPosition(ctx context.Context) error {
	if !c.IsPlaying {
		return nil
	}
	pos, err := c.engine.GetPosition(ctx)
	if err != nil {
		return err
	}
	c.CurrentTime = pos
	return nil
}
