// Package mixer implements the sample-accurate render used by both
// playback and export: per-clip position, per-track gain, volume
// automation, mute/solo, and normalization.
package mixer

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/logging"
	"github.com/tidesound/editor/internal/metrics"
	"github.com/tidesound/editor/internal/timeline"
)

// Mixer renders a set of active clips into a single mixed-down buffer.
type Mixer struct {
	Registry        *audiobuffer.Registry
	NormalizeTarget float64

	log *slog.Logger
}

// New creates a Mixer bound to a buffer registry.
func New(registry *audiobuffer.Registry, normalizeTarget float64) *Mixer {
	return &Mixer{
		Registry:        registry,
		NormalizeTarget: normalizeTarget,
		log:             logging.ForService("mixer"),
	}
}

// ActiveTracks applies the active-track filter: if any track is both soloed
// and unmuted, only soloed+unmuted tracks are active; otherwise every
// unmuted track is active.
func ActiveTracks(tracks []*timeline.Track) []*timeline.Track {
	anySolo := false
	for _, t := range tracks {
		if t.Solo && !t.Mute {
			anySolo = true
			break
		}
	}
	var active []*timeline.Track
	for _, t := range tracks {
		if t.Mute {
			continue
		}
		if anySolo && !t.Solo {
			continue
		}
		active = append(active, t)
	}
	return active
}

type renderClip struct {
	track *timeline.Track
	clip  *timeline.Clip
}

// Render mixes every active clip of the given tracks into one buffer:
// position each clip, apply per-track gain and volume automation, sum,
// then normalize. Natural rate only; variable-speed playback is handled
// entirely by the playback controller, never here.
func (m *Mixer) Render(ctx context.Context, tracks []*timeline.Track) (buf *audiobuffer.Buffer, err error) {
	start := time.Now()
	defer func() { metrics.GetCollector().RecordRender(time.Since(start), err) }()

	active := ActiveTracks(tracks)

	var clips []renderClip
	for _, t := range active {
		for _, c := range t.AllClips() {
			clips = append(clips, renderClip{track: t, clip: c})
		}
	}
	if len(clips) == 0 {
		return nil, nil
	}

	timelineStart := clips[0].clip.ClipStart
	timelineEnd := clips[0].clip.End()
	sampleRate := clips[0].clip.Buffer.SampleRate()
	channels := clips[0].clip.Buffer.ChannelCount()
	for _, rc := range clips[1:] {
		if rc.clip.ClipStart < timelineStart {
			timelineStart = rc.clip.ClipStart
		}
		if rc.clip.End() > timelineEnd {
			timelineEnd = rc.clip.End()
		}
		if rc.clip.Buffer.ChannelCount() > channels {
			channels = rc.clip.Buffer.ChannelCount()
		}
	}

	totalSamples := int(math.Ceil((timelineEnd - timelineStart) * float64(sampleRate)))
	if totalSamples <= 0 {
		return nil, nil
	}

	contributions := make([][][]float32, len(clips))
	g, _ := errgroup.WithContext(ctx)
	for i, rc := range clips {
		i, rc := i, rc
		g.Go(func() error {
			contributions[i] = m.renderClip(rc, timelineStart, sampleRate, channels, totalSamples)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, totalSamples)
	}
	for _, contrib := range contributions {
		for c := 0; c < channels; c++ {
			for i, v := range contrib[c] {
				out[c][i] += v
			}
		}
	}

	normalize(out, m.NormalizeTarget)

	return m.Registry.CreateFromChannels(out, sampleRate)
}

// renderClip produces one clip's contribution to the output buffer,
// applying per-track gain/envelope per output sample.
func (m *Mixer) renderClip(rc renderClip, timelineStart float64, sampleRate, channels, totalSamples int) [][]float32 {
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, totalSamples)
	}

	buf := rc.clip.Buffer
	startSample := int(math.Round((rc.clip.ClipStart - timelineStart) * float64(sampleRate)))
	srcChannels := buf.ChannelCount()
	length := buf.Length()

	hasEnvelope := len(rc.track.VolumeEnvelope) > 0

	for ch := 0; ch < channels; ch++ {
		srcCh := ch
		if srcCh >= srcChannels {
			srcCh = srcChannels - 1
		}
		src := buf.Channel(srcCh)
		for i := 0; i < length; i++ {
			outIdx := startSample + i
			if outIdx < 0 || outIdx >= totalSamples {
				continue
			}
			gain := rc.track.Volume
			if hasEnvelope {
				t := (timelineStart + float64(outIdx)/float64(sampleRate)) - rc.track.TrackStart
				gain = timeline.GetVolumeAtTime(rc.track.VolumeEnvelope, rc.track.Volume, t)
			}
			out[ch][outIdx] += src[i] * float32(gain)
		}
	}
	return out
}

// normalize scales samples down by 0.95/max_abs whenever the peak exceeds
// 1.0; target is configurable via conf.Settings.Mixer.
func normalize(channels [][]float32, target float64) {
	maxAbs := float32(0)
	for _, ch := range channels {
		for _, v := range ch {
			a := v
			if a < 0 {
				a = -a
			}
			if a > maxAbs {
				maxAbs = a
			}
		}
	}
	if maxAbs <= 1.0 {
		return
	}
	scale := float32(target) / maxAbs
	for _, ch := range channels {
		for i := range ch {
			ch[i] *= scale
		}
	}
}
