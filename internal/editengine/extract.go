package editengine

import (
	"math"

	"github.com/tidesound/editor/internal/mixer"
	"github.com/tidesound/editor/internal/timeline"
)

// ExtractRegion mixes [in, out] across every active (non-muted, solo-aware)
// track into a single buffer at max(channels) and the first intersecting
// track's sample rate. Returns (nil, false) if no track overlaps. An empty
// activeTrackIDs means every track mixer.ActiveTracks selects; a non-empty
// one is used as given.
func (e *Engine) ExtractRegion(in, out float64, activeTrackIDs []timeline.TrackID) (*CutResult, bool) {
	if out <= in {
		return nil, false
	}
	activeSet := make(map[timeline.TrackID]bool, len(activeTrackIDs))
	for _, id := range activeTrackIDs {
		activeSet[id] = true
	}

	var contributions []contribution
	maxChannels := 0
	rate := 0
	found := false

	tracks := e.Store.Tracks
	if len(activeSet) == 0 {
		tracks = mixer.ActiveTracks(tracks)
	}
	for _, t := range tracks {
		if len(activeSet) > 0 && !activeSet[t.ID] {
			continue
		}
		for _, c := range t.AllClips() {
			if c.End() <= in || c.ClipStart >= out {
				continue
			}
			found = true
			if rate == 0 {
				rate = c.Buffer.SampleRate()
			}
			overlapStartRel := math.Max(0, in-c.ClipStart)
			overlapEndRel := math.Min(c.Duration, out-c.ClipStart)
			startSample := int(overlapStartRel * float64(c.Buffer.SampleRate()))
			endSample := int(overlapEndRel * float64(c.Buffer.SampleRate()))
			if endSample <= startSample {
				continue
			}
			channels := sliceChannels(c.Buffer, startSample, endSample)
			if len(channels) > maxChannels {
				maxChannels = len(channels)
			}
			offsetSec := (c.ClipStart + overlapStartRel) - in
			contributions = append(contributions, contribution{
				channels:     channels,
				offsetSample: int(math.Round(offsetSec * float64(rate))),
			})
		}
	}

	if !found {
		return nil, false
	}

	totalSamples := int(math.Round((out - in) * float64(rate)))
	if totalSamples <= 0 {
		return nil, false
	}
	mixed, err := mixContributions(e.Registry, contributions, totalSamples, maxOrOne(maxChannels), rate)
	if err != nil {
		return nil, false
	}
	ov := e.Waves.BuildOverview(mixed, e.Cfg.OverviewBuckets)
	return &CutResult{Buffer: mixed, Overview: ov}, true
}
