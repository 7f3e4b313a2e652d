package editengine

import "github.com/tidesound/editor/internal/timeline"

// SetClipStart drags a clip (or a single-buffer track's implicit clip) to
// a new timeline position, applying the snap/overlap policy and writing
// into the store's ActiveDrag rather than mutating TrackStart mid-drag
//. Call FinalizeClipPositions to commit.
func (e *Engine) SetClipStart(trackID timeline.TrackID, clipID timeline.ClipID, newStart float64, snap bool) bool {
	track := e.Store.FindTrack(trackID)
	if track == nil {
		return false
	}

	if !track.IsMultiClip() {
		duration := float64(0)
		if track.AudioData != nil {
			duration = track.AudioData.Duration
		}
		pos := newStart
		if pos < 0 {
			pos = 0
		}
		e.Store.ActiveDrag = &timeline.ActiveDrag{TrackID: trackID, Position: pos}
		if right := pos + duration; right > e.Store.MinTimelineDuration {
			e.Store.MinTimelineDuration = right
		}
		return true
	}

	var clip *timeline.Clip
	for _, c := range track.Clips {
		if c.ID == clipID {
			clip = c
			break
		}
	}
	if clip == nil {
		return false
	}

	snapped := GetSnappedClipPosition(track, clipID, newStart, clip.Duration, e.Cfg.SnapThresholdSeconds, snap)
	clip.ClipStart = snapped
	if right := snapped + clip.Duration; right > e.Store.MinTimelineDuration {
		e.Store.MinTimelineDuration = right
	}
	return true
}
