package editengine

import (
	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/timeline"
	"github.com/tidesound/editor/internal/waveform"
)

// InsertAtPlayhead pastes a new clip built from pasteBuf into trackID at
// playhead, splitting an underlying clip if the playhead falls inside it
// and shifting everything at/after the playhead to make room.
func (e *Engine) InsertAtPlayhead(trackID timeline.TrackID, playhead float64, pasteBuf *audiobuffer.Buffer, pasteOv *waveform.Overview) (*timeline.Clip, bool) {
	track := e.Store.FindTrack(trackID)
	if track == nil {
		return nil, false
	}
	e.normalizeToClips(track)

	pasteDuration := pasteBuf.Duration()
	oldTrackStart := track.TrackStart

	for _, c := range track.Clips {
		if playhead > c.ClipStart+e.Cfg.EdgeEpsilonSeconds && playhead < c.End()-e.Cfg.EdgeEpsilonSeconds {
			e.SplitAtTime(trackID, c.ID, playhead)
			break
		}
	}

	for _, c := range track.Clips {
		if e.atOrAfter(c.ClipStart, playhead) {
			c.ClipStart += pasteDuration
		}
	}

	newClip := &timeline.Clip{
		ID: timeline.NewClipID(), Buffer: pasteBuf, Overview: pasteOv,
		ClipStart: playhead, Duration: pasteDuration,
	}
	track.Clips = append(track.Clips, newClip)
	timeline.RecomputeTrackBounds(track)

	// TimeMarks/envelope points are track-relative; re-express each as an
	// absolute timeline position using the pre-paste TrackStart, shift it
	// if it falls at/after the playhead, then re-derive the track-relative
	// value against the (possibly also shifted) new TrackStart.
	for _, tm := range track.TimeMarks {
		abs := tm.Time + oldTrackStart
		if e.atOrAfter(abs, playhead) {
			abs += pasteDuration
		}
		tm.Time = abs - track.TrackStart
	}
	for _, p := range track.VolumeEnvelope {
		abs := p.Time + oldTrackStart
		if e.atOrAfter(abs, playhead) {
			abs += pasteDuration
		}
		p.Time = abs - track.TrackStart
	}

	return newClip, true
}
