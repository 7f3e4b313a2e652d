package editengine

import "github.com/tidesound/editor/internal/timeline"

// rippleCut records a track CutRegion touched, and its TrackStart from
// before any mutation, so RippleDelete can re-align timemarks/envelope/
// transcription once the track's bounds are in their final, post-slide
// state.
type rippleCut struct {
	track         *timeline.Track
	oldTrackStart float64
}

// RippleDelete removes [inPoint, outPoint] on every track it overlaps,
// keeping emptied tracks as shells, then slides later content left to
// close the gap.
func (e *Engine) RippleDelete(inPoint, outPoint float64) bool {
	if outPoint <= inPoint {
		return false
	}
	var touched []rippleCut
	for _, t := range append([]*timeline.Track(nil), e.Store.Tracks...) {
		oldTrackStart := t.TrackStart
		if _, ok := e.CutRegion(t.ID, inPoint, outPoint, true); ok {
			touched = append(touched, rippleCut{t, oldTrackStart})
		}
	}
	if len(touched) == 0 {
		return false
	}
	e.SlideTracksLeft(outPoint, outPoint-inPoint)

	// Only after SlideTracksLeft has finished moving content do touched
	// tracks sit at their final TrackStart: a cut that lands on a single-
	// buffer track's leading edge leaves CutRegion's own RecomputeTrackBounds
	// call pointing TrackStart at cutEnd, and SlideTracksLeft then moves it
	// again when it closes the gap. Re-deriving relative positions against
	// an intermediate TrackStart would silently corrupt them.
	delta := -(outPoint - inPoint)
	for _, rc := range touched {
		e.shiftTimemarksAndEnvelope(rc.track, rc.oldTrackStart, inPoint, outPoint, delta)
		e.adjustTranscriptionForRippleShift(rc.track.ID, rc.oldTrackStart, inPoint, outPoint)
	}
	return true
}

// Delete removes [inPoint, outPoint] without sliding later content; a
// silent gap remains.
func (e *Engine) Delete(inPoint, outPoint float64) bool {
	if outPoint <= inPoint {
		return false
	}
	any := false
	for _, t := range append([]*timeline.Track(nil), e.Store.Tracks...) {
		if _, ok := e.CutRegion(t.ID, inPoint, outPoint, true); ok {
			any = true
		}
	}
	return any
}

// SlideTracksLeft closes a gap left by a ripple delete: tracks entirely
// past the gap shift wholesale; tracks spanning the gap shift only the
// clips at/after gapStart and recompute bounds.
func (e *Engine) SlideTracksLeft(gapStart, gapDuration float64) {
	for _, t := range e.Store.Tracks {
		if t.IsMultiClip() {
			touched := false
			for _, c := range t.Clips {
				if e.atOrAfter(c.ClipStart, gapStart) {
					c.ClipStart -= gapDuration
					touched = true
				}
			}
			if touched {
				timeline.RecomputeTrackBounds(t)
			}
			continue
		}
		if t.TrackStart >= gapStart {
			t.TrackStart -= gapDuration
			if t.AudioData != nil {
				t.AudioData.ClipStart = t.TrackStart
			}
		}
	}
}

// shiftTimemarksAndEnvelope adjusts timemarks and envelope points after a
// ripple-delete on a track: points inside the removed region are dropped
// (matching word/clip removal semantics), points at/after the cut end
// shift left by the gap duration. `delta` is negative (the gap duration to
// subtract). `oldTrackStart` must be captured before CutRegion runs: a cut
// touching a single-buffer track's leading edge leaves no "before" clip, so
// RecomputeTrackBounds moves t.TrackStart to cutEnd. Callers must also wait
// until after SlideTracksLeft before calling this, since that call can move
// TrackStart a second time closing the gap. Each point is re-expressed as
// an absolute timeline position using the pre-cut TrackStart, tested/
// shifted against the absolute cutStart/cutEnd, then re-derived relative
// to the track's final TrackStart — mirroring insert.go's
// InsertAtPlayhead.
func (e *Engine) shiftTimemarksAndEnvelope(t *timeline.Track, oldTrackStart, cutStart, cutEnd, delta float64) {
	keptMarks := t.TimeMarks[:0:0]
	for _, tm := range t.TimeMarks {
		abs := tm.Time + oldTrackStart
		switch {
		case abs >= cutStart && abs < cutEnd:
			continue // dropped, inside removed region
		case abs >= cutEnd:
			abs += delta
			tm.Time = abs - t.TrackStart
			keptMarks = append(keptMarks, tm)
		default:
			tm.Time = abs - t.TrackStart
			keptMarks = append(keptMarks, tm)
		}
	}
	t.TimeMarks = keptMarks

	keptEnv := t.VolumeEnvelope[:0:0]
	for _, p := range t.VolumeEnvelope {
		abs := p.Time + oldTrackStart
		switch {
		case abs >= cutStart && abs < cutEnd:
			continue
		case abs >= cutEnd:
			abs += delta
			p.Time = abs - t.TrackStart
			keptEnv = append(keptEnv, p)
		default:
			p.Time = abs - t.TrackStart
			keptEnv = append(keptEnv, p)
		}
	}
	t.VolumeEnvelope = keptEnv
}
