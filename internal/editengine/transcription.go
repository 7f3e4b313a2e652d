package editengine

import (
	"github.com/tidesound/editor/internal/timeline"
	"github.com/tidesound/editor/internal/transcription"
)

// TranscriptionTable looks up a track's transcription table so CutRegion/
// RippleDelete/Delete can re-align word timing right after mutating a
// track's audio, the same way shiftTimemarksAndEnvelope re-aligns
// timemarks and envelope points. Implemented by engine.Session; looked up
// live on every call rather than cached, so it reflects history Restore
// swapping the whole table out from under a long-lived Engine.
type TranscriptionTable interface {
	TranscriptionFor(id timeline.TrackID) (*timeline.TrackTranscription, bool)
}

func (e *Engine) transcriptionFor(id timeline.TrackID) (*timeline.TrackTranscription, bool) {
	if e.Transcriptions == nil {
		return nil, false
	}
	tr, ok := e.Transcriptions.TranscriptionFor(id)
	if !ok || tr == nil {
		return nil, false
	}
	return tr, true
}

// adjustTranscriptionForCut drops words inside [cutStart, cutEnd) for
// trackID, matching the audio CutRegion just removed. It never shifts
// surviving words on its own: CutRegion alone leaves a gap in place, so
// only a removal is correct here. A shift is applied separately once
// RippleDelete actually closes that gap.
func (e *Engine) adjustTranscriptionForCut(id timeline.TrackID, oldTrackStart, cutStart, cutEnd float64) {
	tr, ok := e.transcriptionFor(id)
	if !ok {
		return
	}
	transcription.AdjustForDelete(tr, oldTrackStart, cutStart, cutEnd)
}

// adjustTranscriptionForRippleShift re-aligns a track's surviving word
// timing after RippleDelete has slid later content left to close the gap:
// words at/after cutEnd move left by the gap duration. Safe to call after
// adjustTranscriptionForCut already dropped the in-region words on the
// same track, since it re-checks the (now-empty) removal range as a no-op.
func (e *Engine) adjustTranscriptionForRippleShift(id timeline.TrackID, oldTrackStart, cutStart, cutEnd float64) {
	tr, ok := e.transcriptionFor(id)
	if !ok {
		return
	}
	transcription.AdjustForCut(tr, oldTrackStart, cutStart, cutEnd)
}
