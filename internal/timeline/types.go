// Package timeline is the canonical track/clip store: tracks, clips,
// envelopes, timemarks, selection, and the derived timeline duration.
package timeline

import (
	"github.com/google/uuid"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/waveform"
)

// TrackID, ClipID, EnvelopePointID and TimeMarkID are opaque string ids
// generated with google/uuid.
type (
	TrackID         string
	ClipID          string
	EnvelopePointID string
	TimeMarkID      string
)

func newTrackID() TrackID             { return TrackID(uuid.NewString()) }
func newClipID() ClipID               { return ClipID(uuid.NewString()) }
func newEnvelopeID() EnvelopePointID  { return EnvelopePointID(uuid.NewString()) }
func newTimeMarkID() TimeMarkID       { return TimeMarkID(uuid.NewString()) }

// NewClipID mints a fresh clip id. Exported for the edit engine, which
// constructs clips directly when carving cut/split/insert results.
func NewClipID() ClipID { return newClipID() }

// ImportStatus tracks an in-flight import's lifecycle.
type ImportStatus string

const (
	ImportStatusImporting ImportStatus = "importing"
	ImportStatusDecoding  ImportStatus = "decoding"
	ImportStatusReady     ImportStatus = "ready"
)

// importPriority ranks statuses so finalization never regresses a ready
// track back to an earlier stage.
var importPriority = map[ImportStatus]int{
	ImportStatusImporting: 0,
	ImportStatusDecoding:  1,
	ImportStatusReady:     2,
}

// Clip is a contiguous audio region with its own buffer and its own
// position on the timeline.
type Clip struct {
	ID        ClipID
	Buffer    *audiobuffer.Buffer
	Overview  *waveform.Overview
	ClipStart float64 // timeline seconds
	Duration  float64 // seconds; MUST equal Buffer.Length()/Buffer.SampleRate()
}

func newClip(buf *audiobuffer.Buffer, ov *waveform.Overview, clipStart float64) *Clip {
	return &Clip{
		ID:        newClipID(),
		Buffer:    buf,
		Overview:  ov,
		ClipStart: clipStart,
		Duration:  buf.Duration(),
	}
}

// End returns ClipStart + Duration.
func (c *Clip) End() float64 { return c.ClipStart + c.Duration }

// VolumeAutomationPoint is one node of a track's gain automation curve
//. Time is track-relative.
type VolumeAutomationPoint struct {
	ID    EnvelopePointID
	Time  float64
	Value float64
}

// TimeMark is a decorative marker that participates in ripple/delete/
// insert shifts alongside clips and envelope points.
type TimeMark struct {
	ID     TimeMarkID
	Time   float64 // track-relative
	Label  string
	Source string // "manual" | "auto"
	Color  string
}

// ActiveDrag freezes the timeline extent while a clip is being dragged:
// writes go to a position separate from the track's committed TrackStart
// so the clip doesn't visually resize mid-drag.
type ActiveDrag struct {
	TrackID  TrackID
	Position float64
}

// Track is a horizontal lane owning either a single implicit clip
// (AudioData) or an explicit Clips list, plus mix controls.
type Track struct {
	ID         TrackID
	Name       string
	Color      string
	Mute       bool
	Solo       bool
	Volume     float64 // linear gain, clamped to [0, MaxVolumeGain]
	TrackStart float64
	Duration   float64

	// At most one of AudioData / Clips is populated; a shell track (from
	// AddEmptyTrack or ClearTrackAudio) has neither.
	AudioData *Clip
	Clips     []*Clip

	VolumeEnvelope []*VolumeAutomationPoint
	TimeMarks      []*TimeMark

	SourcePath   string
	ImportStatus ImportStatus
}

// IsMultiClip reports whether the track has been normalized to an
// explicit clip list.
func (t *Track) IsMultiClip() bool { return t.Clips != nil }

// implicitClipID returns the synthetic id used for a single-buffer
// track's implicit clip.
func (t *Track) implicitClipID() ClipID {
	return ClipID(string(t.ID) + "-main")
}

// AllClips returns the track's clips uniformly, synthesizing a one-clip
// view for single-buffer tracks without mutating the track.
func (t *Track) AllClips() []*Clip {
	if t.IsMultiClip() {
		return t.Clips
	}
	if t.AudioData == nil {
		return nil
	}
	synth := *t.AudioData
	synth.ID = t.implicitClipID()
	synth.ClipStart = t.TrackStart
	return []*Clip{&synth}
}

// Selection is the global selection range over the timeline.
type Selection struct {
	Start float64
	End   float64
}

// InOut holds optional in/out markers over the timeline.
type InOut struct {
	InPoint  *float64
	OutPoint *float64
}

// Word is one ASR-produced token with track-relative timings.
type WordID string

type Word struct {
	ID         WordID
	Text       string
	Start      float64 // seconds, track-relative, pre-offset
	End        float64
	Confidence float64
}

// TrackTranscription holds a track's word-level transcription plus the
// per-word offset table edits accumulate into.
type TrackTranscription struct {
	TrackID       TrackID
	Words         []*Word // ordered by Start
	FullText      string
	Language      string
	WordOffsets   map[WordID]float64 // wordId -> signed millisecond offset
	EnableFalloff bool
}
