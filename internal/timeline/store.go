package timeline

import (
	"log/slog"
	"sort"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/logging"
	"github.com/tidesound/editor/internal/waveform"
)

// ViewMode selects between a single track's view and the composite of all
// tracks).
type ViewMode string

const (
	ViewModeTrack     ViewMode = "track"
	ViewModeComposite ViewMode = "composite"
)

// SelectAll is the sentinel trackId meaning "select all / composite view".
const SelectAll TrackID = "__all__"

// colorPalette cycles 8 colors across newly created tracks.
var colorPalette = [8]string{
	"#4F8EF7", "#F76E6E", "#6EF7A8", "#F7D46E",
	"#B26EF7", "#6EE8F7", "#F76EBF", "#A8F76E",
}

// Store is the canonical timeline: tracks, their clips/envelopes/
// timemarks, selection state and the derived timeline duration.
type Store struct {
	Tracks []*Track

	SelectedTrackID TrackID
	SelectedClipID  ClipID
	ViewMode        ViewMode

	Selection Selection
	InOut     InOut

	ActiveDrag          *ActiveDrag
	MinTimelineDuration float64

	registry *audiobuffer.Registry
	waveCache *waveform.Cache

	log *slog.Logger
}

// NewStore creates an empty timeline store bound to a buffer registry and
// waveform cache.
func NewStore(registry *audiobuffer.Registry, waveCache *waveform.Cache) *Store {
	return &Store{
		registry:  registry,
		waveCache: waveCache,
		ViewMode:  ViewModeComposite,
		log:       logging.ForService("timeline"),
	}
}

// FindTrack returns the track with the given id, or nil.
func (s *Store) FindTrack(id TrackID) *Track {
	for _, t := range s.Tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Store) trackIndex(id TrackID) int {
	for i, t := range s.Tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// FindClip returns the clip (and its owning track) with the given id
// across all tracks.
func (s *Store) FindClip(id ClipID) (*Track, *Clip) {
	for _, t := range s.Tracks {
		for _, c := range t.Clips {
			if c.ID == id {
				return t, c
			}
		}
		if t.AudioData != nil && t.implicitClipID() == id {
			return t, t.AudioData
		}
	}
	return nil, nil
}

func nextPaletteColor(existing int) string {
	return colorPalette[existing%len(colorPalette)]
}

// CreateTrackFromBuffer appends a new single-buffer track.
func (s *Store) CreateTrackFromBuffer(buf *audiobuffer.Buffer, ov *waveform.Overview, name string, trackStart float64, sourcePath string) *Track {
	clip := newClip(buf, ov, trackStart)
	t := &Track{
		ID:           newTrackID(),
		Name:         name,
		Color:        nextPaletteColor(len(s.Tracks)),
		Volume:       1.0,
		TrackStart:   trackStart,
		Duration:     clip.Duration,
		AudioData:    clip,
		SourcePath:   sourcePath,
		ImportStatus: ImportStatusReady,
	}
	s.Tracks = append(s.Tracks, t)
	return t
}

// CreateImportingTrack creates a placeholder track that will transition
// importing -> decoding -> ready as codec events arrive.
func (s *Store) CreateImportingTrack(name string, trackStart float64, sourcePath string) *Track {
	t := &Track{
		ID:           newTrackID(),
		Name:         name,
		Color:        nextPaletteColor(len(s.Tracks)),
		Volume:       1.0,
		TrackStart:   trackStart,
		SourcePath:   sourcePath,
		ImportStatus: ImportStatusImporting,
	}
	s.Tracks = append(s.Tracks, t)
	return t
}

// UpdateImportDecodeProgress advances an importing track to "decoding".
// A no-op once the track is already ready.
func (s *Store) UpdateImportDecodeProgress(id TrackID) {
	t := s.FindTrack(id)
	if t == nil || importPriority[t.ImportStatus] >= importPriority[ImportStatusDecoding] {
		return
	}
	t.ImportStatus = ImportStatusDecoding
}

// SetImportBuffer attaches decoded audio to an importing/decoding track.
func (s *Store) SetImportBuffer(id TrackID, buf *audiobuffer.Buffer, ov *waveform.Overview) {
	t := s.FindTrack(id)
	if t == nil {
		return
	}
	clip := newClip(buf, ov, t.TrackStart)
	t.AudioData = clip
	t.Duration = clip.Duration
}

// FinalizeImportWaveform marks a track ready. Never regresses an already
// ready track.
func (s *Store) FinalizeImportWaveform(id TrackID) {
	t := s.FindTrack(id)
	if t == nil {
		return
	}
	if importPriority[ImportStatusReady] < importPriority[t.ImportStatus] {
		return
	}
	t.ImportStatus = ImportStatusReady
}

// DeleteTrack removes a track by id. No-op if not found.
func (s *Store) DeleteTrack(id TrackID) bool {
	idx := s.trackIndex(id)
	if idx < 0 {
		return false
	}
	s.Tracks = append(s.Tracks[:idx], s.Tracks[idx+1:]...)
	if s.SelectedTrackID == id {
		s.SelectedTrackID = ""
	}
	return true
}

// ClearTrackAudio empties a track back to a shell with no clips/audio.
func (s *Store) ClearTrackAudio(id TrackID) bool {
	t := s.FindTrack(id)
	if t == nil {
		return false
	}
	t.AudioData = nil
	t.Clips = nil
	t.Duration = 0
	return true
}

// RenameTrack sets a track's display name.
func (s *Store) RenameTrack(id TrackID, name string) bool {
	t := s.FindTrack(id)
	if t == nil {
		return false
	}
	t.Name = name
	return true
}

// SetTrackMuted sets a track's mute flag.
func (s *Store) SetTrackMuted(id TrackID, muted bool) bool {
	t := s.FindTrack(id)
	if t == nil {
		return false
	}
	t.Mute = muted
	return true
}

// SetTrackSolo sets a track's solo flag. Enabling solo on one track clears
// solo on every other track; disabling leaves others untouched.
func (s *Store) SetTrackSolo(id TrackID, solo bool) bool {
	t := s.FindTrack(id)
	if t == nil {
		return false
	}
	t.Solo = solo
	if solo {
		for _, other := range s.Tracks {
			if other.ID != id {
				other.Solo = false
			}
		}
	}
	return true
}

// SetTrackVolume sets linear gain, clamped to [0, maxGain].
func (s *Store) SetTrackVolume(id TrackID, volume, maxGain float64) bool {
	t := s.FindTrack(id)
	if t == nil {
		return false
	}
	if volume < 0 {
		volume = 0
	}
	if volume > maxGain {
		volume = maxGain
	}
	t.Volume = volume
	return true
}

// ReorderTrack moves the track at index `from` to index `to`.
func (s *Store) ReorderTrack(from, to int) bool {
	if from < 0 || from >= len(s.Tracks) || to < 0 || to >= len(s.Tracks) {
		return false
	}
	t := s.Tracks[from]
	s.Tracks = append(s.Tracks[:from], s.Tracks[from+1:]...)
	s.Tracks = append(s.Tracks[:to], append([]*Track{t}, s.Tracks[to:]...)...)
	return true
}

// AddEmptyTrack appends a bare track shell with no audio.
func (s *Store) AddEmptyTrack(name string) *Track {
	t := &Track{
		ID:           newTrackID(),
		Name:         name,
		Color:        nextPaletteColor(len(s.Tracks)),
		Volume:       1.0,
		ImportStatus: ImportStatusReady,
	}
	s.Tracks = append(s.Tracks, t)
	return t
}

// SelectTrack selects a track (or SelectAll for the composite view);
// selecting a track clears any clip selection.
func (s *Store) SelectTrack(id TrackID) {
	s.SelectedClipID = ""
	if id == SelectAll {
		s.SelectedTrackID = ""
		s.ViewMode = ViewModeComposite
		return
	}
	s.SelectedTrackID = id
	s.ViewMode = ViewModeTrack
}

// SelectClip sets the single globally-selected clip.
func (s *Store) SelectClip(trackID TrackID, clipID ClipID) {
	s.SelectedTrackID = trackID
	s.SelectedClipID = clipID
	s.ViewMode = ViewModeTrack
}

// AddTimemark adds a new timemark to a track.
func (s *Store) AddTimemark(id TrackID, time float64, label, source, color string) *TimeMark {
	t := s.FindTrack(id)
	if t == nil {
		return nil
	}
	tm := &TimeMark{ID: newTimeMarkID(), Time: time, Label: label, Source: source, Color: color}
	t.TimeMarks = append(t.TimeMarks, tm)
	return tm
}

// UpdateTimemarkTime moves a timemark. No history entry is pushed here;
// callers batch.
func (s *Store) UpdateTimemarkTime(trackID TrackID, id TimeMarkID, time float64) bool {
	t := s.FindTrack(trackID)
	if t == nil {
		return false
	}
	for _, tm := range t.TimeMarks {
		if tm.ID == id {
			tm.Time = time
			return true
		}
	}
	return false
}

// RemoveTimemark deletes a timemark by id.
func (s *Store) RemoveTimemark(trackID TrackID, id TimeMarkID) bool {
	t := s.FindTrack(trackID)
	if t == nil {
		return false
	}
	for i, tm := range t.TimeMarks {
		if tm.ID == id {
			t.TimeMarks = append(t.TimeMarks[:i], t.TimeMarks[i+1:]...)
			return true
		}
	}
	return false
}

// AddVolumePoint inserts a new automation point, keeping the envelope
// sorted by time.
func (s *Store) AddVolumePoint(trackID TrackID, time, value float64) *VolumeAutomationPoint {
	t := s.FindTrack(trackID)
	if t == nil {
		return nil
	}
	p := &VolumeAutomationPoint{ID: newEnvelopeID(), Time: time, Value: value}
	idx := sort.Search(len(t.VolumeEnvelope), func(i int) bool {
		return t.VolumeEnvelope[i].Time >= time
	})
	t.VolumeEnvelope = append(t.VolumeEnvelope, nil)
	copy(t.VolumeEnvelope[idx+1:], t.VolumeEnvelope[idx:])
	t.VolumeEnvelope[idx] = p
	return p
}

// UpdateVolumePoint changes a point's time/value in place. No history
// entry; callers batch.
func (s *Store) UpdateVolumePoint(trackID TrackID, id EnvelopePointID, time, value float64) bool {
	t := s.FindTrack(trackID)
	if t == nil {
		return false
	}
	for _, p := range t.VolumeEnvelope {
		if p.ID == id {
			p.Time = time
			p.Value = value
			sort.Slice(t.VolumeEnvelope, func(i, j int) bool {
				return t.VolumeEnvelope[i].Time < t.VolumeEnvelope[j].Time
			})
			return true
		}
	}
	return false
}

// RemoveVolumePoint deletes an automation point by id.
func (s *Store) RemoveVolumePoint(trackID TrackID, id EnvelopePointID) bool {
	t := s.FindTrack(trackID)
	if t == nil {
		return false
	}
	for i, p := range t.VolumeEnvelope {
		if p.ID == id {
			t.VolumeEnvelope = append(t.VolumeEnvelope[:i], t.VolumeEnvelope[i+1:]...)
			return true
		}
	}
	return false
}

// GetVolumeAtTime evaluates the piecewise-linear envelope at a
// track-relative time, falling back to the track's static volume when the
// envelope is empty, and clamping to the first/last point outside the
// envelope's range.
func GetVolumeAtTime(env []*VolumeAutomationPoint, fallback, t float64) float64 {
	if len(env) == 0 {
		return fallback
	}
	if t <= env[0].Time {
		return env[0].Value
	}
	last := env[len(env)-1]
	if t >= last.Time {
		return last.Value
	}
	idx := sort.Search(len(env), func(i int) bool { return env[i].Time >= t })
	after := env[idx]
	if after.Time == t {
		return after.Value
	}
	before := env[idx-1]
	span := after.Time - before.Time
	if span <= 0 {
		return before.Value
	}
	frac := (t - before.Time) / span
	return before.Value + frac*(after.Value-before.Value)
}

// GetVolumeAtTimeForTrack is a convenience wrapper over GetVolumeAtTime
// keyed by trackId.
func (s *Store) GetVolumeAtTimeForTrack(trackID TrackID, t float64) float64 {
	tr := s.FindTrack(trackID)
	if tr == nil {
		return 1.0
	}
	return GetVolumeAtTime(tr.VolumeEnvelope, tr.Volume, t)
}

// trackEnd returns the right edge a track currently occupies: the active
// drag position if one is in flight for this track, otherwise the
// committed TrackStart+Duration.
func (s *Store) trackEnd(t *Track) float64 {
	if s.ActiveDrag != nil && s.ActiveDrag.TrackID == t.ID {
		return s.ActiveDrag.Position + t.Duration
	}
	return t.TrackStart + t.Duration
}

// TimelineDuration is the derived timeline extent:
// max(0, minFloor, max over tracks of track_start+duration), using the
// active drag position in place of TrackStart while a drag is in flight.
func (s *Store) TimelineDuration() float64 {
	d := s.MinTimelineDuration
	for _, t := range s.Tracks {
		if end := s.trackEnd(t); end > d {
			d = end
		}
	}
	if d < 0 {
		d = 0
	}
	return d
}

// RecomputeTrackBounds derives TrackStart/Duration from a multi-clip
// track's clip list: track_start = min(clip_start), duration =
// max(clip_start+duration) - track_start.
func RecomputeTrackBounds(t *Track) {
	if !t.IsMultiClip() || len(t.Clips) == 0 {
		return
	}
	sort.Slice(t.Clips, func(i, j int) bool { return t.Clips[i].ClipStart < t.Clips[j].ClipStart })
	start := t.Clips[0].ClipStart
	end := t.Clips[0].End()
	for _, c := range t.Clips[1:] {
		if c.ClipStart < start {
			start = c.ClipStart
		}
		if c.End() > end {
			end = c.End()
		}
	}
	t.TrackStart = start
	t.Duration = end - start
}

// FinalizeClipPositions commits an in-flight drag: either applying
// ActiveDrag to the single-buffer track's TrackStart, or recomputing a
// multi-clip track's bounds from its clips, then resets
// MinTimelineDuration to 0.
func (s *Store) FinalizeClipPositions() {
	if s.ActiveDrag != nil {
		if t := s.FindTrack(s.ActiveDrag.TrackID); t != nil && !t.IsMultiClip() {
			t.TrackStart = s.ActiveDrag.Position
			if t.AudioData != nil {
				t.AudioData.ClipStart = t.TrackStart
			}
		}
		s.ActiveDrag = nil
	}
	for _, t := range s.Tracks {
		if t.IsMultiClip() {
			RecomputeTrackBounds(t)
		}
	}
	s.MinTimelineDuration = 0
}
