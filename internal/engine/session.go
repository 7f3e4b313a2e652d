// Package engine wires the editor's subsystems — timeline store, edit
// engine, mixer, transcription, meters, and history — into the single
// coherent session a host process drives.
package engine

import (
	"log/slog"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/conf"
	"github.com/tidesound/editor/internal/editengine"
	"github.com/tidesound/editor/internal/events"
	"github.com/tidesound/editor/internal/history"
	"github.com/tidesound/editor/internal/logging"
	"github.com/tidesound/editor/internal/meter"
	"github.com/tidesound/editor/internal/mixer"
	"github.com/tidesound/editor/internal/timeline"
	"github.com/tidesound/editor/internal/transcription"
	"github.com/tidesound/editor/internal/waveform"
)

// Session owns every piece of live state for one open project and
// implements history.Source so History can snapshot/restore it without
// holding a reference back to Session itself.
type Session struct {
	Store    *timeline.Store
	Registry *audiobuffer.Registry
	Waves    *waveform.Cache
	Edit     *editengine.Engine
	Mixer    *mixer.Mixer
	History  *history.History

	TranscriptionCfg transcription.Config
	Transcriptions   map[timeline.TrackID]*timeline.TrackTranscription

	MeterCfg     meter.Config
	TrackMeters  map[timeline.TrackID]*meter.Track
	MasterMeter  meter.Track

	Events         *events.Bus
	ImportConsumer *ImportConsumer

	log *slog.Logger
}

// New assembles a Session from settings, wiring each subsystem from the
// shared conf.Settings.
func New(settings *conf.Settings) *Session {
	registry := audiobuffer.NewRegistry()
	waves := waveform.NewCache(settings.Waveform.CacheTTL)
	store := timeline.NewStore(registry, waves)

	s := &Session{
		Store:    store,
		Registry: registry,
		Waves:    waves,
		Edit: editengine.NewEngine(store, registry, waves, editengine.Config{
			SnapThresholdSeconds: settings.Edit.SnapThresholdSeconds,
			EdgeEpsilonSeconds:   settings.Edit.EdgeEpsilonSeconds,
			OverviewBuckets:      settings.Waveform.OverviewBuckets,
		}),
		Mixer: mixer.New(registry, settings.Mixer.NormalizeTarget),
		TranscriptionCfg: transcription.Config{
			FalloffFactor:   settings.Transcription.FalloffFactor,
			FalloffRadius:   settings.Transcription.FalloffRadius,
			MinOffsetMs:     settings.Transcription.MinOffsetMs,
			OverlapGuardSec: settings.Transcription.OverlapGuardSec,
		},
		Transcriptions: make(map[timeline.TrackID]*timeline.TrackTranscription),
		MeterCfg: meter.Config{
			DecayFactor:     settings.Meter.DecayFactor,
			PeakHoldSeconds: settings.Meter.PeakHoldSeconds,
		},
		TrackMeters: make(map[timeline.TrackID]*meter.Track),
		log:         logging.ForService("engine"),
	}
	s.History = history.New(s, settings.History.MaxEntries)
	s.Edit.Transcriptions = s

	s.Events = events.New(events.DefaultConfig())
	s.ImportConsumer = NewImportConsumer(s)
	if err := s.Events.RegisterConsumer(s.ImportConsumer); err != nil {
		s.log.Error("registering import consumer", "error", err)
	}

	return s
}

// CaptureSnapshot implements history.Source by deep-cloning every track
// and transcription table, sharing buffer references.
func (s *Session) CaptureSnapshot(label string) *history.Snapshot {
	snap := &history.Snapshot{
		Label:           label,
		SelectedTrackID: s.Store.SelectedTrackID,
		SelectedClipID:  s.Store.SelectedClipID,
		ViewMode:        s.Store.ViewMode,
		Selection:       s.Store.Selection,
		InOut:           s.Store.InOut,
		Transcriptions:  make(map[timeline.TrackID]*timeline.TrackTranscription, len(s.Transcriptions)),
	}
	for _, t := range s.Store.Tracks {
		snap.Tracks = append(snap.Tracks, timeline.CloneTrack(t))
	}
	for id, tr := range s.Transcriptions {
		snap.Transcriptions[id] = timeline.CloneTranscription(tr)
	}
	return snap
}

// Restore implements history.Source by replacing live state wholesale.
// History sets IsRestoring around this call so PushState calls
// triggered by any observer reacting to the restore are suppressed
//.
func (s *Session) Restore(snap *history.Snapshot) {
	s.Store.Tracks = snap.Tracks
	s.Store.SelectedTrackID = snap.SelectedTrackID
	s.Store.SelectedClipID = snap.SelectedClipID
	s.Store.ViewMode = snap.ViewMode
	s.Store.Selection = snap.Selection
	s.Store.InOut = snap.InOut

	s.Transcriptions = make(map[timeline.TrackID]*timeline.TrackTranscription, len(snap.Transcriptions))
	for id, tr := range snap.Transcriptions {
		s.Transcriptions[id] = tr
	}
}

// TranscriptionFor implements editengine.TranscriptionTable, giving the
// edit engine direct access to re-align word timing after a cut without
// the engine package caching a copy of the table that history Restore
// could later swap out from under it.
func (s *Session) TranscriptionFor(id timeline.TrackID) (*timeline.TrackTranscription, bool) {
	tr, ok := s.Transcriptions[id]
	return tr, ok
}

// MeterForTrack returns (creating if needed) the smoothing state for a
// track's meter.
func (s *Session) MeterForTrack(id timeline.TrackID) *meter.Track {
	m, ok := s.TrackMeters[id]
	if !ok {
		m = &meter.Track{}
		s.TrackMeters[id] = m
	}
	return m
}
