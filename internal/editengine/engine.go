package editengine

import (
	"log/slog"

	"github.com/tidesound/editor/internal/audiobuffer"
	"github.com/tidesound/editor/internal/logging"
	"github.com/tidesound/editor/internal/timeline"
	"github.com/tidesound/editor/internal/waveform"
)

// Config carries the tunables editengine needs from conf.Settings.
type Config struct {
	SnapThresholdSeconds float64
	EdgeEpsilonSeconds   float64
	OverviewBuckets      int
}

// Engine is the edit engine: cut / ripple-delete / delete / split /
// insert / slide / extract, operating on a shared timeline.Store.
type Engine struct {
	Store    *timeline.Store
	Registry *audiobuffer.Registry
	Waves    *waveform.Cache
	Cfg      Config

	// Transcriptions lets cut/ripple-delete/delete re-align word timing
	// after mutating a track; nil in tests that don't exercise that path.
	Transcriptions TranscriptionTable

	log *slog.Logger
}

// NewEngine wires an edit engine to its collaborators.
func NewEngine(store *timeline.Store, registry *audiobuffer.Registry, waves *waveform.Cache, cfg Config) *Engine {
	return &Engine{
		Store:    store,
		Registry: registry,
		Waves:    waves,
		Cfg:      cfg,
		log:      logging.ForService("editengine"),
	}
}

// CutResult is returned by CutRegion/ExtractRegion: the mixed-down buffer
// matching the extracted audio, plus its overview.
type CutResult struct {
	Buffer   *audiobuffer.Buffer
	Overview *waveform.Overview
}

// atOrAfter implements the epsilon-tolerant "at/after playhead" comparison
// used throughout this package (`clip_start >= playhead - epsilon`).
func (e *Engine) atOrAfter(position, reference float64) bool {
	return position >= reference-e.Cfg.EdgeEpsilonSeconds
}

// FinalizeClipPositions commits an active drag (delegates to the store;
// exposed here so callers driving edits and drags share one entry point).
func (e *Engine) FinalizeClipPositions() {
	e.Store.FinalizeClipPositions()
}
