// Package history implements snapshot-based undo/redo over the timeline
// store and transcription tables, including batched multi-step edits.
package history

import (
	"log/slog"

	"github.com/tidesound/editor/internal/logging"
	"github.com/tidesound/editor/internal/metrics"
	"github.com/tidesound/editor/internal/timeline"
)

// SilenceState carries silence-removal bookkeeping through each snapshot;
// the edit engine does not yet integrate ripple semantics with it, so it
// is opaque state that simply rides along.
type SilenceState struct {
	Regions            []Region
	CompressionEnabled bool
}

// Region is a [Start, End) timeline range, used by silence detection.
type Region struct {
	Start float64
	End   float64
}

// Snapshot captures everything a user could want restored by undo/redo.
type Snapshot struct {
	Label string

	Tracks          []*timeline.Track
	SelectedTrackID timeline.TrackID
	SelectedClipID  timeline.ClipID
	ViewMode        timeline.ViewMode

	Transcriptions map[timeline.TrackID]*timeline.TrackTranscription

	Selection timeline.Selection
	InOut     timeline.InOut

	Silence SilenceState
}

// Source is implemented by whatever owns the live state history snapshots
// (the store + transcription table); it lets History stay decoupled from
// any single concrete store type, avoiding the cyclic store-references
// design note warns against.
type Source interface {
	CaptureSnapshot(label string) *Snapshot
	Restore(snap *Snapshot)
}

// History is a ref-counted-batch undo/redo stack with a bounded depth.
type History struct {
	source Source
	undo   []*Snapshot
	redo   []*Snapshot

	maxEntries int
	batchDepth int
	pendingBatchLabel string
	batchTaken bool
	restoring bool

	log *slog.Logger
}

// New creates a History bound to its state source.
func New(source Source, maxEntries int) *History {
	return &History{
		source:     source,
		maxEntries: maxEntries,
		log:        logging.ForService("history"),
	}
}

// PushState snapshots the current state onto the undo stack, trims to
// MaxEntries, and clears redo. No-op while restoring, or mid-batch (the
// batch already took its single snapshot at BeginBatch).
func (h *History) PushState(label string) {
	if h.restoring || h.batchDepth > 0 {
		return
	}
	h.push(label)
}

func (h *History) push(label string) {
	snap := h.source.CaptureSnapshot(label)
	h.undo = append(h.undo, snap)
	if len(h.undo) > h.maxEntries {
		h.undo = h.undo[len(h.undo)-h.maxEntries:]
	}
	h.redo = nil
	metrics.GetCollector().RecordHistoryPush(len(h.undo))
}

// Undo restores the most recent undo entry, pushing the current state
// onto redo first.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	current := h.source.CaptureSnapshot("redo-point")
	h.redo = append(h.redo, current)

	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	h.restoring = true
	h.source.Restore(last)
	h.restoring = false
	metrics.GetCollector().RecordHistoryUndo(len(h.undo), len(h.redo))
	return true
}

// Redo is the mirror of Undo.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	current := h.source.CaptureSnapshot("undo-point")
	h.undo = append(h.undo, current)

	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	h.restoring = true
	h.source.Restore(last)
	h.restoring = false
	metrics.GetCollector().RecordHistoryRedo(len(h.undo), len(h.redo))
	return true
}

// BeginBatch starts (or extends, if already nested) a batch: the first
// call takes one snapshot; nested calls just bump the ref count.
func (h *History) BeginBatch(label string) {
	if h.batchDepth == 0 {
		h.pendingBatchLabel = label
		if !h.restoring {
			h.push(label)
			h.batchTaken = true
		}
	}
	h.batchDepth++
}

// EndBatch decrements the batch ref count; once it reaches zero the batch
// is closed. A batch is never explicitly closed on undo — it behaves like
// a single snapshot because PushState no-ops while batchDepth > 0.
func (h *History) EndBatch() {
	if h.batchDepth > 0 {
		h.batchDepth--
	}
	if h.batchDepth == 0 {
		h.pendingBatchLabel = ""
		h.batchTaken = false
	}
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// CanUndo/CanRedo report stack depth, for UI affordances.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// IsRestoring reports whether a restore is currently in flight, so
// collaborators (e.g. transcription listeners) can avoid re-triggering
// snapshots.
func (h *History) IsRestoring() bool { return h.restoring }
