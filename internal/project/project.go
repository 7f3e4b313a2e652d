// Package project marshals the versioned project file and its per-source
// transcription sidecar to and from JSON.
package project

import (
	"encoding/json"
	"io"
	"time"

	"github.com/tidesound/editor/internal/timeline"
)

// File is the top-level project document, version 1. The version field
// is reserved for forward schema migration, even though only version 1
// exists today.
type File struct {
	Version    int          `json:"version"`
	Name       string       `json:"name"`
	CreatedAt  time.Time    `json:"created_at"`
	ModifiedAt time.Time    `json:"modified_at"`
	Tracks     []TrackEntry `json:"tracks"`
	Selection  SelectionDoc `json:"selection"`
	SilenceRegions []SilenceRegion `json:"silence_regions,omitempty"`
}

// TrackEntry is one track's on-disk representation. FromStore stores
// SourcePath exactly as the track holds it; it does not rewrite paths
// relative to the project file's directory, and it never sets
// CachedAudioPath.
type TrackEntry struct {
	ID              string                          `json:"id"`
	Name            string                          `json:"name"`
	SourcePath      string                          `json:"source_path"`
	TrackStart      float64                         `json:"track_start"`
	Duration        float64                         `json:"duration"`
	Color           string                          `json:"color"`
	Muted           bool                            `json:"muted"`
	Solo            bool                            `json:"solo"`
	Volume          float64                         `json:"volume"`
	Tag             string                          `json:"tag,omitempty"`
	Timemarks       []TimemarkDoc                   `json:"timemarks,omitempty"`
	VolumeEnvelope  []EnvelopePointDoc              `json:"volume_envelope,omitempty"`
	CachedAudioPath string                          `json:"cached_audio_path,omitempty"`
}

type TimemarkDoc struct {
	ID     string  `json:"id"`
	Time   float64 `json:"time"`
	Label  string  `json:"label"`
	Source string  `json:"source"`
	Color  string  `json:"color,omitempty"`
}

type EnvelopePointDoc struct {
	ID    string  `json:"id"`
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

type SelectionDoc struct {
	InPoint  *float64 `json:"in_point,omitempty"`
	OutPoint *float64 `json:"out_point,omitempty"`
}

type SilenceRegion struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// FromStore builds a File snapshot of a store's current tracks, with
// buffers referenced by their original SourcePath (the Go-side in-memory
// mix is never round-tripped through the project file directly).
func FromStore(name string, store *timeline.Store, createdAt time.Time) *File {
	f := &File{
		Version:    1,
		Name:       name,
		CreatedAt:  createdAt,
		ModifiedAt: createdAt,
	}
	if store.InOut.InPoint != nil {
		f.Selection.InPoint = store.InOut.InPoint
	}
	if store.InOut.OutPoint != nil {
		f.Selection.OutPoint = store.InOut.OutPoint
	}
	for _, t := range store.Tracks {
		entry := TrackEntry{
			ID: string(t.ID), Name: t.Name, SourcePath: t.SourcePath,
			TrackStart: t.TrackStart, Duration: t.Duration, Color: t.Color,
			Muted: t.Mute, Solo: t.Solo, Volume: t.Volume,
		}
		for _, tm := range t.TimeMarks {
			entry.Timemarks = append(entry.Timemarks, TimemarkDoc{
				ID: string(tm.ID), Time: tm.Time, Label: tm.Label, Source: tm.Source, Color: tm.Color,
			})
		}
		for _, p := range t.VolumeEnvelope {
			entry.VolumeEnvelope = append(entry.VolumeEnvelope, EnvelopePointDoc{
				ID: string(p.ID), Time: p.Time, Value: p.Value,
			})
		}
		f.Tracks = append(f.Tracks, entry)
	}
	return f
}

// Encode writes the project file as JSON.
func Encode(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// Decode reads a project file from JSON.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// TranscriptionSidecar is the per-audio-source-path metadata sidecar
//. GlobalOffsetMs is retained for backward compatibility with older
// sidecars that predate per-word offsets and is always written as 0.
type TranscriptionSidecar struct {
	AudioPath       string            `json:"audio_path"`
	GlobalOffsetMs  float64           `json:"global_offset_ms"`
	WordAdjustments []WordAdjustment  `json:"word_adjustments"`
	SavedAt         time.Time         `json:"saved_at"`
	Words           []WordDoc         `json:"words"`
	FullText        string            `json:"full_text"`
	Language        string            `json:"language"`
}

type WordAdjustment struct {
	WordID   string  `json:"word_id"`
	OffsetMs float64 `json:"offset_ms"`
}

type WordDoc struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// SidecarFromTranscription builds a sidecar document from a live
// transcription table.
func SidecarFromTranscription(audioPath string, tr *timeline.TrackTranscription, savedAt time.Time) *TranscriptionSidecar {
	doc := &TranscriptionSidecar{
		AudioPath: audioPath,
		SavedAt:   savedAt,
		FullText:  tr.FullText,
		Language:  tr.Language,
	}
	for _, w := range tr.Words {
		doc.Words = append(doc.Words, WordDoc{
			ID: string(w.ID), Text: w.Text, Start: w.Start, End: w.End, Confidence: w.Confidence,
		})
	}
	for id, ms := range tr.WordOffsets {
		doc.WordAdjustments = append(doc.WordAdjustments, WordAdjustment{WordID: string(id), OffsetMs: ms})
	}
	return doc
}

// EncodeSidecar / DecodeSidecar mirror Encode/Decode for the sidecar type.
func EncodeSidecar(w io.Writer, doc *TranscriptionSidecar) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func DecodeSidecar(r io.Reader) (*TranscriptionSidecar, error) {
	var doc TranscriptionSidecar
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
