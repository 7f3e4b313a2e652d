// Package sessionio hydrates an engine.Session from a project document
// and persists it back, the glue every editctl subcommand beyond import
// needs since the project file stores source paths, not decoded audio.
package sessionio

import (
	"fmt"
	"os"
	"time"

	"github.com/tidesound/editor/internal/conf"
	"github.com/tidesound/editor/internal/engine"
	"github.com/tidesound/editor/internal/project"
	"github.com/tidesound/editor/internal/timeline"
)

// Load reads a project document and re-decodes every track's referenced
// WAV file into a fresh Session.
func Load(path string, settings *conf.Settings) (*engine.Session, *project.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := project.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding project %s: %w", path, err)
	}

	sess := engine.New(settings)
	for _, entry := range doc.Tracks {
		src, err := os.Open(entry.SourcePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening source %s: %w", entry.SourcePath, err)
		}
		buf, err := sess.Registry.LoadWAV(src)
		src.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("decoding source %s: %w", entry.SourcePath, err)
		}
		ov := sess.Waves.BuildOverview(buf, settings.Waveform.OverviewBuckets)

		t := sess.Store.CreateTrackFromBuffer(buf, ov, entry.Name, entry.TrackStart, entry.SourcePath)
		t.ID = timeline.TrackID(entry.ID)
		t.Color = entry.Color
		t.Mute = entry.Muted
		t.Solo = entry.Solo
		t.Volume = entry.Volume
		for _, tm := range entry.Timemarks {
			t.TimeMarks = append(t.TimeMarks, &timeline.TimeMark{
				ID: timeline.TimeMarkID(tm.ID), Time: tm.Time, Label: tm.Label, Source: tm.Source, Color: tm.Color,
			})
		}
		for _, p := range entry.VolumeEnvelope {
			t.VolumeEnvelope = append(t.VolumeEnvelope, &timeline.VolumeAutomationPoint{
				ID: timeline.EnvelopePointID(p.ID), Time: p.Time, Value: p.Value,
			})
		}
	}
	if doc.Selection.InPoint != nil {
		sess.Store.InOut.InPoint = doc.Selection.InPoint
	}
	if doc.Selection.OutPoint != nil {
		sess.Store.InOut.OutPoint = doc.Selection.OutPoint
	}

	return sess, doc, nil
}

// Save writes the session's current tracks back out as a project
// document, preserving the original document's name.
func Save(path string, sess *engine.Session, name string) error {
	doc := project.FromStore(name, sess.Store, time.Now())
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()
	return project.Encode(out, doc)
}
