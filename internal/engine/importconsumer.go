package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tidesound/editor/internal/events"
	"github.com/tidesound/editor/internal/timeline"
	"github.com/tidesound/editor/internal/waveform"
)

// ImportConsumer bridges the codec service's streaming import events
// onto a Session's timeline store: waveform-chunk events
// advance a track to "decoding", and import-complete finalizes it.
type ImportConsumer struct {
	sess *Session
	log  *slog.Logger

	mu            sync.Mutex
	sessionTracks map[string]timeline.TrackID
}

// NewImportConsumer creates a consumer bound to a session.
func NewImportConsumer(sess *Session) *ImportConsumer {
	return &ImportConsumer{
		sess:          sess,
		log:           sess.log,
		sessionTracks: make(map[string]timeline.TrackID),
	}
}

// Name satisfies events.Consumer.
func (c *ImportConsumer) Name() string { return "import-consumer" }

// BindSession associates a codec session id with the importing track it
// will populate, so later events route correctly.
func (c *ImportConsumer) BindSession(sessionID string, trackID timeline.TrackID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionTracks[sessionID] = trackID
}

func (c *ImportConsumer) trackFor(sessionID string) (timeline.TrackID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.sessionTracks[sessionID]
	return id, ok
}

func (c *ImportConsumer) unbind(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessionTracks, sessionID)
}

// ProcessEvent satisfies events.Consumer.
func (c *ImportConsumer) ProcessEvent(e events.Event) error {
	trackID, ok := c.trackFor(e.SessionID())
	if !ok {
		return fmt.Errorf("import consumer: unknown session %s", e.SessionID())
	}

	switch ev := e.(type) {
	case events.WaveformChunk:
		chunk := ev.Chunk()
		c.sess.Store.UpdateImportDecodeProgress(trackID)
		c.log.Debug("waveform chunk received", "track_id", trackID, "progress", chunk.Progress)

	case events.ImportComplete:
		complete := ev.Complete()
		t := c.sess.Store.FindTrack(trackID)
		if t == nil {
			return fmt.Errorf("import consumer: track %s not found", trackID)
		}
		if t.AudioData != nil {
			ov := &waveform.Overview{
				Buckets: len(complete.Waveform) / 2,
				Peaks:   complete.Waveform,
			}
			c.sess.Waves.SetOverview(t.AudioData.Buffer.ID(), ov)
		}
		c.sess.Store.FinalizeImportWaveform(trackID)
		c.unbind(e.SessionID())

	case events.ImportError:
		failure := ev.Failure()
		c.log.Error("import failed", "track_id", trackID, "error", failure.Err)
		c.unbind(e.SessionID())
	}
	return nil
}
