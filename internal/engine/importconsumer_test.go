package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidesound/editor/internal/conf"
	"github.com/tidesound/editor/internal/engine"
	"github.com/tidesound/editor/internal/events"
	"github.com/tidesound/editor/internal/ports"
	"github.com/tidesound/editor/internal/timeline"
)

func TestProcessEventUnknownSessionReturnsError(t *testing.T) {
	s := engine.New(conf.Default())
	t.Cleanup(func() { _ = s.Events.Shutdown(0) })

	err := s.ImportConsumer.ProcessEvent(events.WrapWaveformChunk(ports.WaveformChunkEvent{SessionID: "unbound"}))
	assert.Error(t, err)
}

func TestProcessEventWaveformChunkAdvancesTrackToDecoding(t *testing.T) {
	s := engine.New(conf.Default())
	t.Cleanup(func() { _ = s.Events.Shutdown(0) })
	tr := s.Store.CreateImportingTrack("a", 0, "a.wav")
	s.ImportConsumer.BindSession("sess1", tr.ID)

	err := s.ImportConsumer.ProcessEvent(events.WrapWaveformChunk(ports.WaveformChunkEvent{SessionID: "sess1", Progress: 0.5}))

	require.NoError(t, err)
	assert.Equal(t, timeline.ImportStatusDecoding, tr.ImportStatus)
}

func TestProcessEventImportCompleteFinalizesAndUnbinds(t *testing.T) {
	s := engine.New(conf.Default())
	t.Cleanup(func() { _ = s.Events.Shutdown(0) })
	tr := s.Store.CreateImportingTrack("a", 0, "a.wav")
	s.ImportConsumer.BindSession("sess1", tr.ID)

	buf, err := s.Registry.CreateFromChannels([][]float32{{0, 0, 0}}, 48000)
	require.NoError(t, err)
	s.Store.SetImportBuffer(tr.ID, buf, nil)

	err = s.ImportConsumer.ProcessEvent(events.WrapImportComplete(ports.ImportCompleteEvent{
		SessionID: "sess1", Waveform: []float32{0, 1, 0, 1}, ActualDuration: 1.0,
	}))

	require.NoError(t, err)
	assert.Equal(t, timeline.ImportStatusReady, tr.ImportStatus)
	ov, ok := s.Waves.Overview(buf.ID())
	require.True(t, ok)
	assert.Equal(t, 2, ov.Buckets)

	// Session unbound, so a second event for the same session is now unknown.
	err = s.ImportConsumer.ProcessEvent(events.WrapImportComplete(ports.ImportCompleteEvent{SessionID: "sess1"}))
	assert.Error(t, err)
}

func TestProcessEventImportErrorUnbindsSession(t *testing.T) {
	s := engine.New(conf.Default())
	t.Cleanup(func() { _ = s.Events.Shutdown(0) })
	tr := s.Store.CreateImportingTrack("a", 0, "a.wav")
	s.ImportConsumer.BindSession("sess1", tr.ID)

	err := s.ImportConsumer.ProcessEvent(events.WrapImportError(ports.ImportErrorEvent{SessionID: "sess1", Err: errors.New("decode failed")}))
	require.NoError(t, err)

	err = s.ImportConsumer.ProcessEvent(events.WrapImportError(ports.ImportErrorEvent{SessionID: "sess1"}))
	assert.Error(t, err)
}
