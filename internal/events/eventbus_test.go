package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tidesound/editor/internal/events"
	"github.com/tidesound/editor/internal/ports"
)

type recordingConsumer struct {
	name     string
	received chan events.Event
	err      error
	panics   bool
}

func (c *recordingConsumer) Name() string { return c.name }

func (c *recordingConsumer) ProcessEvent(e events.Event) error {
	if c.panics {
		panic("boom")
	}
	if c.err != nil {
		return c.err
	}
	c.received <- e
	return nil
}

func newBus(t *testing.T) *events.Bus {
	t.Helper()
	b := events.New(events.Config{BufferSize: 8, Workers: 1})
	t.Cleanup(func() { _ = b.Shutdown(time.Second) })
	return b
}

func TestDefaultConfigHasBufferAndWorkers(t *testing.T) {
	cfg := events.DefaultConfig()
	assert.Equal(t, 256, cfg.BufferSize)
	assert.Equal(t, 2, cfg.Workers)
}

func TestTryPublishDropsUnknownSession(t *testing.T) {
	b := newBus(t)
	ok := b.TryPublish(events.WrapImportError(ports.ImportErrorEvent{SessionID: "unknown"}))
	assert.False(t, ok)
}

func TestTryPublishDispatchesToRegisteredConsumer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	b := newBus(t)
	b.RegisterSession("s1")
	consumer := &recordingConsumer{name: "c1", received: make(chan events.Event, 1)}
	require.NoError(t, b.RegisterConsumer(consumer))

	ok := b.TryPublish(events.WrapImportComplete(ports.ImportCompleteEvent{SessionID: "s1", ActualDuration: 1.5}))
	require.True(t, ok)

	select {
	case e := <-consumer.received:
		complete, isComplete := e.(events.ImportComplete)
		require.True(t, isComplete)
		assert.Equal(t, "s1", complete.SessionID())
	case <-time.After(time.Second):
		t.Fatal("consumer never received the event")
	}
}

func TestForgetSessionStopsFurtherDelivery(t *testing.T) {
	b := newBus(t)
	b.RegisterSession("s1")
	b.ForgetSession("s1")

	ok := b.TryPublish(events.WrapImportError(ports.ImportErrorEvent{SessionID: "s1"}))
	assert.False(t, ok)
}

func TestRegisterConsumerRejectsDuplicateNames(t *testing.T) {
	b := newBus(t)
	c1 := &recordingConsumer{name: "dup", received: make(chan events.Event, 1)}
	c2 := &recordingConsumer{name: "dup", received: make(chan events.Event, 1)}

	require.NoError(t, b.RegisterConsumer(c1))
	assert.Error(t, b.RegisterConsumer(c2))
}

func TestDispatchRecoversFromConsumerPanic(t *testing.T) {
	b := newBus(t)
	b.RegisterSession("s1")
	require.NoError(t, b.RegisterConsumer(&recordingConsumer{name: "panicker", panics: true}))

	require.True(t, b.TryPublish(events.WrapImportError(ports.ImportErrorEvent{SessionID: "s1"})))

	require.Eventually(t, func() bool {
		return b.GetStats().Errors == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGetStatsCountsReceivedAndProcessed(t *testing.T) {
	b := newBus(t)
	b.RegisterSession("s1")
	consumer := &recordingConsumer{name: "counter", received: make(chan events.Event, 4)}
	require.NoError(t, b.RegisterConsumer(consumer))

	require.True(t, b.TryPublish(events.WrapImportError(ports.ImportErrorEvent{SessionID: "s1"})))
	<-consumer.received

	require.Eventually(t, func() bool {
		stats := b.GetStats()
		return stats.Received == 1 && stats.Processed == 1
	}, time.Second, 10*time.Millisecond)
}

func TestShutdownDrainsAndStopsWorkers(t *testing.T) {
	b := events.New(events.Config{BufferSize: 4, Workers: 2})
	require.NoError(t, b.Shutdown(time.Second))
}
