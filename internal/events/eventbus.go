// Package events implements a non-blocking publish/consume bus for the
// codec service's import events: a buffered channel, a fixed worker pool,
// and per-consumer panic recovery.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidesound/editor/internal/logging"
	"github.com/tidesound/editor/internal/ports"
)

// Event is any of the codec service's import events.
type Event interface {
	SessionID() string
}

// WaveformChunk, ImportComplete and ImportError adapt the ports
// package's plain event structs into the Event interface this bus
// publishes, each exposing the wrapped struct via an accessor so
// consumers can type-switch on the accessor interfaces below.
type WaveformChunk struct{ ports.WaveformChunkEvent }

func (e WaveformChunk) SessionID() string                           { return e.WaveformChunkEvent.SessionID }
func (e WaveformChunk) Chunk() ports.WaveformChunkEvent              { return e.WaveformChunkEvent }

type ImportComplete struct{ ports.ImportCompleteEvent }

func (e ImportComplete) SessionID() string                          { return e.ImportCompleteEvent.SessionID }
func (e ImportComplete) Complete() ports.ImportCompleteEvent        { return e.ImportCompleteEvent }

type ImportError struct{ ports.ImportErrorEvent }

func (e ImportError) SessionID() string                    { return e.ImportErrorEvent.SessionID }
func (e ImportError) Failure() ports.ImportErrorEvent       { return e.ImportErrorEvent }

// WrapWaveformChunk / WrapImportComplete / WrapImportError adapt the
// ports package's plain event structs into the Event interface this bus
// publishes.
func WrapWaveformChunk(e ports.WaveformChunkEvent) Event   { return WaveformChunk{e} }
func WrapImportComplete(e ports.ImportCompleteEvent) Event { return ImportComplete{e} }
func WrapImportError(e ports.ImportErrorEvent) Event       { return ImportError{e} }

// Consumer receives events the bus distributes. ProcessEvent must not
// block for long; the bus recovers from and logs any panic.
type Consumer interface {
	Name() string
	ProcessEvent(e Event) error
}

// Config controls the bus's buffering and worker count.
type Config struct {
	BufferSize int
	Workers    int
}

// DefaultConfig returns sane defaults for a session-scoped event bus.
func DefaultConfig() Config {
	return Config{BufferSize: 256, Workers: 2}
}

// Stats are the bus's lifetime counters.
type Stats struct {
	Received  uint64
	Processed uint64
	Dropped   uint64
	Errors    uint64
}

// Bus is a buffered, worker-pool event distributor. Known sessions are
// tracked so events referencing an unknown or already-resolved session
// are dropped.
type Bus struct {
	ch      chan Event
	cfg     Config
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool

	mu        sync.Mutex
	consumers []Consumer
	sessions  map[string]bool

	stats Stats
	log   *slog.Logger
}

// New creates a bus and starts its workers.
func New(cfg Config) *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bus{
		ch:       make(chan Event, cfg.BufferSize),
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]bool),
		log:      logging.ForService("events"),
	}
	b.start()
	return b
}

// RegisterSession marks a session id as live, so its events are
// distributed rather than dropped.
func (b *Bus) RegisterSession(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[id] = true
}

// ForgetSession stops distributing events for a resolved/cancelled
// session.
func (b *Bus) ForgetSession(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, id)
}

// RegisterConsumer adds a consumer; duplicate names are rejected.
func (b *Bus) RegisterConsumer(c Consumer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.consumers {
		if existing.Name() == c.Name() {
			return fmt.Errorf("consumer %s already registered", c.Name())
		}
	}
	b.consumers = append(b.consumers, c)
	return nil
}

// TryPublish attempts a non-blocking publish. Returns false if the bus
// has been shut down, the session is unknown, or the buffer is full.
func (b *Bus) TryPublish(e Event) bool {
	if !b.running.Load() {
		return false
	}
	b.mu.Lock()
	known := b.sessions[e.SessionID()]
	b.mu.Unlock()
	if !known {
		return false
	}
	select {
	case b.ch <- e:
		atomic.AddUint64(&b.stats.Received, 1)
		return true
	default:
		atomic.AddUint64(&b.stats.Dropped, 1)
		b.log.Debug("event dropped, buffer full", "session_id", e.SessionID())
		return false
	}
}

func (b *Bus) start() {
	if b.running.Swap(true) {
		return
	}
	workers := b.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.worker(i)
	}
}

func (b *Bus) worker(id int) {
	defer b.wg.Done()
	logger := b.log.With("worker_id", id)
	for {
		select {
		case <-b.ctx.Done():
			for {
				select {
				case e, ok := <-b.ch:
					if !ok {
						return
					}
					b.dispatch(e, logger)
				default:
					return
				}
			}
		case e, ok := <-b.ch:
			if !ok {
				return
			}
			b.dispatch(e, logger)
		}
	}
}

func (b *Bus) dispatch(e Event, logger *slog.Logger) {
	b.mu.Lock()
	consumers := make([]Consumer, len(b.consumers))
	copy(consumers, b.consumers)
	b.mu.Unlock()

	for _, c := range consumers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					atomic.AddUint64(&b.stats.Errors, 1)
					logger.Error("consumer panicked", "consumer", c.Name(), "panic", r)
				}
			}()
			if err := c.ProcessEvent(e); err != nil {
				atomic.AddUint64(&b.stats.Errors, 1)
				logger.Error("consumer error", "consumer", c.Name(), "error", err)
				return
			}
			atomic.AddUint64(&b.stats.Processed, 1)
		}()
	}
}

// Shutdown stops accepting work and waits for in-flight events to drain,
// up to timeout.
func (b *Bus) Shutdown(timeout time.Duration) error {
	b.running.Store(false)
	b.cancel()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("event bus shutdown timeout exceeded")
	}
}

// GetStats returns a snapshot of the bus's lifetime counters.
func (b *Bus) GetStats() Stats {
	return Stats{
		Received:  atomic.LoadUint64(&b.stats.Received),
		Processed: atomic.LoadUint64(&b.stats.Processed),
		Dropped:   atomic.LoadUint64(&b.stats.Dropped),
		Errors:    atomic.LoadUint64(&b.stats.Errors),
	}
}
