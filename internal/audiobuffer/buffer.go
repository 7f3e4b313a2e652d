// Package audiobuffer implements the registry of immutable decoded PCM
// buffers. Buffers are reference-counted and shared between clips, the
// clipboard and history snapshots; the registry never mutates sample data
// once a buffer is created.
package audiobuffer

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tidesound/editor/internal/errs"
)

// ID identifies a buffer in the registry.
type ID string

// Buffer is an immutable, reference-counted block of decoded PCM audio.
// Channels are stored planar (one []float32 per channel) so mixing and
// waveform extraction never need to de-interleave.
type Buffer struct {
	id          ID
	sampleRate  int
	channels    [][]float32 // per-channel samples, all equal length
	refCount    int32
	mu          sync.RWMutex
}

// ID returns the buffer's registry id.
func (b *Buffer) ID() ID { return b.id }

// SampleRate returns the buffer's sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// ChannelCount returns the number of channels.
func (b *Buffer) ChannelCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.channels)
}

// Length returns the number of samples per channel.
func (b *Buffer) Length() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// Duration returns the buffer's duration in seconds.
func (b *Buffer) Duration() float64 {
	if b.sampleRate == 0 {
		return 0
	}
	return float64(b.Length()) / float64(b.sampleRate)
}

// Channel returns a read-only view of one channel's samples. Index is
// clamped to the available channel range by callers (the mixer maps output
// channel ch to input channel min(ch, channels-1)).
func (b *Buffer) Channel(i int) []float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.channels) {
		return nil
	}
	return b.channels[i]
}

// Acquire increments the shared reference count.
func (b *Buffer) Acquire() { atomic.AddInt32(&b.refCount, 1) }

// Release decrements the shared reference count. The registry does not
// forcibly free memory on release; Go's GC reclaims the buffer once the
// last reference (clip, clipboard entry, or history snapshot) drops it.
func (b *Buffer) Release() int32 { return atomic.AddInt32(&b.refCount, -1) }

// RefCount reports the current reference count, mostly for tests.
func (b *Buffer) RefCount() int32 { return atomic.LoadInt32(&b.refCount) }

// Registry is the handle table of immutable buffers.
type Registry struct {
	mu      sync.RWMutex
	buffers map[ID]*Buffer
}

// NewRegistry creates an empty buffer registry.
func NewRegistry() *Registry {
	return &Registry{buffers: make(map[ID]*Buffer)}
}

// CreateFromInterleaved builds a new buffer from interleaved float32
// samples, de-interleaving into per-channel slices.
func (r *Registry) CreateFromInterleaved(samples []float32, sampleRate, channelCount int) (*Buffer, error) {
	if channelCount <= 0 || sampleRate <= 0 {
		return nil, errs.Newf("invalid buffer parameters: channels=%d rate=%d", channelCount, sampleRate).
			Component("audiobuffer").
			Category(errs.CategoryInvalidRange).
			Build()
	}
	frames := len(samples) / channelCount
	channels := make([][]float32, channelCount)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channelCount; c++ {
			channels[c][i] = samples[i*channelCount+c]
		}
	}
	return r.register(channels, sampleRate), nil
}

// CreateFromChannels builds a new buffer from already-planar channel data.
// The slices are taken ownership of (not copied) since callers construct
// them freshly for this purpose (split/cut/extract all build fresh planar
// buffers this way).
func (r *Registry) CreateFromChannels(channels [][]float32, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 || len(channels) == 0 {
		return nil, errs.Newf("invalid buffer parameters: channels=%d rate=%d", len(channels), sampleRate).
			Component("audiobuffer").
			Category(errs.CategoryInvalidRange).
			Build()
	}
	return r.register(channels, sampleRate), nil
}

// CreateEmptySilent allocates a silent buffer of the given duration.
func (r *Registry) CreateEmptySilent(durationSeconds float64, sampleRate, channelCount int) *Buffer {
	frames := int(durationSeconds * float64(sampleRate))
	channels := make([][]float32, channelCount)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	return r.register(channels, sampleRate)
}

func (r *Registry) register(channels [][]float32, sampleRate int) *Buffer {
	b := &Buffer{
		id:         ID(uuid.NewString()),
		sampleRate: sampleRate,
		channels:   channels,
		refCount:   1,
	}
	r.mu.Lock()
	r.buffers[b.id] = b
	r.mu.Unlock()
	return b
}

// Get looks up a buffer by id.
func (r *Registry) Get(id ID) (*Buffer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.buffers[id]
	return b, ok
}

// Forget removes a buffer from the registry's handle table once its
// reference count has reached zero; it is a no-op otherwise. Call this
// from whatever owns the last reference (the store, on clip deletion).
func (r *Registry) Forget(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.buffers[id]; ok && b.RefCount() <= 0 {
		delete(r.buffers, id)
	}
}

// Count reports how many buffers are currently registered, for tests.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buffers)
}
