// Package waveform produces and caches min/max peak arrays for buffers, in
// two tiers: a fixed-size overview computed once at import, and hi-res
// bucket counts computed on demand and cached briefly.
package waveform

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/tidesound/editor/internal/audiobuffer"
)

// Overview is the fixed-bucket-count peaks computed once at import time.
// It has no expiry: the cache keeps it until ReleaseOverview is called for
// the buffer, and releasing the buffer does not call it.
type Overview struct {
	Buckets int
	Peaks   []float32 // length 2*Buckets, alternating min, max
}

// Cache holds the overview tier (permanent, keyed by buffer id) and the
// hi-res tier (TTL-evicted, keyed by buffer id + bucket count).
type Cache struct {
	overviews map[audiobuffer.ID]*Overview
	hiRes     *gocache.Cache
	group     singleflight.Group
}

// NewCache creates a waveform cache. ttl controls hi-res tier eviction.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		overviews: make(map[audiobuffer.ID]*Overview),
		hiRes:     gocache.New(ttl, ttl*2),
	}
}

// ExtractPeaks computes a flat sequence of length 2*nBuckets alternating
// min, max for the given buffer, mixing down across channels by taking the
// extreme across all channels within each bucket.
func ExtractPeaks(buf *audiobuffer.Buffer, nBuckets int) []float32 {
	length := buf.Length()
	out := make([]float32, 2*nBuckets)
	if nBuckets <= 0 || length == 0 {
		return out
	}
	channels := buf.ChannelCount()
	bucketSize := float64(length) / float64(nBuckets)
	for i := 0; i < nBuckets; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end <= start {
			end = start + 1
		}
		if end > length {
			end = length
		}
		min, max := float32(0), float32(0)
		first := true
		for c := 0; c < channels; c++ {
			ch := buf.Channel(c)
			for s := start; s < end && s < len(ch); s++ {
				v := ch[s]
				if first {
					min, max = v, v
					first = false
					continue
				}
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
		}
		out[2*i] = min
		out[2*i+1] = max
	}
	return out
}

// BuildOverview computes and stores the overview tier for a buffer.
func (c *Cache) BuildOverview(buf *audiobuffer.Buffer, buckets int) *Overview {
	ov := &Overview{Buckets: buckets, Peaks: ExtractPeaks(buf, buckets)}
	c.overviews[buf.ID()] = ov
	return ov
}

// SetOverview stores a pre-computed overview for a buffer, used when
// peaks arrive already extracted from the streaming codec import path
// rather than computed locally via BuildOverview.
func (c *Cache) SetOverview(id audiobuffer.ID, ov *Overview) {
	c.overviews[id] = ov
}

// Overview returns the cached overview for a buffer, if any.
func (c *Cache) Overview(id audiobuffer.ID) (*Overview, bool) {
	ov, ok := c.overviews[id]
	return ov, ok
}

// ReleaseOverview drops a buffer's overview entry.
func (c *Cache) ReleaseOverview(id audiobuffer.ID) {
	delete(c.overviews, id)
}

// HiRes returns (computing and caching if necessary) the hi-res peaks for
// a buffer at the requested bucket count, capped at maxBuckets. Concurrent
// requests for the same (buffer, buckets) key collapse onto a single
// computation via singleflight.
func (c *Cache) HiRes(buf *audiobuffer.Buffer, requestedBuckets, maxBuckets int) []float32 {
	buckets := requestedBuckets
	if buckets > maxBuckets {
		buckets = maxBuckets
	}
	key := fmt.Sprintf("%s:%d", buf.ID(), buckets)
	if v, found := c.hiRes.Get(key); found {
		return v.([]float32)
	}
	v, _, _ := c.group.Do(key, func() (any, error) {
		if cached, found := c.hiRes.Get(key); found {
			return cached, nil
		}
		peaks := ExtractPeaks(buf, buckets)
		c.hiRes.SetDefault(key, peaks)
		return peaks, nil
	})
	return v.([]float32)
}

// ShouldUseHiRes reports whether hi-res peaks are worth requesting: once
// the pixel-driven bar count exceeds the overview bucket count by
// hiResFactor, the overview is too coarse to render faithfully.
func ShouldUseHiRes(requiredBars int, overviewBuckets int, hiResFactor float64) bool {
	return float64(requiredBars) > float64(overviewBuckets)*hiResFactor
}
