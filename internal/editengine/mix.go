package editengine

import (
	"github.com/tidesound/editor/internal/audiobuffer"
)

// contribution is a planar chunk of samples to be summed into an output
// buffer at a given sample offset, used by cut/extract to combine
// multiple clips' overlapping material into one buffer.
type contribution struct {
	channels     [][]float32 // per-channel samples
	offsetSample int
}

// mixContributions sums planar contributions into a single buffer of the
// requested length at the requested channel count, registering the result
// in the registry. Channel i of a contribution with fewer channels than
// the target maps via min(ch, contribChannels-1), matching the mixer's
// channel-expansion rule.
func mixContributions(registry *audiobuffer.Registry, contributions []contribution, totalSamples, channels, sampleRate int) (*audiobuffer.Buffer, error) {
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, totalSamples)
	}
	for _, contrib := range contributions {
		if len(contrib.channels) == 0 {
			continue
		}
		srcChannels := len(contrib.channels)
		length := len(contrib.channels[0])
		for ch := 0; ch < channels; ch++ {
			srcCh := ch
			if srcCh >= srcChannels {
				srcCh = srcChannels - 1
			}
			src := contrib.channels[srcCh]
			for i := 0; i < length; i++ {
				out[ch][contrib.offsetSample+i] += src[i]
			}
		}
	}
	return registry.CreateFromChannels(out, sampleRate)
}

// sliceChannels returns a fresh, independent copy of buf's channels in the
// sample range [start, end), so carved-out pieces never alias the source
// buffer's backing arrays; clips never mutate their samples in place.
func sliceChannels(buf *audiobuffer.Buffer, start, end int) [][]float32 {
	if start < 0 {
		start = 0
	}
	if end > buf.Length() {
		end = buf.Length()
	}
	if end < start {
		end = start
	}
	out := make([][]float32, buf.ChannelCount())
	for c := range out {
		src := buf.Channel(c)
		seg := make([]float32, end-start)
		copy(seg, src[start:end])
		out[c] = seg
	}
	return out
}
