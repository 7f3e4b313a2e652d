package audiobuffer

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tidesound/editor/internal/errs"
)

// LoadWAV decodes a WAV stream with go-audio/wav and registers the result
// as a new immutable buffer. Used by test fixtures and by the "large file"
// import fallback path when the browser/host
// cannot stream-decode a format and falls back to a full local decode.
func (r *Registry) LoadWAV(rs io.ReadSeeker) (*Buffer, error) {
	decoder := wav.NewDecoder(rs)
	if !decoder.IsValidFile() {
		return nil, errs.New(nil).Component("audiobuffer").Category(errs.CategoryCodec).
			Context("reason", "invalid wav file").Build()
	}

	buf := &audio.IntBuffer{}
	pcmBuf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, errs.New(err).Component("audiobuffer").Category(errs.CategoryCodec).Build()
	}
	buf = pcmBuf

	numChannels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	bitDepth := int(decoder.BitDepth)
	frames := len(buf.Data) / numChannels

	channels := make([][]float32, numChannels)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	maxVal := float64(int(1) << (bitDepth - 1))
	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			channels[c][i] = float32(float64(buf.Data[i*numChannels+c]) / maxVal)
		}
	}

	return r.CreateFromChannels(channels, sampleRate)
}
