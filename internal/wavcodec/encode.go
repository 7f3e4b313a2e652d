// Package wavcodec implements little-endian RIFF/WAVE PCM16 and
// IEEE-float32 encoders for marshalling mixer output to the external
// codec service: a 44-byte header, fmt chunk size 16, format tag 1 (PCM)
// or 3 (float).
package wavcodec

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/tidesound/editor/internal/errs"
)

const headerSize = 44

// Format selects the sample encoding to write.
type Format int

const (
	FormatPCM16 Format = iota
	FormatFloat32
)

// Limits bounds encode size and source duration, rejecting anything over
// with a BufferTooLarge error.
type Limits struct {
	MaxBytes       int64
	MaxMixDuration time.Duration
}

// Encode writes planar float32 samples in [-1, 1] to w as a WAV file in
// the requested format, interleaving channels. Returns a BufferTooLarge
// error if the resulting file would exceed limits.MaxBytes or the mix
// exceeds MaxMixDuration.
func Encode(w io.Writer, channels [][]float32, sampleRate int, format Format, limits Limits) error {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return errs.New(nil).Component("wavcodec").Category(errs.CategoryNoAudio).Build()
	}
	numChannels := len(channels)
	numFrames := len(channels[0])

	duration := time.Duration(float64(numFrames) / float64(sampleRate) * float64(time.Second))
	if limits.MaxMixDuration > 0 && duration > limits.MaxMixDuration {
		return errs.Newf("mix duration %s exceeds limit %s", duration, limits.MaxMixDuration).
			Component("wavcodec").Category(errs.CategoryBufferTooLarge).Build()
	}

	bytesPerSample := 2
	audioFormat := uint16(1) // PCM
	if format == FormatFloat32 {
		bytesPerSample = 4
		audioFormat = 3 // IEEE float
	}
	dataSize := int64(numFrames) * int64(numChannels) * int64(bytesPerSample)
	totalSize := int64(headerSize) + dataSize
	if limits.MaxBytes > 0 && totalSize > limits.MaxBytes {
		return errs.Newf("encoded size %d exceeds limit %d", totalSize, limits.MaxBytes).
			Component("wavcodec").Category(errs.CategoryBufferTooLarge).Build()
	}

	bitDepth := uint16(16)
	if format == FormatFloat32 {
		bitDepth = 32
	}
	blockAlign := uint16(numChannels * bytesPerSample)
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], audioFormat)
	binary.LittleEndian.PutUint16(header[22:24], uint16(numChannels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitDepth)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return errs.New(err).Component("wavcodec").Category(errs.CategoryCodec).Build()
	}

	frame := make([]byte, blockAlign)
	for i := 0; i < numFrames; i++ {
		for c := 0; c < numChannels; c++ {
			sample := clamp(channels[c][i])
			off := c * bytesPerSample
			if format == FormatPCM16 {
				binary.LittleEndian.PutUint16(frame[off:off+2], uint16(to16(sample)))
			} else {
				binary.LittleEndian.PutUint32(frame[off:off+4], math.Float32bits(sample))
			}
		}
		if _, err := w.Write(frame); err != nil {
			return errs.New(err).Component("wavcodec").Category(errs.CategoryCodec).Build()
		}
	}
	return nil
}

// clamp restricts a sample to [-1, 1], the range the PCM16 conversion
// below assumes.
func clamp(s float32) float32 {
	if s < -1 {
		return -1
	}
	if s > 1 {
		return 1
	}
	return s
}

// to16 converts a clamped float32 sample to a signed 16-bit integer using
// an asymmetric scale: negative samples scale by 0x8000, positive by
// 0x7FFF.
func to16(s float32) int16 {
	s = clamp(s)
	if s < 0 {
		return int16(s * 0x8000)
	}
	return int16(s * 0x7FFF)
}
