// Package ports declares the external collaborator interfaces this
// module depends on but does not implement: the codec service
// (decode/encode) and the render engine (playback/metering transport).
// The engine only ever depends on these interfaces; concrete
// implementations live outside this module.
package ports

import "context"

// AudioMetadata is what the codec service reports for a source file.
type AudioMetadata struct {
	Duration     float64
	SampleRate   int
	Channels     int
	BitDepth     int
	Format       string
}

// WaveformChunkEvent, ImportCompleteEvent and ImportErrorEvent are the
// codec service's import event stream. SessionID lets the
// listener discard events from a session it has already resolved or
// cancelled.
type WaveformChunkEvent struct {
	SessionID   string
	StartBucket int
	Waveform    []float32
	Progress    float64
}

type ImportCompleteEvent struct {
	SessionID      string
	Waveform       []float32
	ActualDuration float64
}

type ImportErrorEvent struct {
	SessionID string
	Err       error
}

// CodecService is the external decode/encode black box.
type CodecService interface {
	ProbeMetadata(ctx context.Context, path string) (AudioMetadata, error)
	StartWaveformDecode(ctx context.Context, path string, buckets int) (sessionID string, err error)
	LoadAudioComplete(ctx context.Context, path string, buckets int) (meta AudioMetadata, waveform []float32, channels [][]float32, err error)
	EncodeRegion(ctx context.Context, sourcePath, outPath string, start, end float64) error
	EncodeMP3(ctx context.Context, sourcePath, outPath string, start, end float64, bitrateKbps int) error
}

// RenderEngineTrackConfig is one track's configuration as sent to the
// render engine via SetTracks.
type RenderEngineTrackConfig struct {
	TrackID        string
	SourcePath     string
	TrackStart     float64
	Duration       float64
	Volume         float64
	Muted          bool
	VolumeEnvelope []EnvelopePoint
}

// EnvelopePoint mirrors timeline.VolumeAutomationPoint without importing
// the timeline package, keeping ports dependency-free of engine internals.
type EnvelopePoint struct {
	Time  float64
	Value float64
}

// MeterLevels is what the render engine reports per poll.
type MeterLevels struct {
	PerTrack map[string]LevelPair
	Master   LevelPair
}

// LevelPair is a stereo {peak, rms} sample.
type LevelPair struct {
	PeakL, PeakR float64
	RMSL, RMSR   float64
}

// RenderEngine is the external playback/metering transport. It
// owns its own clock; the playback controller configures and polls it.
type RenderEngine interface {
	SetTracks(ctx context.Context, tracks []RenderEngineTrackConfig) error
	SetLoop(ctx context.Context, enabled bool, start, end float64) error
	SetSpeed(ctx context.Context, speed float64) error
	SetVolume(ctx context.Context, volume float64) error
	SetTrackMuted(ctx context.Context, trackID string, muted bool) error
	SetTrackVolume(ctx context.Context, trackID string, volume float64) error
	SetTrackEnvelope(ctx context.Context, trackID string, envelope []EnvelopePoint) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	Seek(ctx context.Context, position float64) error
	GetPosition(ctx context.Context) (float64, error)
	GetMeterLevels(ctx context.Context) (MeterLevels, error)
}
