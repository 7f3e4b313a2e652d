// Package conf loads engine tunables into a single viper-backed Settings
// struct: an embedded default YAML document merged with environment
// variables and CLI flags.
package conf

import (
	"embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var defaultConfig embed.FS

// Settings holds every tunable the engine's components read at runtime.
type Settings struct {
	Waveform struct {
		OverviewBuckets int
		MaxHiResBuckets int
		HiResFactor     float64
		CacheTTL        time.Duration
	}
	Edit struct {
		SnapThresholdSeconds float64
		EdgeEpsilonSeconds   float64
	}
	Track struct {
		MaxVolumeGain float64
	}
	Mixer struct {
		NormalizeTarget float64
	}
	History struct {
		MaxEntries int
	}
	Transcription struct {
		FalloffFactor   float64
		FalloffRadius   int
		MinOffsetMs     float64
		OverlapGuardSec float64
	}
	Meter struct {
		DecayFactor     float64
		PeakHoldSeconds float64
	}
	Codec struct {
		MaxEncodeBytes int64
		MaxMixDuration time.Duration
	}
}

// Default returns the built-in defaults, used when no config file or env
// overrides are present; it never touches disk outside the embedded file.
func Default() *Settings {
	s := &Settings{}
	s.Waveform.OverviewBuckets = 1000
	s.Waveform.MaxHiResBuckets = 8000
	s.Waveform.HiResFactor = 2.0
	s.Waveform.CacheTTL = 5 * time.Minute
	s.Edit.SnapThresholdSeconds = 0.1
	s.Edit.EdgeEpsilonSeconds = 0.001
	s.Track.MaxVolumeGain = 4.0
	s.Mixer.NormalizeTarget = 0.95
	s.History.MaxEntries = 50
	s.Transcription.FalloffFactor = 0.55
	s.Transcription.FalloffRadius = 5
	s.Transcription.MinOffsetMs = 0.5
	s.Transcription.OverlapGuardSec = 0.01
	s.Meter.DecayFactor = 0.92
	s.Meter.PeakHoldSeconds = 2.0
	s.Codec.MaxEncodeBytes = 1 << 30
	s.Codec.MaxMixDuration = 2 * time.Hour
	return s
}

// Load merges the embedded defaults with an optional config file on disk
// and environment variables prefixed EDITOR_.
func Load(configPath string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EDITOR")
	v.AutomaticEnv()

	defaultsFile, err := defaultConfig.Open("config.yaml")
	if err != nil {
		return nil, err
	}
	defer defaultsFile.Close()
	if err := v.ReadConfig(defaultsFile); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	settings := Default()
	if err := v.Unmarshal(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
