// Package metrics exposes prometheus/client_golang instrumentation for
// the engine: meter levels, mixer render duration, and history activity,
// behind a lazily-initialized singleton collector.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tidesound/editor/internal/logging"
)

// Collector holds every prometheus metric the engine records. A nil
// *Collector, or the disabled one GetCollector returns before
// InitCollector, is a no-op.
type Collector struct {
	TrackPeakLevel   *prometheus.GaugeVec
	TrackRMSLevel    *prometheus.GaugeVec
	MasterPeakLevel  prometheus.Gauge
	MasterRMSLevel   prometheus.Gauge

	RenderDuration prometheus.Histogram
	RenderErrors   prometheus.Counter

	HistoryPushes  prometheus.Counter
	HistoryUndos   prometheus.Counter
	HistoryRedos   prometheus.Counter
	UndoStackDepth prometheus.Gauge
	RedoStackDepth prometheus.Gauge

	enabled bool
}

var (
	global     atomic.Pointer[Collector]
	globalOnce sync.Once
)

// InitCollector registers the engine's metrics with reg and stores it as
// the global collector. Safe to call once; later calls are no-ops.
func InitCollector(reg prometheus.Registerer) *Collector {
	var c *Collector
	globalOnce.Do(func() {
		c = newCollector()
		if reg != nil {
			reg.MustRegister(
				c.TrackPeakLevel, c.TrackRMSLevel, c.MasterPeakLevel, c.MasterRMSLevel,
				c.RenderDuration, c.RenderErrors,
				c.HistoryPushes, c.HistoryUndos, c.HistoryRedos,
				c.UndoStackDepth, c.RedoStackDepth,
			)
		}
		c.enabled = true
		global.Store(c)
		logging.ForService("metrics").Info("metrics collector initialized")
	})
	if c == nil {
		return GetCollector()
	}
	return c
}

// GetCollector returns the global collector, or a disabled no-op one if
// InitCollector was never called.
func GetCollector() *Collector {
	if c := global.Load(); c != nil {
		return c
	}
	return &Collector{}
}

func newCollector() *Collector {
	return &Collector{
		TrackPeakLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "editor", Subsystem: "meter", Name: "track_peak_level",
			Help: "Smoothed peak display level per track per channel.",
		}, []string{"track_id", "channel"}),
		TrackRMSLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "editor", Subsystem: "meter", Name: "track_rms_level",
			Help: "RMS level per track per channel.",
		}, []string{"track_id", "channel"}),
		MasterPeakLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "editor", Subsystem: "meter", Name: "master_peak_level",
			Help: "Smoothed master bus peak level.",
		}),
		MasterRMSLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "editor", Subsystem: "meter", Name: "master_rms_level",
			Help: "Master bus RMS level.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "editor", Subsystem: "mixer", Name: "render_duration_seconds",
			Help:    "Wall time to render a mixdown.",
			Buckets: prometheus.DefBuckets,
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "editor", Subsystem: "mixer", Name: "render_errors_total",
			Help: "Mixdown renders that returned an error.",
		}),
		HistoryPushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "editor", Subsystem: "history", Name: "pushes_total",
			Help: "Snapshots pushed onto the undo stack.",
		}),
		HistoryUndos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "editor", Subsystem: "history", Name: "undos_total",
			Help: "Undo operations performed.",
		}),
		HistoryRedos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "editor", Subsystem: "history", Name: "redos_total",
			Help: "Redo operations performed.",
		}),
		UndoStackDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "editor", Subsystem: "history", Name: "undo_stack_depth",
			Help: "Current undo stack depth.",
		}),
		RedoStackDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "editor", Subsystem: "history", Name: "redo_stack_depth",
			Help: "Current redo stack depth.",
		}),
	}
}

// RecordTrackLevels updates a track's gauges; a no-op on a disabled
// collector.
func (c *Collector) RecordTrackLevels(trackID, channel string, peak, rms float64) {
	if c == nil || !c.enabled {
		return
	}
	c.TrackPeakLevel.WithLabelValues(trackID, channel).Set(peak)
	c.TrackRMSLevel.WithLabelValues(trackID, channel).Set(rms)
}

// RecordMasterLevels updates the master bus gauges.
func (c *Collector) RecordMasterLevels(peak, rms float64) {
	if c == nil || !c.enabled {
		return
	}
	c.MasterPeakLevel.Set(peak)
	c.MasterRMSLevel.Set(rms)
}

// RecordRender records a mixdown render's duration and outcome.
func (c *Collector) RecordRender(d time.Duration, err error) {
	if c == nil || !c.enabled {
		return
	}
	c.RenderDuration.Observe(d.Seconds())
	if err != nil {
		c.RenderErrors.Inc()
	}
}

// RecordHistoryPush/Undo/Redo track undo-stack activity and depth.
func (c *Collector) RecordHistoryPush(undoDepth int) {
	if c == nil || !c.enabled {
		return
	}
	c.HistoryPushes.Inc()
	c.UndoStackDepth.Set(float64(undoDepth))
	c.RedoStackDepth.Set(0)
}

func (c *Collector) RecordHistoryUndo(undoDepth, redoDepth int) {
	if c == nil || !c.enabled {
		return
	}
	c.HistoryUndos.Inc()
	c.UndoStackDepth.Set(float64(undoDepth))
	c.RedoStackDepth.Set(float64(redoDepth))
}

func (c *Collector) RecordHistoryRedo(undoDepth, redoDepth int) {
	if c == nil || !c.enabled {
		return
	}
	c.HistoryRedos.Inc()
	c.UndoStackDepth.Set(float64(undoDepth))
	c.RedoStackDepth.Set(float64(redoDepth))
}
