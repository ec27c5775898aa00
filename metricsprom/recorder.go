// Package metricsprom implements permem.Recorder with Prometheus metrics,
// following the promauto registration pattern used elsewhere in this stack
// for library-owned instrumentation.
package metricsprom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is a permem.Recorder backed by Prometheus collectors. One
// Recorder is meant to be shared across every Region a process attaches --
// the region ID is not a label, since a process typically has few regions
// and high-cardinality labels on a histogram are its own footgun.
type Recorder struct {
	allocSize *prometheus.HistogramVec
	full      prometheus.Counter
	corrupt   prometheus.Counter
}

// New registers and returns a Recorder. name is used as a metric name
// prefix so multiple Recorders (e.g. one per allocator subsystem) can
// coexist in the same registry without collisions.
func New(name string) *Recorder {
	return &Recorder{
		allocSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_alloc_size_bytes",
				Help:    "Distribution of permem allocation request sizes in bytes.",
				Buckets: prometheus.ExponentialBuckets(16, 2, 16),
			},
			[]string{"outcome"},
		),
		full: promauto.NewCounter(prometheus.CounterOpts{
			Name: name + "_full_total",
			Help: "Number of times a permem region transitioned to full.",
		}),
		corrupt: promauto.NewCounter(prometheus.CounterOpts{
			Name: name + "_corrupt_total",
			Help: "Number of times a permem region was marked corrupt.",
		}),
	}
}

// ObserveAlloc implements permem.Recorder.
func (r *Recorder) ObserveAlloc(size uint32) {
	if size == 0 {
		r.allocSize.WithLabelValues("rejected").Observe(0)
		return
	}
	r.allocSize.WithLabelValues("ok").Observe(float64(size))
}

// SetFull implements permem.Recorder.
func (r *Recorder) SetFull() {
	r.full.Inc()
}

// SetCorrupt implements permem.Recorder.
func (r *Recorder) SetCorrupt() {
	r.corrupt.Inc()
}
