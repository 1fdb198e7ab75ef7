// Package metrics records reconstruction runs as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fragsort/internal/model"
)

const namespace = "fragsort"

// Recorder owns a private registry so tests and multiple servers in one
// process never collide on the default one.
type Recorder struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	chainLength    prometheus.Gauge
	excluded       prometheus.Gauge
	searchStates   prometheus.Counter
	searchTruncate prometheus.Counter
}

// New creates a Recorder with Go runtime and process collectors attached.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Reconstruction runs, by chain validity.",
		}, []string{"valid"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12),
		}, []string{"stage"}),
		chainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "Fragments in the most recent chain.",
		}),
		excluded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "excluded_fragments",
			Help:      "Fragments left out of the most recent chain.",
		}),
		searchStates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_states_total",
			Help:      "Search states dequeued by the path search.",
		}),
		searchTruncate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_truncated_total",
			Help:      "Path searches stopped by a limit or deadline.",
		}),
	}
	r.registry.MustRegister(
		r.runs, r.stageDuration, r.chainLength, r.excluded, r.searchStates, r.searchTruncate,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one finished assembly. A nil Recorder does nothing.
func (r *Recorder) Observe(a model.Assembly) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(strconv.FormatBool(a.Validation.Valid)).Inc()
	for _, st := range a.Timings {
		r.stageDuration.WithLabelValues(st.Stage).Observe(st.Duration.Seconds())
	}
	r.chainLength.Set(float64(a.Chain.Len()))
	r.excluded.Set(float64(len(a.Excluded)))
	r.searchStates.Add(float64(a.Search.StatesExplored))
	if a.Search.Truncated {
		r.searchTruncate.Inc()
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
