// Package metrics exposes a prometheus registry for the demo service, the
// same registry-plus-promhttp-handler pattern the teacher's own server
// uses for its own /metrics endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the counters the demo exposes for a running Service:
// how many tasks were submitted and how they resolved. It also registers
// a queue-depth gauge and a close-duration histogram; the demo does not
// set either of them.
type Metrics struct {
	reg *prometheus.Registry

	Submitted    prometheus.Counter
	Succeeded    prometheus.Counter
	Failed       prometheus.Counter
	Terminated   prometheus.Counter
	QueueDepth   prometheus.Gauge
	CloseSeconds prometheus.Histogram
}

// New creates a Metrics instance and registers it, along with the
// standard Go and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		Submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks submitted to the service's queue.",
		}),
		Succeeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_succeeded_total",
			Help:      "Total number of tasks whose computation completed without error.",
		}),
		Failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks whose computation returned an error.",
		}),
		Terminated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_terminated_total",
			Help:      "Total number of tasks discarded unrun because the queue closed.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of tasks currently queued.",
		}),
		CloseSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_close_seconds",
			Help:      "Time spent waiting for workers to exit during Service.Close.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.Submitted, m.Succeeded, m.Failed, m.Terminated, m.QueueDepth, m.CloseSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

const namespace = "asyncservice"

// ServeHTTP starts an HTTP server exposing /metrics on addr. It blocks
// until the server stops or fails; callers typically run it in its own
// goroutine, the same way the teacher's server runs its own ServeHTTP.
func (m *Metrics) ServeHTTP(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}
	return srv.ListenAndServe()
}
