package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	runStarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coverage_http",
			Subsystem: "run",
			Name:      "starts_total",
			Help:      "Number of coverage runs started.",
		},
	)
	runFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coverage_http",
			Subsystem: "run",
			Name:      "failures_total",
			Help:      "Number of coverage runs that stopped at a failing step.",
		},
	)
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coverage_http",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of coverage runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{runStarts, runFailures, runDuration}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// RegisterDefault registers against the default prometheus registry.
func RegisterDefault() error { return Register(prometheus.DefaultRegisterer) }

// Handler returns an http.Handler serving metrics for the default gatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Serve starts a standalone metrics server on addr.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

// Helpers below no-op if Register hasn't been called.

func IncRunStart() {
	if regOK.Load() {
		runStarts.Inc()
	}
}

func IncRunFailure() {
	if regOK.Load() {
		runFailures.Inc()
	}
}

func ObserveRunDuration(d time.Duration, success bool) {
	if !regOK.Load() {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	runDuration.WithLabelValues(result).Observe(d.Seconds())
}
