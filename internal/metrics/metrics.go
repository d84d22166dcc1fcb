// Package metrics exposes the server's Prometheus instrumentation
// (transcode activity, cache effectiveness, bytes streamed).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TranscodesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rustymedia",
		Name:      "transcodes_started_total",
		Help:      "ffmpeg invocations started by the transcode engine.",
	})

	TranscodesActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rustymedia",
		Name:      "transcodes_active",
		Help:      "Transcodes currently running (process not yet exited).",
	})

	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rustymedia",
		Name:      "transcode_cache_hits_total",
		Help:      "Stream requests satisfied by an existing transcode.",
	})

	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rustymedia",
		Name:      "transcode_cache_misses_total",
		Help:      "Requests that required starting a new transcode.",
	})

	BytesStreamed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rustymedia",
		Name:      "bytes_streamed_total",
		Help:      "Bytes written to HTTP response bodies for /video/ requests.",
	})

	SOAPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rustymedia",
		Name:      "soap_requests_total",
		Help:      "SOAP actions dispatched, by service and action name.",
	}, []string{"service", "action"})
)

func init() {
	prometheus.MustRegister(
		TranscodesStarted,
		TranscodesActive,
		CacheHits,
		CacheMisses,
		BytesStreamed,
		SOAPRequests,
	)
}
