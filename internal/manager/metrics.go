package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	pipelineLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflectd",
			Subsystem: "pipeline",
			Name:      "loads_total",
			Help:      "Pipeline constructions by model and result",
		},
		[]string{"model", "result"},
	)

	pipelineLoadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reflectd",
			Subsystem: "pipeline",
			Name:      "load_duration_seconds",
			Help:      "Duration of pipeline construction in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	pipelineCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflectd",
			Subsystem: "pipeline",
			Name:      "cache_hits_total",
			Help:      "Pipeline cache hits",
		},
		[]string{"model"},
	)

	remoteCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflectd",
			Subsystem: "remote",
			Name:      "calls_total",
			Help:      "Remote chat calls by provider and result",
		},
		[]string{"provider", "result"},
	)
)

func init() {
	prometheus.MustRegister(pipelineLoadsTotal, pipelineLoadSeconds, pipelineCacheHits, remoteCallsTotal)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
