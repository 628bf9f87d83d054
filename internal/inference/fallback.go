package inference

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

var fallbacksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "reflectd",
		Subsystem: "inference",
		Name:      "fallbacks_total",
		Help:      "Operations that returned their fallback instead of a model answer",
	},
	[]string{"op"},
)

func init() {
	prometheus.MustRegister(fallbacksTotal)
}

// withFallback runs fn and returns fallback if it fails.
func withFallback[T any](ctx context.Context, f *Facade, op string, fallback T, fn func(context.Context) (T, error)) T {
	return withFallbackFunc(ctx, f, op, func(context.Context) T { return fallback }, fn)
}

// withFallbackFunc runs fn and, if it fails, logs the error and returns
// the result of fallback.
func withFallbackFunc[T any](ctx context.Context, f *Facade, op string, fallback func(context.Context) T, fn func(context.Context) (T, error)) T {
	v, err := fn(ctx)
	if err == nil {
		return v
	}
	fallbacksTotal.WithLabelValues(op).Inc()
	f.log.Warn().Str("event", "fallback").Str("op", op).Err(err).Msg("using fallback")
	return fallback(ctx)
}
