package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    APILatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "wavescan",
            Subsystem: "api",
            Name:      "latency_seconds",
            Help:      "Latency of analysis endpoints",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"endpoint"},
    )

    APIErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "wavescan",
            Subsystem: "api",
            Name:      "errors_total",
            Help:      "Errors by analysis endpoint",
        },
        []string{"endpoint"},
    )

    CacheHits = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "wavescan",
            Subsystem: "api",
            Name:      "cache_hits_total",
            Help:      "Cache hits and misses by endpoint",
        },
        []string{"endpoint", "outcome"},
    )
)

func Register() {
    once.Do(func() {
        prometheus.MustRegister(APILatency, APIErrors, CacheHits)
    })
}
