package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"inferd/internal/codec"
)

var (
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "inferd",
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "End-to-end decode/predict/encode duration per call",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	dispatchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "dispatch",
			Name:      "errors_total",
			Help:      "Dispatch failures by error kind",
		},
		[]string{"model", "kind"},
	)
)

func init() {
	prometheus.MustRegister(dispatchDuration, dispatchErrors)
}

func observeDispatch(model string, dur time.Duration, err error) {
	dispatchDuration.WithLabelValues(model).Observe(dur.Seconds())
	if err != nil {
		dispatchErrors.WithLabelValues(model, codec.ErrorKind(err)).Inc()
	}
}
