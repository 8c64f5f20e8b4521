package utils

import (
	"strconv"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	txCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "custody",
		Name:      "tx_total",
		Help:      "Number of processed transactions by phase, message path and result code.",
	}, []string{"phase", "path", "code"})

	txDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "custody",
		Name:      "tx_duration_seconds",
		Help:      "Transaction processing time by phase and message path.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"phase", "path"})
)

// Metrics is a decorator that exposes prometheus counters and timings of
// every processed transaction. Collectors are registered in the default
// prometheus registry.
type Metrics struct{}

var _ custody.Decorator = Metrics{}

// NewMetrics returns a Metrics decorator.
func NewMetrics() Metrics {
	return Metrics{}
}

func (Metrics) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	done := observe("check", tx)
	res, err := next.Check(ctx, db, tx)
	done(err)
	return res, err
}

func (Metrics) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	done := observe("deliver", tx)
	res, err := next.Deliver(ctx, db, tx)
	done(err)
	return res, err
}

func observe(phase string, tx custody.Tx) func(error) {
	path := custody.GetPath(tx)
	timer := prometheus.NewTimer(txDuration.WithLabelValues(phase, path))
	return func(err error) {
		timer.ObserveDuration()
		code, _ := errors.ABCIInfo(err, false)
		txCounter.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	}
}
