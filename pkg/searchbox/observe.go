package searchbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nivosearch",
			Subsystem: "searchbox",
			Name:      "requests_total",
			Help:      "Search requests issued by the client, by status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nivosearch",
			Subsystem: "searchbox",
			Name:      "request_duration_seconds",
			Help:      "Search request round trip in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("searchbox: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("searchbox: register metric: %w", err)
	}
	return nil
}

type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *clientMetrics
	if reg != nil {
		var err error
		m, err = newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "aborted"
	case errors.Is(err, ErrQueryTooShort):
		return "too_short"
	case errors.Is(err, ErrSearchDisabled):
		return "disabled"
	default:
		return "error"
	}
}

func (o *observer) observe(query string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	st := status(err)

	if o.metrics != nil {
		o.metrics.requests.WithLabelValues(st).Inc()
		if st != "aborted" {
			o.metrics.duration.Observe(dur.Seconds())
		}
	}

	if o.logger == nil {
		return
	}
	switch st {
	case "ok", "aborted", "too_short":
		o.logger.Debug("search completed",
			"query", query,
			"status", st,
			"duration", dur,
		)
	default:
		o.logger.Warn("search failed",
			"query", query,
			"duration", dur,
			"error", err,
		)
	}
}
