package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/msgchain/core/chain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by every instrumented chain.
type Metrics struct {
	messages *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// Option configures New.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace overrides the metric namespace (default "msgchain").
func WithNamespace(ns string) Option {
	return func(o *options) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

// WithBuckets overrides the duration histogram buckets, in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer, opts ...Option) (*Metrics, error) {
	o := options{
		namespace: "msgchain",
		buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "messages_total",
				Help:      "Total number of messages handled, by outcome.",
			},
			[]string{"chain", "outcome"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: o.namespace,
				Name:      "in_flight",
				Help:      "Number of messages currently being handled.",
			},
			[]string{"chain"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: o.namespace,
				Name:      "handle_duration_seconds",
				Help:      "Time spent handling a message.",
				Buckets:   o.buckets,
			},
			[]string{"chain", "outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.messages, m.inFlight, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register chain metrics: %w", err)
		}
	}

	return m, nil
}

// Instrument records every message passing through the decorator under name.
func Instrument[T any](m *Metrics, name string) chain.Factory[T] {
	return chain.Decorate(func(next chain.Func[T]) chain.Func[T] {
		inFlight := m.inFlight.WithLabelValues(name)

		return func(ctx context.Context, msg T) error {
			inFlight.Inc()
			start := time.Now()

			err := next(ctx, msg)

			inFlight.Dec()
			outcome := chain.ClassifyOutcome(ctx, err).String()
			m.messages.WithLabelValues(name, outcome).Inc()
			m.duration.WithLabelValues(name, outcome).Observe(time.Since(start).Seconds())

			return err
		}
	})
}
