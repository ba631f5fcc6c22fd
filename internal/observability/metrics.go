package observability

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "iris2odim"

// Resource labels for ResourcesLive.
const (
	ResourceRecords   = "records"
	ResourceObject    = "object"
	ResourceContainer = "container"
)

// Metrics holds the Prometheus counters, histograms, and gauges for conversions.
type Metrics struct {
	Conversions        *prometheus.CounterVec // labels: kind={PVOL,SCAN,UNDEFINED}, outcome={success,<error kind>}
	ConversionDuration prometheus.Histogram
	SweepsDecoded      prometheus.Counter

	// ResourcesLive counts resources acquired and not yet released.
	ResourcesLive *prometheus.GaugeVec // labels: resource={records,object,container}

	Notifications *prometheus.CounterVec // labels: outcome={success,error}

	registry *prometheus.Registry
}

func newMetrics() *Metrics {
	return &Metrics{
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions by resolved object kind and outcome.",
		}, []string{"kind", "outcome"}),
		ConversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Wall time of a conversion from probe to delivery.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SweepsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_decoded_total",
			Help:      "Sweeps decoded from IRIS input files.",
		}),
		ResourcesLive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources_live",
			Help:      "Resources acquired by the pipeline and not yet released.",
		}, []string{"resource"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Conversion notifications by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetricsWith creates all conversion metrics and registers them with reg.
// Collectors already registered with reg by an earlier call are reused, so
// several Metrics built on one registry share their series.
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	m := newMetrics()
	m.registry = reg
	m.Conversions = register(reg, m.Conversions)
	m.ConversionDuration = register(reg, m.ConversionDuration)
	m.SweepsDecoded = register(reg, m.SweepsDecoded)
	m.ResourcesLive = register(reg, m.ResourcesLive)
	m.Notifications = register(reg, m.Notifications)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetricsWith(prometheus.NewRegistry())
}

// WriteTextfile writes every metric in the registry to path for the node
// exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
