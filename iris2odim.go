// Package iris2odim converts Vaisala IRIS RAW radar files to ODIM_H5.
//
// IsIRIS sniffs a file, ReadIRIS decodes one into a polar volume or scan and
// Convert writes the ODIM_H5 file directly:
//
//	if iris2odim.IsIRIS(in) {
//		err := iris2odim.Convert(ctx, in, out)
//	}
//
// Failures match one of the Err values with errors.Is.
package iris2odim

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/iris2odim/internal/adapter/hdf5"
	"github.com/couchcryptid/iris2odim/internal/convert"
	"github.com/couchcryptid/iris2odim/internal/iris"
	"github.com/couchcryptid/iris2odim/internal/observability"
	"github.com/couchcryptid/iris2odim/internal/pipeline"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

var (
	ErrInvalidInvocation = pipeline.ErrInvalidInvocation
	ErrUnreadable        = pipeline.ErrUnreadable
	ErrNotIRIS           = pipeline.ErrNotIRIS
	ErrDecode            = pipeline.ErrDecode
	ErrUnsupportedShape  = pipeline.ErrUnsupportedShape
	ErrPopulate          = pipeline.ErrPopulate
	ErrPersist           = pipeline.ErrPersist
)

// DefaultCompression is the deflate level used for ODIM datasets.
const DefaultCompression = 6

// Notifier receives an event for every file Convert writes.
type Notifier = pipeline.Notifier

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the structured logger. The default discards logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithCompression sets the deflate level, 0 to 9, for written datasets.
func WithCompression(level int) Option {
	return func(c *Converter) { c.compression = level }
}

// WithNotifier publishes an event after every successful Convert.
func WithNotifier(n Notifier) Option {
	return func(c *Converter) { c.notifier = n }
}

// WithClock replaces the wall clock used for timings and event timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Converter) { c.clock = clock }
}

// WithRegistry registers conversion metrics with reg instead of a private
// registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *Converter) { c.registry = reg }
}

// Converter runs conversions with one set of options.
type Converter struct {
	logger      *slog.Logger
	compression int
	notifier    Notifier
	clock       clockwork.Clock
	registry    *prometheus.Registry

	metrics  *observability.Metrics
	store    *hdf5.Store
	pipeline *pipeline.Pipeline
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		logger:      observability.NewNopLogger(),
		compression: DefaultCompression,
		clock:       clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}
	c.metrics = observability.NewMetricsWith(c.registry)
	c.store = hdf5.NewStore(c.compression, c.logger)

	popts := []pipeline.Option{pipeline.WithClock(c.clock)}
	if c.notifier != nil {
		popts = append(popts, pipeline.WithNotifier(c.notifier))
	}
	c.pipeline = pipeline.New(
		iris.NewDecoder(c.logger),
		domain.Factory{},
		convert.NewPopulator(c.logger),
		c.logger,
		c.metrics,
		popts...,
	)
	return c
}

// ReadIRIS decodes the IRIS file at path into a *domain.PolarVolume or a
// *domain.PolarScan. The caller owns the returned object.
func (c *Converter) ReadIRIS(ctx context.Context, path string) (domain.Object, error) {
	res, err := c.pipeline.Convert(ctx, path, pipeline.ValueSink{})
	if err != nil {
		return nil, err
	}
	return res.Object, nil
}

// Convert writes the IRIS file at in to out as ODIM_H5. out is replaced
// atomically and left untouched on failure.
func (c *Converter) Convert(ctx context.Context, in, out string) error {
	store := pipeline.ContainerStoreFunc(func() (pipeline.Container, error) {
		return c.store.NewContainer()
	})
	_, err := c.pipeline.Convert(ctx, in, pipeline.FileSink{Store: store, Path: out})
	return err
}

// WriteMetrics writes the converter's metrics to path in the Prometheus text
// format.
func (c *Converter) WriteMetrics(path string) error {
	return c.metrics.WriteTextfile(path)
}

// IsIRIS reports whether path is a regular, readable IRIS file, optionally
// gzip-compressed. It never fails; anything else reports false.
func IsIRIS(path string) bool {
	return iris.Probe(path) == iris.FormatIRIS
}

// ReadIRIS decodes the IRIS file at path with a Converter built from opts.
func ReadIRIS(ctx context.Context, path string, opts ...Option) (domain.Object, error) {
	return New(opts...).ReadIRIS(ctx, path)
}

// Convert writes the IRIS file at in to out with a Converter built from opts.
func Convert(ctx context.Context, in, out string, opts ...Option) error {
	return New(opts...).Convert(ctx, in, out)
}
