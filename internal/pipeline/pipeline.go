// Package pipeline orchestrates one IRIS to ODIM conversion: probe, decode,
// resolve, allocate, populate and deliver, releasing every resource it
// acquires exactly once on every path.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/iris2odim/internal/iris"
	"github.com/couchcryptid/iris2odim/internal/observability"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

// Source sniffs and decodes IRIS files.
type Source interface {
	Probe(path string) iris.Format
	Decode(ctx context.Context, path string) (*iris.RawFile, error)
	Release(raw *iris.RawFile)
}

// Factory allocates and releases domain objects.
type Factory interface {
	New(kind domain.ObjectKind) (domain.Object, error)
	Release(obj domain.Object)
}

// Populator copies decoded records into a domain object.
type Populator interface {
	Populate(obj domain.Object, raw *iris.RawFile) error
}

// Notifier announces written files.
type Notifier interface {
	Notify(ctx context.Context, event domain.ConversionEvent) error
}

// Result describes a successful conversion.
type Result struct {
	Kind domain.ObjectKind

	// Object is set only when the sink transferred ownership to the caller.
	Object  domain.Object
	Elapsed time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces the wall clock.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithNotifier publishes an event after every file delivery.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// Pipeline runs conversions. It is safe for concurrent use when its
// collaborators are.
type Pipeline struct {
	source    Source
	factory   Factory
	populator Populator
	notifier  Notifier
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline with the given collaborators and observability.
func New(s Source, f Factory, pop Populator, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    s,
		factory:   f,
		populator: pop,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Convert converts the IRIS file at in and hands the result to sink.
func (p *Pipeline) Convert(ctx context.Context, in string, sink Sink) (res Result, err error) {
	start := p.clock.Now()
	kind := domain.KindUndefined
	defer func() {
		res.Elapsed = p.clock.Since(start)
		p.observe(in, kind, res.Elapsed, err)
	}()

	if in == "" {
		return res, fail(ErrInvalidInvocation, "", errors.New("empty input path"))
	}
	if sink == nil {
		return res, fail(ErrInvalidInvocation, in, errors.New("no output sink"))
	}
	if err := sink.validate(); err != nil {
		return res, fail(ErrInvalidInvocation, in, err)
	}

	switch p.source.Probe(in) {
	case iris.FormatIRIS:
	case iris.FormatUnreadable:
		return res, fail(ErrUnreadable, in, nil)
	default:
		return res, fail(ErrNotIRIS, in, nil)
	}

	raw, err := p.source.Decode(ctx, in)
	if err != nil {
		return res, fail(ErrDecode, in, err)
	}
	p.acquired(observability.ResourceRecords)
	recordsHeld := true
	releaseRecords := func() {
		if recordsHeld {
			recordsHeld = false
			p.source.Release(raw)
			p.released(observability.ResourceRecords)
		}
	}
	defer releaseRecords()
	p.metrics.SweepsDecoded.Add(float64(len(raw.Sweeps)))

	kind, err = resolve(raw)
	if err != nil {
		return res, fail(ErrUnsupportedShape, in, err)
	}

	obj, err := p.factory.New(kind)
	if err != nil {
		return res, fail(ErrPopulate, in, err)
	}
	p.acquired(observability.ResourceObject)
	objectHeld := true
	defer func() {
		if objectHeld {
			p.factory.Release(obj)
			p.released(observability.ResourceObject)
		}
	}()

	popErr := p.populator.Populate(obj, raw)
	releaseRecords()
	if popErr != nil {
		return res, fail(ErrPopulate, in, popErr)
	}

	transferred, err := sink.deliver(ctx, p, in, obj)
	if err != nil {
		return res, err
	}
	res.Kind = kind
	if transferred {
		objectHeld = false
		p.released(observability.ResourceObject)
		res.Object = obj
	}
	return res, nil
}

func (p *Pipeline) acquired(resource string) {
	p.metrics.ResourcesLive.WithLabelValues(resource).Inc()
}

func (p *Pipeline) released(resource string) {
	p.metrics.ResourcesLive.WithLabelValues(resource).Dec()
}

func (p *Pipeline) observe(in string, kind domain.ObjectKind, elapsed time.Duration, err error) {
	outcome := Outcome(err)
	p.metrics.Conversions.WithLabelValues(kind.String(), outcome).Inc()
	p.metrics.ConversionDuration.Observe(elapsed.Seconds())
	if err != nil {
		p.logger.Warn("conversion failed", "input", in, "kind", kind, "outcome", outcome, "error", err)
		return
	}
	p.logger.Info("conversion complete", "input", in, "kind", kind, "elapsed", elapsed)
}

// notify publishes a conversion event. Failures are logged and counted; the
// file is already in place by then.
func (p *Pipeline) notify(ctx context.Context, in, out string, obj domain.Object) {
	if p.notifier == nil {
		return
	}
	event := domain.NewConversionEvent(obj, in, out, p.clock.Now())
	if err := p.notifier.Notify(ctx, event); err != nil {
		p.metrics.Notifications.WithLabelValues("error").Inc()
		p.logger.Warn("conversion notification failed", "id", event.ID, "error", err)
		return
	}
	p.metrics.Notifications.WithLabelValues("success").Inc()
}
