package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/iris2odim/internal/convert"
	"github.com/couchcryptid/iris2odim/internal/iris"
	"github.com/couchcryptid/iris2odim/internal/iris/iristest"
	"github.com/couchcryptid/iris2odim/internal/observability"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

type harness struct {
	source    *fakeSource
	factory   *countingFactory
	populator *fakePopulator
	store     *fakeStore
	notifier  *fakeNotifier
	clock     *clockwork.FakeClock
	metrics   *observability.Metrics
	pipeline  *Pipeline
}

func newHarness(t *testing.T, sweeps int) *harness {
	t.Helper()
	h := &harness{
		source: &fakeSource{
			format: iris.FormatIRIS,
			raw:    iristest.RawFile(iristest.Options{Sweeps: sweeps}),
		},
		factory:   &countingFactory{},
		populator: &fakePopulator{},
		store:     &fakeStore{},
		notifier:  &fakeNotifier{},
		clock:     clockwork.NewFakeClockAt(time.Date(2016, 1, 20, 13, 0, 0, 0, time.UTC)),
		metrics:   observability.NewMetricsForTesting(),
	}
	h.pipeline = New(h.source, h.factory, h.populator, slog.Default(), h.metrics,
		WithClock(h.clock), WithNotifier(h.notifier))
	return h
}

func (h *harness) fileSink() FileSink {
	return FileSink{Store: h.store, Path: "/data/out.h5"}
}

func (h *harness) assertNoLeaks(t *testing.T) {
	t.Helper()
	for _, r := range []string{observability.ResourceRecords, observability.ResourceObject, observability.ResourceContainer} {
		assert.InDelta(t, 0, testutil.ToFloat64(h.metrics.ResourcesLive.WithLabelValues(r)), 0, "resource %s", r)
	}
	for _, c := range h.store.containers {
		assert.Equal(t, 1, c.closes, "container closes")
	}
}

func (h *harness) conversions(kind, outcome string) float64 {
	return testutil.ToFloat64(h.metrics.Conversions.WithLabelValues(kind, outcome))
}

func TestConvert_ScanToFile(t *testing.T) {
	h := newHarness(t, 1)
	h.populator.hook = func() { h.clock.Advance(250 * time.Millisecond) }

	res, err := h.pipeline.Convert(context.Background(), "/data/in.raw", h.fileSink())
	require.NoError(t, err)

	assert.Equal(t, domain.KindScan, res.Kind)
	assert.Nil(t, res.Object)
	assert.Equal(t, 250*time.Millisecond, res.Elapsed)

	require.Equal(t, []domain.ObjectKind{domain.KindScan}, h.factory.kinds)
	require.Len(t, h.populator.calls, 1)
	assert.False(t, h.populator.sawReleased)
	obj := h.populator.calls[0]

	require.Len(t, h.store.containers, 1)
	c := h.store.containers[0]
	assert.Same(t, obj, c.obj)
	assert.Equal(t, []string{"/data/out.h5"}, c.saved)

	require.Len(t, h.factory.released, 1)
	assert.Same(t, obj, h.factory.released[0])
	assert.Equal(t, 1, h.source.releases)
	assert.True(t, h.source.raw.Released())

	assert.InDelta(t, 1, h.conversions("SCAN", "success"), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.SweepsDecoded), 0)
	h.assertNoLeaks(t)
}

func TestConvert_VolumeToValue(t *testing.T) {
	h := newHarness(t, 3)

	res, err := h.pipeline.Convert(context.Background(), "/data/in.raw", ValueSink{})
	require.NoError(t, err)

	assert.Equal(t, domain.KindVolume, res.Kind)
	require.NotNil(t, res.Object)
	assert.Same(t, h.populator.calls[0], res.Object)
	assert.Empty(t, h.factory.released, "ownership moves to the caller")
	assert.Empty(t, h.store.containers)
	assert.Empty(t, h.notifier.events)
	assert.Equal(t, 1, h.source.releases)
	h.assertNoLeaks(t)
}

func TestConvert_Unreadable(t *testing.T) {
	h := newHarness(t, 1)
	h.source.format = iris.FormatUnreadable

	_, err := h.pipeline.Convert(context.Background(), "/missing", h.fileSink())
	require.ErrorIs(t, err, ErrUnreadable)

	assert.Zero(t, h.source.decodes)
	assert.Empty(t, h.factory.kinds)
	assert.Empty(t, h.store.containers)
	assert.InDelta(t, 1, h.conversions("UNDEFINED", "unreadable"), 0)
	h.assertNoLeaks(t)
}

func TestConvert_NotIRIS(t *testing.T) {
	h := newHarness(t, 1)
	h.source.format = iris.FormatOther

	_, err := h.pipeline.Convert(context.Background(), "/data/notes.txt", h.fileSink())
	require.ErrorIs(t, err, ErrNotIRIS)
	assert.False(t, errors.Is(err, ErrUnreadable))
	assert.Zero(t, h.source.decodes)
	h.assertNoLeaks(t)
}

func TestConvert_DecodeFailure(t *testing.T) {
	h := newHarness(t, 1)
	h.source.decodeErr = errBoom

	_, err := h.pipeline.Convert(context.Background(), "/data/in.raw", h.fileSink())
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorIs(t, err, errBoom)

	assert.Zero(t, h.source.releases)
	assert.Empty(t, h.factory.kinds)
	assert.Empty(t, h.store.containers)
	h.assertNoLeaks(t)
}

func TestConvert_UnsupportedShape(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*iris.RawFile)
	}{
		{"no sweeps", func(f *iris.RawFile) { f.Sweeps = nil }},
		{"not RAW", func(f *iris.RawFile) { f.Product.Type = iris.ProductCAP }},
		{"RHI", func(f *iris.RawFile) { f.Ingest.ScanMode = iris.ScanRHI }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 2)
			tt.mutate(h.source.raw)

			_, err := h.pipeline.Convert(context.Background(), "/data/in.raw", h.fileSink())
			require.ErrorIs(t, err, ErrUnsupportedShape)
			assert.False(t, errors.Is(err, ErrDecode))

			assert.Equal(t, 1, h.source.releases)
			assert.Empty(t, h.factory.kinds)
			assert.Empty(t, h.populator.calls)
			h.assertNoLeaks(t)
		})
	}
}

func TestConvert_AllocationFailure(t *testing.T) {
	h := newHarness(t, 1)
	h.factory.newErr = errBoom

	_, err := h.pipeline.Convert(context.Background(), "/data/in.raw", h.fileSink())
	require.ErrorIs(t, err, ErrPopulate)
	assert.Equal(t, 1, h.source.releases)
	assert.Empty(t, h.populator.calls)
	h.assertNoLeaks(t)
}

func TestConvert_PopulateFailure(t *testing.T) {
	h := newHarness(t, 1)
	h.populator.err = errBoom

	_, err := h.pipeline.Convert(context.Background(), "/data/in.raw", ValueSink{})
	require.ErrorIs(t, err, ErrPopulate)
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, 1, h.source.releases)
	assert.Len(t, h.factory.released, 1)
	assert.Empty(t, h.store.containers)
	assert.InDelta(t, 1, h.conversions("SCAN", "populate_failure"), 0)
	h.assertNoLeaks(t)
}

func TestConvert_PersistFailures(t *testing.T) {
	tests := []struct {
		name       string
		store      *fakeStore
		containers int
	}{
		{"new container", &fakeStore{newErr: errBoom}, 0},
		{"set object", &fakeStore{setErr: errBoom}, 1},
		{"save", &fakeStore{saveErr: errBoom}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 1)
			h.store = tt.store

			_, err := h.pipeline.Convert(context.Background(), "/data/in.raw", h.fileSink())
			require.ErrorIs(t, err, ErrPersist)
			require.ErrorIs(t, err, errBoom)

			assert.Len(t, h.store.containers, tt.containers)
			assert.Len(t, h.factory.released, 1)
			assert.Equal(t, 1, h.source.releases)
			assert.Empty(t, h.notifier.events)
			h.assertNoLeaks(t)
		})
	}
}

func TestConvert_InvalidInvocation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		sink Sink
	}{
		{"empty input", "", ValueSink{}},
		{"nil sink", "/data/in.raw", nil},
		{"empty output", "/data/in.raw", FileSink{Store: &fakeStore{}}},
		{"no store", "/data/in.raw", FileSink{Path: "/data/out.h5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 1)

			_, err := h.pipeline.Convert(context.Background(), tt.in, tt.sink)
			require.ErrorIs(t, err, ErrInvalidInvocation)
			assert.Zero(t, h.source.probes)
			h.assertNoLeaks(t)
		})
	}
}

func TestConvert_Notifies(t *testing.T) {
	h := newHarness(t, 1)

	_, err := h.pipeline.Convert(context.Background(), "/data/in.raw", h.fileSink())
	require.NoError(t, err)

	require.Len(t, h.notifier.events, 1)
	ev := h.notifier.events[0]
	assert.Equal(t, "SCAN", ev.Object)
	assert.Equal(t, "/data/in.raw", ev.InputPath)
	assert.Equal(t, "/data/out.h5", ev.OutputPath)
	assert.Equal(t, h.clock.Now(), ev.ConvertedAt)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.Notifications.WithLabelValues("success")), 0)
}

func TestConvert_NotifyFailureKeepsSuccess(t *testing.T) {
	h := newHarness(t, 1)
	h.notifier.err = errBoom

	_, err := h.pipeline.Convert(context.Background(), "/data/in.raw", h.fileSink())
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.Notifications.WithLabelValues("error")), 0)
	h.assertNoLeaks(t)
}

func TestConvert_WithoutNotifier(t *testing.T) {
	h := newHarness(t, 1)
	p := New(h.source, h.factory, h.populator, slog.Default(), h.metrics)

	_, err := p.Convert(context.Background(), "/data/in.raw", h.fileSink())
	require.NoError(t, err)
	h.assertNoLeaks(t)
}

// realPipeline wires the production decoder and populator.
func realPipeline(metrics *observability.Metrics) *Pipeline {
	logger := slog.Default()
	return New(iris.NewDecoder(logger), domain.Factory{}, convert.NewPopulator(logger), logger, metrics)
}

func TestConvert_RealCollaborators(t *testing.T) {
	path := iristest.WriteTemp(t, "volume.raw", iristest.RawFile(iristest.Options{Sweeps: 2}), true)
	metrics := observability.NewMetricsForTesting()

	res, err := realPipeline(metrics).Convert(context.Background(), path, ValueSink{})
	require.NoError(t, err)

	vol, ok := res.Object.(*domain.PolarVolume)
	require.True(t, ok)
	assert.Equal(t, 2, vol.NumScans())
	assert.Equal(t, "PLC:WKR", vol.Source)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.ResourcesLive.WithLabelValues(observability.ResourceRecords)), 0)
}

func TestConvert_Idempotent(t *testing.T) {
	path := iristest.WriteTemp(t, "volume.raw", iristest.RawFile(iristest.Options{Sweeps: 3}), false)
	p := realPipeline(observability.NewMetricsForTesting())

	var containers []*encodingContainer
	store := ContainerStoreFunc(func() (Container, error) {
		c := &encodingContainer{}
		containers = append(containers, c)
		return c, nil
	})

	dir := t.TempDir()
	for _, out := range []string{"a.h5", "b.h5"} {
		_, err := p.Convert(context.Background(), path, FileSink{Store: store, Path: filepath.Join(dir, out)})
		require.NoError(t, err)
	}

	require.Len(t, containers, 2)
	require.NotNil(t, containers[0].tree)
	if diff := cmp.Diff(containers[0].tree, containers[1].tree); diff != "" {
		t.Errorf("conversions differ (-first +second):\n%s", diff)
	}
}

func TestResolveKind(t *testing.T) {
	tests := []struct {
		name   string
		sweeps int
		mutate func(*iris.RawFile)
		want   domain.ObjectKind
	}{
		{"volume", 3, nil, domain.KindVolume},
		{"scan", 1, nil, domain.KindScan},
		{"empty", 0, nil, domain.KindUndefined},
		{"sector", 2, func(f *iris.RawFile) { f.Ingest.ScanMode = iris.ScanPPISector }, domain.KindVolume},
		{"manual", 1, func(f *iris.RawFile) { f.Ingest.ScanMode = iris.ScanManual }, domain.KindScan},
		{"rhi", 2, func(f *iris.RawFile) { f.Ingest.ScanMode = iris.ScanRHI }, domain.KindUndefined},
		{"file scan", 2, func(f *iris.RawFile) { f.Ingest.ScanMode = iris.ScanFile }, domain.KindUndefined},
		{"ppi product", 2, func(f *iris.RawFile) { f.Product.Type = iris.ProductPPI }, domain.KindUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := iristest.RawFile(iristest.Options{Sweeps: tt.sweeps})
			if tt.mutate != nil {
				tt.mutate(raw)
			}
			assert.Equal(t, tt.want, ResolveKind(raw))
			assert.False(t, raw.Released())
			assert.Len(t, raw.Sweeps, tt.sweeps)
		})
	}
}

func TestError(t *testing.T) {
	err := fail(ErrDecode, "/data/in.raw", errBoom)
	assert.Equal(t, "IRIS decode failed: /data/in.raw: boom", err.Error())
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, errBoom)

	bare := fail(ErrNotIRIS, "/data/x", nil)
	assert.Equal(t, "input is not an IRIS file: /data/x", bare.Error())
	assert.ErrorIs(t, bare, ErrNotIRIS)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(nil))
	assert.Equal(t, "decode_failure", Outcome(fail(ErrDecode, "", errBoom)))
	assert.Equal(t, "persist_failure", Outcome(fail(ErrPersist, "", nil)))
	assert.Equal(t, "unknown", Outcome(errBoom))
}
