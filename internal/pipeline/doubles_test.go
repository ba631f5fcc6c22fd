package pipeline

import (
	"context"
	"errors"

	"github.com/couchcryptid/iris2odim/internal/iris"
	"github.com/couchcryptid/iris2odim/internal/odim"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

var errBoom = errors.New("boom")

type fakeSource struct {
	format    iris.Format
	raw       *iris.RawFile
	decodeErr error

	probes   int
	decodes  int
	releases int
}

func (s *fakeSource) Probe(string) iris.Format {
	s.probes++
	return s.format
}

func (s *fakeSource) Decode(context.Context, string) (*iris.RawFile, error) {
	s.decodes++
	if s.decodeErr != nil {
		return nil, s.decodeErr
	}
	return s.raw, nil
}

func (s *fakeSource) Release(raw *iris.RawFile) {
	s.releases++
	raw.Release()
}

type countingFactory struct {
	domain.Factory
	newErr error

	kinds    []domain.ObjectKind
	released []domain.Object
}

func (f *countingFactory) New(kind domain.ObjectKind) (domain.Object, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.kinds = append(f.kinds, kind)
	return f.Factory.New(kind)
}

func (f *countingFactory) Release(obj domain.Object) {
	f.released = append(f.released, obj)
	f.Factory.Release(obj)
}

type fakePopulator struct {
	err  error
	hook func()

	calls []domain.Object

	// sawReleased records whether raw had been released when Populate ran.
	sawReleased bool
}

func (p *fakePopulator) Populate(obj domain.Object, raw *iris.RawFile) error {
	p.calls = append(p.calls, obj)
	p.sawReleased = p.sawReleased || raw.Released()
	if p.hook != nil {
		p.hook()
	}
	return p.err
}

type fakeContainer struct {
	setErr  error
	saveErr error

	obj    domain.Object
	tree   *odim.Group
	saved  []string
	closes int
}

func (c *fakeContainer) SetObject(obj domain.Object) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.obj = obj
	return nil
}

func (c *fakeContainer) Save(_ context.Context, path string) error {
	c.saved = append(c.saved, path)
	return c.saveErr
}

func (c *fakeContainer) Close() error {
	c.closes++
	return nil
}

type fakeStore struct {
	newErr  error
	setErr  error
	saveErr error

	containers []*fakeContainer
}

func (s *fakeStore) NewContainer() (Container, error) {
	if s.newErr != nil {
		return nil, s.newErr
	}
	c := &fakeContainer{setErr: s.setErr, saveErr: s.saveErr}
	s.containers = append(s.containers, c)
	return c, nil
}

// encodingContainer lays out the object the way the HDF5 container does,
// keeping the tree for comparison.
type encodingContainer struct {
	fakeContainer
}

func (c *encodingContainer) SetObject(obj domain.Object) error {
	tree, err := odim.Encode(obj)
	if err != nil {
		return err
	}
	c.tree = tree
	return nil
}

type fakeNotifier struct {
	err    error
	events []domain.ConversionEvent
}

func (n *fakeNotifier) Notify(_ context.Context, event domain.ConversionEvent) error {
	n.events = append(n.events, event)
	return n.err
}
