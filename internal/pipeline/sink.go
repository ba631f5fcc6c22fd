package pipeline

import (
	"context"
	"errors"

	"github.com/couchcryptid/iris2odim/internal/observability"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

// Container persists one domain object.
type Container interface {
	SetObject(obj domain.Object) error
	Save(ctx context.Context, path string) error
	Close() error
}

// ContainerStore allocates containers.
type ContainerStore interface {
	NewContainer() (Container, error)
}

// ContainerStoreFunc adapts a function to ContainerStore.
type ContainerStoreFunc func() (Container, error)

func (f ContainerStoreFunc) NewContainer() (Container, error) { return f() }

// Sink decides what happens to a populated object: FileSink persists it and
// lets the pipeline release it, ValueSink hands it to the caller.
type Sink interface {
	validate() error

	// deliver reports whether ownership of obj moved out of the pipeline.
	deliver(ctx context.Context, p *Pipeline, in string, obj domain.Object) (transferred bool, err error)
}

// ValueSink returns the populated object in Result.Object. The caller owns
// it afterwards.
type ValueSink struct{}

func (ValueSink) validate() error { return nil }

func (ValueSink) deliver(context.Context, *Pipeline, string, domain.Object) (bool, error) {
	return true, nil
}

// FileSink saves the populated object to Path through a container from Store.
type FileSink struct {
	Store ContainerStore
	Path  string
}

func (s FileSink) validate() error {
	if s.Path == "" {
		return errors.New("empty output path")
	}
	if s.Store == nil {
		return errors.New("no container store")
	}
	return nil
}

func (s FileSink) deliver(ctx context.Context, p *Pipeline, in string, obj domain.Object) (bool, error) {
	if err := s.persist(ctx, p, obj); err != nil {
		return false, fail(ErrPersist, s.Path, err)
	}
	p.notify(ctx, in, s.Path, obj)
	return false, nil
}

func (s FileSink) persist(ctx context.Context, p *Pipeline, obj domain.Object) error {
	c, err := s.Store.NewContainer()
	if err != nil {
		return err
	}
	p.acquired(observability.ResourceContainer)
	defer func() {
		if err := c.Close(); err != nil {
			p.logger.Warn("close container", "path", s.Path, "error", err)
		}
		p.released(observability.ResourceContainer)
	}()

	if err := c.SetObject(obj); err != nil {
		return err
	}
	return c.Save(ctx, s.Path)
}
