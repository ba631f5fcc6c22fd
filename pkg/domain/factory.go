package domain

import "fmt"

// Factory allocates and releases domain objects.
type Factory struct{}

// New allocates an empty object of the given kind.
func (Factory) New(kind ObjectKind) (Object, error) {
	switch kind {
	case KindVolume:
		return NewPolarVolume(), nil
	case KindScan:
		return NewPolarScan(), nil
	default:
		return nil, fmt.Errorf("cannot allocate object of kind %s", kind)
	}
}

// Release drops the data held by obj. obj must not be used afterwards.
func (Factory) Release(obj Object) {
	switch o := obj.(type) {
	case *PolarVolume:
		for _, s := range o.scans {
			s.params = nil
		}
		o.scans = nil
		o.Attrs = nil
	case *PolarScan:
		o.params = nil
		o.Attrs = nil
	}
}
