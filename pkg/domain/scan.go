package domain

import (
	"errors"
	"fmt"
	"time"
)

// PolarScan is a single sweep of the antenna at a fixed elevation.
type PolarScan struct {
	Source    string
	Nominal   time.Time
	StartTime time.Time
	EndTime   time.Time

	Longitude float64
	Latitude  float64
	Height    float64
	Beamwidth float64

	Elangle float64 // degrees
	NRays   int
	NBins   int
	A1Gate  int
	RScale  float64 // metres
	RStart  float64 // kilometres

	Attrs Attributes

	params []*Parameter
}

// NewPolarScan returns an empty scan.
func NewPolarScan() *PolarScan {
	return &PolarScan{Attrs: Attributes{}}
}

func (s *PolarScan) Kind() ObjectKind { return KindScan }

// AddParameter attaches p, replacing any parameter with the same quantity.
// The parameter dimensions must match the scan.
func (s *PolarScan) AddParameter(p *Parameter) error {
	if p.Rays != s.NRays || p.Bins != s.NBins {
		return fmt.Errorf("parameter %s is %dx%d, scan is %dx%d", p.Quantity, p.Rays, p.Bins, s.NRays, s.NBins)
	}
	for i, existing := range s.params {
		if existing.Quantity == p.Quantity {
			s.params[i] = p
			return nil
		}
	}
	s.params = append(s.params, p)
	return nil
}

// Parameter returns the parameter for quantity, if present.
func (s *PolarScan) Parameter(quantity string) (*Parameter, bool) {
	for _, p := range s.params {
		if p.Quantity == quantity {
			return p, true
		}
	}
	return nil, false
}

// Parameters returns parameters in insertion order.
func (s *PolarScan) Parameters() []*Parameter {
	return s.params
}

// ParameterNames lists quantities in insertion order.
func (s *PolarScan) ParameterNames() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Quantity
	}
	return names
}

// Validate checks the mandatory fields of a scan.
func (s *PolarScan) Validate() error {
	if s.Source == "" {
		return errors.New("scan has no source")
	}
	if s.StartTime.IsZero() {
		return errors.New("scan has no start time")
	}
	if s.NRays <= 0 || s.NBins <= 0 {
		return fmt.Errorf("scan has invalid geometry %dx%d", s.NRays, s.NBins)
	}
	if s.A1Gate < 0 || s.A1Gate >= s.NRays {
		return fmt.Errorf("a1gate %d outside [0,%d)", s.A1Gate, s.NRays)
	}
	if s.RScale <= 0 {
		return fmt.Errorf("scan has invalid range scale %g", s.RScale)
	}
	if len(s.params) == 0 {
		return errors.New("scan has no parameters")
	}
	for _, p := range s.params {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
