package domain

import (
	"errors"
	"fmt"
)

// Parameter is one quantity measured over a sweep.
type Parameter struct {
	Quantity string
	Gain     float64
	Offset   float64
	Nodata   float64
	Undetect float64

	// Bits is 8 or 16.
	Bits  int
	Rays  int
	Bins  int
	Data  []uint16 // row-major, Rays*Bins
	Attrs Attributes
}

// NewParameter allocates a parameter filled with the nodata value.
func NewParameter(quantity string, bits, rays, bins int) *Parameter {
	p := &Parameter{
		Quantity: quantity,
		Bits:     bits,
		Rays:     rays,
		Bins:     bins,
		Data:     make([]uint16, rays*bins),
		Attrs:    Attributes{},
	}
	return p
}

// Fill sets every bin to v.
func (p *Parameter) Fill(v uint16) {
	for i := range p.Data {
		p.Data[i] = v
	}
}

// At returns the packed value at ray, bin.
func (p *Parameter) At(ray, bin int) uint16 {
	return p.Data[ray*p.Bins+bin]
}

// SetRay copies values into row ray, truncating to the parameter width.
func (p *Parameter) SetRay(ray int, values []uint16) {
	row := p.Data[ray*p.Bins : (ray+1)*p.Bins]
	copy(row, values)
}

// Physical converts a packed value using gain and offset.
func (p *Parameter) Physical(raw uint16) float64 {
	return p.Gain*float64(raw) + p.Offset
}

// Validate checks the parameter is internally consistent.
func (p *Parameter) Validate() error {
	if p.Quantity == "" {
		return errors.New("parameter has no quantity")
	}
	if p.Bits != 8 && p.Bits != 16 {
		return fmt.Errorf("parameter %s: unsupported bit depth %d", p.Quantity, p.Bits)
	}
	if p.Rays <= 0 || p.Bins <= 0 {
		return fmt.Errorf("parameter %s: empty %dx%d array", p.Quantity, p.Rays, p.Bins)
	}
	if len(p.Data) != p.Rays*p.Bins {
		return fmt.Errorf("parameter %s: %d values for %dx%d array", p.Quantity, len(p.Data), p.Rays, p.Bins)
	}
	if p.Gain == 0 {
		return fmt.Errorf("parameter %s: zero gain", p.Quantity)
	}
	return nil
}
