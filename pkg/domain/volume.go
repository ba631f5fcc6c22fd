package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// PolarVolume is a set of scans from one site sharing a nominal time.
type PolarVolume struct {
	Source  string
	Nominal time.Time

	Longitude float64
	Latitude  float64
	Height    float64
	Beamwidth float64

	Attrs Attributes

	scans []*PolarScan
}

// NewPolarVolume returns an empty volume.
func NewPolarVolume() *PolarVolume {
	return &PolarVolume{Attrs: Attributes{}}
}

func (v *PolarVolume) Kind() ObjectKind { return KindVolume }

// AddScan appends s. Scans must come from the volume's site.
func (v *PolarVolume) AddScan(s *PolarScan) error {
	if v.Source != "" && s.Source != "" && s.Source != v.Source {
		return fmt.Errorf("scan source %q does not match volume source %q", s.Source, v.Source)
	}
	v.scans = append(v.scans, s)
	return nil
}

// Scans returns the scans in their current order.
func (v *PolarVolume) Scans() []*PolarScan {
	return v.scans
}

// NumScans returns the number of scans.
func (v *PolarVolume) NumScans() int {
	return len(v.scans)
}

// SortByElevation orders scans by ascending elevation angle.
func (v *PolarVolume) SortByElevation() {
	sort.SliceStable(v.scans, func(i, j int) bool {
		return v.scans[i].Elangle < v.scans[j].Elangle
	})
}

// Validate checks the volume and each of its scans.
func (v *PolarVolume) Validate() error {
	if v.Source == "" {
		return errors.New("volume has no source")
	}
	if v.Nominal.IsZero() {
		return errors.New("volume has no nominal time")
	}
	if len(v.scans) == 0 {
		return errors.New("volume has no scans")
	}
	for i, s := range v.scans {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("scan %d: %w", i+1, err)
		}
	}
	return nil
}
