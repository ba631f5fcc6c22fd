// Package convert copies decoded IRIS records into ODIM domain objects.
package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/iris2odim/internal/iris"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

// Populator fills polar volumes and scans from IRIS RAW files.
type Populator struct {
	logger *slog.Logger
}

// NewPopulator creates a Populator.
func NewPopulator(logger *slog.Logger) *Populator {
	return &Populator{logger: logger}
}

// Populate copies raw into obj. raw is read only; the caller keeps
// ownership of both.
func (p *Populator) Populate(obj domain.Object, raw *iris.RawFile) error {
	if raw.Product.Type != iris.ProductRaw {
		return fmt.Errorf("product type %s carries no ray data", raw.Product.Type)
	}

	switch o := obj.(type) {
	case *domain.PolarVolume:
		if err := p.populateVolume(o, raw); err != nil {
			return err
		}
	case *domain.PolarScan:
		if len(raw.Sweeps) != 1 {
			return fmt.Errorf("scan needs exactly one sweep, file has %d", len(raw.Sweeps))
		}
		setTopLevelAttrs(o.Attrs, raw)
		if err := p.populateScan(o, raw, raw.Sweeps[0]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported object type %T", obj)
	}
	return obj.Validate()
}

func source(raw *iris.RawFile) string {
	if raw.Ingest.SiteName == "" {
		return ""
	}
	return "PLC:" + raw.Ingest.SiteName
}

func setTopLevelAttrs(attrs domain.Attributes, raw *iris.RawFile) {
	h := raw.Ingest
	attrs["how/software"] = "IRIS"
	if h.IRISVersion != "" {
		attrs["how/sw_version"] = h.IRISVersion
	}
	if h.Hardware != "" {
		attrs["how/system"] = h.Hardware
	}
	if raw.Product.TaskName != "" {
		attrs["how/task"] = raw.Product.TaskName
	}
	if h.Wavelength > 0 {
		attrs["how/wavelength"] = h.Wavelength
	}
	if h.PulseWidth > 0 {
		attrs["how/pulsewidth"] = h.PulseWidth
	}
	if h.PRF > 0 {
		attrs["how/highprf"] = float64(h.PRF)
	}
	attrs["how/beamwH"] = h.BeamwidthH
	attrs["how/beamwV"] = h.BeamwidthV
}

func (p *Populator) populateVolume(v *domain.PolarVolume, raw *iris.RawFile) error {
	if len(raw.Sweeps) == 0 {
		return errors.New("volume has no sweeps")
	}
	h := raw.Ingest
	v.Source = source(raw)
	v.Nominal = h.VolumeStart
	v.Longitude = h.Longitude
	v.Latitude = h.Latitude
	v.Height = float64(h.GroundHeight + h.RadarHeight)
	v.Beamwidth = h.BeamwidthH
	setTopLevelAttrs(v.Attrs, raw)

	for _, sweep := range raw.Sweeps {
		s := domain.NewPolarScan()
		if err := p.populateScan(s, raw, sweep); err != nil {
			return err
		}
		if err := v.AddScan(s); err != nil {
			return err
		}
	}
	v.SortByElevation()
	return nil
}

func (p *Populator) populateScan(s *domain.PolarScan, raw *iris.RawFile, sweep iris.Sweep) error {
	if len(sweep.Fields) == 0 {
		return fmt.Errorf("sweep %d has no data", sweep.Number)
	}
	h := raw.Ingest
	header := sweep.Fields[0].Header

	nrays := header.RaysPer360
	if nrays <= 0 {
		nrays = header.RaysExpected
	}
	if nrays <= 0 {
		return fmt.Errorf("sweep %d has no rays", sweep.Number)
	}

	first, last, recorded := rayTiming(sweep.Fields[0].Rays)
	if recorded == 0 {
		return fmt.Errorf("sweep %d has no recorded rays", sweep.Number)
	}

	nbins := h.OutputBins
	if nbins <= 0 {
		nbins = maxBins(sweep)
	}
	if nbins <= 0 {
		return fmt.Errorf("sweep %d has no range bins", sweep.Number)
	}

	start := header.SweepStart
	if start.IsZero() {
		start = h.VolumeStart
	}

	s.Source = source(raw)
	s.Nominal = h.VolumeStart
	s.StartTime = start
	s.EndTime = start.Add(time.Duration(last) * time.Second)
	s.Longitude = h.Longitude
	s.Latitude = h.Latitude
	s.Height = float64(h.GroundHeight + h.RadarHeight)
	s.Beamwidth = h.BeamwidthH
	s.Elangle = header.FixedAngle
	s.NRays = nrays
	s.NBins = nbins
	s.RScale = float64(h.OutputStep) / 100
	s.RStart = float64(h.FirstBinRange) / 100000
	s.A1Gate = rowOf(first.Azimuth(), nrays)

	ni := nyquist(h)
	for _, field := range sweep.Fields {
		sc, ok := scalingFor(field.Header.DataType, ni)
		if !ok {
			p.logger.Debug("skipping unmapped data type", "sweep", sweep.Number, "data_type", field.Header.DataType)
			continue
		}
		if field.Header.BitsPerBin != sc.Bits {
			return fmt.Errorf("sweep %d: %s recorded with %d bits, want %d",
				sweep.Number, field.Header.DataType, field.Header.BitsPerBin, sc.Bits)
		}
		param := domain.NewParameter(sc.Quantity, sc.Bits, nrays, nbins)
		param.Gain = sc.Gain
		param.Offset = sc.Offset
		param.Nodata = sc.Nodata
		param.Undetect = sc.Undetect
		param.Fill(uint16(sc.Nodata))
		for _, ray := range field.Rays {
			if ray.Empty() {
				continue
			}
			param.SetRay(rowOf(ray.Azimuth(), nrays), ray.Data)
		}
		if err := s.AddParameter(param); err != nil {
			return fmt.Errorf("sweep %d: %w", sweep.Number, err)
		}
		if sc.Quantity == "VRADH" && ni > 0 {
			s.Attrs["how/NI"] = ni
		}
	}
	if len(s.Parameters()) == 0 {
		return fmt.Errorf("sweep %d has no convertible data types", sweep.Number)
	}
	return nil
}

// rayTiming returns the first recorded ray, the largest time offset and the
// number of recorded rays.
func rayTiming(rays []iris.Ray) (first iris.Ray, lastSeconds, recorded int) {
	for _, r := range rays {
		if r.Empty() {
			continue
		}
		if recorded == 0 {
			first = r
		}
		recorded++
		if r.Seconds > lastSeconds {
			lastSeconds = r.Seconds
		}
	}
	return first, lastSeconds, recorded
}

func maxBins(sweep iris.Sweep) int {
	n := 0
	for _, f := range sweep.Fields {
		for _, r := range f.Rays {
			if len(r.Data) > n {
				n = len(r.Data)
			}
		}
	}
	return n
}

// rowOf maps an azimuth onto its row in an nrays-row array starting north.
func rowOf(azimuth float64, nrays int) int {
	row := int(math.Floor(azimuth / (360 / float64(nrays))))
	return ((row % nrays) + nrays) % nrays
}
