// Package iristest builds synthetic IRIS RAW files for tests and fixtures.
package iristest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/couchcryptid/iris2odim/internal/iris"
)

// VolumeStart is the nominal time of every synthetic file.
var VolumeStart = time.Date(2016, time.January, 20, 12, 50, 0, 0, time.UTC)

// Options shapes a synthetic file. Zero values pick small defaults.
type Options struct {
	Product  iris.ProductType
	ScanMode iris.ScanMode
	Sweeps   int
	Rays     int
	Bins     int
	Types    []iris.DataType

	// MissingRays lists ray indices left unrecorded in every sweep.
	MissingRays []int
}

func (o Options) withDefaults() Options {
	if o.Product == 0 {
		o.Product = iris.ProductRaw
	}
	if o.ScanMode == 0 {
		o.ScanMode = iris.ScanPPIFull
	}
	if o.Rays == 0 {
		o.Rays = 36
	}
	if o.Bins == 0 {
		o.Bins = 40
	}
	if len(o.Types) == 0 {
		o.Types = []iris.DataType{iris.DataDBT2, iris.DataDBZ2, iris.DataVEL2}
	}
	return o
}

// Elevation returns the fixed angle of sweep i (zero based).
func Elevation(i int) float64 {
	return 0.5 + float64(i)
}

// Value is the packed value stored at ray, bin for a field of the given
// bit depth. Bins 10 to 15 are below threshold so the zero-run coding is
// exercised.
func Value(bits, ray, bin int) uint16 {
	if bin >= 10 && bin < 16 {
		return 0
	}
	if bits == 8 {
		return uint16((ray+bin)%200 + 1)
	}
	return uint16(32768 + (ray*7+bin*3)%2000)
}

// RawFile returns a decoded-form synthetic IRIS file.
func RawFile(opts Options) *iris.RawFile {
	o := opts.withDefaults()

	var mask uint32
	for _, t := range o.Types {
		mask |= 1 << t
	}

	f := &iris.RawFile{
		Product: iris.ProductHeader{
			Type:        o.Product,
			TaskName:    "SYNTHETIC",
			GeneratedAt: VolumeStart.Add(5 * time.Minute),
		},
		Ingest: iris.IngestHeader{
			SweepsCompleted:   o.Sweeps,
			VolumeStart:       VolumeStart,
			IRISVersion:       "8.13",
			Hardware:          "RVP900",
			SiteName:          "WKR",
			Latitude:          43.9637,
			Longitude:         -79.5739,
			GroundHeight:      360,
			RadarHeight:       20,
			DataMask:          mask,
			PRF:               1000,
			PulseWidth:        0.8,
			MultiPRF:          0,
			FirstBinRange:     0,
			LastBinRange:      o.Bins * 25000,
			OutputBins:        o.Bins,
			OutputStep:        25000,
			ScanMode:          o.ScanMode,
			AngularResolution: 360 / float64(o.Rays),
			TaskSweeps:        o.Sweeps,
			Wavelength:        5.33,
			BeamwidthH:        1.0,
			BeamwidthV:        1.0,
		},
	}

	missing := make(map[int]bool, len(o.MissingRays))
	for _, r := range o.MissingRays {
		missing[r] = true
	}

	step := 360 / float64(o.Rays)
	for s := 0; s < o.Sweeps; s++ {
		sweep := iris.Sweep{Number: s + 1}
		start := VolumeStart.Add(time.Duration(s) * 30 * time.Second)
		for _, t := range o.Types {
			bits := 16
			if t < iris.DataDBT2 || t == iris.DataKDP || t == iris.DataPHIDP || t == iris.DataSQI || t == iris.DataRHOHV {
				bits = 8
			}
			field := iris.Field{Header: iris.DataHeader{
				SweepStart:   start,
				Sweep:        s + 1,
				RaysPer360:   o.Rays,
				RaysExpected: o.Rays,
				FixedAngle:   Elevation(s),
				BitsPerBin:   bits,
				DataType:     t,
			}}
			for r := 0; r < o.Rays; r++ {
				if missing[r] {
					field.Rays = append(field.Rays, iris.Ray{})
					continue
				}
				ray := iris.Ray{
					AzStart: float64(r) * step,
					AzEnd:   float64(r+1) * step,
					ElStart: Elevation(s),
					ElEnd:   Elevation(s),
					Seconds: r * 20 / o.Rays,
					Data:    make([]uint16, o.Bins),
				}
				if ray.AzEnd >= 360 {
					ray.AzEnd -= 360
				}
				for b := range ray.Data {
					ray.Data[b] = Value(bits, r, b)
				}
				field.Rays = append(field.Rays, ray)
			}
			sweep.Fields = append(sweep.Fields, field)
		}
		f.Sweeps = append(f.Sweeps, sweep)
	}
	return f
}

// Bytes encodes f, gzip-compressing it when compress is set.
func Bytes(f *iris.RawFile, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	if !compress {
		if err := iris.Encode(&buf, f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	zw := gzip.NewWriter(&buf)
	if err := iris.Encode(zw, f); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close gzip: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes f to path.
func Write(path string, f *iris.RawFile, compress bool) error {
	data, err := Bytes(f, compress)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// TB is the part of testing.TB that WriteTemp needs.
type TB interface {
	Helper()
	TempDir() string
	Fatalf(format string, args ...any)
}

// WriteTemp writes f into the test's temp directory and returns the path.
func WriteTemp(t TB, name string, f *iris.RawFile, compress bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := Write(path, f, compress); err != nil {
		t.Fatalf("write synthetic IRIS file: %v", err)
	}
	return path
}
