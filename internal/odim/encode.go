package odim

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/iris2odim/pkg/domain"
)

const (
	Conventions = "ODIM_H5/V2_2"
	Version     = "H5rad 2.2"
)

// Encode lays out a validated volume or scan.
func Encode(obj domain.Object) (*Group, error) {
	if obj == nil {
		return nil, errors.New("nil object")
	}
	if err := obj.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", obj.Kind(), err)
	}

	root := &Group{Name: "/"}
	root.SetAttr("Conventions", Conventions)

	switch o := obj.(type) {
	case *domain.PolarVolume:
		putTopLevel(root, o.Kind(), o.Source, o.Nominal, o.Longitude, o.Latitude, o.Height, o.Beamwidth, o.Attrs)
		for i, s := range o.Scans() {
			putScan(root, i+1, s)
		}
	case *domain.PolarScan:
		putTopLevel(root, o.Kind(), o.Source, o.Nominal, o.Longitude, o.Latitude, o.Height, o.Beamwidth, o.Attrs)
		putScan(root, 1, o)
	default:
		return nil, fmt.Errorf("unsupported object type %T", obj)
	}
	return root, nil
}

func putTopLevel(root *Group, kind domain.ObjectKind, source string, nominal time.Time,
	lon, lat, height, beamwidth float64, attrs domain.Attributes,
) {
	what := root.AddGroup("what")
	what.SetAttr("object", kind.String())
	what.SetAttr("version", Version)
	what.SetAttr("date", nominal.UTC().Format("20060102"))
	what.SetAttr("time", nominal.UTC().Format("150405"))
	what.SetAttr("source", source)

	where := root.AddGroup("where")
	where.SetAttr("lon", lon)
	where.SetAttr("lat", lat)
	where.SetAttr("height", height)

	how := root.AddGroup("how")
	how.SetAttr("beamwidth", beamwidth)
	putHow(how, attrs)
}

// putHow copies "how/<name>" attributes in key order.
func putHow(how *Group, attrs domain.Attributes) {
	for _, key := range attrs.Keys() {
		name, ok := strings.CutPrefix(key, "how/")
		if !ok || name == "" {
			continue
		}
		how.SetAttr(name, attrs[key])
	}
}

func putScan(root *Group, n int, s *domain.PolarScan) {
	ds := root.AddGroup(fmt.Sprintf("dataset%d", n))

	what := ds.AddGroup("what")
	what.SetAttr("product", "SCAN")
	what.SetAttr("startdate", s.StartTime.UTC().Format("20060102"))
	what.SetAttr("starttime", s.StartTime.UTC().Format("150405"))
	end := s.EndTime
	if end.IsZero() {
		end = s.StartTime
	}
	what.SetAttr("enddate", end.UTC().Format("20060102"))
	what.SetAttr("endtime", end.UTC().Format("150405"))

	where := ds.AddGroup("where")
	where.SetAttr("elangle", s.Elangle)
	where.SetAttr("nbins", int64(s.NBins))
	where.SetAttr("rstart", s.RStart)
	where.SetAttr("rscale", s.RScale)
	where.SetAttr("nrays", int64(s.NRays))
	where.SetAttr("a1gate", int64(s.A1Gate))

	if len(s.Attrs) > 0 {
		putHow(ds.AddGroup("how"), s.Attrs)
	}

	for i, p := range s.Parameters() {
		data := ds.AddGroup(fmt.Sprintf("data%d", i+1))
		pw := data.AddGroup("what")
		pw.SetAttr("quantity", p.Quantity)
		pw.SetAttr("gain", p.Gain)
		pw.SetAttr("offset", p.Offset)
		pw.SetAttr("nodata", p.Nodata)
		pw.SetAttr("undetect", p.Undetect)
		if len(p.Attrs) > 0 {
			putHow(data.AddGroup("how"), p.Attrs)
		}
		data.Datasets = append(data.Datasets, &Dataset{
			Name: "data",
			Bits: p.Bits,
			Rows: p.Rays,
			Cols: p.Bins,
			Data: p.Data,
			Attrs: []Attr{
				{Name: "CLASS", Value: "IMAGE"},
				{Name: "IMAGE_VERSION", Value: "1.2"},
			},
		})
	}
}
