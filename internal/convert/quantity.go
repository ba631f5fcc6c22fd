package convert

import "github.com/couchcryptid/iris2odim/internal/iris"

// scaling describes how packed IRIS values of one data type read as an
// ODIM quantity: physical = gain*N + offset.
type scaling struct {
	Quantity string
	Bits     int
	Gain     float64
	Offset   float64
	Nodata   float64
	Undetect float64
}

const (
	nodata8  = 255
	nodata16 = 65535
)

// linear16 covers the two-byte types stored as (N-32768)/100.
func linear16(quantity string) scaling {
	return scaling{Quantity: quantity, Bits: 16, Gain: 0.01, Offset: -327.68, Nodata: nodata16}
}

// reflectivity8 covers the one-byte types stored as (N-64)/2.
func reflectivity8(quantity string) scaling {
	return scaling{Quantity: quantity, Bits: 8, Gain: 0.5, Offset: -32, Nodata: nodata8}
}

// scalingFor maps an IRIS data type onto an ODIM quantity. Velocity and
// spectrum width in one byte scale with the Nyquist velocity; types whose
// encoding is not linear have no mapping.
func scalingFor(t iris.DataType, nyquist float64) (scaling, bool) {
	switch t {
	case iris.DataDBT:
		return reflectivity8("TH"), true
	case iris.DataDBZ:
		return reflectivity8("DBZH"), true
	case iris.DataDBZC:
		return reflectivity8("DBZHC"), true
	case iris.DataVEL:
		if nyquist <= 0 {
			return scaling{}, false
		}
		return scaling{Quantity: "VRADH", Bits: 8, Gain: nyquist / 127, Offset: -128 * nyquist / 127, Nodata: nodata8}, true
	case iris.DataWIDTH:
		if nyquist <= 0 {
			return scaling{}, false
		}
		return scaling{Quantity: "WRADH", Bits: 8, Gain: nyquist / 256, Nodata: nodata8}, true
	case iris.DataZDR:
		return scaling{Quantity: "ZDR", Bits: 8, Gain: 1.0 / 16, Offset: -8, Nodata: nodata8}, true
	case iris.DataDBT2:
		return linear16("TH"), true
	case iris.DataDBZ2:
		return linear16("DBZH"), true
	case iris.DataDBZC2:
		return linear16("DBZHC"), true
	case iris.DataVEL2:
		return linear16("VRADH"), true
	case iris.DataWIDTH2:
		return scaling{Quantity: "WRADH", Bits: 16, Gain: 0.01, Nodata: nodata16}, true
	case iris.DataZDR2:
		return linear16("ZDR"), true
	case iris.DataKDP2:
		return linear16("KDP"), true
	case iris.DataRHOHV2:
		return scaling{Quantity: "RHOHV", Bits: 16, Gain: 1.0 / 65533, Offset: -1.0 / 65533, Nodata: nodata16}, true
	case iris.DataSQI2:
		return scaling{Quantity: "SQIH", Bits: 16, Gain: 1.0 / 65533, Offset: -1.0 / 65533, Nodata: nodata16}, true
	case iris.DataPHIDP2:
		return scaling{Quantity: "PHIDP", Bits: 16, Gain: 360.0 / 65534, Offset: -360.0 / 65534, Nodata: nodata16}, true
	default:
		return scaling{}, false
	}
}

// nyquist returns the unambiguous velocity in m/s, widened by the dual-PRF
// unfolding ratio.
func nyquist(h iris.IngestHeader) float64 {
	if h.PRF <= 0 || h.Wavelength <= 0 {
		return 0
	}
	wavelength := h.Wavelength / 100 // cm to m
	return float64(h.PRF) * wavelength / 4 * float64(h.MultiPRF+1)
}
