package iris

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"
)

// ProductType is product_configuration's product type code.
type ProductType uint16

const (
	ProductPPI ProductType = 1
	ProductRHI ProductType = 2
	ProductCAP ProductType = 3
	ProductRaw ProductType = 15
)

func (p ProductType) String() string {
	switch p {
	case ProductPPI:
		return "PPI"
	case ProductRHI:
		return "RHI"
	case ProductCAP:
		return "CAPPI"
	case ProductRaw:
		return "RAW"
	default:
		return fmt.Sprintf("product(%d)", uint16(p))
	}
}

// ScanMode is the antenna scan mode from task_scan_info.
type ScanMode uint16

const (
	ScanPPISector ScanMode = 1
	ScanRHI       ScanMode = 2
	ScanManual    ScanMode = 3
	ScanPPIFull   ScanMode = 4
	ScanFile      ScanMode = 5
)

// IsPPI reports whether the antenna swept in azimuth at fixed elevation.
func (m ScanMode) IsPPI() bool {
	return m == ScanPPISector || m == ScanManual || m == ScanPPIFull
}

func (m ScanMode) String() string {
	switch m {
	case ScanPPISector:
		return "ppi_sector"
	case ScanRHI:
		return "rhi"
	case ScanManual:
		return "manual"
	case ScanPPIFull:
		return "ppi_full"
	case ScanFile:
		return "file"
	default:
		return fmt.Sprintf("scan(%d)", uint16(m))
	}
}

// DataType is an IRIS data type code.
type DataType uint16

const (
	DataXHDR    DataType = 0
	DataDBT     DataType = 1
	DataDBZ     DataType = 2
	DataVEL     DataType = 3
	DataWIDTH   DataType = 4
	DataZDR     DataType = 5
	DataDBZC    DataType = 7
	DataDBT2    DataType = 8
	DataDBZ2    DataType = 9
	DataVEL2    DataType = 10
	DataWIDTH2  DataType = 11
	DataZDR2    DataType = 12
	DataKDP     DataType = 14
	DataKDP2    DataType = 15
	DataPHIDP   DataType = 16
	DataSQI     DataType = 18
	DataRHOHV   DataType = 19
	DataRHOHV2  DataType = 20
	DataDBZC2   DataType = 21
	DataSQI2    DataType = 23
	DataPHIDP2  DataType = 24
	maxDataType DataType = 31
)

var dataTypeNames = map[DataType]string{
	DataXHDR: "XHDR", DataDBT: "DBT", DataDBZ: "DBZ", DataVEL: "VEL",
	DataWIDTH: "WIDTH", DataZDR: "ZDR", DataDBZC: "DBZC", DataDBT2: "DBT2",
	DataDBZ2: "DBZ2", DataVEL2: "VEL2", DataWIDTH2: "WIDTH2", DataZDR2: "ZDR2",
	DataKDP: "KDP", DataKDP2: "KDP2", DataPHIDP: "PHIDP", DataSQI: "SQI",
	DataRHOHV: "RHOHV", DataRHOHV2: "RHOHV2", DataDBZC2: "DBZC2",
	DataSQI2: "SQI2", DataPHIDP2: "PHIDP2",
}

func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint16(d))
}

// ParseDataType looks a data type up by its IRIS name, e.g. "DBZ2".
func ParseDataType(name string) (DataType, bool) {
	for t, n := range dataTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// DataTypesFromMask lists the data types set in a task_dsp_info mask word,
// in ascending order.
func DataTypesFromMask(mask uint32) []DataType {
	var out []DataType
	for t := DataType(0); t <= maxDataType; t++ {
		if mask&(1<<t) != 0 {
			out = append(out, t)
		}
	}
	return out
}

// BIN2 converts a 16-bit binary angle to degrees.
func BIN2(v uint16) float64 {
	return float64(v) * 360 / 65536
}

// BIN4 converts a 32-bit binary angle to degrees.
func BIN4(v uint32) float64 {
	return float64(v) * 360 / 4294967296
}

// SignedBIN4 converts a BIN4 angle to degrees in (-180, 180].
func SignedBIN4(v uint32) float64 {
	d := BIN4(v)
	if d > 180 {
		d -= 360
	}
	return d
}

// ToBIN2 converts degrees to a 16-bit binary angle.
func ToBIN2(deg float64) uint16 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return uint16(uint64(math.Round(deg*65536/360)) & 0xffff)
}

// ToBIN4 converts degrees to a 32-bit binary angle.
func ToBIN4(deg float64) uint32 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return uint32(uint64(math.Round(deg*4294967296/360)) & 0xffffffff)
}

// parseYMDS decodes a 12-byte ymds_time: seconds since midnight (int32),
// milliseconds in the low 10 bits of a uint16, then year, month, day.
func parseYMDS(b []byte) time.Time {
	le := binary.LittleEndian
	secs := int32(le.Uint32(b[0:]))
	millis := le.Uint16(b[4:]) & 0x3ff
	year := int(int16(le.Uint16(b[6:])))
	month := int(int16(le.Uint16(b[8:])))
	day := int(int16(le.Uint16(b[10:])))
	if year == 0 || month == 0 || day == 0 {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(secs) * time.Second).
		Add(time.Duration(millis) * time.Millisecond)
}

// cString decodes a space- or NUL-padded fixed-width character field.
func cString(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}
