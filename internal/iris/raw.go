package iris

import "time"

// ProductHeader is the subset of product_hdr the converter uses.
type ProductHeader struct {
	Type        ProductType
	TaskName    string
	GeneratedAt time.Time
}

// IngestHeader is the subset of ingest_header the converter uses.
type IngestHeader struct {
	SweepsCompleted int
	VolumeStart     time.Time
	IRISVersion     string
	Hardware        string
	SiteName        string

	Latitude     float64 // degrees
	Longitude    float64 // degrees
	GroundHeight int     // metres above sea level
	RadarHeight  int     // metres above ground

	DataMask   uint32
	PRF        int     // Hz
	PulseWidth float64 // microseconds
	MultiPRF   int     // 0 = 1:1, 1 = 2:3, 2 = 3:4, 3 = 4:5

	FirstBinRange int // cm
	LastBinRange  int // cm
	OutputBins    int
	OutputStep    int // cm

	ScanMode          ScanMode
	AngularResolution float64 // degrees
	TaskSweeps        int

	Wavelength float64 // cm
	BeamwidthH float64 // degrees
	BeamwidthV float64 // degrees
}

// DataHeader is one ingest_data_header.
type DataHeader struct {
	SweepStart    time.Time
	Sweep         int
	RaysPer360    int
	FirstRayIndex int
	RaysExpected  int
	RaysWritten   int
	FixedAngle    float64 // degrees
	BitsPerBin    int
	DataType      DataType
}

// Ray is one decompressed ray of one data type.
type Ray struct {
	AzStart float64
	ElStart float64
	AzEnd   float64
	ElEnd   float64
	Seconds int

	// Data holds one value per bin. One-byte types occupy the low byte.
	Data []uint16
}

// Empty reports whether the ray was not recorded.
func (r Ray) Empty() bool {
	return r.Data == nil
}

// Azimuth returns the centre azimuth of the ray in [0, 360).
func (r Ray) Azimuth() float64 {
	end := r.AzEnd
	if end < r.AzStart {
		end += 360
	}
	az := (r.AzStart + end) / 2
	if az >= 360 {
		az -= 360
	}
	return az
}

// Field is one data type recorded over a sweep.
type Field struct {
	Header DataHeader
	Rays   []Ray
}

// Sweep holds every data type recorded during one antenna sweep.
type Sweep struct {
	Number int
	Fields []Field
}

// RawFile is the decoded content of an IRIS RAW product file.
type RawFile struct {
	Product ProductHeader
	Ingest  IngestHeader
	Sweeps  []Sweep

	released bool
}

// Release drops the ray data. It is safe to call more than once.
func (f *RawFile) Release() {
	f.Sweeps = nil
	f.released = true
}

// Released reports whether Release has been called.
func (f *RawFile) Released() bool {
	return f.released
}
