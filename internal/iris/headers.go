package iris

import (
	"encoding/binary"
	"fmt"
)

var le = binary.LittleEndian

func i16(b []byte, off int) int {
	return int(int16(le.Uint16(b[off:])))
}

func u16(b []byte, off int) uint16 {
	return le.Uint16(b[off:])
}

func i32(b []byte, off int) int {
	return int(int32(le.Uint32(b[off:])))
}

func u32(b []byte, off int) uint32 {
	return le.Uint32(b[off:])
}

func structureID(b []byte) int {
	return i16(b, 0)
}

func parseProductHeader(rec []byte) (ProductHeader, error) {
	if id := structureID(rec); id != StructProductHeader {
		return ProductHeader{}, fmt.Errorf("record 0: structure id %d, want product_hdr (%d)", id, StructProductHeader)
	}
	return ProductHeader{
		Type:        ProductType(u16(rec, offProductType)),
		TaskName:    cString(rec[offTaskName : offTaskName+12]),
		GeneratedAt: parseYMDS(rec[offGenerationTim:]),
	}, nil
}

func parseIngestHeader(rec []byte) (IngestHeader, error) {
	if id := structureID(rec); id != StructIngestHeader {
		return IngestHeader{}, fmt.Errorf("record 1: structure id %d, want ingest_header (%d)", id, StructIngestHeader)
	}
	return IngestHeader{
		SweepsCompleted: i16(rec, offSweepsCompleted),
		VolumeStart:     parseYMDS(rec[offVolumeStart:]),
		IRISVersion:     cString(rec[offIRISVersion : offIRISVersion+8]),
		Hardware:        cString(rec[offHardwareName : offHardwareName+16]),
		SiteName:        cString(rec[offSiteName : offSiteName+16]),

		Latitude:     SignedBIN4(u32(rec, offLatitude)),
		Longitude:    SignedBIN4(u32(rec, offLongitude)),
		GroundHeight: i16(rec, offGroundHeight),
		RadarHeight:  i16(rec, offRadarHeight),

		DataMask:   u32(rec, offDataMask),
		PRF:        i32(rec, offPRF),
		PulseWidth: float64(i32(rec, offPulseWidth)) / 100,
		MultiPRF:   int(u16(rec, offMultiPRF)),

		FirstBinRange: i32(rec, offFirstBinRange),
		LastBinRange:  i32(rec, offLastBinRange),
		OutputBins:    i16(rec, offOutputBins),
		OutputStep:    i32(rec, offOutputStep),

		ScanMode:          ScanMode(u16(rec, offScanMode)),
		AngularResolution: float64(i16(rec, offAngularRes)) / 1000,
		TaskSweeps:        i16(rec, offTaskSweeps),

		Wavelength: float64(i32(rec, offWavelength)) / 100,
		BeamwidthH: BIN4(u32(rec, offBeamwidthH)),
		BeamwidthV: BIN4(u32(rec, offBeamwidthV)),
	}, nil
}

func parseDataHeader(b []byte) (DataHeader, error) {
	if id := structureID(b); id != StructIngestDataHeader {
		return DataHeader{}, fmt.Errorf("structure id %d, want ingest_data_header (%d)", id, StructIngestDataHeader)
	}
	return DataHeader{
		SweepStart:    parseYMDS(b[offIDHSweepStart:]),
		Sweep:         i16(b, offIDHSweep),
		RaysPer360:    i16(b, offIDHRaysPer360),
		FirstRayIndex: i16(b, offIDHFirstRay),
		RaysExpected:  i16(b, offIDHRaysExpected),
		RaysWritten:   i16(b, offIDHRaysWritten),
		FixedAngle:    BIN2(u16(b, offIDHFixedAngle)),
		BitsPerBin:    i16(b, offIDHBits),
		DataType:      DataType(u16(b, offIDHDataType)),
	}, nil
}
