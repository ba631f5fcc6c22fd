package iris

// RecordSize is the length of every IRIS file record.
const RecordSize = 6144

// Structure identifiers found in structure_header.
const (
	StructIngestHeader     = 23
	StructIngestDataHeader = 24
	StructProductConfig    = 26
	StructProductHeader    = 27
)

// Structure sizes.
const (
	structureHeaderSize  = 12
	prodBhdrSize         = 12
	ingestDataHeaderSize = 76
	rayHeaderWords       = 6
)

// Offsets into record 0.
const (
	offProductConfig = structureHeaderSize
	offProductType   = offProductConfig + 12
	offGenerationTim = offProductConfig + 20
	offTaskName      = offProductConfig + 74
)

// Offsets into record 1.
const (
	offIngestConfig    = structureHeaderSize
	offSweepsCompleted = offIngestConfig + 82
	offVolumeStart     = offIngestConfig + 88
	offIRISVersion     = offIngestConfig + 124
	offHardwareName    = offIngestConfig + 132
	offSiteName        = offIngestConfig + 150
	offLatitude        = offIngestConfig + 168
	offLongitude       = offIngestConfig + 172
	offGroundHeight    = offIngestConfig + 176
	offRadarHeight     = offIngestConfig + 178

	offTaskConfig = offIngestConfig + 480

	offDSPInfo    = offTaskConfig + 132
	offDataMask   = offDSPInfo + 4
	offPRF        = offDSPInfo + 136
	offPulseWidth = offDSPInfo + 140
	offMultiPRF   = offDSPInfo + 144

	offRangeInfo     = offTaskConfig + 772
	offFirstBinRange = offRangeInfo
	offLastBinRange  = offRangeInfo + 4
	offOutputBins    = offRangeInfo + 10
	offOutputStep    = offRangeInfo + 16

	offScanInfo    = offTaskConfig + 932
	offScanMode    = offScanInfo
	offAngularRes  = offScanInfo + 2
	offTaskSweeps  = offScanInfo + 6
	offMiscInfo    = offTaskConfig + 1252
	offWavelength  = offMiscInfo
	offBeamwidthH  = offMiscInfo + 44
	offBeamwidthV  = offMiscInfo + 48
	ingestHdrBytes = offMiscInfo + 320 + 320
)

// Offsets into raw_prod_bhdr.
const (
	offBhdrRecord = 0
	offBhdrSweep  = 2
	offBhdrRayOff = 4
)

// Offsets into ingest_data_header.
const (
	offIDHSweepStart   = 12
	offIDHSweep        = 24
	offIDHRaysPer360   = 26
	offIDHFirstRay     = 28
	offIDHRaysExpected = 30
	offIDHRaysWritten  = 32
	offIDHFixedAngle   = 34
	offIDHBits         = 36
	offIDHDataType     = 38
)

// Ray compression control words.
const (
	codeEndOfRay = 0x0001
	codeDataRun  = 0x8000
)
