package iris

import (
	"fmt"
	"io"
	"time"
)

// Encode writes f in IRIS RAW layout. Every sweep must carry one field per
// data type in the ingest data mask, in mask order, each with the same
// number of rays.
func Encode(w io.Writer, f *RawFile) error {
	types := DataTypesFromMask(f.Ingest.DataMask)

	if _, err := w.Write(encodeProductHeader(f.Product)); err != nil {
		return fmt.Errorf("write product_hdr: %w", err)
	}
	if _, err := w.Write(encodeIngestHeader(f.Ingest)); err != nil {
		return fmt.Errorf("write ingest_header: %w", err)
	}

	recordNo := 2
	for _, sweep := range f.Sweeps {
		records, err := encodeSweep(sweep, types, recordNo)
		if err != nil {
			return fmt.Errorf("sweep %d: %w", sweep.Number, err)
		}
		for _, rec := range records {
			if _, err := w.Write(rec); err != nil {
				return fmt.Errorf("write record %d: %w", recordNo, err)
			}
			recordNo++
		}
	}
	return nil
}

func putStructureHeader(b []byte, id, size int) {
	le.PutUint16(b[0:], uint16(id))
	le.PutUint16(b[2:], 8) // format version
	le.PutUint32(b[4:], uint32(size))
}

func putString(b []byte, s string) {
	n := copy(b, s)
	for i := n; i < len(b); i++ {
		b[i] = 0
	}
}

func putYMDS(b []byte, t time.Time) {
	if t.IsZero() {
		return
	}
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	elapsed := t.Sub(midnight)
	le.PutUint32(b[0:], uint32(elapsed/time.Second))
	le.PutUint16(b[4:], uint16((elapsed%time.Second)/time.Millisecond))
	le.PutUint16(b[6:], uint16(t.Year()))
	le.PutUint16(b[8:], uint16(t.Month()))
	le.PutUint16(b[10:], uint16(t.Day()))
}

func encodeProductHeader(p ProductHeader) []byte {
	rec := make([]byte, RecordSize)
	putStructureHeader(rec, StructProductHeader, 640)
	putStructureHeader(rec[offProductConfig:], StructProductConfig, 320)
	le.PutUint16(rec[offProductType:], uint16(p.Type))
	putYMDS(rec[offGenerationTim:], p.GeneratedAt)
	putString(rec[offTaskName:offTaskName+12], p.TaskName)
	return rec
}

func encodeIngestHeader(h IngestHeader) []byte {
	rec := make([]byte, RecordSize)
	putStructureHeader(rec, StructIngestHeader, ingestHdrBytes)
	le.PutUint16(rec[offSweepsCompleted:], uint16(h.SweepsCompleted))
	putYMDS(rec[offVolumeStart:], h.VolumeStart)
	putString(rec[offIRISVersion:offIRISVersion+8], h.IRISVersion)
	putString(rec[offHardwareName:offHardwareName+16], h.Hardware)
	putString(rec[offSiteName:offSiteName+16], h.SiteName)

	le.PutUint32(rec[offLatitude:], ToBIN4(h.Latitude))
	le.PutUint32(rec[offLongitude:], ToBIN4(h.Longitude))
	le.PutUint16(rec[offGroundHeight:], uint16(h.GroundHeight))
	le.PutUint16(rec[offRadarHeight:], uint16(h.RadarHeight))

	le.PutUint32(rec[offDataMask:], h.DataMask)
	le.PutUint32(rec[offPRF:], uint32(h.PRF))
	le.PutUint32(rec[offPulseWidth:], uint32(h.PulseWidth*100+0.5))
	le.PutUint16(rec[offMultiPRF:], uint16(h.MultiPRF))

	le.PutUint32(rec[offFirstBinRange:], uint32(h.FirstBinRange))
	le.PutUint32(rec[offLastBinRange:], uint32(h.LastBinRange))
	le.PutUint16(rec[offOutputBins:], uint16(h.OutputBins))
	le.PutUint32(rec[offOutputStep:], uint32(h.OutputStep))

	le.PutUint16(rec[offScanMode:], uint16(h.ScanMode))
	le.PutUint16(rec[offAngularRes:], uint16(h.AngularResolution*1000+0.5))
	le.PutUint16(rec[offTaskSweeps:], uint16(h.TaskSweeps))

	le.PutUint32(rec[offWavelength:], uint32(h.Wavelength*100+0.5))
	le.PutUint32(rec[offBeamwidthH:], ToBIN4(h.BeamwidthH))
	le.PutUint32(rec[offBeamwidthV:], ToBIN4(h.BeamwidthV))
	return rec
}

func encodeDataHeader(b []byte, h DataHeader, raysWritten int) {
	putStructureHeader(b, StructIngestDataHeader, ingestDataHeaderSize)
	putYMDS(b[offIDHSweepStart:], h.SweepStart)
	le.PutUint16(b[offIDHSweep:], uint16(h.Sweep))
	le.PutUint16(b[offIDHRaysPer360:], uint16(h.RaysPer360))
	le.PutUint16(b[offIDHFirstRay:], uint16(h.FirstRayIndex))
	le.PutUint16(b[offIDHRaysExpected:], uint16(h.RaysExpected))
	le.PutUint16(b[offIDHRaysWritten:], uint16(raysWritten))
	le.PutUint16(b[offIDHFixedAngle:], ToBIN2(h.FixedAngle))
	le.PutUint16(b[offIDHBits:], uint16(h.BitsPerBin))
	le.PutUint16(b[offIDHDataType:], uint16(h.DataType))
}

func encodeSweep(s Sweep, types []DataType, firstRecord int) ([][]byte, error) {
	if s.Number <= 0 {
		return nil, fmt.Errorf("sweep number %d must be positive", s.Number)
	}
	if len(s.Fields) != len(types) {
		return nil, fmt.Errorf("%d fields for %d data types", len(s.Fields), len(types))
	}
	nrays := len(s.Fields[0].Rays)
	headers := make([]byte, len(types)*ingestDataHeaderSize)
	for i, field := range s.Fields {
		if field.Header.DataType != types[i] {
			return nil, fmt.Errorf("field %d is %s, mask expects %s", i, field.Header.DataType, types[i])
		}
		if len(field.Rays) != nrays {
			return nil, fmt.Errorf("field %s has %d rays, want %d", field.Header.DataType, len(field.Rays), nrays)
		}
		encodeDataHeader(headers[i*ingestDataHeaderSize:], field.Header, nrays)
	}

	var words []uint16
	for r := 0; r < nrays; r++ {
		for _, field := range s.Fields {
			words = append(words, compressRay(packRay(field.Rays[r], field.Header.BitsPerBin))...)
		}
	}
	payload := make([]byte, 2*len(words))
	for i, w := range words {
		le.PutUint16(payload[2*i:], w)
	}

	var records [][]byte
	body := append(headers, payload...)
	for len(body) > 0 || len(records) == 0 {
		rec := make([]byte, RecordSize)
		le.PutUint16(rec[offBhdrRecord:], uint16(firstRecord+len(records)))
		le.PutUint16(rec[offBhdrSweep:], uint16(s.Number))
		if len(records) == 0 {
			le.PutUint16(rec[offBhdrRayOff:], uint16((prodBhdrSize+len(headers))/2))
		}
		n := copy(rec[prodBhdrSize:], body)
		body = body[n:]
		records = append(records, rec)
	}
	return records, nil
}
