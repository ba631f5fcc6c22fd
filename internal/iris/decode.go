package iris

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var (
	// ErrTruncated is returned when a file ends before its headers do.
	ErrTruncated = errors.New("truncated IRIS file")
	// ErrCorrupt is returned when a header field holds an impossible value.
	ErrCorrupt = errors.New("corrupt IRIS file")
)

// Decoder reads IRIS RAW files from disk.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a Decoder.
func NewDecoder(logger *slog.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Probe classifies path; see [Probe].
func (d *Decoder) Probe(path string) Format {
	return Probe(path)
}

// Release frees a file returned by Decode.
func (d *Decoder) Release(f *RawFile) {
	f.Release()
}

// Decode reads and parses the file at path.
func (d *Decoder) Decode(ctx context.Context, path string) (*RawFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	r, closeStream, err := openStream(fh)
	if err != nil {
		return nil, err
	}
	defer closeStream() //nolint:errcheck // read side

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	raw, err := Parse(ctx, data)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("iris file decoded",
		"path", path,
		"bytes", len(data),
		"product", raw.Product.Type,
		"site", raw.Ingest.SiteName,
		"sweeps", len(raw.Sweeps),
	)
	return raw, nil
}

// Parse decodes an in-memory IRIS RAW file.
func Parse(ctx context.Context, data []byte) (*RawFile, error) {
	if len(data) < 2*RecordSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncated, len(data), 2*RecordSize)
	}

	product, err := parseProductHeader(data[:RecordSize])
	if err != nil {
		return nil, err
	}
	ingest, err := parseIngestHeader(data[RecordSize : 2*RecordSize])
	if err != nil {
		return nil, err
	}

	raw := &RawFile{Product: product, Ingest: ingest}
	if product.Type != ProductRaw {
		// Only RAW products carry ray data; the headers are still useful.
		return raw, nil
	}

	types := DataTypesFromMask(ingest.DataMask)
	if len(types) == 0 {
		return nil, errors.New("ingest header has an empty data type mask")
	}

	for _, group := range groupSweepRecords(data[2*RecordSize:]) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sweep, err := parseSweep(group, len(types))
		if err != nil {
			return nil, fmt.Errorf("sweep %d: %w", group.sweep, err)
		}
		raw.Sweeps = append(raw.Sweeps, sweep)
	}
	return raw, nil
}

type sweepRecords struct {
	sweep   int
	records [][]byte
}

// groupSweepRecords collects consecutive data records by sweep number. A
// record with sweep number zero or below ends the data.
func groupSweepRecords(data []byte) []sweepRecords {
	var groups []sweepRecords
	for off := 0; off+prodBhdrSize <= len(data); off += RecordSize {
		end := off + RecordSize
		if end > len(data) {
			end = len(data)
		}
		rec := data[off:end]
		sweep := i16(rec, offBhdrSweep)
		if sweep <= 0 {
			break
		}
		if n := len(groups); n > 0 && groups[n-1].sweep == sweep {
			groups[n-1].records = append(groups[n-1].records, rec)
			continue
		}
		groups = append(groups, sweepRecords{sweep: sweep, records: [][]byte{rec}})
	}
	return groups
}

func parseSweep(group sweepRecords, ntypes int) (Sweep, error) {
	first := group.records[0]
	headersEnd := prodBhdrSize + ntypes*ingestDataHeaderSize
	if len(first) < headersEnd {
		return Sweep{}, fmt.Errorf("%w: first record too short for %d data headers", ErrTruncated, ntypes)
	}

	sweep := Sweep{Number: group.sweep, Fields: make([]Field, ntypes)}
	for i := 0; i < ntypes; i++ {
		off := prodBhdrSize + i*ingestDataHeaderSize
		h, err := parseDataHeader(first[off : off+ingestDataHeaderSize])
		if err != nil {
			return Sweep{}, fmt.Errorf("data header %d: %w", i, err)
		}
		if err := checkDataHeader(h); err != nil {
			return Sweep{}, fmt.Errorf("data header %d: %w", i, err)
		}
		sweep.Fields[i].Header = h
	}

	payload := make([]byte, 0, len(group.records)*RecordSize)
	payload = append(payload, first[headersEnd:]...)
	for _, rec := range group.records[1:] {
		payload = append(payload, rec[prodBhdrSize:]...)
	}
	stream := &wordStream{buf: payload}

	nrays := sweep.Fields[0].Header.RaysWritten
	for i := range sweep.Fields {
		sweep.Fields[i].Rays = make([]Ray, 0, nrays)
	}
	for r := 0; r < nrays; r++ {
		for i := range sweep.Fields {
			words, err := stream.decompressRay()
			if err != nil {
				return Sweep{}, fmt.Errorf("ray %d of %s: %w", r, sweep.Fields[i].Header.DataType, err)
			}
			ray, err := parseRay(words, sweep.Fields[i].Header.BitsPerBin)
			if err != nil {
				return Sweep{}, fmt.Errorf("ray %d of %s: %w", r, sweep.Fields[i].Header.DataType, err)
			}
			sweep.Fields[i].Rays = append(sweep.Fields[i].Rays, ray)
		}
	}
	return sweep, nil
}

// checkDataHeader rejects ray counts and bit depths the ray decoder cannot
// honour.
func checkDataHeader(h DataHeader) error {
	if h.RaysWritten < 0 {
		return fmt.Errorf("%w: %d rays written", ErrCorrupt, h.RaysWritten)
	}
	if h.RaysExpected > 0 && h.RaysWritten > h.RaysExpected {
		return fmt.Errorf("%w: %d rays written, %d expected", ErrCorrupt, h.RaysWritten, h.RaysExpected)
	}
	if h.BitsPerBin != 8 && h.BitsPerBin != 16 {
		return fmt.Errorf("%w: %d bits per bin", ErrCorrupt, h.BitsPerBin)
	}
	return nil
}
