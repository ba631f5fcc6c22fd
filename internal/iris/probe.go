package iris

import (
	"io"
	"os"
)

// Format classifies a path before decoding.
type Format int

const (
	FormatUnreadable Format = iota
	FormatOther
	FormatIRIS
)

func (f Format) String() string {
	switch f {
	case FormatIRIS:
		return "iris"
	case FormatOther:
		return "other"
	default:
		return "unreadable"
	}
}

// Probe reports whether path is a regular readable file holding IRIS data.
// It never fails: problems opening the file classify as FormatUnreadable and
// anything that does not start like an IRIS product as FormatOther.
func Probe(path string) Format {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return FormatUnreadable
	}
	f, err := os.Open(path)
	if err != nil {
		return FormatUnreadable
	}
	defer f.Close()

	r, closeStream, err := openStream(f)
	if err != nil {
		return FormatOther
	}
	defer closeStream() //nolint:errcheck // read-only sniff

	head := make([]byte, 2)
	if _, err := io.ReadFull(r, head); err != nil {
		return FormatOther
	}
	if !HasMagic(head) {
		return FormatOther
	}
	return FormatIRIS
}
