package iris

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// openStream returns a reader over the IRIS bytes of r, unwrapping gzip when
// the stream starts with the gzip magic. The returned close function releases
// the decompressor only; r is left open.
func openStream(r io.Reader) (io.Reader, func() error, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err == nil && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return zr, zr.Close, nil
	}
	return br, func() error { return nil }, nil
}

// HasMagic reports whether head begins with the product_hdr structure id.
func HasMagic(head []byte) bool {
	return len(head) >= 2 && int16(le.Uint16(head)) == StructProductHeader
}
