package iris

import (
	"errors"
	"fmt"
)

var errShortStream = errors.New("ray stream ended early")

// wordStream reads 16-bit words from the concatenated payload of a sweep.
type wordStream struct {
	buf []byte
	pos int
}

func (s *wordStream) next() (uint16, error) {
	if s.pos+2 > len(s.buf) {
		return 0, errShortStream
	}
	w := le.Uint16(s.buf[s.pos:])
	s.pos += 2
	return w, nil
}

// decompressRay expands one run-length coded ray, returning nil for a ray
// that was not recorded.
func (s *wordStream) decompressRay() ([]uint16, error) {
	var out []uint16
	for {
		w, err := s.next()
		if err != nil {
			return nil, err
		}
		switch {
		case w == codeEndOfRay:
			return out, nil
		case w&codeDataRun != 0:
			n := int(w &^ codeDataRun)
			for i := 0; i < n; i++ {
				v, err := s.next()
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		default:
			out = append(out, make([]uint16, w)...)
		}
	}
}

// parseRay splits a decompressed ray into its header and bins.
func parseRay(words []uint16, bits int) (Ray, error) {
	if len(words) == 0 {
		return Ray{}, nil
	}
	if len(words) < rayHeaderWords {
		return Ray{}, fmt.Errorf("ray has %d words, header needs %d", len(words), rayHeaderWords)
	}
	ray := Ray{
		AzStart: BIN2(words[0]),
		ElStart: BIN2(words[1]),
		AzEnd:   BIN2(words[2]),
		ElEnd:   BIN2(words[3]),
		Seconds: int(words[5]),
	}
	bins := int(int16(words[4]))
	if bins < 0 {
		return Ray{}, fmt.Errorf("ray has negative bin count %d", bins)
	}
	ray.Data = unpackBins(words[rayHeaderWords:], bits, bins)
	return ray, nil
}

// unpackBins returns exactly bins values; bins past the compressed data are
// zero (below threshold).
func unpackBins(words []uint16, bits, bins int) []uint16 {
	out := make([]uint16, bins)
	if bits == 8 {
		for i := 0; i < bins && i/2 < len(words); i++ {
			w := words[i/2]
			if i%2 == 0 {
				out[i] = w & 0xff
			} else {
				out[i] = w >> 8
			}
		}
		return out
	}
	copy(out, words)
	return out
}

// compressRay run-length codes a ray. A nil ray becomes a lone end-of-ray.
func compressRay(words []uint16) []uint16 {
	out := make([]uint16, 0, len(words)+2)
	for i := 0; i < len(words); {
		if words[i] == 0 {
			j := i
			for j < len(words) && words[j] == 0 && j-i < 0x7fff {
				j++
			}
			if j-i > 1 {
				out = append(out, uint16(j-i))
				i = j
				continue
			}
		}
		j := i
		for j < len(words) && j-i < 0x7fff && !(words[j] == 0 && j+1 < len(words) && words[j+1] == 0) {
			j++
		}
		out = append(out, codeDataRun|uint16(j-i))
		out = append(out, words[i:j]...)
		i = j
	}
	return append(out, codeEndOfRay)
}

// packRay builds the uncompressed words of a ray: header then bins.
func packRay(r Ray, bits int) []uint16 {
	if r.Empty() {
		return nil
	}
	words := []uint16{
		ToBIN2(r.AzStart), ToBIN2(r.ElStart), ToBIN2(r.AzEnd), ToBIN2(r.ElEnd),
		uint16(len(r.Data)), uint16(r.Seconds),
	}
	if bits == 8 {
		for i := 0; i < len(r.Data); i += 2 {
			w := r.Data[i] & 0xff
			if i+1 < len(r.Data) {
				w |= (r.Data[i+1] & 0xff) << 8
			}
			words = append(words, w)
		}
		return words
	}
	return append(words, r.Data...)
}
