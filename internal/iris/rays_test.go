package iris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordsToBytes(words []uint16) []byte {
	b := make([]byte, 2*len(words))
	for i, w := range words {
		le.PutUint16(b[2*i:], w)
	}
	return b
}

func TestDecompressRay(t *testing.T) {
	// 3 data words, 4 zeros, 1 data word, end.
	stream := &wordStream{buf: wordsToBytes([]uint16{
		0x8003, 10, 20, 30,
		4,
		0x8001, 40,
		1,
	})}
	words, err := stream.decompressRay()
	require.NoError(t, err)
	assert.Equal(t, []uint16{10, 20, 30, 0, 0, 0, 0, 40}, words)
}

func TestDecompressRay_Empty(t *testing.T) {
	stream := &wordStream{buf: wordsToBytes([]uint16{1, 0x8001, 7, 1})}

	words, err := stream.decompressRay()
	require.NoError(t, err)
	assert.Nil(t, words)

	words, err = stream.decompressRay()
	require.NoError(t, err)
	assert.Equal(t, []uint16{7}, words)
}

func TestDecompressRay_Truncated(t *testing.T) {
	stream := &wordStream{buf: wordsToBytes([]uint16{0x8004, 1, 2})}
	_, err := stream.decompressRay()
	assert.ErrorIs(t, err, errShortStream)
}

func TestCompressRay_RoundTrip(t *testing.T) {
	cases := map[string][]uint16{
		"empty":         nil,
		"all data":      {5, 6, 7, 8},
		"single zero":   {5, 0, 7},
		"zero run":      {5, 0, 0, 0, 0, 9},
		"leading zeros": {0, 0, 0, 3},
		"trailing zero": {3, 0},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			stream := &wordStream{buf: wordsToBytes(compressRay(in))}
			out, err := stream.decompressRay()
			require.NoError(t, err)
			assert.Equal(t, in, out)
			assert.Equal(t, len(stream.buf), stream.pos, "stream fully consumed")
		})
	}
}

func TestCompressRay_NeverEmitsEndCodeAsRun(t *testing.T) {
	for _, w := range compressRay([]uint16{0, 4, 0, 0, 0}) {
		if w == codeEndOfRay {
			return
		}
	}
	t.Fatal("missing end-of-ray")
}

func TestParseRay(t *testing.T) {
	words := []uint16{ToBIN2(90), ToBIN2(0.5), ToBIN2(91), ToBIN2(0.5), 3, 12, 0x0201, 0x0003}

	ray, err := parseRay(words, 8)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, ray.AzStart, 0.01)
	assert.InDelta(t, 90.5, ray.Azimuth(), 0.01)
	assert.Equal(t, 12, ray.Seconds)
	assert.Equal(t, []uint16{1, 2, 3}, ray.Data)

	_, err = parseRay([]uint16{1, 2}, 16)
	assert.Error(t, err)
}

func TestUnpackBins_PadsMissingTail(t *testing.T) {
	assert.Equal(t, []uint16{9, 0, 0}, unpackBins([]uint16{9}, 16, 3))
}

func TestRay_AzimuthWrapsNorth(t *testing.T) {
	r := Ray{AzStart: 359, AzEnd: 1, Data: []uint16{}}
	assert.InDelta(t, 0, r.Azimuth(), 1e-9)
}

func TestBinaryAngles(t *testing.T) {
	assert.InDelta(t, 180.0, BIN2(0x8000), 1e-9)
	assert.InDelta(t, 90.0, BIN4(0x40000000), 1e-9)
	assert.InDelta(t, -90.0, SignedBIN4(0xC0000000), 1e-9)
	assert.Equal(t, uint16(0), ToBIN2(360))
	assert.InDelta(t, -79.5739, SignedBIN4(ToBIN4(-79.5739)), 1e-6)
}

func TestYMDS_RoundTrip(t *testing.T) {
	want := time.Date(2016, 1, 20, 12, 50, 3, 250*int(time.Millisecond), time.UTC)
	b := make([]byte, 12)
	putYMDS(b, want)
	assert.Equal(t, want, parseYMDS(b))
	assert.True(t, parseYMDS(make([]byte, 12)).IsZero())
}

func TestDataTypesFromMask(t *testing.T) {
	mask := uint32(1<<DataDBZ2 | 1<<DataDBT2 | 1<<DataVEL2)
	assert.Equal(t, []DataType{DataDBT2, DataDBZ2, DataVEL2}, DataTypesFromMask(mask))
	assert.Empty(t, DataTypesFromMask(0))
}

func TestParseDataType(t *testing.T) {
	got, ok := ParseDataType("VEL2")
	require.True(t, ok)
	assert.Equal(t, DataVEL2, got)

	_, ok = ParseDataType("vel2")
	assert.False(t, ok)
}

func TestCString(t *testing.T) {
	assert.Equal(t, "WKR", cString([]byte("WKR\x00\x00garbage")))
	assert.Equal(t, "WKR", cString([]byte("WKR     ")))
}
