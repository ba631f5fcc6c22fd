// Package iris decodes Vaisala IRIS RAW product files.
//
// # File layout
//
// An IRIS RAW file is a sequence of fixed 6144-byte records, little-endian
// throughout:
//
//	record 0   product_hdr     (structure id 27)
//	record 1   ingest_header   (structure id 23)
//	record 2.. data records, each starting with a 12-byte raw_prod_bhdr
//
// The first data record of every sweep carries one 76-byte
// ingest_data_header (structure id 24) per recorded data type, in ascending
// data type order. Ray data follows as a stream of 16-bit words that
// continues across record boundaries (skipping each record's raw_prod_bhdr).
//
// # Ray compression
//
// Rays are interleaved by data type: ray 0 of every type, then ray 1, and so
// on. Each ray is run-length coded:
//
//	0x8000|n  the next n words are data
//	n > 1     n words of zeros
//	1         end of ray
//
// A ray that was not recorded is a lone end-of-ray word. Otherwise the
// decompressed ray starts with a 6-word header (azimuth and elevation at
// start and end as binary angles, number of bins, seconds since the sweep
// start) followed by the bins. One-byte data types pack two bins per word,
// low byte first.
//
// # Angles
//
// BIN2 and BIN4 binary angles map the full unsigned range onto 360 degrees.
// Latitude and longitude are BIN4 values above 180 degrees taken as negative.
//
// Input may be gzip-compressed; the stream is unwrapped transparently.
package iris
