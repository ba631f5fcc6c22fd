// Package domain models polar weather radar data in the shape of the ODIM
// information model.
//
// # Objects
//
// Two object kinds are supported:
//
//	PVOL  a polar volume: one site, several sweeps at different elevations
//	SCAN  a single polar sweep
//
// Both carry the site location (WGS-84 degrees, height in metres above sea
// level), the nominal time and the half-power beamwidth. A scan holds one
// [Parameter] per measured quantity (DBZH, VRADH, ...), each a 2-D array of
// packed values indexed [ray][bin].
//
// # Packed values
//
// Parameter values are stored as unsigned 8- or 16-bit integers. The physical
// value is gain*N + offset. Two reserved raw values exist:
//
//	nodata    the bin was not scanned
//	undetect  the bin was scanned but nothing was detected
//
// # Rays
//
// Row 0 of every parameter is the ray whose azimuth centre is closest to
// north, rows advance clockwise. A1Gate names the row that was radiated
// first in time.
//
// # Attributes
//
// Quantities that ODIM places in "how" groups and that have no dedicated
// field live in [Attributes], keyed "how/<name>".
package domain
