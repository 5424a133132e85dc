// Package astronomy implements the equatorial/horizontal coordinate
// conversions the Celestron driver needs for sidereal time and the az/alt
// wire opcodes. The original implementation treats this as an external
// collaborator specified only by signature; it is implemented here so
// the simulator and driver have something real to call.
package astronomy

import "math"

const degToRad = math.Pi / 180
const radToDeg = 180 / math.Pi

// DMS is a sign-and-magnitude angle, used where callers need degrees,
// minutes, and seconds rather than a decimal value.
type DMS struct {
	Negative bool
	Degrees  int
	Minutes  int
	Seconds  int
}

// FromDecimal splits a decimal-degree angle into its DMS parts.
func FromDecimal(deg float64) DMS {
	neg := deg < 0
	a := math.Abs(deg)
	d := math.Floor(a)
	frac := (a - d) * 60
	m := math.Floor(frac)
	s := (frac - m) * 60
	return DMS{Negative: neg, Degrees: int(d), Minutes: int(m), Seconds: int(math.Round(s))}
}

// ToDecimal recombines a DMS angle into decimal degrees.
func (d DMS) ToDecimal() float64 {
	v := float64(d.Degrees) + float64(d.Minutes)/60 + float64(d.Seconds)/3600
	if d.Negative {
		v = -v
	}
	return v
}

// ToGMST computes Greenwich Mean Sidereal Time, in degrees [0,360), for
// the given Julian day number.
func ToGMST(julianDay float64) float64 {
	t := (julianDay - 2451545.0) / 36525.0
	gmst := 280.46061837 + 360.98564736629*(julianDay-2451545.0) +
		0.000387933*t*t - t*t*t/38710000.0
	return normalizeDegrees(gmst)
}

// ToLST computes Local Sidereal Time in degrees [0,360) by adding
// east-positive longitude (degrees) to GMST.
func ToLST(julianDay, longitudeDeg float64) float64 {
	return normalizeDegrees(ToGMST(julianDay) + longitudeDeg)
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// RaDecToAzAlt converts equatorial (right ascension, declination, both in
// degrees) to horizontal (azimuth, altitude, both in degrees) for an
// observer at latitudeDeg given the local sidereal time in degrees.
func RaDecToAzAlt(raDeg, decDeg, latDeg, lstDeg float64) (azDeg, altDeg float64) {
	ha := normalizeDegrees(lstDeg - raDeg) * degToRad
	dec := decDeg * degToRad
	lat := latDeg * degToRad

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clamp(sinAlt, -1, 1))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clamp(cosAz, -1, 1))
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}
	return az * radToDeg, alt * radToDeg
}

// AzAltToRaDec is the inverse of RaDecToAzAlt.
func AzAltToRaDec(azDeg, altDeg, latDeg, lstDeg float64) (raDeg, decDeg float64) {
	az := azDeg * degToRad
	alt := altDeg * degToRad
	lat := latDeg * degToRad

	sinDec := math.Sin(alt)*math.Sin(lat) + math.Cos(alt)*math.Cos(lat)*math.Cos(az)
	dec := math.Asin(clamp(sinDec, -1, 1))

	cosHA := (math.Sin(alt) - math.Sin(dec)*math.Sin(lat)) / (math.Cos(dec) * math.Cos(lat))
	ha := math.Acos(clamp(cosHA, -1, 1))
	if math.Sin(az) > 0 {
		ha = 2*math.Pi - ha
	}
	ra := normalizeDegrees(lstDeg - ha*radToDeg)
	return ra, dec * radToDeg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
