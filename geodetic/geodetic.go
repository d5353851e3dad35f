// Package geodetic converts navigation-frame ray trace output (north/east
// offsets from a vessel position) into geographic longitude/latitude, for
// callers that need traced seabed returns placed on a chart rather than
// left in the local NED frame.
package geodetic

import (
	"math"
)

// Wgs84Coefficients contains the coefficients used to convert north/east
// metre offsets to longitude/latitude degrees at a given latitude. See
// https://gis.stackexchange.com/questions/75528/understanding-terms-in-length-of-degree-formula.
//
// Grounded on the teacher's geo.go GeoCoefficients/NewCoefWgs84/BeamsLonLat,
// generalised from per-beam across/along-track offsets to the north/east
// offsets a ray trace produces.
type Wgs84Coefficients struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
	G float64
}

// NewWgs84Coefficients initialises a Wgs84Coefficients with coefficients
// set for the WGS84 datum.
func NewWgs84Coefficients() *Wgs84Coefficients {
	return &Wgs84Coefficients{
		A: 111132.92,
		B: 559.82,
		C: 1.175,
		D: 0.0023,
		E: 111412.84,
		F: 93.5,
		G: 0.118,
	}
}

// LonLat holds parallel longitude/latitude slices.
type LonLat struct {
	Longitude []float64
	Latitude  []float64
}

// OffsetsToLonLat converts north/east metre offsets from a vessel position
// (lon, lat in degrees) into longitude/latitude by applying the WGS84
// metres-per-degree scale factors at lat. The offsets are already aligned
// with north and east, so heading does not enter the conversion.
func OffsetsToLonLat(lon, lat float64, heading float64, north, east []float64, coef *Wgs84Coefficients) LonLat {
	deg2rad := math.Pi / 180.0

	latRad := deg2rad * lat

	latSf := coef.A -
		coef.B*math.Cos(2.0*latRad) +
		coef.C*math.Cos(4.0*latRad) -
		coef.D*math.Cos(6.0*latRad)

	lonSf := coef.E*math.Cos(latRad) -
		coef.F*math.Cos(3.0*latRad) +
		coef.G*math.Cos(5.0*latRad)

	n := len(north)
	result := LonLat{
		Longitude: make([]float64, n),
		Latitude:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		result.Longitude[i] = lon + east[i]/lonSf
		result.Latitude[i] = lat + north[i]/latSf
	}

	return result
}
