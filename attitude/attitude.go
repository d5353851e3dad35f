// Package attitude turns a vessel attitude time series (roll, pitch,
// heading, heave) into the imu2nav rotation matrix a ray trace needs at a
// given ping timestamp.
package attitude

import (
	"math"
	"sort"
	"time"

	raytrace "github.com/bathytrace/raytrace"
)

// Sample is a single vessel attitude measurement. Angles are in degrees,
// heave in metres, matching the units reported by a typical motion
// reference unit.
//
// Grounded on the teacher's Attitude (attitude.go): the same four
// measurement channels (Pitch, Roll, Heave, Heading) against a Timestamp,
// here kept as a row-oriented sample rather than a struct-of-slices record
// since this package's job is per-timestamp lookup, not bulk TileDB export.
type Sample struct {
	Timestamp time.Time
	Roll      float64
	Pitch     float64
	Heading   float64
	Heave     float64
}

// Series is a timestamp-ordered sequence of attitude samples.
type Series struct {
	samples []Sample
}

// NewSeries builds a Series from samples, sorting them by timestamp.
func NewSeries(samples []Sample) *Series {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })
	return &Series{samples: sorted}
}

// At linearly interpolates the attitude at t between the two bracketing
// samples. t before the first sample or after the last is clamped to the
// nearest endpoint.
func (s *Series) At(t time.Time) Sample {
	n := len(s.samples)
	if n == 0 {
		return Sample{}
	}
	if n == 1 || !t.After(s.samples[0].Timestamp) {
		return s.samples[0]
	}
	if !t.Before(s.samples[n-1].Timestamp) {
		return s.samples[n-1]
	}

	i := sort.Search(n, func(i int) bool { return s.samples[i].Timestamp.After(t) })
	lo, hi := s.samples[i-1], s.samples[i]

	span := hi.Timestamp.Sub(lo.Timestamp)
	if span <= 0 {
		return lo
	}
	frac := t.Sub(lo.Timestamp).Seconds() / span.Seconds()

	return Sample{
		Timestamp: t,
		Roll:      lo.Roll + frac*(hi.Roll-lo.Roll),
		Pitch:     lo.Pitch + frac*(hi.Pitch-lo.Pitch),
		Heading:   lo.Heading + frac*(hi.Heading-lo.Heading),
		Heave:     lo.Heave + frac*(hi.Heave-lo.Heave),
	}
}

// Imu2Nav builds the body-to-navigation-frame rotation matrix for the
// attitude interpolated at t, using the standard ZYX (yaw-pitch-roll)
// Euler composition into a North-East-Down direction cosine matrix.
func (s *Series) Imu2Nav(t time.Time) raytrace.Rotation {
	sample := s.At(t)
	return Imu2NavFromEuler(sample.Roll, sample.Pitch, sample.Heading)
}

// Imu2NavFromEuler builds the body-to-NED rotation matrix from roll,
// pitch, and heading, each in degrees, via the standard ZYX Euler
// composition R = Rz(heading) * Ry(pitch) * Rx(roll).
func Imu2NavFromEuler(rollDeg, pitchDeg, headingDeg float64) raytrace.Rotation {
	deg2rad := math.Pi / 180.0
	r, p, y := rollDeg*deg2rad, pitchDeg*deg2rad, headingDeg*deg2rad

	sr, cr := math.Sin(r), math.Cos(r)
	sp, cp := math.Sin(p), math.Cos(p)
	sy, cy := math.Sin(y), math.Cos(y)

	return raytrace.NewRotation([9]float64{
		cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr,
		sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr,
		-sp, cp * sr, cp * cr,
	})
}
