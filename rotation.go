package raytrace

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rotation is a 3x3 orthonormal rotation matrix, used for both the
// boresight (sonar mechanical frame -> IMU frame) and imu2nav (IMU frame
// -> local North-East-Down navigation frame) matrices of spec.md 3.
//
// No direct teacher equivalent exists (the teacher never composes rotation
// matrices); gonum.org/v1/gonum/mat is wired in here because it is the
// pack's idiomatic dense-matrix library (present in the pack's
// emer-auditory and gonum-gonum go.mod files) and 3x3 rotation composition
// is squarely its job.
type Rotation struct {
	m *mat.Dense
}

// NewRotation builds a Rotation from nine row-major elements.
func NewRotation(elements [9]float64) Rotation {
	return Rotation{m: mat.NewDense(3, 3, elements[:])}
}

// Identity returns the 3x3 identity rotation.
func Identity() Rotation {
	return NewRotation([9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// Mul composes two rotations, returning r applied after s: (r . s).
func (r Rotation) Mul(s Rotation) Rotation {
	var out mat.Dense
	out.Mul(r.m, s.m)
	return Rotation{m: &out}
}

// Apply rotates a 3-vector (x, y, z) by this rotation matrix.
func (r Rotation) Apply(x, y, z float64) (rx, ry, rz float64) {
	v := mat.NewVecDense(3, []float64{x, y, z})
	var out mat.VecDense
	out.MulVec(r.m, v)
	return out.AtVec(0), out.AtVec(1), out.AtVec(2)
}

// launchGeometry is the output of the launch-vector resolver (spec.md
// 4.C): the sine/cosine of the navigation-frame azimuth and the
// depression angle of the ray at the transducer.
type launchGeometry struct {
	sinAz float64
	cosAz float64
	beta0 float64
}

// sonarUnitVector maps sonar-frame along-track/across-track beam angles
// to a unit vector in the sonar frame, per the sonar-to-cartesian contract
// in spec.md 6: (sin(a)*cos(g), sin(g), cos(a)*cos(g)).
func sonarUnitVector(along, across float64) (x, y, z float64) {
	sa, ca := math.Sin(along), math.Cos(along)
	sg, cg := math.Sin(across), math.Cos(across)
	return sa * cg, sg, ca * cg
}

// resolveLaunch derives the navigation-frame azimuth and depression angle
// for a beam launched at (along, across) in the sonar frame, per spec.md
// 4.C: rotate the sonar-frame unit vector through boresight then imu2nav,
// then decompose into horizontal azimuth sin/cos and vertical depression.
func resolveLaunch(along, across float64, boresight, imu2nav Rotation) launchGeometry {
	sx, sy, sz := sonarUnitVector(along, across)

	// normalise the sonar-frame vector (the convention already yields a
	// unit vector; this only removes rounding residue). It happens before
	// boresight and imu2nav are applied, so any scale in those matrices is
	// not removed.
	norm := math.Sqrt(sx*sx + sy*sy + sz*sz)
	sx, sy, sz = sx/norm, sy/norm, sz/norm

	bx, by, bz := boresight.Apply(sx, sy, sz)
	vx, vy, vz := imu2nav.Apply(bx, by, bz)

	h := math.Sqrt(vx*vx + vy*vy)

	var sinAz, cosAz float64
	if h > 0 {
		sinAz = vx / h
		cosAz = vy / h
	}

	beta0 := math.Asin(vz)

	return launchGeometry{sinAz: sinAz, cosAz: cosAz, beta0: beta0}
}
