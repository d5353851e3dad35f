package raytrace

// Point3 is a navigation-frame position (x_N north, y_E east, z_D down),
// in metres, per spec.md 3.
type Point3 struct {
	X float64
	Y float64
	Z float64
}

// Point2 is a planar (range, depth) decomposition of a ray, in metres.
type Point2 struct {
	Range float64
	Depth float64
}

// PlanarResult is the planar-mode output of spec.md 4.E: the (range,
// depth) point, the ordered per-layer segments that produced it, and
// their individual travel times.
type PlanarResult struct {
	Point             Point2
	LayerSegments     []LayerSegment
	LayerTravelTimes  []float64
}

// RayTrace computes the 3-D navigation-frame seabed-return position for a
// ping, given a sound-velocity profile and the two rotation matrices that
// carry a sonar-frame beam direction into the navigation frame, per
// spec.md 4.C/4.D/4.E and the rayTrace entry point of spec.md 6.
func RayTrace(ping *Ping, svp *SoundVelocityProfile, boresight, imu2nav Rotation) (Point3, error) {
	launch := resolveLaunch(ping.AlongTrackAngle(), ping.AcrossTrackAngle(), boresight, imu2nav)

	ra, err := integrate(ping, svp, launch.beta0, false)
	if err != nil {
		return Point3{}, err
	}

	return Point3{
		X: ra.x * launch.sinAz,
		Y: ra.x * launch.cosAz,
		Z: ra.z,
	}, nil
}

// PlanarRayTrace computes the same ray as RayTrace but returns the planar
// (range, depth) decomposition together with the per-layer segments and
// travel times accumulated during integration, per spec.md 4.E and the
// planarRayTrace entry point of spec.md 6. The caller may later orient
// this fan with the azimuth sin/cos from the launch-vector resolver.
func PlanarRayTrace(ping *Ping, svp *SoundVelocityProfile, boresight, imu2nav Rotation) (PlanarResult, error) {
	launch := resolveLaunch(ping.AlongTrackAngle(), ping.AcrossTrackAngle(), boresight, imu2nav)

	ra, err := integrate(ping, svp, launch.beta0, true)
	if err != nil {
		return PlanarResult{}, err
	}

	return PlanarResult{
		Point:             Point2{Range: ra.x, Depth: ra.z},
		LayerSegments:     ra.segments,
		LayerTravelTimes:  ra.times,
	}, nil
}
