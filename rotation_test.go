package raytrace

import (
	"math"
	"testing"
)

func TestIdentityApply(t *testing.T) {
	r := Identity()
	x, y, z := r.Apply(1, 2, 3)
	if x != 1 || y != 2 || z != 3 {
		t.Errorf("expected (1,2,3), got (%f,%f,%f)", x, y, z)
	}
}

func TestRotationMul(t *testing.T) {
	r := Identity()
	s := Identity()
	combined := r.Mul(s)
	x, y, z := combined.Apply(4, 5, 6)
	if x != 4 || y != 5 || z != 6 {
		t.Errorf("expected (4,5,6), got (%f,%f,%f)", x, y, z)
	}
}

func TestResolveLaunchNadir(t *testing.T) {
	// spec.md 8, scenario 1: along=across=0 gives both azimuth components
	// zero and a straight-down depression angle.
	launch := resolveLaunch(0, 0, Identity(), Identity())
	if !closeEnough(launch.sinAz, 0, 1e-9) || !closeEnough(launch.cosAz, 0, 1e-9) {
		t.Errorf("expected zero azimuth components, got sinAz=%f cosAz=%f", launch.sinAz, launch.cosAz)
	}
	if !closeEnough(launch.beta0, math.Pi/2, 1e-9) {
		t.Errorf("expected beta0=pi/2, got %f", launch.beta0)
	}
}

func TestResolveLaunchOblique(t *testing.T) {
	// spec.md 8, scenario 2: across_track = pi/6 yields a 60 degree
	// depression angle and a unit azimuth pointed due east.
	launch := resolveLaunch(0, math.Pi/6, Identity(), Identity())
	if !closeEnough(launch.beta0, math.Pi/3, 1e-9) {
		t.Errorf("expected beta0=pi/3, got %f", launch.beta0)
	}
	if !closeEnough(launch.sinAz, 0, 1e-9) {
		t.Errorf("expected sinAz=0, got %f", launch.sinAz)
	}
	if !closeEnough(launch.cosAz, 1, 1e-9) {
		t.Errorf("expected cosAz=1, got %f", launch.cosAz)
	}
}
