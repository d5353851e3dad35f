package raytrace

import (
	"math"
	"testing"
)

func TestRayTraceScenario1IsovelocityNadir(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 1000}, []float64{1500, 1500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.2, 1500, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := RayTrace(ping, svp, Identity(), Identity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closeEnough(p.X, 0, 1e-4) || !closeEnough(p.Y, 0, 1e-4) || !closeEnough(p.Z, 150, 1e-4) {
		t.Errorf("expected (0,0,150), got (%f,%f,%f)", p.X, p.Y, p.Z)
	}
}

func TestRayTraceScenario2IsovelocityOblique(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 1000}, []float64{1500, 1500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.2, 1500, 0, 0, math.Pi/6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := PlanarRayTrace(ping, svp, Identity(), Identity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := res.Point.Range*res.Point.Range + res.Point.Depth*res.Point.Depth
	want := math.Pow(1500*0.1, 2)
	if !closeEnough(got, want, 1) {
		t.Errorf("expected range^2+depth^2=%f, got %f", want, got)
	}
}

func TestRayTraceScenario4TransducerBelowDeepestSample(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 100}, []float64{1500, 1480})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.08, 1475, 150, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := RayTrace(ping, svp, Identity(), Identity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantZ := 1475.0 * ping.OneWayTravelTime()
	if !closeEnough(p.X, 0, 1e-4) || !closeEnough(p.Y, 0, 1e-4) {
		t.Errorf("expected zero horizontal displacement for a nadir beam, got (%f,%f)", p.X, p.Y)
	}
	if !closeEnough(p.Z, wantZ, 1e-6) {
		t.Errorf("expected Z=%.6f, got %.6f", wantZ, p.Z)
	}
}

func TestPlanarAnd3DConsistency(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 50, 200}, []float64{1500, 1450, 1450})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.3, 1500, 0, math.Pi/8, math.Pi/5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p3, err := RayTrace(ping, svp, Identity(), Identity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	planar, err := PlanarRayTrace(ping, svp, Identity(), Identity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	launch := resolveLaunch(ping.AlongTrackAngle(), ping.AcrossTrackAngle(), Identity(), Identity())
	wantX := planar.Point.Range * launch.sinAz
	wantY := planar.Point.Range * launch.cosAz

	if !closeEnough(p3.X, wantX, 1e-9) || !closeEnough(p3.Y, wantY, 1e-9) {
		t.Errorf("expected 3-D (%f,%f) to match range*azimuth (%f,%f)", p3.X, p3.Y, wantX, wantY)
	}
	if !closeEnough(p3.Z, planar.Point.Depth, 1e-9) {
		t.Errorf("expected 3-D Z=%f to match planar depth=%f", p3.Z, planar.Point.Depth)
	}
}

func TestRoundTripOfLayerLists(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 50, 200, 500}, []float64{1500, 1450, 1450, 1490})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.4, 1500, 0, 0, math.Pi/4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := PlanarRayTrace(ping, svp, Identity(), Identity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sumRange, sumDepth float64
	for _, seg := range res.LayerSegments {
		sumRange += seg.DeltaRange
		sumDepth += seg.DeltaDepth
	}
	if !closeEnough(sumRange, res.Point.Range, 1e-9) {
		t.Errorf("expected segment ranges to sum to %f, got %f", res.Point.Range, sumRange)
	}
	if !closeEnough(sumDepth, res.Point.Depth, 1e-9) {
		t.Errorf("expected segment depths to sum to %f, got %f", res.Point.Depth, sumDepth)
	}
}

func TestIsotropyUnderHeadingRotation(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 50, 200}, []float64{1500, 1450, 1450})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.3, 1500, 0, 0, math.Pi/4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base, err := RayTrace(ping, svp, Identity(), Identity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	baseHoriz := math.Sqrt(base.X*base.X + base.Y*base.Y)

	// A rotation purely about the down axis (yaw) leaves the depression
	// angle, and therefore the planar (range, depth), unchanged; only the
	// horizontal heading of the 3-D result should rotate.
	psi := math.Pi / 3
	yaw := NewRotation([9]float64{
		math.Cos(psi), -math.Sin(psi), 0,
		math.Sin(psi), math.Cos(psi), 0,
		0, 0, 1,
	})

	rotated, err := RayTrace(ping, svp, Identity(), yaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rotatedHoriz := math.Sqrt(rotated.X*rotated.X + rotated.Y*rotated.Y)

	if !closeEnough(base.Z, rotated.Z, 1e-9) {
		t.Errorf("expected Z unchanged under yaw, got base=%f rotated=%f", base.Z, rotated.Z)
	}
	if !closeEnough(baseHoriz, rotatedHoriz, 1e-9) {
		t.Errorf("expected horizontal range unchanged under yaw, got base=%f rotated=%f", baseHoriz, rotatedHoriz)
	}
}
