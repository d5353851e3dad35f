package raytrace

import (
	"math"
	"testing"
)

// TestConstantGradientNegativeSlopeSpansExactDepth guards the sign fix in
// layer.go: a layer whose speed decreases with depth (g<0, the common case
// in the upper ocean) must still span its known z1-z0, not its negation.
func TestConstantGradientNegativeSlopeSpansExactDepth(t *testing.T) {
	k := math.Cos(math.Pi/3) / 1500 // spec.md 8 scenario 3: beta0 = 60 degrees
	lr, err := constantGradient(1500, 1450, -1, k, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closeEnough(lr.dz, 50, 1e-9) {
		t.Errorf("dz: expected 50, got %f", lr.dz)
	}
	if lr.dr <= 0 {
		t.Errorf("expected positive horizontal range for a descending oblique beam, got %f", lr.dr)
	}
}

// TestConstantGradientArcAgainstNumericalIntegral is spec.md 8 scenario 5:
// the closed-form circular-arc formulae must reproduce a direct numerical
// integral of dz/dt = c(z)*sin(beta(z)) within 1cm (here checked via the
// range and time integrals, which bound the depth integral through the
// layer's known endpoints).
func TestConstantGradientArcAgainstNumericalIntegral(t *testing.T) {
	c0, c1, g := 1500.0, 1520.0, 0.02
	k := math.Cos(math.Pi/3) / 1500

	lr, err := constantGradient(c0, c1, g, k, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const steps = 200000
	step := 1000.0 / float64(steps) // layer spans 1000m at this gradient (20/0.02)
	var tNum, rNum float64
	z := 0.0
	for i := 0; i < steps; i++ {
		c := c0 + g*(z+step/2)
		kc := k * c
		sb := math.Sqrt(1 - kc*kc)
		tNum += step / (c * sb)
		rNum += step * (kc / sb)
		z += step
	}

	if !closeEnough(tNum, lr.dt, 1e-4) {
		t.Errorf("numerical dt=%.8f, closed-form dt=%.8f", tNum, lr.dt)
	}
	if !closeEnough(rNum, lr.dr, 1e-2) {
		t.Errorf("numerical dr=%.4f, closed-form dr=%.4f", rNum, lr.dr)
	}
}

// TestTravelTimeClosure checks that the committed times plus the terminal
// tail sum exactly to the one-way travel budget, for every integrate call.
func TestTravelTimeClosure(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 50, 200, 500}, []float64{1500, 1450, 1450, 1490})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.3, 1500, 0, 0, math.Pi/6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ra, err := integrate(ping, svp, math.Pi/3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum float64
	for _, dt := range ra.times {
		sum += dt
	}
	if !closeEnough(sum, ping.OneWayTravelTime(), 1e-9) {
		t.Errorf("expected committed times to sum to T=%.9f, got %.9f", ping.OneWayTravelTime(), sum)
	}
}

// TestMonotonicityStep2 checks that depth accumulates non-decreasing across
// committed layers for a downward-looking beam.
func TestMonotonicityStep2(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 100, 300, 600}, []float64{1500, 1490, 1495, 1510})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.6, 1500, 0, 0, math.Pi/4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ra, err := integrate(ping, svp, math.Pi/4, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	depth := 0.0
	for i, seg := range ra.segments {
		if seg.DeltaDepth < 0 {
			t.Fatalf("segment %d: expected non-negative depth delta, got %f", i, seg.DeltaDepth)
		}
		depth += seg.DeltaDepth
	}
	if !closeEnough(depth, ra.z, 1e-9) {
		t.Errorf("expected summed segment depth %f to equal accumulator z %f", depth, ra.z)
	}
}

// TestTwoLayerRefractionScenario is spec.md 8 scenario 3: the second
// interior layer (50m-200m, zero gradient) does not fit inside the
// remaining budget and only the seed-to-first-boundary layer plus a
// terminal tail are committed.
func TestTwoLayerRefractionScenario(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 50, 200}, []float64{1500, 1450, 1450})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.3, 1500, 0, 0, math.Pi/3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ra, err := integrate(ping, svp, math.Pi/3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ra.segments) != 2 {
		t.Fatalf("expected 2 committed segments (first layer + terminal tail), got %d", len(ra.segments))
	}
	if !closeEnough(ra.segments[0].DeltaDepth, 50, 1e-9) {
		t.Errorf("expected first committed layer to span the full 0-50m boundary, got %f", ra.segments[0].DeltaDepth)
	}

	var sum float64
	for _, dt := range ra.times {
		sum += dt
	}
	if !closeEnough(sum, ping.OneWayTravelTime(), 1e-9) {
		t.Errorf("expected closure to T=%.9f, got %.9f", ping.OneWayTravelTime(), sum)
	}
}

// TestStep1SkippedWhenTransducerBelowDeepestSample is spec.md 8 scenario 4:
// the transducer sits below every SVP sample, so the seed layer and the
// interior loop both contribute nothing and the whole budget is spent on
// the terminal tail at the surface sound speed.
func TestStep1SkippedWhenTransducerBelowDeepestSample(t *testing.T) {
	svp, err := NewSoundVelocityProfile([]float64{0, 100}, []float64{1500, 1480})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ping, err := NewPing(0.08, 1475, 150, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ra, err := integrate(ping, svp, math.Pi/2, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ra.segments) != 1 {
		t.Fatalf("expected exactly one committed segment (the terminal tail), got %d", len(ra.segments))
	}
	wantZ := 1475.0 * ping.OneWayTravelTime()
	if !closeEnough(ra.z, wantZ, 1e-6) {
		t.Errorf("expected z=%.6f, got %.6f", wantZ, ra.z)
	}
	if !closeEnough(ra.x, 0, 1e-9) {
		t.Errorf("expected zero range for a nadir beam, got %f", ra.x)
	}
}
