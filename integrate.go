package raytrace

import "math"

// LayerSegment is a single committed propagation step: the horizontal
// range and depth traversed across one layer (or the virtual seed layer,
// or the terminal tail), per spec.md 3.
type LayerSegment struct {
	DeltaRange float64
	DeltaDepth float64
}

// rayAccumulator walks the SVP from the transducer depth, accumulating
// range/depth/time until the one-way travel budget is exhausted, per
// spec.md 4.D. It mirrors the teacher's habit (ping.go) of looping across
// a bounded index range while committing to shared accumulators, here
// specialised to the three-step budgeted integration the spec requires.
type rayAccumulator struct {
	x, z, tCum float64
	segments   []LayerSegment
	times      []float64
	planar     bool
}

func newRayAccumulator(planar bool, capacityHint int) *rayAccumulator {
	ra := &rayAccumulator{planar: planar}
	if planar {
		ra.segments = make([]LayerSegment, 0, capacityHint)
		ra.times = make([]float64, 0, capacityHint)
	}
	return ra
}

func (ra *rayAccumulator) commit(lr layerResult) {
	ra.x += lr.dr
	ra.z += lr.dz
	ra.tCum += lr.dt
	if ra.planar {
		ra.segments = append(ra.segments, LayerSegment{DeltaRange: lr.dr, DeltaDepth: lr.dz})
		ra.times = append(ra.times, lr.dt)
	}
}

// integrate runs the three-step ray integration of spec.md 4.D:
//
//  1. if the transducer sits above the deepest SVP sample, propagate the
//     virtual seed layer from the transducer down to the first boundary,
//     committing it only if it fits inside the one-way budget;
//  2. walk interior layers forward from the seed boundary, committing
//     each only while it still fits inside the budget;
//  3. close the ray with a straight-line tail for whatever budget
//     remains, so that sum(committed dt) + tau == T exactly.
//
// Only ever adding dt to tCum on commit is what resolves spec.md's Step-1
// overshoot Open Question: an uncommitted seed's time never leaks into
// the Step-2 budget test (see SPEC_FULL.md 1 / DESIGN.md).
func integrate(ping *Ping, svp *SoundVelocityProfile, beta0 float64, planar bool) (*rayAccumulator, error) {
	n := svp.Size()
	depths := svp.Depths()
	speeds := svp.Speeds()
	gradients := svp.SoundSpeedGradient()

	T := ping.OneWayTravelTime()
	cSurface := ping.SurfaceSoundSpeed()
	k := math.Cos(beta0) / cSurface

	ra := newRayAccumulator(planar, n+1)

	if T <= 0 {
		return ra, nil
	}

	j0 := svp.LayerIndexForDepth(ping.TransducerDepth())

	// Step 1 - transducer-to-first-boundary seed.
	if j0 < n {
		td := ping.TransducerDepth()
		topDepth := depths[j0]
		var g float64
		if topDepth != td {
			g = (speeds[j0] - cSurface) / (topDepth - td)
		}

		lr, err := propagateLayer(td, topDepth, cSurface, speeds[j0], g, k, j0)
		if err != nil {
			return nil, err
		}
		if ra.tCum+lr.dt <= T {
			ra.commit(lr)
		}
	}

	// Step 2 - interior layers.
	i := j0
	for i < n-1 {
		lr, err := propagateLayer(depths[i], depths[i+1], speeds[i], speeds[i+1], gradients[i], k, i)
		if err != nil {
			return nil, err
		}
		if ra.tCum+lr.dt > T {
			break
		}
		ra.commit(lr)
		i++
	}

	// Step 3 - terminal tail.
	tau := T - ra.tCum
	var terminalSpeed float64
	var terminalDepth float64
	if j0 < n {
		terminalSpeed = speeds[i]
		terminalDepth = depths[i]
	} else {
		terminalSpeed = cSurface
		terminalDepth = ping.TransducerDepth()
	}

	lr, err := terminalTail(terminalSpeed, k, tau, i, terminalDepth)
	if err != nil {
		return nil, err
	}
	ra.commit(lr)

	return ra, nil
}
