package raytrace

import "math"

// gradientEpsilon is the tolerance (s^-1) below which a layer's sound-speed
// gradient is treated as zero and the layer is propagated as
// constant-celerity rather than as a circular arc.
const gradientEpsilon = 1e-6

// layerResult holds the output of propagating a ray across one layer:
// the horizontal range and depth traversed, and the time taken.
type layerResult struct {
	dr float64
	dz float64
	dt float64
}

// sinBeta returns sin(beta) for a layer of constant speed c and Snell's
// constant k, along with an error if the beam has turned horizontal
// (|k*c| >= 1) for the given layer index.
func sinBeta(k, c float64, layer int, depth float64) (float64, error) {
	kc := k * c
	s2 := 1 - kc*kc
	if s2 <= 0 {
		return 0, newGeometryError(layer, kc, depth, c)
	}
	return math.Sqrt(s2), nil
}

// constantCelerity propagates a ray across a layer of constant speed c
// spanning depths z0 to z1, per spec.md 4.A.
func constantCelerity(z0, z1, c, k float64, layer int) (layerResult, error) {
	sb, err := sinBeta(k, c, layer, z0)
	if err != nil {
		return layerResult{}, err
	}

	dz := z1 - z0
	dt := dz / (c * sb)
	dr := k * c * c * dt

	return layerResult{dr: dr, dz: dz, dt: dt}, nil
}

// constantGradient propagates a ray across a layer whose speed varies
// linearly from c0 at the top to c1 at the bottom with gradient g, per
// spec.md 4.A. The ray traces a circular arc of radius R = 1/(k*|g|).
func constantGradient(c0, c1, g, k float64, layer int, z0 float64) (layerResult, error) {
	sb0, err := sinBeta(k, c0, layer, z0)
	if err != nil {
		return layerResult{}, err
	}
	sb1, err := sinBeta(k, c1, layer, z0)
	if err != nil {
		return layerResult{}, err
	}

	// dz = (cosβ1-cosβ0)/(k·g) reduces algebraically to (c1-c0)/g, since
	// cosβ = k·c. Computing it this way avoids forming a 0/0 at k=0
	// (vertical beam) and keeps the sign of g intact, which a radius
	// built from |g| would otherwise lose.
	dz := (c1 - c0) / g

	var dr float64
	if k != 0 {
		dr = (sb0 - sb1) / (k * g)
	}

	dt := math.Abs((1 / g) * math.Log((c1/c0)*(1+sb0)/(1+sb1)))

	return layerResult{dr: dr, dz: dz, dt: dt}, nil
}

// propagateLayer dispatches to constantCelerity or constantGradient based
// on the gradient classifier (spec.md 4.A): a per-layer branch keyed on
// |g| < gradientEpsilon, not a polymorphic type hierarchy.
func propagateLayer(z0, z1, c0, c1, g, k float64, layer int) (layerResult, error) {
	if math.Abs(g) < gradientEpsilon {
		return constantCelerity(z0, z1, c0, k, layer)
	}
	return constantGradient(c0, c1, g, k, layer, z0)
}

// terminalTail propagates the remaining one-way budget tau as a
// straight line at the terminal speed cLast, without further
// refraction, per spec.md 4.A.
func terminalTail(cLast, k, tau float64, layer int, depth float64) (layerResult, error) {
	if tau <= 0 {
		return layerResult{}, nil
	}

	cb := k * cLast
	if math.Abs(cb) > 1 {
		return layerResult{}, newGeometryError(layer, cb, depth, cLast)
	}
	sb := math.Sqrt(1 - cb*cb)

	dr := cLast * tau * cb
	dz := cLast * tau * sb

	return layerResult{dr: dr, dz: dz, dt: tau}, nil
}
