package raytrace

import (
	"errors"
	"fmt"
)

// ErrInvalidSvp is returned when the sound-velocity profile is degenerate:
// zero samples, or two consecutive samples sharing the same depth.
var ErrInvalidSvp = errors.New("invalid sound-velocity profile")

// ErrInvalidGeometry is returned when Snell's law produces a non-real
// sin(beta) in some layer, i.e. the beam has turned horizontal. The input
// ping is unphysical for the supplied SVP.
var ErrInvalidGeometry = errors.New("invalid ray geometry")

// TileDB schema/query construction and teardown errors, following the
// sentinel-plus-errors.Join convention used throughout tiledb.go.
var ErrCreateRtTdb = errors.New("error creating ray trace TileDB array")
var ErrWriteRtTdb = errors.New("error writing ray trace TileDB array")
var ErrAddFilters = errors.New("error adding filter to filter list")
var ErrDims = errors.New("error dims is not 1 or 2")
var ErrDtype = errors.New("error slice datatype is unexpected")
var ErrSetBuff = errors.New("error setting TileDB buffer")

// DepthConflictError names the two SVP sample depths that collide.
type DepthConflictError struct {
	Index  int
	DepthA float64
	DepthB float64
}

func (e *DepthConflictError) Error() string {
	return fmt.Sprintf("svp samples %d and %d share depth %.3f", e.Index, e.Index+1, e.DepthA)
}

// newDepthConflict builds the DepthConflictError for a duplicate-depth pair.
func newDepthConflict(i int, a, b float64) error {
	return errors.Join(ErrInvalidSvp, &DepthConflictError{Index: i, DepthA: a, DepthB: b})
}

// GeometryError names the layer and the Snell's-constant product that
// pushed sin(beta) out of the real domain.
type GeometryError struct {
	Layer int
	KC    float64
	Depth float64
	Speed float64
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("layer %d: |k*c|=%.6f >= 1 at depth %.3f, speed %.3f (beam turned horizontal)", e.Layer, e.KC, e.Depth, e.Speed)
}

// newGeometryError builds the GeometryError for a total-internal-reflection layer.
func newGeometryError(layer int, kc, depth, speed float64) error {
	return errors.Join(ErrInvalidGeometry, &GeometryError{Layer: layer, KC: kc, Depth: depth, Speed: speed})
}
