package raytrace

import (
	"sort"
)

// SoundVelocityProfile is an ordered sequence of depth/speed samples
// describing sound speed as a function of depth, per spec.md 3. Depth must
// be strictly monotonically non-decreasing and no two consecutive samples
// may share a depth.
//
// Mirrors the teacher's struct-of-slices SVP shape (svp.go's
// SoundVelocityProfile), minus the GSF wire decoding: this type is built
// directly by the caller (or via NewSoundVelocityProfile for validation)
// rather than decoded from a manufacturer record.
type SoundVelocityProfile struct {
	depth    []float64
	speed    []float64
	gradient []float64
}

// NewSoundVelocityProfile validates and constructs an SVP from ordered
// depth/speed samples. It returns ErrInvalidSvp if the profile is empty or
// if two consecutive samples share a depth.
func NewSoundVelocityProfile(depth, speed []float64) (*SoundVelocityProfile, error) {
	n := len(depth)
	if n == 0 || len(speed) != n {
		return nil, ErrInvalidSvp
	}

	if !sort.Float64sAreSorted(depth) {
		return nil, ErrInvalidSvp
	}

	gradient := make([]float64, 0, n-1)
	for i := 0; i < n-1; i++ {
		dz := depth[i+1] - depth[i]
		if dz == 0 {
			return nil, newDepthConflict(i, depth[i], depth[i+1])
		}
		gradient = append(gradient, (speed[i+1]-speed[i])/dz)
	}

	return &SoundVelocityProfile{
		depth:    depth,
		speed:    speed,
		gradient: gradient,
	}, nil
}

// Depths returns the ordered sequence of sample depths, in metres.
func (s *SoundVelocityProfile) Depths() []float64 { return s.depth }

// Speeds returns the ordered sequence of sample speeds, in m/s.
func (s *SoundVelocityProfile) Speeds() []float64 { return s.speed }

// SoundSpeedGradient returns the per-interval gradient, length N-1, in
// (m/s)/m.
func (s *SoundVelocityProfile) SoundSpeedGradient() []float64 { return s.gradient }

// Size returns N, the number of depth/speed samples.
func (s *SoundVelocityProfile) Size() int { return len(s.depth) }

// LayerIndexForDepth returns the smallest index j such that depth[j] >= d,
// or Size() if d exceeds every sample depth.
func (s *SoundVelocityProfile) LayerIndexForDepth(d float64) int {
	return sort.Search(len(s.depth), func(i int) bool { return s.depth[i] >= d })
}
