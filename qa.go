package raytrace

import (
	"github.com/samber/lo"
)

// ProfileQuality summarises sanity checks run over an SVP before it is
// handed to the integrator, per SPEC_FULL.md's ambient-stack note on
// surfacing degenerate profiles as a clear diagnostic rather than a raw
// divide-by-zero deep inside the integrator.
//
// Mirrors the teacher's QualityInfo (qa.go): a plain summary struct
// assembled with github.com/samber/lo set/aggregate helpers, reported
// before the expensive work runs rather than after it fails.
type ProfileQuality struct {
	SampleCount      int
	MinSpeed         float64
	MaxSpeed         float64
	DuplicateDepths  []float64
	MaxGradientMag   float64
}

// Inspect runs the pre-trace sanity checks of SPEC_FULL.md over an SVP
// already accepted by NewSoundVelocityProfile: it never rejects a valid
// profile, it only summarises it for logging/QA, since
// NewSoundVelocityProfile is what actually enforces the invariants.
func (s *SoundVelocityProfile) Inspect() ProfileQuality {
	depths := s.Depths()
	speeds := s.Speeds()
	gradients := s.SoundSpeedGradient()

	q := ProfileQuality{SampleCount: len(depths)}
	if len(speeds) > 0 {
		q.MinSpeed = lo.Min(speeds)
		q.MaxSpeed = lo.Max(speeds)
	}

	q.DuplicateDepths = lo.FindDuplicates(depths)

	for _, g := range gradients {
		abs := g
		if abs < 0 {
			abs = -abs
		}
		if abs > q.MaxGradientMag {
			q.MaxGradientMag = abs
		}
	}

	return q
}
