package raytrace

// Ping is a single acoustic pulse: a measured two-way travel time and the
// launch angles of the beam in the sonar frame, per spec.md 3 and the Ping
// contract in spec.md 6. It is immutable within a ray trace and is created
// by the caller for one trace and discarded, per spec.md 3/5.
//
// Mirrors the teacher's small-header-struct convention (svp_hdr,
// attitude_hdr in the teacher's svp.go/attitude.go): a plain struct with a
// constructor, no hidden state, no wire decoding (parsing manufacturer
// sonar formats is out of scope; this Ping is already-conditioned input).
type Ping struct {
	twoWayTravelTime  float64
	surfaceSoundSpeed float64
	transducerDepth   float64
	alongTrackAngle   float64
	acrossTrackAngle  float64
}

// NewPing constructs a Ping, validating the physical ranges required by
// spec.md 3: travel time >= 0, surface sound speed > 0, transducer depth
// >= 0.
func NewPing(twoWayTravelTime, surfaceSoundSpeed, transducerDepth, alongTrackAngle, acrossTrackAngle float64) (*Ping, error) {
	if twoWayTravelTime < 0 {
		return nil, ErrInvalidGeometry
	}
	if surfaceSoundSpeed <= 0 {
		return nil, ErrInvalidGeometry
	}
	if transducerDepth < 0 {
		return nil, ErrInvalidGeometry
	}

	return &Ping{
		twoWayTravelTime:  twoWayTravelTime,
		surfaceSoundSpeed: surfaceSoundSpeed,
		transducerDepth:   transducerDepth,
		alongTrackAngle:   alongTrackAngle,
		acrossTrackAngle:  acrossTrackAngle,
	}, nil
}

// TwoWayTravelTime returns the measured round-trip acoustic travel time, in seconds.
func (p *Ping) TwoWayTravelTime() float64 { return p.twoWayTravelTime }

// SurfaceSoundSpeed returns the sound speed at the transducer, in m/s.
func (p *Ping) SurfaceSoundSpeed() float64 { return p.surfaceSoundSpeed }

// TransducerDepth returns the transducer's depth below the surface, in metres.
func (p *Ping) TransducerDepth() float64 { return p.transducerDepth }

// AlongTrackAngle returns the beam's along-track launch angle in the sonar frame, in radians.
func (p *Ping) AlongTrackAngle() float64 { return p.alongTrackAngle }

// AcrossTrackAngle returns the beam's across-track launch angle in the sonar frame, in radians.
func (p *Ping) AcrossTrackAngle() float64 { return p.acrossTrackAngle }

// OneWayTravelTime returns T = twoWayTravelTime/2, the budget the
// integrator walks the SVP against.
func (p *Ping) OneWayTravelTime() float64 { return p.twoWayTravelTime / 2 }
