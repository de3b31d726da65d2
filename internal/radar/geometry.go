// Package radar turns leveled sensors into radial detection arcs on the
// fixed circular galaxy topology, and manages the encrypted scanner entry
// rows those arcs are derived from. The geometry itself is a stateless
// function library with no I/O.
package radar

import "math"

const (
	// SystemsPerGalaxy is the fixed ring size; system i sits at angle
	// 2π(i-1)/SystemsPerGalaxy.
	SystemsPerGalaxy = 400
	// GalaxyCount bounds the galaxy index.
	GalaxyCount = 14

	// BaseOrbitRadius is the render radius of the system ring. Own-track
	// arcs draw outside it, third-party arcs inside, so the two tracks
	// never overlap at the same system.
	BaseOrbitRadius = 600
	// TrackOffset separates the two arc tracks from the orbit ring.
	TrackOffset = 40
)

// Track classifies a scanner entry as the alliance's own sensor or an
// observed third party's.
type Track string

const (
	TrackOwn        Track = "own"
	TrackThirdParty Track = "third_party"
)

// Valid reports whether t is one of the two known tracks.
func (t Track) Valid() bool {
	return t == TrackOwn || t == TrackThirdParty
}

// RangeForLevel maps a sensor level to its detection range in system-count
// units. This is the sole source of truth for sensor coverage; range is
// always recomputed from level at write time so the two cannot drift.
func RangeForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return level*level + level + 1
}

// Arc describes a sensor's coverage as a single directed curve over the
// system ring. Angles are radians; the arc runs clockwise from start to
// end and may legally cross the 0/2π boundary.
type Arc struct {
	StartAngle   float64 `json:"start_angle"`
	EndAngle     float64 `json:"end_angle"`
	StartX       float64 `json:"start_x"`
	StartY       float64 `json:"start_y"`
	EndX         float64 `json:"end_x"`
	EndY         float64 `json:"end_y"`
	Radius       float64 `json:"radius"`
	LargeArcFlag int     `json:"large_arc_flag"`
}

// ArcFor renders the coverage of a sensor at systemIndex with the given
// range. The span runs from systemIndex-rng-0.5 to systemIndex+rng+0.5 —
// the half-system padding keeps arc edges visually between systems rather
// than centered on them. LargeArcFlag is 1 when the angular span exceeds
// half the circle, which single-curve renderers need to pick the long way
// around.
func ArcFor(systemIndex, rng int, track Track) Arc {
	radius := float64(BaseOrbitRadius + TrackOffset)
	if track == TrackThirdParty {
		radius = BaseOrbitRadius - TrackOffset
	}

	start := angleFor(float64(systemIndex) - float64(rng) - 0.5)
	end := angleFor(float64(systemIndex) + float64(rng) + 0.5)

	large := 0
	if 2*float64(rng)/SystemsPerGalaxy > 0.5 {
		large = 1
	}

	return Arc{
		StartAngle:   start,
		EndAngle:     end,
		StartX:       math.Cos(start) * radius,
		StartY:       math.Sin(start) * radius,
		EndX:         math.Cos(end) * radius,
		EndY:         math.Sin(end) * radius,
		Radius:       radius,
		LargeArcFlag: large,
	}
}

// angleFor converts a (possibly fractional, possibly out-of-ring) system
// position into an angle, wrapping modulo the ring size.
func angleFor(systemPos float64) float64 {
	wrapped := math.Mod(systemPos-1, SystemsPerGalaxy)
	if wrapped < 0 {
		wrapped += SystemsPerGalaxy
	}
	return wrapped / SystemsPerGalaxy * 2 * math.Pi
}
