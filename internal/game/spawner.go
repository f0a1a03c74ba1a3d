package game

import (
	"math"
	"math/rand/v2"
)

// Ring scales applied to the visible field's half extents.
const (
	WaveRingScale       = 2.4  // asteroids start well off screen
	AlienRingScale      = 1.2  // the alien appears just past the edge
	HyperspaceRingScale = 0.75 // hyperspace lands inside the field
)

const (
	maxSpinDegrees = 55.0
	minMass        = 1e-3
)

// AsteroidSpawn describes an asteroid for the world to create.
type AsteroidSpawn struct {
	Position Vec2
	Velocity Vec2
	Mass     float64
	Spin     Vec3 // degrees per second around each axis
}

// Field is the visible play area, centered on the origin.
type Field struct {
	HalfWidth  float64
	HalfHeight float64
}

// Contains reports whether p lies inside the visible area.
func (f Field) Contains(p Vec2) bool {
	return math.Abs(p.X) <= f.HalfWidth && math.Abs(p.Y) <= f.HalfHeight
}

// Spawner generates asteroid and alien placements.
type Spawner struct {
	curve Curve
	field Field
	rng   *rand.Rand
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(curve Curve, field Field, rng *rand.Rand) *Spawner {
	return &Spawner{curve: curve, field: field, rng: rng}
}

// SpawnWave places count asteroids on the off-screen ring, each heading
// toward the center of the field.
func (s *Spawner) SpawnWave(count, level int) []AsteroidSpawn {
	if count <= 0 {
		return nil
	}
	lo, hi := s.curve.MinMass(level), s.curve.MaxMass(level)

	out := make([]AsteroidSpawn, 0, count)
	for range count {
		pos := s.ringPoint(WaveRingScale)
		mass := lo + s.rng.Float64()*(hi-lo)
		out = append(out, s.newAsteroid(pos, pos.Neg().Normalize(), mass, level))
	}
	return out
}

// SpawnAlien picks where the alien reappears: past the field's edge in a
// random direction, corners included.
func (s *Spawner) SpawnAlien() Vec2 {
	d := s.unitVector()
	t := math.Min(s.field.HalfWidth/math.Abs(d.X), s.field.HalfHeight/math.Abs(d.Y))
	return d.Scale(t * AlienRingScale)
}

// HyperspaceTarget picks where the player lands after a jump.
func (s *Spawner) HyperspaceTarget() Vec2 {
	return s.ringPoint(HyperspaceRingScale)
}

// Split produces the two halves of a parent asteroid. The children sit on
// either side of the parent along a random axis and fly apart along the
// perpendicular of that axis.
func (s *Spawner) Split(parent Vec2, mass float64, level int) [2]AsteroidSpawn {
	axis := s.unitVector()
	dir := axis.Perp()
	half := mass * 0.5
	return [2]AsteroidSpawn{
		s.newAsteroid(parent.Add(axis), dir, half, level),
		s.newAsteroid(parent.Sub(axis), dir.Neg(), half, level),
	}
}

// newAsteroid applies the velocity law: heavier rocks are slower, and no
// rock exceeds the level's maximum speed.
func (s *Spawner) newAsteroid(pos, trajectory Vec2, mass float64, level int) AsteroidSpawn {
	mass = SafeMass(mass)
	vel := trajectory.Scale(s.curve.BaseSpeed(level) / mass).ClampLen(s.curve.MaxSpeed(level))
	spin := Vec3{
		X: s.rng.Float64() * maxSpinDegrees,
		Y: s.rng.Float64() * maxSpinDegrees,
		Z: s.rng.Float64() * maxSpinDegrees,
	}.Scale(1 / mass)
	return AsteroidSpawn{Position: pos, Velocity: vel, Mass: mass, Spin: spin}
}

// ringPoint returns a point on the ellipse inscribed in the field, scaled.
func (s *Spawner) ringPoint(scale float64) Vec2 {
	d := s.unitVector()
	return Vec2{d.X * s.field.HalfWidth * scale, d.Y * s.field.HalfHeight * scale}
}

func (s *Spawner) unitVector() Vec2 {
	return FromAngle(s.rng.Float64() * 2 * math.Pi)
}

// SafeMass clamps non-positive or NaN masses to a tiny positive value so
// that mass can be used as a divisor.
func SafeMass(m float64) float64 {
	if math.IsNaN(m) || m < minMass {
		return minMass
	}
	return m
}
