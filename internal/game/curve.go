// Package game holds the gameplay progression core: the difficulty curve,
// spawning rules, collision outcomes, the score ledger and the controller
// that turns per-frame events into effects for the world to apply.
//
// Nothing here renders, plays audio or touches a terminal. The controller is
// a reducer: Tick(dt, events) returns the effects of that frame.
package game

import (
	"math"
	"time"

	"github.com/tomz197/hyperjump/internal/config"
)

// Parameters is the difficulty view of a single level.
type Parameters struct {
	AsteroidBaseSpeed  float64
	AsteroidMaxSpeed   float64
	MinAsteroidMass    float64
	MaxAsteroidMass    float64
	AlienSpawnInterval time.Duration
	AlienRange         float64
	AlienSpeed         float64
	AlienFireDelay     time.Duration
	AlienPrediction    float64 // 0..1 share of the player's velocity the alien leads by
}

// Curve maps a level index to difficulty parameters.
type Curve struct {
	speed config.SpeedTuning
	mass  config.MassTuning
	alien config.AlienTuning
}

// NewCurve builds a curve from the tuning table.
func NewCurve(t config.Tuning) Curve {
	return Curve{speed: t.Speed, mass: t.Mass, alien: t.Alien}
}

// ParametersForLevel computes every curve value for level.
func (c Curve) ParametersForLevel(level int) Parameters {
	return Parameters{
		AsteroidBaseSpeed:  c.BaseSpeed(level),
		AsteroidMaxSpeed:   c.MaxSpeed(level),
		MinAsteroidMass:    c.MinMass(level),
		MaxAsteroidMass:    c.MaxMass(level),
		AlienSpawnInterval: c.AlienSpawnInterval(level),
		AlienRange:         c.AlienRange(level),
		AlienSpeed:         c.AlienSpeed(level),
		AlienFireDelay:     c.AlienFireDelay(level),
		AlienPrediction:    c.AlienPrediction(level),
	}
}

func (c Curve) BaseSpeed(level int) float64 {
	return grow(c.speed.BaseSpeed, c.speed.BaseSpeedMultiplier, level)
}

func (c Curve) MaxSpeed(level int) float64 {
	return grow(c.speed.MaximumSpeed, c.speed.MaximumSpeedMult, level)
}

// MinMass shrinks each level but never below the mass limit.
func (c Curve) MinMass(level int) float64 {
	return math.Max(grow(c.mass.MinMass, c.mass.MinMassMultiplier, level), c.mass.MinMassLimit)
}

// MaxMass does not change with level.
func (c Curve) MaxMass(int) float64 {
	return c.mass.MaxMass
}

// AlienSpawnInterval is the delay before the alien returns after being shot
// down. It decays each level and is held at the configured floor.
func (c Curve) AlienSpawnInterval(level int) time.Duration {
	s := grow(c.alien.SpawnTime, c.alien.SpawnTimeMultiplier, level)
	return seconds(math.Max(s, c.alien.SpawnTimeFloor))
}

// BaseAlienSpawnTime is the delay used at the start of every level.
func (c Curve) BaseAlienSpawnTime() time.Duration {
	return seconds(c.alien.SpawnTime)
}

func (c Curve) AlienRange(level int) float64 {
	return grow(c.alien.Range, c.alien.RangeMultiplier, level)
}

func (c Curve) AlienSpeed(level int) float64 {
	return math.Min(grow(c.alien.Speed, c.alien.SpeedMultiplier, level), c.alien.SpeedLimit)
}

func (c Curve) AlienFireDelay(level int) time.Duration {
	d := grow(c.alien.FireDelay, c.alien.FireDelayMultiplier, level)
	return seconds(math.Max(d, c.alien.FireDelayLowLimit))
}

// AlienPrediction reaches full lead at level 5.
func (c Curve) AlienPrediction(level int) float64 {
	return math.Min(float64(max(level, 0))/5.0, 1.0)
}

// AlienPoints is the base reward for shooting the alien down.
func (c Curve) AlienPoints() int {
	return c.alien.Points
}

func grow(base, mult float64, level int) float64 {
	return base * math.Pow(mult, float64(max(level, 0)))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
