package world

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tomz197/hyperjump/internal/config"
	"github.com/tomz197/hyperjump/internal/game"
	"github.com/tomz197/hyperjump/internal/physics"
)

// Asteroid is a spinning rock. Its speed is fixed at creation; bounces and
// wraps only change its heading.
type Asteroid struct {
	ID       game.EntityID
	Pos, Vel game.Vec2
	Mass     float64
	Cruise   float64   // speed at creation
	Spin     game.Vec3 // degrees per second
	Angle    float64   // drawn rotation, radians
	Radius   float64
	Vertices []float64 // outline distances from the center
	dead     bool
}

func newAsteroid(id game.EntityID, s game.AsteroidSpawn, rng *rand.Rand) *Asteroid {
	mass := game.SafeMass(s.Mass)
	radius := mass * config.AsteroidRadiusPer

	// irregular outline: 8-12 vertices, each within 30% of the radius
	verts := make([]float64, 8+rng.IntN(5))
	for i := range verts {
		verts[i] = radius * (0.7 + rng.Float64()*0.6)
	}
	return &Asteroid{
		ID:       id,
		Pos:      s.Position,
		Vel:      s.Velocity,
		Mass:     mass,
		Cruise:   s.Velocity.Len(),
		Spin:     s.Spin,
		Angle:    rng.Float64() * 2 * math.Pi,
		Radius:   radius,
		Vertices: verts,
	}
}

func (a *Asteroid) body() game.Body {
	return game.Body{ID: a.ID, Kind: game.KindAsteroid, Position: a.Pos, Mass: a.Mass, CruiseSpeed: a.Cruise}
}

func (a *Asteroid) circle() physics.Circle {
	return physics.Circle{X: a.Pos.X, Y: a.Pos.Y, R: a.Radius}
}

// Bullet is a shot from the player or the alien.
type Bullet struct {
	ID       game.EntityID
	Kind     game.Kind // KindPlayerBullet or KindAlienBullet
	Pos, Vel game.Vec2
	Life     float64 // seconds left
	Lethal   bool
	dead     bool
}

func (b *Bullet) body() game.Body {
	return game.Body{ID: b.ID, Kind: b.Kind, Position: b.Pos, Lethal: b.Lethal}
}

func (b *Bullet) circle() physics.Circle {
	return physics.Circle{X: b.Pos.X, Y: b.Pos.Y, R: config.BulletRadius}
}

// Ship is the player's craft.
type Ship struct {
	Pos, Vel  game.Vec2
	Angle     float64 // radians, 0 points right, -Pi/2 points up
	Visible   bool
	Thrusting bool
	cooldown  float64
}

func (s *Ship) nose() game.Vec2 {
	return s.Pos.Add(game.FromAngle(s.Angle).Scale(config.ShipRadius * 1.5))
}

func (s *Ship) circle() physics.Circle {
	return physics.Circle{X: s.Pos.X, Y: s.Pos.Y, R: config.ShipRadius}
}

// Alien is the single enemy saucer. It is shown and hidden, never created.
type Alien struct {
	Active   bool
	Pos, Vel game.Vec2
	Angle    float64
	Shield   float64 // seconds the shield flash stays up
	nextFire float64 // world clock
}

func (a *Alien) circle() physics.Circle {
	return physics.Circle{X: a.Pos.X, Y: a.Pos.Y, R: config.AlienRadius}
}

// Ring is an expanding hyperspace or shield flash.
type Ring struct {
	Pos     game.Vec2
	Radius  float64 // final radius
	Life    float64
	MaxLife float64
}

// current returns the drawn radius: rings grow from a third of their size.
func (r Ring) current() float64 {
	t := 1 - r.Life/r.MaxLife
	return r.Radius * (0.3 + 0.7*t)
}

// particlePool recycles particles across explosions.
var particlePool = sync.Pool{
	New: func() any { return &Particle{} },
}

// Particle is a short-lived debris or exhaust speck.
type Particle struct {
	Pos, Vel game.Vec2
	Life     float64
	MaxLife  float64
	Drag     float64 // velocity kept per 1/60 s
}

func newParticle(pos, vel game.Vec2, life, drag float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{Pos: pos, Vel: vel, Life: life, MaxLife: life, Drag: drag}
	return p
}

func (p *Particle) release() {
	particlePool.Put(p)
}

// update advances the particle and reports whether it expired.
func (p *Particle) update(dt float64) bool {
	p.Life -= dt
	if p.Life <= 0 {
		return true
	}
	p.Vel = p.Vel.Scale(math.Pow(p.Drag, dt*60))
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	return false
}

// explosion bursts count particles outward from pos.
func explosion(pos game.Vec2, count int, speed, life float64, rng *rand.Rand) []*Particle {
	out := make([]*Particle, 0, count)
	for range count {
		dir := game.FromAngle(rng.Float64() * 2 * math.Pi)
		spd := speed * (0.5 + rng.Float64())
		l := life * (0.5 + rng.Float64()*0.5)
		out = append(out, newParticle(pos, dir.Scale(spd), l, 0.95))
	}
	return out
}

// exhaust emits one or two specks behind a thrusting ship.
func exhaust(s *Ship, rng *rand.Rand) []*Particle {
	back := s.Pos.Sub(game.FromAngle(s.Angle).Scale(config.ShipRadius))
	n := 1 + rng.IntN(2)
	out := make([]*Particle, 0, n)
	for range n {
		a := s.Angle + math.Pi + (rng.Float64()-0.5)*0.5
		spd := 8 + rng.Float64()*4
		out = append(out, newParticle(back, s.Vel.Add(game.FromAngle(a).Scale(spd)), 0.1+rng.Float64()*0.15, 0.85))
	}
	return out
}

// mirrorWrap flips a coordinate that has left the visible field while still
// moving outward, so the entity re-enters from the opposite side. margin is
// how far past the edge the entity must be before it counts as gone.
func mirrorWrap(pos, vel game.Vec2, f game.Field, margin float64) (game.Vec2, bool) {
	flipped := false
	if (pos.X < -f.HalfWidth-margin && vel.X < 0) || (pos.X > f.HalfWidth+margin && vel.X >= 0) {
		pos.X = -pos.X
		flipped = true
	}
	if (pos.Y < -f.HalfHeight-margin && vel.Y < 0) || (pos.Y > f.HalfHeight+margin && vel.Y >= 0) {
		pos.Y = -pos.Y
		flipped = true
	}
	return pos, flipped
}

// offscreen reports whether a circle of radius r at pos is fully outside f.
func offscreen(pos game.Vec2, r float64, f game.Field) bool {
	return math.Abs(pos.X) > f.HalfWidth+r || math.Abs(pos.Y) > f.HalfHeight+r
}
