// Package world simulates what the progression core reasons about: the
// ship, the asteroids, the alien, bullets and the debris they leave.
//
// The world never decides outcomes. Each Step moves everything and reports
// contacts, blast hits and shots as game events; the controller answers
// with effects that the world applies before the next Step.
package world

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/hyperjump/internal/config"
	"github.com/tomz197/hyperjump/internal/game"
	"github.com/tomz197/hyperjump/internal/input"
	"github.com/tomz197/hyperjump/internal/physics"
)

// Fixed identities for the singletons.
const (
	PlayerID game.EntityID = 1
	AlienID  game.EntityID = 2

	firstDynamicID game.EntityID = 16
)

const (
	minGridCell     = 16.0
	gridExtent      = 2.5 // grid covers this multiple of the field's half extents
	bulletFarFactor = 2.0 // bullets this far out are dropped
	blastRingLife   = 0.5
	shieldRingLife  = 0.3
)

// pair is an unordered contact key.
type pair struct{ lo, hi game.EntityID }

func pairOf(a, b game.EntityID) pair {
	return pair{min(a, b), max(a, b)}
}

type blast struct {
	pos    game.Vec2
	radius float64
}

// World holds every simulated entity. It is not safe for concurrent use.
type World struct {
	field game.Field
	rng   *rand.Rand
	clock float64
	ids   game.EntityID

	Ship      Ship
	Alien     Alien
	Asteroids []*Asteroid
	Bullets   []*Bullet
	Particles []*Particle
	Rings     []Ring

	blasts       []blast
	fireDelay    float64
	retreatUntil float64

	grid     *physics.SpatialGrid
	cellSize float64
	contacts map[pair]struct{} // touching as of the previous Step
	touching map[pair]struct{} // touching in this Step

	events []game.Event
}

// New creates an empty world for field.
func New(field game.Field, rng *rand.Rand) *World {
	w := &World{
		field:    field,
		rng:      rng,
		ids:      firstDynamicID,
		Ship:     Ship{Angle: -math.Pi / 2},
		contacts: make(map[pair]struct{}),
		touching: make(map[pair]struct{}),
	}
	w.buildGrid(minGridCell)
	return w
}

func (w *World) buildGrid(cell float64) {
	hw, hh := w.field.HalfWidth*gridExtent, w.field.HalfHeight*gridExtent
	w.cellSize = cell
	w.grid = physics.NewSpatialGrid(-hw, -hh, hw*2, hh*2, cell)
}

func (w *World) nextID() game.EntityID {
	w.ids++
	return w.ids
}

// Clock returns the simulated seconds since New.
func (w *World) Clock() float64 { return w.clock }

// Live reports how many asteroids are in play.
func (w *World) Live() int {
	n := 0
	for _, a := range w.Asteroids {
		if !a.dead {
			n++
		}
	}
	return n
}

// Apply carries out the controller's effects. Effects that are not about
// the simulation (sound, HUD, scenes) are ignored.
func (w *World) Apply(effects []game.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case game.EffectSpawnAsteroid:
			w.spawnAsteroid(e.Asteroid)

		case game.EffectDestroy:
			w.destroy(e.ID)

		case game.EffectSetVelocity:
			for _, a := range w.Asteroids {
				if a.ID == e.ID && !a.dead {
					a.Vel = e.Velocity
				}
			}

		case game.EffectShowAlien:
			w.Alien = Alien{
				Active:   true,
				Pos:      e.Position,
				nextFire: w.clock + w.fireDelay,
			}

		case game.EffectHideAlien:
			w.Alien.Active = false

		case game.EffectPlacePlayer:
			w.Ship.Pos = e.Position
			w.Ship.Vel = game.Vec2{}

		case game.EffectPlayerVisible:
			w.Ship.Visible = e.Flag
			if !e.Flag {
				w.Ship.Thrusting = false
			}

		case game.EffectBlast:
			pos := e.Position
			if e.Flag {
				pos = w.Ship.Pos
			}
			w.blasts = append(w.blasts, blast{pos: pos, radius: e.Radius})
			w.Rings = append(w.Rings, Ring{Pos: pos, Radius: e.Radius, Life: blastRingLife, MaxLife: blastRingLife})

		case game.EffectExplosion:
			size := math.Max(e.Size, 0.1)
			count := int(8 + size*12)
			w.Particles = append(w.Particles, explosion(e.Position, count, 10+size*6, 0.5+size*0.25, w.rng)...)

		case game.EffectShield:
			w.Alien.Shield = shieldRingLife
			w.Rings = append(w.Rings, Ring{Pos: e.Position, Radius: config.AlienRadius * 2, Life: shieldRingLife, MaxLife: shieldRingLife})
		}
	}
}

func (w *World) spawnAsteroid(s game.AsteroidSpawn) {
	a := newAsteroid(w.nextID(), s, w.rng)
	if a.Radius*2 > w.cellSize {
		w.buildGrid(a.Radius * 2)
	}
	w.Asteroids = append(w.Asteroids, a)
}

func (w *World) destroy(id game.EntityID) {
	for _, a := range w.Asteroids {
		if a.ID == id {
			a.dead = true
			return
		}
	}
	for _, b := range w.Bullets {
		if b.ID == id {
			b.dead = true
			return
		}
	}
}

// Step advances the simulation by dt and returns what happened, in order:
// blast hits from the previous frame's blasts, shots, then new contacts.
func (w *World) Step(dt time.Duration, in input.Input, view game.View) []game.Event {
	sec := dt.Seconds()
	w.clock += sec
	w.fireDelay = view.Params.AlienFireDelay.Seconds()
	w.events = nil

	w.compact()
	w.resolveBlasts()
	w.updateShip(sec, in, view)
	w.updateAlien(sec, view)
	w.updateAsteroids(sec)
	w.updateBullets(sec)
	w.updateEffects(sec)
	w.detectContacts()

	return w.events
}

func (w *World) emit(ev game.Event) {
	w.events = append(w.events, ev)
}

func (w *World) playerBody() game.Body {
	return game.Body{ID: PlayerID, Kind: game.KindPlayer, Position: w.Ship.Pos, Mass: 1}
}

func (w *World) alienBody() game.Body {
	return game.Body{ID: AlienID, Kind: game.KindAlien, Position: w.Alien.Pos, Mass: 1}
}

// compact drops entities destroyed since the last Step.
func (w *World) compact() {
	asteroids := w.Asteroids[:0]
	for _, a := range w.Asteroids {
		if !a.dead {
			asteroids = append(asteroids, a)
		}
	}
	clear(w.Asteroids[len(asteroids):])
	w.Asteroids = asteroids

	bullets := w.Bullets[:0]
	for _, b := range w.Bullets {
		if !b.dead {
			bullets = append(bullets, b)
		}
	}
	clear(w.Bullets[len(bullets):])
	w.Bullets = bullets
}

// resolveBlasts reports every hostile body caught by a pending blast.
func (w *World) resolveBlasts() {
	for _, bl := range w.blasts {
		area := physics.Circle{X: bl.pos.X, Y: bl.pos.Y, R: bl.radius}
		for _, a := range w.Asteroids {
			if area.Overlaps(a.circle()) {
				w.emit(game.Event{Kind: game.EventBlastHit, A: a.body()})
			}
		}
		if w.Alien.Active && area.Overlaps(w.Alien.circle()) {
			w.emit(game.Event{Kind: game.EventBlastHit, A: w.alienBody()})
		}
		for _, b := range w.Bullets {
			if b.Kind == game.KindAlienBullet && area.Overlaps(b.circle()) {
				w.emit(game.Event{Kind: game.EventBlastHit, A: b.body()})
			}
		}
	}
	w.blasts = w.blasts[:0]
}

func (w *World) updateShip(dt float64, in input.Input, view game.View) {
	s := &w.Ship
	s.cooldown -= dt
	s.Thrusting = false

	if !view.PlayerInputEnabled || !s.Visible {
		s.Vel = game.Vec2{}
		return
	}

	if in.Left {
		s.Angle -= config.ShipTurnRate * dt
	}
	if in.Right {
		s.Angle += config.ShipTurnRate * dt
	}
	s.Angle = math.Remainder(s.Angle, 2*math.Pi)

	if in.Thrust {
		s.Thrusting = true
		s.Vel = s.Vel.Add(game.FromAngle(s.Angle).Scale(config.ShipThrust * dt))
		w.Particles = append(w.Particles, exhaust(s, w.rng)...)
	} else {
		s.Vel = s.Vel.Scale(math.Pow(config.ShipDrag, dt))
	}
	s.Vel = s.Vel.ClampLen(config.ShipMaxSpeed)
	s.Pos = s.Pos.Add(s.Vel.Scale(dt))
	s.Pos, _ = mirrorWrap(s.Pos, s.Vel, w.field, config.ShipRadius)

	if s.cooldown <= 0 {
		switch {
		case in.Fire:
			w.firePlayer(false)
		case in.AltFire && view.AlienActive:
			w.firePlayer(true)
		}
	}

	if in.Hyperspace && !view.Hyperspacing {
		w.emit(game.Event{Kind: game.EventHyperspaceRequested})
	}
}

func (w *World) firePlayer(lethal bool) {
	s := &w.Ship
	s.cooldown = config.ShipFireCooldown
	w.Bullets = append(w.Bullets, &Bullet{
		ID:     w.nextID(),
		Kind:   game.KindPlayerBullet,
		Pos:    s.nose(),
		Vel:    s.Vel.Add(game.FromAngle(s.Angle).Scale(config.BulletSpeed)),
		Life:   config.BulletLifetime,
		Lethal: lethal,
	})
	w.emit(game.Event{Kind: game.EventPlayerFired, Lethal: lethal})
}

// updateAlien steers the alien toward the player, or away while the player
// is out of control, and fires at the player's predicted position when the
// line of fire is clear of asteroids.
func (w *World) updateAlien(dt float64, view game.View) {
	a := &w.Alien
	if !a.Active {
		return
	}
	a.Shield = math.Max(a.Shield-dt, 0)
	a.Angle += dt * 2

	dir := w.Ship.Pos.Sub(a.Pos).Normalize()
	retreating := !view.PlayerInputEnabled
	if retreating {
		dir = dir.Neg()
		w.retreatUntil = w.clock + config.AlienRetreatDelay
	}
	a.Vel = game.Lerp(a.Vel, dir.Scale(view.Params.AlienSpeed), dt*config.AlienSteerResponse)
	a.Pos = a.Pos.Add(a.Vel.Scale(dt))

	if retreating || !w.Ship.Visible || w.clock < w.retreatUntil || w.clock < a.nextFire {
		return
	}
	if a.Pos.Dist(w.Ship.Pos) > view.Params.AlienRange {
		return
	}
	aim := w.Ship.Pos.Add(w.Ship.Vel.Scale(view.Params.AlienPrediction))
	if !w.clearShot(a.Pos, aim) {
		return
	}

	a.nextFire = w.clock + w.fireDelay
	w.Bullets = append(w.Bullets, &Bullet{
		ID:   w.nextID(),
		Kind: game.KindAlienBullet,
		Pos:  a.Pos,
		Vel:  aim.Sub(a.Pos).Normalize().Scale(config.AlienBulletSpeed),
		Life: config.BulletLifetime * 1.5,
	})
	w.emit(game.Event{Kind: game.EventAlienFired})
}

// clearShot reports whether a shot from -> to passes every asteroid with
// room to spare.
func (w *World) clearShot(from, to game.Vec2) bool {
	for _, rock := range w.Asteroids {
		if physics.SweepHits(from.X, from.Y, to.X, to.Y, config.AlienLineOfFire, rock.circle()) {
			return false
		}
	}
	return true
}

// updateAsteroids moves and spins every asteroid. An asteroid that has left
// the field is mirrored to the opposite side if it was heading out, then
// re-aimed at the center at its cruise speed.
func (w *World) updateAsteroids(dt float64) {
	for _, a := range w.Asteroids {
		a.Pos = a.Pos.Add(a.Vel.Scale(dt))
		a.Angle += a.Spin.Z * dt * math.Pi / 180
		if offscreen(a.Pos, a.Radius, w.field) {
			a.Pos, _ = mirrorWrap(a.Pos, a.Vel, w.field, a.Radius)
			a.Vel = a.Pos.Neg().Normalize().Scale(a.Cruise)
		}
	}
}

func (w *World) updateBullets(dt float64) {
	farX := w.field.HalfWidth * bulletFarFactor
	farY := w.field.HalfHeight * bulletFarFactor
	for _, b := range w.Bullets {
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		b.Life -= dt
		if b.Life <= 0 || math.Abs(b.Pos.X) > farX || math.Abs(b.Pos.Y) > farY {
			b.dead = true
		}
	}
}

func (w *World) updateEffects(dt float64) {
	particles := w.Particles[:0]
	for _, p := range w.Particles {
		if p.update(dt) {
			p.release()
			continue
		}
		particles = append(particles, p)
	}
	clear(w.Particles[len(particles):])
	w.Particles = particles

	rings := w.Rings[:0]
	for _, r := range w.Rings {
		r.Life -= dt
		if r.Life > 0 {
			rings = append(rings, r)
		}
	}
	w.Rings = rings
}

// detectContacts reports pairs that started touching this Step. Pairs that
// keep touching are reported once.
func (w *World) detectContacts() {
	clear(w.touching)
	w.grid.Clear()
	for i, a := range w.Asteroids {
		w.grid.Insert(a.Pos.X, a.Pos.Y, i)
	}

	for i, a := range w.Asteroids {
		ac := a.circle()
		w.grid.QueryAround(a.Pos.X, a.Pos.Y, func(j int) bool {
			if j <= i {
				return false
			}
			b := w.Asteroids[j]
			if bc := b.circle(); ac.Overlaps(bc) {
				w.contact(a.body(), b.body(), ac, bc)
			}
			return false
		})
	}

	ship := w.Ship.circle()
	alien := w.Alien.circle()
	for _, b := range w.Bullets {
		if b.dead {
			continue
		}
		bc := b.circle()
		w.grid.QueryAround(b.Pos.X, b.Pos.Y, func(j int) bool {
			rock := w.Asteroids[j]
			if rc := rock.circle(); bc.Overlaps(rc) {
				w.contact(b.body(), rock.body(), bc, rc)
				return true
			}
			return false
		})
		switch {
		case b.Kind == game.KindPlayerBullet && w.Alien.Active && bc.Overlaps(alien):
			w.contact(b.body(), w.alienBody(), bc, alien)
		case b.Kind == game.KindAlienBullet && w.Ship.Visible && bc.Overlaps(ship):
			w.contact(w.playerBody(), b.body(), ship, bc)
		}
	}

	if w.Ship.Visible {
		w.grid.QueryAround(w.Ship.Pos.X, w.Ship.Pos.Y, func(j int) bool {
			rock := w.Asteroids[j]
			if rc := rock.circle(); ship.Overlaps(rc) {
				w.contact(w.playerBody(), rock.body(), ship, rc)
			}
			return false
		})
		if w.Alien.Active && ship.Overlaps(alien) {
			w.contact(w.playerBody(), w.alienBody(), ship, alien)
		}
	}

	w.contacts, w.touching = w.touching, w.contacts
}

// contact records that a and b touch and reports it if they did not touch
// in the previous Step.
func (w *World) contact(a, b game.Body, ac, bc physics.Circle) {
	key := pairOf(a.ID, b.ID)
	w.touching[key] = struct{}{}
	if _, ok := w.contacts[key]; ok {
		return
	}
	nx, ny := ac.ContactNormal(bc)
	px, py := ac.ContactPoint(bc)
	w.emit(game.Collision(a, b, game.Vec2{X: nx, Y: ny}, game.Vec2{X: px, Y: py}))
}
