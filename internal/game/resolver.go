package game

import "math"

// Kind tags the entity taking part in a collision.
type Kind int

const (
	KindNone Kind = iota
	KindAsteroid
	KindPlayerBullet
	KindAlienBullet
	KindAlien
	KindPlayer
)

func (k Kind) String() string {
	switch k {
	case KindAsteroid:
		return "asteroid"
	case KindPlayerBullet:
		return "player-bullet"
	case KindAlienBullet:
		return "alien-bullet"
	case KindAlien:
		return "alien"
	case KindPlayer:
		return "player"
	default:
		return "none"
	}
}

func (k Kind) isBullet() bool {
	return k == KindPlayerBullet || k == KindAlienBullet
}

// EntityID identifies a world entity. Zero means "no entity".
type EntityID uint64

// Body is what the resolver needs to know about one side of a collision.
type Body struct {
	ID          EntityID
	Kind        Kind
	Position    Vec2
	Mass        float64
	CruiseSpeed float64 // asteroid speed at creation, kept through bounces
	Lethal      bool    // secondary-fire bullet: never splits, bounces off alien shields
}

// OutcomeKind enumerates collision results.
type OutcomeKind int

const (
	OutcomeNone      OutcomeKind = iota
	OutcomeBounce                // Target changes velocity
	OutcomeSplit                 // Target asteroid removed, 0 or 2 children
	OutcomeAlienDown             // alien returns to its inactive pool
	OutcomeShield                // alien deflects a lethal bullet
	OutcomePlayerHit             // player loses a life, other party unaffected
)

// Outcome is the resolved effect of one collision.
type Outcome struct {
	Kind       OutcomeKind
	Target     Body
	Velocity   Vec2            // OutcomeBounce
	Children   []AsteroidSpawn // OutcomeSplit
	ScoreDelta int
	Spent      EntityID // bullet consumed by the hit, if any
}

const normalClamp = 0.4

// Resolver decides collision outcomes.
type Resolver struct {
	curve   Curve
	spawner *Spawner
}

// NewResolver creates a resolver that spawns split children through spawner.
func NewResolver(curve Curve, spawner *Spawner) *Resolver {
	return &Resolver{curve: curve, spawner: spawner}
}

// Resolve decides what a collision between a and b does at level. normal is
// the contact normal as seen from a (pointing away from b).
func (r *Resolver) Resolve(a, b Body, normal Vec2, level int) Outcome {
	switch {
	case a.Kind == KindAsteroid && b.Kind == KindAsteroid:
		return Outcome{
			Kind:     OutcomeBounce,
			Target:   a,
			Velocity: ClampNormal(normal).Scale(a.CruiseSpeed),
		}

	case a.Kind == KindPlayer || b.Kind == KindPlayer:
		player, other := a, b
		if b.Kind == KindPlayer {
			player, other = b, a
		}
		switch other.Kind {
		case KindAsteroid, KindAlien, KindAlienBullet:
			out := Outcome{Kind: OutcomePlayerHit, Target: player}
			if other.Kind == KindAlienBullet {
				out.Spent = other.ID
			}
			return out
		}
		return Outcome{}

	case a.Kind.isBullet() || b.Kind.isBullet():
		bullet, target := a, b
		if b.Kind.isBullet() {
			bullet, target = b, a
		}
		switch target.Kind {
		case KindAsteroid:
			return r.bulletHitsAsteroid(bullet, target, level)
		case KindAlien:
			return r.bulletHitsAlien(bullet, target, level)
		}
	}
	return Outcome{}
}

func (r *Resolver) bulletHitsAsteroid(bullet, rock Body, level int) Outcome {
	out := Outcome{Kind: OutcomeSplit, Target: rock, Spent: bullet.ID}
	byPlayer := bullet.Kind == KindPlayerBullet
	mass := SafeMass(rock.Mass)

	if byPlayer && !bullet.Lethal && mass*0.5 >= r.curve.MinMass(level) {
		kids := r.spawner.Split(rock.Position, mass, level)
		out.Children = kids[:]
	}
	if byPlayer {
		out.ScoreDelta = AsteroidScore(mass)
	}
	return out
}

func (r *Resolver) bulletHitsAlien(bullet, alien Body, level int) Outcome {
	out := Outcome{Target: alien, Spent: bullet.ID}
	if bullet.Kind != KindPlayerBullet {
		return out
	}
	if bullet.Lethal {
		out.Kind = OutcomeShield
		return out
	}
	out.Kind = OutcomeAlienDown
	out.ScoreDelta = r.curve.AlienPoints() * (max(level, 0) + 1)
	return out
}

// AsteroidScore rewards smaller asteroids more, in steps of 50.
func AsteroidScore(mass float64) int {
	raw := (100 / SafeMass(mass)) / 50
	// absorb float noise so exact multiples do not round up a step
	return int(math.Ceil(raw-1e-9)) * 50
}

// ClampNormal keeps a bounce away from grazing angles: a normal component
// smaller than 0.4 is raised to 0.4 with its sign kept. Only the first
// small component is raised.
func ClampNormal(n Vec2) Vec2 {
	n = n.Normalize()
	if math.Abs(n.X) < normalClamp {
		n.X = normalClamp * sign(n.X)
	} else if math.Abs(n.Y) < normalClamp {
		n.Y = normalClamp * sign(n.Y)
	}
	return n.Normalize()
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
