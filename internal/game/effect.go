package game

// EffectKind enumerates what the controller asks collaborators to do.
type EffectKind int

const (
	EffectSpawnAsteroid EffectKind = iota // create Asteroid
	EffectDestroy                         // remove entity ID
	EffectSetVelocity                     // set velocity of entity ID
	EffectShowAlien                       // activate the alien at Position
	EffectHideAlien                       // return the alien to its pool
	EffectPlacePlayer                     // move the player to Position, at rest
	EffectPlayerVisible                   // Flag: player drawn and collidable
	EffectBlast                           // hyperspace ring at Position with Radius
	EffectExplosion                       // debris at Position scaled by Size
	EffectShield                          // alien shield flash at Position
	EffectSound                           // play Sound at Volume
	EffectHUD                             // HUD changed
	EffectMessage                         // transient banner changed
	EffectScene                           // switch to Scene
)

func (k EffectKind) String() string {
	switch k {
	case EffectSpawnAsteroid:
		return "spawn-asteroid"
	case EffectDestroy:
		return "destroy"
	case EffectSetVelocity:
		return "set-velocity"
	case EffectShowAlien:
		return "show-alien"
	case EffectHideAlien:
		return "hide-alien"
	case EffectPlacePlayer:
		return "place-player"
	case EffectPlayerVisible:
		return "player-visible"
	case EffectBlast:
		return "blast"
	case EffectExplosion:
		return "explosion"
	case EffectShield:
		return "shield"
	case EffectSound:
		return "sound"
	case EffectHUD:
		return "hud"
	case EffectMessage:
		return "message"
	case EffectScene:
		return "scene"
	default:
		return "unknown"
	}
}

// Sound names a one-shot sample. Playback is fire-and-forget.
type Sound int

const (
	SoundExplosion Sound = iota
	SoundCollision
	SoundBlaster
	SoundAlienFire
	SoundShield
	SoundHyperspace
	SoundPlayerExplosion
)

// Scene is a top-level screen the session can switch to.
type Scene int

const (
	SceneMainMenu Scene = iota
	SceneCredits
)

// Effect is one instruction produced by a Tick. Only the fields relevant to
// Kind are set.
type Effect struct {
	Kind     EffectKind
	ID       EntityID
	Position Vec2
	Velocity Vec2
	Asteroid AsteroidSpawn
	Radius   float64
	Size     float64
	Sound    Sound
	Volume   float64
	Message  string
	HUD      HUD
	Scene    Scene
	Flag     bool
}

// EventKind enumerates what the world reports to the controller.
type EventKind int

const (
	EventCollision           EventKind = iota // A and B touched, Normal points from B to A
	EventBlastHit                             // A was inside a hyperspace blast
	EventPlayerFired                          // Lethal set for secondary fire
	EventAlienFired                           // the alien launched a bullet
	EventHyperspaceRequested                  // the player pressed the jump key
)

// Event is one observation from the world for the current frame.
type Event struct {
	Kind   EventKind
	A, B   Body
	Normal Vec2
	Point  Vec2
	Lethal bool
}

// Collision builds a collision event between a and b.
func Collision(a, b Body, normal, point Vec2) Event {
	return Event{Kind: EventCollision, A: a, B: b, Normal: normal, Point: point}
}

func soundEffect(s Sound, volume float64) Effect {
	return Effect{Kind: EffectSound, Sound: s, Volume: volume}
}
