package game

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/hyperjump/internal/config"
)

// State is the controller's progression phase.
type State int

const (
	StateIdle           State = iota // before Start
	StateLevelActive                 // wave in play
	StateLevelAdvancing              // the frame a cleared wave rolled over
	StateGameOver                    // lives exhausted, terminal
)

func (s State) String() string {
	switch s {
	case StateLevelActive:
		return "level-active"
	case StateLevelAdvancing:
		return "level-advancing"
	case StateGameOver:
		return "game-over"
	default:
		return "idle"
	}
}

// Banner texts.
const (
	MessageGetReady      = "GET READY"
	MessageLevelComplete = "Level Complete"
	MessageGameOver      = "GAME OVER"
)

// Sequence timings.
const (
	startResetDelay    = 2 * time.Second
	respawnResetDelay  = 4 * time.Second
	getReadyDelay      = 1500 * time.Millisecond
	hyperspaceCooldown = 2 * time.Second
	levelMessageTime   = 3 * time.Second
	gameOverSceneDelay = 5 * time.Second
)

// View is what the world reads from the controller each frame.
type View struct {
	State              State
	Level              int
	Params             Parameters
	PlayerInputEnabled bool
	PlayerVisible      bool
	Hyperspacing       bool
	AlienActive        bool
	HUD                HUD
	Clock              time.Duration
}

// Controller owns the ledger and wave state and turns frame time and world
// events into effects. It is single threaded: call Start once, then Tick
// once per frame.
type Controller struct {
	tuning   config.Tuning
	curve    Curve
	spawner  *Spawner
	resolver *Resolver
	ledger   *Ledger
	sched    scheduler

	state          State
	alienActive    bool
	nextAlien      time.Duration
	playerGen      int
	inputEnabled   bool
	playerVisible  bool
	hyperspacing   bool
	sceneRequested bool
	lastMessage    string

	destroyed map[EntityID]struct{}
	out       []Effect
}

// NewController wires a controller for one game session.
func NewController(tuning config.Tuning, field Field, rng *rand.Rand) *Controller {
	curve := NewCurve(tuning)
	spawner := NewSpawner(curve, field, rng)
	return &Controller{
		tuning:    tuning,
		curve:     curve,
		spawner:   spawner,
		resolver:  NewResolver(curve, spawner),
		ledger:    NewLedger(tuning.Lives, tuning.StartWaveSize, tuning.FirstJumpThreshold),
		destroyed: make(map[EntityID]struct{}),
	}
}

// Start begins level 0: the first wave, the alien timer and the player's
// entry sequence.
func (c *Controller) Start() []Effect {
	if c.state != StateIdle {
		return nil
	}
	c.state = StateLevelActive
	wave := c.ledger.Start()
	c.nextAlien = c.sched.now + c.curve.BaseAlienSpawnTime()
	c.spawnWave(wave)
	c.resetPlayer(startResetDelay)
	c.pushHUD()
	return c.flush()
}

// Tick advances the controller by dt and applies the frame's events in
// order.
func (c *Controller) Tick(dt time.Duration, events []Event) []Effect {
	if c.state == StateIdle {
		return nil
	}
	if c.state == StateLevelAdvancing {
		c.state = StateLevelActive
	}
	clear(c.destroyed)
	c.sched.advance(dt)
	c.ledger.BeginFrame()
	c.sched.poll()

	for _, ev := range events {
		c.handle(ev)
	}

	if c.state != StateGameOver && !c.alienActive {
		if c.sched.now >= c.nextAlien {
			c.showAlien()
		} else if c.ledger.AdvanceLevelIfClear(false) {
			c.newLevel()
		}
	}

	c.pushHUD()
	return c.flush()
}

// View reports the state collaborators need this frame.
func (c *Controller) View() View {
	level := c.ledger.Level()
	return View{
		State:              c.state,
		Level:              level,
		Params:             c.curve.ParametersForLevel(level),
		PlayerInputEnabled: c.inputEnabled,
		PlayerVisible:      c.playerVisible,
		Hyperspacing:       c.hyperspacing,
		AlienActive:        c.alienActive,
		HUD:                c.ledger.HUD(),
		Clock:              c.sched.now,
	}
}

// Ledger exposes read access for end-of-game reporting.
func (c *Controller) Ledger() *Ledger { return c.ledger }

func (c *Controller) handle(ev Event) {
	switch ev.Kind {
	case EventCollision:
		c.collide(ev)
	case EventBlastHit:
		c.blastHit(ev.A)
	case EventPlayerFired:
		if c.inputEnabled && (!ev.Lethal || c.alienActive) {
			c.emit(soundEffect(SoundBlaster, 1))
		}
	case EventAlienFired:
		if c.alienActive {
			c.emit(soundEffect(SoundAlienFire, 1))
		}
	case EventHyperspaceRequested:
		c.hyperspace()
	}
}

func (c *Controller) collide(ev Event) {
	if c.gone(ev.A.ID) || c.gone(ev.B.ID) {
		return
	}
	level := c.ledger.Level()

	if ev.A.Kind == KindAsteroid && ev.B.Kind == KindAsteroid {
		c.apply(c.resolver.Resolve(ev.A, ev.B, ev.Normal, level))
		c.apply(c.resolver.Resolve(ev.B, ev.A, ev.Normal.Neg(), level))
		c.emit(Effect{Kind: EffectExplosion, Position: ev.Point, Size: ev.A.Mass * 0.3})
		c.emit(soundEffect(SoundCollision, math.Max(ev.A.Mass/5, 0.45)))
		return
	}
	c.apply(c.resolver.Resolve(ev.A, ev.B, ev.Normal, level))
}

func (c *Controller) apply(out Outcome) {
	// a finished game still bounces rocks and eats bullets, but nothing
	// splits, scores or dies
	if c.state == StateGameOver && out.Kind != OutcomeBounce {
		c.spend(out.Spent)
		return
	}
	switch out.Kind {
	case OutcomeBounce:
		c.emit(Effect{Kind: EffectSetVelocity, ID: out.Target.ID, Velocity: out.Velocity})

	case OutcomeSplit:
		c.spend(out.Spent)
		c.destroyAsteroid(out.Target, out.ScoreDelta)
		for _, child := range out.Children {
			c.spawnAsteroid(child)
		}

	case OutcomeAlienDown:
		c.spend(out.Spent)
		c.alienDown(out.Target, out.ScoreDelta)

	case OutcomeShield:
		c.spend(out.Spent)
		if c.alienActive {
			c.emit(Effect{Kind: EffectShield, Position: out.Target.Position})
			c.emit(soundEffect(SoundShield, 1))
		}

	case OutcomePlayerHit:
		c.spend(out.Spent)
		c.playerDown(out.Target)

	default:
		// bullets are consumed by anything they touch
		c.spend(out.Spent)
	}
}

// blastHit handles a body caught in a hyperspace blast. Blasts count as
// player kills but never split asteroids.
func (c *Controller) blastHit(b Body) {
	if c.gone(b.ID) {
		return
	}
	if c.state == StateGameOver {
		if b.Kind == KindAlienBullet {
			c.spend(b.ID)
		}
		return
	}
	switch b.Kind {
	case KindAsteroid:
		c.destroyAsteroid(b, AsteroidScore(b.Mass))
	case KindAlien:
		c.alienDown(b, c.curve.AlienPoints()*(c.ledger.Level()+1))
	case KindAlienBullet:
		c.spend(b.ID)
	}
}

func (c *Controller) destroyAsteroid(b Body, score int) {
	if c.gone(b.ID) {
		return
	}
	c.markGone(b.ID)
	c.emit(Effect{Kind: EffectDestroy, ID: b.ID})
	c.emit(Effect{Kind: EffectExplosion, Position: b.Position, Size: b.Mass})
	c.emit(soundEffect(SoundExplosion, math.Min(b.Mass, 1)))
	c.ledger.RecordEntityDestroyed()
	c.ledger.ApplyScoreDelta(score)
}

func (c *Controller) alienDown(b Body, score int) {
	if !c.alienActive {
		return
	}
	c.alienActive = false
	c.markGone(b.ID)
	c.emit(Effect{Kind: EffectHideAlien})
	c.emit(Effect{Kind: EffectExplosion, Position: b.Position, Size: 1})
	c.emit(soundEffect(SoundExplosion, 1))
	c.nextAlien = c.sched.now + c.curve.AlienSpawnInterval(c.ledger.Level())
	c.ledger.ApplyScoreDelta(score)
}

func (c *Controller) playerDown(b Body) {
	if !c.playerVisible || c.state == StateGameOver {
		return
	}
	c.emit(Effect{Kind: EffectExplosion, Position: b.Position, Size: 1.5})
	c.emit(soundEffect(SoundPlayerExplosion, 1))

	if !c.ledger.RecordPlayerDestroyed() {
		c.resetPlayer(respawnResetDelay)
		return
	}
	c.gameOver()
}

func (c *Controller) gameOver() {
	c.state = StateGameOver
	c.playerGen++
	c.inputEnabled = false
	c.hyperspacing = false
	c.setPlayerVisible(false)
	c.ledger.SetMessage(MessageGameOver)

	c.sched.start("game-over", nil,
		step{gameOverSceneDelay, func() {
			if c.sceneRequested {
				return
			}
			c.sceneRequested = true
			c.emit(Effect{Kind: EffectScene, Scene: SceneMainMenu})
		}},
	)
}

// resetPlayer hides the player at the center and brings them back in after
// delay. Any pending hyperspace sequence is abandoned.
func (c *Controller) resetPlayer(delay time.Duration) {
	c.playerGen++
	gen := c.playerGen
	offset := c.audioOffset()

	c.sched.start("player-reset", func() bool { return gen == c.playerGen },
		step{0, func() {
			c.inputEnabled = false
			c.hyperspacing = false
			c.setPlayerVisible(false)
			c.emit(Effect{Kind: EffectPlacePlayer})
		}},
		step{getReadyDelay, func() {
			c.ledger.SetMessage(MessageGetReady)
		}},
		step{max(delay-offset, 0), func() {
			c.emit(soundEffect(SoundHyperspace, 1))
		}},
		step{offset, func() {
			c.ledger.SetMessage("")
			c.setPlayerVisible(true)
			c.emit(c.blast(Vec2{}, false))
			c.inputEnabled = true
		}},
	)
}

// hyperspace starts a jump when the player is in control, not already
// jumping and has a jump to spend.
func (c *Controller) hyperspace() {
	if !c.inputEnabled || c.hyperspacing || c.state == StateGameOver {
		return
	}
	if !c.ledger.ConsumeJump() {
		return
	}
	gen := c.playerGen
	offset := c.audioOffset()
	effect := seconds(c.tuning.Hyperspace.EffectDuration)

	c.hyperspacing = true
	c.emit(soundEffect(SoundHyperspace, 1))

	c.sched.start("hyperspace", func() bool { return gen == c.playerGen },
		step{offset, func() {
			c.inputEnabled = false
			c.setPlayerVisible(false)
			c.emit(c.blast(Vec2{}, true))
		}},
		step{effect + hyperspaceCooldown, func() {
			c.emit(soundEffect(SoundHyperspace, 1))
		}},
		step{offset, func() {
			target := c.spawner.HyperspaceTarget()
			c.emit(Effect{Kind: EffectPlacePlayer, Position: target})
			c.setPlayerVisible(true)
			c.emit(c.blast(target, false))
			c.inputEnabled = true
		}},
		step{effect, func() {
			c.hyperspacing = false
		}},
	)
}

// blast asks the world to report everything hostile within the destruction
// radius. atPlayer centers it on the player's current position instead.
func (c *Controller) blast(at Vec2, atPlayer bool) Effect {
	return Effect{
		Kind:     EffectBlast,
		Position: at,
		Radius:   c.tuning.Hyperspace.DestructionRadius,
		Flag:     atPlayer,
	}
}

func (c *Controller) showAlien() {
	c.alienActive = true
	c.emit(Effect{Kind: EffectShowAlien, Position: c.spawner.SpawnAlien()})
}

func (c *Controller) newLevel() {
	c.state = StateLevelAdvancing
	c.nextAlien = c.sched.now + c.curve.BaseAlienSpawnTime()
	c.spawnWave(c.ledger.WaveSize())
	c.ledger.SetMessage(MessageLevelComplete)
	c.sched.start("level-message", func() bool { return c.ledger.message == MessageLevelComplete },
		step{levelMessageTime, func() { c.ledger.SetMessage("") }},
	)
}

func (c *Controller) spawnWave(count int) {
	for _, a := range c.spawner.SpawnWave(count, c.ledger.Level()) {
		c.spawnAsteroid(a)
	}
}

func (c *Controller) spawnAsteroid(a AsteroidSpawn) {
	c.ledger.RecordEntityCreated()
	c.emit(Effect{Kind: EffectSpawnAsteroid, Asteroid: a})
}

func (c *Controller) setPlayerVisible(v bool) {
	c.playerVisible = v
	c.emit(Effect{Kind: EffectPlayerVisible, Flag: v})
}

func (c *Controller) spend(id EntityID) {
	if id == 0 || c.gone(id) {
		return
	}
	c.markGone(id)
	c.emit(Effect{Kind: EffectDestroy, ID: id})
}

func (c *Controller) gone(id EntityID) bool {
	if id == 0 {
		return false
	}
	_, ok := c.destroyed[id]
	return ok
}

func (c *Controller) markGone(id EntityID) {
	if id != 0 {
		c.destroyed[id] = struct{}{}
	}
}

func (c *Controller) pushHUD() {
	if c.ledger.TakeDirty() {
		hud := c.ledger.HUD()
		c.emit(Effect{Kind: EffectHUD, HUD: hud})
		if hud.Message != c.lastMessage {
			c.lastMessage = hud.Message
			c.emit(Effect{Kind: EffectMessage, Message: hud.Message})
		}
	}
}

func (c *Controller) audioOffset() time.Duration {
	return seconds(c.tuning.Hyperspace.AudioOffset)
}

func (c *Controller) emit(e Effect) {
	c.out = append(c.out, e)
}

func (c *Controller) flush() []Effect {
	out := c.out
	c.out = nil
	return out
}
