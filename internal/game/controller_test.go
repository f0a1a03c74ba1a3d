package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tomz197/hyperjump/internal/config"
)

const frame = 50 * time.Millisecond

func newTestController(t *testing.T, mutate func(*config.Tuning)) *Controller {
	t.Helper()
	tuning := config.DefaultTuning()
	if mutate != nil {
		mutate(&tuning)
	}
	return NewController(tuning, testField, rand.New(rand.NewPCG(42, 7)))
}

// fakeWorld hands out IDs for spawned asteroids, mimicking the world.
type fakeWorld struct {
	nextID    EntityID
	asteroids map[EntityID]AsteroidSpawn
	player    Vec2
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{nextID: 100, asteroids: make(map[EntityID]AsteroidSpawn)}
}

func (w *fakeWorld) apply(effects []Effect) {
	for _, e := range effects {
		switch e.Kind {
		case EffectSpawnAsteroid:
			w.nextID++
			w.asteroids[w.nextID] = e.Asteroid
		case EffectDestroy:
			delete(w.asteroids, e.ID)
		case EffectPlacePlayer:
			w.player = e.Position
		}
	}
}

func (w *fakeWorld) body(id EntityID) Body {
	a := w.asteroids[id]
	return Body{ID: id, Kind: KindAsteroid, Position: a.Position, Mass: a.Mass, CruiseSpeed: a.Velocity.Len()}
}

func run(c *Controller, w *fakeWorld, d time.Duration) []Effect {
	var all []Effect
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		fx := c.Tick(frame, nil)
		w.apply(fx)
		all = append(all, fx...)
	}
	return all
}

func ofKind(effects []Effect, kind EffectKind) []Effect {
	var out []Effect
	for _, e := range effects {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func startPlaying(t *testing.T, c *Controller, w *fakeWorld) {
	t.Helper()
	w.apply(c.Start())
	run(c, w, 3500*time.Millisecond)
	if !c.View().PlayerInputEnabled {
		t.Fatal("player not in control after the entry sequence")
	}
}

func TestStartSpawnsWaveAndHidesPlayer(t *testing.T) {
	c := newTestController(t, nil)
	fx := c.Start()

	if n := len(ofKind(fx, EffectSpawnAsteroid)); n != 7 {
		t.Fatalf("spawned %d asteroids, want 7", n)
	}
	if c.Ledger().Remaining() != 7 {
		t.Fatalf("remaining = %d, want 7", c.Ledger().Remaining())
	}
	vis := ofKind(fx, EffectPlayerVisible)
	if len(vis) != 1 || vis[0].Flag {
		t.Fatalf("expected player hidden at start, got %+v", vis)
	}
	if len(ofKind(fx, EffectHUD)) != 1 {
		t.Fatal("expected initial HUD push")
	}
	if c.Start() != nil {
		t.Fatal("second Start should do nothing")
	}
	if v := c.View(); v.State != StateLevelActive || v.PlayerInputEnabled {
		t.Fatalf("unexpected view after start: %+v", v)
	}
}

func TestEntrySequenceTiming(t *testing.T) {
	c := newTestController(t, nil)
	w := newFakeWorld()
	w.apply(c.Start())

	fx := run(c, w, 1500*time.Millisecond)
	msgs := ofKind(fx, EffectMessage)
	if len(msgs) != 1 || msgs[0].Message != MessageGetReady {
		t.Fatalf("messages = %+v, want GET READY", msgs)
	}
	if c.View().PlayerInputEnabled {
		t.Fatal("input enabled too early")
	}

	fx = run(c, w, 2*time.Second)
	if len(ofKind(fx, EffectSound)) == 0 {
		t.Fatal("expected hyperspace sound before arrival")
	}
	blasts := ofKind(fx, EffectBlast)
	if len(blasts) != 1 || blasts[0].Radius != 60 || blasts[0].Flag {
		t.Fatalf("blasts = %+v, want one arrival blast at the center", blasts)
	}
	if v := c.View(); !v.PlayerInputEnabled || !v.PlayerVisible || v.HUD.Message != "" {
		t.Fatalf("player not ready: %+v", v)
	}
}

func TestWaveClearedAdvancesLevel(t *testing.T) {
	c := newTestController(t, nil)
	w := newFakeWorld()
	startPlaying(t, c, w)

	var events []Event
	bullet := EntityID(1)
	for id := range w.asteroids {
		events = append(events, Collision(
			Body{ID: bullet, Kind: KindPlayerBullet, Lethal: true},
			w.body(id), Vec2{X: 1}, Vec2{}))
		bullet++
	}
	fx := c.Tick(frame, events)
	w.apply(fx)

	if c.Ledger().Level() != 1 {
		t.Fatalf("level = %d, want 1", c.Ledger().Level())
	}
	if c.Ledger().WaveSize() != 8 || len(ofKind(fx, EffectSpawnAsteroid)) != 8 {
		t.Fatalf("next wave = %d (spawned %d), want 8", c.Ledger().WaveSize(), len(ofKind(fx, EffectSpawnAsteroid)))
	}
	if c.View().State != StateLevelAdvancing {
		t.Fatalf("state = %v, want level-advancing", c.View().State)
	}
	if c.View().HUD.Message != MessageLevelComplete {
		t.Fatalf("message = %q", c.View().HUD.Message)
	}
	if len(ofKind(fx, EffectDestroy)) != 14 {
		t.Fatalf("destroyed %d entities, want 7 asteroids and 7 bullets", len(ofKind(fx, EffectDestroy)))
	}

	c.Tick(frame, nil)
	if c.View().State != StateLevelActive {
		t.Fatal("advancing state should last one frame")
	}
	run(c, w, 3*time.Second)
	if c.View().HUD.Message != "" {
		t.Fatal("level message not cleared after 3s")
	}
}

func TestSplitKeepsWaveCount(t *testing.T) {
	c := newTestController(t, nil)
	w := newFakeWorld()
	startPlaying(t, c, w)

	rock := Body{ID: 500, Kind: KindAsteroid, Mass: 2.0}
	before := c.Ledger().Remaining()
	fx := c.Tick(frame, []Event{Collision(Body{ID: 1, Kind: KindPlayerBullet}, rock, Vec2{}, Vec2{})})

	if len(ofKind(fx, EffectSpawnAsteroid)) != 2 {
		t.Fatal("expected two split children")
	}
	if got := c.Ledger().Remaining(); got != before+1 {
		t.Fatalf("remaining = %d, want %d", got, before+1)
	}
	if c.Ledger().Score() != 50 {
		t.Fatalf("score = %d, want 50", c.Ledger().Score())
	}
}

func TestDuplicateContactsIgnoredWithinTick(t *testing.T) {
	c := newTestController(t, nil)
	w := newFakeWorld()
	startPlaying(t, c, w)

	rock := Body{ID: 500, Kind: KindAsteroid, Mass: 1.0}
	hit := Collision(Body{ID: 1, Kind: KindPlayerBullet, Lethal: true}, rock, Vec2{}, Vec2{})
	other := Collision(Body{ID: 2, Kind: KindPlayerBullet, Lethal: true}, rock, Vec2{}, Vec2{})
	c.Tick(frame, []Event{hit, hit, other})

	if c.Ledger().Score() != 100 {
		t.Fatalf("score = %d, want 100 from a single kill", c.Ledger().Score())
	}
}

func TestAsteroidPairBouncesBoth(t *testing.T) {
	c := newTestController(t, nil)
	w := newFakeWorld()
	startPlaying(t, c, w)

	a := Body{ID: 10, Kind: KindAsteroid, Mass: 1, CruiseSpeed: 10}
	b := Body{ID: 11, Kind: KindAsteroid, Mass: 1, CruiseSpeed: 6}
	fx := c.Tick(frame, []Event{Collision(a, b, Vec2{X: 1, Y: 1}, Vec2{})})

	vel := ofKind(fx, EffectSetVelocity)
	if len(vel) != 2 {
		t.Fatalf("got %d velocity changes, want 2", len(vel))
	}
	if vel[0].ID != 10 || vel[1].ID != 11 || vel[0].Velocity.X <= 0 || vel[1].Velocity.X >= 0 {
		t.Fatalf("bounce directions wrong: %+v", vel)
	}
}

func TestJumpAwardAndHyperspace(t *testing.T) {
	c := newTestController(t, func(tu *config.Tuning) { tu.FirstJumpThreshold = 50 })
	w := newFakeWorld()
	startPlaying(t, c, w)

	c.Tick(frame, []Event{Collision(Body{ID: 1, Kind: KindPlayerBullet, Lethal: true}, Body{ID: 500, Kind: KindAsteroid, Mass: 1}, Vec2{}, Vec2{})})
	if c.Ledger().Jumps() != 1 {
		t.Fatalf("jumps = %d, want 1", c.Ledger().Jumps())
	}

	c.Tick(frame, []Event{{Kind: EventHyperspaceRequested}})
	if !c.View().Hyperspacing || c.Ledger().Jumps() != 0 {
		t.Fatal("hyperspace did not start")
	}
	// a second request while jumping is ignored
	c.Tick(frame, []Event{{Kind: EventHyperspaceRequested}})

	fx := run(c, w, 1100*time.Millisecond)
	blasts := ofKind(fx, EffectBlast)
	if len(blasts) != 1 || !blasts[0].Flag {
		t.Fatalf("expected departure blast at the player, got %+v", blasts)
	}
	if c.View().PlayerInputEnabled || c.View().PlayerVisible {
		t.Fatal("player should vanish during the jump")
	}

	fx = run(c, w, 5100*time.Millisecond)
	places := ofKind(fx, EffectPlacePlayer)
	if len(places) != 1 || places[0].Position == (Vec2{}) {
		t.Fatalf("expected one teleport, got %+v", places)
	}
	if !testField.Contains(places[0].Position) {
		t.Fatalf("teleport target %+v outside the field", places[0].Position)
	}
	if v := c.View(); !v.PlayerInputEnabled || v.Hyperspacing {
		t.Fatalf("jump did not finish: %+v", v)
	}
}

func TestPlayerDeathCancelsHyperspace(t *testing.T) {
	c := newTestController(t, func(tu *config.Tuning) { tu.FirstJumpThreshold = 50 })
	w := newFakeWorld()
	startPlaying(t, c, w)

	c.Tick(frame, []Event{Collision(Body{ID: 1, Kind: KindPlayerBullet, Lethal: true}, Body{ID: 500, Kind: KindAsteroid, Mass: 1}, Vec2{}, Vec2{})})
	c.Tick(frame, []Event{{Kind: EventHyperspaceRequested}})
	fx := c.Tick(frame, []Event{Collision(Body{ID: 501, Kind: KindAsteroid, Mass: 1}, Body{ID: 2, Kind: KindPlayer}, Vec2{}, Vec2{})})

	if c.Ledger().Lives() != 2 {
		t.Fatalf("lives = %d, want 2", c.Ledger().Lives())
	}
	if len(ofKind(fx, EffectDestroy)) != 0 {
		t.Fatal("the asteroid that hit the player should survive")
	}

	fx = run(c, w, 8*time.Second)
	for _, p := range ofKind(fx, EffectPlacePlayer) {
		if p.Position != (Vec2{}) {
			t.Fatalf("abandoned hyperspace still teleported the player to %+v", p.Position)
		}
	}
	for _, b := range ofKind(fx, EffectBlast) {
		if b.Flag {
			t.Fatal("abandoned hyperspace still blasted at the player")
		}
	}
	if v := c.View(); !v.PlayerInputEnabled || v.Hyperspacing {
		t.Fatalf("player not respawned cleanly: %+v", v)
	}
}

func TestGameOverSceneFiresOnce(t *testing.T) {
	c := newTestController(t, func(tu *config.Tuning) { tu.Lives = 1 })
	w := newFakeWorld()
	startPlaying(t, c, w)

	player := Body{ID: 2, Kind: KindPlayer}
	fx := c.Tick(frame, []Event{
		Collision(Body{ID: 501, Kind: KindAsteroid, Mass: 1}, player, Vec2{}, Vec2{}),
		Collision(Body{ID: 502, Kind: KindAsteroid, Mass: 1}, player, Vec2{}, Vec2{}),
	})
	if c.View().State != StateGameOver || c.Ledger().Lives() != 0 {
		t.Fatalf("state/lives = %v/%d, want game over", c.View().State, c.Ledger().Lives())
	}
	if n := len(ofKind(fx, EffectExplosion)); n != 1 {
		t.Fatalf("player exploded %d times, want 1", n)
	}
	if c.View().HUD.Message != MessageGameOver {
		t.Fatalf("message = %q", c.View().HUD.Message)
	}

	fx = run(c, w, 4900*time.Millisecond)
	if len(ofKind(fx, EffectScene)) != 0 {
		t.Fatal("scene change before the delay")
	}
	fx = run(c, w, 10*time.Second)
	scenes := ofKind(fx, EffectScene)
	if len(scenes) != 1 || scenes[0].Scene != SceneMainMenu {
		t.Fatalf("scenes = %+v, want exactly one main menu", scenes)
	}
	if len(ofKind(fx, EffectShowAlien)) != 0 || len(ofKind(fx, EffectSpawnAsteroid)) != 0 {
		t.Fatal("nothing should spawn after game over")
	}
}

func TestGameOverStopsSplitsAndScoring(t *testing.T) {
	c := newTestController(t, func(tu *config.Tuning) { tu.Lives = 1 })
	w := newFakeWorld()
	startPlaying(t, c, w)

	c.Tick(frame, []Event{Collision(Body{ID: 501, Kind: KindAsteroid, Mass: 1}, Body{ID: 2, Kind: KindPlayer}, Vec2{}, Vec2{})})
	if c.View().State != StateGameOver {
		t.Fatalf("state = %v, want game over", c.View().State)
	}
	score := c.Ledger().Score()

	// a shot still in flight and a late blast land after the last life
	fx := c.Tick(frame, []Event{
		Collision(Body{ID: 7, Kind: KindPlayerBullet}, Body{ID: 600, Kind: KindAsteroid, Mass: 2}, Vec2{}, Vec2{}),
		{Kind: EventBlastHit, A: Body{ID: 601, Kind: KindAsteroid, Mass: 1}},
		{Kind: EventBlastHit, A: Body{ID: 8, Kind: KindAlienBullet}},
	})
	if n := len(ofKind(fx, EffectSpawnAsteroid)); n != 0 {
		t.Fatalf("spawned %d asteroids after game over", n)
	}
	if got := c.Ledger().Score(); got != score {
		t.Fatalf("score = %d after game over, want %d", got, score)
	}
	destroyed := ofKind(fx, EffectDestroy)
	if len(destroyed) != 2 || destroyed[0].ID != 7 || destroyed[1].ID != 8 {
		t.Fatalf("destroyed %+v, want only the two bullets", destroyed)
	}
}

func TestAlienTimerAndBlocking(t *testing.T) {
	c := newTestController(t, func(tu *config.Tuning) { tu.StartWaveSize = 1 })
	w := newFakeWorld()
	startPlaying(t, c, w)

	fx := run(c, w, 37*time.Second)
	shows := ofKind(fx, EffectShowAlien)
	if len(shows) != 1 {
		t.Fatalf("alien shown %d times, want 1", len(shows))
	}
	if testField.Contains(shows[0].Position) {
		t.Fatalf("alien appeared on screen at %+v", shows[0].Position)
	}
	if !c.View().AlienActive {
		t.Fatal("alien should be active")
	}

	var kill []Event
	for id := range w.asteroids {
		kill = append(kill, Collision(Body{ID: 1, Kind: KindPlayerBullet, Lethal: true}, w.body(id), Vec2{}, Vec2{}))
	}
	c.Tick(frame, kill)
	if c.Ledger().Level() != 0 {
		t.Fatal("level advanced while the alien is out")
	}

	alien := Body{ID: 900, Kind: KindAlien}
	c.Tick(frame, []Event{Collision(Body{ID: 3, Kind: KindPlayerBullet, Lethal: true}, alien, Vec2{}, Vec2{})})
	if !c.View().AlienActive {
		t.Fatal("lethal fire should bounce off the shield")
	}

	before := c.Ledger().Score()
	fx = c.Tick(frame, []Event{
		Collision(Body{ID: 4, Kind: KindPlayerBullet}, alien, Vec2{}, Vec2{}),
		Collision(Body{ID: 5, Kind: KindPlayerBullet}, alien, Vec2{}, Vec2{}),
	})
	if c.View().AlienActive || len(ofKind(fx, EffectHideAlien)) != 1 {
		t.Fatal("alien should be hidden exactly once")
	}
	if got := c.Ledger().Score() - before; got != 500 {
		t.Fatalf("alien worth %d at level 0, want 500", got)
	}
	if c.Ledger().Level() != 1 {
		t.Fatal("level should advance once the alien is gone and the wave is clear")
	}
}

func TestBlastKillsWithoutSplitting(t *testing.T) {
	c := newTestController(t, nil)
	w := newFakeWorld()
	startPlaying(t, c, w)

	fx := c.Tick(frame, []Event{
		{Kind: EventBlastHit, A: Body{ID: 500, Kind: KindAsteroid, Mass: 2}},
		{Kind: EventBlastHit, A: Body{ID: 600, Kind: KindAlienBullet}},
		{Kind: EventBlastHit, A: Body{ID: 900, Kind: KindAlien}},
	})
	if len(ofKind(fx, EffectSpawnAsteroid)) != 0 {
		t.Fatal("blast should not split")
	}
	if c.Ledger().Score() != 50 {
		t.Fatalf("score = %d, want 50", c.Ledger().Score())
	}
	if len(ofKind(fx, EffectHideAlien)) != 0 {
		t.Fatal("inactive alien must not be hidden again")
	}
	if len(ofKind(fx, EffectDestroy)) != 2 {
		t.Fatalf("destroyed %d, want asteroid and alien bullet", len(ofKind(fx, EffectDestroy)))
	}
}
