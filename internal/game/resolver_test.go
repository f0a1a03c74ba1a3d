package game

import (
	"math"
	"testing"
)

func testResolver(seed uint64) *Resolver {
	return NewResolver(testCurve(), testSpawner(seed))
}

func TestAsteroidScoreQuantized(t *testing.T) {
	cases := []struct {
		mass float64
		want int
	}{
		{1.0, 100},
		{2.0, 50},
		{0.4, 250},
		{2.6, 50},
		{0.7, 150},
		{0.5, 200},
	}
	for _, tc := range cases {
		if got := AsteroidScore(tc.mass); got != tc.want {
			t.Errorf("AsteroidScore(%v) = %d, want %d", tc.mass, got, tc.want)
		}
	}
}

func TestPlayerBulletSplitsLargeAsteroid(t *testing.T) {
	r := testResolver(10)
	rock := Body{ID: 1, Kind: KindAsteroid, Mass: 1.0, Position: Vec2{X: 3}}
	bullet := Body{ID: 2, Kind: KindPlayerBullet}

	out := r.Resolve(bullet, rock, Vec2{X: 1}, 0)
	if out.Kind != OutcomeSplit {
		t.Fatalf("kind = %v, want split", out.Kind)
	}
	if len(out.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(out.Children))
	}
	if out.Children[0].Mass+out.Children[1].Mass != 1.0 {
		t.Fatalf("children masses do not sum to parent")
	}
	if out.ScoreDelta != 100 {
		t.Fatalf("score = %d, want 100", out.ScoreDelta)
	}
	if out.Spent != 2 || out.Target.ID != 1 {
		t.Fatalf("spent/target = %d/%d, want 2/1", out.Spent, out.Target.ID)
	}
}

func TestSplitThresholdUsesLevelMinimum(t *testing.T) {
	r := testResolver(11)
	c := testCurve()
	bullet := Body{ID: 9, Kind: KindPlayerBullet}

	for _, level := range []int{0, 3, 10} {
		floor := c.MinMass(level)
		atLimit := Body{ID: 1, Kind: KindAsteroid, Mass: 2 * floor}
		if out := r.Resolve(atLimit, bullet, Vec2{}, level); len(out.Children) != 2 {
			t.Fatalf("level %d mass %v: children = %d, want 2", level, 2*floor, len(out.Children))
		}
		below := Body{ID: 1, Kind: KindAsteroid, Mass: 2*floor - 0.01}
		out := r.Resolve(below, bullet, Vec2{}, level)
		if out.Kind != OutcomeSplit || len(out.Children) != 0 {
			t.Fatalf("level %d mass %v: kind %v children %d, want removal", level, below.Mass, out.Kind, len(out.Children))
		}
	}
}

func TestAlienBulletRemovesAsteroidWithoutScore(t *testing.T) {
	r := testResolver(12)
	out := r.Resolve(Body{ID: 1, Kind: KindAsteroid, Mass: 2.0}, Body{ID: 2, Kind: KindAlienBullet}, Vec2{}, 0)
	if out.Kind != OutcomeSplit || len(out.Children) != 0 || out.ScoreDelta != 0 {
		t.Fatalf("got %+v, want plain removal without score", out)
	}
}

func TestLethalBulletNeverSplits(t *testing.T) {
	r := testResolver(13)
	out := r.Resolve(Body{ID: 1, Kind: KindAsteroid, Mass: 2.0}, Body{ID: 2, Kind: KindPlayerBullet, Lethal: true}, Vec2{}, 0)
	if len(out.Children) != 0 {
		t.Fatalf("lethal bullet split the asteroid")
	}
	if out.ScoreDelta != 50 {
		t.Fatalf("score = %d, want 50", out.ScoreDelta)
	}
}

func TestAlienDownScalesWithLevel(t *testing.T) {
	r := testResolver(14)
	out := r.Resolve(Body{ID: 5, Kind: KindPlayerBullet}, Body{ID: 6, Kind: KindAlien}, Vec2{}, 2)
	if out.Kind != OutcomeAlienDown {
		t.Fatalf("kind = %v, want alien down", out.Kind)
	}
	if out.ScoreDelta != 1500 {
		t.Fatalf("score = %d, want 1500", out.ScoreDelta)
	}
}

func TestAlienShieldsLethalAndIgnoresOwnFire(t *testing.T) {
	r := testResolver(15)
	alien := Body{ID: 6, Kind: KindAlien}
	if out := r.Resolve(alien, Body{ID: 1, Kind: KindPlayerBullet, Lethal: true}, Vec2{}, 0); out.Kind != OutcomeShield {
		t.Fatalf("lethal hit kind = %v, want shield", out.Kind)
	}
	if out := r.Resolve(alien, Body{ID: 2, Kind: KindAlienBullet}, Vec2{}, 0); out.Kind != OutcomeNone {
		t.Fatalf("own bullet kind = %v, want none", out.Kind)
	}
}

func TestPlayerHitLeavesOtherParty(t *testing.T) {
	r := testResolver(16)
	player := Body{ID: 1, Kind: KindPlayer}
	for _, other := range []Kind{KindAsteroid, KindAlien, KindAlienBullet} {
		out := r.Resolve(Body{ID: 2, Kind: other, Mass: 1}, player, Vec2{}, 0)
		if out.Kind != OutcomePlayerHit || out.Target.ID != 1 {
			t.Fatalf("%v: got %+v, want player hit on player", other, out)
		}
		if out.ScoreDelta != 0 || len(out.Children) != 0 {
			t.Fatalf("%v: player hit should not score or split", other)
		}
	}
	if out := r.Resolve(player, Body{ID: 3, Kind: KindPlayerBullet}, Vec2{}, 0); out.Kind != OutcomeNone {
		t.Fatalf("own bullet should not hit the player, got %v", out.Kind)
	}
}

func TestAsteroidBounceKeepsSpeedAndClampsNormal(t *testing.T) {
	r := testResolver(17)
	a := Body{ID: 1, Kind: KindAsteroid, Mass: 1, CruiseSpeed: 12}
	b := Body{ID: 2, Kind: KindAsteroid, Mass: 1}

	out := r.Resolve(a, b, Vec2{X: 0.1, Y: 1}, 0)
	if out.Kind != OutcomeBounce {
		t.Fatalf("kind = %v, want bounce", out.Kind)
	}
	if got := out.Velocity.Len(); math.Abs(got-12) > 1e-9 {
		t.Fatalf("bounce speed = %v, want 12", got)
	}
	dir := out.Velocity.Normalize()
	if math.Abs(dir.X) < 0.37 {
		t.Fatalf("grazing x component not clamped: %+v", dir)
	}
}

func TestClampNormal(t *testing.T) {
	cases := []struct {
		in   Vec2
		sign Vec2
	}{
		{Vec2{X: 0, Y: 1}, Vec2{X: 1, Y: 1}},
		{Vec2{X: -0.05, Y: -1}, Vec2{X: -1, Y: -1}},
		{Vec2{X: 1, Y: 0.01}, Vec2{X: 1, Y: 1}},
		{Vec2{X: -1, Y: -0.2}, Vec2{X: -1, Y: -1}},
	}
	for _, tc := range cases {
		got := ClampNormal(tc.in)
		if math.Abs(got.Len()-1) > 1e-9 {
			t.Fatalf("ClampNormal(%+v) not unit: %+v", tc.in, got)
		}
		if got.X*tc.sign.X <= 0 || got.Y*tc.sign.Y <= 0 {
			t.Fatalf("ClampNormal(%+v) = %+v, wrong quadrant", tc.in, got)
		}
	}

	diag := ClampNormal(Vec2{X: 1, Y: 1})
	if math.Abs(diag.X-math.Sqrt2/2) > 1e-9 {
		t.Fatalf("non-grazing normal changed: %+v", diag)
	}
}
