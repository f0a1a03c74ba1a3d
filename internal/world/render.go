package world

import (
	"math"

	"github.com/tomz197/hyperjump/internal/config"
	"github.com/tomz197/hyperjump/internal/draw"
	"github.com/tomz197/hyperjump/internal/game"
)

// Draw paints the current frame onto c. hyperspacing makes the ship blink
// while a jump is settling.
func (w *World) Draw(c *draw.Canvas, hyperspacing bool) {
	c.Clear()

	for _, p := range w.Particles {
		// fade out: skip the last quarter of a particle's life on odd frames
		if p.Life < p.MaxLife*0.25 && int(w.clock*30)%2 == 1 {
			continue
		}
		c.Plot(p.Pos.X, p.Pos.Y)
	}

	for _, a := range w.Asteroids {
		drawAsteroid(c, a)
	}

	if w.Alien.Active {
		drawAlien(c, &w.Alien)
	}

	for _, b := range w.Bullets {
		c.Plot(b.Pos.X, b.Pos.Y)
		if b.Lethal {
			c.Plot(b.Pos.X-b.Vel.X*0.01, b.Pos.Y-b.Vel.Y*0.01)
		}
	}

	if w.Ship.Visible && !(hyperspacing && blinkOff(w.clock)) {
		drawShip(c, &w.Ship)
	}

	for _, r := range w.Rings {
		c.Ring(r.Pos.X, r.Pos.Y, r.current())
	}
}

func blinkOff(clock float64) bool {
	return int(clock*config.PlayerBlinkFreq*2)%2 == 1
}

func drawAsteroid(c *draw.Canvas, a *Asteroid) {
	pts := c.BorrowPoints(len(a.Vertices))
	step := 2 * math.Pi / float64(len(a.Vertices))
	for i, r := range a.Vertices {
		angle := a.Angle + float64(i)*step
		pts[i] = draw.Point{X: a.Pos.X + math.Cos(angle)*r, Y: a.Pos.Y + math.Sin(angle)*r}
	}
	c.Polygon(pts, false)
}

// drawShip renders a filled triangle pointing along the ship's angle.
func drawShip(c *draw.Canvas, s *Ship) {
	size := config.ShipRadius
	nose := s.nose()
	left := s.Pos.Add(game.FromAngle(s.Angle + 2.5).Scale(size))
	right := s.Pos.Add(game.FromAngle(s.Angle - 2.5).Scale(size))
	c.Polygon([]draw.Point{
		{X: nose.X, Y: nose.Y},
		{X: left.X, Y: left.Y},
		{X: right.X, Y: right.Y},
	}, true)

	if s.Thrusting {
		tail := s.Pos.Sub(game.FromAngle(s.Angle).Scale(size * 1.6))
		c.Plot(tail.X, tail.Y)
	}
}

// drawAlien renders the saucer: a flat hull with a dome, plus a shield ring
// while a lethal shot is being deflected.
func drawAlien(c *draw.Canvas, a *Alien) {
	r := config.AlienRadius
	x, y := a.Pos.X, a.Pos.Y
	c.Polygon([]draw.Point{
		{X: x - r, Y: y},
		{X: x - r*0.5, Y: y - r*0.35},
		{X: x + r*0.5, Y: y - r*0.35},
		{X: x + r, Y: y},
		{X: x + r*0.5, Y: y + r*0.35},
		{X: x - r*0.5, Y: y + r*0.35},
	}, true)
	c.Polygon([]draw.Point{
		{X: x - r*0.35, Y: y - r*0.35},
		{X: x - r*0.2, Y: y - r*0.7},
		{X: x + r*0.2, Y: y - r*0.7},
		{X: x + r*0.35, Y: y - r*0.35},
	}, false)

	// rotating running light
	light := a.Pos.Add(game.FromAngle(a.Angle).Scale(r * 0.8))
	c.Plot(light.X, light.Y)

	if a.Shield > 0 {
		c.Ring(x, y, r*1.6)
	}
}
