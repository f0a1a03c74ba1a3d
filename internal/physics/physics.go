// Package physics provides the overlap tests and broad phase used by the
// world simulation.
package physics

import "math"

// Circle is a collision shape on the play plane.
type Circle struct {
	X, Y float64
	R    float64
}

// DistanceSquared returns the squared distance between two points.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Overlaps reports whether two circles intersect.
func (c Circle) Overlaps(o Circle) bool {
	r := c.R + o.R
	return DistanceSquared(c.X, c.Y, o.X, o.Y) < r*r
}

// Contains reports whether the point lies inside or on the circle.
func (c Circle) Contains(x, y float64) bool {
	return DistanceSquared(c.X, c.Y, x, y) <= c.R*c.R
}

// ContactNormal returns the unit normal pointing from o toward c. Coincident
// centers get a fixed +X normal.
func (c Circle) ContactNormal(o Circle) (nx, ny float64) {
	dx, dy := c.X-o.X, c.Y-o.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return 1, 0
	}
	return dx / d, dy / d
}

// ContactPoint returns the point on the line between the centers where the
// two surfaces meet, weighted by radius.
func (c Circle) ContactPoint(o Circle) (x, y float64) {
	total := c.R + o.R
	if total == 0 {
		return c.X, c.Y
	}
	t := c.R / total
	return c.X + (o.X-c.X)*t, c.Y + (o.Y-c.Y)*t
}

// SegmentDistance returns the distance from point p to the segment a-b.
func SegmentDistance(px, py, ax, ay, bx, by float64) float64 {
	abx, aby := bx-ax, by-ay
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return math.Sqrt(DistanceSquared(px, py, ax, ay))
	}
	t := ((px-ax)*abx + (py-ay)*aby) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Sqrt(DistanceSquared(px, py, ax+abx*t, ay+aby*t))
}

// SweepHits reports whether a circle of radius swept from a to b touches c.
func SweepHits(ax, ay, bx, by, radius float64, c Circle) bool {
	return SegmentDistance(c.X, c.Y, ax, ay, bx, by) < radius+c.R
}
