package physics

import "math"

// SpatialGrid buckets item indices by position for broad-phase queries.
// The covered area is bounded; positions outside it land in the nearest
// edge cell, so off-screen entities are still found by their neighbours.
//
// The cell size must be at least the largest interaction distance so that
// the 3x3 neighbourhood of a cell holds every possible contact.
type SpatialGrid struct {
	minX, minY  float64
	invCellSize float64
	cols, rows  int
	cells       [][]int
}

// NewSpatialGrid covers the rectangle [minX, minX+w) x [minY, minY+h).
func NewSpatialGrid(minX, minY, w, h, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(w/cellSize)), 1)
	rows := max(int(math.Ceil(h/cellSize)), 1)
	return &SpatialGrid{
		minX:        minX,
		minY:        minY,
		invCellSize: 1 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Clear empties every cell, keeping the backing arrays for the next frame.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert records index at (x, y).
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.cell(x, y)
	i := row*g.cols + col
	g.cells[i] = append(g.cells[i], index)
}

// QueryAround calls fn for every index in the 3x3 neighbourhood of (x, y).
// Returning true from fn stops the query.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.cell(x, y)
	for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
		for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
			for _, idx := range g.cells[r*g.cols+c] {
				if fn(idx) {
					return
				}
			}
		}
	}
}

func (g *SpatialGrid) cell(x, y float64) (col, row int) {
	col = int(math.Floor((x - g.minX) * g.invCellSize))
	row = int(math.Floor((y - g.minY) * g.invCellSize))
	return min(max(col, 0), g.cols-1), min(max(row, 0), g.rows-1)
}
