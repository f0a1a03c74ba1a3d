package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Canvas is a pixel buffer with two pixels per terminal cell vertically.
// Drawing happens in world units centered on the origin: the visible field
// spans [-halfW, halfW] x [-halfH, halfH] and is scaled to the terminal.
//
// Render only emits cells that changed since the previous frame.
type Canvas struct {
	cols, rows int
	pixels     []bool // [y*cols + x], y in sub-pixels
	prev       []rune // last rendered cell, 0 when unknown

	halfW, halfH   float64
	scaleX, scaleY float64

	offCol, offRow int

	renderBuf     strings.Builder
	numBuf        [20]byte
	intersections []float64
	points        []Point
}

// NewCanvas creates a canvas of cols x rows cells showing a field with the
// given half extents.
func NewCanvas(cols, rows int, halfW, halfH float64) *Canvas {
	c := &Canvas{halfW: halfW, halfH: halfH}
	c.Resize(cols, rows)
	return c
}

// Resize changes the terminal area, keeping the field mapping.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.cols, c.rows = cols, rows
		c.pixels = make([]bool, cols*rows*2)
		c.prev = make([]rune, cols*rows)
	}
	c.scaleX = float64(cols) / (2 * c.halfW)
	c.scaleY = float64(rows*2) / (2 * c.halfH)
}

// SetOffset moves the canvas inside the terminal (0-based cells).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offCol || row != c.offRow {
		c.offCol, c.offRow = col, row
		c.ForceRedraw()
	}
}

// Cols returns the canvas width in cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the canvas height in cells.
func (c *Canvas) Rows() int { return c.rows }

// ForceRedraw makes the next Render emit every cell.
func (c *Canvas) ForceRedraw() {
	clear(c.prev)
}

// MarkTextDirty forgets n cells starting at the 1-based (col, row) so that
// canvas content hidden under overlay text is repainted next frame.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.rows {
		return
	}
	for x := max(col-1, 0); x < min(col-1+n, c.cols); x++ {
		c.prev[r*c.cols+x] = 0
	}
}

// Clear resets every pixel.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

func (c *Canvas) toPixel(x, y float64) (float64, float64) {
	return (x + c.halfW) * c.scaleX, (y + c.halfH) * c.scaleY
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.rows*2 {
		c.pixels[y*c.cols+x] = true
	}
}

// Plot sets the pixel under a world position.
func (c *Canvas) Plot(x, y float64) {
	px, py := c.toPixel(x, y)
	c.setPixel(int(math.Round(px)), int(math.Round(py)))
}

// Line draws a line between two world positions.
func (c *Canvas) Line(p1, p2 Point) {
	fx1, fy1 := c.toPixel(p1.X, p1.Y)
	fx2, fy2 := c.toPixel(p2.X, p2.Y)
	x1, y1 := int(math.Round(fx1)), int(math.Round(fy1))
	x2, y2 := int(math.Round(fx2)), int(math.Round(fy2))

	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		c.setPixel(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// Polygon draws a closed outline, optionally filled.
func (c *Canvas) Polygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fill(points)
	}
	for i := range points {
		c.Line(points[i], points[(i+1)%len(points)])
	}
}

// Ring draws a circle outline of radius r around (x, y).
func (c *Canvas) Ring(x, y, r float64) {
	if r <= 0 {
		return
	}
	n := max(12, int(r*c.scaleX*2))
	pts := c.BorrowPoints(n)
	for i := range n {
		a := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = Point{X: x + math.Cos(a)*r, Y: y + math.Sin(a)*r}
	}
	c.Polygon(pts, false)
}

// fill scanline-fills a polygon in pixel space.
func (c *Canvas) fill(points []Point) {
	scaled := make([]Point, len(points))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		x, y := c.toPixel(p.X, p.Y)
		scaled[i] = Point{X: x, Y: y}
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scan := float64(y) + 0.5
		xs := c.intersections[:0]
		for i, p1 := range scaled {
			p2 := scaled[(i+1)%len(scaled)]
			if (p1.Y <= scan && p2.Y > scan) || (p2.Y <= scan && p1.Y > scan) {
				t := (scan - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersections = xs
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// BorrowPoints returns a scratch slice valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.points) < n {
		c.points = make([]Point, n)
	}
	return c.points[:n]
}

// Cell returns the 1-based canvas cell for a world position, for placing
// text with ChunkWriter.WriteAt.
func (c *Canvas) Cell(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return int(px) + 1, int(py)/2 + 1
}

// Render writes the cells that changed since the last Render.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	for row := range c.rows {
		top := c.pixels[row*2*c.cols:]
		bottom := c.pixels[(row*2+1)*c.cols:]
		for col := range c.cols {
			ch := cellRune(top[col], bottom[col])
			i := row*c.cols + col
			if c.prev[i] == ch {
				continue
			}
			c.prev[i] = ch
			c.renderBuf.WriteString("\033[")
			c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offRow), 10))
			c.renderBuf.WriteByte(';')
			c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offCol), 10))
			c.renderBuf.WriteByte('H')
			c.renderBuf.WriteRune(ch)
		}
	}
	_, err := io.WriteString(w, c.renderBuf.String())
	return err
}

func cellRune(top, bottom bool) rune {
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	default:
		return BlockEmpty
	}
}

// RenderBorder frames the canvas when the terminal has room around it.
func (c *Canvas) RenderBorder(w io.Writer) error {
	if c.offCol < 1 && c.offRow < 1 {
		return nil
	}
	var b strings.Builder
	left, right := c.offCol, c.offCol+c.cols+1
	top, bottom := c.offRow, c.offRow+c.rows+1
	bar := strings.Repeat("─", c.cols)

	if c.offRow >= 1 {
		if c.offCol >= 1 {
			b.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left) + "H┌" + bar + "┐")
			b.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left) + "H└" + bar + "┘")
		} else {
			b.WriteString("\033[" + strconv.Itoa(top) + ";1H" + bar)
			b.WriteString("\033[" + strconv.Itoa(bottom) + ";1H" + bar)
		}
	}
	if c.offCol >= 1 {
		for row := c.offRow + 1; row <= c.offRow+c.rows; row++ {
			r := strconv.Itoa(row)
			b.WriteString("\033[" + r + ";" + strconv.Itoa(left) + "H│\033[" + r + ";" + strconv.Itoa(right) + "H│")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
