// Package draw renders the play field to an ANSI terminal using half-block
// characters, giving square-ish pixels at twice the vertical resolution.
package draw

import (
	"fmt"
	"io"
)

// Point is a position in world units.
type Point struct {
	X, Y float64
}

// Block characters.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// Layout is where the canvas sits inside the terminal.
type Layout struct {
	Width, Height int // canvas size in cells
	OffCol        int // 0-based columns skipped on the left
	OffRow        int // 0-based rows skipped at the top
}

// Fit caps the canvas at maxW x maxH cells and centers it in a terminal of
// termW x termH. Space is left for the border when the terminal is larger.
func Fit(termW, termH, maxW, maxH int) Layout {
	l := Layout{Width: max(min(termW, maxW), 1), Height: max(min(termH, maxH), 1)}
	if termW > maxW {
		l.OffCol = (termW - maxW) / 2
	}
	if termH > maxH {
		l.OffRow = (termH - maxH) / 2
	}
	return l
}
