package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// maxChunkSize keeps single writes under a typical MTU so frames flow
// smoothly over SSH.
const maxChunkSize = 1400

// ChunkWriter collects a frame's output and writes it in MTU-sized chunks.
// Coordinates passed to MoveCursor and WriteAt are 1-based canvas cells;
// the canvas offset is added automatically.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter over w.
func NewChunkWriter(w io.Writer, offCol, offRow int) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192), offCol: offCol, offRow: offRow}
}

// SetOffset updates the canvas offset after a resize.
func (cw *ChunkWriter) SetOffset(offCol, offRow int) {
	cw.offCol, cw.offRow = offCol, offRow
}

// MoveCursor appends a cursor position sequence.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

// WriteString appends s.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s at a canvas cell.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteCentered writes s centered on column center of row and returns the
// starting column.
func (cw *ChunkWriter) WriteCentered(center, row int, s string) int {
	col := max(center-utf8.RuneCountInString(s)/2, 1)
	cw.WriteAt(col, row, s)
	return col
}

// Flush sends the collected frame and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.bufw.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.bufw.Flush()
}

var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// StdoutSize reads the size of the local terminal.
func StdoutSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
