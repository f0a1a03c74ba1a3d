// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"io"
	"time"
)

// keyHoldDuration is how long a key counts as held after its last byte.
// Terminals only report repeats, so this bridges the gap between them.
const keyHoldDuration = 30 * time.Millisecond

// Input is the key state for one frame.
type Input struct {
	Quit       bool
	Left       bool
	Right      bool
	Thrust     bool
	Fire       bool
	AltFire    bool // secondary, shield-piercing fire
	Hyperspace bool
	Enter      bool
	Escape     bool
	Closed     bool   // the underlying reader is gone
	Pressed    []byte // raw bytes seen this frame
}

// Any reports whether any key was seen this frame.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

type key int

const (
	keyQuit key = iota
	keyLeft
	keyRight
	keyThrust
	keyFire
	keyAltFire
	keyHyperspace
	keyEnter
	keyEscape
	keyCount
)

// Stream delivers input bytes through a channel and remembers when each
// key was last seen.
type Stream struct {
	ch     chan byte
	seen   [keyCount]time.Time
	closed bool
	now    func() time.Time
}

// StartStream spawns a goroutine that copies bytes from r into the stream.
// The goroutine exits when r returns an error.
func StartStream(r io.Reader) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := newStream()
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128), now: time.Now}
}

// Read drains every pending byte without blocking and returns the frame's
// key state.
func (s *Stream) Read() Input {
	now := s.now()
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(buf); i++ {
		if buf[i] == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k, ok := arrowKey(buf[i+2]); ok {
				s.seen[k] = now
				i += 2
				continue
			}
		}
		if k, ok := byteKey(buf[i]); ok {
			s.seen[k] = now
		}
	}

	held := func(k key) bool { return now.Sub(s.seen[k]) < keyHoldDuration }
	return Input{
		Quit:       held(keyQuit),
		Left:       held(keyLeft),
		Right:      held(keyRight),
		Thrust:     held(keyThrust),
		Fire:       held(keyFire),
		AltFire:    held(keyAltFire),
		Hyperspace: held(keyHyperspace),
		Enter:      held(keyEnter),
		Escape:     held(keyEscape),
		Closed:     s.closed,
		Pressed:    buf,
	}
}

func arrowKey(b byte) (key, bool) {
	switch b {
	case 'A':
		return keyThrust, true
	case 'C':
		return keyRight, true
	case 'D':
		return keyLeft, true
	}
	return 0, false
}

func byteKey(b byte) (key, bool) {
	switch b {
	case 'q', 'Q', 0x03: // ctrl+c
		return keyQuit, true
	case 'a', 'A':
		return keyLeft, true
	case 'd', 'D':
		return keyRight, true
	case 'w', 'W':
		return keyThrust, true
	case ' ':
		return keyFire, true
	case 'f', 'F':
		return keyAltFire, true
	case 'h', 'H', 'e', 'E':
		return keyHyperspace, true
	case '\n', '\r':
		return keyEnter, true
	case '\x1b':
		return keyEscape, true
	}
	return 0, false
}
