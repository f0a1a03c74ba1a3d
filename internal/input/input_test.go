package input

import (
	"testing"
	"time"
)

func testStream(at *time.Time) *Stream {
	s := newStream()
	s.now = func() time.Time { return *at }
	return s
}

func TestReadMapsKeys(t *testing.T) {
	now := time.Unix(100, 0)
	s := testStream(&now)
	for _, b := range []byte("wf h") {
		s.ch <- b
	}

	in := s.Read()
	if !in.Thrust || !in.AltFire || !in.Fire || !in.Hyperspace {
		t.Fatalf("keys not mapped: %+v", in)
	}
	if in.Left || in.Quit || in.Enter {
		t.Fatalf("unexpected keys set: %+v", in)
	}
	if !in.Any() || len(in.Pressed) != 4 {
		t.Fatalf("pressed = %q", in.Pressed)
	}
}

func TestArrowSequences(t *testing.T) {
	now := time.Unix(100, 0)
	s := testStream(&now)
	for _, b := range []byte("\x1b[A\x1b[D") {
		s.ch <- b
	}
	in := s.Read()
	if !in.Thrust || !in.Left {
		t.Fatalf("arrows not mapped: %+v", in)
	}
	if in.Escape {
		t.Fatal("escape of an arrow sequence should not count as Escape")
	}
}

func TestKeysReleaseAfterHoldWindow(t *testing.T) {
	now := time.Unix(100, 0)
	s := testStream(&now)
	s.ch <- 'a'
	if !s.Read().Left {
		t.Fatal("left not pressed")
	}

	now = now.Add(10 * time.Millisecond)
	if !s.Read().Left {
		t.Fatal("left should still be held inside the window")
	}
	now = now.Add(keyHoldDuration)
	if s.Read().Left {
		t.Fatal("left should be released after the window")
	}
}

func TestClosedStream(t *testing.T) {
	now := time.Unix(100, 0)
	s := testStream(&now)
	s.ch <- 'q'
	close(s.ch)

	in := s.Read()
	if !in.Quit || !in.Closed {
		t.Fatalf("got %+v, want quit and closed", in)
	}
	if !s.Read().Closed {
		t.Fatal("closed should stick")
	}
}
