package speaker

import (
	"testing"

	"github.com/gopxl/beep"

	"github.com/tomz197/hyperjump/internal/game"
)

// The mixer is exercised without opening a device.
func TestPlayQueuesUntilClosed(t *testing.T) {
	s := &Speaker{mixer: &beep.Mixer{}}

	s.Play(game.SoundBlaster, 1)
	s.Play(game.Sound(99), 1)
	if n := s.mixer.Len(); n != 1 {
		t.Fatalf("mixer holds %d streamers, want 1", n)
	}

	s.Close()
	if n := s.mixer.Len(); n != 0 {
		t.Fatalf("mixer holds %d streamers after Close, want 0", n)
	}
	s.Play(game.SoundExplosion, 1)
	if n := s.mixer.Len(); n != 0 {
		t.Fatal("Play after Close queued a sound")
	}
	s.Close()
}
