// Package audio synthesizes the game's sound effects on demand; there are
// no assets to load. Playback on a real device lives in audio/speaker so
// headless servers never link a sound driver.
package audio

import (
	"sync"

	"github.com/gopxl/beep"

	"github.com/tomz197/hyperjump/internal/game"
)

// SampleRate is the output rate of the local speaker.
const SampleRate = beep.SampleRate(44100)

// Sink receives sound requests from a game session.
type Sink interface {
	Play(s game.Sound, volume float64)
}

// Nop discards every sound. Remote sessions have no speaker.
type Nop struct{}

func (Nop) Play(game.Sound, float64) {}

// Recorder keeps every request. Tests and headless runs use it to observe
// what a session would have played.
type Recorder struct {
	mu     sync.Mutex
	played []game.Sound
}

func (r *Recorder) Play(s game.Sound, _ float64) {
	r.mu.Lock()
	r.played = append(r.played, s)
	r.mu.Unlock()
}

// Played returns a copy of the sounds received so far.
func (r *Recorder) Played() []game.Sound {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.Sound(nil), r.played...)
}
