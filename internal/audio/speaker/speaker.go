// Package speaker plays synthesized game sounds on the local audio device.
// Only the local binary imports it; remote sessions never open a device.
package speaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	beepspeaker "github.com/gopxl/beep/speaker"

	"github.com/tomz197/hyperjump/internal/audio"
	"github.com/tomz197/hyperjump/internal/game"
)

// Speaker mixes synthesized sounds onto the local audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

var _ audio.Sink = (*Speaker)(nil)

// New opens the default audio device. Only one Speaker can be open per
// process.
func New() (*Speaker, error) {
	rate := audio.SampleRate
	if err := beepspeaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("speaker: init: %w", err)
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	beepspeaker.Play(s.mixer)
	return s, nil
}

// Play starts snd at volume without waiting for it to finish.
func (s *Speaker) Play(snd game.Sound, volume float64) {
	st := audio.Synthesize(snd, volume, audio.SampleRate)
	if st == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	beepspeaker.Lock()
	s.mixer.Add(st)
	beepspeaker.Unlock()
}

// Close silences everything still playing. Later calls to Play are ignored.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	beepspeaker.Lock()
	s.mixer.Clear()
	beepspeaker.Unlock()
}
