package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/tomz197/hyperjump/internal/game"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// sweep is an oscillator whose frequency glides linearly from one pitch to
// another over its duration.
type sweep struct {
	from, to float64
	wave     Wave
	rate     beep.SampleRate
	phase    float64
	pos      int
	total    int
}

// NewSweep returns a streamer of the given wave gliding from -> to Hz.
func NewSweep(from, to float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &sweep{from: from, to: to, wave: wave, rate: rate, total: rate.N(d)}
}

// NewTone returns a fixed-pitch streamer.
func NewTone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, d, wave, rate)
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		var v float64
		switch s.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * s.phase)
		case WaveSquare:
			v = 1
			if s.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (s.phase - 0.5)
		case WaveNoise:
			v = rand.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		t := float64(s.pos) / float64(s.total)
		freq := s.from + (s.to-s.from)*t
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope fades a stream in over attack and out over release.
type envelope struct {
	s     beep.Streamer
	pos   int
	total int

	attack, release int
}

// Shape applies a linear attack and release to s, ending it after d.
func Shape(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{s: s, attack: rate.N(attack), release: rate.N(release), total: rate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := range n {
		if e.pos >= e.total {
			return i, i > 0
		}
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			gain = math.Min(gain, float64(left)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume scales s linearly. Zero or negative volume silences it.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Synthesize builds the streamer for one game sound at volume (0..1).
// Unknown sounds return nil.
func Synthesize(s game.Sound, volume float64, rate beep.SampleRate) beep.Streamer {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	voice := func(from, to float64, d int, wave Wave, attack, release int) beep.Streamer {
		return Shape(NewSweep(from, to, ms(d), wave, rate), ms(d), ms(attack), ms(release), rate)
	}

	var out beep.Streamer
	switch s {
	case game.SoundExplosion:
		out = beep.Mix(
			withVolume(voice(0, 0, 450, WaveNoise, 5, 400), 0.7),
			withVolume(voice(90, 40, 450, WaveSine, 5, 400), 0.3),
		)
	case game.SoundCollision:
		out = withVolume(voice(0, 0, 120, WaveNoise, 2, 100), 0.5)
	case game.SoundBlaster:
		out = withVolume(voice(1400, 300, 110, WaveSquare, 2, 60), 0.35)
	case game.SoundAlienFire:
		out = withVolume(voice(500, 1300, 150, WaveSaw, 2, 80), 0.35)
	case game.SoundShield:
		out = beep.Mix(
			withVolume(voice(1200, 1200, 220, WaveSine, 5, 180), 0.5),
			withVolume(voice(1800, 1800, 220, WaveSine, 5, 120), 0.3),
		)
	case game.SoundHyperspace:
		out = beep.Seq(
			withVolume(voice(150, 1600, 900, WaveSine, 50, 50), 0.5),
			withVolume(voice(1600, 400, 200, WaveSaw, 5, 150), 0.3),
		)
	case game.SoundPlayerExplosion:
		out = beep.Mix(
			withVolume(voice(0, 0, 1000, WaveNoise, 5, 900), 0.6),
			withVolume(voice(70, 30, 1000, WaveSine, 5, 900), 0.4),
		)
	default:
		return nil
	}
	return withVolume(out, math.Min(volume, 1))
}
