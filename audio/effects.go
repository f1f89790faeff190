package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/threadworms/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite oscillator of the given duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope wraps s with an attack/release envelope over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: max(total-att-rel, 0),
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; math.Log2(0) is -Inf so zero volume is silenced instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func (c *Config) volume(s SoundType) float64 {
	return c.EffectVolumes[s] * c.MasterVolume
}

// CreateReverseSound generates a descending two-note chirp for a reversal
func CreateReverseSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	n1 := NewOscillator(659.25, parameter.ReverseNoteDuration, WaveSquare, rate)
	n1Shaped := NewEnvelope(n1, parameter.ReverseNoteDuration, parameter.ReverseAttack, parameter.ReverseRelease, rate)

	n2 := NewOscillator(440.0, parameter.ReverseNoteDuration, WaveSquare, rate)
	n2Shaped := NewEnvelope(n2, parameter.ReverseNoteDuration, parameter.ReverseAttack, parameter.ReverseRelease, rate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), cfg.volume(SoundReverse))
}

// CreateStuckSound generates a low buzz for a boxed-in worm
func CreateStuckSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(90.0, parameter.StuckSoundDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, parameter.StuckSoundDuration, parameter.StuckSoundAttack, parameter.StuckSoundRelease, rate)

	return newVolume(shaped, cfg.volume(SoundStuck))
}

// CreateShrinkSound generates a short noise puff when contention shrinks a worm
func CreateShrinkSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	noise := NewOscillator(0, parameter.ShrinkSoundDuration, WaveNoise, rate)
	shaped := NewEnvelope(noise, parameter.ShrinkSoundDuration, parameter.ShrinkSoundAttack, parameter.ShrinkSoundRelease, rate)

	return newVolume(shaped, cfg.volume(SoundShrink))
}

// CreateFaultSound generates a long tone with an octave overtone for a faulted worm
func CreateFaultSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	fund := NewOscillator(220.0, parameter.FaultSoundDuration, WaveSquare, rate)
	fundShaped := NewEnvelope(fund, parameter.FaultSoundDuration, parameter.FaultSoundAttack, parameter.FaultSoundRelease, rate)

	over := NewOscillator(440.0, parameter.FaultSoundDuration, WaveSine, rate)
	overShaped := NewEnvelope(over, parameter.FaultSoundDuration, parameter.FaultSoundAttack, parameter.FaultSoundRelease, rate)

	mixed := beep.Mix(newVolume(fundShaped, 0.7), newVolume(overShaped, 0.3))
	return newVolume(mixed, cfg.volume(SoundFault))
}

// GetSoundEffect returns the streamer for soundType, or nil for SoundNone
func GetSoundEffect(soundType SoundType, cfg *Config) beep.Streamer {
	switch soundType {
	case SoundReverse:
		return CreateReverseSound(cfg)
	case SoundStuck:
		return CreateStuckSound(cfg)
	case SoundShrink:
		return CreateShrinkSound(cfg)
	case SoundFault:
		return CreateFaultSound(cfg)
	default:
		return nil
	}
}
