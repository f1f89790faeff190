package audio

import (
	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/parameter"
)

// SoundType identifies a cue
type SoundType int

const (
	SoundNone SoundType = iota
	SoundReverse
	SoundStuck
	SoundShrink
	SoundFault
	soundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundReverse:
		return "reverse"
	case SoundStuck:
		return "stuck"
	case SoundShrink:
		return "shrink"
	case SoundFault:
		return "fault"
	}
	return "none"
}

// SoundFor maps a worm event to its cue; events without a cue map to SoundNone
func SoundFor(t event.EventType) SoundType {
	switch t {
	case event.EventWormReversed:
		return SoundReverse
	case event.EventWormStuck:
		return SoundStuck
	case event.EventWormShrunk:
		return SoundShrink
	case event.EventWormFaulted:
		return SoundFault
	}
	return SoundNone
}

// Config holds output and volume settings
type Config struct {
	SampleRate    int
	MasterVolume  float64
	EffectVolumes map[SoundType]float64
}

// DefaultConfig returns the parameter defaults
func DefaultConfig() *Config {
	return &Config{
		SampleRate:   parameter.AudioSampleRate,
		MasterVolume: parameter.AudioMasterVolume,
		EffectVolumes: map[SoundType]float64{
			SoundReverse: 0.6,
			SoundStuck:   0.4,
			SoundShrink:  0.5,
			SoundFault:   0.8,
		},
	}
}
