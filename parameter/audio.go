package parameter

import "time"

// Audio output
const (
	AudioSampleRate   = 44100
	AudioBufferSize   = 100 * time.Millisecond
	AudioMasterVolume = 0.5

	// AudioCooldown is the minimum gap between two cues of the same kind
	AudioCooldown = 120 * time.Millisecond
)

// Reversal cue: descending two-note chirp
const (
	ReverseNoteDuration = 60 * time.Millisecond
	ReverseAttack       = 5 * time.Millisecond
	ReverseRelease      = 30 * time.Millisecond
)

// Stuck cue: low saw buzz
const (
	StuckSoundDuration = 150 * time.Millisecond
	StuckSoundAttack   = 5 * time.Millisecond
	StuckSoundRelease  = 80 * time.Millisecond
)

// Shrink cue: short noise puff
const (
	ShrinkSoundDuration = 90 * time.Millisecond
	ShrinkSoundAttack   = 10 * time.Millisecond
	ShrinkSoundRelease  = 60 * time.Millisecond
)

// Fault cue: long square tone
const (
	FaultSoundDuration = 400 * time.Millisecond
	FaultSoundAttack   = 10 * time.Millisecond
	FaultSoundRelease  = 200 * time.Millisecond
)
