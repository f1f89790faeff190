package worm

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/parameter"
)

// Config fixes the per-worm attributes chosen at creation
type Config struct {
	Name      string
	MaxLength int
	Color     core.RGB
	Speed     time.Duration // delay after every iteration
}

// Options are the tunables shared by every worm of a simulation
type Options struct {
	// TurnChance is the probability of picking a random heading at the start of an iteration
	TurnChance float64

	ClaimTimeout time.Duration // bound on the candidate head cell lock
	PeekTimeout  time.Duration // bound on each neighbor read while scanning
	TailTimeout  time.Duration // bound on the tail release before falling back to a blocking release
	StepTimeout  time.Duration // bound on entering a coarse critical section

	// ShrinkOnContention drops MaxLength by one whenever the tail release times out
	ShrinkOnContention bool
}

// DefaultOptions returns the parameter package defaults
func DefaultOptions() Options {
	return Options{
		TurnChance:         parameter.WormTurnChance,
		ClaimTimeout:       parameter.ClaimTimeout,
		PeekTimeout:        parameter.PeekTimeout,
		TailTimeout:        parameter.TailTimeout,
		StepTimeout:        parameter.StepTimeout,
		ShrinkOnContention: parameter.WormShrinkOnContention,
	}
}

// Ranges bound the random attributes produced by RandomFactory
type Ranges struct {
	MinLength, MaxLength int
	LongChance           float64 // probability of adding a bonus in [LongBonusMin, LongBonusMax]
	LongBonusMin         int
	LongBonusMax         int
	MinSpeed, MaxSpeed   time.Duration
	ColorFloor           uint8
}

// DefaultRanges returns the parameter package defaults
func DefaultRanges() Ranges {
	return Ranges{
		MinLength:    parameter.WormMinLength,
		MaxLength:    parameter.WormMaxLength,
		LongChance:   parameter.WormLongChance,
		LongBonusMin: parameter.WormLongBonusMin,
		LongBonusMax: parameter.WormLongBonusMax,
		MinSpeed:     parameter.WormMinSpeed,
		MaxSpeed:     parameter.WormMaxSpeed,
		ColorFloor:   parameter.WormColorFloor,
	}
}

// Factory produces the Config of the i-th spawned worm
type Factory func(i int, rng *rand.Rand) Config

// RandomFactory draws every attribute uniformly from r
func RandomFactory(r Ranges) Factory {
	return func(i int, rng *rand.Rand) Config {
		length := intBetween(rng, r.MinLength, r.MaxLength)
		if rng.Float64() < r.LongChance {
			length += intBetween(rng, r.LongBonusMin, r.LongBonusMax)
		}

		return Config{
			Name:      fmt.Sprintf("worm-%d", i),
			MaxLength: length,
			Color:     core.RandomRGB(rng, r.ColorFloor),
			Speed:     durationBetween(rng, r.MinSpeed, r.MaxSpeed),
		}
	}
}

// intBetween returns a value in [lo, hi]
func intBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// durationBetween returns a value in [lo, hi]
func durationBetween(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int64N(int64(hi-lo)+1))
}
