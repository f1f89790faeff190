package parameter

import "time"

// Population
const (
	// DefaultWormCount is the number of agents spawned at startup
	DefaultWormCount = 24

	// SpawnAttempts is how many random cells are sampled before spawn gives up
	SpawnAttempts = 10000
)

// Body length ranges
const (
	WormMinLength = 4
	WormMaxLength = 10

	// WormLongChance is the probability of a boosted worm
	WormLongChance = 0.2

	WormLongBonusMin = 10
	WormLongBonusMax = 20
)

// Movement
const (
	WormMinSpeed = 20 * time.Millisecond
	WormMaxSpeed = 500 * time.Millisecond

	// WormTurnChance is the per-iteration probability of a random heading
	WormTurnChance = 0.20

	// WormColorFloor is the minimum channel value of a worm color
	WormColorFloor = 60

	// WormShrinkOnContention enables the length decrement on tail release timeout
	WormShrinkOnContention = true
)
