package parameter

import "time"

// Grid Defaults
const (
	// DefaultGridWidth is the number of cells per row
	DefaultGridWidth = 32

	// DefaultGridHeight is the number of rows
	DefaultGridHeight = 24

	// DefaultStrategy selects per-cell locking
	DefaultStrategy = "fine"
)

// Lock acquisition bounds
const (
	// ClaimTimeout bounds the wait for a candidate head cell
	ClaimTimeout = 1 * time.Second

	// PeekTimeout bounds each neighbor read during a direction scan
	PeekTimeout = 50 * time.Millisecond

	// TailTimeout bounds the tail release before the shrink heuristic kicks in
	TailTimeout = 2 * time.Second

	// SnapshotTimeout bounds each per-cell read during a render snapshot
	SnapshotTimeout = 20 * time.Millisecond

	// StepTimeout bounds the global lock wait in the coarse strategy
	StepTimeout = 1 * time.Second
)
