package grid

import (
	"fmt"
	"time"

	"github.com/lixenwraith/threadworms/core"
)

// Cells is the set of per-cell operations a worm decision runs against
// Coordinates outside the grid are permanently occupied and never locked
type Cells interface {
	// InBounds reports whether p lies inside [0,W) × [0,H)
	InBounds(p core.Point) bool

	// TryClaim turns an Empty cell into Occupied(color) under its lock
	// Returns false if the cell is occupied, out of bounds, or the lock was not acquired in time
	TryClaim(p core.Point, color core.RGB, timeout time.Duration) bool

	// Claim is TryClaim reporting why a claim failed
	Claim(p core.Point, color core.RGB, timeout time.Duration) ClaimResult

	// Release empties a cell the caller owns, blocking until its lock is held
	Release(p core.Point)

	// TryRelease is the bounded variant of Release; false means nothing was written
	TryRelease(p core.Point, timeout time.Duration) bool

	// Peek reads a cell under its lock; ok is false on timeout
	Peek(p core.Point, timeout time.Duration) (cell Cell, ok bool)
}

// Store is the shared grid with its locking discipline
type Store interface {
	Cells

	Width() int
	Height() int
	Strategy() Strategy

	// Step runs one worm decision
	// Fine strategy runs fn directly; coarse strategy runs fn inside its global critical section
	// Returns false, without calling fn, if the critical section could not be entered in time
	Step(timeout time.Duration, fn func(Cells)) bool

	// Snapshot copies every cell into dst with a per-cell bounded wait
	// Cells whose lock is not acquired in time keep their previous value in dst
	// Returns the number of such stale cells
	Snapshot(dst *Frame, timeout time.Duration) int

	// Set overwrites a cell unconditionally (pattern seeding), blocking on its lock
	Set(p core.Point, cell Cell)

	// Clear empties every cell, blocking on each lock in turn
	Clear()
}

// ClaimResult is the outcome of Claim
type ClaimResult uint8

const (
	Claimed ClaimResult = iota
	ClaimOccupied
	ClaimOutOfBounds
	ClaimTimeout
)

func (r ClaimResult) String() string {
	switch r {
	case Claimed:
		return "claimed"
	case ClaimOccupied:
		return "occupied"
	case ClaimOutOfBounds:
		return "out-of-bounds"
	case ClaimTimeout:
		return "timeout"
	}
	return fmt.Sprintf("ClaimResult(%d)", uint8(r))
}

// Strategy selects the lock granularity of a Store
type Strategy uint8

const (
	// StrategyFine uses one bounded-wait lock per cell
	StrategyFine Strategy = iota
	// StrategyCoarse uses one bounded-wait lock for the whole grid
	StrategyCoarse
)

func (s Strategy) String() string {
	switch s {
	case StrategyFine:
		return "fine"
	case StrategyCoarse:
		return "coarse"
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// ParseStrategy maps a config string to a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "fine", "":
		return StrategyFine, nil
	case "coarse":
		return StrategyCoarse, nil
	}
	return 0, fmt.Errorf("unknown grid strategy %q (want fine or coarse)", name)
}

// New creates a Store of the given strategy
func New(strategy Strategy, width, height int) Store {
	if strategy == StrategyCoarse {
		return NewCoarseStore(width, height)
	}
	return NewFineStore(width, height)
}

// bounds is the shared geometry of both strategies
type bounds struct {
	width, height int
}

func (b bounds) Width() int  { return b.width }
func (b bounds) Height() int { return b.height }

func (b bounds) InBounds(p core.Point) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

func (b bounds) index(p core.Point) int {
	return p.Y*b.width + p.X
}

// wall is what Peek reports outside the grid
var wall = Cell{Occupied: true}
