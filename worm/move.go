package worm

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/grid"
)

// Outcome describes what one iteration did
type Outcome uint8

const (
	OutcomeMoved    Outcome = iota // advanced along the current heading
	OutcomeTurned                  // heading was blocked, advanced along a scanned free direction
	OutcomeReversed                // boxed in, swapped head and tail, then advanced
	OutcomeBlocked                 // a free direction was scanned but its claim lost a race
	OutcomeStuck                   // no free direction even after reversing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeTurned:
		return "turned"
	case OutcomeReversed:
		return "reversed"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeStuck:
		return "stuck"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Advanced reports whether the head moved
func (o Outcome) Advanced() bool {
	return o == OutcomeMoved || o == OutcomeTurned || o == OutcomeReversed
}

// Step runs one movement iteration against cells
// Check and claim of the candidate happen under one lock hold inside Claim,
// and at most one cell lock is held at any time
func (w *Worm) Step(cells grid.Cells) (Outcome, error) {
	// Checked before the random turn so a corrupted heading is never masked
	if !w.Direction.Valid() {
		return OutcomeStuck, fmt.Errorf("%w: %d", ErrInvalidDirection, uint8(w.Direction))
	}

	if w.rng.Float64() < w.opts.TurnChance {
		w.Direction = core.RandomDirection(w.rng)
	}

	next, err := w.nextPosition()
	if err != nil {
		return OutcomeStuck, err
	}

	switch cells.Claim(next, w.Color, w.opts.ClaimTimeout) {
	case grid.Claimed:
		w.advance(cells, next)
		return OutcomeMoved, nil
	case grid.ClaimTimeout:
		w.claimTimedOut()
	}

	outcome := OutcomeTurned
	dir, ok := w.scan(cells)
	if !ok {
		// Back out of the dead end: the tail becomes the head
		slices.Reverse(w.Body)
		outcome = OutcomeReversed
		dir, ok = w.scan(cells)
	}
	if !ok {
		w.Direction = core.RandomDirection(w.rng)
		w.metrics.stuck.Add(1)
		w.emit(event.EventWormStuck, 0)
		w.publish()
		return OutcomeStuck, nil
	}

	w.Direction = dir
	next, err = w.nextPosition()
	if err != nil {
		return OutcomeStuck, err
	}
	switch cells.Claim(next, w.Color, w.opts.ClaimTimeout) {
	case grid.Claimed:
	case grid.ClaimTimeout:
		w.claimTimedOut()
		fallthrough
	default:
		w.metrics.blocked.Add(1)
		w.publish()
		return OutcomeBlocked, nil
	}

	w.advance(cells, next)
	if outcome == OutcomeReversed {
		w.metrics.reversals.Add(1)
		w.emit(event.EventWormReversed, 0)
	}
	return outcome, nil
}

func (w *Worm) claimTimedOut() {
	w.metrics.claimTimeouts.Add(1)
	w.emit(event.EventClaimTimeout, 0)
}

// nextPosition returns the head shifted one cell along the heading
func (w *Worm) nextPosition() (core.Point, error) {
	step, ok := w.Direction.Offset()
	if !ok {
		return core.Point{}, fmt.Errorf("%w: %d", ErrInvalidDirection, uint8(w.Direction))
	}
	return w.Body[0].Add(step), nil
}

// scan collects every heading whose target is in bounds and Empty, and picks one uniformly
// Each neighbor is read under its own lock; a timed-out read counts as blocked
func (w *Worm) scan(cells grid.Cells) (core.Direction, bool) {
	head := w.Body[0]

	var open [len(core.Directions)]core.Direction
	n := 0
	for _, d := range core.Directions {
		step, _ := d.Offset()
		p := head.Add(step)
		if !cells.InBounds(p) {
			continue
		}
		cell, ok := cells.Peek(p, w.opts.PeekTimeout)
		if !ok {
			w.metrics.peekTimeouts.Add(1)
			continue
		}
		if !cell.Occupied {
			open[n] = d
			n++
		}
	}

	if n == 0 {
		return 0, false
	}
	return open[w.rng.IntN(n)], true
}

// advance prepends the claimed head and trims the tail back to MaxLength
func (w *Worm) advance(cells grid.Cells, head core.Point) {
	w.Body = slices.Insert(w.Body, 0, head)
	mayShrink := w.opts.ShrinkOnContention
	for len(w.Body) > w.MaxLength {
		if w.trimTail(cells, mayShrink) {
			mayShrink = false
		}
	}
	w.metrics.moves.Add(1)
	w.publish()
}

// trimTail releases and drops the last segment, reporting whether MaxLength shrank
// A bounded release that times out may shrink MaxLength once per advance, then completes
// with a blocking release since the cell is ours and must not be left orphaned
func (w *Worm) trimTail(cells grid.Cells, mayShrink bool) bool {
	last := len(w.Body) - 1
	tail := w.Body[last]
	shrunk := false

	if !cells.TryRelease(tail, w.opts.TailTimeout) {
		w.metrics.tailTimeouts.Add(1)
		if mayShrink && w.MaxLength > 1 {
			w.MaxLength--
			shrunk = true
			w.metrics.shrinks.Add(1)
			w.emit(event.EventWormShrunk, w.MaxLength)
		}
		cells.Release(tail)
	}

	w.Body = w.Body[:last]
	return shrunk
}
