package grid

import (
	"time"

	"github.com/lixenwraith/threadworms/core"
)

// CoarseStore guards the whole grid with one bounded-wait lock
// A worm decision inside Step is a single critical section, trading parallelism for simplicity
type CoarseStore struct {
	bounds
	cells []Cell
	mu    timedLock
}

// NewCoarseStore creates an all-Empty globally locked grid
func NewCoarseStore(width, height int) *CoarseStore {
	return &CoarseStore{
		bounds: bounds{width: width, height: height},
		cells:  make([]Cell, width*height),
		mu:     newTimedLock(),
	}
}

func (s *CoarseStore) Strategy() Strategy { return StrategyCoarse }

func (s *CoarseStore) TryClaim(p core.Point, color core.RGB, timeout time.Duration) bool {
	return s.Claim(p, color, timeout) == Claimed
}

func (s *CoarseStore) Claim(p core.Point, color core.RGB, timeout time.Duration) ClaimResult {
	if !s.InBounds(p) {
		return ClaimOutOfBounds
	}
	if !s.mu.acquire(timeout) {
		return ClaimTimeout
	}
	defer s.mu.unlock()
	return s.locked().Claim(p, color, 0)
}

func (s *CoarseStore) Release(p core.Point) {
	if !s.InBounds(p) {
		return
	}
	s.mu.lock()
	s.locked().Release(p)
	s.mu.unlock()
}

func (s *CoarseStore) TryRelease(p core.Point, timeout time.Duration) bool {
	if !s.InBounds(p) {
		return true
	}
	if !s.mu.acquire(timeout) {
		return false
	}
	s.locked().Release(p)
	s.mu.unlock()
	return true
}

func (s *CoarseStore) Peek(p core.Point, timeout time.Duration) (Cell, bool) {
	if !s.InBounds(p) {
		return wall, true
	}
	if !s.mu.acquire(timeout) {
		return Cell{}, false
	}
	defer s.mu.unlock()
	return s.locked().Peek(p, 0)
}

func (s *CoarseStore) Step(timeout time.Duration, fn func(Cells)) bool {
	if !s.mu.acquire(timeout) {
		return false
	}
	defer s.mu.unlock()
	fn(s.locked())
	return true
}

// Snapshot takes the global lock once; on timeout every cell is stale
func (s *CoarseStore) Snapshot(dst *Frame, timeout time.Duration) int {
	dst.fit(s.width, s.height)

	if !s.mu.acquire(timeout) {
		return len(dst.Cells)
	}
	copy(dst.Cells, s.cells)
	s.mu.unlock()
	return 0
}

func (s *CoarseStore) Set(p core.Point, cell Cell) {
	if !s.InBounds(p) {
		return
	}
	s.mu.lock()
	s.cells[s.index(p)] = cell
	s.mu.unlock()
}

func (s *CoarseStore) Clear() {
	s.mu.lock()
	clear(s.cells)
	s.mu.unlock()
}

// locked returns a view that assumes s.mu is already held
func (s *CoarseStore) locked() heldCells {
	return heldCells{s: s}
}

// heldCells operates on a CoarseStore whose global lock the caller holds
// Timeouts are ignored; nothing inside blocks
type heldCells struct {
	s *CoarseStore
}

func (h heldCells) InBounds(p core.Point) bool {
	return h.s.InBounds(p)
}

func (h heldCells) TryClaim(p core.Point, color core.RGB, timeout time.Duration) bool {
	return h.Claim(p, color, timeout) == Claimed
}

func (h heldCells) Claim(p core.Point, color core.RGB, _ time.Duration) ClaimResult {
	if !h.s.InBounds(p) {
		return ClaimOutOfBounds
	}
	idx := h.s.index(p)
	if h.s.cells[idx].Occupied {
		return ClaimOccupied
	}
	h.s.cells[idx] = Occupied(color)
	return Claimed
}

func (h heldCells) Release(p core.Point) {
	if !h.s.InBounds(p) {
		return
	}
	h.s.cells[h.s.index(p)] = Empty
}

func (h heldCells) TryRelease(p core.Point, _ time.Duration) bool {
	h.Release(p)
	return true
}

func (h heldCells) Peek(p core.Point, _ time.Duration) (Cell, bool) {
	if !h.s.InBounds(p) {
		return wall, true
	}
	return h.s.cells[h.s.index(p)], true
}
