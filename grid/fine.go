package grid

import (
	"time"

	"github.com/lixenwraith/threadworms/core"
)

// FineStore guards every cell with its own bounded-wait lock
// Worms in disjoint regions never contend; no operation holds two cell locks at once
type FineStore struct {
	bounds
	cells []Cell      // 1D array: index = y*width + x
	locks []timedLock // locks[i] guards cells[i]
}

// NewFineStore creates an all-Empty per-cell locked grid
func NewFineStore(width, height int) *FineStore {
	s := &FineStore{
		bounds: bounds{width: width, height: height},
		cells:  make([]Cell, width*height),
		locks:  make([]timedLock, width*height),
	}
	for i := range s.locks {
		s.locks[i] = newTimedLock()
	}
	return s
}

func (s *FineStore) Strategy() Strategy { return StrategyFine }

func (s *FineStore) TryClaim(p core.Point, color core.RGB, timeout time.Duration) bool {
	return s.Claim(p, color, timeout) == Claimed
}

// Claim checks and writes the cell under the same lock hold, so two claimants never both see it free
func (s *FineStore) Claim(p core.Point, color core.RGB, timeout time.Duration) ClaimResult {
	if !s.InBounds(p) {
		return ClaimOutOfBounds
	}
	idx := s.index(p)
	if !s.locks[idx].acquire(timeout) {
		return ClaimTimeout
	}
	defer s.locks[idx].unlock()

	if s.cells[idx].Occupied {
		return ClaimOccupied
	}
	s.cells[idx] = Occupied(color)
	return Claimed
}

func (s *FineStore) Release(p core.Point) {
	if !s.InBounds(p) {
		return
	}
	idx := s.index(p)
	s.locks[idx].lock()
	s.cells[idx] = Empty
	s.locks[idx].unlock()
}

func (s *FineStore) TryRelease(p core.Point, timeout time.Duration) bool {
	if !s.InBounds(p) {
		return true
	}
	idx := s.index(p)
	if !s.locks[idx].acquire(timeout) {
		return false
	}
	s.cells[idx] = Empty
	s.locks[idx].unlock()
	return true
}

func (s *FineStore) Peek(p core.Point, timeout time.Duration) (Cell, bool) {
	if !s.InBounds(p) {
		return wall, true
	}
	idx := s.index(p)
	if !s.locks[idx].acquire(timeout) {
		return Cell{}, false
	}
	c := s.cells[idx]
	s.locks[idx].unlock()
	return c, true
}

func (s *FineStore) Step(_ time.Duration, fn func(Cells)) bool {
	fn(s)
	return true
}

func (s *FineStore) Snapshot(dst *Frame, timeout time.Duration) int {
	dst.fit(s.width, s.height)

	stale := 0
	for i := range s.cells {
		if !s.locks[i].acquire(timeout) {
			stale++
			continue
		}
		dst.Cells[i] = s.cells[i]
		s.locks[i].unlock()
	}
	return stale
}

func (s *FineStore) Set(p core.Point, cell Cell) {
	if !s.InBounds(p) {
		return
	}
	idx := s.index(p)
	s.locks[idx].lock()
	s.cells[idx] = cell
	s.locks[idx].unlock()
}

func (s *FineStore) Clear() {
	for i := range s.cells {
		s.locks[i].lock()
		s.cells[i] = Empty
		s.locks[i].unlock()
	}
}
