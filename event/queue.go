package event

import (
	"sync/atomic"

	"github.com/lixenwraith/threadworms/parameter"
)

// Queue is a lock-free MPSC ring buffer for worm events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Consume: Single consumer (frame loop)
//   - A slot is published by storing its pointer, stamped with the write index
//   - Consume only takes a slot whose stamp matches the index it expects, so a
//     slot still holding a previous lap reads as not yet written
//
// Overflow: Oldest events overwritten when full
type Queue struct {
	slots [parameter.EventQueueSize]atomic.Pointer[slot]
	head  atomic.Uint64 // Read index
	tail  atomic.Uint64 // Write index
}

type slot struct {
	seq uint64
	ev  Event
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push adds an event. Safe for concurrent producers. O(1) amortized
func (q *Queue) Push(ev Event) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			q.slots[currentTail&parameter.EventBufferMask].Store(&slot{seq: currentTail, ev: ev})

			// Advance head if overwriting unread events
			currentHead := q.head.Load()
			if nextTail-currentHead > parameter.EventQueueSize {
				q.head.CompareAndSwap(currentHead, nextTail-parameter.EventQueueSize)
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
// Stops early at a slot whose producer has not finished writing
func (q *Queue) Consume() []Event {
	currentHead := q.head.Load()
	currentTail := q.tail.Load()
	if currentTail == currentHead {
		return nil
	}

	available := currentTail - currentHead
	if available > parameter.EventQueueSize {
		available = parameter.EventQueueSize
		currentHead = currentTail - parameter.EventQueueSize
	}

	result := make([]Event, 0, available)
	for i := uint64(0); i < available; i++ {
		seq := currentHead + i
		s := &q.slots[seq&parameter.EventBufferMask]
		p := s.Load()
		if p == nil || p.seq != seq {
			break // Writer incomplete, or overrun by a newer lap
		}
		if !s.CompareAndSwap(p, nil) {
			break // Overwritten while reading
		}
		result = append(result, p.ev)
	}

	// Producers may have pushed head forward on overflow; never move it back
	newHead := currentHead + uint64(len(result))
	for {
		h := q.head.Load()
		if h >= newHead || q.head.CompareAndSwap(h, newHead) {
			break
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// Len returns approximate pending event count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > parameter.EventQueueSize {
		return parameter.EventQueueSize
	}
	return diff
}
