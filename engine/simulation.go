package engine

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/parameter"
	"github.com/lixenwraith/threadworms/status"
	"github.com/lixenwraith/threadworms/worm"
)

var (
	// ErrAlreadyRunning is returned when the grid is reseeded after worms started
	ErrAlreadyRunning = errors.New("engine: simulation already running")

	// ErrShuttingDown is returned by Spawn once shutdown was requested
	ErrShuttingDown = errors.New("engine: shutdown requested")
)

// Options configures a Simulation
type Options struct {
	Store         grid.Store
	Worm          worm.Options
	Seed          uint64 // 0 picks a random seed
	SpawnAttempts int
	Clock         Clock // nil uses real time
}

// WormState is a read-only view of one worm for status and debugging
type WormState struct {
	ID     uuid.UUID
	Name   string
	Color  core.RGB
	Length int
	Limit  int
	State  worm.State
}

// Simulation owns the grid, the worm roster and the shutdown flag every worm polls
type Simulation struct {
	// ===== Immutable After Init =====

	store    grid.Store
	opts     worm.Options
	attempts int
	events   *event.Queue
	metrics  *status.Registry
	clock    *PausableClock

	// ===== Atomic =====

	stopping atomic.Bool
	paused   atomic.Bool

	// ===== Channels =====

	done     chan struct{} // closed once on shutdown; wakes sleeping worms
	stopOnce sync.Once
	stopped  chan struct{} // closed once every worm goroutine returned after shutdown
	waitOnce sync.Once

	// ===== Mutex-Protected (mu) =====

	mu      sync.Mutex
	rng     *rand.Rand
	worms   []*worm.Worm
	colors  map[core.RGB]struct{}
	started bool

	wg sync.WaitGroup
}

// NewSimulation creates an idle simulation over opts.Store
func NewSimulation(opts Options) *Simulation {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	attempts := opts.SpawnAttempts
	if attempts <= 0 {
		attempts = parameter.SpawnAttempts
	}

	return &Simulation{
		store:    opts.Store,
		opts:     opts.Worm,
		attempts: attempts,
		events:   event.NewQueue(),
		metrics:  status.NewRegistry(),
		clock:    NewPausableClock(opts.Clock),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		colors:   make(map[core.RGB]struct{}),
	}
}

// ===== Worm Control =====

// Stopping reports whether shutdown was requested
func (s *Simulation) Stopping() bool {
	return s.stopping.Load()
}

// Paused reports whether worms should idle
func (s *Simulation) Paused() bool {
	return s.paused.Load()
}

// Done is closed once shutdown is requested
func (s *Simulation) Done() <-chan struct{} {
	return s.done
}

// ===== Lifecycle =====

// Reseed clears the grid and applies a wall pattern; only valid before the first Spawn
func (s *Simulation) Reseed(pattern string, color core.RGB) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return 0, ErrAlreadyRunning
	}
	s.store.Clear()
	if pattern == "" {
		return 0, nil
	}
	n, err := grid.ApplyPattern(s.store, pattern, color)
	if n > 0 {
		// Walls keep their color to themselves
		s.colors[color] = struct{}{}
	}
	return n, err
}

// Spawn creates n worms from factory and starts one goroutine per worm
// Colors are rerolled until unique so every occupied cell maps to one body
// Worms started before an error keep running
func (s *Simulation) Spawn(n int, factory worm.Factory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopping.Load() {
		return ErrShuttingDown
	}
	s.started = true

	for i := 0; i < n; i++ {
		index := len(s.worms)
		cfg := factory(index, s.rng)
		cfg.Color = s.uniqueColor(cfg.Color)

		rng := rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
		w, err := worm.Spawn(s.store, cfg, s.opts, rng, s.attempts)
		if err != nil {
			return fmt.Errorf("spawn worm %d: %w", index, err)
		}
		w.Attach(s.events, s.metrics)

		s.colors[w.Color] = struct{}{}
		s.worms = append(s.worms, w)
		s.events.Push(event.Event{Type: event.EventWormSpawned, Worm: w.Name, Color: w.Color, At: w.Head(), Value: w.MaxLength})

		// mu is held for the whole batch and stopping only rises under mu,
		// so this Add never races a Wait that already saw zero
		s.wg.Add(1)
		core.Go(func() {
			defer s.wg.Done()
			s.run(w)
		})
	}
	return nil
}

// uniqueColor rerolls c until no live worm uses it; caller holds mu
func (s *Simulation) uniqueColor(c core.RGB) core.RGB {
	for {
		if _, taken := s.colors[c]; !taken {
			return c
		}
		c = core.RandomRGB(s.rng, parameter.WormColorFloor)
	}
}

func (s *Simulation) run(w *worm.Worm) {
	running := s.metrics.Int(status.MetricRunning)
	running.Add(1)
	defer running.Add(-1)

	if err := w.Run(s.store, s); err != nil {
		s.metrics.Int(status.MetricFaulted).Add(1)
		log.Printf("[ERROR] worm %s (%s) faulted: %v", w.Name, w.ID, err)
	}
}

// RequestShutdown raises the stop flag; safe to call any number of times
// The flag is raised under mu so no Spawn can add a worm after it
func (s *Simulation) RequestShutdown() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopping.Store(true)
		s.mu.Unlock()
		close(s.done)
	})
}

// Wait blocks until every worm goroutine has returned or timeout elapses
// Returns true if all worms finished; before RequestShutdown it returns false at once
// Repeated calls share one watcher goroutine
func (s *Simulation) Wait(timeout time.Duration) bool {
	if !s.stopping.Load() {
		return false
	}
	s.waitOnce.Do(func() {
		go func() {
			s.wg.Wait()
			close(s.stopped)
		}()
	})

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.stopped:
		return true
	case <-timer.C:
		return false
	}
}

// ===== Pause =====

// SetPaused makes worms idle (they still observe shutdown) and freezes Elapsed
func (s *Simulation) SetPaused(paused bool) {
	s.paused.Store(paused)
	if paused {
		s.clock.Pause()
	} else {
		s.clock.Resume()
	}
}

// IsPaused returns the pause flag
func (s *Simulation) IsPaused() bool {
	return s.paused.Load()
}

// Elapsed returns running time excluding pauses
func (s *Simulation) Elapsed() time.Duration {
	return s.clock.Elapsed()
}

// ===== Views =====

// Snapshot copies the grid into dst with bounded per-cell waits, returning stale cell count
func (s *Simulation) Snapshot(dst *grid.Frame, timeout time.Duration) int {
	stale := s.store.Snapshot(dst, timeout)
	s.metrics.Int(status.MetricStaleCells).Add(int64(stale))
	return stale
}

// WormStates returns the published state of every spawned worm
func (s *Simulation) WormStates() []WormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]WormState, 0, len(s.worms))
	for _, w := range s.worms {
		length, limit := w.Shape()
		states = append(states, WormState{
			ID:     w.ID,
			Name:   w.Name,
			Color:  w.Color,
			Length: length,
			Limit:  limit,
			State:  w.State(),
		})
	}
	return states
}

// Worms returns the roster; bodies may only be read after Wait returned true
func (s *Simulation) Worms() []*worm.Worm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*worm.Worm(nil), s.worms...)
}

// WormCount returns the number of spawned worms
func (s *Simulation) WormCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.worms)
}

// Store returns the grid store
func (s *Simulation) Store() grid.Store {
	return s.store
}

// Events returns the worm event queue
func (s *Simulation) Events() *event.Queue {
	return s.events
}

// Metrics returns the metric registry
func (s *Simulation) Metrics() *status.Registry {
	return s.metrics
}
