package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/parameter"
	"github.com/lixenwraith/threadworms/status"
	"github.com/lixenwraith/threadworms/worm"
)

func fastOptions() worm.Options {
	opts := worm.DefaultOptions()
	opts.ClaimTimeout = 20 * time.Millisecond
	opts.PeekTimeout = 5 * time.Millisecond
	opts.TailTimeout = 5 * time.Millisecond
	opts.StepTimeout = 20 * time.Millisecond
	return opts
}

func fastFactory() worm.Factory {
	r := worm.DefaultRanges()
	r.MinSpeed = time.Millisecond
	r.MaxSpeed = 3 * time.Millisecond
	return worm.RandomFactory(r)
}

func newTestSimulation(strategy grid.Strategy, w, h int) *Simulation {
	return NewSimulation(Options{
		Store: grid.New(strategy, w, h),
		Worm:  fastOptions(),
		Seed:  7,
	})
}

func TestGridConsistencyUnderLoad(t *testing.T) {
	for _, st := range []grid.Strategy{grid.StrategyFine, grid.StrategyCoarse} {
		t.Run(st.String(), func(t *testing.T) {
			sim := newTestSimulation(st, 20, 15)
			if err := sim.Spawn(16, fastFactory()); err != nil {
				t.Fatalf("Spawn: %v", err)
			}

			frame := grid.NewFrame(20, 15)
			deadline := time.Now().Add(300 * time.Millisecond)
			for time.Now().Before(deadline) {
				sim.Snapshot(frame, time.Millisecond)
				for _, ws := range sim.WormStates() {
					if ws.Length > ws.Limit {
						t.Fatalf("Worm %s length %d exceeds limit %d", ws.Name, ws.Length, ws.Limit)
					}
				}
				time.Sleep(5 * time.Millisecond)
			}

			sim.RequestShutdown()
			if !sim.Wait(parameter.ShutdownGrace) {
				t.Fatal("Worms did not stop within the grace period")
			}

			// Quiescent grid: every occupied cell belongs to exactly one body with matching color
			owner := make(map[core.Point]*worm.Worm)
			for _, w := range sim.Worms() {
				if w.State() != worm.StateStopped {
					t.Errorf("Worm %s ended in state %s", w.Name, w.State())
				}
				if len(w.Body) > w.MaxLength {
					t.Errorf("Worm %s body %d exceeds %d", w.Name, len(w.Body), w.MaxLength)
				}
				for _, p := range w.Body {
					if !sim.Store().InBounds(p) {
						t.Fatalf("Worm %s has out-of-bounds segment %v", w.Name, p)
					}
					if other, dup := owner[p]; dup {
						t.Fatalf("Cell %v owned by %s and %s", p, other.Name, w.Name)
					}
					owner[p] = w
				}
			}

			if stale := sim.Snapshot(frame, time.Second); stale != 0 {
				t.Fatalf("Stale cells on a quiescent grid: %d", stale)
			}
			for y := 0; y < frame.Height; y++ {
				for x := 0; x < frame.Width; x++ {
					p := core.Point{X: x, Y: y}
					cell := frame.At(x, y)
					w, owned := owner[p]
					if cell.Occupied != owned {
						t.Fatalf("Cell %v occupied=%v but owned=%v", p, cell.Occupied, owned)
					}
					if owned && cell.Color != w.Color {
						t.Fatalf("Cell %v color %v, owner %s has %v", p, cell.Color, w.Name, w.Color)
					}
				}
			}

			if sim.Metrics().Int(status.MetricMoves).Load() == 0 {
				t.Error("No worm ever moved")
			}
		})
	}
}

func TestUniqueColors(t *testing.T) {
	sim := newTestSimulation(grid.StrategyFine, 10, 10)
	defer func() {
		sim.RequestShutdown()
		sim.Wait(time.Second)
	}()

	same := core.RGB{R: 100, G: 100, B: 100}
	factory := func(i int, _ *rand.Rand) worm.Config {
		return worm.Config{MaxLength: 3, Color: same, Speed: time.Millisecond}
	}
	if err := sim.Spawn(5, factory); err != nil {
		t.Fatal(err)
	}

	seen := make(map[core.RGB]bool)
	for _, ws := range sim.WormStates() {
		if seen[ws.Color] {
			t.Fatalf("Duplicate color %v", ws.Color)
		}
		seen[ws.Color] = true
	}
}

func TestShutdownConvergesWithSlowWorms(t *testing.T) {
	sim := newTestSimulation(grid.StrategyFine, 8, 8)
	slow := func(i int, _ *rand.Rand) worm.Config {
		return worm.Config{MaxLength: 4, Color: core.RGB{R: uint8(100 + i), G: 80, B: 80}, Speed: time.Hour}
	}
	if err := sim.Spawn(6, slow); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for sim.Metrics().Int(status.MetricRunning).Load() != 6 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	start := time.Now()
	sim.RequestShutdown()
	sim.RequestShutdown()
	if !sim.Wait(time.Second) {
		t.Fatal("Sleeping worms did not wake on shutdown")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Shutdown took %v", elapsed)
	}
	if running := sim.Metrics().Int(status.MetricRunning).Load(); running != 0 {
		t.Errorf("Expected no running worms, got %d", running)
	}

	if err := sim.Spawn(1, slow); !errors.Is(err, ErrShuttingDown) {
		t.Errorf("Expected ErrShuttingDown, got %v", err)
	}
}

func TestPauseFreezesMovement(t *testing.T) {
	sim := newTestSimulation(grid.StrategyFine, 12, 12)
	defer func() {
		sim.RequestShutdown()
		sim.Wait(time.Second)
	}()

	sim.SetPaused(true)
	if !sim.IsPaused() {
		t.Fatal("Pause flag not set")
	}
	if err := sim.Spawn(4, fastFactory()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	moves := sim.Metrics().Int(status.MetricMoves)
	if n := moves.Load(); n != 0 {
		t.Errorf("Worms moved %d times while paused", n)
	}

	sim.SetPaused(false)
	deadline := time.Now().Add(time.Second)
	for moves.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if moves.Load() == 0 {
		t.Error("Worms did not move after resume")
	}
}

func TestReseedOnlyBeforeSpawn(t *testing.T) {
	sim := newTestSimulation(grid.StrategyFine, parameter.DefaultGridWidth, parameter.DefaultGridHeight)
	defer func() {
		sim.RequestShutdown()
		sim.Wait(time.Second)
	}()

	walls, err := sim.Reseed(parameter.HelloWorldPattern, parameter.ColorWall)
	if err != nil {
		t.Fatalf("Reseed: %v", err)
	}
	if walls == 0 {
		t.Fatal("Pattern wrote no cells")
	}

	frame := grid.NewFrame(parameter.DefaultGridWidth, parameter.DefaultGridHeight)
	sim.Snapshot(frame, time.Second)
	if frame.Occupied() == 0 {
		t.Error("Walls not visible in snapshot")
	}

	if err := sim.Spawn(2, fastFactory()); err != nil {
		t.Fatal(err)
	}
	for _, ws := range sim.WormStates() {
		if ws.Color == parameter.ColorWall {
			t.Errorf("Worm %s shares the wall color", ws.Name)
		}
	}
	if _, err := sim.Reseed("", parameter.ColorWall); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}
}

func TestSpawnFailsOnFullGrid(t *testing.T) {
	sim := NewSimulation(Options{Store: grid.NewFineStore(2, 2), Worm: fastOptions(), Seed: 1, SpawnAttempts: 50})
	defer func() {
		sim.RequestShutdown()
		sim.Wait(time.Second)
	}()

	// Paused worms hold exactly their spawn cell
	sim.SetPaused(true)
	slow := func(i int, rng *rand.Rand) worm.Config {
		return worm.Config{MaxLength: 1, Color: core.RandomRGB(rng, 60), Speed: time.Hour}
	}
	err := sim.Spawn(5, slow)
	if !errors.Is(err, worm.ErrNoFreeCell) {
		t.Fatalf("Expected ErrNoFreeCell, got %v", err)
	}
	if n := sim.WormCount(); n != 4 {
		t.Errorf("Expected 4 worms on a 2x2 grid, got %d", n)
	}
}

func TestEventsCarrySpawns(t *testing.T) {
	sim := newTestSimulation(grid.StrategyFine, 6, 6)
	sim.SetPaused(true)
	if err := sim.Spawn(3, fastFactory()); err != nil {
		t.Fatal(err)
	}
	sim.RequestShutdown()
	sim.Wait(time.Second)

	counts := make(map[event.EventType]int)
	for _, ev := range sim.Events().Consume() {
		counts[ev.Type]++
	}
	if counts[event.EventWormSpawned] != 3 || counts[event.EventWormStopped] != 3 {
		t.Errorf("Unexpected event counts: %v", counts)
	}
}

func TestElapsedIgnoresPause(t *testing.T) {
	mock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	sim := NewSimulation(Options{Store: grid.NewFineStore(2, 2), Worm: fastOptions(), Clock: mock})

	mock.Advance(time.Second)
	sim.SetPaused(true)
	mock.Advance(time.Minute)
	sim.SetPaused(false)
	mock.Advance(time.Second)

	if got := sim.Elapsed(); got != 2*time.Second {
		t.Errorf("Expected 2s, got %v", got)
	}
}

func TestSpawnRacingShutdown(t *testing.T) {
	for round := 0; round < 20; round++ {
		sim := newTestSimulation(grid.StrategyFine, 16, 16)

		spawned := make(chan error, 1)
		go func() {
			var err error
			for i := 0; i < 10 && err == nil; i++ {
				err = sim.Spawn(2, fastFactory())
			}
			spawned <- err
		}()
		sim.RequestShutdown()

		if err := <-spawned; err != nil && !errors.Is(err, ErrShuttingDown) {
			t.Fatalf("Round %d: unexpected spawn error %v", round, err)
		}
		if !sim.Wait(time.Second) {
			t.Fatalf("Round %d: worms still running after shutdown", round)
		}
		for _, ws := range sim.WormStates() {
			if ws.State != worm.StateStopped {
				t.Errorf("Round %d: worm %s left in state %s", round, ws.Name, ws.State)
			}
		}
		if err := sim.Spawn(1, fastFactory()); !errors.Is(err, ErrShuttingDown) {
			t.Errorf("Round %d: expected ErrShuttingDown, got %v", round, err)
		}
	}
}

func TestWaitBeforeShutdown(t *testing.T) {
	sim := newTestSimulation(grid.StrategyFine, 8, 8)
	if err := sim.Spawn(2, fastFactory()); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if sim.Wait(time.Second) {
		t.Error("Wait reported finished while worms run")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Wait before shutdown blocked for %v", elapsed)
	}

	sim.RequestShutdown()
	for i := 0; i < 3; i++ {
		if !sim.Wait(time.Second) {
			t.Fatalf("Wait call %d did not observe stopped worms", i)
		}
	}
}
