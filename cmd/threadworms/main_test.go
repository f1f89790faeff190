package main

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/threadworms/audio"
	"github.com/lixenwraith/threadworms/config"
	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/engine"
	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/input"
	"github.com/lixenwraith/threadworms/status"
	"github.com/lixenwraith/threadworms/worm"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Grid.Width, cfg.Grid.Height = 12, 8
	cfg.Worms.Count = 4
	cfg.Worms.MinSpeed = config.Duration(time.Millisecond)
	cfg.Worms.MaxSpeed = config.Duration(5 * time.Millisecond)
	cfg.Render.FPS = 100
	return cfg
}

func startSimulation(t *testing.T, cfg *config.Config) *engine.Simulation {
	t.Helper()
	sim := engine.NewSimulation(engine.Options{
		Store: grid.New(cfg.Strategy(), cfg.Grid.Width, cfg.Grid.Height),
		Worm:  cfg.WormOptions(),
		Seed:  11,
	})
	if err := sim.Spawn(cfg.Worms.Count, worm.RandomFactory(cfg.WormRanges())); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	t.Cleanup(func() {
		sim.RequestShutdown()
		sim.Wait(time.Second)
	})
	return sim
}

func TestRunTerminalPauseAndQuit(t *testing.T) {
	cfg := smallConfig()
	sim := startSimulation(t, cfg)
	screen := tcell.NewSimulationScreen("UTF-8")
	sound := audio.NewSoundManager(nil)

	done := make(chan error, 1)
	go func() {
		done <- runTerminal(screen, sim, cfg, input.DefaultKeyTable(), sound)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for sim.Metrics().Int(status.MetricFrames).Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sim.Metrics().Int(status.MetricFrames).Load() < 3 {
		t.Fatal("Render loop produced no frames")
	}

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	for !sim.IsPaused() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !sim.IsPaused() {
		t.Error("Space did not pause")
	}

	screen.InjectKey(tcell.KeyRune, 'm', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runTerminal: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("q did not quit the render loop")
	}
	if sound.IsMuted() {
		t.Error("m should have unmuted the default-muted manager")
	}
}

func TestFaultNoticeNamesLastFault(t *testing.T) {
	if got := faultNotice(nil); got != "" {
		t.Errorf("Expected no notice, got %q", got)
	}

	evs := []event.Event{
		{Type: event.EventWormFaulted, Worm: "worm-1", At: core.Point{X: 0, Y: 0}},
		{Type: event.EventWormStuck, Worm: "worm-2"},
		{Type: event.EventWormFaulted, Worm: "worm-5", At: core.Point{X: 3, Y: 4}},
		{Type: event.EventWormReversed, Worm: "worm-6"},
	}
	if got, want := faultNotice(evs), "worm-5 faulted at (3,4)"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := faultNotice(evs[1:2]); got != "" {
		t.Errorf("Stuck is not a fault, got %q", got)
	}
}

func TestRunHeadlessStopsAfterDuration(t *testing.T) {
	var buf bytes.Buffer
	out := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(out)

	cfg := smallConfig()
	sim := startSimulation(t, cfg)

	start := time.Now()
	runHeadless(sim, cfg, 50*time.Millisecond)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Headless run overran: %v", elapsed)
	}

	text := buf.String()
	if !strings.Contains(text, "[STATUS]") || !strings.Contains(text, "worm.moves=") || !strings.Contains(text, "cpu_user=") {
		t.Errorf("Expected a status report, got %q", text)
	}
}

func TestProcessUsage(t *testing.T) {
	usage := processUsage()
	for _, want := range []string{"cpu_user=", "cpu_sys=", "maxrss="} {
		if !strings.Contains(usage, want) {
			t.Errorf("Usage %q missing %q", usage, want)
		}
	}
}

func TestRunRejectsInvalidFlags(t *testing.T) {
	out := log.Writer()
	defer log.SetOutput(out)
	log.SetOutput(io.Discard)

	if code := run([]string{"-width", "0"}); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if code := run([]string{"-h"}); code != 0 {
		t.Errorf("Expected exit code 0 for help, got %d", code)
	}
}

func TestRunHeadlessEndToEnd(t *testing.T) {
	out := log.Writer()
	defer log.SetOutput(out)

	code := run([]string{"-headless", "-duration", "100ms", "-width", "10", "-height", "10", "-worms", "5", "-strategy", "coarse", "-walls"})
	if code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
}
