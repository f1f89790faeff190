package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"

	"github.com/lixenwraith/threadworms/config"
	"github.com/lixenwraith/threadworms/engine"
	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/parameter"
)

// runHeadless runs without a screen until duration elapses (0 = forever) or SIGINT/SIGTERM
// Worm events are drained and summarized with the metrics every report interval
func runHeadless(sim *engine.Simulation, cfg *config.Config, duration time.Duration) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(sigs)

	var deadline <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		deadline = timer.C
	}

	report := time.NewTicker(parameter.HeadlessReportInterval)
	defer report.Stop()

	frame := grid.NewFrame(cfg.Grid.Width, cfg.Grid.Height)
	for {
		select {
		case s := <-sigs:
			log.Printf("Received %s, shutting down", s)
			return
		case <-deadline:
			log.Printf("Run duration %s reached", duration)
			reportStatus(sim, frame, cfg.Timeouts.Snapshot.D())
			return
		case <-report.C:
			reportStatus(sim, frame, cfg.Timeouts.Snapshot.D())
		}
	}
}

func reportStatus(sim *engine.Simulation, frame *grid.Frame, timeout time.Duration) {
	counts := make(map[event.EventType]int)
	for _, ev := range sim.Events().Consume() {
		counts[ev.Type]++
		if ev.Type == event.EventWormFaulted {
			log.Printf("[ERROR] worm %s faulted at %s", ev.Worm, ev.At)
		}
	}

	stale := sim.Snapshot(frame, timeout)
	log.Printf("[STATUS] elapsed=%s occupied=%d stale=%d reversed=%d stuck=%d shrunk=%d %s | %s",
		sim.Elapsed().Truncate(time.Millisecond), frame.Occupied(), stale,
		counts[event.EventWormReversed], counts[event.EventWormStuck], counts[event.EventWormShrunk],
		processUsage(), sim.Metrics().Summary())
}

// processUsage reports CPU time and peak resident set of the whole process
func processUsage() string {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return "usage=unavailable"
	}
	return fmt.Sprintf("cpu_user=%s cpu_sys=%s maxrss=%d",
		time.Duration(ru.Utime.Nano()).Truncate(time.Millisecond),
		time.Duration(ru.Stime.Nano()).Truncate(time.Millisecond),
		ru.Maxrss)
}
