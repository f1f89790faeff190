package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/threadworms/audio"
	"github.com/lixenwraith/threadworms/config"
	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/engine"
	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/input"
	"github.com/lixenwraith/threadworms/parameter"
	"github.com/lixenwraith/threadworms/render"
	"github.com/lixenwraith/threadworms/status"
)

// runTerminal drives the render loop until a quit intent; a nil screen opens the real terminal
func runTerminal(screen tcell.Screen, sim *engine.Simulation, cfg *config.Config, keys *input.KeyTable, sound *audio.SoundManager) error {
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashCleanup(screen.Fini)
	defer screen.Fini()
	screen.HideCursor()

	metrics := sim.Metrics()
	fps := render.NewFPSMeter(engine.NewTimeProvider(), metrics.Float(status.MetricFPS))
	renderer := render.NewRenderer(screen, cfg.Grid.Width, cfg.Grid.Height, cfg.Render.CellWidth, cfg.Timeouts.Snapshot.D(), fps)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Render.FPS))
	defer ticker.Stop()

	frames := metrics.Int(status.MetricFrames)
	var (
		notice      string
		noticeUntil time.Time
	)
	for {
		select {
		case ev := <-events:
			switch keys.Translate(ev) {
			case input.IntentQuit:
				return nil
			case input.IntentTogglePause:
				sim.SetPaused(!sim.IsPaused())
			case input.IntentToggleMute:
				sound.ToggleMute()
			case input.IntentResize:
				screen.Sync()
				renderer.Resize()
			}

		case <-ticker.C:
			evs := sim.Events().Consume()
			sound.HandleEvents(evs)

			now := time.Now()
			if msg := faultNotice(evs); msg != "" {
				notice, noticeUntil = msg, now.Add(parameter.NoticeDuration)
			}
			st := statusLine(sim, cfg, sound)
			if now.Before(noticeUntil) {
				st.Message = notice
			}
			renderer.Draw(sim, st)
			frames.Add(1)
		}
	}
}

// faultNotice names the last faulted worm in evs, or returns "" if none faulted
func faultNotice(evs []event.Event) string {
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Type == event.EventWormFaulted {
			return fmt.Sprintf("%s faulted at %s", evs[i].Worm, evs[i].At)
		}
	}
	return ""
}

func statusLine(sim *engine.Simulation, cfg *config.Config, sound *audio.SoundManager) render.Status {
	m := sim.Metrics()
	timeouts := m.Int(status.MetricClaimTimeouts).Load() +
		m.Int(status.MetricPeekTimeouts).Load() +
		m.Int(status.MetricTailTimeouts).Load() +
		m.Int(status.MetricStepTimeouts).Load()

	return render.Status{
		Worms:    sim.WormCount(),
		Running:  m.Int(status.MetricRunning).Load(),
		Strategy: cfg.Strategy().String(),
		Paused:   sim.IsPaused(),
		Muted:    sound.IsMuted(),
		Elapsed:  sim.Elapsed(),
		Moves:    m.Int(status.MetricMoves).Load(),
		Timeouts: timeouts,
	}
}
