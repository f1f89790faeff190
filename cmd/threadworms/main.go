package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/lixenwraith/threadworms/audio"
	"github.com/lixenwraith/threadworms/config"
	"github.com/lixenwraith/threadworms/engine"
	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/input"
	"github.com/lixenwraith/threadworms/parameter"
	"github.com/lixenwraith/threadworms/worm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, cli, err := config.Parse("threadworms", args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "threadworms: %v\n", err)
		return 1
	}

	headless := cli.Headless || !term.IsTerminal(int(os.Stdout.Fd()))

	logFile := setupLogging(cli.Debug)
	if logFile != nil {
		defer logFile.Close()
	} else if headless {
		// No screen to protect; status reports go to stderr
		log.SetOutput(os.Stderr)
	}

	keys := input.DefaultKeyTable()
	if cli.KeymapPath != "" {
		data, err := os.ReadFile(cli.KeymapPath)
		if err == nil {
			var override *input.KeyTable
			if override, err = input.LoadKeyConfig(data); err == nil {
				keys = input.MergeKeyTable(keys, override)
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "threadworms: keymap: %v\n", err)
			return 1
		}
	}

	sim := engine.NewSimulation(engine.Options{
		Store: grid.New(cfg.Strategy(), cfg.Grid.Width, cfg.Grid.Height),
		Worm:  cfg.WormOptions(),
		Seed:  cfg.Seed,
	})

	if cfg.Walls.Enabled {
		n, err := sim.Reseed(parameter.HelloWorldPattern, parameter.ColorWall)
		if err != nil {
			log.Printf("Wall pattern skipped: %v", err)
		} else {
			log.Printf("Wall pattern placed %d cells", n)
		}
	}

	sound := audio.NewSoundManager(nil)
	if cfg.Audio.Enabled && !headless {
		if err := sound.Initialize(); err != nil {
			log.Printf("Audio initialization failed: %v (continuing without audio)", err)
		} else {
			sound.SetMuted(false)
			defer sound.Cleanup()
		}
	}

	log.Printf("Starting %d worms on %dx%d grid, %s locking", cfg.Worms.Count, cfg.Grid.Width, cfg.Grid.Height, cfg.Strategy())
	if err := sim.Spawn(cfg.Worms.Count, worm.RandomFactory(cfg.WormRanges())); err != nil {
		// Worms already spawned keep running
		log.Printf("[WARN] %v (running with %d worms)", err, sim.WormCount())
	}

	code := 0
	if headless {
		runHeadless(sim, cfg, cli.Duration)
	} else if err := runTerminal(nil, sim, cfg, keys, sound); err != nil {
		fmt.Fprintf(os.Stderr, "threadworms: %v\n", err)
		code = 1
	}

	sim.RequestShutdown()
	if !sim.Wait(parameter.ShutdownGrace) {
		log.Printf("[WARN] worms still running after %s", parameter.ShutdownGrace)
	}
	log.Printf("Final metrics: %s", sim.Metrics().Summary())
	return code
}
