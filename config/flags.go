package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// CLI holds the process options that are not part of the simulation config
type CLI struct {
	ConfigPath string
	KeymapPath string
	Debug      bool
	Headless   bool
	Duration   time.Duration // headless run length, 0 runs until signalled
}

// Parse builds the configuration from defaults, the optional -config file, then explicit flags
// Flags are parsed twice: once to find -config, then again over the file values so flags win
func Parse(name string, args []string, output io.Writer) (*Config, *CLI, error) {
	cfg := Default()
	cli := &CLI{}

	fs := newFlagSet(name, cfg, cli)
	fs.SetOutput(output)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if cli.ConfigPath != "" {
		cfg = Default()
		if err := LoadFile(cfg, cli.ConfigPath); err != nil {
			return nil, nil, err
		}
		fs = newFlagSet(name, cfg, cli)
		fs.SetOutput(io.Discard)
		if err := fs.Parse(args); err != nil {
			return nil, nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, cli, nil
}

func newFlagSet(name string, cfg *Config, cli *CLI) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&cli.ConfigPath, "config", cli.ConfigPath, "Config file (.toml, .yaml)")
	fs.StringVar(&cli.KeymapPath, "keymap", cli.KeymapPath, "Key binding overrides (.toml)")
	fs.BoolVar(&cli.Debug, "debug", cli.Debug, "Write logs to logs/threadworms.log")
	fs.BoolVar(&cli.Headless, "headless", cli.Headless, "Run without a terminal screen")
	fs.DurationVar(&cli.Duration, "duration", cli.Duration, "Headless run length (0 = until signalled)")

	fs.IntVar(&cfg.Grid.Width, "width", cfg.Grid.Width, "Grid width in cells")
	fs.IntVar(&cfg.Grid.Height, "height", cfg.Grid.Height, "Grid height in cells")
	fs.StringVar(&cfg.Grid.Strategy, "strategy", cfg.Grid.Strategy, "Locking strategy: fine, coarse")

	fs.IntVar(&cfg.Render.CellWidth, "cell-width", cfg.Render.CellWidth, "Terminal columns per grid cell")
	fs.IntVar(&cfg.Render.FPS, "fps", cfg.Render.FPS, "Render frames per second")

	fs.IntVar(&cfg.Worms.Count, "worms", cfg.Worms.Count, "Number of worms")
	fs.IntVar(&cfg.Worms.MinLength, "min-length", cfg.Worms.MinLength, "Minimum worm length")
	fs.IntVar(&cfg.Worms.MaxLength, "max-length", cfg.Worms.MaxLength, "Maximum worm length before bonus")
	fs.Float64Var(&cfg.Worms.LongChance, "long-chance", cfg.Worms.LongChance, "Chance of a long worm")
	fs.Var(&cfg.Worms.MinSpeed, "min-speed", "Shortest delay between worm moves")
	fs.Var(&cfg.Worms.MaxSpeed, "max-speed", "Longest delay between worm moves")
	fs.Float64Var(&cfg.Worms.TurnChance, "turn-chance", cfg.Worms.TurnChance, "Chance of a random turn per move")
	fs.BoolVar(&cfg.Worms.ShrinkOnContention, "shrink", cfg.Worms.ShrinkOnContention, "Shrink worms whose tail release times out")

	fs.Var(&cfg.Timeouts.Claim, "claim-timeout", "Bound on claiming a cell")
	fs.Var(&cfg.Timeouts.Peek, "peek-timeout", "Bound on reading a neighbor cell")
	fs.Var(&cfg.Timeouts.Tail, "tail-timeout", "Bound on releasing the tail before blocking")
	fs.Var(&cfg.Timeouts.Snapshot, "snapshot-timeout", "Bound on reading a cell for rendering")
	fs.Var(&cfg.Timeouts.Step, "step-timeout", "Bound on the coarse grid lock")

	fs.BoolVar(&cfg.Audio.Enabled, "audio", cfg.Audio.Enabled, "Play sound cues for worm events")
	fs.BoolVar(&cfg.Walls.Enabled, "walls", cfg.Walls.Enabled, "Seed the grid with the HELLO WORLD wall pattern")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = random)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s:\n", name)
		fs.PrintDefaults()
	}
	return fs
}
