package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/parameter"
	"github.com/lixenwraith/threadworms/worm"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("config: invalid value")

// Config is the runtime configuration: parameter defaults, then file, then flags
type Config struct {
	Grid     GridConfig     `toml:"grid" yaml:"grid"`
	Render   RenderConfig   `toml:"render" yaml:"render"`
	Worms    WormsConfig    `toml:"worms" yaml:"worms"`
	Timeouts TimeoutsConfig `toml:"timeouts" yaml:"timeouts"`
	Audio    AudioConfig    `toml:"audio" yaml:"audio"`
	Walls    WallsConfig    `toml:"walls" yaml:"walls"`
	Seed     uint64         `toml:"seed" yaml:"seed"`
}

type GridConfig struct {
	Width    int    `toml:"width" yaml:"width"`
	Height   int    `toml:"height" yaml:"height"`
	Strategy string `toml:"strategy" yaml:"strategy"`
}

type RenderConfig struct {
	CellWidth int `toml:"cell_width" yaml:"cell_width"`
	FPS       int `toml:"fps" yaml:"fps"`
}

type WormsConfig struct {
	Count              int      `toml:"count" yaml:"count"`
	MinLength          int      `toml:"min_length" yaml:"min_length"`
	MaxLength          int      `toml:"max_length" yaml:"max_length"`
	LongChance         float64  `toml:"long_chance" yaml:"long_chance"`
	LongBonusMin       int      `toml:"long_bonus_min" yaml:"long_bonus_min"`
	LongBonusMax       int      `toml:"long_bonus_max" yaml:"long_bonus_max"`
	MinSpeed           Duration `toml:"min_speed" yaml:"min_speed"`
	MaxSpeed           Duration `toml:"max_speed" yaml:"max_speed"`
	TurnChance         float64  `toml:"turn_chance" yaml:"turn_chance"`
	ShrinkOnContention bool     `toml:"shrink_on_contention" yaml:"shrink_on_contention"`
}

type TimeoutsConfig struct {
	Claim    Duration `toml:"claim" yaml:"claim"`
	Peek     Duration `toml:"peek" yaml:"peek"`
	Tail     Duration `toml:"tail" yaml:"tail"`
	Snapshot Duration `toml:"snapshot" yaml:"snapshot"`
	Step     Duration `toml:"step" yaml:"step"`
}

type AudioConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

type WallsConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

// Default returns the compiled-in configuration
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Width:    parameter.DefaultGridWidth,
			Height:   parameter.DefaultGridHeight,
			Strategy: parameter.DefaultStrategy,
		},
		Render: RenderConfig{
			CellWidth: parameter.CellWidth,
			FPS:       parameter.FrameRate,
		},
		Worms: WormsConfig{
			Count:              parameter.DefaultWormCount,
			MinLength:          parameter.WormMinLength,
			MaxLength:          parameter.WormMaxLength,
			LongChance:         parameter.WormLongChance,
			LongBonusMin:       parameter.WormLongBonusMin,
			LongBonusMax:       parameter.WormLongBonusMax,
			MinSpeed:           Duration(parameter.WormMinSpeed),
			MaxSpeed:           Duration(parameter.WormMaxSpeed),
			TurnChance:         parameter.WormTurnChance,
			ShrinkOnContention: parameter.WormShrinkOnContention,
		},
		Timeouts: TimeoutsConfig{
			Claim:    Duration(parameter.ClaimTimeout),
			Peek:     Duration(parameter.PeekTimeout),
			Tail:     Duration(parameter.TailTimeout),
			Snapshot: Duration(parameter.SnapshotTimeout),
			Step:     Duration(parameter.StepTimeout),
		},
	}
}

// LoadFile overlays the file at path onto cfg; format is chosen by extension
func LoadFile(cfg *Config, path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(buf, cfg)
	case ".toml", "":
		err = toml.Unmarshal(buf, cfg)
	default:
		return fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("%s parse failed: %w", path, err)
	}
	return nil
}

// Validate reports every invalid field, each wrapping ErrInvalid
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		fail("grid size %dx%d must be positive", c.Grid.Width, c.Grid.Height)
	}
	if _, err := grid.ParseStrategy(c.Grid.Strategy); err != nil {
		fail("%v", err)
	}
	if c.Render.CellWidth < 1 {
		fail("render.cell_width %d must be at least 1", c.Render.CellWidth)
	}
	if c.Render.FPS <= 0 {
		fail("render.fps %d must be positive", c.Render.FPS)
	}

	w := c.Worms
	if w.Count < 0 {
		fail("worms.count %d must not be negative", w.Count)
	}
	if cells := c.Grid.Width * c.Grid.Height; c.Grid.Width > 0 && c.Grid.Height > 0 && w.Count > cells {
		fail("worms.count %d exceeds %d grid cells", w.Count, cells)
	}
	if w.MinLength < 1 || w.MaxLength < w.MinLength {
		fail("worm length range [%d,%d] is invalid", w.MinLength, w.MaxLength)
	}
	if w.LongBonusMin < 0 || w.LongBonusMax < w.LongBonusMin {
		fail("worm long bonus range [%d,%d] is invalid", w.LongBonusMin, w.LongBonusMax)
	}
	if w.MinSpeed <= 0 || w.MaxSpeed < w.MinSpeed {
		fail("worm speed range [%s,%s] is invalid", w.MinSpeed, w.MaxSpeed)
	}
	checkChance := func(name string, p float64) {
		if p < 0 || p > 1 {
			fail("%s %v outside [0,1]", name, p)
		}
	}
	checkChance("worms.long_chance", w.LongChance)
	checkChance("worms.turn_chance", w.TurnChance)

	t := c.Timeouts
	for _, d := range []struct {
		name string
		v    Duration
	}{
		{"timeouts.claim", t.Claim},
		{"timeouts.peek", t.Peek},
		{"timeouts.tail", t.Tail},
		{"timeouts.snapshot", t.Snapshot},
		{"timeouts.step", t.Step},
	} {
		if d.v <= 0 {
			fail("%s %s must be positive", d.name, d.v)
		}
	}

	return errors.Join(errs...)
}

// Strategy returns the parsed lock strategy; call after Validate
func (c *Config) Strategy() grid.Strategy {
	s, _ := grid.ParseStrategy(c.Grid.Strategy)
	return s
}

// WormOptions maps timeouts and behavior flags onto worm.Options
func (c *Config) WormOptions() worm.Options {
	return worm.Options{
		TurnChance:         c.Worms.TurnChance,
		ClaimTimeout:       c.Timeouts.Claim.D(),
		PeekTimeout:        c.Timeouts.Peek.D(),
		TailTimeout:        c.Timeouts.Tail.D(),
		StepTimeout:        c.Timeouts.Step.D(),
		ShrinkOnContention: c.Worms.ShrinkOnContention,
	}
}

// WormRanges maps the random worm ranges onto worm.Ranges
func (c *Config) WormRanges() worm.Ranges {
	r := worm.DefaultRanges()
	r.MinLength = c.Worms.MinLength
	r.MaxLength = c.Worms.MaxLength
	r.LongChance = c.Worms.LongChance
	r.LongBonusMin = c.Worms.LongBonusMin
	r.LongBonusMax = c.Worms.LongBonusMax
	r.MinSpeed = c.Worms.MinSpeed.D()
	r.MaxSpeed = c.Worms.MaxSpeed.D()
	return r
}
