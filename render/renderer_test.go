package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/status"
)

// manualClock advances only when told to
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.SimulationScreen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(ch)
	}
	return b.String()
}

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(80, 25, 32, 24, 2, 1)
	if l.Cols != 32 || l.Rows != 24 {
		t.Fatalf("Expected full grid, got %dx%d", l.Cols, l.Rows)
	}
	if l.OffsetX != 8 || l.OffsetY != 0 || l.StatusY != 24 {
		t.Errorf("Unexpected offsets: %+v", l)
	}

	clipped := ComputeLayout(20, 10, 32, 24, 2, 1)
	if clipped.Cols != 10 || clipped.Rows != 9 {
		t.Errorf("Expected clip to 10x9, got %dx%d", clipped.Cols, clipped.Rows)
	}
	if clipped.OffsetX != 0 || clipped.OffsetY != 0 {
		t.Errorf("Clipped grid should start at origin: %+v", clipped)
	}
}

func TestDrawTwoToneSegment(t *testing.T) {
	screen := newScreen(t, 20, 6)
	store := grid.NewFineStore(4, 4)
	color := core.RGB{R: 200, G: 120, B: 30}
	store.Set(core.Point{X: 1, Y: 2}, grid.Occupied(color))

	r := NewRenderer(screen, 4, 4, 2, time.Second, nil)
	r.Draw(store, Status{Worms: 1, Running: 1, Strategy: "fine"})

	l := r.Layout()
	sx, sy := l.ScreenX(1), l.ScreenY(2)
	for i := 0; i < 2; i++ {
		ch, _, style, _ := screen.GetContent(sx+i, sy)
		if ch != segmentGlyph {
			t.Errorf("Column %d: expected segment glyph, got %q", i, ch)
		}
		fg, bg, _ := style.Decompose()
		if fg != TrueColor(color) {
			t.Errorf("Foreground %v, expected worm color", fg)
		}
		if bg != TrueColor(color.Darken(50)) {
			t.Errorf("Background %v, expected darkened worm color", bg)
		}
	}

	ch, _, _, _ := screen.GetContent(l.ScreenX(0), l.ScreenY(0))
	if ch != gridDotGlyph {
		t.Errorf("Empty cell should show a grid dot, got %q", ch)
	}
}

func TestStaleCellsKeepLastFrame(t *testing.T) {
	screen := newScreen(t, 20, 6)
	store := grid.NewCoarseStore(4, 4)
	color := core.RGB{R: 90, G: 200, B: 90}
	store.Set(core.Point{X: 0, Y: 0}, grid.Occupied(color))

	r := NewRenderer(screen, 4, 4, 2, 5*time.Millisecond, nil)
	r.Draw(store, Status{})
	if r.Stale() != 0 {
		t.Fatalf("Expected fresh frame, got %d stale", r.Stale())
	}

	// Clear under a held lock: the next frame times out and redraws the old content
	release := make(chan struct{})
	held := make(chan struct{})
	go store.Step(time.Second, func(grid.Cells) {
		close(held)
		<-release
	})
	<-held
	r.Draw(store, Status{})
	close(release)

	if r.Stale() != 16 {
		t.Errorf("Expected 16 stale cells, got %d", r.Stale())
	}
	l := r.Layout()
	if ch, _, _, _ := screen.GetContent(l.ScreenX(0), l.ScreenY(0)); ch != segmentGlyph {
		t.Errorf("Stale cell lost its last value, got %q", ch)
	}
}

func TestStatusBar(t *testing.T) {
	screen := newScreen(t, 120, 6)
	store := grid.NewFineStore(4, 4)

	r := NewRenderer(screen, 4, 4, 2, time.Second, nil)
	r.Draw(store, Status{
		Worms:    24,
		Running:  20,
		Strategy: "coarse",
		Paused:   true,
		Muted:    true,
		Elapsed:  75 * time.Second,
		Moves:    1234,
		Timeouts: 7,
	})

	text := rowText(screen, r.Layout().StatusY, 120)
	for _, want := range []string{"PAUSED", "worms 20/24", "coarse", "01:15", "moves 1234", "timeouts 7", "muted"} {
		if !strings.Contains(text, want) {
			t.Errorf("Status bar %q missing %q", text, want)
		}
	}

	_, _, style, _ := screen.GetContent(1, r.Layout().StatusY)
	if _, bg, _ := style.Decompose(); bg != RgbPaused {
		t.Errorf("Pause badge background %v", bg)
	}
}

func TestStatusBarMessage(t *testing.T) {
	screen := newScreen(t, 160, 6)
	store := grid.NewFineStore(4, 4)

	r := NewRenderer(screen, 4, 4, 2, time.Second, nil)
	r.Draw(store, Status{Worms: 1, Strategy: "fine"})
	if text := rowText(screen, r.Layout().StatusY, 160); strings.Contains(text, "faulted") {
		t.Fatalf("Unexpected notice in %q", text)
	}

	r.Draw(store, Status{Worms: 1, Strategy: "fine", Message: "worm-3 faulted at (1,2)"})
	text := rowText(screen, r.Layout().StatusY, 160)
	if !strings.Contains(text, "worm-3 faulted at (1,2)") {
		t.Errorf("Status bar %q missing notice", text)
	}
}

func TestResizeRecomputesLayout(t *testing.T) {
	screen := newScreen(t, 80, 30)
	r := NewRenderer(screen, 32, 24, 2, time.Second, nil)
	if r.Layout().Cols != 32 {
		t.Fatalf("Expected 32 columns, got %d", r.Layout().Cols)
	}

	screen.SetSize(20, 10)
	r.Resize()
	if r.Layout().Cols != 10 || r.Layout().Width != 20 {
		t.Errorf("Layout not updated after resize: %+v", r.Layout())
	}
}

func TestFPSMeter(t *testing.T) {
	clock := &manualClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	gauge := status.NewRegistry().Float(status.MetricFPS)
	m := NewFPSMeter(clock, gauge)

	for i := 0; i < 29; i++ {
		clock.now = clock.now.Add(34 * time.Millisecond)
		m.Tick()
	}
	if m.FPS() != 0 {
		t.Errorf("No window completed yet, got %.1f", m.FPS())
	}

	clock.now = clock.now.Add(34 * time.Millisecond)
	m.Tick()
	if got := gauge.Get(); got < 29 || got > 30 {
		t.Errorf("Expected ~30 fps, got %.1f", got)
	}
}
