package render

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/parameter"
)

const (
	segmentGlyph = '■'
	gridDotGlyph = '·'
)

// Source is the grid the renderer reads each frame
type Source interface {
	Snapshot(dst *grid.Frame, timeout time.Duration) int
}

// Status is the status bar content for one frame
type Status struct {
	Worms    int
	Running  int64
	Strategy string
	Paused   bool
	Muted    bool
	Elapsed  time.Duration
	Moves    int64
	Timeouts int64
	Message  string
}

// Renderer draws grid snapshots and the status bar to a tcell screen
// All methods run on the main goroutine
type Renderer struct {
	screen  tcell.Screen
	frame   *grid.Frame
	layout  Layout
	fps     *FPSMeter
	timeout time.Duration

	gridW, gridH int
	cellWidth    int
	lastStale    int
}

// NewRenderer creates a renderer for a gridW x gridH grid
// The frame buffer is kept across frames so cells that time out keep their last drawn value
func NewRenderer(screen tcell.Screen, gridW, gridH, cellWidth int, snapshotTimeout time.Duration, fps *FPSMeter) *Renderer {
	r := &Renderer{
		screen:    screen,
		frame:     grid.NewFrame(gridW, gridH),
		fps:       fps,
		timeout:   snapshotTimeout,
		gridW:     gridW,
		gridH:     gridH,
		cellWidth: cellWidth,
	}
	r.Resize()
	return r
}

// Resize recomputes the layout from the current screen size
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.layout = ComputeLayout(w, h, r.gridW, r.gridH, r.cellWidth, parameter.StatusBarHeight)
}

// Layout returns the current layout
func (r *Renderer) Layout() Layout {
	return r.layout
}

// Stale returns the stale cell count of the last frame
func (r *Renderer) Stale() int {
	return r.lastStale
}

// Draw snapshots src and renders one full frame
func (r *Renderer) Draw(src Source, st Status) {
	r.lastStale = src.Snapshot(r.frame, r.timeout)

	bg := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', bg)

	r.drawGrid(bg)
	r.drawStatusBar(st)

	r.screen.Show()
	if r.fps != nil {
		r.fps.Tick()
	}
}

func (r *Renderer) drawGrid(bg tcell.Style) {
	dot := bg.Foreground(RgbGridDot)

	for y := 0; y < r.layout.Rows; y++ {
		sy := r.layout.ScreenY(y)
		for x := 0; x < r.layout.Cols; x++ {
			sx := r.layout.ScreenX(x)
			cell := r.frame.At(x, y)

			if !cell.Occupied {
				r.screen.SetContent(sx, sy, gridDotGlyph, nil, dot)
				continue
			}

			style := segmentStyle(cell.Color)
			for i := 0; i < r.layout.CellWidth; i++ {
				r.screen.SetContent(sx+i, sy, segmentGlyph, nil, style)
			}
		}
	}
}

func (r *Renderer) drawStatusBar(st Status) {
	y := r.layout.StatusY
	base := tcell.StyleDefault.Background(RgbStatusBar).Foreground(RgbStatusText)
	for x := 0; x < r.layout.Width; x++ {
		r.screen.SetContent(x, y, ' ', nil, base)
	}

	x := 0
	if st.Paused {
		x = r.drawText(x, y, " PAUSED ", base.Background(RgbPaused).Foreground(RgbBackground))
		x++
	}

	fps := 0.0
	if r.fps != nil {
		fps = r.fps.FPS()
	}
	text := fmt.Sprintf("worms %d/%d | %s | fps %.0f | %s | moves %d | timeouts %d | stale %d",
		st.Running, st.Worms, st.Strategy, fps, formatElapsed(st.Elapsed), st.Moves, st.Timeouts, r.lastStale)
	if st.Muted {
		text += " | muted"
	}
	x = r.drawText(x, y, text, base)

	if st.Message != "" {
		r.drawText(x+2, y, st.Message, base.Bold(true))
	}
}

// drawText writes s from column x, clipped to the screen, returning the next column
func (r *Renderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= r.layout.Width {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
