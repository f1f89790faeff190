package render

import (
	"time"

	"github.com/lixenwraith/threadworms/status"
)

// Clock is a source of real time
type Clock interface {
	Now() time.Time
}

// FPSMeter counts frames over one-second windows and publishes the rate to a gauge
type FPSMeter struct {
	clock       Clock
	gauge       *status.AtomicFloat
	windowStart time.Time
	frames      int
}

// NewFPSMeter creates a meter reading time from clock; a nil gauge gets a private one
func NewFPSMeter(clock Clock, gauge *status.AtomicFloat) *FPSMeter {
	if gauge == nil {
		gauge = &status.AtomicFloat{}
	}
	return &FPSMeter{clock: clock, gauge: gauge, windowStart: clock.Now()}
}

// Tick records one frame; render goroutine only
func (m *FPSMeter) Tick() {
	m.frames++
	now := m.clock.Now()
	if elapsed := now.Sub(m.windowStart); elapsed >= time.Second {
		m.gauge.Set(float64(m.frames) / elapsed.Seconds())
		m.frames = 0
		m.windowStart = now
	}
}

// FPS returns the rate of the last complete window
func (m *FPSMeter) FPS() float64 {
	return m.gauge.Get()
}
