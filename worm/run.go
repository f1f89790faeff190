package worm

import (
	"time"

	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/grid"
)

// Control is the controller side of the cooperative shutdown protocol
type Control interface {
	// Stopping is the shutdown flag, polled once per iteration
	Stopping() bool

	// Paused makes iterations idle without leaving the loop
	Paused() bool

	// Done is closed once shutdown is requested; it only cuts sleeps short
	Done() <-chan struct{}
}

// Run drives the worm until the stop flag is observed
// Returns nil on shutdown, or the error of a fatal step (ErrInvalidDirection)
// Cells already occupied stay on the grid after return
func (w *Worm) Run(store grid.Store, ctl Control) error {
	w.setState(StateAdvancing)

	timer := time.NewTimer(w.Speed)
	defer timer.Stop()

	for {
		if ctl.Stopping() {
			w.setState(StateStopped)
			w.emit(event.EventWormStopped, 0)
			return nil
		}

		if !ctl.Paused() {
			var (
				outcome Outcome
				stepErr error
			)
			entered := store.Step(w.opts.StepTimeout, func(cells grid.Cells) {
				outcome, stepErr = w.Step(cells)
			})
			if stepErr != nil {
				w.setState(StateFaulted)
				w.emit(event.EventWormFaulted, 0)
				return stepErr
			}
			switch {
			case !entered:
				w.metrics.stepTimeouts.Add(1)
			case !outcome.Advanced():
				w.metrics.idle.Add(1)
			}
		}

		// Sole scheduling point; no lock is held here
		timer.Reset(w.Speed)
		select {
		case <-timer.C:
		case <-ctl.Done():
		}
	}
}
