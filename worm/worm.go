package worm

import (
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/event"
	"github.com/lixenwraith/threadworms/grid"
	"github.com/lixenwraith/threadworms/status"
)

var (
	// ErrNoFreeCell is returned by Spawn when sampling found no claimable cell
	ErrNoFreeCell = errors.New("worm: no free cell to spawn in")

	// ErrInvalidDirection signals a heading outside the Direction enum; it is a bug, not contention
	ErrInvalidDirection = errors.New("worm: invalid direction")
)

// State is the lifecycle stage of a worm
type State uint32

const (
	StateIdle State = iota // created, loop not started
	StateAdvancing
	StateStopped // shutdown observed
	StateFaulted // left the loop on ErrInvalidDirection
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAdvancing:
		return "advancing"
	case StateStopped:
		return "stopped"
	case StateFaulted:
		return "faulted"
	}
	return "unknown"
}

// Worm is one agent: a chain of cells, head at Body[0], tail last
// Body, Direction and MaxLength belong to the goroutine running the worm;
// other goroutines read the published State, Len and Limit instead
type Worm struct {
	ID    uuid.UUID // debug identity, never written to the grid
	Name  string
	Color core.RGB
	Speed time.Duration

	Body      []core.Point
	MaxLength int
	Direction core.Direction

	opts    Options
	rng     *rand.Rand
	events  event.Sink
	metrics counters

	state atomic.Uint32
	shape atomic.Uint64 // body length << 32 | MaxLength, published as one word
}

// counters caches metric pointers so the hot loop never touches the registry map
type counters struct {
	moves         *atomic.Int64
	reversals     *atomic.Int64
	stuck         *atomic.Int64
	blocked       *atomic.Int64
	idle          *atomic.Int64
	shrinks       *atomic.Int64
	claimTimeouts *atomic.Int64
	peekTimeouts  *atomic.Int64
	stepTimeouts  *atomic.Int64
	tailTimeouts  *atomic.Int64
}

func newCounters(r *status.Registry) counters {
	return counters{
		moves:         r.Int(status.MetricMoves),
		reversals:     r.Int(status.MetricReversals),
		stuck:         r.Int(status.MetricStuck),
		blocked:       r.Int(status.MetricBlocked),
		idle:          r.Int(status.MetricIdle),
		claimTimeouts: r.Int(status.MetricClaimTimeouts),
		peekTimeouts:  r.Int(status.MetricPeekTimeouts),
		shrinks:       r.Int(status.MetricShrinks),
		stepTimeouts:  r.Int(status.MetricStepTimeouts),
		tailTimeouts:  r.Int(status.MetricTailTimeouts),
	}
}

// New builds a worm around a body whose cells the caller has already claimed
func New(cfg Config, opts Options, body []core.Point, dir core.Direction, rng *rand.Rand) *Worm {
	w := &Worm{
		ID:        uuid.New(),
		Name:      cfg.Name,
		Color:     cfg.Color,
		Speed:     cfg.Speed,
		Body:      body,
		MaxLength: max(cfg.MaxLength, 1),
		Direction: dir,
		opts:      opts,
		rng:       rng,
		events:    event.Discard,
		metrics:   newCounters(status.NewRegistry()),
	}
	w.publish()
	return w
}

// Spawn samples random cells until one is claimed, then builds a one-segment worm there
func Spawn(store grid.Store, cfg Config, opts Options, rng *rand.Rand, attempts int) (*Worm, error) {
	w, h := store.Width(), store.Height()
	for i := 0; i < attempts; i++ {
		p := core.Point{X: rng.IntN(w), Y: rng.IntN(h)}
		if store.TryClaim(p, cfg.Color, opts.ClaimTimeout) {
			return New(cfg, opts, []core.Point{p}, core.RandomDirection(rng), rng), nil
		}
	}
	return nil, ErrNoFreeCell
}

// Attach routes the worm's events and counters to shared sinks; call before Run
func (w *Worm) Attach(events event.Sink, metrics *status.Registry) {
	if events != nil {
		w.events = events
	}
	if metrics != nil {
		w.metrics = newCounters(metrics)
	}
}

// Head returns the current head cell
func (w *Worm) Head() core.Point {
	return w.Body[0]
}

// State returns the published lifecycle stage
func (w *Worm) State() State {
	return State(w.state.Load())
}

// Shape returns the published body length and target length as one consistent pair
func (w *Worm) Shape() (length, limit int) {
	v := w.shape.Load()
	return int(v >> 32), int(uint32(v))
}

// Len returns the published body length
func (w *Worm) Len() int {
	length, _ := w.Shape()
	return length
}

// Limit returns the published target length
func (w *Worm) Limit() int {
	_, limit := w.Shape()
	return limit
}

func (w *Worm) setState(s State) {
	w.state.Store(uint32(s))
}

func (w *Worm) publish() {
	w.shape.Store(uint64(len(w.Body))<<32 | uint64(uint32(w.MaxLength)))
}

func (w *Worm) emit(t event.EventType, value int) {
	w.events.Push(event.Event{
		Type:  t,
		Worm:  w.Name,
		Color: w.Color,
		At:    w.Body[0],
		Value: value,
	})
}
