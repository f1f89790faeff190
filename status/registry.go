package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metric keys written by worms and the frame loop
const (
	MetricMoves         = "worm.moves"
	MetricClaimTimeouts = "worm.claim_timeouts"
	MetricPeekTimeouts  = "worm.peek_timeouts"
	MetricStepTimeouts  = "worm.step_timeouts"
	MetricTailTimeouts  = "worm.tail_timeouts"
	MetricReversals     = "worm.reversals"
	MetricStuck         = "worm.stuck"
	MetricBlocked       = "worm.blocked"
	MetricIdle          = "worm.idle"
	MetricShrinks       = "worm.shrinks"
	MetricRunning       = "worm.running"
	MetricFaulted       = "worm.faulted"
	MetricStaleCells    = "render.stale_cells"
	MetricFrames        = "render.frames"
	MetricFPS           = "render.fps"
)

// Registry is the central metrics facade
// Worms cache pointers at spawn; update loops write directly to atomics
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// Int returns the counter for key, creating it on first use
func (r *Registry) Int(key string) *atomic.Int64 {
	return r.Ints.Get(key)
}

// Float returns the gauge for key, creating it on first use
func (r *Registry) Float(key string) *AtomicFloat {
	return r.Floats.Get(key)
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}

// Summary renders every metric as "key=value" pairs in sorted key order
func (r *Registry) Summary() string {
	var b strings.Builder
	r.Ints.Range(func(key string, v *atomic.Int64) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%d", key, v.Load())
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%.1f", key, v.Get())
	})
	return b.String()
}
