// Package policy provides a simple, optional submission-control layer that
// can be attached to a scheduler via context. It is deliberately decoupled
// from the rest of the pool so that using it is entirely opt-in: schedulers
// that do not embed a Policy in their context keep the default "queue"
// behaviour.

package policy

import (
	"context"
)

// Submission modes recognised by the scheduler.
const (
	ModeQueue  = "queue"  // enqueue until a worker frees up (default)
	ModeReject = "reject" // fail the submission immediately
	ModePark   = "park"   // hold queued tasks while capacity is zero (default)
)

// DecideFunc is invoked when a submission is about to be rejected. Returning
// true admits the task to the queue anyway, false upholds the rejection.
// Implementations MAY mutate the policy (for example, switching to ModeQueue
// after the first override). Decide runs inline on the submission path and
// must not call back into the scheduler.
type DecideFunc func(
	ctx context.Context,
	task string, // task identifier
	queued int, // tasks currently awaiting a worker
	p *Policy,
) bool

// Policy represents the submission settings for a scheduler.
//
//   - Saturation controls what happens when every worker is busy (queue / reject).
//   - ZeroCapacity controls what happens while the pool holds no workers (park / reject).
//   - MaxQueued caps the pending queue length regardless of mode (0 = unlimited).
//   - Decide is consulted only when a submission is about to be rejected.
//
// A nil *Policy means "queue everything, without bounds" and is therefore
// the zero-cost default.
type Policy struct {
	Saturation   string // queue / reject (default = queue)
	ZeroCapacity string // park / reject  (default = park)
	MaxQueued    int    // 0 => unlimited
	Decide       DecideFunc
}

// Admits decides whether a submission may join the pending queue given the
// current queue length and pool capacity. It is consulted only when no idle
// worker is available. ctx and task are passed through to the Decide
// override when one is registered.
func (p *Policy) Admits(ctx context.Context, task string, queued, capacity int) bool {
	if p == nil {
		return true
	}
	if p.admits(queued, capacity) {
		return true
	}
	if p.Decide != nil {
		return p.Decide(ctx, task, queued, p)
	}
	return false
}

func (p *Policy) admits(queued, capacity int) bool {
	// MaxQueued has priority.
	if p.MaxQueued > 0 && queued >= p.MaxQueued {
		return false
	}
	if capacity == 0 {
		return p.ZeroCapacity != ModeReject
	}
	return p.Saturation != ModeReject
}

// ---------------------------------------------------------------------------
// Config <-> Policy converters (Config is a serialisable subset used when a
// Policy with DecideFunc cannot be persisted).
// ---------------------------------------------------------------------------

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Saturation   string `json:"saturation,omitempty" yaml:"saturation,omitempty"`
	ZeroCapacity string `json:"zeroCapacity,omitempty" yaml:"zeroCapacity,omitempty"`
	MaxQueued    int    `json:"maxQueued,omitempty" yaml:"maxQueued,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Saturation:   p.Saturation,
		ZeroCapacity: p.ZeroCapacity,
		MaxQueued:    p.MaxQueued,
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without
// DecideFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Saturation:   c.Saturation,
		ZeroCapacity: c.ZeroCapacity,
		MaxQueued:    c.MaxQueued,
	}
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the Policy from ctx, nil when absent.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
