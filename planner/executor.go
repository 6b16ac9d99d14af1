package planner

import (
	"context"
	"errors"
	"time"
)

// ─── Bounded Call Executor ────────────────────────────────────────────────────

// Deadline tiers. First attempts get the long window, retries the short one.
const (
	LongDeadline  = 55 * time.Second
	ShortDeadline = 30 * time.Second
)

// Executor runs exactly one upstream call under a hard deadline.
// Retries are the Policy's job, never this one's.
type Executor struct {
	upstream Upstream
}

func NewExecutor(upstream Upstream) *Executor {
	return &Executor{upstream: upstream}
}

// Do starts the call and a deadline timer; whichever settles first wins.
// When the deadline fires the in-flight call is cancelled best-effort —
// the upstream may keep running, but its result is discarded and the
// caller is unblocked immediately.
func (e *Executor) Do(ctx context.Context, req Request, deadline time.Duration) Outcome {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	type reply struct {
		raw string
		err error
	}
	done := make(chan reply, 1) // buffered so a late upstream reply never leaks a goroutine

	go func() {
		raw, err := e.upstream.Complete(ctx, req)
		done <- reply{raw, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return Outcome{TimedOut: true, Err: r.err}
			}
			return Outcome{Err: r.err}
		}
		return Outcome{Raw: r.raw}
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome{TimedOut: true, Err: ctx.Err()}
		}
		return Outcome{Err: ctx.Err()}
	}
}
