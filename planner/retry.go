package planner

import (
	"context"
	"log"
	"time"
)

// ─── Degrading Retry Policy ───────────────────────────────────────────────────

// Operation is one logical generation with its full and degraded request
// variants. Degraded must be the cheaper of the two (shorter prompt, smaller
// token budget) — it only runs after the full request timed out.
//
// Fallback, when set, builds the operation's output locally with no network
// access; it must be constant-time and must never fail. Operations without a
// fallback surface a classified *Error instead when both attempts fail.
type Operation struct {
	Name     string
	Full     Request
	Degraded Request
	Fallback func() string
}

// Result is what an operation produced: genuine upstream output, or the
// fallback payload with the failure kind that forced it (kept for logging).
type Result struct {
	Raw          string
	FromFallback bool
	FailKind     Kind
}

// Policy drives the Executor through at most two attempts and hides all
// transient upstream failure behind the operation's fallback.
type Policy struct {
	exec     *Executor
	upstream Upstream
	Long     time.Duration
	Short    time.Duration
}

func NewPolicy(upstream Upstream) *Policy {
	return &Policy{
		exec:     NewExecutor(upstream),
		upstream: upstream,
		Long:     LongDeadline,
		Short:    ShortDeadline,
	}
}

// Run executes op: Attempt1(full, long) → Attempt2(degraded, short) →
// Fallback. Attempt2 only runs after a timeout — a misconfiguration or hard
// upstream error will not fix itself on retry, so those skip straight to the
// fallback. Total wall-clock time is bounded by Long+Short.
//
// The only errors Run returns are caller-visible ones: a pre-flight
// credential failure (detected before any attempt, so the executor is never
// invoked), or exhaustion of an operation that has no fallback.
func (p *Policy) Run(ctx context.Context, op Operation) (Result, error) {
	if err := p.upstream.Ready(); err != nil {
		kind := Classify(err)
		if kind == KindUnknown {
			kind = KindBadCredentials
		}
		return Result{}, &Error{Kind: kind, Err: err}
	}

	out := p.exec.Do(ctx, op.Full, p.Long)
	if out.OK() {
		return Result{Raw: out.Raw}, nil
	}

	if out.TimedOut {
		log.Printf("⚠️  %s: full request timed out after %s — retrying degraded", op.Name, p.Long)
		out = p.exec.Do(ctx, op.Degraded, p.Short)
		if out.OK() {
			return Result{Raw: out.Raw}, nil
		}
	}

	kind := Classify(out.Err)
	if op.Fallback == nil {
		return Result{}, &Error{Kind: kind, Err: out.Err}
	}

	log.Printf("⚠️  %s: both attempts exhausted (%s) — using fallback", op.Name, kind)
	return Result{Raw: op.Fallback(), FromFallback: true, FailKind: kind}, nil
}
