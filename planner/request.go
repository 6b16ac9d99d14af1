package planner

import "context"

// ─── Requests & Outcomes ──────────────────────────────────────────────────────

// Request is one upstream generation call: a prompt plus a token-budget hint.
// Simplified marks the degraded variant used on retry after a timeout.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	Simplified  bool
}

// Outcome is the result of a single bounded attempt.
type Outcome struct {
	Raw      string
	TimedOut bool
	Err      error
}

// OK reports whether the attempt produced usable output.
func (o Outcome) OK() bool {
	return !o.TimedOut && o.Err == nil
}

// Upstream is the generative-AI service. Complete must honor ctx cancellation;
// the response is free-form text expected to contain one JSON object.
// Ready reports a credential/configuration problem before any call is made.
type Upstream interface {
	Complete(ctx context.Context, req Request) (string, error)
	Ready() error
}
