package planner

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// ─── Composite Planner (fan-out / fan-in) ─────────────────────────────────────

// SubTask is one named, independent unit of a composite plan. Decode turns
// the raw operation output into validated JSON for the task's key; it must
// never fail (shape defaults absorb malformed output).
//
// SubTasks must not depend on each other's outcomes — each one owns its own
// result slot and siblings cannot cancel or corrupt it.
type SubTask struct {
	Key    string
	Op     Operation
	Decode func(raw string) (json.RawMessage, bool)
}

// CompositeResult maps every SubTask key to its validated value. It is
// always fully populated: a failed SubTask contributes its fallback value,
// flagged genuine=false for observability, never an error.
type CompositeResult struct {
	Values  map[string]json.RawMessage
	Genuine map[string]bool
}

// RunComposite fans out all tasks concurrently, each through its own retry
// run, and assembles the result once every task has settled. The composite
// itself has no failure outcome; wall-clock cost is bounded by the slowest
// task, not the sum.
func RunComposite(ctx context.Context, pol *Policy, tasks []SubTask) CompositeResult {
	type slot struct {
		value   json.RawMessage
		genuine bool
	}
	slots := make([]slot, len(tasks))

	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t SubTask) {
			defer wg.Done()
			res, err := pol.Run(ctx, t.Op)
			if err != nil {
				// Config errors and exhaustion without fallback degrade to
				// the task's declared default inside a composite.
				log.Printf("⚠️  subtask %s failed (%s) — using default", t.Key, Classify(err))
				value, _ := t.Decode("")
				slots[i] = slot{value: value, genuine: false}
				return
			}

			value, ok := t.Decode(res.Raw)
			if res.FromFallback {
				ok = false
			}
			if !ok && !res.FromFallback {
				log.Printf("⚠️  subtask %s: %s — substituted default", t.Key, KindMalformedResponse)
			}
			slots[i] = slot{value: value, genuine: ok}
		}(i, t)
	}
	wg.Wait()

	out := CompositeResult{
		Values:  make(map[string]json.RawMessage, len(tasks)),
		Genuine: make(map[string]bool, len(tasks)),
	}
	for i, t := range tasks {
		out.Values[t.Key] = slots[i].value
		out.Genuine[t.Key] = slots[i].genuine
	}
	return out
}
