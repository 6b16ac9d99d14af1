package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(f *fakeUpstream, long, short time.Duration) *Policy {
	return &Policy{exec: NewExecutor(f), upstream: f, Long: long, Short: short}
}

func textOp(fallback string) Operation {
	op := Operation{
		Name:     "test",
		Full:     Request{Prompt: "full prompt", MaxTokens: 800},
		Degraded: Request{Prompt: "short prompt", MaxTokens: 200, Simplified: true},
	}
	if fallback != "" {
		op.Fallback = func() string { return fallback }
	}
	return op
}

func TestRunFirstAttemptSucceeds(t *testing.T) {
	f := &fakeUpstream{handler: func(ctx context.Context, req Request) (string, error) {
		return "genuine output", nil
	}}
	pol := testPolicy(f, time.Second, time.Second)

	res, err := pol.Run(context.Background(), textOp("fallback"))

	require.NoError(t, err)
	assert.Equal(t, "genuine output", res.Raw)
	assert.False(t, res.FromFallback)
	require.Equal(t, 1, f.callCount())
	assert.False(t, f.call(0).Simplified)
}

func TestRunDegradedRetryAfterTimeout(t *testing.T) {
	f := &fakeUpstream{handler: func(ctx context.Context, req Request) (string, error) {
		if !req.Simplified {
			return hang(ctx, req)
		}
		return "degraded output", nil
	}}
	pol := testPolicy(f, 20*time.Millisecond, time.Second)

	res, err := pol.Run(context.Background(), textOp("fallback"))

	require.NoError(t, err)
	assert.Equal(t, "degraded output", res.Raw)
	assert.False(t, res.FromFallback)
	require.Equal(t, 2, f.callCount())
	assert.True(t, f.call(1).Simplified)
}

func TestRunBothTimeoutsYieldFallback(t *testing.T) {
	f := &fakeUpstream{handler: hang}
	pol := testPolicy(f, 30*time.Millisecond, 20*time.Millisecond)

	start := time.Now()
	res, err := pol.Run(context.Background(), textOp("the fallback value"))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, res.FromFallback)
	assert.Equal(t, "the fallback value", res.Raw)
	assert.Equal(t, KindTimeout, res.FailKind)
	assert.Equal(t, 2, f.callCount())
	// Bounded by long + short plus scheduling slack.
	assert.Less(t, elapsed, 550*time.Millisecond)
}

func TestRunHardErrorSkipsSecondAttempt(t *testing.T) {
	// A non-timeout failure will not fix itself on retry.
	f := &fakeUpstream{handler: func(ctx context.Context, req Request) (string, error) {
		return "", errors.New("openai error (500): internal")
	}}
	pol := testPolicy(f, time.Second, time.Second)

	res, err := pol.Run(context.Background(), textOp("fallback"))

	require.NoError(t, err)
	assert.True(t, res.FromFallback)
	assert.Equal(t, 1, f.callCount())
}

func TestRunPreflightCredentialsCheck(t *testing.T) {
	f := &fakeUpstream{readyErr: ErrNoCredentials, handler: hang}
	pol := testPolicy(f, time.Second, time.Second)

	start := time.Now()
	_, err := pol.Run(context.Background(), textOp("fallback"))
	elapsed := time.Since(start)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindBadCredentials, perr.Kind)
	// No attempt window is spent on a misconfiguration.
	assert.Zero(t, f.callCount())
	assert.Less(t, elapsed, 50*time.Millisecond)
}

func TestRunNoFallbackSurfacesClassifiedError(t *testing.T) {
	f := &fakeUpstream{handler: func(ctx context.Context, req Request) (string, error) {
		return "", errors.New("openai rate limit exceeded (429)")
	}}
	pol := testPolicy(f, time.Second, time.Second)

	_, err := pol.Run(context.Background(), textOp(""))

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindRateLimited, perr.Kind)
}

func TestRunDoubleTimeoutSeededPlanScenario(t *testing.T) {
	// "generate 7-day plan, budget 5000" where generation times out twice:
	// the result must be exactly the seeded fallback plan.
	params := PlanParams{Destination: "Lisbon", Region: "Portugal", Budget: 5000, Days: 7}

	f := &fakeUpstream{handler: hang}
	pol := testPolicy(f, 20*time.Millisecond, 15*time.Millisecond)

	res, err := pol.Run(context.Background(), PlanOperation(params))
	require.NoError(t, err)
	require.True(t, res.FromFallback)

	plan, genuine := TripShape(params).Decode(res.Raw)
	assert.True(t, genuine, "fallback payload must pass its own shape validation")
	assert.Equal(t, 7, plan.Summary.Duration)
	assert.Len(t, plan.DailyPlan, 7)
	assert.Equal(t, 5000.0, plan.BudgetBreakdown.Total)

	var sum float64
	for _, frac := range plan.BudgetBreakdown.Categories {
		sum += frac
	}
	assert.InDelta(t, 1.0, sum, 0.001)

	assert.Equal(t, TripShape(params).Default(), plan)
}
