package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream is a scripted Upstream: handler decides each call's behavior,
// calls records every request for assertions.
type fakeUpstream struct {
	mu       sync.Mutex
	calls    []Request
	readyErr error
	handler  func(ctx context.Context, req Request) (string, error)
}

func (f *fakeUpstream) Complete(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.handler == nil {
		return "", errors.New("no handler scripted")
	}
	return f.handler(ctx, req)
}

func (f *fakeUpstream) Ready() error { return f.readyErr }

func (f *fakeUpstream) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeUpstream) call(i int) Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

// hang blocks until the call's context is cancelled.
func hang(ctx context.Context, _ Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestExecutorSuccess(t *testing.T) {
	f := &fakeUpstream{handler: func(ctx context.Context, req Request) (string, error) {
		return `{"ok":true}`, nil
	}}

	out := NewExecutor(f).Do(context.Background(), Request{Prompt: "hi"}, time.Second)

	require.True(t, out.OK())
	assert.Equal(t, `{"ok":true}`, out.Raw)
	assert.False(t, out.TimedOut)
	assert.NoError(t, out.Err)
}

func TestExecutorDeadline(t *testing.T) {
	f := &fakeUpstream{handler: hang}

	start := time.Now()
	out := NewExecutor(f).Do(context.Background(), Request{}, 20*time.Millisecond)
	elapsed := time.Since(start)

	assert.True(t, out.TimedOut)
	assert.False(t, out.OK())
	// The caller is unblocked at the deadline no matter what the upstream does.
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestExecutorUpstreamError(t *testing.T) {
	f := &fakeUpstream{handler: func(ctx context.Context, req Request) (string, error) {
		return "", errors.New("openai error (500): boom")
	}}

	out := NewExecutor(f).Do(context.Background(), Request{}, time.Second)

	assert.False(t, out.OK())
	assert.False(t, out.TimedOut)
	assert.Error(t, out.Err)
}

func TestExecutorUpstreamDeadlineError(t *testing.T) {
	// An upstream that surfaces its own deadline error still counts as a timeout.
	f := &fakeUpstream{handler: func(ctx context.Context, req Request) (string, error) {
		return "", context.DeadlineExceeded
	}}

	out := NewExecutor(f).Do(context.Background(), Request{}, time.Second)

	assert.True(t, out.TimedOut)
}

func TestExecutorParentCancellation(t *testing.T) {
	f := &fakeUpstream{handler: hang}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	out := NewExecutor(f).Do(ctx, Request{}, time.Second)

	assert.False(t, out.OK())
	assert.False(t, out.TimedOut)
	assert.ErrorIs(t, out.Err, context.Canceled)
}
