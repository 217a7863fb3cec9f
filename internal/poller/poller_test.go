package poller

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetch hands each fetch invocation its own result channel, so tests
// decide when and with what value each in-flight fetch resolves. A negative
// value makes the fetch fail.
func scriptedFetch(calls chan chan int) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		result := make(chan int)
		calls <- result
		v := <-result
		if v < 0 {
			return 0, fmt.Errorf("fetch failed with %d", v)
		}
		return v, nil
	}
}

func waitForData(t *testing.T, p *Poller[int], want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		st := p.State()
		return st.Data != nil && *st.Data == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPollerCommitsSuccess(t *testing.T) {
	calls := make(chan chan int, 4)
	p := New(scriptedFetch(calls), time.Hour)
	p.Start(context.Background())
	defer p.Stop()

	(<-calls) <- 42
	waitForData(t, p, 42)

	st := p.State()
	assert.True(t, st.Polling)
	assert.NoError(t, st.Err)
	assert.False(t, st.LastUpdated.IsZero())
}

func TestPollerKeepsDataOnError(t *testing.T) {
	calls := make(chan chan int, 4)
	p := New(scriptedFetch(calls), time.Hour)
	p.Start(context.Background())
	defer p.Stop()

	(<-calls) <- 42
	waitForData(t, p, 42)
	updatedAt := p.State().LastUpdated

	go func() { (<-calls) <- -1 }()
	err := p.Refresh(context.Background())
	require.Error(t, err)

	st := p.State()
	require.NotNil(t, st.Data)
	assert.Equal(t, 42, *st.Data, "stale data is kept for display")
	assert.Error(t, st.Err)
	assert.Equal(t, updatedAt, st.LastUpdated, "LastUpdated only moves on success")

	// A later success clears the error again.
	go func() { (<-calls) <- 7 }()
	require.NoError(t, p.Refresh(context.Background()))
	st = p.State()
	assert.Equal(t, 7, *st.Data)
	assert.NoError(t, st.Err)
}

func TestPollerStopDiscardsInFlightResult(t *testing.T) {
	calls := make(chan chan int, 4)
	p := New(scriptedFetch(calls), time.Hour)
	p.Start(context.Background())

	inFlight := <-calls // initial fetch is now blocked mid-request
	p.Stop()
	inFlight <- 99 // resolves after Stop returned

	time.Sleep(50 * time.Millisecond)
	st := p.State()
	assert.Nil(t, st.Data, "result resolving after Stop must not land")
	assert.True(t, st.LastUpdated.IsZero())
	assert.False(t, st.Polling)
}

func TestPollerRestartIgnoresPreviousGeneration(t *testing.T) {
	calls := make(chan chan int, 4)
	p := New(scriptedFetch(calls), time.Hour)
	p.Start(context.Background())

	stale := <-calls
	p.Stop()
	p.Start(context.Background())
	defer p.Stop()

	fresh := <-calls
	fresh <- 7
	waitForData(t, p, 7)

	stale <- 99 // from the stopped generation
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 7, *p.State().Data)
}

func TestPollerRefreshRaceNewestSequenceWins(t *testing.T) {
	calls := make(chan chan int, 4)
	p := New(scriptedFetch(calls), time.Hour)
	p.Start(context.Background())
	defer p.Stop()

	(<-calls) <- 1
	waitForData(t, p, 1)

	done := make(chan struct{}, 2)
	go func() { p.Refresh(context.Background()); done <- struct{}{} }()
	slow := <-calls // first refresh, older sequence, still in flight

	go func() { p.Refresh(context.Background()); done <- struct{}{} }()
	fast := <-calls // second refresh, newer sequence

	fast <- 3
	waitForData(t, p, 3)

	slow <- 2 // older sequence resolves late
	<-done
	<-done

	st := p.State()
	assert.Equal(t, 3, *st.Data, "late result from an older sequence must not overwrite a newer one")
	assert.False(t, st.IsLoading)
}

func TestPollerStartIsIdempotent(t *testing.T) {
	calls := make(chan chan int, 4)
	p := New(scriptedFetch(calls), time.Hour)
	p.Start(context.Background())
	p.Start(context.Background())
	defer p.Stop()

	(<-calls) <- 5
	waitForData(t, p, 5)

	select {
	case <-calls:
		t.Fatal("second Start must not schedule a second fetch loop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPollerIntervalFetches(t *testing.T) {
	calls := make(chan chan int, 4)
	p := New(scriptedFetch(calls), 20*time.Millisecond)
	p.Start(context.Background())
	defer p.Stop()

	(<-calls) <- 1
	waitForData(t, p, 1)

	// The ticker issues the next fetch without any external trigger.
	(<-calls) <- 2
	waitForData(t, p, 2)
}

func TestPollerCallbacks(t *testing.T) {
	calls := make(chan chan int, 4)
	got := make(chan int, 1)
	failures := make(chan error, 1)
	p := New(scriptedFetch(calls), time.Hour,
		WithCallbacks(func(v int) { got <- v }, func(err error) { failures <- err }))
	p.Start(context.Background())
	defer p.Stop()

	(<-calls) <- 11
	assert.Equal(t, 11, <-got)

	go func() { (<-calls) <- -1 }()
	_ = p.Refresh(context.Background())
	assert.Error(t, <-failures)
}
