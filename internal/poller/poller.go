// Package poller provides a generic fixed-interval fetch scheduler. One
// Poller owns one State; results are tagged with a (generation, sequence)
// pair so a response that resolves after Stop, or after a newer response has
// already landed, is discarded instead of written back as stale state.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the consumable view of a poller. Data keeps its last successful
// value across failed fetches so consumers can keep rendering stale-but-known
// data; Err reports the most recent failure; LastUpdated moves only on
// success.
type State[T any] struct {
	Data        *T
	Err         error
	LastUpdated time.Time
	IsLoading   bool
	Polling     bool
}

// Poller invokes fetch on a fixed interval. Interval fetches run back to back
// in a single goroutine, so they never overlap each other; Refresh runs
// out-of-band and may race an interval fetch, in which case the sequence tag
// decides which result is kept.
type Poller[T any] struct {
	fetch     func(context.Context) (T, error)
	interval  time.Duration
	logger    *slog.Logger
	onSuccess func(T)
	onError   func(error)

	mu        sync.Mutex
	state     State[T]
	polling   bool
	gen       uint64
	seq       uint64
	committed uint64
	stop      chan struct{}
}

// Option configures a Poller.
type Option[T any] func(*Poller[T])

// WithLogger sets the logger used for fetch failures.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(p *Poller[T]) { p.logger = l }
}

// WithCallbacks registers optional hooks fired after a committed result.
// Either may be nil.
func WithCallbacks[T any](onSuccess func(T), onError func(error)) Option[T] {
	return func(p *Poller[T]) {
		p.onSuccess = onSuccess
		p.onError = onError
	}
}

// New creates a poller. Start must be called before any fetch runs.
func New[T any](fetch func(context.Context) (T, error), interval time.Duration, opts ...Option[T]) *Poller[T] {
	p := &Poller[T]{
		fetch:    fetch,
		interval: interval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling: one immediate fetch, then one per interval. Calling
// Start on a running poller is a no-op.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.polling {
		p.mu.Unlock()
		return
	}
	p.polling = true
	p.gen++
	gen := p.gen
	p.stop = make(chan struct{})
	stop := p.stop
	p.state.Polling = true
	p.mu.Unlock()

	go p.loop(ctx, gen, stop)
}

func (p *Poller[T]) loop(ctx context.Context, gen uint64, stop chan struct{}) {
	p.run(ctx, gen)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.run(ctx, gen)
		case <-stop:
			return
		case <-ctx.Done():
			// Only this loop's own generation may be stopped here; the
			// poller may already have been restarted with a fresh context.
			p.mu.Lock()
			if p.polling && gen == p.gen {
				p.stopLocked()
			}
			p.mu.Unlock()
			return
		}
	}
}

// Stop halts scheduling synchronously. Once Stop returns, no in-flight fetch
// can write into State: the commit path checks the polling flag under the
// same lock Stop holds here.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.polling {
		return
	}
	p.stopLocked()
}

func (p *Poller[T]) stopLocked() {
	p.polling = false
	close(p.stop)
	p.state.Polling = false
	p.state.IsLoading = false
}

// Refresh performs an immediate out-of-band fetch without resetting the
// interval schedule, and returns that fetch's error. Its result is subject to
// the same staleness rules as any other fetch. Refreshing an idle poller is a
// no-op: state writes are only allowed while polling.
func (p *Poller[T]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if !p.polling {
		p.mu.Unlock()
		return nil
	}
	gen := p.gen
	p.mu.Unlock()
	return p.run(ctx, gen)
}

// State returns a copy of the current poll state.
func (p *Poller[T]) State() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// run executes one fetch tagged with the next sequence number and commits
// its result if it is still fresh when it resolves.
func (p *Poller[T]) run(ctx context.Context, gen uint64) error {
	p.mu.Lock()
	if !p.polling || gen != p.gen {
		p.mu.Unlock()
		return nil
	}
	p.seq++
	seq := p.seq
	p.state.IsLoading = true
	p.mu.Unlock()

	data, err := p.fetch(ctx)
	if !p.commit(gen, seq, data, err) {
		return err
	}

	if err != nil {
		p.logger.Warn("poll fetch failed", "seq", seq, "error", err)
		if p.onError != nil {
			p.onError(err)
		}
	} else if p.onSuccess != nil {
		p.onSuccess(data)
	}
	return err
}

// commit applies one fetch result. A result is dropped when the poller has
// been stopped or restarted since the fetch was issued, or when a fetch with
// a higher sequence number already committed (last fresh response wins).
func (p *Poller[T]) commit(gen, seq uint64, data T, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.polling || gen != p.gen {
		return false
	}
	if seq <= p.committed {
		return false
	}
	p.committed = seq
	p.state.IsLoading = false
	if err != nil {
		p.state.Err = err
		return true
	}
	p.state.Data = &data
	p.state.Err = nil
	p.state.LastUpdated = time.Now()
	return true
}
