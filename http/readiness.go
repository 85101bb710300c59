package http

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// State is the dispatcher's readiness state.
type State int32

const (
	StateUninitialized State = iota
	StatePreparing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePreparing:
		return "preparing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// readiness runs a preparation step at most once. Concurrent callers share
// the in-flight call; a failure is remembered and returned to every later
// caller.
type readiness struct {
	state atomic.Int32
	group singleflight.Group

	mu  sync.Mutex
	err error
}

func (r *readiness) State() State {
	return State(r.state.Load())
}

func (r *readiness) failure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// ensure blocks until preparation has finished or ctx is done. The
// preparation itself runs detached from ctx, so one caller giving up does not
// fail it for the others.
func (r *readiness) ensure(ctx context.Context, prepare func(context.Context) error) error {
	switch r.State() {
	case StateReady:
		return nil
	case StateFailed:
		return r.failure()
	}

	ch := r.group.DoChan("prepare", func() (any, error) {
		switch r.State() {
		case StateReady:
			return nil, nil
		case StateFailed:
			return nil, r.failure()
		}
		r.state.Store(int32(StatePreparing))
		if err := prepare(context.WithoutCancel(ctx)); err != nil {
			r.mu.Lock()
			r.err = err
			r.mu.Unlock()
			r.state.Store(int32(StateFailed))
			return nil, err
		}
		r.state.Store(int32(StateReady))
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
