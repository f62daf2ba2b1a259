package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// ErrInvocationStarted is returned when an invocation is run twice.
var ErrInvocationStarted = errors.New("mutation invocation already started")

// MutationState is the lifecycle state of one mutation invocation.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationPending
	MutationSucceeded
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationPending:
		return "pending"
	case MutationSucceeded:
		return "success"
	case MutationFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Settled reports whether the invocation has finished.
func (s MutationState) Settled() bool {
	return s == MutationSucceeded || s == MutationFailed
}

// plan describes one mutation. optimistic may be nil, in which case no read
// is cancelled and no snapshot is taken.
type plan struct {
	kind       string
	validate   func() error
	optimistic func(s *cache.Store) int
	call       func(ctx context.Context) (any, error)
	settled    func(result any, err error) []querykey.Key
}

// Invocation is a single run of a mutation. It owns the snapshot taken
// before its optimistic patch, so concurrent invocations never share
// rollback state.
type Invocation struct {
	store    *cache.Store
	logger   zerolog.Logger
	recorder MutationRecorder
	plan     plan

	mu       sync.Mutex
	state    MutationState
	snapshot *cache.Snapshot
	result   any
	err      error
	done     chan struct{}
}

func newInvocation(store *cache.Store, logger zerolog.Logger, recorder MutationRecorder, p plan) *Invocation {
	return &Invocation{
		store:    store,
		logger:   logger,
		recorder: recorder,
		plan:     p,
		done:     make(chan struct{}),
	}
}

// State returns the current state.
func (inv *Invocation) State() MutationState {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.state
}

// Err returns the error the invocation settled with.
func (inv *Invocation) Err() error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.err
}

// Result returns the value the invocation settled with.
func (inv *Invocation) Result() any {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.result
}

// Done is closed once the invocation settles.
func (inv *Invocation) Done() <-chan struct{} {
	return inv.done
}

// Run executes the mutation.
//
// Invalid input settles the invocation without touching the cache or the
// network. Otherwise in-flight transaction reads are cancelled before the
// snapshot and optimistic patch, so no late read can overwrite the patch.
// The network call and settlement ignore cancellation of ctx.
func (inv *Invocation) Run(ctx context.Context) (any, error) {
	if !inv.markPending() {
		return nil, ErrInvocationStarted
	}
	return inv.execute(ctx)
}

func (inv *Invocation) markPending() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.state != MutationIdle {
		return false
	}
	inv.state = MutationPending
	return true
}

func (inv *Invocation) execute(ctx context.Context) (any, error) {
	kind := inv.plan.kind
	inv.recorder.MutationStarted(kind)

	if inv.plan.validate != nil {
		if err := inv.plan.validate(); err != nil {
			inv.finish(nil, err)
			return nil, err
		}
	}

	if inv.plan.optimistic != nil {
		root := querykey.Transactions.All()
		inv.store.Cancel(root)
		sn := inv.store.Snapshot(root)

		inv.mu.Lock()
		inv.snapshot = &sn
		inv.mu.Unlock()

		n := inv.plan.optimistic(inv.store)
		inv.recorder.OptimisticPatched(kind, n)
		inv.logger.Debug().Str("kind", kind).Int("entries", n).Msg("optimistic patch applied")
	}

	result, err := inv.plan.call(context.WithoutCancel(ctx))
	inv.settle(result, err)
	return result, err
}

func (inv *Invocation) settle(result any, err error) {
	inv.mu.Lock()
	sn := inv.snapshot
	inv.snapshot = nil
	inv.mu.Unlock()

	kind := inv.plan.kind
	if err != nil {
		if sn != nil {
			n := inv.store.Restore(*sn)
			inv.recorder.MutationRolledBack(kind, n)
		}
		inv.logger.Warn().Err(err).Str("kind", kind).Msg("mutation failed")
	}

	if inv.plan.settled != nil {
		for _, key := range inv.plan.settled(result, err) {
			inv.store.Invalidate(key)
		}
	}

	inv.finish(result, err)
}

func (inv *Invocation) finish(result any, err error) {
	inv.mu.Lock()
	inv.result = result
	inv.err = err
	if err != nil {
		inv.state = MutationFailed
	} else {
		inv.state = MutationSucceeded
	}
	inv.mu.Unlock()

	outcome := cache.OutcomeSuccess
	if err != nil {
		outcome = cache.OutcomeError
	}
	inv.recorder.MutationSettled(inv.plan.kind, outcome)
	close(inv.done)
}
