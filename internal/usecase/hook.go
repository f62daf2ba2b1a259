package usecase

import (
	"context"
	"sync"
)

// Mutation is the caller-facing handle of one kind of mutation. It tracks
// the latest invocation for IsPending, IsError and Err.
type Mutation[In, Out any] struct {
	start func(In) *Invocation

	mu   sync.Mutex
	last *Invocation
	wg   sync.WaitGroup
}

// NewMutation creates a hook that plans invocations with start.
func NewMutation[In, Out any](start func(In) *Invocation) *Mutation[In, Out] {
	return &Mutation[In, Out]{start: start}
}

func (m *Mutation[In, Out]) begin(in In) *Invocation {
	inv := m.start(in)
	m.mu.Lock()
	m.last = inv
	m.mu.Unlock()
	return inv
}

// MutateAsync runs the mutation and returns its outcome.
func (m *Mutation[In, Out]) MutateAsync(ctx context.Context, in In) (Out, error) {
	return typed[Out](m.begin(in).Run(ctx))
}

// Mutate runs the mutation in the background. The invocation is pending
// when Mutate returns. onSettled, if set, receives the outcome.
func (m *Mutation[In, Out]) Mutate(ctx context.Context, in In, onSettled func(Out, error)) {
	inv := m.begin(in)
	inv.markPending()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		out, err := typed[Out](inv.execute(ctx))
		if onSettled != nil {
			onSettled(out, err)
		}
	}()
}

func typed[Out any](v any, err error) (Out, error) {
	var out Out
	if err != nil {
		return out, err
	}
	if val, ok := v.(Out); ok {
		out = val
	}
	return out, nil
}

// Wait blocks until every background mutation has settled.
func (m *Mutation[In, Out]) Wait() {
	m.wg.Wait()
}

// State returns the state of the latest invocation.
func (m *Mutation[In, Out]) State() MutationState {
	m.mu.Lock()
	last := m.last
	m.mu.Unlock()

	if last == nil {
		return MutationIdle
	}
	return last.State()
}

// IsPending reports whether the latest invocation is in flight.
func (m *Mutation[In, Out]) IsPending() bool {
	return m.State() == MutationPending
}

// IsError reports whether the latest invocation failed.
func (m *Mutation[In, Out]) IsError() bool {
	return m.State() == MutationFailed
}

// Err returns the error of the latest invocation.
func (m *Mutation[In, Out]) Err() error {
	m.mu.Lock()
	last := m.last
	m.mu.Unlock()

	if last == nil {
		return nil
	}
	return last.Err()
}
