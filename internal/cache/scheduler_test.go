package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

func TestSchedulerRemoteChangeInvalidatesPrefix(t *testing.T) {
	t.Parallel()

	store := newTestStore(newFakeClock())
	var febCalls, balanceCalls atomic.Int32

	obsFeb := Observe(store, Query[int]{Key: keyFeb, Class: Static, Fn: func(context.Context) (int, error) {
		return int(febCalls.Add(1)), nil
	}}, nil)
	defer obsFeb.Close()
	obsBal := Observe(store, Query[int]{Key: querykey.Financial.Balance(), Class: Static, Fn: func(context.Context) (int, error) {
		return int(balanceCalls.Add(1)), nil
	}}, nil)
	defer obsBal.Close()
	store.WaitIdle()

	sched := NewScheduler(store, zerolog.Nop())
	n := sched.Handle(Event{Kind: EventRemoteChange, Prefix: querykey.Transactions.All()})
	store.WaitIdle()

	assert.Equal(t, 1, n)
	assert.Equal(t, int32(2), febCalls.Load())
	assert.Equal(t, int32(1), balanceCalls.Load())
}

func TestSchedulerFocusRevalidatesOnlyStale(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := newTestStore(clock)
	var shortCalls, longCalls atomic.Int32

	short := Observe(store, Query[int]{Key: querykey.Financial.Summary("week"), Class: Short, Fn: func(context.Context) (int, error) {
		return int(shortCalls.Add(1)), nil
	}}, nil)
	defer short.Close()
	long := Observe(store, Query[int]{Key: querykey.Analytics.TopExpenses("week", 3), Class: Long, Fn: func(context.Context) (int, error) {
		return int(longCalls.Add(1)), nil
	}}, nil)
	defer long.Close()
	store.WaitIdle()

	clock.Advance(time.Minute)

	sched := NewScheduler(store, zerolog.Nop())
	assert.Equal(t, 1, sched.Handle(Event{Kind: EventFocus}))
	store.WaitIdle()

	assert.Equal(t, int32(2), shortCalls.Load())
	assert.Equal(t, int32(1), longCalls.Load())
}

func TestSchedulerRunConsumesManualSource(t *testing.T) {
	t.Parallel()

	store := newTestStore(newFakeClock())
	var calls atomic.Int32

	obs := Observe(store, Query[int]{Key: keyFeb, Class: Static, Fn: func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}}, nil)
	defer obs.Close()
	store.WaitIdle()

	src := NewManualSource(4)
	sched := NewScheduler(store, zerolog.Nop(), src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	require.True(t, src.RemoteChange(querykey.Transactions.MonthlyAll()))

	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	store.WaitIdle()
}
