package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

func fastRetry() RetryPolicy {
	p := DefaultRetryPolicy()
	p.InitialInterval = time.Millisecond
	p.MaxInterval = 4 * time.Millisecond
	return p
}

func TestRetryPolicyDelay(t *testing.T) {
	t.Parallel()

	p := DefaultRetryPolicy()

	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 16*time.Second, p.Delay(4))
	assert.Equal(t, 30*time.Second, p.Delay(5))
	assert.Equal(t, 30*time.Second, p.Delay(10))
}

func TestRetryBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantCalls int32
	}{
		{"server error retried twice", &domain.APIError{Kind: domain.KindAPI, Status: 500}, 3},
		{"network error retried twice", &domain.APIError{Kind: domain.KindNetwork}, 3},
		{"bad request never retried", &domain.APIError{Kind: domain.KindValidation, Status: 400}, 1},
		{"not found never retried", &domain.APIError{Kind: domain.KindNotFound, Status: 404}, 1},
		{"conflict never retried", &domain.APIError{Kind: domain.KindAPI, Status: 409}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			store := NewStore(WithRetryPolicy(fastRetry()))

			_, err := store.Fetch(context.Background(), keyFeb, Medium, func(context.Context) (any, error) {
				calls.Add(1)
				return nil, tt.err
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
			assert.Equal(t, tt.wantCalls, calls.Load())

			st, ok := store.Get(keyFeb)
			require.True(t, ok)
			assert.Equal(t, StatusError, st.Status)
			assert.False(t, st.HasData)
		})
	}
}

func TestRetryRecoversAfterTransientFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	store := NewStore(WithRetryPolicy(fastRetry()))

	v, err := store.Fetch(context.Background(), keyFeb, Medium, func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, &domain.APIError{Kind: domain.KindAPI, Status: 503}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	_, err := NoRetry().Do(context.Background(), func(context.Context) (any, error) {
		calls.Add(1)
		return nil, &domain.APIError{Kind: domain.KindNetwork}
	}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
