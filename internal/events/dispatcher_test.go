package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventLoanChanged, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(EventLoanChanged, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})

	event := EntityChanged(EntityLoan, ActionCreate, MutationArgs{})
	require.NoError(t, d.Publish(context.Background(), event))

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var reached bool
	d.Subscribe(EventPaymentChanged, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventPaymentChanged, func(ctx context.Context, e Event) error {
		reached = true
		return nil
	})

	event := EntityChanged(EntityPayment, ActionUpdate, MutationArgs{})
	require.NoError(t, d.Publish(context.Background(), event))
	assert.True(t, reached)
}

func TestDispatcher_NoSubscribersIsANoop(t *testing.T) {
	d := NewInMemoryDispatcher()
	event := EntityChanged(EntityReputation, ActionUpdate, MutationArgs{})
	require.NoError(t, d.Publish(context.Background(), event))
}

func TestDispatcher_OnlyMatchingTypeReceives(t *testing.T) {
	d := NewInMemoryDispatcher()
	var loanHits, paymentHits int
	d.Subscribe(EventLoanChanged, func(ctx context.Context, e Event) error {
		loanHits++
		return nil
	})
	d.Subscribe(EventPaymentChanged, func(ctx context.Context, e Event) error {
		paymentHits++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), EntityChanged(EntityLoan, ActionCreate, MutationArgs{})))

	assert.Equal(t, 1, loanHits)
	assert.Zero(t, paymentHits)
}

func TestDispatcher_ConcurrentPublishIsSafe(t *testing.T) {
	d := NewInMemoryDispatcher()
	var mu sync.Mutex
	seen := 0
	d.Subscribe(EventLoanChanged, func(ctx context.Context, e Event) error {
		mu.Lock()
		seen++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Publish(context.Background(), EntityChanged(EntityLoan, ActionUpdate, MutationArgs{}))
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, seen)
}
