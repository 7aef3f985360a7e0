package eventbus

import (
	"ReferralHub/internal/core/ports"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_DeliversToEverySubscriber(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(time.Second, &nopLogger)

	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(ports.TopicWithdrawalRequested, func(ctx context.Context, e ports.Event) error {
			assert.Equal(t, "payload", e.Data)
			calls.Add(1)
			return nil
		})
	}
	bus.Subscribe(ports.TopicWithdrawalReviewed, func(ctx context.Context, e ports.Event) error {
		t.Error("handler for another topic must not run")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), ports.TopicWithdrawalRequested, "payload"))
	require.NoError(t, bus.Wait(context.Background()))
	assert.EqualValues(t, 3, calls.Load())
}

func TestPublish_HandlerOutlivesPublisherContext(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(time.Second, &nopLogger)

	var sawCancel atomic.Bool
	bus.Subscribe(ports.TopicLedgerAdjusted, func(ctx context.Context, e ports.Event) error {
		time.Sleep(10 * time.Millisecond)
		sawCancel.Store(ctx.Err() != nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, ports.TopicLedgerAdjusted, nil))
	cancel()

	require.NoError(t, bus.Wait(context.Background()))
	assert.False(t, sawCancel.Load())
}

func TestPublish_FailingAndPanickingHandlersAreContained(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(time.Second, &nopLogger)

	var ok atomic.Bool
	bus.Subscribe("t", func(ctx context.Context, e ports.Event) error { return errors.New("boom") })
	bus.Subscribe("t", func(ctx context.Context, e ports.Event) error { panic("bad handler") })
	bus.Subscribe("t", func(ctx context.Context, e ports.Event) error { ok.Store(true); return nil })

	require.NoError(t, bus.Publish(context.Background(), "t", nil))
	require.NoError(t, bus.Wait(context.Background()))
	assert.True(t, ok.Load())
}

func TestWait_RespectsContext(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(time.Second, &nopLogger)

	release := make(chan struct{})
	bus.Subscribe("slow", func(ctx context.Context, e ports.Event) error {
		<-release
		return nil
	})
	require.NoError(t, bus.Publish(context.Background(), "slow", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, bus.Wait(context.Background()))
}
