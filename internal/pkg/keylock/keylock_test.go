package keylock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-narrative/internal/pkg/keylock"
)

func TestDoSerializesSameKey(t *testing.T) {
	locks := keylock.New()
	ctx := context.Background()

	var inFlight, maxInFlight int32
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locks.Do(ctx, "party:1", func(context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					cur := atomic.LoadInt32(&maxInFlight)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInFlight, cur, n) {
						break
					}
				}
				counter++
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, int32(1), maxInFlight)
	assert.Equal(t, 0, locks.Len())
}

func TestDoHonoursContext(t *testing.T) {
	locks := keylock.New()

	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = locks.Do(context.Background(), "player:a", func(context.Context) error {
			close(held)
			<-done
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := locks.Do(ctx, "player:a", func(context.Context) error {
		ran = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)

	close(done)
}

func TestDoPropagatesError(t *testing.T) {
	locks := keylock.New()
	want := assert.AnError

	err := locks.Do(context.Background(), "k", func(context.Context) error { return want })
	assert.ErrorIs(t, err, want)
}
