package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang-food-storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSessionsIsolated(t *testing.T) {
	ctx := context.Background()
	sessions := NewCartSessions(repositories.NewMemoryCartStore(), quietLogger())

	require.NoError(t, sessions.WithCart(ctx, "s1", func(cart *CartManager) error {
		_, err := cart.AddItem(ctx, product("a", 10))
		return err
	}))
	require.NoError(t, sessions.WithCart(ctx, "s2", func(cart *CartManager) error {
		_, err := cart.AddItem(ctx, product("b", 20))
		return err
	}))

	require.NoError(t, sessions.WithCart(ctx, "s1", func(cart *CartManager) error {
		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "a", items[0].ID)
		return nil
	}))
	assert.Equal(t, 2, sessions.Active())
}

func TestCartSessionsPersistUnderSessionKey(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryCartStore()
	sessions := NewCartSessions(store, quietLogger())

	require.NoError(t, sessions.WithCart(ctx, "abc", func(cart *CartManager) error {
		_, err := cart.AddItem(ctx, product("a", 10))
		return err
	}))

	data, err := store.Get(ctx, "cart:abc")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"a"`)
}

func TestCartSessionsReloadAfterForget(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryCartStore()
	sessions := NewCartSessions(store, quietLogger())

	require.NoError(t, sessions.WithCart(ctx, "s1", func(cart *CartManager) error {
		_, err := cart.AddItem(ctx, product("a", 10))
		return err
	}))
	sessions.Forget("s1")
	assert.Equal(t, 0, sessions.Active())

	// a new process sharing the store sees the same cart
	other := NewCartSessions(store, quietLogger())
	for _, s := range []*CartSessions{sessions, other} {
		require.NoError(t, s.WithCart(ctx, "s1", func(cart *CartManager) error {
			assert.Equal(t, 1, cart.Len())
			return nil
		}))
	}
}

func TestCartSessionsRejectEmptyID(t *testing.T) {
	sessions := NewCartSessions(repositories.NewMemoryCartStore(), quietLogger())
	called := false
	err := sessions.WithCart(context.Background(), "", func(cart *CartManager) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.False(t, called)
}

func TestCartSessionsSerializeSameSession(t *testing.T) {
	ctx := context.Background()
	sessions := NewCartSessions(repositories.NewMemoryCartStore(), quietLogger())

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sessions.WithCart(ctx, "busy", func(cart *CartManager) error {
				_, err := cart.AddItem(ctx, product("a", 1))
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, sessions.WithCart(ctx, "busy", func(cart *CartManager) error {
		assert.Equal(t, workers, cart.Totals().ItemCount)
		return nil
	}))
}

func TestCartSessionsEvictIdle(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryCartStore()
	sessions := NewCartSessions(store, quietLogger())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("s%d", i)
		require.NoError(t, sessions.WithCart(ctx, id, func(cart *CartManager) error {
			_, err := cart.AddItem(ctx, product("a", 1))
			return err
		}))
	}
	require.Equal(t, 100, sessions.Active())

	now = now.Add(10 * time.Minute)
	require.NoError(t, sessions.WithCart(ctx, "s0", func(cart *CartManager) error { return nil }))

	now = now.Add(10 * time.Minute)
	assert.Equal(t, 99, sessions.EvictIdle(15*time.Minute))
	assert.Equal(t, 1, sessions.Active())

	require.NoError(t, sessions.WithCart(ctx, "s42", func(cart *CartManager) error {
		assert.Equal(t, 1, cart.Len())
		return nil
	}))
}

func TestCartSessionsForgetDuringWritesLosesNothing(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryCartStore()
	sessions := NewCartSessions(store, quietLogger())

	const adds = 200
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sessions.WithCart(ctx, "busy", func(cart *CartManager) error {
				_, err := cart.AddItem(ctx, product("a", 1))
				return err
			})
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < adds; i++ {
			sessions.Forget("busy")
			sessions.EvictIdle(0)
		}
	}()
	wg.Wait()
	<-done

	fresh := NewCartSessions(store, quietLogger())
	require.NoError(t, fresh.WithCart(ctx, "busy", func(cart *CartManager) error {
		assert.Equal(t, adds, cart.Totals().ItemCount)
		return nil
	}))
}

func TestCartSessionsDiscard(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryCartStore()
	sessions := NewCartSessions(store, quietLogger())

	require.NoError(t, sessions.WithCart(ctx, "s1", func(cart *CartManager) error {
		_, err := cart.AddItem(ctx, product("a", 1))
		return err
	}))
	require.NoError(t, sessions.Discard(ctx, "s1"))
	assert.Equal(t, 0, sessions.Active())

	_, err := store.Get(ctx, CartKey("s1"))
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, sessions.WithCart(ctx, "s1", func(cart *CartManager) error {
		assert.Equal(t, 0, cart.Len())
		return nil
	}))
	assert.ErrorIs(t, sessions.Discard(ctx, ""), ErrInvalidArgument)
}
