package session

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/domain"
)

func newSession(userID string, role domain.Role, ttl time.Duration) Session {
	return Session{
		ID:        NewID(),
		Principal: Principal{UserID: userID, Role: role},
		ExpiresAt: time.Now().Add(ttl),
	}
}

// runStoreContract exercises behaviour every backend must share.
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		sess := newSession(uuid.NewString(), domain.RoleUser, time.Minute)
		require.NoError(t, s.Set(ctx, sess))

		got, ok, err := s.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, sess.Principal, got.Principal)

		require.NoError(t, s.Delete(ctx, sess.ID))
		_, ok, err = s.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete unknown is not an error", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, NewID()))
	})

	t.Run("get unknown", func(t *testing.T) {
		_, ok, err := s.Get(ctx, NewID())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete by user leaves others", func(t *testing.T) {
		alice, bob := uuid.NewString(), uuid.NewString()
		a1 := newSession(alice, domain.RoleUser, time.Minute)
		a2 := newSession(alice, domain.RoleUser, time.Minute)
		b1 := newSession(bob, domain.RoleAdmin, time.Minute)
		for _, sess := range []Session{a1, a2, b1} {
			require.NoError(t, s.Set(ctx, sess))
		}

		require.NoError(t, s.DeleteByUser(ctx, alice))

		for _, id := range []string{a1.ID, a2.ID} {
			_, ok, err := s.Get(ctx, id)
			require.NoError(t, err)
			assert.False(t, ok)
		}
		got, ok, err := s.Get(ctx, b1.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Principal.IsAdmin())
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	s := NewMemoryStore(0)
	t.Cleanup(func() { _ = s.Close() })
	runStoreContract(t, s)
}

func TestRedisStore_Contract(t *testing.T) {
	url := os.Getenv("STOREFRONT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("STOREFRONT_TEST_REDIS_URL is required for redis tests")
	}
	s, err := NewRedisStore(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	runStoreContract(t, s)
}

func TestMemoryStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(0)
	defer s.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	sess := Session{ID: NewID(), Principal: Principal{UserID: "u1", Role: domain.RoleUser}, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.Set(context.Background(), sess))

	now = now.Add(59 * time.Minute)
	_, ok, err := s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, err = s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(0)
	defer s.Close()
	now := time.Now()
	s.now = func() time.Time { return now }

	live := Session{ID: NewID(), Principal: Principal{UserID: "u1"}, ExpiresAt: now.Add(time.Minute)}
	dead := Session{ID: NewID(), Principal: Principal{UserID: "u2"}, ExpiresAt: now.Add(-time.Second)}
	require.NoError(t, s.Set(context.Background(), live))
	require.NoError(t, s.Set(context.Background(), dead))

	s.Sweep()

	assert.Equal(t, 1, s.Len())
	s.mu.RLock()
	_, indexed := s.byUser["u2"]
	s.mu.RUnlock()
	assert.False(t, indexed)
}

func TestMemoryStore_Janitor(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(5 * time.Millisecond)
	defer s.Close()

	sess := newSession("u1", domain.RoleUser, -time.Second)
	require.NoError(t, s.Set(context.Background(), sess))

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := newSession("shared", domain.RoleUser, time.Minute)
			_ = s.Set(ctx, sess)
			_, _, _ = s.Get(ctx, sess.ID)
			_ = s.Delete(ctx, sess.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_CloseIdempotent(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Millisecond)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
