package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, _, _ string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	Repo     *repo.GormRepo
	Sessions *session.MemoryStore
	Events   *recordingPublisher

	Auth    *AuthService
	Users   *UserService
	Catalog *CatalogService
	Cart    *CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))

	r := repo.New(gdb)
	store := session.NewMemoryStore(0)
	pub := &recordingPublisher{}

	t.Cleanup(func() {
		_ = store.Close()
		_ = db.Close(gdb)
	})

	return &testEnv{
		Repo:     r,
		Sessions: store,
		Events:   pub,
		Auth: &AuthService{
			Users:    r,
			Sessions: store,
			Tokens:   &tokens.Issuer{Secret: []byte("test-session-secret")},
			Events:   pub,
			TTL:      time.Hour,
		},
		Users:   &UserService{Users: r, Sessions: store, Events: pub},
		Catalog: &CatalogService{Store: r, Events: pub},
		Cart:    &CartService{Store: r, Events: pub},
	}
}

func (env *testEnv) register(t *testing.T, username string) *LoginResult {
	t.Helper()
	res, err := env.Auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "Secret123",
	})
	require.NoError(t, err)
	return res
}
