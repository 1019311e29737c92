package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/domain"
)

func TestAuthService_Register_EstablishesSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	res := env.register(t, "alice")
	assert.Equal(t, domain.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.Token)
	assert.NotEqual(t, "Secret123", res.User.PasswordHash)

	p, err := env.Auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, p.UserID)

	me, err := env.Auth.CurrentUser(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	assert.Contains(t, env.Events.types(), "user_registered")
}

func TestAuthService_Register_DuplicateEmailConflicts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.register(t, "alice")

	_, err := env.Auth.Register(context.Background(), RegisterInput{
		Username: "someone-else",
		Email:    "alice@example.com",
		Password: "Secret123",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{name: "empty username", in: RegisterInput{Email: "a@b.c", Password: "Secret123"}, field: "username"},
		{name: "empty email", in: RegisterInput{Username: "a", Password: "Secret123"}, field: "email"},
		{name: "short password", in: RegisterInput{Username: "a", Email: "a@b.c", Password: "12345"}, field: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Auth.Register(context.Background(), tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)

			var fe domain.FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe, tt.field)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	byName, err := env.Auth.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)
	byEmail, err := env.Auth.Login(ctx, "alice@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, byName.User.ID, byEmail.User.ID)
	assert.NotEqual(t, byName.Token, byEmail.Token)

	_, wrongPw := env.Auth.Login(ctx, "alice", "nope-nope")
	_, unknown := env.Auth.Login(ctx, "bob", "Secret123")
	require.ErrorIs(t, wrongPw, domain.ErrUnauthorized)
	require.ErrorIs(t, unknown, domain.ErrUnauthorized)
	assert.Equal(t, wrongPw.Error(), unknown.Error())

	_, err = env.Auth.Login(ctx, "", "x")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Auth.Logout(ctx, ""))
	require.NoError(t, env.Auth.Logout(ctx, "garbage"))

	res := env.register(t, "alice")
	require.NoError(t, env.Auth.Logout(ctx, res.Token))
	require.NoError(t, env.Auth.Logout(ctx, res.Token))

	_, err := env.Auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	for _, tok := range []string{"", "not-a-token"} {
		_, err := env.Auth.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}

	// a validly signed token whose session was never stored
	forged, err := env.Auth.Tokens.Sign("no-such-session", "no-such-user", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = env.Auth.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_CurrentUser_DeletedAccount(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	res := env.register(t, "alice")
	p, err := env.Auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	require.NoError(t, env.Repo.DeleteUser(ctx, res.User.ID))

	_, err = env.Auth.CurrentUser(ctx, p)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Login_EmailOwnerNotShadowedByUsername(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	alice, err := env.Auth.Register(ctx, RegisterInput{Username: "alice", Email: "shared@x.io", Password: "AlicePass1"})
	require.NoError(t, err)
	_, err = env.Auth.Register(ctx, RegisterInput{Username: "shared@x.io", Email: "bob@x.io", Password: "BobPass12"})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		res, err := env.Auth.Login(ctx, "shared@x.io", "AlicePass1")
		require.NoError(t, err)
		require.Equal(t, alice.User.ID, res.User.ID)
	}
}
