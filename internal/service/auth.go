package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const invalidCredentials = "invalid username/email or password"

// dummyHash is verified against when no user matches, so an unknown
// identifier costs the same as a wrong password.
var dummyHash, _ = hash.HashPassword("storefront-dummy-password")

type AuthService struct {
	Users    UserStore
	Sessions session.Store
	Tokens   *tokens.Issuer
	Events   events.Publisher
	TTL      time.Duration
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	fe := domain.FieldErrors{}
	if blank(in.Username) {
		fe["username"] = "is required"
	}
	if blank(in.Email) {
		fe["email"] = "is required"
	}
	if len(in.Password) < MinPasswordLen {
		fe["password"] = fmt.Sprintf("must be at least %d characters", MinPasswordLen)
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user, err := s.Users.CreateUser(ctx, domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         domain.RoleUser,
	})
	if err != nil {
		metrics.RecordAuth("register", false)
		if errors.Is(err, domain.ErrConflict) {
			l.Warn("register_error", "status", 409, "reason", err.Error())
			return nil, err
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	res, err := s.startSession(ctx, user)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot start session", "error", err)
		return nil, err
	}

	metrics.RecordAuth("register", true)
	publish(ctx, s.Events, events.TopicUsers, user.ID, events.Event{
		Type:     "user_registered",
		EntityID: user.ID,
		Data:     map[string]any{"username": user.Username, "email": user.Email},
	})
	l.Info("register_success", "user_id", user.ID)
	return res, nil
}

// Login accepts a username or an email as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if blank(identifier) || password == "" {
		return nil, domain.Validation("identifier and password are required")
	}

	user, found, err := s.Users.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !found {
		hash.CheckPassword(dummyHash, password)
		metrics.RecordAuth("login", false)
		l.Warn("login_failed", "status", 401, "reason", "unknown identifier")
		return nil, domain.Unauthorized(invalidCredentials)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		metrics.RecordAuth("login", false)
		l.Warn("login_failed", "status", 401, "reason", "password mismatch", "user_id", user.ID)
		return nil, domain.Unauthorized(invalidCredentials)
	}

	res, err := s.startSession(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot start session", "error", err)
		return nil, err
	}

	metrics.RecordAuth("login", true)
	publish(ctx, s.Events, events.TopicUsers, user.ID, events.Event{Type: "user_logged_in", EntityID: user.ID})
	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

// Logout destroys the session behind token. Missing or invalid tokens are
// already logged out.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.Sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	logging.FromContext(ctx).Info("logout_success", "user_id", claims.Subject)
	return nil
}

// Authenticate resolves a session token to its principal with a single
// session store lookup.
func (s *AuthService) Authenticate(ctx context.Context, token string) (session.Principal, error) {
	if token == "" {
		return session.Principal{}, domain.Unauthorized("authentication required")
	}
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return session.Principal{}, domain.Unauthorized("invalid session")
	}

	sess, found, err := s.Sessions.Get(ctx, claims.ID)
	if err != nil {
		return session.Principal{}, fmt.Errorf("session lookup: %w", err)
	}
	if !found || sess.Principal.UserID != claims.Subject {
		return session.Principal{}, domain.Unauthorized("session expired")
	}
	return sess.Principal, nil
}

// CurrentUser loads the account behind an authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, p session.Principal) (domain.User, error) {
	user, found, err := s.Users.GetUser(ctx, p.UserID)
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, domain.Unauthorized("account no longer exists")
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user domain.User) (*LoginResult, error) {
	exp := time.Now().Add(s.TTL)
	sess := session.Session{
		ID:        session.NewID(),
		Principal: session.Principal{UserID: user.ID, Role: user.Role},
		ExpiresAt: exp,
	}
	if err := s.Sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.Tokens.Sign(sess.ID, user.ID, exp)
	if err != nil {
		_ = s.Sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}
