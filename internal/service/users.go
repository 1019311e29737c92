package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/session"
)

type UserService struct {
	Users    UserStore
	Sessions session.Store
	Events   events.Publisher
}

type ProfileInput struct {
	Username *string
	Email    *string
	Password *string
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Users.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	u, found, err := s.Users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, domain.NotFound("user not found")
	}
	return u, nil
}

// UpdateProfile edits the self-service fields of an account.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (domain.User, error) {
	fe := domain.FieldErrors{}
	if in.Username != nil && blank(*in.Username) {
		fe["username"] = "must not be empty"
	}
	if in.Email != nil && blank(*in.Email) {
		fe["email"] = "must not be empty"
	}
	if in.Password != nil && len(*in.Password) < MinPasswordLen {
		fe["password"] = fmt.Sprintf("must be at least %d characters", MinPasswordLen)
	}
	if err := fe.OrNil(); err != nil {
		return domain.User{}, err
	}

	patch := domain.UserPatch{Username: in.Username, Email: in.Email}
	if in.Password != nil {
		h, err := hash.HashPassword(*in.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &h
	}

	u, err := s.Users.UpdateUser(ctx, id, patch)
	if err != nil {
		return domain.User{}, err
	}
	if !patch.Empty() {
		publish(ctx, s.Events, events.TopicUsers, u.ID, events.Event{Type: "user_updated", EntityID: u.ID})
	}
	return u, nil
}

// UpdateRole changes a user's role and revokes their sessions so the old
// role cannot outlive the change.
func (s *UserService) UpdateRole(ctx context.Context, actorID, id string, role domain.Role) (domain.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.update_role", "user_id", id)

	if !role.Valid() {
		return domain.User{}, domain.FieldErrors{"role": "must be one of user, admin"}
	}
	u, err := s.Users.UpdateUser(ctx, id, domain.UserPatch{Role: &role})
	if err != nil {
		return domain.User{}, err
	}
	if err := s.Sessions.DeleteByUser(ctx, id); err != nil {
		l.Error("revoke_sessions_failed", "error", err)
		return domain.User{}, fmt.Errorf("revoke sessions: %w", err)
	}

	publish(ctx, s.Events, events.TopicUsers, u.ID, events.Event{
		Type:     "user_role_changed",
		EntityID: u.ID,
		ActorID:  actorID,
		Data:     map[string]any{"role": u.Role},
	})
	l.Info("update_role_success", "role", u.Role)
	return u, nil
}

// Delete removes a user (cart items cascade) and ends their sessions.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	l := logging.FromContext(ctx).With("svc", "users.delete", "user_id", id)

	if err := s.Users.DeleteUser(ctx, id); err != nil {
		return err
	}
	if err := s.Sessions.DeleteByUser(ctx, id); err != nil {
		l.Error("revoke_sessions_failed", "error", err)
		return fmt.Errorf("revoke sessions: %w", err)
	}

	publish(ctx, s.Events, events.TopicUsers, id, events.Event{Type: "user_deleted", EntityID: id, ActorID: actorID})
	l.Info("delete_user_success")
	return nil
}

// EnsureAdmin creates an admin account, or promotes the existing account
// with that username. created reports which happened.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (u domain.User, created bool, err error) {
	existing, found, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, false, err
	}
	if found {
		if existing.IsAdmin() {
			return existing, false, nil
		}
		u, err = s.UpdateRole(ctx, "", existing.ID, domain.RoleAdmin)
		return u, false, err
	}

	if blank(username) || blank(email) || len(password) < MinPasswordLen {
		return domain.User{}, false, domain.Validation(fmt.Sprintf("username, email and a password of at least %d characters are required", MinPasswordLen))
	}
	h, err := hash.HashPassword(password)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("hash password: %w", err)
	}
	u, err = s.Users.CreateUser(ctx, domain.User{Username: username, Email: email, PasswordHash: h, Role: domain.RoleAdmin})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.User{}, false, fmt.Errorf("create admin: %w", err)
		}
		return domain.User{}, false, err
	}
	return u, true, nil
}
