package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if err := r.checkUserUnique(ctx, uuid.Nil, &u.Username, &u.Email); err != nil {
		return domain.User{}, err
	}

	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	m := models.User{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(role),
	}
	if err := r.db(ctx).Create(&m).Error; err != nil {
		return domain.User{}, writeErr("create user", err, "username or email already taken")
	}
	return toUser(m), nil
}

func (r *GormRepo) GetUser(ctx context.Context, id string) (domain.User, bool, error) {
	uid, ok := parseID(id)
	if !ok {
		return domain.User{}, false, nil
	}
	return r.findUser(ctx, "id = ?", uid)
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	return r.findUser(ctx, "email = ?", email)
}

// GetUserByIdentifier matches the identifier as an email first, then as a
// username. A username may look like someone else's email; the email owner wins.
func (r *GormRepo) GetUserByIdentifier(ctx context.Context, identifier string) (domain.User, bool, error) {
	if strings.TrimSpace(identifier) == "" {
		return domain.User{}, false, nil
	}
	u, found, err := r.GetUserByEmail(ctx, identifier)
	if err != nil || found {
		return u, found, err
	}
	return r.GetUserByUsername(ctx, identifier)
}

func (r *GormRepo) findUser(ctx context.Context, query string, args ...any) (domain.User, bool, error) {
	var m models.User
	found, err := r.first(ctx, &m, query, args...)
	if err != nil || !found {
		if err != nil {
			err = fmt.Errorf("find user: %w", err)
		}
		return domain.User{}, false, err
	}
	return toUser(m), true, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	var items []models.User
	if err := ordered(r.db(ctx)).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return mapAll(items, toUser), nil
}

func (r *GormRepo) UpdateUser(ctx context.Context, id string, p domain.UserPatch) (domain.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return domain.User{}, domain.NotFound("user not found")
	}
	var m models.User
	found, err := r.first(ctx, &m, "id = ?", uid)
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return domain.User{}, domain.NotFound("user not found")
	}
	if p.Empty() {
		return toUser(m), nil
	}

	if err := r.checkUserUnique(ctx, uid, p.Username, p.Email); err != nil {
		return domain.User{}, err
	}

	if p.Username != nil {
		m.Username = *p.Username
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.PasswordHash != nil {
		m.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		m.Role = string(*p.Role)
	}

	if err := r.db(ctx).Save(&m).Error; err != nil {
		return domain.User{}, writeErr("update user", err, "username or email already taken")
	}
	return toUser(m), nil
}

// DeleteUser removes the user, then every cart item they own.
func (r *GormRepo) DeleteUser(ctx context.Context, id string) error {
	uid, ok := parseID(id)
	if !ok {
		return domain.NotFound("user not found")
	}
	res := r.db(ctx).Where("id = ?", uid).Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("user not found")
	}

	r.cascade(ctx, "user", id, deleteCartItemsWhere("cart_items_of_user", "user_id = ?", uid))
	return nil
}

// checkUserUnique rejects a username or email already held by another user.
// self is excluded so an update can resubmit its own values.
func (r *GormRepo) checkUserUnique(ctx context.Context, self uuid.UUID, username, email *string) error {
	if username != nil {
		taken, err := r.exists(ctx, &models.User{}, "username = ? AND id <> ?", *username, self)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return domain.Conflict("username already taken")
		}
	}
	if email != nil {
		taken, err := r.exists(ctx, &models.User{}, "email = ? AND id <> ?", *email, self)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return domain.Conflict("email already registered")
		}
	}
	return nil
}
