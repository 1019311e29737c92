// Package session keeps server-side login sessions.
//
// A Session carries the principal (user id + role) so authorization gates can
// run on a single store lookup without consulting the database.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/domain"
)

type Principal struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == domain.RoleAdmin }

type Session struct {
	ID        string    `json:"id"`
	Principal Principal `json:"principal"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// Store is the capability every session backend provides. Get reports
// found=false for unknown and expired sessions. Delete of an unknown id is
// not an error.
type Store interface {
	Get(ctx context.Context, id string) (Session, bool, error)
	Set(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	Close() error
}

func NewID() string { return uuid.NewString() }
