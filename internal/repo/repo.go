// Package repo is the storage adapter: it maps gorm records to domain values,
// assigns ids, enforces uniqueness and runs delete cascades.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo { return &GormRepo{DB: db} }

// parseID treats anything that is not a uuid as an id no record can have.
func parseID(id string) (uuid.UUID, bool) {
	u, err := uuid.Parse(id)
	if err != nil || u == uuid.Nil {
		return uuid.Nil, false
	}
	return u, true
}

func (r *GormRepo) db(ctx context.Context) *gorm.DB { return r.DB.WithContext(ctx) }

// first loads one row, reporting found=false instead of ErrRecordNotFound.
func (r *GormRepo) first(ctx context.Context, dst any, query string, args ...any) (bool, error) {
	err := r.db(ctx).Where(query, args...).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *GormRepo) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := r.db(ctx).Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// writeErr translates driver-level uniqueness failures that slipped past the
// pre-checks (concurrent writers) into a conflict.
func writeErr(op string, err error, conflictMsg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Conflict(conflictMsg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type cascadeStep struct {
	name string
	run  func(tx *gorm.DB) error
}

// cascade runs dependent deletes after the primary delete committed. Steps
// ignore caller cancellation; a failing step is logged and the rest still run.
func (r *GormRepo) cascade(ctx context.Context, entity, id string, steps ...cascadeStep) {
	ctx = context.WithoutCancel(ctx)
	l := logging.FromContext(ctx).With("repo", "cascade", "entity", entity, "id", id)

	for _, s := range steps {
		if err := s.run(r.db(ctx)); err != nil {
			l.Error("cascade_step_failed", "step", s.name, "error", err)
			metrics.RecordCascadeFailure(entity, s.name)
			continue
		}
		l.Debug("cascade_step_done", "step", s.name)
	}
}

func ordered(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }
