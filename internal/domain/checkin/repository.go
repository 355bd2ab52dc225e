package checkin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fitstudio/internal/domain/birthday"
	"fitstudio/internal/domain/holder"
)

type Repository interface {
	Create(ctx context.Context, ci *CheckIn) error

	// CreateWithPassConsume records a birthday-pass check-in and consumes
	// the pass in one transaction. When two requests race for the same pass
	// the loser's conditional consume matches nothing, the transaction rolls
	// back and its attendance row disappears with it; the caller sees
	// birthday.ErrPassAlreadyUsed.
	CreateWithPassConsume(ctx context.Context, ci *CheckIn, passID string) error

	ListByHolder(ctx context.Context, ref holder.Ref, limit int) ([]CheckIn, error)
	ListSince(ctx context.Context, since time.Time) ([]CheckIn, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ci *CheckIn) error {
	return r.db.WithContext(ctx).Create(ci).Error
}

func (r *repository) CreateWithPassConsume(ctx context.Context, ci *CheckIn, passID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ci).Error; err != nil {
			return err
		}
		res := tx.Model(&birthday.Pass{}).
			Where("id = ? AND used = ?", passID, false).
			Updates(map[string]any{
				"used":        true,
				"used_at":     time.Now(),
				"check_in_id": ci.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return birthday.ErrPassAlreadyUsed
		}
		return nil
	})
}

func (r *repository) ListByHolder(ctx context.Context, ref holder.Ref, limit int) ([]CheckIn, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.db.WithContext(ctx)
	if ref.Kind == holder.KindDependent {
		q = q.Where("dependent_id = ?", ref.ID)
	} else {
		q = q.Where("customer_id = ?", ref.ID)
	}
	var out []CheckIn
	err := q.Order("checked_in_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *repository) ListSince(ctx context.Context, since time.Time) ([]CheckIn, error) {
	var out []CheckIn
	err := r.db.WithContext(ctx).
		Where("checked_in_at >= ?", since).
		Order("checked_in_at DESC").
		Find(&out).Error
	return out, err
}
