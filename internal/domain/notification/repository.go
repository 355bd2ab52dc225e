package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, t *Trigger) error
	ListPending(ctx context.Context, limit int) ([]Trigger, error)
	MarkDelivered(ctx context.Context, ids []string) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Trigger) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) ListPending(ctx context.Context, limit int) ([]Trigger, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []Trigger
	err := r.db.WithContext(ctx).
		Where("delivered_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repository) MarkDelivered(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&Trigger{}).
		Where("id IN ? AND delivered_at IS NULL", ids).
		Update("delivered_at", time.Now())
	return int(res.RowsAffected), res.Error
}
