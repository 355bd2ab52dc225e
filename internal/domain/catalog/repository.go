package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository handles persistence for card type definitions.
type Repository interface {
	ListActive(ctx context.Context) ([]*CardType, error)
	GetByID(ctx context.Context, id int64) (*CardType, error)
	Create(ctx context.Context, t *CardType) error
	Update(ctx context.Context, t *CardType) error
	Deactivate(ctx context.Context, id int64) error

	// FindAdminPassType implements the admin-pass fallback chain: name
	// match, then punch-card category, then any active type.
	FindAdminPassType(ctx context.Context) (*CardType, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]*CardType, error) {
	var types []*CardType
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("class_count ASC, id ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*CardType, error) {
	var t CardType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, t *CardType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Update(ctx context.Context, t *CardType) error {
	t.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&CardType{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTypeNotFound
	}
	return nil
}

func (r *repository) FindAdminPassType(ctx context.Context) (*CardType, error) {
	var t CardType
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND lower(name) LIKE ?", true, "%admin pass%").
		Order("id ASC").
		First(&t).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("is_active = ? AND category = ?", true, CategoryPunchCard).
		Order("class_count ASC, id ASC").
		First(&t).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
