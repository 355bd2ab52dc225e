package card

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
)

// RevenueRow is one line of the revenue report.
type RevenueRow struct {
	CardTypeID   int64   `json:"card_type_id"`
	CardTypeName string  `json:"card_type_name"`
	CardsSold    int64   `json:"cards_sold"`
	Revenue      float64 `json:"revenue"`
}

// Repository owns the cards table. Mutations that race with live check-ins
// (deduction, expiry) are single conditional UPDATEs.
type Repository interface {
	Create(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, id int64) (*Card, error)
	ListByHolder(ctx context.Context, ref holder.Ref) ([]Card, error)

	// ListUsable returns the holder's cards with status=active and
	// expiration_date >= today. Credit filtering is the caller's job.
	ListUsable(ctx context.Context, ref holder.Ref, today time.Time) ([]Card, error)

	// DeductClass decrements one credit and flips status to exhausted when
	// the balance reaches zero, all in one conditional statement. Returns
	// the post-deduction card.
	DeductClass(ctx context.Context, id int64) (*Card, error)

	ListOverdue(ctx context.Context, today time.Time) ([]Card, error)
	ExpireOverdue(ctx context.Context, today time.Time) (int, error)

	ListExpiringOn(ctx context.Context, date time.Time) ([]Card, error)
	ListLowBalance(ctx context.Context, threshold int) ([]Card, error)
	RevenueByType(ctx context.Context, from, to time.Time) ([]RevenueRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func holderScope(ref holder.Ref) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ref.Kind == holder.KindDependent {
			return db.Where("dependent_id = ?", ref.ID)
		}
		return db.Where("customer_id = ?", ref.ID)
	}
}

func (r *repository) Create(ctx context.Context, c *Card) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Card, error) {
	var c Card
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListByHolder(ctx context.Context, ref holder.Ref) ([]Card, error) {
	var out []Card
	err := r.db.WithContext(ctx).
		Scopes(holderScope(ref)).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListUsable(ctx context.Context, ref holder.Ref, today time.Time) ([]Card, error) {
	var out []Card
	err := r.db.WithContext(ctx).
		Scopes(holderScope(ref)).
		Where("status = ? AND expiration_date >= ?", StatusActive, today).
		Order("expiration_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) DeductClass(ctx context.Context, id int64) (*Card, error) {
	res := r.db.WithContext(ctx).
		Model(&Card{}).
		Where("id = ? AND status = ? AND classes_remaining > 0", id, StatusActive).
		Updates(map[string]any{
			"classes_remaining": gorm.Expr("classes_remaining - 1"),
			// SET expressions see the pre-update row, so this reads the old
			// balance on both postgres and sqlite.
			"status":     gorm.Expr("CASE WHEN classes_remaining - 1 <= 0 THEN ? ELSE status END", StatusExhausted),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNoClassesRemaining
	}
	return r.GetByID(ctx, id)
}

func (r *repository) ListOverdue(ctx context.Context, today time.Time) ([]Card, error) {
	var out []Card
	err := r.db.WithContext(ctx).
		Where("status = ? AND expiration_date < ?", StatusActive, today).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ExpireOverdue(ctx context.Context, today time.Time) (int, error) {
	res := r.db.WithContext(ctx).
		Model(&Card{}).
		Where("status = ? AND expiration_date < ?", StatusActive, today).
		Updates(map[string]any{
			"status":     StatusExpired,
			"updated_at": time.Now(),
		})
	return int(res.RowsAffected), res.Error
}

func (r *repository) ListExpiringOn(ctx context.Context, date time.Time) ([]Card, error) {
	var out []Card
	err := r.db.WithContext(ctx).
		Where("status = ? AND expiration_date = ?", StatusActive, date).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListLowBalance(ctx context.Context, threshold int) ([]Card, error) {
	var out []Card
	err := r.db.WithContext(ctx).
		Where("status = ? AND category = ? AND classes_remaining > 0 AND classes_remaining <= ?",
			StatusActive, catalog.CategoryPunchCard, threshold).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) RevenueByType(ctx context.Context, from, to time.Time) ([]RevenueRow, error) {
	var out []RevenueRow
	err := r.db.WithContext(ctx).
		Table("cards").
		Select("cards.card_type_id AS card_type_id, card_types.name AS card_type_name, COUNT(cards.id) AS cards_sold, COALESCE(SUM(cards.amount_paid), 0) AS revenue").
		Joins("JOIN card_types ON card_types.id = cards.card_type_id").
		Where("cards.purchase_date >= ? AND cards.purchase_date <= ?", from, to).
		Group("cards.card_type_id, card_types.name").
		Order("revenue DESC").
		Scan(&out).Error
	return out, err
}
