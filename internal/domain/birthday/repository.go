package birthday

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"fitstudio/internal/domain/holder"
)

type Repository interface {
	Create(ctx context.Context, p *Pass) error
	GetByID(ctx context.Context, id string) (*Pass, error)

	// FindForDate returns the holder's pass for the given date, used or not.
	FindForDate(ctx context.Context, ref holder.Ref, date time.Time) (*Pass, error)

	// FindUnused returns the holder's unconsumed pass for the date, or nil.
	FindUnused(ctx context.Context, ref holder.Ref, date time.Time) (*Pass, error)

	// Consume flips used=false to used=true in one conditional statement.
	Consume(ctx context.Context, id string, checkInID int64, at time.Time) (*Pass, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// IsUniqueViolation detects a duplicate (holder, valid_date) insert on both
// engines: pgconn error 23505 under postgres, constraint text under sqlite.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}

func holderScope(ref holder.Ref) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ref.Kind == holder.KindDependent {
			return db.Where("dependent_id = ?", ref.ID)
		}
		return db.Where("customer_id = ?", ref.ID)
	}
}

func (r *repository) Create(ctx context.Context, p *Pass) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Pass, error) {
	var p Pass
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindForDate(ctx context.Context, ref holder.Ref, date time.Time) (*Pass, error) {
	var p Pass
	err := r.db.WithContext(ctx).
		Scopes(holderScope(ref)).
		Where("valid_date = ?", date).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindUnused(ctx context.Context, ref holder.Ref, date time.Time) (*Pass, error) {
	var p Pass
	err := r.db.WithContext(ctx).
		Scopes(holderScope(ref)).
		Where("valid_date = ? AND used = ?", date, false).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Consume(ctx context.Context, id string, checkInID int64, at time.Time) (*Pass, error) {
	res := r.db.WithContext(ctx).
		Model(&Pass{}).
		Where("id = ? AND used = ?", id, false).
		Updates(map[string]any{
			"used":        true,
			"used_at":     at,
			"check_in_id": checkInID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrPassAlreadyUsed
	}
	return r.GetByID(ctx, id)
}
