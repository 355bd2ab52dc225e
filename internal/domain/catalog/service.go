package catalog

import (
	"context"
	"time"
)

// Service exposes the catalog to the engine (read) and to admins (write).
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListActiveTypes returns purchasable definitions ordered by class count.
func (s *Service) ListActiveTypes(ctx context.Context) ([]*CardType, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) GetType(ctx context.Context, id int64) (*CardType, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateType validates and stores a new definition.
func (s *Service) CreateType(ctx context.Context, req *CreateTypeRequest) (*CardType, error) {
	cat := Category(req.Category)
	if cat != CategoryPunchCard && cat != CategorySubscription {
		return nil, ErrInvalidCategory
	}
	if cat == CategoryPunchCard && req.ClassCount <= 0 {
		return nil, ErrInvalidCount
	}

	now := time.Now()
	t := &CardType{
		Name:           req.Name,
		Category:       cat,
		ClassCount:     req.ClassCount,
		ValidityMonths: req.ValidityMonths,
		Price:          req.Price,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if t.IsSubscription() {
		t.ClassCount = 0
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateType applies partial changes to price/name/validity. Category and
// class count are fixed after creation so existing cards keep their terms.
func (s *Service) UpdateType(ctx context.Context, id int64, req *UpdateTypeRequest) (*CardType, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
	if req.ValidityMonths != nil {
		t.ValidityMonths = *req.ValidityMonths
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeactivateType(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
