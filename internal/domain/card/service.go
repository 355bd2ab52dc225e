package card

import (
	"context"
	"time"

	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/domain/notification"
	"fitstudio/internal/pkg/clock"
)

// Service is the card ledger: it owns card lifecycle and resolves the single
// usable card for a holder.
type Service struct {
	repo     Repository
	types    catalog.Repository
	holders  holder.Repository
	notifier *notification.Service
	studio   *clock.Studio
}

func NewService(repo Repository, types catalog.Repository, holders holder.Repository, notifier *notification.Service, studio *clock.Studio) *Service {
	return &Service{
		repo:     repo,
		types:    types,
		holders:  holders,
		notifier: notifier,
		studio:   studio,
	}
}

// ResolveActiveCard picks the one card a check-in should consume, or nil.
// Punch cards with remaining credit always win over subscriptions, so a
// manually issued pass is burned down before a recurring subscription is
// touched. Among eligible punch cards the soonest-expiring wins; the
// repository's (expiration, id) ordering makes the tie-break deterministic.
func (s *Service) ResolveActiveCard(ctx context.Context, ref holder.Ref) (*Card, error) {
	usable, err := s.repo.ListUsable(ctx, ref, s.studio.Today())
	if err != nil {
		return nil, err
	}

	var subscription *Card
	for i := range usable {
		c := &usable[i]
		if c.IsSubscription() {
			if subscription == nil {
				subscription = c
			}
			continue
		}
		if c.ClassesRemaining > 0 {
			return c, nil
		}
	}
	return subscription, nil
}

// DiagnoseNoActiveCard explains a failed resolution for user-facing prompts.
func (s *Service) DiagnoseNoActiveCard(ctx context.Context, ref holder.Ref) (NoCardReason, error) {
	all, err := s.repo.ListByHolder(ctx, ref)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return ReasonNoCards, nil
	}
	today := s.studio.Today()
	for _, c := range all {
		// An exhausted but unexpired card means "come back after you top
		// up", which beats "everything expired" as a prompt.
		if c.Status == StatusExhausted && !c.ExpirationDate.Before(today) {
			return ReasonAllExhausted, nil
		}
		if c.Status == StatusActive && !c.ExpirationDate.Before(today) && c.ClassesRemaining == 0 && !c.IsSubscription() {
			return ReasonAllExhausted, nil
		}
	}
	return ReasonAllExpired, nil
}

// CreateCardParams describes a card purchase or issue.
type CreateCardParams struct {
	Holder        holder.Ref
	CardTypeID    int64
	PaymentMethod PaymentMethod
	AmountPaid    float64
	ExternalRef   string
	// Override lets admin cash-sale flows intentionally stack cards on a
	// holder who already has an active one.
	Override bool
}

// CreateCard issues a card and appends a purchase-confirmation trigger. A
// failed trigger append never rolls the card back.
func (s *Service) CreateCard(ctx context.Context, p CreateCardParams) (*Card, error) {
	info, err := s.holders.Resolve(ctx, p.Holder)
	if err != nil {
		return nil, err
	}

	t, err := s.types.GetByID(ctx, p.CardTypeID)
	if err != nil {
		return nil, err
	}

	if !p.Override {
		existing, err := s.ResolveActiveCard(ctx, p.Holder)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateActiveCard
		}
	}

	purchase := s.studio.Today()
	customerID, dependentID := p.Holder.IDs()
	now := time.Now()
	c := &Card{
		CustomerID:     customerID,
		DependentID:    dependentID,
		CardTypeID:     t.ID,
		Category:       t.Category,
		PurchaseDate:   purchase,
		ExpirationDate: clock.AddMonths(purchase, t.ValidityMonths),
		Status:         StatusActive,
		PaymentMethod:  p.PaymentMethod,
		AmountPaid:     p.AmountPaid,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !t.IsSubscription() {
		c.TotalClasses = t.ClassCount
		c.ClassesRemaining = t.ClassCount
	}
	if p.ExternalRef != "" {
		c.ExternalPaymentRef.String = p.ExternalRef
		c.ExternalPaymentRef.Valid = true
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.notifier.RaisePurchaseConfirmed(ctx, info.Ref, notification.PurchasePayload{
		CardID:       c.ID,
		CardTypeName: t.Name,
		ClassCount:   c.TotalClasses,
		ExpiresOn:    c.ExpirationDate.Format("2006-01-02"),
		AmountPaid:   c.AmountPaid,
	})
	return c, nil
}

// CreateAdminPass issues a complimentary pass through the catalog fallback
// chain: a type named "Admin Pass" if one exists, else the smallest punch
// card, else the first active type. Always stacks (override on).
func (s *Service) CreateAdminPass(ctx context.Context, ref holder.Ref) (*Card, error) {
	t, err := s.types.FindAdminPassType(ctx)
	if err != nil {
		return nil, err
	}
	return s.CreateCard(ctx, CreateCardParams{
		Holder:        ref,
		CardTypeID:    t.ID,
		PaymentMethod: PaymentAdminCreated,
		Override:      true,
	})
}

// DeductClass consumes one credit. Subscriptions must never reach this.
func (s *Service) DeductClass(ctx context.Context, cardID int64) (*Card, error) {
	c, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if c.IsSubscription() {
		return nil, ErrSubscriptionDeduct
	}
	return s.repo.DeductClass(ctx, cardID)
}

// SweepExpireOverdue transitions every overdue active card to expired and
// returns the cards that were selected for transition. Safe to run
// repeatedly; already-expired cards never match the predicate again.
func (s *Service) SweepExpireOverdue(ctx context.Context) ([]Card, error) {
	today := s.studio.Today()
	overdue, err := s.repo.ListOverdue(ctx, today)
	if err != nil {
		return nil, err
	}
	if len(overdue) == 0 {
		return nil, nil
	}
	if _, err := s.repo.ExpireOverdue(ctx, today); err != nil {
		return nil, err
	}
	return overdue, nil
}

func (s *Service) GetCard(ctx context.Context, id int64) (*Card, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByHolder(ctx context.Context, ref holder.Ref) ([]Card, error) {
	return s.repo.ListByHolder(ctx, ref)
}

// ExpiringInDays returns active cards whose expiration is exactly N days out.
func (s *Service) ExpiringInDays(ctx context.Context, days int) ([]Card, error) {
	return s.repo.ListExpiringOn(ctx, s.studio.Today().AddDate(0, 0, days))
}

// LowBalance returns active punch cards with 1..threshold credits left.
func (s *Service) LowBalance(ctx context.Context, threshold int) ([]Card, error) {
	return s.repo.ListLowBalance(ctx, threshold)
}

func (s *Service) RevenueByType(ctx context.Context, from, to time.Time) ([]RevenueRow, error) {
	return s.repo.RevenueByType(ctx, from, to)
}

// TypeName looks up the display name for a card's type.
func (s *Service) TypeName(ctx context.Context, c *Card) string {
	t, err := s.types.GetByID(ctx, c.CardTypeID)
	if err != nil {
		return ""
	}
	return t.Name
}
