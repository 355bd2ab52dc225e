package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"fitstudio/internal/domain/holder"
)

// Service appends notification triggers to the outbox. Raise* helpers never
// return an error: a failed append is logged and dropped, because delivery
// is best-effort and must not affect the calling transaction's outcome.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) raise(ctx context.Context, kind Kind, ref holder.Ref, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("notification payload marshal failed")
		return
	}
	customerID, dependentID := ref.IDs()
	t := &Trigger{
		ID:          uuid.New().String(),
		Kind:        kind,
		CustomerID:  customerID,
		DependentID: dependentID,
		Payload:     data,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Str("holder", ref.String()).Msg("notification trigger append failed")
	}
}

func (s *Service) RaisePurchaseConfirmed(ctx context.Context, ref holder.Ref, p PurchasePayload) {
	s.raise(ctx, KindPurchaseConfirmed, ref, p)
}

func (s *Service) RaiseLowBalance(ctx context.Context, ref holder.Ref, p BalancePayload) {
	s.raise(ctx, KindLowBalance, ref, p)
}

func (s *Service) RaiseExhausted(ctx context.Context, ref holder.Ref, p BalancePayload) {
	s.raise(ctx, KindExhausted, ref, p)
}

func (s *Service) RaiseExpiringSoon(ctx context.Context, ref holder.Ref, p ExpiryPayload) {
	s.raise(ctx, KindExpiringSoon, ref, p)
}

func (s *Service) RaiseExpired(ctx context.Context, ref holder.Ref, p ExpiryPayload) {
	s.raise(ctx, KindExpired, ref, p)
}

func (s *Service) RaiseBirthday(ctx context.Context, ref holder.Ref, p BirthdayPayload) {
	s.raise(ctx, KindBirthday, ref, p)
}

// Pending returns undelivered triggers for the external consumer.
func (s *Service) Pending(ctx context.Context, limit int) ([]Trigger, error) {
	return s.repo.ListPending(ctx, limit)
}

// Ack marks delivered triggers; already-acked ids are ignored, so the
// consumer may retry its batch safely.
func (s *Service) Ack(ctx context.Context, ids []string) (int, error) {
	return s.repo.MarkDelivered(ctx, ids)
}
