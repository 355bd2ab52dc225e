package checkin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitstudio/internal/domain/birthday"
	"fitstudio/internal/domain/card"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/domain/notification"
)

// StaffDirectory resolves the performing staff member's display name.
type StaffDirectory interface {
	StaffName(ctx context.Context, id int64) (string, error)
}

// Broadcaster pushes recorded check-ins to live listeners (front-desk feed).
type Broadcaster interface {
	BroadcastCheckIn(view *DetailView)
}

// Service is the check-in processor. Each request runs synchronously:
// Received, Resolved, Recorded — or Received, Rejected with no row written.
type Service struct {
	repo        Repository
	cards       *card.Service
	passes      *birthday.Service
	holders     holder.Repository
	notifier    *notification.Service
	staff       StaffDirectory
	broadcaster Broadcaster

	lowBalanceThreshold int
}

func NewService(
	repo Repository,
	cards *card.Service,
	passes *birthday.Service,
	holders holder.Repository,
	notifier *notification.Service,
	staff StaffDirectory,
	broadcaster Broadcaster,
	lowBalanceThreshold int,
) *Service {
	if lowBalanceThreshold <= 0 {
		lowBalanceThreshold = 2
	}
	return &Service{
		repo:                repo,
		cards:               cards,
		passes:              passes,
		holders:             holders,
		notifier:            notifier,
		staff:               staff,
		broadcaster:         broadcaster,
		lowBalanceThreshold: lowBalanceThreshold,
	}
}

// Process validates and records one check-in. All rejections are returned
// synchronously and leave no CheckIn row; notification triggers after a
// successful record are best-effort and cannot fail the response.
//
// Multiple same-day check-ins per holder are deliberately allowed.
func (s *Service) Process(ctx context.Context, req *Request, performedBy int64) (*DetailView, error) {
	ref, err := s.resolveHolder(req)
	if err != nil {
		return nil, err
	}
	info, err := s.holders.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	mode := Mode(req.Mode)
	if mode == "" {
		mode = ModeStandard
	}

	var view *DetailView
	switch mode {
	case ModeBirthdayDirect:
		view, err = s.processBirthdayDirect(ctx, info, performedBy, req.Notes)
	case ModeBirthdayPass:
		view, err = s.processBirthdayPass(ctx, info, performedBy, req.Notes)
	case ModeStandard:
		view, err = s.processStandard(ctx, info, performedBy, req.Notes)
	default:
		return nil, ErrInvalidMode
	}
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastCheckIn(view)
	}
	return view, nil
}

func (s *Service) resolveHolder(req *Request) (holder.Ref, error) {
	if req.Code != "" {
		ref, err := holder.DecodeCode(req.Code)
		if err != nil {
			return holder.Ref{}, ErrInvalidIdentifier
		}
		return ref, nil
	}
	ref, err := req.Ref()
	if err != nil {
		return holder.Ref{}, ErrInvalidIdentifier
	}
	return ref, nil
}

// processBirthdayDirect records a free class with no pass lookup and no
// ledger mutation. Birthday notifications go out proactively each morning,
// so by check-in time there is nothing left to validate.
func (s *Service) processBirthdayDirect(ctx context.Context, info *holder.Info, performedBy int64, notes string) (*DetailView, error) {
	ci, err := s.record(ctx, info.Ref, nil, true, "", performedBy, notes)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, ci, info, BirthdayClassLabel, nil), nil
}

func (s *Service) processBirthdayPass(ctx context.Context, info *holder.Info, performedBy int64, notes string) (*DetailView, error) {
	pass, err := s.passes.FindTodaysPass(ctx, info.Ref)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, ErrNoBirthdayPass
	}

	// Record and consume in one transaction: when two requests race for the
	// same pass, the loser's attendance row rolls back with its failed
	// consume and the request is rejected with nothing written.
	ci := s.newCheckIn(info.Ref, nil, true, pass.ID, performedBy, notes)
	if err := s.repo.CreateWithPassConsume(ctx, ci, pass.ID); err != nil {
		if errors.Is(err, birthday.ErrPassAlreadyUsed) {
			return nil, ErrNoBirthdayPass
		}
		return nil, err
	}
	return s.buildView(ctx, ci, info, BirthdayClassLabel, nil), nil
}

func (s *Service) processStandard(ctx context.Context, info *holder.Info, performedBy int64, notes string) (*DetailView, error) {
	active, err := s.cards.ResolveActiveCard(ctx, info.Ref)
	if err != nil {
		return nil, err
	}
	if active == nil {
		reason, derr := s.cards.DiagnoseNoActiveCard(ctx, info.Ref)
		if derr != nil {
			return nil, derr
		}
		return nil, &NoActiveCardError{Reason: reason}
	}

	typeName := s.cards.TypeName(ctx, active)

	if active.IsSubscription() {
		// Attendance only; unlimited cards are never deducted.
		ci, err := s.record(ctx, info.Ref, &active.ID, false, "", performedBy, notes)
		if err != nil {
			return nil, err
		}
		return s.buildView(ctx, ci, info, typeName, nil), nil
	}

	deducted, err := s.cards.DeductClass(ctx, active.ID)
	if err != nil {
		return nil, err
	}

	ci, err := s.record(ctx, info.Ref, &deducted.ID, false, "", performedBy, notes)
	if err != nil {
		return nil, err
	}

	// The view must show the post-deduction balance, never a stale read.
	remaining := deducted.ClassesRemaining
	s.raiseBalanceTriggers(ctx, info.Ref, deducted, typeName)
	return s.buildView(ctx, ci, info, typeName, &remaining), nil
}

func (s *Service) raiseBalanceTriggers(ctx context.Context, ref holder.Ref, c *card.Card, typeName string) {
	payload := notification.BalancePayload{
		CardID:           c.ID,
		CardTypeName:     typeName,
		ClassesRemaining: c.ClassesRemaining,
	}
	if c.ClassesRemaining <= s.lowBalanceThreshold {
		s.notifier.RaiseLowBalance(ctx, ref, payload)
	}
	if c.ClassesRemaining == 0 {
		s.notifier.RaiseExhausted(ctx, ref, payload)
	}
}

func (s *Service) newCheckIn(ref holder.Ref, cardID *int64, isBirthday bool, passID string, performedBy int64, notes string) *CheckIn {
	customerID, dependentID := ref.IDs()
	ci := &CheckIn{
		CustomerID:        customerID,
		DependentID:       dependentID,
		IsBirthdayCheckIn: isBirthday,
		CheckedInAt:       time.Now(),
		PerformedBy:       performedBy,
	}
	if cardID != nil {
		ci.CardID = sql.NullInt64{Int64: *cardID, Valid: true}
	}
	if passID != "" {
		ci.BirthdayPassID = sql.NullString{String: passID, Valid: true}
	}
	if notes != "" {
		ci.Notes = sql.NullString{String: notes, Valid: true}
	}
	return ci
}

func (s *Service) record(ctx context.Context, ref holder.Ref, cardID *int64, isBirthday bool, passID string, performedBy int64, notes string) (*CheckIn, error) {
	ci := s.newCheckIn(ref, cardID, isBirthday, passID, performedBy, notes)
	if err := s.repo.Create(ctx, ci); err != nil {
		return nil, err
	}
	return ci, nil
}

func (s *Service) buildView(ctx context.Context, ci *CheckIn, info *holder.Info, typeName string, remaining *int) *DetailView {
	view := &DetailView{
		CheckInID:         ci.ID,
		HolderName:        info.Name,
		CardTypeName:      typeName,
		ClassesRemaining:  remaining,
		IsBirthdayCheckIn: ci.IsBirthdayCheckIn,
		CheckedInAt:       ci.CheckedInAt,
		Notes:             ci.Notes.String,
	}
	if ci.CardID.Valid {
		id := ci.CardID.Int64
		view.CardID = &id
	}
	if name, err := s.staff.StaffName(ctx, ci.PerformedBy); err == nil {
		view.PerformedByName = name
	}
	return view
}

// ListToday returns today's check-ins for the front-desk board.
func (s *Service) ListToday(ctx context.Context, since time.Time) ([]CheckIn, error) {
	return s.repo.ListSince(ctx, since)
}

// History returns a holder's recent check-ins.
func (s *Service) History(ctx context.Context, ref holder.Ref, limit int) ([]CheckIn, error) {
	return s.repo.ListByHolder(ctx, ref, limit)
}
