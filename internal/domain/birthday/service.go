package birthday

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fitstudio/internal/domain/holder"
	"fitstudio/internal/pkg/clock"
)

// Service manages once-per-day free-class entitlements.
type Service struct {
	repo    Repository
	holders holder.Repository
	studio  *clock.Studio
}

func NewService(repo Repository, holders holder.Repository, studio *clock.Studio) *Service {
	return &Service{repo: repo, holders: holders, studio: studio}
}

// IsBirthday compares the stored birth date's literal month/day with today's
// studio-calendar month/day. Year is ignored.
func (s *Service) IsBirthday(ctx context.Context, ref holder.Ref) (bool, error) {
	info, err := s.holders.Resolve(ctx, ref)
	if err != nil {
		return false, err
	}
	if info.BirthDate == "" {
		return false, ErrNoBirthDate
	}
	md, err := clock.MonthDayOf(info.BirthDate)
	if err != nil {
		return false, err
	}
	return md == s.studio.MonthDay(), nil
}

// CreatePass issues today's pass for the holder. Repeated calls on the same
// day return the existing pass; the unique (holder, valid_date) constraint
// backs the idempotence, not any read-then-write check.
func (s *Service) CreatePass(ctx context.Context, ref holder.Ref) (*Pass, error) {
	ok, err := s.IsBirthday(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotBirthdayToday
	}
	p, _, err := s.createForToday(ctx, ref)
	return p, err
}

// CreatePassUnchecked is the scheduler's bulk path; it only ever receives
// holders already confirmed as birthday holders, so the date guard is
// skipped. The second return reports whether a pass was actually inserted,
// as opposed to the day's existing pass (used or not) being returned.
func (s *Service) CreatePassUnchecked(ctx context.Context, ref holder.Ref) (*Pass, bool, error) {
	return s.createForToday(ctx, ref)
}

func (s *Service) createForToday(ctx context.Context, ref holder.Ref) (*Pass, bool, error) {
	today := s.studio.Today()
	customerID, dependentID := ref.IDs()
	p := &Pass{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		DependentID: dependentID,
		ValidDate:   today,
		ExpiresAt:   s.studio.EndOfDay(today),
		CreatedAt:   time.Now(),
	}

	err := s.repo.Create(ctx, p)
	if err == nil {
		return p, true, nil
	}
	if !IsUniqueViolation(err) {
		return nil, false, err
	}
	existing, ferr := s.repo.FindForDate(ctx, ref, today)
	if ferr != nil {
		return nil, false, ferr
	}
	if existing == nil {
		// Lost the conflict but cannot see the winner; surface the original
		// insert error rather than inventing a pass.
		return nil, false, err
	}
	return existing, false, nil
}

// FindTodaysPass returns the holder's unconsumed pass for today, or nil.
func (s *Service) FindTodaysPass(ctx context.Context, ref holder.Ref) (*Pass, error) {
	return s.repo.FindUnused(ctx, ref, s.studio.Today())
}

// ConsumePass marks a pass used and links the recorded check-in. The
// conditional update makes double consumption impossible under concurrent
// requests; callers are expected to have looked the pass up with used=false.
func (s *Service) ConsumePass(ctx context.Context, passID string, checkInID int64) (*Pass, error) {
	return s.repo.Consume(ctx, passID, checkInID, time.Now())
}

// FindTodaysBirthdays returns every customer and dependent whose stored
// month/day matches today.
func (s *Service) FindTodaysBirthdays(ctx context.Context) ([]holder.Info, error) {
	return s.holders.FindBirthdaysOn(ctx, s.studio.MonthDay())
}
