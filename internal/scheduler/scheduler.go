package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"fitstudio/internal/domain/birthday"
	"fitstudio/internal/domain/card"
	"fitstudio/internal/domain/notification"
	"fitstudio/internal/pkg/clock"
)

// Scheduler runs the date-based sweeps: card expiry, expiring-soon
// reminders, low-balance alerts and birthday passes. It holds no state of
// its own — every pass is re-runnable because the underlying ledger and
// pass operations are idempotent.
type Scheduler struct {
	cards    *card.Service
	passes   *birthday.Service
	notifier *notification.Service
	studio   *clock.Studio

	reminderDays        []int
	lowBalanceThreshold int
	balanceEvery        time.Duration

	startOnce sync.Once
}

func New(
	cards *card.Service,
	passes *birthday.Service,
	notifier *notification.Service,
	studio *clock.Studio,
	reminderDays []int,
	lowBalanceThreshold int,
	balanceEvery time.Duration,
) *Scheduler {
	if len(reminderDays) == 0 {
		reminderDays = []int{7, 3, 1}
	}
	if lowBalanceThreshold <= 0 {
		lowBalanceThreshold = 2
	}
	if balanceEvery <= 0 {
		balanceEvery = 4 * time.Hour
	}
	return &Scheduler{
		cards:               cards,
		passes:              passes,
		notifier:            notifier,
		studio:              studio,
		reminderDays:        reminderDays,
		lowBalanceThreshold: lowBalanceThreshold,
		balanceEvery:        balanceEvery,
	}
}

// Start launches the periodic runs. The process lifecycle owner (cmd/api)
// calls this exactly once at startup; the sync.Once guard makes a second
// call a no-op rather than a second set of tickers.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.loop(ctx, 24*time.Hour, func(c context.Context) {
			summary := s.RunDailySweep(c)
			summary.Log()
		})
		go s.loop(ctx, s.balanceEvery, func(c context.Context) {
			n, errs := s.RunBalanceCheck(c)
			log.Info().Int("low_balance_triggers", n).Int("errors", len(errs)).Msg("balance check done")
		})
	})
}

func (s *Scheduler) loop(ctx context.Context, every time.Duration, run func(context.Context)) {
	run(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run(ctx)
		}
	}
}

// Summary reports what one daily sweep did.
type Summary struct {
	Expired        int      `json:"expired"`
	Reminders      int      `json:"reminders"`
	LowBalance     int      `json:"low_balance"`
	Birthdays      int      `json:"birthdays"`
	PassesCreated  int      `json:"passes_created"`
	Errors         []string `json:"errors,omitempty"`
}

func (sm Summary) Log() {
	log.Info().
		Int("expired", sm.Expired).
		Int("reminders", sm.Reminders).
		Int("low_balance", sm.LowBalance).
		Int("birthdays", sm.Birthdays).
		Int("passes_created", sm.PassesCreated).
		Int("errors", len(sm.Errors)).
		Msg("daily sweep done")
}

// RunDailySweep executes all four passes. One holder's bad data never halts
// the sweep; per-item failures are collected and logged.
func (s *Scheduler) RunDailySweep(ctx context.Context) Summary {
	var sm Summary

	sm.Expired = s.sweepExpired(ctx, &sm.Errors)
	sm.Reminders = s.raiseExpiryReminders(ctx, &sm.Errors)

	lowBalance, errs := s.RunBalanceCheck(ctx)
	sm.LowBalance = lowBalance
	sm.Errors = append(sm.Errors, errs...)

	sm.Birthdays, sm.PassesCreated = s.processBirthdays(ctx, &sm.Errors)
	return sm
}

func (s *Scheduler) sweepExpired(ctx context.Context, errs *[]string) int {
	expired, err := s.cards.SweepExpireOverdue(ctx)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("expire sweep: %v", err))
		return 0
	}
	for i := range expired {
		c := &expired[i]
		ref, err := c.Holder()
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("card %d: %v", c.ID, err))
			continue
		}
		s.notifier.RaiseExpired(ctx, ref, notification.ExpiryPayload{
			CardID:           c.ID,
			CardTypeName:     s.cards.TypeName(ctx, c),
			ExpiresOn:        c.ExpirationDate.Format("2006-01-02"),
			ClassesForfeited: c.ClassesRemaining,
		})
	}
	return len(expired)
}

func (s *Scheduler) raiseExpiryReminders(ctx context.Context, errs *[]string) int {
	count := 0
	for _, days := range s.reminderDays {
		cards, err := s.cards.ExpiringInDays(ctx, days)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("reminders %dd: %v", days, err))
			continue
		}
		for i := range cards {
			c := &cards[i]
			ref, err := c.Holder()
			if err != nil {
				*errs = append(*errs, fmt.Sprintf("card %d: %v", c.ID, err))
				continue
			}
			s.notifier.RaiseExpiringSoon(ctx, ref, notification.ExpiryPayload{
				CardID:       c.ID,
				CardTypeName: s.cards.TypeName(ctx, c),
				ExpiresOn:    c.ExpirationDate.Format("2006-01-02"),
				DaysLeft:     days,
			})
			count++
		}
	}
	return count
}

// RunBalanceCheck raises low-balance triggers for active punch cards with
// 1..threshold credits left. Runs intraday on its own cadence.
func (s *Scheduler) RunBalanceCheck(ctx context.Context) (int, []string) {
	var errs []string
	cards, err := s.cards.LowBalance(ctx, s.lowBalanceThreshold)
	if err != nil {
		return 0, []string{fmt.Sprintf("low balance query: %v", err)}
	}
	count := 0
	for i := range cards {
		c := &cards[i]
		ref, err := c.Holder()
		if err != nil {
			errs = append(errs, fmt.Sprintf("card %d: %v", c.ID, err))
			continue
		}
		s.notifier.RaiseLowBalance(ctx, ref, notification.BalancePayload{
			CardID:           c.ID,
			CardTypeName:     s.cards.TypeName(ctx, c),
			ClassesRemaining: c.ClassesRemaining,
		})
		count++
	}
	return count, errs
}

func (s *Scheduler) processBirthdays(ctx context.Context, errs *[]string) (birthdays, passesCreated int) {
	infos, err := s.passes.FindTodaysBirthdays(ctx)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("birthday scan: %v", err))
		return 0, 0
	}
	for _, info := range infos {
		s.notifier.RaiseBirthday(ctx, info.Ref, notification.BirthdayPayload{HolderName: info.Name})
		birthdays++

		// Legacy path: make sure a pass exists for the day. The unique
		// (holder, valid_date) constraint makes re-runs hand back the
		// existing pass, used or not, without inserting, and only a real
		// insert counts as a creation.
		_, created, err := s.passes.CreatePassUnchecked(ctx, info.Ref)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("pass create %s: %v", info.Ref, err))
			continue
		}
		if created {
			passesCreated++
		}
	}
	return birthdays, passesCreated
}
