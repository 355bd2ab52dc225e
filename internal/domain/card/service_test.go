package card

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"

	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/domain/notification"
	"fitstudio/internal/pkg/clock"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", name)
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&holder.Customer{}, &holder.Dependent{}, &catalog.CardType{}, &Card{}, &notification.Trigger{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *clock.Studio) {
	t.Helper()
	db := newTestDB(t)
	// Noon UTC on 2025-06-10 is the same civil date in New York.
	studio, err := clock.NewStudioAt("America/New_York", time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("studio: %v", err)
	}
	svc := NewService(
		NewRepository(db),
		catalog.NewRepository(db),
		holder.NewRepository(db),
		notification.NewService(notification.NewRepository(db)),
		studio,
	)
	return svc, db, studio
}

func seedCustomer(t *testing.T, db *gorm.DB) holder.Ref {
	t.Helper()
	c := &holder.Customer{FirstName: "Nora", LastName: "Vale", CreatedAt: time.Now()}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return holder.CustomerRef(c.ID)
}

func seedType(t *testing.T, db *gorm.DB, name string, cat catalog.Category, classes, months int) *catalog.CardType {
	t.Helper()
	ct := &catalog.CardType{
		Name:           name,
		Category:       cat,
		ClassCount:     classes,
		ValidityMonths: months,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(ct).Error; err != nil {
		t.Fatalf("seed type %s: %v", name, err)
	}
	return ct
}

func seedCard(t *testing.T, db *gorm.DB, ref holder.Ref, cat catalog.Category, remaining int, status Status, expires time.Time) *Card {
	t.Helper()
	customerID, dependentID := ref.IDs()
	c := &Card{
		CustomerID:       customerID,
		DependentID:      dependentID,
		CardTypeID:       1,
		Category:         cat,
		TotalClasses:     remaining,
		ClassesRemaining: remaining,
		PurchaseDate:     clock.Date(2025, 1, 1),
		ExpirationDate:   expires,
		Status:           status,
		PaymentMethod:    PaymentCash,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if cat == catalog.CategorySubscription {
		c.TotalClasses = 0
		c.ClassesRemaining = 0
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}
	return c
}

func countTriggers(t *testing.T, db *gorm.DB, kind notification.Kind) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&notification.Trigger{}).Where("kind = ?", kind).Count(&n).Error; err != nil {
		t.Fatalf("count triggers: %v", err)
	}
	return n
}

func TestResolveActiveCardPrefersPunchCard(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	future := studio.Today().AddDate(0, 2, 0)

	// The subscription expires later, but punch credit still wins.
	seedCard(t, db, ref, catalog.CategorySubscription, 0, StatusActive, future.AddDate(0, 6, 0))
	punch := seedCard(t, db, ref, catalog.CategoryPunchCard, 4, StatusActive, future)

	got, err := svc.ResolveActiveCard(context.Background(), ref)
	if err != nil {
		t.Fatalf("ResolveActiveCard: %v", err)
	}
	if got == nil || got.ID != punch.ID {
		t.Fatalf("resolved %+v, want punch card %d", got, punch.ID)
	}
}

func TestResolveActiveCardSoonestExpirationWins(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)

	seedCard(t, db, ref, catalog.CategoryPunchCard, 3, StatusActive, studio.Today().AddDate(0, 0, 30))
	soon := seedCard(t, db, ref, catalog.CategoryPunchCard, 5, StatusActive, studio.Today().AddDate(0, 0, 10))

	got, err := svc.ResolveActiveCard(context.Background(), ref)
	if err != nil {
		t.Fatalf("ResolveActiveCard: %v", err)
	}
	if got == nil || got.ID != soon.ID {
		t.Fatalf("resolved %+v, want soonest-expiring card %d", got, soon.ID)
	}
}

func TestResolveActiveCardTieBreaksOnLowestID(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	expires := studio.Today().AddDate(0, 0, 14)

	first := seedCard(t, db, ref, catalog.CategoryPunchCard, 2, StatusActive, expires)
	seedCard(t, db, ref, catalog.CategoryPunchCard, 2, StatusActive, expires)

	got, err := svc.ResolveActiveCard(context.Background(), ref)
	if err != nil {
		t.Fatalf("ResolveActiveCard: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("resolved %+v, want oldest card %d", got, first.ID)
	}
}

func TestResolveActiveCardFallsBackToSubscription(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	future := studio.Today().AddDate(0, 1, 0)

	seedCard(t, db, ref, catalog.CategoryPunchCard, 0, StatusExhausted, future)
	sub := seedCard(t, db, ref, catalog.CategorySubscription, 0, StatusActive, future)

	got, err := svc.ResolveActiveCard(context.Background(), ref)
	if err != nil {
		t.Fatalf("ResolveActiveCard: %v", err)
	}
	if got == nil || got.ID != sub.ID {
		t.Fatalf("resolved %+v, want subscription %d", got, sub.ID)
	}
}

func TestResolveActiveCardIgnoresOverdueDates(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)

	// Still marked active because the sweep has not run, but the date is past.
	seedCard(t, db, ref, catalog.CategoryPunchCard, 5, StatusActive, studio.Today().AddDate(0, 0, -1))

	got, err := svc.ResolveActiveCard(context.Background(), ref)
	if err != nil {
		t.Fatalf("ResolveActiveCard: %v", err)
	}
	if got != nil {
		t.Fatalf("resolved %+v, want nil", got)
	}
}

func TestDiagnoseNoActiveCard(t *testing.T) {
	svc, db, studio := newTestService(t)
	ctx := context.Background()

	empty := seedCustomer(t, db)
	reason, err := svc.DiagnoseNoActiveCard(ctx, empty)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if reason != ReasonNoCards {
		t.Fatalf("reason = %q, want %q", reason, ReasonNoCards)
	}

	exhausted := seedCustomer(t, db)
	seedCard(t, db, exhausted, catalog.CategoryPunchCard, 0, StatusExhausted, studio.Today().AddDate(0, 1, 0))
	reason, err = svc.DiagnoseNoActiveCard(ctx, exhausted)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if reason != ReasonAllExhausted {
		t.Fatalf("reason = %q, want %q", reason, ReasonAllExhausted)
	}

	expired := seedCustomer(t, db)
	seedCard(t, db, expired, catalog.CategoryPunchCard, 3, StatusExpired, studio.Today().AddDate(0, 0, -10))
	reason, err = svc.DiagnoseNoActiveCard(ctx, expired)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if reason != ReasonAllExpired {
		t.Fatalf("reason = %q, want %q", reason, ReasonAllExpired)
	}
}

func TestCreateCardSnapshotsTypeTerms(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	ct := seedType(t, db, "10 Class Card", catalog.CategoryPunchCard, 10, 6)

	c, err := svc.CreateCard(context.Background(), CreateCardParams{
		Holder:        ref,
		CardTypeID:    ct.ID,
		PaymentMethod: PaymentOnline,
		AmountPaid:    140,
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if c.Category != catalog.CategoryPunchCard || c.TotalClasses != 10 || c.ClassesRemaining != 10 {
		t.Fatalf("card terms not snapshotted: %+v", c)
	}
	want := clock.AddMonths(studio.Today(), 6)
	if !c.ExpirationDate.Equal(want) {
		t.Fatalf("expiration = %v, want %v", c.ExpirationDate, want)
	}
	if n := countTriggers(t, db, notification.KindPurchaseConfirmed); n != 1 {
		t.Fatalf("purchase triggers = %d, want 1", n)
	}
}

func TestCreateCardDuplicateGuardAndOverride(t *testing.T) {
	svc, db, _ := newTestService(t)
	ref := seedCustomer(t, db)
	ct := seedType(t, db, "5 Class Card", catalog.CategoryPunchCard, 5, 3)
	ctx := context.Background()

	if _, err := svc.CreateCard(ctx, CreateCardParams{Holder: ref, CardTypeID: ct.ID, PaymentMethod: PaymentCash}); err != nil {
		t.Fatalf("first CreateCard: %v", err)
	}
	_, err := svc.CreateCard(ctx, CreateCardParams{Holder: ref, CardTypeID: ct.ID, PaymentMethod: PaymentCash})
	if !errors.Is(err, ErrDuplicateActiveCard) {
		t.Fatalf("second CreateCard err = %v, want ErrDuplicateActiveCard", err)
	}
	if _, err := svc.CreateCard(ctx, CreateCardParams{Holder: ref, CardTypeID: ct.ID, PaymentMethod: PaymentCash, Override: true}); err != nil {
		t.Fatalf("override CreateCard: %v", err)
	}
}

func TestCreateAdminPassUsesFallbackChainAndStacks(t *testing.T) {
	svc, db, _ := newTestService(t)
	ref := seedCustomer(t, db)
	seedType(t, db, "20 Class Card", catalog.CategoryPunchCard, 20, 12)
	admin := seedType(t, db, "Admin Pass", catalog.CategoryPunchCard, 1, 1)
	ctx := context.Background()

	// An existing active card must not block the complimentary pass.
	if _, err := svc.CreateCard(ctx, CreateCardParams{Holder: ref, CardTypeID: admin.ID, PaymentMethod: PaymentCash}); err != nil {
		t.Fatalf("seed existing card: %v", err)
	}

	c, err := svc.CreateAdminPass(ctx, ref)
	if err != nil {
		t.Fatalf("CreateAdminPass: %v", err)
	}
	if c.CardTypeID != admin.ID {
		t.Fatalf("admin pass used type %d, want %d", c.CardTypeID, admin.ID)
	}
	if c.PaymentMethod != PaymentAdminCreated {
		t.Fatalf("payment method = %q, want %q", c.PaymentMethod, PaymentAdminCreated)
	}
}

func TestDeductClassToExhaustion(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	c := seedCard(t, db, ref, catalog.CategoryPunchCard, 1, StatusActive, studio.Today().AddDate(0, 1, 0))
	ctx := context.Background()

	after, err := svc.DeductClass(ctx, c.ID)
	if err != nil {
		t.Fatalf("DeductClass: %v", err)
	}
	if after.ClassesRemaining != 0 {
		t.Fatalf("remaining = %d, want 0", after.ClassesRemaining)
	}
	if after.Status != StatusExhausted {
		t.Fatalf("status = %q, want %q", after.Status, StatusExhausted)
	}

	// The conditional update must refuse a second deduction outright.
	if _, err := svc.DeductClass(ctx, c.ID); !errors.Is(err, ErrNoClassesRemaining) {
		t.Fatalf("second deduct err = %v, want ErrNoClassesRemaining", err)
	}
	reloaded, err := svc.GetCard(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if reloaded.ClassesRemaining != 0 {
		t.Fatalf("balance went negative: %d", reloaded.ClassesRemaining)
	}
}

func TestConcurrentDeductsOnLastClassYieldOneSuccess(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	c := seedCard(t, db, ref, catalog.CategoryPunchCard, 1, StatusActive, studio.Today().AddDate(0, 1, 0))
	ctx := context.Background()

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.DeductClass(ctx, c.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, rejects int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrNoClassesRemaining):
			rejects++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || rejects != 1 {
		t.Fatalf("wins = %d rejects = %d, want exactly one of each", wins, rejects)
	}

	reloaded, err := svc.GetCard(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if reloaded.ClassesRemaining != 0 || reloaded.Status != StatusExhausted {
		t.Fatalf("final state remaining=%d status=%q, want 0/exhausted", reloaded.ClassesRemaining, reloaded.Status)
	}
}

func TestDeductClassRejectsSubscriptions(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	sub := seedCard(t, db, ref, catalog.CategorySubscription, 0, StatusActive, studio.Today().AddDate(1, 0, 0))

	if _, err := svc.DeductClass(context.Background(), sub.ID); !errors.Is(err, ErrSubscriptionDeduct) {
		t.Fatalf("err = %v, want ErrSubscriptionDeduct", err)
	}
}

func TestSweepExpireOverdueIsIdempotent(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	overdue := seedCard(t, db, ref, catalog.CategoryPunchCard, 2, StatusActive, studio.Today().AddDate(0, 0, -3))
	seedCard(t, db, ref, catalog.CategoryPunchCard, 2, StatusActive, studio.Today().AddDate(0, 1, 0))
	ctx := context.Background()

	expired, err := svc.SweepExpireOverdue(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != overdue.ID {
		t.Fatalf("swept %v, want just card %d", expired, overdue.ID)
	}
	reloaded, err := svc.GetCard(ctx, overdue.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if reloaded.Status != StatusExpired {
		t.Fatalf("status = %q, want %q", reloaded.Status, StatusExpired)
	}

	again, err := svc.SweepExpireOverdue(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second sweep matched %d cards, want 0", len(again))
	}
}

func TestLowBalanceListsOnlyPunchCardsInRange(t *testing.T) {
	svc, db, studio := newTestService(t)
	ref := seedCustomer(t, db)
	future := studio.Today().AddDate(0, 2, 0)

	low := seedCard(t, db, ref, catalog.CategoryPunchCard, 2, StatusActive, future)
	seedCard(t, db, ref, catalog.CategoryPunchCard, 5, StatusActive, future)
	seedCard(t, db, ref, catalog.CategorySubscription, 0, StatusActive, future)

	got, err := svc.LowBalance(context.Background(), 2)
	if err != nil {
		t.Fatalf("LowBalance: %v", err)
	}
	if len(got) != 1 || got[0].ID != low.ID {
		t.Fatalf("low balance = %v, want just card %d", got, low.ID)
	}
}
