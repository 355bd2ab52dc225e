package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"

	"fitstudio/internal/domain/birthday"
	"fitstudio/internal/domain/card"
	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/domain/notification"
	"fitstudio/internal/pkg/clock"
)

type staffStub struct{}

func (staffStub) StaffName(context.Context, int64) (string, error) { return "Front Desk", nil }

type feedStub struct {
	views []*DetailView
}

func (f *feedStub) BroadcastCheckIn(v *DetailView) { f.views = append(f.views, v) }

type testEnv struct {
	svc    *Service
	cards  *card.Service
	passes *birthday.Service
	db     *gorm.DB
	studio *clock.Studio
	feed   *feedStub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", name)
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&holder.Customer{}, &holder.Dependent{},
		&catalog.CardType{}, &card.Card{},
		&birthday.Pass{}, &CheckIn{},
		&notification.Trigger{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	studio, err := clock.NewStudioAt("America/New_York", time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("studio: %v", err)
	}

	holderRepo := holder.NewRepository(db)
	notifier := notification.NewService(notification.NewRepository(db))
	cardService := card.NewService(card.NewRepository(db), catalog.NewRepository(db), holderRepo, notifier, studio)
	passService := birthday.NewService(birthday.NewRepository(db), holderRepo, studio)

	feed := &feedStub{}
	svc := NewService(NewRepository(db), cardService, passService, holderRepo, notifier, staffStub{}, feed, 2)
	return &testEnv{svc: svc, cards: cardService, passes: passService, db: db, studio: studio, feed: feed}
}

func (e *testEnv) seedCustomer(t *testing.T, birthDate string) holder.Ref {
	t.Helper()
	c := &holder.Customer{FirstName: "June", LastName: "Okafor", CreatedAt: time.Now()}
	if birthDate != "" {
		c.BirthDate = sql.NullString{String: birthDate, Valid: true}
	}
	if err := e.db.Create(c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return holder.CustomerRef(c.ID)
}

func (e *testEnv) seedPunchCard(t *testing.T, ref holder.Ref, remaining int) *card.Card {
	t.Helper()
	return e.seedCard(t, ref, catalog.CategoryPunchCard, remaining, card.StatusActive, e.studio.Today().AddDate(0, 3, 0))
}

func (e *testEnv) seedCard(t *testing.T, ref holder.Ref, cat catalog.Category, remaining int, status card.Status, expires time.Time) *card.Card {
	t.Helper()
	customerID, dependentID := ref.IDs()
	c := &card.Card{
		CustomerID:       customerID,
		DependentID:      dependentID,
		CardTypeID:       1,
		Category:         cat,
		TotalClasses:     remaining,
		ClassesRemaining: remaining,
		PurchaseDate:     clock.Date(2025, 5, 1),
		ExpirationDate:   expires,
		Status:           status,
		PaymentMethod:    card.PaymentCash,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if cat == catalog.CategorySubscription {
		c.TotalClasses = 0
		c.ClassesRemaining = 0
	}
	if err := e.db.Create(c).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}
	return c
}

func (e *testEnv) countTriggers(t *testing.T, kind notification.Kind) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&notification.Trigger{}).Where("kind = ?", kind).Count(&n).Error; err != nil {
		t.Fatalf("count triggers: %v", err)
	}
	return n
}

func (e *testEnv) countCheckIns(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&CheckIn{}).Count(&n).Error; err != nil {
		t.Fatalf("count check-ins: %v", err)
	}
	return n
}

func requestFor(ref holder.Ref, mode string) *Request {
	id := ref.ID
	req := &Request{Mode: mode}
	if ref.Kind == holder.KindDependent {
		req.DependentID = &id
	} else {
		req.CustomerID = &id
	}
	return req
}

func TestStandardCheckInDeductsOneClass(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "")
	c := e.seedPunchCard(t, ref, 4)

	view, err := e.svc.Process(context.Background(), requestFor(ref, "standard"), 1)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if view.ClassesRemaining == nil || *view.ClassesRemaining != 3 {
		t.Fatalf("view remaining = %v, want 3", view.ClassesRemaining)
	}
	if view.CardID == nil || *view.CardID != c.ID {
		t.Fatalf("view card = %v, want %d", view.CardID, c.ID)
	}
	if n := e.countTriggers(t, notification.KindLowBalance); n != 0 {
		t.Fatalf("low balance triggers = %d, want 0", n)
	}
	if len(e.feed.views) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(e.feed.views))
	}
}

func TestStandardCheckInRaisesLowBalance(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "")
	e.seedPunchCard(t, ref, 3)

	view, err := e.svc.Process(context.Background(), requestFor(ref, "standard"), 1)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if *view.ClassesRemaining != 2 {
		t.Fatalf("remaining = %d, want 2", *view.ClassesRemaining)
	}
	if n := e.countTriggers(t, notification.KindLowBalance); n != 1 {
		t.Fatalf("low balance triggers = %d, want 1", n)
	}
	if n := e.countTriggers(t, notification.KindExhausted); n != 0 {
		t.Fatalf("exhausted triggers = %d, want 0", n)
	}
}

func TestStandardCheckInExhaustsCard(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "")
	c := e.seedPunchCard(t, ref, 1)

	view, err := e.svc.Process(context.Background(), requestFor(ref, "standard"), 1)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if *view.ClassesRemaining != 0 {
		t.Fatalf("remaining = %d, want 0", *view.ClassesRemaining)
	}
	if n := e.countTriggers(t, notification.KindLowBalance); n != 1 {
		t.Fatalf("low balance triggers = %d, want 1", n)
	}
	if n := e.countTriggers(t, notification.KindExhausted); n != 1 {
		t.Fatalf("exhausted triggers = %d, want 1", n)
	}

	var reloaded card.Card
	if err := e.db.First(&reloaded, c.ID).Error; err != nil {
		t.Fatalf("reload card: %v", err)
	}
	if reloaded.Status != card.StatusExhausted {
		t.Fatalf("status = %q, want exhausted", reloaded.Status)
	}
}

func TestStandardSubscriptionRecordsAttendanceOnly(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "")
	sub := e.seedCard(t, ref, catalog.CategorySubscription, 0, card.StatusActive, e.studio.Today().AddDate(0, 1, 0))

	view, err := e.svc.Process(context.Background(), requestFor(ref, "standard"), 1)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if view.ClassesRemaining != nil {
		t.Fatalf("subscription view carries a balance: %d", *view.ClassesRemaining)
	}
	if view.CardID == nil || *view.CardID != sub.ID {
		t.Fatalf("view card = %v, want %d", view.CardID, sub.ID)
	}
	if n := e.countTriggers(t, notification.KindLowBalance); n != 0 {
		t.Fatalf("low balance triggers = %d, want 0", n)
	}
}

func TestStandardCheckInRejectionsCarryReason(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	empty := e.seedCustomer(t, "")
	_, err := e.svc.Process(ctx, requestFor(empty, "standard"), 1)
	var noCard *NoActiveCardError
	if !errors.As(err, &noCard) || noCard.Reason != card.ReasonNoCards {
		t.Fatalf("err = %v, want NoActiveCardError(no_cards)", err)
	}
	if !errors.Is(err, ErrNoActiveCard) {
		t.Fatalf("err %v does not unwrap to ErrNoActiveCard", err)
	}

	expired := e.seedCustomer(t, "")
	e.seedCard(t, expired, catalog.CategoryPunchCard, 5, card.StatusExpired, e.studio.Today().AddDate(0, 0, -30))
	_, err = e.svc.Process(ctx, requestFor(expired, "standard"), 1)
	if !errors.As(err, &noCard) || noCard.Reason != card.ReasonAllExpired {
		t.Fatalf("err = %v, want NoActiveCardError(expired)", err)
	}

	// Rejections leave no attendance rows behind.
	if n := e.countCheckIns(t); n != 0 {
		t.Fatalf("check-in rows after rejections = %d, want 0", n)
	}
}

func TestSameDayDuplicateCheckInsAllowed(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "")
	e.seedPunchCard(t, ref, 4)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := e.svc.Process(ctx, requestFor(ref, "standard"), 1); err != nil {
			t.Fatalf("check-in %d: %v", i+1, err)
		}
	}
	if n := e.countCheckIns(t); n != 2 {
		t.Fatalf("check-in rows = %d, want 2", n)
	}
}

func TestBirthdayDirectSkipsLedger(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "1993-06-10")
	c := e.seedPunchCard(t, ref, 4)

	view, err := e.svc.Process(context.Background(), requestFor(ref, "birthday_direct"), 1)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !view.IsBirthdayCheckIn || view.CardID != nil {
		t.Fatalf("birthday view touched the ledger: %+v", view)
	}
	if view.CardTypeName != BirthdayClassLabel {
		t.Fatalf("label = %q, want %q", view.CardTypeName, BirthdayClassLabel)
	}

	var reloaded card.Card
	if err := e.db.First(&reloaded, c.ID).Error; err != nil {
		t.Fatalf("reload card: %v", err)
	}
	if reloaded.ClassesRemaining != 4 {
		t.Fatalf("birthday check-in deducted a class: %d", reloaded.ClassesRemaining)
	}
}

func TestBirthdayPassFlowConsumesPass(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "1993-06-10")
	ctx := context.Background()

	pass, err := e.passes.CreatePass(ctx, ref)
	if err != nil {
		t.Fatalf("CreatePass: %v", err)
	}

	view, err := e.svc.Process(ctx, requestFor(ref, "birthday_pass"), 1)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !view.IsBirthdayCheckIn {
		t.Fatal("expected a birthday check-in")
	}

	var reloaded birthday.Pass
	if err := e.db.First(&reloaded, "id = ?", pass.ID).Error; err != nil {
		t.Fatalf("reload pass: %v", err)
	}
	if !reloaded.Used || !reloaded.CheckInID.Valid || reloaded.CheckInID.Int64 != view.CheckInID {
		t.Fatalf("pass not consumed and linked: %+v", reloaded)
	}

	// The pass is single-use.
	if _, err := e.svc.Process(ctx, requestFor(ref, "birthday_pass"), 1); !errors.Is(err, ErrNoBirthdayPass) {
		t.Fatalf("second pass check-in err = %v, want ErrNoBirthdayPass", err)
	}
}

func TestConcurrentBirthdayPassCheckInsLeaveOneRow(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "1993-06-10")
	ctx := context.Background()

	if _, err := e.passes.CreatePass(ctx, ref); err != nil {
		t.Fatalf("CreatePass: %v", err)
	}

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.svc.Process(ctx, requestFor(ref, "birthday_pass"), 1)
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
		case errors.Is(err, ErrNoBirthdayPass):
			rejects++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || rejects != 1 {
		t.Fatalf("wins = %d rejects = %d, want exactly one of each", wins, rejects)
	}

	// The loser's attendance row must roll back with its failed consume.
	if n := e.countCheckIns(t); n != 1 {
		t.Fatalf("check-in rows = %d, want 1", n)
	}
	var used int64
	if err := e.db.Model(&birthday.Pass{}).Where("used = ?", true).Count(&used).Error; err != nil {
		t.Fatalf("count used passes: %v", err)
	}
	if used != 1 {
		t.Fatalf("used passes = %d, want 1", used)
	}
}

func TestBirthdayPassModeWithoutPass(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "1993-06-10")

	if _, err := e.svc.Process(context.Background(), requestFor(ref, "birthday_pass"), 1); !errors.Is(err, ErrNoBirthdayPass) {
		t.Fatalf("err = %v, want ErrNoBirthdayPass", err)
	}
}

func TestScannedCodeResolvesHolder(t *testing.T) {
	e := newTestEnv(t)
	ref := e.seedCustomer(t, "")
	e.seedPunchCard(t, ref, 4)
	ctx := context.Background()

	code, err := holder.EncodeCode(ref)
	if err != nil {
		t.Fatalf("EncodeCode: %v", err)
	}
	view, err := e.svc.Process(ctx, &Request{Code: code}, 1)
	if err != nil {
		t.Fatalf("Process by code: %v", err)
	}
	if *view.ClassesRemaining != 3 {
		t.Fatalf("remaining = %d, want 3", *view.ClassesRemaining)
	}

	if _, err := e.svc.Process(ctx, &Request{Code: "FS-Q999-Z"}, 1); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("bad code err = %v, want ErrInvalidIdentifier", err)
	}
	if _, err := e.svc.Process(ctx, &Request{}, 1); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("empty request err = %v, want ErrInvalidIdentifier", err)
	}
}
