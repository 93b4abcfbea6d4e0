package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cantwait/lash-backend/internal/domain"
)

type recordedEvent struct {
	Channel string
	Event   string
	Payload interface{}
}

// recordingPublisher captures events in order instead of fanning them out.
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(channel, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Channel: channel, Event: event, Payload: payload})
}

func (p *recordingPublisher) all() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]recordedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func testService(t *testing.T) (*Service, *recordingPublisher, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	pub := &recordingPublisher{}
	loc, err := time.LoadLocation("America/Panama")
	require.NoError(t, err)
	svc := NewService(NewGormRepository(db), NewGormBalanceRepository(db), pub, loc)
	return svc, pub, db
}

func openedSession(name string) *domain.Session {
	return &domain.Session{
		Customer: domain.CustomerSnapshot{Id: 1, Name: name, Email: name + "@example.com"},
		Services: []domain.ServiceLine{
			{Product: domain.ProductSnapshot{Id: 10, Name: "Lash Full Set"}, Price: dec("50")},
			{Product: domain.ProductSnapshot{Id: 11, Name: "Brow Tint"}, Price: dec("30")},
		},
		IsTax:           true,
		Discount:        dec("0.1"),
		TransactionType: domain.TransactionCash,
	}
}

func strptr(s string) *string { return &s }

func TestCreate_DerivesFinancialsAndPublishes(t *testing.T) {
	svc, pub, db := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, sess))

	assert.NotZero(t, sess.ID)
	assert.Equal(t, domain.SessionOpened, sess.State)
	assert.True(t, sess.Subtotal.Equal(dec("72")), "subtotal %s", sess.Subtotal)
	assert.True(t, sess.Itbms.Equal(dec("5.04")))
	assert.True(t, sess.Total.Equal(dec("77.04")))
	assert.Equal(t, "Maria", sess.CustomerName)
	// default quantity
	assert.Equal(t, 1, sess.Services[0].Quantity)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "sessions", events[0].Channel)
	assert.Equal(t, "onSession", events[0].Event)

	var count int64
	db.Model(&domain.Balance{}).Count(&count)
	assert.Zero(t, count, "opening a session must not touch the ledger")
}

func TestCreate_RejectsBadDiscount(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	sess.Discount = dec("1")
	assert.ErrorIs(t, svc.Create(ctx, sess), ErrInvalidDiscount)

	sess = openedSession("Maria")
	sess.Discount = dec("-0.1")
	assert.ErrorIs(t, svc.Create(ctx, sess), ErrInvalidDiscount)
}

func TestCreate_RejectsUnknownState(t *testing.T) {
	svc, _, _ := testService(t)
	sess := openedSession("Maria")
	sess.State = "paused"
	assert.ErrorIs(t, svc.Create(context.Background(), sess), ErrUnknownState)
}

func TestUpdate_CloseRecordsIncome(t *testing.T) {
	svc, pub, db := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, sess))
	pub.reset()

	updated, err := svc.Update(ctx, sess.ID, UpdateInput{State: strptr(domain.SessionClosed)})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionClosed, updated.State)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "onSessionRemoved", events[0].Event)

	var entries []domain.Balance
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.BalanceIncome, entries[0].Mode)
	assert.Equal(t, sess.ID, entries[0].SessionId)
	assert.True(t, entries[0].Amount.Equal(dec("77.04")), "amount %s", entries[0].Amount)
	assert.Contains(t, entries[0].Desc, "Maria")
}

func TestUpdate_CloseUntaxedRecordsSubtotal(t *testing.T) {
	svc, _, db := testService(t)
	ctx := context.Background()

	sess := openedSession("Ana")
	sess.IsTax = false
	require.NoError(t, svc.Create(ctx, sess))

	_, err := svc.Update(ctx, sess.ID, UpdateInput{State: strptr(domain.SessionClosed)})
	require.NoError(t, err)

	var entry domain.Balance
	require.NoError(t, db.Where("session_id = ?", sess.ID).First(&entry).Error)
	// total is zero on untaxed sessions; the ledger falls back to subtotal
	assert.True(t, entry.Amount.Equal(dec("72")), "amount %s", entry.Amount)
}

func TestUpdate_CloseTwiceDuplicatesLedger(t *testing.T) {
	svc, _, db := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, sess))

	_, err := svc.Update(ctx, sess.ID, UpdateInput{State: strptr(domain.SessionClosed)})
	require.NoError(t, err)
	// Saving an already closed session again re-runs the close effect.
	_, err = svc.Update(ctx, sess.ID, UpdateInput{Comment: strptr("walked out happy"), State: strptr(domain.SessionClosed)})
	require.NoError(t, err)

	var count int64
	db.Model(&domain.Balance{}).Where("session_id = ?", sess.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestUpdate_CrudUpdateSkipsSideEffects(t *testing.T) {
	svc, pub, db := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, sess))
	pub.reset()

	rating := 5
	updated, err := svc.Update(ctx, sess.ID, UpdateInput{Rating: &rating, IsCrudUpdate: true})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	assert.Empty(t, pub.all())
	var count int64
	db.Model(&domain.Balance{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdate_ReopenRejected(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, sess))
	_, err := svc.Update(ctx, sess.ID, UpdateInput{State: strptr(domain.SessionClosed)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, sess.ID, UpdateInput{State: strptr(domain.SessionOpened)})
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestUpdate_Recomputes(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, sess))

	services := []domain.ServiceLine{
		{Product: domain.ProductSnapshot{Id: 12, Name: "Refill"}, Price: dec("35")},
	}
	noTax := false
	updated, err := svc.Update(ctx, sess.ID, UpdateInput{Services: &services, IsTax: &noTax, Discount: &decimal.Zero})
	require.NoError(t, err)

	assert.True(t, updated.Subtotal.Equal(dec("35")), "subtotal %s", updated.Subtotal)
	assert.True(t, updated.Itbms.IsZero())
	assert.True(t, updated.Total.IsZero())
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := testService(t)
	_, err := svc.Update(context.Background(), 404404, UpdateInput{})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemove_RetiresBalance(t *testing.T) {
	svc, pub, db := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, sess))
	_, err := svc.Update(ctx, sess.ID, UpdateInput{State: strptr(domain.SessionClosed)})
	require.NoError(t, err)
	pub.reset()

	require.NoError(t, svc.Remove(ctx, sess.ID))

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "onSessionRemoved", events[0].Event)

	var count int64
	db.Model(&domain.Balance{}).Where("session_id = ?", sess.ID).Count(&count)
	assert.Zero(t, count)

	_, err = svc.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemove_OpenedSessionHasNoBalance(t *testing.T) {
	svc, pub, _ := testService(t)
	ctx := context.Background()

	sess := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, sess))
	pub.reset()

	require.NoError(t, svc.Remove(ctx, sess.ID))

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "onSessionRemoved", events[0].Event)
}

func TestList_DefaultsToOpened(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	open := openedSession("Maria")
	require.NoError(t, svc.Create(ctx, open))
	closed := openedSession("Ana")
	require.NoError(t, svc.Create(ctx, closed))
	_, err := svc.Update(ctx, closed.ID, UpdateInput{State: strptr(domain.SessionClosed)})
	require.NoError(t, err)

	rows, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, open.ID, rows[0].ID)

	rows, err = svc.List(ctx, ListQuery{State: StateAny})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.List(ctx, ListQuery{State: StateAny, Name: "Ana"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, closed.ID, rows[0].ID)
}

func TestDayWindow(t *testing.T) {
	svc, _, _ := testService(t)

	from, to, err := svc.DayWindow("2026-03-10")
	require.NoError(t, err)

	loc, _ := time.LoadLocation("America/Panama")
	assert.Equal(t, time.Date(2026, 3, 10, 7, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 0, loc), to)

	_, _, err = svc.DayWindow("10/03/2026")
	assert.Error(t, err)
}

func TestListByWindow_Boundaries(t *testing.T) {
	svc, _, db := testService(t)
	ctx := context.Background()

	from, to, err := svc.DayWindow("2026-03-10")
	require.NoError(t, err)

	mk := func(id int64, at time.Time) {
		require.NoError(t, db.Create(&domain.Session{
			ID:        id,
			State:     domain.SessionOpened,
			CreatedAt: at,
			UpdatedAt: at,
		}).Error)
	}
	mk(1, from.Add(-time.Second)) // 06:59:59, before opening
	mk(2, from)                   // 07:00:00
	mk(3, to)                     // 23:59:59
	mk(4, to.Add(time.Second))    // next day

	rows, err := svc.ListSessionsByDay(ctx, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	ids := []int64{rows[0].ID, rows[1].ID}
	assert.ElementsMatch(t, []int64{2, 3}, ids)
}

func TestListBalanceByDay(t *testing.T) {
	svc, _, db := testService(t)
	ctx := context.Background()

	from, _, err := svc.DayWindow("2026-03-10")
	require.NoError(t, err)

	require.NoError(t, db.Create(&domain.Balance{
		ID:        1,
		Desc:      "supply purchase",
		Mode:      domain.BalanceOutcome,
		Amount:    dec("12.5"),
		CreatedAt: from.Add(time.Hour),
		UpdatedAt: from.Add(time.Hour),
	}).Error)
	require.NoError(t, db.Create(&domain.Balance{
		ID:        2,
		Desc:      "old entry",
		Mode:      domain.BalanceIncome,
		Amount:    dec("40"),
		CreatedAt: from.Add(-24 * time.Hour),
		UpdatedAt: from.Add(-24 * time.Hour),
	}).Error)

	rows, err := svc.ListBalanceByDay(ctx, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
}
