package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/internal/notify"
	"github.com/cantwait/lash-backend/pkg/common"
)

var (
	ErrUnknownState    = errors.New("unknown session state")
	ErrSessionClosed   = errors.New("session is already closed")
	ErrInvalidDiscount = errors.New("discount must be a fraction in [0,1)")
)

// UpdateInput carries the candidate field values of a partial session
// update. Nil fields are left untouched. Caller-supplied monetary totals
// are deliberately absent: the server recomputes them.
type UpdateInput struct {
	Comment         *string
	Services        *[]domain.ServiceLine
	Owner           *domain.StaffSnapshot
	Rating          *int
	Customer        *domain.CustomerSnapshot
	State           *string
	IsTax           *bool
	Discount        *decimal.Decimal
	TransactionType *string
	IsCrudUpdate    bool
}

// Service coordinates the session lifecycle: field updates, financial
// recalculation, persistence and the post-persist side effects that keep
// the live view and the cash ledger in step.
type Service struct {
	sessions  Repository
	balances  BalanceRepository
	publisher notify.Publisher
	loc       *time.Location
}

func NewService(sessions Repository, balances BalanceRepository, publisher notify.Publisher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{sessions: sessions, balances: balances, publisher: publisher, loc: loc}
}

// Create opens a new session. The services list may be empty; financial
// fields are always derived server-side before the first persist.
func (s *Service) Create(ctx context.Context, sess *domain.Session) error {
	if sess.ID == 0 {
		sess.ID = common.UUIDint64()
	}
	if sess.State == "" {
		sess.State = domain.SessionOpened
	}
	if sess.State != domain.SessionOpened && sess.State != domain.SessionClosed {
		return ErrUnknownState
	}
	if err := checkDiscount(sess.Discount); err != nil {
		return err
	}
	normalizeServices(sess.Services)
	Recalculate(sess)
	sess.CustomerName = sess.Customer.Name

	if err := s.sessions.Create(ctx, sess); err != nil {
		return err
	}
	s.afterSave(ctx, sess)
	return nil
}

// Update applies a partial update to an existing session, recomputes the
// financial fields and persists, then runs the lifecycle side effects.
// A missing session id surfaces as the repository's not-found error.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.State != nil {
		switch *in.State {
		case domain.SessionOpened, domain.SessionClosed:
		default:
			return nil, ErrUnknownState
		}
		if sess.State == domain.SessionClosed && *in.State == domain.SessionOpened {
			return nil, ErrSessionClosed
		}
		sess.State = *in.State
	}
	if in.Comment != nil {
		sess.Comment = *in.Comment
	}
	if in.Services != nil {
		sess.Services = *in.Services
		normalizeServices(sess.Services)
	}
	if in.Owner != nil {
		sess.Owner = *in.Owner
	}
	if in.Rating != nil {
		sess.Rating = *in.Rating
	}
	if in.Customer != nil {
		sess.Customer = *in.Customer
		sess.CustomerName = in.Customer.Name
	}
	if in.IsTax != nil {
		sess.IsTax = *in.IsTax
	}
	if in.Discount != nil {
		if err := checkDiscount(*in.Discount); err != nil {
			return nil, err
		}
		sess.Discount = *in.Discount
	}
	if in.TransactionType != nil {
		sess.TransactionType = *in.TransactionType
	}
	sess.IsCrudUpdate = in.IsCrudUpdate

	Recalculate(sess)

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.afterSave(ctx, sess)
	return sess, nil
}

// Remove deletes a session, announces the removal and retires the ledger
// entry the close produced, if any.
func (s *Service) Remove(ctx context.Context, id int64) error {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}
	s.afterRemove(ctx, sess)
	return nil
}

// Get loads one session by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

// List pages sessions, newest first. Defaults to opened sessions only.
func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Session, error) {
	return s.sessions.List(ctx, q)
}

// ListSessionsByDay returns the sessions created inside the business day
// window of date, newest first.
func (s *Service) ListSessionsByDay(ctx context.Context, date string) ([]domain.Session, error) {
	from, to, err := s.DayWindow(date)
	if err != nil {
		return nil, err
	}
	return s.sessions.ListByWindow(ctx, from, to)
}

// ListBalanceByDay returns the ledger entries created inside the business
// day window of date.
func (s *Service) ListBalanceByDay(ctx context.Context, date string) ([]domain.Balance, error) {
	from, to, err := s.DayWindow(date)
	if err != nil {
		return nil, err
	}
	return s.balances.ListByWindow(ctx, from, to)
}

// DayWindow resolves a YYYY-MM-DD date to the business day boundaries:
// 07:00:00 through 23:59:59 inclusive, in the business timezone. The
// salon's day starts at 7am, not midnight.
func (s *Service) DayWindow(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from := day.Add(7 * time.Hour)
	to := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return from, to, nil
}

// afterSave runs the post-persist side effects. They are best-effort by
// design: the session write already committed, so failures here are
// logged and swallowed, never rolled back or retried.
func (s *Service) afterSave(ctx context.Context, sess *domain.Session) {
	if sess.IsCrudUpdate {
		return
	}
	switch sess.State {
	case domain.SessionClosed:
		s.publish(notify.EventSessionRemoved, removedPayload(sess.ID))

		amount := sess.Total
		if !amount.IsPositive() {
			amount = sess.Subtotal
		}
		entry := &domain.Balance{
			ID:        common.UUIDint64(),
			Desc:      closeDesc(sess.Customer.Name),
			Mode:      domain.BalanceIncome,
			Amount:    amount,
			SessionId: sess.ID,
		}
		if err := s.balances.Create(ctx, entry); err != nil {
			zap.L().Error("failed to record balance for closed session",
				zap.Int64("session_id", sess.ID),
				zap.Error(err))
		}
	case domain.SessionOpened:
		s.publish(notify.EventSession, sess)
	}
}

// afterRemove reverses the close-time ledger effect. A session removed
// while still opened has no balance to clean up; that is not an error.
func (s *Service) afterRemove(ctx context.Context, sess *domain.Session) {
	s.publish(notify.EventSessionRemoved, removedPayload(sess.ID))

	entry, err := s.balances.GetBySessionID(ctx, sess.ID)
	if err != nil {
		return
	}
	if err := s.balances.Delete(ctx, entry.ID); err != nil {
		zap.L().Error("failed to remove balance of deleted session",
			zap.Int64("session_id", sess.ID),
			zap.Error(err))
	}
}

func (s *Service) publish(event string, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("session event publish panicked", zap.Any("cause", r))
		}
	}()
	s.publisher.Publish(notify.SessionsChannel, event, payload)
}

func removedPayload(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}

func closeDesc(customerName string) string {
	desc := "session close " + customerName
	if len(desc) > 128 {
		desc = desc[:128]
	}
	return desc
}

func checkDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidDiscount
	}
	return nil
}

func normalizeServices(services []domain.ServiceLine) {
	for i := range services {
		if services[i].Quantity == 0 {
			services[i].Quantity = 1
		}
	}
}
