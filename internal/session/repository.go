package session

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/internal/domain"
)

// ListQuery narrows and pages a session listing. State defaults to
// opened; StateAny disables the state filter.
type ListQuery struct {
	Page    int
	PerPage int
	Name    string
	State   string
}

// StateAny disables state filtering in List.
const StateAny = "any"

// Repository handles session persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q ListQuery) ([]domain.Session, error)
	ListByWindow(ctx context.Context, from, to time.Time) ([]domain.Session, error)
}

// BalanceRepository handles ledger persistence.
type BalanceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Balance, error)
	GetBySessionID(ctx context.Context, sessionID int64) (*domain.Balance, error)
	Create(ctx context.Context, b *domain.Balance) error
	Save(ctx context.Context, b *domain.Balance) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, perPage int) ([]domain.Balance, error)
	ListByWindow(ctx context.Context, from, to time.Time) ([]domain.Balance, error)
}

// GormRepository is the GORM implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	var s domain.Session
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) Create(ctx context.Context, s *domain.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *GormRepository) Save(ctx context.Context, s *domain.Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Session{}, id).Error
}

func (r *GormRepository) List(ctx context.Context, q ListQuery) ([]domain.Session, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 30
	}
	if q.State == "" {
		q.State = domain.SessionOpened
	}

	db := r.db.WithContext(ctx).Model(&domain.Session{})
	if q.State != StateAny {
		db = db.Where("state = ?", q.State)
	}
	if q.Name != "" {
		db = db.Where("customer_name = ?", q.Name)
	}

	var rows []domain.Session
	err := db.Order("created_at DESC").
		Offset(q.PerPage * (q.Page - 1)).
		Limit(q.PerPage).
		Find(&rows).Error
	return rows, err
}

func (r *GormRepository) ListByWindow(ctx context.Context, from, to time.Time) ([]domain.Session, error) {
	var rows []domain.Session
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// GormBalanceRepository is the GORM implementation of BalanceRepository.
type GormBalanceRepository struct {
	db *gorm.DB
}

func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

func (r *GormBalanceRepository) GetByID(ctx context.Context, id int64) (*domain.Balance, error) {
	var b domain.Balance
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBalanceRepository) GetBySessionID(ctx context.Context, sessionID int64) (*domain.Balance, error) {
	var b domain.Balance
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBalanceRepository) Create(ctx context.Context, b *domain.Balance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *GormBalanceRepository) Save(ctx context.Context, b *domain.Balance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *GormBalanceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Balance{}, id).Error
}

func (r *GormBalanceRepository) List(ctx context.Context, page, perPage int) ([]domain.Balance, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}
	var rows []domain.Balance
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(perPage * (page - 1)).
		Limit(perPage).
		Find(&rows).Error
	return rows, err
}

func (r *GormBalanceRepository) ListByWindow(ctx context.Context, from, to time.Time) ([]domain.Balance, error) {
	var rows []domain.Balance
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
