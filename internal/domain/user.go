package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User roles
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User is a staff account. Passwords are generated server-side on create,
// bcrypt-hashed, and mailed to the user.
type User struct {
	ID        int64           `gorm:"primaryKey" json:"id,string"`
	Email     string          `gorm:"size:128;uniqueIndex" json:"email"`
	Password  string          `gorm:"size:128" json:"-"`
	Name      string          `gorm:"size:128" json:"name"`
	Role      string          `gorm:"size:16;default:user" json:"role"`
	Picture   string          `gorm:"size:1024" json:"picture"`
	Fee       decimal.Decimal `gorm:"type:decimal(12,3)" json:"fee"`
	Active    bool            `gorm:"default:true" json:"active"`
	Address   string          `gorm:"size:128" json:"address"`
	Phone     string          `gorm:"size:12" json:"phone"`
	LastLogin time.Time       `json:"lastLogin"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Snapshot freezes the user fields embedded into a session.
func (u User) Snapshot() StaffSnapshot {
	return StaffSnapshot{
		Id:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    u.Role,
		Picture: u.Picture,
		Fee:     u.Fee,
	}
}
