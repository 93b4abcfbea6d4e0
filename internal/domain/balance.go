package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance modes
const (
	BalanceIncome  = "income"
	BalanceOutcome = "outcome"
)

// Balance is one row in the cash ledger. SessionId back-references the
// session that produced the entry on close; it is a lookup key only.
type Balance struct {
	ID        int64           `gorm:"primaryKey" json:"id,string"`
	Desc      string          `gorm:"size:128;index" json:"desc"`
	Mode      string          `gorm:"size:16" json:"mode"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,3)" json:"amount"`
	SessionId int64           `gorm:"index" json:"sessionId,string"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Balance) TableName() string {
	return "balances"
}
