package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session states
const (
	SessionOpened = "opened"
	SessionClosed = "closed"
)

// Transaction types
const (
	TransactionCash = "cash"
	TransactionCard = "card"
)

// ProductSnapshot is a frozen copy of a catalog product taken when the
// service was added to a session. Later catalog edits never touch it.
type ProductSnapshot struct {
	Id          int64           `json:"id,string"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// StaffSnapshot is a frozen copy of the staff member embedded in a session.
type StaffSnapshot struct {
	Id      int64           `json:"id,string"`
	Email   string          `json:"email"`
	Name    string          `json:"name"`
	Role    string          `json:"role,omitempty"`
	Picture string          `json:"picture,omitempty"`
	Fee     decimal.Decimal `json:"fee"`
}

// CustomerSnapshot is a frozen copy of the customer embedded in a session.
// Birthdate is a date-only value rendered as YYYY-MM-DD.
type CustomerSnapshot struct {
	Id        int64  `json:"id,string"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Birthdate string `json:"birthdate,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ServiceLine is one rendered service inside a session: a product plus
// the staff member who performed it, with price and quantity frozen at
// the time it was added.
type ServiceLine struct {
	Product     ProductSnapshot `json:"product"`
	Responsible StaffSnapshot   `json:"responsible"`
	Quantity    int             `json:"quantity"`
	SubTotal    decimal.Decimal `json:"subTotal"`
	Price       decimal.Decimal `json:"price"`
}

// Session is a customer service transaction moving from opened to closed.
// Services, owner and customer are denormalized document columns, not joins.
type Session struct {
	ID              int64            `gorm:"primaryKey" json:"id,string"`
	Comment         string           `gorm:"size:500" json:"comment"`
	Services        []ServiceLine    `gorm:"serializer:json" json:"services"`
	Owner           StaffSnapshot    `gorm:"serializer:json" json:"owner"`
	Customer        CustomerSnapshot `gorm:"serializer:json" json:"customer"`
	// CustomerName mirrors Customer.Name into an indexed column so that
	// listings can filter without unpacking the document.
	CustomerName    string           `gorm:"size:128;index" json:"-"`
	Subtotal        decimal.Decimal  `gorm:"type:decimal(12,3)" json:"subtotal"`
	Itbms           decimal.Decimal  `gorm:"type:decimal(12,3)" json:"itbms"`
	Discount        decimal.Decimal  `gorm:"type:decimal(12,3)" json:"discount"`
	Total           decimal.Decimal  `gorm:"type:decimal(12,3)" json:"total"`
	IsTax           bool             `json:"isTax"`
	Rating          int              `json:"rating"`
	TransactionType string           `gorm:"size:16" json:"transactionType"`
	State           string           `gorm:"size:16;index;default:opened" json:"state"`
	CreatedAt       time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`

	// IsCrudUpdate marks the current save as a plain field edit. It is a
	// per-operation instruction, never persisted.
	IsCrudUpdate bool `gorm:"-" json:"isCrudUpdate,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}
