package domain

import "time"

// Customer is a salon client record. Birthdate is stored date-only
// (YYYY-MM-DD), no time component.
type Customer struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Email     string    `gorm:"size:128;index" json:"email"`
	Name      string    `gorm:"size:128;index" json:"name"`
	Phone     string    `gorm:"size:12;index" json:"phone"`
	Birthdate string    `gorm:"size:10" json:"birthdate,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}

// QueueCustomer is one walk-in waiting in the day queue.
type QueueCustomer struct {
	ID         int64     `gorm:"primaryKey" json:"id,string"`
	CustomerId int64     `gorm:"index" json:"customerId,string"`
	Name       string    `gorm:"size:128" json:"name"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (QueueCustomer) TableName() string {
	return "queue_customers"
}
