package domain

import "time"

// Category groups catalog products. A category with associated products
// cannot be removed.
type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"size:128;uniqueIndex" json:"name"`
	Icon      string    `gorm:"size:256" json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}
