package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog service/item offered by the salon.
type Product struct {
	ID          int64           `gorm:"primaryKey" json:"id,string"`
	Name        string          `gorm:"size:128;uniqueIndex" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	Pictures    []string        `gorm:"serializer:json" json:"pictures"`
	CategoryId  int64           `gorm:"index" json:"categoryId,string"`
	Price       decimal.Decimal `gorm:"type:decimal(12,3)" json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// ProductGallery holds the ordered image URLs uploaded for one product.
// Each URL is removable on its own; removal also releases the stored
// image through the image store contract.
type ProductGallery struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	ProductId int64     `gorm:"uniqueIndex" json:"productId,string"`
	Urls      []string  `gorm:"serializer:json" json:"urls"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProductGallery) TableName() string {
	return "product_galleries"
}
