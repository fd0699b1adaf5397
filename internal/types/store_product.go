package types

import (
	"time"
)

type StoreProduct struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID   int64     `gorm:"index;not null;column:store_id" json:"store_id"`
	ProductID int64     `gorm:"index;not null;column:product_id" json:"product_id"`
	Price     float64   `gorm:"not null;column:price" json:"price"`
	Quantity  int64     `gorm:"not null;default:0;column:quantity" json:"quantity"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StoreProduct) TableName() string {
	return "store_products"
}
