package types

import (
	"time"
)

type OrderProduct struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"index;not null;column:order_id" json:"order_id"`
	ProductID int64     `gorm:"index;not null;column:product_id" json:"product_id"`
	Quantity  int64     `gorm:"not null;column:quantity" json:"quantity"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (OrderProduct) TableName() string {
	return "order_products"
}
