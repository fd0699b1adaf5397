package types

import (
	"time"
)

type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"index;not null;column:cart_id" json:"cart_id"`
	ProductID int64     `gorm:"index;not null;column:product_id" json:"product_id"`
	Quantity  int64     `gorm:"not null;column:quantity" json:"quantity"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
