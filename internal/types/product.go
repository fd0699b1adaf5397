package types

import (
	"time"
)

type Product struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Price     float64   `gorm:"not null;column:price" json:"price"`
	Quantity  int64     `gorm:"not null;default:0;column:quantity" json:"quantity"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
