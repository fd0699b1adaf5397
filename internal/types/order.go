package types

import (
	"time"
)

// Order plus its OrderProduct lines form one aggregate: they are written
// together in a single local transaction, parent row first.
type Order struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64          `gorm:"index;not null;column:user_id" json:"user_id"`
	TotalPrice float64        `gorm:"not null;column:total_price" json:"total_price"`
	Products   []OrderProduct `gorm:"foreignKey:OrderID" json:"products"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
