package types

import (
	"time"
)

// Store.UserProp is a weak reference into the users service. It is validated
// remotely at write time and never dereferenced locally.
type Store struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	UserProp  int64     `gorm:"index;not null;column:user_prop" json:"user_prop"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}
