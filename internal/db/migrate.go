package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/types"
)

// Tables each service migrates at start. A service never migrates (or
// touches) another service's tables.
var (
	UsersModels    = []any{&types.User{}}
	ProductsModels = []any{&types.Product{}}
	StoresModels   = []any{&types.Store{}, &types.StoreProduct{}}
	OrdersModels   = []any{&types.Order{}, &types.OrderProduct{}}
	CartsModels    = []any{&types.Cart{}, &types.CartItem{}}
	AuthModels     = []any{&types.User{}, &types.UserToken{}}
)

func AutoMigrate(gdb *gorm.DB, models []any) error {
	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
