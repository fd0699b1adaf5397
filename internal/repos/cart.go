package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type CartRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cart *types.Cart) (*types.Cart, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.Cart, error)
	// GetByUserIDForUpdate takes a row lock on the cart so that two
	// concurrent item writes against the same cart serialize instead of
	// interleaving their read-modify-write of the item list.
	GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID int64) (*types.Cart, error)
}

type CartItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error)
	GetByCartAndProduct(ctx context.Context, tx *gorm.DB, cartID, productID int64) (*types.CartItem, error)
	ListByCartID(ctx context.Context, tx *gorm.DB, cartID int64) ([]*types.CartItem, error)
	Update(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error)
	DeleteByCartAndID(ctx context.Context, tx *gorm.DB, cartID, itemID int64) (int64, error)
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	return &cartRepo{db: db, log: baseLog.With("repo", "CartRepo")}
}

func (cr *cartRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *cartRepo) Create(ctx context.Context, tx *gorm.DB, cart *types.Cart) (*types.Cart, error) {
	if err := cr.conn(tx).WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (cr *cartRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.Cart, error) {
	var cart types.Cart
	if err := cr.conn(tx).WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (cr *cartRepo) GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID int64) (*types.Cart, error) {
	var cart types.Cart
	if err := cr.conn(tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

type cartItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartItemRepo(db *gorm.DB, baseLog *logger.Logger) CartItemRepo {
	return &cartItemRepo{db: db, log: baseLog.With("repo", "CartItemRepo")}
}

func (cir *cartItemRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cir.db
}

func (cir *cartItemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error) {
	if err := cir.conn(tx).WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (cir *cartItemRepo) GetByCartAndProduct(ctx context.Context, tx *gorm.DB, cartID, productID int64) (*types.CartItem, error) {
	var item types.CartItem
	if err := cir.conn(tx).WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (cir *cartItemRepo) ListByCartID(ctx context.Context, tx *gorm.DB, cartID int64) ([]*types.CartItem, error) {
	var results []*types.CartItem
	if err := cir.conn(tx).WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cir *cartItemRepo) Update(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error) {
	if err := cir.conn(tx).WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (cir *cartItemRepo) DeleteByCartAndID(ctx context.Context, tx *gorm.DB, cartID, itemID int64) (int64, error) {
	res := cir.conn(tx).WithContext(ctx).
		Delete(&types.CartItem{}, "cart_id = ? AND id = ?", cartID, itemID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
