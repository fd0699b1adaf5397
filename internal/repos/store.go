package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type StoreRepo interface {
	Create(ctx context.Context, tx *gorm.DB, store *types.Store) (*types.Store, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Store, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Store, error)
	Update(ctx context.Context, tx *gorm.DB, store *types.Store) (*types.Store, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) (int64, error)
}

type StoreProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sp *types.StoreProduct) (*types.StoreProduct, error)
	GetByStoreAndProduct(ctx context.Context, tx *gorm.DB, storeID, productID int64) (*types.StoreProduct, error)
	ListByStoreID(ctx context.Context, tx *gorm.DB, storeID int64) ([]*types.StoreProduct, error)
	Update(ctx context.Context, tx *gorm.DB, sp *types.StoreProduct) (*types.StoreProduct, error)
	DeleteByStoreAndProduct(ctx context.Context, tx *gorm.DB, storeID, productID int64) (int64, error)
	DeleteByStoreID(ctx context.Context, tx *gorm.DB, storeID int64) error
}

type storeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoreRepo(db *gorm.DB, baseLog *logger.Logger) StoreRepo {
	return &storeRepo{db: db, log: baseLog.With("repo", "StoreRepo")}
}

func (sr *storeRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *storeRepo) Create(ctx context.Context, tx *gorm.DB, store *types.Store) (*types.Store, error) {
	if err := sr.conn(tx).WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

func (sr *storeRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Store, error) {
	var store types.Store
	if err := sr.conn(tx).WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (sr *storeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Store, error) {
	var results []*types.Store
	if err := sr.conn(tx).WithContext(ctx).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *storeRepo) Update(ctx context.Context, tx *gorm.DB, store *types.Store) (*types.Store, error) {
	if err := sr.conn(tx).WithContext(ctx).Save(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

func (sr *storeRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) (int64, error) {
	res := sr.conn(tx).WithContext(ctx).Delete(&types.Store{}, "id = ?", id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

type storeProductRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoreProductRepo(db *gorm.DB, baseLog *logger.Logger) StoreProductRepo {
	return &storeProductRepo{db: db, log: baseLog.With("repo", "StoreProductRepo")}
}

func (spr *storeProductRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return spr.db
}

func (spr *storeProductRepo) Create(ctx context.Context, tx *gorm.DB, sp *types.StoreProduct) (*types.StoreProduct, error) {
	if err := spr.conn(tx).WithContext(ctx).Create(sp).Error; err != nil {
		return nil, err
	}
	return sp, nil
}

func (spr *storeProductRepo) GetByStoreAndProduct(ctx context.Context, tx *gorm.DB, storeID, productID int64) (*types.StoreProduct, error) {
	var sp types.StoreProduct
	if err := spr.conn(tx).WithContext(ctx).
		First(&sp, "store_id = ? AND product_id = ?", storeID, productID).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

func (spr *storeProductRepo) ListByStoreID(ctx context.Context, tx *gorm.DB, storeID int64) ([]*types.StoreProduct, error) {
	var results []*types.StoreProduct
	if err := spr.conn(tx).WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (spr *storeProductRepo) Update(ctx context.Context, tx *gorm.DB, sp *types.StoreProduct) (*types.StoreProduct, error) {
	if err := spr.conn(tx).WithContext(ctx).Save(sp).Error; err != nil {
		return nil, err
	}
	return sp, nil
}

func (spr *storeProductRepo) DeleteByStoreAndProduct(ctx context.Context, tx *gorm.DB, storeID, productID int64) (int64, error) {
	res := spr.conn(tx).WithContext(ctx).
		Delete(&types.StoreProduct{}, "store_id = ? AND product_id = ?", storeID, productID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (spr *storeProductRepo) DeleteByStoreID(ctx context.Context, tx *gorm.DB, storeID int64) error {
	return spr.conn(tx).WithContext(ctx).
		Delete(&types.StoreProduct{}, "store_id = ?", storeID).Error
}
