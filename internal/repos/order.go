package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Order, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Order, error)
	Update(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) (int64, error)
}

type OrderProductRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, lines []*types.OrderProduct) ([]*types.OrderProduct, error)
	ListByOrderID(ctx context.Context, tx *gorm.DB, orderID int64) ([]*types.OrderProduct, error)
	DeleteByOrderID(ctx context.Context, tx *gorm.DB, orderID int64) error
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (or *orderRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return or.db
}

func (or *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error) {
	if err := or.conn(tx).WithContext(ctx).Omit("Products").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (or *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Order, error) {
	var order types.Order
	if err := or.conn(tx).WithContext(ctx).
		Preload("Products").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (or *orderRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Order, error) {
	var results []*types.Order
	if err := or.conn(tx).WithContext(ctx).
		Preload("Products").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *orderRepo) Update(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error) {
	if err := or.conn(tx).WithContext(ctx).Omit("Products").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (or *orderRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) (int64, error) {
	res := or.conn(tx).WithContext(ctx).Delete(&types.Order{}, "id = ?", id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

type orderProductRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderProductRepo(db *gorm.DB, baseLog *logger.Logger) OrderProductRepo {
	return &orderProductRepo{db: db, log: baseLog.With("repo", "OrderProductRepo")}
}

func (opr *orderProductRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return opr.db
}

func (opr *orderProductRepo) CreateBatch(ctx context.Context, tx *gorm.DB, lines []*types.OrderProduct) ([]*types.OrderProduct, error) {
	if len(lines) == 0 {
		return []*types.OrderProduct{}, nil
	}
	if err := opr.conn(tx).WithContext(ctx).Create(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (opr *orderProductRepo) ListByOrderID(ctx context.Context, tx *gorm.DB, orderID int64) ([]*types.OrderProduct, error) {
	var results []*types.OrderProduct
	if err := opr.conn(tx).WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (opr *orderProductRepo) DeleteByOrderID(ctx context.Context, tx *gorm.DB, orderID int64) error {
	return opr.conn(tx).WithContext(ctx).
		Delete(&types.OrderProduct{}, "order_id = ?", orderID).Error
}
