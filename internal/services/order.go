package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/refcheck"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type OrderLineInput struct {
	ProductID int64
	Quantity  int64
}

type CreateOrderInput struct {
	UserID     int64
	Products   []OrderLineInput
	TotalPrice float64
}

type UpdateOrderInput struct {
	UserID     *int64
	Products   *[]OrderLineInput
	TotalPrice *float64
}

type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*types.Order, error)
	GetByID(ctx context.Context, id int64) (*types.Order, error)
	List(ctx context.Context) ([]*types.Order, error)
	Update(ctx context.Context, id int64, input UpdateOrderInput) (*types.Order, error)
	Delete(ctx context.Context, id int64) error
}

// orderService coordinates the order aggregate: structural checks first
// (local, no remote calls), then every foreign reference through the
// validator, and only on full acceptance one local transaction writing the
// order row and then its lines. Remote calls never happen inside the
// transaction.
type orderService struct {
	db               *gorm.DB
	log              *logger.Logger
	orderRepo        repos.OrderRepo
	orderProductRepo repos.OrderProductRepo
	validator        *refcheck.Validator
}

func NewOrderService(
	db *gorm.DB,
	log *logger.Logger,
	orderRepo repos.OrderRepo,
	orderProductRepo repos.OrderProductRepo,
	validator *refcheck.Validator,
) OrderService {
	return &orderService{
		db:               db,
		log:              log.With("service", "OrderService"),
		orderRepo:        orderRepo,
		orderProductRepo: orderProductRepo,
		validator:        validator,
	}
}

func orderLineRefs(userID *int64, lines []OrderLineInput) []refcheck.Ref {
	refs := make([]refcheck.Ref, 0, len(lines)+1)
	if userID != nil {
		refs = append(refs, refcheck.Ref{Kind: "user", ID: *userID})
	}
	for _, line := range lines {
		refs = append(refs, refcheck.Ref{Kind: "product", ID: line.ProductID})
	}
	return refs
}

func validateOrderLines(lines []OrderLineInput) error {
	if len(lines) == 0 {
		return apierr.Invalid("missing_products", fmt.Errorf("at least one product is required"))
	}
	for _, line := range lines {
		if line.ProductID <= 0 {
			return apierr.Invalid("invalid_product_id", fmt.Errorf("product_id must be positive"))
		}
		if line.Quantity <= 0 {
			return apierr.Invalid("invalid_quantity", fmt.Errorf("quantity must be positive"))
		}
	}
	return nil
}

func (os *orderService) Create(ctx context.Context, input CreateOrderInput) (*types.Order, error) {
	if input.UserID <= 0 {
		return nil, apierr.Invalid("missing_user_id", fmt.Errorf("user_id is required"))
	}
	if input.TotalPrice < 0 {
		return nil, apierr.Invalid("invalid_total_price", fmt.Errorf("total_price must not be negative"))
	}
	if err := validateOrderLines(input.Products); err != nil {
		return nil, err
	}

	res := os.validator.Validate(ctx, orderLineRefs(&input.UserID, input.Products))
	if !res.Accepted() {
		return nil, refResultErr(res)
	}

	var order *types.Order
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order = &types.Order{UserID: input.UserID, TotalPrice: input.TotalPrice}
		if _, err := os.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		// Children only after the parent id exists.
		lines := make([]*types.OrderProduct, 0, len(input.Products))
		for _, line := range input.Products {
			lines = append(lines, &types.OrderProduct{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		created, err := os.orderProductRepo.CreateBatch(ctx, tx, lines)
		if err != nil {
			return err
		}
		for _, l := range created {
			order.Products = append(order.Products, *l)
		}
		return nil
	})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	os.log.Info("Order created", "order_id", order.ID, "user_id", order.UserID, "lines", len(order.Products))
	return order, nil
}

func (os *orderService) GetByID(ctx context.Context, id int64) (*types.Order, error) {
	order, err := os.orderRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err, "order_not_found")
	}
	return order, nil
}

func (os *orderService) List(ctx context.Context) ([]*types.Order, error) {
	orders, err := os.orderRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return orders, nil
}

func (os *orderService) Update(ctx context.Context, id int64, input UpdateOrderInput) (*types.Order, error) {
	order, err := os.orderRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err, "order_not_found")
	}

	if input.UserID != nil && *input.UserID <= 0 {
		return nil, apierr.Invalid("invalid_user_id", fmt.Errorf("user_id must be positive"))
	}
	if input.TotalPrice != nil && *input.TotalPrice < 0 {
		return nil, apierr.Invalid("invalid_total_price", fmt.Errorf("total_price must not be negative"))
	}
	if input.Products != nil {
		if err := validateOrderLines(*input.Products); err != nil {
			return nil, err
		}
	}

	// Revalidate only the references this mutation introduces.
	var refs []refcheck.Ref
	if input.UserID != nil && *input.UserID != order.UserID {
		refs = append(refs, refcheck.Ref{Kind: "user", ID: *input.UserID})
	}
	if input.Products != nil {
		refs = append(refs, orderLineRefs(nil, *input.Products)...)
	}
	if len(refs) > 0 {
		res := os.validator.Validate(ctx, refs)
		if !res.Accepted() {
			return nil, refResultErr(res)
		}
	}

	err = os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.UserID != nil {
			order.UserID = *input.UserID
		}
		if input.TotalPrice != nil {
			order.TotalPrice = *input.TotalPrice
		}
		if _, err := os.orderRepo.Update(ctx, tx, order); err != nil {
			return err
		}
		if input.Products != nil {
			if err := os.orderProductRepo.DeleteByOrderID(ctx, tx, order.ID); err != nil {
				return err
			}
			lines := make([]*types.OrderProduct, 0, len(*input.Products))
			for _, line := range *input.Products {
				lines = append(lines, &types.OrderProduct{
					OrderID:   order.ID,
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
				})
			}
			created, err := os.orderProductRepo.CreateBatch(ctx, tx, lines)
			if err != nil {
				return err
			}
			order.Products = order.Products[:0]
			for _, l := range created {
				order.Products = append(order.Products, *l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return order, nil
}

func (os *orderService) Delete(ctx context.Context, id int64) error {
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := os.orderRepo.Delete(ctx, tx, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if rows == 0 {
			return apierr.NotFound("order_not_found", fmt.Errorf("order %d not found", id))
		}
		if err := os.orderProductRepo.DeleteByOrderID(ctx, tx, id); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return apierr.From(err)
	}
	os.log.Info("Order deleted", "order_id", id)
	return nil
}
