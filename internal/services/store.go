package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/refcheck"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type CreateStoreInput struct {
	Name     string
	UserProp int64
}

type UpdateStoreInput struct {
	Name     *string
	UserProp *int64
}

type AttachStoreProductInput struct {
	ProductID int64
	Price     float64
	Quantity  int64
}

type StoreService interface {
	Create(ctx context.Context, input CreateStoreInput) (*types.Store, error)
	GetByID(ctx context.Context, id int64) (*types.Store, error)
	List(ctx context.Context) ([]*types.Store, error)
	Update(ctx context.Context, id int64, input UpdateStoreInput) (*types.Store, error)
	Delete(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, storeID int64) ([]*types.StoreProduct, error)
	AttachProduct(ctx context.Context, storeID int64, input AttachStoreProductInput) (*types.StoreProduct, error)
	DetachProduct(ctx context.Context, storeID, productID int64) error
}

type storeService struct {
	db               *gorm.DB
	log              *logger.Logger
	storeRepo        repos.StoreRepo
	storeProductRepo repos.StoreProductRepo
	validator        *refcheck.Validator
}

func NewStoreService(
	db *gorm.DB,
	log *logger.Logger,
	storeRepo repos.StoreRepo,
	storeProductRepo repos.StoreProductRepo,
	validator *refcheck.Validator,
) StoreService {
	return &storeService{
		db:               db,
		log:              log.With("service", "StoreService"),
		storeRepo:        storeRepo,
		storeProductRepo: storeProductRepo,
		validator:        validator,
	}
}

func (ss *storeService) Create(ctx context.Context, input CreateStoreInput) (*types.Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.UserProp <= 0 {
		return nil, apierr.Invalid("missing_fields", fmt.Errorf("name and user_prop are required"))
	}

	res := ss.validator.Validate(ctx, []refcheck.Ref{{Kind: "user", ID: input.UserProp}})
	if !res.Accepted() {
		return nil, refResultErr(res)
	}

	store := &types.Store{Name: name, UserProp: input.UserProp}
	if _, err := ss.storeRepo.Create(ctx, nil, store); err != nil {
		return nil, apierr.Internal(err)
	}
	ss.log.Info("Store created", "store_id", store.ID, "owner", store.UserProp)
	return store, nil
}

func (ss *storeService) GetByID(ctx context.Context, id int64) (*types.Store, error) {
	store, err := ss.storeRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err, "store_not_found")
	}
	return store, nil
}

func (ss *storeService) List(ctx context.Context) ([]*types.Store, error) {
	stores, err := ss.storeRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return stores, nil
}

func (ss *storeService) Update(ctx context.Context, id int64, input UpdateStoreInput) (*types.Store, error) {
	store, err := ss.storeRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err, "store_not_found")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apierr.Invalid("invalid_name", fmt.Errorf("name must not be empty"))
		}
		store.Name = strings.TrimSpace(*input.Name)
	}
	// Only a changed owner reference re-enters validation; updates that
	// touch no foreign key make no remote calls.
	if input.UserProp != nil && *input.UserProp != store.UserProp {
		if *input.UserProp <= 0 {
			return nil, apierr.Invalid("invalid_user_prop", fmt.Errorf("user_prop must be positive"))
		}
		res := ss.validator.Validate(ctx, []refcheck.Ref{{Kind: "user", ID: *input.UserProp}})
		if !res.Accepted() {
			return nil, refResultErr(res)
		}
		store.UserProp = *input.UserProp
	}

	if _, err := ss.storeRepo.Update(ctx, nil, store); err != nil {
		return nil, apierr.Internal(err)
	}
	return store, nil
}

func (ss *storeService) Delete(ctx context.Context, id int64) error {
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := ss.storeRepo.Delete(ctx, tx, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if rows == 0 {
			return apierr.NotFound("store_not_found", fmt.Errorf("store %d not found", id))
		}
		// The store's own product rows go with it; both tables belong to
		// this service, so one local transaction covers them.
		if err := ss.storeProductRepo.DeleteByStoreID(ctx, tx, id); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return apierr.From(err)
	}
	ss.log.Info("Store deleted", "store_id", id)
	return nil
}

func (ss *storeService) ListProducts(ctx context.Context, storeID int64) ([]*types.StoreProduct, error) {
	if _, err := ss.storeRepo.GetByID(ctx, nil, storeID); err != nil {
		return nil, storeErr(err, "store_not_found")
	}
	products, err := ss.storeProductRepo.ListByStoreID(ctx, nil, storeID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return products, nil
}

func (ss *storeService) AttachProduct(ctx context.Context, storeID int64, input AttachStoreProductInput) (*types.StoreProduct, error) {
	if input.ProductID <= 0 {
		return nil, apierr.Invalid("missing_fields", fmt.Errorf("product_id is required"))
	}
	if input.Price < 0 {
		return nil, apierr.Invalid("invalid_price", fmt.Errorf("price must not be negative"))
	}
	if input.Quantity < 0 {
		return nil, apierr.Invalid("invalid_quantity", fmt.Errorf("quantity must not be negative"))
	}

	if _, err := ss.storeRepo.GetByID(ctx, nil, storeID); err != nil {
		return nil, storeErr(err, "store_not_found")
	}

	res := ss.validator.Validate(ctx, []refcheck.Ref{{Kind: "product", ID: input.ProductID}})
	if !res.Accepted() {
		return nil, refResultErr(res)
	}

	var out *types.StoreProduct
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ss.storeProductRepo.GetByStoreAndProduct(ctx, tx, storeID, input.ProductID)
		if err == nil {
			existing.Price = input.Price
			existing.Quantity = input.Quantity
			out, err = ss.storeProductRepo.Update(ctx, tx, existing)
			return err
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		sp := &types.StoreProduct{
			StoreID:   storeID,
			ProductID: input.ProductID,
			Price:     input.Price,
			Quantity:  input.Quantity,
		}
		out, err = ss.storeProductRepo.Create(ctx, tx, sp)
		return err
	})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return out, nil
}

func (ss *storeService) DetachProduct(ctx context.Context, storeID, productID int64) error {
	if _, err := ss.storeRepo.GetByID(ctx, nil, storeID); err != nil {
		return storeErr(err, "store_not_found")
	}
	rows, err := ss.storeProductRepo.DeleteByStoreAndProduct(ctx, nil, storeID, productID)
	if err != nil {
		return apierr.Internal(err)
	}
	if rows == 0 {
		return apierr.NotFound("store_product_not_found", fmt.Errorf("product %d not attached to store %d", productID, storeID))
	}
	return nil
}
