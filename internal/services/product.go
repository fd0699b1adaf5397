package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type CreateProductInput struct {
	Name     string
	Price    float64
	Quantity int64
}

type UpdateProductInput struct {
	Name     *string
	Price    *float64
	Quantity *int64
}

type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*types.Product, error)
	GetByID(ctx context.Context, id int64) (*types.Product, error)
	List(ctx context.Context) ([]*types.Product, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*types.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
}

func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo) ProductService {
	return &productService{db: db, log: log.With("service", "ProductService"), productRepo: productRepo}
}

func (ps *productService) Create(ctx context.Context, input CreateProductInput) (*types.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.Invalid("missing_fields", fmt.Errorf("name is required"))
	}
	if input.Price < 0 {
		return nil, apierr.Invalid("invalid_price", fmt.Errorf("price must not be negative"))
	}
	if input.Quantity < 0 {
		return nil, apierr.Invalid("invalid_quantity", fmt.Errorf("quantity must not be negative"))
	}

	product := &types.Product{Name: name, Price: input.Price, Quantity: input.Quantity}
	if _, err := ps.productRepo.Create(ctx, nil, product); err != nil {
		return nil, apierr.Internal(err)
	}
	ps.log.Info("Product created", "product_id", product.ID)
	return product, nil
}

func (ps *productService) GetByID(ctx context.Context, id int64) (*types.Product, error) {
	product, err := ps.productRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err, "product_not_found")
	}
	return product, nil
}

func (ps *productService) List(ctx context.Context) ([]*types.Product, error) {
	products, err := ps.productRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return products, nil
}

func (ps *productService) Update(ctx context.Context, id int64, input UpdateProductInput) (*types.Product, error) {
	product, err := ps.productRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err, "product_not_found")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apierr.Invalid("invalid_name", fmt.Errorf("name must not be empty"))
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apierr.Invalid("invalid_price", fmt.Errorf("price must not be negative"))
		}
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, apierr.Invalid("invalid_quantity", fmt.Errorf("quantity must not be negative"))
		}
		product.Quantity = *input.Quantity
	}

	if _, err := ps.productRepo.Update(ctx, nil, product); err != nil {
		return nil, apierr.Internal(err)
	}
	return product, nil
}

func (ps *productService) Delete(ctx context.Context, id int64) error {
	rows, err := ps.productRepo.Delete(ctx, nil, id)
	if err != nil {
		return apierr.Internal(err)
	}
	if rows == 0 {
		return apierr.NotFound("product_not_found", fmt.Errorf("product %d not found", id))
	}
	// Carts and orders referencing this product keep stale references;
	// accepted risk, no cascade across services.
	ps.log.Info("Product deleted", "product_id", id)
	return nil
}
