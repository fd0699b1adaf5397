package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/refcheck"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

type CartService interface {
	GetByUser(ctx context.Context, userID int64) (*types.Cart, error)
	AddItem(ctx context.Context, userID int64, input AddCartItemInput) (*types.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID int64) (*types.Cart, error)
}

type cartService struct {
	db           *gorm.DB
	log          *logger.Logger
	cartRepo     repos.CartRepo
	cartItemRepo repos.CartItemRepo
	validator    *refcheck.Validator
}

func NewCartService(
	db *gorm.DB,
	log *logger.Logger,
	cartRepo repos.CartRepo,
	cartItemRepo repos.CartItemRepo,
	validator *refcheck.Validator,
) CartService {
	return &cartService{
		db:           db,
		log:          log.With("service", "CartService"),
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		validator:    validator,
	}
}

func (cs *cartService) GetByUser(ctx context.Context, userID int64) (*types.Cart, error) {
	res := cs.validator.Validate(ctx, []refcheck.Ref{{Kind: "user", ID: userID}})
	if !res.Accepted() {
		return nil, refResultErr(res)
	}

	cart, err := cs.cartRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, storeErr(err, "cart_not_found")
	}
	return cs.withItems(ctx, nil, cart)
}

// AddItem validates both references first, then runs the mutation under a
// row lock on the cart so that two concurrent adds for the same cart
// serialize their read-modify-write of the item list. Adding a product that
// is already in the cart sums the quantities into the existing line.
func (cs *cartService) AddItem(ctx context.Context, userID int64, input AddCartItemInput) (*types.Cart, error) {
	if input.ProductID <= 0 {
		return nil, apierr.Invalid("missing_product_id", fmt.Errorf("product_id is required"))
	}
	if input.Quantity <= 0 {
		return nil, apierr.Invalid("invalid_quantity", fmt.Errorf("quantity must be positive"))
	}

	res := cs.validator.Validate(ctx, []refcheck.Ref{
		{Kind: "user", ID: userID},
		{Kind: "product", ID: input.ProductID},
	})
	if !res.Accepted() {
		return nil, refResultErr(res)
	}

	var cart *types.Cart
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = cs.cartRepo.GetByUserIDForUpdate(ctx, tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart, err = cs.cartRepo.Create(ctx, tx, &types.Cart{UserID: userID})
		}
		if err != nil {
			return err
		}

		item, err := cs.cartItemRepo.GetByCartAndProduct(ctx, tx, cart.ID, input.ProductID)
		switch {
		case err == nil:
			item.Quantity += input.Quantity
			_, err = cs.cartItemRepo.Update(ctx, tx, item)
		case errors.Is(err, gorm.ErrRecordNotFound):
			_, err = cs.cartItemRepo.Create(ctx, tx, &types.CartItem{
				CartID:    cart.ID,
				ProductID: input.ProductID,
				Quantity:  input.Quantity,
			})
		}
		return err
	})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	cs.log.Info("Cart item added", "user_id", userID, "product_id", input.ProductID)
	return cs.withItems(ctx, nil, cart)
}

func (cs *cartService) RemoveItem(ctx context.Context, userID, itemID int64) (*types.Cart, error) {
	res := cs.validator.Validate(ctx, []refcheck.Ref{{Kind: "user", ID: userID}})
	if !res.Accepted() {
		return nil, refResultErr(res)
	}

	cart, err := cs.cartRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, storeErr(err, "cart_not_found")
	}

	rows, err := cs.cartItemRepo.DeleteByCartAndID(ctx, nil, cart.ID, itemID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if rows == 0 {
		return nil, apierr.NotFound("cart_item_not_found", fmt.Errorf("item %d not in cart of user %d", itemID, userID))
	}
	return cs.withItems(ctx, nil, cart)
}

func (cs *cartService) withItems(ctx context.Context, tx *gorm.DB, cart *types.Cart) (*types.Cart, error) {
	items, err := cs.cartItemRepo.ListByCartID(ctx, tx, cart.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	cart.Items = cart.Items[:0]
	for _, item := range items {
		cart.Items = append(cart.Items, *item)
	}
	return cart, nil
}
