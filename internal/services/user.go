package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*types.User, error)
	GetByID(ctx context.Context, id int64) (*types.User, error)
	List(ctx context.Context) ([]*types.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*types.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{db: db, log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) Create(ctx context.Context, input CreateUserInput) (*types.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, apierr.Invalid("missing_fields", fmt.Errorf("name, email, and password are required"))
	}

	exists, err := us.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if exists {
		return nil, apierr.Conflict("email_taken", fmt.Errorf("email already registered"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	user := &types.User{Name: name, Email: email, Password: string(hashed)}
	if _, err := us.userRepo.Create(ctx, nil, user); err != nil {
		return nil, apierr.Internal(err)
	}
	us.log.Info("User created", "user_id", user.ID)
	return user, nil
}

func (us *userService) GetByID(ctx context.Context, id int64) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err, "user_not_found")
	}
	return user, nil
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	users, err := us.userRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return users, nil
}

func (us *userService) Update(ctx context.Context, id int64, input UpdateUserInput) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err, "user_not_found")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apierr.Invalid("invalid_name", fmt.Errorf("name must not be empty"))
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apierr.Invalid("invalid_email", fmt.Errorf("email must not be empty"))
		}
		if email != user.Email {
			exists, err := us.userRepo.EmailExists(ctx, nil, email)
			if err != nil {
				return nil, apierr.Internal(err)
			}
			if exists {
				return nil, apierr.Conflict("email_taken", fmt.Errorf("email already registered"))
			}
		}
		user.Email = email
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, apierr.Invalid("invalid_password", fmt.Errorf("password must not be empty"))
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		user.Password = string(hashed)
	}

	if _, err := us.userRepo.Update(ctx, nil, user); err != nil {
		return nil, apierr.Internal(err)
	}
	return user, nil
}

func (us *userService) Delete(ctx context.Context, id int64) error {
	rows, err := us.userRepo.Delete(ctx, nil, id)
	if err != nil {
		return apierr.Internal(err)
	}
	if rows == 0 {
		return apierr.NotFound("user_not_found", fmt.Errorf("user %d not found", id))
	}
	// Peers holding this user's id keep a stale reference from here on;
	// deletes never cascade across services.
	us.log.Info("User deleted", "user_id", id)
	return nil
}
