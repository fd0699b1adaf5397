package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/tokencache"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type TokenClaims struct {
	UserID int64
	Email  string
	JTI    string
	Expiry time.Time
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Verify(ctx context.Context, tokenString string) (*TokenClaims, error)
	Logout(ctx context.Context, tokenString string) error
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	cache         tokencache.Cache
	jwtSecret     string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	cache tokencache.Cache,
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		cache:         cache,
		jwtSecret:     jwtSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (*types.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, apierr.Invalid("missing_fields", fmt.Errorf("name, email, and password are required"))
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
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
	if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
		return nil, apierr.Internal(err)
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierr.Invalid("missing_fields", fmt.Errorf("email and password are required"))
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid email or password"))
		}
		return nil, apierr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid email or password"))
	}

	pair, err := as.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	as.log.Info("User logged in", "user_id", user.ID)
	return pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apierr.Invalid("missing_refresh_token", fmt.Errorf("refresh_token is required"))
	}

	stored, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("invalid_refresh_token", fmt.Errorf("unknown refresh token"))
		}
		return nil, apierr.Internal(err)
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return nil, apierr.Unauthorized("refresh_token_expired", fmt.Errorf("refresh token expired"))
	}

	user, err := as.userRepo.GetByID(ctx, nil, stored.UserID)
	if err != nil {
		return nil, storeErr(err, "user_not_found")
	}
	return as.issueTokens(ctx, user)
}

// issueTokens rotates the refresh token: old rows for the user go away and
// one fresh row is written with the new access token, all in one local
// transaction.
func (as *authService) issueTokens(ctx context.Context, user *types.User) (*TokenPair, error) {
	now := time.Now()
	expiresAt := now.Add(as.accessTTL)

	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"jti":   uuid.New().String(),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(as.jwtSecret))
	if err != nil {
		return nil, apierr.Internal(err)
	}

	refreshToken := uuid.New().String()
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return err
		}
		_, err := as.userTokenRepo.Create(ctx, tx, &types.UserToken{
			UserID:       user.ID,
			RefreshToken: refreshToken,
			ExpiresAt:    now.Add(as.refreshTTL),
		})
		return err
	})
	if err != nil {
		return nil, apierr.Internal(err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (as *authService) Verify(ctx context.Context, tokenString string) (*TokenClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, apierr.Unauthorized("missing_token", fmt.Errorf("missing bearer token"))
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierr.Unauthorized("invalid_token", fmt.Errorf("invalid or expired token"))
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierr.Unauthorized("invalid_token", fmt.Errorf("unexpected claims shape"))
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		fmt.Sscanf(sub, "%d", &out.UserID)
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if jti, ok := claims["jti"].(string); ok {
		out.JTI = jti
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Expiry = exp.Time
	}

	if out.JTI != "" {
		revoked, err := as.cache.IsRevoked(ctx, out.JTI)
		if err != nil {
			// The revocation set being down does not invalidate a
			// well-signed token; log and continue.
			as.log.Warn("Revocation check failed", "error", err)
		} else if revoked {
			return nil, apierr.Unauthorized("token_revoked", fmt.Errorf("token has been revoked"))
		}
	}
	return out, nil
}

func (as *authService) Logout(ctx context.Context, tokenString string) error {
	claims, err := as.Verify(ctx, tokenString)
	if err != nil {
		return err
	}

	if claims.JTI != "" {
		ttl := time.Until(claims.Expiry)
		if err := as.cache.Revoke(ctx, claims.JTI, ttl); err != nil {
			as.log.Warn("Token revocation failed", "error", err)
		}
	}
	if err := as.userTokenRepo.DeleteByUserID(ctx, nil, claims.UserID); err != nil {
		return apierr.Internal(err)
	}
	as.log.Info("User logged out", "user_id", claims.UserID)
	return nil
}
