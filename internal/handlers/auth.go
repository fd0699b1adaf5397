package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openmicroshop/commerce-backend/internal/http/response"
	"github.com/openmicroshop/commerce-backend/internal/middleware"
	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	user, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "User registered successfully", "user": user})
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	pair, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /api/auth/refresh
func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	pair, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// GET /api/auth/verify
func (ah *AuthHandler) Verify(c *gin.Context) {
	claims, err := ah.authService.Verify(c.Request.Context(), middleware.ExtractBearer(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_id": claims.UserID, "email": claims.Email})
}

// POST /api/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Get(middleware.ContextTokenKey)
	tokenString, _ := token.(string)
	if err := ah.authService.Logout(c.Request.Context(), tokenString); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Logged out successfully"})
}
