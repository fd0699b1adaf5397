package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openmicroshop/commerce-backend/internal/http/response"
	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/services"
)

type StoreHandler struct {
	storeService services.StoreService
}

func NewStoreHandler(storeService services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

type createStoreRequest struct {
	Name     string `json:"name"`
	UserProp int64  `json:"user_prop"`
}

type updateStoreRequest struct {
	Name     *string `json:"name"`
	UserProp *int64  `json:"user_prop"`
}

type attachStoreProductRequest struct {
	ProductID int64   `json:"product_id"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

// GET /api/stores
func (sh *StoreHandler) List(c *gin.Context) {
	stores, err := sh.storeService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stores": stores})
}

// GET /api/stores/:id
func (sh *StoreHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store, err := sh.storeService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"store": store})
}

// POST /api/stores
func (sh *StoreHandler) Create(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	store, err := sh.storeService.Create(c.Request.Context(), services.CreateStoreInput{
		Name:     req.Name,
		UserProp: req.UserProp,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "Store added successfully", "store": store})
}

// PUT /api/stores/:id
func (sh *StoreHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	store, err := sh.storeService.Update(c.Request.Context(), id, services.UpdateStoreInput{
		Name:     req.Name,
		UserProp: req.UserProp,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Store updated successfully", "store": store})
}

// DELETE /api/stores/:id
func (sh *StoreHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := sh.storeService.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Store deleted successfully"})
}

// GET /api/stores/:id/products
func (sh *StoreHandler) ListProducts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	products, err := sh.storeService.ListProducts(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"products": products})
}

// POST /api/stores/:id/products
func (sh *StoreHandler) AttachProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req attachStoreProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	sp, err := sh.storeService.AttachProduct(c.Request.Context(), id, services.AttachStoreProductInput{
		ProductID: req.ProductID,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "Product attached successfully", "store_product": sp})
}

// DELETE /api/stores/:id/products/:product_id
func (sh *StoreHandler) DetachProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	productID, ok := parseID(c, "product_id")
	if !ok {
		return
	}
	if err := sh.storeService.DetachProduct(c.Request.Context(), id, productID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Product detached successfully"})
}
