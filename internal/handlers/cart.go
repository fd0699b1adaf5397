package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openmicroshop/commerce-backend/internal/http/response"
	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/services"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// GET /api/carts/:user_id
func (ch *CartHandler) Get(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	cart, err := ch.cartService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cart": cart})
}

// POST /api/carts/:user_id/items
func (ch *CartHandler) AddItem(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	cart, err := ch.cartService.AddItem(c.Request.Context(), userID, services.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"cart": cart})
}

// DELETE /api/carts/:user_id/items/:item_id
func (ch *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	cart, err := ch.cartService.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cart": cart})
}
