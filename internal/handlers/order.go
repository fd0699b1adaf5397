package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openmicroshop/commerce-backend/internal/http/response"
	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/services"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type orderLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type createOrderRequest struct {
	UserID     int64              `json:"user_id"`
	Products   []orderLineRequest `json:"products"`
	TotalPrice float64            `json:"total_price"`
}

type updateOrderRequest struct {
	UserID     *int64              `json:"user_id"`
	Products   *[]orderLineRequest `json:"products"`
	TotalPrice *float64            `json:"total_price"`
}

func toOrderLines(reqs []orderLineRequest) []services.OrderLineInput {
	lines := make([]services.OrderLineInput, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, services.OrderLineInput{ProductID: r.ProductID, Quantity: r.Quantity})
	}
	return lines
}

// GET /api/orders
func (oh *OrderHandler) List(c *gin.Context) {
	orders, err := oh.orderService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"orders": orders})
}

// GET /api/orders/:id
func (oh *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := oh.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order})
}

// POST /api/orders
func (oh *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	order, err := oh.orderService.Create(c.Request.Context(), services.CreateOrderInput{
		UserID:     req.UserID,
		Products:   toOrderLines(req.Products),
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "Order created successfully", "order": order})
}

// PUT /api/orders/:id
func (oh *OrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Invalid("invalid_body", err))
		return
	}
	input := services.UpdateOrderInput{
		UserID:     req.UserID,
		TotalPrice: req.TotalPrice,
	}
	if req.Products != nil {
		lines := toOrderLines(*req.Products)
		input.Products = &lines
	}
	order, err := oh.orderService.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Order updated successfully", "order": order})
}

// DELETE /api/orders/:id
func (oh *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := oh.orderService.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Order deleted successfully"})
}
