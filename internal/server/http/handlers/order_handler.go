package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	input, ok := toCreateOrderInput(c, req)
	if !ok {
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), orderID, CurrentUserID(c), IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListMine handles GET /api/orders/mine.
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.facade.MyOrders(c.Request.Context(), CurrentUserID(c),
		queryInt(c, "page", 1), queryInt(c, "page_size", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, response)
}

// ListAll handles GET /api/orders (admin only).
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, total, err := h.facade.AllOrders(c.Request.Context(),
		queryInt(c, "page", 1), queryInt(c, "page_size", 0))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{Orders: response, Total: total})
}

// Deliver handles PUT /api/orders/:id/deliver (admin only).
func (h *OrderHandler) Deliver(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.DeliverOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func toCreateOrderInput(c *gin.Context, req dto.CreateOrderRequest) (usecase.CreateOrderInput, bool) {
	shippingPrice, err := parseMoney(req.ShippingPrice)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return usecase.CreateOrderInput{}, false
	}
	taxPrice, err := parseMoney(req.TaxPrice)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return usecase.CreateOrderInput{}, false
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := parseMoney(item.UnitPrice)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return usecase.CreateOrderInput{}, false
		}
		items = append(items, usecase.OrderItemInput{
			ProductRef: item.ProductID,
			Name:       item.Name,
			Image:      item.Image,
			Qty:        item.Qty,
			UnitPrice:  unitPrice,
		})
	}

	return usecase.CreateOrderInput{
		Items:           items,
		ShippingAddress: toShippingAddress(req.ShippingAddress),
		PaymentMethod:   req.PaymentMethod,
		ShippingPrice:   shippingPrice,
		TaxPrice:        taxPrice,
	}, true
}
