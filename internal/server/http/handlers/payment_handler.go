package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// PaymentHandler manages the checkout payment endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Intent handles POST /api/payments/intent.
func (h *PaymentHandler) Intent(c *gin.Context) {
	var req dto.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID < 1 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainErrors.Code(domainErrors.ErrValidation),
			Message: "order_id is required",
		})
		return
	}

	intent, err := h.facade.RequestPaymentIntent(c.Request.Context(), req.OrderID, CurrentUserID(c), IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PaymentIntentResponse{
		GatewayOrderID: intent.GatewayOrderID,
		Amount:         intent.Amount,
		Currency:       intent.Currency,
		Receipt:        intent.ReceiptRef,
	})
}

// Validate handles POST /api/payments/validate. The signature is
// recomputed server-side; the client's claim of success carries no weight.
func (h *PaymentHandler) Validate(c *gin.Context) {
	var req dto.PaymentConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID < 1 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainErrors.Code(domainErrors.ErrValidation),
			Message: "order_id is required",
		})
		return
	}

	order, err := h.facade.ConfirmPayment(c.Request.Context(), req.OrderID, CurrentUserID(c), IsAdmin(c), model.PaymentConfirmation{
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
