package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/adapter/payment"
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// IsAdmin reports whether the authenticated user carries the admin capability.
func IsAdmin(c *gin.Context) bool {
	val, ok := c.Get(middleware.IsAdminContextKey)
	if !ok {
		return false
	}
	admin, _ := val.(bool)
	return admin
}

func respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), dto.ErrorResponse{
		Code:    domainErrors.Code(err),
		Message: err.Error(),
	})
}

func statusOf(err error) int {
	var gatewayErr *payment.GatewayError
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists),
		errors.Is(err, domainErrors.ErrAlreadyPaid),
		errors.Is(err, domainErrors.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrSignatureMismatch):
		return http.StatusUnprocessableEntity
	case errors.As(err, &gatewayErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainErrors.Code(domainErrors.ErrValidation),
			Message: "malformed identifier",
		})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseMoney(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func toUserResponse(user *model.User, token string) dto.UserResponse {
	return dto.UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	}
}

func toProductResponse(product *model.Product) dto.ProductResponse {
	reviews := make([]dto.ReviewResponse, 0, len(product.Reviews))
	for _, r := range product.Reviews {
		reviews = append(reviews, dto.ReviewResponse{
			UserID:    r.UserID,
			UserName:  r.UserName,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return dto.ProductResponse{
		ID:           product.ID,
		Name:         product.Name,
		Image:        product.Image,
		Brand:        product.Brand,
		Category:     product.Category,
		Description:  product.Description,
		Price:        product.Price.StringFixed(2),
		CountInStock: product.CountInStock,
		Rating:       product.Rating,
		NumReviews:   product.NumReviews,
		Reviews:      reviews,
		CreatedAt:    product.CreatedAt,
	}
}

func toShippingAddress(payload dto.ShippingAddressPayload) model.ShippingAddress {
	return model.ShippingAddress{
		Address:    payload.Address,
		City:       payload.City,
		PostalCode: payload.PostalCode,
		Country:    payload.Country,
	}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductRef,
			Name:      item.Name,
			Image:     item.Image,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return dto.OrderResponse{
		ID:     order.ID,
		UserID: order.UserID,
		Items:  items,
		ShippingAddress: dto.ShippingAddressPayload{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		PaymentMethod:  order.PaymentMethod,
		ItemsPrice:     order.ItemsPrice.StringFixed(2),
		ShippingPrice:  order.ShippingPrice.StringFixed(2),
		TaxPrice:       order.TaxPrice.StringFixed(2),
		TotalPrice:     order.TotalPrice.StringFixed(2),
		IsPaid:         order.IsPaid,
		PaidAt:         order.PaidAt,
		TransactionRef: order.TransactionRef,
		IsDelivered:    order.IsDelivered,
		DeliveredAt:    order.DeliveredAt,
		CreatedAt:      order.CreatedAt,
	}
}
