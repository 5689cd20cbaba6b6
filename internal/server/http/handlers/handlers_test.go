package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/storefront/internal/test"
	"github.com/polkiloo/storefront/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id int64, admin bool) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDContextKey, id)
		c.Set(middleware.IsAdminContextKey, admin)
	}
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	if got := CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestIsAdmin(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if IsAdmin(c) {
		t.Fatal("expected false when not set")
	}
	c.Set(middleware.IsAdminContextKey, true)
	if !IsAdmin(c) {
		t.Fatal("expected true")
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	body, _ := json.Marshal(dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(testhelpers.AuthFacadeStub{}).Register, nil, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") == "" {
		t.Fatalf("expected auth header to be set")
	}

	var user dto.UserResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &user); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if user.Email != "alice@example.com" || user.Token == "" {
		t.Fatalf("unexpected response payload: %+v", user)
	}

	result := resp.Result()
	t.Cleanup(func() { _ = result.Body.Close() })
	found := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "storefront_token" && cookie.Value == "token" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected auth cookie named storefront_token")
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{
			name:   "malformed body",
			body:   []byte("{"),
			status: http.StatusBadRequest,
		},
		{
			name: "invalid credentials",
			facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (*model.User, string, error) {
				return nil, "", domainErrors.ErrInvalidCredentials
			}},
			body:   []byte(`{"name":"","email":"x","password":""}`),
			status: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (*model.User, string, error) {
				return nil, "", domainErrors.ErrAlreadyExists
			}},
			body:   []byte(`{"name":"a","email":"a@b.com","password":"x"}`),
			status: http.StatusConflict,
		},
		{
			name: "backend failure",
			facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (*model.User, string, error) {
				return nil, "", errors.New("boom")
			}},
			body:   []byte(`{"name":"a","email":"a@b.com","password":"x"}`),
			status: http.StatusInternalServerError,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(tc.facade).Register, nil, tc.body)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.LoginRequest{Email: "alice@example.com", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(testhelpers.AuthFacadeStub{}).Login, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	failing := testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (*model.User, string, error) {
		return nil, "", domainErrors.ErrInvalidCredentials
	}}
	resp = performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(failing).Login, nil, body)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", resp.Code)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if errResp.Code != "invalid_credentials" {
		t.Fatalf("unexpected error code %q", errResp.Code)
	}
}

func TestProductHandlerList(t *testing.T) {
	facade := testhelpers.CatalogFacadeStub{ProductsFn: func(ctx context.Context, keyword string, page, pageSize int) (*model.ProductPage, error) {
		if keyword != "phone" || page != 2 || pageSize != 5 {
			t.Fatalf("unexpected query passed to facade: %q %d %d", keyword, page, pageSize)
		}
		return &model.ProductPage{
			Products: []model.Product{{ID: "p1", Name: "Phone", Price: testhelpers.Money("19.99")}},
			Page:     2, Pages: 3, Total: 11,
		}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/products", "/products?keyword=phone&page=2&page_size=5", NewProductHandler(facade).List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var page dto.ProductPageResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &page); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if page.Total != 11 || len(page.Products) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Products[0].Price != "19.99" {
		t.Fatalf("unexpected price formatting %q", page.Products[0].Price)
	}
}

func TestProductHandlerGetNotFound(t *testing.T) {
	facade := testhelpers.CatalogFacadeStub{ProductFn: func(context.Context, string) (*model.Product, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp := performRequest(t, http.MethodGet, "/products/:id", "/products/abc", NewProductHandler(facade).Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestProductHandlerCreate(t *testing.T) {
	body, _ := json.Marshal(dto.ProductRequest{Name: "Widget", Price: "10.00", CountInStock: 3})
	resp := performRequest(t, http.MethodPost, "/products", "/products", NewProductHandler(testhelpers.CatalogFacadeStub{}).Create, asUser(1, true), body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/products", "/products", NewProductHandler(testhelpers.CatalogFacadeStub{}).Create, asUser(1, true), []byte(`{"price":"not a number"}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed price, got %d", resp.Code)
	}
}

func TestProductHandlerReview(t *testing.T) {
	facade := testhelpers.CatalogFacadeStub{ReviewProductFn: func(ctx context.Context, productID string, userID int64, rating int, comment string) (*model.Product, error) {
		if productID != "p1" || userID != 7 || rating != 4 {
			t.Fatalf("unexpected review args: %q %d %d", productID, userID, rating)
		}
		return &model.Product{ID: productID, NumReviews: 1, Rating: 4}, nil
	}}
	body, _ := json.Marshal(dto.ReviewRequest{Rating: 4, Comment: "solid"})
	resp := performRequest(t, http.MethodPost, "/products/:id/reviews", "/products/p1/reviews", NewProductHandler(facade).Review, asUser(7, false), body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	duplicate := testhelpers.CatalogFacadeStub{ReviewProductFn: func(context.Context, string, int64, int, string) (*model.Product, error) {
		return nil, domainErrors.ErrAlreadyExists
	}}
	resp = performRequest(t, http.MethodPost, "/products/:id/reviews", "/products/p1/reviews", NewProductHandler(duplicate).Review, asUser(7, false), body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate review, got %d", resp.Code)
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{CreateOrderFn: func(ctx context.Context, userID int64, input usecase.CreateOrderInput) (*model.Order, error) {
		if userID != 7 {
			t.Fatalf("unexpected user id %d", userID)
		}
		if len(input.Items) != 2 || !input.Items[0].UnitPrice.Equal(testhelpers.Money("400")) {
			t.Fatalf("unexpected items: %+v", input.Items)
		}
		return &model.Order{
			ID: 1, UserID: userID,
			ItemsPrice:    testhelpers.Money("1000"),
			ShippingPrice: testhelpers.Money("50"),
			TaxPrice:      testhelpers.Money("150"),
			TotalPrice:    testhelpers.Money("1200"),
		}, nil
	}}
	body, _ := json.Marshal(dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", Name: "Widget", Qty: 2, UnitPrice: "400"},
			{ProductID: "p2", Name: "Gadget", Qty: 1, UnitPrice: "200"},
		},
		PaymentMethod: "card",
		ShippingPrice: "50",
		TaxPrice:      "150",
	})
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Create, asUser(7, false), body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if order.TotalPrice != "1200.00" {
		t.Fatalf("unexpected total %q", order.TotalPrice)
	}

	invalid := testhelpers.OrderFacadeStub{CreateOrderFn: func(context.Context, int64, usecase.CreateOrderInput) (*model.Order, error) {
		return nil, domainErrors.ErrValidation
	}}
	resp = performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(invalid).Create, asUser(7, false), []byte(`{"items":[],"payment_method":""}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid order, got %d", resp.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{OrderFn: func(ctx context.Context, orderID, userID int64, admin bool) (*model.Order, error) {
		if orderID != 5 || userID != 7 || admin {
			t.Fatalf("unexpected args: %d %d %t", orderID, userID, admin)
		}
		return &model.Order{ID: orderID, UserID: userID}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/5", NewOrderHandler(facade).Get, asUser(7, false), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	forbidden := testhelpers.OrderFacadeStub{OrderFn: func(context.Context, int64, int64, bool) (*model.Order, error) {
		return nil, domainErrors.ErrForbidden
	}}
	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/5", NewOrderHandler(forbidden).Get, asUser(8, false), nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign order, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/abc", NewOrderHandler(testhelpers.OrderFacadeStub{}).Get, asUser(7, false), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", resp.Code)
	}
}

func TestOrderHandlerListMine(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/orders/mine", "/orders/mine", NewOrderHandler(testhelpers.OrderFacadeStub{}).ListMine, asUser(7, false), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	empty := testhelpers.OrderFacadeStub{MyOrdersFn: func(context.Context, int64, int, int) ([]model.Order, error) {
		return nil, nil
	}}
	resp = performRequest(t, http.MethodGet, "/orders/mine", "/orders/mine", NewOrderHandler(empty).ListMine, asUser(7, false), nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for empty history, got %d", resp.Code)
	}
}

func TestOrderHandlerListAll(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(testhelpers.OrderFacadeStub{}).ListAll, asUser(1, true), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list dto.OrderListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("unexpected total %d", list.Total)
	}
}

func TestOrderHandlerDeliver(t *testing.T) {
	resp := performRequest(t, http.MethodPut, "/orders/:id/deliver", "/orders/3/deliver", NewOrderHandler(testhelpers.OrderFacadeStub{}).Deliver, asUser(1, true), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !order.IsDelivered || order.DeliveredAt == nil {
		t.Fatalf("expected delivered order, got %+v", order)
	}

	unpaid := testhelpers.OrderFacadeStub{DeliverOrderFn: func(context.Context, int64) (*model.Order, error) {
		return nil, domainErrors.ErrPrecondition
	}}
	resp = performRequest(t, http.MethodPut, "/orders/:id/deliver", "/orders/3/deliver", NewOrderHandler(unpaid).Deliver, asUser(1, true), nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unpaid order, got %d", resp.Code)
	}
}

func TestPaymentHandlerIntent(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{RequestIntentFn: func(ctx context.Context, orderID, userID int64, admin bool) (*model.PaymentIntent, error) {
		if orderID != 5 || userID != 7 {
			t.Fatalf("unexpected args: %d %d", orderID, userID)
		}
		return &model.PaymentIntent{GatewayOrderID: "order_abc", Amount: 120000, Currency: "USD", ReceiptRef: "order-5-1"}, nil
	}}
	body, _ := json.Marshal(dto.PaymentIntentRequest{OrderID: 5})
	resp := performRequest(t, http.MethodPost, "/payments/intent", "/payments/intent", NewPaymentHandler(facade).Intent, asUser(7, false), body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var intent dto.PaymentIntentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &intent); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if intent.GatewayOrderID != "order_abc" || intent.Amount != 120000 {
		t.Fatalf("unexpected intent: %+v", intent)
	}

	resp = performRequest(t, http.MethodPost, "/payments/intent", "/payments/intent", NewPaymentHandler(testhelpers.PaymentFacadeStub{}).Intent, asUser(7, false), []byte(`{}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without order id, got %d", resp.Code)
	}

	paid := testhelpers.PaymentFacadeStub{RequestIntentFn: func(context.Context, int64, int64, bool) (*model.PaymentIntent, error) {
		return nil, domainErrors.ErrAlreadyPaid
	}}
	resp = performRequest(t, http.MethodPost, "/payments/intent", "/payments/intent", NewPaymentHandler(paid).Intent, asUser(7, false), body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for paid order, got %d", resp.Code)
	}
}

func TestPaymentHandlerValidate(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{ConfirmFn: func(ctx context.Context, orderID, userID int64, admin bool, confirmation model.PaymentConfirmation) (*model.Order, error) {
		if confirmation.GatewayOrderID != "order_abc" || confirmation.PaymentID != "pay_1" {
			t.Fatalf("unexpected confirmation: %+v", confirmation)
		}
		return &model.Order{ID: orderID, UserID: userID, IsPaid: true, TransactionRef: confirmation.PaymentID}, nil
	}}
	body, _ := json.Marshal(dto.PaymentConfirmationRequest{OrderID: 5, GatewayOrderID: "order_abc", PaymentID: "pay_1", Signature: "sig"})
	resp := performRequest(t, http.MethodPost, "/payments/validate", "/payments/validate", NewPaymentHandler(facade).Validate, asUser(7, false), body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !order.IsPaid || order.TransactionRef != "pay_1" {
		t.Fatalf("unexpected order: %+v", order)
	}

	tampered := testhelpers.PaymentFacadeStub{ConfirmFn: func(context.Context, int64, int64, bool, model.PaymentConfirmation) (*model.Order, error) {
		return nil, domainErrors.ErrSignatureMismatch
	}}
	resp = performRequest(t, http.MethodPost, "/payments/validate", "/payments/validate", NewPaymentHandler(tampered).Validate, asUser(7, false), body)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad signature, got %d", resp.Code)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if errResp.Code != "signature_mismatch" {
		t.Fatalf("unexpected error code %q", errResp.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	ok := healthCheckFunc(func(context.Context) error { return nil })
	failing := healthCheckFunc(func(context.Context) error { return errors.New("down") })

	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(ok, ok).Check, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(ok, failing).Check, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

type healthCheckFunc func(ctx context.Context) error

func (f healthCheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }
