package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports readiness of one backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler answers liveness probes with per-store status.
type HealthHandler struct {
	orders  HealthChecker
	catalog HealthChecker
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(orders, catalog HealthChecker) *HealthHandler {
	return &HealthHandler{orders: orders, catalog: catalog}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	report := gin.H{"orders": "ok", "catalog": "ok"}

	ctx := c.Request.Context()
	if err := h.orders.HealthCheck(ctx); err != nil {
		status = http.StatusServiceUnavailable
		report["orders"] = err.Error()
	}
	if err := h.catalog.HealthCheck(ctx); err != nil {
		status = http.StatusServiceUnavailable
		report["catalog"] = err.Error()
	}

	c.JSON(status, report)
}
