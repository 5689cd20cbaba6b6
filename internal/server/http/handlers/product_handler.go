package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/usecase"
)

// ProductHandler manages catalog endpoints.
type ProductHandler struct {
	facade CatalogFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade CatalogFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.facade.Products(c.Request.Context(),
		c.Query("keyword"),
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 0),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	products := make([]dto.ProductResponse, 0, len(page.Products))
	for i := range page.Products {
		products = append(products, toProductResponse(&page.Products[i]))
	}
	c.JSON(http.StatusOK, dto.ProductPageResponse{
		Products: products,
		Page:     page.Page,
		Pages:    page.Pages,
		Total:    page.Total,
	})
}

// Top handles GET /api/products/top.
func (h *ProductHandler) Top(c *gin.Context) {
	products, err := h.facade.TopProducts(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		response = append(response, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Create handles POST /api/products (admin only).
func (h *ProductHandler) Create(c *gin.Context) {
	input, ok := bindProductInput(c)
	if !ok {
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

// Update handles PUT /api/products/:id (admin only).
func (h *ProductHandler) Update(c *gin.Context) {
	input, ok := bindProductInput(c)
	if !ok {
		return
	}

	product, err := h.facade.UpdateProduct(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /api/products/:id (admin only).
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Review handles POST /api/products/:id/reviews.
func (h *ProductHandler) Review(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product, err := h.facade.ReviewProduct(c.Request.Context(), c.Param("id"), CurrentUserID(c), req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func bindProductInput(c *gin.Context) (usecase.ProductInput, bool) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return usecase.ProductInput{}, false
	}
	price, err := parseMoney(req.Price)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return usecase.ProductInput{}, false
	}
	return usecase.ProductInput{
		Name:         req.Name,
		Image:        req.Image,
		Brand:        req.Brand,
		Category:     req.Category,
		Description:  req.Description,
		Price:        price,
		CountInStock: req.CountInStock,
	}, true
}
