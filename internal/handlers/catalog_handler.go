package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// CatalogHandler serves the storefront read side: live products and
// suppliers. These routes are public.
type CatalogHandler struct {
	catalog repository.CatalogStore
}

func NewCatalogHandler(catalog repository.CatalogStore) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts returns a catalog page
// GET /api/v1/products?search=&supplierId=&page=&limit=
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	query := models.ProductQuery{
		Search:     c.Query("search"),
		SupplierID: c.Query("supplierId"),
		Page:       page,
		Limit:      limit,
	}

	products, total, err := h.catalog.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	if limit < 1 || limit > 200 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success: true,
		Data:    products,
		Pagination: &models.PaginationInfo{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// GetProduct returns one live product by code
// GET /api/v1/products/:code
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProductByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// ListSuppliers returns all suppliers
// GET /api/v1/suppliers
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.catalog.ListSuppliers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SupplierListResponse{Success: true, Data: suppliers})
}

// Health is the liveness probe
// GET /health
func (h *CatalogHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "catalog-service",
	})
}
