package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func TestListProducts(t *testing.T) {
	env := newTestEnv("PS-1")
	env.catalog.products["BRK-1"] = models.Product{
		Code: "BRK-1", Description: "Brake pad",
		PriceUSD: decimal.RequireFromString("24.90"), SupplierID: "PS-1", IsVisible: true,
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := env.do(req, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "BRK-1", resp.Data[0].Code)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(1), resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv("PS-1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/NOPE", nil)
	w := env.do(req, "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestListSuppliers(t *testing.T) {
	env := newTestEnv("PS-1", "PS-2")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers", nil)
	w := env.do(req, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SupplierListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "PS-1", resp.Data[0].ID)
}

func TestGetImportTemplate_JSON(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/import/template", nil)
	w := env.do(req, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool                  `json:"success"`
		Template models.ImportTemplate `json:"template"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "products", resp.Template.Entity)
	assert.NotEmpty(t, resp.Template.Columns)
}

func TestGetImportTemplate_CSV(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/import/template?format=csv", nil)
	w := env.do(req, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	header := strings.TrimSpace(strings.SplitN(w.Body.String(), "\n", 2)[0])
	assert.Equal(t, "code,description,price_usd,reference,brand,model,supplier_id,image_path", header)
}

func TestGetImportTemplate_XLSX(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/import/template?format=xlsx", nil)
	w := env.do(req, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}
