package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func uploadCSV(t *testing.T, env *testEnv, role, supplier string, fields map[string]string, csvData string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload("catalog.csv", []byte(csvData), fields)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/upload", body)
	req.Header.Set("Content-Type", contentType)
	return env.do(req, role, supplier)
}

func TestUpload_EndToEnd(t *testing.T) {
	env := newTestEnv("PS-1")

	w := uploadCSV(t, env, models.RoleSupplier, "PS-1", nil,
		"Código,Descripción,Precio USD\nBRK-1,Brake pad,\"24,90\"\n,missing code,5.00\n")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result models.UploadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.StagedCount)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 3, result.Rejected[0].Row)

	// The raw file is retained for review
	assert.Len(t, env.files.files, 1)
	// And the batch sits in the pending queue
	batches, _ := env.staging.ListPending("")
	require.Len(t, batches, 1)
	assert.Equal(t, models.BatchStatusPending, batches[0].Status)

	// Nothing reached the live catalog yet
	assert.Empty(t, env.catalog.products)
}

func TestUpload_NoFile(t *testing.T) {
	env := newTestEnv("PS-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/upload", nil)
	w := env.do(req, models.RoleSupplier, "PS-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)
}

func TestUpload_OversizedFileRefusedBeforeReading(t *testing.T) {
	env := newTestEnv("PS-1")

	big := make([]byte, 5<<20+1)
	copy(big, []byte("code,description,price_usd\n"))
	body, contentType := multipartUpload("catalog.csv", big, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := env.do(req, models.RoleSupplier, "PS-1")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FILE_TOO_LARGE", resp.Error.Code)
	// Nothing was stored or staged
	assert.Empty(t, env.files.files)
}

func TestUpload_AllRowsRejected(t *testing.T) {
	env := newTestEnv("PS-1")

	w := uploadCSV(t, env, models.RoleSupplier, "PS-1", nil,
		"code,description,price_usd\n,x,1.00\nA,x,free\n")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_VALID_ROWS", resp.Error.Code)
	assert.Len(t, resp.Error.Errors, 2)

	// Discarded uploads leave no file and no batch behind
	assert.Empty(t, env.files.files)
	batches, _ := env.staging.ListPending("")
	assert.Empty(t, batches)
}

func TestUpload_WrongSupplierForbidden(t *testing.T) {
	env := newTestEnv("PS-1", "PS-2")

	w := uploadCSV(t, env, models.RoleSupplier, "PS-1",
		map[string]string{"supplierId": "PS-2"},
		"code,description,price_usd\nA,x,1.00\n")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListPending_ScopedBySupplier(t *testing.T) {
	env := newTestEnv("PS-1", "PS-2")

	require.Equal(t, http.StatusCreated, uploadCSV(t, env, models.RoleSupplier, "PS-1", nil,
		"code,description,price_usd\nA,x,1.00\n").Code)
	require.Equal(t, http.StatusCreated, uploadCSV(t, env, models.RoleSupplier, "PS-2", nil,
		"code,description,price_usd\nB,x,1.00\n").Code)

	// Supplier sees only its own batch
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/pending", nil)
	w := env.do(req, models.RoleSupplier, "PS-1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "PS-1", resp.Data[0].SupplierID)

	// Admin sees the full queue
	req = httptest.NewRequest(http.MethodGet, "/api/v1/catalog/pending", nil)
	w = env.do(req, models.RoleAdmin, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestPreview(t *testing.T) {
	env := newTestEnv("PS-1")

	require.Equal(t, http.StatusCreated, uploadCSV(t, env, models.RoleSupplier, "PS-1", nil,
		"code,description,price_usd\nBRK-1,Brake pad,24.90\n").Code)
	batches, _ := env.staging.ListPending("")
	batchID := batches[0].ID

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/pending/"+batchID.String()+"/preview", nil)
	w := env.do(req, models.RoleAdmin, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "BRK-1", resp.Products[0].Code)
}

func TestPreview_BadID(t *testing.T) {
	env := newTestEnv("PS-1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/pending/not-a-uuid/preview", nil)
	w := env.do(req, models.RoleAdmin, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}
