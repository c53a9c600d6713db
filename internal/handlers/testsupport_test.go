package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/apperrors"
	"catalog-service/internal/ingest"
	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

// In-memory fakes backing the handler tests. They implement the same store
// interfaces as the gorm repositories.

type memStaging struct {
	batches map[uuid.UUID]*models.UploadBatch
	rows    map[uuid.UUID][]models.StagedProduct
}

func newMemStaging() *memStaging {
	return &memStaging{
		batches: make(map[uuid.UUID]*models.UploadBatch),
		rows:    make(map[uuid.UUID][]models.StagedProduct),
	}
}

func (m *memStaging) CreateBatch(batch *models.UploadBatch, rows []models.StagedProduct) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.Status = models.BatchStatusPending
	copied := *batch
	m.batches[batch.ID] = &copied
	m.rows[batch.ID] = append([]models.StagedProduct(nil), rows...)
	return nil
}

func (m *memStaging) ListPending(supplierID string) ([]models.BatchSummary, error) {
	var out []models.BatchSummary
	for _, b := range m.batches {
		if b.Status != models.BatchStatusPending {
			continue
		}
		if supplierID != "" && b.SupplierID != supplierID {
			continue
		}
		out = append(out, models.BatchSummary{
			ID:         b.ID,
			FileName:   b.FileName,
			SupplierID: b.SupplierID,
			Status:     b.Status,
			RowCount:   len(m.rows[b.ID]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *memStaging) GetBatch(id uuid.UUID) (*models.UploadBatch, error) {
	b, ok := m.batches[id]
	if !ok {
		return nil, apperrors.NotFound("batch not found")
	}
	copied := *b
	return &copied, nil
}

func (m *memStaging) Preview(batchID uuid.UUID) ([]models.StagedProduct, error) {
	return append([]models.StagedProduct(nil), m.rows[batchID]...), nil
}

func (m *memStaging) MarkApproved(batchID uuid.UUID, adminNotes *string) error {
	b, ok := m.batches[batchID]
	if !ok {
		return apperrors.NotFound("batch not found")
	}
	b.Status = models.BatchStatusApproved
	b.AdminNotes = adminNotes
	return nil
}

func (m *memStaging) DeleteBatch(batchID uuid.UUID) error {
	if _, ok := m.batches[batchID]; !ok {
		return apperrors.NotFound("batch not found")
	}
	delete(m.batches, batchID)
	delete(m.rows, batchID)
	return nil
}

type memCatalog struct {
	products  map[string]models.Product
	suppliers map[string]models.Supplier
}

func newMemCatalog(supplierIDs ...string) *memCatalog {
	c := &memCatalog{
		products:  make(map[string]models.Product),
		suppliers: make(map[string]models.Supplier),
	}
	for _, id := range supplierIDs {
		c.suppliers[id] = models.Supplier{ID: id, Name: id, Visible: true, Active: true}
	}
	return c
}

func (m *memCatalog) UpsertByCode(product *models.Product) error {
	m.products[product.Code] = *product
	return nil
}

func (m *memCatalog) SupplierExists(id string) (bool, error) {
	_, ok := m.suppliers[id]
	return ok, nil
}

func (m *memCatalog) EnsureSupplier(id string) error {
	if _, ok := m.suppliers[id]; !ok {
		m.suppliers[id] = models.Supplier{ID: id, Name: id, Visible: true, Active: true}
	}
	return nil
}

func (m *memCatalog) TouchSupplier(id string) error { return nil }

func (m *memCatalog) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	p, ok := m.products[code]
	if !ok {
		return nil, apperrors.NotFound("product not found")
	}
	return &p, nil
}

func (m *memCatalog) ListProducts(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range m.products {
		if query.SupplierID != "" && p.SupplierID != query.SupplierID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, int64(len(out)), nil
}

func (m *memCatalog) ListSuppliers() ([]models.Supplier, error) {
	var out []models.Supplier
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memFiles struct {
	files map[string][]byte
}

func newMemFiles() *memFiles {
	return &memFiles{files: make(map[string][]byte)}
}

func (m *memFiles) Save(name string, data []byte) (string, error) {
	path := "/uploads/" + name
	m.files[path] = data
	return path, nil
}

func (m *memFiles) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memFiles) Delete(path string) error {
	delete(m.files, path)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) PublishBatchEvent(eventType string, batch *models.UploadBatch, rowCount int) {}
func (noopNotifier) PublishProductEvent(eventType string, product *models.Product, batchID uuid.UUID) {
}
func (noopNotifier) Close() {}

// testEnv wires real services over the in-memory fakes.
type testEnv struct {
	router  *gin.Engine
	staging *memStaging
	catalog *memCatalog
	files   *memFiles
}

func newTestEnv(supplierIDs ...string) *testEnv {
	gin.SetMode(gin.TestMode)

	staging := newMemStaging()
	catalog := newMemCatalog(supplierIDs...)
	files := newMemFiles()

	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))

	validator := ingest.NewValidator(nil, "")
	ingestService := services.NewIngestService(staging, catalog, files, validator, noopNotifier{}, nil, logger)
	promotionService := services.NewPromotionService(staging, catalog, files, noopNotifier{}, logger)

	ingestHandler := NewIngestHandler(ingestService)
	reviewHandler := NewReviewHandler(promotionService)
	templateHandler := NewTemplateHandler()
	catalogHandler := NewCatalogHandler(catalog)

	router := gin.New()
	router.GET("/api/v1/products", catalogHandler.ListProducts)
	router.GET("/api/v1/products/:code", catalogHandler.GetProduct)
	router.GET("/api/v1/suppliers", catalogHandler.ListSuppliers)
	router.GET("/api/v1/catalog/import/template", templateHandler.GetImportTemplate)

	catalogGroup := router.Group("/api/v1/catalog")
	// Stand-in for the JWT middleware: principals come from test headers.
	catalogGroup.Use(func(c *gin.Context) {
		c.Set("principal", models.Principal{
			ID:         "test-user",
			Role:       c.GetHeader("X-Test-Role"),
			SupplierID: c.GetHeader("X-Test-Supplier"),
		})
		c.Next()
	})
	{
		catalogGroup.POST("/upload", ingestHandler.Upload)
		catalogGroup.GET("/pending", ingestHandler.ListPending)
		catalogGroup.GET("/pending/:id/preview", ingestHandler.Preview)
		catalogGroup.POST("/pending/:id/approve", reviewHandler.Approve)
		catalogGroup.POST("/pending/:id/reject", reviewHandler.Reject)
	}

	return &testEnv{router: router, staging: staging, catalog: catalog, files: files}
}

func (e *testEnv) do(req *http.Request, role, supplierID string) *httptest.ResponseRecorder {
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	if supplierID != "" {
		req.Header.Set("X-Test-Supplier", supplierID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// multipartUpload builds the upload request body.
func multipartUpload(filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write(data)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}
