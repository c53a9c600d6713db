package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-service/internal/apperrors"
	"catalog-service/internal/ingest"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

// IngestHandler exposes the supplier upload path and the pending queue.
type IngestHandler struct {
	ingest *services.IngestService
}

func NewIngestHandler(ingest *services.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

// Upload accepts a CSV or XLSX catalog file and stages it for review
// POST /api/v1/catalog/upload
func (h *IngestHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.Error{Code: "MISSING_FILE", Message: "No file uploaded"},
		})
		return
	}

	// Checked again in the service, but refusing here avoids buffering an
	// oversized body in memory first
	if fileHeader.Size > ingest.MaxUploadSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.Error{
				Code:    "FILE_TOO_LARGE",
				Message: fmt.Sprintf("file exceeds the %dMB limit", ingest.MaxUploadSize>>20),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.Error{Code: "INVALID_FILE", Message: "Failed to open uploaded file"},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.Error{Code: "INVALID_FILE", Message: "Failed to read uploaded file"},
		})
		return
	}

	principal := middleware.GetPrincipal(c)
	result, err := h.ingest.Upload(
		principal,
		fileHeader.Filename,
		data,
		c.PostForm("supplierId"),
		c.PostForm("notes"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListPending returns batches awaiting review
// GET /api/v1/catalog/pending?supplierId=
func (h *IngestHandler) ListPending(c *gin.Context) {
	batches, err := h.ingest.ListPending(middleware.GetPrincipal(c), c.Query("supplierId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BatchListResponse{Success: true, Data: batches})
}

// Preview returns the staged rows of a pending batch
// GET /api/v1/catalog/pending/:id/preview
func (h *IngestHandler) Preview(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	rows, err := h.ingest.Preview(middleware.GetPrincipal(c), batchID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PreviewResponse{Success: true, Products: rows})
}

// parseBatchID reads the :id path param, responding 400 on garbage.
func parseBatchID(c *gin.Context) (uuid.UUID, bool) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.Error{Code: "INVALID_ID", Message: "Invalid batch ID format"},
		})
		return uuid.Nil, false
	}
	return batchID, true
}

// respondError maps service errors to the response envelope.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	c.JSON(apperrors.HTTPStatus(appErr), models.ErrorResponse{
		Error: models.Error{
			Code:    appErr.Code,
			Message: appErr.Message,
			Errors:  appErr.Reasons,
		},
	})
}
