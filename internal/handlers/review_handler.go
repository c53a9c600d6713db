package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

// ReviewHandler exposes the admin approve/reject decisions.
type ReviewHandler struct {
	promotion *services.PromotionService
}

func NewReviewHandler(promotion *services.PromotionService) *ReviewHandler {
	return &ReviewHandler{promotion: promotion}
}

type reviewRequest struct {
	AdminNotes *string `json:"adminNotes"`
}

// Approve promotes a pending batch into the live catalog
// POST /api/v1/catalog/pending/:id/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	var req reviewRequest
	// Body is optional; garbage is not.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.Error{Code: "INVALID_REQUEST", Message: "Invalid request body: " + err.Error()},
			})
			return
		}
	}

	result, err := h.promotion.Approve(batchID, req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reject discards a pending batch and its stored file
// POST /api/v1/catalog/pending/:id/reject
func (h *ReviewHandler) Reject(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	var req reviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.Error{Code: "INVALID_REQUEST", Message: "Invalid request body: " + err.Error()},
			})
			return
		}
	}

	if err := h.promotion.Reject(batchID, req.AdminNotes); err != nil {
		respondError(c, err)
		return
	}

	message := "Batch rejected"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}
