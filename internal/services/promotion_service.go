package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/apperrors"
	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/storage"
)

// PromotionService resolves pending batches: approval copies staged rows into
// the live catalog, rejection discards them.
type PromotionService struct {
	staging  repository.StagingStore
	catalog  repository.CatalogStore
	files    storage.FileStore
	notifier events.Notifier
	logger   *logrus.Entry
}

func NewPromotionService(
	staging repository.StagingStore,
	catalog repository.CatalogStore,
	files storage.FileStore,
	notifier events.Notifier,
	logger *logrus.Logger,
) *PromotionService {
	return &PromotionService{
		staging:  staging,
		catalog:  catalog,
		files:    files,
		notifier: notifier,
		logger:   logger.WithField("component", "promotion-service"),
	}
}

// Approve promotes every staged row of the batch into the live catalog. Each
// row is upserted by code in its own statement: one bad row never rolls back
// the rest, and partial success is reported, not treated as failure.
// Re-approving an already approved batch re-runs the same upserts and
// converges on the same state.
func (s *PromotionService) Approve(batchID uuid.UUID, adminNotes *string) (*models.PromotionResult, error) {
	batch, err := s.staging.GetBatch(batchID)
	if err != nil {
		return nil, err
	}

	rows, err := s.staging.Preview(batchID)
	if err != nil {
		return nil, apperrors.Internal("failed to load staged rows", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.Validation("EMPTY_BATCH", "batch has no staged rows")
	}

	result := &models.PromotionResult{}
	touched := make(map[string]bool)

	for _, row := range rows {
		if err := s.ensureSupplier(row.SupplierID); err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("%s: %v", row.Code, err))
			continue
		}

		product := &models.Product{
			Code:        row.Code,
			Description: row.Description,
			Brand:       row.Brand,
			Model:       row.Model,
			PriceUSD:    row.PriceUSD,
			Reference:   row.Reference,
			SupplierID:  row.SupplierID,
			ImagePath:   row.ImagePath,
			IsVisible:   true,
		}

		if err := s.catalog.UpsertByCode(product); err != nil {
			s.logger.WithError(err).WithField("code", row.Code).Error("Failed to promote row")
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("%s: %v", row.Code, err))
			continue
		}

		result.InsertedCount++
		touched[row.SupplierID] = true
		s.notifier.PublishProductEvent(events.ProductUpdated, product, batchID)
	}

	for supplierID := range touched {
		if err := s.catalog.TouchSupplier(supplierID); err != nil {
			s.logger.WithError(err).WithField("supplier", supplierID).Warn("Failed to bump supplier timestamp")
		}
	}

	if err := s.staging.MarkApproved(batchID, adminNotes); err != nil {
		return nil, apperrors.Internal("failed to mark batch approved", err)
	}
	batch.Status = models.BatchStatusApproved
	batch.AdminNotes = adminNotes

	s.logger.WithFields(logrus.Fields{
		"batchId":  batchID,
		"inserted": result.InsertedCount,
		"errors":   result.ErrorCount,
	}).Info("Approved batch")

	s.notifier.PublishBatchEvent(events.BatchApproved, batch, result.InsertedCount)

	result.Success = result.InsertedCount > 0
	return result, nil
}

// Reject discards the batch: staged rows, batch record, and the stored file.
// A file already gone from storage is logged and ignored.
func (s *PromotionService) Reject(batchID uuid.UUID, adminNotes *string) error {
	batch, err := s.staging.GetBatch(batchID)
	if err != nil {
		return err
	}

	if err := s.files.Delete(batch.FileURL); err != nil {
		s.logger.WithError(err).WithField("file", batch.FileURL).Warn("Failed to remove rejected upload file")
	}

	if err := s.staging.DeleteBatch(batchID); err != nil {
		return apperrors.Internal("failed to delete rejected batch", err)
	}

	s.logger.WithFields(logrus.Fields{
		"batchId":  batchID,
		"supplier": batch.SupplierID,
	}).Info("Rejected batch")

	batch.Status = models.BatchStatusRejected
	batch.AdminNotes = adminNotes
	s.notifier.PublishBatchEvent(events.BatchRejected, batch, 0)

	return nil
}

// ensureSupplier backfills a placeholder supplier for rows that reference an
// id missing from the suppliers table. The auto-create is logged so admins
// can fill in the real details later.
func (s *PromotionService) ensureSupplier(supplierID string) error {
	exists, err := s.catalog.SupplierExists(supplierID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	s.logger.WithField("supplier", supplierID).Warn("Auto-creating placeholder supplier for promoted rows")
	return s.catalog.EnsureSupplier(supplierID)
}
