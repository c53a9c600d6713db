package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/apperrors"
	"catalog-service/internal/models"
)

// StagingStore holds batches between upload and review. Implemented by
// StagingRepository; mocked in service tests.
type StagingStore interface {
	CreateBatch(batch *models.UploadBatch, rows []models.StagedProduct) error
	ListPending(supplierID string) ([]models.BatchSummary, error)
	GetBatch(id uuid.UUID) (*models.UploadBatch, error)
	Preview(batchID uuid.UUID) ([]models.StagedProduct, error)
	MarkApproved(batchID uuid.UUID, adminNotes *string) error
	DeleteBatch(batchID uuid.UUID) error
}

type StagingRepository struct {
	db *gorm.DB
}

func NewStagingRepository(db *gorm.DB) *StagingRepository {
	return &StagingRepository{db: db}
}

// CreateBatch inserts the batch record and all staged rows in one
// transaction. A failure anywhere leaves nothing behind.
func (r *StagingRepository) CreateBatch(batch *models.UploadBatch, rows []models.StagedProduct) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.Status = models.BatchStatusPending
	batch.CreatedAt = time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}
		for i := range rows {
			rows[i].ID = uuid.New()
			rows[i].BatchID = batch.ID
			rows[i].CreatedAt = batch.CreatedAt
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return fmt.Errorf("failed to stage rows: %w", err)
			}
		}
		return nil
	})
}

// ListPending returns pending batches, newest first, with the supplier name
// joined in. An empty supplierID lists every supplier's batches.
func (r *StagingRepository) ListPending(supplierID string) ([]models.BatchSummary, error) {
	query := r.db.Model(&models.UploadBatch{}).
		Select("pending_csvs.*, suppliers.name AS supplier_name, COUNT(pending_products.id) AS row_count").
		Joins("LEFT JOIN suppliers ON suppliers.id = pending_csvs.supplier_id").
		Joins("LEFT JOIN pending_products ON pending_products.csv_id = pending_csvs.id").
		Where("pending_csvs.status = ?", models.BatchStatusPending).
		Group("pending_csvs.id, suppliers.name").
		Order("pending_csvs.created_at DESC")

	if supplierID != "" {
		query = query.Where("pending_csvs.supplier_id = ?", supplierID)
	}

	var batches []models.BatchSummary
	if err := query.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending batches: %w", err)
	}
	return batches, nil
}

func (r *StagingRepository) GetBatch(id uuid.UUID) (*models.UploadBatch, error) {
	var batch models.UploadBatch
	if err := r.db.First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("batch not found")
		}
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	return &batch, nil
}

// Preview returns the staged rows of a batch in upload order.
func (r *StagingRepository) Preview(batchID uuid.UUID) ([]models.StagedProduct, error) {
	var rows []models.StagedProduct
	if err := r.db.Where("csv_id = ?", batchID).Order("created_at, code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load staged rows: %w", err)
	}
	return rows, nil
}

// MarkApproved flips the batch to approved. Staged rows are kept for audit.
func (r *StagingRepository) MarkApproved(batchID uuid.UUID, adminNotes *string) error {
	updates := map[string]interface{}{"status": models.BatchStatusApproved}
	if adminNotes != nil {
		updates["admin_notes"] = *adminNotes
	}
	result := r.db.Model(&models.UploadBatch{}).Where("id = ?", batchID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to mark batch approved: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("batch not found")
	}
	return nil
}

// DeleteBatch removes the batch and its staged rows.
func (r *StagingRepository) DeleteBatch(batchID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("csv_id = ?", batchID).Delete(&models.StagedProduct{}).Error; err != nil {
			return fmt.Errorf("failed to delete staged rows: %w", err)
		}
		result := tx.Where("id = ?", batchID).Delete(&models.UploadBatch{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete batch: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("batch not found")
		}
		return nil
	})
}
