// Package services implements the catalog ingestion pipeline: supplier
// uploads staged for review, and admin promotion into the live catalog.
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/apperrors"
	"catalog-service/internal/events"
	"catalog-service/internal/ingest"
	"catalog-service/internal/models"
	"catalog-service/internal/notify"
	"catalog-service/internal/repository"
	"catalog-service/internal/storage"
)

// IngestService handles supplier spreadsheet uploads and the pending queue.
type IngestService struct {
	staging   repository.StagingStore
	catalog   repository.CatalogStore
	files     storage.FileStore
	validator *ingest.Validator
	notifier  events.Notifier
	mailer    notify.Mailer
	logger    *logrus.Entry
}

func NewIngestService(
	staging repository.StagingStore,
	catalog repository.CatalogStore,
	files storage.FileStore,
	validator *ingest.Validator,
	notifier events.Notifier,
	mailer notify.Mailer,
	logger *logrus.Logger,
) *IngestService {
	return &IngestService{
		staging:   staging,
		catalog:   catalog,
		files:     files,
		validator: validator,
		notifier:  notifier,
		mailer:    mailer,
		logger:    logger.WithField("component", "ingest-service"),
	}
}

// Upload runs the full intake path: size and format checks, parse, row
// validation, and staging. Rows are all-or-nothing only at the storage level;
// validation is continue-on-error, and a file where at least one row survives
// is accepted with the rejects reported alongside.
func (s *IngestService) Upload(principal models.Principal, filename string, data []byte, supplierID, notes string) (*models.UploadResult, error) {
	if len(data) == 0 {
		return nil, apperrors.Validation("EMPTY_FILE", "uploaded file is empty")
	}
	if len(data) > ingest.MaxUploadSize {
		return nil, apperrors.Validation("FILE_TOO_LARGE",
			fmt.Sprintf("file exceeds the %dMB limit", ingest.MaxUploadSize>>20))
	}

	supplierID, err := s.resolveSupplier(principal, supplierID)
	if err != nil {
		return nil, err
	}

	exists, err := s.catalog.SupplierExists(supplierID)
	if err != nil {
		return nil, apperrors.Internal("failed to verify supplier", err)
	}
	if !exists {
		return nil, apperrors.Validation("UNKNOWN_SUPPLIER",
			fmt.Sprintf("supplier %q is not registered", supplierID))
	}

	// The raw file is kept for the reviewer until the batch is resolved.
	storedName := fmt.Sprintf("%s_%s", uuid.New().String()[:8], filename)
	fileURL, err := s.files.Save(storedName, data)
	if err != nil {
		return nil, apperrors.Internal("failed to store uploaded file", err)
	}

	rows, err := ingest.Parse(data, filename)
	if err != nil {
		s.discardFile(fileURL)
		return nil, apperrors.Validation("PARSE_ERROR", err.Error())
	}
	if len(rows) == 0 {
		s.discardFile(fileURL)
		return nil, apperrors.Validation("EMPTY_FILE", "file has no data rows")
	}

	result := s.validator.Validate(rows, supplierID, principal.IsAdmin())
	for _, w := range result.Warnings {
		s.logger.WithFields(logrus.Fields{"row": w.Row, "reason": w.Reason}).Warn("Repaired row during intake")
	}

	if len(result.Accepted) == 0 {
		s.discardFile(fileURL)
		return nil, apperrors.Validation("NO_VALID_ROWS", "no valid rows in file", rejectionReasons(result.Rejected)...)
	}

	batch := &models.UploadBatch{
		FileName:   filename,
		FileURL:    fileURL,
		SupplierID: supplierID,
		Notes:      notes,
	}
	staged := make([]models.StagedProduct, 0, len(result.Accepted))
	for _, p := range result.Accepted {
		staged = append(staged, models.StagedProduct{
			Code:        p.Code,
			Description: p.Description,
			Brand:       p.Brand,
			Model:       p.Model,
			PriceUSD:    p.PriceUSD,
			Reference:   p.Reference,
			ImagePath:   p.ImagePath,
			SupplierID:  p.SupplierID,
		})
	}

	if err := s.staging.CreateBatch(batch, staged); err != nil {
		s.discardFile(fileURL)
		return nil, apperrors.Internal("failed to stage upload", err)
	}

	s.logger.WithFields(logrus.Fields{
		"batchId":  batch.ID,
		"supplier": supplierID,
		"staged":   len(staged),
		"rejected": len(result.Rejected),
	}).Info("Staged upload for review")

	s.notifier.PublishBatchEvent(events.BatchUploaded, batch, len(staged))

	if s.mailer != nil {
		go func() {
			if err := s.mailer.NotifyBatchUploaded(batch, len(staged)); err != nil {
				s.logger.WithError(err).Warn("Failed to send upload notification email")
			}
		}()
	}

	return &models.UploadResult{
		Success:     true,
		BatchID:     batch.ID,
		StagedCount: len(staged),
		Rejected:    result.Rejected,
	}, nil
}

// ListPending returns the review queue. Suppliers only see their own
// batches; admins see everything and may filter by supplier.
func (s *IngestService) ListPending(principal models.Principal, supplierFilter string) ([]models.BatchSummary, error) {
	supplierID := supplierFilter
	if !principal.IsAdmin() {
		if principal.SupplierID == "" {
			return nil, apperrors.Authorization("no supplier associated with this account")
		}
		if supplierFilter != "" && supplierFilter != principal.SupplierID {
			return nil, apperrors.Authorization("cannot list batches for a different supplier")
		}
		supplierID = principal.SupplierID
	}

	batches, err := s.staging.ListPending(supplierID)
	if err != nil {
		return nil, apperrors.Internal("failed to list pending batches", err)
	}
	return batches, nil
}

// Preview returns a batch's staged rows. Rejected batches are gone, so a
// preview after rejection reports not found.
func (s *IngestService) Preview(principal models.Principal, batchID uuid.UUID) ([]models.StagedProduct, error) {
	batch, err := s.staging.GetBatch(batchID)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && batch.SupplierID != principal.SupplierID {
		return nil, apperrors.Authorization("batch belongs to a different supplier")
	}

	rows, err := s.staging.Preview(batchID)
	if err != nil {
		return nil, apperrors.Internal("failed to load batch preview", err)
	}
	return rows, nil
}

// resolveSupplier decides which supplier an upload belongs to. Suppliers are
// pinned to their own id; admins may upload on behalf of any supplier.
func (s *IngestService) resolveSupplier(principal models.Principal, requested string) (string, error) {
	if principal.IsAdmin() {
		if requested == "" {
			return "", apperrors.Validation("MISSING_SUPPLIER", "supplierId is required")
		}
		return requested, nil
	}
	if principal.SupplierID == "" {
		return "", apperrors.Authorization("no supplier associated with this account")
	}
	if requested != "" && requested != principal.SupplierID {
		return "", apperrors.Authorization("cannot upload for a different supplier")
	}
	return principal.SupplierID, nil
}

func (s *IngestService) discardFile(fileURL string) {
	if err := s.files.Delete(fileURL); err != nil {
		s.logger.WithError(err).WithField("file", fileURL).Warn("Failed to remove discarded upload")
	}
}

func rejectionReasons(rejected []models.RowError) []string {
	reasons := make([]string, 0, len(rejected))
	for _, r := range rejected {
		reasons = append(reasons, fmt.Sprintf("row %d: %s", r.Row, r.Reason))
	}
	return reasons
}
