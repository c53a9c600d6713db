package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus is the review state of an uploaded spreadsheet. Approved and
// rejected are terminal; there is no transition back to pending.
type BatchStatus string

const (
	BatchStatusPending  BatchStatus = "pending"
	BatchStatusApproved BatchStatus = "approved"
	BatchStatusRejected BatchStatus = "rejected"
)

// UploadBatch records one uploaded spreadsheet awaiting admin review.
// The raw file stays in storage at FileURL until the batch is rejected.
type UploadBatch struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileName   string      `json:"fileName" gorm:"not null"`
	FileURL    string      `json:"fileUrl" gorm:"not null"`
	SupplierID string      `json:"supplierId" gorm:"column:supplier_id;not null;index"`
	Notes      string      `json:"notes"`
	Status     BatchStatus `json:"status" gorm:"not null;default:'pending';index"`
	AdminNotes *string     `json:"adminNotes,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (UploadBatch) TableName() string {
	return "pending_csvs"
}

// StagedProduct is a validated spreadsheet row parked for review. Rows share
// their batch's lifecycle: deleted with it on rejection, copied (not moved)
// into products on approval.
type StagedProduct struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID     uuid.UUID       `json:"batchId" gorm:"column:csv_id;type:uuid;not null;index;constraint:OnDelete:CASCADE"`
	Code        string          `json:"code" gorm:"size:20;not null"`
	Description string          `json:"description" gorm:"not null"`
	Brand       *string         `json:"brand,omitempty"`
	Model       *string         `json:"model,omitempty"`
	PriceUSD    decimal.Decimal `json:"priceUsd" gorm:"column:price_usd;type:decimal(12,2);not null"`
	Reference   decimal.Decimal `json:"reference" gorm:"type:decimal(12,2);not null"`
	ImagePath   *string         `json:"imagePath,omitempty"`
	SupplierID  string          `json:"supplierId" gorm:"column:supplier_id;not null"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (StagedProduct) TableName() string {
	return "pending_products"
}

// BatchSummary is the listing shape for pending review, joined with the
// supplier display name.
type BatchSummary struct {
	ID           uuid.UUID   `json:"id"`
	FileName     string      `json:"fileName"`
	FileURL      string      `json:"fileUrl"`
	SupplierID   string      `json:"supplierId"`
	SupplierName *string     `json:"supplierName,omitempty"`
	Notes        string      `json:"notes"`
	Status       BatchStatus `json:"status"`
	AdminNotes   *string     `json:"adminNotes,omitempty"`
	RowCount     int         `json:"rowCount"`
	CreatedAt    time.Time   `json:"createdAt"`
}
