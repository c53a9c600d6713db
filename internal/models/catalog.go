package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a live catalog row. The business key is Code: a bulk promotion
// that reuses an existing code overwrites the row (last writer wins) instead
// of erroring.
type Product struct {
	ID          uint             `json:"-" gorm:"primaryKey"`
	Code        string           `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Description string           `json:"description" gorm:"not null"`
	Brand       *string          `json:"brand,omitempty"`
	Model       *string          `json:"model,omitempty"`
	PriceUSD    decimal.Decimal  `json:"priceUsd" gorm:"column:price_usd;type:decimal(12,2);not null"`
	Reference   decimal.Decimal  `json:"reference" gorm:"type:decimal(12,2);not null"`
	Discount    *decimal.Decimal `json:"discount,omitempty" gorm:"type:decimal(5,2)"`
	SupplierID  string           `json:"supplierId" gorm:"column:supplier_id;not null;index"`
	ImagePath   *string          `json:"imagePath,omitempty"`
	IsVisible   bool             `json:"isVisible" gorm:"default:true"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// Supplier is keyed by the external supplier identifier (e.g. "PS-00001"),
// not a surrogate key. Suppliers referenced by promoted rows but missing from
// this table are auto-created with Name = ID and no contact email.
type Supplier struct {
	ID           string    `json:"id" gorm:"primaryKey;size:40"`
	Name         string    `json:"name" gorm:"not null"`
	ContactEmail *string   `json:"contactEmail,omitempty"`
	Visible      bool      `json:"visible" gorm:"default:true"`
	Active       bool      `json:"active" gorm:"default:true"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// ProductQuery carries storefront listing filters.
type ProductQuery struct {
	Search        string
	SupplierID    string
	Page          int
	Limit         int
	IncludeHidden bool
}

type PaginationInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
}

type SupplierListResponse struct {
	Success bool       `json:"success"`
	Data    []Supplier `json:"data"`
}
