package models

import "github.com/google/uuid"

// RowError reports why a single spreadsheet row was turned away. Row numbers
// are 1-indexed file line numbers (header is row 1).
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// UploadResult is the response body for a successful upload: at least one row
// was staged; rejected rows ride along so the uploader can fix the file.
type UploadResult struct {
	Success     bool       `json:"success"`
	BatchID     uuid.UUID  `json:"batchId"`
	StagedCount int        `json:"stagedCount"`
	Rejected    []RowError `json:"rejected,omitempty"`
}

// PromotionResult reports a batch approval. Row-level failures are collected,
// never fatal: the promotion loop continues past them.
type PromotionResult struct {
	Success       bool     `json:"success"`
	InsertedCount int      `json:"insertedCount"`
	ErrorCount    int      `json:"errorCount"`
	ErrorMessages []string `json:"errorMessages,omitempty"`
}

type PreviewResponse struct {
	Success  bool            `json:"success"`
	Products []StagedProduct `json:"products"`
}

type BatchListResponse struct {
	Success bool           `json:"success"`
	Data    []BatchSummary `json:"data"`
}

// ImportTemplateColumn describes one column of the import template.
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Example     string `json:"example"`
}

type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// CatalogImportColumns returns the template columns for supplier uploads.
// Header synonyms in either language are accepted on the way in; the template
// advertises the canonical names.
func CatalogImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "code", Description: "Product code, unique per catalog (max 20 chars)", Required: true, Type: "string", Example: "BRK-2041"},
		{Name: "description", Description: "Product description", Required: true, Type: "string", Example: "Front brake pad set"},
		{Name: "price_usd", Description: "Unit price in USD, must be positive", Required: true, Type: "number", Example: "24.90"},
		{Name: "reference", Description: "Reference price; derived from price_usd when missing", Required: false, Type: "number", Example: "29.88"},
		{Name: "brand", Description: "Brand name", Required: false, Type: "string", Example: "Bosch"},
		{Name: "model", Description: "Vehicle or part model", Required: false, Type: "string", Example: "Corolla 2019"},
		{Name: "supplier_id", Description: "Supplier id; must match the uploading supplier", Required: false, Type: "string", Example: "PS-00001"},
		{Name: "image_path", Description: "Image path under the supplier's upload folder", Required: false, Type: "string", Example: "/Uploads/PS-00001/brk-2041.jpg"},
	}
}

func CatalogImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: CatalogImportColumns(),
	}
}
