package ingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
)

// ImagePolicy controls how broken image references are handled.
type ImagePolicy string

const (
	// PolicyStrict rejects rows whose image path is malformed or missing on
	// disk. Used on the supplier upload path.
	PolicyStrict ImagePolicy = "strict"
	// PolicyLenient clears broken image paths instead of rejecting the row.
	// Used by bulk edit tooling.
	PolicyLenient ImagePolicy = "lenient"
)

// MaxCodeLength caps product codes; codes are the natural key of the catalog.
const MaxCodeLength = 20

// ReferenceMarkup is applied to the USD price when a row carries no usable
// reference price.
var ReferenceMarkup = decimal.NewFromFloat(1.2)

// ImageChecker reports whether a stored image exists. Satisfied by
// storage.DiskStore.
type ImageChecker interface {
	Exists(path string) bool
}

// ValidProduct is a row that passed validation, with all cells coerced to
// their storage types.
type ValidProduct struct {
	Row         int
	Code        string
	Description string
	Brand       *string
	Model       *string
	PriceUSD    decimal.Decimal
	Reference   decimal.Decimal
	SupplierID  string
	ImagePath   *string
}

// ValidationResult accumulates the outcome of validating a full upload.
// Validation never aborts on a bad row; every row lands in Accepted or
// Rejected, and repairs that changed data are recorded in Warnings.
type ValidationResult struct {
	Accepted []ValidProduct
	Rejected []models.RowError
	Warnings []models.RowError
}

// Validator applies row-level catalog rules to parsed spreadsheet rows.
type Validator struct {
	Images      ImageChecker
	ImagePrefix string
	Policy      ImagePolicy
}

// NewValidator builds a validator with the strict upload-path image policy.
func NewValidator(images ImageChecker, imagePrefix string) *Validator {
	return &Validator{Images: images, ImagePrefix: imagePrefix, Policy: PolicyStrict}
}

// Validate checks every parsed row against catalog rules. supplierID is the
// supplier the batch belongs to; rows naming a different supplier are
// rejected unless admin is set.
func (v *Validator) Validate(rows []map[string]string, supplierID string, admin bool) ValidationResult {
	result := ValidationResult{
		Accepted: make([]ValidProduct, 0, len(rows)),
		Rejected: make([]models.RowError, 0),
		Warnings: make([]models.RowError, 0),
	}

	for _, row := range rows {
		rowNum := RowNumber(row)

		product, errs, warnings := v.validateRow(row, rowNum, supplierID, admin)
		if len(errs) > 0 {
			result.Rejected = append(result.Rejected, errs...)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Accepted = append(result.Accepted, *product)
	}

	return result
}

func (v *Validator) validateRow(row map[string]string, rowNum int, supplierID string, admin bool) (*ValidProduct, []models.RowError, []models.RowError) {
	var errs []models.RowError
	var warnings []models.RowError

	reject := func(format string, args ...interface{}) {
		errs = append(errs, models.RowError{Row: rowNum, Reason: fmt.Sprintf(format, args...)})
	}

	code := row[FieldCode]
	if code == "" {
		reject("code is required")
	} else if len(code) > MaxCodeLength {
		reject("code %q exceeds %d characters", code, MaxCodeLength)
	}

	description := row[FieldDescription]
	if description == "" {
		reject("description is required")
	}

	price, err := ParseDecimal(row[FieldPriceUSD])
	switch {
	case row[FieldPriceUSD] == "":
		reject("price_usd is required")
	case err != nil:
		reject("price_usd %q is not a valid number", row[FieldPriceUSD])
	case !price.IsPositive():
		reject("price_usd must be greater than zero")
	}

	rowSupplier := supplierID
	if raw := row[FieldSupplierID]; raw != "" {
		if !admin && raw != supplierID {
			reject("supplier_id %q does not match the uploading supplier", raw)
		}
		rowSupplier = raw
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	reference := price.Mul(ReferenceMarkup)
	if raw := row[FieldReference]; raw != "" {
		parsed, err := ParseDecimal(raw)
		if err != nil || !parsed.IsPositive() {
			warnings = append(warnings, models.RowError{
				Row:    rowNum,
				Reason: fmt.Sprintf("reference %q is not a valid price, recalculated from price_usd", raw),
			})
		} else {
			reference = parsed
		}
	}

	imagePath, imageErr := v.checkImage(row[FieldImagePath])
	if imageErr != "" {
		if v.Policy == PolicyStrict {
			return nil, []models.RowError{{Row: rowNum, Reason: imageErr}}, nil
		}
		warnings = append(warnings, models.RowError{Row: rowNum, Reason: imageErr + ", image cleared"})
		imagePath = nil
	}

	return &ValidProduct{
		Row:         rowNum,
		Code:        code,
		Description: description,
		Brand:       optional(row[FieldBrand]),
		Model:       optional(row[FieldModel]),
		PriceUSD:    price.Round(2),
		Reference:   reference.Round(2),
		SupplierID:  rowSupplier,
		ImagePath:   imagePath,
	}, nil, warnings
}

// checkImage validates an image reference. Empty paths are fine; non-empty
// paths must live under the configured prefix, carry a known extension, and
// exist in the file store.
func (v *Validator) checkImage(path string) (*string, string) {
	if path == "" {
		return nil, ""
	}
	if v.ImagePrefix != "" && !strings.HasPrefix(path, v.ImagePrefix) {
		return nil, fmt.Sprintf("image_path %q is outside the image directory", path)
	}
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") && !strings.HasSuffix(lower, ".png") {
		return nil, fmt.Sprintf("image_path %q must be a .jpg or .png file", path)
	}
	if v.Images != nil && !v.Images.Exists(path) {
		return nil, fmt.Sprintf("image_path %q does not exist", path)
	}
	return &path, ""
}

// ParseDecimal parses a spreadsheet money cell. Comma decimal separators and
// currency noise like "$ 1.234,50" are tolerated.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			// "1.234,50" style: dots are thousands separators
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	return decimal.NewFromString(cleaned)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
