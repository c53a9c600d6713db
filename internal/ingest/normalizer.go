package ingest

import "strings"

// Canonical field names every recognized header synonym maps to. Columns
// outside this set survive normalization but are ignored by the validator.
const (
	FieldCode        = "code"
	FieldDescription = "description"
	FieldBrand       = "brand"
	FieldModel       = "model"
	FieldPriceUSD    = "price_usd"
	FieldReference   = "reference"
	FieldSupplierID  = "supplier_id"
	FieldImagePath   = "image_path"
)

// headerSynonyms maps known spreadsheet headers, Spanish and English, to
// canonical fields. Keys are lowercased; lookup trims and lowercases first.
var headerSynonyms = map[string]string{
	"código":       FieldCode,
	"codigo":       FieldCode,
	"code":         FieldCode,
	"item":         FieldCode,
	"prodcode":     FieldCode,
	"descripción":  FieldDescription,
	"descripcion":  FieldDescription,
	"description":  FieldDescription,
	"desc":         FieldDescription,
	"productname":  FieldDescription,
	"marca":        FieldBrand,
	"brand":        FieldBrand,
	"modelo":       FieldModel,
	"model":        FieldModel,
	"precio usd":   FieldPriceUSD,
	"precio_usd":   FieldPriceUSD,
	"price":        FieldPriceUSD,
	"usdprice":     FieldPriceUSD,
	"usd":          FieldPriceUSD,
	"referencia":   FieldReference,
	"reference":    FieldReference,
	"ref":          FieldReference,
	"refprice":     FieldReference,
	"proveedor":    FieldSupplierID,
	"supplier":     FieldSupplierID,
	"supplierid":   FieldSupplierID,
	"supplier_id":  FieldSupplierID,
	"imagen":       FieldImagePath,
	"image":        FieldImagePath,
	"imagepath":    FieldImagePath,
	"image_path":   FieldImagePath,
	"ruta imagen":  FieldImagePath,
}

// NormalizeHeader maps one raw header to its canonical field. Interior
// whitespace collapses to a single space before the synonym lookup, so
// "Precio  USD" still resolves. Unknown headers are lowercased with
// whitespace turned to underscores and passed through; normalization never
// fails.
func NormalizeHeader(header string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(header), "*")
	fields := strings.Fields(strings.ToLower(trimmed))
	if canonical, ok := headerSynonyms[strings.Join(fields, " ")]; ok {
		return canonical
	}
	return strings.Join(fields, "_")
}

// NormalizeHeaders maps a full header row.
func NormalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	return normalized
}
