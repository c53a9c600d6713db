package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-service/internal/apperrors"
	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute
	ProductListCacheTTL = 2 * time.Minute
)

// CatalogStore is the live catalog: the products and suppliers tables the
// storefront reads. Implemented by CatalogRepository; mocked in service tests.
type CatalogStore interface {
	UpsertByCode(product *models.Product) error
	SupplierExists(id string) (bool, error)
	EnsureSupplier(id string) error
	TouchSupplier(id string) error
	GetProductByCode(ctx context.Context, code string) (*models.Product, error)
	ListProducts(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error)
	ListSuppliers() ([]models.Supplier, error)
}

type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	return &CatalogRepository{db: db, redis: redisClient}
}

// UpsertByCode inserts the product or, when the code already exists, updates
// the live row in place. Last writer wins on every column. Each call is its
// own statement so one bad row never rolls back its batch.
func (r *CatalogRepository) UpsertByCode(product *models.Product) error {
	product.UpdatedAt = time.Now()

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "brand", "model", "price_usd", "reference",
			"supplier_id", "image_path", "updated_at",
		}),
	}).Create(product).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", product.Code, err)
	}

	r.invalidateProductCaches(context.Background(), product.Code)
	return nil
}

func (r *CatalogRepository) SupplierExists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check supplier: %w", err)
	}
	return count > 0, nil
}

// EnsureSupplier creates a placeholder supplier row if none exists, so
// promoted products always satisfy the supplier reference. The placeholder
// uses the id as its display name until someone fills in the real details.
func (r *CatalogRepository) EnsureSupplier(id string) error {
	supplier := models.Supplier{
		ID:          id,
		Name:        id,
		Visible:     true,
		Active:      true,
		LastUpdated: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&supplier).Error
	if err != nil {
		return fmt.Errorf("failed to ensure supplier %s: %w", id, err)
	}
	return nil
}

// TouchSupplier bumps the supplier's last catalog update timestamp.
func (r *CatalogRepository) TouchSupplier(id string) error {
	return r.db.Model(&models.Supplier{}).Where("id = ?", id).
		Update("last_updated", time.Now()).Error
}

func (r *CatalogRepository) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	cacheKey := fmt.Sprintf("catalog:product:%s", code)

	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var product models.Product
			if json.Unmarshal([]byte(cached), &product) == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	if err := r.db.First(&product, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if r.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}

	return &product, nil
}

// ListProducts returns the storefront catalog page. Only products whose
// supplier is visible and active show up unless IncludeHidden is set.
func (r *CatalogRepository) ListProducts(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	db := r.db.Model(&models.Product{}).
		Joins("JOIN suppliers ON suppliers.id = products.supplier_id")

	if !query.IncludeHidden {
		db = db.Where("products.is_visible = ? AND suppliers.visible = ? AND suppliers.active = ?", true, true, true)
	}
	if query.SupplierID != "" {
		db = db.Where("products.supplier_id = ?", query.SupplierID)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("products.code ILIKE ? OR products.description ILIKE ? OR products.brand ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var products []models.Product
	err := db.Order("products.code").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

func (r *CatalogRepository) ListSuppliers() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.Order("name").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// invalidateProductCaches drops the cached copy of a product after a write.
func (r *CatalogRepository) invalidateProductCaches(ctx context.Context, code string) {
	if r.redis == nil {
		return
	}
	r.redis.Del(ctx, fmt.Sprintf("catalog:product:%s", code))
}
