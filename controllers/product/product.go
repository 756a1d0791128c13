package productControllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/models"
)

// CreateProduct inserts a disabled product with the given SKU and name.
// SKUs are unique across the catalog.
func CreateProduct(db *gorm.DB, sku string, name models.LocalizedString) (*models.Product, error) {
	var count int64
	if err := db.Model(&models.Product{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.NewValidationError("sku", fmt.Sprintf("SKU %q already in database", sku))
	}

	product := models.Product{
		ID:          uuid.NewString(),
		Enabled:     false,
		SKU:         sku,
		Name:        name,
		Description: models.LocalizedString{},
		Images:      models.ImageList{},
		Pricing:     models.Pricing{Currency: "EUR"},
		Tags:        models.StringList{},
		Collections: models.StringList{},
		Metadata:    models.JSONMap{},
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductFilters narrows and orders a catalog listing.
type ProductFilters struct {
	SKU         string
	Collections []string
	Tags        []string
	Sort        string
	Page        int
	PerPage     int
	EnabledOnly bool
}

// FindProducts lists catalog products. Collection and tag filters are applied
// in memory over the jsonb columns; count reflects the filtered set before
// pagination.
func FindProducts(db *gorm.DB, filters ProductFilters) ([]models.Product, int64, error) {
	query := db.Model(&models.Product{})
	if filters.EnabledOnly {
		query = query.Where("enabled = ?", true)
	}
	if filters.SKU != "" {
		query = query.Where("sku = ?", filters.SKU)
	}

	switch filters.Sort {
	case "sku":
		query = query.Order("sku ASC")
	case "-sku":
		query = query.Order("sku DESC")
	case "alphabetically":
		query = query.Order("name ASC")
	case "-alphabetically":
		query = query.Order("name DESC")
	case "price":
		query = query.Order("(pricing ->> 'retail')::numeric ASC")
	case "-price":
		query = query.Order("(pricing ->> 'retail')::numeric DESC")
	case "date":
		query = query.Order("updated_at ASC")
	case "-date":
		query = query.Order("updated_at DESC")
	}

	var all []models.Product
	if err := query.Find(&all).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.Product, 0, len(all))
	for _, p := range all {
		if len(filters.Collections) > 0 && !p.Collections.Contains(filters.Collections...) {
			continue
		}
		if len(filters.Tags) > 0 && !p.Tags.Contains(filters.Tags...) {
			continue
		}
		items = append(items, p)
	}
	count := int64(len(items))

	if filters.PerPage > 0 && filters.Page > 0 {
		start := (filters.Page - 1) * filters.PerPage
		if start >= len(items) {
			items = []models.Product{}
		} else {
			end := start + filters.PerPage
			if end > len(items) {
				end = len(items)
			}
			items = items[start:end]
		}
	}
	return items, count, nil
}

// GetProduct returns the product with the given ID, or nil when absent.
func GetProduct(db *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU returns the product with the given SKU, or nil when absent.
func GetProductBySKU(db *gorm.DB, sku string) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// HasStock reports whether every line's requested quantity is currently in
// stock. Stock is read live at evaluation time; nothing is reserved.
func HasStock(db *gorm.DB, lines models.CartLines) (bool, error) {
	for _, line := range lines {
		product, err := GetProduct(db, line.ProductID)
		if err != nil {
			return false, err
		}
		if product == nil || product.Stock < line.Quantity {
			return false, nil
		}
	}
	return true, nil
}

// ProductUpdate is the full set of mutable product fields.
type ProductUpdate struct {
	Enabled     bool                   `json:"enabled"`
	SKU         string                 `json:"sku"`
	Name        models.LocalizedString `json:"name"`
	Description models.LocalizedString `json:"description"`
	Images      models.ImageList       `json:"images"`
	Pricing     models.Pricing         `json:"pricing"`
	Stock       int                    `json:"stock"`
	Tags        models.StringList      `json:"tags"`
	Collections models.StringList      `json:"collections"`
	Metadata    models.JSONMap         `json:"metadata"`
}

// UpdateProduct replaces the product's mutable fields. Changing the SKU to
// one registered with another product is a validation error.
func UpdateProduct(db *gorm.DB, productID string, update ProductUpdate) (*models.Product, error) {
	if update.SKU != "" {
		existing, err := GetProductBySKU(db, update.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != productID {
			return nil, models.NewValidationError("sku", fmt.Sprintf("The SKU %q is already registered with another product", update.SKU))
		}
	}

	if err := db.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]any{
		"enabled":     update.Enabled,
		"sku":         update.SKU,
		"name":        update.Name,
		"description": update.Description,
		"images":      update.Images,
		"pricing":     update.Pricing,
		"stock":       update.Stock,
		"tags":        update.Tags,
		"collections": update.Collections,
		"metadata":    update.Metadata,
		"updated_at":  time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return GetProduct(db, productID)
}

// UpdateProductImages replaces the product's image list.
func UpdateProductImages(db *gorm.DB, productID string, images models.ImageList) (*models.Product, error) {
	if err := db.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]any{
		"images":     images,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return GetProduct(db, productID)
}

// AdjustStock adds delta to the product's stock count.
func AdjustStock(db *gorm.DB, productID string, delta int) error {
	return db.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now(),
		}).Error
}
