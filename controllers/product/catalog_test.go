package productControllers

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return db
}

const catalogCSV = `sku,name:en,name:pt,enabled,currency,list,retail,vat,stock
SKU-1,Shoes,Sapatos,true,EUR,25.00,19.90,23,10
SKU-2,Hat,,false,EUR,,9.50,23,0
`

func TestParseCatalogCSV(t *testing.T) {
	entries, err := ParseCatalogCSV(strings.NewReader(catalogCSV))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "SKU-1", entries[0].SKU)
	assert.Equal(t, models.LocalizedString{"en": "Shoes", "pt": "Sapatos"}, entries[0].Name)
	assert.True(t, entries[0].Enabled)
	assert.InDelta(t, 19.90, entries[0].Pricing.Retail, 0.001)
	assert.InDelta(t, 25.00, entries[0].Pricing.List, 0.001)
	assert.Equal(t, 10, entries[0].Stock)

	assert.Equal(t, "SKU-2", entries[1].SKU)
	assert.Equal(t, models.LocalizedString{"en": "Hat"}, entries[1].Name)
	assert.False(t, entries[1].Enabled)
	assert.Zero(t, entries[1].Stock)
}

func TestParseCatalogCSVMissingColumn(t *testing.T) {
	_, err := ParseCatalogCSV(strings.NewReader("sku,name:en,retail\nSKU-1,Shoes,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock")
}

func TestParseCatalogCSVBadNumbers(t *testing.T) {
	_, err := ParseCatalogCSV(strings.NewReader(
		"sku,name:en,retail,stock\nSKU-1,Shoes,not-a-price,1\n"))
	assert.Error(t, err)

	_, err = ParseCatalogCSV(strings.NewReader(
		"sku,name:en,retail,stock\nSKU-1,Shoes,10,lots\n"))
	assert.Error(t, err)
}

func TestProcessCatalogUpload(t *testing.T) {
	db := testDB(t)

	// SKU-1 exists and will be refreshed, SKU-GONE is absent from the file.
	existing, err := CreateProduct(db, "SKU-1", models.LocalizedString{"en": "Old Shoes"})
	require.NoError(t, err)
	gone, err := CreateProduct(db, "SKU-GONE", models.LocalizedString{"en": "Discontinued"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", gone.ID).
		Update("enabled", true).Error)

	entries, err := ParseCatalogCSV(strings.NewReader(catalogCSV))
	require.NoError(t, err)

	result, err := ProcessCatalogUpload(db, entries)
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU-GONE"}, result.Disabled)
	assert.Equal(t, []string{"SKU-1"}, result.Updated)
	assert.Equal(t, []string{"SKU-2"}, result.Added)

	updated, err := GetProduct(db, existing.ID)
	require.NoError(t, err)
	assert.True(t, updated.Enabled)
	assert.InDelta(t, 19.90, updated.Pricing.Retail, 0.001)
	assert.Equal(t, 10, updated.Stock)

	disabled, err := GetProduct(db, gone.ID)
	require.NoError(t, err)
	assert.False(t, disabled.Enabled)

	added, err := GetProductBySKU(db, "SKU-2")
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.InDelta(t, 9.50, added.Pricing.Retail, 0.001)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	db := testDB(t)

	_, err := CreateProduct(db, "SKU-1", models.LocalizedString{"en": "Shoes"})
	require.NoError(t, err)

	_, err = CreateProduct(db, "SKU-1", models.LocalizedString{"en": "Other"})
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "sku", ve.Param)
}

func TestUpdateProductSKUCollision(t *testing.T) {
	db := testDB(t)

	first, err := CreateProduct(db, "SKU-1", models.LocalizedString{"en": "Shoes"})
	require.NoError(t, err)
	_, err = CreateProduct(db, "SKU-2", models.LocalizedString{"en": "Hat"})
	require.NoError(t, err)

	_, err = UpdateProduct(db, first.ID, ProductUpdate{SKU: "SKU-2"})
	_, ok := models.AsValidationError(err)
	assert.True(t, ok)

	// Keeping your own SKU is fine.
	_, err = UpdateProduct(db, first.ID, ProductUpdate{
		SKU:  "SKU-1",
		Name: models.LocalizedString{"en": "Shoes"},
	})
	assert.NoError(t, err)
}

func TestHasStock(t *testing.T) {
	db := testDB(t)
	product, err := CreateProduct(db, "SKU-1", models.LocalizedString{"en": "Shoes"})
	require.NoError(t, err)
	require.NoError(t, AdjustStock(db, product.ID, 5))

	ok, err := HasStock(db, models.CartLines{{ProductID: product.ID, Quantity: 5}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasStock(db, models.CartLines{{ProductID: product.ID, Quantity: 6}})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = HasStock(db, models.CartLines{{ProductID: "missing", Quantity: 1}})
	require.NoError(t, err)
	assert.False(t, ok, "unknown products have no stock")

	ok, err = HasStock(db, nil)
	require.NoError(t, err)
	assert.True(t, ok, "empty line set is trivially satisfiable")
}
