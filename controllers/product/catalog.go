package productControllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/models"
)

// CatalogEntry is one row of a bulk catalog upload.
type CatalogEntry struct {
	SKU     string
	Name    models.LocalizedString
	Enabled bool
	Pricing models.Pricing
	Stock   int
}

// CatalogResult summarizes what a catalog upload did.
type CatalogResult struct {
	Disabled []string `json:"disabled"`
	Updated  []string `json:"updated"`
	Added    []string `json:"added"`
}

// ParseCatalogCSV reads a catalog file. Expected header:
// sku,name:en,name:pt,enabled,currency,list,retail,vat,stock
func ParseCatalogCSV(r io.Reader) ([]CatalogEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: unable to read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"sku", "name:en", "retail", "stock"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("catalog: missing column %q", required)
		}
	}

	get := func(record []string, name string) string {
		if i, ok := columns[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	var entries []CatalogEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: bad record: %w", err)
		}

		sku := get(record, "sku")
		if sku == "" {
			continue
		}
		retail, err := strconv.ParseFloat(get(record, "retail"), 64)
		if err != nil {
			return nil, fmt.Errorf("catalog: invalid retail price for SKU %q", sku)
		}
		stock, err := strconv.Atoi(get(record, "stock"))
		if err != nil {
			return nil, fmt.Errorf("catalog: invalid stock for SKU %q", sku)
		}
		list, _ := strconv.ParseFloat(get(record, "list"), 64)
		vat, _ := strconv.ParseFloat(get(record, "vat"), 64)
		enabled := strings.EqualFold(get(record, "enabled"), "true")
		currency := get(record, "currency")
		if currency == "" {
			currency = "EUR"
		}

		name := models.LocalizedString{"en": get(record, "name:en")}
		if pt := get(record, "name:pt"); pt != "" {
			name["pt"] = pt
		}

		entries = append(entries, CatalogEntry{
			SKU:     sku,
			Name:    name,
			Enabled: enabled,
			Pricing: models.Pricing{Currency: currency, List: list, Retail: retail, VAT: vat},
			Stock:   stock,
		})
	}
	return entries, nil
}

// ProcessCatalogUpload reconciles the catalog with an uploaded file:
// products whose SKU is absent from the file are disabled, known SKUs get
// their enabled flag, pricing and stock refreshed, and new SKUs are inserted.
func ProcessCatalogUpload(db *gorm.DB, entries []CatalogEntry) (*CatalogResult, error) {
	bySKU := make(map[string]CatalogEntry, len(entries))
	for _, entry := range entries {
		bySKU[entry.SKU] = entry
	}

	var existing []models.Product
	if err := db.Find(&existing).Error; err != nil {
		return nil, err
	}

	result := &CatalogResult{Disabled: []string{}, Updated: []string{}, Added: []string{}}
	now := time.Now()
	known := make(map[string]bool, len(existing))

	for _, product := range existing {
		known[product.SKU] = true
		entry, inCatalog := bySKU[product.SKU]
		if !inCatalog {
			if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
				"enabled":    false,
				"updated_at": now,
			}).Error; err != nil {
				return nil, err
			}
			result.Disabled = append(result.Disabled, product.SKU)
			continue
		}
		if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
			"enabled":    entry.Enabled,
			"pricing":    entry.Pricing,
			"stock":      entry.Stock,
			"updated_at": now,
		}).Error; err != nil {
			return nil, err
		}
		result.Updated = append(result.Updated, product.SKU)
	}

	for _, entry := range entries {
		if known[entry.SKU] {
			continue
		}
		product := models.Product{
			ID:          uuid.NewString(),
			Enabled:     entry.Enabled,
			SKU:         entry.SKU,
			Name:        entry.Name,
			Description: models.LocalizedString{},
			Images:      models.ImageList{},
			Pricing:     entry.Pricing,
			Stock:       entry.Stock,
			Tags:        models.StringList{},
			Collections: models.StringList{},
			Metadata:    models.JSONMap{},
		}
		if err := db.Create(&product).Error; err != nil {
			return nil, err
		}
		result.Added = append(result.Added, entry.SKU)
	}
	return result, nil
}
