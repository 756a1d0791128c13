package productControllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/controllers/api"
	"github.com/yoonic/atlas/models"
)

// GET /v1/products/export (admin)
// Streams the full catalog as an xlsx workbook.
func ExportProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("sku ASC").Find(&products).Error; err != nil {
			log.Printf("product: export query failed: %v", err)
			api.Internal(c)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Catalog")
		if err != nil {
			log.Printf("product: export sheet failed: %v", err)
			api.Internal(c)
			return
		}

		header := sheet.AddRow()
		for _, title := range []string{"sku", "name:en", "name:pt", "enabled", "currency", "list", "retail", "vat", "stock"} {
			header.AddCell().SetString(title)
		}
		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetString(p.SKU)
			row.AddCell().SetString(p.Name["en"])
			row.AddCell().SetString(p.Name["pt"])
			row.AddCell().SetString(fmt.Sprintf("%t", p.Enabled))
			row.AddCell().SetString(p.Pricing.Currency)
			row.AddCell().SetFloat(p.Pricing.List)
			row.AddCell().SetFloat(p.Pricing.Retail)
			row.AddCell().SetFloat(p.Pricing.VAT)
			row.AddCell().SetInt(p.Stock)
		}

		c.Header("Content-Disposition", `attachment; filename="catalog.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			log.Printf("product: export write failed: %v", err)
		}
		c.Status(http.StatusOK)
	}
}
