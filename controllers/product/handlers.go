package productControllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/controllers/api"
	"github.com/yoonic/atlas/middleware"
	"github.com/yoonic/atlas/models"
)

type createProductRequest struct {
	SKU  string                 `json:"sku" binding:"required"`
	Name models.LocalizedString `json:"name" binding:"required"`
}

// POST /v1/products (admin)
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}
		product, err := CreateProduct(db, req.SKU, req.Name)
		if err != nil {
			if ve, ok := models.AsValidationError(err); ok {
				api.InvalidParams(c, ve.Param, ve.Message)
				return
			}
			log.Printf("product: create failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// GET /v1/products
// Non-admin callers only see enabled products.
func ListProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := ProductFilters{
			SKU:         c.Query("sku"),
			Sort:        c.Query("sort"),
			EnabledOnly: !middleware.IsAdmin(c),
		}
		if collections := c.Query("collections"); collections != "" {
			filters.Collections = strings.Split(collections, ",")
		}
		if tags := c.Query("tags"); tags != "" {
			filters.Tags = strings.Split(tags, ",")
		}
		if page, err := strconv.Atoi(c.Query("page")); err == nil {
			filters.Page = page
		}
		if perPage, err := strconv.Atoi(c.Query("perPage")); err == nil {
			filters.PerPage = perPage
		}

		items, count, err := FindProducts(db, filters)
		if err != nil {
			log.Printf("product: list failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"pagination": gin.H{
				"totalItems": count,
				"page":       filters.Page,
				"perPage":    filters.PerPage,
			},
		})
	}
}

// GET /v1/products/:productId
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := GetProduct(db, c.Param("productId"))
		if err != nil {
			log.Printf("product: get failed: %v", err)
			api.Internal(c)
			return
		}
		if product == nil || (!product.Enabled && !middleware.IsAdmin(c)) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// PUT /v1/products/:productId (admin)
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := GetProduct(db, c.Param("productId"))
		if err != nil {
			log.Printf("product: get failed: %v", err)
			api.Internal(c)
			return
		}
		if product == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		var update ProductUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}
		updated, err := UpdateProduct(db, product.ID, update)
		if err != nil {
			if ve, ok := models.AsValidationError(err); ok {
				api.InvalidParams(c, ve.Param, ve.Message)
				return
			}
			log.Printf("product: update failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
