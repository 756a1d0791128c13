package fileControllers

import (
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	"github.com/yoonic/atlas/controllers/api"
	collectionControllers "github.com/yoonic/atlas/controllers/collection"
	contentControllers "github.com/yoonic/atlas/controllers/content"
	productControllers "github.com/yoonic/atlas/controllers/product"
	"github.com/yoonic/atlas/models"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// POST /v1/files (admin)
// Multipart upload. resource selects the target: products, collections and
// contents take an image (appended to the resource with the given id),
// catalog takes a CSV and reconciles the whole product catalog against it.
func UploadHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource := c.PostForm("resource")
		file, err := c.FormFile("file")
		if err != nil {
			api.InvalidParams(c, "file", "This field is required")
			return
		}

		switch resource {
		case "catalog":
			uploadCatalog(c, db, file)
		case "products", "collections", "contents":
			uploadImage(c, db, cfg, resource, file)
		default:
			api.InvalidParams(c, "resource", "Invalid")
		}
	}
}

func uploadCatalog(c *gin.Context, db *gorm.DB, file *multipart.FileHeader) {
	reader, err := file.Open()
	if err != nil {
		log.Printf("file: unable to open catalog upload: %v", err)
		api.Internal(c)
		return
	}
	defer reader.Close()

	entries, err := productControllers.ParseCatalogCSV(reader)
	if err != nil {
		if ve, ok := models.AsValidationError(err); ok {
			api.InvalidParams(c, ve.Param, ve.Message)
			return
		}
		api.InvalidParams(c, "file", "Invalid CSV")
		return
	}
	result, err := productControllers.ProcessCatalogUpload(db, entries)
	if err != nil {
		log.Printf("file: catalog upload failed: %v", err)
		api.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func uploadImage(c *gin.Context, db *gorm.DB, cfg *config.Config, resource string, file *multipart.FileHeader) {
	id := c.PostForm("id")
	if id == "" {
		api.InvalidParams(c, "id", "This field is required")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		api.InvalidParams(c, "file", "Unsupported image type")
		return
	}

	dir := filepath.Join(cfg.Uploads.Dir, resource)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("file: unable to create upload dir %s: %v", dir, err)
		api.Internal(c)
		return
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		log.Printf("file: unable to save upload: %v", err)
		api.Internal(c)
		return
	}
	image := models.Image{URL: "/uploads/" + resource + "/" + name}

	if err := appendImage(db, resource, id, image); err != nil {
		if ve, ok := models.AsValidationError(err); ok {
			api.InvalidParams(c, ve.Param, ve.Message)
			return
		}
		log.Printf("file: unable to attach image to %s %s: %v", resource, id, err)
		api.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, image)
}

func appendImage(db *gorm.DB, resource, id string, image models.Image) error {
	switch resource {
	case "products":
		product, err := productControllers.GetProduct(db, id)
		if err != nil {
			return err
		}
		if product == nil {
			return models.NewValidationError("id", "Invalid")
		}
		_, err = productControllers.UpdateProductImages(db, id, append(product.Images, image))
		return err
	case "collections":
		collection, err := collectionControllers.GetCollection(db, id)
		if err != nil {
			return err
		}
		if collection == nil {
			return models.NewValidationError("id", "Invalid")
		}
		return db.Model(&models.Collection{}).Where("id = ?", id).Updates(map[string]any{
			"images":     append(collection.Images, image),
			"updated_at": time.Now(),
		}).Error
	case "contents":
		content, err := contentControllers.GetContent(db, id)
		if err != nil {
			return err
		}
		if content == nil {
			return models.NewValidationError("id", "Invalid")
		}
		return db.Model(&models.Content{}).Where("id = ?", id).Updates(map[string]any{
			"images":     append(content.Images, image),
			"updated_at": time.Now(),
		}).Error
	}
	return models.NewValidationError("resource", "Invalid")
}
