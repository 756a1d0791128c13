package collectionControllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/controllers/api"
	"github.com/yoonic/atlas/middleware"
	"github.com/yoonic/atlas/models"
)

func CreateCollection(db *gorm.DB, name models.LocalizedString, tags models.StringList) (*models.Collection, error) {
	if tags == nil {
		tags = models.StringList{}
	}
	collection := models.Collection{
		ID:          uuid.NewString(),
		Enabled:     false,
		Name:        name,
		Description: models.LocalizedString{},
		Tags:        tags,
		Images:      models.ImageList{},
		Metadata:    models.JSONMap{},
	}
	if err := db.Create(&collection).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

// FindCollections lists collections alphabetically, optionally narrowed to
// those carrying all the given tags.
func FindCollections(db *gorm.DB, tags []string, enabledOnly bool) ([]models.Collection, error) {
	query := db.Model(&models.Collection{})
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	var all []models.Collection
	if err := query.Order("name ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return all, nil
	}
	items := make([]models.Collection, 0, len(all))
	for _, collection := range all {
		if collection.Tags.Contains(tags...) {
			items = append(items, collection)
		}
	}
	return items, nil
}

func GetCollection(db *gorm.DB, id string) (*models.Collection, error) {
	var collection models.Collection
	if err := db.First(&collection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &collection, nil
}

// CollectionUpdate is the full set of mutable collection fields.
type CollectionUpdate struct {
	Enabled     bool                   `json:"enabled"`
	Name        models.LocalizedString `json:"name"`
	Description models.LocalizedString `json:"description"`
	Tags        models.StringList      `json:"tags"`
	Images      models.ImageList       `json:"images"`
	ParentID    string                 `json:"parentId"`
	Metadata    models.JSONMap         `json:"metadata"`
}

func UpdateCollection(db *gorm.DB, id string, update CollectionUpdate) (*models.Collection, error) {
	if err := db.Model(&models.Collection{}).Where("id = ?", id).Updates(map[string]any{
		"enabled":     update.Enabled,
		"name":        update.Name,
		"description": update.Description,
		"tags":        update.Tags,
		"images":      update.Images,
		"parent_id":   update.ParentID,
		"metadata":    update.Metadata,
		"updated_at":  time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return GetCollection(db, id)
}

type createCollectionRequest struct {
	Name models.LocalizedString `json:"name" binding:"required"`
	Tags models.StringList      `json:"tags"`
}

// POST /v1/collections (admin)
func CreateCollectionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCollectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}
		collection, err := CreateCollection(db, req.Name, req.Tags)
		if err != nil {
			log.Printf("collection: create failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusCreated, collection)
	}
}

// GET /v1/collections
func ListCollectionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tags []string
		if raw := c.Query("tags"); raw != "" {
			tags = strings.Split(raw, ",")
		}
		items, err := FindCollections(db, tags, !middleware.IsAdmin(c))
		if err != nil {
			log.Printf("collection: list failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// GET /v1/collections/:collectionId
func GetCollectionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection, err := GetCollection(db, c.Param("collectionId"))
		if err != nil {
			log.Printf("collection: get failed: %v", err)
			api.Internal(c)
			return
		}
		if collection == nil || (!collection.Enabled && !middleware.IsAdmin(c)) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, collection)
	}
}

// PUT /v1/collections/:collectionId (admin)
func UpdateCollectionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection, err := GetCollection(db, c.Param("collectionId"))
		if err != nil {
			log.Printf("collection: get failed: %v", err)
			api.Internal(c)
			return
		}
		if collection == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		var update CollectionUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}
		updated, err := UpdateCollection(db, collection.ID, update)
		if err != nil {
			log.Printf("collection: update failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
