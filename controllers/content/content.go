package contentControllers

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

func CreateContent(db *gorm.DB, contentType models.ContentType, name models.LocalizedString) (*models.Content, error) {
	if !models.ValidContentType(contentType) {
		return nil, models.NewValidationError("type", "Invalid")
	}
	content := models.Content{
		ID:          uuid.NewString(),
		Enabled:     false,
		Type:        contentType,
		Name:        name,
		Body:        models.ContentBodyBase(contentType),
		Images:      models.ImageList{},
		Tags:        models.StringList{},
		Collections: models.StringList{},
		Metadata:    models.JSONMap{},
	}
	if err := db.Create(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// ContentFilters narrows a content listing.
type ContentFilters struct {
	Type        string
	Collections []string
	Tags        []string
	EnabledOnly bool
}

// FindContents lists contents, most recent first.
func FindContents(db *gorm.DB, filters ContentFilters) ([]models.Content, error) {
	query := db.Model(&models.Content{})
	if filters.EnabledOnly {
		query = query.Where("enabled = ?", true)
	}
	if filters.Type != "" {
		if !models.ValidContentType(models.ContentType(filters.Type)) {
			return nil, models.NewValidationError("type", "Invalid")
		}
		query = query.Where("type = ?", filters.Type)
	}
	var all []models.Content
	if err := query.Order("created_at DESC").Find(&all).Error; err != nil {
		return nil, err
	}
	items := make([]models.Content, 0, len(all))
	for _, content := range all {
		if len(filters.Collections) > 0 && !content.Collections.Contains(filters.Collections...) {
			continue
		}
		if len(filters.Tags) > 0 && !content.Tags.Contains(filters.Tags...) {
			continue
		}
		items = append(items, content)
	}
	return items, nil
}

func GetContent(db *gorm.DB, id string) (*models.Content, error) {
	var content models.Content
	if err := db.First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &content, nil
}

// ContentUpdate is the full set of mutable content fields.
type ContentUpdate struct {
	Enabled     bool                   `json:"enabled"`
	Name        models.LocalizedString `json:"name"`
	Body        models.JSONMap         `json:"body"`
	Images      models.ImageList       `json:"images"`
	Tags        models.StringList      `json:"tags"`
	Collections models.StringList      `json:"collections"`
	Metadata    models.JSONMap         `json:"metadata"`
}

func UpdateContent(db *gorm.DB, id string, update ContentUpdate) (*models.Content, error) {
	if err := db.Model(&models.Content{}).Where("id = ?", id).Updates(map[string]any{
		"enabled":     update.Enabled,
		"name":        update.Name,
		"body":        update.Body,
		"images":      update.Images,
		"tags":        update.Tags,
		"collections": update.Collections,
		"metadata":    update.Metadata,
		"updated_at":  time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return GetContent(db, id)
}

type createContentRequest struct {
	Type string                 `json:"type" binding:"required"`
	Name models.LocalizedString `json:"name" binding:"required"`
}

// POST /v1/contents (admin)
func CreateContentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}
		content, err := CreateContent(db, models.ContentType(req.Type), req.Name)
		if err != nil {
			if ve, ok := models.AsValidationError(err); ok {
				api.InvalidParams(c, ve.Param, ve.Message)
				return
			}
			log.Printf("content: create failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusCreated, content)
	}
}

// GET /v1/contents
func ListContentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := ContentFilters{
			Type:        c.Query("type"),
			EnabledOnly: !middleware.IsAdmin(c),
		}
		if raw := c.Query("collections"); raw != "" {
			filters.Collections = strings.Split(raw, ",")
		}
		if raw := c.Query("tags"); raw != "" {
			filters.Tags = strings.Split(raw, ",")
		}

		items, err := FindContents(db, filters)
		if err != nil {
			if ve, ok := models.AsValidationError(err); ok {
				api.InvalidParams(c, ve.Param, ve.Message)
				return
			}
			log.Printf("content: list failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// GET /v1/contents/:contentId
func GetContentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := GetContent(db, c.Param("contentId"))
		if err != nil {
			log.Printf("content: get failed: %v", err)
			api.Internal(c)
			return
		}
		if content == nil || (!content.Enabled && !middleware.IsAdmin(c)) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, content)
	}
}

// PUT /v1/contents/:contentId (admin)
func UpdateContentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := GetContent(db, c.Param("contentId"))
		if err != nil {
			log.Printf("content: get failed: %v", err)
			api.Internal(c)
			return
		}
		if content == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		var update ContentUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}
		updated, err := UpdateContent(db, content.ID, update)
		if err != nil {
			log.Printf("content: update failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
