package models

import "time"

type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypeBanner  ContentType = "banner"
)

// ValidContentType reports whether t is a supported content type.
func ValidContentType(t ContentType) bool {
	return t == ContentTypeArticle || t == ContentTypeBanner
}

// ContentBodyBase returns the empty body structure for a content type.
func ContentBodyBase(t ContentType) JSONMap {
	switch t {
	case ContentTypeArticle:
		return JSONMap{"markdown": map[string]any{}, "summary": map[string]any{}}
	case ContentTypeBanner:
		return JSONMap{"image": map[string]any{}, "link": ""}
	default:
		return JSONMap{}
	}
}

// Content is a CMS document (article, banner) attached to collections/tags.
type Content struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	Enabled     bool            `json:"enabled"`
	Type        ContentType     `json:"type"`
	Name        LocalizedString `gorm:"type:jsonb" json:"name"`
	Body        JSONMap         `gorm:"type:jsonb" json:"body"`
	Images      ImageList       `gorm:"type:jsonb" json:"images"`
	Tags        StringList      `gorm:"type:jsonb" json:"tags"`
	Collections StringList      `gorm:"type:jsonb" json:"collections"`
	Metadata    JSONMap         `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
