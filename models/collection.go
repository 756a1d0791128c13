package models

import "time"

// Collection groups products and contents under a common name and tag set.
type Collection struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	Enabled     bool            `json:"enabled"`
	Name        LocalizedString `gorm:"type:jsonb" json:"name"`
	Description LocalizedString `gorm:"type:jsonb" json:"description"`
	Tags        StringList      `gorm:"type:jsonb" json:"tags"`
	Images      ImageList       `gorm:"type:jsonb" json:"images"`
	ParentID    string          `json:"parentId,omitempty"`
	Metadata    JSONMap         `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
