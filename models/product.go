package models

import (
	"database/sql/driver"
	"time"
)

// Pricing holds a product's prices and VAT rate. Retail is the price the
// customer pays, List the pre-discount price, VAT the rate in percent.
type Pricing struct {
	Currency string  `json:"currency"`
	List     float64 `json:"list"`
	Retail   float64 `json:"retail"`
	VAT      float64 `json:"vat"`
}

func (p Pricing) Value() (driver.Value, error) { return jsonValue(p) }
func (p *Pricing) Scan(value any) error        { return jsonScan(p, value) }

// Product is a catalog entry. Disabled products are hidden from customers
// but stay addressable by admins and inside checkout snapshots.
type Product struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	Enabled     bool            `json:"enabled"`
	SKU         string          `gorm:"uniqueIndex;not null" json:"sku"`
	Name        LocalizedString `gorm:"type:jsonb" json:"name"`
	Description LocalizedString `gorm:"type:jsonb" json:"description"`
	Images      ImageList       `gorm:"type:jsonb" json:"images"`
	Pricing     Pricing         `gorm:"type:jsonb" json:"pricing"`
	Stock       int             `json:"stock"`
	Tags        StringList      `gorm:"type:jsonb" json:"tags"`
	Collections StringList      `gorm:"type:jsonb" json:"collections"`
	Metadata    JSONMap         `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
