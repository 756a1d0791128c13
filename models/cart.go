package models

import (
	"database/sql/driver"
	"time"
)

// CartLine is a single product entry in a cart.
type CartLine struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"quantity"`
}

type CartLines []CartLine

func (l CartLines) Value() (driver.Value, error) { return jsonValue(l) }
func (l *CartLines) Scan(value any) error        { return jsonScan(l, value) }

// Cart is the mutable pre-checkout basket. Exactly one ownership mechanism
// is active at a time: UserID for authenticated owners, AccessToken for
// anonymous ones. Archived carts are immutable.
type Cart struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"index" json:"userId,omitempty"`
	AccessToken string    `json:"accessToken,omitempty"`
	Products    CartLines `gorm:"type:jsonb" json:"products"`
	Archived    bool      `json:"archived"`
	MergedWith  string    `json:"mergedWith,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Quantity returns the requested quantity for a product, 0 if absent.
func (c *Cart) Quantity(productID string) int {
	for _, line := range c.Products {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// MergeLines combines two line lists, summing quantities of duplicate
// products. Lines from a come first, preserving their order.
func MergeLines(a, b CartLines) CartLines {
	merged := make(CartLines, 0, len(a)+len(b))
	index := make(map[string]int, len(a))
	for _, line := range a {
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	for _, line := range b {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
		} else {
			index[line.ProductID] = len(merged)
			merged = append(merged, line)
		}
	}
	return merged
}

// SnapshotLine is a cart line frozen into a checkout, with the product
// details denormalized at snapshot time.
type SnapshotLine struct {
	ProductID string  `json:"id"`
	Quantity  int     `json:"quantity"`
	Details   Product `json:"details"`
}

// CartSnapshot is the frozen copy of a cart embedded in a checkout. It is
// never re-synced with the live cart after the checkout is created.
type CartSnapshot struct {
	ID       string         `json:"id"`
	UserID   string         `json:"userId,omitempty"`
	Products []SnapshotLine `json:"products"`
}

func (s CartSnapshot) Value() (driver.Value, error) { return jsonValue(s) }
func (s *CartSnapshot) Scan(value any) error        { return jsonScan(s, value) }
