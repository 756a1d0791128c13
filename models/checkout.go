package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// Customer identifies who is checking out: either a registered user (UserID)
// or denormalized contact details for anonymous checkouts.
type Customer struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

func (c Customer) Value() (driver.Value, error) { return jsonValue(c) }
func (c *Customer) Scan(value any) error        { return jsonScan(c, value) }

// Checkout is a frozen snapshot of a cart plus the fulfillment and payment
// selections made on top of it.
type Checkout struct {
	ID              string       `gorm:"primaryKey" json:"id"`
	UserID          string       `gorm:"index" json:"userId,omitempty"`
	AccessToken     string       `json:"accessToken,omitempty"`
	Currency        string       `json:"currency"`
	Cart            CartSnapshot `gorm:"type:jsonb" json:"cart"`
	Customer        Customer     `gorm:"type:jsonb" json:"customer"`
	ShippingAddress JSONMap      `gorm:"type:jsonb" json:"shippingAddress"`
	BillingAddress  JSONMap      `gorm:"type:jsonb" json:"billingAddress"`
	ShippingMethod  string       `json:"shippingMethod,omitempty"`
	PaymentMethod   string       `json:"paymentMethod,omitempty"`
	Archived        bool         `json:"archived"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// SubTotal is the sum of quantity times retail price over the snapshot.
func (c *Checkout) SubTotal() float64 {
	total := decimal.Zero
	for _, line := range c.Cart.Products {
		price := decimal.NewFromFloat(line.Details.Pricing.Retail)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	f, _ := total.Float64()
	return f
}

// VatTotal is the VAT portion of the checkout amount: for each line (and the
// shipping cost, if a method is chosen) price - price/(1+vat/100), rounded
// to two decimal places.
func (c *Checkout) VatTotal() float64 {
	total := decimal.Zero
	for _, line := range c.Cart.Products {
		lineTotal := decimal.NewFromFloat(line.Details.Pricing.Retail).
			Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(vatPortion(lineTotal, line.Details.Pricing.VAT))
	}
	if shipping, ok := c.ShippingDetails(); ok {
		total = total.Add(vatPortion(decimal.NewFromFloat(shipping.Price), shipping.VAT))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// Total is the amount to charge: subtotal plus shipping cost.
func (c *Checkout) Total() float64 {
	total := decimal.NewFromFloat(c.SubTotal())
	if shipping, ok := c.ShippingDetails(); ok {
		total = total.Add(decimal.NewFromFloat(shipping.Price))
	}
	f, _ := total.Float64()
	return f
}

// ShippingDetails resolves the chosen shipping method against the options
// available for this checkout.
func (c *Checkout) ShippingDetails() (ShippingOption, bool) {
	if c.ShippingMethod == "" {
		return ShippingOption{}, false
	}
	for _, opt := range ShippingOptions(c) {
		if opt.Value == c.ShippingMethod {
			return opt, true
		}
	}
	return ShippingOption{}, false
}

func vatPortion(amount decimal.Decimal, vat float64) decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(vat).Div(decimal.NewFromInt(100)))
	return amount.Sub(amount.DivRound(divisor, 8))
}
