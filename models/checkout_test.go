package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func checkoutWithLines(lines ...SnapshotLine) *Checkout {
	return &Checkout{
		Currency: "EUR",
		Cart:     CartSnapshot{ID: "cart-1", Products: lines},
	}
}

func snapshotLine(retail, vat float64, quantity int) SnapshotLine {
	return SnapshotLine{
		ProductID: "p1",
		Quantity:  quantity,
		Details: Product{
			Pricing: Pricing{Currency: "EUR", Retail: retail, VAT: vat},
		},
	}
}

func TestCheckoutSubTotal(t *testing.T) {
	checkout := checkoutWithLines(
		snapshotLine(10, 23, 2),
		snapshotLine(5.50, 23, 1),
	)

	assert.InDelta(t, 25.50, checkout.SubTotal(), 0.001)
}

func TestCheckoutTotalIncludesShipping(t *testing.T) {
	checkout := checkoutWithLines(snapshotLine(10, 23, 1))
	checkout.ShippingMethod = "standard"

	// 10.00 subtotal is under the free shipping threshold.
	assert.InDelta(t, 13.40, checkout.Total(), 0.001)
}

func TestCheckoutVatTotal(t *testing.T) {
	checkout := checkoutWithLines(snapshotLine(10, 23, 1))

	// 10 - 10/1.23, rounded to cents.
	assert.InDelta(t, 1.87, checkout.VatTotal(), 0.001)

	checkout.ShippingMethod = "standard"
	// Adds 3.40 - 3.40/1.23 of shipping VAT.
	assert.InDelta(t, 2.51, checkout.VatTotal(), 0.001)
}

func TestShippingOptionsThreshold(t *testing.T) {
	cheap := checkoutWithLines(snapshotLine(19.90, 23, 1))
	options := ShippingOptions(cheap)
	assert.Len(t, options, 1)
	assert.Equal(t, "standard", options[0].Value)
	assert.InDelta(t, 3.40, options[0].Price, 0.001)

	expensive := checkoutWithLines(snapshotLine(19.91, 23, 1))
	options = ShippingOptions(expensive)
	assert.Len(t, options, 1)
	assert.Equal(t, "free", options[0].Value)
	assert.Zero(t, options[0].Price)
}

func TestShippingDetails(t *testing.T) {
	checkout := checkoutWithLines(snapshotLine(10, 23, 1))

	_, ok := checkout.ShippingDetails()
	assert.False(t, ok, "no method chosen yet")

	checkout.ShippingMethod = "standard"
	details, ok := checkout.ShippingDetails()
	assert.True(t, ok)
	assert.InDelta(t, 3.40, details.Price, 0.001)

	// A method that no longer matches the options resolves to nothing.
	checkout.ShippingMethod = "free"
	_, ok = checkout.ShippingDetails()
	assert.False(t, ok)
}

func TestPaymentOptions(t *testing.T) {
	options := PaymentOptions(checkoutWithLines(snapshotLine(10, 23, 1)))
	assert.Len(t, options, 1)
	assert.Equal(t, "bankTransfer", options[0].ID)
}
