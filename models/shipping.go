package models

// ShippingOption is a shipping method available for a given checkout.
type ShippingOption struct {
	Value    string          `json:"value"`
	Name     LocalizedString `json:"name"`
	Price    float64         `json:"price"`
	VAT      float64         `json:"vat"`
	Currency string          `json:"currency"`
}

// PaymentOption is a payment method the store accepts.
type PaymentOption struct {
	ID    string          `json:"id"`
	Label LocalizedString `json:"label"`
}

// Orders above this subtotal ship for free.
const freeShippingThreshold = 19.90

// ShippingOptions returns the shipping methods applicable to the checkout.
// Currently a single carrier with a free tier above the threshold.
func ShippingOptions(checkout *Checkout) []ShippingOption {
	if checkout.SubTotal() <= freeShippingThreshold {
		return []ShippingOption{{
			Value: "standard",
			Name: LocalizedString{
				"en": "CTT Expresso, 2 to 3 workdays after shipping",
				"pt": "CTT Expresso, 2 a 3 dias úteis após envio",
			},
			Price:    3.40,
			VAT:      23,
			Currency: "EUR",
		}}
	}
	return []ShippingOption{{
		Value: "free",
		Name: LocalizedString{
			"en": "Free! CTT Expresso, 2 to 3 workdays after shipping",
			"pt": "Grátis! CTT Expresso, 2 a 3 dias úteis após envio",
		},
		Price:    0,
		VAT:      23,
		Currency: "EUR",
	}}
}

// PaymentOptions returns the payment methods applicable to the checkout.
func PaymentOptions(checkout *Checkout) []PaymentOption {
	return []PaymentOption{{
		ID: "bankTransfer",
		Label: LocalizedString{
			"en": "Bank Transfer",
			"pt": "Transferência Bancária",
		},
	}}
}
