package checkoutControllers

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	productControllers "github.com/yoonic/atlas/controllers/product"
	"github.com/yoonic/atlas/models"
)

// CreateCheckout snapshots the cart into a new checkout. The snapshot embeds
// each product's details as they are right now and is never re-synced with
// the live cart. When exactly one shipping option applies it is selected by
// default.
func CreateCheckout(db *gorm.DB, cart *models.Cart, shippingAddress, billingAddress models.JSONMap) (*models.Checkout, error) {
	snapshot := models.CartSnapshot{
		ID:       cart.ID,
		UserID:   cart.UserID,
		Products: []models.SnapshotLine{},
	}
	for _, line := range cart.Products {
		product, err := productControllers.GetProduct(db, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			log.Printf("checkout: cart %s references missing product %s, dropping line", cart.ID, line.ProductID)
			continue
		}
		snapshot.Products = append(snapshot.Products, models.SnapshotLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Details:   *product,
		})
	}

	if shippingAddress == nil {
		shippingAddress = models.JSONMap{}
	}
	if billingAddress == nil {
		billingAddress = models.JSONMap{}
	}

	checkout := models.Checkout{
		ID:              uuid.NewString(),
		Currency:        "EUR",
		Cart:            snapshot,
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
	}
	if cart.UserID != "" {
		checkout.UserID = cart.UserID
	} else {
		checkout.AccessToken = cart.AccessToken
	}

	if options := models.ShippingOptions(&checkout); len(options) == 1 {
		checkout.ShippingMethod = options[0].Value
	}

	if err := db.Create(&checkout).Error; err != nil {
		return nil, err
	}
	return &checkout, nil
}

// GetCheckout returns the checkout with the given ID, or nil when absent.
func GetCheckout(db *gorm.DB, id string) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := db.First(&checkout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &checkout, nil
}

// GetCheckoutIfAllowed applies the same ownership rules as carts: matching
// user for owned checkouts, matching access token for anonymous ones.
func GetCheckoutIfAllowed(db *gorm.DB, id, userID, accessToken string) (*models.Checkout, error) {
	checkout, err := GetCheckout(db, id)
	if err != nil || checkout == nil {
		return checkout, err
	}
	if checkout.UserID != "" {
		if userID == "" || userID != checkout.UserID {
			return nil, models.ErrPermissionDenied
		}
	} else if accessToken == "" || accessToken != checkout.AccessToken {
		return nil, models.ErrPermissionDenied
	}
	return checkout, nil
}

func updateCheckout(db *gorm.DB, id string, fields map[string]any) (*models.Checkout, error) {
	fields["updated_at"] = time.Now()
	if err := db.Model(&models.Checkout{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return GetCheckout(db, id)
}

// UpdateCustomerDetails sets the denormalized customer identity of an
// anonymous checkout.
func UpdateCustomerDetails(db *gorm.DB, id string, customer models.Customer) (*models.Checkout, error) {
	return updateCheckout(db, id, map[string]any{"customer": customer})
}

// UpdateAddresses sets both shipping and billing addresses.
func UpdateAddresses(db *gorm.DB, id string, shippingAddress, billingAddress models.JSONMap) (*models.Checkout, error) {
	return updateCheckout(db, id, map[string]any{
		"shipping_address": shippingAddress,
		"billing_address":  billingAddress,
	})
}

// UpdateShippingMethod sets the chosen shipping method.
func UpdateShippingMethod(db *gorm.DB, id, shippingMethod string) (*models.Checkout, error) {
	return updateCheckout(db, id, map[string]any{"shipping_method": shippingMethod})
}

// UpdatePaymentMethod sets the chosen payment method.
func UpdatePaymentMethod(db *gorm.DB, id, paymentMethod string) (*models.Checkout, error) {
	return updateCheckout(db, id, map[string]any{"payment_method": paymentMethod})
}

// ArchiveCheckout marks the checkout as archived, freezing it.
func ArchiveCheckout(db *gorm.DB, id string) (*models.Checkout, error) {
	return updateCheckout(db, id, map[string]any{"archived": true})
}

// CustomerDetails resolves who is checking out: account holders are looked
// up live, anonymous checkouts use the denormalized customer fields.
func CustomerDetails(db *gorm.DB, checkout *models.Checkout) (models.Customer, error) {
	if checkout.UserID == "" {
		return checkout.Customer, nil
	}
	var user models.User
	if err := db.First(&user, "id = ?", checkout.UserID).Error; err != nil {
		return models.Customer{}, err
	}
	return models.Customer{UserID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// IsReady reports whether an order can be created from this checkout:
// customer identity present, shipping address and method chosen, billing
// address and payment method chosen, and every snapshot line in stock right
// now. Stock is not reserved.
func IsReady(db *gorm.DB, checkout *models.Checkout) (bool, error) {
	hasCustomerDetails := checkout.UserID != "" ||
		(checkout.Customer.Name != "" && checkout.Customer.Email != "")
	hasShippingInformation := len(checkout.ShippingAddress) > 0 && checkout.ShippingMethod != ""
	hasBillingInformation := len(checkout.BillingAddress) > 0 && checkout.PaymentMethod != ""

	lines := make(models.CartLines, 0, len(checkout.Cart.Products))
	for _, line := range checkout.Cart.Products {
		lines = append(lines, models.CartLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	hasStock, err := productControllers.HasStock(db, lines)
	if err != nil {
		return false, err
	}

	log.Printf("checkout %s readiness: customer=%t shipping=%t billing=%t stock=%t",
		checkout.ID, hasCustomerDetails, hasShippingInformation, hasBillingInformation, hasStock)
	return hasCustomerDetails && hasShippingInformation && hasBillingInformation && hasStock, nil
}
