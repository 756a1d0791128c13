package checkoutControllers

import (
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/controllers/api"
	cartControllers "github.com/yoonic/atlas/controllers/cart"
	"github.com/yoonic/atlas/middleware"
	"github.com/yoonic/atlas/models"
)

type createCheckoutRequest struct {
	CartID          string         `json:"cartId" binding:"required"`
	ShippingAddress models.JSONMap `json:"shippingAddress"`
	BillingAddress  models.JSONMap `json:"billingAddress"`
}

type checkoutPatch struct {
	Customer        *models.Customer `json:"customer"`
	ShippingAddress *models.JSONMap  `json:"shippingAddress"`
	BillingAddress  *models.JSONMap  `json:"billingAddress"`
	ShippingMethod  *string          `json:"shippingMethod"`
	PaymentMethod   *string          `json:"paymentMethod"`
}

// serializeCheckout appends the derived amounts and available options to the
// stored document.
func serializeCheckout(checkout *models.Checkout) gin.H {
	out := gin.H{
		"id":              checkout.ID,
		"currency":        checkout.Currency,
		"cart":            checkout.Cart,
		"customer":        checkout.Customer,
		"shippingAddress": checkout.ShippingAddress,
		"billingAddress":  checkout.BillingAddress,
		"shippingMethod":  checkout.ShippingMethod,
		"paymentMethod":   checkout.PaymentMethod,
		"archived":        checkout.Archived,
		"subTotal":        checkout.SubTotal(),
		"vatTotal":        checkout.VatTotal(),
		"total":           checkout.Total(),
		"shippingOptions": models.ShippingOptions(checkout),
		"paymentOptions":  models.PaymentOptions(checkout),
		"createdAt":       checkout.CreatedAt,
	}
	if checkout.UserID != "" {
		out["userId"] = checkout.UserID
	}
	if shipping, ok := checkout.ShippingDetails(); ok {
		out["shippingDetails"] = shipping
	}
	return out
}

// POST /v1/checkouts
func CreateCheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			api.InvalidParams(c, "cartId", "This field is required")
			return
		}

		userID, _ := middleware.CurrentUserID(c)
		cart, err := cartControllers.GetCartIfAllowed(db, req.CartID, userID, c.Query("accessToken"))
		if err != nil {
			if errors.Is(err, models.ErrPermissionDenied) {
				api.InvalidParams(c, "cartId", "Invalid")
			} else {
				log.Printf("checkout: unable to get cart: %v", err)
				api.Internal(c)
			}
			return
		}
		if cart == nil {
			api.InvalidParams(c, "cartId", "Invalid")
			return
		}
		if cart.Archived {
			api.InvalidParams(c, "cartId", "Archived")
			return
		}
		if len(cart.Products) == 0 {
			api.InvalidParams(c, "cart.products", "Cannot be empty")
			return
		}

		checkout, err := CreateCheckout(db, cart, req.ShippingAddress, req.BillingAddress)
		if err != nil {
			log.Printf("checkout: create failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusCreated, serializeCheckout(checkout))
	}
}

// resolveCheckout fetches the checkout from the path param and enforces
// ownership. Replies and returns nil when the caller may not proceed.
func resolveCheckout(c *gin.Context, db *gorm.DB) *models.Checkout {
	userID, _ := middleware.CurrentUserID(c)
	checkout, err := GetCheckoutIfAllowed(db, c.Param("checkoutId"), userID, c.Query("accessToken"))
	if err != nil {
		if errors.Is(err, models.ErrPermissionDenied) {
			c.AbortWithStatus(http.StatusForbidden)
		} else {
			log.Printf("checkout: unable to get checkout: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
		}
		return nil
	}
	if checkout == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return nil
	}
	return checkout
}

// GET /v1/checkouts/:checkoutId
func GetCheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		checkout := resolveCheckout(c, db)
		if checkout == nil {
			return
		}
		c.JSON(http.StatusOK, serializeCheckout(checkout))
	}
}

// PATCH /v1/checkouts/:checkoutId
// The payload selects the operation: customer, addresses, shippingMethod or
// paymentMethod. Archived checkouts reject everything.
func PatchCheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		checkout := resolveCheckout(c, db)
		if checkout == nil {
			return
		}
		if checkout.Archived {
			api.InvalidParams(c, "checkout", "Archived")
			return
		}

		var payload checkoutPatch
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		var updated *models.Checkout
		var err error

		switch {
		case payload.Customer != nil:
			customer := *payload.Customer
			if customer.Name == "" {
				api.InvalidParams(c, "customer.name", "This field is required")
				return
			}
			if customer.Email == "" {
				api.InvalidParams(c, "customer.email", "This field is required")
				return
			}
			customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
			if _, mailErr := mail.ParseAddress(customer.Email); mailErr != nil {
				api.InvalidParams(c, "customer.email", "Must be a valid email")
				return
			}
			// Checkouts owned by registered accounts resolve the customer
			// from the account instead.
			if checkout.UserID != "" {
				api.InvalidParams(c, "customer", "This field is not allowed")
				return
			}
			updated, err = UpdateCustomerDetails(db, checkout.ID, customer)

		case payload.ShippingAddress != nil && payload.BillingAddress != nil:
			if len(*payload.ShippingAddress) == 0 {
				api.InvalidParams(c, "shippingAddress", "This field is required")
				return
			}
			if len(*payload.BillingAddress) == 0 {
				api.InvalidParams(c, "billingAddress", "This field is required")
				return
			}
			updated, err = UpdateAddresses(db, checkout.ID, *payload.ShippingAddress, *payload.BillingAddress)

		case payload.ShippingMethod != nil:
			if *payload.ShippingMethod == "" {
				api.InvalidParams(c, "shippingMethod", "This field is required")
				return
			}
			valid := false
			for _, opt := range models.ShippingOptions(checkout) {
				if opt.Value == *payload.ShippingMethod {
					valid = true
					break
				}
			}
			if !valid {
				api.InvalidParams(c, "shippingMethod", "Invalid")
				return
			}
			updated, err = UpdateShippingMethod(db, checkout.ID, *payload.ShippingMethod)

		case payload.PaymentMethod != nil:
			if *payload.PaymentMethod == "" {
				api.InvalidParams(c, "paymentMethod", "This field is required")
				return
			}
			updated, err = UpdatePaymentMethod(db, checkout.ID, *payload.PaymentMethod)

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		if err != nil {
			log.Printf("checkout: patch failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, serializeCheckout(updated))
	}
}
