package cartControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/controllers/api"
	productControllers "github.com/yoonic/atlas/controllers/product"
	"github.com/yoonic/atlas/middleware"
	"github.com/yoonic/atlas/models"
)

type cartPatch struct {
	UserID  *string `json:"userId"`
	MergeID *string `json:"mergeId"`
	Archive *bool   `json:"archive"`
	Product *struct {
		ID       string `json:"id"`
		Quantity *int   `json:"quantity"`
	} `json:"product"`
}

// POST /v1/carts
func CreateCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		cart, err := CreateCart(db, userID)
		if err != nil {
			log.Printf("cart: create failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusCreated, cart)
	}
}

// GET /v1/carts (admin)
func ListCartsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var archived *bool
		switch c.Query("archived") {
		case "true":
			v := true
			archived = &v
		case "false":
			v := false
			archived = &v
		}
		carts, err := FindCarts(db, c.Query("userId"), archived)
		if err != nil {
			log.Printf("cart: list failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": carts})
	}
}

// resolveCart fetches the cart from the path param and enforces ownership.
// Replies and returns nil when the caller may not proceed.
func resolveCart(c *gin.Context, db *gorm.DB) *models.Cart {
	userID, _ := middleware.CurrentUserID(c)
	cart, err := GetCartIfAllowed(db, c.Param("cartId"), userID, c.Query("accessToken"))
	if err != nil {
		if errors.Is(err, models.ErrPermissionDenied) {
			c.AbortWithStatus(http.StatusForbidden)
		} else {
			log.Printf("cart: unable to get cart: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
		}
		return nil
	}
	if cart == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return nil
	}
	return cart
}

// GET /v1/carts/:cartId
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart := resolveCart(c, db)
		if cart == nil {
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// PATCH /v1/carts/:cartId
// The payload selects the operation: userId (claim), mergeId (merge another
// cart into this one), archive, or product (line upsert/remove).
func PatchCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart := resolveCart(c, db)
		if cart == nil {
			return
		}
		if cart.Archived {
			api.InvalidParams(c, "cart", "Archived")
			return
		}

		var payload cartPatch
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		var updated *models.Cart
		var err error

		switch {
		case payload.UserID != nil:
			if *payload.UserID == "" {
				api.InvalidParams(c, "userId", "This field is required")
				return
			}
			updated, err = ClaimCart(db, cart.ID, *payload.UserID)

		case payload.MergeID != nil:
			if *payload.MergeID == "" {
				api.InvalidParams(c, "mergeId", "This field is required")
				return
			}
			userID, _ := middleware.CurrentUserID(c)
			mergeCart, getErr := GetCart(db, *payload.MergeID)
			if getErr != nil {
				log.Printf("cart: unable to get merge cart: %v", getErr)
				api.Internal(c)
				return
			}
			if mergeCart == nil || mergeCart.UserID == "" || mergeCart.UserID != userID {
				api.InvalidParams(c, "mergeId", "Invalid")
				return
			}
			if mergeCart.Archived {
				api.InvalidParams(c, "mergeId", "Archived")
				return
			}
			updated, err = MergeCarts(db, cart.ID, mergeCart)

		case payload.Archive != nil:
			if !*payload.Archive {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
				return
			}
			updated, err = ArchiveCart(db, cart.ID)

		case payload.Product != nil:
			if payload.Product.ID == "" {
				api.InvalidParams(c, "product.id", "This field is required")
				return
			}
			if payload.Product.Quantity == nil {
				api.InvalidParams(c, "product.quantity", "This field is required")
				return
			}
			product, getErr := productControllers.GetProduct(db, payload.Product.ID)
			if getErr != nil {
				log.Printf("cart: unable to get product: %v", getErr)
				api.Internal(c)
				return
			}
			if product == nil || !product.Enabled {
				api.InvalidParams(c, "product.id", "Invalid")
				return
			}
			if product.Stock < *payload.Product.Quantity {
				api.InvalidParams(c, "product.quantity", "Not enough in stock")
				return
			}
			updated, err = UpdateCartProduct(db, cart.ID, payload.Product.ID, *payload.Product.Quantity)

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		if err != nil {
			log.Printf("cart: patch failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
