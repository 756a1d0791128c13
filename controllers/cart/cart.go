package cartControllers

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/auth"
	"github.com/yoonic/atlas/models"
)

// CreateCart creates a cart for the given user, or an anonymous cart with a
// freshly minted access token when userID is empty.
func CreateCart(db *gorm.DB, userID string) (*models.Cart, error) {
	cart := models.Cart{
		ID:       uuid.NewString(),
		Products: models.CartLines{},
	}
	if userID != "" {
		cart.UserID = userID
	} else {
		cart.AccessToken = auth.NewAccessToken()
	}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindCarts lists carts, optionally filtered by owner and archive status,
// most recent first.
func FindCarts(db *gorm.DB, userID string, archived *bool) ([]models.Cart, error) {
	query := db.Model(&models.Cart{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if archived != nil {
		query = query.Where("archived = ?", *archived)
	}
	var carts []models.Cart
	if err := query.Order("created_at DESC").Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// GetCart returns the cart with the given ID, or nil when it does not exist.
func GetCart(db *gorm.DB, id string) (*models.Cart, error) {
	var cart models.Cart
	if err := db.First(&cart, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetCartIfAllowed returns the cart only when the caller owns it: a matching
// authenticated user for owned carts, a matching access token for anonymous
// ones. Returns models.ErrPermissionDenied otherwise.
func GetCartIfAllowed(db *gorm.DB, id, userID, accessToken string) (*models.Cart, error) {
	cart, err := GetCart(db, id)
	if err != nil || cart == nil {
		return cart, err
	}
	if cart.UserID != "" {
		if userID == "" || userID != cart.UserID {
			return nil, models.ErrPermissionDenied
		}
	} else if accessToken == "" || accessToken != cart.AccessToken {
		return nil, models.ErrPermissionDenied
	}
	return cart, nil
}

// ClaimCart assigns an owner to a cart (used to claim anonymous carts after
// login or registration).
func ClaimCart(db *gorm.DB, cartID, userID string) (*models.Cart, error) {
	if err := db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]any{
		"user_id":    userID,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return GetCart(db, cartID)
}

// MergeCarts folds mergeCart's products into the target cart, summing
// quantities of duplicate products, then archives the source cart and tags
// it with the target's ID.
func MergeCarts(db *gorm.DB, cartID string, mergeCart *models.Cart) (*models.Cart, error) {
	cart, err := GetCart(db, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, gorm.ErrRecordNotFound
	}

	now := time.Now()
	merged := models.MergeLines(mergeCart.Products, cart.Products)
	if err := db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]any{
		"products":   merged,
		"updated_at": now,
	}).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Cart{}).Where("id = ?", mergeCart.ID).Updates(map[string]any{
		"merged_with": cartID,
		"archived":    true,
		"updated_at":  now,
	}).Error; err != nil {
		return nil, err
	}

	return GetCart(db, cartID)
}

// ArchiveCart marks a cart as archived, freezing it.
func ArchiveCart(db *gorm.DB, cartID string) (*models.Cart, error) {
	if err := db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]any{
		"archived":   true,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return GetCart(db, cartID)
}

// UpdateCartProduct upserts a product line. Quantity 0 removes the line.
func UpdateCartProduct(db *gorm.DB, cartID, productID string, quantity int) (*models.Cart, error) {
	cart, err := GetCart(db, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, gorm.ErrRecordNotFound
	}

	index := -1
	for i, line := range cart.Products {
		if line.ProductID == productID {
			index = i
			break
		}
	}
	switch {
	case index == -1 && quantity > 0:
		cart.Products = append(cart.Products, models.CartLine{ProductID: productID, Quantity: quantity})
	case index >= 0 && quantity == 0:
		cart.Products = append(cart.Products[:index], cart.Products[index+1:]...)
	case index >= 0:
		cart.Products[index].Quantity = quantity
	}

	if err := db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]any{
		"products":   cart.Products,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return GetCart(db, cartID)
}
