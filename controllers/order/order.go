package orderControllers

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/models"
)

// CreateOrder inserts a new order in the created state, referencing the
// checkout it came from.
func CreateOrder(db *gorm.DB, checkoutID string, customer models.Customer) (*models.Order, error) {
	order := models.Order{
		ID:         uuid.NewString(),
		CheckoutID: checkoutID,
		Customer:   customer,
		Status:     models.OrderStatusCreated,
		StatusLog:  models.StatusLog{},
		PaymentLog: models.PaymentLog{},
	}
	if err := db.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder returns the order with the given ID, or nil when absent.
func GetOrder(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// OrderFilters narrows an order listing. Open selects orders that have not
// reached a terminal fulfillment state; nil means both.
type OrderFilters struct {
	UserID string
	Open   *bool
}

// FindOrders lists orders, most recent first.
func FindOrders(db *gorm.DB, filters OrderFilters) ([]models.Order, int64, error) {
	query := db.Model(&models.Order{})
	closed := []models.OrderStatus{models.OrderStatusCanceled, models.OrderStatusShipped}
	if filters.Open != nil {
		if *filters.Open {
			query = query.Where("status NOT IN ?", closed)
		} else {
			query = query.Where("status IN ?", closed)
		}
	}

	var all []models.Order
	if err := query.Order("created_at DESC").Find(&all).Error; err != nil {
		return nil, 0, err
	}

	// Owner filtering goes through the jsonb customer document.
	items := all
	if filters.UserID != "" {
		items = make([]models.Order, 0, len(all))
		for _, order := range all {
			if order.Customer.UserID == filters.UserID {
				items = append(items, order)
			}
		}
	}
	return items, int64(len(items)), nil
}

// UpdateOrderStatus validates the status against the enum, appends a status
// log entry and updates the order. There is no state machine beyond enum
// membership; both logs only ever grow.
func UpdateOrderStatus(db *gorm.DB, orderID string, status models.OrderStatus, description string, details models.JSONMap) (*models.Order, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "Invalid")
	}

	order, err := GetOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, gorm.ErrRecordNotFound
	}

	now := time.Now()
	statusLog := append(order.StatusLog, models.StatusLogEntry{
		Status:      status,
		Description: description,
		Details:     details,
		Date:        now,
	})
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]any{
		"status":     status,
		"status_log": statusLog,
		"updated_at": now,
	}).Error; err != nil {
		return nil, err
	}

	updated, err := GetOrder(db, orderID)
	if err == nil && updated != nil {
		broadcastOrderUpdate(updated)
	}
	return updated, err
}

// AppendPaymentLog appends a provider event to the order's payment log.
// Entries are never validated or rewritten.
func AppendPaymentLog(db *gorm.DB, orderID string, entry models.PaymentLogEntry) error {
	order, err := GetOrder(db, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return gorm.ErrRecordNotFound
	}
	return db.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]any{
		"payment_log": append(order.PaymentLog, entry),
		"updated_at":  time.Now(),
	}).Error
}
