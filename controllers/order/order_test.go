package orderControllers

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.Checkout{}))
	return db
}

func TestCreateOrder(t *testing.T) {
	db := testDB(t)

	order, err := CreateOrder(db, "checkout-1", models.Customer{UserID: "user-1", Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	assert.Equal(t, "checkout-1", order.CheckoutID)
	assert.Empty(t, order.StatusLog)
	assert.Empty(t, order.PaymentLog)
}

func TestUpdateOrderStatus(t *testing.T) {
	db := testDB(t)
	order, err := CreateOrder(db, "checkout-1", models.Customer{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	updated, err := UpdateOrderStatus(db, order.ID, models.OrderStatusPendingPayment, "Email sent successfully", nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingPayment, updated.Status)
	require.Len(t, updated.StatusLog, 1)
	assert.Equal(t, models.OrderStatusPendingPayment, updated.StatusLog[0].Status)
	assert.Equal(t, "Email sent successfully", updated.StatusLog[0].Description)

	updated, err = UpdateOrderStatus(db, order.ID, models.OrderStatusPaid, "", nil)
	require.NoError(t, err)
	assert.Len(t, updated.StatusLog, 2, "the log only grows")
}

func TestUpdateOrderStatusInvalid(t *testing.T) {
	db := testDB(t)
	order, err := CreateOrder(db, "checkout-1", models.Customer{Name: "Ana"})
	require.NoError(t, err)

	_, err = UpdateOrderStatus(db, order.ID, "refunded", "", nil)
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "status", ve.Param)

	unchanged, err := GetOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCreated, unchanged.Status)
}

func TestAppendPaymentLog(t *testing.T) {
	db := testDB(t)
	order, err := CreateOrder(db, "checkout-1", models.Customer{Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, AppendPaymentLog(db, order.ID, models.PaymentLogEntry{
		Provider: models.PaymentProviderSwitch,
		Type:     "charge.created",
		ChargeID: "charge-1",
	}))
	require.NoError(t, AppendPaymentLog(db, order.ID, models.PaymentLogEntry{
		Provider:  models.PaymentProviderSwitch,
		Type:      "payment.success",
		PaymentID: "payment-1",
	}))

	reloaded, err := GetOrder(db, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.PaymentLog, 2)
	assert.Equal(t, "charge-1", reloaded.PaymentLog[0].ChargeID)
	assert.Equal(t, "payment-1", reloaded.PaymentLog[1].PaymentID)
}

func TestFindOrdersFilters(t *testing.T) {
	db := testDB(t)

	open, err := CreateOrder(db, "checkout-1", models.Customer{UserID: "user-1"})
	require.NoError(t, err)
	shipped, err := CreateOrder(db, "checkout-2", models.Customer{UserID: "user-2"})
	require.NoError(t, err)
	_, err = UpdateOrderStatus(db, shipped.ID, models.OrderStatusShipped, "Out the door", nil)
	require.NoError(t, err)

	all, count, err := FindOrders(db, OrderFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 2, count)

	openOnly := true
	items, _, err := FindOrders(db, OrderFilters{Open: &openOnly})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, open.ID, items[0].ID)

	closedOnly := false
	items, _, err = FindOrders(db, OrderFilters{Open: &closedOnly})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, shipped.ID, items[0].ID)

	items, _, err = FindOrders(db, OrderFilters{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, open.ID, items[0].ID)
}
