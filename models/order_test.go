package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusCreated, OrderStatusPendingPayment, OrderStatusPaymentError,
		OrderStatusPaid, OrderStatusCanceled, OrderStatusProcessing,
		OrderStatusReady, OrderStatusShipped,
	} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, OrderStatus("refunded").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatusClosed(t *testing.T) {
	assert.True(t, OrderStatusCanceled.Closed())
	assert.True(t, OrderStatusShipped.Closed())
	assert.False(t, OrderStatusCreated.Closed())
	assert.False(t, OrderStatusPaid.Closed())
}

func TestStringListContains(t *testing.T) {
	list := StringList{"summer", "sale"}

	assert.True(t, list.Contains("summer"))
	assert.True(t, list.Contains("summer", "sale"))
	assert.False(t, list.Contains("winter"))
	assert.False(t, list.Contains("summer", "winter"))
	assert.True(t, list.Contains(), "empty query matches anything")
}
