package models

import (
	"database/sql/driver"
	"time"
)

type OrderStatus string

const (
	OrderStatusCreated        OrderStatus = "created"
	OrderStatusPendingPayment OrderStatus = "pendingPayment"
	OrderStatusPaymentError   OrderStatus = "paymentError"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCanceled       OrderStatus = "canceled"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusShipped        OrderStatus = "shipped"
)

// Payment providers that can append to an order's payment log.
const PaymentProviderSwitch = "switch"

var orderStatuses = map[OrderStatus]bool{
	OrderStatusCreated:        true,
	OrderStatusPendingPayment: true,
	OrderStatusPaymentError:   true,
	OrderStatusPaid:           true,
	OrderStatusCanceled:       true,
	OrderStatusProcessing:     true,
	OrderStatusReady:          true,
	OrderStatusShipped:        true,
}

// Valid reports whether s is a known order status. There is no formal state
// machine beyond enum membership.
func (s OrderStatus) Valid() bool {
	return orderStatuses[s]
}

// Closed reports whether the order reached a terminal fulfillment state.
func (s OrderStatus) Closed() bool {
	return s == OrderStatusCanceled || s == OrderStatusShipped
}

// StatusLogEntry records one status transition. The log is append-only.
type StatusLogEntry struct {
	Status      OrderStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	Details     JSONMap     `json:"details,omitempty"`
	Date        time.Time   `json:"date"`
}

type StatusLog []StatusLogEntry

func (l StatusLog) Value() (driver.Value, error) { return jsonValue(l) }
func (l *StatusLog) Scan(value any) error        { return jsonScan(l, value) }

// PaymentLogEntry records one payment-provider event. The log is append-only
// and unvalidated.
type PaymentLogEntry struct {
	Provider          string    `json:"provider"`
	Type              string    `json:"type"`
	Date              time.Time `json:"date"`
	ChargeID          string    `json:"chargeId,omitempty"`
	InstrumentID      string    `json:"instrumentId,omitempty"`
	PaymentID         string    `json:"paymentId,omitempty"`
	InstrumentDetails JSONMap   `json:"instrumentDetails,omitempty"`
}

type PaymentLog []PaymentLogEntry

func (l PaymentLog) Value() (driver.Value, error) { return jsonValue(l) }
func (l *PaymentLog) Scan(value any) error        { return jsonScan(l, value) }

// Order is created from a ready checkout and tracked through its status log.
// It references the checkout; it does not copy it.
type Order struct {
	ID         string      `gorm:"primaryKey" json:"id"`
	CheckoutID string      `gorm:"index" json:"checkoutId"`
	Customer   Customer    `gorm:"type:jsonb" json:"customer"`
	Status     OrderStatus `json:"status"`
	StatusLog  StatusLog   `gorm:"type:jsonb" json:"statusLog"`
	PaymentLog PaymentLog  `gorm:"type:jsonb" json:"paymentLog"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
