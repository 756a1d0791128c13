// Package paymentControllers reconciles Switch Payments webhook events with
// order state. The webhook is fire-and-forget: the provider is answered
// before (and regardless of how) the event is processed, so nothing here
// relies on provider-side retries.
package paymentControllers

import (
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	checkoutControllers "github.com/yoonic/atlas/controllers/checkout"
	orderControllers "github.com/yoonic/atlas/controllers/order"
	"github.com/yoonic/atlas/email"
	"github.com/yoonic/atlas/models"
	"github.com/yoonic/atlas/payments"
)

type Reconciler struct {
	db      *gorm.DB
	source  payments.EventSource
	mailer  email.Sender
	enabled bool
}

func NewReconciler(db *gorm.DB, source payments.EventSource, mailer email.Sender, enabled bool) *Reconciler {
	return &Reconciler{db: db, source: source, mailer: mailer, enabled: enabled}
}

// POST /v1/orders/:orderId/spwh
// Always answers before processing: 401 when the provider integration is
// disabled, 404 for unknown orders, 400 when the order is past payment,
// 200 otherwise.
func (r *Reconciler) WebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderId")
		eventID := c.Query("event")

		if !r.enabled {
			log.Printf("webhook: provider disabled, dropping event %q for order %s", eventID, orderID)
			c.Status(http.StatusUnauthorized)
			return
		}

		order, err := orderControllers.GetOrder(r.db, orderID)
		if err != nil {
			log.Printf("webhook: unable to get order %s: %v", orderID, err)
			c.Status(http.StatusInternalServerError)
			return
		}
		if order == nil {
			log.Printf("webhook: invalid order %s for event %q", orderID, eventID)
			c.Status(http.StatusNotFound)
			return
		}
		if order.Status != models.OrderStatusCreated && order.Status != models.OrderStatusPendingPayment {
			log.Printf("webhook: order %s is not awaiting payment, dropping event %q", orderID, eventID)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order is not pending payment"})
			return
		}

		go r.ProcessEvent(order, eventID)
		c.Status(http.StatusOK)
	}
}

// ProcessEvent fetches the event from the provider and applies it to the
// order. Mismatched or unknown events are logged and dropped; there is no
// retry and no dead-letter handling.
func (r *Reconciler) ProcessEvent(order *models.Order, eventID string) {
	event, err := r.source.FetchEvent(eventID)
	if err != nil {
		log.Printf("webhook: unable to fetch event %q: %v", eventID, err)
		return
	}

	switch event.Type {
	case payments.EventChargeCreated:
		r.handleChargeCreated(order, event)
	case payments.EventInstrumentSuccess:
		r.handleInstrumentSuccess(order, event)
	case payments.EventInstrumentError:
		r.handleInstrumentError(order, event)
	case payments.EventPaymentSuccess:
		r.handlePaymentSuccess(order, event)
	case payments.EventPaymentError:
		r.handlePaymentError(order, event)
	default:
		log.Printf("webhook: no handler for event type %q", event.Type)
	}
}

// handleChargeCreated confirms the charge after checking that it matches
// the order's checkout: right order reference, right amount, right payment
// method.
func (r *Reconciler) handleChargeCreated(order *models.Order, event *payments.Event) {
	checkout, err := checkoutControllers.GetCheckout(r.db, order.CheckoutID)
	if err != nil || checkout == nil {
		log.Printf("webhook: unable to get checkout %s: %v", order.CheckoutID, err)
		return
	}
	if event.Charge.Metadata.OrderID != order.ID ||
		!amountsEqual(event.Charge.Amount, checkout.Total()) ||
		event.Charge.ChargeType != checkout.PaymentMethod {
		log.Printf("webhook: event %s does not match order %s", event.ID, order.ID)
		return
	}

	r.appendLog(order.ID, models.PaymentLogEntry{
		Provider: models.PaymentProviderSwitch,
		Type:     payments.EventChargeCreated,
		Date:     time.Now(),
		ChargeID: event.Charge.ID,
	})
	go func() {
		if err := r.source.ConfirmCharge(event.Charge.ID); err != nil {
			log.Printf("webhook: unable to confirm charge %s: %v", event.Charge.ID, err)
		}
	}()
}

// handleInstrumentSuccess records the payment instrument, emails the
// customer their payment reference and moves the order to pendingPayment.
// The transition happens whether or not the email went out; failure only
// changes the log description.
func (r *Reconciler) handleInstrumentSuccess(order *models.Order, event *payments.Event) {
	if event.Charge.Metadata.OrderID != order.ID {
		log.Printf("webhook: event %s does not match order %s", event.ID, order.ID)
		return
	}

	instrumentDetails := models.JSONMap{"type": event.Charge.ChargeType}
	for k, v := range event.Instrument.Redirect {
		instrumentDetails[k] = v
	}
	r.appendLog(order.ID, models.PaymentLogEntry{
		Provider:          models.PaymentProviderSwitch,
		Type:              payments.EventInstrumentSuccess,
		Date:              time.Now(),
		InstrumentID:      event.Instrument.ID,
		InstrumentDetails: instrumentDetails,
	})

	data := map[string]any{
		"customerDetails":   order.Customer,
		"order":             order,
		"instrumentDisplay": payments.InstrumentDisplay(instrumentDetails),
	}
	if checkout, err := checkoutControllers.GetCheckout(r.db, order.CheckoutID); err == nil && checkout != nil {
		data["checkout"] = checkout
		if shipping, ok := checkout.ShippingDetails(); ok {
			data["shippingDetails"] = shipping
		}
	}

	if err := r.mailer.SendTemplate(email.TemplateOrderCreated, order.Customer.Email, data, ""); err != nil {
		log.Printf("webhook: unable to send order created email for %s: %v", order.ID, err)
		r.updateStatus(order.ID, models.OrderStatusPendingPayment, "Email error", models.JSONMap{"error": err.Error()})
		return
	}
	r.updateStatus(order.ID, models.OrderStatusPendingPayment, "Email sent successfully", nil)
}

func (r *Reconciler) handleInstrumentError(order *models.Order, event *payments.Event) {
	if event.Charge.Metadata.OrderID != order.ID {
		log.Printf("webhook: event %s does not match order %s", event.ID, order.ID)
		return
	}
	r.appendLog(order.ID, models.PaymentLogEntry{
		Provider:     models.PaymentProviderSwitch,
		Type:         payments.EventInstrumentError,
		Date:         time.Now(),
		InstrumentID: event.Instrument.ID,
	})
	r.updateStatus(order.ID, models.OrderStatusPaymentError, "", nil)
}

// handlePaymentSuccess moves the order to paid and sends the payment
// confirmation email, with the same email-failure rule as instrument
// success.
func (r *Reconciler) handlePaymentSuccess(order *models.Order, event *payments.Event) {
	if event.Charge.Metadata.OrderID != order.ID {
		log.Printf("webhook: event %s does not match order %s", event.ID, order.ID)
		return
	}
	r.appendLog(order.ID, models.PaymentLogEntry{
		Provider:  models.PaymentProviderSwitch,
		Type:      payments.EventPaymentSuccess,
		Date:      time.Now(),
		PaymentID: event.Payment.ID,
	})

	if err := r.mailer.SendTemplate(email.TemplateOrderPaid, order.Customer.Email, map[string]any{"order": order}, ""); err != nil {
		log.Printf("webhook: unable to send order paid email for %s: %v", order.ID, err)
		r.updateStatus(order.ID, models.OrderStatusPaid, "Email error", models.JSONMap{"error": err.Error()})
		return
	}
	r.updateStatus(order.ID, models.OrderStatusPaid, "Email sent successfully", nil)
}

func (r *Reconciler) handlePaymentError(order *models.Order, event *payments.Event) {
	if event.Charge.Metadata.OrderID != order.ID {
		log.Printf("webhook: event %s does not match order %s", event.ID, order.ID)
		return
	}
	r.updateStatus(order.ID, models.OrderStatusPaymentError, "", nil)
	r.appendLog(order.ID, models.PaymentLogEntry{
		Provider:  models.PaymentProviderSwitch,
		Type:      payments.EventPaymentError,
		Date:      time.Now(),
		PaymentID: event.Payment.ID,
	})
}

func (r *Reconciler) appendLog(orderID string, entry models.PaymentLogEntry) {
	if err := orderControllers.AppendPaymentLog(r.db, orderID, entry); err != nil {
		log.Printf("webhook: unable to append payment log for %s: %v", orderID, err)
	}
}

func (r *Reconciler) updateStatus(orderID string, status models.OrderStatus, description string, details models.JSONMap) {
	if _, err := orderControllers.UpdateOrderStatus(r.db, orderID, status, description, details); err != nil {
		log.Printf("webhook: unable to update order %s status: %v", orderID, err)
	}
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
