package paymentControllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	cartControllers "github.com/yoonic/atlas/controllers/cart"
	checkoutControllers "github.com/yoonic/atlas/controllers/checkout"
	orderControllers "github.com/yoonic/atlas/controllers/order"
	"github.com/yoonic/atlas/email"
	"github.com/yoonic/atlas/models"
	"github.com/yoonic/atlas/payments"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Cart{}, &models.Checkout{}, &models.Order{}, &models.Product{},
	))
	return db
}

type stubSource struct {
	mu        sync.Mutex
	events    map[string]*payments.Event
	confirmed []string
}

func (s *stubSource) FetchEvent(eventID string) (*payments.Event, error) {
	if event, ok := s.events[eventID]; ok {
		return event, nil
	}
	return nil, errors.New("event not found")
}

func (s *stubSource) ConfirmCharge(chargeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = append(s.confirmed, chargeID)
	return nil
}

func (s *stubSource) confirmedCharges() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.confirmed...)
}

type stubSender struct {
	mu   sync.Mutex
	fail bool
	sent []string
}

func (s *stubSender) SendTemplate(t email.Template, to string, data map[string]any, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("mail gateway down")
	}
	s.sent = append(s.sent, t.ID)
	return nil
}

// placeOrder walks the whole funnel: seeded product, cart, ready checkout,
// order in the created state.
func placeOrder(t *testing.T, db *gorm.DB) (*models.Order, *models.Checkout) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{
		ID:      "p1",
		Enabled: true,
		SKU:     "SKU-1",
		Name:    models.LocalizedString{"en": "Shoes"},
		Pricing: models.Pricing{Currency: "EUR", Retail: 10, VAT: 23},
		Stock:   5,
	}).Error)

	cart, err := cartControllers.CreateCart(db, "")
	require.NoError(t, err)
	_, err = cartControllers.UpdateCartProduct(db, cart.ID, "p1", 3)
	require.NoError(t, err)
	cart, err = cartControllers.GetCart(db, cart.ID)
	require.NoError(t, err)

	checkout, err := checkoutControllers.CreateCheckout(db, cart,
		models.JSONMap{"street": "Rua A 1"}, models.JSONMap{"street": "Rua A 1"})
	require.NoError(t, err)
	_, err = checkoutControllers.UpdateCustomerDetails(db, checkout.ID,
		models.Customer{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = checkoutControllers.UpdatePaymentMethod(db, checkout.ID, "bankTransfer")
	require.NoError(t, err)
	checkout, err = checkoutControllers.GetCheckout(db, checkout.ID)
	require.NoError(t, err)

	ready, err := checkoutControllers.IsReady(db, checkout)
	require.NoError(t, err)
	require.True(t, ready)

	customer, err := checkoutControllers.CustomerDetails(db, checkout)
	require.NoError(t, err)
	order, err := orderControllers.CreateOrder(db, checkout.ID, customer)
	require.NoError(t, err)
	return order, checkout
}

func newTestReconciler(db *gorm.DB, source *stubSource, sender *stubSender) *Reconciler {
	return NewReconciler(db, source, sender, true)
}

func TestWebhookHandlerStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	order, _ := placeOrder(t, db)

	call := func(r *Reconciler, orderID string) int {
		router := gin.New()
		router.POST("/v1/orders/:orderId/spwh", r.WebhookHandler())
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/orders/"+orderID+"/spwh?event=ev-1", nil)
		router.ServeHTTP(w, req)
		return w.Code
	}

	source := &stubSource{events: map[string]*payments.Event{}}
	sender := &stubSender{}

	disabled := NewReconciler(db, source, sender, false)
	assert.Equal(t, http.StatusUnauthorized, call(disabled, order.ID))

	enabled := newTestReconciler(db, source, sender)
	assert.Equal(t, http.StatusNotFound, call(enabled, "no-such-order"))
	assert.Equal(t, http.StatusOK, call(enabled, order.ID))

	_, err := orderControllers.UpdateOrderStatus(db, order.ID, models.OrderStatusPaid, "done", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, call(enabled, order.ID))
}

func TestChargeCreatedConfirmsMatchingCharge(t *testing.T) {
	db := testDB(t)
	order, checkout := placeOrder(t, db)

	source := &stubSource{events: map[string]*payments.Event{}}
	r := newTestReconciler(db, source, &stubSender{})

	r.ProcessEvent(order, "missing-event")

	event := &payments.Event{
		ID:   "ev-1",
		Type: payments.EventChargeCreated,
		Charge: payments.Charge{
			ID:         "charge-1",
			ChargeType: checkout.PaymentMethod,
			Amount:     checkout.Total(),
			Metadata:   payments.ChargeMetadata{OrderID: order.ID},
		},
	}
	source.events["ev-1"] = event
	r.ProcessEvent(order, "ev-1")

	require.Eventually(t, func() bool {
		return len(source.confirmedCharges()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "charge-1", source.confirmedCharges()[0])

	reloaded, err := orderControllers.GetOrder(db, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.PaymentLog, 1)
	assert.Equal(t, payments.EventChargeCreated, reloaded.PaymentLog[0].Type)
	assert.Equal(t, models.OrderStatusCreated, reloaded.Status, "charge.created does not move the order")
}

func TestChargeCreatedDropsMismatches(t *testing.T) {
	db := testDB(t)
	order, checkout := placeOrder(t, db)

	mismatches := map[string]payments.Charge{
		"wrong order": {
			ID: "c1", ChargeType: checkout.PaymentMethod, Amount: checkout.Total(),
			Metadata: payments.ChargeMetadata{OrderID: "someone-else"},
		},
		"wrong amount": {
			ID: "c2", ChargeType: checkout.PaymentMethod, Amount: checkout.Total() + 1,
			Metadata: payments.ChargeMetadata{OrderID: order.ID},
		},
		"wrong method": {
			ID: "c3", ChargeType: "cardOnDelivery", Amount: checkout.Total(),
			Metadata: payments.ChargeMetadata{OrderID: order.ID},
		},
	}

	for name, charge := range mismatches {
		source := &stubSource{events: map[string]*payments.Event{
			"ev-1": {ID: "ev-1", Type: payments.EventChargeCreated, Charge: charge},
		}}
		r := newTestReconciler(db, source, &stubSender{})
		r.ProcessEvent(order, "ev-1")

		reloaded, err := orderControllers.GetOrder(db, order.ID)
		require.NoError(t, err)
		assert.Empty(t, reloaded.PaymentLog, name)
		assert.Empty(t, source.confirmedCharges(), name)
	}
}

func TestInstrumentSuccessMovesToPendingPayment(t *testing.T) {
	db := testDB(t)
	order, _ := placeOrder(t, db)

	source := &stubSource{events: map[string]*payments.Event{
		"ev-1": {
			ID:   "ev-1",
			Type: payments.EventInstrumentSuccess,
			Charge: payments.Charge{
				ChargeType: "bankTransfer",
				Metadata:   payments.ChargeMetadata{OrderID: order.ID},
			},
			Instrument: payments.Instrument{
				ID: "instr-1",
				Redirect: map[string]any{
					"parameters": map[string]any{"entity": "12345", "reference": "123456789", "value": "31.40"},
				},
			},
		},
	}}
	sender := &stubSender{}
	r := newTestReconciler(db, source, sender)
	r.ProcessEvent(order, "ev-1")

	reloaded, err := orderControllers.GetOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingPayment, reloaded.Status)
	require.Len(t, reloaded.PaymentLog, 1)
	assert.Equal(t, "instr-1", reloaded.PaymentLog[0].InstrumentID)
	assert.Equal(t, "bankTransfer", reloaded.PaymentLog[0].InstrumentDetails["type"])
	assert.Equal(t, []string{email.TemplateOrderCreated.ID}, sender.sent)
	require.Len(t, reloaded.StatusLog, 1)
	assert.Equal(t, "Email sent successfully", reloaded.StatusLog[0].Description)
}

func TestInstrumentSuccessAdvancesEvenWhenEmailFails(t *testing.T) {
	db := testDB(t)
	order, _ := placeOrder(t, db)

	source := &stubSource{events: map[string]*payments.Event{
		"ev-1": {
			ID:   "ev-1",
			Type: payments.EventInstrumentSuccess,
			Charge: payments.Charge{
				ChargeType: "bankTransfer",
				Metadata:   payments.ChargeMetadata{OrderID: order.ID},
			},
			Instrument: payments.Instrument{ID: "instr-1"},
		},
	}}
	r := newTestReconciler(db, source, &stubSender{fail: true})
	r.ProcessEvent(order, "ev-1")

	reloaded, err := orderControllers.GetOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingPayment, reloaded.Status)
	require.Len(t, reloaded.StatusLog, 1)
	assert.Equal(t, "Email error", reloaded.StatusLog[0].Description)
}

func TestPaymentSuccessMovesToPaid(t *testing.T) {
	db := testDB(t)
	order, _ := placeOrder(t, db)

	source := &stubSource{events: map[string]*payments.Event{
		"ev-1": {
			ID:      "ev-1",
			Type:    payments.EventPaymentSuccess,
			Charge:  payments.Charge{Metadata: payments.ChargeMetadata{OrderID: order.ID}},
			Payment: payments.Payment{ID: "pay-1"},
		},
	}}
	sender := &stubSender{}
	r := newTestReconciler(db, source, sender)
	r.ProcessEvent(order, "ev-1")

	reloaded, err := orderControllers.GetOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, reloaded.Status)
	require.Len(t, reloaded.PaymentLog, 1)
	assert.Equal(t, "pay-1", reloaded.PaymentLog[0].PaymentID)
	assert.Equal(t, []string{email.TemplateOrderPaid.ID}, sender.sent)
}

func TestPaymentAndInstrumentErrors(t *testing.T) {
	for _, eventType := range []string{payments.EventInstrumentError, payments.EventPaymentError} {
		db := testDB(t)
		order, _ := placeOrder(t, db)

		source := &stubSource{events: map[string]*payments.Event{
			"ev-1": {
				ID:     "ev-1",
				Type:   eventType,
				Charge: payments.Charge{Metadata: payments.ChargeMetadata{OrderID: order.ID}},
			},
		}}
		r := newTestReconciler(db, source, &stubSender{})
		r.ProcessEvent(order, "ev-1")

		reloaded, err := orderControllers.GetOrder(db, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaymentError, reloaded.Status, eventType)
		require.Len(t, reloaded.PaymentLog, 1, eventType)
	}
}
