package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"net/mail"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/controllers/api"
	cartControllers "github.com/yoonic/atlas/controllers/cart"
	checkoutControllers "github.com/yoonic/atlas/controllers/checkout"
	"github.com/yoonic/atlas/email"
	"github.com/yoonic/atlas/middleware"
	"github.com/yoonic/atlas/models"
	"github.com/yoonic/atlas/payments"
)

type createOrderRequest struct {
	CheckoutID string `json:"checkoutId" binding:"required"`
}

type orderPatch struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

type orderEmailRequest struct {
	Template string `json:"template" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
}

// GET /v1/orders
// Admins see everything; everyone else is locked to their own orders.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := OrderFilters{}
		userID, _ := middleware.CurrentUserID(c)
		if !middleware.IsAdmin(c) {
			filters.UserID = userID
		}

		if requested := c.Query("userId"); requested != "" {
			if filters.UserID == "" {
				filters.UserID = requested
			} else if requested != filters.UserID {
				api.InvalidParams(c, "userId", "Invalid")
				return
			}
		}

		switch c.Query("open") {
		case "":
		case "true":
			v := true
			filters.Open = &v
		case "false":
			v := false
			filters.Open = &v
		default:
			api.InvalidParams(c, "open", "Must be a boolean")
			return
		}

		items, count, err := FindOrders(db, filters)
		if err != nil {
			log.Printf("order: list failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"pagination": gin.H{
				"totalItems": count,
			},
		})
	}
}

// POST /v1/orders
// Creates an order from a ready checkout, then archives the originating
// cart and checkout.
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			api.InvalidParams(c, "checkoutId", "This field is required")
			return
		}

		userID, _ := middleware.CurrentUserID(c)
		checkout, err := checkoutControllers.GetCheckoutIfAllowed(db, req.CheckoutID, userID, c.Query("accessToken"))
		if err != nil {
			if errors.Is(err, models.ErrPermissionDenied) {
				api.InvalidParams(c, "checkoutId", "Invalid")
			} else {
				log.Printf("order: unable to get checkout: %v", err)
				api.Internal(c)
			}
			return
		}
		if checkout == nil {
			log.Printf("order: cannot create, checkout %s is invalid", req.CheckoutID)
			api.InvalidParams(c, "checkoutId", "Invalid")
			return
		}
		if checkout.Archived {
			log.Printf("order: cannot create, checkout %s is archived", checkout.ID)
			api.InvalidParams(c, "checkoutId", "Archived")
			return
		}
		ready, err := checkoutControllers.IsReady(db, checkout)
		if err != nil {
			log.Printf("order: readiness check failed: %v", err)
			api.Internal(c)
			return
		}
		if !ready {
			log.Printf("order: cannot create, checkout %s is not ready", checkout.ID)
			api.InvalidParams(c, "checkoutId", "Not ready")
			return
		}

		customer, err := checkoutControllers.CustomerDetails(db, checkout)
		if err != nil {
			log.Printf("order: unable to resolve customer: %v", err)
			api.Internal(c)
			return
		}
		order, err := CreateOrder(db, checkout.ID, customer)
		if err != nil {
			log.Printf("order: create failed: %v", err)
			api.Internal(c)
			return
		}

		// The cart and checkout are done once an order exists.
		if _, err := cartControllers.ArchiveCart(db, checkout.Cart.ID); err != nil {
			log.Printf("order: unable to archive cart %s: %v", checkout.Cart.ID, err)
		}
		if _, err := checkoutControllers.ArchiveCheckout(db, checkout.ID); err != nil {
			log.Printf("order: unable to archive checkout %s: %v", checkout.ID, err)
		}

		c.JSON(http.StatusCreated, order)
	}
}

// GET /v1/orders/:orderId
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := GetOrder(db, c.Param("orderId"))
		if err != nil {
			log.Printf("order: get failed: %v", err)
			api.Internal(c)
			return
		}
		if order == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		if !middleware.IsAdmin(c) {
			userID, _ := middleware.CurrentUserID(c)
			if order.Customer.UserID == "" || order.Customer.UserID != userID {
				log.Printf("order: user %q tried to fetch order %s that does not belong to them", userID, order.ID)
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		c.JSON(http.StatusOK, order)
	}
}

// PATCH /v1/orders/:orderId (admin)
// Status updates append to the log; closed orders reject everything.
func PatchOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := GetOrder(db, c.Param("orderId"))
		if err != nil {
			log.Printf("order: get failed: %v", err)
			api.Internal(c)
			return
		}
		if order == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		if order.Status.Closed() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order is closed"})
			return
		}

		var payload orderPatch
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}
		if payload.Status == "" {
			api.InvalidParams(c, "status", "This field is required")
			return
		}
		if payload.Description == "" {
			api.InvalidParams(c, "description", "This field is required")
			return
		}

		updated, err := UpdateOrderStatus(db, order.ID, models.OrderStatus(payload.Status), payload.Description, nil)
		if err != nil {
			if ve, ok := models.AsValidationError(err); ok {
				api.InvalidParams(c, ve.Param, ve.Message)
				return
			}
			log.Printf("order: unable to update order %s status: %v", order.ID, err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// POST /v1/orders/:orderId/email (admin)
// Re-sends one of the transactional order emails.
func SendOrderEmailHandler(db *gorm.DB, mailer email.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		req.Email = email.SanitizeAddress(req.Email)
		if _, err := mail.ParseAddress(req.Email); err != nil {
			api.InvalidParams(c, "email", "Must be a valid email")
			return
		}

		order, err := GetOrder(db, c.Param("orderId"))
		if err != nil {
			log.Printf("order: get failed: %v", err)
			api.Internal(c)
			return
		}
		if order == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		template, ok := email.ValidTemplate(req.Template)
		if !ok {
			api.InvalidParams(c, "template", "Invalid")
			return
		}
		if template.ID == email.TemplateOrderPaid.ID && order.Status != models.OrderStatusPaid {
			api.InvalidParams(c, "template", "Order is not paid")
			return
		}
		if template.ID == email.TemplateOrderPendingPayment.ID && order.Status != models.OrderStatusPendingPayment {
			api.InvalidParams(c, "template", "Order is not pending payment")
			return
		}

		data, err := buildOrderEmailData(db, order, template)
		if err != nil {
			log.Printf("order: unable to build %q email: %v", template.ID, err)
			api.Internal(c)
			return
		}
		if err := mailer.SendTemplate(template, req.Email, data, req.Subject); err != nil {
			log.Printf("order: unable to send %q email: %v", template.ID, err)
			api.Internal(c)
			return
		}
		c.Status(http.StatusCreated)
	}
}

// buildOrderEmailData assembles the template payload. The created template
// carries the full checkout plus any instrument details already logged.
func buildOrderEmailData(db *gorm.DB, order *models.Order, template email.Template) (map[string]any, error) {
	if template.ID != email.TemplateOrderCreated.ID {
		return map[string]any{"order": order}, nil
	}

	checkout, err := checkoutControllers.GetCheckout(db, order.CheckoutID)
	if err != nil {
		return nil, err
	}
	var instrumentDetails models.JSONMap
	for _, entry := range order.PaymentLog {
		if entry.Type == payments.EventInstrumentSuccess {
			instrumentDetails = entry.InstrumentDetails
			break
		}
	}
	data := map[string]any{
		"customerDetails":   order.Customer,
		"order":             order,
		"instrumentDisplay": payments.InstrumentDisplay(instrumentDetails),
	}
	if checkout != nil {
		data["checkout"] = checkout
		if shipping, ok := checkout.ShippingDetails(); ok {
			data["shippingDetails"] = shipping
		}
	}
	return data, nil
}
