package handlers

import (
	"errors"
	"log"
	"time"

	"freshmarket/internal/middleware"
	"freshmarket/internal/models"
	"freshmarket/internal/nav"
	"freshmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles order confirmation.
type OrderHandler struct {
	orders   *services.OrderService
	renderer *ViewRenderer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, renderer *ViewRenderer) *OrderHandler {
	return &OrderHandler{orders: orders, renderer: renderer}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	customer := router.Group("", middleware.RoleRequired(models.RoleCustomer))
	customer.Post("/checkout/confirm", h.HandleConfirm)
}

// HandleConfirm turns the cart into a persisted order. Only valid from
// the checkout view; on success the cart is cleared and the session
// returns to the products page.
func (h *OrderHandler) HandleConfirm(c *fiber.Ctx) error {
	sess := middleware.Current(c)

	next, err := nav.Transition(sess.State.Role, sess.State.View, nav.EventOrderConfirmed)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"view":    sess.State.View,
			"message": "Please proceed to checkout first",
		})
	}

	orderID, summary, err := h.orders.Confirm(sess.State.Username, sess.State.Cart, time.Now())
	if errors.Is(err, services.ErrEmptyCart) {
		return c.JSON(fiber.Map{"view": sess.State.View, "warning": err.Error()})
	}
	if err != nil {
		log.Printf("Error confirming order for %s: %v", sess.State.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"view":    sess.State.View,
			"message": "Could not confirm order",
			"error":   err.Error(),
		})
	}

	sess.State.View = next
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"view":     sess.State.View,
		"message":  "Thank you for your order! Your purchase has been added to your shopping history.",
		"order_id": orderID,
		"summary":  summary,
	})
}
