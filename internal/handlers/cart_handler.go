package handlers

import (
	"freshmarket/internal/cart"
	"freshmarket/internal/middleware"
	"freshmarket/internal/models"
	"freshmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the cart and recommended-cart button events.
type CartHandler struct {
	products *services.ProductService
	renderer *ViewRenderer
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(products *services.ProductService, renderer *ViewRenderer) *CartHandler {
	return &CartHandler{products: products, renderer: renderer}
}

// RegisterRoutes registers the cart routes. All of them require a
// logged-in customer.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	customer := router.Group("", middleware.RoleRequired(models.RoleCustomer))
	customer.Post("/cart/add", h.HandleAdd)
	customer.Post("/cart/increment", h.HandleIncrement)
	customer.Post("/cart/decrement", h.HandleDecrement)
	customer.Post("/cart/remove", h.HandleRemove)
	customer.Post("/recommended/increment", h.HandleRecommendedIncrement)
	customer.Post("/recommended/decrement", h.HandleRecommendedDecrement)
	customer.Post("/recommended/remove", h.HandleRecommendedRemove)
	customer.Post("/recommended/merge", h.HandleRecommendedMerge)
}

// CartRequest names the product a cart button acts on.
type CartRequest struct {
	ProductName string `json:"product_name"`
}

func (h *CartHandler) bind(c *fiber.Ctx) (*CartRequest, error) {
	var req CartRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	if req.ProductName == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "product_name is required")
	}
	return &req, nil
}

// HandleAdd appends one occurrence of the product to the cart. The
// add-to-cart button checks the product exists; quantities are not
// bounded by stock.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	req, err := h.bind(c)
	if err != nil {
		return badCartRequest(c, err)
	}
	if _, err := h.products.GetByName(req.ProductName); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"view":    sess.State.View,
			"message": "Product not found",
		})
	}
	sess.State.Cart.Add(req.ProductName)
	return h.renderer.Render(c, sess)
}

// HandleIncrement adds one occurrence from the cart view.
func (h *CartHandler) HandleIncrement(c *fiber.Ctx) error {
	return h.mutate(c, func(ct *cart.Cart, name string) { ct.Increment(name) })
}

// HandleDecrement removes one occurrence; the last one removes the row.
func (h *CartHandler) HandleDecrement(c *fiber.Ctx) error {
	return h.mutate(c, func(ct *cart.Cart, name string) { ct.Decrement(name) })
}

// HandleRemove deletes every occurrence of the product.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	return h.mutate(c, func(ct *cart.Cart, name string) { ct.Remove(name) })
}

func (h *CartHandler) mutate(c *fiber.Ctx, op func(*cart.Cart, string)) error {
	sess := middleware.Current(c)
	req, err := h.bind(c)
	if err != nil {
		return badCartRequest(c, err)
	}
	op(sess.State.Cart, req.ProductName)
	return h.renderer.Render(c, sess)
}

// HandleRecommendedIncrement adds one occurrence to the recommended cart.
func (h *CartHandler) HandleRecommendedIncrement(c *fiber.Ctx) error {
	return h.mutateRecommended(c, func(ct *cart.Cart, name string) { ct.Increment(name) })
}

// HandleRecommendedDecrement removes one occurrence from the recommended cart.
func (h *CartHandler) HandleRecommendedDecrement(c *fiber.Ctx) error {
	return h.mutateRecommended(c, func(ct *cart.Cart, name string) { ct.Decrement(name) })
}

// HandleRecommendedRemove deletes the product from the recommended cart.
func (h *CartHandler) HandleRecommendedRemove(c *fiber.Ctx) error {
	return h.mutateRecommended(c, func(ct *cart.Cart, name string) { ct.Remove(name) })
}

func (h *CartHandler) mutateRecommended(c *fiber.Ctx, op func(*cart.Cart, string)) error {
	sess := middleware.Current(c)
	req, err := h.bind(c)
	if err != nil {
		return badCartRequest(c, err)
	}
	op(sess.State.RecommendedCart, req.ProductName)
	return h.renderer.Render(c, sess)
}

// HandleRecommendedMerge moves the whole recommended cart into the
// main cart.
func (h *CartHandler) HandleRecommendedMerge(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	sess.State.Cart.Merge(sess.State.RecommendedCart)
	return c.JSON(fiber.Map{
		"view":    sess.State.View,
		"message": "Recommended products added to your cart.",
		"items":   sess.State.Cart.Items(),
	})
}

func badCartRequest(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
