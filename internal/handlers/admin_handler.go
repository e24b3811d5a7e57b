package handlers

import (
	"errors"
	"log"

	"freshmarket/internal/middleware"
	"freshmarket/internal/models"
	"freshmarket/internal/nav"
	"freshmarket/internal/services"
	"freshmarket/internal/session"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the manager console: product CRUD, the sidebar
// form flags, manager registration and customer management.
type AdminHandler struct {
	products    *services.ProductService
	authService *services.AuthService
	renderer    *ViewRenderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(products *services.ProductService, authService *services.AuthService, renderer *ViewRenderer) *AdminHandler {
	return &AdminHandler{
		products:    products,
		authService: authService,
		renderer:    renderer,
	}
}

// RegisterRoutes registers the console routes; every one of them is
// manager-gated.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin", middleware.RoleRequired(models.RoleManager))
	admin.Post("/products", h.HandleCreateProduct)
	admin.Put("/products", h.HandleUpdateProduct)
	admin.Delete("/products", h.HandleDeleteProduct)
	admin.Post("/forms/add", h.HandleShowAddForm)
	admin.Post("/forms/edit", h.HandleShowEditForm)
	admin.Post("/forms/cancel", h.HandleCancelForms)
	admin.Post("/managers", h.HandleRegisterManager)
	admin.Put("/customers", h.HandleUpdateCustomer)
	admin.Delete("/customers", h.HandleDeleteCustomer)
}

// HandleCreateProduct validates and inserts a catalog entry, then
// closes the add form and re-renders.
func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var p models.Product
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.products.CreateProduct(&p); err != nil {
		return renderCatalogError(c, sess, err)
	}
	sess.State.ShowAddForm = false
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"view":    sess.State.View,
		"message": "Product added successfully!",
	})
}

// UpdateProductRequest carries an edit keyed by the old identity.
type UpdateProductRequest struct {
	OldName  string `json:"old_name"`
	OldBrand string `json:"old_brand"`
	services.ProductUpdate
}

// HandleUpdateProduct applies the edit form, then closes it.
func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.OldName == "" {
		if t := sess.State.EditTarget; t != nil {
			req.OldName, req.OldBrand = t.ProductName, t.Brand
		}
	}

	if err := h.products.UpdateProduct(req.OldName, req.OldBrand, req.ProductUpdate); err != nil {
		return renderCatalogError(c, sess, err)
	}
	sess.State.ShowEditForm = false
	sess.State.EditTarget = nil
	return c.JSON(fiber.Map{
		"view":    sess.State.View,
		"message": "Product updated successfully!",
	})
}

// DeleteProductRequest identifies the row to delete.
type DeleteProductRequest struct {
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
}

// HandleDeleteProduct removes a catalog row. Orders referencing it
// survive; the forecasting panel zero-fills the missing metadata.
func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req DeleteProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.products.DeleteProduct(req.ProductName, req.Brand); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"view":    sess.State.View,
			"message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"view":    sess.State.View,
		"message": "Product deleted successfully!",
	})
}

// HandleShowAddForm opens the add-product form; the edit form closes
// per the explicit priority rule.
func (h *AdminHandler) HandleShowAddForm(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	sess.State.ShowAddForm = true
	sess.State.ShowEditForm = false
	sess.State.EditTarget = nil
	return h.renderer.Render(c, sess)
}

// EditFormRequest selects the product being edited.
type EditFormRequest struct {
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
}

// HandleShowEditForm opens the edit form for one product; the add form
// closes.
func (h *AdminHandler) HandleShowEditForm(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req EditFormRequest
	if err := c.BodyParser(&req); err != nil || req.ProductName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_name is required",
		})
	}
	sess.State.ShowEditForm = true
	sess.State.ShowAddForm = false
	sess.State.EditTarget = &session.EditTarget{ProductName: req.ProductName, Brand: req.Brand}
	return h.renderer.Render(c, sess)
}

// HandleCancelForms closes both sidebar forms.
func (h *AdminHandler) HandleCancelForms(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	sess.State.ShowAddForm = false
	sess.State.ShowEditForm = false
	sess.State.EditTarget = nil
	return h.renderer.Render(c, sess)
}

// HandleRegisterManager creates a manager account from the console.
// The session continues as the newly registered manager, the way the
// source console behaved.
func (h *AdminHandler) HandleRegisterManager(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.authService.RegisterManager(req.Username, req.Password, req.ConfirmPassword); err != nil {
		return renderAuthError(c, sess.State.View, err)
	}

	if next, err := nav.Transition(sess.State.Role, sess.State.View, nav.EventManagerRegistered); err == nil {
		sess.State.View = next
	}
	sess.State.Username = req.Username
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"view":    sess.State.View,
		"message": "Manager registration successful!",
	})
}

// CustomerUpdateRequest carries a manager's edit of a customer account.
type CustomerUpdateRequest struct {
	Name        string `json:"name"`
	NewName     string `json:"new_name"`
	NewPassword string `json:"new_password"`
}

// HandleUpdateCustomer renames/re-credentials a customer account.
func (h *AdminHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req CustomerUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.authService.UpdateCustomer(req.Name, req.NewName, req.NewPassword); err != nil {
		return renderAuthError(c, sess.State.View, err)
	}
	return c.JSON(fiber.Map{
		"view":    sess.State.View,
		"message": "Customer details updated successfully!",
	})
}

// CustomerDeleteRequest names the account to delete.
type CustomerDeleteRequest struct {
	Name string `json:"name"`
}

// HandleDeleteCustomer removes a customer account.
func (h *AdminHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req CustomerDeleteRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "name is required",
		})
	}

	if err := h.authService.DeleteCustomer(req.Name); err != nil {
		log.Printf("Error deleting customer %s: %v", req.Name, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"view":    sess.State.View,
			"message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"view":    sess.State.View,
		"message": "Customer deleted successfully!",
	})
}

// renderCatalogError maps catalog validation errors to inline messages
// without changing view state.
func renderCatalogError(c *fiber.Ctx, sess *session.Session, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidBrand),
		errors.Is(err, services.ErrInvalidURL):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrDuplicateProduct):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"view":    sess.State.View,
		"message": err.Error(),
	})
}
