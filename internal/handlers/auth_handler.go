package handlers

import (
	"errors"
	"log"
	"time"

	"freshmarket/internal/middleware"
	"freshmarket/internal/models"
	"freshmarket/internal/nav"
	"freshmarket/internal/services"
	"freshmarket/internal/session"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login, registration and profile maintenance.
type AuthHandler struct {
	authService *services.AuthService
	store       session.Store
	renderer    *ViewRenderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, store session.Store, renderer *ViewRenderer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
		renderer:    renderer,
	}
}

// RegisterPublicRoutes registers the routes reachable without a session.
func (h *AuthHandler) RegisterPublicRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/register", h.HandleRegister)
}

// RegisterSessionRoutes registers the routes that need a live session.
func (h *AuthHandler) RegisterSessionRoutes(router fiber.Router) {
	router.Post("/auth/logout", h.HandleLogout)
	router.Put("/profile", h.HandleUpdateProfile)
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

// HandleLogin authenticates, creates the server-side session and sets
// the session cookie. Invalid credentials render an inline error and
// no state changes.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	role := models.Role(req.UserType)
	if role != models.RoleCustomer && role != models.RoleManager {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "User type must be Customer or Manager",
		})
	}

	if err := h.authService.Authenticate(req.Username, req.Password, role); err != nil {
		status := fiber.StatusUnauthorized
		if errors.Is(err, services.ErrMissingFields) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"view":    nav.ViewLogin,
			"message": err.Error(),
		})
	}

	sess, err := h.store.Create()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create session",
		})
	}

	next, err := nav.Transition(role, sess.State.View, nav.EventLoginSucceeded)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not enter the store",
		})
	}
	sess.State.LoggedIn = true
	sess.State.Role = role
	sess.State.Username = req.Username
	sess.State.View = next

	token, err := h.authService.IssueToken(sess.ID, req.Username, role)
	if err != nil {
		log.Printf("Error issuing token for %s: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not issue session token",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	return h.renderer.Render(c, sess)
}

// RegisterRequest represents the registration form.
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// HandleRegister creates a customer account and sends the user back to
// the login page.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.authService.RegisterCustomer(req.Username, req.Password, req.ConfirmPassword); err != nil {
		return renderAuthError(c, nav.ViewRegistration, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"view":    nav.ViewLogin,
		"message": "Registration successful!",
	})
}

// HandleLogout resets the session identity and clears the cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	sess.State.ResetIdentity()
	if err := h.store.Delete(sess.ID); err != nil {
		log.Printf("Error deleting session %s: %v", sess.ID, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	return c.JSON(fiber.Map{"view": nav.ViewLogin, "message": "Logged out"})
}

// ProfileRequest represents the profile update form.
type ProfileRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// HandleUpdateProfile renames the logged-in customer and/or changes
// their password, then re-issues the session token for the new name.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	if !sess.State.LoggedIn || sess.State.Role != models.RoleCustomer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Only customers can update their profile",
		})
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.authService.UpdateProfile(sess.State.Username, req.Username, req.Password, req.ConfirmPassword); err != nil {
		return renderAuthError(c, sess.State.View, err)
	}
	sess.State.Username = req.Username

	token, err := h.authService.IssueToken(sess.ID, req.Username, sess.State.Role)
	if err != nil {
		log.Printf("Error re-issuing token for %s: %v", req.Username, err)
	} else {
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    token,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Now().Add(24 * time.Hour),
		})
	}
	return c.JSON(fiber.Map{
		"view":    sess.State.View,
		"message": "Profile updated successfully!",
	})
}

// renderAuthError maps validation-class auth errors to inline messages
// without changing view state.
func renderAuthError(c *fiber.Ctx, view nav.View, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrPasswordMismatch):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUsernameTaken):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"view":    view,
		"message": err.Error(),
	})
}
