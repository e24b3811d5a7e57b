package handlers

import (
	"errors"

	"freshmarket/internal/middleware"
	"freshmarket/internal/models"
	"freshmarket/internal/nav"
	"freshmarket/internal/session"

	"github.com/gofiber/fiber/v2"
)

// NavHandler exposes the navigation state machine: button events come
// in, the session's view moves, and the new view is rendered.
type NavHandler struct {
	renderer *ViewRenderer
}

// NewNavHandler creates a new NavHandler.
func NewNavHandler(renderer *ViewRenderer) *NavHandler {
	return &NavHandler{renderer: renderer}
}

// RegisterRoutes registers the navigation routes.
func (h *NavHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/view", h.HandleView)
	router.Post("/nav", h.HandleEvent)
	router.Post("/catalog/search", h.HandleSearch)
	router.Post("/catalog/category", h.HandleCategory)
	router.Post("/catalog/page", h.HandlePage)
}

// HandleView re-renders the current view without any event.
func (h *NavHandler) HandleView(c *fiber.Ctx) error {
	return h.renderer.Render(c, middleware.Current(c))
}

// NavRequest carries one button event.
type NavRequest struct {
	Event string `json:"event"`
}

// HandleEvent runs one transition. An event that is invalid for the
// current (role, view) renders an inline error and keeps the view.
func (h *NavHandler) HandleEvent(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req NavRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	ev := nav.Event(req.Event)
	next, err := nav.Transition(sess.State.Role, sess.State.View, ev)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"view":    sess.State.View,
			"message": "That action is not available here",
		})
	}

	applyEventSideEffects(sess, ev)
	sess.State.View = next
	return h.renderer.Render(c, sess)
}

// applyEventSideEffects mirrors what the buttons do beyond moving the
// view: going home drops the active search, logging out resets the
// whole identity.
func applyEventSideEffects(sess *session.Session, ev nav.Event) {
	switch ev {
	case nav.EventHome:
		if sess.State.Role == models.RoleCustomer {
			sess.State.CustomerSearch = ""
		}
	case nav.EventLogout:
		sess.State.ResetIdentity()
	}
}

// SearchRequest carries the search box contents.
type SearchRequest struct {
	Query string `json:"query"`
}

// HandleSearch stores the search query for the caller's role and moves
// to the matching results view.
func (h *NavHandler) HandleSearch(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	next, err := nav.Transition(sess.State.Role, sess.State.View, nav.EventSearch)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"view":    sess.State.View,
			"message": "Search is not available here",
		})
	}

	switch sess.State.Role {
	case models.RoleManager:
		sess.State.ManagerSearch = req.Query
		sess.State.ManagerCurrentPage = 1
	default:
		sess.State.CustomerSearch = req.Query
		sess.State.CurrentPage = 1
	}
	sess.State.View = next
	return h.renderer.Render(c, sess)
}

// CategoryRequest carries the category selection.
type CategoryRequest struct {
	Category string `json:"category"`
}

// HandleCategory stores the category filter and resets the pagination
// cursor for the caller's role.
func (h *NavHandler) HandleCategory(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	sess.State.Category = req.Category
	if sess.State.Role == models.RoleManager {
		sess.State.ManagerCurrentPage = 1
	} else {
		sess.State.CurrentPage = 1
	}
	return h.renderer.Render(c, sess)
}

// PageRequest selects the pagination direction.
type PageRequest struct {
	Direction string `json:"direction"` // "next" or "previous"
}

var errBadDirection = errors.New(`direction must be "next" or "previous"`)

// HandlePage moves the pagination cursor for the caller's role. The
// renderer clamps it into range against the filtered catalog.
func (h *NavHandler) HandlePage(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	var req PageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	delta := 0
	switch req.Direction {
	case "next":
		delta = 1
	case "previous":
		delta = -1
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": errBadDirection.Error(),
		})
	}

	if sess.State.Role == models.RoleManager {
		sess.State.ManagerCurrentPage = clampPage(sess.State.ManagerCurrentPage + delta)
	} else {
		sess.State.CurrentPage = clampPage(sess.State.CurrentPage + delta)
	}
	return h.renderer.Render(c, sess)
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
