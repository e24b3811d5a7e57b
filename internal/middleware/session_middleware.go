package middleware

import (
	"log"
	"strings"

	"freshmarket/internal/models"
	"freshmarket/internal/services"
	"freshmarket/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "fm_session"

// SessionKey is the fiber.Ctx local under which the session is stored.
const SessionKey = "session"

// SessionRequired validates the session token (cookie or bearer
// header) and loads the server-side session into the request context.
func SessionRequired(authService *services.AuthService, store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please log in first",
			})
		}

		sid, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("Session token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		sess, err := store.Get(sid)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Session expired, please log in again",
			})
		}

		c.Locals(SessionKey, sess)
		return c.Next()
	}
}

// Current returns the session loaded by SessionRequired.
func Current(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(SessionKey).(*session.Session)
	return sess
}

// RoleRequired rejects requests whose session is not logged in with
// the given role.
func RoleRequired(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := Current(c)
		if sess == nil || !sess.State.LoggedIn || sess.State.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You do not have access to this page",
			})
		}
		return c.Next()
	}
}
