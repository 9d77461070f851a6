package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"plum/internal/models"
)

// Session keys shared with the auth handler.
const (
	SessionUserSub       = "user_sub"
	SessionRedirectAfter = "redirect_after_login"
)

// UserStore looks up authenticated users.
type UserStore interface {
	GetUserBySub(ctx context.Context, sub string) (*models.User, error)
}

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	users UserStore
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(users UserStore) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// RequireAuth ensures the user is authenticated. API requests get a 401 JSON
// error; page requests are redirected to /login and come back after sign-in.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.loadUser(c)
	if user == nil {
		if isAPIRequest(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "unauthorized",
			})
		}
		if sess := session.FromContext(c); sess != nil {
			sess.Set(SessionRedirectAfter, c.OriginalURL())
		}
		return c.Redirect().To("/login")
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.loadUser(c); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

func (m *AuthMiddleware) loadUser(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	userSub, ok := sess.Get(SessionUserSub).(string)
	if !ok || userSub == "" {
		return nil
	}

	user, err := m.users.GetUserBySub(c.Context(), userSub)
	if err != nil {
		// Stale session: the user no longer exists
		sess.Delete(SessionUserSub)
		return nil
	}
	return user
}

func isAPIRequest(c fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// CurrentUser returns the user stored by RequireAuth/OptionalAuth, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
