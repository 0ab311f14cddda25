package handlers

import (
	"strings"

	"immoportal/internal/domain"
	applog "immoportal/internal/log"
	"immoportal/internal/services"

	"github.com/gofiber/fiber/v2"
)

const sessionCookie = "session"

// sessionToken reads the session cookie, falling back to a Bearer token.
func sessionToken(c *fiber.Ctx) string {
	if tok := c.Cookies(sessionCookie); tok != "" {
		return tok
	}
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// LoadSession attaches the signed-in profile, if any, to the request.
func LoadSession(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := sessionToken(c); tok != "" {
			if u, err := auth.Session(c.UserContext(), tok); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals(applog.UserIDKey, u.ID)
			}
		}
		return c.Next()
	}
}

// RequireAuth sends anonymous visitors to the sign-in page.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return redirectWith(c, "/auth/signin", "info", "Please sign in to continue.")
		}
		return c.Next()
	}
}

// RequireRole lets through only the given roles; others are sent back to
// their dashboard.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return redirectWith(c, "/auth/signin", "info", "Please sign in to continue.")
		}
		for _, r := range roles {
			if u.Role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"role": u.Role, "need": roles})
		return redirectWith(c, "/dashboard", "error", "You do not have access to that page.")
	}
}
