package handlers

import (
	"net/url"
	"strings"
	"time"

	"immoportal/internal/domain"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind string // success | error | info
	Msg  string
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	// Pick up the token the CSRF middleware put into Locals
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if tok := c.Cookies("csrf_"); tok != "" {
		data["CSRFToken"] = tok
	}
	if _, ok := data["Flash"]; !ok {
		if f := popFlash(c); f != nil {
			data["Flash"] = f
		}
	}
	data["Path"] = c.Path()
	data["Year"] = time.Now().Year()
	return c.Render(tmpl, data)
}

// notFound renders the friendly 404 page.
func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg, "User": currentUser(c)})
}

func setFlash(c *fiber.Ctx, kind, msg string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Minute),
	})
}

func popFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.ClearCookie(flashCookie)
	v, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(v, "|")
	if !ok || msg == "" {
		return nil
	}
	switch kind {
	case "success", "error", "info":
	default:
		kind = "info"
	}
	return &Flash{Kind: kind, Msg: msg}
}

// redirectWith sets a flash message for the page at `to` and redirects.
func redirectWith(c *fiber.Ctx, to, kind, msg string) error {
	setFlash(c, kind, msg)
	return c.Redirect(to)
}

func currentUser(c *fiber.Ctx) *domain.Profile {
	u, _ := c.Locals("user").(*domain.Profile)
	return u
}
